// Package collector turns Zabbix hosts and items into the normalized
// records served to the dashboard.
package collector

import (
	"context"

	"github.com/HerbHall/netpanel/internal/zabbix"
)

// Upstream is the subset of the Zabbix API the collector reads from.
// *zabbix.API satisfies it.
type Upstream interface {
	Hosts(ctx context.Context) ([]zabbix.Host, error)
	HostByID(ctx context.Context, hostID string) (*zabbix.Host, error)
	Items(ctx context.Context, q zabbix.ItemQuery) ([]zabbix.Item, error)
	History(ctx context.Context, q zabbix.HistoryQuery) ([]zabbix.HistoryRecord, error)
}

var _ Upstream = (*zabbix.API)(nil)
