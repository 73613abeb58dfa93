package zabbix

import (
	"context"
	"fmt"
	"time"
)

// ItemQuery selects items of one host by exact key.
type ItemQuery struct {
	HostID string
	Key    string
	Output []string // item fields to return, e.g. "lastvalue" or "itemid"
	Limit  int      // 0 means 1
}

// HistoryQuery selects history samples of one item in a time window.
type HistoryQuery struct {
	ItemID    string
	ValueType int // HistoryFloat, HistoryUnsigned, ...
	From      time.Time
	Till      time.Time
}

// API issues typed Zabbix calls through an authenticated Session.
type API struct {
	session       *Session
	groupSelector string
}

// NewAPI creates an API over the session. groupSelector is the host.get
// parameter used to select host groups ("selectGroups" or
// "selectHostGroups").
func NewAPI(session *Session, groupSelector string) *API {
	if groupSelector == "" {
		groupSelector = "selectGroups"
	}
	return &API{session: session, groupSelector: groupSelector}
}

// Session returns the underlying session.
func (a *API) Session() *Session {
	return a.session
}

func (a *API) hostParams() map[string]any {
	return map[string]any{
		"output":                []string{"hostid", "host", "name", "status"},
		"selectInterfaces":      []string{"ip", "type"},
		a.groupSelector:         []string{"name"},
		"selectInventory":       []string{"macaddress_a", "macaddress_b"},
		"selectParentTemplates": []string{"name"},
	}
}

// Hosts returns every host visible to the API user.
func (a *API) Hosts(ctx context.Context) ([]Host, error) {
	var hosts []Host
	if err := a.session.Call(ctx, "host.get", a.hostParams(), &hosts); err != nil {
		return nil, fmt.Errorf("list hosts: %w", err)
	}
	return hosts, nil
}

// HostByID returns a single host, or nil when no host has that id.
func (a *API) HostByID(ctx context.Context, hostID string) (*Host, error) {
	params := a.hostParams()
	params["hostids"] = hostID

	var hosts []Host
	if err := a.session.Call(ctx, "host.get", params, &hosts); err != nil {
		return nil, fmt.Errorf("get host %s: %w", hostID, err)
	}
	if len(hosts) == 0 {
		return nil, nil
	}
	return &hosts[0], nil
}

// Items returns items of a host whose key matches q.Key exactly.
func (a *API) Items(ctx context.Context, q ItemQuery) ([]Item, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 1
	}
	output := q.Output
	if len(output) == 0 {
		output = []string{"itemid", "lastvalue"}
	}
	params := map[string]any{
		"output":  output,
		"hostids": q.HostID,
		"filter":  map[string]string{"key_": q.Key},
		"limit":   limit,
	}

	var items []Item
	if err := a.session.Call(ctx, "item.get", params, &items); err != nil {
		return nil, fmt.Errorf("get item %q on host %s: %w", q.Key, q.HostID, err)
	}
	return items, nil
}

// History returns samples of one item ordered by clock ascending.
func (a *API) History(ctx context.Context, q HistoryQuery) ([]HistoryRecord, error) {
	params := map[string]any{
		"output":    "extend",
		"history":   q.ValueType,
		"itemids":   q.ItemID,
		"sortfield": "clock",
		"sortorder": "ASC",
		"time_from": q.From.Unix(),
		"time_till": q.Till.Unix(),
	}

	var records []HistoryRecord
	if err := a.session.Call(ctx, "history.get", params, &records); err != nil {
		return nil, fmt.Errorf("get history for item %s: %w", q.ItemID, err)
	}
	return records, nil
}
