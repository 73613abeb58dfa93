package collector

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/HerbHall/netpanel/internal/zabbix"
	"go.uber.org/zap"
)

// ItemReader reads the latest value of host items. Plans depend on this
// interface rather than on Fetcher.
type ItemReader interface {
	ItemValue(ctx context.Context, hostID, key string) *float64
	FirstPresent(ctx context.Context, hostID string, keys ...string) *float64
}

// Fetcher reads latest item values, one upstream round trip per key.
//
// A nil result means the item does not exist or the lookup failed. An item
// that exists with an empty or non-numeric value reads as 0.
type Fetcher struct {
	api    Upstream
	logger *zap.Logger
}

var _ ItemReader = (*Fetcher)(nil)

// NewFetcher creates a Fetcher over api.
func NewFetcher(api Upstream, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{api: api, logger: logger}
}

// ItemValue returns the last value of the item with the exact key on the
// host.
func (f *Fetcher) ItemValue(ctx context.Context, hostID, key string) *float64 {
	items, err := f.api.Items(ctx, zabbix.ItemQuery{
		HostID: hostID,
		Key:    key,
		Output: []string{"lastvalue"},
		Limit:  1,
	})
	if err != nil {
		f.logger.Warn("item lookup failed",
			zap.String("host_id", hostID),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil
	}
	if len(items) == 0 {
		return nil
	}
	v := parseLastValue(items[0].LastValue)
	return &v
}

// FirstPresent tries keys in order and returns the first value found. Keys
// after the first hit are not queried.
func (f *Fetcher) FirstPresent(ctx context.Context, hostID string, keys ...string) *float64 {
	for _, key := range keys {
		if v := f.ItemValue(ctx, hostID, key); v != nil && !math.IsNaN(*v) {
			return v
		}
	}
	return nil
}

var leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// parseLastValue parses the longest numeric prefix of s. Anything that does
// not start with a number, and any non-finite result, reads as 0.
func parseLastValue(s string) float64 {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		m := leadingFloat.FindString(s)
		if m == "" {
			return 0
		}
		if v, err = strconv.ParseFloat(m, 64); err != nil {
			return 0
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
