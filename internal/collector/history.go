package collector

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/HerbHall/netpanel/internal/zabbix"
	"github.com/HerbHall/netpanel/pkg/models"
	"go.uber.org/zap"
)

// ErrUnknownMetric is returned by History.Metric for names outside the
// metric table.
var ErrUnknownMetric = errors.New("unknown history metric")

// DefaultHistoryWindow is the trailing window of every series.
const DefaultHistoryWindow = 24 * time.Hour

const bytesPerGiB = 1024 * 1024 * 1024

// Formatter converts a raw history value.
type Formatter func(raw string) float64

// ParseFloat is the default formatter.
func ParseFloat(raw string) float64 {
	return parseLastValue(raw)
}

// BytesToGiB parses a byte count and converts it to GiB.
func BytesToGiB(raw string) float64 {
	return parseLastValue(raw) / bytesPerGiB
}

// historyMetric describes one served history series.
type historyMetric struct {
	keys      []string
	valueType int
	format    Formatter
}

// historyMetrics is the table behind GET /history/{id}/{metric}. ram is
// handled separately by History.RAM.
var historyMetrics = map[string]historyMetric{
	"cpu":               {keys: []string{keyComputerCPU}, valueType: zabbix.HistoryFloat},
	"disk":              {keys: []string{"vfs.fs.size[/,pused]", "vfs.fs.size[C:,pused]"}, valueType: zabbix.HistoryFloat},
	"firewall-sessions": {keys: []string{keyFortiSessions}, valueType: zabbix.HistoryUnsigned},
	"storage-used":      {keys: nasStorageKeys, valueType: zabbix.HistoryFloat},
	"poe-power":         {keys: poePowerKeys, valueType: zabbix.HistoryFloat},
	"ports-up":          {keys: portsUpKeys, valueType: zabbix.HistoryUnsigned},
}

// MetricNames returns the names accepted by History.Metric.
func MetricNames() []string {
	return []string{"ram", "cpu", "disk", "firewall-sessions", "storage-used", "poe-power", "ports-up"}
}

// canonicalMetric maps the underscore spellings used by the shipped UI
// (fw_sessions, storage_used, ...) to the canonical names.
func canonicalMetric(name string) string {
	name = strings.ToLower(strings.ReplaceAll(name, "_", "-"))
	if name == "fw-sessions" {
		return "firewall-sessions"
	}
	return name
}

// History reads item history over a trailing window. Upstream failures
// read as an empty series.
type History struct {
	api    Upstream
	window time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewHistory creates a History adapter. window <= 0 uses
// DefaultHistoryWindow.
func NewHistory(api Upstream, window time.Duration, logger *zap.Logger) *History {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &History{api: api, window: window, logger: logger, now: time.Now}
}

// Metric returns the named series for a host.
func (h *History) Metric(ctx context.Context, hostID, name string) ([]models.HistoryPoint, error) {
	name = canonicalMetric(name)
	if name == "ram" {
		return h.RAM(ctx, hostID), nil
	}
	m, ok := historyMetrics[name]
	if !ok {
		return nil, ErrUnknownMetric
	}
	return h.SeriesFirstPresent(ctx, hostID, m.keys, m.valueType, m.format), nil
}

// Series returns the history of the item with the exact key, ascending by
// time. A missing item yields an empty series.
func (h *History) Series(ctx context.Context, hostID, key string, valueType int, format Formatter) []models.HistoryPoint {
	return h.SeriesFirstPresent(ctx, hostID, []string{key}, valueType, format)
}

// SeriesFirstPresent is Series for the first key that resolves to an
// existing item.
func (h *History) SeriesFirstPresent(ctx context.Context, hostID string, keys []string, valueType int, format Formatter) []models.HistoryPoint {
	item, ok := h.resolve(ctx, hostID, keys)
	if !ok {
		return []models.HistoryPoint{}
	}
	return h.fetch(ctx, hostID, item, valueType, format)
}

// RAM returns memory usage history as a percentage when possible.
//
// Tiers: the first percentage item with samples; else used bytes divided by the current total,
// clamped to [0,100]; else used bytes in GiB when the total is unknown.
func (h *History) RAM(ctx context.Context, hostID string) []models.HistoryPoint {
	for _, key := range []string{keyComputerRAM, keyMemoryPUsed} {
		if pct := h.Series(ctx, hostID, key, zabbix.HistoryFloat, nil); len(pct) > 0 {
			return pct
		}
	}

	used, ok := h.resolve(ctx, hostID, []string{keyMemoryUsed})
	if !ok {
		return []models.HistoryPoint{}
	}
	total := h.latest(ctx, hostID, keyMemoryTotal)
	if total > 0 {
		return h.fetch(ctx, hostID, used, zabbix.HistoryUnsigned, func(raw string) float64 {
			return clamp(parseLastValue(raw)/total*100, 0, 100)
		})
	}
	return h.fetch(ctx, hostID, used, zabbix.HistoryUnsigned, BytesToGiB)
}

// resolve returns the first item among keys that exists on the host.
func (h *History) resolve(ctx context.Context, hostID string, keys []string) (zabbix.Item, bool) {
	for _, key := range keys {
		items, err := h.api.Items(ctx, zabbix.ItemQuery{
			HostID: hostID,
			Key:    key,
			Output: []string{"itemid", "value_type"},
			Limit:  1,
		})
		if err != nil {
			h.logger.Warn("history item lookup failed",
				zap.String("host_id", hostID),
				zap.String("key", key),
				zap.Error(err),
			)
			return zabbix.Item{}, false
		}
		if len(items) > 0 && items[0].ItemID != "" {
			items[0].Key = key
			return items[0], true
		}
	}
	return zabbix.Item{}, false
}

// latest returns the last value of an item, or 0 when unavailable.
func (h *History) latest(ctx context.Context, hostID, key string) float64 {
	items, err := h.api.Items(ctx, zabbix.ItemQuery{
		HostID: hostID,
		Key:    key,
		Output: []string{"lastvalue"},
		Limit:  1,
	})
	if err != nil || len(items) == 0 {
		return 0
	}
	return parseLastValue(items[0].LastValue)
}

func (h *History) fetch(ctx context.Context, hostID string, item zabbix.Item, valueType int, format Formatter) []models.HistoryPoint {
	if format == nil {
		format = ParseFloat
	}
	// The item's own value type wins over the table default.
	if vt, err := strconv.Atoi(item.ValueType); err == nil {
		valueType = vt
	}

	till := h.now()
	records, err := h.api.History(ctx, zabbix.HistoryQuery{
		ItemID:    item.ItemID,
		ValueType: valueType,
		From:      till.Add(-h.window),
		Till:      till,
	})
	if err != nil {
		h.logger.Warn("history query failed",
			zap.String("host_id", hostID),
			zap.String("key", item.Key),
			zap.Error(err),
		)
		return []models.HistoryPoint{}
	}

	points := make([]models.HistoryPoint, 0, len(records))
	for i := range records {
		clock, err := strconv.ParseInt(records[i].Clock, 10, 64)
		if err != nil {
			continue
		}
		points = append(points, models.HistoryPoint{Time: clock, Value: format(records[i].Value)})
	}
	return points
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
