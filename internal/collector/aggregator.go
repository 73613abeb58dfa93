package collector

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/HerbHall/netpanel/internal/zabbix"
	"github.com/HerbHall/netpanel/pkg/macaddr"
	"github.com/HerbHall/netpanel/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// ErrHostNotFound is returned by Aggregator.Host for an unknown host id.
var ErrHostNotFound = errors.New("host not found")

const (
	// DefaultChunkSize stays below the upstream connection cap so history
	// requests are not starved while a pass runs.
	DefaultChunkSize = 10

	noIP    = "N/A"
	noGroup = "Sem Grupo"
)

var (
	aggregationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "netpanel_aggregation_duration_seconds",
		Help:    "Duration of a full host aggregation pass in seconds.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
	})
	aggregationHosts = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "netpanel_aggregation_hosts",
		Help: "Number of host records produced by the last aggregation pass.",
	})
	hostFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netpanel_host_failures_total",
		Help: "Total number of hosts omitted from an aggregation pass.",
	})
)

func init() {
	prometheus.MustRegister(aggregationDuration, aggregationHosts, hostFailures)
}

// Aggregator builds MetricRecords for many hosts in bounded chunks.
type Aggregator struct {
	api        Upstream
	normalizer *Normalizer
	chunkSize  int
	logger     *zap.Logger
	now        func() time.Time

	// onChunk, when set, is called before each chunk starts.
	onChunk func(index, size int)
}

// NewAggregator creates an Aggregator. chunkSize <= 0 uses DefaultChunkSize.
func NewAggregator(api Upstream, normalizer *Normalizer, chunkSize int, logger *zap.Logger) *Aggregator {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		api:        api,
		normalizer: normalizer,
		chunkSize:  chunkSize,
		logger:     logger,
		now:        time.Now,
	}
}

type hostResult struct {
	hostID string
	record models.MetricRecord
	err    error
}

// Aggregate builds a record for every host. Hosts are processed in chunks:
// all hosts of a chunk run concurrently and the next chunk starts only once
// every host of the current one has settled.
//
// Records are appended in settlement order, so the output order is not the
// input order. A host that fails is omitted and logged.
func (a *Aggregator) Aggregate(ctx context.Context, hosts []zabbix.Host) []models.MetricRecord {
	start := time.Now()
	records := make([]models.MetricRecord, 0, len(hosts))

	for i := 0; i < len(hosts); i += a.chunkSize {
		chunk := hosts[i:min(i+a.chunkSize, len(hosts))]
		index := i/a.chunkSize + 1
		if a.onChunk != nil {
			a.onChunk(index, len(chunk))
		}
		a.logger.Debug("processing host chunk",
			zap.Int("chunk", index),
			zap.Int("hosts", len(chunk)),
		)

		results := make(chan hostResult, len(chunk))
		for j := range chunk {
			go func(h *zabbix.Host) {
				results <- a.settle(ctx, h)
			}(&chunk[j])
		}
		for range chunk {
			res := <-results
			if res.err != nil {
				hostFailures.Inc()
				a.logger.Warn("host failed during aggregation",
					zap.String("host_id", res.hostID),
					zap.Error(res.err),
				)
				continue
			}
			records = append(records, res.record)
		}
	}

	aggregationDuration.Observe(time.Since(start).Seconds())
	aggregationHosts.Set(float64(len(records)))
	a.logger.Info("aggregation pass complete",
		zap.Int("hosts", len(hosts)),
		zap.Int("records", len(records)),
		zap.Duration("duration", time.Since(start)),
	)
	return records
}

// settle builds one record and converts a panic into an error.
func (a *Aggregator) settle(ctx context.Context, h *zabbix.Host) (res hostResult) {
	res.hostID = h.HostID
	defer func() {
		if r := recover(); r != nil {
			res.err = fmt.Errorf("panic: %v", r)
		}
	}()
	res.record, res.err = a.Record(ctx, h)
	return res
}

// Record builds the enriched record of a single host.
func (a *Aggregator) Record(ctx context.Context, h *zabbix.Host) (models.MetricRecord, error) {
	id, err := strconv.Atoi(h.HostID)
	if err != nil {
		return models.MetricRecord{}, fmt.Errorf("parse host id %q: %w", h.HostID, err)
	}

	c := Classify(h.Name, h.TemplateNames())
	metrics := a.normalizer.Normalize(ctx, h.HostID, c)

	rec := models.MetricRecord{
		ID:         id,
		Name:       h.Name,
		IP:         noIP,
		Group:      noGroup,
		Status:     models.DeviceStatusOffline,
		LastUpdate: a.now().UTC(),
		Metrics:    metrics,
	}
	if len(h.Interfaces) > 0 && h.Interfaces[0].IP != "" {
		rec.IP = h.Interfaces[0].IP
	}
	if groups := h.GroupList(); len(groups) > 0 && groups[0].Name != "" {
		rec.Group = groups[0].Name
	}
	if (metrics.PingAlive != nil && *metrics.PingAlive) || metrics.AgentStatus == models.AgentStatusOnline {
		rec.Status = models.DeviceStatusOnline
	}
	if mac := macaddr.Extract(h.Inventory.MACAddressA, h.Inventory.MACAddressB); mac != "" {
		rec.MACAddress = &mac
	}
	for _, iface := range h.Interfaces {
		if iface.Type == zabbix.InterfaceTypeSNMP {
			rec.IsSNMP = true
			break
		}
	}
	return rec, nil
}

// Snapshot fetches the current host list and aggregates it. An upstream
// failure yields an empty list.
func (a *Aggregator) Snapshot(ctx context.Context) []models.MetricRecord {
	hosts, err := a.api.Hosts(ctx)
	if err != nil {
		a.logger.Warn("host list unavailable", zap.Error(err))
		return []models.MetricRecord{}
	}
	if len(hosts) == 0 {
		return []models.MetricRecord{}
	}
	a.logger.Info("loading metrics", zap.Int("hosts", len(hosts)), zap.Int("chunk_size", a.chunkSize))
	return a.Aggregate(ctx, hosts)
}

// Host builds the record of one host. It returns ErrHostNotFound when the
// host does not exist.
func (a *Aggregator) Host(ctx context.Context, hostID string) (*models.MetricRecord, error) {
	h, err := a.api.HostByID(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("get host %s: %w", hostID, err)
	}
	if h == nil {
		return nil, ErrHostNotFound
	}
	rec, err := a.Record(ctx, h)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
