package collector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/HerbHall/netpanel/internal/zabbix"
	"github.com/HerbHall/netpanel/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func newTestAggregator(t *testing.T, up *fakeUpstream, chunkSize int) *Aggregator {
	t.Helper()
	logger := zaptest.NewLogger(t)
	agg := NewAggregator(up, NewNormalizer(NewFetcher(up, logger), logger), chunkSize, logger)
	agg.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return agg
}

func makeHosts(n int) []zabbix.Host {
	hosts := make([]zabbix.Host, n)
	for i := range hosts {
		hosts[i] = zabbix.Host{
			HostID: fmt.Sprint(10000 + i),
			Name:   fmt.Sprintf("desk-%02d", i),
		}
	}
	return hosts
}

func recordIDs(records []models.MetricRecord) []int {
	ids := make([]int, 0, len(records))
	for i := range records {
		ids = append(ids, records[i].ID)
	}
	sort.Ints(ids)
	return ids
}

func TestAggregate_PartialFailureIsolation(t *testing.T) {
	up := newFakeUpstream()
	hosts := makeHosts(5)
	// A panic outside the normalizer's reach: the host id cannot be parsed.
	hosts[1].HostID = "not-a-number"
	// A panic inside a plan: tolerated with partial fill.
	up.panicOn["10003:"+keyUptime] = true

	core, logs := observer.New(zap.WarnLevel)
	agg := NewAggregator(up, NewNormalizer(NewFetcher(up, zap.New(core)), zap.New(core)), 10, zap.New(core))

	records := agg.Aggregate(context.Background(), hosts)

	require.Len(t, records, 4)
	assert.Equal(t, []int{10000, 10002, 10003, 10004}, recordIDs(records))

	failed := logs.FilterMessage("host failed during aggregation").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "not-a-number", failed[0].ContextMap()["host_id"])
}

func TestAggregate_ChunkBarrier(t *testing.T) {
	up := newFakeUpstream()
	hosts := makeHosts(25)

	chunkOf := make(map[string]int, len(hosts))
	for i := range hosts {
		chunkOf[hosts[i].HostID] = i/10 + 1
	}

	var (
		mu       sync.Mutex
		phases   []int
		active   = map[int]int{} // chunk -> hosts that started a read
		violated bool
	)
	agg := newTestAggregator(t, up, 10)
	agg.onChunk = func(index, size int) {
		mu.Lock()
		phases = append(phases, size)
		mu.Unlock()
	}
	up.onItems = func(hostID, _ string) {
		mu.Lock()
		defer mu.Unlock()
		c := chunkOf[hostID]
		active[c]++
		// Once a later chunk has read, no earlier chunk may read again.
		for later := c + 1; later <= 3; later++ {
			if active[later] > 0 {
				violated = true
			}
		}
		// Slow the first chunk so an early start of chunk 2 would overlap.
		if c == 1 {
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
		}
	}

	records := agg.Aggregate(context.Background(), hosts)

	assert.Len(t, records, 25)
	assert.Equal(t, []int{10, 10, 5}, phases)
	assert.False(t, violated, "a host of a later chunk started before the previous chunk settled")
}

func TestAggregate_SettlementOrder(t *testing.T) {
	up := newFakeUpstream()
	hosts := makeHosts(3)
	// The first host is slow, so it settles last.
	up.onItems = func(hostID, _ string) {
		if hostID == "10000" {
			time.Sleep(5 * time.Millisecond)
		}
	}

	records := newTestAggregator(t, up, 10).Aggregate(context.Background(), hosts)

	require.Len(t, records, 3)
	assert.Equal(t, 10000, records[2].ID)
}

func TestRecord_Enrichment(t *testing.T) {
	up := newFakeUpstream()
	up.set("10084", keyAgentPing, "1")
	host := zabbix.Host{
		HostID: "10084",
		Name:   "sw-andar2",
		Interfaces: []zabbix.Interface{
			{IP: "10.0.0.12", Type: zabbix.InterfaceTypeAgent},
			{IP: "10.0.0.13", Type: zabbix.InterfaceTypeSNMP},
		},
		HostGroups: []zabbix.Group{{Name: "Switches"}, {Name: "Andar 2"}},
		Inventory:  zabbix.Inventory{MACAddressA: "n/a", MACAddressB: "00-1a-2b-3c-4d-5e"},
	}

	rec, err := newTestAggregator(t, up, 10).Record(context.Background(), &host)
	require.NoError(t, err)

	assert.Equal(t, 10084, rec.ID)
	assert.Equal(t, "sw-andar2", rec.Name)
	assert.Equal(t, "10.0.0.12", rec.IP)
	assert.Equal(t, "Switches", rec.Group)
	assert.Equal(t, models.DeviceStatusOnline, rec.Status)
	assert.True(t, rec.IsSNMP)
	require.NotNil(t, rec.MACAddress)
	assert.Equal(t, "00:1A:2B:3C:4D:5E", *rec.MACAddress)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), rec.LastUpdate)
}

func TestRecord_Defaults(t *testing.T) {
	host := zabbix.Host{HostID: "5", Name: "desk-05"}

	rec, err := newTestAggregator(t, newFakeUpstream(), 10).Record(context.Background(), &host)
	require.NoError(t, err)

	assert.Equal(t, "N/A", rec.IP)
	assert.Equal(t, "Sem Grupo", rec.Group)
	assert.Equal(t, models.DeviceStatusOffline, rec.Status)
	assert.False(t, rec.IsSNMP)
	assert.Nil(t, rec.MACAddress)
	assert.Equal(t, models.AgentStatusUnknown, rec.AgentStatus)
}

func TestRecord_StatusFromPing(t *testing.T) {
	up := newFakeUpstream()
	up.set("5", keyPing, "1").set("5", keyAgentPing, "0")
	host := zabbix.Host{HostID: "5", Name: "cam-05", Groups: []zabbix.Group{{Name: "Cameras"}}}

	rec, err := newTestAggregator(t, up, 10).Record(context.Background(), &host)
	require.NoError(t, err)

	assert.Equal(t, models.DeviceStatusOnline, rec.Status)
	assert.Equal(t, models.AgentStatusOffline, rec.AgentStatus)
	assert.Equal(t, "Cameras", rec.Group)
}

func TestSnapshot(t *testing.T) {
	up := newFakeUpstream()
	up.hosts = makeHosts(3)

	records := newTestAggregator(t, up, 2).Snapshot(context.Background())
	assert.Len(t, records, 3)
}

func TestSnapshot_UpstreamFailure(t *testing.T) {
	up := newFakeUpstream()
	up.hostsErr = errUpstream

	records := newTestAggregator(t, up, 10).Snapshot(context.Background())
	require.NotNil(t, records)
	assert.Empty(t, records)
}

func TestHost(t *testing.T) {
	up := newFakeUpstream()
	up.hosts = makeHosts(2)
	agg := newTestAggregator(t, up, 10)

	rec, err := agg.Host(context.Background(), "10001")
	require.NoError(t, err)
	assert.Equal(t, 10001, rec.ID)

	_, err = agg.Host(context.Background(), "99999")
	assert.True(t, errors.Is(err, ErrHostNotFound))

	up.hostsErr = errUpstream
	_, err = agg.Host(context.Background(), "10001")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrHostNotFound))
}
