package collector

import (
	"context"
	"errors"
	"sync"

	"github.com/HerbHall/netpanel/internal/zabbix"
)

var errUpstream = errors.New("upstream unavailable")

// fakeUpstream is an in-memory Zabbix. Item ids are "<hostID>:<key>".
type fakeUpstream struct {
	mu sync.Mutex

	hosts    []zabbix.Host
	hostsErr error

	values     map[string]map[string]string // hostID -> key -> lastvalue
	valueTypes map[string]string            // key -> value_type
	failKeys   map[string]bool
	panicOn    map[string]bool // "<hostID>:<key>"

	history    map[string][]zabbix.HistoryRecord // itemID -> samples
	historyErr error

	itemCalls    []string // "<hostID>:<key>"
	historyCalls []zabbix.HistoryQuery

	// onItems, when set, runs at the start of every Items call.
	onItems func(hostID, key string)
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		values:     make(map[string]map[string]string),
		valueTypes: make(map[string]string),
		failKeys:   make(map[string]bool),
		panicOn:    make(map[string]bool),
		history:    make(map[string][]zabbix.HistoryRecord),
	}
}

func (f *fakeUpstream) set(hostID, key, value string) *fakeUpstream {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.values[hostID] == nil {
		f.values[hostID] = make(map[string]string)
	}
	f.values[hostID][key] = value
	return f
}

func (f *fakeUpstream) setHistory(hostID, key string, samples ...zabbix.HistoryRecord) {
	f.set(hostID, key, "")
	f.mu.Lock()
	f.history[hostID+":"+key] = samples
	f.mu.Unlock()
}

func (f *fakeUpstream) callCount(hostID, key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.itemCalls {
		if c == hostID+":"+key {
			n++
		}
	}
	return n
}

func (f *fakeUpstream) Hosts(context.Context) ([]zabbix.Host, error) {
	if f.hostsErr != nil {
		return nil, f.hostsErr
	}
	return f.hosts, nil
}

func (f *fakeUpstream) HostByID(_ context.Context, hostID string) (*zabbix.Host, error) {
	if f.hostsErr != nil {
		return nil, f.hostsErr
	}
	for i := range f.hosts {
		if f.hosts[i].HostID == hostID {
			h := f.hosts[i]
			return &h, nil
		}
	}
	return nil, nil
}

func (f *fakeUpstream) Items(_ context.Context, q zabbix.ItemQuery) ([]zabbix.Item, error) {
	if f.onItems != nil {
		f.onItems(q.HostID, q.Key)
	}

	id := q.HostID + ":" + q.Key
	f.mu.Lock()
	f.itemCalls = append(f.itemCalls, id)
	fail := f.failKeys[q.Key]
	boom := f.panicOn[id]
	v, ok := f.values[q.HostID][q.Key]
	vt := f.valueTypes[q.Key]
	f.mu.Unlock()

	if boom {
		panic("item read exploded: " + id)
	}
	if fail {
		return nil, errUpstream
	}
	if !ok {
		return []zabbix.Item{}, nil
	}
	return []zabbix.Item{{ItemID: id, Key: q.Key, LastValue: v, ValueType: vt}}, nil
}

func (f *fakeUpstream) History(_ context.Context, q zabbix.HistoryQuery) ([]zabbix.HistoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyCalls = append(f.historyCalls, q)
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history[q.ItemID], nil
}

func ptr(v float64) *float64 { return &v }
