package ws

import (
	"time"

	"github.com/HerbHall/netpanel/pkg/models"
)

// MessageType discriminates WebSocket messages.
type MessageType string

const (
	MessageHostsSnapshot MessageType = "hosts.snapshot"
)

// Message is the envelope for all WebSocket messages.
type Message struct {
	Type      MessageType `json:"type"`
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Data      any         `json:"data"`
}

// HostsSnapshotData is the payload for hosts.snapshot messages.
type HostsSnapshotData struct {
	Total  int                   `json:"total"`
	Online int                   `json:"online"`
	Hosts  []models.MetricRecord `json:"hosts"`
}

// newSnapshotMessage builds a hosts.snapshot message.
func newSnapshotMessage(id string, at time.Time, hosts []models.MetricRecord) Message {
	online := 0
	for i := range hosts {
		if hosts[i].Status == models.DeviceStatusOnline {
			online++
		}
	}
	if hosts == nil {
		hosts = []models.MetricRecord{}
	}
	return Message{
		Type:      MessageHostsSnapshot,
		ID:        id,
		Timestamp: at,
		Data: HostsSnapshotData{
			Total:  len(hosts),
			Online: online,
			Hosts:  hosts,
		},
	}
}
