package zabbix

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Interface types reported by host.get selectInterfaces.
const (
	InterfaceTypeAgent = "1"
	InterfaceTypeSNMP  = "2"
	InterfaceTypeIPMI  = "3"
	InterfaceTypeJMX   = "4"
)

// History value types accepted by history.get.
const (
	HistoryFloat     = 0
	HistoryCharacter = 1
	HistoryLog       = 2
	HistoryUnsigned  = 3
	HistoryText      = 4
)

// Host is a monitored host as returned by host.get.
type Host struct {
	HostID     string      `json:"hostid"`
	Host       string      `json:"host"`
	Name       string      `json:"name"`
	Status     string      `json:"status"` // "0" monitored, "1" unmonitored
	Interfaces []Interface `json:"interfaces"`
	Groups     []Group     `json:"groups"`
	HostGroups []Group     `json:"hostgroups"`
	Inventory  Inventory   `json:"inventory"`
	Templates  []Template  `json:"parentTemplates"`
}

// GroupList returns the host groups regardless of which selector the
// server answered (hostgroups on 6.2+, groups before).
func (h *Host) GroupList() []Group {
	if len(h.HostGroups) > 0 {
		return h.HostGroups
	}
	return h.Groups
}

// TemplateNames returns the names of all linked templates.
func (h *Host) TemplateNames() []string {
	names := make([]string, 0, len(h.Templates))
	for i := range h.Templates {
		names = append(names, h.Templates[i].Name)
	}
	return names
}

// Interface is a host interface.
type Interface struct {
	IP   string `json:"ip"`
	Type string `json:"type"`
}

// Group is a host group reference.
type Group struct {
	Name string `json:"name"`
}

// Template is a linked template reference.
type Template struct {
	Name string `json:"name"`
}

// Inventory holds the subset of host inventory fields the dashboard reads.
type Inventory struct {
	MACAddressA string `json:"macaddress_a"`
	MACAddressB string `json:"macaddress_b"`
}

// UnmarshalJSON accepts both an inventory object and the empty array Zabbix
// renders for hosts with inventory disabled.
func (inv *Inventory) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		*inv = Inventory{}
		return nil
	}
	type plain Inventory
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("decode inventory: %w", err)
	}
	*inv = Inventory(p)
	return nil
}

// Item is an item row from item.get. Only requested output fields are set.
type Item struct {
	ItemID    string `json:"itemid"`
	Key       string `json:"key_"`
	LastValue string `json:"lastvalue"`
	ValueType string `json:"value_type"`
}

// HistoryRecord is a single history.get sample.
type HistoryRecord struct {
	ItemID string `json:"itemid"`
	Clock  string `json:"clock"`
	Value  string `json:"value"`
	NS     string `json:"ns"`
}

// APIError is the error member of a JSON-RPC response.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

func (e *APIError) Error() string {
	if e.Data == "" {
		return fmt.Sprintf("zabbix API error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("zabbix API error %d: %s (%s)", e.Code, e.Message, e.Data)
}
