package models

import "time"

// DeviceType selects which metric plan runs for a host and labels the
// resulting record.
type DeviceType string

const (
	DeviceTypeFortigate      DeviceType = "fortigate"
	DeviceTypeNetwork        DeviceType = "network"
	DeviceTypeCamera         DeviceType = "camera"
	DeviceTypePrinterEpson   DeviceType = "printerEpson"
	DeviceTypePrinterBrother DeviceType = "printerBrother"
	DeviceTypeNAS            DeviceType = "nas"
	DeviceTypeComputer       DeviceType = "computer"
)

// AllDeviceTypes lists every device type in classification priority order.
var AllDeviceTypes = []DeviceType{
	DeviceTypeFortigate,
	DeviceTypeNetwork,
	DeviceTypeCamera,
	DeviceTypePrinterEpson,
	DeviceTypePrinterBrother,
	DeviceTypeNAS,
	DeviceTypeComputer,
}

// Valid reports whether dt is one of the known device types.
func (dt DeviceType) Valid() bool {
	for _, known := range AllDeviceTypes {
		if dt == known {
			return true
		}
	}
	return false
}

// DeviceStatus is the overall reachability of a host.
type DeviceStatus string

const (
	DeviceStatusOnline  DeviceStatus = "online"
	DeviceStatusOffline DeviceStatus = "offline"
)

// AgentStatus is the state of the Zabbix agent on a host. Unknown means the
// agent.ping lookup itself failed or the item does not exist.
type AgentStatus string

const (
	AgentStatusOnline  AgentStatus = "online"
	AgentStatusOffline AgentStatus = "offline"
	AgentStatusUnknown AgentStatus = "unknown"
)

// InkLevels holds per-channel supply levels of a printer.
type InkLevels struct {
	Black   *float64 `json:"black"`
	Cyan    *float64 `json:"cyan"`
	Magenta *float64 `json:"magenta"`
	Yellow  *float64 `json:"yellow"`
}

// Empty reports whether no channel has a value.
func (ink *InkLevels) Empty() bool {
	return ink == nil || (ink.Black == nil && ink.Cyan == nil && ink.Magenta == nil && ink.Yellow == nil)
}

// Metrics is the device-specific part of a record filled by a metric plan.
// Nil fields were not collected for the host.
type Metrics struct {
	DeviceType  *DeviceType `json:"deviceType"`
	MACAddress  *string     `json:"macAddress"`
	CPU         *float64    `json:"cpu"`
	RAM         *float64    `json:"ram"`
	Ping        *float64    `json:"ping"` // milliseconds
	PingAlive   *bool       `json:"pingAlive"`
	PingLoss    *float64    `json:"pingLoss"`
	NetRx       *float64    `json:"netRx"`
	NetTx       *float64    `json:"netTx"`
	Ink         *InkLevels  `json:"ink"`
	AgentStatus AgentStatus `json:"agentStatus"`
	UptimeSec   *float64    `json:"uptimeSec"`
	TotalRAM    *float64    `json:"totalRam"`
	TotalDisk   *float64    `json:"totalDisk"`

	FWSessions     *float64 `json:"fwSessions"`
	Radio2CU       *float64 `json:"radio2Cu"`
	Radio5CU       *float64 `json:"radio5Cu"`
	PoEPower       *float64 `json:"poePower"`
	PortsUp        *float64 `json:"portsUp"`
	StorageUsedPct *float64 `json:"storageUsedPct"`
}

// MetricRecord is the normalized view of one host served to the dashboard.
type MetricRecord struct {
	ID         int          `json:"id" example:"10084"`
	Name       string       `json:"name" example:"srv-files-01"`
	IP         string       `json:"ip" example:"192.168.1.20"`
	Group      string       `json:"group" example:"Servidores"`
	Status     DeviceStatus `json:"status" example:"online"`
	IsSNMP     bool         `json:"isSnmp"`
	LastUpdate time.Time    `json:"lastUpdate"`
	Metrics
}

// HistoryPoint is one sample of a history series.
type HistoryPoint struct {
	Time  int64   `json:"time" example:"1700000000"`
	Value float64 `json:"value" example:"42.5"`
}
