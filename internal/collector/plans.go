package collector

import (
	"context"
	"fmt"
	"sync"

	"github.com/HerbHall/netpanel/pkg/models"
)

// Item keys shared by several plans.
const (
	keyPingSec   = "icmppingsec"
	keyPing      = "icmpping"
	keyPingLoss  = "icmppingloss"
	keyAgentPing = "agent.ping"
)

// FortiGate SNMP template keys.
const (
	keyFortiCPU      = "system.cpu.util[fgSysCpuUsage.0]"
	keyFortiMemory   = "vm.memory.util[fgSysMemUsage.0]"
	keyFortiSessions = "net.ipv4.sessions[fgSysSesCount.0]"
)

// UniFi keys.
const (
	keyUnifiRx     = "unifiIfRxBytes.1"
	keyUnifiTx     = "unifiIfTxBytes.1"
	keyUnifiRadio2 = "unifiRadioCuTotal[ng]"
	keyUnifiRadio5 = "unifiRadioCuTotal[na]"
)

// Zabbix agent OS keys.
const (
	keyComputerCPU  = "system.cpu.util"
	keyComputerRAM  = "vm.memory.util"
	keyUptime       = "system.uptime"
	keyMemoryTotal  = "vm.memory.size[total]"
	keyMemoryUsed   = "vm.memory.size[used]"
	keyMemoryPUsed  = "vm.memory.size[pused]"
	keyLinuxRootCap = "vfs.fs.size[/,total]"
	keyWinSysCap    = "vfs.fs.size[C:,total]"
)

// Fallback chains, tried in order.
var (
	poePowerKeys = []string{"unifiPoePowerTotal", "poe.power.total", "pethMainPsePower.1"}
	portsUpKeys  = []string{"unifi.ports.up", "net.if.up.count", "ifOperStatusUpCount"}

	nasCPUKeys     = []string{"system.cpu.util", "qnap.cpu.util", "synology.cpu.util"}
	nasRAMKeys     = []string{"vm.memory.util", "qnap.memory.util", "synology.memory.util"}
	nasStorageKeys = []string{"vfs.fs.size[/share/CACHEDEV1_DATA,pused]", "qnap.storage.pused", "vfs.fs.size[/volume1,pused]"}

	totalDiskKeys = []string{keyLinuxRootCap, keyWinSysCap}
)

// inkChannels is the channel order used by every ink key set.
var inkChannels = [4]string{"Black", "Cyan", "Magenta", "Yellow"}

// Printer supply keys per tier.
var (
	epsonInkKeys = inkKeys("prtMarkerSuppliesCapacity[%s Ink Bottle]")

	brotherBrandKeys  = inkKeys("prtMarkerSuppliesLevel[%s Toner Cartridge]")
	brotherTonerKey   = "brother.toner.level"
	brotherLegacyKeys = [4]string{
		"prtMarkerSuppliesLevel.1.1",
		"prtMarkerSuppliesLevel.1.2",
		"prtMarkerSuppliesLevel.1.3",
		"prtMarkerSuppliesLevel.1.4",
	}
)

func inkKeys(format string) [4]string {
	var keys [4]string
	for i, ch := range inkChannels {
		keys[i] = fmt.Sprintf(format, ch)
	}
	return keys
}

// planFunc fills the device-specific fields of m for one host. Fields set
// before a panic stay set.
type planFunc func(ctx context.Context, r ItemReader, hostID string, m *models.Metrics)

// plans dispatches a device type to its metric plan.
var plans = map[models.DeviceType]planFunc{
	models.DeviceTypeFortigate:      fortigatePlan,
	models.DeviceTypeNetwork:        networkPlan,
	models.DeviceTypeCamera:         cameraPlan,
	models.DeviceTypePrinterEpson:   epsonPlan,
	models.DeviceTypePrinterBrother: brotherPlan,
	models.DeviceTypeNAS:            nasPlan,
	models.DeviceTypeComputer:       computerPlan,
}

func fortigatePlan(ctx context.Context, r ItemReader, hostID string, m *models.Metrics) {
	m.CPU = r.ItemValue(ctx, hostID, keyFortiCPU)
	m.RAM = r.ItemValue(ctx, hostID, keyFortiMemory)
	m.FWSessions = r.ItemValue(ctx, hostID, keyFortiSessions)
	readPing(ctx, r, hostID, m)
}

func networkPlan(ctx context.Context, r ItemReader, hostID string, m *models.Metrics) {
	readPing(ctx, r, hostID, m)
	m.NetRx = r.ItemValue(ctx, hostID, keyUnifiRx)
	m.NetTx = r.ItemValue(ctx, hostID, keyUnifiTx)
	m.Radio2CU = r.ItemValue(ctx, hostID, keyUnifiRadio2)
	m.Radio5CU = r.ItemValue(ctx, hostID, keyUnifiRadio5)
	m.PoEPower = r.FirstPresent(ctx, hostID, poePowerKeys...)
	m.PortsUp = r.FirstPresent(ctx, hostID, portsUpKeys...)
}

func cameraPlan(ctx context.Context, r ItemReader, hostID string, m *models.Metrics) {
	readPing(ctx, r, hostID, m)
	m.PingLoss = r.ItemValue(ctx, hostID, keyPingLoss)
}

func epsonPlan(ctx context.Context, r ItemReader, hostID string, m *models.Metrics) {
	readPing(ctx, r, hostID, m)
	m.Ink = readInk(ctx, r, hostID, epsonInkKeys)
}

// brotherPlan tries three key generations for supply levels. The first tier
// that yields any value is used as is; tiers are never merged.
func brotherPlan(ctx context.Context, r ItemReader, hostID string, m *models.Metrics) {
	readPing(ctx, r, hostID, m)

	if ink := readInk(ctx, r, hostID, brotherBrandKeys); !ink.Empty() {
		m.Ink = ink
		return
	}
	// The toner item only reports the black cartridge.
	if black := r.ItemValue(ctx, hostID, brotherTonerKey); black != nil {
		m.Ink = &models.InkLevels{Black: black}
		return
	}
	// All tiers empty leaves the legacy result, all channels nil.
	m.Ink = readInk(ctx, r, hostID, brotherLegacyKeys)
}

func nasPlan(ctx context.Context, r ItemReader, hostID string, m *models.Metrics) {
	label := models.DeviceTypeNAS
	m.DeviceType = &label
	readPing(ctx, r, hostID, m)
	m.CPU = r.FirstPresent(ctx, hostID, nasCPUKeys...)
	m.RAM = r.FirstPresent(ctx, hostID, nasRAMKeys...)
	m.StorageUsedPct = r.FirstPresent(ctx, hostID, nasStorageKeys...)
}

// computerPlan is the default plan. cpu and ram read as 0 when missing and
// pingAlive is always set.
func computerPlan(ctx context.Context, r ItemReader, hostID string, m *models.Metrics) {
	v := fetchConcurrent(ctx, r, hostID, keyComputerCPU, keyComputerRAM, keyPingSec, keyPing)

	m.CPU = orZero(v[0])
	m.RAM = orZero(v[1])
	// icmppingsec reads 0 when the host does not answer.
	if v[2] != nil && *v[2] != 0 {
		m.Ping = secondsToMillis(v[2])
	}
	alive := v[3] != nil && *v[3] >= 1
	m.PingAlive = &alive

	m.UptimeSec = r.ItemValue(ctx, hostID, keyUptime)
	m.TotalRAM = r.ItemValue(ctx, hostID, keyMemoryTotal)
	m.TotalDisk = r.FirstPresent(ctx, hostID, totalDiskKeys...)
}

// readPing fills ping (milliseconds) and pingAlive from the ICMP simple
// checks.
func readPing(ctx context.Context, r ItemReader, hostID string, m *models.Metrics) {
	m.Ping = secondsToMillis(r.ItemValue(ctx, hostID, keyPingSec))
	m.PingAlive = aliveFlag(r.ItemValue(ctx, hostID, keyPing))
}

func readInk(ctx context.Context, r ItemReader, hostID string, keys [4]string) *models.InkLevels {
	v := fetchConcurrent(ctx, r, hostID, keys[:]...)
	return &models.InkLevels{Black: v[0], Cyan: v[1], Magenta: v[2], Yellow: v[3]}
}

// fetchConcurrent reads all keys in parallel and returns values in key
// order. A panic in any read is re-raised in the caller's goroutine once
// every read has settled.
func fetchConcurrent(ctx context.Context, r ItemReader, hostID string, keys ...string) []*float64 {
	values := make([]*float64, len(keys))
	panics := make([]any, len(keys))

	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if p := recover(); p != nil {
					panics[i] = p
				}
			}()
			values[i] = r.ItemValue(ctx, hostID, key)
		}()
	}
	wg.Wait()

	for _, p := range panics {
		if p != nil {
			panic(p)
		}
	}
	return values
}

// secondsToMillis converts an icmppingsec reading; nil stays nil.
func secondsToMillis(v *float64) *float64 {
	if v == nil {
		return nil
	}
	ms := *v * 1000
	return &ms
}

func aliveFlag(v *float64) *bool {
	if v == nil {
		return nil
	}
	alive := *v >= 1
	return &alive
}

func orZero(v *float64) *float64 {
	if v == nil {
		zero := 0.0
		return &zero
	}
	return v
}
