package collector

import (
	"testing"

	"github.com/HerbHall/netpanel/pkg/models"
)

func TestClassify_NameRules(t *testing.T) {
	tests := []struct {
		name string
		host string
		want models.DeviceType
	}{
		{name: "brother mixed case", host: "Brother-HR2-Printer", want: models.DeviceTypePrinterBrother},
		{name: "unifi upper case", host: "UNIFI-AP-3F", want: models.DeviceTypeNetwork},
		{name: "router", host: "router-edge", want: models.DeviceTypeNetwork},
		{name: "switch", host: "Switch Core 48p", want: models.DeviceTypeNetwork},
		{name: "fortigate", host: "FortiGate-60F", want: models.DeviceTypeFortigate},
		{name: "camera short", host: "CAM-Portaria", want: models.DeviceTypeCamera},
		{name: "ezviz", host: "ezviz-garage", want: models.DeviceTypeCamera},
		{name: "hikvision", host: "Hikvision DVR", want: models.DeviceTypeCamera},
		{name: "epson", host: "EPSON L3250", want: models.DeviceTypePrinterEpson},
		{name: "qnap", host: "QNAP-TS453", want: models.DeviceTypeNAS},
		{name: "synology", host: "synology-backup", want: models.DeviceTypeNAS},
		{name: "no match", host: "PC-FINANCEIRO-02", want: models.DeviceTypeComputer},
		{name: "empty", host: "", want: models.DeviceTypeComputer},
		// Priority: fortigate beats router, router beats cam.
		{name: "fortigate router", host: "fortigate-router", want: models.DeviceTypeFortigate},
		{name: "switch in camera room", host: "switch-camera-room", want: models.DeviceTypeNetwork},
		// Substring semantics: "cam" matches inside other words.
		{name: "substring cam", host: "Webcam-Lobby", want: models.DeviceTypeCamera},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.host, nil)
			if got.Plan != tt.want {
				t.Errorf("Classify(%q).Plan = %q, want %q", tt.host, got.Plan, tt.want)
			}
		})
	}
}

func TestClassify_Label(t *testing.T) {
	tests := []struct {
		name       string
		host       string
		templates  []string
		wantPlan   models.DeviceType
		wantLabel  models.DeviceType // "" means nil
		wantSource string
	}{
		{
			name:       "name match labels",
			host:       "unifi-switch",
			templates:  []string{"QNAP SNMP"},
			wantPlan:   models.DeviceTypeNetwork,
			wantLabel:  models.DeviceTypeNetwork,
			wantSource: "name",
		},
		{
			name:       "template fortigate",
			host:       "fw-matriz",
			templates:  []string{"ICMP Ping", "FortiGate by SNMP"},
			wantPlan:   models.DeviceTypeComputer,
			wantLabel:  models.DeviceTypeFortigate,
			wantSource: "template",
		},
		{
			name:       "template nas",
			host:       "storage-01",
			templates:  []string{"Template NAS Generic"},
			wantPlan:   models.DeviceTypeComputer,
			wantLabel:  models.DeviceTypeNAS,
			wantSource: "template",
		},
		{
			name:       "template ubqt",
			host:       "ap-recepcao",
			templates:  []string{"UBQT UniFi AP"},
			wantPlan:   models.DeviceTypeComputer,
			wantLabel:  models.DeviceTypeNetwork,
			wantSource: "template",
		},
		{
			name:       "template priority fortigate over unifi",
			host:       "edge",
			templates:  []string{"UniFi Controller", "FortiGate by SNMP"},
			wantPlan:   models.DeviceTypeComputer,
			wantLabel:  models.DeviceTypeFortigate,
			wantSource: "template",
		},
		{
			name:     "no signal",
			host:     "PC-RH-01",
			wantPlan: models.DeviceTypeComputer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.host, tt.templates)
			if got.Plan != tt.wantPlan {
				t.Errorf("Plan = %q, want %q", got.Plan, tt.wantPlan)
			}
			if tt.wantLabel == "" {
				if got.Label != nil {
					t.Errorf("Label = %q, want nil", *got.Label)
				}
			} else if got.Label == nil || *got.Label != tt.wantLabel {
				t.Errorf("Label = %v, want %q", got.Label, tt.wantLabel)
			}
			if got.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", got.Source, tt.wantSource)
			}
		})
	}
}

func TestClassify_Pure(t *testing.T) {
	inputs := []struct {
		host      string
		templates []string
	}{
		{"Brother-HR2-Printer", nil},
		{"srv-app", []string{"QNAP"}},
		{"desk-07", []string{"Linux by Zabbix agent"}},
	}
	for _, in := range inputs {
		first := Classify(in.host, in.templates)
		for range 50 {
			again := Classify(in.host, in.templates)
			if again.Plan != first.Plan || again.Source != first.Source {
				t.Fatalf("Classify(%q) not stable: %+v then %+v", in.host, first, again)
			}
			if (again.Label == nil) != (first.Label == nil) ||
				(again.Label != nil && *again.Label != *first.Label) {
				t.Fatalf("Classify(%q) label not stable", in.host)
			}
		}
	}
}
