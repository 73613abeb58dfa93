package collector

import (
	"strings"

	"github.com/HerbHall/netpanel/pkg/models"
)

// Classification is the result of classifying a host.
//
// Plan selects the metric plan and is always set. Label is the device type
// surfaced in the record; it is nil when neither the host name nor any
// template matched. Plan and Label are independent and may disagree.
type Classification struct {
	Plan   models.DeviceType
	Label  *models.DeviceType
	Source string // "name", "template" or ""
}

// classificationRule maps a set of substring patterns to a device type.
type classificationRule struct {
	deviceType models.DeviceType
	patterns   []string
}

// nameRules are matched against the lower-cased host name. Order matters:
// the first rule with a matching pattern wins.
var nameRules = []classificationRule{
	{models.DeviceTypeFortigate, []string{"fortigate"}},
	{models.DeviceTypeNetwork, []string{"router", "switch", "unifi"}},
	{models.DeviceTypeCamera, []string{"cam", "camera", "ezviz", "hikvision"}},
	{models.DeviceTypePrinterEpson, []string{"epson"}},
	{models.DeviceTypePrinterBrother, []string{"brother"}},
	{models.DeviceTypeNAS, []string{"qnap", "nas", "synology"}},
}

// templateRules only label a record; they never select a plan.
var templateRules = []classificationRule{
	{models.DeviceTypeFortigate, []string{"fortigate"}},
	{models.DeviceTypeNAS, []string{"qnap", "nas"}},
	{models.DeviceTypeNetwork, []string{"unifi", "ubqt"}},
}

// Classify derives the metric plan and device label for a host. It is a
// pure function of its inputs.
func Classify(hostName string, templateNames []string) Classification {
	if dt, ok := matchRules(nameRules, strings.ToLower(hostName)); ok {
		return Classification{Plan: dt, Label: &dt, Source: "name"}
	}

	c := Classification{Plan: models.DeviceTypeComputer}
	for i := range templateRules {
		for _, tmpl := range templateNames {
			if matchesAny(strings.ToLower(tmpl), templateRules[i].patterns) {
				dt := templateRules[i].deviceType
				c.Label = &dt
				c.Source = "template"
				return c
			}
		}
	}
	return c
}

func matchRules(rules []classificationRule, s string) (models.DeviceType, bool) {
	for i := range rules {
		if matchesAny(s, rules[i].patterns) {
			return rules[i].deviceType, true
		}
	}
	return "", false
}

func matchesAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
