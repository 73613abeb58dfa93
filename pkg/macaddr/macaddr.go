// Package macaddr parses and normalizes Ethernet MAC addresses.
package macaddr

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidMAC is returned for strings that are not a 48-bit MAC address.
var ErrInvalidMAC = errors.New("invalid MAC address")

var (
	// Whole-string forms: colon- or dash-separated octets, or bare hex.
	colonForm = regexp.MustCompile(`^[0-9A-Fa-f]{2}(:[0-9A-Fa-f]{2}){5}$`)
	dashForm  = regexp.MustCompile(`^[0-9A-Fa-f]{2}(-[0-9A-Fa-f]{2}){5}$`)
	bareForm  = regexp.MustCompile(`^[0-9A-Fa-f]{12}$`)

	// Embedded separated forms inside free inventory text.
	embedded = regexp.MustCompile(`[0-9A-Fa-f]{2}([:-])[0-9A-Fa-f]{2}(?:[:-][0-9A-Fa-f]{2}){4}`)
)

// Normalize returns mac in upper-case colon form, e.g. "00:11:22:AA:BB:CC".
// Accepted inputs are colon-separated, dash-separated, or 12 bare hex
// digits. Surrounding whitespace is ignored; mixed separators are rejected.
func Normalize(mac string) (string, error) {
	mac = strings.TrimSpace(mac)
	var hex string
	switch {
	case colonForm.MatchString(mac):
		hex = strings.ReplaceAll(mac, ":", "")
	case dashForm.MatchString(mac):
		hex = strings.ReplaceAll(mac, "-", "")
	case bareForm.MatchString(mac):
		hex = mac
	default:
		return "", ErrInvalidMAC
	}

	hex = strings.ToUpper(hex)
	var b strings.Builder
	b.Grow(17)
	for i := 0; i < 12; i += 2 {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(hex[i : i+2])
	}
	return b.String(), nil
}

// Valid reports whether mac is accepted by Normalize.
func Valid(mac string) bool {
	_, err := Normalize(mac)
	return err == nil
}

// Extract returns the first valid MAC address found in the given inventory
// fields, normalized, or "" when none contains one. A field may hold a bare
// address or free text such as "eth0 00-1A-2B-3C-4D-5E; eth1 ...".
func Extract(fields ...string) string {
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if mac, err := Normalize(f); err == nil {
			return mac
		}
		for _, m := range embedded.FindAllStringSubmatch(f, -1) {
			// Reject matches that mix separators.
			if strings.Count(m[0], m[1]) != 5 {
				continue
			}
			if mac, err := Normalize(m[0]); err == nil {
				return mac
			}
		}
	}
	return ""
}
