package version

import (
	"strings"
	"testing"
)

func TestInfo_ContainsVersion(t *testing.T) {
	got := Info()
	if !strings.HasPrefix(got, "NetPanel "+Version) {
		t.Errorf("Info() = %q, want prefix %q", got, "NetPanel "+Version)
	}
}

func TestMap_Keys(t *testing.T) {
	m := Map()
	for _, k := range []string{"version", "git_commit", "build_date", "go_version"} {
		if _, ok := m[k]; !ok {
			t.Errorf("Map() missing key %q", k)
		}
	}
	if m["version"] != Short() {
		t.Errorf("Map()[version] = %q, want %q", m["version"], Short())
	}
}
