package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	v, err := LoadConfig("")
	require.NoError(t, err)

	srv := ServerConfig(v)
	assert.Equal(t, "0.0.0.0:3000", srv.Addr())
	assert.Equal(t, "*", srv.CORSOrigin)
	assert.False(t, srv.DevMode)

	zc := ZabbixConfig(v)
	assert.Equal(t, "Admin", zc.User)
	assert.Equal(t, "zabbix", zc.Password)
	assert.Equal(t, 10*time.Second, zc.Timeout)
	assert.Equal(t, 20, zc.MaxConns)
	assert.Equal(t, time.Hour, zc.ReauthInterval)

	cc := CollectorConfig(v)
	assert.Equal(t, 10, cc.ChunkSize)
	assert.Equal(t, time.Minute, cc.PushInterval)
	assert.Equal(t, 24*time.Hour, cc.HistoryWindow)

	wc := WOLConfig(v)
	assert.Equal(t, "wakeonlan", wc.Command)
	assert.Equal(t, 8*time.Second, wc.Timeout)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netpanel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8080
  dev_mode: true
zabbix:
  url: https://zbx.example.net/api_jsonrpc.php
  timeout: 5s
collector:
  chunk_size: 25
  push_interval: 0s
wol:
  broadcast: 192.168.1.255
`), 0o600))

	v, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, ServerConfig(v).Port)
	assert.True(t, ServerConfig(v).DevMode)
	assert.Equal(t, "https://zbx.example.net/api_jsonrpc.php", ZabbixConfig(v).URL)
	assert.Equal(t, 5*time.Second, ZabbixConfig(v).Timeout)
	assert.Equal(t, 25, CollectorConfig(v).ChunkSize)
	assert.Zero(t, CollectorConfig(v).PushInterval)
	assert.Equal(t, "192.168.1.255", WOLConfig(v).Broadcast)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_PrefixedEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("NETPANEL_SERVER_PORT", "9090")
	t.Setenv("NETPANEL_ZABBIX_BEARER_AUTH", "true")
	t.Setenv("NETPANEL_COLLECTOR_CHUNK_SIZE", "4")

	v, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 9090, ServerConfig(v).Port)
	assert.True(t, ZabbixConfig(v).BearerAuth)
	assert.Equal(t, 4, CollectorConfig(v).ChunkSize)
}

func TestLoadConfig_LegacyEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ZABBIX_URL", "http://legacy/zabbix/api_jsonrpc.php")
	t.Setenv("ZABBIX_USER", "monitor")
	t.Setenv("ZABBIX_PASSWORD", "s3cret")
	t.Setenv("ZABBIX_INSECURE_TLS", "true")
	t.Setenv("PORT", "4000")

	v, err := LoadConfig("")
	require.NoError(t, err)

	zc := ZabbixConfig(v)
	assert.Equal(t, "http://legacy/zabbix/api_jsonrpc.php", zc.URL)
	assert.Equal(t, "monitor", zc.User)
	assert.Equal(t, "s3cret", zc.Password)
	assert.True(t, zc.InsecureSkipVerify)
	assert.Equal(t, 4000, ServerConfig(v).Port)
}

func TestLoadConfig_PrefixedEnvBeatsLegacy(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "4000")
	t.Setenv("NETPANEL_SERVER_PORT", "5000")

	v, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 5000, ServerConfig(v).Port)
}
