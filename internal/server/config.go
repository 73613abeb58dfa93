package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HerbHall/netpanel/internal/collector"
	"github.com/HerbHall/netpanel/internal/wol"
	"github.com/HerbHall/netpanel/internal/zabbix"
	"github.com/spf13/viper"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	DevMode    bool   `mapstructure:"dev_mode"`
	WebDir     string `mapstructure:"web_dir"`
	CORSOrigin string `mapstructure:"cors_origin"`
}

// Addr returns the listen address as host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// legacyEnv maps config keys to the environment variable names older
// deployments of the dashboard used.
var legacyEnv = map[string]string{
	"zabbix.url":                  "ZABBIX_URL",
	"zabbix.user":                 "ZABBIX_USER",
	"zabbix.password":             "ZABBIX_PASSWORD",
	"zabbix.insecure_skip_verify": "ZABBIX_INSECURE_TLS",
	"server.port":                 "PORT",
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(configPath string) (*viper.Viper, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.dev_mode", false)
	v.SetDefault("server.web_dir", "")
	v.SetDefault("server.cors_origin", "*")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	zc := zabbix.DefaultConfig()
	v.SetDefault("zabbix.url", zc.URL)
	v.SetDefault("zabbix.user", zc.User)
	v.SetDefault("zabbix.password", zc.Password)
	v.SetDefault("zabbix.timeout", zc.Timeout)
	v.SetDefault("zabbix.max_conns", zc.MaxConns)
	v.SetDefault("zabbix.insecure_skip_verify", zc.InsecureSkipVerify)
	v.SetDefault("zabbix.bearer_auth", zc.BearerAuth)
	v.SetDefault("zabbix.group_selector", zc.GroupSelector)
	v.SetDefault("zabbix.reauth_interval", zc.ReauthInterval)

	cc := collector.DefaultConfig()
	v.SetDefault("collector.chunk_size", cc.ChunkSize)
	v.SetDefault("collector.push_interval", cc.PushInterval)
	v.SetDefault("collector.history_window", cc.HistoryWindow)

	wc := wol.DefaultConfig()
	v.SetDefault("wol.command", wc.Command)
	v.SetDefault("wol.broadcast", wc.Broadcast)
	v.SetDefault("wol.timeout", wc.Timeout)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("netpanel")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/netpanel")
	}

	// Environment variable support: NETPANEL_SERVER_PORT=9090
	v.SetEnvPrefix("NETPANEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		envKey := "NETPANEL_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, legacy); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is fine -- use defaults
	}

	return v, nil
}

// ServerConfig extracts the server section.
func ServerConfig(v *viper.Viper) Config {
	return Config{
		Host:       v.GetString("server.host"),
		Port:       v.GetInt("server.port"),
		DevMode:    v.GetBool("server.dev_mode"),
		WebDir:     v.GetString("server.web_dir"),
		CORSOrigin: v.GetString("server.cors_origin"),
	}
}

// ZabbixConfig extracts the zabbix section.
func ZabbixConfig(v *viper.Viper) zabbix.Config {
	return zabbix.Config{
		URL:                v.GetString("zabbix.url"),
		User:               v.GetString("zabbix.user"),
		Password:           v.GetString("zabbix.password"),
		Timeout:            v.GetDuration("zabbix.timeout"),
		MaxConns:           v.GetInt("zabbix.max_conns"),
		InsecureSkipVerify: v.GetBool("zabbix.insecure_skip_verify"),
		BearerAuth:         v.GetBool("zabbix.bearer_auth"),
		GroupSelector:      v.GetString("zabbix.group_selector"),
		ReauthInterval:     v.GetDuration("zabbix.reauth_interval"),
	}
}

// CollectorConfig extracts the collector section.
func CollectorConfig(v *viper.Viper) collector.Config {
	return collector.Config{
		ChunkSize:     v.GetInt("collector.chunk_size"),
		PushInterval:  v.GetDuration("collector.push_interval"),
		HistoryWindow: v.GetDuration("collector.history_window"),
	}
}

// WOLConfig extracts the wol section.
func WOLConfig(v *viper.Viper) wol.Config {
	return wol.Config{
		Command:   v.GetString("wol.command"),
		Broadcast: v.GetString("wol.broadcast"),
		Timeout:   v.GetDuration("wol.timeout"),
	}
}
