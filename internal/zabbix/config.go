package zabbix

import "time"

// Config holds the upstream Zabbix connection settings.
type Config struct {
	URL                string        `mapstructure:"url"`                  // JSON-RPC endpoint, e.g. "http://zabbix/api_jsonrpc.php"
	User               string        `mapstructure:"user"`                 // API user
	Password           string        `mapstructure:"password"`             //nolint:gosec // G101: config field name, not a credential
	Timeout            time.Duration `mapstructure:"timeout"`              // per-request timeout
	MaxConns           int           `mapstructure:"max_conns"`            // keep-alive pool cap per host
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"` // accept self-signed certificates
	BearerAuth         bool          `mapstructure:"bearer_auth"`          // send the token as a header (Zabbix 7.2+)
	GroupSelector      string        `mapstructure:"group_selector"`       // "selectGroups" or "selectHostGroups" (Zabbix 7.0+)
	ReauthInterval     time.Duration `mapstructure:"reauth_interval"`      // unconditional re-login period
}

// DefaultConfig returns a Config with the defaults the dashboard has always
// shipped with.
func DefaultConfig() Config {
	return Config{
		URL:            "http://127.0.0.1/zabbix/api_jsonrpc.php",
		User:           "Admin",
		Password:       "zabbix",
		Timeout:        10 * time.Second,
		MaxConns:       20,
		GroupSelector:  "selectGroups",
		ReauthInterval: time.Hour,
	}
}
