package zabbix

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/HerbHall/netpanel/pkg/plugin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// ErrNotAuthenticated is returned by Session calls made while no token is
// held, typically because the last login attempt failed.
var ErrNotAuthenticated = errors.New("zabbix: not authenticated")

var loginsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "netpanel_zabbix_logins_total",
		Help: "Total number of Zabbix user.login attempts by result.",
	},
	[]string{"result"},
)

func init() {
	prometheus.MustRegister(loginsTotal)
}

// Session owns the Zabbix authentication token. It logs in on demand and on
// a fixed schedule.
//
// EnsureAuthenticated holds no lock across a login round trip: concurrent
// callers that both observe an empty token each log in, and the last token
// written wins.
type Session struct {
	client   *Client
	user     string
	password string
	interval time.Duration
	logger   *zap.Logger

	mu    sync.RWMutex
	token string

	cancel context.CancelFunc
	done   chan struct{}
}

// NewSession creates a session for the given client and credentials.
// reauth is the unconditional re-login period used by Start.
func NewSession(client *Client, user, password string, reauth time.Duration, logger *zap.Logger) *Session {
	if reauth <= 0 {
		reauth = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		client:   client,
		user:     user,
		password: password,
		interval: reauth,
		logger:   logger,
	}
}

// Token returns the currently held token, or "" when none is held.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) setToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Authenticated reports whether a token is currently held.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Authenticate logs in with the configured credentials. On success the new
// token is stored and returned; on any failure the held token is cleared.
func (s *Session) Authenticate(ctx context.Context) (string, error) {
	params := map[string]string{
		"username": s.user,
		"password": s.password,
	}

	var token string
	err := s.client.Call(ctx, "user.login", params, "", &token)
	if err == nil && token == "" {
		err = errors.New("user.login returned an empty token")
	}
	if err != nil {
		s.setToken("")
		loginsTotal.WithLabelValues("error").Inc()
		s.logger.Error("zabbix authentication failed", zap.String("user", s.user), zap.Error(err))
		return "", fmt.Errorf("authenticate: %w", err)
	}

	s.setToken(token)
	loginsTotal.WithLabelValues("ok").Inc()
	s.logger.Info("authenticated with zabbix", zap.String("user", s.user))
	return token, nil
}

// EnsureAuthenticated logs in when no token is held and returns the token
// held afterwards, which is "" when the login failed.
func (s *Session) EnsureAuthenticated(ctx context.Context) string {
	if token := s.Token(); token != "" {
		return token
	}
	s.logger.Info("zabbix token missing, authenticating")
	token, _ := s.Authenticate(ctx)
	return token
}

// Call ensures a token is held and invokes method with it. Calls made
// without a token fail fast with ErrNotAuthenticated.
func (s *Session) Call(ctx context.Context, method string, params, result any) error {
	token := s.EnsureAuthenticated(ctx)
	if token == "" {
		return ErrNotAuthenticated
	}
	err := s.client.Call(ctx, method, params, token, result)
	if isSessionExpired(err) {
		// Drop the stale token so the next call logs in again.
		s.mu.Lock()
		if s.token == token {
			s.token = ""
		}
		s.mu.Unlock()
		s.logger.Warn("zabbix session expired", zap.String("method", method))
	}
	return err
}

// Ready returns ErrNotAuthenticated until a login has succeeded.
func (s *Session) Ready(_ context.Context) error {
	if !s.Authenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

// Health implements plugin.HealthChecker.
func (s *Session) Health(_ context.Context) plugin.HealthStatus {
	if !s.Authenticated() {
		return plugin.HealthStatus{Status: "unhealthy", Message: "no upstream session"}
	}
	return plugin.HealthStatus{Status: "healthy"}
}

// isSessionExpired reports whether err is the API error Zabbix returns for
// a terminated or unknown session.
func isSessionExpired(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	msg := strings.ToLower(apiErr.Data + " " + apiErr.Message)
	return strings.Contains(msg, "session terminated") ||
		strings.Contains(msg, "not authorised") ||
		strings.Contains(msg, "not authorized")
}

// Start begins the scheduled re-authentication loop. It does not log in
// immediately; callers authenticate once at startup themselves.
func (s *Session) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.run(ctx)
	s.logger.Info("zabbix re-authentication scheduled", zap.Duration("interval", s.interval))
}

// Stop cancels the re-authentication loop and waits for it to exit.
func (s *Session) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.logger.Info("zabbix re-authentication stopped")
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.logger.Info("re-authenticating with zabbix (scheduled)")
			_, _ = s.Authenticate(ctx)
		}
	}
}
