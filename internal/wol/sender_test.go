package wol

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HerbHall/netpanel/pkg/macaddr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recordedRun struct {
	name string
	args []string
}

func newTestSender(t *testing.T, cfg Config, run runFunc) *Sender {
	t.Helper()
	s := NewSender(cfg, zaptest.NewLogger(t))
	s.run = run
	return s
}

func TestSender_Wake(t *testing.T) {
	var got recordedRun
	s := newTestSender(t, Config{}, func(_ context.Context, name string, args ...string) ([]byte, error) {
		got = recordedRun{name: name, args: args}
		return []byte("Sending magic packet"), nil
	})

	mac, err := s.Wake(context.Background(), "00-11-22-aa-bb-cc")
	require.NoError(t, err)
	assert.Equal(t, "00:11:22:AA:BB:CC", mac)
	assert.Equal(t, "wakeonlan", got.name)
	assert.Equal(t, []string{"00:11:22:AA:BB:CC"}, got.args)
}

func TestSender_WakeBroadcast(t *testing.T) {
	var got recordedRun
	s := newTestSender(t, Config{Command: "etherwake", Broadcast: "192.168.1.255"}, func(_ context.Context, name string, args ...string) ([]byte, error) {
		got = recordedRun{name: name, args: args}
		return nil, nil
	})

	_, err := s.Wake(context.Background(), "001122AABBCC")
	require.NoError(t, err)
	assert.Equal(t, "etherwake", got.name)
	assert.Equal(t, []string{"-i", "192.168.1.255", "00:11:22:AA:BB:CC"}, got.args)
}

func TestSender_InvalidMACNotExecuted(t *testing.T) {
	ran := false
	s := newTestSender(t, Config{}, func(context.Context, string, ...string) ([]byte, error) {
		ran = true
		return nil, nil
	})

	_, err := s.Wake(context.Background(), "not a mac")
	require.ErrorIs(t, err, macaddr.ErrInvalidMAC)
	assert.False(t, ran)
}

func TestSender_CommandFailure(t *testing.T) {
	s := newTestSender(t, Config{}, func(context.Context, string, ...string) ([]byte, error) {
		return []byte("wakeonlan: not found"), errors.New("exit status 127")
	})

	mac, err := s.Wake(context.Background(), "00:11:22:33:44:55")
	require.ErrorIs(t, err, ErrCommandFailed)
	assert.Equal(t, "00:11:22:33:44:55", mac)
}

func TestSender_Timeout(t *testing.T) {
	s := newTestSender(t, Config{Timeout: 20 * time.Millisecond}, func(ctx context.Context, _ string, _ ...string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	start := time.Now()
	_, err := s.Wake(context.Background(), "00:11:22:33:44:55")
	require.ErrorIs(t, err, ErrCommandFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestNewSender_Defaults(t *testing.T) {
	s := NewSender(Config{}, nil)
	assert.Equal(t, "wakeonlan", s.cfg.Command)
	assert.Equal(t, 8*time.Second, s.cfg.Timeout)
}
