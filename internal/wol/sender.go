// Package wol wakes hosts through an external Wake-on-LAN command.
package wol

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/HerbHall/netpanel/pkg/macaddr"
	"go.uber.org/zap"
)

// ErrCommandFailed wraps any failure of the external command, timeouts
// included.
var ErrCommandFailed = errors.New("wake-on-lan command failed")

// runFunc runs name with args and returns combined output.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// Sender sends magic packets by running the configured command.
type Sender struct {
	cfg    Config
	run    runFunc
	logger *zap.Logger
}

// NewSender creates a Sender.
func NewSender(cfg Config, logger *zap.Logger) *Sender {
	def := DefaultConfig()
	if cfg.Command == "" {
		cfg.Command = def.Command
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sender{cfg: cfg, run: runCommand, logger: logger}
}

// Wake normalizes mac and runs the command for it. It returns the
// normalized MAC. Invalid input yields macaddr.ErrInvalidMAC without running
// anything.
func (s *Sender) Wake(ctx context.Context, mac string) (string, error) {
	normalized, err := macaddr.Normalize(mac)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	args := make([]string, 0, 3)
	if s.cfg.Broadcast != "" {
		args = append(args, "-i", s.cfg.Broadcast)
	}
	args = append(args, normalized)

	start := time.Now()
	out, err := s.run(ctx, s.cfg.Command, args...)
	if err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("timed out after %s: %w", s.cfg.Timeout, ctx.Err())
		}
		s.logger.Error("wake-on-lan failed",
			zap.String("mac", normalized),
			zap.String("output", strings.TrimSpace(string(out))),
			zap.Error(err),
		)
		return normalized, fmt.Errorf("%w: %w", ErrCommandFailed, err)
	}

	s.logger.Info("wake-on-lan sent",
		zap.String("mac", normalized),
		zap.Duration("duration", time.Since(start)),
	)
	return normalized, nil
}
