package collector

import (
	"context"
	"fmt"

	"github.com/HerbHall/netpanel/pkg/models"
	"go.uber.org/zap"
)

// Normalizer runs the metric plan selected for a host and derives the
// agent status.
type Normalizer struct {
	reader ItemReader
	logger *zap.Logger
}

// NewNormalizer creates a Normalizer reading items through r.
func NewNormalizer(r ItemReader, logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{reader: r, logger: logger}
}

// Normalize collects the metrics of one host. A panic inside the plan is
// recovered: the fields filled so far are returned and the failure logged.
func (n *Normalizer) Normalize(ctx context.Context, hostID string, c Classification) (m models.Metrics) {
	m.DeviceType = c.Label
	m.AgentStatus = models.AgentStatusUnknown

	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("metric plan panicked",
				zap.String("host_id", hostID),
				zap.String("plan", string(c.Plan)),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()

	plan, ok := plans[c.Plan]
	if !ok {
		plan = computerPlan
	}
	plan(ctx, n.reader, hostID, &m)

	m.AgentStatus = agentStatus(n.reader.ItemValue(ctx, hostID, keyAgentPing))
	return m
}

// agentStatus maps an agent.ping reading. A failed or missing lookup is
// unknown rather than offline.
func agentStatus(v *float64) models.AgentStatus {
	switch {
	case v == nil:
		return models.AgentStatusUnknown
	case *v > 0:
		return models.AgentStatusOnline
	default:
		return models.AgentStatusOffline
	}
}
