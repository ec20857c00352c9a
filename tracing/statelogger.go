package tracing

import (
	"github.com/sirupsen/logrus"

	"github.com/simworks/desim/sim"
	"github.com/simworks/desim/sim/hooking"
	"github.com/simworks/desim/sim/resource"
)

// A StateChangeLogger logs every resource and transporter transition.
type StateChangeLogger struct {
	timeTeller sim.TimeTeller
	logger     *logrus.Logger
}

// NewStateChangeLogger creates a StateChangeLogger writing through the
// given logger.
func NewStateChangeLogger(
	tt sim.TimeTeller,
	logger *logrus.Logger,
) *StateChangeLogger {
	return &StateChangeLogger{timeTeller: tt, logger: logger}
}

// Func logs the transition.
func (l *StateChangeLogger) Func(ctx hooking.HookCtx) {
	if ctx.Pos != resource.HookPosStateChange {
		return
	}

	change, ok := ctx.Detail.(resource.StateChange)
	if !ok {
		return
	}

	entity, _ := ctx.Item.(sim.Named)

	fields := logrus.Fields{
		"time":      float64(l.timeTeller.CurrentTime()),
		"from":      change.From,
		"to":        change.To,
		"operation": change.Operation,
	}

	if entity != nil {
		fields["entity"] = entity.Name()
	}

	l.logger.WithFields(fields).Debug("state change")
}
