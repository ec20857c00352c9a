// Package tracing provides hook implementations that narrate a simulation
// run through structured logs. Attach them to the executive, to queues, or
// to state-machine entities; the kernel stays unaware of them.
package tracing

import (
	"reflect"

	"github.com/sirupsen/logrus"

	"github.com/simworks/desim/sim"
	"github.com/simworks/desim/sim/hooking"
)

// An EventLogger logs every event the executive fires.
type EventLogger struct {
	logger *logrus.Logger
}

// NewEventLogger creates an EventLogger writing through the given logger.
func NewEventLogger(logger *logrus.Logger) *EventLogger {
	return &EventLogger{logger: logger}
}

// Func logs the event information before the event fires.
func (l *EventLogger) Func(ctx hooking.HookCtx) {
	if ctx.Pos != sim.HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(*sim.Event)
	if !ok {
		return
	}

	fields := logrus.Fields{
		"time":     float64(evt.Time()),
		"priority": evt.Priority(),
		"sequence": evt.Sequence(),
	}

	if owner := evt.Owner(); owner != nil {
		fields["owner"] = owner.Name()
	}

	l.logger.WithFields(fields).
		Debugf("event %s", reflect.TypeOf(evt.Action()))
}
