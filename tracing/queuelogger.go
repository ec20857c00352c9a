package tracing

import (
	"github.com/sirupsen/logrus"

	"github.com/simworks/desim/sim/hooking"
	"github.com/simworks/desim/sim/queue"
)

// A QueueLogger logs enqueue, dequeue, and ignore mutations of a queue.
type QueueLogger struct {
	logger *logrus.Logger
}

// NewQueueLogger creates a QueueLogger writing through the given logger.
func NewQueueLogger(logger *logrus.Logger) *QueueLogger {
	return &QueueLogger{logger: logger}
}

// Func logs the mutation.
func (l *QueueLogger) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case queue.HookPosEnqueue, queue.HookPosDequeue, queue.HookPosIgnore:
	default:
		return
	}

	obj, ok := ctx.Item.(*queue.QObject)
	if !ok {
		return
	}

	q, _ := ctx.Domain.(*queue.Queue)

	fields := logrus.Fields{
		"object":   obj.ID(),
		"priority": obj.Priority(),
	}

	if q != nil {
		fields["queue"] = q.Name()
		fields["size"] = q.Size()
	}

	l.logger.WithFields(fields).Debug(ctx.Pos.Name)
}
