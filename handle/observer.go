package handle

import (
	"go.uber.org/zap"
)

// LogObserver writes lifecycle events to a zap logger at debug level.
type LogObserver struct {
	Logger *zap.Logger
}

// NewLogObserver returns an observer logging to l, or to a no-op logger
// when l is nil.
func NewLogObserver(l *zap.Logger) *LogObserver {
	if l == nil {
		l = zap.NewNop()
	}
	return &LogObserver{Logger: l}
}

func (o *LogObserver) OnHandleEvent(e Event) {
	o.Logger.Debug("handle "+e.Type.String(),
		zap.Uint32("handle", uint32(e.Handle)),
		zap.Stringer("kind", e.Kind),
		zap.Uint32("refs", e.Refs))
}

// Counter tracks live handle counts per kind from lifecycle events.
type Counter struct {
	live map[Kind]int
}

// NewCounter creates an empty counter.
func NewCounter() *Counter {
	return &Counter{live: make(map[Kind]int)}
}

func (c *Counter) OnHandleEvent(e Event) {
	switch e.Type {
	case EventAcquired:
		c.live[e.Kind]++
	case EventDropped:
		c.live[e.Kind]--
	}
}

// Live returns the number of live handles of kind.
func (c *Counter) Live(kind Kind) int { return c.live[kind] }
