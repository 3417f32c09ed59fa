package bridge

import (
	"go.uber.org/zap"

	"github.com/wippyai/jsinterop/convert"
	"github.com/wippyai/jsinterop/handle"
)

// Option configures a Session.
type Option func(*Session)

// WithConverters sets the converter registry. The default is convert.Default().
func WithConverters(reg *convert.Registry) Option {
	return func(s *Session) { s.converters = reg }
}

// WithRegistry sets the call-in registry used by Dispatch.
func WithRegistry(reg *Registry) Option {
	return func(s *Session) { s.registry = reg }
}

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithHandleObserver subscribes o to the session's handle table.
func WithHandleObserver(o handle.Observer) Option {
	return func(s *Session) { s.observers = append(s.observers, o) }
}
