// Package telemetry provides notify.Instrumentation implementations backed
// by Prometheus, OpenTelemetry and slog.
//
//	notify.SetInstrumentation(telemetry.Multi(
//	    telemetry.NewPrometheus(telemetry.WithNamespace("myapp")),
//	    telemetry.OpenTelemetry(),
//	))
package telemetry

import (
	"log/slog"
	"reflect"

	"github.com/narvi-dev/narvi/pkg/notify"
)

// Multi fans every call out to each of insts, in order. Nil entries are
// skipped.
func Multi(insts ...notify.Instrumentation) notify.Instrumentation {
	var list multi
	for _, i := range insts {
		if i != nil {
			list = append(list, i)
		}
	}
	return list
}

type multi []notify.Instrumentation

func (m multi) CascadeStarted(owner reflect.Type, property string) notify.CascadeScope {
	scopes := make(multiScope, len(m))
	for i, inst := range m {
		scopes[i] = inst.CascadeStarted(owner, property)
	}
	return scopes
}

func (m multi) CallbackCollected() {
	for _, inst := range m {
		inst.CallbackCollected()
	}
}

func (m multi) SubscriptionOpened(kind string) {
	for _, inst := range m {
		inst.SubscriptionOpened(kind)
	}
}

func (m multi) SubscriptionClosed(kind string) {
	for _, inst := range m {
		inst.SubscriptionClosed(kind)
	}
}

func (m multi) PathRewired(path string) {
	for _, inst := range m {
		inst.PathRewired(path)
	}
}

type multiScope []notify.CascadeScope

func (s multiScope) Notified(property string) {
	for _, scope := range s {
		scope.Notified(property)
	}
}

func (s multiScope) End(err error) {
	for _, scope := range s {
		scope.End(err)
	}
}

// Logging writes one debug record per cascade with the properties it
// raised, and info records for aborted cascades.
type Logging struct {
	logger *slog.Logger
}

// NewLogging returns logging instrumentation. A nil logger uses
// slog.Default().
func NewLogging(logger *slog.Logger) *Logging {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logging{logger: logger}
}

func (l *Logging) CascadeStarted(owner reflect.Type, property string) notify.CascadeScope {
	return &logScope{l: l, typ: typeLabel(owner), property: property}
}

func (l *Logging) CallbackCollected() {
	l.logger.Debug("weak callback collected")
}

func (l *Logging) SubscriptionOpened(kind string) {
	l.logger.Debug("subscription opened", "kind", kind)
}

func (l *Logging) SubscriptionClosed(kind string) {
	l.logger.Debug("subscription closed", "kind", kind)
}

func (l *Logging) PathRewired(path string) {
	l.logger.Debug("path re-wired", "path", path)
}

type logScope struct {
	l        *Logging
	typ      string
	property string
	notified []string
}

func (s *logScope) Notified(property string) {
	s.notified = append(s.notified, property)
}

func (s *logScope) End(err error) {
	if err != nil {
		s.l.logger.Info("cascade aborted",
			"type", s.typ,
			"property", s.property,
			"notified", s.notified,
			"error", err)
		return
	}
	s.l.logger.Debug("cascade",
		"type", s.typ,
		"property", s.property,
		"notified", s.notified)
}
