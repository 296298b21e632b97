package dialect

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Level is the severity of a debug-sink message.
type Level int

// Severities emitted by the engine.
const (
	// LevelTrace carries the rendered SQL of every statement.
	LevelTrace Level = iota
	// LevelInfo carries informational messages such as fetched row counts.
	LevelInfo
	// LevelError carries failures surfaced at the driver boundary.
	LevelError
)

// Sink receives debug messages from the engine. It is observability only;
// nothing in the engine's control flow depends on it.
type Sink interface {
	Emit(level Level, msg string)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(level Level, msg string)

// Emit calls f.
func (f SinkFunc) Emit(level Level, msg string) { f(level, msg) }

// slogSink forwards sink messages to a slog.Logger, mapping Trace to Debug.
type slogSink struct {
	l *slog.Logger
}

// NewSlogSink returns a Sink backed by the given slog.Logger. A nil logger
// uses slog.Default.
func NewSlogSink(l *slog.Logger) Sink {
	if l == nil {
		l = slog.Default()
	}
	return slogSink{l: l}
}

// Emit implements the Sink interface.
func (s slogSink) Emit(level Level, msg string) {
	switch level {
	case LevelTrace:
		s.l.Debug(msg)
	case LevelInfo:
		s.l.Info(msg)
	default:
		s.l.Error(msg)
	}
}

// DebugOption configures the Debug wrapper.
type DebugOption func(*debugDriver)

// WithThreshold drops messages below the given level. The default threshold
// is LevelTrace, emitting everything.
func WithThreshold(level Level) DebugOption {
	return func(d *debugDriver) { d.threshold = level }
}

// Debug wraps a Driver so that every statement is traced to the sink: the
// rendered SQL at LevelTrace tagged with a per-statement id, fetched row
// counts at LevelInfo, and failures at LevelError.
func Debug(drv Driver, sink Sink, opts ...DebugOption) Driver {
	d := &debugDriver{Driver: drv, sink: sink}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type debugDriver struct {
	Driver
	sink      Sink
	threshold Level
}

func (d *debugDriver) emit(level Level, msg string) {
	if level >= d.threshold {
		d.sink.Emit(level, msg)
	}
}

func (d *debugDriver) Prepare(ctx context.Context, query string) (Stmt, error) {
	id := uuid.NewString()[:8]
	d.emit(LevelTrace, fmt.Sprintf("stmt=%s prepare: %s", id, query))
	stmt, err := d.Driver.Prepare(ctx, query)
	if err != nil {
		d.emit(LevelError, fmt.Sprintf("stmt=%s prepare failed: %v", id, err))
		return nil, err
	}
	return &debugStmt{Stmt: stmt, drv: d, id: id}, nil
}

func (d *debugDriver) Exec(ctx context.Context, query string) error {
	id := uuid.NewString()[:8]
	d.emit(LevelTrace, fmt.Sprintf("stmt=%s exec: %s", id, query))
	if err := d.Driver.Exec(ctx, query); err != nil {
		d.emit(LevelError, fmt.Sprintf("stmt=%s exec failed: %v", id, err))
		return err
	}
	return nil
}

type debugStmt struct {
	Stmt
	drv  *debugDriver
	id   string
	rows int
}

func (s *debugStmt) Execute(ctx context.Context) error {
	if err := s.Stmt.Execute(ctx); err != nil {
		s.drv.emit(LevelError, fmt.Sprintf("stmt=%s execute failed: %v", s.id, err))
		return err
	}
	return nil
}

func (s *debugStmt) Next() (map[string]string, error) {
	row, err := s.Stmt.Next()
	if err != nil {
		s.drv.emit(LevelError, fmt.Sprintf("stmt=%s fetch failed: %v", s.id, err))
		return nil, err
	}
	if row != nil {
		s.rows++
	}
	return row, nil
}

func (s *debugStmt) Close() error {
	s.drv.emit(LevelInfo, fmt.Sprintf("stmt=%s finished, %d rows fetched", s.id, s.rows))
	return s.Stmt.Close()
}
