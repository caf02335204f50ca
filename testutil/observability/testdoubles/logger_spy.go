package testdoubles

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/dynamic-spies-go/spies"
)

// SpyLogRecord represents a recorded log call.
type SpyLogRecord struct {
	Level      string
	Message    string
	Args       []any
	Context    context.Context
	Contextual bool
}

// Attr returns the value following key in Args.
func (r SpyLogRecord) Attr(key string) (any, bool) {
	for i := 0; i+1 < len(r.Args); i += 2 {
		if k, ok := r.Args[i].(string); ok && k == key {
			return r.Args[i+1], true
		}
	}

	return nil, false
}

// LoggerSpy implements spies.Logger and spies.ContextualLogger and records every call.
type LoggerSpy struct {
	records []SpyLogRecord
	mu      sync.Mutex
}

// NewLoggerSpy creates a new LoggerSpy.
func NewLoggerSpy() *LoggerSpy {
	return &LoggerSpy{}
}

func (s *LoggerSpy) record(ctx context.Context, contextual bool, level, msg string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, SpyLogRecord{
		Level:      level,
		Message:    msg,
		Args:       append([]any(nil), args...),
		Context:    ctx,
		Contextual: contextual,
	})
}

func (s *LoggerSpy) Debug(msg string, args ...any) {
	s.record(context.Background(), false, "debug", msg, args)
}

func (s *LoggerSpy) Info(msg string, args ...any) {
	s.record(context.Background(), false, "info", msg, args)
}

func (s *LoggerSpy) Warn(msg string, args ...any) {
	s.record(context.Background(), false, "warn", msg, args)
}

func (s *LoggerSpy) Error(msg string, args ...any) {
	s.record(context.Background(), false, "error", msg, args)
}

func (s *LoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, true, "debug", msg, args)
}

func (s *LoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, true, "info", msg, args)
}

func (s *LoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, true, "warn", msg, args)
}

func (s *LoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, true, "error", msg, args)
}

// GetRecords returns a copy of all records.
func (s *LoggerSpy) GetRecords() []SpyLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyLogRecord(nil), s.records...)
}

// GetRecordsWithLevel returns a copy of all records of the given level.
func (s *LoggerSpy) GetRecordsWithLevel(level string) []SpyLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []SpyLogRecord
	for _, record := range s.records {
		if record.Level == level {
			records = append(records, record)
		}
	}

	return records
}

// HasLog checks if a log with the specified level and message exists.
func (s *LoggerSpy) HasLog(level, message string) bool {
	return len(s.FindLogs(level, message)) > 0
}

// FindLogs returns all records with the specified level and message.
func (s *LoggerSpy) FindLogs(level, message string) []SpyLogRecord {
	var found []SpyLogRecord
	for _, record := range s.GetRecordsWithLevel(level) {
		if record.Message == message {
			found = append(found, record)
		}
	}

	return found
}

// Reset clears all recorded log calls.
func (s *LoggerSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = s.records[:0]
}

var _ spies.Logger = (*LoggerSpy)(nil)
var _ spies.ContextualLogger = (*LoggerSpy)(nil)
