package logging

import (
	"context"
	"slices"
	"sync"
)

// Entry is one log call captured by a RecordingLogger
type Entry struct {
	Level   Level
	Message string
	Err     error
	Fields  Fields
}

type recordingSink struct {
	mu      sync.Mutex
	level   Level
	entries []Entry
}

// RecordingLogger keeps entries in memory. Loggers derived with WithFields
// write to the same sink. Fatal entries are recorded without exiting.
type RecordingLogger struct {
	sink   *recordingSink
	fields Fields
}

// NewRecordingLogger creates a recording logger accepting all levels
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{sink: &recordingSink{level: DebugLevel}, fields: Fields{}}
}

func (r *RecordingLogger) record(level Level, err error, msg string, fields ...Fields) {
	r.sink.mu.Lock()
	defer r.sink.mu.Unlock()
	if level < r.sink.level {
		return
	}
	r.sink.entries = append(r.sink.entries, Entry{
		Level:   level,
		Message: msg,
		Err:     err,
		Fields:  mergeFields(r.fields, fields...),
	})
}

func (r *RecordingLogger) Debug(msg string, fields ...Fields) {
	r.record(DebugLevel, nil, msg, fields...)
}

func (r *RecordingLogger) Info(msg string, fields ...Fields) {
	r.record(InfoLevel, nil, msg, fields...)
}

func (r *RecordingLogger) Warn(msg string, fields ...Fields) {
	r.record(WarnLevel, nil, msg, fields...)
}

func (r *RecordingLogger) Error(err error, msg string, fields ...Fields) {
	r.record(ErrorLevel, err, msg, fields...)
}

func (r *RecordingLogger) Fatal(err error, msg string, fields ...Fields) {
	r.record(FatalLevel, err, msg, fields...)
}

func (r *RecordingLogger) WithFields(fields Fields) Logger {
	return &RecordingLogger{sink: r.sink, fields: mergeFields(r.fields, fields)}
}

func (r *RecordingLogger) WithContext(ctx context.Context) Logger {
	if fields, ok := fieldsFromContext(ctx); ok {
		return r.WithFields(fields)
	}
	return r
}

func (r *RecordingLogger) SetLevel(level Level) {
	r.sink.mu.Lock()
	r.sink.level = level
	r.sink.mu.Unlock()
}

// Entries returns a copy of everything recorded so far
func (r *RecordingLogger) Entries() []Entry {
	r.sink.mu.Lock()
	defer r.sink.mu.Unlock()
	return slices.Clone(r.sink.entries)
}

// EntriesAt returns the recorded entries of the given level
func (r *RecordingLogger) EntriesAt(level Level) []Entry {
	var res []Entry
	for _, e := range r.Entries() {
		if e.Level == level {
			res = append(res, e)
		}
	}
	return res
}

// Reset drops all recorded entries
func (r *RecordingLogger) Reset() {
	r.sink.mu.Lock()
	r.sink.entries = nil
	r.sink.mu.Unlock()
}
