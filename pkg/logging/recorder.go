package logging

import "sync"

// RecordedEntry is one call captured by a Recorder
type RecordedEntry struct {
	Level   Level
	Message string
	Fields  map[string]any
}

// Recorder keeps every entry in memory. Used to assert on diagnostics.
type Recorder struct {
	entries *[]RecordedEntry
	fields  []Field
	level   *levelVar
	mu      *sync.Mutex
}

func NewRecorder() *Recorder {
	return &Recorder{
		entries: &[]RecordedEntry{},
		level:   &levelVar{level: DebugLevel},
		mu:      &sync.Mutex{},
	}
}

func (r *Recorder) record(level Level, msg string, fields []Field) {
	if level < r.level.get() {
		return
	}
	m := make(map[string]any, len(r.fields)+len(fields))
	for _, f := range r.fields {
		m[f.Key] = f.Value
	}
	for _, f := range fields {
		m[f.Key] = f.Value
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	*r.entries = append(*r.entries, RecordedEntry{Level: level, Message: msg, Fields: m})
}

func (r *Recorder) Debug(msg string, fields ...Field) { r.record(DebugLevel, msg, fields) }
func (r *Recorder) Info(msg string, fields ...Field)  { r.record(InfoLevel, msg, fields) }
func (r *Recorder) Warn(msg string, fields ...Field)  { r.record(WarnLevel, msg, fields) }
func (r *Recorder) Error(msg string, fields ...Field) { r.record(ErrorLevel, msg, fields) }
func (r *Recorder) SetLevel(level Level)              { r.level.set(level) }
func (r *Recorder) GetLevel() Level                   { return r.level.get() }

func (r *Recorder) With(fields ...Field) Logger {
	preset := make([]Field, 0, len(r.fields)+len(fields))
	preset = append(preset, r.fields...)
	preset = append(preset, fields...)
	return &Recorder{entries: r.entries, fields: preset, level: r.level, mu: r.mu}
}

// Entries returns a copy of everything recorded so far
func (r *Recorder) Entries() []RecordedEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RecordedEntry, len(*r.entries))
	copy(out, *r.entries)
	return out
}

// AtLevel returns the recorded entries of exactly the given level
func (r *Recorder) AtLevel(level Level) []RecordedEntry {
	var out []RecordedEntry
	for _, e := range r.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// Reset forgets every recorded entry
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.entries = (*r.entries)[:0]
}
