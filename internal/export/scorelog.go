package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/piwi3910/SquareFill/internal/engine"
)

// ScoreLogEntry is one line of a score log. The first line of a file holds
// the run metadata, every later line a history sample.
type ScoreLogEntry struct {
	Run    *RunMetadata         `json:"run,omitempty"`
	Sample *engine.HistoryPoint `json:"sample,omitempty"`
}

// ScoreLogger writes zstd-compressed JSONL score samples. It is safe for
// concurrent use.
type ScoreLogger struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// NewScoreLogger creates (or truncates) the log at path.
func NewScoreLogger(path string) (*ScoreLogger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create score log directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create score log: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to start score log encoder: %w", err)
	}
	return &ScoreLogger{f: f, enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}, nil
}

// Write appends one entry.
func (l *ScoreLogger) Write(e ScoreLogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.w == nil {
		return fmt.Errorf("score log is closed")
	}

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := l.w.Write(b); err != nil {
		return err
	}
	return l.w.WriteByte('\n')
}

// WriteSample appends one history sample.
func (l *ScoreLogger) WriteSample(p engine.HistoryPoint) error {
	return l.Write(ScoreLogEntry{Sample: &p})
}

// Close flushes and closes the log. Closing twice is a no-op.
func (l *ScoreLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var err error
	if l.w != nil {
		err = l.w.Flush()
		l.w = nil
	}
	if l.enc != nil {
		if cerr := l.enc.Close(); err == nil {
			err = cerr
		}
		l.enc = nil
	}
	if l.f != nil {
		if cerr := l.f.Close(); err == nil {
			err = cerr
		}
		l.f = nil
	}
	return err
}

// WriteScoreLog writes the run metadata and the whole score history of a
// finished run.
func WriteScoreLog(path string, report engine.Report) error {
	l, err := NewScoreLogger(path)
	if err != nil {
		return err
	}
	meta := NewRunMetadata(report)
	if err := l.Write(ScoreLogEntry{Run: &meta}); err != nil {
		l.Close()
		return fmt.Errorf("failed to write score log: %w", err)
	}
	for _, p := range report.History {
		if err := l.WriteSample(p); err != nil {
			l.Close()
			return fmt.Errorf("failed to write score log: %w", err)
		}
	}
	return l.Close()
}

// ReadScoreLog reads a log written by WriteScoreLog. meta is nil when the
// log carries no run line.
func ReadScoreLog(path string) (*RunMetadata, []engine.HistoryPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open score log: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start score log decoder: %w", err)
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	var meta *RunMetadata
	var history []engine.HistoryPoint
	line := 0
	for sc.Scan() {
		line++
		var e ScoreLogEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return nil, nil, fmt.Errorf("%s:%d: unmarshal: %w", filepath.Base(path), line, err)
		}
		if e.Run != nil {
			meta = e.Run
		}
		if e.Sample != nil {
			history = append(history, *e.Sample)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read score log: %w", err)
	}
	return meta, history, nil
}
