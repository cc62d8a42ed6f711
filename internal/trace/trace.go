// Package trace records emitted events as zstd-compressed JSON lines and
// reads them back as typed events.
package trace

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/vovakirdan/hullbreach/internal/combat"
)

// Ext is the conventional trace file extension.
const Ext = ".jsonl.zst"

// Record is one line of a trace.
type Record struct {
	Tick uint64          `json:"tick"`
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// Entry is a decoded trace record.
type Entry struct {
	Tick  uint64
	Event combat.Event
}

// Writer appends events to a compressed JSONL stream.
type Writer struct {
	mu     sync.Mutex
	closer io.Closer // Underlying file, if the writer owns one
	enc    *zstd.Encoder
	w      *bufio.Writer
	count  int
}

// NewWriter compresses records into w. Close flushes the stream but does
// not close w.
func NewWriter(w io.Writer) (*Writer, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("trace: zstd writer: %w", err)
	}
	return &Writer{
		enc: enc,
		w:   bufio.NewWriterSize(enc, 64*1024),
	}, nil
}

// Create opens path for writing, creating parent directories.
func Create(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	w, err := NewWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.closer = f
	return w, nil
}

// Write appends the events of one tick.
func (w *Writer) Write(tick uint64, events []combat.Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, e := range events {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("trace: marshal %s: %w", e.Kind(), err)
		}
		line, err := json.Marshal(Record{Tick: tick, Kind: e.Kind(), Data: data})
		if err != nil {
			return fmt.Errorf("trace: marshal record: %w", err)
		}
		if _, err := w.w.Write(line); err != nil {
			return err
		}
		if err := w.w.WriteByte('\n'); err != nil {
			return err
		}
		w.count++
	}
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close flushes buffered records and finishes the zstd frame.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	err := w.w.Flush()
	if cerr := w.enc.Close(); err == nil {
		err = cerr
	}
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
		w.closer = nil
	}
	return err
}

// Reader decodes a trace stream.
type Reader struct {
	dec  *zstd.Decoder
	sc   *bufio.Scanner
	line int
}

// NewReader decompresses records from r.
func NewReader(r io.Reader) (*Reader, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("trace: zstd reader: %w", err)
	}
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	return &Reader{dec: dec, sc: sc}, nil
}

// Next returns the next entry, or io.EOF at the end of the stream.
func (r *Reader) Next() (Entry, error) {
	for r.sc.Scan() {
		r.line++
		raw := r.sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return Entry{}, fmt.Errorf("trace: line %d: %w", r.line, err)
		}
		e, err := combat.DecodeEvent(rec.Kind, rec.Data)
		if err != nil {
			return Entry{}, fmt.Errorf("trace: line %d: %w", r.line, err)
		}
		return Entry{Tick: rec.Tick, Event: e}, nil
	}
	if err := r.sc.Err(); err != nil {
		return Entry{}, fmt.Errorf("trace: %w", err)
	}
	return Entry{}, io.EOF
}

// Close releases the decoder.
func (r *Reader) Close() {
	r.dec.Close()
}

// ReadFile decodes every entry of a trace file.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	defer f.Close()

	r, err := NewReader(f)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var entries []Entry
	for {
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return entries, err
		}
		entries = append(entries, e)
	}
}
