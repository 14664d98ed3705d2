// Package record journals the server's authoritative snapshots as zstd
// compressed JSON lines, one entry per server tick, and reads them back.
package record

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"netdemo/internal/pkg/checksum"
	"netdemo/internal/pkg/entity"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Entry is one recorded server tick.
type Entry struct {
	Tick     uint64  `json:"tick"`
	TimeMS   int64   `json:"time_ms"`
	States   []State `json:"states"`
	Checksum uint64  `json:"checksum"`
}

// State is the journal form of an entity state.
type State struct {
	ID                 int32   `json:"id"`
	X                  float32 `json:"x"`
	Y                  float32 `json:"y"`
	LastProcessedInput int32   `json:"last_processed_input"`
}

// NewEntry builds an entry for the given states, stamping its checksum.
func NewEntry(tick uint64, timeMS int64, states []entity.EntityState) (Entry, error) {
	sum, err := checksum.Sum(states...)
	if err != nil {
		return Entry{}, errors.Wrap(err, "checksum states failed")
	}
	e := Entry{Tick: tick, TimeMS: timeMS, Checksum: sum, States: make([]State, len(states))}
	for i, s := range states {
		e.States[i] = State{ID: s.EntityID, X: s.Position.X(), Y: s.Position.Y(), LastProcessedInput: s.LastProcessedInput}
	}
	return e, nil
}

// EntityStates converts the entry back to entity states.
func (e Entry) EntityStates() []entity.EntityState {
	out := make([]entity.EntityState, len(e.States))
	for i, s := range e.States {
		out[i] = entity.EntityState{EntityID: s.ID, Position: mgl32.Vec2{s.X, s.Y}, LastProcessedInput: s.LastProcessedInput}
	}
	return out
}

// Verify checks the entry's checksum against its states.
func (e Entry) Verify() error {
	return checksum.Verify(e.Checksum, e.EntityStates()...)
}

// ErrWriterClosed is returned when writing to a closed Writer.
var ErrWriterClosed = errors.New("journal writer closed")

// Writer appends entries to hourly rotated .jsonl.zst files.
type Writer struct {
	baseDir string
	prefix  string
	now     func() time.Time

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
	closed  bool
}

// NewWriter creates a Writer storing files under baseDir.
func NewWriter(baseDir, prefix string) *Writer {
	return &Writer{
		baseDir: baseDir,
		prefix:  prefix,
		now:     time.Now,
	}
}

// Write appends one entry.
func (w *Writer) Write(e Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWriterClosed
	}

	hour := w.now().UTC().Format("2006-01-02-15")
	if hour != w.curHour {
		if err := w.rotateLocked(hour); err != nil {
			return errors.Wrap(err, "rotate journal failed")
		}
	}
	b, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "marshal entry failed")
	}
	if _, err := w.w.Write(b); err != nil {
		return errors.Wrap(err, "write entry failed")
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return errors.Wrap(err, "write entry failed")
	}
	return nil
}

// Flush pushes buffered entries to the compressor.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return nil
	}
	return w.w.Flush()
}

// Close flushes and closes the current file. Later writes fail with ErrWriterClosed.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return w.closeLocked()
}

// Path returns the file the writer currently appends to.
func (w *Writer) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.curHour == "" {
		return ""
	}
	return w.pathForHour(w.curHour)
}

func (w *Writer) rotateLocked(hour string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.pathForHour(hour), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 64*1024)
	w.curHour = hour
	return nil
}

func (w *Writer) closeLocked() error {
	var err error
	if w.w != nil {
		err = w.w.Flush()
	}
	if w.enc != nil {
		if cerr := w.enc.Close(); err == nil {
			err = cerr
		}
		w.enc = nil
	}
	if w.f != nil {
		if cerr := w.f.Close(); err == nil {
			err = cerr
		}
		w.f = nil
	}
	w.w = nil
	return err
}

func (w *Writer) pathForHour(hour string) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, hour))
}

// Read decodes every entry of a journal file, verifying checksums, and calls fn for each.
// Concatenated zstd frames (a file appended to across restarts) are read in sequence.
func Read(path string, fn func(Entry) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open journal failed")
	}
	defer f.Close()
	return ReadFrom(f, fn)
}

// ReadFrom is Read over an arbitrary compressed stream.
func ReadFrom(r io.Reader, fn func(Entry) error) error {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return errors.Wrap(err, "open zstd stream failed")
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return errors.Wrapf(err, "decode entry on line %d failed", line)
		}
		if err := e.Verify(); err != nil {
			return errors.Wrapf(err, "verify tick %d failed", e.Tick)
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return errors.Wrap(sc.Err(), "scan journal failed")
}
