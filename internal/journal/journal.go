// Package journal provides the append-only JSON-lines audit trail written
// by the self-improvement loop. Every loop phase lands here as one event
// per line, so the file can be tailed or replayed with standard tooling.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultPath is the audit log location relative to the working directory.
const DefaultPath = ".ankh_aten/log.jsonl"

// Event is a single audit trail entry.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Cycle     int            `json:"cycle"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data"`
}

// Journal appends events to a JSON-lines file. It is safe for concurrent use.
type Journal struct {
	mu   sync.Mutex
	f    *os.File
	path string
}

// Open creates (or appends to) the journal at path, creating parent
// directories as needed. An empty path selects DefaultPath.
func Open(path string) (*Journal, error) {
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}
	return &Journal{f: f, path: path}, nil
}

// Path returns the journal file location.
func (j *Journal) Path() string {
	return j.path
}

// Append serializes the event and writes it as one line. A zero timestamp
// is filled with the current UTC time.
func (j *Journal) Append(ev Event) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal journal event: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := j.f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append journal event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.f.Close()
}

// ReadAll parses every event in the journal at path. Lines are expected to
// be complete JSON objects; a malformed line aborts with its line number.
func ReadAll(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			return nil, fmt.Errorf("malformed journal line %d: %w", lineNo, err)
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	return events, nil
}
