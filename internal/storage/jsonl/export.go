// Package jsonl writes snapshot history to a JSON-lines file for offline
// inspection.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"tokenScope/internal/model"
)

// Exporter appends snapshots to a JSONL file.
type Exporter struct {
	path string
	mu   sync.Mutex
}

func NewExporter(path string) *Exporter {
	return &Exporter{path: path}
}

// WriteSnapshots appends a batch of snapshots as JSON lines.
func (e *Exporter) WriteSnapshots(snapshots []model.Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	dir := filepath.Dir(e.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	file, err := os.OpenFile(e.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, snapshot := range snapshots {
		line, err := json.Marshal(snapshot)
		if err != nil {
			return fmt.Errorf("marshal snapshot: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}
