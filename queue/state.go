package queue

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StateFile tracks the creation timestamp of the most recently processed
// batch so polling can query only for newer ideas. Missing or corrupt files
// read as the zero time, which falls back to a full pending scan.
type StateFile struct {
	path string
}

type stateRecord struct {
	LastProcessed time.Time `json:"last_processed"`
}

// NewStateFile creates a state file handle at the given path.
func NewStateFile(path string) *StateFile {
	return &StateFile{path: path}
}

// LastProcessed returns the stored timestamp, or the zero time when no valid
// record exists.
func (s *StateFile) LastProcessed() time.Time {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return time.Time{}
	}

	var record stateRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return time.Time{}
	}
	return record.LastProcessed
}

// SetLastProcessed stores the timestamp.
func (s *StateFile) SetLastProcessed(t time.Time) error {
	data, err := json.Marshal(stateRecord{LastProcessed: t.UTC()})
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}
