// Package export writes the app state as downloadable artifacts.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ecamli/monk/internal/store"
)

type jsonExport struct {
	ExportedAt string          `json:"exported_at"`
	TaskCount  int             `json:"task_count"`
	State      *store.Snapshot `json:"state"`
}

// ToJSON writes the full state snapshot verbatim as a JSON artifact.
func ToJSON(snap *store.Snapshot, path string) error {
	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		TaskCount:  len(snap.Tasks),
		State:      snap,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
