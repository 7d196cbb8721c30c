package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/timecard/internal/rollup"
)

type jsonExport struct {
	ExportedAt string                  `json:"exported_at"`
	Count      int                     `json:"count"`
	Entries    []rollup.CostpointEntry `json:"entries"`
}

func ToJSON(rows []rollup.CostpointEntry, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(rows),
		Entries:    rows,
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
