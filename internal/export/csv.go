// Package export writes the costpoint billing rollup to disk for pasting
// into the billing system.
package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/sadopc/timecard/internal/rollup"
)

func ToCSV(rows []rollup.CostpointEntry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Date", "Charge Code", "Hours"}); err != nil {
		return err
	}

	for _, row := range rows {
		if err := w.Write([]string{row.Date, row.ChargeCode, row.Hours}); err != nil {
			return err
		}
	}

	return w.Error()
}
