package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sadopc/timecard/internal/rollup"
)

var sampleRows = []rollup.CostpointEntry{
	{Date: "2026-08-24", ChargeCode: "alpha", Hours: "2.50"},
	{Date: "2026-08-26", ChargeCode: "beta", Hours: "1.00"},
}

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "costpoint.csv")
	if err := ToCSV(sampleRows, path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[0][1] != "Charge Code" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][0] != "2026-08-24" || records[1][2] != "2.50" {
		t.Errorf("row 1 = %v", records[1])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("empty export should still write the header, got %v", records)
	}
}

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "costpoint.json")
	if err := ToJSON(sampleRows, path); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var out jsonExport
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 2 || len(out.Entries) != 2 {
		t.Errorf("export = %+v", out)
	}
	if out.ExportedAt == "" {
		t.Error("exported_at missing")
	}
	if out.Entries[1].ChargeCode != "beta" {
		t.Errorf("entries = %+v", out.Entries)
	}
}
