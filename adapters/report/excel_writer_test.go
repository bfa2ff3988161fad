package report

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestSaveExcel(t *testing.T) {
	run := sampleRun()
	path := filepath.Join(t.TempDir(), "statistics.xlsx")

	if err := SaveExcel(path, run); err != nil {
		t.Fatalf("save excel: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(statisticsSheet)
	if err != nil {
		t.Fatalf("read %s: %v", statisticsSheet, err)
	}
	if len(rows) != len(run.Statistics)+1 {
		t.Fatalf("expected %d rows on %s, got %d", len(run.Statistics)+1, statisticsSheet, len(rows))
	}
	for i, h := range Header {
		if rows[0][i] != h {
			t.Fatalf("header column %d: got %q want %q", i, rows[0][i], h)
		}
	}
	if rows[1][0] != "alpha" {
		t.Fatalf("unexpected first data row: %v", rows[1])
	}

	topRows, err := f.GetRows(topSheet)
	if err != nil {
		t.Fatalf("read %s: %v", topSheet, err)
	}
	// Header plus every strategy; the fixture is smaller than the top-N cap.
	if len(topRows) != len(run.Statistics)+1 {
		t.Fatalf("expected %d rows on %s, got %d", len(run.Statistics)+1, topSheet, len(topRows))
	}
	if topRows[1][0] != "alpha" || topRows[2][0] != "gamma" {
		t.Fatalf("top sheet must be DSR-sorted: %v, %v", topRows[1][0], topRows[2][0])
	}
}
