package report

import (
	"fmt"
	"log"

	"sharpestat/domain/sharpe"

	"github.com/xuri/excelize/v2"
)

const (
	statisticsSheet = "Statistics"
	topSheet        = "Top by DSR"
	topN            = 10
)

// SaveExcel writes the run to an Excel workbook: the full statistics table
// plus a DSR-sorted top-10 sheet, matching the report layout of the study.
func SaveExcel(path string, run *sharpe.AnalysisRun) error {
	log.Printf("[Report] Writing Excel workbook: %s", path)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", statisticsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSheet(f, statisticsSheet, run.Statistics); err != nil {
		return err
	}

	if _, err := f.NewSheet(topSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", topSheet, err)
	}
	if err := writeSheet(f, topSheet, TopByDSR(run, topN)); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, records []sharpe.Statistics) error {
	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header on %s: %w", sheet, err)
	}

	for i, st := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			st.Strategy.String(), st.SR, st.SRPValue, st.AnnSR, st.PSR, st.DSR, st.HLZPValue, st.Class,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d on %s: %w", i+2, sheet, err)
		}
	}
	return nil
}
