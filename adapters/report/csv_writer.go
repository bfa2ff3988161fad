// Package report serializes completed analysis runs for the reporting
// collaborators: a delimited file for downstream rendering and an Excel
// workbook for direct inspection.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"

	"sharpestat/domain/sharpe"
)

// Header is the statistics table column order.
var Header = []string{"Strategy", "SR", "SR_p_value", "Ann_SR", "PSR", "DSR", "HLZ_p_value", "Strategy_class"}

// WriteCSV streams the run's statistics table to w.
func WriteCSV(w io.Writer, run *sharpe.AnalysisRun) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, st := range run.Statistics {
		record := []string{
			st.Strategy.String(),
			formatFloat(st.SR),
			formatFloat(st.SRPValue),
			formatFloat(st.AnnSR),
			formatFloat(st.PSR),
			formatFloat(st.DSR),
			formatFloat(st.HLZPValue),
			st.Class,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row for %s: %w", st.Strategy, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the statistics table to a file.
func SaveCSV(path string, run *sharpe.AnalysisRun) error {
	log.Printf("[Report] Writing CSV statistics table: %s", path)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	return WriteCSV(f, run)
}

// TopByDSR returns the n strategies with the highest Deflated Sharpe Ratio,
// in descending order. The run's own ordering is left untouched.
func TopByDSR(run *sharpe.AnalysisRun, n int) []sharpe.Statistics {
	top := make([]sharpe.Statistics, len(run.Statistics))
	copy(top, run.Statistics)

	sort.SliceStable(top, func(i, j int) bool {
		return top[i].DSR > top[j].DSR
	})

	if n < len(top) {
		top = top[:n]
	}
	return top
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
