package pipeline

import (
	"fmt"
	"io"

	"histmatch/internal/matcher"
)

// WriteReport prints the accuracy line of report. With verbose set, every
// miss is listed first.
func WriteReport(w io.Writer, report *matcher.Report, verbose bool) error {
	if report == nil {
		return fmt.Errorf("no report to write")
	}

	if verbose {
		for _, miss := range report.Misses() {
			query := miss.QueryID
			if query == "" {
				query = "-"
			}
			if _, err := fmt.Fprintf(w, "miss: %s -> %s (%.6g)\n", miss.SupportID, query, miss.Score); err != nil {
				return err
			}
		}
		if report.Anomalies > 0 {
			if _, err := fmt.Fprintf(w, "anomalies: %d\n", report.Anomalies); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintf(w, "accuracy: %s\n", report.Summary())
	return err
}
