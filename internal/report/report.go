// Package report renders progress and summary lines for humans.
package report

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/zarlcorp/zrows/internal/dataset"
)

// English locale gives consistent thousands separators.
var printer = message.NewPrinter(language.English)

// Number formats n with thousands separators, e.g. 10,000,000.
func Number(n int) string {
	return printer.Sprintf("%d", n)
}

// Bytes formats a byte count in binary units.
func Bytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// Seconds formats d as seconds with two decimals.
func Seconds(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// Rate formats the summary's throughput, or N/A when it is undefined.
func Rate(s dataset.Summary) string {
	rate, ok := s.RowsPerSecond()
	if !ok {
		return "N/A"
	}
	return printer.Sprintf("%.0f rows/s", rate)
}

// ProgressLine renders one batch update, e.g.
// "progress 40.0% | 100 rows written | 0.52s".
func ProgressLine(p dataset.Progress) string {
	return fmt.Sprintf("progress %.1f%% | %s rows written | %s",
		p.Percent(), Number(p.Rows), Seconds(p.Elapsed))
}

// Summary renders the completion lines.
func Summary(s dataset.Summary) string {
	return fmt.Sprintf("wrote %s rows to %s (%s, %s)\ntotal time %s | average %s",
		Number(s.Rows), s.Path, Bytes(s.Bytes), batches(s.Batches),
		Seconds(s.Elapsed), Rate(s))
}

func batches(n int) string {
	if n == 1 {
		return "1 batch"
	}
	return Number(n) + " batches"
}
