package status

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/walteh/filemill/pkg/batch"
)

// 🎨 Display configuration
const (
	fileIndent = 4  // spaces to indent file entries
	nameWidth  = 35 // base width for file names
	durWidth   = 10 // width for duration column
)

// 🎯 FormatStart formats the opening line of a run.
func FormatStart(e batch.StartEvent) string {
	fileNoun := "files"
	if len(e.Files) == 1 {
		fileNoun = "file"
	}
	workerNoun := "workers"
	if e.Workers == 1 {
		workerNoun = "worker"
	}
	return fmt.Sprintf("Processing %d %s with %s (%d %s)",
		len(e.Files), fileNoun, e.Processor, e.Workers, workerNoun)
}

// 📄 FormatResultRow formats one finished file as an aligned row.
func FormatResultRow(e batch.FileEvent) string {
	var prefix string
	if e.Result.Success {
		prefix = color.GreenString("✓")
	} else {
		prefix = color.RedString("✗")
	}

	namePart := fmt.Sprintf("%-*s", nameWidth, filepath.Base(e.Result.File))
	durPart := fmt.Sprintf("%-*s", durWidth, roundDuration(e.Result.Duration))

	return fmt.Sprintf("%s%s %s %s (%d/%d)",
		strings.Repeat(" ", fileIndent),
		prefix,
		namePart,
		durPart,
		e.Seq,
		e.Total,
	)
}

// 🏁 FormatSummary formats the closing line of a run.
func FormatSummary(e batch.DoneEvent) string {
	total := len(e.Results)
	switch {
	case e.GatherErr != nil:
		return fmt.Sprintf("Combine step failed after %d/%d files in %s",
			e.Succeeded(), total, roundDuration(e.Elapsed))
	case e.Failed() > 0:
		return fmt.Sprintf("Completed %d/%d files (%d failed) in %s",
			e.Succeeded(), total, e.Failed(), roundDuration(e.Elapsed))
	default:
		return fmt.Sprintf("Completed %d/%d files in %s",
			e.Succeeded(), total, roundDuration(e.Elapsed))
	}
}

// FormatProgress formats a progress message with percentage.
func FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// roundDuration trims durations to a display-friendly precision.
func roundDuration(d time.Duration) time.Duration {
	switch {
	case d >= time.Second:
		return d.Round(10 * time.Millisecond)
	case d >= time.Millisecond:
		return d.Round(100 * time.Microsecond)
	default:
		return d.Round(time.Microsecond)
	}
}
