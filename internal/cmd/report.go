package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dendrascience/tidy/internal/sorter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/taigrr/colorhash"
)

const ansiReset = "\x1b[0m"

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render() + "\n"
}

// renderSummary prints the run totals followed by a per-extension breakdown.
func renderSummary(s *sorter.Summary, colorize bool) string {
	var b strings.Builder

	rows := [][]string{
		{"Copied", strconv.Itoa(s.Copied())},
		{"Failed", strconv.Itoa(len(s.Failed()))},
		{"Skipped (no extension)", strconv.Itoa(len(s.Skipped))},
		{"Ignored", strconv.Itoa(len(s.Ignored))},
		{"Directories created", strconv.Itoa(s.Directories.Created)},
		{"Directories existing", strconv.Itoa(s.Directories.Existing)},
		{"Bytes", formatBytes(s.Bytes())},
		{"Duration", s.Duration.Round(time.Millisecond).String()},
		{"Run ID", s.RunID},
	}
	b.WriteString(renderTable([]string{"Summary", ""}, rows, []columnAlignment{alignLeft, alignRight}))

	type extCount struct {
		copied, failed int
		bytes          int64
	}
	counts := make(map[string]*extCount)
	for _, r := range s.Results {
		c, ok := counts[r.Task.Ext]
		if !ok {
			c = &extCount{}
			counts[r.Task.Ext] = c
		}
		if r.Status == sorter.StatusCopied {
			c.copied++
			c.bytes += r.Bytes
		} else {
			c.failed++
		}
	}
	if len(counts) == 0 {
		return b.String()
	}

	extRows := make([][]string, 0, len(counts))
	for _, ext := range sortedKeys(counts) {
		c := counts[ext]
		extRows = append(extRows, []string{
			extLabel(ext, colorize),
			strconv.Itoa(c.copied),
			strconv.Itoa(c.failed),
			formatBytes(c.bytes),
		})
	}
	b.WriteString(renderTable(
		[]string{"Extension", "Copied", "Failed", "Bytes"},
		extRows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	))
	return b.String()
}

// renderFailures prints one diagnostic line per file that was not copied.
func renderFailures(s *sorter.Summary, colorize bool) string {
	failed := s.Failed()
	if len(failed) == 0 {
		return ""
	}
	var b strings.Builder
	for _, r := range failed {
		label := r.Status.String()
		if colorize {
			label = "\x1b[31m" + label + ansiReset
		}
		fmt.Fprintf(&b, "%s: %s -> %s: %v\n", label, r.Task.Source, r.Destination, r.Err)
	}
	return b.String()
}

// renderPlan prints what a run would copy without copying it.
func renderPlan(p *sorter.Plan, colorize bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Source: %s\nOutput: %s\n", p.Source, p.Target)

	groups := p.ByExtension()
	rows := make([][]string, 0, len(p.Tasks))
	for _, ext := range sortedKeys(groups) {
		for _, task := range groups[ext] {
			rows = append(rows, []string{extLabel(ext, colorize), task.Name, task.Target, formatBytes(task.Size)})
		}
	}
	if len(rows) > 0 {
		b.WriteString(renderTable(
			[]string{"Extension", "File", "Directory", "Size"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
		))
	}
	fmt.Fprintf(&b, "%d to copy, %d skipped, %d ignored\n", len(p.Tasks), len(p.Skipped), len(p.Ignored))
	return b.String()
}

// renderCounts prints per-extension file counts for a plan.
func renderCounts(p *sorter.Plan, colorize bool) string {
	groups := p.ByExtension()
	rows := make([][]string, 0, len(groups)+1)
	for _, ext := range sortedKeys(groups) {
		var size int64
		for _, task := range groups[ext] {
			size += task.Size
		}
		rows = append(rows, []string{extLabel(ext, colorize), strconv.Itoa(len(groups[ext])), formatBytes(size)})
	}
	if len(p.Skipped) > 0 {
		rows = append(rows, []string{"(none)", strconv.Itoa(len(p.Skipped)), ""})
	}
	return renderTable(
		[]string{"Extension", "Files", "Size"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight},
	)
}

// extLabel colors an extension with one of the six basic ANSI colors chosen
// by a stable hash, so the same extension looks the same on every run.
func extLabel(ext string, colorize bool) string {
	if !colorize {
		return ext
	}
	h := colorhash.HashString(ext) % 6
	if h < 0 {
		h = -h
	}
	return fmt.Sprintf("\x1b[%dm%s%s", 31+h, ext, ansiReset)
}

func formatBytes(n int64) string {
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

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
