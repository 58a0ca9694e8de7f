package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
)

// table is a result ready for either output format: rows for the table writer and
// the typed value for JSON.
type table struct {
	header []string
	rows   [][]string
	value  any
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

// render writes t in the configured format. empty is printed instead of an empty
// table.
func (a *app) render(t *table, empty string) error {
	if a.cfg.Output == outputJSON {
		return writeJSON(a.out(), t.value)
	}
	if len(t.rows) == 0 {
		if empty != "" {
			fmt.Fprintln(a.out(), empty)
		}
		return nil
	}
	writeTable(a.out(), t.header, t.rows)
	return nil
}

// renderPairs prints one record as a two column key/value table.
func (a *app) renderPairs(value any, pairs [][2]string) error {
	if a.cfg.Output == outputJSON {
		return writeJSON(a.out(), value)
	}
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{p[0], p[1]})
	}
	writeTable(a.out(), nil, rows)
	return nil
}

// done reports a mutation: JSON callers get value, table callers get msg.
func (a *app) done(value any, msg string) error {
	if a.cfg.Output == outputJSON {
		return writeJSON(a.out(), value)
	}
	fmt.Fprintln(a.out(), msg)
	return nil
}

func writeTable(w io.Writer, header []string, rows [][]string) {
	tw := tablewriter.NewWriter(w)
	if len(header) > 0 {
		tw.SetHeader(header)
	}
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)
	tw.SetRowLine(false)
	tw.AppendBulk(rows)
	tw.Render()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newProgress returns a bar counting fetched items on w (stderr). It is hidden when
// progress output is off.
func (a *app) newProgress(description string) *progressbar.ProgressBar {
	w := a.stderr
	if a.cfg.Quiet {
		w = io.Discard
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(20),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// Cell formatting.

func money(v float64) string {
	return "৳" + strconv.FormatFloat(v, 'f', 2, 64)
}

func day(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Local().Format(time.DateOnly)
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func itoa(n int) string { return strconv.Itoa(n) }

// oneLine flattens and shortens free text for a table cell.
func oneLine(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); limit > 0 && len(r) > limit {
		return string(r[:limit-1]) + "…"
	}
	return s
}
