// Package ui renders command output: status lines, result tables and values.
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cast"
)

var (
	// Out receives regular output, Err receives error lines.
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr
)

var (
	// Colors
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	InfoColor      = lipgloss.Color("#00D9FF")
	SecondaryColor = lipgloss.Color("#6C757D")

	// Styles
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)
)

// Output formats for result sets.
const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Formats lists the accepted result formats.
var Formats = []string{FormatTable, FormatJSON, FormatMarkdown}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...any) {
	fmt.Fprintln(Out, SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// PrintError prints an error message
func PrintError(format string, args ...any) {
	fmt.Fprintln(Err, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...any) {
	fmt.Fprintln(Out, WarningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...any) {
	fmt.Fprintln(Out, InfoStyle.Render("ℹ "+fmt.Sprintf(format, args...)))
}

// PrintSection prints a section header with the time it was printed
func PrintSection(title string) {
	stamp := SecondaryStyle.Render(time.Now().Format("15:04:05"))
	section := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(SecondaryColor).
		Render(TitleStyle.Render(title) + " " + stamp)
	fmt.Fprintln(Out, section)
}

// PrintBox prints content in a box
func PrintBox(title string, content string) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, TitleStyle.Render(title), content))
	fmt.Fprintln(Out, box)
}

// PrintValue prints a single scalar result
func PrintValue(v any) {
	c := GetColorPrinters()["primary"]
	if v == nil {
		c = GetColorPrinters()["secondary"]
	}
	c.Fprintln(Out, FormatValue(v))
}

// GetColorPrinters returns color printers for common use cases
func GetColorPrinters() map[string]*color.Color {
	return map[string]*color.Color{
		"success":   color.New(color.FgGreen, color.Bold),
		"error":     color.New(color.FgRed, color.Bold),
		"warning":   color.New(color.FgYellow, color.Bold),
		"info":      color.New(color.FgCyan),
		"primary":   color.New(color.FgCyan, color.Bold),
		"secondary": color.New(color.FgHiBlack),
	}
}

// FormatValue renders a driver value for display.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return t.String()
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}

// PrintRows prints a result set in the given format.
func PrintRows(format string, headers []string, rows [][]any) error {
	switch format {
	case FormatJSON:
		return printJSON(headers, rows)
	case FormatMarkdown:
		return printMarkdown(headers, rows)
	case FormatTable, "":
		PrintTable(headers, stringify(rows))
		return nil
	default:
		return fmt.Errorf("unknown output format %q (expected one of %s)", format, strings.Join(Formats, ", "))
	}
}

// PrintTable prints a table using pterm
func PrintTable(headers []string, rows [][]string) {
	tableData := pterm.TableData{headers}
	tableData = append(tableData, rows...)
	out, err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Srender()
	if err != nil {
		PrintError("render table: %v", err)
		return
	}
	fmt.Fprintln(Out, out)
}

func stringify(rows [][]any) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, v := range row {
			out[i][j] = FormatValue(v)
		}
	}
	return out
}

// printJSON writes one object per row with keys in column order.
func printJSON(headers []string, rows [][]any) error {
	var b strings.Builder
	b.WriteString("[")
	for i, row := range rows {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n  {")
		for j, h := range headers {
			if j > 0 {
				b.WriteString(", ")
			}
			key, _ := json.Marshal(h)
			val, err := json.Marshal(jsonValue(row[j]))
			if err != nil {
				return fmt.Errorf("encode column %q: %w", h, err)
			}
			b.Write(key)
			b.WriteString(": ")
			b.Write(val)
		}
		b.WriteString("}")
	}
	if len(rows) > 0 {
		b.WriteString("\n")
	}
	b.WriteString("]")
	_, err := fmt.Fprintln(Out, b.String())
	return err
}

func jsonValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// printMarkdown renders the rows as a markdown table through glamour.
func printMarkdown(headers []string, rows [][]any) error {
	var md strings.Builder
	md.WriteString("| " + strings.Join(escapeCells(headers), " | ") + " |\n")
	md.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
	for _, row := range stringify(rows) {
		md.WriteString("| " + strings.Join(escapeCells(row), " | ") + " |\n")
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return err
	}
	out, err := r.Render(md.String())
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(Out, out)
	return err
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}
