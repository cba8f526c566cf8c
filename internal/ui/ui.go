// Package ui provides terminal UI components using pterm.
package ui

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/pterm/pterm"
)

// Theme colors for consistent styling
var (
	ColorPrimary   = pterm.FgCyan
	ColorSecondary = pterm.FgLightBlue
	ColorSuccess   = pterm.FgGreen
	ColorWarning   = pterm.FgYellow
	ColorError     = pterm.FgRed
	ColorMuted     = pterm.FgGray
)

// UI wraps pterm components for hebvocab.
type UI struct {
	quiet   bool
	verbose bool
}

// New creates a new UI instance. Quiet disables all pterm output.
func New(quiet, verbose bool) *UI {
	if quiet {
		pterm.DisableOutput()
	} else {
		pterm.EnableOutput()
	}
	pterm.PrintDebugMessages = verbose
	return &UI{quiet: quiet, verbose: verbose}
}

// Quiet reports whether output is suppressed.
func (u *UI) Quiet() bool {
	return u.quiet
}

// Banner prints the application banner with a subtitle.
func (u *UI) Banner(subtitle string) {
	if u.quiet {
		return
	}
	_ = pterm.DefaultBigText.WithLetters(
		pterm.NewLettersFromStringWithStyle("heb", pterm.NewStyle(ColorPrimary)),
		pterm.NewLettersFromStringWithStyle("vocab", pterm.NewStyle(ColorSecondary)),
	).Render()

	pterm.DefaultCenter.Println(ColorMuted.Sprint(subtitle))
	fmt.Println()
}

// Config prints the configuration summary as key/value rows.
func (u *UI) Config(rows [][]string) {
	if u.quiet {
		return
	}
	pterm.DefaultSection.Println("Configuration")
	_ = pterm.DefaultTable.WithData(rows).Render()
	fmt.Println()
}

// Phase prints a phase header.
func (u *UI) Phase(number int, total int, name string) {
	pterm.DefaultSection.WithLevel(2).Println(
		fmt.Sprintf("[%d/%d] %s", number, total, name),
	)
}

// Spinner creates a spinner for long operations.
func (u *UI) Spinner(message string) *pterm.SpinnerPrinter {
	spinner, _ := pterm.DefaultSpinner.
		WithRemoveWhenDone(true).
		Start(message)
	return spinner
}

// Progress creates a progress bar. It returns nil in quiet mode.
func (u *UI) Progress(title string, total int) *pterm.ProgressbarPrinter {
	if u.quiet {
		return nil
	}
	pb, _ := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle(title).
		WithShowElapsedTime(true).
		WithShowCount(true).
		Start()
	return pb
}

// Stats prints key/value statistics in a table, sorted by key.
func (u *UI) Stats(title string, stats map[string]any) {
	pterm.DefaultSection.WithLevel(2).Println(title)

	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	data := make(pterm.TableData, 0, len(keys))
	for _, k := range keys {
		data = append(data, []string{k, fmt.Sprintf("%v", stats[k])})
	}

	_ = pterm.DefaultTable.WithData(data).Render()
	fmt.Println()
}

// Distribution prints a two-column count table. Rows are printed in the
// order of keys; keys with no count print as 0.
func (u *UI) Distribution(header, label string, keys []int, counts map[int]int) {
	data := pterm.TableData{{header, label}}
	for _, k := range keys {
		data = append(data, []string{strconv.Itoa(k), strconv.Itoa(counts[k])})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	fmt.Println()
}

// TierStats prints the tier histogram of a vocabulary build.
func (u *UI) TierStats(byTier map[int]int) {
	u.Distribution("Tier", "Words", []int{1, 2, 3, 4, 5}, byTier)
}

// DifficultyStats prints the difficulty histogram of a verse build.
func (u *UI) DifficultyStats(byDifficulty map[int]int) {
	u.Distribution("Difficulty", "Verses", []int{1, 2, 3}, byDifficulty)
}

// Row is a labelled count.
type Row struct {
	Label string
	Count int
}

// CountTable prints labelled counts in the given order.
func (u *UI) CountTable(header, label string, rows []Row) {
	if len(rows) == 0 {
		return
	}
	data := pterm.TableData{{header, label}}
	for _, r := range rows {
		data = append(data, []string{r.Label, strconv.Itoa(r.Count)})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	fmt.Println()
}

// List prints a titled bullet list, truncated to limit items.
func (u *UI) List(title string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	pterm.DefaultSection.WithLevel(3).Println(title)
	shown := items
	if limit > 0 && len(items) > limit {
		shown = items[:limit]
	}
	bullets := make([]pterm.BulletListItem, 0, len(shown)+1)
	for _, item := range shown {
		bullets = append(bullets, pterm.BulletListItem{Level: 0, Text: item})
	}
	if len(shown) < len(items) {
		bullets = append(bullets, pterm.BulletListItem{
			Level: 0,
			Text:  ColorMuted.Sprintf("... and %d more", len(items)-len(shown)),
		})
	}
	_ = pterm.DefaultBulletList.WithItems(bullets).Render()
}

// FinalReport prints the final summary box.
func (u *UI) FinalReport(noun string, total int, output string, duration time.Duration) {
	pterm.DefaultSection.Println("Summary")

	throughput := float64(0)
	if duration.Seconds() > 0 {
		throughput = float64(total) / duration.Seconds()
	}

	panel := pterm.DefaultBox.WithTitle("Results").Sprint(
		fmt.Sprintf(
			"  Total %-9s %s\n"+
				"  Output:         %s\n"+
				"  Duration:       %s\n"+
				"  Throughput:     %s %s/sec",
			noun+":",
			ColorSuccess.Sprintf("%d", total),
			ColorPrimary.Sprint(output),
			ColorWarning.Sprint(duration.Round(time.Millisecond)),
			pterm.FgMagenta.Sprintf("%.0f", throughput),
			noun,
		),
	)
	pterm.Println(panel)
}

// Success prints a success message.
func (u *UI) Success(message string) {
	pterm.Success.Println(message)
}

// Error prints an error message. Errors are shown even in quiet mode.
func (u *UI) Error(message string) {
	if u.quiet {
		pterm.EnableOutput()
		defer pterm.DisableOutput()
	}
	pterm.Error.Println(message)
}

// Warning prints a warning message.
func (u *UI) Warning(message string) {
	pterm.Warning.Println(message)
}

// Info prints an info message.
func (u *UI) Info(message string) {
	pterm.Info.Println(message)
}

// Debug prints a debug message (only in verbose mode).
func (u *UI) Debug(message string) {
	if u.verbose {
		pterm.Debug.Println(message)
	}
}

// Done prints the completion message.
func (u *UI) Done() {
	if u.quiet {
		return
	}
	fmt.Println()
	pterm.DefaultCenter.Println(ColorSuccess.Sprint("✓ Done!"))
}
