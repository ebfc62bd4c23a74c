// Package display provides output formatting for withdrawctl.
//
// Batch outcomes are printed live by Progress as the engine delivers them,
// then summarized by DisplayReport. Table output uses text/tabwriter with
// lipgloss coloring; JSON output is indented and printed once at the end.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/naucourse/chooser/cmd/withdrawctl/utils"
	"github.com/naucourse/chooser/internal/api/handlers"
	"github.com/naucourse/chooser/internal/course"
	"github.com/naucourse/chooser/internal/logging"
	"github.com/naucourse/chooser/internal/resources"
	internalutils "github.com/naucourse/chooser/internal/utils"
	"github.com/naucourse/chooser/internal/withdrawal"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#60F281"))
	refusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE763"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4473"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
)

// Progress is a withdrawal.Listener that prints each outcome as it arrives.
// In JSON mode it stays silent so stdout carries a single document.
type Progress struct {
	mu    sync.Mutex
	w     io.Writer
	json  bool
	total int
	seen  int
}

// NewProgress creates a Progress for a batch of total units.
func NewProgress(w io.Writer, output string, total int) *Progress {
	return &Progress{w: w, json: output == "json", total: total}
}

// OnSubmitSuccess prints an accepted or refused withdrawal.
func (p *Progress) OnSubmitSuccess(result *withdrawal.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen++
	if p.json {
		return
	}

	label := result.Course.Label()
	if result.Type.Name != "" {
		label = fmt.Sprintf("%s (%s)", label, result.Type.Name)
	}
	line := fmt.Sprintf("[%d/%d] %s", p.seen, p.total, label)
	if result.Message != "" {
		line += ": " + result.Message
	}

	if result.Accepted {
		fmt.Fprintln(p.w, successStyle.Render("✓ "+line))
	} else {
		fmt.Fprintln(p.w, refusedStyle.Render("! "+line))
	}
}

// OnFailed prints a failed unit by kind.
func (p *Progress) OnFailed(kind withdrawal.ErrorKind) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen++
	if p.json {
		return
	}
	fmt.Fprintln(p.w, failureStyle.Render(fmt.Sprintf("✗ [%d/%d] %s", p.seen, p.total, kind)))
}

// Notice prints an out-of-band line between outcomes. It shares the outcome
// lock, so callers on other goroutines never interleave with a callback.
func (p *Progress) Notice(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.json {
		return
	}
	fmt.Fprintln(p.w, msg)
}

// OnSubmitFinish is a no-op; the summary is printed by DisplayReport.
func (p *Progress) OnSubmitFinish() {}

// Seen returns how many outcomes were printed.
func (p *Progress) Seen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seen
}

// DisplayReport prints the final report of a batch of total units.
func DisplayReport(w io.Writer, report withdrawal.Report, total int, output string) {
	if output == "json" {
		encodeJSON(w, report)
		return
	}

	refused := 0
	for _, r := range report.Succeeded {
		if !r.Accepted {
			refused++
		}
	}
	accepted := len(report.Succeeded) - refused

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Batch %s", internalutils.TruncateIDSafe(report.ID))))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Units:\t%d\n", total)
	fmt.Fprintf(tw, "Withdrawn:\t%d\n", accepted)
	if refused > 0 {
		fmt.Fprintf(tw, "Refused:\t%d\n", refused)
	}
	fmt.Fprintf(tw, "Failed:\t%d%s\n", len(report.Failed), failureBreakdown(report.Failed))
	if skipped := total - report.Callbacks(); skipped > 0 {
		fmt.Fprintf(tw, "Skipped:\t%d\n", skipped)
	}
	if report.Finished && !report.FinishedAt.IsZero() {
		fmt.Fprintf(tw, "Duration:\t%s\n", utils.FormatDuration(report.FinishedAt.Sub(report.StartedAt)))
	}
	tw.Flush()
}

// failureBreakdown renders " (DATA_POST: 2, TIME_OUT: 1)" or "".
func failureBreakdown(kinds []withdrawal.ErrorKind) string {
	if len(kinds) == 0 {
		return ""
	}
	counts := map[withdrawal.ErrorKind]int{}
	var order []withdrawal.ErrorKind
	for _, k := range kinds {
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}
	parts := make([]string, 0, len(order))
	for _, k := range order {
		parts = append(parts, fmt.Sprintf("%s: %d", k, counts[k]))
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// DisplayHealth prints a one-line daemon banner.
func DisplayHealth(w io.Writer, health *handlers.HealthResponse) {
	name := health.Instance
	if name == "" {
		name = "withdrawd"
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s v%s (%s, up %s)",
		name, health.Version, health.Status, health.Uptime)))
}

// DisplayStatus prints the daemon's engine counters and last batch.
func DisplayStatus(w io.Writer, status *handlers.StatusResponse, output string) {
	if output == "json" {
		encodeJSON(w, status)
		return
	}

	state := "idle"
	if status.Engine.Active {
		state = "busy"
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Engine:\t%s\n", state)
	if status.Engine.BatchID != "" {
		fmt.Fprintf(tw, "Batch:\t%s\n", internalutils.TruncateIDSafe(status.Engine.BatchID))
		fmt.Fprintf(tw, "Progress:\t%d/%d completed\n", status.Engine.Completed, status.Engine.Dispatched)
		if status.Engine.Abandoned > 0 {
			fmt.Fprintf(tw, "Abandoned:\t%d\n", status.Engine.Abandoned)
		}
	}

	if last := status.Last; last != nil {
		fmt.Fprintf(tw, "Last batch:\t%s\n", internalutils.TruncateIDSafe(last.ID))
		fmt.Fprintf(tw, "  Started:\t%s\n", humanize.Time(last.StartedAt))
		fmt.Fprintf(tw, "  Succeeded:\t%d\n", len(last.Succeeded))
		fmt.Fprintf(tw, "  Failed:\t%d%s\n", len(last.Failed), failureBreakdown(last.Failed))
		if last.Finished {
			fmt.Fprintf(tw, "  Finished:\t%s\n", humanize.Time(last.FinishedAt))
		} else {
			fmt.Fprintf(tw, "  Finished:\t%s\n", "no")
		}
	}
	tw.Flush()
}

// DisplayResources prints a daemon process snapshot.
func DisplayResources(w io.Writer, snap *resources.Snapshot, output string) {
	if output == "json" {
		encodeJSON(w, snap)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Uptime:\t%s\n", utils.FormatDuration(snap.Uptime))
	fmt.Fprintf(tw, "CPU cores:\t%d\n", snap.CPUCores)
	fmt.Fprintf(tw, "Memory:\t%s / %s (%.1f%%)\n",
		humanize.IBytes(snap.MemoryUsed), humanize.IBytes(snap.MemoryTotal), snap.MemoryUsage)
	fmt.Fprintf(tw, "Goroutines:\t%s\n", humanize.Comma(int64(snap.GoRoutines)))
	fmt.Fprintf(tw, "Go heap:\t%s (sys %s)\n", humanize.IBytes(snap.GoMemAlloc), humanize.IBytes(snap.GoMemSys))
	fmt.Fprintf(tw, "GC cycles:\t%d (last pause %.2fms)\n", snap.GoGCCycles, snap.GoGCPause)
	if p := snap.Pool; p != nil {
		fmt.Fprintf(tw, "Workers:\t%d running, %d queued of %d\n", p.Running, p.Queued, p.Workers)
	}
	tw.Flush()
}

// DisplayPlan lists every unit of a plan in dispatch order.
func DisplayPlan(w io.Writer, plan course.Plan, output string) {
	if output == "json" {
		encodeJSON(w, plan)
		return
	}

	if plan.Len() == 0 {
		fmt.Fprintln(w, "Plan contains no courses")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTYPE\tCOURSE\tPOST ID\tWINDOW")
	n := 0
	for _, g := range plan {
		for _, c := range g.Courses {
			n++
			typeName := g.Type.Name
			if typeName == "" {
				typeName = g.Type.ID
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s..%s\n",
				n, typeName, c.Label(), c.PostID, g.Type.StartDate, g.Type.EndDate)
		}
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%s in %s\n", pluralize(plan.Len(), "course"), pluralize(len(plan), "group"))
}

// DisplayAccepted prints the daemon's reply to a send.
func DisplayAccepted(w io.Writer, resp *handlers.SubmitResponse, output string) {
	if output == "json" {
		encodeJSON(w, resp)
		return
	}
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("Batch %s accepted with %s",
		internalutils.TruncateIDSafe(resp.BatchID), pluralize(resp.Units, "unit"))))
}

// Elapsed formats the time since start for progress hints.
func Elapsed(start time.Time) string {
	return utils.FormatDuration(time.Since(start))
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%s %ss", humanize.Comma(int64(n)), noun)
}

// DisplayJSON prints v as indented JSON.
func DisplayJSON(w io.Writer, v any) {
	encodeJSON(w, v)
}

func encodeJSON(w io.Writer, v any) {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		logging.Error("Failed to encode JSON: %v", err)
		fmt.Fprintln(w, "Error encoding JSON output")
	}
}
