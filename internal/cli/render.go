package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/datallboy/godl/internal/domain"
	"github.com/datallboy/godl/internal/engine"
)

const (
	barWidth    = 20
	sourceWidth = 36
)

var statusStyles = map[domain.TaskStatus]lipgloss.Style{
	domain.StatusQueued:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	domain.StatusDownloading: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	domain.StatusPaused:      lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	domain.StatusCanceled:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	domain.StatusCompleted:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	domain.StatusFailed:      lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
}

// Renderer is a consumer sink that draws one row per task plus the overall
// bar. In plain mode it prints one line per status change instead, which
// suits pipes and log files.
type Renderer struct {
	mu    sync.Mutex
	out   io.Writer
	plain bool
	color bool
	drawn int // lines drawn by the previous frame
}

func NewRenderer(out io.Writer, plain, color bool) *Renderer {
	return &Renderer{out: out, plain: plain, color: color}
}

func (r *Renderer) Refresh(_ context.Context, b engine.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.plain {
		return r.writeChanges(b)
	}
	if len(b.Events) == 0 && r.drawn > 0 {
		return nil
	}
	return r.writeFrame(b)
}

func (r *Renderer) writeChanges(b engine.Batch) error {
	for _, ev := range b.Events {
		if ev.Kind != domain.EventStatusChanged {
			continue
		}
		s, ok := b.Tasks[ev.TaskID]
		if !ok {
			continue
		}
		line := fmt.Sprintf("[%d] %s: %s", ev.TaskID, s.Source, r.label(ev.Status, ev.Reason))
		if ev.Status.IsTerminal() {
			line += fmt.Sprintf(" at %d%%", ev.Progress)
		}
		if _, err := fmt.Fprintln(r.out, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) writeFrame(b engine.Batch) error {
	var sb strings.Builder

	// Move back over the previous frame so rows update in place
	if r.drawn > 0 {
		fmt.Fprintf(&sb, "\x1b[%dA", r.drawn)
	}

	for _, s := range b.All {
		fmt.Fprintf(&sb, "\x1b[2K%4d  %-*s [%s] %3d%%  %s\n",
			s.ID, sourceWidth, truncate(s.Source, sourceWidth), progressBar(float64(s.Progress)), s.Progress, r.label(s.Status, s.Reason))
	}
	fmt.Fprintf(&sb, "\x1b[2K%s\n", overallLine(b.Overall))

	r.drawn = len(b.All) + 1
	_, err := io.WriteString(r.out, sb.String())
	return err
}

// Summary prints the final state of every task once the loop has stopped.
func (r *Renderer) Summary(snaps []domain.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[domain.TaskStatus]int)
	for _, s := range snaps {
		counts[s.Status]++
	}

	_, err := fmt.Fprintf(r.out, "Completed: %d | Canceled: %d | Failed: %d | Total: %d\n",
		counts[domain.StatusCompleted], counts[domain.StatusCanceled], counts[domain.StatusFailed], len(snaps))
	return err
}

func (r *Renderer) label(status domain.TaskStatus, reason string) string {
	text := domain.Snapshot{Status: status, Reason: reason}.Label()
	if !r.color {
		return text
	}
	if style, ok := statusStyles[status]; ok {
		return style.Render(text)
	}
	return text
}

// Progress Bar go brrr [====>   ]
func progressBar(percent float64) string {
	completedWidth := int(percent / 100 * barWidth)
	if completedWidth > barWidth {
		completedWidth = barWidth
	}
	bar := strings.Repeat("=", completedWidth)
	if completedWidth < barWidth {
		bar += ">" + strings.Repeat(" ", barWidth-completedWidth-1)
	}
	return bar
}

func overallLine(o domain.Overall) string {
	if o.Active == 0 {
		return fmt.Sprintf("Overall [%s]   0.0%% (no active downloads)", progressBar(0))
	}
	return fmt.Sprintf("Overall [%s] %5.1f%% (%d active downloads)", progressBar(o.Mean), o.Mean, o.Active)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
