package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rondel-viz/rondel/pkg/cise"
	"github.com/rondel-viz/rondel/pkg/graph"
	"github.com/rondel-viz/rondel/pkg/pipeline"
)

var (
	tuiStageStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tuiMetricStyle = lipgloss.NewStyle().Foreground(colorWhite)
	tuiBarStyle    = lipgloss.NewStyle().Foreground(colorCyan)
	tuiBarBgStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// LayoutProgressModel - Live refinement progress
// =============================================================================

// progressMsg carries one engine progress event into the TUI.
type progressMsg cise.ProgressEvent

// layoutDoneMsg signals that the layout run finished.
type layoutDoneMsg struct {
	layout   graph.Layout
	cacheHit bool
	err      error
}

// LayoutProgressModel is the bubbletea model showing live refinement
// progress: the active stage, iteration count, and average displacement.
type LayoutProgressModel struct {
	stage        cise.Stage
	iteration    int
	budget       int
	displacement float64

	done   bool
	result layoutDoneMsg
}

// NewLayoutProgressModel creates a progress model with the stage budgets from
// opts, used to scale the per-stage progress bar.
func NewLayoutProgressModel(opts pipeline.Options) LayoutProgressModel {
	return LayoutProgressModel{budget: opts.FlipIterations}
}

func (m LayoutProgressModel) Init() tea.Cmd {
	return nil
}

func (m LayoutProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case progressMsg:
		m.stage = msg.Stage
		m.iteration = msg.Iteration
		m.displacement = msg.Displacement
	case layoutDoneMsg:
		m.done = true
		m.result = msg
		return m, tea.Quit
	}
	return m, nil
}

func (m LayoutProgressModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(tuiStageStyle.Render("Refining layout"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  %s %s\n",
		StyleDim.Render("stage"),
		tuiMetricStyle.Render(m.stage.String())))
	b.WriteString(fmt.Sprintf("  %s %s\n",
		StyleDim.Render("iter "),
		tuiMetricStyle.Render(fmt.Sprintf("%d", m.iteration))))
	b.WriteString(fmt.Sprintf("  %s %s\n",
		StyleDim.Render("disp "),
		tuiMetricStyle.Render(fmt.Sprintf("%.3f", m.displacement))))

	if m.budget > 0 {
		b.WriteString("\n  " + renderBar(m.iteration, m.budget, 30) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render("ctrl+c to abort"))
	b.WriteString("\n")
	return b.String()
}

// renderBar draws a simple progress bar of the given width.
func renderBar(current, total, width int) string {
	if total <= 0 {
		total = 1
	}
	filled := current * width / total
	if filled > width {
		filled = width
	}
	return tuiBarStyle.Render(strings.Repeat("█", filled)) +
		tuiBarBgStyle.Render(strings.Repeat("░", width-filled))
}

// runLayoutTUI computes the layout while showing a live progress display.
func (c *CLI) runLayoutTUI(ctx context.Context, runner *pipeline.Runner, g graph.Graph, graphHash string, opts pipeline.Options) (graph.Layout, bool, error) {
	if err := opts.SetLayoutDefaults(); err != nil {
		return graph.Layout{}, false, err
	}

	p := tea.NewProgram(NewLayoutProgressModel(opts), tea.WithContext(ctx))

	opts.Progress = func(ev cise.ProgressEvent) {
		p.Send(progressMsg(ev))
	}

	go func() {
		layout, _, hit, err := runner.LayoutWithCacheInfo(ctx, g, graphHash, opts)
		p.Send(layoutDoneMsg{layout: layout, cacheHit: hit, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return graph.Layout{}, false, err
	}

	m, ok := final.(LayoutProgressModel)
	if !ok || !m.done {
		return graph.Layout{}, false, context.Canceled
	}
	return m.result.layout, m.result.cacheHit, m.result.err
}
