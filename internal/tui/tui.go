// Package tui implements the Bubble Tea progress view for zrows generate.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zstyle"

	"github.com/zarlcorp/zrows/internal/dataset"
	"github.com/zarlcorp/zrows/internal/report"
)

type phase int

const (
	phaseRunning phase = iota
	phaseStopping
	phaseDone
	phaseFailed
)

const maxBarWidth = 60

// progressMsg carries the latest batch update.
type progressMsg dataset.Progress

// doneMsg carries the finished run.
type doneMsg struct {
	summary dataset.Summary
	err     error
}

// Model is the root progress model.
type Model struct {
	version string
	path    string
	total   int
	cancel  context.CancelFunc

	phase   phase
	bar     progress.Model
	last    dataset.Progress
	summary dataset.Summary
	err     error

	width int
}

// New creates the progress model. cancel is called when the user quits.
func New(version, path string, total int, cancel context.CancelFunc) Model {
	return Model{
		version: version,
		path:    path,
		total:   total,
		cancel:  cancel,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxBarWidth)),
		last:    dataset.Progress{Total: total},
	}
}

// Result returns the run outcome once the model has finished.
func (m Model) Result() (dataset.Summary, error) {
	return m.summary, m.err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = max(10, min(msg.Width-4, maxBarWidth))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case progressMsg:
		m.last = dataset.Progress(msg)
		return m, nil

	case doneMsg:
		m.summary = msg.summary
		m.err = msg.err
		if msg.err != nil {
			m.phase = phaseFailed
		} else {
			m.phase = phaseDone
		}
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.phase != phaseRunning {
		return m, nil
	}
	// generation stops at the next batch boundary and reports back with doneMsg
	if key.Matches(msg, zstyle.KeyQuit) || msg.Type == tea.KeyCtrlC {
		m.phase = phaseStopping
		if m.cancel != nil {
			m.cancel()
		}
	}
	return m, nil
}

func (m Model) View() string {
	header := zstyle.RenderHeader("zrows", "Generate", zstyle.ZburnAccent)
	sep := zstyle.RenderSeparator(m.width)
	footer := zstyle.RenderFooter(m.help())

	return "\n" + header + "\n" + sep + "\n" + m.content() + "\n" + footer + "\n"
}

func (m Model) content() string {
	accent := lipgloss.NewStyle().Foreground(zstyle.ZburnAccent).Bold(true)

	s := "\n  " + zstyle.Title.Render("writing "+report.Number(m.total)+" rows") + "\n"
	s += "  " + accent.Render(m.path) + "\n\n"
	s += "  " + m.bar.ViewAs(m.last.Percent()/100) + "\n"

	switch m.phase {
	case phaseRunning:
		s += "  " + zstyle.MutedText.Render(m.batchLine()) + "\n"
	case phaseStopping:
		s += "  " + zstyle.StatusWarn.Render("stopping after the current batch") + "\n"
	case phaseDone:
		s += "\n  " + zstyle.StatusOK.Render(report.Summary(m.summary)) + "\n"
	case phaseFailed:
		s += "\n  " + zstyle.StatusErr.Render(m.failure()) + "\n"
	}

	return s
}

func (m Model) batchLine() string {
	if m.last.Batches == 0 {
		return "starting"
	}
	return fmt.Sprintf("batch %d/%d | %s", m.last.Batch, m.last.Batches, report.ProgressLine(m.last))
}

func (m Model) failure() string {
	if errors.Is(m.err, context.Canceled) {
		return fmt.Sprintf("stopped after %s rows", report.Number(m.summary.Rows))
	}
	return "failed: " + m.err.Error()
}

func (m Model) help() []zstyle.HelpPair {
	if m.phase != phaseRunning {
		return nil
	}
	return []zstyle.HelpPair{
		{Key: "q", Desc: "stop"},
	}
}
