package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/handiism/settings-manager/internal/check"
)

// maxLogLines is how many progress messages the live view keeps.
const maxLogLines = 10

// Messages
type (
	// checkEventMsg carries a progress event from the manager.
	checkEventMsg struct {
		Event check.ProgressEvent
	}

	// checkTickMsg polls the manager's counters.
	checkTickMsg struct{}

	// checkDoneMsg is sent when the run has finished.
	checkDoneMsg struct {
		Results []check.Result
		Err     error
	}
)

// checkModel is the live view of a check run: a spinner, a progress bar
// fed from Manager.GetProgress and the latest progress messages.
type checkModel struct {
	ctx     context.Context
	manager *check.Manager
	paths   []string
	verbose bool

	spinner  spinner.Model
	progress progress.Model
	logs     []check.ProgressEvent

	checked int32
	total   int32

	done    bool
	results []check.Result
	err     error
}

func newCheckModel(ctx context.Context, manager *check.Manager, paths []string, verbose bool) checkModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = headerStyle.UnsetPadding()

	return checkModel{
		ctx:      ctx,
		manager:  manager,
		paths:    paths,
		verbose:  verbose,
		spinner:  sp,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		total:    int32(len(paths)),
	}
}

func (m checkModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startCheck(), m.tickProgress())
}

func (m checkModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case checkEventMsg:
		if msg.Event.Level == check.LevelVerbose && !m.verbose {
			return m, nil
		}
		m.logs = append(m.logs, msg.Event)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		return m, nil

	case checkTickMsg:
		if m.done || m.manager == nil {
			return m, nil
		}
		m.checked, m.total = m.manager.GetProgress()
		var percent float64
		if m.total > 0 {
			percent = float64(m.checked) / float64(m.total)
		}
		return m, tea.Batch(m.progress.SetPercent(percent), m.tickProgress())

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case checkDoneMsg:
		m.done = true
		m.results = msg.Results
		m.err = msg.Err
		if m.manager != nil {
			m.checked, m.total = m.manager.GetProgress()
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m checkModel) View() string {
	var b strings.Builder

	if m.done {
		b.WriteString(successStyle.Render("✓"))
	} else {
		b.WriteString(m.spinner.View())
	}
	b.WriteString(" ")
	b.WriteString(titleStyle.Render("Checking settings files"))
	b.WriteString("\n\n")

	var percent float64
	if m.total > 0 {
		percent = float64(m.checked) / float64(m.total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Files: %d/%d", m.checked, m.total)))
	b.WriteString("\n")

	if len(m.logs) > 0 {
		b.WriteString("\n")
		for _, event := range m.logs {
			b.WriteString(progressLine(event))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// tickProgress returns a command to tick progress updates.
func (m checkModel) tickProgress() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(_ time.Time) tea.Msg {
		return checkTickMsg{}
	})
}

// startCheck runs the manager in the background.
func (m checkModel) startCheck() tea.Cmd {
	return func() tea.Msg {
		if m.manager == nil {
			return checkDoneMsg{Err: errors.New("no manager")}
		}
		results, err := m.manager.Run(m.ctx, m.paths)
		return checkDoneMsg{Results: results, Err: err}
	}
}

// isTerminal reports whether w is a terminal the live view can draw on.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// runCheckLive runs a check with the live view drawn on w. newManager
// receives the callback the manager must report progress to.
func runCheckLive(ctx context.Context, w io.Writer, paths []string, verbose bool, newManager func(onProgress func(check.ProgressEvent)) *check.Manager) (*check.Manager, []check.Result, error) {
	var p *tea.Program
	manager := newManager(func(event check.ProgressEvent) {
		p.Send(checkEventMsg{Event: event})
	})

	p = tea.NewProgram(
		newCheckModel(ctx, manager, paths, verbose),
		tea.WithContext(ctx),
		tea.WithInput(nil),
		tea.WithOutput(w),
		tea.WithoutSignalHandler(),
	)
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return manager, nil, ctx.Err()
		}
		return manager, nil, err
	}
	fm := final.(checkModel)
	return manager, fm.results, fm.err
}
