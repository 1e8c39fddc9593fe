package app

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/trivial-pomodoro-timer/internal/timecalc"
	"github.com/Tiliavir/trivial-pomodoro-timer/internal/timer"
)

// RunOptions configures the foreground loop.
type RunOptions struct {
	// Interval between ticks. Every tick counts as one timer second.
	Interval time.Duration
	// In supplies key presses. Nil reads from the terminal.
	In  io.Reader
	Out io.Writer
}

// RunHelp lists the keys accepted by Run.
const RunHelp = "p/space pause/resume · r reset · s switch · b break · l long break · q quit"

var (
	clockStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	stateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7DC6F"))
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	helpStyle  = lipgloss.NewStyle().Faint(true)

	modeStyles = map[timer.Mode]lipgloss.Style{
		timer.ModeFocus:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")),
		timer.ModeShortBreak: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575")),
		timer.ModeLongBreak:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4A90E2")),
	}
)

type tickMsg time.Time

// runModel drives the timer from bubbletea. Update runs on a single
// goroutine, which makes it the sole owner of the store while Run is active.
type runModel struct {
	ctx      context.Context
	app      *App
	interval time.Duration
	notice   string
}

func newRunModel(ctx context.Context, a *App, interval time.Duration) runModel {
	if interval <= 0 {
		interval = time.Second
	}
	return runModel{ctx: ctx, app: a, interval: interval}
}

// Run drives the timer until ctx is cancelled or the quit key is pressed.
// The timer is saved on the way out.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	programOpts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithoutSignalHandler(),
	}
	if opts.In != nil {
		programOpts = append(programOpts, tea.WithInput(opts.In))
	}

	_, err := tea.NewProgram(newRunModel(ctx, a, opts.Interval), programOpts...).Run()
	a.Save(context.WithoutCancel(ctx))
	if err != nil && ctx.Err() != nil {
		// Cancellation kills the program; that is a normal stop.
		return nil
	}
	return err
}

func (m runModel) Init() tea.Cmd {
	return m.tick()
}

func (m runModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "p", " ", "space", "enter":
			m.app.Toggle(m.ctx)
		case "r":
			m.app.Reset(m.ctx)
		case "s":
			m.app.SwitchMode(m.ctx)
		case "b":
			m.app.Break(m.ctx)
		case "l":
			m.app.LongBreak(m.ctx)
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		default:
			return m, nil
		}
		m.notice = ""
		return m, nil
	case tickMsg:
		cmds := []tea.Cmd{m.tick()}
		for _, e := range m.app.Tick(m.ctx) {
			m.notice = announcement(e)
			if e.Type == timer.EventExpired {
				cmds = append(cmds, tea.Println("\a"+m.notice))
			}
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

func (m runModel) View() string {
	st := m.app.Status()
	state := "paused"
	if st.IsRunning {
		state = "running"
	}
	if st.Alarming {
		state = "time's up"
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top,
		modeStyles[st.Mode].Render(st.Mode.Label()),
		clockStyle.Render(timecalc.FormatClock(st.RemainingSeconds)),
		stateStyle.Render(state),
		countStyle.Render(fmt.Sprintf("  breaks %d/%d", st.BreakCount, st.LongBreakEvery)),
	)
	rows := []string{line}
	if m.notice != "" {
		rows = append(rows, m.notice)
	}
	rows = append(rows, helpStyle.Render(RunHelp))
	return lipgloss.JoinVertical(lipgloss.Left, rows...) + "\n"
}

func announcement(e timer.Event) string {
	if e.Type == timer.EventExpired {
		return e.From.Label() + " finished."
	}
	return "Starting " + e.To.Label() + "."
}
