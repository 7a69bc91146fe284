package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/toil/internal/cli/formatter"
	"github.com/alexanderramin/toil/internal/contract"
	"github.com/alexanderramin/toil/internal/toil"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether you are clocked in, today's time and the TOIL balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch {
				if !app.interactive() {
					return fmt.Errorf("status --watch needs an interactive terminal")
				}
				p := tea.NewProgram(newStatusModel(cmd.Context(), app),
					tea.WithContext(cmd.Context()),
					tea.WithOutput(cmd.OutOrStdout()))
				_, err := p.Run()
				return err
			}

			view, err := loadStatus(cmd.Context(), app)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStatus(view, ""))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep the status on screen and refresh it live")

	return cmd
}

// loadStatus gathers the running session, the closed minutes of today and
// the balance of the default summary period.
func loadStatus(ctx context.Context, app *App) (formatter.StatusView, error) {
	now := app.now()
	loc := app.location()

	open, err := app.Sessions.Current(ctx)
	if err != nil {
		return formatter.StatusView{}, err
	}
	today := toil.DateString(now, loc)
	day, err := app.Summary.Summary(ctx, contract.SummaryRequest{From: today, To: today})
	if err != nil {
		return formatter.StatusView{}, err
	}
	period, err := app.Summary.Summary(ctx, contract.SummaryRequest{})
	if err != nil {
		return formatter.StatusView{}, err
	}

	return formatter.StatusView{
		Open:                 open,
		TodayClosedMinutes:   day.TotalWorkedMinutes,
		StandardDailyMinutes: period.Settings.StandardDailyMinutes,
		PeriodFrom:           period.From,
		PeriodTo:             period.To,
		PeriodTilMinutes:     period.TotalTilMinutes,
		Now:                  now,
		Location:             loc,
	}, nil
}

const statusRefreshInterval = 30 * time.Second

type statusKeyMap struct {
	Quit    key.Binding
	Refresh key.Binding
	Toggle  key.Binding
}

func defaultStatusKeyMap() statusKeyMap {
	return statusKeyMap{
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Toggle:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clock in/out")),
	}
}

type statusLoadedMsg struct {
	view formatter.StatusView
	err  error
}

type statusRefreshMsg time.Time

// statusModel is the live "status --watch" view.
type statusModel struct {
	ctx     context.Context
	app     *App
	keys    statusKeyMap
	spinner spinner.Model
	view    formatter.StatusView
	loaded  bool
	err     error
}

func newStatusModel(ctx context.Context, app *App) statusModel {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = formatter.StylePurple
	return statusModel{
		ctx:     ctx,
		app:     app,
		keys:    defaultStatusKeyMap(),
		spinner: sp,
	}
}

func (m statusModel) load() tea.Cmd {
	return func() tea.Msg {
		view, err := loadStatus(m.ctx, m.app)
		return statusLoadedMsg{view: view, err: err}
	}
}

// toggle clocks out of a running session or clocks in when there is none.
func (m statusModel) toggle() tea.Cmd {
	open := m.view.Open != nil
	return func() tea.Msg {
		var err error
		if open {
			_, err = m.app.Sessions.ClockOut(m.ctx, contract.ClockOutRequest{})
		} else {
			_, err = m.app.Sessions.ClockIn(m.ctx, contract.ClockInRequest{})
		}
		if err != nil {
			return statusLoadedMsg{err: err}
		}
		view, err := loadStatus(m.ctx, m.app)
		return statusLoadedMsg{view: view, err: err}
	}
}

func refreshAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return statusRefreshMsg(t) })
}

func (m statusModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(), refreshAfter(statusRefreshInterval))
}

func (m statusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			return m, m.load()
		case key.Matches(msg, m.keys.Toggle):
			if !m.loaded {
				return m, nil
			}
			return m, m.toggle()
		}

	case statusLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.view = msg.view
			m.loaded = true
		}
		return m, nil

	case statusRefreshMsg:
		return m, tea.Batch(m.load(), refreshAfter(statusRefreshInterval))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.view.Now = m.app.now()
		return m, cmd
	}
	return m, nil
}

func (m statusModel) View() string {
	if !m.loaded && m.err == nil {
		return m.spinner.View() + " " + formatter.Dim("Loading status...") + "\n"
	}

	out := ""
	if m.loaded {
		frame := ""
		if m.view.Open != nil {
			frame = m.spinner.View()
		}
		out = formatter.FormatStatus(m.view, frame) + "\n"
	}
	if m.err != nil {
		out += formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n"
	}

	help := ""
	for i, b := range []key.Binding{m.keys.Toggle, m.keys.Refresh, m.keys.Quit} {
		if i > 0 {
			help += "  "
		}
		help += b.Help().Key + " " + b.Help().Desc
	}
	return out + formatter.Dim(help) + "\n"
}
