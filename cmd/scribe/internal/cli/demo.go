package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/speier/scribe/internal/testdoc"
	"github.com/speier/scribe/pkg/scribe/applier"
	"github.com/speier/scribe/pkg/scribe/config"
	"github.com/speier/scribe/pkg/scribe/core"
	"github.com/speier/scribe/pkg/scribe/metrics"
	"github.com/speier/scribe/pkg/scribe/reconciler"
)

var demoFlagsPath string

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run scripted editing scenarios live in a terminal UI",
	Long: `demo drives the reconciler through a handful of scripted editing
scenarios (single text edit, attribute toggle, block insert, keyed reorder,
multi-node replace, IME composition), advancing one step at a time and
rendering the committed buffer. Editing the --flags file while demo runs
toggles feature flags live via an fsnotify watch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := config.NewLoader(demoFlagsPath)
		if err != nil {
			return fmt.Errorf("demo: %w", err)
		}

		m := newDemoModel(loader, demoFlagsPath)
		stop, err := loader.Watch(func(f config.Flags) {
			m.rec.Flags = f
		})
		if err != nil {
			return fmt.Errorf("demo: watch flags: %w", err)
		}
		defer stop()

		p := tea.NewProgram(m)
		_, err = p.Run()
		return err
	},
}

func init() {
	demoCmd.Flags().StringVar(&demoFlagsPath, "flags", "scribe-flags.yaml", "path to a hot-reloaded feature-flag file")
}

var (
	demoTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	demoLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	demoBufferStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	demoMetaStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type demoAdvanceMsg struct{}

func demoAdvance() tea.Cmd {
	return tea.Tick(900*time.Millisecond, func(time.Time) tea.Msg {
		return demoAdvanceMsg{}
	})
}

type demoModel struct {
	rec       *reconciler.Reconciler
	scenarios []testdoc.Scenario
	scenIdx   int
	stepIdx   int
	hydrated  bool
	lastLabel string
	lastErr   error
	flagsPath string
	vp        viewport.Model
}

func newDemoModel(loader *config.Loader, flagsPath string) *demoModel {
	rec := reconciler.New(nil, applier.NopDecorators{})
	rec.Flags = loader.Flags()
	return &demoModel{
		rec:       rec,
		scenarios: testdoc.Scenarios(),
		flagsPath: flagsPath,
		vp:        viewport.New(60, 6),
	}
}

func (m *demoModel) Init() tea.Cmd {
	return demoAdvance()
}

func (m *demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.vp.Width = msg.Width - 4
		m.vp.Height = msg.Height / 2
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case demoAdvanceMsg:
		m.step()
		return m, demoAdvance()
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *demoModel) step() {
	scen := m.scenarios[m.scenIdx]
	if !m.hydrated {
		m.lastErr = m.rec.Update(scen.Hydrate, allKeys(scen.Hydrate), nil, "")
		m.hydrated = true
		m.lastLabel = "hydrate " + scen.Name
		return
	}

	if m.stepIdx < len(scen.Steps) {
		s := scen.Steps[m.stepIdx]
		m.lastErr = m.rec.Update(s.Pending, s.Dirty, s.Marked, s.CompositionKey)
		m.lastLabel = s.Label
		m.stepIdx++
		return
	}

	m.scenIdx = (m.scenIdx + 1) % len(m.scenarios)
	m.stepIdx = 0
	m.hydrated = false
}

func (m *demoModel) View() string {
	scen := m.scenarios[m.scenIdx]
	snap := m.rec.Read()

	var b strings.Builder
	b.WriteString(demoTitleStyle.Render("scribe demo") + "\n\n")
	b.WriteString(demoLabelStyle.Render(fmt.Sprintf("scenario %d/%d: %s", m.scenIdx+1, len(m.scenarios), scen.Name)) + "\n")
	b.WriteString(demoLabelStyle.Render("last step: "+m.lastLabel) + "\n\n")
	m.vp.SetContent(fmt.Sprintf("%q", snap.Text))
	b.WriteString(demoBufferStyle.Render(m.vp.View()) + "\n\n")

	if mem, ok := m.rec.Recorder.(*metrics.MemoryRecorder); ok {
		recent := mem.Recent()
		if len(recent) > 0 {
			last := recent[len(recent)-1]
			b.WriteString(demoMetaStyle.Render(fmt.Sprintf(
				"path=%s wall=%dns deletes=%d inserts=%d set_attrs=%d",
				last.PathLabel, last.WallNs, last.Deletes, last.Inserts, last.SetAttributes)) + "\n")
		}
	}

	if m.lastErr != nil {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render("error: "+m.lastErr.Error()) + "\n")
	}

	b.WriteString("\n" + demoMetaStyle.Render(fmt.Sprintf("q to quit, edit %s to hot-reload flags", m.flagsPath)))
	return b.String()
}

// allKeys marks every node in st dirty, for the first Update of a scenario
// (diff.Plan ignores the dirty set when the range cache is empty and
// hydrates from scratch; when the cache already holds an earlier state,
// every node counts as changed).
func allKeys(st *core.EditorState) map[core.NodeKey]struct{} {
	out := make(map[core.NodeKey]struct{}, len(st.Nodes))
	for k := range st.Nodes {
		out[k] = struct{}{}
	}
	return out
}
