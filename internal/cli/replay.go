package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twistycube"
	"github.com/SeamusWaldron/twistycube/internal/config"
	"github.com/SeamusWaldron/twistycube/internal/recorder"
	"github.com/SeamusWaldron/twistycube/internal/storage"
)

var replayCmd = &cobra.Command{
	Use:   "replay [log-file]",
	Short: "Replay a recorded game",
	Long: `Replay a game from its log file or from the database.

If no log file or --game is given, lists the available log files.

Usage:
  twistycube replay                    # List available logs
  twistycube replay <log-file>         # Replay a specific log
  twistycube replay --game <id>        # Replay a game from the database
  twistycube replay --speed 2.0        # Replay at 2x speed
  twistycube replay --step             # Step through moves manually`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

var (
	replaySpeed  float64
	replayStep   bool
	replayGameID string
)

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Float64VarP(&replaySpeed, "speed", "s", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVarP(&replayStep, "step", "t", false, "Step through moves manually")
	replayCmd.Flags().StringVar(&replayGameID, "game", "", "Replay a game stored in the database")
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logDir, err := cfg.ResolveLogDir()
	if err != nil {
		return err
	}

	var log *recorder.GameLog
	switch {
	case replayGameID != "":
		if log, err = loadStoredGame(cfg, replayGameID); err != nil {
			return err
		}
	case len(args) == 0:
		return listLogs(logDir)
	default:
		logPath := args[0]
		if !filepath.IsAbs(logPath) {
			if _, err := os.Stat(logPath); err != nil {
				logPath = filepath.Join(logDir, logPath)
			}
		}
		if log, err = recorder.LoadGameLog(logPath); err != nil {
			return fmt.Errorf("failed to load log: %w", err)
		}
		fmt.Printf("Loaded log: %s\n", logPath)
	}

	if log.Size > 0 {
		cfg.Size = log.Size
	}
	ctrl, err := newController(cfg, newLogger(cfg, os.Stderr))
	if err != nil {
		return err
	}

	model := newReplayModel(ctrl, log, replaySpeed, replayStep, cfg.Frame())
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("replay error: %w", err)
	}
	return model.err
}

func loadStoredGame(cfg *config.Config, id string) (*recorder.GameLog, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	game, err := resolveGame(db, id, false)
	if err != nil {
		return nil, err
	}
	records, err := storage.NewMoveRepository(db).GetByGame(game.GameID)
	if err != nil {
		return nil, err
	}
	return recorder.FromRecords(game, records)
}

func listLogs(logDir string) error {
	entries, err := os.ReadDir(logDir)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	var logs []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jsonl") {
			logs = append(logs, e.Name())
		}
	}
	if len(logs) == 0 {
		fmt.Println("No log files found. Record a game first with: twistycube play")
		return nil
	}

	// Names carry the timestamp, so newest is last.
	sort.Strings(logs)
	fmt.Println("Available log files:")
	fmt.Println()
	for _, name := range logs {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println()
	fmt.Println("Usage: twistycube replay <filename>")
	return nil
}

type replayEventMsg struct{ gen int }

type replayModel struct {
	ctrl       *twistycube.Controller
	log        *recorder.GameLog
	layout     netLayout
	frame      time.Duration
	eventIndex int
	generation int
	speed      float64
	stepMode   bool
	paused     bool
	lastMs     int64
	elapsed    time.Duration
	moves      []string
	err        error
	quitting   bool
}

func newReplayModel(ctrl *twistycube.Controller, log *recorder.GameLog, speed float64, stepMode bool, frame time.Duration) *replayModel {
	if speed <= 0 {
		speed = 1
	}
	return &replayModel{
		ctrl:     ctrl,
		log:      log,
		layout:   netLayout{geom: ctrl.Geometry(), top: 2, left: 2},
		frame:    frame,
		speed:    speed,
		stepMode: stepMode,
		paused:   stepMode,
	}
}

func (m *replayModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.frameCmd()}
	if !m.stepMode {
		cmds = append(cmds, m.scheduleNextEvent())
	}
	return tea.Batch(cmds...)
}

func (m *replayModel) frameCmd() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *replayModel) scheduleNextEvent() tea.Cmd {
	if m.eventIndex >= len(m.log.Events) {
		return nil
	}
	event := m.log.Events[m.eventIndex]

	var delay time.Duration
	if m.eventIndex > 0 {
		delay = time.Duration(float64(event.ElapsedMs-m.lastMs)/m.speed) * time.Millisecond
	}
	gen := m.generation
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return replayEventMsg{gen: gen}
	})
}

func (m *replayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case " ", "n":
			if m.stepMode || m.paused {
				m.advance()
				return m, nil
			}
			m.paused = true

		case "p":
			m.paused = !m.paused
			if !m.paused && !m.stepMode {
				m.generation++
				return m, m.scheduleNextEvent()
			}

		case "r":
			m.restart()
			if !m.paused {
				return m, m.scheduleNextEvent()
			}

		case "+", "=":
			m.speed = min(m.speed*2, 16)

		case "-":
			m.speed = max(m.speed/2, 0.25)
		}

	case frameMsg:
		m.ctrl.Tick()
		return m, m.frameCmd()

	case replayEventMsg:
		// Ticks scheduled before a pause or restart are stale.
		if m.paused || msg.gen != m.generation {
			return m, nil
		}
		m.advance()
		return m, m.scheduleNextEvent()
	}
	return m, nil
}

// finish completes an animating move so the next one can start.
func (m *replayModel) finish() {
	for m.ctrl.Rotating() {
		m.ctrl.Tick()
	}
}

func (m *replayModel) advance() {
	if m.eventIndex >= len(m.log.Events) {
		return
	}
	event := m.log.Events[m.eventIndex]
	m.eventIndex++
	m.lastMs = event.ElapsedMs
	m.elapsed = time.Duration(event.ElapsedMs) * time.Millisecond

	mv, src, ok := recorder.EventMove(event)
	if !ok {
		return
	}
	m.finish()
	if _, err := m.ctrl.StartMove(mv, src); err != nil {
		m.err = err
		return
	}
	m.moves = append(m.moves, firstNonEmpty(event.Notation, mv.Notation(m.ctrl.Geometry())))
}

func (m *replayModel) restart() {
	m.finish()
	if err := m.ctrl.Reset(); err != nil {
		m.err = err
		return
	}
	m.generation++
	m.eventIndex = 0
	m.lastMs = 0
	m.elapsed = 0
	m.moves = nil
	m.err = nil
}

func (m *replayModel) View() string {
	if m.quitting {
		return "Replay ended.\n"
	}

	st := m.ctrl.Snapshot()
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("twistycube replay %d×%d×%d", st.Geometry.Size, st.Geometry.Size, st.Geometry.Size)))
	b.WriteString("\n\n")
	b.WriteString(renderNet(st, m.layout, nil))
	b.WriteString("\n")

	progress := fmt.Sprintf("Event %d/%d", m.eventIndex, len(m.log.Events))
	if m.paused {
		progress += " [PAUSED]"
	}
	if m.stepMode {
		progress += " [STEP MODE]"
	}
	b.WriteString(statusStyle.Render(progress))
	b.WriteString(fmt.Sprintf(" (%.2gx speed)\n", m.speed))
	b.WriteString(fmt.Sprintf("Time: %s  Moves: %d\n", formatDuration(m.elapsed), len(m.moves)))

	if len(m.moves) > 0 {
		start := 0
		if len(m.moves) > 20 {
			start = len(m.moves) - 20
			b.WriteString("... ")
		}
		b.WriteString(moveStyle.Render(strings.Join(m.moves[start:], " ")))
		b.WriteString("\n")
	}
	if st.Solved && len(m.moves) > 0 {
		b.WriteString(solvedStyle.Render("SOLVED!"))
		b.WriteString("\n")
	}
	if m.eventIndex < len(m.log.Events) {
		next := m.log.Events[m.eventIndex]
		b.WriteString(statusStyle.Render(fmt.Sprintf("Next: %s %s", next.EventType, firstNonEmpty(next.Notation, next.Description))))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := "SPACE/n=next  p=pause  r=restart  +/-=speed  q=quit"
	if m.stepMode {
		help = "SPACE/n=next event  r=restart  q=quit"
	}
	b.WriteString(helpStyle.Render(help))
	b.WriteString("\n")
	return b.String()
}
