package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twistycube"
	"github.com/SeamusWaldron/twistycube/internal/config"
	"github.com/SeamusWaldron/twistycube/internal/feed"
	"github.com/SeamusWaldron/twistycube/internal/recorder"
)

var (
	playDifficulty string
	playFeed       string
	playNoRecord   bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal with the mouse",
	Long: `Play an N×N×N cube drawn as an unfolded net.

Press the mouse on a sticker and release it over a neighbouring piece to
turn the layer you dragged along.

Keys:
  s       - Scramble at the current difficulty
  1/2/3   - Difficulty easy/medium/hard
  r       - Reset to a solved cube (new game)
  q/Esc   - Quit`,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().StringVarP(&playDifficulty, "difficulty", "d", "", "Scramble difficulty (easy, medium, hard)")
	playCmd.Flags().StringVar(&playFeed, "feed", "", "Serve the websocket spectator feed on this address")
	playCmd.Flags().BoolVar(&playNoRecord, "no-record", false, "Do not record the game")
}

// Styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	solvedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	moveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Messages
type frameMsg time.Time
type moveMsg struct{ ev twistycube.MoveEvent }
type solvedMsg struct{ session string }
type scrambleDoneMsg struct{ err error }

type playModel struct {
	ctrl       *twistycube.Controller
	rec        *recorder.Recorder
	gameLog    *recorder.GameLogger
	layout     netLayout
	frame      time.Duration
	difficulty twistycube.Difficulty
	events     chan tea.Msg
	ctx        context.Context
	cancel     context.CancelFunc

	anchor     *sticker
	retry      *twistycube.ReleasePick
	recent     []string
	solved     bool
	scrambling bool
	status     string
	err        error
	quitting   bool
	logPath    string
}

func newPlayModel(ctrl *twistycube.Controller, rec *recorder.Recorder, gameLog *recorder.GameLogger, cfg *config.Config) *playModel {
	ctx, cancel := context.WithCancel(context.Background())
	m := &playModel{
		ctrl:       ctrl,
		rec:        rec,
		gameLog:    gameLog,
		layout:     netLayout{geom: ctrl.Geometry(), top: 2, left: 2},
		frame:      cfg.Frame(),
		difficulty: cfg.DifficultyTier(),
		events:     make(chan tea.Msg, 256),
		ctx:        ctx,
		cancel:     cancel,
	}
	ctrl.OnMove(func(ev twistycube.MoveEvent) {
		select {
		case m.events <- moveMsg{ev: ev}:
		default:
		}
	})
	ctrl.OnSolved(func(session string) {
		select {
		case m.events <- solvedMsg{session: session}:
		default:
		}
	})
	return m
}

func (m *playModel) Init() tea.Cmd {
	return tea.Batch(m.frameCmd(), m.listen())
}

func (m *playModel) frameCmd() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *playModel) listen() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.gameLog.LogKeyPress(msg.String())
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case frameMsg:
		m.ctrl.Tick()
		if m.retry != nil && !m.ctrl.Rotating() {
			m.release(*m.retry)
		}
		return m, m.frameCmd()

	case moveMsg:
		m.recent = append(m.recent, msg.ev.Move.Notation(m.ctrl.Geometry()))
		if len(m.recent) > 24 {
			m.recent = m.recent[len(m.recent)-24:]
		}
		return m, m.listen()

	case solvedMsg:
		m.solved = true
		m.status = "Solved!"
		return m, m.listen()

	case scrambleDoneMsg:
		m.scrambling = false
		if msg.err != nil {
			m.err = msg.err
			break
		}
		if m.rec != nil {
			if err := m.rec.EndScramble(); err != nil {
				m.err = err
			}
		}
		m.status = fmt.Sprintf("Scrambled (%s). Solve it!", m.difficulty)
	}
	return m, nil
}

func (m *playModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		m.cancel()
		m.logPath = m.gameLog.FilePath()
		return m, tea.Quit

	case "1", "2", "3":
		m.difficulty = twistycube.Difficulties[msg.String()[0]-'1']
		m.status = fmt.Sprintf("Difficulty: %s", m.difficulty)

	case "s":
		if m.scrambling || m.ctrl.Rotating() {
			break
		}
		// Each scramble is a new game.
		m.reset()
		return m, m.scramble()

	case "r":
		if !m.scrambling {
			m.reset()
		}
	}
	return m, nil
}

func (m *playModel) reset() {
	var err error
	if m.rec != nil {
		err = m.rec.Reset()
	} else {
		err = m.ctrl.Reset()
	}
	if err != nil {
		m.err = err
		return
	}
	m.anchor, m.retry = nil, nil
	m.recent = nil
	m.solved = false
	m.err = nil
	m.status = "New game"
}

// scramble runs the scramble driver; the frame loop ticks its moves.
func (m *playModel) scramble() tea.Cmd {
	m.scrambling = true
	m.solved = false
	m.status = fmt.Sprintf("Scrambling (%s)...", m.difficulty)
	d := m.difficulty
	return func() tea.Msg {
		if m.rec != nil {
			if err := m.rec.BeginScramble(d); err != nil {
				return scrambleDoneMsg{err: err}
			}
		}
		return scrambleDoneMsg{err: m.ctrl.ScrambleDifficulty(m.ctx, d)}
	}
}

func (m *playModel) handleMouse(msg tea.MouseMsg) {
	if msg.Button != tea.MouseButtonLeft || m.scrambling {
		return
	}
	s, onNet := m.layout.hit(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		m.retry = nil
		if !onNet {
			m.ctrl.CancelGesture()
			m.anchor = nil
			return
		}
		pick, ok := m.ctrl.PickSticker(s.Coord, s.Face)
		if !ok {
			return
		}
		if err := m.ctrl.PointerDown(pick); err != nil {
			m.status = err.Error()
			m.anchor = nil
			return
		}
		m.anchor = &s

	case tea.MouseActionRelease:
		if m.anchor == nil {
			return
		}
		if !onNet {
			m.ctrl.CancelGesture()
			m.anchor = nil
			return
		}
		rel, ok := m.ctrl.PickPiece(s.Coord)
		if !ok {
			return
		}
		m.release(rel)
	}
}

func (m *playModel) release(rel twistycube.ReleasePick) {
	mv, err := m.ctrl.PointerUp(rel)
	switch {
	case errors.Is(err, twistycube.ErrMoveInFlight):
		m.retry = &rel
		return
	case twistycube.IsNoop(err):
		m.status = ""
	case err != nil:
		m.err = err
	default:
		m.gameLog.LogEvent(recorder.LogEventGesture, m.ctrl.Session(), mv.String())
		m.status = ""
	}
	m.anchor, m.retry = nil, nil
}

func (m *playModel) View() string {
	if m.quitting {
		msg := "Goodbye!\n"
		if m.logPath != "" {
			msg += fmt.Sprintf("Log saved to: %s\n", m.logPath)
		}
		return msg
	}

	st := m.ctrl.Snapshot()
	n := st.Geometry.Size

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("twistycube %d×%d×%d", n, n, n)))
	b.WriteString("\n\n")
	b.WriteString(renderNet(st, m.layout, m.anchor))
	b.WriteString("\n")

	progress := m.ctrl.Progress()
	b.WriteString(statusStyle.Render(fmt.Sprintf("Moves: %d  Faces: %d/6 (%d%%)  Difficulty: %s",
		st.Moves, progress.Solved, progress.Percent(), m.difficulty)))
	b.WriteString("\n")
	if m.rec != nil && m.rec.GameID() != "" {
		b.WriteString(statusStyle.Render(fmt.Sprintf("Game: %s (%s)", shortID(m.rec.GameID()), m.rec.State())))
		b.WriteString("\n")
	}
	if len(m.recent) > 0 {
		b.WriteString(moveStyle.Render(strings.Join(m.recent, " ")))
		b.WriteString("\n")
	}

	switch {
	case m.solved:
		b.WriteString(solvedStyle.Render("SOLVED!"))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("drag stickers to turn | s=scramble 1/2/3=difficulty r=reset q=quit"))
	b.WriteString("\n")
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if playDifficulty != "" {
		if _, err := twistycube.ParseDifficulty(playDifficulty); err != nil {
			return err
		}
		cfg.Difficulty = playDifficulty
	}

	log, closeLog, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctrl, err := newController(cfg, log)
	if err != nil {
		return err
	}

	gameLog := recorder.NewGameLogger()
	var rec *recorder.Recorder
	if !playNoRecord {
		var stop func()
		rec, stop, err = startRecording(cfg, ctrl, gameLog, log)
		if err != nil {
			return err
		}
		defer stop()
	}

	if addr := firstNonEmpty(playFeed, cfg.FeedAddr); addr != "" {
		srv := feed.Serve(addr, feed.NewHub(ctrl, log))
		defer srv.Shutdown(context.Background())
	}

	model := newPlayModel(ctrl, rec, gameLog, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	if rec != nil {
		if err := rec.Finish(); err != nil {
			return err
		}
	}
	return nil
}

// startRecording opens the database, state file and game log and binds a
// recorder to ctrl. stop closes them.
func startRecording(cfg *config.Config, ctrl *twistycube.Controller, gameLog *recorder.GameLogger, log logrus.FieldLogger) (*recorder.Recorder, func(), error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	stateFile, err := recorder.NewDefaultStateFile()
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to load state: %w", err)
	}
	if err := stateFile.SetDBPath(db.Path()); err != nil {
		log.WithError(err).Warn("failed to update state file")
	}

	logDir, err := cfg.ResolveLogDir()
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	if err := gameLog.Start(logDir, ctrl.Geometry()); err != nil {
		log.WithError(err).Warn("game log disabled")
	}
	stop := func() {
		gameLog.Close()
		db.Close()
	}
	return recorder.New(ctrl, db, stateFile, gameLog, log), stop, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
