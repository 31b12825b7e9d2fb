package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twistycube"
	"github.com/SeamusWaldron/twistycube/internal/ble"
	"github.com/SeamusWaldron/twistycube/internal/feed"
	"github.com/SeamusWaldron/twistycube/internal/mirror"
	"github.com/SeamusWaldron/twistycube/internal/recorder"
)

var (
	mirrorDevice   string
	mirrorFeed     string
	mirrorNoRecord bool
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Mirror a GoCube smart cube over Bluetooth",
	Long: `Connect to a GoCube and turn the on-screen 3×3×3 cube whenever the
physical cube is turned.

The physical cube should be solved when the session starts; press r to
mark both as solved again.

Keys:
  r       - Reset the mirror and the cube's solved state
  f       - Flash the cube's backlight
  q/Esc   - Quit`,
	RunE: runMirror,
}

func init() {
	rootCmd.AddCommand(mirrorCmd)
	mirrorCmd.Flags().StringVar(&mirrorDevice, "device", "", "Device UUID to connect to (default: first found)")
	mirrorCmd.Flags().StringVar(&mirrorFeed, "feed", "", "Serve the websocket spectator feed on this address")
	mirrorCmd.Flags().BoolVar(&mirrorNoRecord, "no-record", false, "Do not record the game")
}

type batteryMsg int

type mirrorModel struct {
	ctrl    *twistycube.Controller
	mirror  *mirror.Mirror
	client  *ble.Client
	rec     *recorder.Recorder
	layout  netLayout
	frame   time.Duration
	events  chan tea.Msg
	started time.Time

	recent   []string
	solved   bool
	battery  int
	status   string
	err      error
	quitting bool
}

func newMirrorModel(ctrl *twistycube.Controller, m *mirror.Mirror, client *ble.Client, rec *recorder.Recorder, frame time.Duration) *mirrorModel {
	mm := &mirrorModel{
		ctrl:    ctrl,
		mirror:  m,
		client:  client,
		rec:     rec,
		layout:  netLayout{geom: ctrl.Geometry(), top: 2, left: 2},
		frame:   frame,
		events:  make(chan tea.Msg, 256),
		started: time.Now(),
		battery: -1,
	}
	send := func(msg tea.Msg) {
		select {
		case mm.events <- msg:
		default:
		}
	}
	ctrl.OnMove(func(ev twistycube.MoveEvent) { send(moveMsg{ev: ev}) })
	ctrl.OnSolved(func(session string) { send(solvedMsg{session: session}) })
	m.OnBattery(func(level int) { send(batteryMsg(level)) })
	return mm
}

func (m *mirrorModel) Init() tea.Cmd {
	return tea.Batch(m.frameCmd(), m.listen())
}

func (m *mirrorModel) frameCmd() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *mirrorModel) listen() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

func (m *mirrorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			m.reset()
		case "f":
			if err := m.client.FlashBacklight(); err != nil {
				m.err = err
			}
		}

	case frameMsg:
		if !m.client.IsConnected() {
			m.status = "Disconnected"
		}
		return m, m.frameCmd()

	case moveMsg:
		m.solved = false
		m.recent = append(m.recent, msg.ev.Move.Notation(m.ctrl.Geometry()))
		if len(m.recent) > 24 {
			m.recent = m.recent[len(m.recent)-24:]
		}
		return m, m.listen()

	case solvedMsg:
		m.solved = true
		return m, m.listen()

	case batteryMsg:
		m.battery = int(msg)
		return m, m.listen()
	}
	return m, nil
}

func (m *mirrorModel) reset() {
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
	if err := m.client.ResetSolved(); err != nil {
		m.err = err
		return
	}
	m.recent = nil
	m.solved = false
	m.err = nil
	m.started = time.Now()
	m.status = "Reset: solve state synced"
}

func (m *mirrorModel) View() string {
	if m.quitting {
		return "Disconnected.\n"
	}

	st := m.ctrl.Snapshot()
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("twistycube mirror: %s", m.client.DeviceName())))
	b.WriteString("\n\n")
	b.WriteString(renderNet(st, m.layout, nil))
	b.WriteString("\n")

	line := fmt.Sprintf("Turns: %d  Moves: %d  Time: %s", m.mirror.Turns(), st.Moves, formatDuration(time.Since(m.started)))
	if m.battery >= 0 {
		line += fmt.Sprintf("  Battery: %d%%", m.battery)
	}
	b.WriteString(statusStyle.Render(line))
	b.WriteString("\n")
	if o, ok := m.mirror.Orientation(); ok {
		b.WriteString(statusStyle.Render(fmt.Sprintf("Holding: %s up, %s front", o.UpFace, o.FrontFace)))
		b.WriteString("\n")
	}
	if m.rec != nil && m.rec.GameID() != "" {
		b.WriteString(statusStyle.Render(fmt.Sprintf("Game: %s (%s)", shortID(m.rec.GameID()), m.rec.State())))
		b.WriteString("\n")
	}
	if len(m.recent) > 0 {
		b.WriteString(moveStyle.Render(strings.Join(m.recent, " ")))
		b.WriteString("\n")
	}
	switch {
	case m.solved && st.Moves > 0:
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
	b.WriteString(helpStyle.Render("turn the cube | r=reset f=flash q=quit"))
	b.WriteString("\n")
	return b.String()
}

func runMirror(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// The GoCube is always 3×3×3.
	cfg.Size = 3

	client, results, err := scanForGoCubeWithRetry(cmd.Context(), 3)
	if err != nil {
		return err
	}
	target, err := pickDevice(results, mirrorDevice)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	err = client.ConnectToResult(ctx, target)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer client.Disconnect()
	fmt.Printf("Connected to %s\n", client.DeviceName())

	log, closeLog, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctrl, err := newController(cfg, log)
	if err != nil {
		return err
	}
	m := mirror.New(ctrl, log.WithField("device", client.DeviceName()))

	var rec *recorder.Recorder
	if !mirrorNoRecord {
		var stop func()
		rec, stop, err = startRecording(cfg, ctrl, recorder.NewGameLogger(), log)
		if err != nil {
			return err
		}
		defer stop()
		if state, err := recorder.NewDefaultStateFile(); err == nil {
			if err := state.SetLastDevice(target.UUID, target.Name); err != nil {
				log.WithError(err).Warn("failed to update state file")
			}
		}
	}

	if addr := firstNonEmpty(mirrorFeed, cfg.FeedAddr); addr != "" {
		srv := feed.Serve(addr, feed.NewHub(ctrl, log))
		defer srv.Shutdown(context.Background())
	}

	model := newMirrorModel(ctrl, m, client, rec, cfg.Frame())
	client.SetMessageCallback(m.HandleMessage)
	if err := client.RequestBattery(); err != nil {
		log.WithError(err).Debug("battery request failed")
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	client.SetMessageCallback(nil)

	if rec != nil {
		if err := rec.Finish(); err != nil {
			return err
		}
	}
	log.WithFields(logrus.Fields{"turns": m.Turns(), "moves": ctrl.Moves()}).Info("mirror session ended")
	return nil
}

func pickDevice(results []ble.ScanResult, uuid string) (ble.ScanResult, error) {
	if len(results) == 0 {
		return ble.ScanResult{}, fmt.Errorf("no GoCube found")
	}
	if uuid == "" {
		return results[0], nil
	}
	for _, r := range results {
		if strings.EqualFold(r.UUID, uuid) {
			return r, nil
		}
	}
	return ble.ScanResult{}, fmt.Errorf("GoCube %s not found", uuid)
}
