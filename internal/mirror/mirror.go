// Package mirror replays the face turns of a physical GoCube on a
// twistycube Controller.
package mirror

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/SeamusWaldron/twistycube"
	"github.com/SeamusWaldron/twistycube/internal/protocol"
)

// Mirror decodes device notifications and executes each face turn as an
// outer-layer move with source "device". Turns that arrive while another
// move is rotating wait for it to finish.
type Mirror struct {
	ctrl *twistycube.Controller
	log  logrus.FieldLogger

	mu          sync.Mutex
	turns       int
	battery     int
	orientation *protocol.OrientationEvent

	onBattery func(int)
}

// New creates a mirror for ctrl.
func New(ctrl *twistycube.Controller, log logrus.FieldLogger) *Mirror {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Mirror{ctrl: ctrl, log: log, battery: -1}
}

// OnBattery registers a battery level callback.
func (m *Mirror) OnBattery(fn func(level int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onBattery = fn
}

// Turns returns the number of face turns mirrored.
func (m *Mirror) Turns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.turns
}

// Battery returns the last battery level, or -1.
func (m *Mirror) Battery() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.battery
}

// Orientation returns the last reported attitude, if any.
func (m *Mirror) Orientation() (protocol.OrientationEvent, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.orientation == nil {
		return protocol.OrientationEvent{}, false
	}
	return *m.orientation, true
}

// HandleMessage is the BLE message callback.
func (m *Mirror) HandleMessage(msg *protocol.Message) {
	if err := m.Handle(context.Background(), msg); err != nil {
		m.log.WithError(err).WithField("type", protocol.MessageTypeName(msg.Type)).Warn("device message dropped")
	}
}

// Handle processes one notification.
func (m *Mirror) Handle(ctx context.Context, msg *protocol.Message) error {
	switch msg.Type {
	case protocol.MsgTypeRotation:
		turns, err := protocol.DecodeTurns(msg.Payload)
		if err != nil {
			return err
		}
		for _, t := range turns {
			if err := m.apply(ctx, t); err != nil {
				return err
			}
		}
	case protocol.MsgTypeBattery:
		b, err := protocol.DecodeBattery(msg.Payload)
		if err != nil {
			return err
		}
		m.mu.Lock()
		m.battery = b.Level
		fn := m.onBattery
		m.mu.Unlock()
		if fn != nil {
			fn(b.Level)
		}
	case protocol.MsgTypeOrientation:
		o, err := protocol.DecodeOrientation(msg.Payload)
		if err != nil {
			return err
		}
		m.mu.Lock()
		m.orientation = o
		m.mu.Unlock()
	}
	return nil
}

func (m *Mirror) apply(ctx context.Context, t twistycube.FaceTurn) error {
	for _, mv := range t.LayerMoves(m.ctrl.Geometry()) {
		for {
			err := m.ctrl.Execute(mv, twistycube.SourceDevice)
			if !errors.Is(err, twistycube.ErrMoveInFlight) {
				if err != nil {
					return err
				}
				break
			}
			if done := m.ctrl.Done(); done != nil {
				select {
				case <-done:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}

	m.mu.Lock()
	m.turns++
	m.mu.Unlock()
	m.log.WithField("turn", t.Notation()).Debug("mirrored device turn")
	return nil
}
