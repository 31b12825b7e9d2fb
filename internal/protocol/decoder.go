package protocol

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/westphae/quaternion"

	"github.com/SeamusWaldron/twistycube"
)

// RotationEvent is one face rotation reported by the cube.
type RotationEvent struct {
	FaceCode          byte // 0x00-0x0B, even codes clockwise
	CenterOrientation byte
	Clockwise         bool
	Color             string
}

// Face maps the rotated centre color onto a puzzle face, assuming white
// up and green front.
func (e RotationEvent) Face() twistycube.Face {
	return colorFaces[e.Color]
}

// FaceTurn returns the notation turn for the rotation.
func (e RotationEvent) FaceTurn() twistycube.FaceTurn {
	t := twistycube.CW
	if !e.Clockwise {
		t = twistycube.CCW
	}
	return twistycube.FaceTurn{Face: e.Face(), Turn: t}
}

// BatteryEvent is a battery level notification, 0-100.
type BatteryEvent struct {
	Level int
}

// CubeTypeEvent is a cube type notification.
type CubeTypeEvent struct {
	TypeCode byte
	TypeName string
}

// OrientationEvent is the cube's attitude quaternion and the faces it
// points up and towards the solver.
type OrientationEvent struct {
	Q         quaternion.Quaternion
	UpFace    twistycube.Face
	FrontFace twistycube.Face
}

// OfflineStatsEvent holds the counters kept while disconnected.
type OfflineStatsEvent struct {
	Moves  int
	Time   int // seconds
	Solves int
}

var colorNames = [6]string{"blue", "green", "white", "yellow", "red", "orange"}

var colorFaces = map[string]twistycube.Face{
	"white":  twistycube.FaceTop,
	"yellow": twistycube.FaceBottom,
	"green":  twistycube.FaceFront,
	"blue":   twistycube.FaceBack,
	"red":    twistycube.FaceRight,
	"orange": twistycube.FaceLeft,
}

// DecodeRotation decodes [face_dir] [center_orientation] byte pairs.
func DecodeRotation(payload []byte) ([]RotationEvent, error) {
	if len(payload)%2 != 0 {
		return nil, fmt.Errorf("rotation payload must have even length, got %d", len(payload))
	}

	events := make([]RotationEvent, 0, len(payload)/2)
	for i := 0; i < len(payload); i += 2 {
		code := payload[i]
		idx := int(code / 2)
		if idx >= len(colorNames) {
			return nil, fmt.Errorf("unknown color index %d from face code 0x%02X", idx, code)
		}
		events = append(events, RotationEvent{
			FaceCode:          code,
			CenterOrientation: payload[i+1],
			Clockwise:         code%2 == 0,
			Color:             colorNames[idx],
		})
	}
	return events, nil
}

// DecodeTurns decodes a rotation payload straight to face turns.
func DecodeTurns(payload []byte) ([]twistycube.FaceTurn, error) {
	events, err := DecodeRotation(payload)
	if err != nil {
		return nil, err
	}
	turns := make([]twistycube.FaceTurn, len(events))
	for i, e := range events {
		turns[i] = e.FaceTurn()
	}
	return turns, nil
}

// DecodeBattery decodes a battery payload.
func DecodeBattery(payload []byte) (*BatteryEvent, error) {
	if len(payload) < 1 {
		return nil, fmt.Errorf("battery payload too short")
	}
	return &BatteryEvent{Level: int(payload[0])}, nil
}

// DecodeCubeType decodes a cube type payload.
func DecodeCubeType(payload []byte) (*CubeTypeEvent, error) {
	if len(payload) < 1 {
		return nil, fmt.Errorf("cube type payload too short")
	}
	name := "standard"
	if payload[0] == 0x01 {
		name = "edge"
	}
	return &CubeTypeEvent{TypeCode: payload[0], TypeName: name}, nil
}

// DecodeOrientation decodes the ASCII "x#y#z#w" payload. The cube sends
// raw integers; the quaternion is normalised here.
func DecodeOrientation(payload []byte) (*OrientationEvent, error) {
	parts := strings.Split(string(payload), "#")
	if len(parts) != 4 {
		return nil, fmt.Errorf("orientation payload must have 4 parts, got %d", len(parts))
	}
	parts[3] = leadingNumber(parts[3])

	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid orientation component %d: %w", i, err)
		}
		v[i] = f
	}

	mag := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2] + v[3]*v[3])
	if mag == 0 {
		return nil, fmt.Errorf("orientation quaternion is zero")
	}
	q := quaternion.Quaternion{W: v[3] / mag, X: v[0] / mag, Y: v[1] / mag, Z: v[2] / mag}

	return &OrientationEvent{
		Q:         q,
		UpFace:    dominantFace(twistycube.Rotate(q, twistycube.NewVec(0, 1, 0))),
		FrontFace: dominantFace(twistycube.Rotate(q, twistycube.NewVec(0, 0, 1))),
	}, nil
}

// leadingNumber drops the checksum byte and CRLF trailing the last field.
func leadingNumber(s string) string {
	end := 0
	for i, r := range s {
		if (r == '-' && i == 0) || r == '.' || (r >= '0' && r <= '9') {
			end = i + 1
			continue
		}
		break
	}
	return s[:end]
}

func dominantFace(v twistycube.Vec3) twistycube.Face {
	best := twistycube.AxisY
	for _, a := range []twistycube.Axis{twistycube.AxisZ, twistycube.AxisX} {
		if math.Abs(twistycube.Component(v, a)) > math.Abs(twistycube.Component(v, best)) {
			best = a
		}
	}
	if twistycube.Component(v, best) < 0 {
		return twistycube.FaceOf(best, -1)
	}
	return twistycube.FaceOf(best, 1)
}

// DecodeOfflineStats decodes the "moves#time#solves" payload.
func DecodeOfflineStats(payload []byte) (*OfflineStatsEvent, error) {
	parts := strings.Split(string(payload), "#")
	if len(parts) != 3 {
		return nil, fmt.Errorf("offline stats payload must have 3 parts, got %d", len(parts))
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid offline stats field %d: %w", i, err)
		}
		v[i] = n
	}
	return &OfflineStatsEvent{Moves: v[0], Time: v[1], Solves: v[2]}, nil
}
