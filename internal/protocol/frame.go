// Package protocol decodes the GoCube BLE wire protocol into twistycube
// face turns.
package protocol

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// GoCube BLE service and characteristic UUIDs.
const (
	ServiceUUID = "6e400001-b5a3-f393-e0a9-e50e24dcca9e"
	TxCharUUID  = "6e400003-b5a3-f393-e0a9-e50e24dcca9e" // notify
	RxCharUUID  = "6e400002-b5a3-f393-e0a9-e50e24dcca9e" // write
)

// Message types.
const (
	MsgTypeRotation     byte = 0x01
	MsgTypeState        byte = 0x02
	MsgTypeOrientation  byte = 0x03
	MsgTypeBattery      byte = 0x05
	MsgTypeOfflineStats byte = 0x07
	MsgTypeCubeType     byte = 0x08
)

// Commands written to the RX characteristic.
const (
	CmdRequestBattery       byte = 0x32
	CmdRequestState         byte = 0x33
	CmdReboot               byte = 0x34
	CmdResetSolved          byte = 0x35
	CmdDisableOrientation   byte = 0x37
	CmdEnableOrientation    byte = 0x38
	CmdRequestOfflineStats  byte = 0x39
	CmdFlashBacklight       byte = 0x41
	CmdToggleAnimatedBL     byte = 0x42
	CmdSlowFlashBacklight   byte = 0x43
	CmdToggleBacklight      byte = 0x44
	CmdRequestCubeType      byte = 0x56
	CmdCalibrateOrientation byte = 0x57
)

const (
	framePrefix  byte = 0x2A // '*'
	frameSuffix1 byte = 0x0D
	frameSuffix2 byte = 0x0A
)

var (
	ErrInvalidPrefix   = errors.New("protocol: invalid message prefix")
	ErrInvalidSuffix   = errors.New("protocol: invalid message suffix")
	ErrInvalidChecksum = errors.New("protocol: invalid checksum")
	ErrMessageTooShort = errors.New("protocol: message too short")
	ErrInvalidLength   = errors.New("protocol: invalid message length")
)

// Message is one framed notification from the cube.
type Message struct {
	Type      byte
	Payload   []byte
	RawBase64 string
}

// Parse parses a raw notification.
// Frame: [0x2A] [length] [type] [payload...] [checksum] [0x0D 0x0A], where
// length counts the bytes after itself.
func Parse(data []byte) (*Message, error) {
	if len(data) < 5 {
		return nil, ErrMessageTooShort
	}
	if data[0] != framePrefix {
		return nil, ErrInvalidPrefix
	}

	length := int(data[1])
	total := 2 + length
	if len(data) < total {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrInvalidLength, total, len(data))
	}

	sumIdx := length - 1
	if sumIdx < 3 {
		return nil, ErrMessageTooShort
	}
	if data[sumIdx+1] != frameSuffix1 || data[sumIdx+2] != frameSuffix2 {
		return nil, ErrInvalidSuffix
	}

	var sum byte
	for _, b := range data[:sumIdx] {
		sum += b
	}
	if sum != data[sumIdx] {
		return nil, fmt.Errorf("%w: expected 0x%02X, got 0x%02X", ErrInvalidChecksum, data[sumIdx], sum)
	}

	return &Message{
		Type:      data[2],
		Payload:   data[3:sumIdx],
		RawBase64: base64.StdEncoding.EncodeToString(data[:total]),
	}, nil
}

// Frame wraps a type and payload into a notification frame, the inverse
// of Parse.
func Frame(msgType byte, payload []byte) []byte {
	length := len(payload) + 4 // type, checksum, CR, LF
	out := make([]byte, 0, length+2)
	out = append(out, framePrefix, byte(length), msgType)
	out = append(out, payload...)
	var sum byte
	for _, b := range out {
		sum += b
	}
	return append(out, sum, frameSuffix1, frameSuffix2)
}

// BuildCommand creates a command frame with no payload.
func BuildCommand(cmd byte) []byte {
	const length byte = 0x01
	return []byte{framePrefix, length, cmd, framePrefix + length + cmd, frameSuffix1, frameSuffix2}
}

// MessageTypeName returns a readable name for a message type.
func MessageTypeName(t byte) string {
	switch t {
	case MsgTypeRotation:
		return "rotation"
	case MsgTypeState:
		return "state"
	case MsgTypeOrientation:
		return "orientation"
	case MsgTypeBattery:
		return "battery"
	case MsgTypeOfflineStats:
		return "offline_stats"
	case MsgTypeCubeType:
		return "cube_type"
	default:
		return fmt.Sprintf("unknown_0x%02X", t)
	}
}
