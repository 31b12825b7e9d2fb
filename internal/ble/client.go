// Package ble connects to GoCube devices over Bluetooth Low Energy.
package ble

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"

	"github.com/SeamusWaldron/twistycube/internal/protocol"
)

var (
	ErrNotConnected     = errors.New("ble: not connected to device")
	ErrAlreadyConnected = errors.New("ble: already connected to a device")
	ErrDeviceNotFound   = errors.New("ble: device not found")
)

var (
	serviceUUID = mustParseUUID(protocol.ServiceUUID)
	txCharUUID  = mustParseUUID(protocol.TxCharUUID)
	rxCharUUID  = mustParseUUID(protocol.RxCharUUID)
)

func mustParseUUID(s string) bluetooth.UUID {
	u, err := bluetooth.ParseUUID(s)
	if err != nil {
		panic(err)
	}
	return u
}

// ScanResult is a discovered GoCube.
type ScanResult struct {
	Name    string
	UUID    string
	RSSI    int16
	Address bluetooth.Address
}

// Client is a connection to one GoCube.
type Client struct {
	adapter *bluetooth.Adapter
	device  bluetooth.Device
	rxChar  bluetooth.DeviceCharacteristic

	mu         sync.RWMutex
	connected  bool
	deviceName string
	deviceUUID string
	battery    int

	onMessage func(*protocol.Message)
}

// NewClient enables the default adapter.
func NewClient() (*Client, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("failed to enable BLE adapter: %w", err)
	}
	return &Client{adapter: adapter, battery: -1}, nil
}

// SetMessageCallback sets the callback for every parsed notification.
func (c *Client) SetMessageCallback(cb func(*protocol.Message)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMessage = cb
}

// Scan collects GoCube advertisements until timeout or ctx is done.
func (c *Client) Scan(ctx context.Context, timeout time.Duration) ([]ScanResult, error) {
	if c.IsConnected() {
		return nil, ErrAlreadyConnected
	}

	var (
		mu      sync.Mutex
		results []ScanResult
		seen    = make(map[string]bool)
		done    = make(chan error, 1)
	)
	go func() {
		done <- c.adapter.Scan(func(_ *bluetooth.Adapter, r bluetooth.ScanResult) {
			name := r.LocalName()
			addr := r.Address.String()
			mu.Lock()
			defer mu.Unlock()
			if seen[addr] || !strings.HasPrefix(strings.ToLower(name), "gocube") {
				return
			}
			seen[addr] = true
			results = append(results, ScanResult{Name: name, UUID: addr, RSSI: r.RSSI, Address: r.Address})
		})
	}()

	select {
	case <-time.After(timeout):
	case <-ctx.Done():
	}
	c.adapter.StopScan()
	if err := <-done; err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	return results, nil
}

// Connect scans for the device with the given address and connects to it.
func (c *Client) Connect(ctx context.Context, deviceUUID string) error {
	if c.IsConnected() {
		return ErrAlreadyConnected
	}

	found := make(chan ScanResult, 1)
	go c.adapter.Scan(func(_ *bluetooth.Adapter, r bluetooth.ScanResult) {
		if r.Address.String() == deviceUUID {
			select {
			case found <- ScanResult{Name: r.LocalName(), UUID: deviceUUID, RSSI: r.RSSI, Address: r.Address}:
			default:
			}
		}
	})

	var result ScanResult
	select {
	case result = <-found:
		c.adapter.StopScan()
	case <-time.After(10 * time.Second):
		c.adapter.StopScan()
		return ErrDeviceNotFound
	case <-ctx.Done():
		c.adapter.StopScan()
		return ctx.Err()
	}
	return c.ConnectToResult(ctx, result)
}

// ConnectToResult connects to a device returned by Scan.
func (c *Client) ConnectToResult(_ context.Context, result ScanResult) error {
	if c.IsConnected() {
		return ErrAlreadyConnected
	}

	device, err := c.adapter.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	rx, err := c.subscribe(device)
	if err != nil {
		device.Disconnect()
		return err
	}

	c.mu.Lock()
	c.device = device
	c.rxChar = rx
	c.connected = true
	c.deviceName = result.Name
	c.deviceUUID = result.UUID
	c.mu.Unlock()

	return c.RequestBattery()
}

// subscribe enables notifications on TX and returns the RX characteristic.
func (c *Client) subscribe(device bluetooth.Device) (bluetooth.DeviceCharacteristic, error) {
	var rx bluetooth.DeviceCharacteristic

	services, err := device.DiscoverServices([]bluetooth.UUID{serviceUUID})
	if err != nil {
		return rx, fmt.Errorf("failed to discover services: %w", err)
	}
	if len(services) == 0 {
		return rx, fmt.Errorf("GoCube service not found")
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{txCharUUID, rxCharUUID})
	if err != nil {
		return rx, fmt.Errorf("failed to discover characteristics: %w", err)
	}
	var tx bluetooth.DeviceCharacteristic
	for _, ch := range chars {
		switch ch.UUID() {
		case txCharUUID:
			tx = ch
		case rxCharUUID:
			rx = ch
		}
	}

	if err := tx.EnableNotifications(c.handleNotification); err != nil {
		return rx, fmt.Errorf("failed to enable notifications: %w", err)
	}
	return rx, nil
}

// Disconnect drops the connection.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return nil
	}
	err := c.device.Disconnect()
	c.connected = false
	c.deviceName = ""
	c.deviceUUID = ""
	c.battery = -1
	return err
}

// IsConnected reports whether a device is connected.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// DeviceName returns the connected device name.
func (c *Client) DeviceName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.deviceName
}

// DeviceUUID returns the connected device address.
func (c *Client) DeviceUUID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.deviceUUID
}

// Battery returns the last reported battery level, or -1.
func (c *Client) Battery() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.battery
}

// SendCommand writes a command frame to the cube.
func (c *Client) SendCommand(cmd byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.connected {
		return ErrNotConnected
	}
	data := protocol.BuildCommand(cmd)
	if _, err := c.rxChar.WriteWithoutResponse(data); err != nil {
		_, err = c.rxChar.Write(data)
		return err
	}
	return nil
}

func (c *Client) RequestBattery() error { return c.SendCommand(protocol.CmdRequestBattery) }
func (c *Client) RequestState() error   { return c.SendCommand(protocol.CmdRequestState) }
func (c *Client) FlashBacklight() error { return c.SendCommand(protocol.CmdFlashBacklight) }
func (c *Client) ResetSolved() error    { return c.SendCommand(protocol.CmdResetSolved) }

func (c *Client) handleNotification(data []byte) {
	msg, err := protocol.Parse(data)
	if err != nil {
		return
	}

	if msg.Type == protocol.MsgTypeBattery {
		if b, err := protocol.DecodeBattery(msg.Payload); err == nil {
			c.mu.Lock()
			c.battery = b.Level
			c.mu.Unlock()
		}
	}

	c.mu.RLock()
	cb := c.onMessage
	c.mu.RUnlock()
	if cb != nil {
		cb(msg)
	}
}
