// Command gocube-debug connects to a GoCube and prints every notification,
// raw and decoded, while tracking the turns on a headless 3×3×3 puzzle.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twistycube"
	"github.com/SeamusWaldron/twistycube/internal/ble"
	"github.com/SeamusWaldron/twistycube/internal/protocol"
)

var (
	showRaw         bool
	withOrientation bool
	scanFor         time.Duration
)

func main() {
	root := &cobra.Command{
		Use:          "gocube-debug",
		Short:        "Show GoCube notifications with puzzle tracking",
		SilenceUsage: true,
		RunE:         run,
	}
	root.Flags().BoolVar(&showRaw, "raw", false, "Print the raw frame bytes")
	root.Flags().BoolVar(&withOrientation, "orientation", false, "Enable orientation notifications")
	root.Flags().DurationVar(&scanFor, "scan", 10*time.Second, "How long to scan for the cube")
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logrus.New()
	log.SetLevel(logrus.InfoLevel)

	ctrl, err := twistycube.New(twistycube.WithLogger(log))
	if err != nil {
		return err
	}
	ctrl.OnSolved(func(string) { fmt.Println(">>> SOLVED <<<") })

	client, err := ble.NewClient()
	if err != nil {
		return fmt.Errorf("BLE not available: %w", err)
	}
	fmt.Println("Scanning for GoCube... rotate the cube to wake it up")
	results, err := client.Scan(ctx, scanFor)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no GoCube found (make sure it is not connected to a phone)")
	}
	target := results[0]
	fmt.Printf("Found %s (%s, RSSI %d)\n", target.Name, target.UUID, target.RSSI)

	client.SetMessageCallback(func(msg *protocol.Message) {
		handle(ctrl, msg)
	})
	if err := client.ConnectToResult(ctx, target); err != nil {
		return err
	}
	defer client.Disconnect()
	fmt.Println("Connected. Press Ctrl+C to stop.")
	fmt.Println()

	cmds := []byte{protocol.CmdRequestCubeType, protocol.CmdRequestOfflineStats}
	if withOrientation {
		cmds = append(cmds, protocol.CmdEnableOrientation)
	} else {
		cmds = append(cmds, protocol.CmdDisableOrientation)
	}
	for _, c := range cmds {
		if err := client.SendCommand(c); err != nil {
			log.WithError(err).Warnf("command 0x%02x failed", c)
		}
	}

	<-ctx.Done()
	fmt.Printf("\n%d moves tracked, %d/6 faces solved\n", ctrl.Moves(), ctrl.Progress().Solved)
	return nil
}

func handle(ctrl *twistycube.Controller, msg *protocol.Message) {
	ts := time.Now().Format("15:04:05.000")
	fmt.Printf("[%s] %-13s", ts, protocol.MessageTypeName(msg.Type))
	if showRaw {
		fmt.Printf(" %s", hex.EncodeToString(msg.Payload))
	}

	switch msg.Type {
	case protocol.MsgTypeRotation:
		events, err := protocol.DecodeRotation(msg.Payload)
		if err != nil {
			fmt.Printf(" error: %v\n", err)
			return
		}
		for _, ev := range events {
			turn := ev.FaceTurn()
			fmt.Printf(" %s (%s, code 0x%02x)", turn, ev.Color, ev.FaceCode)
			if err := ctrl.ApplyTurnsFrom(twistycube.SourceDevice, turn); err != nil {
				fmt.Printf(" apply: %v", err)
			}
		}
		fmt.Printf("  [%d/6 faces]\n", ctrl.Progress().Solved)

	case protocol.MsgTypeBattery:
		if b, err := protocol.DecodeBattery(msg.Payload); err == nil {
			fmt.Printf(" %d%%\n", b.Level)
		} else {
			fmt.Printf(" error: %v\n", err)
		}

	case protocol.MsgTypeOrientation:
		if o, err := protocol.DecodeOrientation(msg.Payload); err == nil {
			fmt.Printf(" up=%s front=%s q=(%.3f %.3f %.3f %.3f)\n", o.UpFace, o.FrontFace, o.Q.W, o.Q.X, o.Q.Y, o.Q.Z)
		} else {
			fmt.Printf(" error: %v\n", err)
		}

	case protocol.MsgTypeCubeType:
		if c, err := protocol.DecodeCubeType(msg.Payload); err == nil {
			fmt.Printf(" %s\n", c.TypeName)
		} else {
			fmt.Printf(" error: %v\n", err)
		}

	case protocol.MsgTypeOfflineStats:
		if s, err := protocol.DecodeOfflineStats(msg.Payload); err == nil {
			fmt.Printf(" moves=%d time=%ds solves=%d\n", s.Moves, s.Time, s.Solves)
		} else {
			fmt.Printf(" error: %v\n", err)
		}

	default:
		fmt.Printf(" %d bytes\n", len(msg.Payload))
	}
}
