package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twistycube"
	"github.com/SeamusWaldron/twistycube/internal/config"
	"github.com/SeamusWaldron/twistycube/internal/notation"
)

var (
	scrambleDifficulty string
	scrambleMoves      int
	scrambleSeed       int64
	describeTurns      bool
)

var scrambleCmd = &cobra.Command{
	Use:   "scramble",
	Short: "Generate a random scramble",
	Long: `Scramble a solved cube with random gestures and print the layer moves
and the resulting net.

Examples:
  twistycube scramble --difficulty hard
  twistycube scramble --moves 12 --seed 42 -n 4`,
	RunE: runScramble,
}

var applyCmd = &cobra.Command{
	Use:   "apply <notation>",
	Short: "Apply face notation to a solved cube",
	Long: `Apply a sequence such as "R U R' U'" to a solved cube and print the
resulting net and whether it is solved.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(scrambleCmd)
	scrambleCmd.Flags().StringVarP(&scrambleDifficulty, "difficulty", "d", "", "Difficulty tier (easy, medium, hard)")
	scrambleCmd.Flags().IntVarP(&scrambleMoves, "moves", "m", 0, "Number of moves (overrides difficulty)")
	scrambleCmd.Flags().Int64Var(&scrambleSeed, "seed", 0, "Random seed (0 = time based)")

	scrambleCmd.Flags().BoolVar(&describeTurns, "describe", false, "Also print the moves as spoken instructions")

	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().BoolVar(&describeTurns, "describe", false, "Also print the moves as spoken instructions")
}

// headlessController builds a controller that logs to stderr.
func headlessController(cfg *config.Config, extra ...twistycube.Option) (*twistycube.Controller, error) {
	return newController(cfg, newLogger(cfg, os.Stderr), extra...)
}

func runScramble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	var opts []twistycube.Option
	if scrambleSeed != 0 {
		opts = append(opts, twistycube.WithSeed(scrambleSeed))
	}
	ctrl, err := headlessController(cfg, opts...)
	if err != nil {
		return err
	}

	n := scrambleMoves
	if n <= 0 {
		d := cfg.DifficultyTier()
		if scrambleDifficulty != "" {
			if d, err = twistycube.ParseDifficulty(scrambleDifficulty); err != nil {
				return err
			}
		}
		n = d.Moves()
	}

	var moves []string
	ctrl.OnMove(func(ev twistycube.MoveEvent) {
		moves = append(moves, ev.Move.Notation(ctrl.Geometry()))
	})

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()
	go ctrl.Run(ctx, time.Millisecond)

	if err := ctrl.Scramble(ctx, n); err != nil {
		return err
	}

	text := strings.Join(moves, " ")
	fmt.Printf("Scramble (%d moves): %s\n", len(moves), text)
	if describeTurns {
		printDescribed(text)
	}
	fmt.Println()
	fmt.Print(netText(ctrl.Snapshot()))
	return nil
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctrl, err := headlessController(cfg)
	if err != nil {
		return err
	}
	text := strings.Join(args, " ")
	if err := ctrl.ApplyNotation(text); err != nil {
		return err
	}
	if describeTurns {
		printDescribed(text)
		fmt.Println()
	}

	fmt.Print(netText(ctrl.Snapshot()))
	fmt.Println()
	p := ctrl.Progress()
	fmt.Printf("Quarter turns: %d\n", ctrl.Moves())
	fmt.Printf("Uniform faces: %d/6 (%d%%)\n", p.Solved, p.Percent())
	if ctrl.IsSolved() {
		fmt.Println("Solved")
	} else {
		fmt.Println("Not solved")
	}
	return nil
}

// printDescribed prints face notation as spoken instructions. Inner layer
// moves have no face letter and are skipped.
func printDescribed(text string) {
	turns, err := twistycube.ParseFaceTurns(text)
	if err != nil {
		fmt.Println("Instructions: not available for inner layer moves")
		return
	}
	fmt.Printf("Instructions: %s\n", notation.FormatDescribed(turns))
}
