package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twistycube"
	"github.com/SeamusWaldron/twistycube/internal/analysis"
	"github.com/SeamusWaldron/twistycube/internal/storage"
)

var (
	historyLimit int
	showLast     bool
	showAnalyze  bool
	statsAll     bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded games",
	RunE:  runHistory,
}

var showCmd = &cobra.Command{
	Use:   "show [game-id]",
	Short: "Show a recorded game",
	Long: `Show the details and move list of a recorded game.

Examples:
  twistycube show --last
  twistycube show 3f2a9c1e`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show solve statistics for the current size",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statsCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Number of games to list")
	showCmd.Flags().BoolVar(&showLast, "last", false, "Show the most recent game")
	showCmd.Flags().BoolVarP(&showAnalyze, "analyze", "a", false, "Report wasted moves and repeated sequences")
	statsCmd.Flags().BoolVar(&statsAll, "all", false, "Show statistics for every size played")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	games, err := storage.NewGameRepository(db).List(historyLimit)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		fmt.Println("No games recorded yet. Start one with: twistycube play")
		return nil
	}

	moves := storage.NewMoveRepository(db)
	fmt.Printf("%-10s %-17s %-5s %-7s %6s %10s  %s\n", "ID", "STARTED", "SIZE", "LEVEL", "MOVES", "TIME", "RESULT")
	for _, g := range games {
		count, err := moves.Count(g.GameID)
		if err != nil {
			return err
		}
		fmt.Printf("%-10s %-17s %-5s %-7s %6d %10s  %s\n",
			shortID(g.GameID),
			g.StartedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d³", g.Size),
			deref(g.Difficulty, "-"),
			count,
			gameDuration(g),
			gameResult(g),
		)
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	id := ""
	if len(args) > 0 {
		id = args[0]
	}
	g, err := resolveGame(db, id, showLast)
	if err != nil {
		return err
	}

	moveRepo := storage.NewMoveRepository(db)
	records, err := moveRepo.GetByGame(g.GameID)
	if err != nil {
		return err
	}
	bySource, err := moveRepo.CountBySource(g.GameID)
	if err != nil {
		return err
	}

	fmt.Printf("Game:       %s\n", g.GameID)
	fmt.Printf("Size:       %d×%d×%d\n", g.Size, g.Size, g.Size)
	fmt.Printf("Difficulty: %s\n", deref(g.Difficulty, "none"))
	fmt.Printf("Started:    %s\n", g.StartedAt.Local().Format(time.RFC3339))
	if g.EndedAt != nil {
		fmt.Printf("Ended:      %s\n", g.EndedAt.Local().Format(time.RFC3339))
	}
	fmt.Printf("Duration:   %s\n", gameDuration(*g))
	fmt.Printf("Result:     %s\n", gameResult(*g))
	if g.Notes != nil {
		fmt.Printf("Notes:      %s\n", *g.Notes)
	}

	sources := make([]string, 0, len(bySource))
	for src := range bySource {
		sources = append(sources, src)
	}
	sort.Strings(sources)
	fmt.Printf("Moves:      %d", len(records))
	for _, src := range sources {
		fmt.Printf("  %s=%d", src, bySource[src])
	}
	fmt.Println()

	if g.ScrambleText != nil {
		fmt.Println()
		fmt.Println("Scramble:")
		for _, line := range wrapNotation(strings.Fields(*g.ScrambleText), 60) {
			fmt.Printf("  %s\n", line)
		}
	}

	var played []string
	var solving []storage.MoveRecord
	for _, rec := range records {
		if rec.Source != string(twistycube.SourceScramble) {
			played = append(played, rec.Notation)
			solving = append(solving, rec)
		}
	}
	if len(played) > 0 {
		fmt.Println()
		fmt.Println("Moves:")
		for _, line := range wrapNotation(played, 60) {
			fmt.Printf("  %s\n", line)
		}
	}

	if showAnalyze && len(solving) > 0 {
		events, err := storage.ToEvents(g.GameID, solving)
		if err != nil {
			return err
		}
		printAnalysis(events, twistycube.NewGeometry(g.Size))
	}
	return nil
}

func printAnalysis(events []twistycube.MoveEvent, geom twistycube.Geometry) {
	rep := analysis.AnalyzeRepetitions(events, geom)
	moves := make([]twistycube.Move, len(events))
	for i, ev := range events {
		moves[i] = ev.Move
	}
	optimized := analysis.OptimizeMoves(moves)

	fmt.Println()
	fmt.Println("Analysis:")
	fmt.Printf("  Wasted moves:   %d\n", rep.TotalWastedMoves)
	fmt.Printf("  Cancellations:  %d\n", len(rep.ImmediateCancellations))
	fmt.Printf("  Triple turns:   %d\n", len(rep.MergeOpportunities))
	fmt.Printf("  Optimized:      %d moves (%.0f%%)\n", len(optimized), analysis.CalculateEfficiency(moves, optimized)*100)
	for _, p := range rep.BackAndForthPatterns {
		fmt.Printf("  Back and forth: (%s) x%d at move %d\n", strings.Join(p.Pattern, " "), p.Count, p.StartIndex+1)
	}

	ngrams := analysis.MineNGrams(events, geom, 3, 6, 3)
	for n := 6; n >= 3; n-- {
		for _, ng := range ngrams.TopNGrams[n] {
			fmt.Printf("  Repeated:       %s x%d\n", strings.Join(ng.Sequence, " "), ng.Count)
		}
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	sizes := []int{cfg.Size}
	if statsAll {
		sizes = nil
		for n := 1; n <= 10; n++ {
			sizes = append(sizes, n)
		}
	}

	games := storage.NewGameRepository(db)
	printed := 0
	for _, n := range sizes {
		s, err := games.Stats(n)
		if err != nil {
			return err
		}
		if s.Games == 0 && statsAll {
			continue
		}
		printed++
		fmt.Printf("%d×%d×%d: %d games, %d solved", n, n, n, s.Games, s.Solved)
		if s.BestMs != nil {
			fmt.Printf(", best %s", formatDuration(time.Duration(*s.BestMs)*time.Millisecond))
		}
		if s.AverageMs != nil {
			fmt.Printf(", average %s", formatDuration(time.Duration(*s.AverageMs)*time.Millisecond))
		}
		fmt.Println()
	}
	if printed == 0 {
		fmt.Println("No games recorded yet.")
	}
	return nil
}

// resolveGame finds a game by id or id prefix, or the latest one.
func resolveGame(db *storage.DB, id string, last bool) (*storage.Game, error) {
	repo := storage.NewGameRepository(db)
	if id == "" && !last {
		return nil, fmt.Errorf("specify a game id or --last")
	}
	if last {
		g, err := repo.GetLast()
		if err != nil {
			return nil, err
		}
		if g == nil {
			return nil, fmt.Errorf("no games recorded")
		}
		return g, nil
	}

	g, err := repo.Get(id)
	if err != nil {
		return nil, err
	}
	if g != nil {
		return g, nil
	}

	// history prints short ids; accept a unique prefix.
	recent, err := repo.List(1000)
	if err != nil {
		return nil, err
	}
	var match *storage.Game
	for i := range recent {
		if strings.HasPrefix(recent[i].GameID, id) {
			if match != nil {
				return nil, fmt.Errorf("game id %q is ambiguous", id)
			}
			match = &recent[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("game %s not found", id)
	}
	return match, nil
}

func gameDuration(g storage.Game) string {
	if g.DurationMs == nil {
		return "-"
	}
	return formatDuration(time.Duration(*g.DurationMs) * time.Millisecond)
}

func gameResult(g storage.Game) string {
	switch {
	case g.Solved:
		return "solved"
	case g.EndedAt != nil:
		return "abandoned"
	default:
		return "in progress"
	}
}

func deref(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}
