// Package analysis looks for wasted motion in recorded games.
package analysis

import (
	"github.com/SeamusWaldron/twistycube"
)

// Cancellation is a move immediately undone (e.g. R followed by R').
type Cancellation struct {
	Index1 int    `json:"index1"`
	Index2 int    `json:"index2"`
	Move1  string `json:"move1"`
	Move2  string `json:"move2"`
	TsMs   int64  `json:"ts_ms"`
}

// MergeOpportunity is three quarter turns of one layer in the same
// direction, which one turn the other way would replace.
type MergeOpportunity struct {
	StartIndex int    `json:"start_index"`
	Move       string `json:"move"`
	MergedMove string `json:"merged_move"`
	TsMs       int64  `json:"ts_ms"`
}

// BackAndForthPattern is an alternating pair repeated (e.g. R U R U R U).
type BackAndForthPattern struct {
	StartIndex int      `json:"start_index"`
	EndIndex   int      `json:"end_index"`
	Pattern    []string `json:"pattern"`
	Count      int      `json:"count"`
	TsMs       int64    `json:"ts_ms"`
}

// RepetitionReport contains all repetition analysis results.
type RepetitionReport struct {
	ImmediateCancellations []Cancellation        `json:"immediate_cancellations"`
	MergeOpportunities     []MergeOpportunity    `json:"merge_opportunities"`
	BackAndForthPatterns   []BackAndForthPattern `json:"back_and_forth_patterns"`
	TotalWastedMoves       int                   `json:"total_wasted_moves"`
}

func sameLayer(a, b twistycube.Move) bool {
	return a.Axis == b.Axis && a.Layer == b.Layer
}

// AnalyzeRepetitions reports wasted motion in a sequence of completed moves.
func AnalyzeRepetitions(events []twistycube.MoveEvent, g twistycube.Geometry) *RepetitionReport {
	report := &RepetitionReport{
		ImmediateCancellations: []Cancellation{},
		MergeOpportunities:     []MergeOpportunity{},
		BackAndForthPatterns:   []BackAndForthPattern{},
	}
	if len(events) < 2 {
		return report
	}

	for i := 0; i < len(events)-1; i++ {
		m1, m2 := events[i].Move, events[i+1].Move
		if m2 == m1.Inverse() {
			report.ImmediateCancellations = append(report.ImmediateCancellations, Cancellation{
				Index1: i,
				Index2: i + 1,
				Move1:  m1.Notation(g),
				Move2:  m2.Notation(g),
				TsMs:   events[i].At.UnixMilli(),
			})
			report.TotalWastedMoves += 2
		}
	}

	for i := 0; i+2 < len(events); {
		m := events[i].Move
		if events[i+1].Move == m && events[i+2].Move == m {
			report.MergeOpportunities = append(report.MergeOpportunities, MergeOpportunity{
				StartIndex: i,
				Move:       m.Notation(g),
				MergedMove: m.Inverse().Notation(g),
				TsMs:       events[i].At.UnixMilli(),
			})
			report.TotalWastedMoves += 2
			i += 3
			continue
		}
		i++
	}

	report.BackAndForthPatterns = findBackAndForth(events, g)
	return report
}

// findBackAndForth finds alternating move patterns like R U R U R U.
func findBackAndForth(events []twistycube.MoveEvent, g twistycube.Geometry) []BackAndForthPattern {
	patterns := []BackAndForthPattern{}
	if len(events) < 4 {
		return patterns
	}

	i := 0
	for i < len(events)-3 {
		a, b := events[i].Move, events[i+1].Move
		if a == b {
			i++
			continue
		}

		count := 1
		j := i + 2
		for j < len(events)-1 && events[j].Move == a && events[j+1].Move == b {
			count++
			j += 2
		}

		// Three repetitions before it is worth reporting.
		if count >= 3 {
			patterns = append(patterns, BackAndForthPattern{
				StartIndex: i,
				EndIndex:   i + count*2 - 1,
				Pattern:    []string{a.Notation(g), b.Notation(g)},
				Count:      count,
				TsMs:       events[i].At.UnixMilli(),
			})
			i = j
		} else {
			i++
		}
	}
	return patterns
}

// OptimizeMoves collapses runs of quarter turns on the same layer to their
// net effect: nothing, one turn either way, or a half turn.
func OptimizeMoves(moves []twistycube.Move) []twistycube.Move {
	result := make([]twistycube.Move, 0, len(moves))
	for i := 0; i < len(moves); {
		first := moves[i]
		net := 0
		j := i
		for j < len(moves) && sameLayer(moves[j], first) {
			net += moves[j].Direction
			j++
		}
		switch ((net % 4) + 4) % 4 {
		case 1:
			result = append(result, twistycube.Move{Axis: first.Axis, Direction: 1, Layer: first.Layer})
		case 2:
			result = append(result, first, first)
		case 3:
			result = append(result, twistycube.Move{Axis: first.Axis, Direction: -1, Layer: first.Layer})
		}
		i = j
	}

	// A collapsed run can expose a new one on either side of it.
	if len(result) < len(moves) {
		return OptimizeMoves(result)
	}
	return result
}

// CalculateEfficiency calculates the efficiency ratio (optimized/original).
func CalculateEfficiency(original, optimized []twistycube.Move) float64 {
	if len(original) == 0 {
		return 1.0
	}
	return float64(len(optimized)) / float64(len(original))
}
