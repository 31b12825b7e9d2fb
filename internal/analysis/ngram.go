package analysis

import (
	"math"
	"slices"
	"sort"

	"github.com/SeamusWaldron/twistycube"
)

// NGram is a move sequence that occurs more than once.
type NGram struct {
	N           int               `json:"n"`
	Sequence    []string          `json:"sequence"`
	Count       int               `json:"count"`
	Occurrences []NGramOccurrence `json:"occurrences,omitempty"`
}

// NGramOccurrence is where an n-gram was found.
type NGramOccurrence struct {
	StartIndex int   `json:"start_index"`
	TsMs       int64 `json:"ts_ms"`
}

// NGramReport holds the most frequent n-grams keyed by n.
type NGramReport struct {
	TopNGrams map[int][]NGram `json:"top_ngrams"`
}

// Token packs a layer move into a small integer: layer index, axis and
// direction.
func Token(m twistycube.Move, g twistycube.Geometry) uint16 {
	layer := int(math.Round(m.Layer + g.MaxCoord()))
	t := (int(m.Axis)*g.Size + layer) * 2
	if m.Direction < 0 {
		t++
	}
	return uint16(t)
}

// MoveFromToken is the inverse of Token.
func MoveFromToken(t uint16, g twistycube.Geometry) twistycube.Move {
	dir := 1
	if t%2 == 1 {
		dir = -1
	}
	idx := int(t / 2)
	return twistycube.Move{
		Axis:      twistycube.Axis(idx / g.Size),
		Direction: dir,
		Layer:     float64(idx%g.Size) - g.MaxCoord(),
	}
}

// RollingHash is a Rabin-Karp hash over a fixed window of tokens.
type RollingHash struct {
	base   uint64
	hash   uint64
	pow    uint64 // base^(n-1)
	window []uint16
	n      int
}

// NewRollingHash creates a rolling hash for window size n.
func NewRollingHash(n int) *RollingHash {
	rh := &RollingHash{base: 131, n: n, window: make([]uint16, 0, n)}
	rh.pow = 1
	for i := 0; i < n-1; i++ {
		rh.pow *= rh.base
	}
	return rh
}

// Roll adds token, dropping the oldest one once the window is full.
func (rh *RollingHash) Roll(token uint16) {
	if len(rh.window) < rh.n {
		rh.window = append(rh.window, token)
		rh.hash = rh.hash*rh.base + uint64(token)
		return
	}
	old := rh.window[0]
	rh.hash = (rh.hash-uint64(old)*rh.pow)*rh.base + uint64(token)
	copy(rh.window, rh.window[1:])
	rh.window[rh.n-1] = token
}

// Hash returns the current hash value.
func (rh *RollingHash) Hash() uint64 { return rh.hash }

// Ready reports whether the window is full.
func (rh *RollingHash) Ready() bool { return len(rh.window) == rh.n }

// Window returns a copy of the current window.
func (rh *RollingHash) Window() []uint16 {
	out := make([]uint16, len(rh.window))
	copy(out, rh.window)
	return out
}

type ngramEntry struct {
	tokens      []uint16
	count       int
	first       int
	occurrences []NGramOccurrence
}

// MineNGrams finds the topK most frequent n-grams for each n in [minN, maxN].
func MineNGrams(events []twistycube.MoveEvent, g twistycube.Geometry, minN, maxN, topK int) *NGramReport {
	report := &NGramReport{TopNGrams: make(map[int][]NGram)}
	if minN < 1 || len(events) < minN {
		return report
	}

	tokens := make([]uint16, len(events))
	for i, ev := range events {
		tokens[i] = Token(ev.Move, g)
	}
	for n := minN; n <= maxN && n <= len(events); n++ {
		if ngrams := mineN(tokens, events, g, n, topK); len(ngrams) > 0 {
			report.TopNGrams[n] = ngrams
		}
	}
	return report
}

func mineN(tokens []uint16, events []twistycube.MoveEvent, g twistycube.Geometry, n, topK int) []NGram {
	counts := make(map[uint64][]*ngramEntry)
	rh := NewRollingHash(n)

	for i, tok := range tokens {
		rh.Roll(tok)
		if !rh.Ready() {
			continue
		}
		start := i - n + 1
		occ := NGramOccurrence{StartIndex: start, TsMs: events[start].At.UnixMilli()}
		window := tokens[start : i+1]

		var entry *ngramEntry
		for _, e := range counts[rh.Hash()] {
			if slices.Equal(e.tokens, window) {
				entry = e
				break
			}
		}
		if entry == nil {
			counts[rh.Hash()] = append(counts[rh.Hash()], &ngramEntry{tokens: rh.Window(), count: 1, first: start, occurrences: []NGramOccurrence{occ}})
			continue
		}
		entry.count++
		if len(entry.occurrences) < 10 {
			entry.occurrences = append(entry.occurrences, occ)
		}
	}

	var entries []*ngramEntry
	for _, bucket := range counts {
		for _, e := range bucket {
			if e.count >= 2 {
				entries = append(entries, e)
			}
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].first < entries[j].first
	})
	if len(entries) > topK {
		entries = entries[:topK]
	}

	out := make([]NGram, len(entries))
	for i, e := range entries {
		seq := make([]string, len(e.tokens))
		for j, t := range e.tokens {
			seq[j] = MoveFromToken(t, g).Notation(g)
		}
		out[i] = NGram{N: n, Sequence: seq, Count: e.count, Occurrences: e.occurrences}
	}
	return out
}
