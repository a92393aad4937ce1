package tracker

import (
	"context"
	"sort"

	"jordanella.com/cursor-tracker/internal/cv"
)

// Candidate is one sampled grid point and its score
type Candidate struct {
	X       int     `json:"x"`
	Y       int     `json:"y"`
	Ratio   float64 `json:"ratio"`
	OffsetX int     `json:"offset_x"`
	OffsetY int     `json:"offset_y"`
	Failed  bool    `json:"-"`
}

// CellSampler captures and classifies the cell centered at a point
type CellSampler interface {
	SampleCell(c cv.Point) cv.MatchResult
}

// Scanner tiles a search window into cells and scores each of them
type Scanner struct {
	sampler  CellSampler
	width    int
	height   int
	cellSize int
}

// NewScanner creates a grid scanner for a width×height screen
func NewScanner(sampler CellSampler, width, height, cellSize int) *Scanner {
	return &Scanner{
		sampler:  sampler,
		width:    width,
		height:   height,
		cellSize: cellSize,
	}
}

// bounds returns the lowest and highest cell centers that keep a whole cell on screen
func (s *Scanner) bounds() (lo, hi cv.Point) {
	half := s.cellSize / 2
	return cv.Point{X: half, Y: half}, cv.Point{X: s.width - half, Y: s.height - half}
}

// Scan samples offsets x in [-rng, rng] and y in [-rng/2, rng/2] around
// center, both with the given step, and returns the candidates in scan
// order (x outer, y inner). A cancelled context abandons the pass.
func (s *Scanner) Scan(ctx context.Context, center cv.Point, rng, step int) ([]Candidate, error) {
	if step < 1 {
		step = 1
	}
	if rng < 0 {
		rng = 0
	}
	lo, hi := s.bounds()
	rngY := rng / 2

	candidates := make([]Candidate, 0, min(ScanCells(rng, step), MaxScanCells))
	for dx := -rng; dx <= rng; dx += step {
		for dy := -rngY; dy <= rngY; dy += step {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			p := center.Add(dx, dy).Clamp(lo, hi)
			m := s.sampler.SampleCell(p)
			candidates = append(candidates, Candidate{
				X:       p.X,
				Y:       p.Y,
				Ratio:   m.Ratio,
				OffsetX: m.OffsetX,
				OffsetY: m.OffsetY,
				Failed:  m.Failed(),
			})
		}
	}
	return candidates, nil
}

// Best returns the first candidate with the highest ratio
func Best(candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Ratio > best.Ratio {
			best = c
		}
	}
	return best, true
}

// TopCandidates returns up to n candidates by descending ratio; equal ratios keep scan order
func TopCandidates(candidates []Candidate, n int) []Candidate {
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Ratio > sorted[j].Ratio
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// countFailed returns how many candidates could not be sampled
func countFailed(candidates []Candidate) int {
	n := 0
	for _, c := range candidates {
		if c.Failed {
			n++
		}
	}
	return n
}
