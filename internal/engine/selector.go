package engine

import "github.com/piwi3910/SquareFill/internal/model"

// NeighborhoodStats counts how often a move was tried and kept.
type NeighborhoodStats struct {
	Neighborhood Neighborhood `json:"neighborhood"`
	Total        int          `json:"total"`
	Adopted      int          `json:"adopted"`
}

// AdoptionRate is Adopted/Total, or 0 when the move never ran.
func (s NeighborhoodStats) AdoptionRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Adopted) / float64(s.Total)
}

// Selector picks moves by fixed relative weight and records their outcome.
type Selector struct {
	weights [NeighborhoodCount]float64
	total   float64
	stats   [NeighborhoodCount]NeighborhoodStats
}

func NewSelector(w model.NeighborhoodWeights) *Selector {
	s := &Selector{
		weights: [NeighborhoodCount]float64{w.Add, w.Delete, w.ChangeSquare, w.SplitSquare, w.MultipleAdd},
	}
	for i := range s.weights {
		if s.weights[i] < 0 {
			s.weights[i] = 0
		}
		s.total += s.weights[i]
		s.stats[i].Neighborhood = AllNeighborhoods[i]
	}
	return s
}

// Select draws a move. With no positive weight it always returns Add.
func (s *Selector) Select(rng Random) Neighborhood {
	if s.total <= 0 {
		return NeighborhoodAdd
	}
	r := rng.Float64() * s.total
	for i, w := range s.weights {
		if r < w {
			return AllNeighborhoods[i]
		}
		r -= w
	}
	return NeighborhoodAdd
}

// Record notes the outcome of one attempt.
func (s *Selector) Record(n Neighborhood, adopted bool) {
	s.stats[n].Total++
	if adopted {
		s.stats[n].Adopted++
	}
}

// Stats returns the counters in declaration order.
func (s *Selector) Stats() []NeighborhoodStats {
	out := make([]NeighborhoodStats, NeighborhoodCount)
	copy(out, s.stats[:])
	return out
}
