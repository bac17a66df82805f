package engine

import (
	"fmt"

	"github.com/piwi3910/SquareFill/internal/model"
)

// Objective turns the accumulated score terms into the value the annealer
// maximises. progress runs from 0 at the start of a run to 1 at the deadline.
type Objective interface {
	Name() model.ObjectiveKind
	Evaluate(s model.Score, progress float64) float64
}

// CenterObjective is the plain centre-weighted point sum.
type CenterObjective struct{}

func (CenterObjective) Name() model.ObjectiveKind { return model.ObjectiveCenter }

func (CenterObjective) Evaluate(s model.Score, _ float64) float64 {
	return float64(s.Base)
}

// EdgeObjective penalises total edge length early in the run so the search
// prefers small rectangles that leave room for more. The penalty fades to
// zero at the deadline.
type EdgeObjective struct {
	Weight float64
}

func (EdgeObjective) Name() model.ObjectiveKind { return model.ObjectiveEdge }

func (o EdgeObjective) Evaluate(s model.Score, progress float64) float64 {
	return float64(s.Base) - o.Weight*float64(s.EdgeLength)*fade(progress)
}

// ParityObjective penalises corners on odd/odd cells, with the same fading
// schedule as EdgeObjective.
type ParityObjective struct {
	Weight float64
}

func (ParityObjective) Name() model.ObjectiveKind { return model.ObjectiveParity }

func (o ParityObjective) Evaluate(s model.Score, progress float64) float64 {
	return float64(s.Base) - o.Weight*float64(s.PointPenalty)*fade(progress)
}

func fade(progress float64) float64 {
	if progress >= 1 {
		return 0
	}
	if progress <= 0 {
		return 1
	}
	return 1 - progress
}

// NewObjective builds the objective named in settings.
func NewObjective(s model.SolverSettings) (Objective, error) {
	switch s.Objective {
	case model.ObjectiveCenter, "":
		return CenterObjective{}, nil
	case model.ObjectiveEdge:
		return EdgeObjective{Weight: s.EdgeWeight}, nil
	case model.ObjectiveParity:
		return ParityObjective{Weight: s.PenaltyWeight}, nil
	default:
		return nil, fmt.Errorf("unknown objective %q", s.Objective)
	}
}
