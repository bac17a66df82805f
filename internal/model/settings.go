package model

import "math"

// ObjectiveKind selects the scoring strategy used by the annealer.
type ObjectiveKind string

const (
	ObjectiveCenter ObjectiveKind = "center" // Centre-weighted point sum only
	ObjectiveEdge   ObjectiveKind = "edge"   // Minus a fading edge-length term
	ObjectiveParity ObjectiveKind = "parity" // Minus a fading corner-parity penalty
)

// NeighborhoodWeights are the relative selection probabilities of the five moves.
type NeighborhoodWeights struct {
	Add          float64 `json:"add" yaml:"add"`
	Delete       float64 `json:"delete" yaml:"delete"`
	ChangeSquare float64 `json:"change_square" yaml:"change_square"`
	SplitSquare  float64 `json:"split_square" yaml:"split_square"`
	MultipleAdd  float64 `json:"multiple_add" yaml:"multiple_add"`
}

// Total is the sum of all weights.
func (w NeighborhoodWeights) Total() float64 {
	return w.Add + w.Delete + w.ChangeSquare + w.SplitSquare + w.MultipleAdd
}

// SolverSettings holds annealing parameters.
type SolverSettings struct {
	TimeLimit     float64 `json:"time_limit" yaml:"time_limit"`         // Wall-clock budget in seconds
	Seed          uint64  `json:"seed" yaml:"seed"`                     // 0 = fixed default seed
	StartTemp     float64 `json:"start_temp" yaml:"start_temp"`         // 0 = derived from grid size
	EndTemp       float64 `json:"end_temp" yaml:"end_temp"`             // 0 = derived from grid size
	CheckInterval int     `json:"check_interval" yaml:"check_interval"` // Iterations between clock reads

	// Move limits
	DeletionLimit    int `json:"deletion_limit" yaml:"deletion_limit"`         // Reject deletes cascading this far
	MultipleAddLimit int `json:"multiple_add_limit" yaml:"multiple_add_limit"` // Recursion budget for multi-add

	Weights NeighborhoodWeights `json:"weights" yaml:"weights"`

	// Scoring
	Objective     ObjectiveKind `json:"objective" yaml:"objective"`
	EdgeWeight    float64       `json:"edge_weight" yaml:"edge_weight"`
	PenaltyWeight float64       `json:"penalty_weight" yaml:"penalty_weight"`
}

func DefaultSettings() SolverSettings {
	return SolverSettings{
		TimeLimit:        4.97,
		Seed:             0,
		StartTemp:        0,
		EndTemp:          0,
		CheckInterval:    100,
		DeletionLimit:    10,
		MultipleAddLimit: 20,
		Weights: NeighborhoodWeights{
			Add:          0.75,
			Delete:       0.05,
			ChangeSquare: 0.10,
			SplitSquare:  0.10,
			MultipleAdd:  0,
		},
		Objective:     ObjectiveCenter,
		EdgeWeight:    1.0,
		PenaltyWeight: 10.0,
	}
}

// Temperatures returns the start and end temperature for an n×n grid,
// deriving any that are left at zero.
func (s SolverSettings) Temperatures(n int) (start, end float64) {
	scale := math.Pow(float64(n)/30.0, 2)
	start, end = s.StartTemp, s.EndTemp
	if start <= 0 {
		start = 500 * scale
	}
	if end <= 0 {
		end = 25 * scale
	}
	return start, end
}

// Profile is a named set of solver settings.
type Profile struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Settings    SolverSettings `json:"settings" yaml:"settings"`
	IsBuiltIn   bool           `json:"-" yaml:"-"`
}

// BuiltInProfiles ship with the solver. The last entry is the fallback.
var BuiltInProfiles = []Profile{
	{
		Name:        "fast",
		Description: "One second budget for smoke runs",
		Settings: func() SolverSettings {
			s := DefaultSettings()
			s.TimeLimit = 1.0
			return s
		}(),
		IsBuiltIn: true,
	},
	{
		Name:        "thorough",
		Description: "Thirty second budget with multi-add enabled",
		Settings: func() SolverSettings {
			s := DefaultSettings()
			s.TimeLimit = 30.0
			s.Weights.Add = 0.65
			s.Weights.MultipleAdd = 0.10
			return s
		}(),
		IsBuiltIn: true,
	},
	{
		Name:        "default",
		Description: "Contest budget of just under five seconds",
		Settings:    DefaultSettings(),
		IsBuiltIn:   true,
	},
}

// CustomProfiles holds user-defined profiles loaded at runtime.
var CustomProfiles []Profile

// AllProfiles returns built-in profiles followed by custom ones.
func AllProfiles() []Profile {
	all := make([]Profile, 0, len(BuiltInProfiles)+len(CustomProfiles))
	all = append(all, BuiltInProfiles...)
	all = append(all, CustomProfiles...)
	return all
}

// GetProfile returns a profile by name, or the default profile if not found.
func GetProfile(name string) Profile {
	for _, p := range AllProfiles() {
		if p.Name == name {
			return p
		}
	}
	return BuiltInProfiles[len(BuiltInProfiles)-1]
}

// GetProfileNames returns the names of all available profiles.
func GetProfileNames() []string {
	var names []string
	for _, p := range AllProfiles() {
		names = append(names, p.Name)
	}
	return names
}
