package engine

import (
	"fmt"

	"github.com/piwi3910/SquareFill/internal/model"
)

// Replay rebuilds a state by placing squares in order, the way a judge
// checks a submitted answer. It stops at the first square that cannot be
// placed. IDs are reassigned in placement order.
func Replay(inst model.Instance, squares []model.Square) (*State, error) {
	if err := inst.Validate(); err != nil {
		return nil, fmt.Errorf("invalid instance: %w", err)
	}
	st := NewState(inst.N, inst.Points, nil)
	for i, sq := range squares {
		if !sq.Valid() {
			return st, fmt.Errorf("square %d has misaligned corners", i+1)
		}
		placed := st.NewSquare(sq.NewPos, sq.Diagonal, sq.Connect)
		if len(st.PerformAdd(placed, false)) == 0 {
			return st, fmt.Errorf("square %d with new corner %v cannot be placed", i+1, sq.NewPos)
		}
	}
	return st, nil
}
