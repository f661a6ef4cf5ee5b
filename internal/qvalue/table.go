// Package qvalue holds the process-wide action-value table shared by
// every ship context, together with its eligibility-trace map.
package qvalue

import (
	"errors"

	"github.com/daVinciBot1495/halite-3/internal/model"
)

// ErrNoActions reports an empty candidate-action set. The driver must
// guarantee non-empty legal-action sets, so this is a caller bug.
var ErrNoActions = errors.New("no candidate actions")

// Table maps state-action pairs to value estimates and eligibility
// traces. Absent pairs read as 0.0; the table grows on write and is
// bounded in practice by the finite discretized state space.
type Table struct {
	values map[model.StateAction]float64
	traces map[model.StateAction]float64
}

func NewTable() *Table {
	return &Table{
		values: make(map[model.StateAction]float64),
		traces: make(map[model.StateAction]float64),
	}
}

func (t *Table) Value(state model.State, action model.Action) float64 {
	return t.values[model.StateAction{State: state, Action: action}]
}

func (t *Table) SetValue(state model.State, action model.Action, v float64) {
	t.values[model.StateAction{State: state, Action: action}] = v
}

func (t *Table) Trace(state model.State, action model.Action) float64 {
	return t.traces[model.StateAction{State: state, Action: action}]
}

func (t *Table) SetTrace(state model.State, action model.Action, v float64) {
	t.traces[model.StateAction{State: state, Action: action}] = v
}

// Best returns the candidate with the maximal value for state. Ties go
// to the first maximal candidate in the supplied order, so callers that
// need reproducibility must pass candidates in a deterministic order.
func (t *Table) Best(state model.State, candidates []model.Action) (model.Action, error) {
	if len(candidates) == 0 {
		return model.Still, ErrNoActions
	}

	best := candidates[0]
	bestValue := t.Value(state, best)
	for _, candidate := range candidates[1:] {
		if v := t.Value(state, candidate); v > bestValue {
			best = candidate
			bestValue = v
		}
	}
	return best, nil
}

// Len reports the number of stored value entries.
func (t *Table) Len() int {
	return len(t.values)
}

// Values returns a copy of the stored value estimates for persistence.
// Traces are episode-scoped and deliberately excluded.
func (t *Table) Values() map[model.StateAction]float64 {
	copied := make(map[model.StateAction]float64, len(t.values))
	for key, v := range t.values {
		copied[key] = v
	}
	return copied
}

// ReplaceValues swaps in a previously persisted value map, clearing any
// existing entries and traces.
func (t *Table) ReplaceValues(values map[model.StateAction]float64) {
	t.values = make(map[model.StateAction]float64, len(values))
	for key, v := range values {
		t.values[key] = v
	}
	t.traces = make(map[model.StateAction]float64)
}
