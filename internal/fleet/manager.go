// Package fleet manages the per-ship learning contexts. Contexts hold
// a handle to the shared value table through the learner; the manager
// exclusively owns context lifetime while the table outlives them all.
package fleet

import (
	"errors"
	"fmt"
	"sort"

	"github.com/daVinciBot1495/halite-3/internal/model"
)

var (
	// ErrPoolExhausted reports that every context slot is in use. The
	// driver recovers by skipping the ship for the turn.
	ErrPoolExhausted = errors.New("context pool exhausted")
	// ErrUnknownAgent reports a lookup or release for a ship that has
	// no registered context, which is a reconciliation bug upstream.
	ErrUnknownAgent = errors.New("no context for agent")
)

// Context is the per-ship learning record: a stable slot identifier and
// the ship's previous state-action pair, absent before its first move.
type Context struct {
	slot    int
	prev    model.StateAction
	hasPrev bool
}

// Slot returns the context's pool identifier in [0, maxContexts).
func (c *Context) Slot() int {
	return c.slot
}

// Previous returns the ship's last state-action pair, if any.
func (c *Context) Previous() (model.StateAction, bool) {
	return c.prev, c.hasPrev
}

// SetPrevious records the pair just acted on, replacing any prior one.
func (c *Context) SetPrevious(pair model.StateAction) {
	c.prev = pair
	c.hasPrev = true
}

// Manager allocates contexts from a bounded pool of reusable slot
// identifiers, one per live ship.
type Manager struct {
	maxContexts int
	contexts    map[string]*Context
	inUse       []bool
}

func NewManager(maxContexts int) (*Manager, error) {
	if maxContexts <= 0 {
		return nil, fmt.Errorf("max contexts must be > 0, got %d", maxContexts)
	}
	if maxContexts > model.MaxSlots {
		return nil, fmt.Errorf("max contexts must be <= %d, got %d", model.MaxSlots, maxContexts)
	}
	return &Manager{
		maxContexts: maxContexts,
		contexts:    make(map[string]*Context),
		inUse:       make([]bool, maxContexts),
	}, nil
}

// HasCapacity reports whether a slot is free.
func (m *Manager) HasCapacity() bool {
	return len(m.contexts) < m.maxContexts
}

// NewContext registers a context for agentKey on the smallest free
// slot. It fails with ErrPoolExhausted when every slot is live.
func (m *Manager) NewContext(agentKey string) (*Context, error) {
	if _, ok := m.contexts[agentKey]; ok {
		return nil, fmt.Errorf("context already registered for agent %s", agentKey)
	}
	slot := -1
	for i, used := range m.inUse {
		if !used {
			slot = i
			break
		}
	}
	if slot < 0 {
		return nil, fmt.Errorf("agent %s: %w", agentKey, ErrPoolExhausted)
	}

	ctx := &Context{slot: slot}
	m.inUse[slot] = true
	m.contexts[agentKey] = ctx
	return ctx, nil
}

// Context returns the registered context for agentKey.
func (m *Manager) Context(agentKey string) (*Context, error) {
	ctx, ok := m.contexts[agentKey]
	if !ok {
		return nil, fmt.Errorf("agent %s: %w", agentKey, ErrUnknownAgent)
	}
	return ctx, nil
}

// Release removes agentKey's context and returns its slot to the pool.
func (m *Manager) Release(agentKey string) error {
	ctx, ok := m.contexts[agentKey]
	if !ok {
		return fmt.Errorf("agent %s: %w", agentKey, ErrUnknownAgent)
	}
	m.inUse[ctx.slot] = false
	delete(m.contexts, agentKey)
	return nil
}

// LiveAgentKeys returns the registered agent keys in sorted order so
// per-turn iteration stays deterministic.
func (m *Manager) LiveAgentKeys() []string {
	keys := make([]string, 0, len(m.contexts))
	for key := range m.contexts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len reports the number of live contexts.
func (m *Manager) Len() int {
	return len(m.contexts)
}
