package fleet

import (
	"errors"
	"fmt"
	"testing"

	"github.com/daVinciBot1495/halite-3/internal/model"
)

func TestNewManagerRejectsBadBounds(t *testing.T) {
	if _, err := NewManager(0); err == nil {
		t.Fatal("expected error for zero capacity")
	}
	if _, err := NewManager(-1); err == nil {
		t.Fatal("expected error for negative capacity")
	}
	if _, err := NewManager(model.MaxSlots + 1); err == nil {
		t.Fatal("expected error for capacity above the slot space")
	}
	if _, err := NewManager(model.MaxSlots); err != nil {
		t.Fatalf("capacity at the slot space should be fine: %v", err)
	}
}

func TestNewContextAssignsSmallestFreeSlot(t *testing.T) {
	m, err := NewManager(3)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	for i := 0; i < 3; i++ {
		ctx, err := m.NewContext(fmt.Sprintf("ship-%d", i))
		if err != nil {
			t.Fatalf("new context %d: %v", i, err)
		}
		if ctx.Slot() != i {
			t.Fatalf("slot: got %d, want %d", ctx.Slot(), i)
		}
	}
}

func TestNewContextRejectsDuplicateKey(t *testing.T) {
	m, _ := NewManager(3)
	if _, err := m.NewContext("ship-1"); err != nil {
		t.Fatalf("new context: %v", err)
	}
	if _, err := m.NewContext("ship-1"); err == nil {
		t.Fatal("expected error for duplicate agent key")
	}
}

func TestPoolExhaustion(t *testing.T) {
	m, _ := NewManager(2)
	m.NewContext("a")
	m.NewContext("b")

	if m.HasCapacity() {
		t.Fatal("pool should be full")
	}
	_, err := m.NewContext("c")
	if !errors.Is(err, ErrPoolExhausted) {
		t.Fatalf("expected ErrPoolExhausted, got %v", err)
	}
}

func TestReleaseReturnsSlotForReuse(t *testing.T) {
	m, _ := NewManager(3)
	m.NewContext("a")
	m.NewContext("b")
	m.NewContext("c")

	if err := m.Release("b"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if !m.HasCapacity() {
		t.Fatal("release should free capacity")
	}

	// The freed slot 1 is the smallest free one and gets reused.
	ctx, err := m.NewContext("d")
	if err != nil {
		t.Fatalf("new context: %v", err)
	}
	if ctx.Slot() != 1 {
		t.Fatalf("reused slot: got %d, want 1", ctx.Slot())
	}
}

func TestReleaseUnknownAgent(t *testing.T) {
	m, _ := NewManager(2)
	if err := m.Release("ghost"); !errors.Is(err, ErrUnknownAgent) {
		t.Fatalf("expected ErrUnknownAgent, got %v", err)
	}
}

func TestContextLookup(t *testing.T) {
	m, _ := NewManager(2)
	created, err := m.NewContext("a")
	if err != nil {
		t.Fatalf("new context: %v", err)
	}

	found, err := m.Context("a")
	if err != nil {
		t.Fatalf("context: %v", err)
	}
	if found != created {
		t.Fatal("lookup should return the registered context")
	}

	_, err = m.Context("ghost")
	if !errors.Is(err, ErrUnknownAgent) {
		t.Fatalf("expected ErrUnknownAgent, got %v", err)
	}
}

func TestLiveAgentKeysSorted(t *testing.T) {
	m, _ := NewManager(4)
	for _, key := range []string{"zeta", "alpha", "mid", "beta"} {
		if _, err := m.NewContext(key); err != nil {
			t.Fatalf("new context %s: %v", key, err)
		}
	}

	keys := m.LiveAgentKeys()
	want := []string{"alpha", "beta", "mid", "zeta"}
	if len(keys) != len(want) {
		t.Fatalf("keys: got %d, want %d", len(keys), len(want))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys[%d]: got %s, want %s", i, keys[i], want[i])
		}
	}

	if m.Len() != 4 {
		t.Fatalf("len: got %d, want 4", m.Len())
	}
}

func TestPreviousPairLifecycle(t *testing.T) {
	m, _ := NewManager(1)
	ctx, err := m.NewContext("a")
	if err != nil {
		t.Fatalf("new context: %v", err)
	}

	if _, ok := ctx.Previous(); ok {
		t.Fatal("fresh context should have no previous pair")
	}

	pair := model.StateAction{
		State:  model.State{HaliteHere: 3, Slot: ctx.Slot()},
		Action: model.North,
	}
	ctx.SetPrevious(pair)

	got, ok := ctx.Previous()
	if !ok {
		t.Fatal("previous pair should be set")
	}
	if got != pair {
		t.Fatalf("previous: got %+v, want %+v", got, pair)
	}
}
