package model

// Action is one of the five moves a ship can make in a turn. The zero
// value is Still, which is always legal.
type Action uint8

const (
	Still Action = iota
	North
	South
	East
	West
)

// Actions lists every action in canonical priority order. Callers that
// need reproducible tie-breaking pass legal-action sets in this order.
var Actions = []Action{Still, North, South, East, West}

var actionTokens = [...]byte{'o', 'n', 's', 'e', 'w'}

var actionNames = [...]string{"still", "north", "south", "east", "west"}

func (a Action) String() string {
	if int(a) >= len(actionNames) {
		return "invalid"
	}
	return actionNames[a]
}

// Token returns the single-character wire form used by the codec and by
// the engine's move commands.
func (a Action) Token() byte {
	if int(a) >= len(actionTokens) {
		return '?'
	}
	return actionTokens[a]
}

// ActionFromToken is the inverse of Token.
func ActionFromToken(b byte) (Action, bool) {
	for i, token := range actionTokens {
		if token == b {
			return Action(i), true
		}
	}
	return Still, false
}

// Offset returns the grid displacement of the action, with y growing
// southward.
func (a Action) Offset() (dx, dy int) {
	switch a {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}
