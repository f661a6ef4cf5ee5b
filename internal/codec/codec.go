// Package codec serializes value-table entries to the line-oriented
// snapshot format. Each record is a schema-version byte, the fixed-width
// positional state tokens, the action token, a colon, and the decimal
// value. The schema is positional rather than self-describing; the
// leading version byte rejects snapshots written by an older field
// layout instead of silently corrupting the table.
package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/daVinciBot1495/halite-3/internal/model"
)

// SchemaVersion is the leading byte of every record. Bump it whenever
// the state field layout changes.
const SchemaVersion byte = '1'

var (
	// ErrMalformed reports a record that fails to decode. Loading
	// aborts on the first malformed record; a partially loaded table
	// produces silently wrong policies.
	ErrMalformed = errors.New("malformed record")
	// ErrVersionMismatch reports a record written under a different
	// state schema.
	ErrVersionMismatch = errors.New("snapshot schema version mismatch")
)

// Record layout offsets after the version byte.
const (
	stateTokens = 8
	colonIndex  = 1 + stateTokens + 1
	minRecord   = colonIndex + 2
)

// Encode renders one state-action pair and its value as a record. Every
// field must be within its single-digit range and every direction must
// be a real action; out-of-range input produces a record Decode rejects.
// Save validates, callers of Encode alone must.
func Encode(pair model.StateAction, value float64) string {
	var b strings.Builder
	b.Grow(minRecord + 16)
	b.WriteByte(SchemaVersion)
	b.WriteByte(digitToken(pair.State.HaliteHere))
	b.WriteByte(digitToken(pair.State.HaliteNorth))
	b.WriteByte(digitToken(pair.State.HaliteSouth))
	b.WriteByte(digitToken(pair.State.HaliteEast))
	b.WriteByte(digitToken(pair.State.HaliteWest))
	b.WriteByte(digitToken(pair.State.Cargo))
	b.WriteByte(pair.State.DropoffDir.Token())
	b.WriteByte(digitToken(pair.State.Slot))
	b.WriteByte(pair.Action.Token())
	b.WriteByte(':')
	b.WriteString(strconv.FormatFloat(value, 'g', -1, 64))
	return b.String()
}

// Decode parses one record. Any out-of-range token fails rather than
// defaulting.
func Decode(line string) (model.StateAction, float64, error) {
	if len(line) < minRecord {
		return model.StateAction{}, 0, fmt.Errorf("%w: record too short: %q", ErrMalformed, line)
	}
	if line[0] != SchemaVersion {
		return model.StateAction{}, 0, fmt.Errorf("%w: got %q, want %q", ErrVersionMismatch, line[0], SchemaVersion)
	}
	if line[colonIndex] != ':' {
		return model.StateAction{}, 0, fmt.Errorf("%w: missing separator: %q", ErrMalformed, line)
	}

	var pair model.StateAction
	fields := []*int{
		&pair.State.HaliteHere,
		&pair.State.HaliteNorth,
		&pair.State.HaliteSouth,
		&pair.State.HaliteEast,
		&pair.State.HaliteWest,
		&pair.State.Cargo,
	}
	for i, field := range fields {
		d, ok := parseDigit(line[1+i])
		if !ok {
			return model.StateAction{}, 0, fmt.Errorf("%w: bad state token %q in %q", ErrMalformed, line[1+i], line)
		}
		*field = d
	}

	dir, ok := model.ActionFromToken(line[7])
	if !ok {
		return model.StateAction{}, 0, fmt.Errorf("%w: bad direction token %q in %q", ErrMalformed, line[7], line)
	}
	pair.State.DropoffDir = dir

	slot, ok := parseDigit(line[8])
	if !ok {
		return model.StateAction{}, 0, fmt.Errorf("%w: bad slot token %q in %q", ErrMalformed, line[8], line)
	}
	pair.State.Slot = slot

	action, ok := model.ActionFromToken(line[9])
	if !ok {
		return model.StateAction{}, 0, fmt.Errorf("%w: bad action token %q in %q", ErrMalformed, line[9], line)
	}
	pair.Action = action

	value, err := strconv.ParseFloat(line[colonIndex+1:], 64)
	if err != nil {
		return model.StateAction{}, 0, fmt.Errorf("%w: bad value in %q: %v", ErrMalformed, line, err)
	}
	return pair, value, nil
}

// Save renders a value map as newline-separated records. Record order
// follows map iteration and carries no meaning. An entry with a field
// outside its encodable range fails the whole save rather than writing
// a record Decode would reject.
func Save(values map[model.StateAction]float64) ([]byte, error) {
	var b strings.Builder
	for pair, value := range values {
		if err := validatePair(pair); err != nil {
			return nil, err
		}
		b.WriteString(Encode(pair, value))
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}

func validatePair(pair model.StateAction) error {
	fields := []struct {
		name string
		v    int
	}{
		{"halite here", pair.State.HaliteHere},
		{"halite north", pair.State.HaliteNorth},
		{"halite south", pair.State.HaliteSouth},
		{"halite east", pair.State.HaliteEast},
		{"halite west", pair.State.HaliteWest},
		{"cargo", pair.State.Cargo},
		{"slot", pair.State.Slot},
	}
	for _, f := range fields {
		if f.v < 0 || f.v > 9 {
			return fmt.Errorf("unencodable entry: %s %d out of range", f.name, f.v)
		}
	}
	if pair.State.DropoffDir.Token() == '?' {
		return fmt.Errorf("unencodable entry: bad dropoff direction %d", pair.State.DropoffDir)
	}
	if pair.Action.Token() == '?' {
		return fmt.Errorf("unencodable entry: bad action %d", pair.Action)
	}
	return nil
}

// Load parses newline-separated records. Blank lines are skipped; the
// first malformed record aborts the whole load.
func Load(data []byte) (map[model.StateAction]float64, error) {
	values := make(map[model.StateAction]float64)
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		pair, value, err := Decode(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		values[pair] = value
	}
	return values, nil
}

func digitToken(d int) byte {
	if d < 0 || d > 9 {
		return '?'
	}
	return byte('0' + d)
}

func parseDigit(b byte) (int, bool) {
	if b < '0' || b > '9' {
		return 0, false
	}
	return int(b - '0'), true
}
