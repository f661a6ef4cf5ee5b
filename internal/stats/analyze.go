// Package stats summarizes per-game outcome logs: one halite total per
// line, with bot-vs-bot runs interleaving one line per player.
package stats

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// DefaultTrail is the trailing-window size used to judge late-run play
// after the learner has warmed up.
const DefaultTrail = 300

// Summary is the five-number view of one value stream.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// StreamReport pairs a full-history summary with its trailing window.
type StreamReport struct {
	Name     string  `json:"name"`
	All      Summary `json:"all"`
	Trail    int     `json:"trail"`
	Trailing Summary `json:"trailing"`
}

// ReadValues parses newline-separated decimal values, skipping blanks.
func ReadValues(r io.Reader) ([]float64, error) {
	var values []float64
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad value %q", line, text)
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

// SplitStreams de-interleaves values into streams: with two streams,
// even lines belong to the first player and odd lines to the second.
func SplitStreams(values []float64, streams int) ([][]float64, error) {
	if streams <= 0 {
		return nil, fmt.Errorf("stream count must be > 0, got %d", streams)
	}
	out := make([][]float64, streams)
	for i, v := range values {
		out[i%streams] = append(out[i%streams], v)
	}
	return out, nil
}

// Summarize computes the five-number summary of values.
func Summarize(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, fmt.Errorf("no values to summarize")
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	// Median of an even count is the mean of the two middle elements.
	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return Summary{
		Count:  len(values),
		Min:    sorted[0],
		Mean:   stat.Mean(values, nil),
		Median: median,
		Max:    sorted[len(sorted)-1],
	}, nil
}

// Trailing returns the last trail values, or all of them when the
// stream is shorter.
func Trailing(values []float64, trail int) []float64 {
	if trail <= 0 || trail >= len(values) {
		return values
	}
	return values[len(values)-trail:]
}

// Report builds one stream's full and trailing summaries.
func Report(name string, values []float64, trail int) (StreamReport, error) {
	all, err := Summarize(values)
	if err != nil {
		return StreamReport{}, fmt.Errorf("stream %s: %w", name, err)
	}
	trailing, err := Summarize(Trailing(values, trail))
	if err != nil {
		return StreamReport{}, fmt.Errorf("stream %s: %w", name, err)
	}
	return StreamReport{Name: name, All: all, Trail: trail, Trailing: trailing}, nil
}
