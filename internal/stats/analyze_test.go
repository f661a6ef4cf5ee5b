package stats

import (
	"strings"
	"testing"
)

func TestReadValues(t *testing.T) {
	input := "1200\n\n1850.5\n   \n-30\n"

	values, err := ReadValues(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := []float64{1200, 1850.5, -30}
	if len(values) != len(want) {
		t.Fatalf("values: got %d, want %d", len(values), len(want))
	}
	for i := range want {
		if values[i] != want[i] {
			t.Fatalf("values[%d]: got %v, want %v", i, values[i], want[i])
		}
	}
}

func TestReadValuesReportsBadLine(t *testing.T) {
	input := "1200\nnot-a-number\n1850\n"

	_, err := ReadValues(strings.NewReader(input))
	if err == nil {
		t.Fatal("expected error for bad value")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("error should name the offending line: %v", err)
	}
}

func TestSplitStreamsDeinterleaves(t *testing.T) {
	values := []float64{1, 10, 2, 20, 3, 30, 4}

	streams, err := SplitStreams(values, 2)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(streams) != 2 {
		t.Fatalf("streams: got %d, want 2", len(streams))
	}
	first := []float64{1, 2, 3, 4}
	second := []float64{10, 20, 30}
	for i := range first {
		if streams[0][i] != first[i] {
			t.Fatalf("first[%d]: got %v, want %v", i, streams[0][i], first[i])
		}
	}
	for i := range second {
		if streams[1][i] != second[i] {
			t.Fatalf("second[%d]: got %v, want %v", i, streams[1][i], second[i])
		}
	}
}

func TestSplitStreamsSingleStreamPassesThrough(t *testing.T) {
	values := []float64{1, 2, 3}

	streams, err := SplitStreams(values, 1)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(streams) != 1 || len(streams[0]) != 3 {
		t.Fatalf("streams: got %v", streams)
	}
}

func TestSplitStreamsRejectsBadCount(t *testing.T) {
	if _, err := SplitStreams([]float64{1}, 0); err == nil {
		t.Fatal("expected error for zero streams")
	}
}

func TestSummarize(t *testing.T) {
	summary, err := Summarize([]float64{4, 1, 3, 2})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.Count != 4 {
		t.Fatalf("count: got %d, want 4", summary.Count)
	}
	if summary.Min != 1 || summary.Max != 4 {
		t.Fatalf("min/max: got %v/%v, want 1/4", summary.Min, summary.Max)
	}
	if summary.Mean != 2.5 {
		t.Fatalf("mean: got %v, want 2.5", summary.Mean)
	}
	// Even count: midpoint of the two middle elements.
	if summary.Median != 2.5 {
		t.Fatalf("median: got %v, want 2.5", summary.Median)
	}
}

func TestSummarizeOddCountMedian(t *testing.T) {
	summary, err := Summarize([]float64{9, 1, 5})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.Median != 5 {
		t.Fatalf("median: got %v, want 5", summary.Median)
	}
}

func TestSummarizeRejectsEmptyInput(t *testing.T) {
	if _, err := Summarize(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestTrailing(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	got := Trailing(values, 2)
	if len(got) != 2 || got[0] != 4 || got[1] != 5 {
		t.Fatalf("trailing 2: got %v", got)
	}

	if got := Trailing(values, 10); len(got) != 5 {
		t.Fatalf("trail beyond length should return everything, got %v", got)
	}
	if got := Trailing(values, 0); len(got) != 5 {
		t.Fatalf("zero trail should return everything, got %v", got)
	}
}

func TestReport(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6}

	report, err := Report("left", values, 3)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Name != "left" {
		t.Fatalf("name: got %s, want left", report.Name)
	}
	if report.All.Count != 6 {
		t.Fatalf("all count: got %d, want 6", report.All.Count)
	}
	if report.Trailing.Count != 3 {
		t.Fatalf("trailing count: got %d, want 3", report.Trailing.Count)
	}
	if report.Trailing.Min != 4 || report.Trailing.Max != 6 {
		t.Fatalf("trailing min/max: got %v/%v, want 4/6", report.Trailing.Min, report.Trailing.Max)
	}
}

func TestReportFailsOnEmptyStream(t *testing.T) {
	if _, err := Report("left", nil, 3); err == nil {
		t.Fatal("expected error for empty stream")
	}
}
