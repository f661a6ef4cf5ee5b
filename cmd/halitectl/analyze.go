package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/logrusorgru/aurora"

	"github.com/daVinciBot1495/halite-3/internal/stats"
)

func runAnalyze(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	input := fs.String("input", "-", "halite log path, or - for stdin")
	streams := fs.Int("streams", 2, "interleaved player streams in the log")
	trail := fs.Int("trail", stats.DefaultTrail, "trailing-window size")
	jsonOut := fs.Bool("json", false, "emit reports as JSON")
	htmlOut := fs.String("html", "", "optional HTML chart output path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *trail <= 0 {
		return errors.New("trail must be > 0")
	}

	var r io.Reader = os.Stdin
	if *input != "-" {
		f, err := os.Open(*input)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	values, err := stats.ReadValues(r)
	if err != nil {
		return err
	}
	split, err := stats.SplitStreams(values, *streams)
	if err != nil {
		return err
	}

	reports := make([]stats.StreamReport, 0, len(split))
	named := make(map[string][]float64, len(split))
	for i, stream := range split {
		name := streamName(i, *streams)
		report, err := stats.Report(name, stream, *trail)
		if err != nil {
			return err
		}
		reports = append(reports, report)
		named[name] = stream
	}

	if *htmlOut != "" {
		f, err := os.Create(*htmlOut)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := stats.RenderChart(f, "halite per game", named); err != nil {
			return err
		}
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	for _, report := range reports {
		fmt.Printf("stream=%s games=%s\n", report.Name, humanize.Comma(int64(report.All.Count)))
		printSummary("all", report.All)
		fmt.Printf("trailing window=%d\n", report.Trail)
		printSummary("trailing", report.Trailing)
	}
	return nil
}

func printSummary(label string, s stats.Summary) {
	fmt.Printf("%s min=%.1f mean=%.1f median=%.1f max=%s\n",
		label,
		s.Min,
		s.Mean,
		s.Median,
		aurora.Green(fmt.Sprintf("%.1f", s.Max)),
	)
}

func streamName(i, streams int) string {
	if streams == 2 {
		return []string{"left", "right"}[i]
	}
	return fmt.Sprintf("stream-%d", i)
}
