package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/logrusorgru/aurora"

	"github.com/daVinciBot1495/halite-3/internal/codec"
	"github.com/daVinciBot1495/halite-3/internal/storage"
)

func runTable(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("table", flag.ContinueOnError)
	valuesPath := fs.String("values", "values.txt", "value-table snapshot path")
	top := fs.Int("top", 10, "entries to print, highest value first")
	jsonOut := fs.Bool("json", false, "emit entries as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *top <= 0 {
		return errors.New("top must be > 0")
	}

	values, err := storage.LoadSnapshot(*valuesPath)
	if err != nil {
		return err
	}

	type entry struct {
		Record string  `json:"record"`
		Value  float64 `json:"value"`
	}
	entries := make([]entry, 0, len(values))
	for pair, v := range values {
		entries = append(entries, entry{Record: codec.Encode(pair, v), Value: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Record < entries[j].Record
	})
	if len(entries) > *top {
		entries = entries[:*top]
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	fmt.Printf("snapshot=%s entries=%s\n", *valuesPath, humanize.Comma(int64(len(values))))
	for i, e := range entries {
		record := e.Record
		if i == 0 {
			record = aurora.Green(record).String()
		}
		fmt.Printf("rank=%d value=%.6f record=%s\n", i+1, e.Value, record)
	}
	return nil
}
