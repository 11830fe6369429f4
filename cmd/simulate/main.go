// Command simulate runs one shot headlessly from a snapshot file (or the
// standard carom start) and prints the outcome log and final snapshot as
// JSON. It exercises the same serialization round-trip the server and
// workers use.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/osmane/billiards-sub001/internal/physics"
	"github.com/osmane/billiards-sub001/internal/search"
)

func main() {
	var (
		snapshotPath = flag.String("snapshot", "", "path to a table snapshot JSON file (default: standard carom start)")
		angle        = flag.Float64("angle", 0, "aim angle in radians")
		power        = flag.Float64("power", 2.0, "shot power in m/s")
		offsetX      = flag.Float64("offset-x", 0, "cue tip side offset, -1..1")
		offsetY      = flag.Float64("offset-y", 0, "cue tip height offset, -1..1")
		elevation    = flag.Float64("elevation", 0, "cue elevation in radians")
		bestShot     = flag.Bool("best", false, "search for the best shot instead of simulating the given aim")
		workers      = flag.Int("workers", 4, "parallel search workers (with -best)")
	)
	flag.Parse()

	table := loadTable(*snapshotPath)

	if *bestShot {
		runSearch(table, *workers)
		return
	}

	table.Cue = physics.Aim{
		Angle:     *angle,
		OffsetX:   *offsetX,
		OffsetY:   *offsetY,
		Power:     *power,
		Elevation: *elevation,
	}
	table.Hit()

	var t float64
	for t < 30.0 && !table.AllStationary() {
		if err := table.Advance(physics.FixedDt); err != nil {
			if errors.Is(err, physics.ErrStepUnresolvable) {
				log.Fatalf("shot unresolvable at t=%.3f: %v", t, err)
			}
			log.Fatalf("simulation failed: %v", err)
		}
		t += physics.FixedDt
	}

	out := struct {
		Duration float64               `json:"duration"`
		Outcomes []physics.Outcome     `json:"outcomes"`
		Table    physics.TableSnapshot `json:"table"`
	}{
		Duration: t,
		Outcomes: table.Outcomes,
		Table:    table.Snapshot(),
	}
	printJSON(out)
}

func loadTable(path string) *physics.Table {
	if path == "" {
		return physics.NewCaromTable()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("failed to read snapshot: %v", err)
	}
	var snap physics.TableSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Fatalf("malformed snapshot: %v", err)
	}
	return physics.FromSnapshot(snap)
}

func runSearch(table *physics.Table, workers int) {
	req := search.Request{
		Snapshot: table.Snapshot(),
		Rules:    "threecushion",
		Config:   search.DefaultConfig(),
	}
	best := search.BestParallel(context.Background(), req, workers)
	if best == nil {
		fmt.Println("no viable candidate")
		return
	}
	printJSON(best)
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("failed to encode output: %v", err)
	}
}
