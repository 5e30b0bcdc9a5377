// Command sheetbench builds a dependency chain of a configurable length,
// recalculates it repeatedly and reports wall-clock timings, as a quick
// smoke test of the engine outside of `go test -bench`.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	formula "github.com/GopinathM99/go-excel-sub001"
)

func main() {
	rows := flag.Int("rows", 500, "number of rows in the dependency chain")
	iterations := flag.Int("iterations", 100, "number of recalculate passes to time")
	flag.Parse()

	wb := formula.NewWorkbook()
	wb.SetSheet("Sheet1")

	if _, err := wb.SetCell("Sheet1", formula.Address{Row: 0, Col: 0}, "1"); err != nil {
		log.Fatalf("seed cell: %v", err)
	}

	var changed []formula.Address
	for i := 1; i < *rows; i++ {
		addr := formula.Address{Row: uint32(i), Col: 0}
		f := fmt.Sprintf("=A%d+1", i)
		c, err := wb.SetCell("Sheet1", addr, f)
		if err != nil {
			log.Fatalf("set cell %d: %v", i, err)
		}
		changed = append(changed, c...)
	}

	t0 := time.Now()
	for i := 0; i < *iterations; i++ {
		wb.Recalculate(changed)
	}
	elapsed := time.Since(t0)

	log.Printf("recalculated a %d-cell chain %d times in %s (%.2f µs/recalc)",
		*rows, *iterations, elapsed, float64(elapsed.Microseconds())/float64(*iterations))
}
