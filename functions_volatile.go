package formula

import (
	"math/rand/v2"
	"time"
)

// excelEpochMS is the Unix millisecond timestamp of the Excel date
// epoch (December 30, 1899, the day Lotus 1-2-3's leap-year bug shifted
// everything from), used to convert wall-clock time to a serial day
// number, per builtin.go's NOW/TODAY.
const excelEpochMS = -2209161600000
const msPerDay = 86400000

// Clock abstracts wall-clock time so NOW/TODAY are test-injectable, per
// builtin.go's Clock/WallClock split.
type Clock interface{ Now() time.Time }

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// RandomSource abstracts RAND's entropy source, per builtin.go's
// RandomGenerator/DefaultRandomGenerator split.
type RandomSource interface{ Float64() float64 }

type defaultRandomSource struct{}

func (defaultRandomSource) Float64() float64 { return rand.Float64() }

// registerVolatileFunctions wires NOW, TODAY, RAND, each marked
// Volatile so FunctionRegistry.IsVolatile can report them to an
// embedder; spec.md's Non-goals exclude automatic volatile
// recalculation, so nothing here re-triggers Recalculate on its own
// (SPEC_FULL.md's Supplemented Features).
func registerVolatileFunctions(r *FunctionRegistry, clock Clock, rng RandomSource) {
	r.Register(FuncDescriptor{Name: "NOW", MinArgs: 0, MaxArgs: 0, Volatile: true, Execute: func([]FuncArg) Value {
		diffMs := float64(clock.Now().UnixMilli() - excelEpochMS)
		return NewNumber(diffMs / msPerDay)
	}})
	r.Register(FuncDescriptor{Name: "TODAY", MinArgs: 0, MaxArgs: 0, Volatile: true, Execute: func([]FuncArg) Value {
		now := clock.Now()
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		diffMs := float64(midnight.UnixMilli() - excelEpochMS)
		return NewNumber(float64(int64(diffMs / msPerDay)))
	}})
	r.Register(FuncDescriptor{Name: "RAND", MinArgs: 0, MaxArgs: 0, Volatile: true, Execute: func([]FuncArg) Value {
		return NewNumber(rng.Float64())
	}})
}
