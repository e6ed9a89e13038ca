// Package instrument injects artificial per-node-type latency into the
// create, measure, layout and draw phases so hosts can simulate component
// cost.
//
// Tables are indexed by node type. A type outside [0, MaxTypes) indicates a
// mismatch between the host's type enum and this build; it is treated as a
// fatal invariant violation and aborts the process.
package instrument

import (
	"fmt"
	"time"

	"github.com/go-drift/scene/pkg/errors"
	"github.com/go-drift/scene/pkg/node"
)

// MaxTypes bounds the node type index.
const MaxTypes = 64

// Phase selects one of the four delay tables.
type Phase int

const (
	PhaseCreate Phase = iota
	PhaseMeasure
	PhaseLayout
	PhaseDraw

	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseCreate:
		return "create"
	case PhaseMeasure:
		return "measure"
	case PhaseLayout:
		return "layout"
	case PhaseDraw:
		return "draw"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Table holds one delay per phase per node type. The zero value injects no
// delay and sleeps with time.Sleep.
type Table struct {
	delays [phaseCount][MaxTypes]time.Duration
	total  [phaseCount]time.Duration

	// Sleep is called with each non-zero delay. Nil means time.Sleep.
	Sleep func(time.Duration)
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// index validates typ and phase. Out-of-range values abort the process.
func index(op string, phase Phase, typ node.Type) int {
	if phase < 0 || phase >= phaseCount {
		errors.Fatalf(op, "phase %d outside [0, %d)", int(phase), int(phaseCount))
	}
	if typ < 0 || int(typ) >= MaxTypes {
		errors.Fatalf(op, "node type %d outside instrumentation table [0, %d)", int32(typ), MaxTypes)
	}
	return int(typ)
}

// Set stores the delay for typ in phase.
func (t *Table) Set(phase Phase, typ node.Type, d time.Duration) {
	i := index("instrument.Set", phase, typ)
	t.delays[phase][i] = d
}

// Delay returns the delay configured for typ in phase.
func (t *Table) Delay(phase Phase, typ node.Type) time.Duration {
	i := index("instrument.Delay", phase, typ)
	return t.delays[phase][i]
}

// Apply sleeps for the configured delay. A nil table is a no-op.
func (t *Table) Apply(phase Phase, typ node.Type) {
	if t == nil {
		return
	}
	d := t.Delay(phase, typ)
	if d <= 0 {
		return
	}
	t.total[phase] += d
	if t.Sleep != nil {
		t.Sleep(d)
		return
	}
	time.Sleep(d)
}

// Injected returns the total delay injected so far in phase.
func (t *Table) Injected(phase Phase) time.Duration {
	if phase < 0 || phase >= phaseCount {
		return 0
	}
	return t.total[phase]
}

// Reset clears every delay and the injected totals.
func (t *Table) Reset() {
	t.delays = [phaseCount][MaxTypes]time.Duration{}
	t.total = [phaseCount]time.Duration{}
}
