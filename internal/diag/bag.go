package diag

import (
	"fmt"
	"sort"
)

// Bag is a capacity-bounded collection of diagnostics, used by the driver
// to cap how many findings a single file or run is allowed to surface.
type Bag struct {
	items []Diagnostic
	max   uint16
}

func NewBag(max int) *Bag {
	return &Bag{
		items: make([]Diagnostic, 0, max),
		max:   uint16(max),
	}
}

// Add appends a diagnostic, honoring the capacity limit. Returns false if
// the diagnostic was dropped because the bag is full.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Report implements Sink.
func (b *Bag) Report(d Diagnostic) bool { return b.Add(d) }

func (b *Bag) Cap() uint16 { return b.max }

func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity() == SevError {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int { return len(b.items) }

// Items returns a read-only view of the bag's diagnostics; callers must
// not mutate the returned slice, it aliases the bag's backing array.
func (b *Bag) Items() []Diagnostic { return b.items }

// Merge appends another bag's diagnostics, growing capacity if needed to
// hold them all.
func (b *Bag) Merge(other *Bag) {
	newTotal := len(b.items) + len(other.items)
	if uint16(newTotal) > b.max {
		b.max = uint16(newTotal)
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by file, start offset, severity (errors first),
// then code, for a stable and deterministic output order.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		spi, oki := di.PrimarySpan()
		spj, okj := dj.PrimarySpan()
		if oki != okj {
			return oki
		}
		if oki && okj {
			if spi.File != spj.File {
				return spi.File < spj.File
			}
			if spi.Start != spj.Start {
				return spi.Start < spj.Start
			}
		}
		if di.Severity() != dj.Severity() {
			return di.Severity() > dj.Severity()
		}
		return di.Code.String() < dj.Code.String()
	})
}

// Dedup drops diagnostics that share the same code and primary span,
// keeping the first occurrence.
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newitems := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		sp, _ := d.PrimarySpan()
		key := fmt.Sprintf("%s:%s", d.Code.String(), sp.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, d)
	}
	b.items = newitems
}
