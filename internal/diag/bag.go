package diag

import (
	"cmp"
	"slices"

	"fortio.org/safecast"
)

// Bag collects diagnostics for one file up to a fixed limit.
type Bag struct {
	items []Diagnostic
	max   uint16
}

// NewBag returns a bag holding at most max diagnostics. A negative max or
// one above 65535 means "as many as uint16 allows".
func NewBag(max int) *Bag {
	limit, err := safecast.Conv[uint16](max)
	if err != nil {
		limit = ^uint16(0)
	}
	return &Bag{max: limit}
}

// Add returns false once the limit is reached.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() uint16 { return b.max }

func (b *Bag) Len() int { return len(b.items) }

// Items returns the bag's backing slice; callers must not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

// worst возвращает максимальную серьёзность и false для пустого мешка.
func (b *Bag) worst() (Severity, bool) {
	if len(b.items) == 0 {
		return SevInfo, false
	}
	return slices.MaxFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Compare(x.Severity, y.Severity)
	}).Severity, true
}

func (b *Bag) HasErrors() bool {
	s, ok := b.worst()
	return ok && s >= SevError
}

func (b *Bag) HasWarnings() bool {
	s, ok := b.worst()
	return ok && s >= SevWarning
}

// Filter drops diagnostics below least.
func (b *Bag) Filter(least Severity) {
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool { return d.Severity < least })
}

// Merge appends other's diagnostics, raising the limit so none are lost.
func (b *Bag) Merge(other *Bag) {
	if other == nil || len(other.items) == 0 {
		return
	}
	if total := len(b.items) + len(other.items); total > int(b.max) {
		if limit, err := safecast.Conv[uint16](total); err == nil {
			b.max = limit
		} else {
			b.max = ^uint16(0)
		}
	}
	room := int(b.max) - len(b.items)
	b.items = append(b.items, other.items[:min(room, len(other.items))]...)
}

// Sort orders by file, start, end, then severity (most serious first), then code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}
