package punch

import (
	"sort"
	"strings"
	"time"
)

// Record is one defect row read from the punch sheet.
type Record struct {
	Row           int
	SerialNo      int
	ReferenceNo   string
	Description   string
	Category      string
	CheckedBy     string
	CheckedAt     time.Time
	ImplementedBy string
	ImplementedAt time.Time
	ClosedBy      string
	ClosedAt      time.Time
}

// Open reports whether the punch still awaits quality sign-off.
func (r Record) Open() bool {
	return strings.TrimSpace(r.ClosedBy) == ""
}

// Implemented reports whether production fixed the punch but quality has not
// closed it yet.
func (r Record) Implemented() bool {
	return strings.TrimSpace(r.ImplementedBy) != "" && r.Open()
}

// Counts summarizes a punch sheet scan.
type Counts struct {
	Total       int
	Implemented int
	Closed      int
}

// OpenCount returns punches not yet closed. An implemented punch stays open
// until quality closes it.
func (c Counts) OpenCount() int {
	return c.Total - c.Closed
}

// SortNotImplementedFirst orders records for review flows: unimplemented
// punches first, then by row order. Presentation concern only; the store
// itself always returns row order.
func SortNotImplementedFirst(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		ii := records[i].Implemented() || !records[i].Open()
		jj := records[j].Implemented() || !records[j].Open()
		if ii != jj {
			return !ii
		}
		return records[i].Row < records[j].Row
	})
}

func parseCellTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(TimeLayout, value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return time.Time{}
}
