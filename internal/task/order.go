package task

import (
	"cmp"
	"sort"
	"strings"
	"time"
)

// Due classes in sort order.
const (
	classTime = iota
	classDate
	classBadDate
	classNone
)

type sortKey struct {
	class    int
	at       time.Time
	raw      string
	priority int
	order    int
	id       string
}

func keyOf(t Task, loc *time.Location) sortKey {
	k := sortKey{class: classNone, priority: t.Priority, order: t.Order, id: t.ID}
	if t.Due == nil {
		return k
	}
	s := ParseDue(t.Due, loc, nil)
	switch s.Kind {
	case ScheduleTime:
		k.class, k.at = classTime, s.At
	case ScheduleDate:
		k.class, k.at = classDate, s.At
	default:
		k.class, k.raw = classBadDate, t.Due.Date
	}
	return k
}

// compare orders by due (timed, then dated, then undated), then priority
// descending, then feed order, then id.
func (a sortKey) compare(b sortKey) int {
	if c := cmp.Compare(a.class, b.class); c != 0 {
		return c
	}
	if c := a.at.Compare(b.at); c != 0 {
		return c
	}
	if c := strings.Compare(a.raw, b.raw); c != 0 {
		return c
	}
	if c := cmp.Compare(b.priority, a.priority); c != 0 {
		return c
	}
	if c := cmp.Compare(a.order, b.order); c != 0 {
		return c
	}
	return strings.Compare(a.id, b.id)
}

// Compare reports whether a renders before (-1), after (+1) or level with (0) b.
func Compare(a, b Task, loc *time.Location) int {
	return keyOf(a, loc).compare(keyOf(b, loc))
}

// Sort returns a sorted copy of tasks; the input is left untouched.
func Sort(tasks []Task, loc *time.Location) []Task {
	type keyed struct {
		key  sortKey
		task Task
	}
	ks := make([]keyed, len(tasks))
	for i, t := range tasks {
		ks[i] = keyed{keyOf(t, loc), t}
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].key.compare(ks[j].key) < 0 })

	out := make([]Task, len(ks))
	for i := range ks {
		out[i] = ks[i].task
	}
	return out
}

// Select sorts tasks and keeps at most limit of them, reporting how many were dropped.
func Select(tasks []Task, limit int, loc *time.Location) (kept []Task, dropped int) {
	sorted := Sort(tasks, loc)
	if limit < 0 {
		limit = 0
	}
	if len(sorted) <= limit {
		return sorted, 0
	}
	return sorted[:limit], len(sorted) - limit
}
