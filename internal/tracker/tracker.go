// Package tracker holds the client-side expense state: the authoritative
// in-memory list fetched once from the API, a reducer reconciling it
// after each mutation, and the four local filter modes.
package tracker

import (
	"sort"
	"time"

	"github.com/yogasw/expense-tracker-api/internal/domain/entity"
	"github.com/yogasw/expense-tracker-api/pkg/period"
)

// EventKind enumerates the mutations the reducer understands.
type EventKind int

const (
	EventCreated EventKind = iota
	EventUpdated
	EventDeleted
)

// Event is one reconciliation step over the in-memory list.
type Event struct {
	Kind    EventKind
	Expense *entity.Expense // set for Created and Updated
	ID      string
}

func Created(e *entity.Expense) Event { return Event{Kind: EventCreated, Expense: e, ID: e.ID} }
func Updated(e *entity.Expense) Event { return Event{Kind: EventUpdated, Expense: e, ID: e.ID} }
func Deleted(id string) Event         { return Event{Kind: EventDeleted, ID: id} }

// FilterMode selects which subset Filtered returns. The modes are
// mutually exclusive.
type FilterMode string

const (
	FilterAll      FilterMode = "all"
	FilterMonth    FilterMode = "month"
	FilterWeek     FilterMode = "week"
	FilterCategory FilterMode = "category"
)

// Tracker is the view container state. It is not safe for concurrent
// use; the client runs single-threaded per user action.
type Tracker struct {
	expenses []entity.Expense
	mode     FilterMode
	month    string // YYYY-MM, used by FilterMonth
	category string // used by FilterCategory

	// now is swappable in tests that pin the week window.
	Now func() time.Time
}

func New() *Tracker {
	return &Tracker{mode: FilterAll, Now: time.Now}
}

// SetExpenses replaces the whole list, e.g. after the initial fetch.
func (t *Tracker) SetExpenses(list []entity.Expense) {
	t.expenses = append([]entity.Expense(nil), list...)
}

// Apply reconciles the list with one server-confirmed mutation:
// prepend on create, replace in place on update, remove on delete.
func (t *Tracker) Apply(ev Event) {
	switch ev.Kind {
	case EventCreated:
		t.expenses = append([]entity.Expense{*ev.Expense}, t.expenses...)
	case EventUpdated:
		for i := range t.expenses {
			if t.expenses[i].ID == ev.ID {
				t.expenses[i] = *ev.Expense
				return
			}
		}
	case EventDeleted:
		for i := range t.expenses {
			if t.expenses[i].ID == ev.ID {
				t.expenses = append(t.expenses[:i], t.expenses[i+1:]...)
				return
			}
		}
	}
}

func (t *Tracker) UseAll() { t.mode = FilterAll }

func (t *Tracker) UseMonth(month string) { t.mode, t.month = FilterMonth, month }

func (t *Tracker) UseWeek() { t.mode = FilterWeek }

func (t *Tracker) UseCategory(name string) { t.mode, t.category = FilterCategory, name }

func (t *Tracker) Mode() FilterMode { return t.mode }

// All returns the unfiltered list.
func (t *Tracker) All() []entity.Expense {
	return append([]entity.Expense(nil), t.expenses...)
}

// Filtered returns the subset selected by the current filter mode,
// recomputed locally with no server round-trip.
func (t *Tracker) Filtered() []entity.Expense {
	switch t.mode {
	case FilterMonth:
		from, to, err := period.MonthRange(t.month, time.Local)
		if err != nil {
			return []entity.Expense{}
		}
		return t.selectRange(from, to)
	case FilterWeek:
		from, to := period.WeekRange(t.Now())
		return t.selectRange(from, to)
	case FilterCategory:
		out := make([]entity.Expense, 0)
		for _, e := range t.expenses {
			if t.category == "" || e.Category == t.category {
				out = append(out, e)
			}
		}
		return out
	default:
		return t.All()
	}
}

func (t *Tracker) selectRange(from, to time.Time) []entity.Expense {
	out := make([]entity.Expense, 0)
	for _, e := range t.expenses {
		if period.Contains(e.Date, from, to) {
			out = append(out, e)
		}
	}
	return out
}

// Total sums the filtered subset.
func (t *Tracker) Total() float64 {
	var sum float64
	for _, e := range t.Filtered() {
		sum += e.Amount
	}
	return sum
}

// TotalAllTime sums the entire unfiltered set.
func (t *Tracker) TotalAllTime() float64 {
	var sum float64
	for _, e := range t.expenses {
		sum += e.Amount
	}
	return sum
}

// Categories lists the distinct categories present in the full set,
// sorted, for the category filter dropdown.
func (t *Tracker) Categories() []string {
	seen := make(map[string]struct{}, len(t.expenses))
	out := make([]string, 0)
	for _, e := range t.expenses {
		if _, ok := seen[e.Category]; !ok {
			seen[e.Category] = struct{}{}
			out = append(out, e.Category)
		}
	}
	sort.Strings(out)
	return out
}
