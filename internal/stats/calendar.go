package stats

import (
	"sort"
	"time"

	"github.com/jobtrack/jobtrack/internal/datetz"
	"github.com/jobtrack/jobtrack/internal/domain"
)

// Calendar and upcoming-list limits.
const (
	DefaultCalendarWeeks = 2
	MaxCalendarWeeks     = 8
	DefaultUpcoming      = 6
	MaxUpcoming          = 50
)

// Item kinds.
const (
	KindTask      = "Task"
	KindInterview = "Interview"
)

// Item is a dated task deadline or interview.
type Item struct {
	ID    string    `json:"id"`
	Kind  string    `json:"type"`
	Title string    `json:"title"`
	Date  string    `json:"date"`
	At    time.Time `json:"at"`
}

// CalendarDay holds the items falling on one date key.
type CalendarDay struct {
	Date  string `json:"date"`
	Items []Item `json:"items"`
}

// Calendar is a run of Monday-aligned weeks.
type Calendar struct {
	Start string          `json:"start"`
	End   string          `json:"end"`
	Weeks [][]CalendarDay `json:"weeks"`
}

// items returns pending task deadlines and scheduled interviews, each keyed
// by its calendar day in the frame's zone.
func (f *frame) items(tasks []domain.Task, interviews []domain.InterviewRound) []Item {
	var out []Item
	for _, t := range tasks {
		if t.Status != domain.TaskPending || t.DueDate == nil {
			continue
		}
		key, ok := datetz.NormalizeKey(*t.DueDate)
		if !ok {
			continue
		}
		at, _ := datetz.ParseDateOnly(key, f.zone)
		out = append(out, Item{ID: t.ID, Kind: KindTask, Title: t.Title, Date: key, At: at.UTC()})
	}
	for _, iv := range interviews {
		if iv.ScheduledDate == nil || iv.ScheduledDate.IsZero() {
			continue
		}
		out = append(out, Item{
			ID:    iv.ID,
			Kind:  KindInterview,
			Title: "Interview · " + iv.InterviewType,
			Date:  datetz.DateKey(*iv.ScheduledDate, f.zone),
			At:    iv.ScheduledDate.UTC(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}

// BuildCalendar lays out weeks starting on the Monday of start (a date key;
// blank or malformed means today). Task deadlines land on their due date and
// interviews on their scheduled day in the user's zone.
func BuildCalendar(in Input, start string, weeks int) Calendar {
	if weeks <= 0 {
		weeks = DefaultCalendarWeeks
	}
	weeks = min(weeks, MaxCalendarWeeks)

	f := newFrame(in)
	first, ok := datetz.ParseDateOnly(start, f.zone)
	if !ok {
		first = f.anchor
	}
	first = datetz.WeekStart(first)
	last := datetz.AddDays(first, 7*weeks-1)

	cal := Calendar{
		Start: datetz.DateKey(first, f.zone),
		End:   datetz.DateKey(last, f.zone),
		Weeks: make([][]CalendarDay, weeks),
	}

	byDay := map[string][]Item{}
	for _, it := range f.items(in.Tasks, in.Interviews) {
		if it.Date < cal.Start || it.Date > cal.End {
			continue
		}
		byDay[it.Date] = append(byDay[it.Date], it)
	}

	for w := 0; w < weeks; w++ {
		days := make([]CalendarDay, 7)
		for d := 0; d < 7; d++ {
			key := datetz.DateKey(datetz.AddDays(first, 7*w+d), f.zone)
			items := byDay[key]
			if items == nil {
				items = []Item{}
			}
			days[d] = CalendarDay{Date: key, Items: items}
		}
		cal.Weeks[w] = days
	}
	return cal
}

// BuildUpcoming merges pending task deadlines from today on and interviews
// from now on, soonest first, capped at limit.
func BuildUpcoming(in Input, limit int) []Item {
	if limit <= 0 {
		limit = DefaultUpcoming
	}
	limit = min(limit, MaxUpcoming)

	f := newFrame(in)
	today := f.key(0)
	out := []Item{}
	for _, it := range f.items(in.Tasks, in.Interviews) {
		if it.Kind == KindTask && it.Date < today {
			continue
		}
		if it.Kind == KindInterview && it.At.Before(in.Now) {
			continue
		}
		out = append(out, it)
		if len(out) == limit {
			break
		}
	}
	return out
}
