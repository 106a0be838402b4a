package stats

import (
	"time"

	"github.com/jobtrack/jobtrack/internal/datetz"
	"github.com/jobtrack/jobtrack/internal/domain"
)

// dayCounts maps a date key to the number of records on that day.
type dayCounts map[string]int

// frame is one computation's view of the input: the zone, the anchor day
// and per-day buckets for each record kind. Records with unusable dates are
// left out of the buckets.
type frame struct {
	zone   string
	anchor time.Time

	apps       []datedApp
	appDays    dayCounts
	taskDays   dayCounts
	interviews dayCounts
}

type datedApp struct {
	key    string
	status string
	id     string
}

func newFrame(in Input) *frame {
	zone := datetz.EnsureZone(in.TimeZone)
	f := &frame{
		zone:       zone,
		anchor:     datetz.StartOfDay(in.Now, zone),
		appDays:    dayCounts{},
		taskDays:   dayCounts{},
		interviews: dayCounts{},
	}

	for _, a := range in.Applications {
		key, ok := datetz.NormalizeKey(a.ApplicationDate)
		if !ok {
			continue
		}
		f.apps = append(f.apps, datedApp{key: key, status: a.Status, id: a.ID})
		f.appDays[key]++
	}
	for _, t := range in.Tasks {
		if t.CreatedAt.IsZero() {
			continue
		}
		f.taskDays[datetz.DateKey(t.CreatedAt, zone)]++
	}
	for _, iv := range in.Interviews {
		if iv.ScheduledDate == nil || iv.ScheduledDate.IsZero() {
			continue
		}
		f.interviews[datetz.DateKey(*iv.ScheduledDate, zone)]++
	}
	return f
}

// day returns the anchor day shifted by offset calendar days.
func (f *frame) day(offset int) time.Time {
	return datetz.AddDays(f.anchor, offset)
}

func (f *frame) key(offset int) string {
	return datetz.DateKey(f.day(offset), f.zone)
}

// sum adds the counts of the n days ending offset days from the anchor.
func (f *frame) sum(m dayCounts, offset, n int) int {
	total := 0
	for i := 0; i < n; i++ {
		total += m[f.key(offset-i)]
	}
	return total
}

// series returns n daily counts ending at the anchor, oldest first.
func (f *frame) series(m dayCounts, n int) []int {
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = m[f.key(i-n+1)]
	}
	return out
}

// filterApps builds a bucket of the applications whose status passes keep.
func (f *frame) filterApps(keep func(status string) bool) dayCounts {
	m := dayCounts{}
	for _, a := range f.apps {
		if keep(a.status) {
			m[a.key]++
		}
	}
	return m
}

// countBetween counts applications with from <= key <= to. Keys compare
// lexically because they are zero-padded ISO dates.
func (f *frame) countBetween(from, to string, keep func(status string) bool) int {
	n := 0
	for _, a := range f.apps {
		if a.key < from || a.key > to {
			continue
		}
		if keep == nil || keep(a.status) {
			n++
		}
	}
	return n
}

func (f *frame) countBefore(key string) int {
	n := 0
	for _, a := range f.apps {
		if a.key < key {
			n++
		}
	}
	return n
}

// cumulative returns the running application total at the end of each of
// the last n days, oldest first.
func (f *frame) cumulative(n int) []int {
	daily := f.series(f.appDays, n)
	running := f.countBefore(f.key(-n + 1))
	out := make([]int, n)
	for i, c := range daily {
		running += c
		out[i] = running
	}
	return out
}

func isStatus(want ...string) func(string) bool {
	return func(s string) bool {
		for _, w := range want {
			if s == w {
				return true
			}
		}
		return false
	}
}

func notStatus(skip ...string) func(string) bool {
	in := isStatus(skip...)
	return func(s string) bool { return !in(s) }
}

var (
	stillApplied = isStatus(domain.StatusApplied)
	progressed   = notStatus(domain.StatusApplied)
	active       = notStatus(domain.StatusRejected, domain.StatusWithdrawn)
)
