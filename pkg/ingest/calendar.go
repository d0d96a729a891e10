package ingest

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/kilianp07/hallsched/core/model"
)

const (
	defaultWindow         = 7 * 24 * time.Hour
	defaultMaxOccurrences = 5000
)

// CalendarOptions controls how calendar entries become events.
type CalendarOptions struct {
	// Location is the zone whose midnight anchors the time axis. Defaults to UTC.
	Location *time.Location
	// Unit is the length of one scheduling unit. Defaults to one minute.
	Unit time.Duration
	// WindowStart and WindowEnd bound recurrence expansion. When unset the
	// window opens at the earliest DTSTART and lasts seven days.
	WindowStart time.Time
	WindowEnd   time.Time
	// MaxOccurrences caps the instances produced per recurring entry.
	MaxOccurrences int
}

func (o *CalendarOptions) setDefaults() {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Unit <= 0 {
		o.Unit = time.Minute
	}
	if o.MaxOccurrences <= 0 {
		o.MaxOccurrences = defaultMaxOccurrences
	}
}

type occurrence struct {
	id         string
	start, end time.Time
}

// ReadCalendar converts the VEVENTs of an iCalendar stream into events.
// Times are expressed in units since midnight of the earliest occurrence's
// day. Recurring entries are expanded inside the window and numbered
// UID#1, UID#2, and so on.
func ReadCalendar(r io.Reader, opts CalendarOptions) ([]model.Event, error) {
	opts.setDefaults()
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}
	vevents := cal.Events()
	if len(vevents) == 0 {
		return []model.Event{}, nil
	}
	if opts.WindowStart.IsZero() {
		for _, ve := range vevents {
			if s, err := ve.GetStartAt(); err == nil && (opts.WindowStart.IsZero() || s.Before(opts.WindowStart)) {
				opts.WindowStart = s
			}
		}
	}
	if opts.WindowEnd.IsZero() {
		opts.WindowEnd = opts.WindowStart.Add(defaultWindow)
	}
	if opts.WindowEnd.Before(opts.WindowStart) {
		return nil, errors.New("calendar window ends before it starts")
	}

	var occs []occurrence
	for i, ve := range vevents {
		o, err := expand(ve, opts)
		if err != nil {
			return nil, fmt.Errorf("vevent %d: %w", i+1, err)
		}
		occs = append(occs, o...)
	}
	if len(occs) == 0 {
		return []model.Event{}, nil
	}
	sort.SliceStable(occs, func(i, j int) bool { return occs[i].start.Before(occs[j].start) })

	first := occs[0].start.In(opts.Location)
	origin := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, opts.Location)
	out := make([]model.Event, len(occs))
	for i, o := range occs {
		out[i] = model.Event{
			ID:    o.id,
			Start: float64(o.start.Sub(origin)) / float64(opts.Unit),
			End:   float64(o.end.Sub(origin)) / float64(opts.Unit),
		}
	}
	return out, nil
}

func expand(ve *ical.VEvent, opts CalendarOptions) ([]occurrence, error) {
	var uid string
	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		uid = p.Value
	}
	if uid == "" {
		if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
			uid = p.Value
		}
	}
	if uid == "" {
		return nil, errors.New("missing UID")
	}
	start, err := ve.GetStartAt()
	if err != nil {
		return nil, fmt.Errorf("%s: dtstart: %w", uid, err)
	}
	end, err := ve.GetEndAt()
	if err != nil {
		return nil, fmt.Errorf("%s: dtend: %w", uid, err)
	}

	p := ve.GetProperty(ical.ComponentPropertyRrule)
	if p == nil || p.Value == "" {
		return []occurrence{{id: uid, start: start, end: end}}, nil
	}
	rule, err := rrule.StrToRRule(p.Value)
	if err != nil {
		return nil, fmt.Errorf("%s: rrule: %w", uid, err)
	}
	rule.DTStart(start)
	var set rrule.Set
	set.RRule(rule)
	for _, ex := range ve.GetProperties(ical.ComponentPropertyExdate) {
		if t, err := time.ParseInLocation("20060102T150405", ex.Value, start.Location()); err == nil {
			set.ExDate(t)
		} else if t, err := time.Parse("20060102T150405Z", ex.Value); err == nil {
			set.ExDate(t)
		}
	}
	times := set.Between(opts.WindowStart.In(start.Location()), opts.WindowEnd.In(start.Location()), true)
	if len(times) > opts.MaxOccurrences {
		times = times[:opts.MaxOccurrences]
	}
	dur := end.Sub(start)
	out := make([]occurrence, len(times))
	for i, t := range times {
		out[i] = occurrence{id: uid + "#" + strconv.Itoa(i+1), start: t, end: t.Add(dur)}
	}
	return out, nil
}
