package reporting

import (
	"time"

	"github.com/noah-isme/tutoring-reports-api/internal/models"
	appErrors "github.com/noah-isme/tutoring-reports-api/pkg/errors"
)

// Window is an inclusive range of whole days. From and To are midnights.
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// NewWindow truncates both bounds to their day.
func NewWindow(from, to time.Time) Window {
	return Window{From: startOfDay(from), To: startOfDay(to)}
}

// EndExclusive is the first instant after the window.
func (w Window) EndExclusive() time.Time {
	return w.To.AddDate(0, 0, 1)
}

// Contains reports whether t falls on any day of the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.EndExclusive())
}

// Days counts the days covered; an inverted window covers none.
func (w Window) Days() int {
	if w.To.Before(w.From) {
		return 0
	}
	days := 0
	for d := w.From; !d.After(w.To); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days
}

// Previous returns the equal-length window ending the day before this one starts.
func (w Window) Previous() Window {
	days := w.Days()
	if days == 0 {
		days = 1
	}
	return Window{From: w.From.AddDate(0, 0, -days), To: w.From.AddDate(0, 0, -1)}
}

// Resolver turns a DateRangeFilter into a concrete window.
type Resolver struct {
	now      func() time.Time
	location *time.Location
}

// NewResolver builds a resolver; a nil clock means time.Now and a nil location means UTC.
func NewResolver(now func() time.Time, location *time.Location) *Resolver {
	if now == nil {
		now = time.Now
	}
	if location == nil {
		location = time.UTC
	}
	return &Resolver{now: now, location: location}
}

// Today is the current day at midnight in the resolver's location.
func (r *Resolver) Today() time.Time {
	return startOfDay(r.now().In(r.location))
}

// Resolve returns nil when no date constraint applies. Term ranges read the academic calendar;
// custom ranges need both dates and fail with ErrConfiguration when they are inverted.
func (r *Resolver) Resolve(filter models.DateRangeFilter, years []models.AcademicYear) (*Window, error) {
	if filter.IsCustom() {
		return r.custom(filter)
	}

	today := r.Today()
	var w Window
	switch filter.Range {
	case models.DateRangeCurrentTerm:
		year := currentYear(years)
		if year == nil {
			return nil, nil
		}
		w = r.window(year.StartDate, year.EndDate)
	case models.DateRangePreviousTerm:
		year := latestEnded(years, today)
		if year == nil {
			return nil, nil
		}
		w = r.window(year.StartDate, year.EndDate)
	case models.DateRangeCurrentMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, r.location)
		w = Window{From: first, To: first.AddDate(0, 1, -1)}
	case models.DateRangePreviousMonth:
		first := time.Date(today.Year(), today.Month()-1, 1, 0, 0, 0, 0, r.location)
		w = Window{From: first, To: first.AddDate(0, 1, -1)}
	case models.DateRangeCurrentYear:
		w = Window{
			From: time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, r.location),
			To:   time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, r.location),
		}
	case models.DateRangePreviousYear:
		w = Window{
			From: time.Date(today.Year()-1, time.January, 1, 0, 0, 0, 0, r.location),
			To:   time.Date(today.Year()-1, time.December, 31, 0, 0, 0, 0, r.location),
		}
	case models.DateRangeLast30Days:
		w = Window{From: today.AddDate(0, 0, -30), To: today}
	case models.DateRangeLast90Days:
		w = Window{From: today.AddDate(0, 0, -90), To: today}
	default:
		return nil, nil
	}
	return &w, nil
}

func (r *Resolver) custom(filter models.DateRangeFilter) (*Window, error) {
	if filter.StartDate == nil || filter.EndDate == nil {
		return nil, nil
	}
	w := r.window(*filter.StartDate, *filter.EndDate)
	if w.To.Before(w.From) {
		return nil, appErrors.Clone(appErrors.ErrConfiguration, "end_date must not be before start_date")
	}
	return &w, nil
}

// window keeps the calendar date of each bound, discarding its clock and zone.
func (r *Resolver) window(from, to time.Time) Window {
	return Window{
		From: time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, r.location),
		To:   time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, r.location),
	}
}

func currentYear(years []models.AcademicYear) *models.AcademicYear {
	for i := range years {
		if years[i].IsCurrent {
			return &years[i]
		}
	}
	return nil
}

func latestEnded(years []models.AcademicYear, today time.Time) *models.AcademicYear {
	var latest *models.AcademicYear
	for i := range years {
		end := time.Date(years[i].EndDate.Year(), years[i].EndDate.Month(), years[i].EndDate.Day(), 0, 0, 0, 0, today.Location())
		if !end.Before(today) {
			continue
		}
		if latest == nil || years[i].EndDate.After(latest.EndDate) {
			latest = &years[i]
		}
	}
	return latest
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
