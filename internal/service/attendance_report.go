package service

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/noah-isme/tutoring-reports-api/internal/dto"
	"github.com/noah-isme/tutoring-reports-api/internal/models"
	"github.com/noah-isme/tutoring-reports-api/internal/reporting"
)

var attendanceKeys = func() []string {
	keys := make([]string, len(models.AttendanceStatuses))
	for i, status := range models.AttendanceStatuses {
		keys[i] = string(status)
	}
	return keys
}()

var attendedKeys = []string{string(models.AttendanceStatusPresent), string(models.AttendanceStatusLate)}

// Attendance builds the attendance report. The bool reports a cache hit.
func (s *ReportService) Attendance(ctx context.Context, filter models.AttendanceReportFilter) (*dto.AttendanceReport, bool, error) {
	started := time.Now()
	window, err := s.resolveWindow(ctx, filter.Dates)
	if err != nil {
		return nil, false, err
	}
	filter.Limit = s.limit(filter.Limit)

	key := reportCacheKey(models.ReportAttendance, filter.Query(), window)
	var cached dto.AttendanceReport
	if s.tryCache(ctx, key, &cached) {
		return &cached, true, nil
	}

	records, err := timed(s, "attendance", func() ([]models.AttendanceRecord, error) {
		return s.attendance.ListRecords(ctx, periodOf(window))
	})
	if err != nil {
		return nil, false, fetchError("attendance records", err)
	}

	if filter.AcademicYearID != nil || filter.CurriculumID != nil {
		ids := make([]int64, 0, len(records))
		for _, record := range records {
			if record.ChildProfileID != nil {
				ids = append(ids, *record.ChildProfileID)
			}
		}
		enrollments, err := s.enrollmentsFor(ctx, uniqueIDs(ids))
		if err != nil {
			return nil, false, err
		}
		for i := range records {
			if records[i].ChildProfileID != nil {
				records[i].Enrollments = enrollments[*records[i].ChildProfileID]
			}
		}
	}

	report := buildAttendanceReport(records, filter, window, s.cfg.Location)
	s.observe(models.ReportAttendance, len(records), started)
	s.persistCache(ctx, key, report)
	return report, false, nil
}

func attendanceComposer(filter models.AttendanceReportFilter, window *reporting.Window) *reporting.Composer[models.AttendanceRecord] {
	return reporting.NewComposer[models.AttendanceRecord]().
		WhereIf(filter.AcademicYearID != nil, func(r models.AttendanceRecord) bool {
			return r.Enrollments.InAcademicYear(*filter.AcademicYearID)
		}).
		WhereIf(filter.CurriculumID != nil, func(r models.AttendanceRecord) bool {
			return r.Enrollments.InCurriculum(*filter.CurriculumID)
		}).
		EqualID(filter.SubjectID, func(r models.AttendanceRecord) *int64 { return r.SubjectID }).
		EqualID(filter.TeacherID, func(r models.AttendanceRecord) *int64 { return r.TeacherID }).
		EqualID(filter.StudentID, func(r models.AttendanceRecord) *int64 { return r.ChildProfileID }).
		WhereIf(filter.Status != nil, func(r models.AttendanceRecord) bool { return r.Status == *filter.Status }).
		Within(window, func(r models.AttendanceRecord) *time.Time { return r.SessionStart })
}

// buildAttendanceReport reads session days and weekdays in loc.
func buildAttendanceReport(records []models.AttendanceRecord, filter models.AttendanceReportFilter, window *reporting.Window, loc *time.Location) *dto.AttendanceReport {
	filtered := attendanceComposer(filter, window).Apply(records)
	total := reporting.TotalCount(filtered)
	counts := reporting.CountBy(filtered, attendanceStatus)

	byStudent := attendanceBreakdowns(filtered, studentGroup)
	byWeekday := attendanceBreakdowns(filtered, weekdayGroup(loc))
	sort.SliceStable(byWeekday, func(i, j int) bool { return byWeekday[i].Key < byWeekday[j].Key })

	daily := dailyAttendance(filtered, loc)
	return &dto.AttendanceReport{
		Window:         window,
		Total:          total,
		StatusCounts:   reporting.Ordered(counts, attendanceKeys),
		AttendanceRate: reporting.Rate(counts[string(models.AttendanceStatusPresent)]+counts[string(models.AttendanceStatusLate)], total),
		AbsenceRate:    reporting.Rate(counts[string(models.AttendanceStatusAbsent)], total),
		BySubject:      attendanceBreakdowns(filtered, subjectGroup),
		ByTeacher:      attendanceBreakdowns(filtered, teacherGroup),
		ByStudent:      byStudent,
		ByWeekday:      byWeekday,
		TopStudents:    reporting.TopN(byStudent, attendanceRateOf, filter.Limit, reporting.Descending),
		BottomStudents: reporting.TopN(byStudent, attendanceRateOf, filter.Limit, reporting.Ascending),
		Daily:          daily,
		Trend:          reporting.ClassifyPoints(daily),
	}
}

func attendanceBreakdowns(records []models.AttendanceRecord, group func(models.AttendanceRecord) reporting.Group) []dto.AttendanceBreakdown {
	breakdowns := reporting.BreakdownBy(records, group, attendanceStatus, attendanceKeys)
	out := make([]dto.AttendanceBreakdown, len(breakdowns))
	for i, b := range breakdowns {
		out[i] = dto.AttendanceBreakdown{Breakdown: b, AttendanceRate: b.RateOf(attendedKeys...)}
	}
	return out
}

// dailyAttendance is the attendance rate per session day in chronological order.
func dailyAttendance(records []models.AttendanceRecord, loc *time.Location) []reporting.Point {
	dated := reporting.NewComposer[models.AttendanceRecord]().
		Where(func(r models.AttendanceRecord) bool { return r.SessionStart != nil }).
		Apply(records)
	groups := reporting.GroupBy(dated, func(r models.AttendanceRecord) reporting.Group {
		return reporting.Label(r.SessionStart.In(loc).Format(models.DateLayout))
	})

	points := make([]reporting.Point, 0, len(groups))
	for _, g := range groups {
		start := g.Records[0].SessionStart.In(loc)
		day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
		attended := 0
		for _, r := range g.Records {
			if r.Status.Attended() {
				attended++
			}
		}
		points = append(points, reporting.Point{At: day, Label: g.Label, Value: reporting.Rate(attended, len(g.Records))})
	}
	return reporting.SortPoints(points)
}

func attendanceStatus(r models.AttendanceRecord) string { return string(r.Status) }

func attendanceRateOf(b dto.AttendanceBreakdown) float64 { return b.AttendanceRate }

func subjectGroup(r models.AttendanceRecord) reporting.Group {
	return relationGroup(r.SubjectID, deref(r.SubjectName))
}

func teacherGroup(r models.AttendanceRecord) reporting.Group {
	return relationGroup(r.TeacherID, deref(r.TeacherName))
}

func studentGroup(r models.AttendanceRecord) reporting.Group {
	return relationGroup(r.ChildProfileID, r.StudentName())
}

func weekdayGroup(loc *time.Location) func(models.AttendanceRecord) reporting.Group {
	return func(r models.AttendanceRecord) reporting.Group {
		if r.SessionStart == nil {
			return reporting.Group{}
		}
		// Monday sorts first.
		weekday := r.SessionStart.In(loc).Weekday()
		order := (int(weekday) + 6) % 7
		return reporting.Group{Key: strconv.Itoa(order), Label: weekday.String()}
	}
}

// relationGroup keys a bucket by relation id. A missing relation, or one whose row is gone,
// lands in Unknown.
func relationGroup(id *int64, label string) reporting.Group {
	if id == nil || label == "" {
		return reporting.Group{}
	}
	return reporting.Group{Key: strconv.FormatInt(*id, 10), Label: label}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
