package service

import (
	"context"
	"strings"
	"time"

	"github.com/noah-isme/tutoring-reports-api/internal/dto"
	"github.com/noah-isme/tutoring-reports-api/internal/models"
	"github.com/noah-isme/tutoring-reports-api/internal/reporting"
)

// Age bands of the student report, youngest first.
const (
	ageBandUnder6  = "under_6"
	ageBand6To8    = "6-8"
	ageBand9To11   = "9-11"
	ageBand12To14  = "12-14"
	ageBand15To17  = "15-17"
	ageBand18AndUp = "18_plus"
)

var ageBandKeys = []string{ageBandUnder6, ageBand6To8, ageBand9To11, ageBand12To14, ageBand15To17, ageBand18AndUp}

var enrollmentKeys = func() []string {
	keys := make([]string, len(models.EnrollmentStatuses))
	for i, status := range models.EnrollmentStatuses {
		keys[i] = string(status)
	}
	return keys
}()

// Students builds the student report. The bool reports a cache hit.
func (s *ReportService) Students(ctx context.Context, filter models.StudentReportFilter) (*dto.StudentReport, bool, error) {
	started := time.Now()
	window, err := s.resolveWindow(ctx, filter.Dates)
	if err != nil {
		return nil, false, err
	}
	filter.Limit = s.limit(filter.Limit)

	key := reportCacheKey(models.ReportStudents, filter.Query(), window)
	var cached dto.StudentReport
	if s.tryCache(ctx, key, &cached) {
		return &cached, true, nil
	}

	profiles, err := timed(s, "students", func() ([]models.ChildProfile, error) {
		return s.students.ListStudents(ctx, periodOf(window))
	})
	if err != nil {
		return nil, false, fetchError("students", err)
	}
	ids := make([]int64, len(profiles))
	for i, profile := range profiles {
		ids[i] = profile.ID
	}
	enrollments, err := s.enrollmentsFor(ctx, ids)
	if err != nil {
		return nil, false, err
	}
	records := make([]models.StudentRecord, len(profiles))
	for i, profile := range profiles {
		records[i] = models.StudentRecord{ChildProfile: profile, Enrollments: enrollments[profile.ID]}
	}

	report := buildStudentReport(records, filter, window, s.now())
	s.observe(models.ReportStudents, len(records), started)
	s.persistCache(ctx, key, report)
	return report, false, nil
}

// studentComposer keeps a student when a single enrollment satisfies every enrollment-level filter.
func studentComposer(filter models.StudentReportFilter, window *reporting.Window) *reporting.Composer[models.StudentRecord] {
	enrollments := enrollmentComposer(filter, window)
	return reporting.NewComposer[models.StudentRecord]().
		WhereIf(enrollments.Len() > 0, func(r models.StudentRecord) bool {
			for _, enrollment := range r.Enrollments {
				if enrollments.Matches(enrollment) {
					return true
				}
			}
			return false
		}).
		WhereIf(filter.SubjectID != nil, func(r models.StudentRecord) bool {
			return r.Enrollments.TakesSubject(*filter.SubjectID)
		}).
		WhereIf(filter.Gender != nil, func(r models.StudentRecord) bool {
			return strings.EqualFold(strings.TrimSpace(r.Gender), *filter.Gender)
		})
}

// enrollmentComposer selects the enrollments of a matching student that the enrollment-level
// filters speak about.
func enrollmentComposer(filter models.StudentReportFilter, window *reporting.Window) *reporting.Composer[models.EnrollmentDetail] {
	return reporting.NewComposer[models.EnrollmentDetail]().
		EqualID(filter.AcademicYearID, func(e models.EnrollmentDetail) *int64 { return e.AcademicYearID }).
		EqualID(filter.CurriculumID, func(e models.EnrollmentDetail) *int64 { return e.CurriculumID }).
		WhereIf(filter.Status != nil, func(e models.EnrollmentDetail) bool { return e.Status == *filter.Status }).
		Within(window, func(e models.EnrollmentDetail) *time.Time { return &e.CreatedAt })
}

func buildStudentReport(records []models.StudentRecord, filter models.StudentReportFilter, window *reporting.Window, now time.Time) *dto.StudentReport {
	students := studentComposer(filter, window).Apply(records)

	selectEnrollments := enrollmentComposer(filter, window)
	var enrollments []models.EnrollmentDetail
	for _, student := range students {
		enrollments = append(enrollments, selectEnrollments.Apply(student.Enrollments)...)
	}

	subjects := subjectEnrollments(enrollments)
	subjectTotal := 0
	for _, subject := range subjects {
		subjectTotal += subject.Count
	}

	return &dto.StudentReport{
		Window:        window,
		TotalStudents: reporting.TotalCount(students),
		ByGender: reporting.Ordered(reporting.CountBy(students, func(r models.StudentRecord) string {
			return strings.ToLower(strings.TrimSpace(r.Gender))
		}), nil),
		ByAgeBand: reporting.Ordered(reporting.CountBy(students, func(r models.StudentRecord) string {
			return ageBand(r.Age(now))
		}), ageBandKeys),
		EnrollmentsByStatus: reporting.Ordered(reporting.CountBy(enrollments, enrollmentStatus), enrollmentKeys),
		ByCurriculum: reporting.BreakdownBy(enrollments, func(e models.EnrollmentDetail) reporting.Group {
			return relationGroup(e.CurriculumID, deref(e.CurriculumName))
		}, enrollmentStatus, enrollmentKeys),
		SubjectEnrollments: subjects,
		AverageSubjects:    reporting.Ratio(float64(subjectTotal), float64(len(students))),
		TopSubjects:        reporting.TopN(subjects, rankedValue, filter.Limit, reporting.Descending),
	}
}

// subjectEnrollments counts subject enrollments per subject in first-seen order.
func subjectEnrollments(enrollments []models.EnrollmentDetail) []dto.Ranked {
	var details []models.SubjectEnrollmentDetail
	for _, enrollment := range enrollments {
		details = append(details, enrollment.Subjects...)
	}
	groups := reporting.GroupBy(details, func(d models.SubjectEnrollmentDetail) reporting.Group {
		return relationGroup(d.SubjectID, deref(d.SubjectName))
	})
	out := make([]dto.Ranked, len(groups))
	for i, g := range groups {
		out[i] = dto.Ranked{Key: g.Key, Label: g.Label, Value: float64(len(g.Records)), Count: len(g.Records)}
	}
	return out
}

// ageBand returns "" for an unknown age so that it is counted under Unknown.
func ageBand(age int) string {
	switch {
	case age < 0:
		return ""
	case age < 6:
		return ageBandUnder6
	case age <= 8:
		return ageBand6To8
	case age <= 11:
		return ageBand9To11
	case age <= 14:
		return ageBand12To14
	case age <= 17:
		return ageBand15To17
	default:
		return ageBand18AndUp
	}
}

func enrollmentStatus(e models.EnrollmentDetail) string { return string(e.Status) }
