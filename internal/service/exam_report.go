package service

import (
	"context"
	"time"

	"github.com/noah-isme/tutoring-reports-api/internal/dto"
	"github.com/noah-isme/tutoring-reports-api/internal/models"
	"github.com/noah-isme/tutoring-reports-api/internal/reporting"
)

// Exams builds the exam report. The bool reports a cache hit.
func (s *ReportService) Exams(ctx context.Context, filter models.ExamReportFilter) (*dto.ExamReport, bool, error) {
	started := time.Now()
	window, err := s.resolveWindow(ctx, filter.Dates)
	if err != nil {
		return nil, false, err
	}
	filter.Limit = s.limit(filter.Limit)

	key := reportCacheKey(models.ReportExams, filter.Query(), window)
	var cached dto.ExamReport
	if s.tryCache(ctx, key, &cached) {
		return &cached, true, nil
	}

	records, err := timed(s, "exam_results", func() ([]models.ExamResultRecord, error) {
		return s.exams.ListResults(ctx, periodOf(window))
	})
	if err != nil {
		return nil, false, fetchError("exam results", err)
	}

	report := buildExamReport(records, filter, window)
	s.observe(models.ReportExams, len(records), started)
	s.persistCache(ctx, key, report)
	return report, false, nil
}

func examComposer(filter models.ExamReportFilter, window *reporting.Window) *reporting.Composer[models.ExamResultRecord] {
	return reporting.NewComposer[models.ExamResultRecord]().
		EqualID(filter.AcademicYearID, func(r models.ExamResultRecord) *int64 { return r.AcademicYearID }).
		EqualID(filter.CurriculumID, func(r models.ExamResultRecord) *int64 { return r.CurriculumID }).
		EqualID(filter.SubjectID, func(r models.ExamResultRecord) *int64 { return r.SubjectID }).
		EqualID(filter.TeacherID, func(r models.ExamResultRecord) *int64 { return r.TeacherID }).
		EqualID(filter.StudentID, func(r models.ExamResultRecord) *int64 { return r.ChildProfileID }).
		WhereIf(filter.Grade != nil, func(r models.ExamResultRecord) bool {
			return models.BandForScore(r.Score) == *filter.Grade
		}).
		WhereIf(filter.ExamType != nil, func(r models.ExamResultRecord) bool {
			return r.ExamType != nil && *r.ExamType == *filter.ExamType
		}).
		Within(window, func(r models.ExamResultRecord) *time.Time { return r.ExamDate })
}

func buildExamReport(records []models.ExamResultRecord, filter models.ExamReportFilter, window *reporting.Window) *dto.ExamReport {
	filtered := examComposer(filter, window).Apply(records)

	exams := examDifficulties(filtered)
	series := make([]reporting.Point, 0, len(exams))
	for _, exam := range exams {
		if exam.Date != nil {
			series = append(series, reporting.Point{At: *exam.Date, Label: exam.Title, Value: exam.Average})
		}
	}
	series = reporting.SortPoints(series)

	return &dto.ExamReport{
		Window:            window,
		TotalResults:      reporting.TotalCount(filtered),
		Scores:            reporting.Stats(filtered, examScore),
		PassRate:          passRate(filtered),
		GradeDistribution: reporting.Ordered(reporting.CountBy(filtered, examGrade), reporting.GradeKeys()),
		BySubject:         examBreakdowns(filtered, examSubjectGroup),
		ByTeacher:         examBreakdowns(filtered, examTeacherGroup),
		ByExamType:        examBreakdowns(filtered, examTypeGroup),
		TopStudents:       reporting.TopN(examStudentAverages(filtered), rankedValue, filter.Limit, reporting.Descending),
		HardestExams:      reporting.TopN(exams, func(e dto.ExamDifficulty) float64 { return e.Average }, filter.Limit, reporting.Ascending),
		Series:            series,
		Trend:             reporting.ClassifyPoints(series),
	}
}

func examBreakdowns(records []models.ExamResultRecord, group func(models.ExamResultRecord) reporting.Group) []dto.ExamBreakdown {
	breakdowns := reporting.BreakdownBy(records, group, examGrade, reporting.GradeKeys())
	groups := reporting.GroupBy(records, group)
	out := make([]dto.ExamBreakdown, len(breakdowns))
	for i, b := range breakdowns {
		out[i] = dto.ExamBreakdown{
			Breakdown: b,
			Average:   reporting.Average(groups[i].Records, examScore),
			PassRate:  passRate(groups[i].Records),
		}
	}
	return out
}

func examStudentAverages(records []models.ExamResultRecord) []dto.Ranked {
	groups := reporting.GroupBy(records, func(r models.ExamResultRecord) reporting.Group {
		return relationGroup(r.ChildProfileID, r.StudentName())
	})
	out := make([]dto.Ranked, len(groups))
	for i, g := range groups {
		out[i] = dto.Ranked{Key: g.Key, Label: g.Label, Value: reporting.Average(g.Records, examScore), Count: len(g.Records)}
	}
	return out
}

func examDifficulties(records []models.ExamResultRecord) []dto.ExamDifficulty {
	groups := reporting.GroupBy(records, func(r models.ExamResultRecord) reporting.Group {
		return relationGroup(r.ExamID, deref(r.ExamTitle))
	})
	out := make([]dto.ExamDifficulty, len(groups))
	for i, g := range groups {
		first := g.Records[0]
		average := reporting.Average(g.Records, examScore)
		subject := examSubjectGroup(first).Label
		if subject == "" {
			subject = reporting.Unknown
		}
		out[i] = dto.ExamDifficulty{
			Key:        g.Key,
			Title:      g.Label,
			Subject:    subject,
			Date:       first.ExamDate,
			Results:    len(g.Records),
			Average:    average,
			PassRate:   passRate(g.Records),
			Difficulty: reporting.DifficultyFor(average),
		}
	}
	return out
}

func passRate(records []models.ExamResultRecord) float64 {
	passed := reporting.NewComposer[models.ExamResultRecord]().
		Where(func(r models.ExamResultRecord) bool { return models.Passed(r.Score) }).
		Apply(records)
	return reporting.Rate(len(passed), len(records))
}

func examScore(r models.ExamResultRecord) float64 { return r.Score }

func examGrade(r models.ExamResultRecord) string { return reporting.GradeOf(r.Score) }

func rankedValue(r dto.Ranked) float64 { return r.Value }

func examSubjectGroup(r models.ExamResultRecord) reporting.Group {
	return relationGroup(r.SubjectID, deref(r.SubjectName))
}

func examTeacherGroup(r models.ExamResultRecord) reporting.Group {
	return relationGroup(r.TeacherID, deref(r.TeacherName))
}

func examTypeGroup(r models.ExamResultRecord) reporting.Group {
	if r.ExamType == nil {
		return reporting.Group{}
	}
	return reporting.Label(string(*r.ExamType))
}
