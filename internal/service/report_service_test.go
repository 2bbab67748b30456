package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-reports-api/internal/dto"
	"github.com/noah-isme/tutoring-reports-api/internal/models"
	"github.com/noah-isme/tutoring-reports-api/internal/reporting"
	appErrors "github.com/noah-isme/tutoring-reports-api/pkg/errors"
)

var fixedNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

type fakeLookups struct {
	years     []models.AcademicYear
	yearCalls int
	err       error
}

func (f *fakeLookups) ListAcademicYears(context.Context) ([]models.AcademicYear, error) {
	f.yearCalls++
	return f.years, f.err
}

func (f *fakeLookups) ListCurricula(context.Context) ([]models.Curriculum, error) {
	return []models.Curriculum{{ID: 1, Name: "Cambridge", Code: "CAM"}}, f.err
}

func (f *fakeLookups) ListSubjects(context.Context) ([]models.Subject, error) {
	return []models.Subject{{ID: 1, Name: "Mathematics", Code: "MATH"}}, f.err
}

func (f *fakeLookups) ListTeachers(context.Context) ([]models.TeacherOption, error) {
	return []models.TeacherOption{{ID: 1, Name: strPtr("Ana Putri")}}, f.err
}

func (f *fakeLookups) ListPaymentMethods(context.Context) ([]string, error) {
	return []string{"bank_transfer", "cash"}, f.err
}

func (f *fakeLookups) ListGenders(context.Context) ([]string, error) {
	return []string{"female", "male"}, f.err
}

type fakeAttendanceRepo struct {
	records []models.AttendanceRecord
	err     error
	calls   int
}

func (f *fakeAttendanceRepo) ListRecords(context.Context, models.Period) ([]models.AttendanceRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.AttendanceRecord, len(f.records))
	copy(out, f.records)
	return out, nil
}

type fakeExamRepo struct {
	results []models.ExamResultRecord
}

func (f *fakeExamRepo) ListResults(context.Context, models.Period) ([]models.ExamResultRecord, error) {
	return f.results, nil
}

type fakeFinanceRepo struct {
	payments []models.PaymentRecord
	invoices []models.InvoiceRecord
}

func (f *fakeFinanceRepo) ListPayments(_ context.Context, period models.Period) ([]models.PaymentRecord, error) {
	var out []models.PaymentRecord
	for _, payment := range f.payments {
		if inPeriod(payment.PaymentDate, period) {
			out = append(out, payment)
		}
	}
	return out, nil
}

func (f *fakeFinanceRepo) ListInvoices(_ context.Context, period models.Period) ([]models.InvoiceRecord, error) {
	var out []models.InvoiceRecord
	for _, invoice := range f.invoices {
		if inPeriod(invoice.InvoiceDate, period) {
			out = append(out, invoice)
		}
	}
	return out, nil
}

type fakeStudentRepo struct {
	profiles []models.ChildProfile
}

func (f *fakeStudentRepo) ListStudents(context.Context, models.Period) ([]models.ChildProfile, error) {
	return f.profiles, nil
}

type fakeEnrollmentRepo struct {
	byStudent map[int64]models.Enrollments
	requested []int64
}

func (f *fakeEnrollmentRepo) ListByStudents(_ context.Context, ids []int64) (map[int64]models.Enrollments, error) {
	f.requested = ids
	return f.byStudent, nil
}

type stubCacheRepo struct {
	store    map[string][]byte
	patterns []string
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	s.patterns = append(s.patterns, pattern)
	s.store = nil
	return nil
}

type serviceFixture struct {
	lookups     *fakeLookups
	attendance  *fakeAttendanceRepo
	exams       *fakeExamRepo
	finances    *fakeFinanceRepo
	students    *fakeStudentRepo
	enrollments *fakeEnrollmentRepo
	cache       *CacheService
	location    *time.Location
}

func newTestReportService(f serviceFixture) *ReportService {
	if f.lookups == nil {
		f.lookups = &fakeLookups{}
	}
	if f.attendance == nil {
		f.attendance = &fakeAttendanceRepo{}
	}
	if f.exams == nil {
		f.exams = &fakeExamRepo{}
	}
	if f.finances == nil {
		f.finances = &fakeFinanceRepo{}
	}
	if f.students == nil {
		f.students = &fakeStudentRepo{}
	}
	if f.enrollments == nil {
		f.enrollments = &fakeEnrollmentRepo{}
	}
	svc := NewReportService(ReportServiceParams{
		Lookups:     f.lookups,
		Attendance:  f.attendance,
		Exams:       f.exams,
		Finances:    f.finances,
		Students:    f.students,
		Enrollments: f.enrollments,
		Cache:       f.cache,
		Logger:      zap.NewNop(),
		Config:      ReportServiceConfig{Location: f.location},
	})
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func inPeriod(at time.Time, period models.Period) bool {
	if period.From != nil && at.Before(*period.From) {
		return false
	}
	if period.Until != nil && !at.Before(*period.Until) {
		return false
	}
	return true
}

func strPtr(v string) *string { return &v }

func int64Ptr(v int64) *int64 { return &v }

func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func attendanceRecord(id int64, student int64, status models.AttendanceStatus, at time.Time) models.AttendanceRecord {
	return models.AttendanceRecord{
		Attendance:       models.Attendance{ID: id, ChildProfileID: int64Ptr(student), Status: status},
		SessionStart:     &at,
		SubjectID:        int64Ptr(1),
		SubjectName:      strPtr("Mathematics"),
		TeacherID:        int64Ptr(7),
		TeacherName:      strPtr("Ana Putri"),
		StudentFirstName: strPtr("Student"),
		StudentLastName:  strPtr(string(rune('A' + student))),
	}
}

func sampleAttendance() []models.AttendanceRecord {
	monday := time.Date(2024, time.March, 11, 9, 0, 0, 0, time.UTC)
	return []models.AttendanceRecord{
		attendanceRecord(1, 1, models.AttendanceStatusPresent, monday),
		attendanceRecord(2, 1, models.AttendanceStatusPresent, monday.AddDate(0, 0, 1)),
		attendanceRecord(3, 2, models.AttendanceStatusPresent, monday),
		attendanceRecord(4, 2, models.AttendanceStatusLate, monday.AddDate(0, 0, 1)),
		attendanceRecord(5, 3, models.AttendanceStatusAbsent, monday),
	}
}

func categoryCount(categories []reporting.Category, key string) int {
	for _, c := range categories {
		if c.Key == key {
			return c.Count
		}
	}
	return -1
}

func TestReportServiceAttendance(t *testing.T) {
	repo := &fakeAttendanceRepo{records: sampleAttendance()}
	svc := newTestReportService(serviceFixture{attendance: repo})

	report, cacheHit, err := svc.Attendance(context.Background(), models.AttendanceReportFilter{})
	require.NoError(t, err)
	assert.False(t, cacheHit)
	assert.Nil(t, report.Window)
	assert.Equal(t, 5, report.Total)
	assert.Equal(t, 80.0, report.AttendanceRate)
	assert.Equal(t, 20.0, report.AbsenceRate)
	assert.Equal(t, 3, categoryCount(report.StatusCounts, "present"))
	assert.Equal(t, 0, categoryCount(report.StatusCounts, "excused"))

	require.Len(t, report.BySubject, 1)
	assert.Equal(t, "Mathematics", report.BySubject[0].Label)
	assert.Equal(t, 5, report.BySubject[0].Total)

	require.Len(t, report.ByStudent, 3)
	require.NotEmpty(t, report.BottomStudents)
	assert.Equal(t, 0.0, report.BottomStudents[0].AttendanceRate)
	assert.Equal(t, 100.0, report.TopStudents[0].AttendanceRate)

	require.Len(t, report.ByWeekday, 2)
	assert.Equal(t, "Monday", report.ByWeekday[0].Label)
	assert.Equal(t, "Tuesday", report.ByWeekday[1].Label)

	require.Len(t, report.Daily, 2)
	assert.True(t, report.Daily[0].At.Before(report.Daily[1].At))
}

func TestReportServiceAttendanceFilters(t *testing.T) {
	repo := &fakeAttendanceRepo{records: sampleAttendance()}
	svc := newTestReportService(serviceFixture{attendance: repo})

	status := models.AttendanceStatusPresent
	report, _, err := svc.Attendance(context.Background(), models.AttendanceReportFilter{StudentID: int64Ptr(1), Status: &status})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 100.0, report.AttendanceRate)
}

func TestReportServiceAttendanceLoadsEnrollmentsForYearFilter(t *testing.T) {
	repo := &fakeAttendanceRepo{records: sampleAttendance()}
	enrollments := &fakeEnrollmentRepo{byStudent: map[int64]models.Enrollments{
		1: {{ProgramEnrollment: models.ProgramEnrollment{ID: 1, ChildProfileID: 1, AcademicYearID: int64Ptr(2024)}}},
		2: {{ProgramEnrollment: models.ProgramEnrollment{ID: 2, ChildProfileID: 2, AcademicYearID: int64Ptr(2023)}}},
	}}
	svc := newTestReportService(serviceFixture{attendance: repo, enrollments: enrollments})

	report, _, err := svc.Attendance(context.Background(), models.AttendanceReportFilter{AcademicYearID: int64Ptr(2024)})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2, 3}, enrollments.requested)
	assert.Equal(t, 2, report.Total)
}

func TestReportServiceAttendanceCaching(t *testing.T) {
	repo := &fakeAttendanceRepo{records: sampleAttendance()}
	store := &stubCacheRepo{}
	cache := NewCacheService(store, nil, time.Minute, zap.NewNop(), true)
	svc := newTestReportService(serviceFixture{attendance: repo, cache: cache})
	ctx := context.Background()

	first, hit, err := svc.Attendance(ctx, models.AttendanceReportFilter{})
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := svc.Attendance(ctx, models.AttendanceReportFilter{})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, first.AttendanceRate, second.AttendanceRate)
	assert.Equal(t, first.Total, second.Total)

	status := models.AttendanceStatusAbsent
	_, hit, err = svc.Attendance(ctx, models.AttendanceReportFilter{Status: &status})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, repo.calls)

	require.NoError(t, cache.Invalidate(ctx, ReportCachePattern))
	assert.Equal(t, []string{"reports:*"}, store.patterns)
	_, hit, err = svc.Attendance(ctx, models.AttendanceReportFilter{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 3, repo.calls)
}

func TestReportServiceAttendanceGroupsMissingRelationsUnderUnknown(t *testing.T) {
	orphan := models.AttendanceRecord{Attendance: models.Attendance{ID: 9, Status: models.AttendanceStatusPresent}}
	svc := newTestReportService(serviceFixture{attendance: &fakeAttendanceRepo{records: []models.AttendanceRecord{orphan}}})

	report, _, err := svc.Attendance(context.Background(), models.AttendanceReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 100.0, report.AttendanceRate)
	for name, breakdowns := range map[string][]dto.AttendanceBreakdown{
		"subject": report.BySubject,
		"teacher": report.ByTeacher,
		"student": report.ByStudent,
		"weekday": report.ByWeekday,
	} {
		require.Len(t, breakdowns, 1, name)
		assert.Equal(t, reporting.Unknown, breakdowns[0].Key, name)
		assert.Equal(t, reporting.Unknown, breakdowns[0].Label, name)
		assert.Equal(t, 1, breakdowns[0].Total, name)
	}
	assert.Empty(t, report.Daily)
}

func TestReportServiceBucketsDaysInConfiguredLocation(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)
	// 1 March 03:00 in WIB.
	at := time.Date(2024, time.February, 29, 20, 0, 0, 0, time.UTC)
	attendance := &fakeAttendanceRepo{records: []models.AttendanceRecord{
		attendanceRecord(1, 1, models.AttendanceStatusPresent, at),
	}}
	finances := &fakeFinanceRepo{payments: []models.PaymentRecord{
		{Payment: models.Payment{ID: 1, Amount: 100, PaymentDate: at, PaymentMethod: "cash"}},
	}}
	svc := newTestReportService(serviceFixture{attendance: attendance, finances: finances, location: wib})
	dates := models.DateRangeFilter{Range: models.DateRangeCurrentMonth}

	report, _, err := svc.Attendance(context.Background(), models.AttendanceReportFilter{Dates: dates})
	require.NoError(t, err)
	require.NotNil(t, report.Window)
	assert.True(t, report.Window.From.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, wib)))
	assert.Equal(t, 1, report.Total)
	require.Len(t, report.Daily, 1)
	assert.Equal(t, "2024-03-01", report.Daily[0].Label)
	require.Len(t, report.ByWeekday, 1)
	assert.Equal(t, "Friday", report.ByWeekday[0].Label)

	finance, _, err := svc.Finances(context.Background(), models.FinanceReportFilter{Dates: dates})
	require.NoError(t, err)
	assert.Equal(t, 100.0, finance.Revenue)
	require.Len(t, finance.Monthly, 1)
	assert.Equal(t, reporting.MonthlyBucket{Month: "2024-03", Total: 100, Count: 1}, finance.Monthly[0])
}

func TestReportServiceFetchErrorPropagates(t *testing.T) {
	svc := newTestReportService(serviceFixture{attendance: &fakeAttendanceRepo{err: assert.AnError}})

	_, _, err := svc.Attendance(context.Background(), models.AttendanceReportFilter{})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInternal)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestReportServiceRejectsInvertedCustomRange(t *testing.T) {
	repo := &fakeAttendanceRepo{records: sampleAttendance()}
	svc := newTestReportService(serviceFixture{attendance: repo})

	filter := models.AttendanceReportFilter{Dates: models.DateRangeFilter{
		Range:     models.DateRangeCustom,
		StartDate: datePtr(2024, time.March, 10),
		EndDate:   datePtr(2024, time.March, 1),
	}}
	_, _, err := svc.Attendance(context.Background(), filter)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrConfiguration)
	assert.Zero(t, repo.calls)
}

func TestReportServiceTermRangeReadsCalendar(t *testing.T) {
	lookups := &fakeLookups{years: []models.AcademicYear{{
		ID:        1,
		Name:      "2023/2024",
		StartDate: time.Date(2023, time.July, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC),
		IsCurrent: true,
	}}}
	svc := newTestReportService(serviceFixture{lookups: lookups, attendance: &fakeAttendanceRepo{records: sampleAttendance()}})

	report, _, err := svc.Attendance(context.Background(), models.AttendanceReportFilter{
		Dates: models.DateRangeFilter{Range: models.DateRangeCurrentTerm},
	})
	require.NoError(t, err)
	require.NotNil(t, report.Window)
	assert.Equal(t, 1, lookups.yearCalls)
	assert.Equal(t, time.Date(2023, time.July, 1, 0, 0, 0, 0, time.UTC), report.Window.From)
	assert.Equal(t, 5, report.Total)

	_, _, err = svc.Attendance(context.Background(), models.AttendanceReportFilter{
		Dates: models.DateRangeFilter{Range: models.DateRangeCurrentMonth},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, lookups.yearCalls)
}

func examResult(id, exam, student int64, title string, score float64, day int) models.ExamResultRecord {
	date := time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC)
	examType := models.ExamTypeQuiz
	return models.ExamResultRecord{
		ExamResult:       models.ExamResult{ID: id, ExamID: int64Ptr(exam), ChildProfileID: int64Ptr(student), Score: score},
		ExamTitle:        strPtr(title),
		ExamDate:         &date,
		ExamType:         &examType,
		SubjectID:        int64Ptr(1),
		SubjectName:      strPtr("Mathematics"),
		StudentFirstName: strPtr("Student"),
		StudentLastName:  strPtr(title),
	}
}

func TestReportServiceExams(t *testing.T) {
	repo := &fakeExamRepo{results: []models.ExamResultRecord{
		examResult(1, 1, 1, "Algebra quiz", 95, 1),
		examResult(2, 1, 2, "Algebra quiz", 85, 1),
		examResult(3, 2, 1, "Geometry quiz", 55, 8),
		examResult(4, 2, 2, "Geometry quiz", 65, 8),
	}}
	svc := newTestReportService(serviceFixture{exams: repo})

	report, _, err := svc.Exams(context.Background(), models.ExamReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, report.TotalResults)
	assert.Equal(t, 75.0, report.Scores.Average)
	assert.Equal(t, 75.0, report.PassRate)
	assert.Equal(t, 1, categoryCount(report.GradeDistribution, "A"))
	assert.Equal(t, 0, categoryCount(report.GradeDistribution, "C"))
	assert.Equal(t, 1, categoryCount(report.GradeDistribution, "F"))

	require.Len(t, report.HardestExams, 2)
	assert.Equal(t, "Geometry quiz", report.HardestExams[0].Title)
	assert.Equal(t, reporting.DifficultyModerate, report.HardestExams[0].Difficulty)
	assert.Equal(t, reporting.DifficultyEasy, report.HardestExams[1].Difficulty)
	assert.Equal(t, reporting.TrendDeclining, report.Trend)

	grade := models.GradeF
	failing, _, err := svc.Exams(context.Background(), models.ExamReportFilter{Grade: &grade})
	require.NoError(t, err)
	assert.Equal(t, 1, failing.TotalResults)
	assert.Equal(t, 0.0, failing.PassRate)
}

func TestReportServiceExamsGroupMissingRelationsUnderUnknown(t *testing.T) {
	orphan := models.ExamResultRecord{ExamResult: models.ExamResult{ID: 5, Score: 40}}
	repo := &fakeExamRepo{results: []models.ExamResultRecord{examResult(1, 1, 1, "Algebra quiz", 90, 1), orphan}}
	svc := newTestReportService(serviceFixture{exams: repo})

	report, _, err := svc.Exams(context.Background(), models.ExamReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalResults)

	require.Len(t, report.BySubject, 2)
	assert.Equal(t, "Mathematics", report.BySubject[0].Label)
	assert.Equal(t, reporting.Unknown, report.BySubject[1].Label)
	assert.Equal(t, 1, report.BySubject[1].Total)
	assert.Equal(t, 40.0, report.BySubject[1].Average)

	require.Len(t, report.ByExamType, 2)
	assert.Equal(t, string(models.ExamTypeQuiz), report.ByExamType[0].Label)
	assert.Equal(t, reporting.Unknown, report.ByExamType[1].Label)

	require.Len(t, report.ByTeacher, 1)
	assert.Equal(t, reporting.Unknown, report.ByTeacher[0].Label)
	assert.Equal(t, 2, report.ByTeacher[0].Total)

	require.Len(t, report.HardestExams, 2)
	hardest := report.HardestExams[0]
	assert.Equal(t, reporting.Unknown, hardest.Key)
	assert.Equal(t, reporting.Unknown, hardest.Title)
	assert.Equal(t, reporting.Unknown, hardest.Subject)
	assert.Nil(t, hardest.Date)
	assert.Len(t, report.Series, 1)
}

func invoiceStatusTotal(totals []dto.InvoiceStatusTotal, status string) dto.InvoiceStatusTotal {
	for _, total := range totals {
		if total.Status == status {
			return total
		}
	}
	return dto.InvoiceStatusTotal{Count: -1}
}

func TestReportServiceFinancesInvoiceRollups(t *testing.T) {
	invoice := func(id int64, amount float64, status models.InvoiceStatus, curriculum *int64, name *string) models.InvoiceRecord {
		return models.InvoiceRecord{
			Invoice:        models.Invoice{ID: id, Amount: amount, InvoiceDate: fixedNow, Status: status, CurriculumID: curriculum},
			CurriculumName: name,
		}
	}
	repo := &fakeFinanceRepo{invoices: []models.InvoiceRecord{
		invoice(1, 100, models.InvoiceStatusPaid, int64Ptr(1), strPtr("Cambridge")),
		invoice(2, 50.5, models.InvoiceStatusOverdue, int64Ptr(1), strPtr("Cambridge")),
		invoice(3, 75, models.InvoiceStatusPaid, nil, nil),
		invoice(4, 20, "", nil, nil),
	}}
	svc := newTestReportService(serviceFixture{finances: repo})

	report, _, err := svc.Finances(context.Background(), models.FinanceReportFilter{})
	require.NoError(t, err)

	require.Len(t, report.InvoicesByStatus, len(models.InvoiceStatuses)+1)
	assert.Equal(t, string(models.InvoiceStatuses[0]), report.InvoicesByStatus[0].Status)
	assert.Equal(t, dto.InvoiceStatusTotal{Status: "paid", Count: 2, Amount: 175}, invoiceStatusTotal(report.InvoicesByStatus, "paid"))
	assert.Equal(t, dto.InvoiceStatusTotal{Status: "overdue", Count: 1, Amount: 50.5}, invoiceStatusTotal(report.InvoicesByStatus, "overdue"))
	assert.Equal(t, dto.InvoiceStatusTotal{Status: "draft"}, invoiceStatusTotal(report.InvoicesByStatus, "draft"))
	assert.Equal(t, reporting.Unknown, report.InvoicesByStatus[len(report.InvoicesByStatus)-1].Status)
	assert.Equal(t, 20.0, report.InvoicesByStatus[len(report.InvoicesByStatus)-1].Amount)

	require.Len(t, report.InvoicesByCurriculum, 2)
	cambridge := report.InvoicesByCurriculum[0]
	assert.Equal(t, "Cambridge", cambridge.Label)
	assert.Equal(t, 2, cambridge.Count)
	assert.Equal(t, 150.5, cambridge.Total)
	assert.Equal(t, 1, cambridge.Counts["paid"])
	assert.Equal(t, 1, cambridge.Counts["overdue"])
	assert.Equal(t, 0, cambridge.Counts["draft"])
	assert.Equal(t, 50.5, cambridge.Amounts["overdue"])

	unknown := report.InvoicesByCurriculum[1]
	assert.Equal(t, reporting.Unknown, unknown.Label)
	assert.Equal(t, 95.0, unknown.Total)
	assert.Equal(t, 1, unknown.Counts[reporting.Unknown])
	assert.Equal(t, 75.0, unknown.Amounts["paid"])
}

func TestReportServiceFinances(t *testing.T) {
	paid, sent := models.InvoiceStatusPaid, models.InvoiceStatusSent
	repo := &fakeFinanceRepo{
		payments: []models.PaymentRecord{
			{Payment: models.Payment{ID: 1, Amount: 100, PaymentDate: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), PaymentMethod: "cash", ChildProfileID: int64Ptr(1)}, InvoiceStatus: &paid, StudentFirstName: strPtr("Ayu")},
			{Payment: models.Payment{ID: 2, Amount: 200, PaymentDate: time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC), PaymentMethod: "bank_transfer", ChildProfileID: int64Ptr(2)}, InvoiceStatus: &sent, StudentFirstName: strPtr("Budi")},
			{Payment: models.Payment{ID: 3, Amount: 200, PaymentDate: time.Date(2024, time.February, 25, 0, 0, 0, 0, time.UTC), PaymentMethod: "cash", ChildProfileID: int64Ptr(1)}, InvoiceStatus: &paid, StudentFirstName: strPtr("Ayu")},
		},
		invoices: []models.InvoiceRecord{
			{Invoice: models.Invoice{ID: 1, Amount: 100, InvoiceDate: time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC), Status: models.InvoiceStatusPaid}, PaidAmount: 100},
			{Invoice: models.Invoice{ID: 2, Amount: 100, InvoiceDate: time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC), Status: models.InvoiceStatusSent}, PaidAmount: 40},
		},
	}
	svc := newTestReportService(serviceFixture{finances: repo})

	filter := models.FinanceReportFilter{Dates: models.DateRangeFilter{
		Range:     models.DateRangeCustom,
		StartDate: datePtr(2024, time.March, 1),
		EndDate:   datePtr(2024, time.March, 10),
	}}
	report, _, err := svc.Finances(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 300.0, report.Revenue)
	assert.Equal(t, 200.0, report.PreviousRevenue)
	assert.Equal(t, 50.0, report.GrowthRate)
	require.NotNil(t, report.PreviousWindow)
	assert.Equal(t, time.Date(2024, time.February, 20, 0, 0, 0, 0, time.UTC), report.PreviousWindow.From)
	assert.Equal(t, 2, report.InvoiceCount)
	assert.Equal(t, 50.0, report.CollectionRate)
	assert.Equal(t, 60.0, report.Outstanding)
	require.Len(t, report.Monthly, 1)
	assert.Equal(t, "2024-03", report.Monthly[0].Month)
	require.NotEmpty(t, report.TopStudents)
	assert.Equal(t, 200.0, report.TopStudents[0].Value)

	method := "cash"
	filter.PaymentMethod = &method
	cashOnly, _, err := svc.Finances(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 100.0, cashOnly.Revenue)
	assert.Equal(t, 2, cashOnly.InvoiceCount)
}

func TestReportServiceFinancesWithoutWindowHasNoGrowth(t *testing.T) {
	repo := &fakeFinanceRepo{payments: []models.PaymentRecord{
		{Payment: models.Payment{ID: 1, Amount: 100, PaymentDate: fixedNow}},
	}}
	svc := newTestReportService(serviceFixture{finances: repo})

	report, _, err := svc.Finances(context.Background(), models.FinanceReportFilter{})
	require.NoError(t, err)
	assert.Nil(t, report.PreviousWindow)
	assert.Zero(t, report.GrowthRate)
	assert.Equal(t, 100.0, report.Revenue)
	assert.Len(t, report.InvoicesByStatus, len(models.InvoiceStatuses))
	assert.Empty(t, report.InvoicesByCurriculum)
}

func TestReportServiceStudents(t *testing.T) {
	students := &fakeStudentRepo{profiles: []models.ChildProfile{
		{ID: 1, FirstName: "Ayu", Gender: "female", DateOfBirth: datePtr(2014, time.March, 16)},
		{ID: 2, FirstName: "Budi", Gender: "male", DateOfBirth: datePtr(2014, time.March, 15)},
		{ID: 3, FirstName: "Citra", Gender: "female", DateOfBirth: datePtr(2018, time.January, 1)},
		{ID: 4, FirstName: "Dewi", Gender: ""},
	}}
	subject := func(id int64, name string) models.SubjectEnrollmentDetail {
		return models.SubjectEnrollmentDetail{SubjectEnrollment: models.SubjectEnrollment{SubjectID: int64Ptr(id)}, SubjectName: strPtr(name)}
	}
	enrollment := func(id, student int64, status models.EnrollmentStatus, subjects ...models.SubjectEnrollmentDetail) models.EnrollmentDetail {
		return models.EnrollmentDetail{
			ProgramEnrollment: models.ProgramEnrollment{ID: id, ChildProfileID: student, CurriculumID: int64Ptr(1), Status: status, CreatedAt: fixedNow},
			CurriculumName:    strPtr("Cambridge"),
			Subjects:          subjects,
		}
	}
	enrollments := &fakeEnrollmentRepo{byStudent: map[int64]models.Enrollments{
		1: {enrollment(1, 1, models.EnrollmentStatusActive, subject(1, "Mathematics"), subject(2, "English"))},
		2: {enrollment(2, 2, models.EnrollmentStatusActive, subject(1, "Mathematics"))},
		3: {enrollment(3, 3, models.EnrollmentStatusWithdrawn)},
	}}
	svc := newTestReportService(serviceFixture{students: students, enrollments: enrollments})

	report, _, err := svc.Students(context.Background(), models.StudentReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, report.TotalStudents)
	assert.Equal(t, 2, categoryCount(report.ByAgeBand, "9-11"))
	assert.Equal(t, 1, categoryCount(report.ByAgeBand, "6-8"))
	assert.Equal(t, 1, categoryCount(report.ByAgeBand, reporting.Unknown))
	assert.Equal(t, 2, categoryCount(report.ByGender, "female"))
	assert.Equal(t, 1, categoryCount(report.ByGender, reporting.Unknown))
	assert.Equal(t, 2, categoryCount(report.EnrollmentsByStatus, "active"))
	assert.Equal(t, 0.75, report.AverageSubjects)
	require.NotEmpty(t, report.TopSubjects)
	assert.Equal(t, "Mathematics", report.TopSubjects[0].Label)
	assert.Equal(t, 2, report.TopSubjects[0].Count)

	status := models.EnrollmentStatusWithdrawn
	withdrawn, _, err := svc.Students(context.Background(), models.StudentReportFilter{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, 1, withdrawn.TotalStudents)
}

func TestReportServiceStudentsNeedOneEnrollmentMatchingEveryFilter(t *testing.T) {
	students := &fakeStudentRepo{profiles: []models.ChildProfile{
		{ID: 1, FirstName: "Ayu", Gender: "female"},
		{ID: 2, FirstName: "Budi", Gender: "male"},
	}}
	enrollment := func(id, student, year int64, status models.EnrollmentStatus) models.EnrollmentDetail {
		return models.EnrollmentDetail{ProgramEnrollment: models.ProgramEnrollment{
			ID: id, ChildProfileID: student, AcademicYearID: int64Ptr(year), Status: status, CreatedAt: fixedNow,
		}}
	}
	enrollments := &fakeEnrollmentRepo{byStudent: map[int64]models.Enrollments{
		1: {enrollment(1, 1, 2024, models.EnrollmentStatusActive), enrollment(2, 1, 2023, models.EnrollmentStatusWithdrawn)},
		2: {enrollment(3, 2, 2024, models.EnrollmentStatusWithdrawn)},
	}}
	svc := newTestReportService(serviceFixture{students: students, enrollments: enrollments})

	status := models.EnrollmentStatusWithdrawn
	report, _, err := svc.Students(context.Background(), models.StudentReportFilter{AcademicYearID: int64Ptr(2024), Status: &status})
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalStudents)
	assert.Equal(t, 1, categoryCount(report.ByGender, "male"))
	assert.Equal(t, 1, categoryCount(report.EnrollmentsByStatus, "withdrawn"))
	assert.Equal(t, 0, categoryCount(report.EnrollmentsByStatus, "active"))
}

func TestReportServiceFilterOptions(t *testing.T) {
	svc := newTestReportService(serviceFixture{lookups: &fakeLookups{years: []models.AcademicYear{{ID: 1, Name: "2023/2024"}}}})

	opts, err := svc.FilterOptions(context.Background())
	require.NoError(t, err)
	assert.Len(t, opts.AcademicYears, 1)
	assert.Equal(t, []string{"bank_transfer", "cash"}, opts.PaymentMethods)
	assert.Equal(t, models.DateRanges, opts.DateRanges)

	failing := newTestReportService(serviceFixture{lookups: &fakeLookups{err: assert.AnError}})
	_, err = failing.FilterOptions(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestReportServiceLimitClamp(t *testing.T) {
	svc := newTestReportService(serviceFixture{})
	assert.Equal(t, 5, svc.limit(0))
	assert.Equal(t, 3, svc.limit(3))
	assert.Equal(t, 5, svc.limit(50))
}

func TestReportServiceExport(t *testing.T) {
	svc := newTestReportService(serviceFixture{attendance: &fakeAttendanceRepo{records: sampleAttendance()}})
	ctx := context.Background()

	file, err := svc.Export(ctx, dto.ExportRequest{Type: models.ReportAttendance, Format: "csv"}, ExportFilters{})
	require.NoError(t, err)
	assert.Equal(t, "attendance-report-20240315-120000.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	assert.True(t, strings.Contains(string(file.Payload), "Attendance rate"))
	assert.True(t, strings.Contains(string(file.Payload), "Mathematics"))

	pdf, err := svc.Export(ctx, dto.ExportRequest{Type: models.ReportStudents, Format: "pdf"}, ExportFilters{})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType)
	assert.True(t, strings.HasPrefix(string(pdf.Payload), "%PDF"))

	_, err = svc.Export(ctx, dto.ExportRequest{Type: models.ReportAttendance, Format: "xlsx"}, ExportFilters{})
	assert.ErrorIs(t, err, appErrors.ErrUnsupportedFormat)

	_, err = svc.Export(ctx, dto.ExportRequest{Type: "grades", Format: "csv"}, ExportFilters{})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
