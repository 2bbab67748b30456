package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-reports-api/internal/dto"
	"github.com/noah-isme/tutoring-reports-api/internal/models"
	"github.com/noah-isme/tutoring-reports-api/internal/reporting"
	appErrors "github.com/noah-isme/tutoring-reports-api/pkg/errors"
	"github.com/noah-isme/tutoring-reports-api/pkg/export"
)

type lookupRepository interface {
	ListAcademicYears(ctx context.Context) ([]models.AcademicYear, error)
	ListCurricula(ctx context.Context) ([]models.Curriculum, error)
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	ListTeachers(ctx context.Context) ([]models.TeacherOption, error)
	ListPaymentMethods(ctx context.Context) ([]string, error)
	ListGenders(ctx context.Context) ([]string, error)
}

type attendanceRepository interface {
	ListRecords(ctx context.Context, period models.Period) ([]models.AttendanceRecord, error)
}

type examRepository interface {
	ListResults(ctx context.Context, period models.Period) ([]models.ExamResultRecord, error)
}

type financeRepository interface {
	ListPayments(ctx context.Context, period models.Period) ([]models.PaymentRecord, error)
	ListInvoices(ctx context.Context, period models.Period) ([]models.InvoiceRecord, error)
}

type studentRepository interface {
	ListStudents(ctx context.Context, period models.Period) ([]models.ChildProfile, error)
}

type enrollmentRepository interface {
	ListByStudents(ctx context.Context, studentIDs []int64) (map[int64]models.Enrollments, error)
}

type documentRenderer interface {
	Render(doc export.Document) ([]byte, error)
	ContentType() string
	Extension() string
}

// ReportServiceConfig tunes report behaviour.
type ReportServiceConfig struct {
	CacheTTL    time.Duration
	DefaultTopN int
	MaxTopN     int
	Location    *time.Location
}

// ReportServiceParams groups constructor dependencies.
type ReportServiceParams struct {
	Lookups     lookupRepository
	Attendance  attendanceRepository
	Exams       examRepository
	Finances    financeRepository
	Students    studentRepository
	Enrollments enrollmentRepository
	Cache       *CacheService
	Metrics     *MetricsService
	Validator   *validator.Validate
	Logger      *zap.Logger
	CSV         documentRenderer
	PDF         documentRenderer
	Config      ReportServiceConfig
}

// ReportService builds every report from freshly fetched records on each call.
type ReportService struct {
	lookups     lookupRepository
	attendance  attendanceRepository
	exams       examRepository
	finances    financeRepository
	students    studentRepository
	enrollments enrollmentRepository
	cache       *CacheService
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	renderers   map[string]documentRenderer
	resolver    *reporting.Resolver
	now         func() time.Time
	cfg         ReportServiceConfig
}

// NewReportService constructs a ReportService with sane defaults.
func NewReportService(params ReportServiceParams) *ReportService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.DefaultTopN <= 0 {
		cfg.DefaultTopN = 5
	}
	if cfg.MaxTopN < cfg.DefaultTopN {
		cfg.MaxTopN = cfg.DefaultTopN
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	registerReportValidations(validate)

	csvRenderer, pdfRenderer := params.CSV, params.PDF
	if csvRenderer == nil {
		csvRenderer = export.NewCSVExporter()
	}
	if pdfRenderer == nil {
		pdfRenderer = export.NewPDFExporter()
	}

	svc := &ReportService{
		lookups:     params.Lookups,
		attendance:  params.Attendance,
		exams:       params.Exams,
		finances:    params.Finances,
		students:    params.Students,
		enrollments: params.Enrollments,
		cache:       params.Cache,
		metrics:     params.Metrics,
		validator:   validate,
		logger:      logger,
		renderers:   map[string]documentRenderer{"csv": csvRenderer, "pdf": pdfRenderer},
		now:         time.Now,
		cfg:         cfg,
	}
	svc.resolver = reporting.NewResolver(func() time.Time { return svc.now() }, cfg.Location)
	return svc
}

// FilterOptions lists the reference data and enumerations the view layer filters by.
func (s *ReportService) FilterOptions(ctx context.Context) (*dto.FilterOptions, error) {
	opts := &dto.FilterOptions{
		DateRanges:         models.DateRanges,
		AttendanceStatuses: models.AttendanceStatuses,
		ExamTypes:          models.ExamTypes,
		GradeBands:         models.GradeBands,
		InvoiceStatuses:    models.InvoiceStatuses,
		EnrollmentStatuses: models.EnrollmentStatuses,
	}

	var err error
	if opts.AcademicYears, err = timed(s, "academic_years", func() ([]models.AcademicYear, error) { return s.lookups.ListAcademicYears(ctx) }); err != nil {
		return nil, fetchError("academic years", err)
	}
	if opts.Curricula, err = timed(s, "curricula", func() ([]models.Curriculum, error) { return s.lookups.ListCurricula(ctx) }); err != nil {
		return nil, fetchError("curricula", err)
	}
	if opts.Subjects, err = timed(s, "subjects", func() ([]models.Subject, error) { return s.lookups.ListSubjects(ctx) }); err != nil {
		return nil, fetchError("subjects", err)
	}
	if opts.Teachers, err = timed(s, "teachers", func() ([]models.TeacherOption, error) { return s.lookups.ListTeachers(ctx) }); err != nil {
		return nil, fetchError("teachers", err)
	}
	if opts.PaymentMethods, err = timed(s, "payment_methods", func() ([]string, error) { return s.lookups.ListPaymentMethods(ctx) }); err != nil {
		return nil, fetchError("payment methods", err)
	}
	if opts.Genders, err = timed(s, "genders", func() ([]string, error) { return s.lookups.ListGenders(ctx) }); err != nil {
		return nil, fetchError("genders", err)
	}
	return opts, nil
}

// resolveWindow validates the date filter and resolves it. The academic calendar is only read
// for term ranges.
func (s *ReportService) resolveWindow(ctx context.Context, dates models.DateRangeFilter) (*reporting.Window, error) {
	if err := s.validator.Struct(dates); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, appErrors.Clone(appErrors.ErrConfiguration, "end_date must not be before start_date")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date range")
	}

	var years []models.AcademicYear
	if dates.Range == models.DateRangeCurrentTerm || dates.Range == models.DateRangePreviousTerm {
		var err error
		years, err = timed(s, "academic_years", func() ([]models.AcademicYear, error) { return s.lookups.ListAcademicYears(ctx) })
		if err != nil {
			return nil, fetchError("academic years", err)
		}
	}
	return s.resolver.Resolve(dates, years)
}

// limit clamps a requested leaderboard size to the configured bounds.
func (s *ReportService) limit(requested int) int {
	if requested <= 0 {
		return s.cfg.DefaultTopN
	}
	if requested > s.cfg.MaxTopN {
		return s.cfg.MaxTopN
	}
	return requested
}

// enrollmentsFor loads enrollment histories for the given children.
func (s *ReportService) enrollmentsFor(ctx context.Context, ids []int64) (map[int64]models.Enrollments, error) {
	enrollments, err := timed(s, "enrollments", func() (map[int64]models.Enrollments, error) {
		return s.enrollments.ListByStudents(ctx, ids)
	})
	if err != nil {
		return nil, fetchError("enrollments", err)
	}
	return enrollments, nil
}

func (s *ReportService) tryCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	return s.cache.Get(ctx, key, dest)
}

func (s *ReportService) persistCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	s.cache.Set(ctx, key, value, s.cfg.CacheTTL)
}

func (s *ReportService) observe(kind models.ReportKind, records int, started time.Time) {
	elapsed := time.Since(started)
	s.metrics.ObserveReport(string(kind), records, elapsed)
	s.logger.Debug("report generated",
		zap.String("report", string(kind)),
		zap.Int("records", records),
		zap.Duration("duration", elapsed),
	)
}

// timed runs a repository call and records its latency under label.
func timed[T any](s *ReportService, label string, fetch func() (T, error)) (T, error) {
	start := time.Now()
	result, err := fetch()
	s.metrics.ObserveDBQuery(label, time.Since(start))
	return result, err
}

func fetchError(dataset string, err error) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to load %s", dataset))
}

// ReportCachePattern matches every cached report payload.
const ReportCachePattern = "reports:*"

// reportCacheKey scopes a cached payload by report, normalized filter and resolved window.
func reportCacheKey(kind models.ReportKind, query url.Values, window *reporting.Window) string {
	span := "all"
	if window != nil {
		span = window.From.Format(models.DateLayout) + ".." + window.To.Format(models.DateLayout)
	}
	return fmt.Sprintf("reports:%s:%s:%s", kind, span, query.Encode())
}

// periodOf converts a window into repository bounds; nil means unbounded.
func periodOf(window *reporting.Window) models.Period {
	if window == nil {
		return models.Period{}
	}
	from, until := window.From, window.EndExclusive()
	return models.Period{From: &from, Until: &until}
}
