package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoring-reports-api/internal/dto"
	"github.com/noah-isme/tutoring-reports-api/internal/middleware"
	"github.com/noah-isme/tutoring-reports-api/internal/models"
	"github.com/noah-isme/tutoring-reports-api/internal/service"
	appErrors "github.com/noah-isme/tutoring-reports-api/pkg/errors"
)

type fakeReportSrv struct {
	err        error
	cacheHit   bool
	attendance models.AttendanceReportFilter
	exams      models.ExamReportFilter
	finances   models.FinanceReportFilter
	students   models.StudentReportFilter
	exportReq  dto.ExportRequest
	exportFlt  service.ExportFilters
}

func (f *fakeReportSrv) FilterOptions(context.Context) (*dto.FilterOptions, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.FilterOptions{PaymentMethods: []string{"cash"}}, nil
}

func (f *fakeReportSrv) Attendance(_ context.Context, filter models.AttendanceReportFilter) (*dto.AttendanceReport, bool, error) {
	f.attendance = filter
	if f.err != nil {
		return nil, false, f.err
	}
	return &dto.AttendanceReport{Total: 5, AttendanceRate: 80}, f.cacheHit, nil
}

func (f *fakeReportSrv) Exams(_ context.Context, filter models.ExamReportFilter) (*dto.ExamReport, bool, error) {
	f.exams = filter
	return &dto.ExamReport{TotalResults: 4}, f.cacheHit, f.err
}

func (f *fakeReportSrv) Finances(_ context.Context, filter models.FinanceReportFilter) (*dto.FinanceReport, bool, error) {
	f.finances = filter
	return &dto.FinanceReport{Revenue: 300}, f.cacheHit, f.err
}

func (f *fakeReportSrv) Students(_ context.Context, filter models.StudentReportFilter) (*dto.StudentReport, bool, error) {
	f.students = filter
	return &dto.StudentReport{TotalStudents: 2}, f.cacheHit, f.err
}

func (f *fakeReportSrv) Export(_ context.Context, req dto.ExportRequest, filters service.ExportFilters) (*dto.ExportFile, error) {
	f.exportReq = req
	f.exportFlt = filters
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ExportFile{Filename: "attendance-report-20240315-120000.csv", ContentType: "text/csv; charset=utf-8", Payload: []byte("Summary\n")}, nil
}

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func newReportRouter(srv reportService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.WithResponseMeta())
	NewReportHandler(srv).Register(r.Group("/api/v1"))
	return r
}

func perform(r http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestReportHandlerAttendanceParsesFilters(t *testing.T) {
	srv := &fakeReportSrv{cacheHit: true}
	rec := perform(newReportRouter(srv), "/api/v1/reports/attendance?student_id=3&status=PRESENT&subject_id=abc&limit=x&start_date=2024-13-01&date_range=last_30_days")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, srv.attendance.StudentID)
	assert.Equal(t, int64(3), *srv.attendance.StudentID)
	require.NotNil(t, srv.attendance.Status)
	assert.Equal(t, models.AttendanceStatusPresent, *srv.attendance.Status)
	assert.Nil(t, srv.attendance.SubjectID)
	assert.Nil(t, srv.attendance.Dates.StartDate)
	assert.Equal(t, models.DateRangeLast30Days, srv.attendance.Dates.Range)
	assert.Zero(t, srv.attendance.Limit)

	envelope := decode(t, rec)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Equal(t, "date_range=last_30_days&status=present&student_id=3", envelope.Meta["query"])
	assert.Contains(t, envelope.Meta, "processing_time_ms")
	assert.Equal(t, float64(80), envelope.Data["attendance_rate"])
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestReportHandlerIgnoresUnknownEnumValues(t *testing.T) {
	srv := &fakeReportSrv{}
	r := newReportRouter(srv)

	rec := perform(r, "/api/v1/reports/exams?grade=z&exam_type=QUIZ&teacher_id=-4")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, srv.exams.Grade)
	assert.Nil(t, srv.exams.TeacherID)
	require.NotNil(t, srv.exams.ExamType)
	assert.Equal(t, models.ExamTypeQuiz, *srv.exams.ExamType)

	rec = perform(r, "/api/v1/reports/finances?status=refunded&payment_method=%20Cash%20")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, srv.finances.Status)
	require.NotNil(t, srv.finances.PaymentMethod)
	assert.Equal(t, "cash", *srv.finances.PaymentMethod)

	rec = perform(r, "/api/v1/reports/students?status=withdrawn&gender=")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, srv.students.Status)
	assert.Equal(t, models.EnrollmentStatusWithdrawn, *srv.students.Status)
	assert.Nil(t, srv.students.Gender)
}

func TestReportHandlerMapsServiceErrors(t *testing.T) {
	srv := &fakeReportSrv{err: appErrors.Clone(appErrors.ErrConfiguration, "end_date must not be before start_date")}
	rec := perform(newReportRouter(srv), "/api/v1/reports/attendance?start_date=2024-03-10&end_date=2024-03-01")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	envelope := decode(t, rec)
	assert.Equal(t, appErrors.ErrConfiguration.Code, envelope.Error["code"])
	require.NotNil(t, srv.attendance.Dates.StartDate)
	require.NotNil(t, srv.attendance.Dates.EndDate)
}

func TestReportHandlerFiltersInternalError(t *testing.T) {
	srv := &fakeReportSrv{err: errors.New("connection refused")}
	rec := perform(newReportRouter(srv), "/api/v1/reports/filters")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	envelope := decode(t, rec)
	assert.Equal(t, appErrors.ErrInternal.Code, envelope.Error["code"])
}

func TestReportHandlerExport(t *testing.T) {
	srv := &fakeReportSrv{}
	r := newReportRouter(srv)

	rec := perform(r, "/api/v1/reports/attendance/export?format=CSV&student_id=2")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.ReportAttendance, srv.exportReq.Type)
	assert.Equal(t, "csv", srv.exportReq.Format)
	require.NotNil(t, srv.exportFlt.Attendance.StudentID)
	assert.Equal(t, int64(2), *srv.exportFlt.Attendance.StudentID)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attendance-report-20240315-120000.csv")
	assert.Equal(t, "Summary\n", rec.Body.String())

	rec = perform(r, "/api/v1/reports/grades/export?format=csv")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportHandlerExportUnsupportedFormat(t *testing.T) {
	srv := &fakeReportSrv{err: appErrors.Clone(appErrors.ErrUnsupportedFormat, "format must be csv or pdf")}
	rec := perform(newReportRouter(srv), "/api/v1/reports/exams/export?format=xlsx")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "xlsx", srv.exportReq.Format)
}
