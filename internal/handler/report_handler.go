package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutoring-reports-api/internal/dto"
	"github.com/noah-isme/tutoring-reports-api/internal/middleware"
	"github.com/noah-isme/tutoring-reports-api/internal/models"
	"github.com/noah-isme/tutoring-reports-api/internal/service"
	appErrors "github.com/noah-isme/tutoring-reports-api/pkg/errors"
	"github.com/noah-isme/tutoring-reports-api/pkg/response"
)

type reportService interface {
	FilterOptions(ctx context.Context) (*dto.FilterOptions, error)
	Attendance(ctx context.Context, filter models.AttendanceReportFilter) (*dto.AttendanceReport, bool, error)
	Exams(ctx context.Context, filter models.ExamReportFilter) (*dto.ExamReport, bool, error)
	Finances(ctx context.Context, filter models.FinanceReportFilter) (*dto.FinanceReport, bool, error)
	Students(ctx context.Context, filter models.StudentReportFilter) (*dto.StudentReport, bool, error)
	Export(ctx context.Context, req dto.ExportRequest, filters service.ExportFilters) (*dto.ExportFile, error)
}

// ReportHandler exposes reporting endpoints.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs the handler.
func NewReportHandler(service reportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Register mounts the report routes on the group.
func (h *ReportHandler) Register(group *gin.RouterGroup) {
	reports := group.Group("/reports")
	reports.GET("/filters", h.Filters)
	reports.GET("/attendance", h.Attendance)
	reports.GET("/exams", h.Exams)
	reports.GET("/finances", h.Finances)
	reports.GET("/students", h.Students)
	reports.GET("/:type/export", h.Export)
}

// Filters godoc
// @Summary Report filter options
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/filters [get]
func (h *ReportHandler) Filters(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	opts, err := h.service.FilterOptions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, opts, middleware.ResponseMeta(c))
}

// Attendance godoc
// @Summary Attendance report
// @Tags Reports
// @Produce json
// @Param academic_year_id query int false "Academic year ID"
// @Param curriculum_id query int false "Curriculum ID"
// @Param subject_id query int false "Subject ID"
// @Param teacher_id query int false "Teacher profile ID"
// @Param student_id query int false "Child profile ID"
// @Param status query string false "present, absent, late or excused"
// @Param date_range query string false "Symbolic date range"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Param limit query int false "Leaderboard size"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /reports/attendance [get]
func (h *ReportHandler) Attendance(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	filter := attendanceFilter(c)
	report, cacheHit, err := h.service.Attendance(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, report, cacheHit, filter.Query())
}

// Exams godoc
// @Summary Exam report
// @Tags Reports
// @Produce json
// @Param academic_year_id query int false "Academic year ID"
// @Param curriculum_id query int false "Curriculum ID"
// @Param subject_id query int false "Subject ID"
// @Param teacher_id query int false "Teacher profile ID"
// @Param student_id query int false "Child profile ID"
// @Param grade query string false "A, B, C, D or F"
// @Param exam_type query string false "quiz, midterm, final or assignment"
// @Param date_range query string false "Symbolic date range"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Param limit query int false "Leaderboard size"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /reports/exams [get]
func (h *ReportHandler) Exams(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	filter := examFilter(c)
	report, cacheHit, err := h.service.Exams(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, report, cacheHit, filter.Query())
}

// Finances godoc
// @Summary Finance report
// @Tags Reports
// @Produce json
// @Param academic_year_id query int false "Academic year ID"
// @Param curriculum_id query int false "Curriculum ID"
// @Param student_id query int false "Child profile ID"
// @Param status query string false "Invoice status"
// @Param payment_method query string false "Payment method"
// @Param date_range query string false "Symbolic date range"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Param limit query int false "Leaderboard size"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /reports/finances [get]
func (h *ReportHandler) Finances(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	filter := financeFilter(c)
	report, cacheHit, err := h.service.Finances(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, report, cacheHit, filter.Query())
}

// Students godoc
// @Summary Student report
// @Tags Reports
// @Produce json
// @Param academic_year_id query int false "Academic year ID"
// @Param curriculum_id query int false "Curriculum ID"
// @Param subject_id query int false "Subject ID"
// @Param status query string false "Enrollment status"
// @Param gender query string false "Gender"
// @Param date_range query string false "Symbolic date range"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Param limit query int false "Leaderboard size"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /reports/students [get]
func (h *ReportHandler) Students(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	filter := studentFilter(c)
	report, cacheHit, err := h.service.Students(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, report, cacheHit, filter.Query())
}

// Export godoc
// @Summary Export a report
// @Description Accepts the same filters as the report itself.
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param type path string true "attendance, exams, finances or students"
// @Param format query string true "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/{type}/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	kind, ok := models.ParseReportKind(c.Param("type"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unknown report type"))
		return
	}
	req := dto.ExportRequest{Type: kind, Format: strings.ToLower(strings.TrimSpace(c.Query("format")))}
	file, err := h.service.Export(c.Request.Context(), req, exportFilters(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

func (h *ReportHandler) respond(c *gin.Context, data interface{}, cacheHit bool, query url.Values) {
	middleware.SetCacheHit(c, cacheHit)
	middleware.SetQuery(c, query)
	response.JSON(c, http.StatusOK, data, middleware.ResponseMeta(c))
}
