package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutoring-reports-api/internal/models"
	"github.com/noah-isme/tutoring-reports-api/internal/service"
)

// Query parsing is lenient: a missing, blank or malformed value leaves its filter unset.

func attendanceFilter(c *gin.Context) models.AttendanceReportFilter {
	f := models.AttendanceReportFilter{
		AcademicYearID: queryID(c, "academic_year_id"),
		CurriculumID:   queryID(c, "curriculum_id"),
		SubjectID:      queryID(c, "subject_id"),
		TeacherID:      queryID(c, "teacher_id"),
		StudentID:      queryID(c, "student_id"),
		Dates:          dateFilter(c),
		Limit:          queryLimit(c),
	}
	if status := models.AttendanceStatus(queryLower(c, "status")); status.Valid() {
		f.Status = &status
	}
	return f
}

func examFilter(c *gin.Context) models.ExamReportFilter {
	f := models.ExamReportFilter{
		AcademicYearID: queryID(c, "academic_year_id"),
		CurriculumID:   queryID(c, "curriculum_id"),
		SubjectID:      queryID(c, "subject_id"),
		TeacherID:      queryID(c, "teacher_id"),
		StudentID:      queryID(c, "student_id"),
		Dates:          dateFilter(c),
		Limit:          queryLimit(c),
	}
	if grade := models.GradeBand(strings.ToUpper(strings.TrimSpace(c.Query("grade")))); grade.Valid() {
		f.Grade = &grade
	}
	if examType := models.ExamType(queryLower(c, "exam_type")); examType.Valid() {
		f.ExamType = &examType
	}
	return f
}

func financeFilter(c *gin.Context) models.FinanceReportFilter {
	f := models.FinanceReportFilter{
		AcademicYearID: queryID(c, "academic_year_id"),
		CurriculumID:   queryID(c, "curriculum_id"),
		StudentID:      queryID(c, "student_id"),
		PaymentMethod:  queryText(c, "payment_method"),
		Dates:          dateFilter(c),
		Limit:          queryLimit(c),
	}
	if status := models.InvoiceStatus(queryLower(c, "status")); status.Valid() {
		f.Status = &status
	}
	return f
}

func studentFilter(c *gin.Context) models.StudentReportFilter {
	f := models.StudentReportFilter{
		AcademicYearID: queryID(c, "academic_year_id"),
		CurriculumID:   queryID(c, "curriculum_id"),
		SubjectID:      queryID(c, "subject_id"),
		Gender:         queryText(c, "gender"),
		Dates:          dateFilter(c),
		Limit:          queryLimit(c),
	}
	if status := models.EnrollmentStatus(queryLower(c, "status")); status.Valid() {
		f.Status = &status
	}
	return f
}

// exportFilters parses every report's filter; the service picks the one it needs.
func exportFilters(c *gin.Context) service.ExportFilters {
	return service.ExportFilters{
		Attendance: attendanceFilter(c),
		Exams:      examFilter(c),
		Finances:   financeFilter(c),
		Students:   studentFilter(c),
	}
}

func dateFilter(c *gin.Context) models.DateRangeFilter {
	return models.DateRangeFilter{
		Range:     models.ParseDateRange(c.Query("date_range")),
		StartDate: queryDate(c, "start_date"),
		EndDate:   queryDate(c, "end_date"),
	}
}

func queryID(c *gin.Context, key string) *int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Query(key)), 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

func queryDate(c *gin.Context, key string) *time.Time {
	t, err := time.Parse(models.DateLayout, strings.TrimSpace(c.Query(key)))
	if err != nil {
		return nil
	}
	return &t
}

func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(strings.TrimSpace(c.Query("limit")))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

func queryLower(c *gin.Context, key string) string {
	return strings.ToLower(strings.TrimSpace(c.Query(key)))
}

func queryText(c *gin.Context, key string) *string {
	value := queryLower(c, key)
	if value == "" {
		return nil
	}
	return &value
}
