package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/noah-isme/tutoring-reports-api/internal/dto"
	"github.com/noah-isme/tutoring-reports-api/internal/models"
	"github.com/noah-isme/tutoring-reports-api/internal/reporting"
	"github.com/noah-isme/tutoring-reports-api/pkg/export"
)

// ExportFilters carries the filter of every report; Export uses the one matching the request.
type ExportFilters struct {
	Attendance models.AttendanceReportFilter
	Exams      models.ExamReportFilter
	Finances   models.FinanceReportFilter
	Students   models.StudentReportFilter
}

// Export renders a report's tables in the requested format.
func (s *ReportService) Export(ctx context.Context, req dto.ExportRequest, filters ExportFilters) (*dto.ExportFile, error) {
	if err := s.validateExportRequest(req); err != nil {
		return nil, err
	}

	var (
		doc export.Document
		err error
	)
	switch req.Type {
	case models.ReportAttendance:
		var report *dto.AttendanceReport
		if report, _, err = s.Attendance(ctx, filters.Attendance); err == nil {
			doc = attendanceDocument(report)
		}
	case models.ReportExams:
		var report *dto.ExamReport
		if report, _, err = s.Exams(ctx, filters.Exams); err == nil {
			doc = examDocument(report)
		}
	case models.ReportFinances:
		var report *dto.FinanceReport
		if report, _, err = s.Finances(ctx, filters.Finances); err == nil {
			doc = financeDocument(report)
		}
	case models.ReportStudents:
		var report *dto.StudentReport
		if report, _, err = s.Students(ctx, filters.Students); err == nil {
			doc = studentDocument(report)
		}
	}
	if err != nil {
		return nil, err
	}

	renderer := s.renderers[req.Format]
	payload, err := renderer.Render(doc)
	if err != nil {
		return nil, fetchError(fmt.Sprintf("%s export", req.Format), err)
	}
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("%s-report-%s.%s", req.Type, s.now().Format("20060102-150405"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Payload:     payload,
	}, nil
}

func attendanceDocument(report *dto.AttendanceReport) export.Document {
	headers := append([]string{"Group", "Total"}, attendanceKeys...)
	headers = append(headers, "Attendance rate")
	breakdown := func(title string, rows []dto.AttendanceBreakdown) export.Table {
		table := export.Table{Title: title, Headers: headers}
		for _, row := range rows {
			table.Rows = append(table.Rows, append(breakdownCells(row.Breakdown, attendanceKeys), formatFloat(row.AttendanceRate)))
		}
		return table
	}

	return export.Document{
		Title: "Attendance report" + windowSuffix(report.Window),
		Tables: []export.Table{
			{
				Title:   "Summary",
				Headers: []string{"Metric", "Value"},
				Rows: [][]string{
					{"Total records", strconv.Itoa(report.Total)},
					{"Attendance rate", formatFloat(report.AttendanceRate)},
					{"Absence rate", formatFloat(report.AbsenceRate)},
					{"Trend", string(report.Trend)},
				},
			},
			categoryTable("By status", "Status", report.StatusCounts),
			breakdown("By subject", report.BySubject),
			breakdown("By teacher", report.ByTeacher),
			breakdown("By student", report.ByStudent),
			breakdown("By weekday", report.ByWeekday),
		},
	}
}

func examDocument(report *dto.ExamReport) export.Document {
	gradeKeys := reporting.GradeKeys()
	headers := append([]string{"Group", "Results"}, gradeKeys...)
	headers = append(headers, "Average", "Pass rate")
	breakdown := func(title string, rows []dto.ExamBreakdown) export.Table {
		table := export.Table{Title: title, Headers: headers}
		for _, row := range rows {
			cells := append(breakdownCells(row.Breakdown, gradeKeys), formatFloat(row.Average), formatFloat(row.PassRate))
			table.Rows = append(table.Rows, cells)
		}
		return table
	}

	hardest := export.Table{Title: "Hardest exams", Headers: []string{"Exam", "Subject", "Results", "Average", "Pass rate", "Difficulty"}}
	for _, exam := range report.HardestExams {
		hardest.Rows = append(hardest.Rows, []string{exam.Title, exam.Subject, strconv.Itoa(exam.Results), formatFloat(exam.Average), formatFloat(exam.PassRate), string(exam.Difficulty)})
	}

	return export.Document{
		Title: "Exam report" + windowSuffix(report.Window),
		Tables: []export.Table{
			{
				Title:   "Summary",
				Headers: []string{"Metric", "Value"},
				Rows: [][]string{
					{"Total results", strconv.Itoa(report.TotalResults)},
					{"Average score", formatFloat(report.Scores.Average)},
					{"Lowest score", formatFloat(report.Scores.Min)},
					{"Highest score", formatFloat(report.Scores.Max)},
					{"Pass rate", formatFloat(report.PassRate)},
					{"Trend", string(report.Trend)},
				},
			},
			categoryTable("Grade distribution", "Grade", report.GradeDistribution),
			breakdown("By subject", report.BySubject),
			breakdown("By teacher", report.ByTeacher),
			breakdown("By exam type", report.ByExamType),
			rankedTable("Top students", "Student", "Average", report.TopStudents),
			hardest,
		},
	}
}

func financeDocument(report *dto.FinanceReport) export.Document {
	monthly := export.Table{Title: "Monthly revenue", Headers: []string{"Month", "Payments", "Revenue"}}
	for _, bucket := range report.Monthly {
		monthly.Rows = append(monthly.Rows, []string{bucket.Month, strconv.Itoa(bucket.Count), formatFloat(bucket.Total)})
	}
	invoices := export.Table{Title: "Invoices by status", Headers: []string{"Status", "Invoices", "Amount"}}
	for _, row := range report.InvoicesByStatus {
		invoices.Rows = append(invoices.Rows, []string{row.Status, strconv.Itoa(row.Count), formatFloat(row.Amount)})
	}

	return export.Document{
		Title: "Finance report" + windowSuffix(report.Window),
		Tables: []export.Table{
			{
				Title:   "Summary",
				Headers: []string{"Metric", "Value"},
				Rows: [][]string{
					{"Revenue", formatFloat(report.Revenue)},
					{"Payments", strconv.Itoa(report.PaymentCount)},
					{"Average payment", formatFloat(report.Payments.Average)},
					{"Invoices", strconv.Itoa(report.InvoiceCount)},
					{"Collection rate", formatFloat(report.CollectionRate)},
					{"Outstanding", formatFloat(report.Outstanding)},
					{"Overdue invoices", strconv.Itoa(report.OverdueCount)},
					{"Growth rate", formatFloat(report.GrowthRate)},
				},
			},
			monthly,
			amountTable("Revenue by curriculum", "Curriculum", report.ByCurriculum),
			amountTable("Revenue by payment method", "Payment method", report.ByPaymentMethod),
			invoices,
			rankedTable("Top students", "Student", "Revenue", report.TopStudents),
		},
	}
}

func studentDocument(report *dto.StudentReport) export.Document {
	headers := append([]string{"Curriculum", "Enrollments"}, enrollmentKeys...)
	curricula := export.Table{Title: "By curriculum", Headers: headers}
	for _, row := range report.ByCurriculum {
		curricula.Rows = append(curricula.Rows, breakdownCells(row, enrollmentKeys))
	}

	return export.Document{
		Title: "Student report" + windowSuffix(report.Window),
		Tables: []export.Table{
			{
				Title:   "Summary",
				Headers: []string{"Metric", "Value"},
				Rows: [][]string{
					{"Students", strconv.Itoa(report.TotalStudents)},
					{"Average subjects per student", formatFloat(report.AverageSubjects)},
				},
			},
			categoryTable("By gender", "Gender", report.ByGender),
			categoryTable("By age band", "Age band", report.ByAgeBand),
			categoryTable("Enrollments by status", "Status", report.EnrollmentsByStatus),
			curricula,
			rankedTable("Subject enrollments", "Subject", "Enrollments", report.SubjectEnrollments),
		},
	}
}

func categoryTable(title, label string, categories []reporting.Category) export.Table {
	table := export.Table{Title: title, Headers: []string{label, "Count", "Share"}}
	for _, c := range categories {
		table.Rows = append(table.Rows, []string{c.Key, strconv.Itoa(c.Count), formatFloat(c.Rate)})
	}
	return table
}

func rankedTable(title, label, value string, rows []dto.Ranked) export.Table {
	table := export.Table{Title: title, Headers: []string{label, value, "Records"}}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{row.Label, formatFloat(row.Value), strconv.Itoa(row.Count)})
	}
	return table
}

func amountTable(title, label string, rows []reporting.AmountBreakdown) export.Table {
	table := export.Table{Title: title, Headers: []string{label, "Payments", "Amount"}}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{row.Label, strconv.Itoa(row.Count), formatFloat(row.Total)})
	}
	return table
}

func breakdownCells(b reporting.Breakdown, keys []string) []string {
	cells := make([]string, 0, len(keys)+2)
	cells = append(cells, b.Label, strconv.Itoa(b.Total))
	for _, key := range keys {
		cells = append(cells, strconv.Itoa(b.Counts[key]))
	}
	return cells
}

func windowSuffix(window *reporting.Window) string {
	if window == nil {
		return ""
	}
	return fmt.Sprintf(" (%s to %s)", window.From.Format(models.DateLayout), window.To.Format(models.DateLayout))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
