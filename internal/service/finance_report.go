package service

import (
	"context"
	"strings"
	"time"

	"github.com/noah-isme/tutoring-reports-api/internal/dto"
	"github.com/noah-isme/tutoring-reports-api/internal/models"
	"github.com/noah-isme/tutoring-reports-api/internal/reporting"
)

// financeData is everything the finance report aggregates.
type financeData struct {
	payments         []models.PaymentRecord
	invoices         []models.InvoiceRecord
	previousPayments []models.PaymentRecord
}

// Finances builds the finance report. Growth compares revenue with the equal-length window just
// before the selected one. The bool reports a cache hit.
func (s *ReportService) Finances(ctx context.Context, filter models.FinanceReportFilter) (*dto.FinanceReport, bool, error) {
	started := time.Now()
	window, err := s.resolveWindow(ctx, filter.Dates)
	if err != nil {
		return nil, false, err
	}
	filter.Limit = s.limit(filter.Limit)

	key := reportCacheKey(models.ReportFinances, filter.Query(), window)
	var cached dto.FinanceReport
	if s.tryCache(ctx, key, &cached) {
		return &cached, true, nil
	}

	var data financeData
	if data.payments, err = timed(s, "payments", func() ([]models.PaymentRecord, error) {
		return s.finances.ListPayments(ctx, periodOf(window))
	}); err != nil {
		return nil, false, fetchError("payments", err)
	}
	if data.invoices, err = timed(s, "invoices", func() ([]models.InvoiceRecord, error) {
		return s.finances.ListInvoices(ctx, periodOf(window))
	}); err != nil {
		return nil, false, fetchError("invoices", err)
	}
	if window != nil {
		previous := window.Previous()
		if data.previousPayments, err = timed(s, "payments", func() ([]models.PaymentRecord, error) {
			return s.finances.ListPayments(ctx, periodOf(&previous))
		}); err != nil {
			return nil, false, fetchError("previous payments", err)
		}
	}

	report := buildFinanceReport(data, filter, window, s.cfg.Location)
	s.observe(models.ReportFinances, len(data.payments)+len(data.invoices), started)
	s.persistCache(ctx, key, report)
	return report, false, nil
}

func paymentComposer(filter models.FinanceReportFilter, window *reporting.Window) *reporting.Composer[models.PaymentRecord] {
	return reporting.NewComposer[models.PaymentRecord]().
		EqualID(filter.AcademicYearID, func(r models.PaymentRecord) *int64 { return r.AcademicYearID }).
		EqualID(filter.CurriculumID, func(r models.PaymentRecord) *int64 { return r.CurriculumID }).
		EqualID(filter.StudentID, func(r models.PaymentRecord) *int64 { return r.ChildProfileID }).
		WhereIf(filter.Status != nil, func(r models.PaymentRecord) bool {
			return r.InvoiceStatus != nil && *r.InvoiceStatus == *filter.Status
		}).
		WhereIf(filter.PaymentMethod != nil, func(r models.PaymentRecord) bool {
			return strings.EqualFold(r.PaymentMethod, *filter.PaymentMethod)
		}).
		Within(window, func(r models.PaymentRecord) *time.Time { return &r.PaymentDate })
}

// invoiceComposer ignores payment_method: invoices carry no method of their own.
func invoiceComposer(filter models.FinanceReportFilter, window *reporting.Window) *reporting.Composer[models.InvoiceRecord] {
	return reporting.NewComposer[models.InvoiceRecord]().
		EqualID(filter.AcademicYearID, func(r models.InvoiceRecord) *int64 { return r.AcademicYearID }).
		EqualID(filter.CurriculumID, func(r models.InvoiceRecord) *int64 { return r.CurriculumID }).
		EqualID(filter.StudentID, func(r models.InvoiceRecord) *int64 { return r.ChildProfileID }).
		WhereIf(filter.Status != nil, func(r models.InvoiceRecord) bool { return r.Status == *filter.Status }).
		Within(window, func(r models.InvoiceRecord) *time.Time { return &r.InvoiceDate })
}

func buildFinanceReport(data financeData, filter models.FinanceReportFilter, window *reporting.Window, loc *time.Location) *dto.FinanceReport {
	payments := paymentComposer(filter, window).Apply(data.payments)
	invoices := invoiceComposer(filter, window).Apply(data.invoices)

	revenue := reporting.SumBy(payments, paymentAmount)
	report := &dto.FinanceReport{
		Window:           window,
		Revenue:          revenue,
		PaymentCount:     reporting.TotalCount(payments),
		Payments:         reporting.Stats(payments, paymentAmount),
		InvoiceCount:     reporting.TotalCount(invoices),
		PaidInvoiceCount: countInvoices(invoices, models.InvoiceStatusPaid),
		Outstanding:      reporting.SumBy(invoices, models.InvoiceRecord.Outstanding),
		OverdueCount:     countInvoices(invoices, models.InvoiceStatusOverdue),
		Monthly: reporting.MonthlySeries(payments,
			func(r models.PaymentRecord) time.Time { return r.PaymentDate }, paymentAmount, loc),
		ByCurriculum: reporting.AmountBreakdownBy(payments, func(r models.PaymentRecord) reporting.Group {
			return relationGroup(r.CurriculumID, deref(r.CurriculumName))
		}, nil, paymentAmount, nil),
		ByPaymentMethod: reporting.AmountBreakdownBy(payments, func(r models.PaymentRecord) reporting.Group {
			return reporting.Label(strings.ToLower(strings.TrimSpace(r.PaymentMethod)))
		}, nil, paymentAmount, nil),
		InvoicesByStatus: invoicesByStatus(invoices),
		InvoicesByCurriculum: reporting.AmountBreakdownBy(invoices, func(r models.InvoiceRecord) reporting.Group {
			return relationGroup(r.CurriculumID, deref(r.CurriculumName))
		}, invoiceStatus, invoiceAmount, invoiceKeys),
		TopStudents: reporting.TopN(paymentStudentTotals(payments), rankedValue, filter.Limit, reporting.Descending),
	}
	report.CollectionRate = reporting.CollectionRate(report.PaidInvoiceCount, report.InvoiceCount)

	if window != nil {
		previous := window.Previous()
		report.PreviousWindow = &previous
		report.PreviousRevenue = reporting.SumBy(paymentComposer(filter, &previous).Apply(data.previousPayments), paymentAmount)
		report.GrowthRate = reporting.GrowthRate(report.PreviousRevenue, revenue)
	}
	return report
}

var invoiceKeys = func() []string {
	keys := make([]string, len(models.InvoiceStatuses))
	for i, status := range models.InvoiceStatuses {
		keys[i] = string(status)
	}
	return keys
}()

// invoicesByStatus rolls every invoice into one group and reads its per-status subcounts.
func invoicesByStatus(invoices []models.InvoiceRecord) []dto.InvoiceStatusTotal {
	var counts map[string]int
	var amounts map[string]float64
	rollup := reporting.AmountBreakdownBy(invoices, func(models.InvoiceRecord) reporting.Group {
		return reporting.Label("invoices")
	}, invoiceStatus, invoiceAmount, invoiceKeys)
	if len(rollup) == 1 {
		counts, amounts = rollup[0].Counts, rollup[0].Amounts
	}

	ordered := reporting.Ordered(counts, invoiceKeys)
	out := make([]dto.InvoiceStatusTotal, len(ordered))
	for i, category := range ordered {
		out[i] = dto.InvoiceStatusTotal{Status: category.Key, Count: category.Count, Amount: amounts[category.Key]}
	}
	return out
}

func paymentStudentTotals(payments []models.PaymentRecord) []dto.Ranked {
	groups := reporting.GroupBy(payments, func(r models.PaymentRecord) reporting.Group {
		return relationGroup(r.ChildProfileID, r.StudentName())
	})
	out := make([]dto.Ranked, len(groups))
	for i, g := range groups {
		out[i] = dto.Ranked{Key: g.Key, Label: g.Label, Value: reporting.SumBy(g.Records, paymentAmount), Count: len(g.Records)}
	}
	return out
}

func countInvoices(invoices []models.InvoiceRecord, status models.InvoiceStatus) int {
	count := 0
	for _, invoice := range invoices {
		if invoice.Status == status {
			count++
		}
	}
	return count
}

func paymentAmount(r models.PaymentRecord) float64 { return r.Amount }

func invoiceAmount(r models.InvoiceRecord) float64 { return r.Amount }

func invoiceStatus(r models.InvoiceRecord) string { return string(r.Status) }
