package service

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/tutoring-reports-api/internal/dto"
	"github.com/noah-isme/tutoring-reports-api/internal/models"
	appErrors "github.com/noah-isme/tutoring-reports-api/pkg/errors"
)

func registerReportValidations(validate *validator.Validate) {
	validate.RegisterStructValidation(validateDateRange, models.DateRangeFilter{})
}

// validateDateRange rejects explicit ranges that end before they start.
func validateDateRange(sl validator.StructLevel) {
	f := sl.Current().Interface().(models.DateRangeFilter)
	if !f.IsCustom() || f.StartDate == nil || f.EndDate == nil {
		return
	}
	if f.EndDate.Before(*f.StartDate) {
		sl.ReportError(f.EndDate, "EndDate", "end_date", "gtefield", "start_date")
	}
}

// validateExportRequest maps validation failures onto API errors.
func (s *ReportService) validateExportRequest(req dto.ExportRequest) error {
	err := s.validator.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}
	for _, fe := range verrs {
		if fe.Field() == "Format" {
			return appErrors.Clone(appErrors.ErrUnsupportedFormat, "format must be csv or pdf")
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "unknown report type")
}
