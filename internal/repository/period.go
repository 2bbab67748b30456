package repository

import (
	"fmt"
	"strings"

	"github.com/noah-isme/tutoring-reports-api/internal/models"
)

// appendPeriod narrows column to the period, numbering placeholders after the existing args.
func appendPeriod(builder *strings.Builder, args []interface{}, column string, period models.Period) []interface{} {
	if period.From != nil {
		args = append(args, *period.From)
		builder.WriteString(fmt.Sprintf(" AND %s >= $%d", column, len(args)))
	}
	if period.Until != nil {
		args = append(args, *period.Until)
		builder.WriteString(fmt.Sprintf(" AND %s < $%d", column, len(args)))
	}
	return args
}
