package seed

import (
	"strings"

	"github.com/noah-isme/tutoring-reports-api/internal/models"
)

// sessionFormats is the scheduling vocabulary fixtures draw from.
var sessionFormats = []string{"online", "virtual", "zoom", "in_person", "hybrid", "recorded", "on_demand", "video"}

// MapSessionFormat folds a scheduling format onto the stored session type. Unknown formats are
// treated as live.
func MapSessionFormat(format string) models.SessionType {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "recorded", "on_demand", "video":
		return models.SessionTypeRecorded
	default:
		return models.SessionTypeLive
	}
}
