package reporting

import "github.com/noah-isme/tutoring-reports-api/internal/models"

// Difficulty labels an exam by its average score.
type Difficulty string

const (
	DifficultyEasy      Difficulty = "Easy"
	DifficultyModerate  Difficulty = "Moderate"
	DifficultyDifficult Difficulty = "Difficult"
)

// DifficultyFor maps an average onto Easy >= 80, Moderate >= 60, Difficult below.
func DifficultyFor(average float64) Difficulty {
	switch {
	case average >= 80:
		return DifficultyEasy
	case average >= models.PassMark:
		return DifficultyModerate
	default:
		return DifficultyDifficult
	}
}

// GradeKeys lists the grade bands A..F as classifier keys.
func GradeKeys() []string {
	keys := make([]string, len(models.GradeBands))
	for i, band := range models.GradeBands {
		keys[i] = string(band)
	}
	return keys
}

// GradeOf classifies a score by band.
func GradeOf(score float64) string {
	return string(models.BandForScore(score))
}
