package seed

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/tutoring-reports-api/internal/models"
)

var seedNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

func testOptions() Options {
	return Options{Seed: 7, Students: 24, Teachers: 4, Password: "secret", Now: seedNow, Weeks: 6, BcryptCost: bcrypt.MinCost}
}

func TestWeightedPick(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	only := []Weighted[string]{{Value: "never", Weight: 0}, {Value: "always", Weight: 3}, {Value: "negative", Weight: -2}}
	for i := 0; i < 200; i++ {
		assert.Equal(t, "always", WeightedPick(r, only))
	}
	assert.Equal(t, "", WeightedPick(r, []Weighted[string]{}))
	assert.Equal(t, "", WeightedPick(r, []Weighted[string]{{Value: "x", Weight: 0}}))

	counts := map[string]int{}
	split := []Weighted[string]{{Value: "rare", Weight: 1}, {Value: "common", Weight: 3}}
	for i := 0; i < 10000; i++ {
		counts[WeightedPick(r, split)]++
	}
	share := float64(counts["rare"]) / 10000
	assert.InDelta(t, 0.25, share, 0.03)
}

func TestMapSessionFormat(t *testing.T) {
	cases := map[string]models.SessionType{
		"online":    models.SessionTypeLive,
		"virtual":   models.SessionTypeLive,
		"zoom":      models.SessionTypeLive,
		"in_person": models.SessionTypeLive,
		"hybrid":    models.SessionTypeLive,
		"recorded":  models.SessionTypeRecorded,
		"on_demand": models.SessionTypeRecorded,
		" Video ":   models.SessionTypeRecorded,
		"carrier":   models.SessionTypeLive,
		"":          models.SessionTypeLive,
	}
	for format, want := range cases {
		assert.Equal(t, want, MapSessionFormat(format), format)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	first, err := Generate(testOptions())
	require.NoError(t, err)
	second, err := Generate(testOptions())
	require.NoError(t, err)

	assert.Equal(t, first.Children, second.Children)
	assert.Equal(t, first.ProgramEnrollments, second.ProgramEnrollments)
	assert.Equal(t, first.Attendances, second.Attendances)
	assert.Equal(t, first.ExamResults, second.ExamResults)
	assert.Equal(t, first.Invoices, second.Invoices)
	assert.Equal(t, first.Payments, second.Payments)

	opts := testOptions()
	opts.Seed = 8
	other, err := Generate(opts)
	require.NoError(t, err)
	assert.NotEqual(t, first.Children, other.Children)
}

func TestGenerateIsReferentiallyConsistent(t *testing.T) {
	data, err := Generate(testOptions())
	require.NoError(t, err)

	assert.Len(t, data.Children, 24)
	assert.Len(t, data.Users, 4)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(data.Users[0].Password), []byte("secret")))

	current := 0
	for _, year := range data.AcademicYears {
		if year.IsCurrent {
			current++
			assert.False(t, seedNow.Before(year.StartDate))
			assert.True(t, seedNow.Before(year.EndDate))
		}
	}
	assert.Equal(t, 1, current)

	subjects := map[int64]bool{}
	for _, subject := range data.Subjects {
		subjects[subject.ID] = true
	}
	children := map[int64]bool{}
	for _, child := range data.Children {
		children[child.ID] = true
	}
	sessions := map[int64]bool{}
	for _, session := range data.Sessions {
		require.NotNil(t, session.SubjectID)
		assert.True(t, subjects[*session.SubjectID])
		assert.True(t, session.StartTime.Before(seedNow))
		sessions[session.ID] = true
	}
	require.NotEmpty(t, data.Attendances)

	seen := map[[2]int64]bool{}
	for _, attendance := range data.Attendances {
		assert.True(t, sessions[*attendance.SessionID])
		assert.True(t, children[*attendance.ChildProfileID])
		assert.True(t, attendance.Status.Valid())
		key := [2]int64{*attendance.SessionID, *attendance.ChildProfileID}
		assert.False(t, seen[key], "duplicate attendance")
		seen[key] = true
	}

	for _, result := range data.ExamResults {
		assert.GreaterOrEqual(t, result.Score, 0.0)
		assert.LessOrEqual(t, result.Score, 100.0)
	}

	invoices := map[int64]models.Invoice{}
	numbers := map[string]bool{}
	for _, invoice := range data.Invoices {
		invoices[invoice.ID] = invoice
		assert.False(t, numbers[invoice.InvoiceNumber])
		numbers[invoice.InvoiceNumber] = true
		assert.False(t, invoice.InvoiceDate.After(seedNow))
	}
	for _, payment := range data.Payments {
		invoice, ok := invoices[*payment.InvoiceID]
		require.True(t, ok)
		switch invoice.Status {
		case models.InvoiceStatusPaid:
			assert.Equal(t, invoice.Amount, payment.Amount)
			assert.NotNil(t, invoice.PaidDate)
		case models.InvoiceStatusPartiallyPaid:
			assert.Less(t, payment.Amount, invoice.Amount)
			assert.Greater(t, payment.Amount, 0.0)
		default:
			t.Fatalf("payment for %s invoice", invoice.Status)
		}
	}
}

func newSeedMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestWriterWritesInOneTransaction(t *testing.T) {
	db, mock := newSeedMock(t)
	data := &Dataset{
		Users:         []models.User{{ID: 1, Name: "Ana Putri", Email: "teacher1@tutoring.test", Password: "hash", CreatedAt: seedNow}},
		AcademicYears: []models.AcademicYear{{ID: 1, Name: "2023/2024", StartDate: seedNow, EndDate: seedNow, IsCurrent: true}},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`TRUNCATE users, academic_years, .* RESTART IDENTITY CASCADE`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO users \(id, name, email, password, created_at\) VALUES`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`SELECT setval\(pg_get_serial_sequence\('users', 'id'\)`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO academic_years`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`SELECT setval\(pg_get_serial_sequence\('academic_years', 'id'\)`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, NewWriter(db, zap.NewNop()).Write(context.Background(), data))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriterRollsBackOnFailure(t *testing.T) {
	db, mock := newSeedMock(t)
	data := &Dataset{Curricula: []models.Curriculum{{ID: 1, Name: "Cambridge Primary", Code: "CAM"}}}

	mock.ExpectBegin()
	mock.ExpectExec(`TRUNCATE`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO curricula`).WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	err := NewWriter(db, nil).Write(context.Background(), data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert curricula")
	assert.NoError(t, mock.ExpectationsWereMet())
}
