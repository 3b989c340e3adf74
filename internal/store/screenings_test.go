package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medscreen-gateway/internal/models"
)

func newMockStore(t *testing.T) (*ScreeningStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewScreeningStore(db), mock
}

func TestInsert(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectExec("INSERT INTO screenings").
		WithArgs("scr-1", "anemia", []byte(`{"Hemoglobin":9}`), "high", 82, "Consult a doctor", now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.Insert(context.Background(), &Screening{
		ID:          "scr-1",
		Condition:   "anemia",
		Payload:     json.RawMessage(`{"Hemoglobin":9}`),
		RiskLevel:   models.RiskHigh,
		Probability: 82,
		Diagnosis:   "Consult a doctor",
		CreatedAt:   now,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_NilPayloadDefaultsToEmptyObject(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectExec("INSERT INTO screenings").
		WithArgs("scr-2", "pcos", []byte("{}"), "low", 12, "", now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.Insert(context.Background(), &Screening{
		ID:          "scr-2",
		Condition:   "pcos",
		RiskLevel:   models.RiskLow,
		Probability: 12,
		CreatedAt:   now,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecent(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "condition", "risk_level", "probability", "diagnosis", "created_at"}).
		AddRow("scr-2", "pcos", "low", 12, "", now).
		AddRow("scr-1", "anemia", "high", 82, "Consult a doctor", now.Add(-time.Minute))

	mock.ExpectQuery("SELECT id, condition, risk_level, probability, diagnosis, created_at").
		WithArgs(20).
		WillReturnRows(rows)

	out, err := s.Recent(context.Background(), 20)

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "scr-2", out[0].ID)
	assert.Equal(t, models.RiskLow, out[0].RiskLevel)
	assert.Equal(t, "anemia", out[1].Condition)
	assert.Equal(t, 82, out[1].Probability)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentByCondition(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "condition", "risk_level", "probability", "diagnosis", "created_at"}).
		AddRow("scr-3", "thyroid", "moderate", 55, "", now)

	mock.ExpectQuery("SELECT id, condition, risk_level, probability, diagnosis, created_at").
		WithArgs("thyroid", 5).
		WillReturnRows(rows)

	out, err := s.RecentByCondition(context.Background(), "thyroid", 5)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, models.RiskModerate, out[0].RiskLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecent_QueryError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, condition, risk_level, probability, diagnosis, created_at").
		WillReturnError(assert.AnError)

	_, err := s.Recent(context.Background(), 20)
	assert.Error(t, err)
}
