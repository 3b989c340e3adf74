package screening

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medscreen-gateway/internal/cache"
	"medscreen-gateway/internal/common/config"
	stderrors "medscreen-gateway/internal/common/errors"
	"medscreen-gateway/internal/common/logger"
	"medscreen-gateway/internal/conditions"
	"medscreen-gateway/internal/forms"
	"medscreen-gateway/internal/inference"
	"medscreen-gateway/internal/models"
	"medscreen-gateway/internal/store"
)

func validAnemiaForm() forms.FormState {
	return forms.FormState{
		"Gender":     "0",
		"Hemoglobin": "9.0",
		"MCH":        "27",
		"MCHC":       "33",
		"MCV":        "85",
	}
}

func newTestService(t *testing.T, upstreamURL string, predCache *cache.PredictionCache) (*Service, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		Conditions: map[string]config.ConditionConfig{
			"anemia":        {Enabled: true, BaseURL: upstreamURL, Path: "/predict", Timeout: 5000},
			"pcos":          {Enabled: true, BaseURL: upstreamURL, Path: "/predict", Timeout: 5000},
			"breast-cancer": {Enabled: true, BaseURL: upstreamURL, Path: "/predict", Timeout: 5000},
			"thyroid":       {Enabled: false},
		},
	}

	log := logger.NewTestLogger(t)
	svc := NewService(Dependencies{
		Registry: conditions.NewRegistry(conditions.Defaults()...),
		Config:   cfg,
		Client:   inference.NewClient(0, log),
		Cache:    predCache,
		Store:    store.NewScreeningStore(db),
		Logger:   log,
	})
	return svc, mock
}

func TestScreen_Success(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)
		w.Write([]byte(`{"risk_level":"High","probability":0.82,"recommendation":"Consult a doctor"}`))
	}))
	defer upstream.Close()

	svc, mock := newTestService(t, upstream.URL, nil)
	mock.ExpectExec("INSERT INTO screenings").WillReturnResult(sqlmock.NewResult(1, 1))

	pred, err := svc.Screen(context.Background(), "anemia", validAnemiaForm())

	require.NoError(t, err)
	assert.NotEmpty(t, pred.ID)
	assert.Equal(t, "anemia", pred.Condition)
	assert.Equal(t, models.RiskHigh, pred.RiskLevel)
	assert.Equal(t, 82, pred.Probability)
	assert.Equal(t, "Consult a doctor", pred.Diagnosis)
	assert.False(t, pred.Cached)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScreen_ValidationFailureSkipsUpstream(t *testing.T) {
	var calls int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer upstream.Close()

	svc, _ := newTestService(t, upstream.URL, nil)

	state := validAnemiaForm()
	state["Hemoglobin"] = "abc"
	delete(state, "MCV")

	_, err := svc.Screen(context.Background(), "anemia", state)

	require.Error(t, err)
	stdErr := stderrors.AsStandardError(err)
	assert.Equal(t, stderrors.ErrCodeValidationFailed, stdErr.Code)
	assert.Equal(t, "Hemoglobin must be a number", stdErr.Fields["Hemoglobin"])
	assert.Equal(t, "Mean Corpuscular Volume is required", stdErr.Fields["MCV"])
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

// "NaN" parses as a float but must fail validation like any other
// non-numeric string; it must never reach the upstream call, where it would
// surface as a bogus transport error.
func TestScreen_NaNInputFailsValidation(t *testing.T) {
	var calls int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer upstream.Close()

	svc, _ := newTestService(t, upstream.URL, nil)

	state := validAnemiaForm()
	state["Hemoglobin"] = "NaN"

	_, err := svc.Screen(context.Background(), "anemia", state)

	require.Error(t, err)
	stdErr := stderrors.AsStandardError(err)
	assert.Equal(t, stderrors.ErrCodeValidationFailed, stdErr.Code)
	assert.Equal(t, "Hemoglobin must be a number", stdErr.Fields["Hemoglobin"])
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestScreen_UnknownCondition(t *testing.T) {
	svc, _ := newTestService(t, "http://localhost:0", nil)

	_, err := svc.Screen(context.Background(), "diabetes", forms.FormState{})

	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeConditionNotFound, stderrors.AsStandardError(err).Code)
}

func TestScreen_DisabledCondition(t *testing.T) {
	svc, _ := newTestService(t, "http://localhost:0", nil)

	_, err := svc.Screen(context.Background(), "thyroid", forms.FormState{})

	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeConditionDisabled, stderrors.AsStandardError(err).Code)
}

func TestScreen_ImageConditionRejectsFormSubmission(t *testing.T) {
	svc, _ := newTestService(t, "http://localhost:0", nil)

	_, err := svc.Screen(context.Background(), "breast-cancer", forms.FormState{})

	require.Error(t, err)
	stdErr := stderrors.AsStandardError(err)
	assert.Equal(t, stderrors.ErrCodeValidationFailed, stdErr.Code)
	assert.Contains(t, stdErr.Fields["image"], "requires an image upload")
}

func TestScreen_CacheHitSkipsSecondUpstreamCall(t *testing.T) {
	var calls int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"risk_level":"Low","probability":0.12}`))
	}))
	defer upstream.Close()

	mr := miniredis.RunT(t)
	redisClient := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	predCache := cache.NewPredictionCache(redisClient, time.Minute, logger.NewTestLogger(t))

	svc, mock := newTestService(t, upstream.URL, predCache)
	mock.ExpectExec("INSERT INTO screenings").WillReturnResult(sqlmock.NewResult(1, 1))

	first, err := svc.Screen(context.Background(), "anemia", validAnemiaForm())
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.Screen(context.Background(), "anemia", validAnemiaForm())
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.RiskLevel, second.RiskLevel)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScreen_AuditFailureDoesNotFailScreening(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"risk_level":"Borderline","probability":0.5}`))
	}))
	defer upstream.Close()

	svc, mock := newTestService(t, upstream.URL, nil)
	mock.ExpectExec("INSERT INTO screenings").WillReturnError(assert.AnError)

	pred, err := svc.Screen(context.Background(), "anemia", validAnemiaForm())

	require.NoError(t, err)
	assert.Equal(t, models.RiskModerate, pred.RiskLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScreenImage_Success(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("image")
		require.NoError(t, err)
		assert.Equal(t, "scan.png", header.Filename)
		w.Write([]byte(`{"risk_level":"High","probability":0.91,"classification":"malignant","diagnosis":"Malignant mass detected"}`))
	}))
	defer upstream.Close()

	svc, mock := newTestService(t, upstream.URL, nil)
	mock.ExpectExec("INSERT INTO screenings").WillReturnResult(sqlmock.NewResult(1, 1))

	pred, err := svc.ScreenImage(context.Background(), "breast-cancer", ImageUpload{
		Filename:    "scan.png",
		ContentType: "image/png",
		Size:        14,
		Data:        strings.NewReader("fake png bytes"),
	})

	require.NoError(t, err)
	assert.Equal(t, models.RiskHigh, pred.RiskLevel)
	assert.Equal(t, "malignant", pred.Classification)
	assert.Equal(t, 91, pred.Probability)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScreenImage_GateRunsBeforeUpstream(t *testing.T) {
	var calls int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer upstream.Close()

	svc, _ := newTestService(t, upstream.URL, nil)

	tests := []struct {
		name     string
		upload   ImageUpload
		wantCode stderrors.ErrorCode
	}{
		{
			name: "unsupported content type",
			upload: ImageUpload{
				Filename: "notes.txt", ContentType: "text/plain",
				Size: 10, Data: strings.NewReader("plain text"),
			},
			wantCode: stderrors.ErrCodeUnsupportedMedia,
		},
		{
			name: "over the size ceiling",
			upload: ImageUpload{
				Filename: "huge.png", ContentType: "image/png",
				Size: MaxUploadBytes + 1, Data: strings.NewReader("x"),
			},
			wantCode: stderrors.ErrCodeFileTooLarge,
		},
		{
			name:     "missing file",
			upload:   ImageUpload{Filename: "", ContentType: "", Size: 0, Data: nil},
			wantCode: stderrors.ErrCodeFileMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ScreenImage(context.Background(), "breast-cancer", tt.upload)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, stderrors.AsStandardError(err).Code)
		})
	}

	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestScreenImage_FormConditionRejectsUpload(t *testing.T) {
	svc, _ := newTestService(t, "http://localhost:0", nil)

	_, err := svc.ScreenImage(context.Background(), "anemia", ImageUpload{
		Filename: "scan.png", ContentType: "image/png",
		Size: 10, Data: strings.NewReader("fake"),
	})

	require.Error(t, err)
	stdErr := stderrors.AsStandardError(err)
	assert.Equal(t, stderrors.ErrCodeValidationFailed, stdErr.Code)
	assert.Contains(t, stdErr.Fields["image"], "does not accept image uploads")
}
