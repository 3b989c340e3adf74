package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medscreen-gateway/internal/common/logger"
	"medscreen-gateway/internal/models"
)

func newTestCache(t *testing.T) (*PredictionCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	return NewPredictionCache(client, time.Minute, logger.NewTestLogger(t)), mr
}

func TestKey_StableAcrossMapOrder(t *testing.T) {
	a := map[string]interface{}{"age": 30.0, "bmi": 24.5}
	b := map[string]interface{}{"bmi": 24.5, "age": 30.0}

	assert.Equal(t, Key("pcos", a), Key("pcos", b))
	assert.NotEqual(t, Key("pcos", a), Key("anemia", a))
	assert.NotEqual(t, Key("pcos", a), Key("pcos", map[string]interface{}{"age": 31.0, "bmi": 24.5}))
}

func TestGetPut_RoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	payload := map[string]interface{}{"Hemoglobin": 9.0}

	assert.Nil(t, c.Get(ctx, "anemia", payload))

	pred := &models.Prediction{
		ID:          "scr-1",
		Condition:   "anemia",
		RiskLevel:   models.RiskHigh,
		Probability: 82,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	c.Put(ctx, "anemia", payload, pred)

	got := c.Get(ctx, "anemia", payload)
	require.NotNil(t, got)
	assert.Equal(t, "scr-1", got.ID)
	assert.Equal(t, models.RiskHigh, got.RiskLevel)
	assert.True(t, got.Cached)
}

func TestGet_ExpiredEntryMisses(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	payload := map[string]interface{}{"age": 30.0}

	c.Put(ctx, "pcos", payload, &models.Prediction{ID: "scr-2", RiskLevel: models.RiskLow})
	mr.FastForward(2 * time.Minute)

	assert.Nil(t, c.Get(ctx, "pcos", payload))
}

func TestGet_CorruptEntryMisses(t *testing.T) {
	c, mr := newTestCache(t)
	payload := map[string]interface{}{"age": 30.0}

	require.NoError(t, mr.Set(Key("pcos", payload), "not json"))

	assert.Nil(t, c.Get(context.Background(), "pcos", payload))
}

// Redis being down must read as a miss, never as a failed screening.
func TestGet_RedisErrorTreatedAsMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewPredictionCache(client, time.Minute, logger.NewTestLogger(t))
	payload := map[string]interface{}{"age": 30.0}

	mock.ExpectGet(Key("pcos", payload)).SetErr(errors.New("connection reset"))

	assert.Nil(t, c.Get(context.Background(), "pcos", payload))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPut_RedisErrorIsSwallowed(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewPredictionCache(client, time.Minute, logger.NewTestLogger(t))
	payload := map[string]interface{}{"age": 30.0}

	pred := &models.Prediction{ID: "scr-4", RiskLevel: models.RiskLow}
	data, err := json.Marshal(pred)
	require.NoError(t, err)
	mock.ExpectSet(Key("pcos", payload), data, time.Minute).SetErr(errors.New("connection reset"))

	c.Put(context.Background(), "pcos", payload, pred)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNilCacheIsNoOp(t *testing.T) {
	var c *PredictionCache
	payload := map[string]interface{}{"age": 30.0}

	assert.Nil(t, c.Get(context.Background(), "pcos", payload))
	c.Put(context.Background(), "pcos", payload, &models.Prediction{ID: "scr-3"})
}
