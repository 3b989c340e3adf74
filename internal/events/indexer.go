// Package events indexes completed screenings into Elasticsearch for
// search and analytics. Indexing is best-effort: failures are logged and
// never surfaced to the caller.
package events

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"medscreen-gateway/internal/common/database"
	"medscreen-gateway/internal/common/logger"
	"medscreen-gateway/internal/models"
)

type ScreeningEvent struct {
	ScreeningID string           `json:"screening_id"`
	Condition   string           `json:"condition"`
	RiskLevel   models.RiskLevel `json:"risk_level"`
	Probability int              `json:"probability"`
	Cached      bool             `json:"cached"`
	Timestamp   time.Time        `json:"@timestamp"`
}

type Indexer struct {
	es     *database.ElasticsearchClient
	index  string
	logger logger.Logger
}

func NewIndexer(es *database.ElasticsearchClient, index string, log logger.Logger) *Indexer {
	return &Indexer{es: es, index: index, logger: log}
}

// IndexScreening pushes one screening event. Nil indexers (events
// disabled) are a no-op so callers need no enabled checks.
func (i *Indexer) IndexScreening(ctx context.Context, pred *models.Prediction) {
	if i == nil || i.es == nil {
		return
	}

	event := ScreeningEvent{
		ScreeningID: pred.ID,
		Condition:   pred.Condition,
		RiskLevel:   pred.RiskLevel,
		Probability: pred.Probability,
		Cached:      pred.Cached,
		Timestamp:   pred.CreatedAt,
	}

	body, err := json.Marshal(event)
	if err != nil {
		return
	}

	if err := i.es.Index(ctx, i.index, pred.ID, bytes.NewReader(body)); err != nil {
		i.logger.Warn("screening event indexing failed", map[string]interface{}{
			"screeningId": pred.ID,
			"condition":   pred.Condition,
			"error":       err.Error(),
		})
	}
}
