// Package screening implements the shared predictor pipeline every
// condition runs through: validate the form, build the feature payload,
// call the inference service, normalize the result, and record it. The
// per-condition variation lives entirely in conditions.Definition.
package screening

import (
	"context"
	"encoding/json"
	"time"

	"medscreen-gateway/internal/cache"
	"medscreen-gateway/internal/common/config"
	stderrors "medscreen-gateway/internal/common/errors"
	"medscreen-gateway/internal/common/logger"
	"medscreen-gateway/internal/common/metrics"
	"medscreen-gateway/internal/common/observability"
	"medscreen-gateway/internal/conditions"
	"medscreen-gateway/internal/events"
	"medscreen-gateway/internal/forms"
	"medscreen-gateway/internal/inference"
	"medscreen-gateway/internal/models"
	"medscreen-gateway/internal/store"

	"github.com/google/uuid"
)

type Service struct {
	registry *conditions.Registry
	cfg      *config.Config
	client   *inference.Client
	cache    *cache.PredictionCache
	store    *store.ScreeningStore
	events   *events.Indexer
	obs      *observability.Observability
	logger   logger.Logger
}

type Dependencies struct {
	Registry *conditions.Registry
	Config   *config.Config
	Client   *inference.Client
	Cache    *cache.PredictionCache
	Store    *store.ScreeningStore
	Events   *events.Indexer
	Obs      *observability.Observability
	Logger   logger.Logger
}

func NewService(deps Dependencies) *Service {
	return &Service{
		registry: deps.Registry,
		cfg:      deps.Config,
		client:   deps.Client,
		cache:    deps.Cache,
		store:    deps.Store,
		events:   deps.Events,
		obs:      deps.Obs,
		logger:   deps.Logger,
	}
}

// Registry exposes the condition definitions for the API surface.
func (s *Service) Registry() *conditions.Registry {
	return s.registry
}

// Store exposes the audit store for the API surface.
func (s *Service) Store() *store.ScreeningStore {
	return s.store
}

// Screen runs one JSON-based screening. Exactly one upstream call is made
// per invocation; nothing is retried, the user resubmits.
func (s *Service) Screen(ctx context.Context, slug string, state forms.FormState) (*models.Prediction, error) {
	def, cond, err := s.resolve(slug)
	if err != nil {
		return nil, err
	}
	if def.Method != conditions.MethodJSON {
		return nil, stderrors.NewValidationFailedError(map[string]string{
			"image": "this condition requires an image upload",
		})
	}

	if errs := forms.Validate(state, def.Fields); len(errs) > 0 {
		metrics.ScreeningsFailed.WithLabelValues(slug, string(stderrors.ErrCodeValidationFailed)).Inc()
		return nil, stderrors.NewValidationFailedError(errs)
	}

	payload := forms.BuildPayload(state, def.Fields)

	if cached := s.cache.Get(ctx, slug, payload); cached != nil {
		metrics.CacheHits.WithLabelValues(slug).Inc()
		s.obs.RecordScreening(ctx, slug, "cached")
		return cached, nil
	}

	start := time.Now()
	resp, err := s.callJSON(ctx, slug, cond, payload)
	if err != nil {
		s.recordFailure(ctx, slug, err)
		return nil, err
	}

	pred := s.normalize(slug, resp)
	s.finish(ctx, slug, pred, payload, start)

	s.cache.Put(ctx, slug, payload, pred)

	return pred, nil
}

func (s *Service) callJSON(ctx context.Context, slug string, cond config.ConditionConfig, payload map[string]interface{}) (*inference.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, config.GetDuration(cond.Timeout))
	defer cancel()

	metrics.UpstreamInFlight.WithLabelValues(slug).Inc()
	defer metrics.UpstreamInFlight.WithLabelValues(slug).Dec()

	return s.client.PredictJSON(ctx, slug, cond.Endpoint(), payload)
}

func (s *Service) resolve(slug string) (conditions.Definition, config.ConditionConfig, error) {
	def, ok := s.registry.Get(slug)
	if !ok {
		return conditions.Definition{}, config.ConditionConfig{}, stderrors.NewConditionNotFoundError(slug)
	}

	cond := config.GetConditionConfig(s.cfg, slug)
	if !cond.Enabled {
		return conditions.Definition{}, config.ConditionConfig{}, stderrors.NewConditionDisabledError(slug)
	}

	return def, cond, nil
}

// normalize maps the raw upstream body onto the display result. The
// moderate default for unknown risk labels is applied inside
// models.RiskFromUpstream.
func (s *Service) normalize(slug string, resp *inference.Response) *models.Prediction {
	diagnosis := resp.Diagnosis
	if diagnosis == "" {
		diagnosis = resp.Recommendation
	}

	return &models.Prediction{
		ID:              uuid.NewString(),
		Condition:       slug,
		RiskLevel:       models.RiskFromUpstream(resp.RiskLevel),
		Probability:     models.ProbabilityPercent(resp.Probability),
		Diagnosis:       diagnosis,
		PredictionLabel: resp.PredictionLabel,
		Classification:  resp.Classification,
		ModelVersion:    resp.ModelVersion,
		CreatedAt:       time.Now().UTC(),
	}
}

// finish records metrics and the audit trail for a completed screening.
// Audit failures are logged, never propagated: a usable prediction beats a
// complete trail.
func (s *Service) finish(ctx context.Context, slug string, pred *models.Prediction, payload map[string]interface{}, start time.Time) {
	metrics.ScreeningsCompleted.WithLabelValues(slug, string(pred.RiskLevel)).Inc()
	metrics.ScreeningDuration.WithLabelValues(slug).Observe(time.Since(start).Seconds())
	s.obs.RecordScreening(ctx, slug, "completed")
	s.obs.RecordScreeningDuration(ctx, slug, time.Since(start))

	encoded, _ := json.Marshal(payload)
	row := &store.Screening{
		ID:          pred.ID,
		Condition:   slug,
		Payload:     encoded,
		RiskLevel:   pred.RiskLevel,
		Probability: pred.Probability,
		Diagnosis:   pred.Diagnosis,
		CreatedAt:   pred.CreatedAt,
	}
	if err := s.store.Insert(ctx, row); err != nil {
		auditErr := stderrors.NewAuditWriteFailedError(err)
		s.logger.Warn(auditErr.Message, map[string]interface{}{
			"screeningId": pred.ID,
			"condition":   slug,
			"error":       err.Error(),
		})
	}

	s.events.IndexScreening(ctx, pred)

	s.logger.Info("screening completed", map[string]interface{}{
		"screeningId": pred.ID,
		"condition":   slug,
		"riskLevel":   pred.RiskLevel,
		"probability": pred.Probability,
	})
}

func (s *Service) recordFailure(ctx context.Context, slug string, err error) {
	stdErr := stderrors.AsStandardError(err)
	metrics.ScreeningsFailed.WithLabelValues(slug, string(stdErr.Code)).Inc()
	s.obs.RecordScreening(ctx, slug, "failed")
	s.logger.WithError(err).Warn("screening failed", map[string]interface{}{
		"condition": slug,
		"errorCode": stdErr.Code,
	})
}
