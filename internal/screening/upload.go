package screening

import (
	"context"
	"io"
	"time"

	"medscreen-gateway/internal/common/config"
	stderrors "medscreen-gateway/internal/common/errors"
	"medscreen-gateway/internal/common/metrics"
	"medscreen-gateway/internal/conditions"
	"medscreen-gateway/internal/inference"
	"medscreen-gateway/internal/models"
)

// MaxUploadBytes caps screening image uploads at 10 MB.
const MaxUploadBytes = 10 << 20

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/bmp":  true,
	"image/tiff": true,
}

// ImageUpload is a submitted screening image. Size is the declared size of
// the multipart part; Data is only read after the upload passes the
// acceptance gate.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        io.Reader
}

// ScreenImage runs one image-based screening. The acceptance gate checks
// content type and size before a single byte is forwarded upstream.
func (s *Service) ScreenImage(ctx context.Context, slug string, upload ImageUpload) (*models.Prediction, error) {
	def, cond, err := s.resolve(slug)
	if err != nil {
		return nil, err
	}
	if def.Method != conditions.MethodMultipart {
		return nil, stderrors.NewValidationFailedError(map[string]string{
			"image": "this condition does not accept image uploads",
		})
	}

	if err := gateUpload(upload); err != nil {
		stdErr := stderrors.AsStandardError(err)
		metrics.ScreeningsFailed.WithLabelValues(slug, string(stdErr.Code)).Inc()
		return nil, err
	}

	start := time.Now()
	resp, err := s.callImage(ctx, slug, cond, upload)
	if err != nil {
		s.recordFailure(ctx, slug, err)
		return nil, err
	}

	pred := s.normalize(slug, resp)
	s.finish(ctx, slug, pred, imageAuditPayload(upload), start)

	return pred, nil
}

func (s *Service) callImage(ctx context.Context, slug string, cond config.ConditionConfig, upload ImageUpload) (*inference.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, config.GetDuration(cond.Timeout))
	defer cancel()

	metrics.UpstreamInFlight.WithLabelValues(slug).Inc()
	defer metrics.UpstreamInFlight.WithLabelValues(slug).Dec()

	body := io.LimitReader(upload.Data, MaxUploadBytes)
	return s.client.PredictImage(ctx, slug, cond.Endpoint(), upload.Filename, upload.ContentType, body)
}

func gateUpload(upload ImageUpload) error {
	if upload.Data == nil || upload.Size == 0 {
		return stderrors.NewFileMissingError()
	}
	if !allowedImageTypes[upload.ContentType] {
		return stderrors.NewUnsupportedMediaError(upload.ContentType)
	}
	if upload.Size > MaxUploadBytes {
		return stderrors.NewFileTooLargeError(upload.Size, MaxUploadBytes)
	}
	return nil
}

// imageAuditPayload records the upload metadata in place of form fields.
// Image bytes are never persisted.
func imageAuditPayload(upload ImageUpload) map[string]interface{} {
	return map[string]interface{}{
		"image":        upload.Filename,
		"content_type": upload.ContentType,
		"size_bytes":   upload.Size,
	}
}
