// Package inference talks to the per-condition ML inference services. The
// services are opaque: one POST per screening, JSON or multipart, and a
// JSON body back with a categorical risk label.
package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"time"

	stderrors "medscreen-gateway/internal/common/errors"
	commonhttp "medscreen-gateway/internal/common/http"
	"medscreen-gateway/internal/common/logger"

	"github.com/xeipuuv/gojsonschema"
)

// maxResponseBytes bounds how much of an upstream body we are willing to
// read; inference responses are small JSON documents.
const maxResponseBytes = 1 << 20

type Client struct {
	http   *commonhttp.Client
	logger logger.Logger
	schema *gojsonschema.Schema
}

func NewClient(timeout time.Duration, log logger.Logger) *Client {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(responseSchema))
	if err != nil {
		// The schema is a compile-time constant; failing to parse it is a
		// programming error, not a runtime condition.
		panic(fmt.Sprintf("inference: invalid response schema: %v", err))
	}

	return &Client{
		http:   commonhttp.NewClient(timeout),
		logger: log,
		schema: schema,
	}
}

// PredictJSON posts a JSON feature payload to the given endpoint and
// decodes the prediction.
func (c *Client) PredictJSON(ctx context.Context, condition, endpoint string, payload map[string]interface{}) (*Response, error) {
	resp, err := c.http.PostJSON(ctx, endpoint, payload)
	if err != nil {
		return nil, c.transportError(condition, err)
	}
	defer resp.Body.Close()

	return c.decode(condition, resp)
}

// PredictImage streams a single image as multipart form data (field name
// "image", matching the service contract) and decodes the prediction.
func (c *Client) PredictImage(ctx context.Context, condition, endpoint, filename, contentType string, image io.Reader) (*Response, error) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := createImagePart(writer, filename, contentType)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, image); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	resp, err := c.http.Post(ctx, endpoint, writer.FormDataContentType(), pr)
	if err != nil {
		return nil, c.transportError(condition, err)
	}
	defer resp.Body.Close()

	return c.decode(condition, resp)
}

func createImagePart(w *multipart.Writer, filename, contentType string) (io.Writer, error) {
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="image"; filename=%q`, filename)}
	h["Content-Type"] = []string{contentType}
	return w.CreatePart(h)
}

func (c *Client) transportError(condition string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return stderrors.NewUpstreamTimeoutError(condition)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return stderrors.NewUpstreamTimeoutError(condition)
	}
	return stderrors.NewUpstreamUnavailableError(condition, err)
}

func (c *Client) decode(condition string, resp *http.Response) (*Response, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, stderrors.NewUpstreamUnavailableError(condition, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.Unmarshal(body, &eb) // absent or unreadable error field falls through
		return nil, stderrors.NewUpstreamRejectedError(condition, eb.Error, resp.StatusCode)
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, stderrors.NewMalformedResponseError(condition, err)
	}

	c.checkShape(condition, body)

	return &out, nil
}

// checkShape validates the success body against the advisory schema. The
// result only feeds a warning log; unknown shapes are tolerated and the
// risk mapper's moderate default covers unrecognized labels.
func (c *Client) checkShape(condition string, body []byte) {
	result, err := c.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		c.logger.Warn("response shape check skipped", map[string]interface{}{
			"condition": condition,
			"error":     err.Error(),
		})
		return
	}

	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		c.logger.Warn("unexpected response shape from inference service", map[string]interface{}{
			"condition": condition,
			"issues":    issues,
		})
	}
}
