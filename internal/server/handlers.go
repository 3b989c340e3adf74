package server

import (
	"net/http"
	"strconv"

	stderrors "medscreen-gateway/internal/common/errors"
	"medscreen-gateway/internal/forms"
	"medscreen-gateway/internal/screening"

	"github.com/gin-gonic/gin"
)

// conditionSummary is the discovery listing entry. Enabled reflects the
// deployment config, not the registry.
type conditionSummary struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Method      string `json:"method"`
	Enabled     bool   `json:"enabled"`
}

type screeningRequest struct {
	Fields forms.FormState `json:"fields"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": s.cfg.App.Name,
		"version": s.cfg.App.Version,
	})
}

func (s *Server) handleReady(c *gin.Context) {
	checks := gin.H{}
	ready := true

	if s.postgres != nil {
		if err := s.postgres.Ping(c.Request.Context()); err != nil {
			checks["postgres"] = err.Error()
			ready = false
		} else {
			checks["postgres"] = "ok"
		}
	}
	if s.redis != nil {
		if err := s.redis.Ping(c.Request.Context()); err != nil {
			checks["redis"] = err.Error()
			ready = false
		} else {
			checks["redis"] = "ok"
		}
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"ready": ready, "checks": checks})
}

func (s *Server) handleListConditions(c *gin.Context) {
	defs := s.svc.Registry().All()
	out := make([]conditionSummary, 0, len(defs))
	for _, def := range defs {
		out = append(out, conditionSummary{
			Slug:        def.Slug,
			Title:       def.Title,
			Description: def.Description,
			Method:      string(def.Method),
			Enabled:     s.cfg.Conditions[def.Slug].Enabled,
		})
	}
	c.JSON(http.StatusOK, gin.H{"conditions": out})
}

func (s *Server) handleConditionSchema(c *gin.Context) {
	slug := c.Param("slug")
	def, ok := s.svc.Registry().Get(slug)
	if !ok {
		s.writeError(c, stderrors.NewConditionNotFoundError(slug))
		return
	}
	c.JSON(http.StatusOK, def)
}

// handleCreateScreening dispatches on the request content type: image
// conditions submit multipart form data, everything else a JSON body of
// form field values.
func (s *Server) handleCreateScreening(c *gin.Context) {
	slug := c.Param("slug")

	if c.ContentType() == "multipart/form-data" {
		s.createImageScreening(c, slug)
		return
	}

	var req screeningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, stderrors.NewValidationFailedError(map[string]string{
			"body": "request body must be a JSON object with a fields map",
		}))
		return
	}

	pred, err := s.svc.Screen(c.Request.Context(), slug, req.Fields)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pred)
}

func (s *Server) createImageScreening(c *gin.Context, slug string) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		s.writeError(c, stderrors.NewFileMissingError())
		return
	}
	defer file.Close()

	upload := screening.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        file,
	}

	pred, err := s.svc.ScreenImage(c.Request.Context(), slug, upload)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pred)
}

func (s *Server) handleRecentScreenings(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			s.writeError(c, stderrors.NewValidationFailedError(map[string]string{
				"limit": "limit must be an integer between 1 and 100",
			}))
			return
		}
		limit = parsed
	}

	var (
		rows interface{}
		err  error
	)
	if condition := c.Query("condition"); condition != "" {
		if _, ok := s.svc.Registry().Get(condition); !ok {
			s.writeError(c, stderrors.NewConditionNotFoundError(condition))
			return
		}
		rows, err = s.svc.Store().RecentByCondition(c.Request.Context(), condition, limit)
	} else {
		rows, err = s.svc.Store().Recent(c.Request.Context(), limit)
	}
	if err != nil {
		s.logger.WithError(err).Error("recent screenings query failed", nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{
			"code":    "AUDIT_READ_FAILED",
			"message": "Could not load recent screenings",
		}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"screenings": rows})
}

func (s *Server) writeError(c *gin.Context, err error) {
	stdErr := stderrors.AsStandardError(err)
	c.JSON(stderrors.HTTPStatus(stdErr.Code), gin.H{"error": stdErr})
}
