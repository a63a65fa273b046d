package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/volcano-status-backend/internal/domain"
	"github.com/yungbote/volcano-status-backend/internal/http/response"
	"github.com/yungbote/volcano-status-backend/internal/pkg/logger"
	"github.com/yungbote/volcano-status-backend/internal/services"
)

type VolcanoHandler struct {
	log            *logger.Logger
	volcanoService services.VolcanoService
}

func NewVolcanoHandler(log *logger.Logger, volcanoService services.VolcanoService) *VolcanoHandler {
	return &VolcanoHandler{
		log:            log.With("handler", "VolcanoHandler"),
		volcanoService: volcanoService,
	}
}

type submitObservationRequest struct {
	Name       string    `json:"name" binding:"required,min=2,max=120"`
	Province   *string   `json:"province" binding:"omitempty,max=80"`
	Latitude   *float64  `json:"latitude" binding:"required"`
	Longitude  *float64  `json:"longitude" binding:"required"`
	Level      string    `json:"level" binding:"required"`
	Source     *string   `json:"source"`
	StatusText *string   `json:"status_text"`
	ObservedAt time.Time `json:"observed_at" binding:"required"`
}

// POST /v1/volcano
// body: {name, province?, latitude, longitude, level, source?, status_text?, observed_at}
func (vh *VolcanoHandler) Submit(c *gin.Context) {
	var req submitObservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	view, err := vh.volcanoService.SubmitObservation(c.Request.Context(), domain.Observation{
		Name:       req.Name,
		Province:   req.Province,
		Latitude:   *req.Latitude,
		Longitude:  *req.Longitude,
		Level:      req.Level,
		Source:     req.Source,
		StatusText: req.StatusText,
		ObservedAt: req.ObservedAt,
	})
	if err != nil {
		vh.respondServiceError(c, err)
		return
	}
	response.RespondOK(c, view)
}

// GET /v1/volcano?level=&province=&q=&limit=
func (vh *VolcanoHandler) List(c *gin.Context) {
	var query struct {
		Level    string `form:"level"`
		Province string `form:"province"`
		Q        string `form:"q"`
		Limit    int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	views, err := vh.volcanoService.List(c.Request.Context(), query.Level, query.Province, query.Q, query.Limit)
	if err != nil {
		vh.respondServiceError(c, err)
		return
	}
	if views == nil {
		views = []*domain.VolcanoView{}
	}
	response.RespondOK(c, views)
}

// GET /v1/volcano/:id
func (vh *VolcanoHandler) GetByID(c *gin.Context) {
	volcanoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	view, err := vh.volcanoService.GetByID(c.Request.Context(), volcanoID)
	if err != nil {
		vh.respondServiceError(c, err)
		return
	}
	response.RespondOK(c, view)
}

// GET /v1/volcano/:id/history
func (vh *VolcanoHandler) History(c *gin.Context) {
	volcanoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	entries, err := vh.volcanoService.History(c.Request.Context(), volcanoID)
	if err != nil {
		vh.respondServiceError(c, err)
		return
	}
	if entries == nil {
		entries = []*domain.VolcanoStatusHistory{}
	}
	response.RespondOK(c, entries)
}

// DELETE /v1/volcano/:id
func (vh *VolcanoHandler) Delete(c *gin.Context) {
	volcanoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	if err := vh.volcanoService.Delete(c.Request.Context(), volcanoID); err != nil {
		vh.respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true, "id": volcanoID})
}

func (vh *VolcanoHandler) respondServiceError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		code := "invalid_request"
		if validationErr.Field == "level" {
			code = "invalid_level"
		}
		response.RespondError(c, http.StatusBadRequest, code, err)
	case errors.Is(err, domain.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, domain.ErrResourceExhausted):
		response.RespondError(c, http.StatusServiceUnavailable, "resource_exhausted", err)
	default:
		vh.log.Error("Unhandled service error", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
