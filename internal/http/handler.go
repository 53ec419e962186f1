package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aldanj/msp-engagements/internal/excel"
	"github.com/aldanj/msp-engagements/internal/pdf"
	"github.com/aldanj/msp-engagements/internal/service"
)

type Handler struct {
	contracts *service.ContractService
	scopes    *service.ScopeService
	proposals *service.ProposalService
	excel     *excel.Generator
	pdf       *pdf.Generator
	log       zerolog.Logger
}

func NewHandler(
	contracts *service.ContractService,
	scopes *service.ScopeService,
	proposals *service.ProposalService,
	excelGen *excel.Generator,
	pdfGen *pdf.Generator,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		contracts: contracts,
		scopes:    scopes,
		proposals: proposals,
		excel:     excelGen,
		pdf:       pdfGen,
		log:       log,
	}
}

// listResponse is the uniform list envelope of every list endpoint.
type listResponse[T any] struct {
	Data       []T   `json:"data"`
	Count      int64 `json:"count"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// mutationResponse wraps every create/update/delete result.
type mutationResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

func (h *Handler) respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, mutationResponse{StatusCode: status, Message: message, Data: data})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotAllowed):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// Query-string helpers. Absent or malformed values yield nil so the filter
// key is omitted entirely; unrecognized parameters are simply never read.

func queryString(c *gin.Context, name string) *string {
	if raw, ok := c.GetQuery(name); ok && strings.TrimSpace(raw) != "" {
		trimmed := strings.TrimSpace(raw)
		return &trimmed
	}
	return nil
}

func queryUUID(c *gin.Context, name string) *uuid.UUID {
	if raw := queryString(c, name); raw != nil {
		if id, err := uuid.Parse(*raw); err == nil {
			return &id
		}
	}
	return nil
}

func queryFloat(c *gin.Context, name string) *float64 {
	if raw := queryString(c, name); raw != nil {
		if v, err := strconv.ParseFloat(*raw, 64); err == nil {
			return &v
		}
	}
	return nil
}

func queryBool(c *gin.Context, name string) *bool {
	if raw := queryString(c, name); raw != nil {
		if v, err := strconv.ParseBool(*raw); err == nil {
			return &v
		}
	}
	return nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func queryTime(c *gin.Context, name string) *time.Time {
	if raw := queryString(c, name); raw != nil {
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, *raw); err == nil {
				return &parsed
			}
		}
	}
	return nil
}

func queryInt(c *gin.Context, name string) int {
	if raw := queryString(c, name); raw != nil {
		if v, err := strconv.Atoi(*raw); err == nil {
			return v
		}
	}
	return 0
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
