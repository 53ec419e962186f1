package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aldanj/msp-engagements/internal/model"
	"github.com/aldanj/msp-engagements/internal/repository"
	"github.com/aldanj/msp-engagements/internal/service"
)

type createScopeRequest struct {
	ServiceID           uuid.UUID      `json:"serviceId" binding:"required"`
	ScopeDetails        map[string]any `json:"scopeDetails"`
	Price               *float64       `json:"price"`
	Quantity            *int           `json:"quantity"`
	Unit                *string        `json:"unit"`
	Notes               *string        `json:"notes"`
	SAFStatus           *string        `json:"safStatus"`
	SAFServiceStartDate *time.Time     `json:"safServiceStartDate"`
	SAFServiceEndDate   *time.Time     `json:"safServiceEndDate"`
	SAFDocumentLink     *string        `json:"safDocumentLink"`
}

type updateScopeRequest struct {
	ScopeDetails        map[string]any `json:"scopeDetails"`
	Price               *float64       `json:"price"`
	Quantity            *int           `json:"quantity"`
	Unit                *string        `json:"unit"`
	Notes               *string        `json:"notes"`
	IsActive            *bool          `json:"isActive"`
	SAFStatus           *string        `json:"safStatus"`
	SAFServiceStartDate *time.Time     `json:"safServiceStartDate"`
	SAFServiceEndDate   *time.Time     `json:"safServiceEndDate"`
	SAFDocumentLink     *string        `json:"safDocumentLink"`
}

func (h *Handler) createScope(c *gin.Context) {
	contractID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req createScopeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scope, err := h.scopes.Create(c.Request.Context(), service.CreateScopeInput{
		ContractID:          contractID,
		ServiceID:           req.ServiceID,
		ScopeDetails:        req.ScopeDetails,
		Price:               req.Price,
		Quantity:            req.Quantity,
		Unit:                req.Unit,
		Notes:               req.Notes,
		SAFStatus:           statusPtr[model.SAFStatus](req.SAFStatus),
		SAFServiceStartDate: req.SAFServiceStartDate,
		SAFServiceEndDate:   req.SAFServiceEndDate,
		SAFDocumentLink:     req.SAFDocumentLink,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, "service scope created", scope)
}

func (h *Handler) listScopes(c *gin.Context) {
	filter := repository.ScopeFilter{
		ContractID:    queryUUID(c, "contractId"),
		ServiceID:     queryUUID(c, "serviceId"),
		IsActive:      queryBool(c, "isActive"),
		SAFStatus:     statusPtr[model.SAFStatus](queryString(c, "safStatus")),
		MinPrice:      queryFloat(c, "minPrice"),
		MaxPrice:      queryFloat(c, "maxPrice"),
		Search:        derefString(queryString(c, "search")),
		SortBy:        derefString(queryString(c, "sortBy")),
		SortDirection: derefString(queryString(c, "sortDirection")),
	}

	result, err := h.scopes.List(c.Request.Context(), filter, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse[model.ServiceScope]{
		Data:       result.Data,
		Count:      result.Count,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

func (h *Handler) getScope(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	scope, err := h.scopes.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.respond(c, http.StatusOK, "service scope", scope)
}

func (h *Handler) updateScope(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req updateScopeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scope, err := h.scopes.Update(c.Request.Context(), id, service.UpdateScopeInput{
		ScopeDetails:        req.ScopeDetails,
		Price:               req.Price,
		Quantity:            req.Quantity,
		Unit:                req.Unit,
		Notes:               req.Notes,
		IsActive:            req.IsActive,
		SAFStatus:           statusPtr[model.SAFStatus](req.SAFStatus),
		SAFServiceStartDate: req.SAFServiceStartDate,
		SAFServiceEndDate:   req.SAFServiceEndDate,
		SAFDocumentLink:     req.SAFDocumentLink,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.respond(c, http.StatusOK, "service scope updated", scope)
}

func (h *Handler) deleteScope(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.scopes.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	h.respond(c, http.StatusOK, "service scope deactivated", nil)
}

func (h *Handler) hardDeleteScope(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.scopes.HardDelete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	h.respond(c, http.StatusOK, "service scope deleted", nil)
}
