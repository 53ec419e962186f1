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

type createProposalRequest struct {
	ServiceScopeID        uuid.UUID      `json:"serviceScopeId" binding:"required"`
	ProposalType          string         `json:"proposalType" binding:"required"`
	DocumentLink          string         `json:"documentLink" binding:"required"`
	Version               *int           `json:"version"`
	Title                 *string        `json:"title"`
	Description           *string        `json:"description"`
	Notes                 *string        `json:"notes"`
	ProposalValue         *float64       `json:"proposalValue"`
	Currency              *string        `json:"currency"`
	EstimatedDurationDays *int           `json:"estimatedDurationDays"`
	ValidUntilDate        *time.Time     `json:"validUntilDate"`
	SubmittedAt           *time.Time     `json:"submittedAt"`
	AssigneeUserID        *uuid.UUID     `json:"assigneeUserId"`
	CustomFieldData       map[string]any `json:"customFieldData"`
}

type updateProposalRequest struct {
	ServiceScopeID        *uuid.UUID     `json:"serviceScopeId"`
	ProposalType          *string        `json:"proposalType"`
	DocumentLink          *string        `json:"documentLink"`
	Version               *int           `json:"version"`
	Title                 *string        `json:"title"`
	Description           *string        `json:"description"`
	Notes                 *string        `json:"notes"`
	ProposalValue         *float64       `json:"proposalValue"`
	Currency              *string        `json:"currency"`
	EstimatedDurationDays *int           `json:"estimatedDurationDays"`
	ValidUntilDate        *time.Time     `json:"validUntilDate"`
	SubmittedAt           *time.Time     `json:"submittedAt"`
	ApprovedAt            *time.Time     `json:"approvedAt"`
	AssigneeUserID        *uuid.UUID     `json:"assigneeUserId"`
	Status                *string        `json:"status"`
	CustomFieldData       map[string]any `json:"customFieldData"`
}

func (h *Handler) createProposal(c *gin.Context) {
	h.createProposalWithScope(c, nil)
}

// createScopedProposal serves the scope-nested route; the body's scope id
// must agree with the path.
func (h *Handler) createScopedProposal(c *gin.Context) {
	scopeID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	h.createProposalWithScope(c, &scopeID)
}

func (h *Handler) createProposalWithScope(c *gin.Context, pathScopeID *uuid.UUID) {
	var req createProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	proposal, err := h.proposals.Create(c.Request.Context(), service.CreateProposalInput{
		ServiceScopeID:        req.ServiceScopeID,
		ProposalType:          model.ProposalType(req.ProposalType),
		DocumentLink:          req.DocumentLink,
		Version:               req.Version,
		Title:                 req.Title,
		Description:           req.Description,
		Notes:                 req.Notes,
		ProposalValue:         req.ProposalValue,
		Currency:              req.Currency,
		EstimatedDurationDays: req.EstimatedDurationDays,
		ValidUntilDate:        req.ValidUntilDate,
		SubmittedAt:           req.SubmittedAt,
		AssigneeUserID:        req.AssigneeUserID,
		CustomFieldData:       req.CustomFieldData,
	}, pathScopeID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, "proposal created", proposal)
}

func (h *Handler) listProposals(c *gin.Context) {
	filter := repository.ProposalFilter{
		ServiceScopeID:    queryUUID(c, "serviceScopeId"),
		Status:            statusPtr[model.ProposalStatus](queryString(c, "status")),
		ProposalType:      statusPtr[model.ProposalType](queryString(c, "proposalType")),
		AssigneeUserID:    queryUUID(c, "assigneeUserId"),
		Currency:          queryString(c, "currency"),
		MinValue:          queryFloat(c, "minValue"),
		MaxValue:          queryFloat(c, "maxValue"),
		SubmittedDateFrom: queryTime(c, "submittedDateFrom"),
		SubmittedDateTo:   queryTime(c, "submittedDateTo"),
		Search:            derefString(queryString(c, "search")),
		SortBy:            derefString(queryString(c, "sortBy")),
		SortDirection:     derefString(queryString(c, "sortDirection")),
	}

	result, err := h.proposals.List(c.Request.Context(), filter, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse[model.Proposal]{
		Data:       result.Data,
		Count:      result.Count,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

func (h *Handler) getProposal(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	proposal, err := h.proposals.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.respond(c, http.StatusOK, "proposal", proposal)
}

func (h *Handler) updateProposal(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req updateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	proposal, err := h.proposals.Update(c.Request.Context(), id, service.UpdateProposalInput{
		ServiceScopeID:        req.ServiceScopeID,
		ProposalType:          statusPtr[model.ProposalType](req.ProposalType),
		DocumentLink:          req.DocumentLink,
		Version:               req.Version,
		Title:                 req.Title,
		Description:           req.Description,
		Notes:                 req.Notes,
		ProposalValue:         req.ProposalValue,
		Currency:              req.Currency,
		EstimatedDurationDays: req.EstimatedDurationDays,
		ValidUntilDate:        req.ValidUntilDate,
		SubmittedAt:           req.SubmittedAt,
		ApprovedAt:            req.ApprovedAt,
		AssigneeUserID:        req.AssigneeUserID,
		Status:                statusPtr[model.ProposalStatus](req.Status),
		CustomFieldData:       req.CustomFieldData,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.respond(c, http.StatusOK, "proposal updated", proposal)
}

func (h *Handler) deleteProposal(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.proposals.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	h.respond(c, http.StatusOK, "proposal deleted", nil)
}

func (h *Handler) proposalPDF(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	proposal, err := h.proposals.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	content, err := h.pdf.Generate(proposal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	fileName := "proposal-" + id.String() + ".pdf"
	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, "application/pdf", content)
}
