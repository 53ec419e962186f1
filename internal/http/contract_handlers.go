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

type createContractRequest struct {
	Name               string     `json:"name" binding:"required"`
	ClientID           uuid.UUID  `json:"clientId" binding:"required"`
	StartDate          time.Time  `json:"startDate" binding:"required"`
	EndDate            time.Time  `json:"endDate" binding:"required"`
	RenewalDate        *time.Time `json:"renewalDate"`
	Value              *float64   `json:"value"`
	DocumentLink       *string    `json:"documentLink"`
	Notes              *string    `json:"notes"`
	PreviousContractID *uuid.UUID `json:"previousContractId"`
	Status             *string    `json:"status"`
}

type updateContractRequest struct {
	Name               *string    `json:"name"`
	ClientID           *uuid.UUID `json:"clientId"`
	StartDate          *time.Time `json:"startDate"`
	EndDate            *time.Time `json:"endDate"`
	RenewalDate        *time.Time `json:"renewalDate"`
	Value              *float64   `json:"value"`
	DocumentLink       *string    `json:"documentLink"`
	Notes              *string    `json:"notes"`
	PreviousContractID *uuid.UUID `json:"previousContractId"`
	Status             *string    `json:"status"`
}

func statusPtr[T ~string](s *string) *T {
	if s == nil {
		return nil
	}
	v := T(*s)
	return &v
}

func (h *Handler) createContract(c *gin.Context) {
	var req createContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contract, err := h.contracts.Create(c.Request.Context(), service.CreateContractInput{
		Name:               req.Name,
		ClientID:           req.ClientID,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		RenewalDate:        req.RenewalDate,
		Value:              req.Value,
		DocumentLink:       req.DocumentLink,
		Notes:              req.Notes,
		PreviousContractID: req.PreviousContractID,
		Status:             statusPtr[model.ContractStatus](req.Status),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, "contract created", contract)
}

func contractFilterFromQuery(c *gin.Context) repository.ContractFilter {
	return repository.ContractFilter{
		Status:        statusPtr[model.ContractStatus](queryString(c, "status")),
		ClientID:      queryUUID(c, "clientId"),
		DateFrom:      queryTime(c, "dateFrom"),
		DateTo:        queryTime(c, "dateTo"),
		Search:        derefString(queryString(c, "search")),
		SortBy:        derefString(queryString(c, "sortBy")),
		SortDirection: derefString(queryString(c, "sortDirection")),
	}
}

func (h *Handler) listContracts(c *gin.Context) {
	result, err := h.contracts.List(c.Request.Context(),
		contractFilterFromQuery(c), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse[model.Contract]{
		Data:       result.Data,
		Count:      result.Count,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

func (h *Handler) getContract(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	contract, err := h.contracts.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.respond(c, http.StatusOK, "contract", contract)
}

func (h *Handler) updateContract(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req updateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contract, err := h.contracts.Update(c.Request.Context(), id, service.UpdateContractInput{
		Name:               req.Name,
		ClientID:           req.ClientID,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		RenewalDate:        req.RenewalDate,
		Value:              req.Value,
		DocumentLink:       req.DocumentLink,
		Notes:              req.Notes,
		PreviousContractID: req.PreviousContractID,
		Status:             statusPtr[model.ContractStatus](req.Status),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.respond(c, http.StatusOK, "contract updated", contract)
}

func (h *Handler) contractTotal(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	total, err := h.contracts.Total(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contractId": id, "total": total})
}

func (h *Handler) exportContracts(c *gin.Context) {
	contracts, totals, err := h.contracts.Export(c.Request.Context(), contractFilterFromQuery(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	content, err := h.excel.Generate(contracts, totals)
	if err != nil {
		h.handleError(c, err)
		return
	}

	fileName := "contracts-" + time.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}
