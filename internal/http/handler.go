package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lancebay/contracts-service/internal/http/middleware"
	"github.com/lancebay/contracts-service/internal/model"
	"github.com/lancebay/contracts-service/internal/service"
)

type Handler struct {
	contracts     *service.ContractService
	notifications *service.NotificationService
	log           zerolog.Logger
}

func NewHandler(contracts *service.ContractService, notifications *service.NotificationService, log zerolog.Logger) *Handler {
	return &Handler{contracts: contracts, notifications: notifications, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.POST("/contracts", h.createContract)
	protected.GET("/contracts/my", h.listMyContracts)
	protected.GET("/contracts/my/export", h.exportMyContracts)
	protected.GET("/contracts/:id", h.getContract)
	protected.PUT("/contracts/:id", h.updateDraft)
	protected.DELETE("/contracts/:id", h.deleteDraft)
	protected.PATCH("/contracts/:id/status", h.updateStatus)
	protected.GET("/contracts/:id/pdf", h.exportContractPDF)

	protected.GET("/notifications/my", h.listMyNotifications)
	protected.PATCH("/notifications/:id/read", h.markNotificationRead)
}

type createContractRequest struct {
	ProposalID string `json:"proposal_id" binding:"required"`
}

func (h *Handler) createContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req createContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	proposalID, err := uuid.Parse(strings.TrimSpace(req.ProposalID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid proposal_id"})
		return
	}

	contract, err := h.contracts.CreateFromProposal(c.Request.Context(), service.CreateContractInput{
		ProposalID: proposalID,
		Principal:  principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (h *Handler) getContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	contract, err := h.contracts.Get(c.Request.Context(), contractID, principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *Handler) listMyContracts(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contracts, err := h.contracts.ListMine(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

type updateDraftRequest struct {
	Title     *string  `json:"title"`
	Content   *string  `json:"content"`
	Amount    *float64 `json:"amount"`
	StartDate *string  `json:"start_date"`
	EndDate   *string  `json:"end_date"`
}

func (h *Handler) updateDraft(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	var req updateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.UpdateDraftInput{
		Title:   req.Title,
		Content: req.Content,
		Amount:  req.Amount,
	}
	if req.StartDate != nil {
		startDate, err := parseDate(*req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
			return
		}
		input.StartDate = &startDate
	}
	if req.EndDate != nil {
		endDate, err := parseDate(*req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
			return
		}
		input.EndDate = &endDate
	}

	contract, err := h.contracts.UpdateDraft(c.Request.Context(), contractID, input, principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *Handler) deleteDraft(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	if err := h.contracts.DeleteDraft(c.Request.Context(), contractID, principal); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := parseContractStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	contract, err := h.contracts.ApplyTransition(c.Request.Context(), contractID, status, principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *Handler) exportContractPDF(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	result, err := h.contracts.ExportPDF(c.Request.Context(), contractID, principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func (h *Handler) exportMyContracts(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	result, err := h.contracts.ExportExcel(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", result.Content)
}

func (h *Handler) listMyNotifications(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	notifications, err := h.notifications.ListMine(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *Handler) markNotificationRead(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	notification, err := h.notifications.MarkRead(c.Request.Context(), notificationID, principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, notification)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("contract request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

var contractStatuses = map[string]model.ContractStatus{
	string(model.ContractStatusNegotiating):                   model.ContractStatusNegotiating,
	string(model.ContractStatusActive):                        model.ContractStatusActive,
	string(model.ContractStatusEmployerRequestsRevision):      model.ContractStatusEmployerRequestsRevision,
	string(model.ContractStatusFreelancerRequestsRevision):    model.ContractStatusFreelancerRequestsRevision,
	string(model.ContractStatusEmployerRequestsTermination):   model.ContractStatusEmployerRequestsTermination,
	string(model.ContractStatusFreelancerRequestsTermination): model.ContractStatusFreelancerRequestsTermination,
	string(model.ContractStatusFreelancerRequestsAcceptance):  model.ContractStatusFreelancerRequestsAcceptance,
	string(model.ContractStatusCompleted):                     model.ContractStatusCompleted,
	string(model.ContractStatusTerminated):                    model.ContractStatusTerminated,
}

func parseContractStatus(raw string) (model.ContractStatus, error) {
	status, ok := contractStatuses[strings.ToUpper(strings.TrimSpace(raw))]
	if !ok {
		return "", service.ErrInvalidInput
	}
	return status, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
