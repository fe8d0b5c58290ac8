package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	planningapp "github.com/planware/backend/internal/application/planning"
)

// AuditHandler handles audit trail API endpoints
type AuditHandler struct {
	BaseHandler
	auditService *planningapp.AuditService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService *planningapp.AuditService) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
	}
}

// ListByPlan returns the audit trail of a plan in chronological order
func (h *AuditHandler) ListByPlan(c *gin.Context) {
	callerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid plan ID")
		return
	}

	var filter planningapp.AuditListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entries, total, err := h.auditService.ListByPlan(c.Request.Context(), callerID, planID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, entries, total, page, pageSize)
}

// ListByOwner returns audit entries across all plans of an owner
func (h *AuditHandler) ListByOwner(c *gin.Context) {
	callerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	ownerID := callerID
	if ownerParam := c.Query("owner_id"); ownerParam != "" {
		ownerID, err = uuid.Parse(ownerParam)
		if err != nil {
			h.BadRequest(c, "Invalid owner ID")
			return
		}
	}

	var filter planningapp.AuditListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entries, err := h.auditService.ListByOwner(c.Request.Context(), callerID, ownerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entries)
}
