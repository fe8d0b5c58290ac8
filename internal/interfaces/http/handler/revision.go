package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	planningapp "github.com/planware/backend/internal/application/planning"
)

// RevisionHandler handles revision workflow API endpoints
type RevisionHandler struct {
	BaseHandler
	revisionService *planningapp.RevisionService
}

// NewRevisionHandler creates a new RevisionHandler
func NewRevisionHandler(revisionService *planningapp.RevisionService) *RevisionHandler {
	return &RevisionHandler{
		revisionService: revisionService,
	}
}

// Request opens a revision request against an active plan
func (h *RevisionHandler) Request(c *gin.Context) {
	requesterID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid plan ID")
		return
	}

	var req planningapp.RequestRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	revision, err := h.revisionService.Request(c.Request.Context(), requesterID, planID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, revision)
}

// Get returns a single revision visible to the caller
func (h *RevisionHandler) Get(c *gin.Context) {
	callerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	revisionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid revision ID")
		return
	}

	revision, err := h.revisionService.GetByID(c.Request.Context(), callerID, revisionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, revision)
}

// ListByPlan returns the revisions raised against a plan
func (h *RevisionHandler) ListByPlan(c *gin.Context) {
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

	var filter planningapp.RevisionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	revisions, err := h.revisionService.ListByPlan(c.Request.Context(), callerID, planID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, revisions)
}

// ListPending returns the pending revisions across the manager's team
func (h *RevisionHandler) ListPending(c *gin.Context) {
	managerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	var filter planningapp.RevisionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	revisions, total, err := h.revisionService.ListPendingForManager(c.Request.Context(), managerID, filter)
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
	h.SuccessWithMeta(c, revisions, total, page, pageSize)
}

// Decide approves or rejects a pending revision
func (h *RevisionHandler) Decide(c *gin.Context) {
	managerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	revisionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid revision ID")
		return
	}

	var req planningapp.DecideRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	revision, err := h.revisionService.Decide(c.Request.Context(), managerID, revisionID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, revision)
}
