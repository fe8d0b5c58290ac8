package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	planningapp "github.com/planware/backend/internal/application/planning"
)

// PlanHandler handles business plan API endpoints
type PlanHandler struct {
	BaseHandler
	planService *planningapp.PlanService
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(planService *planningapp.PlanService) *PlanHandler {
	return &PlanHandler{
		planService: planService,
	}
}

// Create creates a new draft plan owned by the caller
func (h *PlanHandler) Create(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	var req planningapp.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	plan, err := h.planService.CreateDraft(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, plan)
}

// Get returns a single plan visible to the caller
func (h *PlanHandler) Get(c *gin.Context) {
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

	plan, err := h.planService.GetByID(c.Request.Context(), callerID, planID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, plan)
}

// GetGoals returns the calculated funnel for a plan. Goals are always
// recomputed from the plan's current inputs, never stored.
func (h *PlanHandler) GetGoals(c *gin.Context) {
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

	goals, err := h.planService.GetGoals(c.Request.Context(), callerID, planID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, goals)
}

// List returns the caller's plans, or a team member's plans when
// owner_id names someone the caller manages.
func (h *PlanHandler) List(c *gin.Context) {
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

	var filter planningapp.PlanListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	plans, total, err := h.planService.List(c.Request.Context(), callerID, ownerID, filter)
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
	h.SuccessWithMeta(c, plans, total, page, pageSize)
}

// Activate promotes a draft plan, demoting any currently active plan
// for the same year.
func (h *PlanHandler) Activate(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid plan ID")
		return
	}

	plan, err := h.planService.Activate(c.Request.Context(), ownerID, planID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, plan)
}

// Archive abandons a draft plan
func (h *PlanHandler) Archive(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid plan ID")
		return
	}

	plan, err := h.planService.Archive(c.Request.Context(), ownerID, planID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, plan)
}
