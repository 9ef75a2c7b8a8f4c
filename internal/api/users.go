package api

import (
	"github.com/gin-gonic/gin"

	"preview-api/apiv1"
	"preview-api/internal"
	"preview-api/internal/service"
)

// UpdateProfileRequest changes the editable profile fields
type UpdateProfileRequest struct {
	DisplayName string `json:"displayName" binding:"max=100"`
	PhotoURL    string `json:"photoUrl" binding:"omitempty,url"`
}

// ChangePlanRequest moves a user to another plan
type ChangePlanRequest struct {
	PlanType string `json:"planType" binding:"required"`
}

func (h *Handler) registerUsers(g *gin.RouterGroup) {
	admin := h.auth.RequireRoles(apiv1.RoleAdmin)

	g.GET("/me", h.me)
	g.POST("/register", h.register)
	g.GET("", admin, h.listUsers)
	g.GET("/search", admin, h.searchUsers)
	g.GET("/email/:email", admin, h.userByEmail)
	g.GET("/:id", h.getUser)
	g.PUT("/:id", h.updateProfile)
	g.PUT("/:id/plan", h.changePlan)
}

func (h *Handler) me(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	internal.OK(c, user, "user retrieved")
}

func (h *Handler) register(c *gin.Context) {
	var req service.RegisterRequest
	if h.fail(c, internal.BindJSON(c, &req)) {
		return
	}
	user, err := h.svc.Users.Register(c.Request.Context(), req)
	if h.fail(c, err) {
		return
	}
	internal.Created(c, user, "user registered")
}

func (h *Handler) listUsers(c *gin.Context) {
	page, size := internal.ParsePage(c)
	users, total, err := h.svc.Users.List(c.Request.Context(), page, size)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, internal.ListResponse[apiv1.User]{Items: users, Total: total, Page: page, Size: size}, "users retrieved")
}

func (h *Handler) searchUsers(c *gin.Context) {
	users, err := h.svc.Users.Search(c.Request.Context(), c.Query("keyword"))
	if h.fail(c, err) {
		return
	}
	internal.OK(c, users, "users retrieved")
}

func (h *Handler) userByEmail(c *gin.Context) {
	user, err := h.svc.Users.GetByEmail(c.Request.Context(), c.Param("email"))
	if h.fail(c, err) {
		return
	}
	internal.OK(c, user, "user retrieved")
}

func (h *Handler) getUser(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok || !h.authorizeUser(c, id) {
		return
	}
	user, err := h.svc.Users.Get(c.Request.Context(), id)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, user, "user retrieved")
}

func (h *Handler) updateProfile(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok || !h.authorizeUser(c, id) {
		return
	}
	var req UpdateProfileRequest
	if h.fail(c, internal.BindJSON(c, &req)) {
		return
	}
	user, err := h.svc.Users.UpdateProfile(c.Request.Context(), id, req.DisplayName, req.PhotoURL)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, user, "profile updated")
}

func (h *Handler) changePlan(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok || !h.authorizeUser(c, id) {
		return
	}
	var req ChangePlanRequest
	if h.fail(c, internal.BindJSON(c, &req)) {
		return
	}
	planType, err := apiv1.ParsePlanType(req.PlanType)
	if h.fail(c, err) {
		return
	}
	user, err := h.svc.Users.ChangePlan(c.Request.Context(), id, planType)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, user, "plan changed")
}
