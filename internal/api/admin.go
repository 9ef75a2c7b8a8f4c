package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"preview-api/apiv1"
	"preview-api/internal"
)

// SetRoleRequest assigns a role to a user
type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateStatusRequest changes the service status shown to clients
type UpdateStatusRequest struct {
	Status          apiv1.ServiceStatus `json:"status" binding:"required"`
	EmergencyNotice string              `json:"emergencyNotice" binding:"max=1000"`
	NoticeExpiresAt *time.Time          `json:"noticeExpiresAt"`
}

func (h *Handler) registerAdmin(g *gin.RouterGroup) {
	g.GET("/stats", h.stats)
	g.GET("/user-activities", h.userActivities)
	g.PUT("/users/:id/role", h.setRole)
	g.PUT("/status", h.updateStatus)

	catalog := g.Group("/catalog")
	internal.RegisterResource[apiv1.JobField](catalog, h.db, h.logger, "/job-fields", "job field",
		internal.WithFilters("code", "active"))
	internal.RegisterResource[apiv1.JobPosition](catalog, h.db, h.logger, "/job-positions", "job position",
		internal.WithFilters("job_field_id", "role", "active"))
	internal.RegisterResource[apiv1.Skill](catalog, h.db, h.logger, "/skills", "skill",
		internal.WithFilters("primary_job_role", "popular"))
	internal.RegisterResource[apiv1.JobPositionSkill](catalog, h.db, h.logger, "/position-skills", "position skill",
		internal.WithFilters("job_position_id", "skill_id"),
		internal.WithQueries(internal.Preload("Skill")))
	internal.RegisterResource[apiv1.ExperienceLevelInfo](catalog, h.db, h.logger, "/experience-levels", "experience level",
		internal.WithFilters("code", "active"))
	internal.RegisterResource[apiv1.Interviewer](catalog, h.db, h.logger, "/interviewers", "interviewer",
		internal.WithFilters("code", "personality", "active"))
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.svc.Admin.Stats(c.Request.Context())
	if h.fail(c, err) {
		return
	}
	internal.OK(c, stats, "system stats retrieved")
}

func (h *Handler) userActivities(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	logs, err := h.svc.Admin.UserActivities(c.Request.Context(), limit)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, logs, "user activities retrieved")
}

func (h *Handler) setRole(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req SetRoleRequest
	if h.fail(c, internal.BindJSON(c, &req)) {
		return
	}
	role, err := apiv1.ParseRole(req.Role)
	if h.fail(c, err) {
		return
	}
	user, err := h.svc.Users.SetRole(c.Request.Context(), id, role)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, user, "role updated")
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if h.fail(c, internal.BindJSON(c, &req)) {
		return
	}
	status := apiv1.ServiceStatus(strings.ToUpper(string(req.Status)))
	info, err := h.svc.AppInfo.UpdateStatus(c.Request.Context(), status, req.EmergencyNotice, req.NoticeExpiresAt)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, info, "service status updated")
}
