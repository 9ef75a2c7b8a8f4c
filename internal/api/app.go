package api

import (
	"github.com/gin-gonic/gin"

	"preview-api/apiv1"
	"preview-api/internal"
	"preview-api/internal/service"
)

func (h *Handler) registerApp(g *gin.RouterGroup) {
	g.GET("/info", h.appInfo)
	g.GET("/legal/:type", h.legal)
	g.GET("/company", h.company)
	g.GET("/faq", h.faq)
	g.GET("/status", h.status)
}

func (h *Handler) appInfo(c *gin.Context) {
	info, err := h.svc.AppInfo.Info(c.Request.Context())
	if h.fail(c, err) {
		return
	}
	internal.OK(c, info, "app info retrieved")
}

func (h *Handler) legal(c *gin.Context) {
	legalType, err := apiv1.ParseLegalType(c.Param("type"))
	if h.fail(c, err) {
		return
	}
	doc, err := h.svc.AppInfo.Legal(c.Request.Context(), legalType)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, doc, "legal document retrieved")
}

func (h *Handler) company(c *gin.Context) {
	company, err := h.svc.AppInfo.Company(c.Request.Context())
	if h.fail(c, err) {
		return
	}
	internal.OK(c, company, "company info retrieved")
}

func (h *Handler) faq(c *gin.Context) {
	faq, err := h.svc.AppInfo.FAQ(c.Request.Context())
	if h.fail(c, err) {
		return
	}
	internal.OK(c, faq, "faq retrieved")
}

func (h *Handler) status(c *gin.Context) {
	status, err := h.svc.AppInfo.Status(c.Request.Context())
	if h.fail(c, err) {
		return
	}
	internal.OK(c, status, "service status retrieved")
}

func (h *Handler) registerConfig(g *gin.RouterGroup) {
	g.GET("", h.preferences)
	g.PUT("", h.updatePreferences)

	pro := h.auth.RequireRoles(apiv1.RolePro, apiv1.RoleAdmin)
	g.GET("/advanced", pro, h.advancedPreferences)
	g.PUT("/advanced", pro, h.updateAdvancedPreferences)
}

func (h *Handler) preferences(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	pref, err := h.svc.Preferences.Get(c.Request.Context(), user.ID)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, pref, "settings retrieved")
}

func (h *Handler) updatePreferences(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req service.PreferenceUpdate
	if h.fail(c, internal.BindJSON(c, &req)) {
		return
	}
	pref, err := h.svc.Preferences.Update(c.Request.Context(), user.ID, req)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, pref, "settings updated")
}

func (h *Handler) advancedPreferences(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	values, err := h.svc.Preferences.Advanced(c.Request.Context(), user.ID)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, values, "advanced settings retrieved")
}

func (h *Handler) updateAdvancedPreferences(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req map[string]any
	if h.fail(c, internal.BindJSON(c, &req)) {
		return
	}
	values, err := h.svc.Preferences.UpdateAdvanced(c.Request.Context(), user.ID, req)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, values, "advanced settings updated")
}

func (h *Handler) registerAnalysis(g *gin.RouterGroup) {
	g.GET("/basic", h.basicAnalysis)
	g.GET("/advanced", h.auth.RequireRoles(apiv1.RoleStandard, apiv1.RolePro, apiv1.RoleAdmin), h.advancedAnalysis)
	g.GET("/premium", h.auth.RequireRoles(apiv1.RolePro, apiv1.RoleAdmin), h.premiumAnalysis)
}

func (h *Handler) basicAnalysis(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	result, err := h.svc.Analysis.Basic(c.Request.Context(), user.ID)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, result, "basic analysis retrieved")
}

func (h *Handler) advancedAnalysis(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	result, err := h.svc.Analysis.Advanced(c.Request.Context(), user.ID)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, result, "advanced analysis retrieved")
}

func (h *Handler) premiumAnalysis(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	result, err := h.svc.Analysis.Premium(c.Request.Context(), user.ID)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, result, "premium analysis retrieved")
}
