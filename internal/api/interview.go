package api

import (
	"strings"

	"github.com/gin-gonic/gin"

	"preview-api/apiv1"
	"preview-api/internal"
)

type promptResponse struct {
	Prompt   string                  `json:"prompt"`
	Settings apiv1.InterviewSettings `json:"settings"`
}

func (h *Handler) registerInterview(g *gin.RouterGroup) {
	g.POST("/prompt", h.interviewPrompt)
	g.GET("/metadata", h.interviewMetadata)
	g.GET("/eligibility/check", h.checkEligibility)

	sessions := g.Group("/sessions")
	sessions.POST("/start", h.startSession)
	sessions.GET("", h.listSessions)
	sessions.GET("/latest", h.latestSession)
	sessions.GET("/incomplete", h.incompleteSessions)
	sessions.GET("/:sessionId", h.getSession)
	sessions.POST("/:sessionId/end", h.endSession)

	skills := g.Group("/skills")
	skills.GET("", h.skills)
	skills.GET("/popular", h.popularSkills)
	skills.GET("/job-role/:role", h.skillsByJobRole)
}

// bindSettings reads optional interview settings; an empty body means defaults.
func bindSettings(c *gin.Context) (apiv1.InterviewSettings, error) {
	var settings apiv1.InterviewSettings
	if c.Request.ContentLength == 0 {
		return settings, nil
	}
	return settings, internal.BindJSON(c, &settings)
}

func (h *Handler) interviewPrompt(c *gin.Context) {
	settings, err := bindSettings(c)
	if h.fail(c, err) {
		return
	}
	if h.fail(c, settings.Normalize()) {
		return
	}
	prompt, err := h.svc.Interviews.Prompt(settings)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, promptResponse{Prompt: prompt, Settings: settings}, "prompt generated")
}

func (h *Handler) interviewMetadata(c *gin.Context) {
	internal.OK(c, apiv1.Metadata(), "metadata retrieved")
}

func (h *Handler) checkEligibility(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	result, err := h.svc.Eligibility.Check(c.Request.Context(), p.User)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, result, result.Message)
}

func (h *Handler) startSession(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	settings, err := bindSettings(c)
	if h.fail(c, err) {
		return
	}
	session, err := h.svc.Interviews.Start(c.Request.Context(), user.ID, settings)
	if h.fail(c, err) {
		return
	}
	internal.Created(c, session, "interview session started")
}

func (h *Handler) listSessions(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	page, size := internal.ParsePage(c)
	sessions, total, err := h.svc.Interviews.List(c.Request.Context(), user.ID, page, size)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, internal.ListResponse[apiv1.InterviewSession]{Items: sessions, Total: total, Page: page, Size: size}, "sessions retrieved")
}

func (h *Handler) latestSession(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	session, err := h.svc.Interviews.Latest(c.Request.Context(), user.ID)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, session, "session retrieved")
}

func (h *Handler) incompleteSessions(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	sessions, err := h.svc.Interviews.Incomplete(c.Request.Context(), user.ID)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, sessions, "sessions retrieved")
}

func (h *Handler) getSession(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	session, err := h.svc.Interviews.Get(c.Request.Context(), user.ID, c.Param("sessionId"))
	if h.fail(c, err) {
		return
	}
	internal.OK(c, session, "session retrieved")
}

func (h *Handler) endSession(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	session, err := h.svc.Interviews.End(c.Request.Context(), user.ID, c.Param("sessionId"))
	if h.fail(c, err) {
		return
	}
	internal.OK(c, session, "interview session ended")
}

func (h *Handler) skills(c *gin.Context) {
	skills, err := h.svc.Catalog.Skills(c.Request.Context())
	if h.fail(c, err) {
		return
	}
	internal.OK(c, skills, "skills retrieved")
}

func (h *Handler) popularSkills(c *gin.Context) {
	skills, err := h.svc.Catalog.PopularSkills(c.Request.Context())
	if h.fail(c, err) {
		return
	}
	internal.OK(c, skills, "skills retrieved")
}

func (h *Handler) skillsByJobRole(c *gin.Context) {
	role := apiv1.JobRole(strings.ToUpper(c.Param("role")))
	skills, err := h.svc.Catalog.SkillsByJobRole(c.Request.Context(), role)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, skills, "skills retrieved")
}
