package api

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"preview-api/apiv1"
	"preview-api/internal"
)

func (h *Handler) registerCatalog(g *gin.RouterGroup) {
	fields := g.Group("/job-fields")
	fields.GET("", h.jobFields)
	fields.GET("/by-code/:code", h.jobFieldByCode)
	fields.GET("/:id", h.jobField)
	fields.GET("/:id/with-positions", h.jobFieldWithPositions)

	g.GET("/job-positions", h.positionsByFieldQuery)
	g.GET("/job-positions/field/:fieldId", h.positionsByField)

	levels := g.Group("/experience-levels")
	levels.GET("", h.experienceLevels(false))
	levels.GET("/active", h.experienceLevels(true))
	levels.GET("/by-code/:code", h.experienceLevelByCode)
	levels.GET("/by-years/:years", h.experienceLevelByYears)
	levels.GET("/:id", h.experienceLevel)

	interviewers := g.Group("/interviewers")
	interviewers.GET("", h.interviewers(false))
	interviewers.GET("/active", h.interviewers(true))
	interviewers.GET("/by-code/:code", h.interviewerByCode)
	interviewers.GET("/by-personality/:personality", h.interviewersByPersonality)
	interviewers.GET("/:id", h.interviewer)
}

func (h *Handler) jobFields(c *gin.Context) {
	fields, err := h.svc.Catalog.JobFields(c.Request.Context())
	if h.fail(c, err) {
		return
	}
	internal.OK(c, fields, "job fields retrieved")
}

func (h *Handler) jobField(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	field, err := h.svc.Catalog.JobField(c.Request.Context(), id)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, field, "job field retrieved")
}

func (h *Handler) jobFieldWithPositions(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	field, err := h.svc.Catalog.JobFieldWithPositions(c.Request.Context(), id)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, field, "job field retrieved")
}

func (h *Handler) jobFieldByCode(c *gin.Context) {
	field, err := h.svc.Catalog.JobFieldByCode(c.Request.Context(), c.Param("code"))
	if h.fail(c, err) {
		return
	}
	internal.OK(c, field, "job field retrieved")
}

func (h *Handler) positionsByField(c *gin.Context) {
	fieldID, ok := h.pathID(c, "fieldId")
	if !ok {
		return
	}
	h.writePositions(c, fieldID)
}

func (h *Handler) positionsByFieldQuery(c *gin.Context) {
	fieldID, err := strconv.ParseUint(c.Query("fieldId"), 10, 64)
	if err != nil || fieldID == 0 {
		h.fail(c, errors.Wrap(apiv1.BadParameterError, "fieldId query parameter is required"))
		return
	}
	h.writePositions(c, uint(fieldID))
}

func (h *Handler) writePositions(c *gin.Context, fieldID uint) {
	positions, err := h.svc.Catalog.PositionsByField(c.Request.Context(), fieldID)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, positions, "job positions retrieved")
}

func (h *Handler) experienceLevels(onlyActive bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		levels, err := h.svc.Catalog.ExperienceLevels(c.Request.Context(), onlyActive)
		if h.fail(c, err) {
			return
		}
		internal.OK(c, levels, "experience levels retrieved")
	}
}

func (h *Handler) experienceLevel(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	level, err := h.svc.Catalog.ExperienceLevel(c.Request.Context(), id)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, level, "experience level retrieved")
}

func (h *Handler) experienceLevelByCode(c *gin.Context) {
	level, err := h.svc.Catalog.ExperienceLevelByCode(c.Request.Context(), c.Param("code"))
	if h.fail(c, err) {
		return
	}
	internal.OK(c, level, "experience level retrieved")
}

func (h *Handler) experienceLevelByYears(c *gin.Context) {
	years, err := strconv.Atoi(c.Param("years"))
	if err != nil || years < 0 {
		h.fail(c, errors.Wrap(apiv1.BadParameterError, "invalid years format"))
		return
	}
	level, err := h.svc.Catalog.ExperienceLevelByYears(c.Request.Context(), years)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, level, "experience level retrieved")
}

func (h *Handler) interviewers(onlyActive bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := h.svc.Catalog.Interviewers(c.Request.Context(), onlyActive)
		if h.fail(c, err) {
			return
		}
		internal.OK(c, list, "interviewers retrieved")
	}
}

func (h *Handler) interviewer(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	interviewer, err := h.svc.Catalog.Interviewer(c.Request.Context(), id)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, interviewer, "interviewer retrieved")
}

func (h *Handler) interviewerByCode(c *gin.Context) {
	interviewer, err := h.svc.Catalog.InterviewerByCode(c.Request.Context(), c.Param("code"))
	if h.fail(c, err) {
		return
	}
	internal.OK(c, interviewer, "interviewer retrieved")
}

func (h *Handler) interviewersByPersonality(c *gin.Context) {
	personality, err := apiv1.ParsePersonality(c.Param("personality"))
	if h.fail(c, err) {
		return
	}
	list, err := h.svc.Catalog.InterviewersByPersonality(c.Request.Context(), personality)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, list, "interviewers retrieved")
}
