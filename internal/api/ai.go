package api

import (
	"github.com/gin-gonic/gin"

	"preview-api/apiv1"
	"preview-api/internal"
)

// StartInterviewRequest opens an AI interview. Prompt replaces the generated system prompt.
type StartInterviewRequest struct {
	Settings *apiv1.InterviewSettings `json:"settings"`
	Prompt   string                   `json:"prompt"`
}

// ConversationRequest carries the chat so far
type ConversationRequest struct {
	Messages []apiv1.ChatMessage      `json:"messages" binding:"dive"`
	Settings *apiv1.InterviewSettings `json:"settings"`
}

func (r ConversationRequest) settings() apiv1.InterviewSettings {
	if r.Settings == nil {
		return apiv1.DefaultInterviewSettings()
	}
	return *r.Settings
}

func (h *Handler) registerAI(g *gin.RouterGroup) {
	g.POST("/interview/start", h.aiStart)
	g.POST("/interview/continue", h.aiContinue)
	g.POST("/interview/summarize", h.aiSummarize)
	g.POST("/interview/evaluate", h.aiEvaluate)
}

func (h *Handler) aiStart(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req StartInterviewRequest
	if h.fail(c, internal.BindJSON(c, &req)) {
		return
	}
	settings := apiv1.InterviewSettings{}
	if req.Settings != nil {
		settings = *req.Settings
	}
	reply, err := h.svc.AI.Start(c.Request.Context(), p.User, settings, req.Prompt)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, reply, "interview started")
}

func (h *Handler) aiContinue(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req ConversationRequest
	if h.fail(c, internal.BindJSON(c, &req)) {
		return
	}
	model := ""
	if req.Settings != nil {
		model = req.Settings.Model
	}
	reply, err := h.svc.AI.Continue(c.Request.Context(), p.User, req.Messages, model)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, reply, "message sent")
}

func (h *Handler) aiSummarize(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req ConversationRequest
	if h.fail(c, internal.BindJSON(c, &req)) {
		return
	}
	summary, err := h.svc.AI.Summarize(c.Request.Context(), p.User, req.Messages, req.settings())
	if h.fail(c, err) {
		return
	}
	internal.OK(c, summary, "summary generated")
}

func (h *Handler) aiEvaluate(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req ConversationRequest
	if h.fail(c, internal.BindJSON(c, &req)) {
		return
	}
	evaluation, err := h.svc.AI.Evaluate(c.Request.Context(), p.User, req.Messages, req.settings())
	if h.fail(c, err) {
		return
	}
	internal.OK(c, evaluation, "evaluation generated")
}
