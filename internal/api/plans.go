package api

import (
	"github.com/gin-gonic/gin"

	"preview-api/apiv1"
	"preview-api/internal"
)

// CreateSubscriptionRequest subscribes a user to a plan. UserID defaults to the caller.
type CreateSubscriptionRequest struct {
	UserID   uint   `json:"userId"`
	PlanType string `json:"planType" binding:"required"`
	Cycle    string `json:"cycle" binding:"required"`
}

func (h *Handler) registerPlans(g *gin.RouterGroup) {
	g.GET("", h.listPlans)
	g.GET("/compare", h.comparePlans)
	g.GET("/:type", h.planByType)
}

func (h *Handler) listPlans(c *gin.Context) {
	plans, err := h.svc.Plans.ListActive(c.Request.Context())
	if h.fail(c, err) {
		return
	}
	internal.OK(c, plans, "plans retrieved")
}

func (h *Handler) planByType(c *gin.Context) {
	planType, err := apiv1.ParsePlanType(c.Param("type"))
	if h.fail(c, err) {
		return
	}
	plan, err := h.svc.Plans.GetByType(c.Request.Context(), planType)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, plan, "plan retrieved")
}

func (h *Handler) comparePlans(c *gin.Context) {
	t1, err := apiv1.ParsePlanType(c.Query("plan1"))
	if h.fail(c, err) {
		return
	}
	t2, err := apiv1.ParsePlanType(c.Query("plan2"))
	if h.fail(c, err) {
		return
	}
	cmp, err := h.svc.Plans.Compare(c.Request.Context(), t1, t2)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, cmp, "plans compared")
}

func (h *Handler) registerSubscriptions(g *gin.RouterGroup) {
	g.GET("/users/:userId", h.userSubscriptions)
	g.GET("/users/:userId/active", h.activeSubscription)
	g.POST("", h.createSubscription)
	g.POST("/:id/cancel", h.cancelSubscription)
	g.POST("/:id/renew", h.renewSubscription)
}

func (h *Handler) userSubscriptions(c *gin.Context) {
	userID, ok := h.pathID(c, "userId")
	if !ok || !h.authorizeUser(c, userID) {
		return
	}
	subs, err := h.svc.Subscriptions.ListByUser(c.Request.Context(), userID)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, subs, "subscriptions retrieved")
}

func (h *Handler) activeSubscription(c *gin.Context) {
	userID, ok := h.pathID(c, "userId")
	if !ok || !h.authorizeUser(c, userID) {
		return
	}
	sub, err := h.svc.Subscriptions.ActiveByUser(c.Request.Context(), userID)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, sub, "active subscription retrieved")
}

func (h *Handler) createSubscription(c *gin.Context) {
	var req CreateSubscriptionRequest
	if h.fail(c, internal.BindJSON(c, &req)) {
		return
	}
	if req.UserID == 0 {
		user, ok := h.currentUser(c)
		if !ok {
			return
		}
		req.UserID = user.ID
	}
	if !h.authorizeUser(c, req.UserID) {
		return
	}
	planType, err := apiv1.ParsePlanType(req.PlanType)
	if h.fail(c, err) {
		return
	}
	cycle, err := apiv1.ParseBillingCycle(req.Cycle)
	if h.fail(c, err) {
		return
	}
	sub, err := h.svc.Subscriptions.Create(c.Request.Context(), req.UserID, planType, cycle)
	if h.fail(c, err) {
		return
	}
	internal.Created(c, sub, "subscription created")
}

// ownedSubscription loads the subscription and checks the caller may change it.
func (h *Handler) ownedSubscription(c *gin.Context) (uint, bool) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return 0, false
	}
	sub, err := h.svc.Subscriptions.Get(c.Request.Context(), id)
	if h.fail(c, err) {
		return 0, false
	}
	if !h.authorizeUser(c, sub.UserID) {
		return 0, false
	}
	return id, true
}

func (h *Handler) cancelSubscription(c *gin.Context) {
	id, ok := h.ownedSubscription(c)
	if !ok {
		return
	}
	sub, err := h.svc.Subscriptions.Cancel(c.Request.Context(), id)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, sub, "subscription cancelled")
}

func (h *Handler) renewSubscription(c *gin.Context) {
	id, ok := h.ownedSubscription(c)
	if !ok {
		return
	}
	sub, err := h.svc.Subscriptions.Renew(c.Request.Context(), id)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, sub, "subscription renewed")
}

func (h *Handler) registerQuota(g *gin.RouterGroup) {
	g.GET("", h.quota)
	g.GET("/history", h.quotaHistory)
}

func (h *Handler) quota(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	quota, err := h.svc.Usage.Quota(c.Request.Context(), user)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, quota, "quota retrieved")
}

func (h *Handler) quotaHistory(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	history, err := h.svc.Usage.QuotaHistory(c.Request.Context(), user.ID)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, history, "quota history retrieved")
}
