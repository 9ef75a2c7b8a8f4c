package api

import (
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"preview-api/apiv1"
	"preview-api/internal"
	"preview-api/internal/auth"
	"preview-api/internal/service"
)

// SocialLoginRequest is the profile a client sends after signing in with Firebase
type SocialLoginRequest struct {
	UID             string `json:"uid" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	DisplayName     string `json:"displayName" binding:"required"`
	Provider        string `json:"provider"`
	PhotoURL        string `json:"photoUrl"`
	IsEmailVerified bool   `json:"isEmailVerified"`
}

type loginInfoView struct {
	IPAddress   string    `json:"ipAddress"`
	DeviceType  string    `json:"deviceType"`
	BrowserInfo string    `json:"browserInfo"`
	OSInfo      string    `json:"osInfo"`
	LoginAt     time.Time `json:"loginAt"`
}

type socialLoginResponse struct {
	User      *apiv1.User   `json:"user"`
	LoginInfo loginInfoView `json:"loginInfo"`
}

func (h *Handler) registerAuth(g *gin.RouterGroup) {
	g.POST("/social-login", h.socialLogin)
	g.DELETE("/withdraw/:userId", h.withdraw)
	g.GET("/login-history/:userId", h.loginHistory)
}

func (h *Handler) socialLogin(c *gin.Context) {
	var req SocialLoginRequest
	if h.fail(c, internal.BindJSON(c, &req)) {
		return
	}
	profile := apiv1.SocialProfile{
		UID:           req.UID,
		Email:         req.Email,
		DisplayName:   req.DisplayName,
		PhotoURL:      req.PhotoURL,
		EmailVerified: req.IsEmailVerified,
	}
	if req.Provider != "" {
		provider, err := apiv1.ParseProvider(req.Provider)
		if h.fail(c, err) {
			return
		}
		profile.Provider = provider
	}

	// a verified token must belong to the account being signed in
	p, ok := auth.CurrentPrincipal(c)
	if !ok && !h.auth.IsPermissive() {
		internal.Fail(c, http.StatusUnauthorized, "authentication required")
		return
	}
	if ok && p.Identity != nil {
		if p.UID != req.UID {
			h.fail(c, errors.Wrap(apiv1.ForbiddenError, "token does not match uid"))
			return
		}
		if profile.Provider == "" {
			profile.Provider = p.Identity.Provider()
		}
		if profile.PhotoURL == "" {
			profile.PhotoURL = p.Identity.Picture
		}
	}
	if profile.Provider == "" {
		profile.Provider = apiv1.ProviderGoogle
	}

	user, entry, err := h.svc.Users.SocialLogin(c.Request.Context(), profile, apiv1.NewLoginInfo(c.Request))
	if h.fail(c, err) {
		return
	}
	internal.OK(c, socialLoginResponse{
		User: user,
		LoginInfo: loginInfoView{
			IPAddress:   entry.IP,
			DeviceType:  entry.DeviceType,
			BrowserInfo: entry.BrowserInfo,
			OSInfo:      entry.OSInfo,
			LoginAt:     entry.LoginAt,
		},
	}, "social login completed")
}

func (h *Handler) withdraw(c *gin.Context) {
	userID, ok := h.pathID(c, "userId")
	if !ok || !h.authorizeUser(c, userID) {
		return
	}
	if h.fail(c, h.svc.Users.Withdraw(c.Request.Context(), userID)) {
		return
	}
	internal.OK(c, nil, "account withdrawn")
}

func (h *Handler) loginHistory(c *gin.Context) {
	userID, ok := h.pathID(c, "userId")
	if !ok || !h.authorizeUser(c, userID) {
		return
	}
	var (
		filter service.LoginHistoryFilter
		err    error
	)
	if filter.Start, err = queryDate(c, "startDate"); h.fail(c, err) {
		return
	}
	end, err := queryDate(c, "endDate")
	if h.fail(c, err) {
		return
	}
	if !end.IsZero() {
		filter.End = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if filter.Success, err = queryBool(c, "success"); h.fail(c, err) {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.svc.Users.Get(ctx, userID); h.fail(c, err) {
		return
	}
	logs, err := h.svc.LoginLogs.History(ctx, userID, filter)
	if h.fail(c, err) {
		return
	}
	internal.OK(c, logs, "login history retrieved")
}
