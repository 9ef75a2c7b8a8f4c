package api

import (
	"log/slog"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"preview-api/apiv1"
	"preview-api/internal/auth"
	"preview-api/internal/events"
	"preview-api/internal/logging"
	"preview-api/internal/metrics"
	"preview-api/internal/service"
)

// PublicPaths are reachable without a token.
var PublicPaths = []string{
	"/actuator",
	"/api/v1/auth",
	"/api/v1/plans",
	"/api/v1/app",
	"/swagger-ui",
	"/v3/api-docs",
}

// Services bundles the domain services the handlers call
type Services struct {
	Users         *service.UserService
	Plans         *service.PlanService
	Subscriptions *service.SubscriptionService
	Usage         *service.UsageService
	Eligibility   *service.EligibilityService
	LoginLogs     *service.LoginLogService
	Interviews    *service.InterviewService
	AI            *service.AIService
	Catalog       *service.CatalogService
	AppInfo       *service.AppInfoService
	Preferences   *service.PreferenceService
	Analysis      *service.AnalysisService
	Admin         *service.AdminService
}

// NewServices wires every domain service over one database.
func NewServices(db *gorm.DB, dispatcher *events.Dispatcher, chat service.ChatCompleter, logger *slog.Logger) Services {
	s := Services{
		Plans:         service.NewPlanService(db, dispatcher, logger),
		Subscriptions: service.NewSubscriptionService(db, dispatcher, logger),
		Usage:         service.NewUsageService(db, logger),
		LoginLogs:     service.NewLoginLogService(db, logger),
		Interviews:    service.NewInterviewService(db, logger),
		Catalog:       service.NewCatalogService(db),
		AppInfo:       service.NewAppInfoService(db),
		Preferences:   service.NewPreferenceService(db, logger),
	}
	s.Users = service.NewUserService(db, s.Subscriptions, s.LoginLogs, dispatcher, logger)
	s.Eligibility = service.NewEligibilityService(s.Usage, logger)
	s.AI = service.NewAIService(chat, s.Eligibility, s.Usage, logger)
	s.Analysis = service.NewAnalysisService(db, s.Usage)
	s.Admin = service.NewAdminService(s.Users, s.Subscriptions, s.Usage, s.Interviews, s.LoginLogs)
	return s
}

// Options configures the router
type Options struct {
	AllowedOrigins []string
	// AIRate is the number of AI calls per second allowed per caller
	AIRate  float64
	AIBurst int
	// Info is served by /actuator/info
	Info map[string]any
}

// Handler serves the HTTP API
type Handler struct {
	db     *gorm.DB
	svc    Services
	auth   *auth.Authenticator
	logger *slog.Logger
	info   map[string]any
}

// newCORSConfig returns false when no origin is allowed, in which case no CORS
// headers are sent at all.
func newCORSConfig(origins []string) (cors.Config, bool) {
	if len(origins) == 0 {
		return cors.Config{}, false
	}
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg, true
}

// NewRouter builds the gin engine with every route and middleware installed.
func NewRouter(db *gorm.DB, svc Services, authenticator *auth.Authenticator, logger *slog.Logger, opts Options) (*gin.Engine, error) {
	h := &Handler{db: db, svc: svc, auth: authenticator, logger: logger, info: opts.Info}

	spec, err := NewOpenAPISpec()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.NewLogging(logger, logging.WithIgnorePath("/actuator/health", metrics.Path)))
	r.Use(metrics.Middleware())
	if corsConfig, ok := newCORSConfig(opts.AllowedOrigins); ok {
		if err := corsConfig.Validate(); err != nil {
			return nil, errors.Wrap(err, "invalid CORS configuration")
		}
		r.Use(cors.New(corsConfig))
	}
	r.Use(authenticator.Authenticate())

	h.registerActuator(r)
	registerDocs(r, spec)

	v1 := r.Group("/api/v1")
	h.registerAuth(v1.Group("/auth"))
	h.registerPlans(v1.Group("/plans"))
	h.registerApp(v1.Group("/app"))

	authed := v1.Group("", authenticator.RequireAuth())
	h.registerUsers(authed.Group("/users"))
	h.registerSubscriptions(authed.Group("/subscriptions"))
	h.registerQuota(authed.Group("/quota"))
	h.registerCatalog(authed)
	h.registerConfig(authed.Group("/config"))
	h.registerAnalysis(authed.Group("/analysis"))

	anyRole := authenticator.RequireRoles(apiv1.AllRoles...)
	h.registerInterview(authed.Group("/interview", anyRole))

	limiter := NewRateLimiter(opts.AIRate, opts.AIBurst, logger)
	h.registerAI(authed.Group("/ai", limiter.Middleware()))

	h.registerAdmin(v1.Group("/admin", authenticator.RequireRoles(apiv1.RoleAdmin)))

	return r, nil
}
