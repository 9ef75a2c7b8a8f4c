package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
	"github.com/gin-gonic/gin"

	"preview-api/apiv1"
	"preview-api/internal/service"
)

const (
	docsPath      = "/v3/api-docs"
	swaggerPath   = "/swagger-ui"
	bearerScheme  = "bearerAuth"
	apiTitle      = "Preview API"
	apiVersion    = "1.0.0"
	apiDescribing = "Interview practice backend: accounts, plans, token quota and AI interviews."
)

// docRoute describes one documented operation. Body is a sample value of the
// request type.
type docRoute struct {
	method  string
	path    string
	tag     string
	summary string
	public  bool
	body    any
}

var docRoutes = []docRoute{
	{http.MethodPost, "/api/v1/auth/social-login", "auth", "Sign in with a Firebase identity", true, SocialLoginRequest{}},
	{http.MethodDelete, "/api/v1/auth/withdraw/{userId}", "auth", "Withdraw an account", false, nil},
	{http.MethodGet, "/api/v1/auth/login-history/{userId}", "auth", "Login history of a user", false, nil},

	{http.MethodGet, "/api/v1/users/me", "users", "Current user", false, nil},
	{http.MethodPost, "/api/v1/users/register", "users", "Register an email account", false, service.RegisterRequest{}},
	{http.MethodGet, "/api/v1/users", "users", "List users", false, nil},
	{http.MethodGet, "/api/v1/users/search", "users", "Search users", false, nil},
	{http.MethodGet, "/api/v1/users/email/{email}", "users", "Find a user by email", false, nil},
	{http.MethodGet, "/api/v1/users/{id}", "users", "Get a user", false, nil},
	{http.MethodPut, "/api/v1/users/{id}", "users", "Update a profile", false, UpdateProfileRequest{}},
	{http.MethodPut, "/api/v1/users/{id}/plan", "users", "Change a user's plan", false, ChangePlanRequest{}},

	{http.MethodGet, "/api/v1/plans", "plans", "List active plans", true, nil},
	{http.MethodGet, "/api/v1/plans/compare", "plans", "Compare two plans", true, nil},
	{http.MethodGet, "/api/v1/plans/{type}", "plans", "Get a plan by type", true, nil},

	{http.MethodPost, "/api/v1/subscriptions", "subscriptions", "Subscribe to a plan", false, CreateSubscriptionRequest{}},
	{http.MethodGet, "/api/v1/subscriptions/users/{userId}", "subscriptions", "Subscriptions of a user", false, nil},
	{http.MethodGet, "/api/v1/subscriptions/users/{userId}/active", "subscriptions", "Active subscription of a user", false, nil},
	{http.MethodPost, "/api/v1/subscriptions/{id}/cancel", "subscriptions", "Cancel a subscription", false, nil},
	{http.MethodPost, "/api/v1/subscriptions/{id}/renew", "subscriptions", "Renew a subscription", false, nil},

	{http.MethodGet, "/api/v1/quota", "quota", "Monthly token quota", false, nil},
	{http.MethodGet, "/api/v1/quota/history", "quota", "Token usage history", false, nil},

	{http.MethodPost, "/api/v1/interview/prompt", "interview", "Build an interview prompt", false, apiv1.InterviewSettings{}},
	{http.MethodGet, "/api/v1/interview/metadata", "interview", "Interview setting options", false, nil},
	{http.MethodGet, "/api/v1/interview/eligibility/check", "interview", "Check interview eligibility", false, nil},
	{http.MethodPost, "/api/v1/interview/sessions/start", "interview", "Start an interview session", false, apiv1.InterviewSettings{}},
	{http.MethodGet, "/api/v1/interview/sessions", "interview", "List interview sessions", false, nil},
	{http.MethodGet, "/api/v1/interview/sessions/latest", "interview", "Latest interview session", false, nil},
	{http.MethodGet, "/api/v1/interview/sessions/incomplete", "interview", "Unfinished interview sessions", false, nil},
	{http.MethodGet, "/api/v1/interview/sessions/{sessionId}", "interview", "Get an interview session", false, nil},
	{http.MethodPost, "/api/v1/interview/sessions/{sessionId}/end", "interview", "End an interview session", false, nil},
	{http.MethodGet, "/api/v1/interview/skills", "interview", "List skills", false, nil},
	{http.MethodGet, "/api/v1/interview/skills/popular", "interview", "Popular skills", false, nil},
	{http.MethodGet, "/api/v1/interview/skills/job-role/{role}", "interview", "Skills for a job role", false, nil},

	{http.MethodPost, "/api/v1/ai/interview/start", "ai", "Start an AI interview", false, StartInterviewRequest{}},
	{http.MethodPost, "/api/v1/ai/interview/continue", "ai", "Send the next answer", false, ConversationRequest{}},
	{http.MethodPost, "/api/v1/ai/interview/summarize", "ai", "Summarise an interview", false, ConversationRequest{}},
	{http.MethodPost, "/api/v1/ai/interview/evaluate", "ai", "Evaluate an interview", false, ConversationRequest{}},

	{http.MethodGet, "/api/v1/job-fields", "catalog", "List job fields", false, nil},
	{http.MethodGet, "/api/v1/job-fields/by-code/{code}", "catalog", "Find a job field by code", false, nil},
	{http.MethodGet, "/api/v1/job-fields/{id}", "catalog", "Get a job field", false, nil},
	{http.MethodGet, "/api/v1/job-fields/{id}/with-positions", "catalog", "Get a job field with positions", false, nil},
	{http.MethodGet, "/api/v1/job-positions", "catalog", "Positions of a job field by query", false, nil},
	{http.MethodGet, "/api/v1/job-positions/field/{fieldId}", "catalog", "Positions of a job field", false, nil},
	{http.MethodGet, "/api/v1/experience-levels", "catalog", "List experience levels", false, nil},
	{http.MethodGet, "/api/v1/experience-levels/active", "catalog", "Active experience levels", false, nil},
	{http.MethodGet, "/api/v1/experience-levels/by-code/{code}", "catalog", "Find an experience level by code", false, nil},
	{http.MethodGet, "/api/v1/experience-levels/by-years/{years}", "catalog", "Experience level for years of experience", false, nil},
	{http.MethodGet, "/api/v1/experience-levels/{id}", "catalog", "Get an experience level", false, nil},
	{http.MethodGet, "/api/v1/interviewers", "catalog", "List interviewers", false, nil},
	{http.MethodGet, "/api/v1/interviewers/active", "catalog", "Active interviewers", false, nil},
	{http.MethodGet, "/api/v1/interviewers/by-code/{code}", "catalog", "Find an interviewer by code", false, nil},
	{http.MethodGet, "/api/v1/interviewers/by-personality/{personality}", "catalog", "Interviewers by personality", false, nil},
	{http.MethodGet, "/api/v1/interviewers/{id}", "catalog", "Get an interviewer", false, nil},

	{http.MethodGet, "/api/v1/app/info", "app", "Application information", true, nil},
	{http.MethodGet, "/api/v1/app/legal/{type}", "app", "Legal document", true, nil},
	{http.MethodGet, "/api/v1/app/company", "app", "Company information", true, nil},
	{http.MethodGet, "/api/v1/app/faq", "app", "Frequently asked questions", true, nil},
	{http.MethodGet, "/api/v1/app/status", "app", "Service status", true, nil},

	{http.MethodGet, "/api/v1/config", "config", "User settings", false, nil},
	{http.MethodPut, "/api/v1/config", "config", "Update user settings", false, service.PreferenceUpdate{}},
	{http.MethodGet, "/api/v1/config/advanced", "config", "Advanced settings", false, nil},
	{http.MethodPut, "/api/v1/config/advanced", "config", "Update advanced settings", false, map[string]any{}},

	{http.MethodGet, "/api/v1/analysis/basic", "analysis", "Basic practice analysis", false, nil},
	{http.MethodGet, "/api/v1/analysis/advanced", "analysis", "Advanced practice analysis", false, nil},
	{http.MethodGet, "/api/v1/analysis/premium", "analysis", "Premium practice analysis", false, nil},

	{http.MethodGet, "/api/v1/admin/stats", "admin", "System statistics", false, nil},
	{http.MethodGet, "/api/v1/admin/user-activities", "admin", "Recent login activity", false, nil},
	{http.MethodPut, "/api/v1/admin/users/{id}/role", "admin", "Set a user's role", false, SetRoleRequest{}},
	{http.MethodPut, "/api/v1/admin/status", "admin", "Update the service status", false, UpdateStatusRequest{}},

	{http.MethodGet, "/actuator/health", "actuator", "Health check", true, nil},
	{http.MethodGet, "/actuator/info", "actuator", "Build information", true, nil},
}

// pathParams returns the {name} segments of an OpenAPI path.
func pathParams(path string) []string {
	var names []string
	for _, seg := range strings.Split(path, "/") {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			names = append(names, strings.Trim(seg, "{}"))
		}
	}
	return names
}

func operationID(method, path string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))
	for _, seg := range strings.Split(strings.TrimPrefix(path, "/api/v1"), "/") {
		seg = strings.Trim(seg, "{}")
		for _, part := range strings.Split(seg, "-") {
			if part == "" {
				continue
			}
			b.WriteString(strings.ToUpper(part[:1]) + part[1:])
		}
	}
	return b.String()
}

// NewOpenAPISpec builds and validates the OpenAPI document of the HTTP API.
func NewOpenAPISpec() (*openapi3.T, error) {
	schemas := openapi3.Schemas{}
	spec := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       apiTitle,
			Version:     apiVersion,
			Description: apiDescribing,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: schemas,
			SecuritySchemes: openapi3.SecuritySchemes{
				bearerScheme: &openapi3.SecuritySchemeRef{Value: openapi3.NewJWTSecurityScheme()},
			},
		},
	}

	for _, route := range docRoutes {
		op := openapi3.NewOperation()
		op.Tags = []string{route.tag}
		op.Summary = route.summary
		op.OperationID = operationID(route.method, route.path)
		for _, name := range pathParams(route.path) {
			op.Parameters = append(op.Parameters, &openapi3.ParameterRef{
				Value: openapi3.NewPathParameter(name).WithSchema(openapi3.NewStringSchema()),
			})
		}
		if route.body != nil {
			schema, err := openapi3gen.NewSchemaRefForValue(route.body, schemas)
			if err != nil {
				return nil, errors.Wrapf(err, "schema for %s %s", route.method, route.path)
			}
			op.RequestBody = &openapi3.RequestBodyRef{
				Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(schema),
			}
		}
		op.Responses = openapi3.NewResponses()
		op.Responses.Set("200", &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("success envelope")})
		op.Responses.Set("400", &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("invalid request")})
		if !route.public {
			op.Responses.Set("401", &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("missing or invalid token")})
			op.Security = openapi3.NewSecurityRequirements().With(openapi3.NewSecurityRequirement().Authenticate(bearerScheme))
		}

		item := spec.Paths.Value(route.path)
		if item == nil {
			item = &openapi3.PathItem{}
			spec.Paths.Set(route.path, item)
		}
		item.SetOperation(route.method, op)
	}

	if err := spec.Validate(context.Background()); err != nil {
		return nil, errors.Wrap(err, "invalid openapi document")
	}
	return spec, nil
}

const swaggerPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>` + apiTitle + `</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({ url: "` + docsPath + `", dom_id: "#swagger-ui" });
  </script>
</body>
</html>`

func registerDocs(r *gin.Engine, spec *openapi3.T) {
	r.GET(docsPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, spec)
	})
	page := func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerPage))
	}
	r.GET(swaggerPath, page)
	r.GET(swaggerPath+"/index.html", page)
}
