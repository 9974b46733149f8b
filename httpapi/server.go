package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/MrEthical07/learnhub"
	"github.com/MrEthical07/learnhub/catalog"
	"github.com/MrEthical07/learnhub/middleware"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

type Config struct {
	ServiceName string
	Origins     []string
	// TrustedProxies lists CIDRs whose X-Forwarded-For is honoured. When
	// empty the client IP is always the peer address.
	TrustedProxies []string
	Production     bool
	BodyLimit      string
	// RateLimit is skipped when RPS is zero.
	RateLimit RateLimitConfig
	Tracing   bool
}

// ProfileVerifier turns a third-party ID token into a social profile.
type ProfileVerifier interface {
	Profile(ctx context.Context, token string) (learnhub.SocialProfile, error)
}

type Deps struct {
	Engine  *learnhub.Engine
	Catalog *catalog.Service
	// Google is optional; when set, social auth requires an id_token.
	Google  ProfileVerifier
	Metrics http.Handler
	Logger  *slog.Logger
}

type Server struct {
	cfg     Config
	engine  *learnhub.Engine
	catalog *catalog.Service
	google  ProfileVerifier
	metrics http.Handler
	logger  *slog.Logger
	echo    *echo.Echo
}

func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Engine == nil {
		return nil, errors.New("httpapi: engine is required")
	}
	if deps.Catalog == nil {
		return nil, errors.New("httpapi: catalog service is required")
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "learnhub"
	}
	if cfg.BodyLimit == "" {
		cfg.BodyLimit = "50M"
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Server{
		cfg:     cfg,
		engine:  deps.Engine,
		catalog: deps.Catalog,
		google:  deps.Google,
		metrics: deps.Metrics,
		logger:  logger,
		echo:    echo.New(),
	}
	extractor, err := ipExtractor(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}
	s.echo.IPExtractor = extractor
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Validator = NewValidator()
	s.echo.HTTPErrorHandler = errorHandler(logger)

	s.middlewares()
	s.routes()
	return s, nil
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) middlewares() {
	e := s.echo
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(clientContext)
	if s.cfg.Tracing {
		e.Use(otelecho.Middleware(s.cfg.ServiceName))
	}
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				if v.Status >= http.StatusInternalServerError {
					level = slog.LevelError
				}
			}
			s.logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     s.cfg.Origins,
		AllowCredentials: true,
	}))
	e.Use(echomw.BodyLimit(s.cfg.BodyLimit))
	if s.cfg.RateLimit.RPS > 0 {
		e.Use(NewRateLimiter(s.cfg.RateLimit).Middleware())
	}
}

// gate wraps the net/http guard; roles narrow the route to those roles.
func (s *Server) gate(roles ...learnhub.Role) echo.MiddlewareFunc {
	return echo.WrapMiddleware(middleware.Guard(s.engine, roles...))
}

func (s *Server) routes() {
	e := s.echo
	e.GET("/test", s.handleLiveness)
	e.GET("/healthz", s.handleHealth)
	if s.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(s.metrics))
	}

	api := e.Group("/api/v1")
	admin := s.gate(learnhub.RoleAdmin)

	user := api.Group("/user")
	user.POST("/registration", s.handleRegister)
	user.POST("/activate-user", s.handleActivate)
	user.POST("/login", s.handleLogin)
	user.GET("/logout", s.handleLogout, s.gate())
	user.GET("/refresh", s.handleRefresh)
	user.GET("/me", s.handleMe, s.gate())
	user.POST("/social-auth", s.handleSocialAuth)
	user.PUT("/update-user-info", s.handleUpdateInfo, s.gate())
	user.PUT("/update-user-password", s.handleUpdatePassword, s.gate())
	user.PUT("/update-user-avatar", s.handleUpdateAvatar, s.gate())

	course := api.Group("/course")
	course.POST("/create-course", s.handleCreateCourse, admin)
	course.PUT("/edit-course/:id", s.handleEditCourse, admin)
	course.GET("/get-single-course/:id", s.handleGetCourse)
	course.GET("/get-all-courses", s.handleListCourses)
	course.GET("/get-course-by-user/:id", s.handleCourseContent, s.gate())
	course.PUT("/add-question", s.handleAddQuestion, s.gate())
	course.PUT("/add-reply", s.handleAddReply, s.gate())
	course.PUT("/add-review/:id", s.handleAddReview, s.gate())

	order := api.Group("/order")
	order.POST("/create-order", s.handleCreateOrder, s.gate())
	order.GET("/get-orders", s.handleListOrders, admin)

	notifications := api.Group("/notifications", admin)
	notifications.GET("/get-all-notifications", s.handleListNotifications)
	notifications.PUT("/update-notification-status/:id", s.handleMarkNotification)

	analytics := api.Group("/analytics", admin)
	analytics.GET("/get-users-analytics", s.handleUserAnalytics)
	analytics.GET("/get-courses-analytics", s.handleCourseAnalytics)
	analytics.GET("/get-orders-analytics", s.handleOrderAnalytics)

	layout := api.Group("/layout")
	layout.POST("/create-layout", s.handleCreateLayout, admin)
	layout.PUT("/edit-layout", s.handleEditLayout, admin)
	layout.GET("/get-layout/:type", s.handleGetLayout)
}

func (s *Server) handleLiveness(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "API is working"})
}

// handleHealth reports 503 while the credential store is unreachable.
func (s *Server) handleHealth(c echo.Context) error {
	health := s.engine.Health(c.Request().Context())
	status := http.StatusOK
	if !health.RedisAvailable {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, echo.Map{
		"success":        health.RedisAvailable,
		"redisAvailable": health.RedisAvailable,
		"redisLatencyMs": health.RedisLatency.Milliseconds(),
	})
}

// ipExtractor trusts X-Forwarded-For only from the given proxy ranges.
func ipExtractor(trusted []string) (echo.IPExtractor, error) {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect(), nil
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trusted {
		_, ipNet, err := net.ParseCIDR(strings.TrimSpace(cidr))
		if err != nil {
			return nil, fmt.Errorf("httpapi: trusted proxy %q: %w", cidr, err)
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...), nil
}

// clientContext attaches the resolved client IP so the net/http guard
// does not have to look at forwarding headers.
func clientContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := learnhub.WithClientIP(c.Request().Context(), c.RealIP())
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// requestContext carries client IP and user agent into engine calls.
func requestContext(c echo.Context) context.Context {
	ctx := c.Request().Context()
	if _, ok := learnhub.ClientIPFromContext(ctx); !ok {
		ctx = learnhub.WithClientIP(ctx, c.RealIP())
	}
	return learnhub.WithUserAgent(ctx, c.Request().UserAgent())
}

func currentIdentity(c echo.Context) (*learnhub.Identity, error) {
	identity, ok := middleware.IdentityFromContext(c.Request().Context())
	if !ok {
		return nil, learnhub.ErrUnauthenticated
	}
	return identity, nil
}

// bind decodes and validates the request body into dst.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return err
	}
	return c.Validate(dst)
}
