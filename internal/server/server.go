package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	authdomain "github.com/welltrack/welltrack/internal/auth/domain"
	"github.com/welltrack/welltrack/internal/config"
	obsmiddleware "github.com/welltrack/welltrack/internal/observability/logger"
	obsmetrics "github.com/welltrack/welltrack/internal/observability/metrics"
	"github.com/welltrack/welltrack/internal/providers/pdf"
	sessiondomain "github.com/welltrack/welltrack/internal/session/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// NewEngine builds the gin engine with the shared middleware chain and
// the unauthenticated operational endpoints.
func NewEngine(metrics *obsmetrics.Metrics, registry *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return r
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	db         *gorm.DB
	authsvc    authdomain.Service
	sessionsvc sessiondomain.Service
	pdf        pdf.Provider
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	DB         *gorm.DB
	Authsvc    authdomain.Service
	Sessionsvc sessiondomain.Service
	PDF        pdf.Provider
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		db:         p.DB,
		authsvc:    p.Authsvc,
		sessionsvc: p.Sessionsvc,
		pdf:        p.PDF,
	}

	s.registerAPIRoutes()

	return s
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.POST("/auth/register", s.Register)
	api.POST("/auth/login", s.Login)

	authed := api.Group("", s.AuthRequired())
	authed.POST("/usage", s.ReportUsage)
	authed.POST("/sync", s.Sync)
	authed.GET("/sessions", s.ListSessions)
	authed.GET("/report/today", s.TodayReport)
	authed.GET("/achievements", s.Achievements)
	authed.GET("/export/pdf", s.ExportPDF)
	authed.POST("/clear", s.ClearSessions)
	authed.DELETE("/session/:id", s.DeleteSession)
}

// RunHTTP starts the HTTP listener under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(*Server) {}),
	fx.Invoke(RunHTTP),
)
