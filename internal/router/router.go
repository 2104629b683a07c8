// internal/router/router.go
package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/javajoker/energy-eservice/internal/backend"
	"github.com/javajoker/energy-eservice/internal/cache"
	"github.com/javajoker/energy-eservice/internal/config"
	"github.com/javajoker/energy-eservice/internal/handlers"
	"github.com/javajoker/energy-eservice/internal/metrics"
	"github.com/javajoker/energy-eservice/internal/middleware"
	"github.com/javajoker/energy-eservice/internal/services"
	"github.com/javajoker/energy-eservice/internal/session"
)

// Dependencies are the long-lived resources the routes share.
type Dependencies struct {
	DB       *gorm.DB
	Cache    cache.Cache
	Limiters *middleware.Limiters
	Backend  *backend.Client
}

func Initialize(deps Dependencies, cfg *config.Config) (*gin.Engine, error) {
	client := deps.Backend
	if client == nil {
		client = backend.NewClient(backend.Options{
			BaseURL:  cfg.Backend.BaseURL,
			Timeout:  cfg.Backend.Timeout,
			Observer: metrics.ObserveBackendCall,
		})
	}
	limiters := deps.Limiters
	if limiters == nil {
		limiters = middleware.NewLimiters()
	}

	// Initialize services
	auditService := services.NewAuditService(deps.DB)
	notificationService := services.NewNotificationService(deps.DB, cfg)
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	requestService := services.NewRequestService(client, deps.Cache, auditService, notificationService, cfg.Cache)
	submissionService := services.NewSubmissionService(client, deps.Cache, cfg.Cache)
	dashboardService := services.NewDashboardService(client, deps.Cache, cfg.Cache.DashboardTTL)

	sessions := session.NewManager(session.Config{
		VerifySecret:    cfg.Session.VerifySecret,
		CitizenAudience: cfg.Session.CitizenAudience,
		PortalAudience:  cfg.Session.PortalAudience,
	}, deps.Cache)

	// Initialize handlers
	requestHandler := handlers.NewRequestHandler(requestService, auditService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	citizenHandler := handlers.NewCitizenHandler(submissionService)
	documentHandler := handlers.NewDocumentHandler(storageService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	sessionHandler := handlers.NewSessionHandler(sessions)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(middleware.AuditLogMiddleware(auditService))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})
	if cfg.Server.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	v1 := r.Group("/v1")
	{
		// Anonymous callers are limited per IP, sessions per subject.
		v1.GET("/workflow/statuses", limiters.General.Middleware(), handlers.GetStatusCatalog)

		// Officer back-office
		portal := v1.Group("/portal")
		portal.Use(middleware.PortalRequired(sessions), limiters.General.Middleware())
		{
			portal.GET("/dashboard", dashboardHandler.GetDashboard)
			portal.GET("/requests", requestHandler.ListRequests)
			portal.GET("/requests/:id", requestHandler.GetRequest)
			portal.POST("/requests/:id/actions/:action", limiters.Transition.Middleware(), requestHandler.PerformAction)
			portal.GET("/transitions/:id", requestHandler.TransitionHistory)

			for _, collection := range []backend.Collection{
				backend.CollectionLicenses,
				backend.CollectionInspections,
				backend.CollectionAudits,
			} {
				portal.GET("/"+string(collection), requestHandler.ListCollection(collection))
				portal.POST("/"+string(collection), requestHandler.CreateCollectionItem(collection))
			}

			portal.POST("/logout", sessionHandler.PortalLogout)
		}

		// Citizen e-services
		citizen := v1.Group("/citizen")
		citizen.Use(middleware.CitizenRequired(sessions), limiters.General.Middleware())
		{
			citizen.POST("/requests", citizenHandler.SubmitRequest)
			citizen.GET("/requests", citizenHandler.ListMyRequests)
			citizen.GET("/requests/:id", citizenHandler.GetMyRequest)
			citizen.PUT("/requests/:id/resubmit", citizenHandler.ResubmitRequest)
			citizen.POST("/documents", limiters.Upload.Middleware(), documentHandler.UploadDocument)
			citizen.GET("/documents/url", documentHandler.GetDocumentURL)
			citizen.GET("/documents/files/*key", documentHandler.ServeDocument)
			citizen.GET("/notifications", notificationHandler.ListNotifications)
			citizen.PUT("/notifications/:id/read", notificationHandler.MarkRead)
			citizen.POST("/logout", sessionHandler.CitizenLogout)
		}
	}

	return r, nil
}
