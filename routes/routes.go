package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"zawamu/config"
	"zawamu/handlers"
	"zawamu/middleware"
	"zawamu/observability"
)

// Deps carries everything the router needs. Nil Registry skips /metrics,
// nil Live skips the activity feed.
type Deps struct {
	Properties *handlers.PropertyHandler
	Blog       *handlers.BlogHandler
	Contact    *handlers.ContactHandler
	Viewings   *handlers.ViewingHandler
	Auth       *handlers.AuthHandler
	Admin      *handlers.AdminHandler
	Upload     *handlers.UploadHandler
	Currency   *handlers.CurrencyHandler

	Tokens       middleware.TokenVerifier
	LoginLimiter *middleware.LimiterStore
	Live         http.HandlerFunc
	Registry     *prometheus.Registry
}

func SetupRouter(cfg config.Config, d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(log.Logger), middleware.Metrics())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Zawamu Properties API is running")
	})
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})
	if d.Registry != nil {
		router.GET("/metrics", gin.WrapH(observability.MetricsHandler(d.Registry)))
	}

	api := router.Group("/api")

	// writes and dashboard routes; open unless PROTECT_ADMIN_ROUTES is set
	admin := router.Group("/api")
	if cfg.ProtectAdmin {
		admin.Use(middleware.JWTAuth(d.Tokens))
	}

	// Auth
	login := []gin.HandlerFunc{}
	if d.LoginLimiter != nil {
		login = append(login, middleware.LoginRateLimit(d.LoginLimiter))
	}
	api.POST("/auth/login", append(login, d.Auth.Login)...)
	api.GET("/auth/profile", middleware.JWTAuth(d.Tokens), d.Auth.Profile)

	// Properties
	api.GET("/properties", d.Properties.List)
	api.GET("/properties/:id", d.Properties.Get)
	admin.POST("/properties", d.Properties.Create)
	admin.PUT("/properties/:id", d.Properties.Update)
	admin.DELETE("/properties/:id", d.Properties.Delete)

	// Blog
	api.GET("/blog", d.Blog.List)
	api.GET("/blog/:id", d.Blog.Get)
	admin.POST("/blog", d.Blog.Create)
	admin.PUT("/blog/:id", d.Blog.Update)
	admin.DELETE("/blog/:id", d.Blog.Delete)

	// Public forms
	api.POST("/contact", d.Contact.Submit)
	api.POST("/viewing-requests", d.Viewings.Create)
	admin.GET("/viewing-requests", d.Viewings.List)
	admin.PUT("/viewing-requests/:id", d.Viewings.UpdateStatus)

	// Dashboard
	admin.GET("/admin/stats", d.Admin.Stats)
	admin.GET("/admin/recent-activity", d.Admin.RecentActivity)
	admin.GET("/analytics", d.Admin.Analytics)

	// Media
	admin.POST("/upload", d.Upload.Upload)

	// Currency
	api.GET("/currency/rates", d.Currency.Rates)
	api.GET("/currency/convert", d.Currency.Convert)

	if d.Live != nil {
		router.GET("/ws/activity", gin.WrapF(d.Live))
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "Endpoint not found",
				"path":    c.Request.URL.Path,
			})
			return
		}
		c.String(http.StatusNotFound, "Not found")
	})

	return router
}
