package api

import (
	"time" // CORS preflight cache

	"library_system/internal/config"     // Application configuration
	"library_system/internal/domain"     // Importing domain models
	"library_system/internal/middleware" // Guards, logging, metrics
	"library_system/internal/repository" // Data access
	"library_system/internal/utils"      // Cache and media store

	"github.com/gin-contrib/cors" // CORS middleware
	"github.com/gin-gonic/gin"    // Gin web framework
	"gorm.io/gorm"                // GORM ORM library
)

// Deps carries everything the router hands to handlers
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Repos   *repository.Repositories
	Cache   *utils.Cache // nil disables caching
	Media   *utils.MediaStore
	Metrics *middleware.Metrics
}

func corsConfig(cfg *config.Config) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.TokenHeader, middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if origins := cfg.AllowedOrigins(); origins != nil {
		cc.AllowOrigins = origins
	} else {
		cc.AllowAllOrigins = true
	}
	return cc
}

// NewRouter builds the gin engine with every route mounted
func NewRouter(d Deps) *gin.Engine {
	useJSONFieldNames()
	cfg := d.Config
	if d.Metrics == nil {
		d.Metrics = middleware.NewMetrics()
	}

	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		d.Metrics.Middleware(),
		cors.New(corsConfig(cfg)),
		middleware.BodyLimit(cfg.MaxUploadBytes()),
	)

	// Site routes
	r.GET("/", HealthHandler(d.DB))
	r.GET("/metrics", d.Metrics.Handler())
	r.Static("/static", cfg.StaticFolder)
	r.Static(d.Media.URLPrefix, d.Media.Root)
	r.GET("/upload", UploadFormHandler())
	r.POST("/upload", UploadHandler(d.Media))

	// Auth routes, rate limited per client IP
	auth := r.Group("")
	if cfg.AuthRateLimit > 0 {
		auth.Use(middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst).Middleware())
	}
	auth.POST("/signup", SignupHandler(d.Repos.Users, d.Cache))
	auth.POST("/login", LoginHandler(d.Repos.Users, cfg.SecretKey, cfg.TokenTTL()))

	r.GET("/profile/:user_id", GetProfileHandler(d.Repos.Users))

	// Everything else needs a valid token
	guarded := r.Group("")
	guarded.Use(middleware.TokenAuthMiddleware(cfg.SecretKey, d.Repos.Users))
	guarded.PUT("/profile/update/:user_id", UpdateProfileHandler(d.Repos, d.Media, d.Cache, cfg.MaxUploadBytes()))

	books := &BookHandlers{
		Books:     d.Repos.Books,
		Genres:    d.Repos.Genres,
		Media:     d.Media,
		Cache:     d.Cache,
		MaxMemory: cfg.MaxUploadBytes(),
	}
	guarded.POST("/add-book", books.Create)
	guarded.GET("/list-books", books.List)
	guarded.GET("/get-book/:id", books.Get)
	guarded.PUT("/update-book/:id", books.Update)
	guarded.DELETE("/delete-book/:id", books.Delete)
	guarded.GET("/search-books", books.Search)

	genreResource(d.Repos, d.Cache).Register(guarded, "genre", "genres")
	copyResource(d.Repos).Register(guarded, "copy", "copies")
	bookRequestResource(d.Repos).Register(guarded, "book-request", "book-requests")
	reviewResource(d.Repos).Register(guarded, "review", "reviews")
	bookmarkResource(d.Repos).Register(guarded, "bookmark", "bookmarks")
	transactionResource(d.Repos, d.Cache).Register(guarded, "transaction", "transactions")

	// Reservations move copies in and out of circulation, so only list/get are generic
	reservations := &ReservationHandlers{Repo: d.Repos.Reservations, Cache: d.Cache}
	plain := &Resource[domain.Reservation]{Name: "Reservation", Key: "reservation", Repo: d.Repos.Reservations.Repository}
	guarded.POST("/add-reservation", reservations.Create)
	guarded.GET("/list-reservations", plain.List)
	guarded.GET("/get-reservation/:id", plain.Get)
	guarded.PUT("/update-reservation/:id", reservations.Update)
	guarded.DELETE("/delete-reservation/:id", reservations.Delete)
	guarded.GET("/my-reservations", reservations.History)

	// Admin routes (protected, admin only)
	admin := r.Group("/admin")
	admin.Use(middleware.TokenAuthMiddleware(cfg.SecretKey, d.Repos.Users), middleware.AdminOnlyMiddleware())
	admin.GET("/users", ListUsersHandler(d.Repos.Users, d.Cache))
	admin.GET("/transactions", ListTransactionsHandler(d.Repos.Transactions, d.Cache))
	admin.PUT("/users/:id/active", SetUserActiveHandler(d.Repos.Users, d.Cache))

	return r
}
