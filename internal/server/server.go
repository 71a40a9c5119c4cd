package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/emilythestrangee/restaurant-reviews/backend/internal/config"
	"github.com/emilythestrangee/restaurant-reviews/backend/internal/database"
	"github.com/emilythestrangee/restaurant-reviews/backend/internal/handlers"
	"github.com/emilythestrangee/restaurant-reviews/backend/internal/middleware"
)

type Server struct {
	cfg     *config.Config
	db      database.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() (*http.Server, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	handler := handlers.NewHandler(db.GetDB(), cfg)

	newServer := &Server{
		cfg:     cfg,
		db:      db,
		handler: handler,
	}

	router := newServer.RegisterRoutes()

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info().Str("port", cfg.Port).Msg("server starting")

	return server, nil
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// Auth routes (public)
	r.POST("/auth/register", s.handler.Auth.Register)
	r.POST("/auth/login", s.handler.Auth.Login)
	r.POST("/auth/refresh", s.handler.Auth.Refresh)
	r.POST("/auth/logout", s.handler.Auth.Logout)

	// Everything else requires a caller identity
	protected := r.Group("")
	protected.Use(middleware.AuthMiddleware([]byte(s.cfg.TokenSecret)))
	{
		protected.GET("/me", s.handler.Auth.GetMe)

		protected.GET("/posts", s.handler.Post.GetPosts)
		protected.GET("/posts/:id", s.handler.Post.GetPost)
		protected.POST("/posts", s.handler.Post.CreatePost)
		protected.PUT("/posts/:id", s.handler.Post.UpdatePost)
		protected.DELETE("/posts/:id", s.handler.Post.DeletePost)

		protected.GET("/comments", s.handler.Comment.GetComments)
		protected.GET("/comments/:id", s.handler.Comment.GetComment)
		protected.POST("/comments", s.handler.Comment.CreateComment)
		protected.PUT("/comments/:id", s.handler.Comment.UpdateComment)
		protected.DELETE("/comments/:id", s.handler.Comment.DeleteComment)

		protected.POST("/likes", s.handler.Like.CreateLike)
		protected.DELETE("/likes/:postId", s.handler.Like.DeleteLike)

		protected.GET("/restaurants", s.handler.Restaurant.GetRestaurants)
		protected.GET("/restaurants/:id", s.handler.Restaurant.GetRestaurant)

		protected.GET("/users", s.handler.User.GetUsers)
		protected.GET("/users/:id", s.handler.User.GetUser)
		protected.PUT("/users/:id", s.handler.User.UpdateUser)
		protected.DELETE("/users/:id", s.handler.User.DeleteUser)
	}

	return r
}
