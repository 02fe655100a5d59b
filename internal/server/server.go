package server

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/thebestory/backend/internal/config"
	"github.com/thebestory/backend/internal/middleware"

	commentHttp "github.com/thebestory/backend/internal/modules/comment/delivery/http"
	commentRepo "github.com/thebestory/backend/internal/modules/comment/repository"
	commentService "github.com/thebestory/backend/internal/modules/comment/service"

	reactionHttp "github.com/thebestory/backend/internal/modules/reaction/delivery/http"
	reactionRepo "github.com/thebestory/backend/internal/modules/reaction/repository"
	reactionService "github.com/thebestory/backend/internal/modules/reaction/service"

	snowflakeRepo "github.com/thebestory/backend/internal/modules/snowflake/repository"

	statHttp "github.com/thebestory/backend/internal/modules/stat/delivery/http"
	statRepo "github.com/thebestory/backend/internal/modules/stat/repository"
	statService "github.com/thebestory/backend/internal/modules/stat/service"

	storyHttp "github.com/thebestory/backend/internal/modules/story/delivery/http"
	storyRepo "github.com/thebestory/backend/internal/modules/story/repository"
	storyService "github.com/thebestory/backend/internal/modules/story/service"

	topicHttp "github.com/thebestory/backend/internal/modules/topic/delivery/http"
	topicRepo "github.com/thebestory/backend/internal/modules/topic/repository"
	topicService "github.com/thebestory/backend/internal/modules/topic/service"

	userHttp "github.com/thebestory/backend/internal/modules/user/delivery/http"
	userRepo "github.com/thebestory/backend/internal/modules/user/repository"
	userService "github.com/thebestory/backend/internal/modules/user/service"
)

type Server struct {
	engine *gin.Engine
	cfg    *config.Config
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	allocator := snowflakeRepo.NewAllocator(db)

	users := userRepo.NewUserRepository(db)
	authSvc := userService.NewAuthService(users, allocator, cfg.JWTSecret, cfg.JWTTTL)
	authHandler := userHttp.NewAuthHandler(authSvc)

	topics := topicRepo.NewTopicRepository(db)
	topicSvc := topicService.NewTopicService(topics, allocator)
	topicHandler := topicHttp.NewTopicHandler(topicSvc)

	stories := storyRepo.NewStoryRepository(db, cfg.CountRemovedStories)
	storySvc := storyService.NewStoryService(stories, topics, allocator, redisClient, cfg.RateLimitStory)
	storyHandler := storyHttp.NewStoryHandler(storySvc)

	comments := commentRepo.NewCommentRepository(db)
	commentSvc := commentService.NewCommentService(comments, stories, allocator)
	commentHandler := commentHttp.NewCommentHandler(commentSvc)

	reactions := reactionRepo.NewReactionRepository(db)
	reactionSvc := reactionService.NewReactionService(reactions, allocator, stories, comments)
	reactionHandler := reactionHttp.NewReactionHandler(reactionSvc)

	stats := statRepo.NewStatRepository(db)
	statSvc := statService.NewStatService(stats, users)
	statHandler := statHttp.NewStatHandler(statSvc)

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)

		public := api.Group("")
		public.Use(authMiddleware.OptionalAuth())
		{
			public.GET("/users/:username", authHandler.GetByUsername)
			public.GET("/users/:username/stats", statHandler.UserStats)

			public.GET("/topics", topicHandler.GetAll)
			public.GET("/topics/:slug", topicHandler.GetBySlug)

			public.GET("/stories/latest", storyHandler.Latest)
			public.GET("/stories/top", storyHandler.Top)
			public.GET("/stories/random", storyHandler.Random)
			public.GET("/stories/:id", storyHandler.Details)
			public.GET("/stories/:id/comments", commentHandler.ListByStory)
		}

		protected := api.Group("")
		protected.Use(authMiddleware.RequireAuth())
		{
			protected.POST("/topics", topicHandler.CreateTopic)

			protected.POST("/stories", storyHandler.Submit)
			protected.POST("/stories/:id/publish", storyHandler.Publish)
			protected.PUT("/stories/:id", storyHandler.Edit)
			protected.DELETE("/stories/:id", storyHandler.Remove)

			protected.POST("/stories/:id/comments", commentHandler.Create)
			protected.PUT("/comments/:id", commentHandler.Edit)
			protected.DELETE("/comments/:id", commentHandler.Remove)

			protected.POST("/reactions", reactionHandler.SetReaction)
			protected.GET("/reactions/:id", reactionHandler.GetState)
		}
	}

	return &Server{engine: router, cfg: cfg}
}

func (s *Server) Run() error {
	return s.engine.Run(":" + s.cfg.Port)
}
