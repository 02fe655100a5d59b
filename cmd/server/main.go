package main

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/thebestory/backend/internal/config"
	"github.com/thebestory/backend/internal/entity"
	snowflake "github.com/thebestory/backend/internal/modules/snowflake/repository"
	topicRepo "github.com/thebestory/backend/internal/modules/topic/repository"
	"github.com/thebestory/backend/internal/server"
	"github.com/thebestory/backend/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := seedTopics(db); err != nil {
			log.Fatalf("failed to seed topics: %v", err)
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	}

	srv := server.NewServer(cfg, db, redisClient)
	if err := srv.Run(); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Snowflake{},
		&entity.User{},
		&entity.Topic{},
		&entity.Story{},
		&entity.Comment{},
		&entity.Reaction{},
		&entity.ReactionState{},
	)
}

func seedTopics(db *gorm.DB) error {
	defaultTopics := []struct {
		title, slug, icon string
	}{
		{"Funny", "funny", "😂"},
		{"Heartwarming", "heartwarming", "💛"},
		{"Creepy", "creepy", "👻"},
	}

	ctx := context.Background()
	allocator := snowflake.NewAllocator(db)
	topics := topicRepo.NewTopicRepository(db)

	for _, t := range defaultTopics {
		var count int64
		if err := db.Model(&entity.Topic{}).
			Where("slug = ?", t.slug).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		id, err := allocator.Allocate(ctx, entity.TypeTopic)
		if err != nil {
			return err
		}

		if err := topics.Create(ctx, &entity.Topic{
			ID:       id,
			Title:    t.title,
			Slug:     t.slug,
			Icon:     t.icon,
			IsActive: true,
		}); err != nil {
			return err
		}
	}

	return nil
}
