package cmd

import (
	"fmt"

	"video-catalog/core/config"
	"video-catalog/core/database"
	"video-catalog/core/logger"
	"video-catalog/core/storage"
	"video-catalog/core/token"
	accountModels "video-catalog/feature/accounts/models"
	libraryModels "video-catalog/feature/library/models"
	topicModels "video-catalog/feature/topics/models"
	videoModels "video-catalog/feature/videos/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime bundles what every command needs.
type runtime struct {
	cfg    *config.Config
	log    *zap.Logger
	db     *gorm.DB
	client storage.Client
}

// catalogModels lists every persisted model, in migration order.
func catalogModels() []any {
	return []any{
		&topicModels.Topic{},
		&topicModels.Subtopic{},
		&videoModels.Video{},
		&accountModels.User{},
		&libraryModels.SavedVideo{},
		&libraryModels.VideoList{},
		&libraryModels.ListVideo{},
		&token.RevokedToken{},
	}
}

// newRuntime loads configuration, builds the logger and connects to the
// database. The storage client is created only when withStorage is set.
func newRuntime(withStorage bool) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database connection required: %w", err)
	}

	rt := &runtime{cfg: cfg, log: logg, db: db}
	if withStorage {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		rt.client = client
	}
	return rt, nil
}
