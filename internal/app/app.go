package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/taskforge/taskforge/internal/config"
	"github.com/taskforge/taskforge/internal/db"
	"github.com/taskforge/taskforge/internal/event"
	"github.com/taskforge/taskforge/internal/repository"
	"github.com/taskforge/taskforge/internal/service"
	"github.com/taskforge/taskforge/internal/storage"
)

type App struct {
	Cfg               *config.Config
	DB                *sqlx.DB
	ProjectService    *service.ProjectService
	TaskService       *service.TaskService
	AttachmentService *service.AttachmentService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	projectRepository := repository.NewProjectRepository(database)
	taskRepository := repository.NewTaskRepository(database)
	attachmentRepository := repository.NewAttachmentRepository(database)

	// Object storage
	store, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Event notifier
	notifier, err := event.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize event notifier: %v", err)
	}

	// Services
	projectService := service.NewProjectService(projectRepository)
	taskService := service.NewTaskService(taskRepository, projectRepository, store, notifier)
	attachmentService := service.NewAttachmentService(
		attachmentRepository,
		taskRepository,
		store,
		notifier,
		service.UploadPolicy{
			MaxBytes:    cfg.S3UploadMaxBytes,
			AllowedMIME: cfg.S3AllowedMIME,
		},
	)

	return &App{
		Cfg:               cfg,
		DB:                database,
		ProjectService:    projectService,
		TaskService:       taskService,
		AttachmentService: attachmentService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
