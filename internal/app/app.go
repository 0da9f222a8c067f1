package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/cloud-classroom/internal/models"
	"github.com/noah-isme/cloud-classroom/internal/repository"
	"github.com/noah-isme/cloud-classroom/internal/service"
	"github.com/noah-isme/cloud-classroom/pkg/cache"
	"github.com/noah-isme/cloud-classroom/pkg/config"
	"github.com/noah-isme/cloud-classroom/pkg/database"
	"github.com/noah-isme/cloud-classroom/pkg/storage"
)

// App owns the in-memory classroom structures and the services built on them.
// Both the console shell and the HTTP API run on top of one App.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *service.MetricsService

	Directory *repository.UserDirectory
	Chat      *repository.ChatGraph
	Syllabus  *repository.SyllabusIndex
	Scheduler *repository.AssignmentScheduler
	Board     *repository.AnnouncementBoard

	Users         *service.UserService
	Auth          *service.AuthService
	Messages      *service.ChatService
	Subjects      *service.SyllabusService
	Announcements *service.AnnouncementService
	Assignments   *service.AssignmentService
	Reports       *service.ExportService

	cacheRepo *repository.CacheRepository
	db        *sqlx.DB
}

// New wires the application. Postgres and Redis are only dialled when enabled
// in cfg.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{
		Config:    cfg,
		Logger:    logger,
		Metrics:   service.NewMetricsService(),
		Directory: repository.NewUserDirectory(cfg.Directory.Buckets),
		Chat:      repository.NewChatGraph(),
		Syllabus:  repository.NewSyllabusIndex(),
		Scheduler: repository.NewAssignmentScheduler(cfg.Scheduler.Capacity),
		Board:     repository.NewAnnouncementBoard(),
	}

	dataStore, err := storage.NewLocalStorage(cfg.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("init data storage: %w", err)
	}
	reportStore, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("init report storage: %w", err)
	}

	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.cacheRepo = repository.NewCacheRepository(client)
	}
	if cfg.Archive.Enabled {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.db = db
	}

	validate := validator.New()
	var cacheRepo service.CacheRepository
	if a.cacheRepo != nil {
		cacheRepo = a.cacheRepo
	}
	cacheSvc := service.NewCacheService(cacheRepo, a.Metrics, cfg.Cache.TTL, logger.Named("cache"), cfg.Cache.Enabled)

	a.Users = service.NewUserService(a.Directory, dataStore, validate, logger.Named("users"))
	if a.db != nil {
		a.Users.WithArchive(repository.NewUserRepository(a.db), a.Metrics)
	}
	a.Auth = service.NewAuthService(a.Directory, validate, logger.Named("auth"), service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	a.Messages = service.NewChatService(a.Chat, a.Directory, validate, logger.Named("chat"))
	a.Subjects = service.NewSyllabusService(a.Syllabus, cacheSvc, validate, logger.Named("syllabus"))
	a.Announcements = service.NewAnnouncementService(a.Board, a.Directory, validate, logger.Named("announcements"))
	a.Assignments = service.NewAssignmentService(a.Scheduler, a.Directory, validate, logger.Named("assignments"))
	a.Reports = service.NewExportService(a.Subjects, a.Assignments, reportStore, nil, nil, validate, logger.Named("reports"))

	a.Metrics.RegisterGauge("classroom_users", "Registered users", func() float64 { return float64(a.Directory.Len()) })
	a.Metrics.RegisterGauge("classroom_assignments", "Scheduled assignments", func() float64 { return float64(a.Scheduler.Len()) })

	return a, nil
}

// Ready reports whether the optional backing services are reachable.
func (a *App) Ready(ctx context.Context) error {
	if a.db != nil {
		if err := a.db.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	if a.cacheRepo != nil {
		if err := a.cacheRepo.Ping(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

// Close releases database and cache connections.
func (a *App) Close() error {
	var errs []error
	if a.cacheRepo != nil {
		errs = append(errs, a.cacheRepo.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}

// LoadUsers imports USERS_FILE when configured. A missing file is not an error.
func (a *App) LoadUsers(ctx context.Context) error {
	if a.Config.Data.UsersFile == "" {
		return nil
	}
	result, err := a.Users.LoadFile(ctx, a.Config.Data.UsersFile)
	if errors.Is(err, fs.ErrNotExist) {
		a.Logger.Info("no users file yet", zap.String("path", a.Config.Data.UsersFile))
		return nil
	}
	if err != nil {
		return err
	}
	a.Logger.Info("users loaded", zap.String("path", result.Path), zap.Int("count", result.Count))
	return nil
}

// SaveUsers exports the directory to USERS_FILE when configured.
func (a *App) SaveUsers(ctx context.Context) error {
	if a.Config.Data.UsersFile == "" {
		return nil
	}
	result, err := a.Users.SaveFile(ctx, a.Config.Data.UsersFile)
	if err != nil {
		return err
	}
	a.Logger.Info("users saved", zap.String("path", result.Path), zap.Int("count", result.Count))
	return nil
}

// Seed installs the demo classroom: four users, two subjects, two
// announcements, two assignments and teacher1's chat links.
func (a *App) Seed(ctx context.Context) error {
	users := []struct {
		name, password string
		role           models.UserRole
	}{
		{"admin", "adminpass", models.RoleAdmin},
		{"teacher1", "teachpass", models.RoleTeacher},
		{"alice", "alice123", models.RoleStudent},
		{"bob", "bob123", models.RoleStudent},
	}
	ids := make(map[string]int, len(users))
	for _, u := range users {
		created, err := a.Directory.Create(u.name, u.password, u.role)
		if errors.Is(err, repository.ErrDuplicateUsername) {
			existing, lookupErr := a.Directory.FindByName(u.name)
			if lookupErr != nil {
				return lookupErr
			}
			ids[u.name] = existing.ID
			continue
		}
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.name, err)
		}
		ids[u.name] = created.ID
	}

	subjects := []struct {
		name   string
		topics []string
	}{
		{"Math", []string{"Algebra", "Calculus", "Probability"}},
		{"CS", []string{"Data Structures", "Algorithms", "Operating Systems"}},
	}
	for _, s := range subjects {
		if err := a.Syllabus.CreateSubject(s.name); err != nil && !errors.Is(err, repository.ErrSubjectExists) {
			return fmt.Errorf("seed subject %s: %w", s.name, err)
		}
		for _, topic := range s.topics {
			if err := a.Syllabus.AddTopic(s.name, topic); err != nil {
				return fmt.Errorf("seed topic %s/%s: %w", s.name, topic, err)
			}
		}
	}

	a.Board.Post("Welcome to the semester! Check syllabus updates.", ids["admin"])
	a.Board.Post("Midterm scheduled in 2 weeks.", ids["admin"])

	for _, spec := range []struct {
		title, desc string
		due         int
	}{
		{"Algebra HW1", "Solve Q1-Q10", 20251105},
		{"DS Lab1", "Implement linked list", 20251030},
	} {
		if err := a.Scheduler.Push(a.Scheduler.Create(spec.title, spec.desc, spec.due)); err != nil {
			return fmt.Errorf("seed assignment %s: %w", spec.title, err)
		}
	}

	for _, student := range []string{"alice", "bob"} {
		if err := a.Messages.Connect(ctx, "teacher1", student); err != nil {
			return fmt.Errorf("seed chat teacher1-%s: %w", student, err)
		}
	}

	a.Logger.Info("sample data seeded", zap.Int("users", a.Directory.Len()), zap.Int("assignments", a.Scheduler.Len()))
	return nil
}
