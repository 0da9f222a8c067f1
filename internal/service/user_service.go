package service

import (
	"bytes"
	"context"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cloud-classroom/internal/models"
	appErrors "github.com/noah-isme/cloud-classroom/pkg/errors"
	"github.com/noah-isme/cloud-classroom/pkg/export"
)

type userDirectory interface {
	userLookup
	Create(username, password string, role models.UserRole) (models.User, error)
	All() []models.User
	Records() []models.UserRecord
	Load(records []models.UserRecord) int
}

type userFileStore interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Open(filename string) (*os.File, error)
}

type userArchive interface {
	ReplaceAll(ctx context.Context, records []models.UserRecord) error
	List(ctx context.Context) ([]models.UserRecord, error)
}

// UserService handles registration, listing and persistence of the user directory.
type UserService struct {
	directory userDirectory
	files     userFileStore
	archive   userArchive
	codec     *export.UserRecordCodec
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(directory userDirectory, files userFileStore, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	registerClassroomValidations(validate)
	return &UserService{
		directory: directory,
		files:     files,
		codec:     export.NewUserRecordCodec(),
		validator: validate,
		logger:    logger,
	}
}

// WithArchive enables Postgres backup and restore of the directory.
func (s *UserService) WithArchive(archive userArchive, metrics *MetricsService) *UserService {
	s.archive = archive
	s.metrics = metrics
	return s
}

// Register creates a user. Registration is open to everyone.
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.UserInfo, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid registration payload")
	}
	user, err := s.directory.Create(req.Username, req.Password, req.Role)
	if err != nil {
		return nil, translate(err)
	}
	s.logger.Info("user registered", zap.Int("user_id", user.ID), zap.String("username", user.Username), zap.String("role", user.Role.String()))
	info := user.Info()
	return &info, nil
}

// List returns users in directory order with pagination metadata. Admin only.
func (s *UserService) List(ctx context.Context, session models.Session, filter models.UserFilter) ([]models.UserInfo, *models.Pagination, error) {
	if err := requireAdmin(session, "list users"); err != nil {
		return nil, nil, err
	}
	users := s.directory.All()
	total := len(users)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = total
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	infos := make([]models.UserInfo, 0, end-start)
	for _, u := range users[start:end] {
		infos = append(infos, u.Info())
	}
	return infos, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Export writes every user record to path. Admin only.
func (s *UserService) Export(ctx context.Context, session models.Session, path string) (*models.UserTransferResult, error) {
	if err := requireAdmin(session, "export users"); err != nil {
		return nil, err
	}
	return s.SaveFile(ctx, path)
}

// Import loads user records from path, skipping duplicates. Admin only.
func (s *UserService) Import(ctx context.Context, session models.Session, path string) (*models.UserTransferResult, error) {
	if err := requireAdmin(session, "import users"); err != nil {
		return nil, err
	}
	return s.LoadFile(ctx, path)
}

// SaveFile writes the directory to path without a permission check.
func (s *UserService) SaveFile(ctx context.Context, path string) (*models.UserTransferResult, error) {
	if err := s.validator.Struct(models.UserTransferRequest{Path: path}); err != nil {
		return nil, invalid(err, "a file path is required")
	}
	records := s.directory.Records()
	buf := &bytes.Buffer{}
	if err := s.codec.Encode(buf, records); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode users")
	}
	written, err := s.files.SaveStream(path, buf)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrIOUnavailable.Code, appErrors.ErrIOUnavailable.Status, "cannot write users file")
	}
	s.logger.Info("users exported", zap.String("path", written), zap.Int("count", len(records)))
	return &models.UserTransferResult{Path: written, Count: len(records)}, nil
}

// LoadFile imports users from path without a permission check.
func (s *UserService) LoadFile(ctx context.Context, path string) (*models.UserTransferResult, error) {
	if err := s.validator.Struct(models.UserTransferRequest{Path: path}); err != nil {
		return nil, invalid(err, "a file path is required")
	}
	file, err := s.files.Open(path)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrIOUnavailable.Code, appErrors.ErrIOUnavailable.Status, "cannot open users file")
	}
	defer file.Close() //nolint:errcheck

	records, malformed, err := s.codec.Decode(file)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrIOUnavailable.Code, appErrors.ErrIOUnavailable.Status, "cannot read users file")
	}
	loaded := s.directory.Load(records)
	if malformed > 0 || loaded < len(records) {
		s.logger.Warn("user records skipped", zap.String("path", path), zap.Int("malformed", malformed), zap.Int("conflicting", len(records)-loaded))
	}
	s.logger.Info("users imported", zap.String("path", path), zap.Int("count", loaded))
	return &models.UserTransferResult{Path: path, Count: loaded}, nil
}

// Backup replaces the Postgres archive with the current directory. Admin only.
func (s *UserService) Backup(ctx context.Context, session models.Session) (*models.UserTransferResult, error) {
	if err := requireAdmin(session, "back up users"); err != nil {
		return nil, err
	}
	if s.archive == nil {
		return nil, appErrors.Clone(appErrors.ErrIOUnavailable, "user archive is disabled")
	}
	records := s.directory.Records()
	start := time.Now()
	err := s.archive.ReplaceAll(ctx, records)
	s.metrics.ObserveDBQuery("user_archive_replace", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrIOUnavailable.Code, appErrors.ErrIOUnavailable.Status, "failed to archive users")
	}
	s.logger.Info("users archived", zap.Int("count", len(records)))
	return &models.UserTransferResult{Path: "postgres", Count: len(records)}, nil
}

// Restore loads archived users into the directory, skipping duplicates. Admin only.
func (s *UserService) Restore(ctx context.Context, session models.Session) (*models.UserTransferResult, error) {
	if err := requireAdmin(session, "restore users"); err != nil {
		return nil, err
	}
	if s.archive == nil {
		return nil, appErrors.Clone(appErrors.ErrIOUnavailable, "user archive is disabled")
	}
	start := time.Now()
	records, err := s.archive.List(ctx)
	s.metrics.ObserveDBQuery("user_archive_list", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrIOUnavailable.Code, appErrors.ErrIOUnavailable.Status, "failed to read user archive")
	}
	loaded := s.directory.Load(records)
	s.logger.Info("users restored", zap.Int("count", loaded), zap.Int("archived", len(records)))
	return &models.UserTransferResult{Path: "postgres", Count: loaded}, nil
}
