package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cloud-classroom/internal/models"
)

type announcementBoard interface {
	Post(text string, postedBy int) models.Announcement
	List() []models.Announcement
}

// AnnouncementService handles announcement workflows.
type AnnouncementService struct {
	board     announcementBoard
	users     userLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(board announcementBoard, users userLookup, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{board: board, users: users, validator: validate, logger: logger}
}

// Post publishes an announcement. Teachers and admins only.
func (s *AnnouncementService) Post(ctx context.Context, session models.Session, req models.CreateAnnouncementRequest) (*models.AnnouncementView, error) {
	if err := requireAuthor(session, "post announcements"); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid announcement payload")
	}
	a := s.board.Post(req.Text, session.UserID)
	s.logger.Info("announcement posted", zap.Int("user_id", session.UserID))
	return &models.AnnouncementView{Text: a.Text, Author: session.Username, PostedAt: a.PostedAt}, nil
}

// List returns announcements newest first.
func (s *AnnouncementService) List(ctx context.Context) []models.AnnouncementView {
	items := s.board.List()
	views := make([]models.AnnouncementView, 0, len(items))
	for _, a := range items {
		views = append(views, models.AnnouncementView{Text: a.Text, Author: usernameOf(s.users, a.PostedBy), PostedAt: a.PostedAt})
	}
	return views
}
