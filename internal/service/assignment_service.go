package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cloud-classroom/internal/models"
)

type assignmentScheduler interface {
	Create(title, description string, dueDate int) *models.Assignment
	Push(a *models.Assignment) error
	PopMin() (*models.Assignment, error)
	PeekMin() (models.Assignment, error)
	FindByID(id int) (models.Assignment, error)
	RecordSubmission(id, studentID int, filename string) error
	ListSortedByDue() []models.Assignment
}

// AssignmentService schedules assignments and collects submissions.
type AssignmentService struct {
	scheduler assignmentScheduler
	users     userLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs the service.
func NewAssignmentService(scheduler assignmentScheduler, users userLookup, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	registerClassroomValidations(validate)
	return &AssignmentService{scheduler: scheduler, users: users, validator: validate, logger: logger}
}

// Create schedules a new assignment. Teachers and admins only.
func (s *AssignmentService) Create(ctx context.Context, session models.Session, req models.CreateAssignmentRequest) (*models.AssignmentView, error) {
	if err := requireAuthor(session, "create assignments"); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid assignment payload, due date must be YYYYMMDD")
	}
	a := s.scheduler.Create(req.Title, req.Description, req.DueDate)
	if err := s.scheduler.Push(a); err != nil {
		s.logger.Warn("assignment rejected", zap.Int("assignment_id", a.ID), zap.Error(err))
		return nil, translate(err)
	}
	s.logger.Info("assignment created", zap.Int("assignment_id", a.ID), zap.Int("due_date", a.DueDate))
	return s.Get(ctx, a.ID)
}

// List returns every assignment by due date with submitters resolved.
func (s *AssignmentService) List(ctx context.Context) []models.AssignmentView {
	list := s.scheduler.ListSortedByDue()
	views := make([]models.AssignmentView, 0, len(list))
	for _, a := range list {
		views = append(views, s.view(a))
	}
	return views
}

// Get returns a single assignment.
func (s *AssignmentService) Get(ctx context.Context, id int) (*models.AssignmentView, error) {
	a, err := s.scheduler.FindByID(id)
	if err != nil {
		return nil, translate(err)
	}
	view := s.view(a)
	return &view, nil
}

// Submit records a hand-in for the session user. Students only.
func (s *AssignmentService) Submit(ctx context.Context, session models.Session, req models.SubmitAssignmentRequest) error {
	if err := requireRole(session, "submit assignments", models.RoleStudent); err != nil {
		return err
	}
	if err := s.validator.Struct(req); err != nil {
		return invalid(err, "invalid submission payload")
	}
	if err := s.scheduler.RecordSubmission(req.AssignmentID, session.UserID, req.Filename); err != nil {
		return translate(err)
	}
	s.logger.Info("assignment submitted", zap.Int("assignment_id", req.AssignmentID), zap.Int("user_id", session.UserID))
	return nil
}

// Next returns the assignment due soonest without removing it.
func (s *AssignmentService) Next(ctx context.Context) (*models.AssignmentView, error) {
	a, err := s.scheduler.PeekMin()
	if err != nil {
		return nil, translate(err)
	}
	view := s.view(a)
	return &view, nil
}

// Retire removes and returns the assignment due soonest. Teachers and admins only.
func (s *AssignmentService) Retire(ctx context.Context, session models.Session) (*models.AssignmentView, error) {
	if err := requireAuthor(session, "retire assignments"); err != nil {
		return nil, err
	}
	a, err := s.scheduler.PopMin()
	if err != nil {
		return nil, translate(err)
	}
	s.logger.Info("assignment retired", zap.Int("assignment_id", a.ID), zap.Int("submissions", len(a.Submissions)))
	view := s.view(*a)
	return &view, nil
}

func (s *AssignmentService) view(a models.Assignment) models.AssignmentView {
	subs := make([]models.SubmissionView, 0, len(a.Submissions))
	for _, sub := range a.Submissions {
		subs = append(subs, models.SubmissionView{
			Student:     usernameOf(s.users, sub.StudentID),
			Filename:    sub.Filename,
			SubmittedAt: sub.SubmittedAt,
		})
	}
	return models.AssignmentView{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		DueDate:     a.DueDate,
		Submissions: subs,
	}
}
