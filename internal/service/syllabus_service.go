package service

import (
	"context"
	"iter"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cloud-classroom/internal/models"
)

const syllabusReportKey = "syllabus:report"

type syllabusIndex interface {
	CreateSubject(name string) error
	AddTopic(subject, topic string) error
	MarkComplete(subject, topic string) error
	Topics(subject string) (iter.Seq[models.Topic], error)
	ListTopics(subject string) ([]models.Topic, error)
	CompletionPercent(subject string) (float64, error)
	Subjects() []string
	Report() []models.SubjectCompletion
}

// SyllabusService manages subjects and their topic trees.
type SyllabusService struct {
	index     syllabusIndex
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSyllabusService constructs the service. cache may be nil.
func NewSyllabusService(index syllabusIndex, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SyllabusService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyllabusService{index: index, cache: cache, validator: validate, logger: logger}
}

// CreateSubject adds an empty subject. Teachers and admins only.
func (s *SyllabusService) CreateSubject(ctx context.Context, session models.Session, req models.CreateSubjectRequest) error {
	if err := requireAuthor(session, "create subjects"); err != nil {
		return err
	}
	if err := s.validator.Struct(req); err != nil {
		return invalid(err, "invalid subject payload")
	}
	if err := s.index.CreateSubject(req.Name); err != nil {
		return translate(err)
	}
	s.logger.Info("subject created", zap.String("subject", req.Name))
	s.invalidate(ctx)
	return nil
}

// AddTopic inserts a topic into a subject. Teachers and admins only.
func (s *SyllabusService) AddTopic(ctx context.Context, session models.Session, req models.AddTopicRequest) error {
	if err := requireAuthor(session, "add topics"); err != nil {
		return err
	}
	if err := s.validator.Struct(req); err != nil {
		return invalid(err, "invalid topic payload")
	}
	if err := s.index.AddTopic(req.Subject, req.Topic); err != nil {
		return translate(err)
	}
	s.invalidate(ctx)
	return nil
}

// MarkComplete marks a topic as taught. Teachers and admins only.
func (s *SyllabusService) MarkComplete(ctx context.Context, session models.Session, subject, topic string) error {
	if err := requireAuthor(session, "mark topics complete"); err != nil {
		return err
	}
	if err := s.index.MarkComplete(subject, topic); err != nil {
		return translate(err)
	}
	s.logger.Info("topic completed", zap.String("subject", subject), zap.String("topic", topic), zap.Int("user_id", session.UserID))
	s.invalidate(ctx)
	return nil
}

// Topics returns a lazy, ordered sequence of a subject's topics.
func (s *SyllabusService) Topics(ctx context.Context, subject string) (iter.Seq[models.Topic], error) {
	seq, err := s.index.Topics(subject)
	if err != nil {
		return nil, translate(err)
	}
	return seq, nil
}

// ListTopics returns a subject's topics in ascending name order.
func (s *SyllabusService) ListTopics(ctx context.Context, subject string) ([]models.Topic, error) {
	topics, err := s.index.ListTopics(subject)
	if err != nil {
		return nil, translate(err)
	}
	return topics, nil
}

// Completion returns the percentage of completed topics in a subject.
func (s *SyllabusService) Completion(ctx context.Context, subject string) (float64, error) {
	pct, err := s.index.CompletionPercent(subject)
	if err != nil {
		return 0, translate(err)
	}
	return pct, nil
}

// Subjects lists subject names alphabetically.
func (s *SyllabusService) Subjects(ctx context.Context) []string {
	return s.index.Subjects()
}

// Report summarises completion across every subject.
func (s *SyllabusService) Report(ctx context.Context) ([]models.SubjectCompletion, error) {
	return remember(ctx, s.cache, syllabusReportKey, func() ([]models.SubjectCompletion, error) {
		return s.index.Report(), nil
	})
}

func (s *SyllabusService) invalidate(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, "syllabus:*")
}
