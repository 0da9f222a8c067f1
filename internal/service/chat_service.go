package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cloud-classroom/internal/models"
	"github.com/noah-isme/cloud-classroom/internal/repository"
	appErrors "github.com/noah-isme/cloud-classroom/pkg/errors"
)

type chatGraph interface {
	EnsureEdge(a, b int)
	Send(from, to int, text string) (models.Message, error)
	MessagesBetween(viewer, peer int) []models.Message
	Conversation(a, b int) []models.Message
	PeersOf(user int) []int
}

// ChatService sends and reads pairwise messages between users.
type ChatService struct {
	graph     chatGraph
	users     userLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewChatService constructs the service.
func NewChatService(graph chatGraph, users userLookup, validate *validator.Validate, logger *zap.Logger) *ChatService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{graph: graph, users: users, validator: validate, logger: logger}
}

func (s *ChatService) peer(username string) (models.User, error) {
	u, err := s.users.FindByName(username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, appErrors.Clone(appErrors.ErrNotFound, "user "+username+" not found")
		}
		return models.User{}, translate(err)
	}
	return u, nil
}

// Connect links two users so they appear in each other's peer lists.
func (s *ChatService) Connect(ctx context.Context, a, b string) error {
	ua, err := s.peer(a)
	if err != nil {
		return err
	}
	ub, err := s.peer(b)
	if err != nil {
		return err
	}
	s.graph.EnsureEdge(ua.ID, ub.ID)
	return nil
}

// Send delivers text from the session user to the named peer.
func (s *ChatService) Send(ctx context.Context, session models.Session, req models.SendMessageRequest) (*models.MessageView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid message payload")
	}
	to, err := s.peer(req.Peer)
	if err != nil {
		return nil, err
	}
	msg, err := s.graph.Send(session.UserID, to.ID, req.Text)
	if err != nil {
		return nil, translate(err)
	}
	s.logger.Debug("message sent", zap.Int("from", session.UserID), zap.Int("to", to.ID))
	return &models.MessageView{From: session.Username, To: to.Username, Text: msg.Text, SentAt: msg.SentAt}, nil
}

// Messages returns what the named peer has sent to the session user.
func (s *ChatService) Messages(ctx context.Context, session models.Session, peerUsername string) ([]models.MessageView, error) {
	peer, err := s.peer(peerUsername)
	if err != nil {
		return nil, err
	}
	return s.views(s.graph.MessagesBetween(session.UserID, peer.ID)), nil
}

// Conversation returns both directions between the session user and peer in send order.
func (s *ChatService) Conversation(ctx context.Context, session models.Session, peerUsername string) ([]models.MessageView, error) {
	peer, err := s.peer(peerUsername)
	if err != nil {
		return nil, err
	}
	return s.views(s.graph.Conversation(session.UserID, peer.ID)), nil
}

// Peers lists the session user's chat neighbours by ascending id.
func (s *ChatService) Peers(ctx context.Context, session models.Session) []models.Peer {
	ids := s.graph.PeersOf(session.UserID)
	peers := make([]models.Peer, 0, len(ids))
	for _, id := range ids {
		peers = append(peers, models.Peer{ID: id, Username: usernameOf(s.users, id)})
	}
	return peers
}

func (s *ChatService) views(msgs []models.Message) []models.MessageView {
	out := make([]models.MessageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, models.MessageView{
			From:   usernameOf(s.users, m.SenderID),
			To:     usernameOf(s.users, m.RecipientID),
			Text:   m.Text,
			SentAt: m.SentAt,
		})
	}
	return out
}
