package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cloud-classroom/internal/models"
	"github.com/noah-isme/cloud-classroom/internal/repository"
	appErrors "github.com/noah-isme/cloud-classroom/pkg/errors"
)

func TestChatServiceInboxIsAsymmetric(t *testing.T) {
	dir := repository.NewUserDirectory(0)
	alice, err := dir.Create("alice", "pw", models.RoleStudent)
	require.NoError(t, err)
	bob, err := dir.Create("bob", "pw", models.RoleTeacher)
	require.NoError(t, err)
	svc := NewChatService(repository.NewChatGraph(), dir, nil, nil)
	ctx := context.Background()
	aliceSession := models.Session{UserID: alice.ID, Username: alice.Username, Role: alice.Role}
	bobSession := models.Session{UserID: bob.ID, Username: bob.Username, Role: bob.Role}

	sent, err := svc.Send(ctx, bobSession, models.SendMessageRequest{Peer: "alice", Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "bob", sent.From)
	assert.Equal(t, "alice", sent.To)

	inbox, err := svc.Messages(ctx, aliceSession, "bob")
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, "hi", inbox[0].Text)
	assert.Equal(t, "bob", inbox[0].From)

	outbox, err := svc.Messages(ctx, bobSession, "alice")
	require.NoError(t, err)
	assert.Empty(t, outbox)

	conv, err := svc.Conversation(ctx, bobSession, "alice")
	require.NoError(t, err)
	assert.Len(t, conv, 1)
}

func TestChatServiceUnknownPeer(t *testing.T) {
	dir, sessions := seedDirectory(t)
	svc := NewChatService(repository.NewChatGraph(), dir, nil, nil)

	_, err := svc.Send(context.Background(), sessions["alice"], models.SendMessageRequest{Peer: "ghost", Text: "boo"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Messages(context.Background(), sessions["alice"], "ghost")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Send(context.Background(), sessions["alice"], models.SendMessageRequest{Peer: "bob"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestChatServicePeers(t *testing.T) {
	dir, sessions := seedDirectory(t)
	svc := NewChatService(repository.NewChatGraph(), dir, nil, nil)
	ctx := context.Background()

	require.NoError(t, svc.Connect(ctx, "teacher1", "bob"))
	require.NoError(t, svc.Connect(ctx, "teacher1", "alice"))
	assert.ErrorIs(t, svc.Connect(ctx, "teacher1", "ghost"), appErrors.ErrNotFound)

	peers := svc.Peers(ctx, sessions["teacher1"])
	assert.Equal(t, []models.Peer{{ID: 3, Username: "alice"}, {ID: 4, Username: "bob"}}, peers)
	assert.Equal(t, []models.Peer{{ID: 2, Username: "teacher1"}}, svc.Peers(ctx, sessions["alice"]))
	assert.Empty(t, svc.Peers(ctx, sessions["admin"]))
}
