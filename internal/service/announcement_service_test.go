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

func TestAnnouncementService(t *testing.T) {
	dir, sessions := seedDirectory(t)
	svc := NewAnnouncementService(repository.NewAnnouncementBoard(), dir, nil, nil)
	ctx := context.Background()

	_, err := svc.Post(ctx, sessions["alice"], models.CreateAnnouncementRequest{Text: "party"})
	assert.ErrorIs(t, err, appErrors.ErrPermissionDenied)
	_, err = svc.Post(ctx, sessions["teacher1"], models.CreateAnnouncementRequest{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	posted, err := svc.Post(ctx, sessions["teacher1"], models.CreateAnnouncementRequest{Text: "Exam on Friday"})
	require.NoError(t, err)
	assert.Equal(t, "teacher1", posted.Author)
	_, err = svc.Post(ctx, sessions["admin"], models.CreateAnnouncementRequest{Text: "Campus closed"})
	require.NoError(t, err)

	list := svc.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "Campus closed", list[0].Text)
	assert.Equal(t, "admin", list[0].Author)
	assert.Equal(t, "Exam on Friday", list[1].Text)
}
