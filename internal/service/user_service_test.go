package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cloud-classroom/internal/models"
	"github.com/noah-isme/cloud-classroom/internal/repository"
	appErrors "github.com/noah-isme/cloud-classroom/pkg/errors"
	"github.com/noah-isme/cloud-classroom/pkg/storage"
)

type fakeArchive struct {
	records []models.UserRecord
	err     error
}

func (f *fakeArchive) ReplaceAll(ctx context.Context, records []models.UserRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append([]models.UserRecord(nil), records...)
	return nil
}

func (f *fakeArchive) List(ctx context.Context) ([]models.UserRecord, error) {
	return f.records, f.err
}

func newUserService(t *testing.T) (*UserService, *repository.UserDirectory, map[string]models.Session, string) {
	t.Helper()
	dir, sessions := seedDirectory(t)
	base := t.TempDir()
	store, err := storage.NewLocalStorage(base)
	require.NoError(t, err)
	return NewUserService(dir, store, nil, nil), dir, sessions, base
}

func TestUserServiceRegister(t *testing.T) {
	svc, dir, _, _ := newUserService(t)

	info, err := svc.Register(context.Background(), models.RegisterRequest{Username: "carol", Password: "pw", Role: models.RoleTeacher})
	require.NoError(t, err)
	assert.Equal(t, 5, info.ID)
	assert.Equal(t, "Teacher", info.Role)

	_, err = svc.Register(context.Background(), models.RegisterRequest{Username: "alice", Password: "other", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, appErrors.ErrAlreadyExists)
	alice, err := dir.FindByName("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice123", alice.Password)

	_, err = svc.Register(context.Background(), models.RegisterRequest{Username: "a|b", Password: "pw"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Register(context.Background(), models.RegisterRequest{Username: "dave", Password: "pw", Role: models.UserRole(9)})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestUserServiceListIsAdminOnly(t *testing.T) {
	svc, _, sessions, _ := newUserService(t)

	_, _, err := svc.List(context.Background(), sessions["teacher1"], models.UserFilter{})
	assert.ErrorIs(t, err, appErrors.ErrPermissionDenied)

	users, page, err := svc.List(context.Background(), sessions["admin"], models.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, users, 4)
	assert.Equal(t, 4, page.TotalCount)

	users, page, err = svc.List(context.Background(), sessions["admin"], models.UserFilter{Page: 2, PageSize: 3})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 2, page.Page)

	users, _, err = svc.List(context.Background(), sessions["admin"], models.UserFilter{Page: 5, PageSize: 3})
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestUserServiceExportImportRoundTrip(t *testing.T) {
	svc, dir, sessions, base := newUserService(t)
	ctx := context.Background()

	_, err := svc.Export(ctx, sessions["alice"], "users.txt")
	assert.ErrorIs(t, err, appErrors.ErrPermissionDenied)

	res, err := svc.Export(ctx, sessions["admin"], "users.txt")
	require.NoError(t, err)
	assert.Equal(t, 4, res.Count)
	assert.FileExists(t, filepath.Join(base, "users.txt"))

	other, err := storage.NewLocalStorage(base)
	require.NoError(t, err)
	fresh := repository.NewUserDirectory(repository.DefaultDirectoryBuckets)
	importer := NewUserService(fresh, other, nil, nil)
	adminSession := models.Session{Role: models.RoleAdmin}

	res, err = importer.Import(ctx, adminSession, "users.txt")
	require.NoError(t, err)
	assert.Equal(t, 4, res.Count)
	assert.ElementsMatch(t, dir.Records(), fresh.Records())
	for _, rec := range fresh.Records() {
		assert.Greater(t, fresh.NextID(), rec.ID)
	}

	res, err = importer.Import(ctx, adminSession, "users.txt")
	require.NoError(t, err)
	assert.Zero(t, res.Count)
}

func TestUserServiceImportMissingFile(t *testing.T) {
	svc, _, sessions, _ := newUserService(t)

	_, err := svc.Import(context.Background(), sessions["admin"], "missing.txt")
	assert.ErrorIs(t, err, appErrors.ErrIOUnavailable)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = svc.Import(context.Background(), sessions["admin"], "")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestUserServiceBackupRestore(t *testing.T) {
	svc, _, sessions, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Backup(ctx, sessions["admin"])
	assert.ErrorIs(t, err, appErrors.ErrIOUnavailable)

	archive := &fakeArchive{}
	svc.WithArchive(archive, NewMetricsService())

	_, err = svc.Backup(ctx, sessions["teacher1"])
	assert.ErrorIs(t, err, appErrors.ErrPermissionDenied)

	res, err := svc.Backup(ctx, sessions["admin"])
	require.NoError(t, err)
	assert.Equal(t, 4, res.Count)
	assert.Len(t, archive.records, 4)

	archive.records = append(archive.records, models.UserRecord{ID: 40, Username: "zed", Password: "z", RoleCode: 0})
	res, err = svc.Restore(ctx, sessions["admin"])
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)

	archive.err = errors.New("connection refused")
	_, err = svc.Restore(ctx, sessions["admin"])
	assert.ErrorIs(t, err, appErrors.ErrIOUnavailable)
}
