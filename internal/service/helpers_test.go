package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cloud-classroom/internal/models"
	"github.com/noah-isme/cloud-classroom/internal/repository"
	appErrors "github.com/noah-isme/cloud-classroom/pkg/errors"
)

func seedDirectory(t *testing.T) (*repository.UserDirectory, map[string]models.Session) {
	t.Helper()
	dir := repository.NewUserDirectory(repository.DefaultDirectoryBuckets)
	sessions := make(map[string]models.Session)
	for _, u := range []struct {
		name, password string
		role           models.UserRole
	}{
		{"admin", "adminpass", models.RoleAdmin},
		{"teacher1", "teachpass", models.RoleTeacher},
		{"alice", "alice123", models.RoleStudent},
		{"bob", "bob123", models.RoleStudent},
	} {
		created, err := dir.Create(u.name, u.password, u.role)
		require.NoError(t, err)
		sessions[u.name] = models.Session{UserID: created.ID, Username: created.Username, Role: created.Role}
	}
	return dir, sessions
}

func errorCode(err error) string {
	if err == nil {
		return ""
	}
	return appErrors.FromError(err).Code
}

type memoryCacheRepo struct {
	mu      sync.Mutex
	entries map[string]interface{}
	gets    int
	deletes []string
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string]interface{})}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	value, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	if out, ok := dest.(*[]models.SubjectCompletion); ok {
		*out = value.([]models.SubjectCompletion)
	}
	return nil
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, pattern)
	m.entries = make(map[string]interface{})
	return nil
}
