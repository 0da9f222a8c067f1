package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cloud-classroom/internal/models"
	"github.com/noah-isme/cloud-classroom/pkg/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Env:     config.EnvDevelopment,
		JWT:     config.JWTConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "classroom"},
		Data:    config.DataConfig{Dir: filepath.Join(dir, "data"), SeedSample: true},
		Reports: config.ReportsConfig{StorageDir: filepath.Join(dir, "reports")},
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	require.NoError(t, a.Seed(ctx))

	assert.Equal(t, 4, a.Directory.Len())
	teacher, err := a.Directory.FindByName("teacher1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, teacher.Role)

	assert.Equal(t, []string{"CS", "Math"}, a.Syllabus.Subjects())
	next, err := a.Scheduler.PeekMin()
	require.NoError(t, err)
	assert.Equal(t, "DS Lab1", next.Title)

	announcements := a.Announcements.List(ctx)
	require.Len(t, announcements, 2)
	assert.Equal(t, "Midterm scheduled in 2 weeks.", announcements[0].Text)

	assert.Equal(t, []int{3, 4}, a.Chat.PeersOf(teacher.ID))
	assert.NoError(t, a.Ready(ctx))
}

func TestSeedTwiceKeepsUsers(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t), nil)
	require.NoError(t, err)

	require.NoError(t, a.Seed(ctx))
	require.NoError(t, a.Seed(ctx))
	assert.Equal(t, 4, a.Directory.Len())
	assert.Equal(t, 4, a.Scheduler.Len())
}

func TestUsersFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Data.UsersFile = "users.txt"

	first, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, first.Seed(ctx))
	require.NoError(t, first.SaveUsers(ctx))

	content, err := os.ReadFile(filepath.Join(cfg.Data.Dir, "users.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "2|teacher1|teachpass|1\n")

	second, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, second.LoadUsers(ctx))
	assert.Equal(t, 4, second.Directory.Len())
	assert.Equal(t, 5, second.Directory.NextID())
}

func TestUsersFileDisabled(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t), nil)
	require.NoError(t, err)
	assert.NoError(t, a.LoadUsers(ctx))
	assert.NoError(t, a.SaveUsers(ctx))
}

func TestLoadUsersMissingFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.UsersFile = "absent.txt"
	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.NoError(t, a.LoadUsers(context.Background()))
	assert.Zero(t, a.Directory.Len())
}
