package repository

import (
	"slices"
	"sync"
	"time"

	"github.com/noah-isme/cloud-classroom/internal/models"
)

// AnnouncementBoard keeps announcements newest first.
type AnnouncementBoard struct {
	mu    sync.RWMutex
	items []models.Announcement
	now   func() time.Time
}

// NewAnnouncementBoard builds an empty board.
func NewAnnouncementBoard() *AnnouncementBoard {
	return &AnnouncementBoard{now: time.Now}
}

// Post prepends an announcement.
func (b *AnnouncementBoard) Post(text string, postedBy int) models.Announcement {
	b.mu.Lock()
	defer b.mu.Unlock()

	a := models.Announcement{Text: text, PostedBy: postedBy, PostedAt: b.now()}
	b.items = slices.Insert(b.items, 0, a)
	return a
}

// List returns every announcement, newest first.
func (b *AnnouncementBoard) List() []models.Announcement {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.Announcement, len(b.items))
	copy(out, b.items)
	return out
}
