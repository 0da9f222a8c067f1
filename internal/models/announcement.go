package models

import "time"

// Announcement is a board entry visible to every user.
type Announcement struct {
	Text     string    `json:"text"`
	PostedBy int       `json:"posted_by"`
	PostedAt time.Time `json:"posted_at"`
}

// CreateAnnouncementRequest is the payload for posting an announcement.
type CreateAnnouncementRequest struct {
	Text string `json:"text" validate:"required,max=1024"`
}

// AnnouncementView renders an announcement with the author's username.
type AnnouncementView struct {
	Text     string    `json:"text"`
	Author   string    `json:"author"`
	PostedAt time.Time `json:"posted_at"`
}
