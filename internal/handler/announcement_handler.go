package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cloud-classroom/internal/models"
	"github.com/noah-isme/cloud-classroom/internal/service"
	"github.com/noah-isme/cloud-classroom/pkg/response"
)

// AnnouncementHandler exposes the announcement board.
type AnnouncementHandler struct {
	announcements *service.AnnouncementService
}

// NewAnnouncementHandler constructs the handler.
func NewAnnouncementHandler(announcements *service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcements: announcements}
}

// List godoc
// @Summary List announcements, newest first
// @Tags Announcements
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /announcements [get]
func (h *AnnouncementHandler) List(c *gin.Context) {
	response.OK(c, h.announcements.List(c.Request.Context()))
}

// Post godoc
// @Summary Post announcement
// @Tags Announcements
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.CreateAnnouncementRequest true "Announcement"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /announcements [post]
func (h *AnnouncementHandler) Post(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	var req models.CreateAnnouncementRequest
	if !bindJSON(c, &req, "invalid announcement payload") {
		return
	}
	posted, err := h.announcements.Post(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, posted)
}
