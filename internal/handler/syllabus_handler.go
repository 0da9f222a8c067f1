package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cloud-classroom/internal/models"
	"github.com/noah-isme/cloud-classroom/internal/service"
	"github.com/noah-isme/cloud-classroom/pkg/response"
)

// SyllabusHandler exposes subjects and topics.
type SyllabusHandler struct {
	syllabus *service.SyllabusService
}

// NewSyllabusHandler constructs the handler.
func NewSyllabusHandler(syllabus *service.SyllabusService) *SyllabusHandler {
	return &SyllabusHandler{syllabus: syllabus}
}

type addTopicBody struct {
	Topic string `json:"topic"`
}

// ListSubjects godoc
// @Summary List subjects
// @Tags Syllabus
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *SyllabusHandler) ListSubjects(c *gin.Context) {
	response.OK(c, h.syllabus.Subjects(c.Request.Context()))
}

// CreateSubject godoc
// @Summary Create subject
// @Tags Syllabus
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.CreateSubjectRequest true "Subject"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /subjects [post]
func (h *SyllabusHandler) CreateSubject(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	var req models.CreateSubjectRequest
	if !bindJSON(c, &req, "invalid subject payload") {
		return
	}
	if err := h.syllabus.CreateSubject(c.Request.Context(), session, req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"name": req.Name})
}

// AddTopic godoc
// @Summary Add topic to subject
// @Tags Syllabus
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param name path string true "Subject"
// @Param payload body addTopicBody true "Topic"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /subjects/{name}/topics [post]
func (h *SyllabusHandler) AddTopic(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	var body addTopicBody
	if !bindJSON(c, &body, "invalid topic payload") {
		return
	}
	req := models.AddTopicRequest{Subject: c.Param("name"), Topic: body.Topic}
	if err := h.syllabus.AddTopic(c.Request.Context(), session, req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, req)
}

// ListTopics godoc
// @Summary Topics of a subject in name order
// @Tags Syllabus
// @Security BearerAuth
// @Produce json
// @Param name path string true "Subject"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /subjects/{name}/topics [get]
func (h *SyllabusHandler) ListTopics(c *gin.Context) {
	topics, err := h.syllabus.ListTopics(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, topics)
}

// CompleteTopic godoc
// @Summary Mark topic complete
// @Tags Syllabus
// @Security BearerAuth
// @Param name path string true "Subject"
// @Param topic path string true "Topic"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /subjects/{name}/topics/{topic}/complete [post]
func (h *SyllabusHandler) CompleteTopic(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	if err := h.syllabus.MarkComplete(c.Request.Context(), session, c.Param("name"), c.Param("topic")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Completion godoc
// @Summary Subject completion percentage
// @Tags Syllabus
// @Security BearerAuth
// @Produce json
// @Param name path string true "Subject"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /subjects/{name}/completion [get]
func (h *SyllabusHandler) Completion(c *gin.Context) {
	name := c.Param("name")
	pct, err := h.syllabus.Completion(c.Request.Context(), name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"subject": name, "percent": pct})
}

// Report godoc
// @Summary Completion across all subjects
// @Tags Syllabus
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /syllabus/report [get]
func (h *SyllabusHandler) Report(c *gin.Context) {
	report, err := h.syllabus.Report(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}
