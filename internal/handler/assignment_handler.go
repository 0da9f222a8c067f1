package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cloud-classroom/internal/models"
	"github.com/noah-isme/cloud-classroom/internal/service"
	appErrors "github.com/noah-isme/cloud-classroom/pkg/errors"
	"github.com/noah-isme/cloud-classroom/pkg/response"
)

// AssignmentHandler exposes the assignment scheduler.
type AssignmentHandler struct {
	assignments *service.AssignmentService
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(assignments *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

type submissionBody struct {
	Filename string `json:"filename"`
}

// List godoc
// @Summary List assignments by due date
// @Tags Assignments
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	response.OK(c, h.assignments.List(c.Request.Context()))
}

// Create godoc
// @Summary Create assignment
// @Tags Assignments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.CreateAssignmentRequest true "Assignment"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 507 {object} response.Envelope
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	var req models.CreateAssignmentRequest
	if !bindJSON(c, &req, "invalid assignment payload") {
		return
	}
	created, err := h.assignments.Create(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Next godoc
// @Summary Assignment due soonest
// @Tags Assignments
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assignments/next [get]
func (h *AssignmentHandler) Next(c *gin.Context) {
	next, err := h.assignments.Next(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, next)
}

// Retire godoc
// @Summary Remove the assignment due soonest
// @Tags Assignments
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assignments/retire [post]
func (h *AssignmentHandler) Retire(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	retired, err := h.assignments.Retire(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, retired)
}

// Get godoc
// @Summary Get an assignment with its submissions
// @Tags Assignments
// @Security BearerAuth
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "assignment id must be a number"))
		return
	}
	view, err := h.assignments.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}

// Submit godoc
// @Summary Submit work for an assignment
// @Tags Assignments
// @Security BearerAuth
// @Accept json
// @Param id path int true "Assignment ID"
// @Param payload body submissionBody true "Submission"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assignments/{id}/submissions [post]
func (h *AssignmentHandler) Submit(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "assignment id must be a number"))
		return
	}
	var body submissionBody
	if !bindJSON(c, &body, "invalid submission payload") {
		return
	}
	req := models.SubmitAssignmentRequest{AssignmentID: id, Filename: body.Filename}
	if err := h.assignments.Submit(c.Request.Context(), session, req); err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.assignments.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}
