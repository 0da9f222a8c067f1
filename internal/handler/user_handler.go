package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cloud-classroom/internal/models"
	"github.com/noah-isme/cloud-classroom/internal/service"
	"github.com/noah-isme/cloud-classroom/pkg/response"
)

// UserHandler exposes admin user management.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// List godoc
// @Summary List users
// @Description List users in directory order. page_size 0 returns everyone.
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	var filter models.UserFilter
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "0")); err == nil {
		filter.PageSize = size
	}

	users, pagination, err := h.service.List(c.Request.Context(), session, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, pagination)
}

// Export godoc
// @Summary Export users to a record file
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.UserTransferRequest true "Target file"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /users/export [post]
func (h *UserHandler) Export(c *gin.Context) {
	h.transfer(c, h.service.Export)
}

// Import godoc
// @Summary Import users from a record file
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.UserTransferRequest true "Source file"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /users/import [post]
func (h *UserHandler) Import(c *gin.Context) {
	h.transfer(c, h.service.Import)
}

// Backup godoc
// @Summary Archive users in Postgres
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /users/backup [post]
func (h *UserHandler) Backup(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	result, err := h.service.Backup(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Restore godoc
// @Summary Restore users from the Postgres archive
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /users/restore [post]
func (h *UserHandler) Restore(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	result, err := h.service.Restore(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

type transferFunc func(ctx context.Context, session models.Session, path string) (*models.UserTransferResult, error)

func (h *UserHandler) transfer(c *gin.Context, fn transferFunc) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	var req models.UserTransferRequest
	if !bindJSON(c, &req, "invalid transfer payload") {
		return
	}
	result, err := fn(c.Request.Context(), session, req.Path)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
