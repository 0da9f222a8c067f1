package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cloud-classroom/internal/middleware"
	"github.com/noah-isme/cloud-classroom/internal/models"
	appErrors "github.com/noah-isme/cloud-classroom/pkg/errors"
	"github.com/noah-isme/cloud-classroom/pkg/response"
)

// currentSession resolves the caller, writing a 401 when the JWT middleware
// did not run.
func currentSession(c *gin.Context) (models.Session, bool) {
	claims := middleware.Claims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return models.Session{}, false
	}
	return claims.Session(), true
}

func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}
