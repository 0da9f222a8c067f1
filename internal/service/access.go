package service

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/cloud-classroom/internal/models"
	"github.com/noah-isme/cloud-classroom/internal/repository"
	appErrors "github.com/noah-isme/cloud-classroom/pkg/errors"
)

// unknownUsername is displayed when an id no longer resolves to a user.
const unknownUsername = "Unknown"

type userLookup interface {
	FindByName(username string) (models.User, error)
	FindByID(id int) (models.User, error)
}

func requireRole(session models.Session, action string, allowed ...models.UserRole) error {
	for _, role := range allowed {
		if session.Role == role {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrPermissionDenied, session.Role.String()+"s cannot "+action)
}

func requireAuthor(session models.Session, action string) error {
	if session.Role.CanAuthor() {
		return nil
	}
	return requireRole(session, action)
}

func requireAdmin(session models.Session, action string) error {
	return requireRole(session, action, models.RoleAdmin)
}

func usernameOf(users userLookup, id int) string {
	u, err := users.FindByID(id)
	if err != nil {
		return unknownUsername
	}
	return u.Username
}

// translate maps repository sentinels onto the classroom error taxonomy.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrDuplicateUsername):
		return appErrors.Clone(appErrors.ErrAlreadyExists, "username already exists")
	case errors.Is(err, repository.ErrUserNotFound):
		return appErrors.Clone(appErrors.ErrNotFound, "user not found")
	case errors.Is(err, repository.ErrInvalidPeer):
		return appErrors.Clone(appErrors.ErrNotFound, "chat peer not found")
	case errors.Is(err, repository.ErrSubjectExists):
		return appErrors.Clone(appErrors.ErrAlreadyExists, "subject already exists")
	case errors.Is(err, repository.ErrSubjectNotFound):
		return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	case errors.Is(err, repository.ErrTopicNotFound):
		return appErrors.Clone(appErrors.ErrNotFound, "topic not found")
	case errors.Is(err, repository.ErrAssignmentNotFound):
		return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	case errors.Is(err, repository.ErrCapacityExceeded):
		return appErrors.Clone(appErrors.ErrCapacityExceeded, "assignment store is full")
	case errors.Is(err, repository.ErrSchedulerEmpty):
		return appErrors.Clone(appErrors.ErrEmpty, "no assignments scheduled")
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
}

func invalid(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

// registerClassroomValidations installs the custom tags used by request payloads.
func registerClassroomValidations(v *validator.Validate) {
	v.RegisterValidation("duedate", func(fl validator.FieldLevel) bool {
		return ValidDueDate(int(fl.Field().Int()))
	})
	v.RegisterValidation("recordsafe", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), "|\r\n")
	})
	v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().Int()).Valid()
	})
}

// ValidDueDate reports whether d is a real calendar date written as YYYYMMDD.
func ValidDueDate(d int) bool {
	if d < 10000101 || d > 99991231 {
		return false
	}
	year, month, day := d/10000, time.Month(d/100%100), d%100
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && t.Month() == month && t.Day() == day
}
