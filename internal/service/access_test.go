package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/cloud-classroom/internal/models"
	"github.com/noah-isme/cloud-classroom/internal/repository"
	appErrors "github.com/noah-isme/cloud-classroom/pkg/errors"
)

func TestValidDueDate(t *testing.T) {
	cases := map[int]bool{
		20251105: true,
		20240229: true,
		20250229: false,
		20251301: false,
		20251000: false,
		2025110:  false,
		0:        false,
		99991231: true,
	}
	for input, want := range cases {
		t.Run(fmt.Sprint(input), func(t *testing.T) {
			assert.Equal(t, want, ValidDueDate(input))
		})
	}
}

func TestTranslateRepositoryErrors(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{repository.ErrDuplicateUsername, appErrors.ErrAlreadyExists.Code},
		{repository.ErrSubjectExists, appErrors.ErrAlreadyExists.Code},
		{repository.ErrUserNotFound, appErrors.ErrNotFound.Code},
		{repository.ErrTopicNotFound, appErrors.ErrNotFound.Code},
		{repository.ErrAssignmentNotFound, appErrors.ErrNotFound.Code},
		{repository.ErrCapacityExceeded, appErrors.ErrCapacityExceeded.Code},
		{repository.ErrSchedulerEmpty, appErrors.ErrEmpty.Code},
		{appErrors.ErrPermissionDenied, appErrors.ErrPermissionDenied.Code},
		{errors.New("boom"), appErrors.ErrInternal.Code},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, errorCode(translate(tc.err)), tc.err.Error())
	}
	assert.NoError(t, translate(nil))
}

func TestRequireRoleMessage(t *testing.T) {
	err := requireAuthor(models.Session{Role: models.RoleStudent}, "create subjects")
	assert.ErrorIs(t, err, appErrors.ErrPermissionDenied)
	assert.Equal(t, "Students cannot create subjects", err.Error())

	assert.NoError(t, requireAuthor(models.Session{Role: models.RoleTeacher}, "create subjects"))
	assert.NoError(t, requireAdmin(models.Session{Role: models.RoleAdmin}, "list users"))
	assert.Error(t, requireAdmin(models.Session{Role: models.RoleTeacher}, "list users"))
}

func TestRequireAuthorRoles(t *testing.T) {
	cases := []struct {
		role    models.UserRole
		allowed bool
	}{
		{models.RoleStudent, false},
		{models.RoleTeacher, true},
		{models.RoleAdmin, true},
	}
	for _, tc := range cases {
		t.Run(tc.role.String(), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.role.CanAuthor())
			err := requireAuthor(models.Session{Role: tc.role}, "post announcements")
			if tc.allowed {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, appErrors.ErrPermissionDenied)
			assert.Equal(t, "Students cannot post announcements", err.Error())
		})
	}
}
