package controller

import (
	"errors"
	"strconv"

	"student_portal_backend/internal/model"
	"student_portal_backend/internal/service"
	"student_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// scopedStudent resolves which student profile a request may act on.
// Advisors and admins may target any student; students only their own
// profile. A zero explicit id means the caller's own profile.
func scopedStudent(ctx *gin.Context, auth *service.AuthService, explicit uint) (uint, error) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		return 0, util.ErrPermissionDenied
	}

	if claims.Role == model.RoleAdvisor || claims.Role == model.RoleAdmin {
		if explicit != 0 {
			return explicit, nil
		}
		student, err := auth.StudentForUser(claims.UserID)
		if err != nil {
			return 0, err
		}
		return student.ID, nil
	}

	student, err := auth.StudentForUser(claims.UserID)
	if err != nil {
		return 0, err
	}
	if explicit != 0 && explicit != student.ID {
		return 0, util.ErrPermissionDenied
	}
	return student.ID, nil
}

// pathStudentID reads the :id route parameter as a student id.
func pathStudentID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid student ID")
		return 0, false
	}
	return uint(id), true
}

func respondScopeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrStudentNotFound):
		util.NotFound(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
