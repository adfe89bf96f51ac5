package util

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailRegistered  = errors.New("email is already registered")
	ErrPermissionDenied = errors.New("permission denied")
	ErrStudentNotFound  = errors.New("student not found")
	ErrCourseNotFound   = errors.New("course not found")
	ErrAlreadyEnrolled  = errors.New("already enrolled in this course")
	ErrSessionNotFound  = errors.New("chat session not found")
	ErrReportNotFound   = errors.New("analysis report not found")
)
