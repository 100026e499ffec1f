package model

import "errors"

var (
	ErrValidation   = errors.New("validation error")
	ErrUserNotFound = errors.New("user not found")
	ErrNotFound     = errors.New("not found")
	ErrAlreadySaved = errors.New("review already saved")
	ErrAccessDenied = errors.New("access denied")
)
