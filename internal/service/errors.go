package service

import "errors"

var (
	ErrInternal           = errors.New("internal server error")
	ErrPostNotFound       = errors.New("post not found")
	ErrForbidden          = errors.New("you are not allowed to access this post")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("please check your login credentials")
)
