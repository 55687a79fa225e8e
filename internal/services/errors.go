package services

import "errors"

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrPostNotFound    = errors.New("post not found")
	ErrUnauthenticated = errors.New("sign in required")
	ErrInvalidInput    = errors.New("invalid input")
)
