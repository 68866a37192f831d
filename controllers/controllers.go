package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"
)

var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrEmailRegistered = errors.New("email is already registered")
	ErrInvalidCreds    = errors.New("invalid credentials")
	ErrEndBeforeStart  = errors.New("end time must be after start time")
)

// currentUserID reads the authenticated user's id set by the auth middleware.
func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
