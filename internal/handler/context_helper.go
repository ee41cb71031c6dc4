package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/coverage-api/internal/middleware"
	"github.com/noah-isme/coverage-api/internal/models"
)

// schoolScope combines the session school with an explicit override taken from the body,
// falling back to the school_id query parameter.
func schoolScope(c *gin.Context, override string) models.SchoolScope {
	if override == "" {
		override = c.Query("school_id")
	}
	return models.SchoolScope{Override: override, Session: middleware.SchoolFromContext(c)}
}
