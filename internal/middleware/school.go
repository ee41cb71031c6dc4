package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextSchoolKey is the gin context key storing the session school.
const ContextSchoolKey = "currentSchool"

// DefaultSchoolHeader is used when no header name is configured.
const DefaultSchoolHeader = "X-School-ID"

// School attaches the caller's school from the configured header. Requests without the
// header pass through; services decide whether a school is required.
func School(header string) gin.HandlerFunc {
	if header == "" {
		header = DefaultSchoolHeader
	}
	return func(c *gin.Context) {
		if school := strings.TrimSpace(c.GetHeader(header)); school != "" {
			c.Set(ContextSchoolKey, school)
		}
		c.Next()
	}
}

// SchoolFromContext returns the session school, or an empty string.
func SchoolFromContext(c *gin.Context) string {
	value, exists := c.Get(ContextSchoolKey)
	if !exists {
		return ""
	}
	school, _ := value.(string)
	return school
}
