package handler

import "github.com/gin-gonic/gin"

// Handlers groups the API handlers mounted under the versioned prefix.
type Handlers struct {
	Absences         *AbsenceHandler
	Coverage         *CoverageHandler
	Substitutes      *SubstituteHandler
	TeacherSchedules *TeacherScheduleHandler
}

// Register mounts every API route on the group.
func (h Handlers) Register(api gin.IRouter) {
	absences := api.Group("/absences")
	absences.POST("", h.Absences.Create)
	absences.GET("/:id", h.Absences.Get)
	absences.POST("/:id/activate", h.Absences.Activate)
	absences.POST("/:id/cancel", h.Absences.Cancel)
	absences.GET("/:id/coverage", h.Coverage.Summary)
	absences.GET("/:id/coverage/export", h.Coverage.Export)

	requests := api.Group("/coverage-requests")
	requests.PATCH("/:id/status", h.Coverage.UpdateStatus)
	requests.POST("/shifts/:shiftId/cancel", h.Coverage.CancelShift)
	requests.GET("/:id/substitutes/:substituteId", h.Substitutes.GetContact)

	api.POST("/substitute-responses", h.Substitutes.Respond)
	api.POST("/sub-assignments", h.Substitutes.Assign)
	api.POST("/sub-assignments/:id/cancel", h.Substitutes.CancelAssignment)

	schedules := api.Group("/teacher-schedules")
	schedules.POST("", h.TeacherSchedules.Create)
	schedules.POST("/conflicts", h.TeacherSchedules.CheckConflicts)

	usage := api.Group("/baseline-usage")
	usage.GET("/staff/:id", h.TeacherSchedules.StaffUsage)
	usage.GET("/classrooms/:id", h.TeacherSchedules.ClassroomUsage)
	usage.GET("/class-groups/:id", h.TeacherSchedules.ClassGroupUsage)
	usage.GET("/time-slots/:id", h.TeacherSchedules.TimeSlotUsage)
}
