package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Appointments *DefaultAppointmentRoute
	Availability *DefaultAvailabilityRoute
	Providers    *DefaultProviderRoute
	Schedules    *DefaultScheduleRoute
}

// Register mounts the API on e. Routes that act on behalf of a caller are
// wrapped with requireAuth.
func Register(e *echo.Echo, h Handlers, requireAuth echo.MiddlewareFunc) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"success": true})
	})

	api := e.Group("/api")

	// Slot availability for a doctor on a given date
	api.GET("/availability/slots", h.Availability.GetSlots)

	// Doctors and centers
	api.GET("/doctors", h.Providers.GetDoctors)
	api.POST("/doctors", h.Providers.RegisterDoctor, requireAuth)
	api.GET("/doctors/:id/schedules", h.Schedules.GetSchedules)
	api.PUT("/doctors/:id/schedules", h.Schedules.UpsertSchedule, requireAuth)
	api.GET("/centers", h.Providers.GetCenters)
	api.POST("/centers", h.Providers.RegisterCenter, requireAuth)

	admin := api.Group("/admin", requireAuth)
	admin.PATCH("/doctors/:id/status", h.Providers.DecideDoctor)
	admin.PATCH("/centers/:id/status", h.Providers.DecideCenter)

	// Appointments
	appts := api.Group("/appointments", requireAuth)
	appts.GET("", h.Appointments.GetAppointments)
	appts.POST("", h.Appointments.CreateAppointment)
	appts.PATCH("/:id/status", h.Appointments.UpdateStatus)
	appts.PATCH("/:id/reschedule", h.Appointments.Reschedule)
}
