package routes

import (
	"context"
	"net/http"
	"strings"

	"medislot/cmd/internal/service"
	"medislot/cmd/internal/utils"
	"medislot/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type ScheduleService interface {
	GetSchedules(ctx context.Context, doctorID string) ([]*service.ScheduleResponse, apierror.ErrorResponse)
	UpsertSchedule(ctx context.Context, doctorID string, req *service.ScheduleRequest, caller *utils.TokenData) (*service.ScheduleResponse, apierror.ErrorResponse)
}

type DefaultScheduleRoute struct {
	ScheduleService ScheduleService
}

func NewScheduleDefault(scheduleService ScheduleService) *DefaultScheduleRoute {
	return &DefaultScheduleRoute{ScheduleService: scheduleService}
}

func (s *DefaultScheduleRoute) GetSchedules(c echo.Context) error {
	doctorID := strings.TrimSpace(c.Param("id"))
	if doctorID == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	schedules, apierr := s.ScheduleService.GetSchedules(c.Request().Context(), doctorID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"success": true, "schedules": schedules}
	return c.JSON(http.StatusOK, &resp)
}

func (s *DefaultScheduleRoute) UpsertSchedule(c echo.Context) error {
	doctorID := strings.TrimSpace(c.Param("id"))
	if doctorID == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	var req service.ScheduleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	schedule, apierr := s.ScheduleService.UpsertSchedule(c.Request().Context(), doctorID, &req, data)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, schedule)
}
