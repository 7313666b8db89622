package routes

import (
	"context"
	"net/http"

	"medislot/cmd/internal/service"
	"medislot/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type AvailabilityService interface {
	GetSlots(ctx context.Context, req *service.SlotRequest) (*service.SlotsResponse, apierror.ErrorResponse)
}

type DefaultAvailabilityRoute struct {
	AvailabilityService AvailabilityService
}

func NewAvailabilityDefault(availabilityService AvailabilityService) *DefaultAvailabilityRoute {
	return &DefaultAvailabilityRoute{AvailabilityService: availabilityService}
}

// GetSlots answers GET /api/availability/slots. It needs no identity.
func (a *DefaultAvailabilityRoute) GetSlots(c echo.Context) error {
	var req service.SlotRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewSimple(http.StatusBadRequest, "Invalid query parameters"))
	}

	resp, apierr := a.AvailabilityService.GetSlots(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}
