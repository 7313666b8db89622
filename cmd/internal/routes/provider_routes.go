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

type ProviderService interface {
	RegisterDoctor(ctx context.Context, req *service.DoctorRequest, caller *utils.TokenData) (*service.DoctorResponse, apierror.ErrorResponse)
	GetDoctors(ctx context.Context) ([]*service.DoctorResponse, apierror.ErrorResponse)
	RegisterCenter(ctx context.Context, req *service.CenterRequest, caller *utils.TokenData) (*service.CenterResponse, apierror.ErrorResponse)
	GetCenters(ctx context.Context) ([]*service.CenterResponse, apierror.ErrorResponse)
	DecideDoctor(ctx context.Context, id string, req *service.ApprovalRequest, caller *utils.TokenData) (*service.DoctorResponse, apierror.ErrorResponse)
	DecideCenter(ctx context.Context, id string, req *service.ApprovalRequest, caller *utils.TokenData) (*service.CenterResponse, apierror.ErrorResponse)
}

type DefaultProviderRoute struct {
	ProviderService ProviderService
}

func NewProviderDefault(providerService ProviderService) *DefaultProviderRoute {
	return &DefaultProviderRoute{ProviderService: providerService}
}

func (p *DefaultProviderRoute) GetDoctors(c echo.Context) error {
	doctors, apierr := p.ProviderService.GetDoctors(c.Request().Context())
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"success": true, "doctors": doctors}
	return c.JSON(http.StatusOK, &resp)
}

func (p *DefaultProviderRoute) RegisterDoctor(c echo.Context) error {
	var req service.DoctorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	doctor, apierr := p.ProviderService.RegisterDoctor(c.Request().Context(), &req, data)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, doctor)
}

func (p *DefaultProviderRoute) GetCenters(c echo.Context) error {
	centers, apierr := p.ProviderService.GetCenters(c.Request().Context())
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"success": true, "centers": centers}
	return c.JSON(http.StatusOK, &resp)
}

func (p *DefaultProviderRoute) RegisterCenter(c echo.Context) error {
	var req service.CenterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	center, apierr := p.ProviderService.RegisterCenter(c.Request().Context(), &req, data)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, center)
}

func (p *DefaultProviderRoute) DecideDoctor(c echo.Context) error {
	id, req, errResp := bindApproval(c)
	if errResp != nil {
		return c.JSON(errResp.Code(), errResp)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	doctor, apierr := p.ProviderService.DecideDoctor(c.Request().Context(), id, req, data)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, doctor)
}

func (p *DefaultProviderRoute) DecideCenter(c echo.Context) error {
	id, req, errResp := bindApproval(c)
	if errResp != nil {
		return c.JSON(errResp.Code(), errResp)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	center, apierr := p.ProviderService.DecideCenter(c.Request().Context(), id, req, data)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, center)
}

func bindApproval(c echo.Context) (string, *service.ApprovalRequest, apierror.ErrorResponse) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return "", nil, apierror.NewMissingParamError("id")
	}

	var req service.ApprovalRequest
	if err := c.Bind(&req); err != nil {
		return "", nil, apierror.MalformedBodyError
	}
	return id, &req, nil
}
