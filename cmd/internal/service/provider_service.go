package service

import (
	"context"

	"medislot/cmd/internal/domain/entity"
	"medislot/cmd/internal/utils"
	"medislot/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type DoctorRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Doctor, error)
	FindByOwner(ctx context.Context, sub string) (*entity.Doctor, error)
	FindByStatus(ctx context.Context, status entity.ApprovalStatus) ([]*entity.Doctor, error)
	Save(ctx context.Context, doctor *entity.Doctor) error
}

type CenterRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Center, error)
	FindByStatus(ctx context.Context, status entity.ApprovalStatus) ([]*entity.Center, error)
	Save(ctx context.Context, center *entity.Center) error
}

type DoctorRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=120"`
	Specialty string `json:"specialty" validate:"required,max=80"`
}

type CenterRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Address string `json:"address" validate:"required,max=255"`
}

type ApprovalRequest struct {
	Status string `json:"status" validate:"required,approval"`
}

type DoctorResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialty      string `json:"specialty"`
	ApprovalStatus string `json:"approval_status"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type CenterResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Address        string `json:"address"`
	ApprovalStatus string `json:"approval_status"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type DefaultProviderService struct {
	DoctorRepo DoctorRepository
	CenterRepo CenterRepository
	Validate   *validator.Validate
}

func NewProviderService(doctorRepo DoctorRepository, centerRepo CenterRepository, validate *validator.Validate) *DefaultProviderService {
	return &DefaultProviderService{DoctorRepo: doctorRepo, CenterRepo: centerRepo, Validate: validate}
}

func (p *DefaultProviderService) RegisterDoctor(ctx context.Context, req *DoctorRequest, caller *utils.TokenData) (*DoctorResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := p.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	existing, err := p.DoctorRepo.FindByOwner(ctx, caller.Sub)
	if err != nil {
		log.Errorf("failed to check doctor profile for %s: %v", caller.Sub, err)
		return nil, apierror.InternalServerError
	}
	if existing != nil {
		return nil, apierror.DoctorAlreadyRegisteredError
	}

	now := utils.NowUTC()
	doctor := &entity.Doctor{
		OwnerSub:       caller.Sub,
		Name:           req.Name,
		Specialty:      req.Specialty,
		ApprovalStatus: entity.ApprovalPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := p.DoctorRepo.Save(ctx, doctor); err != nil {
		log.Errorf("failed to save doctor profile for %s: %v", caller.Sub, err)
		return nil, apierror.InternalServerError
	}
	return toDoctorResponse(doctor), nil
}

func (p *DefaultProviderService) GetDoctors(ctx context.Context) ([]*DoctorResponse, apierror.ErrorResponse) {
	doctors, err := p.DoctorRepo.FindByStatus(ctx, entity.ApprovalApproved)
	if err != nil {
		log.Errorf("failed to fetch approved doctors: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*DoctorResponse, len(doctors))
	for i, d := range doctors {
		resp[i] = toDoctorResponse(d)
	}
	return resp, nil
}

func (p *DefaultProviderService) RegisterCenter(ctx context.Context, req *CenterRequest, caller *utils.TokenData) (*CenterResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := p.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	now := utils.NowUTC()
	center := &entity.Center{
		OwnerSub:       caller.Sub,
		Name:           req.Name,
		Address:        req.Address,
		ApprovalStatus: entity.ApprovalPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := p.CenterRepo.Save(ctx, center); err != nil {
		log.Errorf("failed to save center for %s: %v", caller.Sub, err)
		return nil, apierror.InternalServerError
	}
	return toCenterResponse(center), nil
}

func (p *DefaultProviderService) GetCenters(ctx context.Context) ([]*CenterResponse, apierror.ErrorResponse) {
	centers, err := p.CenterRepo.FindByStatus(ctx, entity.ApprovalApproved)
	if err != nil {
		log.Errorf("failed to fetch approved centers: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*CenterResponse, len(centers))
	for i, c := range centers {
		resp[i] = toCenterResponse(c)
	}
	return resp, nil
}

func (p *DefaultProviderService) DecideDoctor(ctx context.Context, id string, req *ApprovalRequest, caller *utils.TokenData) (*DoctorResponse, apierror.ErrorResponse) {
	if !caller.IsAdmin() {
		return nil, apierror.ForbiddenError
	}
	utils.Sanitize(req)
	if err := p.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	doctor, err := p.DoctorRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch doctor %s: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if doctor == nil {
		return nil, apierror.NotFoundError
	}

	next := entity.ApprovalStatus(req.Status)
	if !doctor.ApprovalStatus.CanBecome(next) {
		return nil, apierror.InvalidStatusTransitionError
	}

	doctor.ApprovalStatus = next
	doctor.UpdatedAt = utils.NowUTC()
	if err := p.DoctorRepo.Save(ctx, doctor); err != nil {
		log.Errorf("failed to update doctor %s approval: %v", id, err)
		return nil, apierror.InternalServerError
	}
	log.Infof("doctor %s %s by %s", doctor.ID, next, caller.Sub)
	return toDoctorResponse(doctor), nil
}

func (p *DefaultProviderService) DecideCenter(ctx context.Context, id string, req *ApprovalRequest, caller *utils.TokenData) (*CenterResponse, apierror.ErrorResponse) {
	if !caller.IsAdmin() {
		return nil, apierror.ForbiddenError
	}
	utils.Sanitize(req)
	if err := p.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	center, err := p.CenterRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch center %s: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if center == nil {
		return nil, apierror.NotFoundError
	}

	next := entity.ApprovalStatus(req.Status)
	if !center.ApprovalStatus.CanBecome(next) {
		return nil, apierror.InvalidStatusTransitionError
	}

	center.ApprovalStatus = next
	center.UpdatedAt = utils.NowUTC()
	if err := p.CenterRepo.Save(ctx, center); err != nil {
		log.Errorf("failed to update center %s approval: %v", id, err)
		return nil, apierror.InternalServerError
	}
	log.Infof("center %s %s by %s", center.ID, next, caller.Sub)
	return toCenterResponse(center), nil
}

func toDoctorResponse(d *entity.Doctor) *DoctorResponse {
	return &DoctorResponse{
		ID:             d.ID,
		Name:           d.Name,
		Specialty:      d.Specialty,
		ApprovalStatus: string(d.ApprovalStatus),
		CreatedAt:      utils.FormatEpoch(d.CreatedAt),
		UpdatedAt:      utils.FormatEpoch(d.UpdatedAt),
	}
}

func toCenterResponse(c *entity.Center) *CenterResponse {
	return &CenterResponse{
		ID:             c.ID,
		Name:           c.Name,
		Address:        c.Address,
		ApprovalStatus: string(c.ApprovalStatus),
		CreatedAt:      utils.FormatEpoch(c.CreatedAt),
		UpdatedAt:      utils.FormatEpoch(c.UpdatedAt),
	}
}
