package service

import (
	"context"

	"medislot/cmd/internal/domain/entity"
	"medislot/cmd/internal/slots"
	"medislot/cmd/internal/utils"
	"medislot/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type ScheduleRepository interface {
	FindByDoctor(ctx context.Context, doctorID string) ([]*entity.ScheduleEntry, error)
	FindOne(ctx context.Context, doctorID string, loc entity.Location, day int) (*entity.ScheduleEntry, error)
	Save(ctx context.Context, entry *entity.ScheduleEntry) error
}

type TimeSlotRequest struct {
	Time            string `json:"time" validate:"required,hhmm"`
	DurationMinutes int    `json:"durationMinutes" validate:"required,min=5,max=480"`
}

// ScheduleRequest replaces the whole entry for one location and weekday.
type ScheduleRequest struct {
	Mode        string            `json:"mode" validate:"required,oneof=clinic home_visit"`
	CenterID    string            `json:"center_id" validate:"required_if=Mode clinic,omitempty,uuid"`
	DayOfWeek   *int              `json:"day_of_week" validate:"required,min=0,max=6"`
	IsAvailable *bool             `json:"is_available"`
	TimeSlots   []TimeSlotRequest `json:"time_slots" validate:"max=96,dive"`
}

type ScheduleResponse struct {
	ID           string            `json:"id"`
	DoctorID     string            `json:"doctor_id"`
	LocationKind string            `json:"location_kind"`
	CenterID     *string           `json:"center_id"`
	DayOfWeek    int               `json:"day_of_week"`
	IsAvailable  bool              `json:"is_available"`
	TimeSlots    []entity.TimeSlot `json:"time_slots"`
	UpdatedAt    string            `json:"updated_at"`
}

type DefaultScheduleService struct {
	ScheduleRepo ScheduleRepository
	DoctorRepo   DoctorRepository
	CenterRepo   CenterRepository
	Validate     *validator.Validate
}

func NewScheduleService(scheduleRepo ScheduleRepository, doctorRepo DoctorRepository, centerRepo CenterRepository, validate *validator.Validate) *DefaultScheduleService {
	return &DefaultScheduleService{ScheduleRepo: scheduleRepo, DoctorRepo: doctorRepo, CenterRepo: centerRepo, Validate: validate}
}

func (s *DefaultScheduleService) GetSchedules(ctx context.Context, doctorID string) ([]*ScheduleResponse, apierror.ErrorResponse) {
	entries, err := s.ScheduleRepo.FindByDoctor(ctx, doctorID)
	if err != nil {
		log.Errorf("failed to fetch schedules for doctor %s: %v", doctorID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*ScheduleResponse, len(entries))
	for i, e := range entries {
		resp[i] = toScheduleResponse(e)
	}
	return resp, nil
}

// UpsertSchedule writes the entry for (doctor, location, weekday) wholesale,
// creating it on first use. Only the doctor who owns the profile or an admin
// may edit it.
func (s *DefaultScheduleService) UpsertSchedule(ctx context.Context, doctorID string, req *ScheduleRequest, caller *utils.TokenData) (*ScheduleResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	doctor, err := s.DoctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		log.Errorf("failed to fetch doctor %s: %v", doctorID, err)
		return nil, apierror.InternalServerError
	}
	if doctor == nil {
		return nil, apierror.NotFoundError
	}
	if !caller.IsAdmin() && doctor.OwnerSub != caller.Sub {
		return nil, apierror.ForbiddenError
	}

	loc := entity.HomeVisitLocation()
	if slots.Mode(req.Mode) == slots.ModeClinic {
		center, err := s.CenterRepo.FindByID(ctx, req.CenterID)
		if err != nil {
			log.Errorf("failed to fetch center %s: %v", req.CenterID, err)
			return nil, apierror.InternalServerError
		}
		if center == nil || center.ApprovalStatus != entity.ApprovalApproved {
			return nil, apierror.CenterNotBookableError
		}
		loc = entity.CenterLocation(center.ID)
	}

	timeSlots := make([]entity.TimeSlot, 0, len(req.TimeSlots))
	for _, ts := range req.TimeSlots {
		at, _ := utils.NormalizeTime(ts.Time)
		timeSlots = append(timeSlots, entity.TimeSlot{Time: at, DurationMinutes: ts.DurationMinutes})
	}

	day := *req.DayOfWeek
	entry, err := s.ScheduleRepo.FindOne(ctx, doctor.ID, loc, day)
	if err != nil {
		log.Errorf("failed to fetch schedule for doctor %s day %d: %v", doctor.ID, day, err)
		return nil, apierror.InternalServerError
	}

	now := utils.NowUTC()
	if entry == nil {
		entry = &entity.ScheduleEntry{DoctorID: doctor.ID, DayOfWeek: day, CreatedAt: now}
		entry.SetLocation(loc)
	}
	entry.IsAvailable = req.IsAvailable == nil || *req.IsAvailable
	entry.TimeSlots = timeSlots
	entry.UpdatedAt = now

	if err := s.ScheduleRepo.Save(ctx, entry); err != nil {
		log.Errorf("failed to save schedule for doctor %s day %d: %v", doctor.ID, day, err)
		return nil, apierror.InternalServerError
	}
	return toScheduleResponse(entry), nil
}

func toScheduleResponse(e *entity.ScheduleEntry) *ScheduleResponse {
	return &ScheduleResponse{
		ID:           e.ID,
		DoctorID:     e.DoctorID,
		LocationKind: string(e.LocationKind),
		CenterID:     e.CenterID,
		DayOfWeek:    e.DayOfWeek,
		IsAvailable:  e.IsAvailable,
		TimeSlots:    e.TimeSlots,
		UpdatedAt:    utils.FormatEpoch(e.UpdatedAt),
	}
}
