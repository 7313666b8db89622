package service

import (
	"context"
	"errors"
	"time"

	"medislot/cmd/internal/domain/database/repository"
	"medislot/cmd/internal/domain/entity"
	"medislot/cmd/internal/metrics"
	"medislot/cmd/internal/slots"
	"medislot/cmd/internal/utils"
	"medislot/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type AppointmentRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Appointment, error)
	FindAll(ctx context.Context) ([]*entity.Appointment, error)
	FindByPatient(ctx context.Context, sub string) ([]*entity.Appointment, error)
	FindByDoctor(ctx context.Context, doctorID string) ([]*entity.Appointment, error)
	Save(ctx context.Context, appointment *entity.Appointment) error
}

type SlotResolver interface {
	ResolveDay(ctx context.Context, doctorID, date string, day time.Weekday, q slots.Query, excludeID string) ([]slots.ResolvedSlot, error)
}

type AppointmentRequest struct {
	DoctorID string `json:"doctor_id" validate:"required,uuid"`
	Date     string `json:"date" validate:"required,isodate"`
	Time     string `json:"time" validate:"required,hhmm"`
	Mode     string `json:"mode" validate:"omitempty,oneof=clinic home_visit"`
	CenterID string `json:"center_id" validate:"omitempty,uuid"`
}

type AppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,apptstatus"`
}

type RescheduleRequest struct {
	Date string `json:"date" validate:"required,isodate"`
	Time string `json:"time" validate:"required,hhmm"`
}

type AppointmentResponse struct {
	ID           string  `json:"id"`
	DoctorID     string  `json:"doctor_id"`
	PatientSub   string  `json:"patient_sub"`
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	Status       string  `json:"status"`
	LocationKind string  `json:"location_kind"`
	CenterID     *string `json:"center_id"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// Allowed moves between appointment statuses. Completed, cancelled and
// no-show are final.
var statusTransitions = map[entity.AppointmentStatus][]entity.AppointmentStatus{
	entity.StatusPending:   {entity.StatusConfirmed, entity.StatusScheduled, entity.StatusCancelled},
	entity.StatusConfirmed: {entity.StatusScheduled, entity.StatusCompleted, entity.StatusCancelled, entity.StatusNoShow},
	entity.StatusScheduled: {entity.StatusCompleted, entity.StatusCancelled, entity.StatusNoShow},
}

func canTransition(from, to entity.AppointmentStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type DefaultAppointmentService struct {
	AppointmentRepo AppointmentRepository
	DoctorRepo      DoctorRepository
	CenterRepo      CenterRepository
	Slots           SlotResolver
	Validate        *validator.Validate
	Metrics         *metrics.SlotMetrics
	Now             func() time.Time
}

func NewAppointmentService(apptRepo AppointmentRepository, doctorRepo DoctorRepository, centerRepo CenterRepository, resolver SlotResolver, validate *validator.Validate, m *metrics.SlotMetrics) *DefaultAppointmentService {
	return &DefaultAppointmentService{
		AppointmentRepo: apptRepo,
		DoctorRepo:      doctorRepo,
		CenterRepo:      centerRepo,
		Slots:           resolver,
		Validate:        validate,
		Metrics:         m,
		Now:             time.Now,
	}
}

func (a *DefaultAppointmentService) GetAppointments(ctx context.Context, caller *utils.TokenData) ([]*AppointmentResponse, apierror.ErrorResponse) {
	var (
		appts []*entity.Appointment
		err   error
	)

	switch caller.Role {
	case utils.RoleAdmin:
		appts, err = a.AppointmentRepo.FindAll(ctx)
	case utils.RoleDoctor:
		doctor, derr := a.DoctorRepo.FindByOwner(ctx, caller.Sub)
		if derr != nil {
			log.Errorf("failed to fetch doctor profile for %s: %v", caller.Sub, derr)
			return nil, apierror.InternalServerError
		}
		if doctor == nil {
			return []*AppointmentResponse{}, nil
		}
		appts, err = a.AppointmentRepo.FindByDoctor(ctx, doctor.ID)
	default:
		appts, err = a.AppointmentRepo.FindByPatient(ctx, caller.Sub)
	}

	if err != nil {
		log.Errorf("failed to find appointments for %s: %v", caller.Sub, err)
		return nil, apierror.InternalServerError
	}

	response := make([]*AppointmentResponse, len(appts))
	for i, appt := range appts {
		response[i] = toAppointmentResponse(appt)
	}
	return response, nil
}

func (a *DefaultAppointmentService) CreateAppointment(ctx context.Context, req *AppointmentRequest, caller *utils.TokenData) (*AppointmentResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	date, day, _ := utils.NormalizeDate(req.Date)
	at, _ := utils.NormalizeTime(req.Time)
	mode, _ := slots.ParseMode(req.Mode)

	if mode == slots.ModeClinic && req.CenterID == "" {
		return nil, apierror.NewMissingParamError("center_id")
	}

	if !a.isFuture(date, at) {
		return nil, apierror.AppointmentInPastError
	}

	doctor, err := a.DoctorRepo.FindByID(ctx, req.DoctorID)
	if err != nil {
		log.Errorf("failed to fetch doctor %s: %v", req.DoctorID, err)
		return nil, apierror.InternalServerError
	}
	if doctor == nil || doctor.ApprovalStatus != entity.ApprovalApproved {
		return nil, apierror.DoctorNotBookableError
	}

	loc := entity.HomeVisitLocation()
	if mode == slots.ModeClinic {
		center, err := a.CenterRepo.FindByID(ctx, req.CenterID)
		if err != nil {
			log.Errorf("failed to fetch center %s: %v", req.CenterID, err)
			return nil, apierror.InternalServerError
		}
		if center == nil || center.ApprovalStatus != entity.ApprovalApproved {
			return nil, apierror.CenterNotBookableError
		}
		loc = entity.CenterLocation(center.ID)
	}

	if apierr := a.ensureOffered(ctx, doctor.ID, date, day, at, slots.Query{Mode: mode, CenterID: req.CenterID}, ""); apierr != nil {
		return nil, apierr
	}

	now := utils.NowUTC()
	appointment := &entity.Appointment{
		DoctorID:   doctor.ID,
		PatientSub: caller.Sub,
		Date:       date,
		Time:       at,
		Status:     entity.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	appointment.SetLocation(loc)

	if apierr := a.save(ctx, appointment); apierr != nil {
		return nil, apierr
	}
	return toAppointmentResponse(appointment), nil
}

func (a *DefaultAppointmentService) UpdateStatus(ctx context.Context, id string, req *AppointmentStatusRequest, caller *utils.TokenData) (*AppointmentResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}
	next := entity.AppointmentStatus(req.Status)

	appt, apierr := a.fetchAppointment(ctx, id)
	if apierr != nil {
		return nil, apierr
	}

	actor, apierr := a.actorFor(ctx, appt, caller)
	if apierr != nil {
		return nil, apierr
	}
	// Patients may only withdraw their own booking.
	if actor == actorPatient && next != entity.StatusCancelled {
		return nil, apierror.ForbiddenError
	}

	if !canTransition(appt.Status, next) {
		return nil, apierror.InvalidStatusTransitionError
	}

	appt.Status = next
	appt.UpdatedAt = utils.NowUTC()
	if apierr := a.save(ctx, appt); apierr != nil {
		return nil, apierr
	}
	return toAppointmentResponse(appt), nil
}

// Reschedule moves an occupying appointment to another date and time at the
// same location. The appointment itself is left out of the conflict check.
func (a *DefaultAppointmentService) Reschedule(ctx context.Context, id string, req *RescheduleRequest, caller *utils.TokenData) (*AppointmentResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}
	date, day, _ := utils.NormalizeDate(req.Date)
	at, _ := utils.NormalizeTime(req.Time)

	appt, apierr := a.fetchAppointment(ctx, id)
	if apierr != nil {
		return nil, apierr
	}
	if _, apierr := a.actorFor(ctx, appt, caller); apierr != nil {
		return nil, apierr
	}
	if !appt.Status.Occupies() {
		return nil, apierror.InvalidStatusTransitionError
	}
	if !a.isFuture(date, at) {
		return nil, apierror.AppointmentInPastError
	}

	q := slots.Query{Mode: slots.ModeHomeVisit}
	if loc := appt.Location(); !loc.IsHomeVisit() {
		q = slots.Query{Mode: slots.ModeClinic, CenterID: loc.CenterID}
	}
	if apierr := a.ensureOffered(ctx, appt.DoctorID, date, day, at, q, appt.ID); apierr != nil {
		return nil, apierr
	}

	appt.Date = date
	appt.Time = at
	appt.UpdatedAt = utils.NowUTC()
	if apierr := a.save(ctx, appt); apierr != nil {
		return nil, apierr
	}
	return toAppointmentResponse(appt), nil
}

func (a *DefaultAppointmentService) ensureOffered(ctx context.Context, doctorID, date string, day time.Weekday, at string, q slots.Query, excludeID string) apierror.ErrorResponse {
	resolved, err := a.Slots.ResolveDay(ctx, doctorID, date, day, q, excludeID)
	if err != nil {
		log.Errorf("failed to resolve slots for doctor %s on %s: %v", doctorID, date, err)
		return apierror.DataSourceError
	}
	if !slots.Offers(resolved, at) {
		return apierror.MomentNotAvailable
	}
	return nil
}

func (a *DefaultAppointmentService) save(ctx context.Context, appt *entity.Appointment) apierror.ErrorResponse {
	err := a.AppointmentRepo.Save(ctx, appt)
	if errors.Is(err, repository.ErrSlotTaken) {
		a.Metrics.ObserveBookingConflict()
		return apierror.MomentNotAvailable
	}
	if err != nil {
		log.Errorf("failed to save appointment: %v", err)
		return apierror.InternalServerError
	}
	return nil
}

func (a *DefaultAppointmentService) fetchAppointment(ctx context.Context, id string) (*entity.Appointment, apierror.ErrorResponse) {
	appt, err := a.AppointmentRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch appointment by id %s: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if appt == nil {
		return nil, apierror.NotFoundError
	}
	return appt, nil
}

type actor int

const (
	actorPatient actor = iota
	actorDoctor
	actorAdmin
)

// actorFor decides in which capacity the caller touches appt. Callers with no
// relation to the appointment get NotFound so ids are not leaked.
func (a *DefaultAppointmentService) actorFor(ctx context.Context, appt *entity.Appointment, caller *utils.TokenData) (actor, apierror.ErrorResponse) {
	if caller.IsAdmin() {
		return actorAdmin, nil
	}
	if caller.Role == utils.RoleDoctor {
		doctor, err := a.DoctorRepo.FindByOwner(ctx, caller.Sub)
		if err != nil {
			log.Errorf("failed to fetch doctor profile for %s: %v", caller.Sub, err)
			return 0, apierror.InternalServerError
		}
		if doctor != nil && doctor.ID == appt.DoctorID {
			return actorDoctor, nil
		}
	}
	if appt.PatientSub == caller.Sub {
		return actorPatient, nil
	}
	return 0, apierror.NotFoundError
}

func (a *DefaultAppointmentService) isFuture(date, at string) bool {
	when, err := time.ParseInLocation("2006-01-02 15:04", date+" "+at, time.Local)
	if err != nil {
		return false
	}
	return when.After(a.Now())
}

func toAppointmentResponse(appt *entity.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:           appt.ID,
		DoctorID:     appt.DoctorID,
		PatientSub:   appt.PatientSub,
		Date:         appt.Date,
		Time:         appt.Time,
		Status:       string(appt.Status),
		LocationKind: string(appt.LocationKind),
		CenterID:     appt.CenterID,
		CreatedAt:    utils.FormatEpoch(appt.CreatedAt),
		UpdatedAt:    utils.FormatEpoch(appt.UpdatedAt),
	}
}
