package service

import (
	"context"
	"errors"
	"time"

	"medislot/cmd/internal/domain/entity"
	"medislot/cmd/internal/metrics"
	"medislot/cmd/internal/slots"
	"medislot/cmd/internal/utils"
	"medislot/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
)

type ScheduleSource interface {
	FindAvailableByDoctorAndDay(ctx context.Context, doctorID string, day int) ([]*entity.ScheduleEntry, error)
}

type BookingSource interface {
	FindOccupying(ctx context.Context, doctorID, date, excludeID string) ([]*entity.Appointment, error)
}

type SlotRequest struct {
	DoctorID             string `query:"doctor_id" validate:"required,uuid"`
	Date                 string `query:"date" validate:"required"`
	Mode                 string `query:"mode" validate:"omitempty,oneof=clinic home_visit"`
	CenterID             string `query:"center_id" validate:"omitempty,uuid"`
	ExcludeAppointmentID string `query:"exclude_appointment_id" validate:"omitempty,uuid"`
}

type SlotsResponse struct {
	Success  bool                 `json:"success"`
	Date     string               `json:"date"`
	DoctorID string               `json:"doctorId"`
	Slots    []slots.ResolvedSlot `json:"slots"`
}

type DefaultAvailabilityService struct {
	Schedules ScheduleSource
	Bookings  BookingSource
	Validate  *validator.Validate
	Metrics   *metrics.SlotMetrics
}

func NewAvailabilityService(schedules ScheduleSource, bookings BookingSource, validate *validator.Validate, m *metrics.SlotMetrics) *DefaultAvailabilityService {
	return &DefaultAvailabilityService{Schedules: schedules, Bookings: bookings, Validate: validate, Metrics: m}
}

func (a *DefaultAvailabilityService) GetSlots(ctx context.Context, req *SlotRequest) (*SlotsResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	date, day, err := utils.NormalizeDate(req.Date)
	if err != nil {
		return nil, apierror.InvalidDateFormatError
	}

	mode, err := slots.ParseMode(req.Mode)
	if err != nil {
		return nil, apierror.InvalidModeError
	}

	q := slots.Query{Mode: mode, CenterID: req.CenterID}
	resolved, err := a.ResolveDay(ctx, req.DoctorID, date, day, q, req.ExcludeAppointmentID)
	if err != nil {
		log.Errorf("failed to resolve slots for doctor %s on %s: %v", req.DoctorID, date, err)
		return nil, apierror.DataSourceError
	}

	return &SlotsResponse{
		Success:  true,
		Date:     date,
		DoctorID: req.DoctorID,
		Slots:    resolved,
	}, nil
}

// ResolveDay fetches the doctor's schedule and bookings for an already
// normalized date and merges them. Both fetches run concurrently; if either
// fails nothing is returned.
func (a *DefaultAvailabilityService) ResolveDay(ctx context.Context, doctorID, date string, day time.Weekday, q slots.Query, excludeID string) ([]slots.ResolvedSlot, error) {
	start := time.Now()

	var (
		entries []*entity.ScheduleEntry
		appts   []*entity.Appointment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = a.Schedules.FindAvailableByDoctorAndDay(gctx, doctorID, int(day))
		return err
	})
	g.Go(func() error {
		var err error
		appts, err = a.Bookings.FindOccupying(gctx, doctorID, date, excludeID)
		return err
	})

	if err := g.Wait(); err != nil {
		a.Metrics.ObserveResolution(string(q.Mode), outcomeFor(err), time.Since(start).Seconds())
		return nil, err
	}

	resolved, fallback := slots.Resolve(entries, appts, q)
	if fallback {
		log.Debugf("doctor %s has no schedule for %s (%s), offering default hours", doctorID, date, day)
		a.Metrics.ObserveFallback(string(q.Mode))
	}
	a.Metrics.ObserveResolution(string(q.Mode), "ok", time.Since(start).Seconds())
	return resolved, nil
}

func outcomeFor(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "data_source_error"
}
