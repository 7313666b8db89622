package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"medislot/cmd/internal/domain/entity"
	"medislot/cmd/internal/metrics"
	"medislot/cmd/internal/utils"
	"medislot/cmd/internal/utils/apierror"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	patient     = &utils.TokenData{Sub: "patient-1", Role: utils.RolePatient}
	otherPerson = &utils.TokenData{Sub: "patient-2", Role: utils.RolePatient}
	doctorUser  = &utils.TokenData{Sub: "doctor-sub", Role: utils.RoleDoctor}
	admin       = &utils.TokenData{Sub: "admin-sub", Role: utils.RoleAdmin}
)

type appointmentFixture struct {
	svc      *DefaultAppointmentService
	appts    *fakeAppointmentRepo
	schedule *fakeScheduleRepo
	doctors  *fakeDoctorRepo
	centers  *fakeCenterRepo
}

func newAppointmentFixture(appts ...*entity.Appointment) *appointmentFixture {
	f := &appointmentFixture{
		appts: newFakeAppointmentRepo(appts...),
		schedule: &fakeScheduleRepo{entries: []*entity.ScheduleEntry{
			scheduleEntry(entity.CenterLocation(centerA), 1, "09:00", "09:30", "10:00"),
			scheduleEntry(entity.HomeVisitLocation(), 1, "18:00"),
		}},
		doctors: newFakeDoctorRepo(&entity.Doctor{ID: doctorID, OwnerSub: "doctor-sub", ApprovalStatus: entity.ApprovalApproved}),
		centers: newFakeCenterRepo(
			&entity.Center{ID: centerA, ApprovalStatus: entity.ApprovalApproved},
			&entity.Center{ID: centerB, ApprovalStatus: entity.ApprovalPending},
		),
	}

	validate := newValidate()
	m := metrics.NewSlotMetrics(prometheus.NewRegistry())
	availability := NewAvailabilityService(f.schedule, f.appts, validate, m)
	f.svc = NewAppointmentService(f.appts, f.doctors, f.centers, availability, validate, m)
	f.svc.Now = func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local) }
	return f
}

func TestCreateAppointment(t *testing.T) {
	f := newAppointmentFixture()

	resp, apierr := f.svc.CreateAppointment(context.Background(), &AppointmentRequest{
		DoctorID: doctorID,
		Date:     "2025-06-02",
		Time:     "9:30",
		Mode:     "clinic",
		CenterID: centerA,
	}, patient)
	require.Nil(t, apierr)
	assert.Equal(t, "09:30", resp.Time)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "center", resp.LocationKind)
	require.NotNil(t, resp.CenterID)
	assert.Equal(t, centerA, *resp.CenterID)
	assert.Equal(t, "patient-1", resp.PatientSub)
}

func TestCreateAppointmentHomeVisitBlockedByClinicBooking(t *testing.T) {
	f := newAppointmentFixture(appointmentAt("2025-06-02", "18:00", entity.StatusConfirmed, entity.CenterLocation(centerA)))

	_, apierr := f.svc.CreateAppointment(context.Background(), &AppointmentRequest{
		DoctorID: doctorID,
		Date:     "2025-06-02",
		Time:     "18:00",
		Mode:     "home_visit",
	}, patient)
	assert.Equal(t, apierror.MomentNotAvailable, apierr)
}

func TestCreateAppointmentRejections(t *testing.T) {
	tests := []struct {
		name string
		req  AppointmentRequest
		want apierror.ErrorResponse
	}{
		{"not offered", AppointmentRequest{DoctorID: doctorID, Date: "2025-06-02", Time: "11:00", CenterID: centerA}, apierror.MomentNotAvailable},
		{"in the past", AppointmentRequest{DoctorID: doctorID, Date: "2025-05-26", Time: "09:00", CenterID: centerA}, apierror.AppointmentInPastError},
		{"pending center", AppointmentRequest{DoctorID: doctorID, Date: "2025-06-02", Time: "09:00", CenterID: centerB}, apierror.CenterNotBookableError},
		{"unknown doctor", AppointmentRequest{DoctorID: "d0000000-0000-0000-0000-000000000000", Date: "2025-06-02", Time: "09:00", CenterID: centerA}, apierror.DoctorNotBookableError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAppointmentFixture()
			_, apierr := f.svc.CreateAppointment(context.Background(), &tt.req, patient)
			assert.Equal(t, tt.want, apierr)
		})
	}

	t.Run("clinic without center", func(t *testing.T) {
		f := newAppointmentFixture()
		_, apierr := f.svc.CreateAppointment(context.Background(), &AppointmentRequest{DoctorID: doctorID, Date: "2025-06-02", Time: "09:00"}, patient)
		require.NotNil(t, apierr)
		assert.Equal(t, 400, apierr.Code())
	})

	t.Run("unapproved doctor", func(t *testing.T) {
		f := newAppointmentFixture()
		f.doctors.doctors[doctorID].ApprovalStatus = entity.ApprovalPending
		_, apierr := f.svc.CreateAppointment(context.Background(), &AppointmentRequest{DoctorID: doctorID, Date: "2025-06-02", Time: "09:00", CenterID: centerA}, patient)
		assert.Equal(t, apierror.DoctorNotBookableError, apierr)
	})
}

func TestCreateAppointmentSecondBookingIsRejected(t *testing.T) {
	f := newAppointmentFixture()
	req := AppointmentRequest{DoctorID: doctorID, Date: "2025-06-02", Time: "10:00", CenterID: centerA}

	first := req
	_, apierr := f.svc.CreateAppointment(context.Background(), &first, patient)
	require.Nil(t, apierr)

	second := req
	_, apierr = f.svc.CreateAppointment(context.Background(), &second, otherPerson)
	assert.Equal(t, apierror.MomentNotAvailable, apierr)
}

func TestCreateAppointmentDataSourceFailure(t *testing.T) {
	f := newAppointmentFixture()
	f.schedule.err = errors.New("db down")

	_, apierr := f.svc.CreateAppointment(context.Background(), &AppointmentRequest{DoctorID: doctorID, Date: "2025-06-02", Time: "09:00", CenterID: centerA}, patient)
	assert.Equal(t, apierror.DataSourceError, apierr)
}

func TestUpdateStatus(t *testing.T) {
	appt := appointmentAt("2025-06-02", "09:00", entity.StatusPending, entity.CenterLocation(centerA))
	f := newAppointmentFixture(appt)
	ctx := context.Background()

	_, apierr := f.svc.UpdateStatus(ctx, appt.ID, &AppointmentStatusRequest{Status: "confirmed"}, patient)
	assert.Equal(t, apierror.ForbiddenError, apierr)

	_, apierr = f.svc.UpdateStatus(ctx, appt.ID, &AppointmentStatusRequest{Status: "cancelled"}, otherPerson)
	assert.Equal(t, apierror.NotFoundError, apierr)

	resp, apierr := f.svc.UpdateStatus(ctx, appt.ID, &AppointmentStatusRequest{Status: "confirmed"}, doctorUser)
	require.Nil(t, apierr)
	assert.Equal(t, "confirmed", resp.Status)

	_, apierr = f.svc.UpdateStatus(ctx, appt.ID, &AppointmentStatusRequest{Status: "pending"}, admin)
	assert.Equal(t, apierror.InvalidStatusTransitionError, apierr)

	resp, apierr = f.svc.UpdateStatus(ctx, appt.ID, &AppointmentStatusRequest{Status: "cancelled"}, patient)
	require.Nil(t, apierr)
	assert.Equal(t, "cancelled", resp.Status)

	_, apierr = f.svc.UpdateStatus(ctx, appt.ID, &AppointmentStatusRequest{Status: "completed"}, admin)
	assert.Equal(t, apierror.InvalidStatusTransitionError, apierr)

	_, apierr = f.svc.UpdateStatus(ctx, "missing", &AppointmentStatusRequest{Status: "completed"}, admin)
	assert.Equal(t, apierror.NotFoundError, apierr)
}

func TestCancelledSlotCanBeBookedAgain(t *testing.T) {
	appt := appointmentAt("2025-06-02", "09:30", entity.StatusConfirmed, entity.CenterLocation(centerA))
	f := newAppointmentFixture(appt)
	ctx := context.Background()

	_, apierr := f.svc.UpdateStatus(ctx, appt.ID, &AppointmentStatusRequest{Status: "cancelled"}, patient)
	require.Nil(t, apierr)

	_, apierr = f.svc.CreateAppointment(ctx, &AppointmentRequest{DoctorID: doctorID, Date: "2025-06-02", Time: "09:30", CenterID: centerA}, otherPerson)
	assert.Nil(t, apierr)
}

func TestReschedule(t *testing.T) {
	appt := appointmentAt("2025-06-02", "09:00", entity.StatusConfirmed, entity.CenterLocation(centerA))
	other := appointmentAt("2025-06-02", "10:00", entity.StatusPending, entity.HomeVisitLocation())
	other.PatientSub = "patient-2"
	f := newAppointmentFixture(appt, other)
	ctx := context.Background()

	_, apierr := f.svc.Reschedule(ctx, appt.ID, &RescheduleRequest{Date: "2025-06-02", Time: "10:00"}, patient)
	assert.Equal(t, apierror.MomentNotAvailable, apierr)

	resp, apierr := f.svc.Reschedule(ctx, appt.ID, &RescheduleRequest{Date: "2025-06-02", Time: "09:00"}, patient)
	require.Nil(t, apierr, "moving onto its own time must not conflict")
	assert.Equal(t, "09:00", resp.Time)

	resp, apierr = f.svc.Reschedule(ctx, appt.ID, &RescheduleRequest{Date: "2025-06-09", Time: "09:30"}, doctorUser)
	require.Nil(t, apierr)
	assert.Equal(t, "2025-06-09", resp.Date)
	assert.Equal(t, "09:30", resp.Time)

	_, apierr = f.svc.Reschedule(ctx, appt.ID, &RescheduleRequest{Date: "2025-06-09", Time: "09:30"}, otherPerson)
	assert.Equal(t, apierror.NotFoundError, apierr)
}

func TestGetAppointmentsByRole(t *testing.T) {
	mine := appointmentAt("2025-06-02", "09:00", entity.StatusPending, entity.CenterLocation(centerA))
	theirs := appointmentAt("2025-06-02", "09:30", entity.StatusPending, entity.CenterLocation(centerA))
	theirs.PatientSub = "patient-2"
	elsewhere := appointmentAt("2025-06-02", "09:30", entity.StatusPending, entity.CenterLocation(centerA))
	elsewhere.DoctorID = "d0000000-0000-0000-0000-000000000000"
	f := newAppointmentFixture(mine, theirs, elsewhere)
	ctx := context.Background()

	got, apierr := f.svc.GetAppointments(ctx, patient)
	require.Nil(t, apierr)
	assert.Len(t, got, 2)

	got, apierr = f.svc.GetAppointments(ctx, doctorUser)
	require.Nil(t, apierr)
	assert.Len(t, got, 2)

	got, apierr = f.svc.GetAppointments(ctx, admin)
	require.Nil(t, apierr)
	assert.Len(t, got, 3)

	got, apierr = f.svc.GetAppointments(ctx, &utils.TokenData{Sub: "no-profile", Role: utils.RoleDoctor})
	require.Nil(t, apierr)
	assert.Empty(t, got)
}
