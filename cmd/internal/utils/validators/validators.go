package validators

import (
	"medislot/cmd/internal/domain/entity"
	"medislot/cmd/internal/utils"

	"github.com/go-playground/validator/v10"
)

// Register installs every custom tag used by request structs.
func Register(validate *validator.Validate) {
	_ = validate.RegisterValidation("hhmm", IsClockTime)
	_ = validate.RegisterValidation("isodate", IsIsoDate)
	_ = validate.RegisterValidation("apptstatus", IsAppointmentStatus)
	_ = validate.RegisterValidation("approval", IsApprovalDecision)
}

func IsClockTime(fl validator.FieldLevel) bool {
	_, err := utils.NormalizeTime(fl.Field().String())
	return err == nil
}

func IsIsoDate(fl validator.FieldLevel) bool {
	_, _, err := utils.NormalizeDate(fl.Field().String())
	return err == nil
}

func IsAppointmentStatus(fl validator.FieldLevel) bool {
	switch entity.AppointmentStatus(fl.Field().String()) {
	case entity.StatusPending, entity.StatusConfirmed, entity.StatusScheduled,
		entity.StatusCompleted, entity.StatusCancelled, entity.StatusNoShow:
		return true
	}
	return false
}

// IsApprovalDecision accepts only the two outcomes an admin can choose.
func IsApprovalDecision(fl validator.FieldLevel) bool {
	switch entity.ApprovalStatus(fl.Field().String()) {
	case entity.ApprovalApproved, entity.ApprovalRejected:
		return true
	}
	return false
}
