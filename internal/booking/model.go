package booking

import "errors"

var (
	ErrNotFound       = errors.New("booking not found")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrReasonRequired = errors.New("rejection reason is required")
	ErrUnknownService = errors.New("unknown service or addon")
	ErrTotalMismatch  = errors.New("total does not match selected services")
	ErrDateInPast     = errors.New("date in the past")
)

type CreateRequest struct {
	CustomerName string   `json:"customerName" validate:"required"`
	Email        string   `json:"email" validate:"required,email"`
	Phone        string   `json:"phone" validate:"required,phone"`
	Address      string   `json:"address" validate:"required"`
	Notes        string   `json:"notes"`
	Date         string   `json:"date" validate:"required,date"`
	Time         string   `json:"time" validate:"required,clock"`
	Services     []string `json:"services" validate:"required,min=1,dive,required"`
	Addons       []string `json:"addons" validate:"omitempty,dive,required"`
	Total        float64  `json:"total" validate:"required,gt=0"`
}

type UpdateStatusRequest struct {
	Status          string `json:"status" validate:"required,oneof=confirmed rejected"`
	RejectionReason string `json:"rejectionReason"`
}
