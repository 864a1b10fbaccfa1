// Package bookingflow models the client-side booking journey as an explicit
// state machine: pick a detailing package, toggle add-ons, pick a date, pick
// one of that date's open slots, then submit. It mirrors the screens of the
// mobile app and drives the end-to-end flow test.
package bookingflow

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"shelby-backend/internal/booking"
	"shelby-backend/internal/catalog"
	"shelby-backend/internal/models"
	"shelby-backend/internal/schedule"
)

type State int

const (
	StateChoosingPackage State = iota
	StateChoosingAddOns
	StatePickingDate
	StatePickingSlot
	StateSubmitting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateChoosingPackage:
		return "choosing_package"
	case StateChoosingAddOns:
		return "choosing_addons"
	case StatePickingDate:
		return "picking_date"
	case StatePickingSlot:
		return "picking_slot"
	case StateSubmitting:
		return "submitting"
	case StateDone:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	ErrInvalidTransition = errors.New("invalid flow transition")
	ErrUnknownPackage    = errors.New("unknown package")
	ErrUnknownAddOn      = errors.New("unknown add-on")
	ErrSlotMismatch      = errors.New("slot does not match the chosen package")
)

// Customer is the contact block the final screen collects.
type Customer struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Notes   string
}

type Flow struct {
	state   State
	pkg     string
	addons  map[string]bool
	date    string
	slot    models.TimeSlot
	failure error
}

func New() *Flow {
	return &Flow{state: StateChoosingPackage, addons: make(map[string]bool)}
}

func (f *Flow) State() State { return f.state }

// ChoosePackage locks in the detailing package and moves to add-on
// selection.
func (f *Flow) ChoosePackage(code string) error {
	if f.state != StateChoosingPackage {
		return fmt.Errorf("%w: choose package in %s", ErrInvalidTransition, f.state)
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if !catalog.IsKnownPackage(code) {
		return fmt.Errorf("%w: %q", ErrUnknownPackage, code)
	}
	f.pkg = code
	f.state = StateChoosingAddOns
	return nil
}

// ToggleAddOn flips one add-on on or off while the add-on screen is open.
func (f *Flow) ToggleAddOn(code string) error {
	if f.state != StateChoosingAddOns {
		return fmt.Errorf("%w: toggle add-on in %s", ErrInvalidTransition, f.state)
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if _, ok := catalog.GetAddOn(code); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAddOn, code)
	}
	if f.addons[code] {
		delete(f.addons, code)
	} else {
		f.addons[code] = true
	}
	return nil
}

func (f *Flow) ConfirmAddOns() error {
	if f.state != StateChoosingAddOns {
		return fmt.Errorf("%w: confirm add-ons in %s", ErrInvalidTransition, f.state)
	}
	f.state = StatePickingDate
	return nil
}

func (f *Flow) PickDate(date string) error {
	if f.state != StatePickingDate {
		return fmt.Errorf("%w: pick date in %s", ErrInvalidTransition, f.state)
	}
	if _, err := schedule.ParseDate(date, time.UTC); err != nil {
		return err
	}
	f.date = date
	f.state = StatePickingSlot
	return nil
}

// OpenSlots filters a date's availability down to what the client can
// actually book: slots for the chosen package that are still open.
func (f *Flow) OpenSlots(doc models.Availability) []models.TimeSlot {
	open := make([]models.TimeSlot, 0)
	for _, slot := range doc.TimeSlots {
		if slot.ServiceType == f.pkg && slot.IsAvailable {
			open = append(open, slot)
		}
	}
	sort.Slice(open, func(i, j int) bool { return open[i].StartTime < open[j].StartTime })
	return open
}

func (f *Flow) PickSlot(slot models.TimeSlot) error {
	if f.state != StatePickingSlot {
		return fmt.Errorf("%w: pick slot in %s", ErrInvalidTransition, f.state)
	}
	if slot.ServiceType != f.pkg || !slot.IsAvailable {
		return ErrSlotMismatch
	}
	f.slot = slot
	f.state = StateSubmitting
	return nil
}

// BuildRequest assembles the create payload the API expects, including the
// client-side total the server re-checks.
func (f *Flow) BuildRequest(customer Customer) (booking.CreateRequest, error) {
	if f.state != StateSubmitting {
		return booking.CreateRequest{}, fmt.Errorf("%w: build request in %s", ErrInvalidTransition, f.state)
	}

	addons := make([]string, 0, len(f.addons))
	for code := range f.addons {
		addons = append(addons, code)
	}
	sort.Strings(addons)

	services := []string{f.pkg}
	total, ok := catalog.ComputeTotal(services, addons)
	if !ok {
		return booking.CreateRequest{}, ErrUnknownPackage
	}

	return booking.CreateRequest{
		CustomerName: customer.Name,
		Email:        customer.Email,
		Phone:        customer.Phone,
		Address:      customer.Address,
		Notes:        customer.Notes,
		Date:         f.date,
		Time:         f.slot.StartTime,
		Services:     services,
		Addons:       addons,
		Total:        total,
	}, nil
}

// Finish records the submission outcome and closes the flow. A nil err is
// a successful booking.
func (f *Flow) Finish(err error) error {
	if f.state != StateSubmitting {
		return fmt.Errorf("%w: finish in %s", ErrInvalidTransition, f.state)
	}
	f.failure = err
	f.state = StateDone
	return nil
}

func (f *Flow) Succeeded() bool { return f.state == StateDone && f.failure == nil }

func (f *Flow) Failure() error { return f.failure }
