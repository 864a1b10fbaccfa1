package bookingflow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"shelby-backend/internal/availability"
	"shelby-backend/internal/booking"
	"shelby-backend/internal/cache"
	"shelby-backend/internal/models"
)

func TestFlowTransitions(t *testing.T) {
	f := New()

	if err := f.PickDate("2031-05-10"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pick date before package: err = %v, want ErrInvalidTransition", err)
	}
	if err := f.ChoosePackage("GOLD"); !errors.Is(err, ErrUnknownPackage) {
		t.Fatalf("unknown package: err = %v, want ErrUnknownPackage", err)
	}

	if err := f.ChoosePackage("core"); err != nil {
		t.Fatalf("ChoosePackage: %v", err)
	}
	if f.State() != StateChoosingAddOns {
		t.Fatalf("state = %v, want choosing_addons", f.State())
	}

	if err := f.ToggleAddOn("JET_WASH"); !errors.Is(err, ErrUnknownAddOn) {
		t.Fatalf("unknown add-on: err = %v, want ErrUnknownAddOn", err)
	}
	if err := f.ToggleAddOn("ENGINE_BAY"); err != nil {
		t.Fatalf("ToggleAddOn: %v", err)
	}
	// Toggling twice removes it again.
	if err := f.ToggleAddOn("PET_HAIR"); err != nil {
		t.Fatalf("ToggleAddOn: %v", err)
	}
	if err := f.ToggleAddOn("PET_HAIR"); err != nil {
		t.Fatalf("ToggleAddOn: %v", err)
	}

	if err := f.ConfirmAddOns(); err != nil {
		t.Fatalf("ConfirmAddOns: %v", err)
	}
	if err := f.PickDate("10/05/2031"); err == nil {
		t.Fatal("expected bad date format to be rejected")
	}
	if err := f.PickDate("2031-05-10"); err != nil {
		t.Fatalf("PickDate: %v", err)
	}

	doc := models.Availability{TimeSlots: []models.TimeSlot{
		{StartTime: "13:00", EndTime: "14:30", ServiceType: "CORE", IsAvailable: true},
		{StartTime: "09:00", EndTime: "10:30", ServiceType: "CORE", IsAvailable: true},
		{StartTime: "11:00", EndTime: "12:30", ServiceType: "CORE", IsAvailable: false},
		{StartTime: "09:00", EndTime: "11:00", ServiceType: "PRO", IsAvailable: true},
	}}
	open := f.OpenSlots(doc)
	if len(open) != 2 {
		t.Fatalf("open slots = %d, want 2", len(open))
	}
	if open[0].StartTime != "09:00" || open[1].StartTime != "13:00" {
		t.Fatalf("open slots out of order: %+v", open)
	}

	if err := f.PickSlot(doc.TimeSlots[2]); !errors.Is(err, ErrSlotMismatch) {
		t.Fatalf("taken slot: err = %v, want ErrSlotMismatch", err)
	}
	if err := f.PickSlot(doc.TimeSlots[3]); !errors.Is(err, ErrSlotMismatch) {
		t.Fatalf("wrong package slot: err = %v, want ErrSlotMismatch", err)
	}
	if err := f.PickSlot(open[0]); err != nil {
		t.Fatalf("PickSlot: %v", err)
	}

	req, err := f.BuildRequest(Customer{
		Name:    "Dana Whitfield",
		Email:   "dana@example.com",
		Phone:   "+14165550134",
		Address: "77 Gerrard St W, Toronto",
	})
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	if req.Date != "2031-05-10" || req.Time != "09:00" {
		t.Fatalf("request slot = %s %s", req.Date, req.Time)
	}
	if len(req.Services) != 1 || req.Services[0] != "CORE" {
		t.Fatalf("services = %v", req.Services)
	}
	if len(req.Addons) != 1 || req.Addons[0] != "ENGINE_BAY" {
		t.Fatalf("addons = %v", req.Addons)
	}
	if req.Total != 168 {
		t.Fatalf("total = %v, want 168", req.Total)
	}

	if err := f.Finish(nil); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if !f.Succeeded() {
		t.Fatal("flow should have succeeded")
	}
	if err := f.ChoosePackage("PRO"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("choose after done: err = %v, want ErrInvalidTransition", err)
	}
}

// In-memory stores for the end-to-end walk below.

type memAvailability struct {
	docs map[int64]models.Availability
}

func (m *memAvailability) List(ctx context.Context) ([]models.Availability, error) {
	items := make([]models.Availability, 0, len(m.docs))
	for _, doc := range m.docs {
		items = append(items, doc)
	}
	return items, nil
}

func (m *memAvailability) FindByDate(ctx context.Context, date time.Time) (models.Availability, error) {
	doc, ok := m.docs[date.Unix()]
	if !ok {
		return models.Availability{}, mongo.ErrNoDocuments
	}
	return doc, nil
}

func (m *memAvailability) ReplaceSlots(ctx context.Context, date time.Time, slots []models.TimeSlot) (models.Availability, error) {
	doc := models.Availability{ID: "mem", Date: date, TimeSlots: slots}
	m.docs[date.Unix()] = doc
	return doc, nil
}

func (m *memAvailability) ReserveSlot(ctx context.Context, date time.Time, startTime, serviceType string) (bool, error) {
	doc, ok := m.docs[date.Unix()]
	if !ok {
		return false, nil
	}
	for i, slot := range doc.TimeSlots {
		if slot.StartTime == startTime && slot.ServiceType == serviceType && slot.IsAvailable {
			doc.TimeSlots[i].IsAvailable = false
			m.docs[date.Unix()] = doc
			return true, nil
		}
	}
	return false, nil
}

func (m *memAvailability) ReleaseSlot(ctx context.Context, date time.Time, startTime, serviceType string) error {
	doc, ok := m.docs[date.Unix()]
	if !ok {
		return nil
	}
	for i, slot := range doc.TimeSlots {
		if slot.StartTime == startTime && slot.ServiceType == serviceType {
			doc.TimeSlots[i].IsAvailable = true
		}
	}
	m.docs[date.Unix()] = doc
	return nil
}

type memBookings struct {
	docs map[string]models.Booking
}

func (m *memBookings) Create(ctx context.Context, b models.Booking) error {
	m.docs[b.ID] = b
	return nil
}

func (m *memBookings) ListAll(ctx context.Context) ([]models.Booking, error) {
	items := make([]models.Booking, 0, len(m.docs))
	for _, b := range m.docs {
		items = append(items, b)
	}
	return items, nil
}

func (m *memBookings) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	items := make([]models.Booking, 0)
	for _, b := range m.docs {
		if b.UserID == userID {
			items = append(items, b)
		}
	}
	return items, nil
}

func (m *memBookings) GetByID(ctx context.Context, id string) (models.Booking, error) {
	b, ok := m.docs[id]
	if !ok {
		return models.Booking{}, mongo.ErrNoDocuments
	}
	return b, nil
}

func (m *memBookings) UpdateStatus(ctx context.Context, id, status, rejectionReason string) (models.Booking, error) {
	b, ok := m.docs[id]
	if !ok {
		return models.Booking{}, mongo.ErrNoDocuments
	}
	b.Status = status
	if status == models.BookingStatusRejected {
		b.RejectionReason = rejectionReason
	} else {
		b.RejectionReason = ""
	}
	m.docs[id] = b
	return b, nil
}

// TestBookingJourney walks the whole path: admin publishes a day of slots,
// the client flow picks one and submits, the slot closes, the admin
// confirms, and the customer sees the confirmed booking.
func TestBookingJourney(t *testing.T) {
	loc, err := time.LoadLocation("America/Toronto")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	slots := availability.NewService(&memAvailability{docs: make(map[int64]models.Availability)}, loc, cache.NewNoop(), 0)
	bookings := booking.NewService(&memBookings{docs: make(map[string]models.Booking)}, slots, nil, nil, nil, nil, loc, log)

	const day = "2031-05-10"
	published, err := slots.UpsertForDate(ctx, day, []models.TimeSlot{
		{StartTime: "09:00", EndTime: "10:30", ServiceType: "CORE", IsAvailable: true},
		{StartTime: "11:00", EndTime: "12:30", ServiceType: "CORE", IsAvailable: true},
	})
	if err != nil {
		t.Fatalf("UpsertForDate: %v", err)
	}

	flow := New()
	if err := flow.ChoosePackage("CORE"); err != nil {
		t.Fatalf("ChoosePackage: %v", err)
	}
	if err := flow.ConfirmAddOns(); err != nil {
		t.Fatalf("ConfirmAddOns: %v", err)
	}
	if err := flow.PickDate(day); err != nil {
		t.Fatalf("PickDate: %v", err)
	}

	open := flow.OpenSlots(published)
	if len(open) != 2 {
		t.Fatalf("open slots = %d, want 2", len(open))
	}
	if err := flow.PickSlot(open[0]); err != nil {
		t.Fatalf("PickSlot: %v", err)
	}

	req, err := flow.BuildRequest(Customer{
		Name:    "Dana Whitfield",
		Email:   "dana@example.com",
		Phone:   "+14165550134",
		Address: "77 Gerrard St W, Toronto",
	})
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}

	created, err := bookings.Create(ctx, "user-1", req)
	if err := flow.Finish(err); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if !flow.Succeeded() {
		t.Fatalf("flow failed: %v", flow.Failure())
	}
	if created.Status != models.BookingStatusPending {
		t.Fatalf("status = %q, want pending", created.Status)
	}

	// The picked slot is no longer offered to the next client.
	days, err := slots.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("availability docs = %d, want 1", len(days))
	}
	secondFlow := New()
	if err := secondFlow.ChoosePackage("CORE"); err != nil {
		t.Fatalf("ChoosePackage: %v", err)
	}
	if remaining := secondFlow.OpenSlots(days[0]); len(remaining) != 1 || remaining[0].StartTime != "11:00" {
		t.Fatalf("remaining open slots = %+v, want only 11:00", remaining)
	}

	updated, changed, err := bookings.UpdateStatus(ctx, created.ID, "confirmed", "")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if !changed || updated.Status != models.BookingStatusConfirmed {
		t.Fatalf("confirm: changed = %v, status = %q", changed, updated.Status)
	}

	mine, err := bookings.ListOwner(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListOwner: %v", err)
	}
	if len(mine) != 1 || mine[0].Status != models.BookingStatusConfirmed {
		t.Fatalf("owner list = %+v, want one confirmed booking", mine)
	}
}
