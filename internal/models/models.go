package models

import "time"

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusRejected  = "rejected"
)

// TimeSlot is one bookable window inside a date's availability document.
// Times are wall-clock strings in the business timezone ("10:00").
type TimeSlot struct {
	StartTime   string `bson:"startTime" json:"startTime"`
	EndTime     string `bson:"endTime" json:"endTime"`
	ServiceType string `bson:"serviceType" json:"serviceType"`
	IsAvailable bool   `bson:"isAvailable" json:"isAvailable"`
}

// Availability holds all slots for one calendar date. Date is normalized
// to midnight and acts as the natural key; an admin write replaces the
// whole slot list for that date.
type Availability struct {
	ID        string     `bson:"_id,omitempty" json:"id"`
	Date      time.Time  `bson:"date" json:"date"`
	TimeSlots []TimeSlot `bson:"timeSlots" json:"timeSlots"`
}

type Booking struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	UserID          string    `bson:"user" json:"user"`
	CustomerName    string    `bson:"customerName" json:"customerName"`
	Email           string    `bson:"email" json:"email"`
	Phone           string    `bson:"phone" json:"phone"`
	Address         string    `bson:"address" json:"address"`
	Notes           string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Date            string    `bson:"date" json:"date"`
	Time            string    `bson:"time" json:"time"`
	Services        []string  `bson:"services" json:"services"`
	Addons          []string  `bson:"addons,omitempty" json:"addons,omitempty"`
	Total           float64   `bson:"total" json:"total"`
	Status          string    `bson:"status" json:"status"`
	RejectionReason string    `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}

type User struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	Name            string    `bson:"name" json:"name"`
	Email           string    `bson:"email,omitempty" json:"email,omitempty"`
	PhoneNumber     string    `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	PasswordHash    string    `bson:"password" json:"-"`
	IsAdmin         bool      `bson:"isAdmin" json:"isAdmin"`
	CarInfo         string    `bson:"carInfo,omitempty" json:"carInfo,omitempty"`
	HomeAddress     string    `bson:"homeAddress,omitempty" json:"homeAddress,omitempty"`
	ReferralCode    string    `bson:"referralCode,omitempty" json:"referralCode,omitempty"`
	ReferredBy      string    `bson:"referredBy,omitempty" json:"referredBy,omitempty"`
	ReferralCredits int       `bson:"referralCredits" json:"referralCredits"`
	ExpoPushToken   string    `bson:"expoPushToken,omitempty" json:"expoPushToken,omitempty"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}
