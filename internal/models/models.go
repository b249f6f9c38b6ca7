package models

import "time"

const (
	AppointmentStatusPending  = "pending"
	AppointmentStatusDone     = "done"
	AppointmentStatusCanceled = "canceled"
	AppointmentStatusNoShow   = "no_show"
)

type Business struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Timezone  string    `bson:"timezone" json:"timezone"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// WeeklyHours holds one open/close window per weekday. Weekday follows
// time.Weekday numbering (0 = Sunday). A business has at most one row per
// weekday; a missing row means closed that day.
type WeeklyHours struct {
	ID         string `bson:"_id,omitempty" json:"id"`
	BusinessID string `bson:"businessId" json:"businessId"`
	Weekday    int    `bson:"weekday" json:"weekday"`
	OpenTime   string `bson:"openTime" json:"openTime"`
	CloseTime  string `bson:"closeTime" json:"closeTime"`
}

// ScheduleException overrides the weekly hours for one calendar date.
// Date is stored as a UTC-midnight timestamp; matching compares the date
// component only. OpenTime/CloseTime overrides are stored but only the
// Closed flag currently gates a request.
type ScheduleException struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	BusinessID string    `bson:"businessId" json:"businessId"`
	Date       time.Time `bson:"date" json:"date"`
	Closed     bool      `bson:"closed" json:"closed"`
	OpenTime   string    `bson:"openTime,omitempty" json:"openTime,omitempty"`
	CloseTime  string    `bson:"closeTime,omitempty" json:"closeTime,omitempty"`
	Reason     string    `bson:"reason,omitempty" json:"reason,omitempty"`
}

type AppointmentType struct {
	ID               string `bson:"_id,omitempty" json:"id"`
	BusinessID       string `bson:"businessId" json:"businessId"`
	Name             string `bson:"name" json:"name"`
	DurationMinutes  int    `bson:"durationMinutes" json:"durationMinutes"`
	ConcurrencyLimit int    `bson:"concurrencyLimit" json:"concurrencyLimit"`
	Active           bool   `bson:"active" json:"active"`
}

type Appointment struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	BusinessID string    `bson:"businessId" json:"businessId"`
	LeadID     string    `bson:"leadId" json:"leadId"`
	TypeID     string    `bson:"typeId" json:"typeId"`
	Subject    string    `bson:"subject" json:"subject"`
	StartAt    time.Time `bson:"startAt" json:"startAt"`
	Status     string    `bson:"status" json:"status"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}
