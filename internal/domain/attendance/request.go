package attendance

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sentra-hr/attendance-backend-go/internal/domain/shift"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// PendingChange is the proposed new state of an attendance carried by an
// update request. It is stored serialized on the row and only applied on
// manager approval; until then the live columns keep the old values.
//
// The clock-out field is deliberately always serialized: a pending change
// may clear an existing clock-out, and omitting the key would make that
// indistinguishable from "leave it alone".
type PendingChange struct {
	Date       *string `json:"attendance_date,omitempty"`
	Day        *string `json:"shift_day,omitempty"`
	ClockInAt  *string `json:"attendance_clock_in,omitempty"`
	ClockOutAt *string `json:"attendance_clock_out"`
}

// Encode serializes the pending change for storage on the attendance row.
func (pc PendingChange) Encode() (string, error) {
	raw, err := json.Marshal(pc)
	if err != nil {
		return "", fmt.Errorf("encode pending change: %w", err)
	}
	return string(raw), nil
}

// DecodePendingChange parses stored requested data. Clients of the system
// this replaces serialized absent clock-outs as the literal string "None";
// those sentinels are normalized to real nils here so they can never leak
// into a timestamp column.
func DecodePendingChange(raw string) (PendingChange, error) {
	var pc PendingChange
	if err := json.Unmarshal([]byte(raw), &pc); err != nil {
		return PendingChange{}, fmt.Errorf("%w: %v", ErrRequestDataInvalid, err)
	}

	normalize := func(s *string) *string {
		if s == nil || *s == "None" || *s == "" {
			return nil
		}
		return s
	}
	pc.Date = normalize(pc.Date)
	pc.Day = normalize(pc.Day)
	pc.ClockInAt = normalize(pc.ClockInAt)
	pc.ClockOutAt = normalize(pc.ClockOutAt)

	return pc, nil
}

// Apply writes the proposed values onto the attendance. The clock-out is
// always taken from the change, so a nil clock-out reopens the row.
func (pc PendingChange) Apply(att *Attendance) error {
	if pc.Date != nil {
		date, err := time.Parse(dateLayout, *pc.Date)
		if err != nil {
			return fmt.Errorf("%w: attendance date: %v", ErrRequestDataInvalid, err)
		}
		att.Date = date
	}
	if pc.Day != nil {
		day, ok := shift.ParseWeekday(*pc.Day)
		if !ok {
			return fmt.Errorf("%w: shift day %q", ErrRequestDataInvalid, *pc.Day)
		}
		att.Day = day
	}
	if pc.ClockInAt != nil {
		clockIn, err := time.Parse(dateTimeLayout, *pc.ClockInAt)
		if err != nil {
			return fmt.Errorf("%w: clock in: %v", ErrRequestDataInvalid, err)
		}
		att.ClockInAt = clockIn
	}

	if pc.ClockOutAt == nil {
		att.ClockOutAt = nil
		return nil
	}
	clockOut, err := time.Parse(dateTimeLayout, *pc.ClockOutAt)
	if err != nil {
		return fmt.Errorf("%w: clock out: %v", ErrRequestDataInvalid, err)
	}
	att.ClockOutAt = &clockOut
	return nil
}
