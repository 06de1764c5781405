package shift

import (
	"context"
)

// ShiftRepository defines data access for shifts and their per-day schedules.
// All methods include companyID to prevent cross-company data access.
type ShiftRepository interface {
	// GetByID retrieves a shift with all its shift days loaded
	GetByID(ctx context.Context, id string, companyID string) (Shift, error)

	// List retrieves all shifts of a company with their shift days
	List(ctx context.Context, companyID string) ([]Shift, error)

	// Create creates a shift together with its shift days
	Create(ctx context.Context, s Shift) (Shift, error)

	// UpsertDay creates or replaces the schedule of one weekday
	UpsertDay(ctx context.Context, day ShiftDay) (ShiftDay, error)
}
