package attendance

import (
	"testing"
	"time"

	"github.com/sentra-hr/attendance-backend-go/internal/domain/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestDecodePendingChangeNormalizesNone(t *testing.T) {
	raw := `{"attendance_date":"2026-03-02","attendance_clock_in":"2026-03-02 09:00:00","attendance_clock_out":"None"}`

	pc, err := DecodePendingChange(raw)
	require.NoError(t, err)
	assert.Nil(t, pc.ClockOutAt)
	require.NotNil(t, pc.Date)
	assert.Equal(t, "2026-03-02", *pc.Date)
}

func TestDecodePendingChangeInvalidJSON(t *testing.T) {
	_, err := DecodePendingChange("{not json")
	assert.ErrorIs(t, err, ErrRequestDataInvalid)
}

func TestPendingChangeRoundTrip(t *testing.T) {
	pc := PendingChange{
		Date:       strPtr("2026-03-02"),
		Day:        strPtr("monday"),
		ClockInAt:  strPtr("2026-03-02 09:00:00"),
		ClockOutAt: strPtr("2026-03-02 17:00:00"),
	}

	raw, err := pc.Encode()
	require.NoError(t, err)

	decoded, err := DecodePendingChange(raw)
	require.NoError(t, err)
	assert.Equal(t, pc, decoded)
}

func TestPendingChangeApply(t *testing.T) {
	att := Attendance{
		Date:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Day:       shift.Sunday,
		ClockInAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	out := time.Date(2026, 3, 1, 16, 0, 0, 0, time.UTC)
	att.ClockOutAt = &out

	pc := PendingChange{
		Date:      strPtr("2026-03-02"),
		Day:       strPtr("monday"),
		ClockInAt: strPtr("2026-03-02 09:00:00"),
		// clock-out omitted by the requester: the row is reopened
	}

	require.NoError(t, pc.Apply(&att))
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), att.Date)
	assert.Equal(t, shift.Monday, att.Day)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), att.ClockInAt)
	assert.Nil(t, att.ClockOutAt)
	assert.True(t, att.IsOpen())
}

func TestPendingChangeApplyInvalid(t *testing.T) {
	var att Attendance

	err := PendingChange{Date: strPtr("02-03-2026")}.Apply(&att)
	assert.ErrorIs(t, err, ErrRequestDataInvalid)

	err = PendingChange{Day: strPtr("funday")}.Apply(&att)
	assert.ErrorIs(t, err, ErrRequestDataInvalid)

	err = PendingChange{ClockOutAt: strPtr("17:00")}.Apply(&att)
	assert.ErrorIs(t, err, ErrRequestDataInvalid)
}
