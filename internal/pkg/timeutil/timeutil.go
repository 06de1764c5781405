package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

// ToSeconds converts a time-of-day string ("HH:MM" or "HH:MM:SS") to
// seconds since midnight.
func ToSeconds(timeStr string) (int, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time string %q", timeStr)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", timeStr, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", timeStr, err)
	}
	seconds := 0
	if len(parts) == 3 {
		seconds, err = strconv.Atoi(parts[2])
		if err != nil {
			return 0, fmt.Errorf("invalid second in %q: %w", timeStr, err)
		}
	}

	if hours < 0 || minutes < 0 || minutes > 59 || seconds < 0 || seconds > 59 {
		return 0, fmt.Errorf("time string %q out of range", timeStr)
	}

	return hours*3600 + minutes*60 + seconds, nil
}

// ToTimeString converts seconds since midnight back to "HH:MM".
func ToTimeString(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/3600, (seconds%3600)/60)
}

// FormatDuration renders a duration in seconds as "HH:MM:SS". Durations of
// 24 hours or more keep accumulating in the hour field, so summed monthly
// overtime formats as e.g. "52:15:00".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
