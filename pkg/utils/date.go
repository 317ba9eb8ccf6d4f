package utils

import "time"

// ParseDate returns a zero date for an empty string.
func ParseDate(dateStr string) (*time.Time, error) {
	var date time.Time

	if dateStr != "" {
		incomingDate, err := time.Parse(time.DateOnly, dateStr)
		if err != nil {
			return nil, err
		}

		date = incomingDate
	}

	return &date, nil
}

// ParseOptionalDate is ParseDate that returns nil for an empty string.
func ParseOptionalDate(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}
	return ParseDate(dateStr)
}

func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}
