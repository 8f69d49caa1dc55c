package utils

import (
	"strings"
	"time"
)

// ParseDate converte uma data YYYY-MM-DD no calendário de loc. Texto vazio retorna nil.
func ParseDate(dateStr string, loc *time.Location) (*time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return nil, nil
	}

	if loc == nil {
		loc = time.Local
	}

	date, err := time.ParseInLocation(time.DateOnly, dateStr, loc)
	if err != nil {
		return nil, err
	}

	return &date, nil
}
