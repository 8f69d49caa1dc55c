package revenue

import (
	"fmt"
	"time"

	"github.com/appdotbuilder/revenue-dashboard/internal/domain"
)

// FormatPeriod gera o rótulo do período de calendário de t na granularidade g,
// usando o calendário de loc (nil mantém a localização do próprio t).
//
//	yearly  2024
//	monthly 2024-01
//	weekly  2024-W03 (semana ISO-8601, ano ISO da semana)
//	daily   2024-01-15
//
// A ordem lexicográfica dos rótulos é igual à ordem cronológica em todas as granularidades.
func FormatPeriod(t time.Time, g domain.Granularity, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}

	switch g {
	case domain.GranularityYearly:
		return t.Format("2006")
	case domain.GranularityWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case domain.GranularityDaily:
		return t.Format(time.DateOnly)
	default:
		return t.Format("2006-01")
	}
}
