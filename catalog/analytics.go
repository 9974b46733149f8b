package catalog

import (
	"context"
	"errors"
	"time"
)

const (
	analyticsWindows     = 12
	analyticsWindowDays  = 28
	analyticsLabelLayout = "Jan 2, 2006"
)

type countFunc func(ctx context.Context, from, to time.Time) (int, error)

// last12Months counts records in twelve consecutive 28-day windows. The
// newest window ends at the start of tomorrow, so today is included.
func last12Months(ctx context.Context, now time.Time, count countFunc) (AnalyticsReport, error) {
	y, m, d := now.Date()
	anchor := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())

	report := AnalyticsReport{Last12Months: make([]MonthCount, 0, analyticsWindows)}
	for i := analyticsWindows - 1; i >= 0; i-- {
		end := anchor.AddDate(0, 0, -i*analyticsWindowDays)
		start := end.AddDate(0, 0, -analyticsWindowDays)
		n, err := count(ctx, start, end)
		if err != nil {
			return AnalyticsReport{}, err
		}
		report.Last12Months = append(report.Last12Months, MonthCount{Month: end.Format(analyticsLabelLayout), Count: n})
	}
	return report, nil
}

// UserAnalytics counts created accounts per window.
func (s *Service) UserAnalytics(ctx context.Context) (AnalyticsReport, error) {
	if s.identities == nil {
		return AnalyticsReport{}, errors.New("catalog: identity counter is not configured")
	}
	return last12Months(ctx, s.clock(), s.identities.CountIdentitiesCreated)
}

// CourseAnalytics counts created courses per window.
func (s *Service) CourseAnalytics(ctx context.Context) (AnalyticsReport, error) {
	return last12Months(ctx, s.clock(), s.courses.CountCoursesCreated)
}

// OrderAnalytics counts placed orders per window.
func (s *Service) OrderAnalytics(ctx context.Context) (AnalyticsReport, error) {
	return last12Months(ctx, s.clock(), s.orders.CountOrdersCreated)
}
