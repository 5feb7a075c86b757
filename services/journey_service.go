package services

import (
	"sort"
	"time"

	"schoolride-api/apperrors"
	"schoolride-api/models"
)

// Session time windows, in hours since midnight. The morning session is
// bounded by the school drop-off deadline, the afternoon session by the
// school closing (pickup) time.
const (
	maxDropoffTime = 10.0 // 10am
	minPickupTime  = 14.0 // 2pm
)

// hoursOfDay converts a millisecond-of-day offset to fractional hours.
func hoursOfDay(ms int64) float64 {
	return float64(ms) / 1000 / 60 / 60
}

// MatchFrequency checks whether the request runs on the given date: some
// frequency's day must equal the date's weekday name. On a match it returns
// a copy of the detail narrowed to that single frequency, so downstream
// consumers see exactly one frequency per date-scoped result. When several
// frequencies share the matching day the one with the lowest id wins, which
// keeps the choice deterministic. The input detail is never mutated.
func MatchFrequency(detail models.RideRequestDetail, date time.Time) (models.RideRequestDetail, bool) {
	day := models.WeekdayOf(date)

	var matched *models.RideFrequency
	for i := range detail.Frequencies {
		f := detail.Frequencies[i]
		if f.Day != day {
			continue
		}
		if matched == nil || f.ID < matched.ID {
			matched = &detail.Frequencies[i]
		}
	}
	if matched == nil {
		return detail, false
	}

	narrowed := detail
	narrowed.Frequencies = []models.RideFrequency{*matched}
	return narrowed, true
}

// OrderForSession filters date-matched requests down to the given session
// window and sorts them for the driver's trip list. Each request must carry
// exactly one frequency by this point (the MatchFrequency output).
//
// MORNING keeps requests whose school deadline is at or before 10am;
// AFTERNOON keeps requests whose closing time is at or after 2pm; any other
// session keeps nothing. The sort is by closing (pickup) time ascending with
// nulls last, tie-broken by school deadline ascending with nulls last. Both
// sessions use the same comparator, so even the morning list is primarily
// ordered by pickup time.
func OrderForSession(details []models.RideRequestDetail, session models.Session) ([]models.RideRequestDetail, error) {
	kept := make([]models.RideRequestDetail, 0, len(details))

	for _, detail := range details {
		if len(detail.Frequencies) == 0 {
			return nil, apperrors.Invariant("no frequency present in ride request %d", detail.ID)
		}
		f := detail.Frequencies[0]

		switch session {
		case models.SessionMorning:
			if f.SchoolDeadline != nil && hoursOfDay(*f.SchoolDeadline) <= maxDropoffTime {
				kept = append(kept, detail)
			}
		case models.SessionAfternoon:
			if f.ClosingTime != nil && hoursOfDay(*f.ClosingTime) >= minPickupTime {
				kept = append(kept, detail)
			}
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i].Frequencies[0], kept[j].Frequencies[0]
		if c := compareNullsLast(a.ClosingTime, b.ClosingTime); c != 0 {
			return c < 0
		}
		return compareNullsLast(a.SchoolDeadline, b.SchoolDeadline) < 0
	})

	return kept, nil
}

// compareNullsLast orders two optional millisecond offsets ascending with
// nil sorting after any value.
func compareNullsLast(a, b *int64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	}
	return 0
}

// PartitionJourneys splits a driver's planned trips into past and upcoming:
// a trip is past iff its journey date falls on an earlier calendar day than
// today. Input order is preserved within each partition.
func PartitionJourneys(details []models.RideRequestDetail, today time.Time) models.DriverJourneys {
	journeys := models.DriverJourneys{
		PastJourneys:     []models.RideRequestDetail{},
		UpcomingJourneys: []models.RideRequestDetail{},
	}

	for _, detail := range details {
		if detail.JourneyPlan != nil && epochDay(detail.JourneyPlan.JourneyDate) < epochDay(today) {
			journeys.PastJourneys = append(journeys.PastJourneys, detail)
		} else {
			journeys.UpcomingJourneys = append(journeys.UpcomingJourneys, detail)
		}
	}
	return journeys
}

func epochDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}
