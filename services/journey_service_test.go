package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolride-api/apperrors"
	"schoolride-api/models"
)

func ms(h, m int) *int64 {
	v := int64(h)*3600000 + int64(m)*60000
	return &v
}

func detailWithFrequencies(id uint, freqs ...models.RideFrequency) models.RideRequestDetail {
	return models.RideRequestDetail{
		RideRequest: models.RideRequest{ID: id},
		Frequencies: freqs,
	}
}

// 2026-09-07 is a Monday.
var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func TestHoursOfDay(t *testing.T) {
	assert.Equal(t, 0.0, hoursOfDay(0))
	assert.Equal(t, 9.5, hoursOfDay(*ms(9, 30)))
	assert.Equal(t, 14.0, hoursOfDay(*ms(14, 0)))
	assert.InDelta(t, 23.9999, hoursOfDay(86399999), 0.001)
}

func TestMatchFrequency_MatchNarrowsToSingleDay(t *testing.T) {
	detail := detailWithFrequencies(1,
		models.RideFrequency{ID: 10, Day: models.Monday, ClosingTime: ms(15, 0)},
		models.RideFrequency{ID: 11, Day: models.Wednesday},
	)

	narrowed, ok := MatchFrequency(detail, monday)
	require.True(t, ok)
	require.Len(t, narrowed.Frequencies, 1)
	assert.Equal(t, models.Monday, narrowed.Frequencies[0].Day)
	assert.Equal(t, uint(10), narrowed.Frequencies[0].ID)
}

func TestMatchFrequency_NoMatch(t *testing.T) {
	detail := detailWithFrequencies(1,
		models.RideFrequency{ID: 10, Day: models.Tuesday},
		models.RideFrequency{ID: 11, Day: models.Friday},
	)

	_, ok := MatchFrequency(detail, monday)
	assert.False(t, ok)
}

func TestMatchFrequency_LowestIDWinsOnDuplicateDay(t *testing.T) {
	detail := detailWithFrequencies(1,
		models.RideFrequency{ID: 22, Day: models.Monday, ClosingTime: ms(16, 0)},
		models.RideFrequency{ID: 7, Day: models.Monday, ClosingTime: ms(15, 0)},
	)

	narrowed, ok := MatchFrequency(detail, monday)
	require.True(t, ok)
	require.Len(t, narrowed.Frequencies, 1)
	assert.Equal(t, uint(7), narrowed.Frequencies[0].ID)
}

func TestMatchFrequency_DoesNotMutateInput(t *testing.T) {
	detail := detailWithFrequencies(1,
		models.RideFrequency{ID: 10, Day: models.Monday},
		models.RideFrequency{ID: 11, Day: models.Wednesday},
	)

	_, ok := MatchFrequency(detail, monday)
	require.True(t, ok)
	assert.Len(t, detail.Frequencies, 2)
}

func TestMatchFrequency_Idempotent(t *testing.T) {
	detail := detailWithFrequencies(1,
		models.RideFrequency{ID: 10, Day: models.Monday},
		models.RideFrequency{ID: 11, Day: models.Wednesday},
	)

	once, ok := MatchFrequency(detail, monday)
	require.True(t, ok)
	twice, ok := MatchFrequency(once, monday)
	require.True(t, ok)
	assert.Equal(t, once, twice)
}

func TestOrderForSession_MorningKeepsEarlyDeadlines(t *testing.T) {
	details := []models.RideRequestDetail{
		detailWithFrequencies(1, models.RideFrequency{ID: 1, Day: models.Monday, SchoolDeadline: ms(9, 30)}),
		detailWithFrequencies(2, models.RideFrequency{ID: 2, Day: models.Monday, SchoolDeadline: ms(10, 0)}),
		detailWithFrequencies(3, models.RideFrequency{ID: 3, Day: models.Monday, SchoolDeadline: ms(10, 30)}),
		detailWithFrequencies(4, models.RideFrequency{ID: 4, Day: models.Monday}),
	}

	kept, err := OrderForSession(details, models.SessionMorning)
	require.NoError(t, err)
	require.Len(t, kept, 2)
	assert.Equal(t, uint(1), kept[0].ID)
	assert.Equal(t, uint(2), kept[1].ID)
}

func TestOrderForSession_AfternoonKeepsLateClosings(t *testing.T) {
	details := []models.RideRequestDetail{
		detailWithFrequencies(1, models.RideFrequency{ID: 1, Day: models.Monday, ClosingTime: ms(13, 0)}),
		detailWithFrequencies(2, models.RideFrequency{ID: 2, Day: models.Monday, ClosingTime: ms(14, 0)}),
		detailWithFrequencies(3, models.RideFrequency{ID: 3, Day: models.Monday, ClosingTime: ms(15, 30)}),
		detailWithFrequencies(4, models.RideFrequency{ID: 4, Day: models.Monday}),
	}

	kept, err := OrderForSession(details, models.SessionAfternoon)
	require.NoError(t, err)
	require.Len(t, kept, 2)
	assert.Equal(t, uint(2), kept[0].ID)
	assert.Equal(t, uint(3), kept[1].ID)
}

func TestOrderForSession_SortsByClosingThenDeadlineNullsLast(t *testing.T) {
	details := []models.RideRequestDetail{
		detailWithFrequencies(1, models.RideFrequency{ID: 1, Day: models.Monday, SchoolDeadline: ms(9, 0)}),
		detailWithFrequencies(2, models.RideFrequency{ID: 2, Day: models.Monday, ClosingTime: ms(15, 0), SchoolDeadline: ms(8, 0)}),
		detailWithFrequencies(3, models.RideFrequency{ID: 3, Day: models.Monday, ClosingTime: ms(14, 30), SchoolDeadline: ms(9, 30)}),
		detailWithFrequencies(4, models.RideFrequency{ID: 4, Day: models.Monday, SchoolDeadline: ms(8, 30)}),
	}

	kept, err := OrderForSession(details, models.SessionMorning)
	require.NoError(t, err)
	require.Len(t, kept, 4)

	// Closing time ascending first; nil closing times sort after all values,
	// then fall back to school deadline.
	assert.Equal(t, uint(3), kept[0].ID)
	assert.Equal(t, uint(2), kept[1].ID)
	assert.Equal(t, uint(4), kept[2].ID)
	assert.Equal(t, uint(1), kept[3].ID)
}

func TestOrderForSession_UnknownSessionKeepsNothing(t *testing.T) {
	details := []models.RideRequestDetail{
		detailWithFrequencies(1, models.RideFrequency{ID: 1, Day: models.Monday, SchoolDeadline: ms(9, 0), ClosingTime: ms(15, 0)}),
	}

	kept, err := OrderForSession(details, models.Session("EVENING"))
	require.NoError(t, err)
	assert.Empty(t, kept)
}

func TestOrderForSession_MissingFrequencyIsInvariantViolation(t *testing.T) {
	details := []models.RideRequestDetail{
		detailWithFrequencies(9),
	}

	_, err := OrderForSession(details, models.SessionMorning)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvariant))
}

func TestCompareNullsLast(t *testing.T) {
	a, b := int64(100), int64(200)
	assert.Equal(t, 0, compareNullsLast(nil, nil))
	assert.Equal(t, 1, compareNullsLast(nil, &a))
	assert.Equal(t, -1, compareNullsLast(&a, nil))
	assert.Equal(t, -1, compareNullsLast(&a, &b))
	assert.Equal(t, 1, compareNullsLast(&b, &a))
	assert.Equal(t, 0, compareNullsLast(&a, &a))
}

func plannedDetail(id uint, date time.Time) models.RideRequestDetail {
	return models.RideRequestDetail{
		RideRequest: models.RideRequest{ID: id},
		JourneyPlan: &models.JourneyPlan{ID: id, JourneyDate: date, RideRequestID: id},
	}
}

func TestPartitionJourneys(t *testing.T) {
	today := time.Date(2026, 9, 7, 13, 45, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)

	details := []models.RideRequestDetail{
		plannedDetail(1, yesterday),
		plannedDetail(2, today),
		plannedDetail(3, tomorrow),
		plannedDetail(4, yesterday.AddDate(0, 0, -7)),
	}

	journeys := PartitionJourneys(details, today)

	require.Len(t, journeys.PastJourneys, 2)
	assert.Equal(t, uint(1), journeys.PastJourneys[0].ID)
	assert.Equal(t, uint(4), journeys.PastJourneys[1].ID)

	require.Len(t, journeys.UpcomingJourneys, 2)
	assert.Equal(t, uint(2), journeys.UpcomingJourneys[0].ID)
	assert.Equal(t, uint(3), journeys.UpcomingJourneys[1].ID)
}

func TestPartitionJourneys_SameDayLaterHourIsUpcoming(t *testing.T) {
	today := time.Date(2026, 9, 7, 23, 0, 0, 0, time.UTC)
	earlier := time.Date(2026, 9, 7, 1, 0, 0, 0, time.UTC)

	journeys := PartitionJourneys([]models.RideRequestDetail{plannedDetail(1, earlier)}, today)

	assert.Empty(t, journeys.PastJourneys)
	require.Len(t, journeys.UpcomingJourneys, 1)
}

func TestPartitionJourneys_NoPlanCountsAsUpcoming(t *testing.T) {
	detail := models.RideRequestDetail{RideRequest: models.RideRequest{ID: 5}}

	journeys := PartitionJourneys([]models.RideRequestDetail{detail}, monday)

	assert.Empty(t, journeys.PastJourneys)
	require.Len(t, journeys.UpcomingJourneys, 1)
}
