package service

import (
	"context"
	"testing"
	"time"

	"meetsync/core/constants"
	"meetsync/core/errors"
	meetingEntity "meetsync/modules/meeting/entity"
	"meetsync/modules/scheduling/entity"
	"meetsync/modules/scheduling/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMeetings struct {
	mc           *entity.MeetingContext
	participants []meetingEntity.Participant
	err          *errors.AppError
}

func (f *fakeMeetings) ContextForMeeting(ctx context.Context, meetingID uuid.UUID) (*entity.MeetingContext, []meetingEntity.Participant, *errors.AppError) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.mc, f.participants, nil
}

type fakeFreeWindows struct {
	windows map[uuid.UUID][]entity.Interval
}

func (f *fakeFreeWindows) FreeWindowsForMeeting(ctx context.Context, meetingID uuid.UUID) (map[uuid.UUID][]entity.Interval, *errors.AppError) {
	return f.windows, nil
}

type fakeBusy struct {
	busy   map[uuid.UUID][]entity.Interval
	called bool
}

func (f *fakeBusy) FetchBusyForParticipants(ctx context.Context, userIDs []uuid.UUID, window entity.Interval) (map[uuid.UUID][]entity.Interval, *errors.AppError) {
	f.called = true
	return f.busy, nil
}

type fakeRepo struct {
	outcome entity.Outcome
	rows    []entity.MeetingSuggestion
	run     *repository.SuggestionRun
	saved   bool
}

func (f *fakeRepo) ReplaceSuggestions(ctx context.Context, meetingID uuid.UUID, outcome entity.Outcome, suggestions []entity.MeetingSuggestion) error {
	f.outcome = outcome
	f.rows = suggestions
	f.saved = true
	return nil
}

func (f *fakeRepo) GetByMeetingID(ctx context.Context, meetingID uuid.UUID) (*repository.SuggestionRun, []entity.MeetingSuggestion, error) {
	return f.run, f.rows, nil
}

func (f *fakeRepo) DeleteByMeetingID(ctx context.Context, meetingID uuid.UUID) error {
	return nil
}

type fakeCache struct {
	locked map[string]bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{locked: map[string]bool{}}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error)                  { return "", nil }
func (f *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error { return nil }
func (f *fakeCache) Delete(ctx context.Context, key string) error                        { return nil }

func (f *fakeCache) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if f.locked[key] {
		return false, nil
	}
	f.locked[key] = true
	return true, nil
}

func (f *fakeCache) ReleaseLock(ctx context.Context, key string) error {
	delete(f.locked, key)
	return nil
}

func testContext(meetingID uuid.UUID, total int) *entity.MeetingContext {
	day := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	return &entity.MeetingContext{
		MeetingID:          meetingID,
		MeetingType:        constants.MeetingTypeGeneral,
		DurationMinutes:    60,
		WindowStart:        day,
		WindowEnd:          day.AddDate(0, 0, 1),
		WorkingBounds:      entity.WorkingBounds{StartMinute: 9 * 60, EndMinute: 17 * 60},
		GranularityMinutes: 30,
		SuggestionCount:    3,
		TotalParticipants:  total,
	}
}

func TestRegeneratePersistsRankedSet(t *testing.T) {
	meetingID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()
	day := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	meetings := &fakeMeetings{
		mc: testContext(meetingID, 2),
		participants: []meetingEntity.Participant{
			{UserID: alice, MeetingID: meetingID},
			{UserID: bob, MeetingID: meetingID},
		},
	}
	freeWindows := &fakeFreeWindows{
		windows: map[uuid.UUID][]entity.Interval{
			alice: {{Start: day.Add(9 * time.Hour), End: day.Add(17 * time.Hour)}},
			bob:   {{Start: day.Add(10 * time.Hour), End: day.Add(12 * time.Hour)}},
		},
	}
	repo := &fakeRepo{}

	svc := NewSchedulingService(repo, meetings, freeWindows, &fakeBusy{}, newFakeCache(), nil)

	appErr := svc.Regenerate(context.Background(), meetingID)
	require.Nil(t, appErr)
	require.True(t, repo.saved)
	assert.Equal(t, entity.OutcomeOK, repo.outcome)
	require.NotEmpty(t, repo.rows)

	for i, row := range repo.rows {
		assert.Equal(t, i+1, row.Rank)
		assert.Equal(t, meetingID, row.MeetingID)
		assert.Equal(t, 2, row.TotalParticipants)
		assert.Equal(t, 60*time.Minute, row.EndTime.Sub(row.StartTime))
	}

	// Both free 10:00-12:00, so the top slot has full coverage.
	assert.Equal(t, 2, repo.rows[0].AvailableCount)
}

func TestRegenerateNoParticipantsOutcome(t *testing.T) {
	meetingID := uuid.New()
	meetings := &fakeMeetings{mc: testContext(meetingID, 0)}
	repo := &fakeRepo{}

	svc := NewSchedulingService(repo, meetings, &fakeFreeWindows{}, &fakeBusy{}, newFakeCache(), nil)

	appErr := svc.Regenerate(context.Background(), meetingID)
	require.Nil(t, appErr)
	assert.Equal(t, entity.OutcomeNoParticipants, repo.outcome)
	assert.Empty(t, repo.rows)
}

func TestRegenerateLockContention(t *testing.T) {
	meetingID := uuid.New()
	meetings := &fakeMeetings{mc: testContext(meetingID, 1)}
	c := newFakeCache()

	held, err := c.AcquireLock(context.Background(), regenerationLockKey(meetingID), time.Minute)
	require.NoError(t, err)
	require.True(t, held)

	svc := NewSchedulingService(&fakeRepo{}, meetings, &fakeFreeWindows{}, &fakeBusy{}, c, nil)

	appErr := svc.Regenerate(context.Background(), meetingID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrLockContended, appErr.Code)
}

func TestRegenerateReleasesLock(t *testing.T) {
	meetingID := uuid.New()
	meetings := &fakeMeetings{mc: testContext(meetingID, 0)}
	c := newFakeCache()

	svc := NewSchedulingService(&fakeRepo{}, meetings, &fakeFreeWindows{}, &fakeBusy{}, c, nil)

	appErr := svc.Regenerate(context.Background(), meetingID)
	require.Nil(t, appErr)
	assert.False(t, c.locked[regenerationLockKey(meetingID)])
}

func TestRegenerateMeetingNotFound(t *testing.T) {
	meetings := &fakeMeetings{err: errors.NewAppError(errors.ErrNotFound, "Meeting not found", nil)}

	svc := NewSchedulingService(&fakeRepo{}, meetings, &fakeFreeWindows{}, &fakeBusy{}, newFakeCache(), nil)

	appErr := svc.Regenerate(context.Background(), uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestRegenerateSkipsBusyFetchWithoutConnections(t *testing.T) {
	meetingID := uuid.New()
	alice := uuid.New()

	meetings := &fakeMeetings{
		mc:           testContext(meetingID, 1),
		participants: []meetingEntity.Participant{{UserID: alice, MeetingID: meetingID}},
	}
	busy := &fakeBusy{}

	svc := NewSchedulingService(&fakeRepo{}, meetings, &fakeFreeWindows{}, busy, newFakeCache(), nil)

	appErr := svc.Regenerate(context.Background(), meetingID)
	require.Nil(t, appErr)
	assert.False(t, busy.called)
}

func TestRegenerateIntersectsManualAndCalendar(t *testing.T) {
	meetingID := uuid.New()
	alice := uuid.New()
	day := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	meetings := &fakeMeetings{
		mc: testContext(meetingID, 1),
		participants: []meetingEntity.Participant{
			{UserID: alice, MeetingID: meetingID, HasCalendarConnected: true},
		},
	}
	freeWindows := &fakeFreeWindows{
		windows: map[uuid.UUID][]entity.Interval{
			alice: {{Start: day.Add(9 * time.Hour), End: day.Add(17 * time.Hour)}},
		},
	}
	// Calendar blocks the morning, so only the afternoon survives.
	busy := &fakeBusy{
		busy: map[uuid.UUID][]entity.Interval{
			alice: {{Start: day.Add(9 * time.Hour), End: day.Add(13 * time.Hour)}},
		},
	}
	repo := &fakeRepo{}

	svc := NewSchedulingService(repo, meetings, freeWindows, busy, newFakeCache(), nil)

	appErr := svc.Regenerate(context.Background(), meetingID)
	require.Nil(t, appErr)
	require.True(t, busy.called)
	assert.Equal(t, entity.OutcomeOK, repo.outcome)
	require.NotEmpty(t, repo.rows)

	for _, row := range repo.rows {
		assert.False(t, row.StartTime.Before(day.Add(13*time.Hour)),
			"slot %s starts inside the busy morning", row.StartTime)
	}
}

func TestRegenerateFailedCalendarFetchCountsUnavailable(t *testing.T) {
	meetingID := uuid.New()
	alice := uuid.New()
	day := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	meetings := &fakeMeetings{
		mc: testContext(meetingID, 1),
		participants: []meetingEntity.Participant{
			{UserID: alice, MeetingID: meetingID, HasCalendarConnected: true},
		},
	}
	freeWindows := &fakeFreeWindows{
		windows: map[uuid.UUID][]entity.Interval{
			alice: {{Start: day.Add(10 * time.Hour), End: day.Add(12 * time.Hour)}},
		},
	}
	// The fetch yields no entry for alice even though she is connected.
	// Her calendar source must still join the intersection, so the manual
	// window alone cannot make her available.
	busy := &fakeBusy{busy: map[uuid.UUID][]entity.Interval{}}
	repo := &fakeRepo{}

	svc := NewSchedulingService(repo, meetings, freeWindows, busy, newFakeCache(), nil)

	appErr := svc.Regenerate(context.Background(), meetingID)
	require.Nil(t, appErr)
	require.True(t, busy.called)
	require.True(t, repo.saved)
	assert.Equal(t, entity.OutcomeNoSlots, repo.outcome)
	assert.Empty(t, repo.rows)
}

func TestGetSuggestionsMapsRows(t *testing.T) {
	meetingID := uuid.New()
	generatedAt := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	day := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	repo := &fakeRepo{
		run: &repository.SuggestionRun{
			MeetingID:   meetingID,
			Outcome:     string(entity.OutcomeOK),
			GeneratedAt: generatedAt,
		},
		rows: []entity.MeetingSuggestion{
			{
				MeetingID:         meetingID,
				Rank:              1,
				StartTime:         day.Add(10 * time.Hour),
				EndTime:           day.Add(11 * time.Hour),
				Score:             85,
				AvailableCount:    2,
				TotalParticipants: 2,
				Rationale:         "2 of 2 participants available",
			},
		},
	}
	meetings := &fakeMeetings{mc: testContext(meetingID, 2)}

	svc := NewSchedulingService(repo, meetings, &fakeFreeWindows{}, &fakeBusy{}, newFakeCache(), nil)

	resp, appErr := svc.GetSuggestions(context.Background(), meetingID)
	require.Nil(t, appErr)
	assert.Equal(t, string(entity.OutcomeOK), resp.Outcome)
	require.NotNil(t, resp.GeneratedAt)
	assert.Equal(t, generatedAt, *resp.GeneratedAt)
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, 85, resp.Suggestions[0].Score)
	assert.Equal(t, "2 of 2 participants available", resp.Suggestions[0].Rationale)
}

func TestGetSuggestionsBeforeFirstRun(t *testing.T) {
	meetingID := uuid.New()
	meetings := &fakeMeetings{mc: testContext(meetingID, 2)}

	svc := NewSchedulingService(&fakeRepo{}, meetings, &fakeFreeWindows{}, &fakeBusy{}, newFakeCache(), nil)

	resp, appErr := svc.GetSuggestions(context.Background(), meetingID)
	require.Nil(t, appErr)
	assert.Empty(t, resp.Outcome)
	assert.Nil(t, resp.GeneratedAt)
	assert.Empty(t, resp.Suggestions)
}
