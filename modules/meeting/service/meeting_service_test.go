package service

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"meetsync/core/config"
	"meetsync/core/constants"
	"meetsync/core/errors"
	"meetsync/core/params"
	"meetsync/modules/meeting/dto"
	"meetsync/modules/meeting/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if _, err := config.Load(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeMeetingRepo struct {
	meetings        map[uuid.UUID]*entity.Meeting
	participants    map[uuid.UUID][]entity.Participant
	participantsErr error
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{
		meetings:     map[uuid.UUID]*entity.Meeting{},
		participants: map[uuid.UUID][]entity.Participant{},
	}
}

func (f *fakeMeetingRepo) Create(ctx context.Context, m *entity.Meeting) (*entity.Meeting, error) {
	created := *m
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.meetings[created.ID] = &created
	return &created, nil
}

func (f *fakeMeetingRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Meeting, error) {
	return f.meetings[id], nil
}

func (f *fakeMeetingRepo) GetByShareSlug(ctx context.Context, slug string) (*entity.Meeting, error) {
	for _, m := range f.meetings {
		if m.ShareSlug == slug {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMeetingRepo) ListByHostID(ctx context.Context, hostID uuid.UUID, qp *params.QueryParams) ([]entity.Meeting, int, error) {
	var out []entity.Meeting
	for _, m := range f.meetings {
		if m.HostID == hostID {
			out = append(out, *m)
		}
	}
	return out, len(out), nil
}

func (f *fakeMeetingRepo) Update(ctx context.Context, m *entity.Meeting) error {
	f.meetings[m.ID] = m
	return nil
}

func (f *fakeMeetingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.MeetingStatus) error {
	f.meetings[id].Status = status
	return nil
}

func (f *fakeMeetingRepo) SetSelectedSlot(ctx context.Context, id uuid.UUID, start, end time.Time) error {
	m := f.meetings[id]
	m.SelectedStart = &start
	m.SelectedEnd = &end
	m.Status = entity.MeetingStatusScheduled
	return nil
}

func (f *fakeMeetingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.meetings, id)
	return nil
}

func (f *fakeMeetingRepo) AddParticipant(ctx context.Context, p *entity.Participant) error {
	f.participants[p.MeetingID] = append(f.participants[p.MeetingID], *p)
	return nil
}

func (f *fakeMeetingRepo) GetParticipants(ctx context.Context, meetingID uuid.UUID) ([]entity.Participant, error) {
	if f.participantsErr != nil {
		return nil, f.participantsErr
	}
	return f.participants[meetingID], nil
}

func (f *fakeMeetingRepo) UpdateParticipantCalendarStatus(ctx context.Context, userID, meetingID uuid.UUID, connected bool) error {
	return nil
}

func (f *fakeMeetingRepo) RemoveParticipant(ctx context.Context, userID, meetingID uuid.UUID) error {
	return nil
}

func validCreateRequest() *dto.CreateMeetingRequest {
	return &dto.CreateMeetingRequest{
		Title:           "Sprint Planning",
		DurationMinutes: 60,
		WindowStart:     "2026-03-02",
		WindowEnd:       "2026-03-06",
		PreferredDays:   []string{"tuesday", "wednesday"},
		PreferredBands: []dto.TimeBandInput{
			{Label: "afternoon", Start: "13:00", End: "16:00"},
		},
	}
}

func TestCreateMeeting(t *testing.T) {
	svc := NewMeetingService(newFakeMeetingRepo())
	hostID := uuid.New()

	resp, appErr := svc.CreateMeeting(context.Background(), hostID, validCreateRequest())
	require.Nil(t, appErr)

	assert.Equal(t, hostID, resp.HostID)
	assert.Equal(t, constants.MeetingTypeGeneral, resp.MeetingType)
	assert.Equal(t, string(entity.MeetingStatusCollecting), resp.Status)
	assert.Equal(t, "2026-03-02", resp.WindowStart)
	assert.Equal(t, "2026-03-06", resp.WindowEnd)
	assert.Contains(t, resp.ShareSlug, "sprint-planning-")
	assert.Equal(t, []string{"tuesday", "wednesday"}, resp.PreferredDays)
	require.Len(t, resp.PreferredBands, 1)
	assert.Equal(t, 13*60, resp.PreferredBands[0].StartMinute)
	assert.Equal(t, 16*60, resp.PreferredBands[0].EndMinute)
}

func TestCreateMeetingValidation(t *testing.T) {
	svc := NewMeetingService(newFakeMeetingRepo())
	hostID := uuid.New()

	cases := []struct {
		name   string
		mutate func(*dto.CreateMeetingRequest)
	}{
		{"zero duration", func(r *dto.CreateMeetingRequest) { r.DurationMinutes = 0 }},
		{"negative duration", func(r *dto.CreateMeetingRequest) { r.DurationMinutes = -30 }},
		{"duration over a day", func(r *dto.CreateMeetingRequest) { r.DurationMinutes = 25 * 60 }},
		{"inverted window", func(r *dto.CreateMeetingRequest) { r.WindowStart = "2026-03-06"; r.WindowEnd = "2026-03-02" }},
		{"bad date format", func(r *dto.CreateMeetingRequest) { r.WindowStart = "03/02/2026" }},
		{"unknown weekday", func(r *dto.CreateMeetingRequest) { r.PreferredDays = []string{"someday"} }},
		{"inverted band", func(r *dto.CreateMeetingRequest) {
			r.PreferredBands = []dto.TimeBandInput{{Label: "x", Start: "16:00", End: "13:00"}}
		}},
		{"bad clock format", func(r *dto.CreateMeetingRequest) {
			r.PreferredBands = []dto.TimeBandInput{{Label: "x", Start: "1pm", End: "4pm"}}
		}},
		{"unknown meeting type", func(r *dto.CreateMeetingRequest) { r.MeetingType = "party" }},
		{"unknown timezone", func(r *dto.CreateMeetingRequest) { r.Timezone = "Mars/Olympus" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(req)

			_, appErr := svc.CreateMeeting(context.Background(), hostID, req)
			require.NotNil(t, appErr)
			assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
		})
	}
}

func TestContextForMeeting(t *testing.T) {
	repo := newFakeMeetingRepo()
	svc := NewMeetingService(repo)
	hostID := uuid.New()

	created, appErr := svc.CreateMeeting(context.Background(), hostID, validCreateRequest())
	require.Nil(t, appErr)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.AddParticipant(context.Background(), &entity.Participant{
			UserID:    uuid.New(),
			MeetingID: created.ID,
		}))
	}

	mc, participants, appErr := svc.ContextForMeeting(context.Background(), created.ID)
	require.Nil(t, appErr)
	require.Len(t, participants, 3)

	cfg := config.Get().Scheduling
	assert.Equal(t, 3, mc.TotalParticipants)
	assert.Equal(t, cfg.GranularityMinutes, mc.GranularityMinutes)
	assert.Equal(t, cfg.SuggestionCount, mc.SuggestionCount)
	assert.Equal(t, cfg.WorkingBoundsStart, mc.WorkingBounds.StartMinute)
	assert.Equal(t, cfg.WorkingBoundsEnd, mc.WorkingBounds.EndMinute)

	// The stored inclusive end date becomes a half-open bound one day later.
	assert.Equal(t, 5*24*time.Hour, mc.WindowEnd.Sub(mc.WindowStart))

	assert.Equal(t, []time.Weekday{time.Tuesday, time.Wednesday}, mc.PreferredDays)
	require.Len(t, mc.PreferredBands, 1)
	assert.Equal(t, "afternoon", mc.PreferredBands[0].Label)
}

func TestContextForMeetingNotFound(t *testing.T) {
	svc := NewMeetingService(newFakeMeetingRepo())

	_, _, appErr := svc.ContextForMeeting(context.Background(), uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestSelectSlotHostOnly(t *testing.T) {
	svc := NewMeetingService(newFakeMeetingRepo())
	hostID := uuid.New()

	created, appErr := svc.CreateMeeting(context.Background(), hostID, validCreateRequest())
	require.Nil(t, appErr)

	start := time.Date(2026, 3, 3, 13, 30, 0, 0, time.UTC)
	req := &dto.SelectSlotRequest{StartTime: start, EndTime: start.Add(time.Hour)}

	_, appErr = svc.SelectSlot(context.Background(), created.ID, uuid.New(), req)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	resp, appErr := svc.SelectSlot(context.Background(), created.ID, hostID, req)
	require.Nil(t, appErr)
	assert.Equal(t, string(entity.MeetingStatusScheduled), resp.Status)
	require.NotNil(t, resp.SelectedStart)
	assert.Equal(t, start, *resp.SelectedStart)
}

func TestSelectSlotInvertedTimes(t *testing.T) {
	svc := NewMeetingService(newFakeMeetingRepo())
	hostID := uuid.New()

	created, appErr := svc.CreateMeeting(context.Background(), hostID, validCreateRequest())
	require.Nil(t, appErr)

	start := time.Date(2026, 3, 3, 13, 30, 0, 0, time.UTC)
	_, appErr = svc.SelectSlot(context.Background(), created.ID, hostID, &dto.SelectSlotRequest{
		StartTime: start,
		EndTime:   start.Add(-time.Hour),
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestJoinMeetingViaShareSlug(t *testing.T) {
	svc := NewMeetingService(newFakeMeetingRepo())
	hostID := uuid.New()

	created, appErr := svc.CreateMeeting(context.Background(), hostID, validCreateRequest())
	require.Nil(t, appErr)

	userID := uuid.New()
	resp, appErr := svc.JoinMeeting(context.Background(), created.ShareSlug, userID, &dto.JoinMeetingRequest{
		DisplayName: "Alice",
	})
	require.Nil(t, appErr)
	require.Len(t, resp.Participants, 1)
	assert.Equal(t, userID, resp.Participants[0].UserID)
	assert.Equal(t, "Alice", resp.Participants[0].DisplayName)
}

func TestJoinMeetingUnknownSlug(t *testing.T) {
	svc := NewMeetingService(newFakeMeetingRepo())

	_, appErr := svc.JoinMeeting(context.Background(), "nope", uuid.New(), &dto.JoinMeetingRequest{DisplayName: "x"})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestJoinScheduledMeetingRejected(t *testing.T) {
	repo := newFakeMeetingRepo()
	svc := NewMeetingService(repo)
	hostID := uuid.New()

	created, appErr := svc.CreateMeeting(context.Background(), hostID, validCreateRequest())
	require.Nil(t, appErr)
	repo.meetings[created.ID].Status = entity.MeetingStatusScheduled

	_, appErr = svc.JoinMeeting(context.Background(), created.ShareSlug, uuid.New(), &dto.JoinMeetingRequest{DisplayName: "x"})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestGetMeetingRosterLoadFailure(t *testing.T) {
	repo := newFakeMeetingRepo()
	svc := NewMeetingService(repo)
	hostID := uuid.New()

	created, appErr := svc.CreateMeeting(context.Background(), hostID, validCreateRequest())
	require.Nil(t, appErr)

	// A failed roster query must surface as an error, not as an empty roster.
	repo.participantsErr = fmt.Errorf("connection reset")

	_, appErr = svc.GetMeetingByID(context.Background(), created.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInternalServer, appErr.Code)

	_, appErr = svc.GetMeetingByShareSlug(context.Background(), created.ShareSlug)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInternalServer, appErr.Code)

	_, appErr = svc.SelectSlot(context.Background(), created.ID, hostID, &dto.SelectSlotRequest{
		StartTime: time.Date(2026, 3, 3, 13, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 3, 14, 0, 0, 0, time.UTC),
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInternalServer, appErr.Code)
}
