package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightmarlin/birthdays"
	"github.com/nightmarlin/birthdays/internal/contacts"
	"github.com/nightmarlin/birthdays/internal/handlers"
)

type fakeStore struct {
	mux         sync.Mutex
	byName      map[contacts.Name]contacts.Contact
	invalidated []contacts.Name
	failWith    error
}

func newFakeStore(t *testing.T, seed map[contacts.Name]string) *fakeStore {
	t.Helper()
	s := &fakeStore{byName: map[contacts.Name]contacts.Contact{}}
	for n, d := range seed {
		b, err := contacts.ParseBirthday(d)
		require.NoError(t, err)
		s.byName[n] = contacts.Contact{ID: uuid.New(), Name: n, Birthday: b}
	}
	return s
}

func (s *fakeStore) get(_ context.Context, n contacts.Name) (contacts.Contact, error) {
	defer s.mux.Unlock()
	s.mux.Lock()
	if s.failWith != nil {
		return contacts.Contact{}, s.failWith
	}
	c, ok := s.byName[n]
	if !ok {
		return contacts.Contact{}, contacts.ErrNotFound
	}
	return c, nil
}

func (s *fakeStore) snapshot(context.Context) (contacts.Snapshot, error) {
	defer s.mux.Unlock()
	s.mux.Lock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	var snap contacts.Snapshot
	for _, c := range s.byName {
		snap = append(snap, c)
	}
	slices.SortFunc(snap, func(a, b contacts.Contact) int { return strings.Compare(a.Name.String(), b.Name.String()) })
	return snap, nil
}

func (s *fakeStore) put(_ context.Context, n contacts.Name, b contacts.Birthday) (contacts.Contact, error) {
	defer s.mux.Unlock()
	s.mux.Lock()
	c, ok := s.byName[n]
	if !ok {
		c = contacts.Contact{ID: uuid.New(), Name: n}
	}
	c.Birthday = b
	s.byName[n] = c
	return c, nil
}

func (s *fakeStore) del(_ context.Context, n contacts.Name) error {
	defer s.mux.Unlock()
	s.mux.Lock()
	if _, ok := s.byName[n]; !ok {
		return contacts.ErrNotFound
	}
	delete(s.byName, n)
	return nil
}

func (s *fakeStore) invalidate(n contacts.Name) {
	defer s.mux.Unlock()
	s.mux.Lock()
	s.invalidated = append(s.invalidated, n)
}

func newServer(t *testing.T, s *fakeStore) *httptest.Server {
	t.Helper()

	cal := handlers.Calendar{
		// 2024-01-10 is a Wednesday
		Now:            func() time.Time { return time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC) },
		WeekStart:      time.Sunday,
		Days:           birthdays.DaysUntil,
		ReminderHour:   10,
		ReminderMinute: 9,
	}

	mux := http.NewServeMux()
	mux.Handle(handlers.GetBirthdayHandler(cal, s.get))
	mux.Handle(handlers.PutBirthdayHandler(cal, s.put, s.invalidate))
	mux.Handle(handlers.DeleteBirthdayHandler(s.del, s.invalidate))
	mux.Handle(handlers.UpcomingHandler(cal, s.snapshot, handlers.Limits{Default: 3, Max: 4}))
	mux.Handle(handlers.GreetingHandler(cal, s.get))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type birthday struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Birthday  string `json:"birthday"`
	Next      string `json:"next"`
	Kind      string `json:"kind"`
	Label     string `json:"label"`
	DaysUntil int    `json:"days_until"`
	Turning   int    `json:"turning"`
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequestWithContext(t.Context(), method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

var seed = map[contacts.Name]string{
	"lewis":   "2002-01-22",
	"noah":    "1999-10-13",
	"finn":    "2000-08-11",
	"sabrina": "2002-06-06",
	"leanne":  "1995-01-12",
	"today":   "1990-01-10",
}

func TestGetBirthdayHandler(t *testing.T) {
	t.Parallel()

	srv := newServer(t, newFakeStore(t, seed))

	t.Run(
		"describes the next occurrence",
		func(t *testing.T) {
			t.Parallel()

			resp, body := do(t, http.MethodGet, srv.URL+"/birthdays/Leanne", "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			var got birthday
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, "leanne", got.Name)
			assert.Equal(t, "1995-01-12", got.Birthday)
			assert.Equal(t, "2024-01-12", got.Next)
			assert.Equal(t, "this_week", got.Kind)
			assert.Equal(t, "This Friday", got.Label)
			assert.Equal(t, 2, got.DaysUntil)
			assert.Equal(t, 29, got.Turning)
			assert.NotEmpty(t, got.ID)
		},
	)

	t.Run(
		"today can be pinned",
		func(t *testing.T) {
			t.Parallel()

			resp, body := do(t, http.MethodGet, srv.URL+"/birthdays/finn?today=2024-08-11", "")
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var got birthday
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, "Today", got.Label)
			assert.Equal(t, 0, got.DaysUntil)
			assert.Equal(t, 24, got.Turning)
		},
	)

	t.Run(
		"unknown names are not found",
		func(t *testing.T) {
			t.Parallel()

			resp, _ := do(t, http.MethodGet, srv.URL+"/birthdays/nobody", "")
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		},
	)

	t.Run(
		"malformed today is a bad request",
		func(t *testing.T) {
			t.Parallel()

			resp, _ := do(t, http.MethodGet, srv.URL+"/birthdays/finn?today=tomorrow", "")
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		},
	)
}

func TestGetBirthdayHandler_storeFailure(t *testing.T) {
	t.Parallel()

	s := newFakeStore(t, seed)
	s.failWith = errors.New("connection reset")
	srv := newServer(t, s)

	resp, body := do(t, http.MethodGet, srv.URL+"/birthdays/finn", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), "connection reset")
}

func TestUpcomingHandler(t *testing.T) {
	t.Parallel()

	srv := newServer(t, newFakeStore(t, seed))

	decode := func(t *testing.T, body []byte) []string {
		t.Helper()
		var got struct {
			Today     string     `json:"today"`
			Birthdays []birthday `json:"birthdays"`
		}
		require.NoError(t, json.Unmarshal(body, &got))
		names := make([]string, len(got.Birthdays))
		for i, b := range got.Birthdays {
			names[i] = b.Name
		}
		return names
	}

	t.Run(
		"uses the default limit",
		func(t *testing.T) {
			t.Parallel()

			resp, body := do(t, http.MethodGet, srv.URL+"/birthdays", "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, []string{"today", "leanne", "lewis"}, decode(t, body))
		},
	)

	t.Run(
		"clamps the limit to the maximum",
		func(t *testing.T) {
			t.Parallel()

			resp, body := do(t, http.MethodGet, srv.URL+"/birthdays?limit=100", "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, []string{"today", "leanne", "lewis", "sabrina"}, decode(t, body))
		},
	)

	t.Run(
		"rejects a non-positive limit",
		func(t *testing.T) {
			t.Parallel()

			resp, _ := do(t, http.MethodGet, srv.URL+"/birthdays?limit=0", "")
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		},
	)

	t.Run(
		"orders relative to a pinned today",
		func(t *testing.T) {
			t.Parallel()

			resp, body := do(t, http.MethodGet, srv.URL+"/birthdays?today=2024-09-01&limit=2", "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, []string{"noah", "today"}, decode(t, body))
		},
	)
}

func TestPutAndDeleteBirthdayHandlers(t *testing.T) {
	t.Parallel()

	s := newFakeStore(t, seed)
	srv := newServer(t, s)

	resp, body := do(t, http.MethodPut, srv.URL+"/birthdays/Josh", `{"birthday":"2001-01-11"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got birthday
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "josh", got.Name)
	assert.Equal(t, "Tomorrow", got.Label)

	resp, _ = do(t, http.MethodGet, srv.URL+"/birthdays/josh", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, http.MethodPut, srv.URL+"/birthdays/josh", `{"birthday":"11/01/2001"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPut, srv.URL+"/birthdays/josh", `{"birthday":"2030-01-01"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodDelete, srv.URL+"/birthdays/josh", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, http.MethodDelete, srv.URL+"/birthdays/josh", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	s.mux.Lock()
	defer s.mux.Unlock()
	assert.Equal(t, []contacts.Name{"josh", "josh", "josh"}, s.invalidated)
}

func TestGreetingHandler(t *testing.T) {
	t.Parallel()

	srv := newServer(t, newFakeStore(t, seed))

	resp, body := do(t, http.MethodGet, srv.URL+"/birthdays/today/greeting?memory=the%20lake", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Headline struct {
			Title    string `json:"title"`
			Subtitle string `json:"subtitle"`
		} `json:"headline"`
		Reminder struct {
			Title string    `json:"title"`
			At    time.Time `json:"at"`
		} `json:"reminder"`
		Wishes []string `json:"wishes"`
	}
	require.NoError(t, json.Unmarshal(body, &got))

	assert.Equal(t, "Birthday's Today!", got.Headline.Title)
	assert.Equal(t, "It's today's Birthday today! 🎂", got.Reminder.Title)
	// the clock reads 12:00, so today's 10:09 reminder has already gone
	assert.True(t, got.Reminder.At.Equal(time.Date(2025, time.January, 10, 10, 9, 0, 0, time.UTC)))
	require.Len(t, got.Wishes, 2)
	assert.Contains(t, got.Wishes[0], "turning 34")
	assert.Contains(t, got.Wishes[0], "the lake")
}
