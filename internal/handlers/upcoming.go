package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/nightmarlin/birthdays/internal/contacts"
	"github.com/nightmarlin/birthdays/internal/greeting"
)

// Limits bound the length of upcoming lists.
type Limits struct {
	Default int
	Max     int
}

type upcomingResponse struct {
	Today     string             `json:"today"`
	Birthdays []birthdayResponse `json:"birthdays"`
}

// UpcomingHandler lists the soonest birthdays. ?limit is clamped to
// limits.Max.
func UpcomingHandler(cal Calendar, snapshot SnapshotGetter, limits Limits) (string, http.Handler) {
	return "GET /birthdays",
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				ctx := r.Context()
				today, err := cal.today(r)
				if err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}

				limit := limits.Default
				if s := r.URL.Query().Get("limit"); s != "" {
					if limit, err = strconv.Atoi(s); err != nil || limit < 1 {
						http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
						return
					}
				}
				limit = min(limit, limits.Max)

				snap, err := snapshot(ctx)
				if err != nil {
					writeStoreError(w, r, "", "list birthdays", err)
					return
				}

				resp := upcomingResponse{
					Today:     today.Format(contacts.DateLayout),
					Birthdays: []birthdayResponse{},
				}
				for _, c := range snap.Upcoming(today, limit, cal.days()) {
					resp.Birthdays = append(resp.Birthdays, cal.describe(c, today))
				}
				writeJSON(ctx, w, http.StatusOK, resp)
			},
		)
}

type greetingResponse struct {
	Headline greeting.Headline `json:"headline"`
	Reminder greeting.Reminder `json:"reminder"`
	Wishes   []string          `json:"wishes"`
}

// GreetingHandler suggests what to say. ?memory fills in the shared memory
// in the wishes.
func GreetingHandler(cal Calendar, getContact ContactGetter) (string, http.Handler) {
	return fmt.Sprintf("GET /birthdays/{%s}/greeting", namePathValue),
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				ctx := r.Context()
				n, err := pathName(r)
				if err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				today, err := cal.today(r)
				if err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}

				c, err := getContact(ctx, n)
				if err != nil {
					writeStoreError(w, r, n, "fetch birthday", err)
					return
				}

				d := cal.describe(c, today)
				memory := r.URL.Query().Get("memory")
				if memory == "" {
					memory = "that one time"
				}

				writeJSON(ctx, w, http.StatusOK, greetingResponse{
					Headline: greeting.NewHeadline(c.Name, cal.classify(c, today)),
					Reminder: greeting.NewReminder(c, today, cal.ReminderHour, cal.ReminderMinute),
					Wishes:   greeting.Wishes(greeting.Answers{Name: d.Name, Turning: d.Turning, Memory: memory}),
				})
			},
		)
}
