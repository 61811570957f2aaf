package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nightmarlin/birthdays/internal/contacts"
)

func GetBirthdayHandler(cal Calendar, getContact ContactGetter) (string, http.Handler) {
	return fmt.Sprintf("GET /birthdays/{%s}", namePathValue),
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

				writeJSON(ctx, w, http.StatusOK, cal.describe(c, today))
			},
		)
}

type putBirthdayRequest struct {
	Birthday string `json:"birthday"`
}

// PutBirthdayHandler stores a birthday and then calls invalidate so cached
// lookups see the change.
func PutBirthdayHandler(cal Calendar, put BirthdayPutter, invalidate func(contacts.Name)) (string, http.Handler) {
	return fmt.Sprintf("PUT /birthdays/{%s}", namePathValue),
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

				var req putBirthdayRequest
				if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&req); err != nil {
					http.Error(w, fmt.Sprintf("decoding request body: %v", err), http.StatusBadRequest)
					return
				}
				b, err := contacts.ParseBirthday(req.Birthday)
				if err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				if b.String() > today.Format(contacts.DateLayout) {
					http.Error(w, "birthday must not be in the future", http.StatusBadRequest)
					return
				}

				c, err := put(ctx, n, b)
				if err != nil {
					writeStoreError(w, r, n, "store birthday", err)
					return
				}
				invalidate(n)

				writeJSON(ctx, w, http.StatusOK, cal.describe(c, today))
			},
		)
}

func DeleteBirthdayHandler(del BirthdayDeleter, invalidate func(contacts.Name)) (string, http.Handler) {
	return fmt.Sprintf("DELETE /birthdays/{%s}", namePathValue),
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				n, err := pathName(r)
				if err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}

				// drop the cached entry whether or not the delete worked
				err = del(r.Context(), n)
				invalidate(n)
				if err != nil {
					writeStoreError(w, r, n, "delete birthday", err)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			},
		)
}
