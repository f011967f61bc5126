// Package handlers exposes the services as a JSON API plus the printable
// documents.
package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/diewo77/go-demenagement/httpx"
	"github.com/diewo77/go-demenagement/internal/finance"
	"github.com/diewo77/go-demenagement/internal/logging"
	"github.com/diewo77/go-demenagement/internal/services"
	"github.com/diewo77/go-demenagement/validation"
	"github.com/diewo77/go-demenagement/view"
)

// pathID reads the {id} path value. It writes a 400 and returns false when the
// value is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return 0, false
	}
	return uint(id), true
}

// queryID reads an optional id filter from the query string.
func queryID(r *http.Request, key string, v validation.Violations) uint {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		v[key] = "invalid_value"
		return 0
	}
	return uint(id)
}

// dateRange reads the from and to query parameters as an inclusive range of
// days. Either side may be omitted.
func dateRange(r *http.Request, loc *time.Location) (finance.DateRange, error) {
	rng := finance.DateRange{Location: loc}
	v := validation.Violations{}
	q := r.URL.Query()
	if raw := q.Get("from"); raw != "" {
		t, err := services.ParseDate(raw, loc)
		if err != nil {
			v["from"] = "invalid_date"
		}
		rng.Start = t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := services.ParseDate(raw, loc)
		if err != nil {
			v["to"] = "invalid_date"
		}
		rng.End = t
	}
	if v.Empty() && !rng.Start.IsZero() && !rng.End.IsZero() && rng.End.Before(rng.Start) {
		v["to"] = "before_from"
	}
	return rng, httpx.Invalid(v)
}

// decode reads a JSON body, answering 400 on malformed input.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(w, r, dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.JSONError(w, http.StatusRequestEntityTooLarge, "body_too_large", nil)
			return false
		}
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

// writeList answers a list read. Stale lists are also flagged in a header.
// markStale flags a response served from a fallback copy.
func markStale(w http.ResponseWriter, stale bool) {
	if stale {
		w.Header().Set("X-Data-Stale", "1")
	}
}

func writeList[T any](w http.ResponseWriter, res services.ListResult[T]) {
	markStale(w, res.Stale)
	httpx.JSON(w, http.StatusOK, res)
}

// attachment sets the headers of a downloaded file.
func attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
}

// renderHTML renders a print document into a buffer first so a template
// failure still yields a clean error response.
func renderHTML(w http.ResponseWriter, name string, data map[string]any, funcName string) {
	var buf bytes.Buffer
	if err := view.Render(&buf, name, data); err != nil {
		logging.LogError(logging.Get(), "handlers", funcName, "render "+name, nil, err)
		httpx.JSONError(w, http.StatusInternalServerError, "render_failed", nil)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
