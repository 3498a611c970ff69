package controller

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Sriverasc/AireAPI/internal/temporal"
)

// badRequestError marks a request that is malformed before any parsing of
// temporal values, e.g. a missing parameter or an undecodable body.
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

func required(q url.Values, names ...string) error {
	for _, name := range names {
		if q.Get(name) == "" {
			return &badRequestError{msg: fmt.Sprintf("missing '%s'", name)}
		}
	}
	return nil
}

func parseRangeQuery(r *http.Request) (temporal.Predicate, error) {
	q := r.URL.Query()
	if err := required(q, "start_date", "end_date"); err != nil {
		return temporal.Predicate{}, err
	}
	start, err := temporal.ParseDateTime("start_date", q.Get("start_date"))
	if err != nil {
		return temporal.Predicate{}, err
	}
	end, err := temporal.ParseDateTime("end_date", q.Get("end_date"))
	if err != nil {
		return temporal.Predicate{}, err
	}
	return temporal.Range(start, end)
}

// parseDateSpan reads the calendar-date bounds shared by period queries.
func parseDateSpan(q url.Values) (start, end time.Time, err error) {
	start, err = temporal.ParseDate("start_date", q.Get("start_date"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = temporal.ParseDate("end_date", q.Get("end_date"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func parsePeriodQuery(r *http.Request, policy temporal.WindowPolicy) (temporal.Predicate, error) {
	q := r.URL.Query()
	if err := required(q, "start_date", "end_date", "start_hour", "end_hour"); err != nil {
		return temporal.Predicate{}, err
	}
	start, end, err := parseDateSpan(q)
	if err != nil {
		return temporal.Predicate{}, err
	}
	from, err := temporal.ParseClock("start_hour", q.Get("start_hour"))
	if err != nil {
		return temporal.Predicate{}, err
	}
	to, err := temporal.ParseClock("end_hour", q.Get("end_hour"))
	if err != nil {
		return temporal.Predicate{}, err
	}
	return temporal.Period(start, end, from, to, policy)
}

func parseExactHourQuery(r *http.Request) (temporal.Predicate, error) {
	q := r.URL.Query()
	if err := required(q, "start_date", "end_date", "exact_hour"); err != nil {
		return temporal.Predicate{}, err
	}
	start, end, err := parseDateSpan(q)
	if err != nil {
		return temporal.Predicate{}, err
	}
	at, err := temporal.ParseClock("exact_hour", q.Get("exact_hour"))
	if err != nil {
		return temporal.Predicate{}, err
	}
	return temporal.ExactTime(start, end, at)
}
