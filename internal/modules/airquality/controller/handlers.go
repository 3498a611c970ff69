package controller

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/Sriverasc/AireAPI/internal/db"
	"github.com/Sriverasc/AireAPI/internal/temporal"
	"github.com/Sriverasc/AireAPI/internal/utils"
)

func (c *readingControllerImpl[T, PT]) handleList(w http.ResponseWriter, r *http.Request) {
	var readings []T
	err := db.Session(r.Context(), c.pool, func(conn *sql.Conn) error {
		var err error
		readings, err = c.repository.ListAll(r.Context(), conn)
		return err
	})
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, readings)
}

func (c *readingControllerImpl[T, PT]) handleRange(w http.ResponseWriter, r *http.Request) {
	p, err := parseRangeQuery(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	c.find(w, r, p)
}

func (c *readingControllerImpl[T, PT]) handlePeriods(w http.ResponseWriter, r *http.Request) {
	p, err := parsePeriodQuery(r, c.policy)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	c.find(w, r, p)
}

func (c *readingControllerImpl[T, PT]) handleExactHour(w http.ResponseWriter, r *http.Request) {
	p, err := parseExactHourQuery(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	c.find(w, r, p)
}

func (c *readingControllerImpl[T, PT]) find(w http.ResponseWriter, r *http.Request, p temporal.Predicate) {
	var readings []T
	err := db.Session(r.Context(), c.pool, func(conn *sql.Conn) error {
		var err error
		readings, err = c.repository.Find(r.Context(), conn, p)
		return err
	})
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, readings)
}

func (c *readingControllerImpl[T, PT]) handleCreate(w http.ResponseWriter, r *http.Request) {
	rec, err := c.decodeReading(w, r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	var stored *T
	err = db.Session(r.Context(), c.pool, func(conn *sql.Conn) error {
		var err error
		stored, err = c.repository.Insert(r.Context(), conn, rec)
		return err
	})
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stored)
}

func (c *readingControllerImpl[T, PT]) handleReplace(w http.ResponseWriter, r *http.Request) {
	key, err := temporal.ParseKey("date_time", r.PathValue("date_time"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	rec, err := c.decodeReading(w, r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	var stored *T
	err = db.Session(r.Context(), c.pool, func(conn *sql.Conn) error {
		var err error
		stored, err = c.repository.Replace(r.Context(), conn, key, rec)
		return err
	})
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stored)
}

func (c *readingControllerImpl[T, PT]) handleDelete(w http.ResponseWriter, r *http.Request) {
	key, err := temporal.ParseKey("date_time", r.PathValue("date_time"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	err = db.Session(r.Context(), c.pool, func(conn *sql.Conn) error {
		return c.repository.Delete(r.Context(), conn, key)
	})
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "reading deleted")
}

// decodeReading reads and validates a reading body.
func (c *readingControllerImpl[T, PT]) decodeReading(w http.ResponseWriter, r *http.Request) (*T, error) {
	rec := new(T)
	if err := utils.DecodeJSON(w, r, rec); err != nil {
		var parseErr *temporal.ParseError
		if errors.As(err, &parseErr) {
			return nil, err
		}
		return nil, &badRequestError{msg: "invalid request body: " + err.Error()}
	}
	if err := c.validate.Struct(rec); err != nil {
		return nil, err
	}
	return rec, nil
}
