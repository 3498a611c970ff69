package controller

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Sriverasc/AireAPI/internal/modules/airquality/repository"
	"github.com/Sriverasc/AireAPI/internal/modules/airquality/types"
	"github.com/Sriverasc/AireAPI/internal/temporal"
)

type ReadingController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type readingControllerImpl[T any, PT types.Reading[T]] struct {
	basePath   string
	pool       *sql.DB
	repository repository.ReadingRepository[T]
	policy     temporal.WindowPolicy
	validate   *validator.Validate
	now        func() time.Time
}

// NewReadingController serves one reading type under basePath, e.g.
// /air_quality/outside.
func NewReadingController[T any, PT types.Reading[T]](
	basePath string,
	pool *sql.DB,
	repository repository.ReadingRepository[T],
	policy temporal.WindowPolicy,
) ReadingController {
	c := &readingControllerImpl[T, PT]{
		basePath:   basePath,
		pool:       pool,
		repository: repository,
		policy:     policy,
		now:        time.Now,
	}
	c.validate = newValidator(func() time.Time { return c.now() })
	return c
}

func (c *readingControllerImpl[T, PT]) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET "+c.basePath, c.handleList)
	mux.HandleFunc("GET "+c.basePath+"/{$}", c.handleRange)
	mux.HandleFunc("GET "+c.basePath+"/periods", c.handlePeriods)
	mux.HandleFunc("GET "+c.basePath+"/periods/exact_hour", c.handleExactHour)
	mux.HandleFunc("POST "+c.basePath, c.handleCreate)
	mux.HandleFunc("PUT "+c.basePath+"/{date_time}", c.handleReplace)
	mux.HandleFunc("DELETE "+c.basePath+"/{date_time}", c.handleDelete)
}
