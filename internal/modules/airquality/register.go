package airquality

import (
	"database/sql"
	"net/http"

	"github.com/Sriverasc/AireAPI/internal/db"
	"github.com/Sriverasc/AireAPI/internal/modules/airquality/controller"
	"github.com/Sriverasc/AireAPI/internal/modules/airquality/repository"
	"github.com/Sriverasc/AireAPI/internal/modules/airquality/types"
	"github.com/Sriverasc/AireAPI/internal/temporal"
)

const basePath = "/air_quality"

// RegisterFeature mounts the outside and inside reading endpoints.
func RegisterFeature(mux *http.ServeMux, pool *sql.DB, dialect db.Dialect, policy temporal.WindowPolicy) {
	outsideRepository := repository.NewRepository[types.OutsideReading](dialect)
	outsideController := controller.NewReadingController[types.OutsideReading](
		basePath+"/outside", pool, outsideRepository, policy)
	outsideController.RegisterRoutes(mux)

	insideRepository := repository.NewRepository[types.InsideReading](dialect)
	insideController := controller.NewReadingController[types.InsideReading](
		basePath+"/inside", pool, insideRepository, policy)
	insideController.RegisterRoutes(mux)
}
