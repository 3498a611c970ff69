package types

import "time"

// OutsideReading is one outdoor station sample. Every measurement is
// optional.
type OutsideReading struct {
	DateTime      Timestamp `json:"date_time" validate:"required,notfuture"`
	AQI           *int      `json:"aqi"`
	AQIHigh       *int      `json:"aqi_high"`
	PM1           *int      `json:"pm1_ug_m3"`
	PM1High       *int      `json:"pm1_high_ug_m3"`
	PM25          *int      `json:"pm25_ug_m3"`
	PM25High      *int      `json:"pm25_high_ug_m3"`
	PM10          *int      `json:"pm10_ug_m3"`
	PM10High      *int      `json:"pm10_high_ug_m3"`
	TempC         *int      `json:"temp_c"`
	TempMaxC      *int      `json:"temp_max_c"`
	TempMinC      *int      `json:"temp_min_c"`
	HumidityPct   *int      `json:"humidity_pct"`
	HumidityMax   *int      `json:"humidity_max_pct"`
	HumidityMin   *int      `json:"humidity_min_pct"`
	DewPointC     *int      `json:"dew_point_c"`
	DewPointMaxC  *int      `json:"dew_point_max_c"`
	DewPointMinC  *int      `json:"dew_point_min_c"`
	WetBulbC      *int      `json:"wet_bulb_c"`
	WetBulbMaxC   *int      `json:"wet_bulb_max_c"`
	WetBulbMinC   *int      `json:"wet_bulb_min_c"`
	HeatIndexC    *int      `json:"heat_index_c"`
	HeatIndexMaxC *int      `json:"heat_index_max_c"`
}

var outsideColumns = []string{
	"aqi", "aqi_high",
	"pm1_ug_m3", "pm1_high_ug_m3",
	"pm25_ug_m3", "pm25_high_ug_m3",
	"pm10_ug_m3", "pm10_high_ug_m3",
	"temp_c", "temp_max_c", "temp_min_c",
	"humidity_pct", "humidity_max_pct", "humidity_min_pct",
	"dew_point_c", "dew_point_max_c", "dew_point_min_c",
	"wet_bulb_c", "wet_bulb_max_c", "wet_bulb_min_c",
	"heat_index_c", "heat_index_max_c",
}

func (r *OutsideReading) Table() string { return "outside_readings" }

func (r *OutsideReading) Key() time.Time { return r.DateTime.Time }

func (r *OutsideReading) SetKey(t time.Time) { r.DateTime = NewTimestamp(t) }

func (r *OutsideReading) Columns() []string { return outsideColumns }

func (r *OutsideReading) Values() []any {
	return []any{
		r.AQI, r.AQIHigh,
		r.PM1, r.PM1High,
		r.PM25, r.PM25High,
		r.PM10, r.PM10High,
		r.TempC, r.TempMaxC, r.TempMinC,
		r.HumidityPct, r.HumidityMax, r.HumidityMin,
		r.DewPointC, r.DewPointMaxC, r.DewPointMinC,
		r.WetBulbC, r.WetBulbMaxC, r.WetBulbMinC,
		r.HeatIndexC, r.HeatIndexMaxC,
	}
}

func (r *OutsideReading) Targets() []any {
	return []any{
		&r.AQI, &r.AQIHigh,
		&r.PM1, &r.PM1High,
		&r.PM25, &r.PM25High,
		&r.PM10, &r.PM10High,
		&r.TempC, &r.TempMaxC, &r.TempMinC,
		&r.HumidityPct, &r.HumidityMax, &r.HumidityMin,
		&r.DewPointC, &r.DewPointMaxC, &r.DewPointMinC,
		&r.WetBulbC, &r.WetBulbMaxC, &r.WetBulbMinC,
		&r.HeatIndexC, &r.HeatIndexMaxC,
	}
}
