package types

import "time"

// InsideReading is one indoor monitor sample.
type InsideReading struct {
	DateTime     Timestamp `json:"date_time" validate:"required,notfuture"`
	TVOC         *float64  `json:"tvoc_mg_m3"`
	PM25         *int      `json:"pm2_5_ug_m3"`
	CO2          *float64  `json:"co2_ppm"`
	TemperatureC *float64  `json:"temperature_c"`
	HumidityRH   *float64  `json:"humidity_rh"`
}

var insideColumns = []string{"tvoc_mg_m3", "pm2_5_ug_m3", "co2_ppm", "temperature_c", "humidity_rh"}

func (r *InsideReading) Table() string { return "inside_readings" }

func (r *InsideReading) Key() time.Time { return r.DateTime.Time }

func (r *InsideReading) SetKey(t time.Time) { r.DateTime = NewTimestamp(t) }

func (r *InsideReading) Columns() []string { return insideColumns }

func (r *InsideReading) Values() []any {
	return []any{r.TVOC, r.PM25, r.CO2, r.TemperatureC, r.HumidityRH}
}

func (r *InsideReading) Targets() []any {
	return []any{&r.TVOC, &r.PM25, &r.CO2, &r.TemperatureC, &r.HumidityRH}
}
