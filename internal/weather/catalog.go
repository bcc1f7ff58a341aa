package weather

// Dataset is an Earth Engine image collection and the bands read from it.
type Dataset struct {
	ID    string
	Bands []string
}

// Datasets are merged in this order; band names must be unique across them.
var Datasets = []Dataset{
	{
		ID: "ECMWF/ERA5_LAND/HOURLY",
		Bands: []string{
			"u_component_of_wind_10m",
			"v_component_of_wind_10m",
			"dewpoint_temperature_2m",
			"temperature_2m",
			"surface_pressure",
		},
	},
	{ID: "NOAA/CDR/OISST/V2_1", Bands: []string{"sst"}},
	{ID: "ECMWF/ERA5/DAILY", Bands: []string{"msl"}},
	// GFS 2 m temperature stands in for ERA5 soil level 1 temperature.
	{ID: "NOAA/GFS0P25", Bands: []string{"temperature_2m_above_ground"}},
}

// Variable maps a source band to its output key. Factor is applied to the raw value.
type Variable struct {
	Band   string
	Key    string
	Factor float64
}

var Variables = []Variable{
	{Band: "u_component_of_wind_10m", Key: "u10", Factor: 1},
	{Band: "v_component_of_wind_10m", Key: "v10", Factor: 1},
	{Band: "dewpoint_temperature_2m", Key: "d2m", Factor: 1},
	{Band: "temperature_2m", Key: "t2m", Factor: 1},
	{Band: "surface_pressure", Key: "sp", Factor: 1},
	{Band: "sst", Key: "sst", Factor: 1},
	{Band: "msl", Key: "mslp", Factor: 1},
	{Band: "temperature_2m_above_ground", Key: "stl1", Factor: 10},
}

const (
	DefaultScale     = 10000 // metres
	DefaultMaxPixels = 1e9
)

// DefaultWindow is January 2024; the end date is exclusive.
var DefaultWindow = Window{Start: "2024-01-01", End: "2024-01-31"}
