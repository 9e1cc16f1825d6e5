// internal/fieldmap/table.go
package fieldmap

// Field names used by composite operations and presentation.
const (
	Model              = "model"
	PowerState         = "power_state"
	CoffeeTemperature  = "coffee_temperature"
	AutotimerEnabled   = "autotimer_enabled"
	AutotimerHourOn    = "autotimer_h_on"
	AutotimerMinuteOn  = "autotimer_m_on"
	AutotimerHourOff   = "autotimer_h_off"
	AutotimerMinuteOff = "autotimer_m_off"
)

func f64(v float64) *float64 { return &v }

// table is built once and never mutated. Order is presentation order.
var table = []FieldSpec{
	// ---- machine information ----
	{Name: Model, Offset: 76, Width: U8, Description: "Machine model"},
	{Name: "language", Offset: 36, Width: U8, Description: "Language",
		Values: []Mapping{
			{"lang1", Equals(1)},
			{"lang2", Equals(2)},
			{"unknown", GreaterThan(2)},
		}},

	// ---- machine states ----
	// The board treats any power value <= 4 as off; the tooling only ever
	// writes 4 or 6.
	{Name: PowerState, Offset: 132, Width: U8, Description: "Machine power state",
		Values: []Mapping{
			{"on", Equals(6)},
			{"off", Equals(4)},
		}},
	{Name: "steam_state", Offset: 86, Width: U8, Description: "Steam boiler state",
		Values: []Mapping{
			{"on", Equals(1)},
			{"off", Equals(0)},
		}},
	{Name: "coffee_group_state", Offset: 124, Width: U8, Description: "Coffee group state",
		Values: []Mapping{
			{"on", GreaterThan(0)},
			{"off", Equals(0)},
		}},

	// ---- temperatures ----
	{Name: "temperature_unit", Offset: 52, Width: U8, Description: "Temperature unit setting",
		Values: []Mapping{
			{"celsius", Equals(0)},
			{"fahrenheit", Equals(1)},
		}},
	{Name: CoffeeTemperature, Offset: 53, Width: U16LE, Scale: 10,
		Description: "Coffee temperature (value/10)",
		Min:         f64(80), Max: f64(110), Default: f64(93)},
	{Name: "steam_temperature", Offset: 63, Width: U16LE, Scale: 10,
		Description: "Steam temperature (value/10)",
		Min:         f64(110), Max: f64(130), Default: f64(125)},
	{Name: "offset_temperature", Offset: 77, Width: U16LE, Scale: 10,
		Description: "Offset temperature (value/10)", Unreliable: true},
	{Name: "standby_temperature", Offset: 82, Width: U16LE, Scale: 10,
		Description: "Standby temperature (value/10)"},
	{Name: "standby_time", Offset: 79, Width: U8, Description: "Standby time in minutes"},

	// ---- doses ----
	{Name: "dose_S1", Offset: 91, Width: U16LE, Scale: 2, Description: "S1 dose in ml (value/2)"},
	{Name: "dose_S2", Offset: 93, Width: U16LE, Scale: 2, Description: "S2 dose in ml (value/2)"},
	{Name: "dose_L1", Offset: 95, Width: U16LE, Scale: 2, Description: "L1 dose in ml (value/2)"},
	{Name: "dose_L2", Offset: 97, Width: U16LE, Scale: 2, Description: "L2 dose in ml (value/2)"},
	{Name: "flush_enabled", Offset: 43, Width: U8, Description: "Flush enabled flag",
		Values: []Mapping{
			{"enabled", Equals(1)},
			{"disabled", Equals(0)},
		}},

	// ---- pre-infusion ----
	{Name: "pre_infusion_enabled", Offset: 45, Width: U8, Description: "Pre-infusion enabled flag",
		Values: []Mapping{
			{"enabled", Equals(1)},
			{"disabled", Equals(0)},
		}},
	{Name: "pre_infusion_S1", Offset: 46, Width: U8, Scale: 10,
		Description: "S1 pre-infusion time in seconds (value/10)", Default: f64(3.0)},
	{Name: "pre_infusion_S2", Offset: 47, Width: U8, Scale: 10,
		Description: "S2 pre-infusion time in seconds (value/10)"},
	{Name: "pre_infusion_L1", Offset: 48, Width: U8, Scale: 10,
		Description: "L1 pre-infusion time in seconds (value/10)"},
	{Name: "pre_infusion_L2", Offset: 49, Width: U8, Scale: 10,
		Description: "L2 pre-infusion time in seconds (value/10)"},

	// ---- water ----
	{Name: "water_connection", Offset: 87, Width: U8, Description: "Water connection type",
		Values: []Mapping{
			{"direct", Equals(0)},
			{"tank", Equals(1)},
		}},

	// ---- auto on/off timer, contiguous 126..130 ----
	{Name: AutotimerEnabled, Offset: 126, Width: U8, Description: "Power timer enabled",
		Values: []Mapping{
			{"enabled", Equals(1)},
			{"disabled", Equals(0)},
		}},
	{Name: AutotimerHourOn, Offset: 127, Width: U8, Description: "Power timer on hour"},
	{Name: AutotimerMinuteOn, Offset: 128, Width: U8, Description: "Power timer on minute"},
	{Name: AutotimerHourOff, Offset: 129, Width: U8, Description: "Power timer off hour"},
	{Name: AutotimerMinuteOff, Offset: 130, Width: U8, Description: "Power timer off minute"},

	// ---- counters (COUNT_K*_GR1) ----
	{Name: "counter_S1", Offset: 134, Width: U16LE, ReadOnly: true, Description: "S1 counter"},
	{Name: "counter_S2", Offset: 138, Width: U16LE, ReadOnly: true, Description: "S2 counter"},
	{Name: "counter_L1", Offset: 142, Width: U16LE, ReadOnly: true, Description: "L1 counter"},
	{Name: "counter_L2", Offset: 146, Width: U16LE, ReadOnly: true, Description: "L2 counter"},
	{Name: "counter_XL", Offset: 150, Width: U16LE, ReadOnly: true, Description: "XL counter"},
	{Name: "counter_total", Offset: 210, Width: U16LE, ReadOnly: true, Description: "Total counter"},
}

// UnknownModel is reported for model bytes outside the model table.
const UnknownModel = "Unknown Model"

// models is shared by the whole board family.
var models = map[uint64]string{
	1: "Baby T Zero 230V",
	2: "Baby T Plus 230V",
	3: "Baby T Zero 120V",
	4: "Baby T Plus 120V",
	5: "Barista T 2 Groups",
	6: "Barista T 3 Groups",
	7: "Big Dream 2 Groups",
	8: "Big Dream 3 Groups",
}

// ModelName resolves a raw model byte.
func ModelName(raw uint64) string {
	if name, ok := models[raw]; ok {
		return name
	}
	return UnknownModel
}

// Group is a named set of fields shown together.
type Group struct {
	Title  string
	Fields []string
}

var groups = []Group{
	{"Machine Info", []string{"model", "power_state"}},
	{"Temperature Settings", []string{"temperature_unit", "coffee_temperature", "steam_temperature",
		"offset_temperature", "standby_temperature", "standby_time"}},
	{"Dose Settings", []string{"dose_S1", "dose_S2", "dose_L1", "dose_L2", "flush_enabled"}},
	{"Pre-infusion Settings", []string{"pre_infusion_enabled", "pre_infusion_S1", "pre_infusion_S2",
		"pre_infusion_L1", "pre_infusion_L2"}},
	{"Counter Values", []string{"counter_S1", "counter_S2", "counter_L1", "counter_L2",
		"counter_XL", "counter_total"}},
	{"Auto Timer Settings", []string{"autotimer_enabled", "autotimer_h_on", "autotimer_m_on",
		"autotimer_h_off", "autotimer_m_off"}},
	{"Other Settings", []string{"language", "water_connection", "coffee_group_state", "steam_state"}},
}
