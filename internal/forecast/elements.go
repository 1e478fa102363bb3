package forecast

// elementNames maps the NDFD element codes the assembler consumes to the
// display names their parameters carry in the feed. Read-only configuration;
// parameter lookup goes through the display name because element tags are
// not unique (temperature alone appears as maxt, mint, temp, and apt).
var elementNames = map[string]string{
	"maxt":  "Daily Maximum Temperature",
	"mint":  "Daily Minimum Temperature",
	"temp":  "Temperature",
	"apt":   "Apparent Temperature",
	"td":    "Dew Point",
	"pop12": "12 Hourly Probability of Precipitation",
	"qpf":   "Liquid Precipitation Amount",
	"snow":  "Snow Amount",
	"sky":   "Cloud Cover Amount",
	"rhm":   "Relative Humidity",
	"wdir":  "Wind Direction",
	"wspd":  "Wind Speed",
	"wgust": "Wind Speed Gust",
	"wx":    "Weather Type, Coverage, and Intensity",
	"sym":   "Conditions Icons",
}
