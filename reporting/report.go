package reporting

import (
	"context"
	"time"

	logger "github.com/sirupsen/logrus"
)

// reading ids, two characters each for the radio link
const (
	TempHumidity = "TA" // humidity sensor temperature
	TempBaro     = "TB" // pressure sensor temperature
	Humidity     = "HU"
	Pressure     = "PR"
	DewPoint     = "DP"
	WindAverage  = "WA"
	WindMax      = "WM"
	Rainfall     = "RA"
	Battery      = "VB"
	Panel        = "VP"

	// recorder only, not sent over the radio
	WindGust = "WG"
)

// Reading is one named value with the decimal places it is sent with.
type Reading struct {
	ID       string
	Value    float64
	Decimals int
}

// Report is everything flushed at the end of one interval. Readings are in
// radio send order; Extra readings go to the recorders only.
type Report struct {
	Node     string
	Time     time.Time
	Readings []Reading
	Extra    []Reading
}

func (r *Report) Add(id string, value float64, decimals int) {
	r.Readings = append(r.Readings, Reading{ID: id, Value: value, Decimals: decimals})
}

func (r *Report) AddExtra(id string, value float64, decimals int) {
	r.Extra = append(r.Extra, Reading{ID: id, Value: value, Decimals: decimals})
}

// All is Readings followed by Extra.
func (r *Report) All() []Reading {
	all := make([]Reading, 0, len(r.Readings)+len(r.Extra))
	all = append(all, r.Readings...)
	return append(all, r.Extra...)
}

func (r *Report) Get(id string) (float64, bool) {
	for _, x := range r.All() {
		if x.ID == id {
			return x.Value, true
		}
	}
	return 0, false
}

func (r *Report) IDs() []string {
	ids := make([]string, 0, len(r.Readings))
	for _, x := range r.Readings {
		ids = append(ids, x.ID)
	}
	return ids
}

// Recorder stores or forwards a flushed report somewhere other than the radio.
type Recorder interface {
	Name() string
	Record(ctx context.Context, r Report) error
}

// Recorders hands a report to each recorder in turn. A failing recorder is
// logged and skipped; the report is not retried.
type Recorders []Recorder

func (rs Recorders) Record(ctx context.Context, r Report) {
	for _, rec := range rs {
		if err := rec.Record(ctx, r); err != nil {
			logger.Errorf("Recorder [%v] failed [%v]", rec.Name(), err)
		}
	}
}
