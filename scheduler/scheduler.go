// Package scheduler runs the node duty cycle: the cheap counter reads every
// tick, the slow sensors every MeasureEvery ticks, and a flush over the radio
// every SendEvery ticks.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gr-butler/sensornode/accumulator"
	"github.com/gr-butler/sensornode/buffer"
	"github.com/gr-butler/sensornode/counter"
	"github.com/gr-butler/sensornode/data"
	"github.com/gr-butler/sensornode/derived"
	"github.com/gr-butler/sensornode/radio"
	"github.com/gr-butler/sensornode/reporting"
	logger "github.com/sirupsen/logrus"
)

var ErrInvalidPeriods = errors.New("send period must be a positive multiple of the measure period")

// Sensor is one scalar measurement that may fail.
type Sensor interface {
	Read() (float64, error)
}

// Counter is a free running hardware event counter that rolls over at Modulus.
type Counter interface {
	Count() (uint32, error)
	Modulus() uint32
}

type Radio interface {
	Open() (*radio.Session, error)
}

// Clock covers the waits inside a tick and the report timestamp.
// clockwork.Clock satisfies it.
type Clock interface {
	Sleep(d time.Duration)
	Now() time.Time
}

// Sleeper is the end of tick low power sleep.
type Sleeper interface {
	Sleep()
}

type Flasher interface {
	Flash()
}

type Config struct {
	Node         string
	MeasureEvery uint
	SendEvery    uint
	// Warmup is waited before the slow sensors are read.
	Warmup   time.Duration
	DewPoint derived.DewPointFunc
	// GustWindow is the number of ticks the wind gust is averaged over.
	// Zero leaves the gust out of the report.
	GustWindow uint
}

type Hardware struct {
	Wind Counter
	Rain Counter

	Temperature Sensor // humidity sensor
	Humidity    Sensor
	BaroTemp    Sensor
	Pressure    Sensor
	Battery     Sensor
	Panel       Sensor
}

type Scheduler struct {
	cfg   Config
	hw    Hardware
	radio Radio
	clock Clock

	data *data.WeatherData
	wind *counter.DeltaReader
	rain *counter.DeltaReader
	gust *buffer.SampleBuffer
	tick uint

	recorders reporting.Recorders
	activity  Flasher
}

func New(cfg Config, hw Hardware, r Radio, clock Clock) (*Scheduler, error) {
	if cfg.MeasureEvery == 0 || cfg.SendEvery == 0 || cfg.SendEvery%cfg.MeasureEvery != 0 {
		return nil, fmt.Errorf("%w: measure [%v] send [%v]", ErrInvalidPeriods, cfg.MeasureEvery, cfg.SendEvery)
	}
	if cfg.DewPoint == nil {
		cfg.DewPoint = derived.DewPointNOAA
	}
	if err := hw.check(); err != nil {
		return nil, err
	}
	if r == nil || clock == nil {
		return nil, errors.New("scheduler needs a radio and a clock")
	}

	wind, err := counter.NewDeltaReader(hw.Wind.Modulus())
	if err != nil {
		return nil, fmt.Errorf("wind counter: %w", err)
	}
	rain, err := counter.NewDeltaReader(hw.Rain.Modulus())
	if err != nil {
		return nil, fmt.Errorf("rain counter: %w", err)
	}

	s := &Scheduler{
		cfg:   cfg,
		hw:    hw,
		radio: r,
		clock: clock,
		data:  data.CreateWeatherData(),
		wind:  wind,
		rain:  rain,
	}
	if cfg.GustWindow > 0 {
		s.gust = buffer.NewBuffer(int(cfg.GustWindow))
	}
	return s, nil
}

func (hw Hardware) check() error {
	named := map[string]Sensor{
		"temperature": hw.Temperature,
		"humidity":    hw.Humidity,
		"baro temp":   hw.BaroTemp,
		"pressure":    hw.Pressure,
		"battery":     hw.Battery,
		"panel":       hw.Panel,
	}
	for name, s := range named {
		if s == nil {
			return fmt.Errorf("no %s sensor", name)
		}
	}
	if hw.Wind == nil || hw.Rain == nil {
		return errors.New("wind and rain counters are required")
	}
	return nil
}

func (s *Scheduler) AddRecorder(r reporting.Recorder) {
	s.recorders = append(s.recorders, r)
}

func (s *Scheduler) SetActivityLED(f Flasher) {
	s.activity = f
}

// Prime takes the current counter values as the starting point so counts
// made before boot are not reported.
func (s *Scheduler) Prime() {
	if c, err := s.hw.Wind.Count(); err == nil {
		s.wind.Prime(c)
	} else {
		logger.Warnf("Could not prime wind counter [%v]", err)
	}
	if c, err := s.hw.Rain.Count(); err == nil {
		s.rain.Prime(c)
	} else {
		logger.Warnf("Could not prime rain counter [%v]", err)
	}
}

// Tick runs one wake cycle without the final sleep. The report is returned
// when this tick flushed, nil otherwise.
func (s *Scheduler) Tick(ctx context.Context) *reporting.Report {
	s.measureFast()
	s.tick++
	if s.tick%s.cfg.MeasureEvery == 0 {
		s.measureSlow()
	}
	if s.tick%s.cfg.SendEvery == 0 {
		r := s.flush(ctx)
		s.tick = 0
		return &r
	}
	return nil
}

// Run ticks and sleeps until ctx is done. The sleep itself is not interrupted.
func (s *Scheduler) Run(ctx context.Context, sleeper Sleeper) error {
	for {
		s.Tick(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		sleeper.Sleep()
	}
}

func (s *Scheduler) Ticks() uint {
	return s.tick
}

func (s *Scheduler) Data() *data.WeatherData {
	return s.data
}

// measureFast reads both event counters. The gust window slides across
// flushes; only its per tick averages are reset with the interval.
func (s *Scheduler) measureFast() {
	if delta, ok := readCounter("wind", s.hw.Wind, s.wind, s.data.WindDelta); ok && s.gust != nil {
		s.gust.AddItem(float64(delta))
		s.data.WindGust.Store(s.gust.Average().Float64())
	}
	readCounter("rain", s.hw.Rain, s.rain, s.data.RainDelta)
}

func (s *Scheduler) measureSlow() {
	if s.cfg.Warmup > 0 {
		s.clock.Sleep(s.cfg.Warmup)
	}
	readSensor("temperature", s.hw.Temperature, s.data.Temperature)
	readSensor("humidity", s.hw.Humidity, s.data.Humidity)
	readSensor("baro temp", s.hw.BaroTemp, s.data.BaroTemp)
	readSensor("pressure", s.hw.Pressure, s.data.Pressure)
	readSensor("battery", s.hw.Battery, s.data.Battery)
	readSensor("panel", s.hw.Panel, s.data.Panel)
}

func readSensor(name string, sensor Sensor, acc *accumulator.Accumulator) {
	v, err := sensor.Read()
	if err != nil {
		logger.Debugf("Skipping %s sample [%v]", name, err)
		return
	}
	acc.Store(v)
}

func readCounter(name string, c Counter, d *counter.DeltaReader, acc *accumulator.Accumulator) (uint32, bool) {
	current, err := c.Count()
	if err != nil {
		logger.Debugf("Skipping %s count [%v]", name, err)
		return 0, false
	}
	return d.Feed(current, acc), true
}

func (s *Scheduler) flush(ctx context.Context) reporting.Report {
	r := s.buildReport()
	logger.Infof("Flushing [%v] readings %v", len(r.Readings), r.IDs())

	s.send(r)
	s.recorders.Record(ctx, r)
	if s.activity != nil {
		s.activity.Flash()
	}
	s.data.Reset()
	return r
}

func (s *Scheduler) send(r reporting.Report) {
	session, err := s.radio.Open()
	if err != nil {
		logger.Errorf("Radio open failed, report dropped [%v]", err)
		return
	}
	for _, x := range r.Readings {
		if err := session.Send(x.ID, x.Value, x.Decimals); err != nil {
			logger.Errorf("Radio send [%v] [%v]", x.ID, err)
		}
	}
	if err := session.Close(); err != nil {
		logger.Errorf("Radio close failed [%v]", err)
	}
}

// buildReport reads the interval statistics in send order. A reading whose
// accumulator got no samples this interval is left out.
func (s *Scheduler) buildReport() reporting.Report {
	d := s.data
	r := reporting.Report{Node: s.cfg.Node, Time: s.clock.Now()}

	add := func(id string, v float64, decimals int) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			logger.Warnf("Dropping [%v], value [%v] is not a number", id, v)
			return
		}
		r.Add(id, v, decimals)
	}
	average := func(id string, acc *accumulator.Accumulator, decimals int) {
		if acc.Empty() {
			logger.Warnf("No samples for [%v] this interval", id)
			return
		}
		add(id, acc.Average().Float64(), decimals)
	}

	average(reporting.TempHumidity, d.Temperature, 1)
	average(reporting.TempBaro, d.BaroTemp, 1)
	average(reporting.Humidity, d.Humidity, 1)
	average(reporting.Pressure, d.Pressure, 1)

	if !d.Temperature.Empty() && !d.Humidity.Empty() {
		dp := s.cfg.DewPoint(d.Temperature.Average().Float64(), d.Humidity.Average().Float64())
		add(reporting.DewPoint, dp, 1)
	}

	if !d.WindDelta.Empty() {
		add(reporting.WindAverage, derived.WindSpeed(d.WindDelta.Average().Float64()), 1)
		add(reporting.WindMax, derived.WindSpeed(d.WindDelta.Maximum().Float64()), 1)
	} else {
		logger.Warnf("No samples for [%v] this interval", reporting.WindAverage)
	}

	if !d.RainDelta.Empty() {
		add(reporting.Rainfall, derived.Rainfall(d.RainDelta.Sum().Float64()), 2)
	} else {
		logger.Warnf("No samples for [%v] this interval", reporting.Rainfall)
	}

	average(reporting.Battery, d.Battery, 2)
	average(reporting.Panel, d.Panel, 2)

	if !d.WindGust.Empty() {
		r.AddExtra(reporting.WindGust, derived.WindSpeed(d.WindGust.Maximum().Float64()), 1)
	}
	return r
}
