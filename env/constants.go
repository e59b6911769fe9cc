package env

import "time"

const (
	GPIO02 = "GPIO02" // SDA
	GPIO03 = "GPIO03" // SCL
	GPIO19 = "GPIO19" // activity LED
	GPIO22 = "GPIO22" // radio sleep (XRF pin 9)

	ActivityLed = GPIO19
	RadioSleep  = GPIO22

	// event counters, PCF8583 in event mode
	WindCounterAddr uint16 = 0x50
	RainCounterAddr uint16 = 0x51

	// the PCF8583 counts in 6 BCD digits
	CounterModulus = 1000000

	HumiditySensorAddr uint16 = 0x77 // BME280
	PressureSensorAddr uint16 = 0x76 // BMP280

	// ADS1115 channel 0 battery, channel 1 panel, scaled back through the dividers
	BatteryScale = 2.0  // 100k/100k
	PanelScale   = 3.13 // 470k/220k

	// ticks
	MeasureEvery = 14
	SendEvery    = 70

	// the wind calibration in derived.WindSpeed assumes 4s between counter reads
	SleepQuantum = 4 * time.Second

	// ticks in the rolling window the gust is averaged over
	GustWindow = 3

	// the BME280 needs a forced conversion after wake before the first sample is valid
	SensorWarmup = 100 * time.Millisecond

	ActivityFlash = 100 * time.Millisecond

	RadioSettle  = 50 * time.Millisecond
	RadioSpacing = 20 * time.Millisecond

	RadioBaud = 9600
	NodeID    = "WS"

	Altitude = 24.71 // m above sea level at the mast
)
