package reporting

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/gr-butler/sensornode/derived"
	logger "github.com/sirupsen/logrus"
)

/*

https://wow.metoffice.gov.uk/support/dataformats

 All uploads must contain 4 pieces of mandatory information plus at least 1 piece of weather data.

    siteid, siteAuthenticationKey, dateutc, softwaretype

The date must be in the following format: YYYY-mm-DD HH:mm:ss, where ':' is encoded as %3A, and the space is encoded as either '+' or %20.
The date must be adjusted to UTC time.

KEY				Description															UNIT

baromin 		Barometric Pressure 												Inch of Mercury
dewptf 			Outdoor Dewpoint 													Fahrenheit
humidity 		Outdoor Humidity 													0-100 %
rainin 			Accumulated rainfall since the previous observation 				Inches
tempf 			Outdoor Temperature 												Fahrenheit
windspeedmph 	Instantaneous Wind Speed 											Miles per Hour
windgustmph 	Current Wind Gust (using software specific time period) 			Miles per Hour

*/

const WOWBaseURL = "http://wow.metoffice.gov.uk/automaticreading?"

type wowData struct {
	SiteID       string   `url:"siteid"`
	AuthKey      string   `url:"siteAuthenticationKey"`
	DateString   string   `url:"dateutc"`
	SoftwareType string   `url:"softwaretype"`
	PressureIn   *float64 `url:"baromin,omitempty"`
	Humidity     *float64 `url:"humidity,omitempty"`
	TempF        *float64 `url:"tempf,omitempty"`
	DewPointF    *float64 `url:"dewptf,omitempty"`
	RainIn       *float64 `url:"rainin,omitempty"`
	WindSpeedMph *float64 `url:"windspeedmph,omitempty"`
	WindGustMph  *float64 `url:"windgustmph,omitempty"`
}

// WOW uploads each report to the Met Office Weather Observations Website.
type WOW struct {
	BaseURL  string
	SiteID   string
	Pin      string
	Software string
	Altitude float64
	Client   *http.Client
}

func NewWOW(siteID, pin, software string, altitude float64) *WOW {
	return &WOW{
		BaseURL:  WOWBaseURL,
		SiteID:   siteID,
		Pin:      pin,
		Software: software,
		Altitude: altitude,
		Client:   &http.Client{Timeout: time.Second * 30},
	}
}

func (w *WOW) Name() string {
	return "wow"
}

func (w *WOW) prepData(r Report) *wowData {
	wd := &wowData{
		SiteID:       w.SiteID,
		AuthKey:      w.Pin,
		DateString:   r.Time.UTC().Format("2006-01-02 15:04:05"),
		SoftwareType: w.Software,
	}
	set := func(id string, conv func(float64) float64) *float64 {
		v, ok := r.Get(id)
		if !ok {
			return nil
		}
		v = conv(v)
		return &v
	}

	tempC, hasTemp := r.Get(TempHumidity)
	if pressure, ok := r.Get(Pressure); ok {
		if hasTemp {
			pressure = derived.SeaLevelPressure(pressure, tempC, w.Altitude)
		}
		inHg := derived.HPaToInHg(pressure)
		wd.PressureIn = &inHg
	}
	wd.Humidity = set(Humidity, func(v float64) float64 { return v })
	wd.TempF = set(TempHumidity, derived.CToF)
	wd.DewPointF = set(DewPoint, derived.CToF)
	wd.RainIn = set(Rainfall, derived.MmToInch)
	wd.WindSpeedMph = set(WindAverage, derived.KmhToMph)
	if _, ok := r.Get(WindGust); ok {
		wd.WindGustMph = set(WindGust, derived.KmhToMph)
	} else {
		wd.WindGustMph = set(WindMax, derived.KmhToMph)
	}
	return wd
}

func (w *WOW) Record(ctx context.Context, r Report) error {
	vals, err := query.Values(w.prepData(r))
	if err != nil {
		return err
	}
	logger.Debugf("WOW data [%v]", vals)

	// WOW accepts a GET
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.BaseURL+vals.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := w.Client.Do(req)
	if err != nil {
		return fmt.Errorf("wow upload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wow upload HTTP [%v]", resp.Status)
	}
	return nil
}
