package derived

import "math"

// DewPointFunc returns the dew point in C for a temperature in C and a
// relative humidity in percent.
type DewPointFunc func(tempC, humidity float64) float64

// DewPointNOAA is the NOAA reference: saturation vapour pressure from the
// Goff-Gratch style series, then the inverted Magnus fit.
func DewPointNOAA(tempC, humidity float64) float64 {
	ratio := 373.15 / (273.15 + tempC)
	rhs := -7.90298 * (ratio - 1)
	rhs += 5.02808 * math.Log10(ratio)
	rhs += -1.3816e-7 * (math.Pow(10, 11.344*(1-1/ratio)) - 1)
	rhs += 8.1328e-3 * (math.Pow(10, -3.49149*(ratio-1)) - 1)
	rhs += math.Log10(1013.246)

	// -3 converts to kPa, then scale by humidity
	vp := math.Pow(10, rhs-3) * humidity
	t := math.Log(vp / 0.61078)
	return (241.88 * t) / (17.558 - t)
}

// DewPointMagnus is the short Magnus form. Stays within 0.66C of
// DewPointNOAA for 0 < temp < 50 and 1 < RH < 100.
func DewPointMagnus(tempC, humidity float64) float64 {
	const a = 17.271
	const b = 237.7
	t := (a*tempC)/(b+tempC) + math.Log(humidity*0.01)
	return (b * t) / (a - t)
}

// WindSpeed converts anemometer counts in one tick to km/h.
// 1 count/s is 2.5 km/h, a tick is 4s and the counter sees each turn twice:
// 2.5 / 4 / 2 = 5/16.
func WindSpeed(delta float64) float64 {
	return delta * 5 / 16
}

// Rainfall converts bucket counts to mm. 0.3mm a tip, each tip counted twice.
func Rainfall(sum float64) float64 {
	return sum * 3 / 20
}

const (
	hPaToInHg = 0.02953
	mmPerInch = 25.4
	mphPerKmh = 0.621371

	rd     = 287.1 // J/(kg K)
	g      = 9.807
	kelvin = 273.1
)

func CToF(c float64) float64 {
	//(0°C × 9/5) + 32 = 32°F
	return (c * 9 / 5) + 32
}

func MmToInch(mm float64) float64 {
	return mm / mmPerInch
}

func KmhToMph(kmh float64) float64 {
	return kmh * mphPerKmh
}

func HPaToInHg(hPa float64) float64 {
	return hPa * hPaToInHg
}

// SeaLevelPressure reduces a station pressure at altitude metres with the
// scale height H = RdT/g: psl = p0 exp(z0/H).
func SeaLevelPressure(pressure, tempC, altitude float64) float64 {
	h := (rd * (tempC + kelvin)) / g
	return pressure * math.Exp(altitude/h)
}
