package sensors

import (
	"fmt"

	"github.com/gr-butler/sensornode/env"
	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/devices/v3/bmxx80"
)

/*
 * Sensors owns the hardware on the I2C bus and hands out scalar readers.
 */

type Sensors struct {
	Wind      *PCF8583
	Rain      *PCF8583
	Humidity  *Atmosphere // BME280
	Barometer *Atmosphere // BMP280
	Battery   *Voltage
	Panel     *Voltage

	// powered down before every sleep
	Peripherals []conn.Resource
}

func InitSensors(bus i2c.Bus) (*Sensors, error) {
	s := &Sensors{}
	var err error

	logger.Infof("Starting wind counter [%x]", env.WindCounterAddr)
	if s.Wind, err = NewPCF8583("wind", bus, env.WindCounterAddr); err != nil {
		return nil, err
	}
	logger.Infof("Starting rain counter [%x]", env.RainCounterAddr)
	if s.Rain, err = NewPCF8583("rain", bus, env.RainCounterAddr); err != nil {
		return nil, err
	}

	logger.Infof("Starting BME280 humidity sensor [%x]", env.HumiditySensorAddr)
	bme, err := bmxx80.NewI2C(bus, env.HumiditySensorAddr, &bmxx80.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bme280: %w", err)
	}
	s.Humidity = NewAtmosphere("bme280", bme)

	logger.Infof("Starting BMP280 pressure sensor [%x]", env.PressureSensorAddr)
	bmp, err := bmxx80.NewI2C(bus, env.PressureSensorAddr, &bmxx80.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bmp280: %w", err)
	}
	s.Barometer = NewAtmosphere("bmp280", bmp)

	logger.Infof("Starting voltage ADC [%x]", ads1x15.DefaultOpts.I2cAddress)
	adc, err := ads1x15.NewADS1115(bus, &ads1x15.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ads1115: %w", err)
	}
	battery, err := adc.PinForChannel(ads1x15.Channel0, 5*physic.Volt, 1*physic.Hertz, ads1x15.SaveEnergy)
	if err != nil {
		return nil, fmt.Errorf("battery channel: %w", err)
	}
	panel, err := adc.PinForChannel(ads1x15.Channel1, 5*physic.Volt, 1*physic.Hertz, ads1x15.SaveEnergy)
	if err != nil {
		return nil, fmt.Errorf("panel channel: %w", err)
	}
	s.Battery = NewVoltage("battery", battery, env.BatteryScale)
	s.Panel = NewVoltage("panel", panel, env.PanelScale)

	s.Peripherals = []conn.Resource{adc, bme, bmp}

	logger.Info("Sensors initialized.")
	return s, nil
}
