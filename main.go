package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gr-butler/sensornode/derived"
	"github.com/gr-butler/sensornode/env"
	"github.com/gr-butler/sensornode/led"
	"github.com/gr-butler/sensornode/power"
	"github.com/gr-butler/sensornode/radio"
	"github.com/gr-butler/sensornode/reporting"
	"github.com/gr-butler/sensornode/scheduler"
	"github.com/gr-butler/sensornode/sensors"
	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

const version = "GRB-SensorNode-2.0.0"

const (
	wowSiteID   = "WOWSITEID"
	wowPin      = "WOWPIN"
	databaseURL = "DATABASE_URL"
	mqttBroker  = "MQTT_BROKER"
)

func main() {
	logger.Infof("Starting sensor node [%v]", version)

	// a missing .env is normal, the variables may come from the service unit
	if err := godotenv.Load(); err != nil {
		logger.Debugf("No .env loaded [%v]", err)
	}

	args, err := env.ParseArgs(flag.CommandLine, os.Args[1:])
	if err != nil {
		logger.Errorf("Bad arguments [%v]", err)
		logger.Exit(2)
	}
	if *args.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}
	if *args.Test {
		logger.Info("TEST MODE")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, args); err != nil && !errors.Is(err, context.Canceled) {
		logger.Errorf("Sensor node stopped [%v]", err)
		logger.Exit(1)
	}
	logger.Info("Exiting...")
}

func run(ctx context.Context, args env.Args) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	bus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("failed to open I2C: %w", err)
	}
	defer bus.Close()

	s, err := sensors.InitSensors(bus)
	if err != nil {
		return fmt.Errorf("failed to initialise sensors: %w", err)
	}

	transport, closer, err := openTransport(args)
	if err != nil {
		return err
	}
	defer closer()

	clock := clockwork.NewRealClock()
	opts := radio.Options{
		Settle:     env.RadioSettle,
		Spacing:    env.RadioSpacing,
		SleepLevel: gpio.High,
	}
	if p := gpioreg.ByName(env.RadioSleep); p != nil {
		opts.SleepPin = p
	} else {
		logger.Warnf("No radio sleep pin [%v], radio stays powered", env.RadioSleep)
	}
	manager := radio.NewManager(transport, clock, opts)

	cfg := scheduler.Config{
		Node:         env.NodeID,
		MeasureEvery: env.MeasureEvery,
		SendEvery:    env.SendEvery,
		Warmup:       env.SensorWarmup,
		DewPoint:     derived.DewPointNOAA,
		GustWindow:   env.GustWindow,
	}
	hw := scheduler.Hardware{
		Wind:        s.Wind,
		Rain:        s.Rain,
		Temperature: s.Humidity.Temperature(),
		Humidity:    s.Humidity.Humidity(),
		BaroTemp:    s.Barometer.Temperature(),
		Pressure:    s.Barometer.Pressure(),
		Battery:     s.Battery,
		Panel:       s.Panel,
	}
	node, err := scheduler.New(cfg, hw, manager, clock)
	if err != nil {
		return err
	}
	node.SetActivityLED(led.NewLED("activity", env.ActivityLed, env.ActivityFlash))

	reg := prometheus.NewRegistry()
	recorders, err := buildRecorders(args, reg)
	if err != nil {
		return err
	}
	for _, r := range recorders {
		logger.Infof("Recording reports to [%v]", r.Name())
		node.AddRecorder(r)
	}
	if *args.Metrics != "" {
		go serveMetrics(*args.Metrics, reg)
	}

	if err := manager.Announce("STARTED"); err != nil {
		logger.Errorf("Startup announcement failed [%v]", err)
	}
	node.Prime()

	logger.Infof("Measuring every [%v] ticks, sending every [%v] ticks of [%v]", cfg.MeasureEvery, cfg.SendEvery, env.SleepQuantum)
	return node.Run(ctx, power.NewSleeper(clock, env.SleepQuantum, s.Peripherals...))
}

// openTransport picks the radio link. The returned func releases it.
func openTransport(args env.Args) (radio.Transport, func(), error) {
	switch *args.Transport {
	case "mqtt":
		broker, ok := os.LookupEnv(mqttBroker)
		if !ok {
			return nil, nil, fmt.Errorf("%v must be set for the mqtt transport", mqttBroker)
		}
		client, err := radio.ConnectMQTT(broker, "sensornode-"+env.NodeID)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof("Sending over MQTT [%v]", broker)
		return radio.NewMQTT(client, "sensornode/"+env.NodeID), func() { client.Disconnect(250) }, nil
	default:
		port, err := radio.OpenSerial(*args.Serial, env.RadioBaud)
		if err != nil {
			return nil, nil, err
		}
		t, err := radio.NewLLAP(port, env.NodeID)
		if err != nil {
			port.Close()
			return nil, nil, err
		}
		logger.Infof("Sending LLAP on [%v] at [%v] baud", *args.Serial, env.RadioBaud)
		return t, func() { port.Close() }, nil
	}
}

// buildRecorders returns the report sinks enabled by flags and environment.
// Test mode keeps reports on the radio and the local gauges only.
func buildRecorders(args env.Args, reg prometheus.Registerer) ([]reporting.Recorder, error) {
	var out []reporting.Recorder

	if *args.Metrics != "" {
		g, err := reporting.NewGauges(reg)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if *args.Test {
		return out, nil
	}

	if dsn, ok := os.LookupEnv(databaseURL); ok && dsn != "" {
		db, err := reporting.OpenPostgres(dsn)
		if err != nil {
			logger.Errorf("Database unavailable, not recording [%v]", err)
		} else {
			out = append(out, reporting.NewPostgres(db))
		}
	}

	if !*args.NoWow {
		id, idOK := os.LookupEnv(wowSiteID)
		pin, pinOK := os.LookupEnv(wowPin)
		if idOK && pinOK {
			out = append(out, reporting.NewWOW(id, pin, version, env.Altitude))
		} else {
			logger.Warnf("%v or %v not set, not uploading to WOW", wowSiteID, wowPin)
		}
	}
	return out, nil
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	logger.Infof("Serving metrics on [%v]", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Errorf("Metrics server stopped [%v]", err)
	}
}
