package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/gloworm-vision/labaccess/display"
	"github.com/gloworm-vision/labaccess/hardware"
	"github.com/gloworm-vision/labaccess/hardware/gpio"
	"github.com/gloworm-vision/labaccess/journal"
	"github.com/gloworm-vision/labaccess/monitor"
	"github.com/gloworm-vision/labaccess/server"
	"github.com/gloworm-vision/labaccess/store"
	"github.com/sirupsen/logrus"
)

func main() {
	addr := flag.String("addr", ":8080", "panel listen address")
	dbPath := flag.String("db", "labaccess.db", "settings database")
	backend := flag.String("backend", "", "gpio backend (pigpio, periph, rpio or sim), overrides the stored config")
	pigpioAddr := flag.String("pigpio", "localhost:8888", "pigpio daemon address")
	title := flag.String("title", "", "lab name shown on the display, overrides the stored title")
	debug := flag.Bool("debug", false, "log debug messages")
	flag.Parse()

	logger := logrus.New()
	if *debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	st, err := store.OpenBBolt(*dbPath, 0666, nil)
	if err != nil {
		logger.Fatalf("unable to open store: %s", err)
	}
	defer st.Close()

	config, err := st.HardwareConfig()
	if errors.Is(err, store.ErrNotFound) {
		logger.Warn("no hardware config found, using the simulated board")
		config = hardware.DefaultConfig()
	} else if err != nil {
		logger.Fatalf("unable to load hardware config: %s", err)
	}

	if *backend != "" {
		config, err = config.WithBackend(*backend, *pigpioAddr)
		if err != nil {
			logger.Fatal(err)
		}
	}
	if err := st.PutHardwareConfig(config); err != nil {
		logger.Warnf("unable to save hardware config: %s", err)
	}

	if *title != "" {
		if err := st.PutTitle(*title); err != nil {
			logger.Warnf("unable to save title: %s", err)
		}
	} else if stored, err := st.Title(); err == nil {
		*title = stored
	}

	board, err := hardware.New(config)
	if err != nil {
		logger.Fatalf("unable to set up hardware: %s", err)
	}
	defer board.Close()

	stream := display.NewStream()
	sinks := []display.Sink{stream}
	if config.Display.SSD1306 {
		oled, err := display.OpenSSD1306(config.Display.I2CBus)
		if err != nil {
			logger.Fatalf("unable to open display: %s", err)
		}
		defer oled.Close()

		sinks = append(sinks, oled)
	}

	events, err := journal.OpenBadger(journal.DefaultTTL, logger)
	if err != nil {
		logger.Fatalf("unable to open journal: %s", err)
	}
	defer events.Close()

	m := monitor.New(board, display.NewFramebuffer(sinks...), logger)
	m.Journal = events
	m.Title = *title

	sim, _ := board.GPIO().(*gpio.Sim)

	srv := server.Server{
		Addr:    *addr,
		Store:   st,
		Monitor: m,
		Journal: events,
		Logger:  logger,
		Stream:  stream,
		Sim:     sim,
		Pins:    config.Pins,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	monitorErrs := make(chan error, 1)
	go func() {
		monitorErrs <- m.Run(ctx)
	}()

	serverErrs := make(chan error, 1)
	go func() {
		serverErrs <- srv.Run(ctx)
	}()

	select {
	case err = <-monitorErrs:
		stop()
		<-serverErrs
	case err = <-serverErrs:
		stop()
		<-monitorErrs
	}
	if err != nil {
		logger.Errorf("stopped: %s", err)
	}

	logger.Info("shutting down")
}
