package main

import (
	"flag"
	"time"

	"github.com/gloworm-vision/labaccess/hardware"
	"github.com/gloworm-vision/labaccess/monitor"
	"github.com/gloworm-vision/labaccess/occupancy"
	"github.com/sirupsen/logrus"
)

// gpio checks the wiring of a lab board: it steps the LED through every
// status color, plays both alerts and then logs button presses.
func main() {
	backend := flag.String("backend", "pigpio", "gpio backend (pigpio, periph, rpio or sim)")
	pigpioAddr := flag.String("pigpio", "localhost:8888", "pigpio daemon address")
	watch := flag.Duration("watch", 10*time.Second, "how long to log button presses")
	flag.Parse()

	logger := logrus.New()

	config, err := hardware.DefaultConfig().WithBackend(*backend, *pigpioAddr)
	if err != nil {
		logger.Fatal(err)
	}

	board, err := hardware.New(config)
	if err != nil {
		logger.Fatal(err)
	}
	defer board.Close()

	for _, status := range []occupancy.Status{occupancy.Empty, occupancy.Normal, occupancy.NearFull, occupancy.Full} {
		color := status.Color()
		if err := board.SetColor(color.Red, color.Green, color.Blue); err != nil {
			logger.Fatal(err)
		}

		logger.WithField("status", status).Info("showing status color")
		time.Sleep(time.Second)
	}

	alert := monitor.NewAlert(board)
	logger.Info("beep")
	if err := alert.Beep(); err != nil {
		logger.Fatal(err)
	}
	time.Sleep(500 * time.Millisecond)
	logger.Info("chime")
	if err := alert.Chime(); err != nil {
		logger.Fatal(err)
	}

	if err := board.OnReset(func() { logger.Info("reset edge") }); err != nil {
		logger.Fatal(err)
	}

	buttons := []hardware.Button{hardware.EntryButton, hardware.ExitButton, hardware.ResetButton}
	last := make(map[hardware.Button]bool)

	deadline := time.Now().Add(*watch)
	for time.Now().Before(deadline) {
		for _, b := range buttons {
			pressed, err := board.Pressed(b)
			if err != nil {
				logger.Fatal(err)
			}

			if pressed != last[b] {
				logger.WithFields(logrus.Fields{"button": b, "pressed": pressed}).Info("button changed")
				last[b] = pressed
			}
		}

		time.Sleep(10 * time.Millisecond)
	}
}
