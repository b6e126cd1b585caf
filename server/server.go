package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gloworm-vision/labaccess/display"
	"github.com/gloworm-vision/labaccess/hardware"
	"github.com/gloworm-vision/labaccess/hardware/gpio"
	"github.com/gloworm-vision/labaccess/journal"
	"github.com/gloworm-vision/labaccess/monitor"
	"github.com/gloworm-vision/labaccess/store"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
)

// Server is the local panel of one lab monitor.
type Server struct {
	Addr string

	Store   store.Store
	Monitor *monitor.Monitor
	Journal journal.Journal
	Logger  *logrus.Logger

	// Stream, when set, is served at /display.
	Stream *display.Stream

	// Sim, when set, enables the simulated button routes.
	Sim  *gpio.Sim
	Pins hardware.Pins

	// FeedInterval is how often the monitor is sampled for the feed.
	FeedInterval time.Duration

	// ShutdownTimeout bounds how long Run waits for open requests on stop.
	ShutdownTimeout time.Duration

	hub          *hub
	pressManager *pressManager
}

func (s *Server) Run(ctx context.Context) error {
	s.init()

	httpServer := &http.Server{
		Addr:              s.Addr,
		Handler:           s.routes(),
		ReadTimeout:       time.Second * 15,
		ReadHeaderTimeout: time.Second * 15,
		IdleTimeout:       time.Second * 30,
		MaxHeaderBytes:    4096,
	}

	listenErrs := make(chan error, 1)
	go func() {
		s.Logger.WithField("addr", s.Addr).Info("serving http")
		listenErrs <- httpServer.ListenAndServe()
	}()

	feedCtx, cancelFeed := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.runFeed(feedCtx)
	}()
	defer func() {
		cancelFeed()
		wg.Wait()
	}()

	select {
	case err := <-listenErrs:
		return fmt.Errorf("unable to serve http: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
		defer cancel()

		// MJPEG clients never finish their response, so running out the
		// shutdown timeout is a normal stop.
		err := httpServer.Shutdown(shutdownCtx)
		if errors.Is(err, context.DeadlineExceeded) {
			s.Logger.Debug("closing http connections still open after shutdown timeout")
			return httpServer.Close()
		}

		return err
	}
}

func (s *Server) init() {
	if s.Logger == nil {
		s.Logger = logrus.New()
	}
	if s.FeedInterval <= 0 {
		s.FeedInterval = 200 * time.Millisecond
	}
	if s.ShutdownTimeout <= 0 {
		s.ShutdownTimeout = 5 * time.Second
	}

	s.hub = newHub(s.Logger)
	s.pressManager = &pressManager{sim: s.Sim, pins: s.Pins, hold: 150 * time.Millisecond}
}

func (s *Server) routes() http.Handler {
	mux := httprouter.New()

	mux.HandlerFunc(http.MethodGet, "/occupancy", s.getOccupancy)
	mux.HandlerFunc(http.MethodGet, "/events", s.getEvents)
	mux.HandlerFunc(http.MethodGet, "/feed", s.feed)

	if s.Stream != nil {
		mux.Handler(http.MethodGet, "/display", s.Stream.Stream)
	}

	mux.HandlerFunc(http.MethodGet, "/hardware", s.getHardware)
	mux.HandlerFunc(http.MethodPut, "/hardware", s.putHardware)
	mux.HandlerFunc(http.MethodGet, "/title", s.getTitle)
	mux.HandlerFunc(http.MethodPut, "/title", s.putTitle)

	mux.HandlerFunc(http.MethodPost, "/rpc/reset", s.reset)
	mux.HandlerFunc(http.MethodPost, "/rpc/press/:button", s.press)
	mux.HandlerFunc(http.MethodPost, "/rpc/release/:button", s.release)
	mux.HandlerFunc(http.MethodPost, "/rpc/click/:button", s.click)

	return mux
}

// runFeed samples the monitor every FeedInterval and broadcasts snapshots
// that differ from the previous one.
func (s *Server) runFeed(ctx context.Context) {
	go s.hub.run(ctx)

	ticker := time.NewTicker(s.FeedInterval)
	defer ticker.Stop()

	var last monitor.Snapshot
	first := true

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := s.Monitor.Snapshot()
			if !first && snap == last {
				continue
			}

			first = false
			last = snap
			s.hub.broadcastJSON(snap)
		}
	}
}
