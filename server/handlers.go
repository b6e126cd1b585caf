package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gloworm-vision/labaccess/hardware"
	"github.com/gloworm-vision/labaccess/store"
	"github.com/julienschmidt/httprouter"
)

const defaultEventLimit = 50

func (s *Server) getOccupancy(res http.ResponseWriter, req *http.Request) {
	respond(res, s.Monitor.Snapshot(), http.StatusOK)
}

func (s *Server) getEvents(res http.ResponseWriter, req *http.Request) {
	if s.Journal == nil {
		respond(res, errors.New("no journal configured"), http.StatusNotFound)
		return
	}

	limit := defaultEventLimit
	if raw := req.URL.Query().Get("limit"); raw != "" {
		var err error
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			respond(res, fmt.Errorf("invalid limit %q", raw), http.StatusBadRequest)
			return
		}
	}

	events, err := s.Journal.List(limit)
	if err != nil {
		respond(res, err, http.StatusInternalServerError)
		return
	}

	respond(res, events, http.StatusOK)
}

func (s *Server) getHardware(res http.ResponseWriter, req *http.Request) {
	config, err := s.Store.HardwareConfig()
	if errors.Is(err, store.ErrNotFound) {
		respond(res, err, http.StatusNotFound)
		return
	}
	if err != nil {
		respond(res, err, http.StatusInternalServerError)
		return
	}

	respond(res, config, http.StatusOK)
}

// putHardware stores a new hardware config. Fields missing from the body keep
// their defaults. It takes effect on the next start, since the board can't be
// swapped under running tasks.
func (s *Server) putHardware(res http.ResponseWriter, req *http.Request) {
	config := hardware.DefaultConfig()
	config.Sim = nil

	if err := json.NewDecoder(req.Body).Decode(&config); err != nil {
		respond(res, err, http.StatusUnprocessableEntity)
		return
	}

	if config.Backend() == "" {
		respond(res, hardware.ErrUnknownBackend, http.StatusUnprocessableEntity)
		return
	}

	if err := config.Pins.Validate(); err != nil {
		respond(res, err, http.StatusUnprocessableEntity)
		return
	}

	if err := s.Store.PutHardwareConfig(config); err != nil {
		respond(res, err, http.StatusInternalServerError)
		return
	}

	respond(res, nil, http.StatusNoContent)
}

func (s *Server) getTitle(res http.ResponseWriter, req *http.Request) {
	title, err := s.Store.Title()
	if errors.Is(err, store.ErrNotFound) {
		respond(res, err, http.StatusNotFound)
		return
	}
	if err != nil {
		respond(res, err, http.StatusInternalServerError)
		return
	}

	respond(res, title, http.StatusOK)
}

func (s *Server) putTitle(res http.ResponseWriter, req *http.Request) {
	var title string
	if err := json.NewDecoder(req.Body).Decode(&title); err != nil {
		respond(res, err, http.StatusUnprocessableEntity)
		return
	}

	if err := s.Store.PutTitle(title); err != nil {
		respond(res, err, http.StatusInternalServerError)
		return
	}

	respond(res, nil, http.StatusNoContent)
}

func (s *Server) reset(res http.ResponseWriter, req *http.Request) {
	s.Monitor.RequestReset()

	respond(res, nil, http.StatusAccepted)
}

func buttonParam(req *http.Request) (hardware.Button, error) {
	params := httprouter.ParamsFromContext(req.Context())
	return hardware.ParseButton(params.ByName("button"))
}

func (s *Server) buttonAction(res http.ResponseWriter, req *http.Request, action func(hardware.Button) error) {
	button, err := buttonParam(req)
	if err != nil {
		respond(res, err, http.StatusNotFound)
		return
	}

	if err := action(button); err != nil {
		if errors.Is(err, errNoSim) {
			respond(res, err, http.StatusConflict)
			return
		}

		respond(res, err, http.StatusInternalServerError)
		return
	}

	respond(res, nil, http.StatusNoContent)
}

func (s *Server) press(res http.ResponseWriter, req *http.Request) {
	s.buttonAction(res, req, s.pressManager.Press)
}

func (s *Server) release(res http.ResponseWriter, req *http.Request) {
	s.buttonAction(res, req, s.pressManager.Release)
}

func (s *Server) click(res http.ResponseWriter, req *http.Request) {
	s.buttonAction(res, req, s.pressManager.Click)
}
