// Package dashboard runs one pipeline per page: fetch, derive, and classify
// the outcome into a page state the web layer renders.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"

	"StockTracker/internal/collector"
	"StockTracker/internal/news"
	"StockTracker/internal/recorder"
)

// State is the outcome of one page render.
type State string

const (
	StateOK            State = "ok"
	StateNoData        State = "no_data"
	StateConfigWarning State = "config_warning"
	StateError         State = "error"
)

// Status is embedded in every page result.
type Status struct {
	State   State    `json:"state"`
	Message string   `json:"message,omitempty"`
	Notes   []string `json:"notes,omitempty"`
}

func okStatus() Status { return Status{State: StateOK} }

// OK reports whether the page rendered its data.
func (s *Status) OK() bool { return s.State == StateOK }

// Note attaches an informational line shown above the page content.
func (s *Status) Note(format string, args ...any) {
	s.Notes = append(s.Notes, fmt.Sprintf(format, args...))
}

// fail records err as the terminal outcome of the page.
func (s *Status) fail(page string, err error) {
	s.State, s.Message = Classify(err)
	if s.State == StateError {
		log.Printf("[ERROR] %s page: %v", page, err)
	} else {
		log.Printf("[WARN] %s page: %v", page, err)
	}
}

// Classify maps a pipeline error to a page state and a user-facing message.
func Classify(err error) (State, string) {
	switch {
	case err == nil:
		return StateOK, ""
	case errors.Is(err, collector.ErrMissingAPIKey):
		return StateConfigWarning, "A data provider API key is not configured. Add it to .env or the environment and restart."
	case errors.Is(err, collector.ErrNoData):
		return StateNoData, "No data found. Check the ticker symbol and time period."
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return StateError, "The data provider did not answer in time. Try again."
	default:
		return StateError, fmt.Sprintf("Failed to load data: %v", err)
	}
}

// Dashboard holds the components the page pipelines compose.
type Dashboard struct {
	Collector *collector.Collector
	NewsSvc   *news.Service
	Recorder  recorder.Recorder
	Universe  []string
	NewsLimit int
}

// New creates a Dashboard. An empty universe falls back to collector.DefaultUniverse.
func New(col *collector.Collector, ns *news.Service, rec recorder.Recorder, universe []string) *Dashboard {
	if len(universe) == 0 {
		universe = collector.DefaultUniverse
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Dashboard{
		Collector: col,
		NewsSvc:   ns,
		Recorder:  rec,
		Universe:  universe,
		NewsLimit: 20,
	}
}
