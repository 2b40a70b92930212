package state

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/services"
)

// Result is the outcome of running a [Request].
type Result struct {
	Request Request
	Tracks  []models.Track
	Err     error
}

// Run executes req against searcher without touching any [State]; feed the result to [State.Resolve].
//
// Failures are logged and returned; cancellations of superseded requests are logged at debug level.
func Run(ctx context.Context, searcher services.Searcher, req Request, logger *log.Logger) Result {
	if req.Skip {
		return Result{Request: req}
	}

	tracks, err := searcher.Search(ctx, req.Query)
	if err != nil && logger != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("search superseded", "query", req.Query, "seq", req.Seq)
		} else {
			logger.Error("search failed", "query", req.Query, "seq", req.Seq, "error", err)
		}
	}
	return Result{Request: req, Tracks: tracks, Err: err}
}

// Apply resolves res against s.
func (s *State) Apply(res Result) bool {
	return s.Resolve(res.Request, res.Tracks, res.Err)
}

// Inflight holds the cancel function of the latest outstanding search.
//
// Like [State], it belongs to a single owner.
type Inflight struct {
	cancel context.CancelFunc
}

// Start cancels the previous search and derives the context for the next one.
func (f *Inflight) Start(parent context.Context) context.Context {
	f.Stop()
	ctx, cancel := context.WithCancel(parent)
	f.cancel = cancel
	return ctx
}

// Stop cancels the outstanding search, if any.
func (f *Inflight) Stop() {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}
