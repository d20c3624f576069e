package weather

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// DefaultBackdropQuery is the image search term used by Bootstrap.
const DefaultBackdropQuery = "weather"

// Orchestrator owns the query state of one session. It validates input,
// calls the weather provider and then, on success, the image provider.
type Orchestrator struct {
	weather       Provider
	images        ImageProvider
	backdropQuery string
	listener      func(QueryState)
	logger        *slog.Logger

	mu    sync.RWMutex
	state QueryState
	// seq identifies the latest submission; results of older ones are dropped.
	seq uint64
	// pending holds transitions not yet delivered to the listener, in the
	// order they were installed. Guarded by mu.
	pending []QueryState

	// notifyMu serializes listener calls.
	notifyMu sync.Mutex
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithBackdropQuery overrides the search term used by Bootstrap.
func WithBackdropQuery(query string) Option {
	return func(o *Orchestrator) {
		if strings.TrimSpace(query) != "" {
			o.backdropQuery = query
		}
	}
}

// WithStateListener registers fn to be called after every state transition.
// Calls are serialized and arrive in the order the transitions were applied,
// even with overlapping submissions. fn may call State but must not call
// Submit or Bootstrap.
func WithStateListener(fn func(QueryState)) Option {
	return func(o *Orchestrator) {
		o.listener = fn
	}
}

// WithLogger sets the logger used for swallowed image failures and stale results.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOrchestrator creates an Orchestrator in PhaseIdle.
func NewOrchestrator(weather Provider, images ImageProvider, opts ...Option) (*Orchestrator, error) {
	if weather == nil {
		return nil, fmt.Errorf("weather provider cannot be nil")
	}
	if images == nil {
		return nil, fmt.Errorf("image provider cannot be nil")
	}

	o := &Orchestrator{
		weather:       weather,
		images:        images,
		backdropQuery: DefaultBackdropQuery,
		logger:        slog.Default(),
		state:         QueryState{Phase: PhaseIdle},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// State returns a copy of the current state.
func (o *Orchestrator) State() QueryState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// Bootstrap fetches a backdrop photo for the default query so presenters have
// something to show before the first search. Failures are logged and otherwise
// ignored; the query phase is never touched.
func (o *Orchestrator) Bootstrap(ctx context.Context) {
	img, err := o.images.FetchImage(ctx, o.backdropQuery)
	if err != nil {
		o.logger.Debug("backdrop fetch failed",
			slog.String("provider", o.images.Name()),
			slog.String("query", o.backdropQuery),
			slog.Any("error", err),
		)
		return
	}

	o.mu.Lock()
	if o.state.Backdrop != nil {
		// A search already produced a more relevant photo.
		o.mu.Unlock()
		return
	}
	next := o.state
	next.Backdrop = &img
	o.installLocked(next)
	o.mu.Unlock()

	o.flush()
}

// Submit runs one query for rawInput and returns the resulting state. It blocks
// until the weather fetch and, if that succeeded, the image fetch resolve. When a
// newer Submit started in the meantime, this call's results are discarded and the
// current state is returned instead.
func (o *Orchestrator) Submit(ctx context.Context, rawInput string) QueryState {
	// Clone so the state never aliases a caller-owned buffer.
	place := strings.Clone(strings.TrimSpace(rawInput))

	o.mu.Lock()
	o.seq++
	token := o.seq
	backdrop := o.state.Backdrop
	current := QueryState{Phase: PhaseLoading, Place: place, Backdrop: backdrop}
	if place == "" {
		current = QueryState{Phase: PhaseFailed, Err: ErrInvalidInput(), Backdrop: backdrop}
	}
	o.installLocked(current)
	o.mu.Unlock()
	o.flush()

	if place == "" {
		return current
	}

	report, err := o.weather.FetchWeather(ctx, place)
	if err != nil {
		classified := AsError(err)
		next, ok := o.commit(token, func(s *QueryState) {
			s.Phase = PhaseFailed
			s.Err = classified
			s.Report = nil
			s.Image = nil
		})
		if !ok {
			return o.State()
		}
		return next
	}

	if _, ok := o.commit(token, func(s *QueryState) {
		s.Phase = PhaseSuccess
		s.Report = &report
		s.Err = nil
	}); !ok {
		return o.State()
	}

	img, err := o.images.FetchImage(ctx, place)
	if err != nil {
		o.logger.Info("image fetch failed",
			slog.String("provider", o.images.Name()),
			slog.String("place", place),
			slog.Any("error", err),
		)
		return o.State()
	}

	next, ok := o.commit(token, func(s *QueryState) {
		s.Image = &img
		s.Backdrop = &img
	})
	if !ok {
		return o.State()
	}
	return next
}

// commit applies mutate to a copy of the state and installs it, unless a newer
// submission has started since token was issued.
func (o *Orchestrator) commit(token uint64, mutate func(*QueryState)) (QueryState, bool) {
	o.mu.Lock()
	if token != o.seq {
		o.mu.Unlock()
		o.logger.Debug("discarding stale query result", slog.Uint64("token", token))
		return QueryState{}, false
	}
	next := o.state
	mutate(&next)
	o.installLocked(next)
	o.mu.Unlock()

	o.flush()
	return next, true
}

// installLocked replaces the state and queues it for the listener.
// o.mu must be held.
func (o *Orchestrator) installLocked(s QueryState) {
	o.state = s
	if o.listener != nil {
		o.pending = append(o.pending, s)
	}
}

// flush delivers queued transitions to the listener. Whichever goroutine holds
// notifyMu drains the queue, so delivery order matches install order.
func (o *Orchestrator) flush() {
	if o.listener == nil {
		return
	}

	o.notifyMu.Lock()
	defer o.notifyMu.Unlock()

	for {
		o.mu.Lock()
		if len(o.pending) == 0 {
			o.mu.Unlock()
			return
		}
		s := o.pending[0]
		o.pending[0] = QueryState{}
		o.pending = o.pending[1:]
		o.mu.Unlock()

		o.listener(s)
	}
}
