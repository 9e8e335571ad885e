// Package session ties the asset store, the view-state controller and the
// projection together for one dashboard session.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	apperrors "github.com/asset-dashboard/internal/errors"
	"github.com/asset-dashboard/internal/logging"
	"github.com/asset-dashboard/internal/projection"
	"github.com/asset-dashboard/internal/store"
	"github.com/asset-dashboard/internal/types"
	"github.com/asset-dashboard/internal/viewstate"
)

// PlaceholderCount is the number of skeleton entries shown while loading
const PlaceholderCount = 3

// DefaultSettleDelay separates a successful load from isLoaded
const DefaultSettleDelay = 300 * time.Millisecond

// Options configures a Session. Zero values get defaults.
type Options struct {
	ID          string
	SettleDelay time.Duration
	LoadTimeout time.Duration
	Clock       clock.Clock
	Identity    viewstate.IdentityProvider
	Logger      *logging.Logger
}

// View is everything the presentation layer renders for one frame
type View struct {
	SessionID       string            `json:"sessionId"`
	Loaded          bool              `json:"loaded"`
	Placeholders    int               `json:"placeholders"`
	Wallet          *string           `json:"wallet"`
	FilterMineOnly  bool              `json:"filterMineOnly"`
	SortKey         types.SortKey     `json:"sortKey"`
	SelectedAssetID *int64            `json:"selectedAssetId"`
	Assets          []projection.Card `json:"assets"`
	Detail          *projection.Card  `json:"detail"`
}

// Session owns one ViewState for its whole lifetime. Intents are serialized
// so each is atomic with respect to the others and to the load completion.
type Session struct {
	id          string
	store       *store.AssetStore
	clock       clock.Clock
	settleDelay time.Duration
	loadTimeout time.Duration
	logger      *logging.Logger
	done        chan struct{}

	mu         sync.Mutex
	controller *viewstate.Controller
	started    bool
	closed     bool
	cancel     context.CancelFunc
	timer      *clock.Timer
	loadErr    error
}

// New creates a session over st. Nothing is fetched until Start.
func New(st *store.AssetStore, opts Options) *Session {
	if opts.ID == "" {
		opts.ID = uuid.New().String()
	}
	if opts.SettleDelay == 0 {
		opts.SettleDelay = DefaultSettleDelay
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = logging.GetGlobalLogger()
	}

	return &Session{
		id:          opts.ID,
		store:       st,
		clock:       opts.Clock,
		settleDelay: opts.SettleDelay,
		loadTimeout: opts.LoadTimeout,
		logger:      opts.Logger.WithSession(opts.ID),
		done:        make(chan struct{}),
		controller:  viewstate.NewController(opts.Identity),
	}
}

// ID returns the session id
func (s *Session) ID() string { return s.id }

// Start triggers the single asset load in the background. On success the
// session becomes loaded one settle delay later.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return apperrors.NewSessionClosedError()
	}
	if s.started {
		return apperrors.NewAlreadyLoadedError()
	}
	s.started = true

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.logger.WithField("source", s.store.SourceName()).Info("Session started, loading assets")
	go s.run(runCtx)
	return nil
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)

	loadCtx := logging.WithLogger(ctx, s.logger)
	if s.loadTimeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(loadCtx, s.loadTimeout)
		defer cancel()
	}

	_, err := s.store.Load(loadCtx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if err != nil {
		s.loadErr = err
		s.logger.Warn("Assets unavailable, dashboard stays in loading state")
		return
	}

	s.timer = s.clock.AfterFunc(s.settleDelay, s.markLoaded)
}

func (s *Session) markLoaded() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.controller.MarkLoaded()
	s.logger.WithField("assets", s.store.Len()).Info("Dashboard loaded")
}

// Done is closed once the load attempt has finished, whatever its outcome
func (s *Session) Done() <-chan struct{} { return s.done }

// LoadErr returns the load failure, if any
func (s *Session) LoadErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Close tears the session down: a pending load is cancelled and a pending
// settle timer is stopped, so no state changes after Close returns.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.logger.Info("Session closed")
}

// Closed reports whether Close has been called
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// State returns a snapshot of the view state
func (s *Session) State() viewstate.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.State()
}

// Loaded reports the isLoaded flag
func (s *Session) Loaded() bool {
	return s.State().IsLoaded
}

// apply runs an intent under the session lock and returns the resulting view
func (s *Session) apply(intent func(c *viewstate.Controller) error) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return View{}, apperrors.NewSessionClosedError()
	}
	if err := intent(s.controller); err != nil {
		return s.viewLocked(), err
	}
	return s.viewLocked(), nil
}

// ToggleWallet connects or disconnects the simulated wallet
func (s *Session) ToggleWallet() (View, error) {
	return s.apply(func(c *viewstate.Controller) error {
		c.ToggleWallet()
		return nil
	})
}

// ToggleFilterMineOnly flips the "mine only" filter
func (s *Session) ToggleFilterMineOnly() (View, error) {
	return s.apply(func(c *viewstate.Controller) error {
		c.ToggleFilterMineOnly()
		return nil
	})
}

// SetSortKey changes the sort key; invalid keys return INVALID_SORT_KEY
// together with the unchanged view.
func (s *Session) SetSortKey(key types.SortKey) (View, error) {
	return s.apply(func(c *viewstate.Controller) error {
		return c.SetSortKey(key)
	})
}

// SelectAsset opens (id != nil) or closes (id == nil) the detail view
func (s *Session) SelectAsset(id *int64) (View, error) {
	return s.apply(func(c *viewstate.Controller) error {
		c.SelectAsset(id)
		return nil
	})
}

// View renders the current frame
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	state := s.controller.State()
	assets := s.store.Assets()

	v := View{
		SessionID:       s.id,
		Loaded:          state.IsLoaded,
		Wallet:          state.WalletIdentity,
		FilterMineOnly:  state.FilterMineOnly,
		SortKey:         state.SortKey,
		SelectedAssetID: state.SelectedAssetID,
		Assets:          []projection.Card{},
	}

	if state.IsLoaded {
		v.Assets = projection.Cards(assets, state)
	} else {
		v.Placeholders = PlaceholderCount
	}

	if detail, ok := projection.DetailPayload(assets, state); ok {
		card := projection.CardFor(detail, state)
		v.Detail = &card
	}

	return v
}

// Asset looks up a single asset card by id without changing the selection
func (s *Session) Asset(id int64) (projection.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.controller.State()
	lookup := state
	lookup.SelectedAssetID = &id

	a, ok := projection.DetailPayload(s.store.Assets(), lookup)
	if !ok {
		return projection.Card{}, false
	}
	return projection.CardFor(a, state), true
}
