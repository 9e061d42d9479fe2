package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"deliverydash/internal/model"
)

const (
	EndpointStats   = "/dashboard/stats/"
	EndpointMonthly = "/dashboard/monthly/"
	EndpointRecent  = "/dashboard/recent/"
)

// LoadErrorMessage is the only failure text a renderer ever sees.
const LoadErrorMessage = "Error al cargar los datos del dashboard"

var ErrSuperseded = errors.New("dashboard load superseded by a newer load")

type Fetcher interface {
	Fetch(ctx context.Context, endpoint string, out any) error
}

type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseError   Phase = "error"
	PhaseReady   Phase = "ready"
)

// LoadState is the dashboard's render state. Message is set only in
// PhaseError; Snapshot, Monthly and Recent only in PhaseReady.
type LoadState struct {
	Phase      Phase
	Message    string
	Snapshot   model.DashboardSnapshot
	Monthly    []model.MonthlyPoint
	Recent     []model.OrderSummary
	Generation uint64
}

func (s LoadState) clone() LoadState {
	s.Monthly = slices.Clone(s.Monthly)
	s.Recent = slices.Clone(s.Recent)
	return s
}

// DashboardLoadError hides the failing fetch behind LoadErrorMessage.
// Unwrap exposes the cause for logging only.
type DashboardLoadError struct {
	Generation uint64
	Err        error
}

func (e *DashboardLoadError) Error() string { return LoadErrorMessage }

func (e *DashboardLoadError) Unwrap() error { return e.Err }

type DashboardViewModel struct {
	fetcher Fetcher
	log     *slog.Logger

	mu         sync.Mutex
	state      LoadState
	generation uint64
	cancel     context.CancelFunc
	subs       map[chan LoadState]struct{}
}

func NewDashboardViewModel(fetcher Fetcher, log *slog.Logger) *DashboardViewModel {
	return &DashboardViewModel{
		fetcher: fetcher,
		log:     log,
		state:   LoadState{Phase: PhaseLoading},
		subs:    make(map[chan LoadState]struct{}),
	}
}

// Load fetches stats, the monthly series and recent orders concurrently and
// installs them as one Ready state, or moves to Error if any fetch fails.
// Starting a Load cancels the one in flight; a load that was overtaken
// leaves the state alone and returns ErrSuperseded.
func (vm *DashboardViewModel) Load(ctx context.Context) (LoadState, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	vm.mu.Lock()
	if vm.cancel != nil {
		vm.cancel()
	}
	vm.generation++
	gen := vm.generation
	vm.cancel = cancel
	vm.setLocked(LoadState{Phase: PhaseLoading, Generation: gen})
	vm.mu.Unlock()

	var (
		stats   model.DashboardSnapshot
		monthly []model.MonthlyPoint
		recent  []model.OrderSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return vm.fetcher.Fetch(gctx, EndpointStats, &stats) })
	g.Go(func() error { return vm.fetcher.Fetch(gctx, EndpointMonthly, &monthly) })
	g.Go(func() error { return vm.fetcher.Fetch(gctx, EndpointRecent, &recent) })
	err := g.Wait()

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if gen != vm.generation {
		vm.log.Debug("discarding superseded dashboard load", "generation", gen, "current", vm.generation)
		return vm.state.clone(), ErrSuperseded
	}
	vm.cancel = nil

	if err != nil {
		vm.log.Error("dashboard data loading failed", "generation", gen, "error", err)
		vm.setLocked(LoadState{Phase: PhaseError, Message: LoadErrorMessage, Generation: gen})
		return vm.state.clone(), &DashboardLoadError{Generation: gen, Err: err}
	}

	vm.setLocked(LoadState{
		Phase:      PhaseReady,
		Snapshot:   stats,
		Monthly:    monthly,
		Recent:     recent,
		Generation: gen,
	})
	return vm.state.clone(), nil
}

func (vm *DashboardViewModel) Retry(ctx context.Context) (LoadState, error) { return vm.Load(ctx) }

func (vm *DashboardViewModel) Refresh(ctx context.Context) (LoadState, error) { return vm.Load(ctx) }

func (vm *DashboardViewModel) State() LoadState {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state.clone()
}

// Subscribe returns a channel that receives the current state immediately
// and every later transition. A slow reader only ever misses intermediate
// states, never the latest one.
func (vm *DashboardViewModel) Subscribe() (<-chan LoadState, func()) {
	ch := make(chan LoadState, 1)

	vm.mu.Lock()
	vm.subs[ch] = struct{}{}
	ch <- vm.state.clone()
	vm.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			vm.mu.Lock()
			delete(vm.subs, ch)
			close(ch)
			vm.mu.Unlock()
		})
	}
	return ch, cancel
}

// setLocked must be called with vm.mu held.
func (vm *DashboardViewModel) setLocked(s LoadState) {
	vm.state = s
	for ch := range vm.subs {
		select {
		case ch <- s.clone():
		default:
			select {
			case <-ch:
			default:
			}
			ch <- s.clone()
		}
	}
}
