// Package route orders targets into the shortest walk and computes it in
// the background.
package route

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/udisondev/libroute/internal/geo"
	"github.com/udisondev/libroute/internal/routecache"
	"github.com/udisondev/libroute/internal/tsp"
)

// Options tunes a Service.
type Options struct {
	// ExactLimit is the largest node count (start + targets) solved exactly.
	ExactLimit int
	// CacheShards is the shard count of the distance and path caches.
	CacheShards int
}

// DefaultOptions returns Options with the exact solver limit at 13 nodes.
func DefaultOptions() Options {
	return Options{
		ExactLimit:  tsp.DefaultExactLimit,
		CacheShards: routecache.DefaultShards,
	}
}

type job[T Target] struct {
	position geo.Tile
	targets  []T
	epoch    uint64
}

// Service computes optimal routes through a fixed map.
//
// At most one computation runs at a time; it executes on the worker started
// by Run. Readers never block on it and always see the last published Result.
type Service[T Target] struct {
	finder     *geo.Pathfinder
	exactLimit int

	distances *routecache.Cache[int]
	paths     *routecache.Cache[[]geo.Tile]

	result  atomic.Pointer[Result[T]]
	running atomic.Bool
	started atomic.Bool

	jobs chan job[T]

	mu      sync.Mutex // guards epoch, stopped and job submission
	epoch   uint64
	stopped bool
}

// NewService creates an idle service. Call Run to start its worker.
func NewService[T Target](finder *geo.Pathfinder, opts Options) *Service[T] {
	if opts.ExactLimit <= 0 {
		opts.ExactLimit = tsp.DefaultExactLimit
	}
	return &Service[T]{
		finder:     finder,
		exactLimit: opts.ExactLimit,
		distances:  routecache.New[int](opts.CacheShards),
		paths:      routecache.New[[]geo.Tile](opts.CacheShards),
		jobs:       make(chan job[T], 1),
	}
}

// Run executes accepted computations until ctx is canceled.
// Requests made after Run returns are rejected.
func (s *Service[T]) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return errors.New("route service already started")
	}
	defer s.stop()

	slog.Info("route service started", "exact_limit", s.exactLimit)

	for {
		select {
		case <-ctx.Done():
			slog.Info("route service stopping")
			return ctx.Err()

		case j := <-s.jobs:
			s.execute(j)
		}
	}
}

func (s *Service[T]) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	select {
	case <-s.jobs:
		s.running.Store(false)
	default:
	}
}

// RequestCompute schedules a route from position through targets.
// It returns false without side effects when targets is empty, a
// computation is already running, or the service has stopped.
func (s *Service[T]) RequestCompute(position geo.Tile, targets []T) bool {
	if len(targets) == 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || !s.running.CompareAndSwap(false, true) {
		return false
	}

	// The slot is free whenever running was false.
	s.jobs <- job[T]{
		position: position,
		targets:  slices.Clone(targets),
		epoch:    s.epoch,
	}
	slog.Debug("route computation accepted", "position", position, "targets", len(targets))
	return true
}

// IsComputing reports whether a computation is accepted and not yet finished.
func (s *Service[T]) IsComputing() bool {
	return s.running.Load()
}

// Result returns the last published route, or nil if there is none.
func (s *Service[T]) Result() *Result[T] {
	return s.result.Load()
}

// NextTarget returns the first target in the published order that is more
// than one tile away from position.
func (s *Service[T]) NextTarget(position geo.Tile) (T, bool) {
	var zero T
	res := s.result.Load()
	if res == nil {
		return zero, false
	}
	for _, t := range res.Order {
		if position.DistanceTo(t.Location()) > 1 {
			return t, true
		}
	}
	return zero, false
}

// Clear drops every cached distance and path and the published result.
// A computation running during Clear completes but is not published.
func (s *Service[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.distances.Clear()
	s.paths.Clear()
	s.result.Store(nil)
	slog.Debug("route cache cleared", "epoch", s.epoch)
}

func (s *Service[T]) execute(j job[T]) {
	defer s.running.Store(false)
	defer func() {
		if r := recover(); r != nil {
			slog.Error("route computation panicked", "panic", r, "targets", len(j.targets))
		}
	}()

	res, err := s.compute(j.position, j.targets)
	if err != nil {
		slog.Error("route computation failed", "err", err, "targets", len(j.targets))
		return
	}
	s.publish(j.epoch, res)
}

func (s *Service[T]) publish(epoch uint64, res *Result[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		slog.Debug("discarding route computed before cache clear")
		return
	}
	s.result.Store(res)
	slog.Info("route computed",
		"waypoints", len(res.Path),
		"targets", len(res.Order),
		"missing", len(res.Missing))
}

func (s *Service[T]) compute(position geo.Tile, targets []T) (*Result[T], error) {
	locations := make([]geo.Tile, 0, len(targets)+1)
	locations = append(locations, position)
	for _, t := range targets {
		locations = append(locations, t.Location())
	}

	n := len(locations)
	dist := make([][]int, n)
	for i := range dist {
		dist[i] = make([]int, n)
	}
	for i := range n {
		for j := i + 1; j < n; j++ {
			d := s.Distance(locations[i], locations[j])
			dist[i][j] = d
			dist[j][i] = d
		}
	}

	order, err := tsp.Solve(dist, s.exactLimit)
	if err != nil {
		return nil, fmt.Errorf("ordering %d targets: %w", len(targets), err)
	}

	res := &Result[T]{
		Order: make([]T, 0, len(order)),
		Path:  make([]geo.Tile, 0, 64),
	}
	cur := position
	for i, idx := range order {
		target := targets[idx-1]
		res.Order = append(res.Order, target)

		segment, ok := s.path(cur, target.Location())
		if !ok {
			res.Missing = append(res.Missing, i)
		}
		if len(segment) > 0 && len(res.Path) > 0 && res.Path[len(res.Path)-1] == segment[0] {
			segment = segment[1:]
		}
		res.Path = append(res.Path, segment...)
		cur = target.Location()
	}
	return res, nil
}

// Distance returns the walking distance between two tiles, UnreachableCost
// when there is no path. Results are cached per unordered pair.
func (s *Service[T]) Distance(from, to geo.Tile) int {
	if from == to {
		return 0
	}
	pair, _ := routecache.NewPair(from, to)
	return s.distances.GetOrCompute(pair, func() int {
		path, ok := s.path(pair.A, pair.B)
		if !ok {
			return UnreachableCost
		}
		return len(path) - 1
	})
}

// Path returns the tiles walked from `from` to `to`, both inclusive.
// It is empty when from == to or when `to` is unreachable.
func (s *Service[T]) Path(from, to geo.Tile) []geo.Tile {
	path, ok := s.path(from, to)
	if !ok {
		return []geo.Tile{}
	}
	return path
}

// path returns a fresh copy of the cached path in the requested direction.
func (s *Service[T]) path(from, to geo.Tile) ([]geo.Tile, bool) {
	if from == to {
		return []geo.Tile{}, true
	}

	pair, swapped := routecache.NewPair(from, to)
	cached := s.paths.GetOrCompute(pair, func() []geo.Tile {
		path, _ := s.finder.ShortestPath(pair.A, pair.B)
		return path
	})
	if cached == nil {
		return nil, false
	}

	path := slices.Clone(cached)
	if swapped {
		slices.Reverse(path)
	}
	return path, true
}
