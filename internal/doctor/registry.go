package doctor

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Registry holds the checkers, in registration order, and the fixers keyed
// by FixID.
type Registry struct {
	mu       sync.RWMutex
	checkers []HealthChecker
	fixers   map[string]Fixer
}

func NewRegistry() *Registry {
	return &Registry{fixers: make(map[string]Fixer)}
}

func (r *Registry) RegisterChecker(checker HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.checkers = append(r.checkers, checker)
}

// RegisterFixer adds fixer, replacing any fixer with the same ID.
func (r *Registry) RegisterFixer(fixer Fixer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fixers[fixer.ID()] = fixer
}

// Select returns the checkers in categories, or every checker when
// categories is empty.
func (r *Registry) Select(categories []Category) []HealthChecker {
	return r.filter(func(c HealthChecker) bool {
		return len(categories) == 0 || slices.Contains(categories, c.Category())
	})
}

// Named returns the checkers whose Name is in names.
func (r *Registry) Named(names []string) []HealthChecker {
	return r.filter(func(c HealthChecker) bool {
		return slices.Contains(names, c.Name())
	})
}

func (r *Registry) filter(keep func(HealthChecker) bool) []HealthChecker {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []HealthChecker

	for _, c := range r.checkers {
		if keep(c) {
			out = append(out, c)
		}
	}

	return out
}

// Run checks the selected categories. See RunCheckers.
func (r *Registry) Run(ctx context.Context, categories []Category) []CheckResult {
	return RunCheckers(ctx, r.Select(categories))
}

// Fixer looks up the fixer registered for fixID.
//
//nolint:ireturn // Fixer interface for polymorphism
func (r *Registry) Fixer(fixID string) (Fixer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fixer, ok := r.fixers[fixID]

	return fixer, ok
}

// RunCheckers runs every checker in its own goroutine and returns the
// results in checker order, each tagged with its checker's category.
func RunCheckers(ctx context.Context, checkers []HealthChecker) []CheckResult {
	results := make([]CheckResult, len(checkers))
	g, gctx := errgroup.WithContext(ctx)

	for i, checker := range checkers {
		g.Go(func() error {
			result := checker.Check(gctx)
			result.Category = checker.Category()
			results[i] = result

			return nil
		})
	}

	_ = g.Wait()

	return results
}
