package doctor

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Registry holds health checkers.
type Registry struct {
	mu       sync.RWMutex
	checkers []HealthChecker
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterChecker adds a checker.
func (r *Registry) RegisterChecker(checkers ...HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.checkers = append(r.checkers, checkers...)
}

// RunAll runs every checker concurrently. Results are ordered by category,
// then registration order.
func (r *Registry) RunAll(ctx context.Context) []CheckResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return runCheckers(ctx, r.checkers)
}

// RunCategory runs the checkers of one category.
func (r *Registry) RunCategory(ctx context.Context, category Category) []CheckResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var selected []HealthChecker

	for _, c := range r.checkers {
		if c.Category() == category {
			selected = append(selected, c)
		}
	}

	return runCheckers(ctx, selected)
}

func runCheckers(ctx context.Context, checkers []HealthChecker) []CheckResult {
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

	order := Categories()

	slices.SortStableFunc(results, func(a, b CheckResult) int {
		return categoryIndex(order, a.Category) - categoryIndex(order, b.Category)
	})

	return results
}

func categoryIndex(order []Category, c Category) int {
	if i := slices.Index(order, c); i >= 0 {
		return i
	}

	return len(order)
}
