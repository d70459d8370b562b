// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import "context"

// TxManager runs a function inside a single database transaction. The
// transactional handle travels in the context so repositories participate
// transparently. Payment registration runs its whole recompute inside one
// transaction: a crash mid-reconciliation must leave no payment without a
// consistent note state.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
