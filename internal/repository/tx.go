package repository

import "context"

// TxManager runs a function within one all-or-nothing unit of work.
// Repository calls made with the context fn receives share that unit.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
