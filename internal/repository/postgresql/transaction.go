package postgresql

import (
	"context"

	"github.com/nominacloud/erp-backend-go/internal/pkg/database"
)

// GetQuerier returns the transaction carried by ctx when inside
// database.WithinTransaction, otherwise the pool. Repositories call this so
// the same method works in and out of a transaction.
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := database.TxFromContext(ctx); ok {
		return tx
	}
	return db.Pool
}
