package clickhouse

import (
	"context"
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}

	// TransferWriter persists ledger rows. Repository implements it.
	TransferWriter interface {
		InsertTransfers(ctx context.Context, rows []TransferRow) error
	}
)
