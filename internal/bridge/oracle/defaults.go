package oracle

import "time"

const (
	defaultTipDistance          = 128
	defaultBlockBatchSize       = 100
	defaultReceiptBatchSize     = 500
	defaultReceiptWorkers       = 4
	defaultHaltDelay            = 5 * time.Second
	defaultErrorDelay           = 100 * time.Millisecond
	defaultMaxConsecutiveErrors = 10
)
