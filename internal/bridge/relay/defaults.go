package relay

import "time"

const (
	DefaultQueueA         = 5120
	DefaultQueueB         = 5120
	DefaultQueueC         = 25600
	DefaultQueueD         = 25600
	DefaultNumSlotReserve = 1

	defaultBackpressureDelay = 5 * time.Second
	defaultPollDelay         = 5 * time.Second
	defaultRetryAttempts     = 3
	defaultSignRetryDelay    = 10 * time.Second
	defaultSendRetryDelay    = 10 * time.Second
	defaultReceiptRetryDelay = 30 * time.Second
	defaultGasPrice          = 10_000_000_000

	defaultTipInterval     = 5 * time.Second
	defaultTipMaxErrors    = 5
	defaultBalanceInterval = time.Minute
	defaultBalanceMaxErrs  = 10
	defaultQueueLogPeriod  = 30 * time.Second
	defaultShutdownTimeout = 3 * time.Second

	EntityBridge  = "bridge"
	EntityRelayer = "relayer"

	stageSign      = "sign"
	stageBroadcast = "broadcast"
	stageCollect   = "collect"
	stageFinalize  = "finalize"
)
