package oracle

import "github.com/goodnatureofminers/bridge-relay/internal/bridge/model"

// Summary describes one published result set.
type Summary struct {
	First        model.ChainLink
	Last         model.ChainLink
	Blocks       int
	FilledBlocks int
	Receipts     int
}

// Hooks are optional observer channels. Sends never block: a full or nil
// channel drops the value.
type Hooks struct {
	HistoryHead chan<- model.ChainLink
	ChainHead   chan<- uint64
	Published   chan<- Summary
}

func notify[T any](ch chan<- T, v T) {
	if ch == nil {
		return
	}
	select {
	case ch <- v:
	default:
	}
}
