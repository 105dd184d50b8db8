package oracle

import (
	"fmt"
	"slices"

	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
)

// ResultSet collects the scanned blocks of one oracle iteration. Empty blocks
// carry no receipts; filled blocks carry only receipts with matching logs.
type ResultSet[A model.Address] struct {
	blocks []model.BlockWithReceipts[A]
	sealed bool
}

func NewResultSet[A model.Address]() *ResultSet[A] {
	return &ResultSet[A]{}
}

func (rs *ResultSet[A]) AppendEmptyBlock(b model.Block) error {
	return rs.append(model.BlockWithReceipts[A]{Block: b})
}

func (rs *ResultSet[A]) AppendFilledBlock(b model.BlockWithReceipts[A]) error {
	return rs.append(b)
}

func (rs *ResultSet[A]) append(b model.BlockWithReceipts[A]) error {
	if rs.sealed {
		return ErrResultSetSealed
	}
	rs.blocks = append(rs.blocks, b)
	return nil
}

// Seal orders the blocks by number and verifies they form one parent-linked run.
func (rs *ResultSet[A]) Seal() error {
	if rs.sealed {
		return ErrResultSetSealed
	}
	if len(rs.blocks) == 0 {
		return fmt.Errorf("%w: no blocks", ErrIntegrity)
	}
	slices.SortFunc(rs.blocks, func(a, b model.BlockWithReceipts[A]) int {
		switch {
		case a.Block.Number < b.Block.Number:
			return -1
		case a.Block.Number > b.Block.Number:
			return 1
		}
		return 0
	})
	for i := 1; i < len(rs.blocks); i++ {
		prev, cur := rs.blocks[i-1].Block, rs.blocks[i].Block
		if cur.Number != prev.Number+1 {
			return fmt.Errorf("%w: block %d follows %d", ErrIntegrity, cur.Number, prev.Number)
		}
		if cur.ParentHash != prev.Hash {
			return fmt.Errorf("%w: block %s does not link to %s", ErrIntegrity, cur.Link(), prev.Link())
		}
	}
	rs.sealed = true
	return nil
}

func (rs *ResultSet[A]) IsSealed() bool { return rs.sealed }

func (rs *ResultSet[A]) Len() int { return len(rs.blocks) }

// Blocks returns every block in ascending order once sealed.
func (rs *ResultSet[A]) Blocks() []model.BlockWithReceipts[A] { return rs.blocks }

// FilledBlocks returns only blocks that carry receipts.
func (rs *ResultSet[A]) FilledBlocks() []model.BlockWithReceipts[A] {
	var filled []model.BlockWithReceipts[A]
	for _, b := range rs.blocks {
		if !b.IsEmpty() {
			filled = append(filled, b)
		}
	}
	return filled
}

// First is the lowest block of a sealed set.
func (rs *ResultSet[A]) First() model.ChainLink {
	if len(rs.blocks) == 0 {
		return model.ChainLink{}
	}
	return rs.blocks[0].Block.Link()
}

// Head is the highest block of a sealed set.
func (rs *ResultSet[A]) Head() model.ChainLink {
	if len(rs.blocks) == 0 {
		return model.ChainLink{}
	}
	return rs.blocks[len(rs.blocks)-1].Block.Link()
}

func (rs *ResultSet[A]) summary() Summary {
	s := Summary{First: rs.First(), Last: rs.Head(), Blocks: len(rs.blocks)}
	for _, b := range rs.blocks {
		if !b.IsEmpty() {
			s.FilledBlocks++
			s.Receipts += len(b.Receipts)
		}
	}
	return s
}
