// This file is part of go-mc/server project.
// Copyright (C) 2023.  Tnze
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Йоу, чат! Відкат - це теж малювання.
// /undo бере стан зі стека і ставить старі блоки назад у зворотному порядку,
// а те, що стояло там до відкату, записується в новий стан для /redo.
// /redo робить те саме в інший бік. Відкат з BlockDB (/undoplayer, /undoarea)
// отримує готовий список блоків і записує свій стан у стек undo гравця,
// тож його можна відкотити звичайним /undo.

package draw

import (
	"iter"

	"go.uber.org/zap"

	"fcraft/block"
	"fcraft/world"
)

// replayShape ставить фіксовані блоки. Мітки не потрібні.
type replayShape struct {
	name     string
	nothing  string
	snapshot func() []world.UndoBlock
	bounds   func() (world.BoundingBox, bool)
	count    func() int
}

func (r *replayShape) Name() string       { return r.name }
func (r *replayShape) ExpectedMarks() int { return 0 }

func (r *replayShape) Prepare(op *Operation, _ []world.Vector3I) (world.BoundingBox, bool) {
	box, ok := r.bounds()
	if !ok {
		op.Player.Message("%s", r.nothing)
		return world.BoundingBox{}, false
	}
	return box, true
}

func (r *replayShape) Estimate(*Operation) int64 { return int64(r.count()) }

// Candidates знімає копію блоків на першому кроці і йде від останнього до першого
func (r *replayShape) Candidates(*Operation) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		blocks := r.snapshot()
		for i := len(blocks) - 1; i >= 0; i-- {
			if !yield(Candidate{Coord: blocks[i].Coord, Block: blocks[i].Block, Fixed: true}) {
				return
			}
		}
	}
}

// replayBrush нічого не пропонує сам, всі кандидати фіксовані
type replayBrush struct{ desc string }

func (b replayBrush) Description() string                   { return b.desc }
func (b replayBrush) NextBlock(BrushState) (block.ID, bool) { return block.None, false }

// NewUndo готує відкат стану state на його карті.
// Якщо redo, то це повтор відкату і результат піде в стек undo.
func NewUndo(logger *zap.Logger, p *world.Player, state *world.UndoState, redo bool) *Operation {
	shape := &replayShape{
		name:     "Undo",
		nothing:  "There is nothing to undo.",
		snapshot: state.Snapshot,
		bounds:   state.Bounds,
		count:    state.Len,
	}
	ctx, target := world.ContextUndoneSelf, undoToRedo
	if redo {
		shape.name, shape.nothing = "Redo", "There is nothing to redo."
		ctx, target = world.ContextRedone, undoToUndo
	}
	op := New(logger, p, state.World, shape, ctx)
	op.Brush = replayBrush{desc: state.Description()}
	op.undoTarget = target
	return op
}

// NewBlockDBUndo готує відкат змін, знайдених у BlockDB.
// changes - старі блоки, по одному на координату.
func NewBlockDBUndo(logger *zap.Logger, p *world.Player, m *world.Map, name string, changes []world.UndoBlock, ctx world.BlockChangeContext) *Operation {
	shape := &replayShape{
		name:     name,
		nothing:  "No changes found.",
		snapshot: func() []world.UndoBlock { return changes },
		bounds:   func() (world.BoundingBox, bool) { return undoBlocksBounds(changes) },
		count:    func() int { return len(changes) },
	}
	op := New(logger, p, m, shape, ctx)
	op.Brush = replayBrush{desc: "BlockDB"}
	op.undoTarget = undoDetached
	return op
}

func undoBlocksBounds(blocks []world.UndoBlock) (world.BoundingBox, bool) {
	if len(blocks) == 0 {
		return world.BoundingBox{}, false
	}
	lo, hi := blocks[0].Coord, blocks[0].Coord
	for _, b := range blocks[1:] {
		lo, hi = lo.Min(b.Coord), hi.Max(b.Coord)
	}
	return world.NewBoundingBox(lo, hi), true
}
