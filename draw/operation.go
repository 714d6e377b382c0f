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

// Йоу, чат! Сьогодні ми розберемо двигун малювання!
// Будь-яка команда малювання (/cuboid, /sphere, /paste, /undo...) - це Operation:
// фігура каже ЯКІ координати обходити, пензель каже ЩО туди ставити,
// а двигун для кожної координати:
//  1. пропускає координати за межами карти
//  2. пропускає блоки, які пензель не хоче міняти
//  3. питає в гравця CanPlace, відмови рахує але не зупиняється
//  4. пише блок у карту
//  5. запам'ятовує старий блок для /undo
//  6. рахує оброблені блоки
// Все це виконується порціями в тіку карти, а Cancel можна викликати
// з будь-якої горутини: прапорець перевіряється перед кожною координатою.

package draw

import (
	"fmt"
	"iter"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"fcraft/block"
	"fcraft/world"
)

// Candidate - координата, яку пропонує фігура.
// Якщо Fixed, то Block ставиться як є, без пензля.
type Candidate struct {
	Coord world.Vector3I
	Block block.ID
	Fixed bool
}

// Shape - геометрія операції
type Shape interface {
	Name() string
	ExpectedMarks() int
	// Prepare перевіряє мітки і повертає межі фігури.
	// При false гравцю вже надіслано пояснення.
	Prepare(op *Operation, marks []world.Vector3I) (world.BoundingBox, bool)
	// Estimate оцінює кількість блоків в обрізаних межах op.Bounds
	Estimate(op *Operation) int64
	// Candidates обходить координати в стабільному порядку
	Candidates(op *Operation) iter.Seq[Candidate]
}

// GCRequester - хтось, кого можна попросити прибрати сміття
type GCRequester interface {
	RequestGC()
}

// gcThreshold - після скількох змінених блоків варто просити GC
const gcThreshold = 100_000

// Operation - одна операція малювання
type Operation struct {
	log *zap.Logger

	Player  *world.Player
	Map     *world.Map
	Brush   Brush
	Bounds  world.BoundingBox
	Context world.BlockChangeContext
	Marks   []world.Vector3I

	BlocksTotalEstimate int64

	shape Shape
	gc    GCRequester

	blocksProcessed atomic.Int64
	blocksDenied    atomic.Int64
	blocksSkipped   atomic.Int64

	prepared  bool
	started   time.Time
	cancelled atomic.Bool
	done      atomic.Bool

	undoState    *world.UndoState
	undoOverflow bool
	// undoTarget вирішує куди піде UndoState після завершення
	undoTarget undoTarget

	next func() (Candidate, bool)
	stop func()

	// OnDone викликається один раз після завершення або скасування
	OnDone func(op *Operation)

	afterMu   sync.Mutex
	afterDone []func(op *Operation)
	finished  bool // finish відпрацював повністю, undo вже в стеку
}

// undoTarget - куди записується undo операції
type undoTarget int

const (
	undoToStack  undoTarget = iota // звичайне малювання: стек undo, redo очищується
	undoToRedo                     // відкат: обернений стан іде в redo
	undoToUndo                     // повтор: обернений стан іде в undo, redo не чіпаємо
	undoDetached                   // відкат з BlockDB: стан без посилання на операцію
)

// New створює операцію. Пензель призначається окремо, до Prepare.
func New(logger *zap.Logger, p *world.Player, m *world.Map, shape Shape, ctx world.BlockChangeContext) *Operation {
	return &Operation{
		log:     logger.With(zap.String("player", p.Name()), zap.String("op", shape.Name())),
		Player:  p,
		Map:     m,
		Context: ctx,
		shape:   shape,
	}
}

// SetGC задає кого просити про збирання сміття після великих змін
func (op *Operation) SetGC(gc GCRequester) { op.gc = gc }

// Shape повертає фігуру операції
func (op *Operation) Shape() Shape { return op.shape }

// Prepare перевіряє мітки, рахує межі і оцінку об'єму.
// Нічого не змінює, якщо повертає false.
func (op *Operation) Prepare(marks []world.Vector3I) bool {
	if op.Brush == nil {
		op.log.Error("Prepare without brush")
		op.Player.Warn("%s: no brush.", op.shape.Name())
		return false
	}
	if len(marks) < op.shape.ExpectedMarks() {
		op.Player.Warn("%s: need %d marks, got %d.", op.shape.Name(), op.shape.ExpectedMarks(), len(marks))
		return false
	}
	op.Marks = marks
	bounds, ok := op.shape.Prepare(op, marks)
	if !ok {
		op.Marks = nil
		return false
	}
	clipped, ok := bounds.Intersect(op.Map.Bounds())
	if !ok {
		op.Marks = nil
		op.Player.Warn("%s: nothing to draw, selection is outside the map.", op.shape.Name())
		return false
	}
	op.Bounds = clipped
	op.BlocksTotalEstimate = op.shape.Estimate(op)

	if !op.Player.CanDraw(op.BlocksTotalEstimate) {
		op.Player.Warn("You are only allowed to run draw commands that affect up to %d blocks. This one would affect %d blocks.",
			op.Player.DrawLimit(), op.BlocksTotalEstimate)
		op.Marks = nil
		return false
	}
	op.prepared = true
	return true
}

// Begin починає операцію: створює UndoState і ставить в чергу карти
func (op *Operation) Begin() {
	if !op.prepared {
		op.log.Panic("Begin before successful Prepare")
	}
	op.started = time.Now()
	switch op.undoTarget {
	case undoToStack:
		op.undoState = world.NewUndoState(op, op.Map, op.Player.MaxUndoCount())
		op.Player.DrawBegin(op.undoState, true)
	case undoToRedo, undoToUndo:
		op.undoState = world.NewUndoState(op, op.Map, op.Player.MaxUndoCount())
	case undoDetached:
		op.undoState = world.NewUndoState(nil, op.Map, op.Player.MaxUndoCount())
		op.Player.DrawBegin(op.undoState, true)
	}
	op.next, op.stop = iter.Pull(op.shape.Candidates(op))

	opsStarted.WithLabelValues(op.shape.Name()).Inc()
	op.log.Debug("Draw begin",
		zap.Stringer("bounds", op.Bounds),
		zap.Int64("estimate", op.BlocksTotalEstimate),
		zap.Stringer("context", op.Context),
	)
	if op.BlocksTotalEstimate >= 10_000 {
		op.Player.Message("%s: processing ~%d blocks.", op.shape.Name(), op.BlocksTotalEstimate)
	}
	op.Map.QueueDrawOp(op)
}

// DrawBatch обробляє кандидатів, поки не змінить max блоків
func (op *Operation) DrawBatch(max int) int {
	if op.done.Load() {
		return 0
	}
	changed := 0
	for changed < max {
		if op.cancelled.Load() {
			op.finish()
			return changed
		}
		c, ok := op.next()
		if !ok {
			op.finish()
			return changed
		}
		if op.drawOne(c) {
			changed++
		}
	}
	return changed
}

func (op *Operation) drawOne(c Candidate) bool {
	if !op.Map.InBounds(c.Coord) {
		op.blocksSkipped.Add(1)
		return false
	}
	current := op.Map.GetBlock(c.Coord)
	newBlock, ok := c.Block, c.Fixed
	if !ok {
		newBlock, ok = op.Brush.NextBlock(BrushState{
			Player:  op.Player,
			Map:     op.Map,
			Coord:   c.Coord,
			Current: current,
		})
	}
	if !ok || newBlock == current {
		op.blocksSkipped.Add(1)
		return false
	}
	if r := op.Player.CanPlace(op.Map, c.Coord, newBlock, op.Context); r != world.PlacementAllowed {
		op.blocksDenied.Add(1)
		return false
	}

	op.Map.QueueUpdate(world.BlockUpdate{
		Coord:   c.Coord,
		Block:   newBlock,
		Origin:  op.Player.Info,
		Context: op.Context,
	})

	if st := op.undoState; st != nil && !op.undoOverflow {
		if !st.Add(c.Coord, current) {
			op.undoOverflow = true
			op.Player.ClearDrawUndo(st)
			op.Player.Warn("%s: this operation is too large to undo (over %d blocks). It will still finish.",
				op.shape.Name(), op.Player.MaxUndoCount())
		}
	}
	op.blocksProcessed.Add(1)
	return true
}

// finish викликається рівно один раз з горутини тіку
func (op *Operation) finish() {
	if op.done.Swap(true) {
		return
	}
	op.stop()

	processed := op.blocksProcessed.Load()
	denied := op.blocksDenied.Load()
	if st := op.undoState; st != nil {
		switch op.undoTarget {
		case undoToStack, undoDetached:
			op.Player.DrawEnd(st)
		case undoToRedo:
			if st.Len() > 0 || st.IsTooLargeToUndo() {
				op.Player.PushRedo(st)
			}
		case undoToUndo:
			if st.Len() > 0 || st.IsTooLargeToUndo() {
				op.Player.PushUndo(st)
			}
		}
	}

	blocksDrawn.Add(float64(processed))
	blocksDenied.Add(float64(denied))
	if op.cancelled.Load() {
		opsCancelled.WithLabelValues(op.shape.Name()).Inc()
	}
	op.Player.Message("%s", op.summary(processed, denied))

	if processed > 0 {
		op.Player.Info.BlocksDrawn.Add(processed)
		if op.gc != nil && processed >= gcThreshold {
			op.gc.RequestGC()
		}
	}
	op.log.Debug("Draw end",
		zap.Int64("processed", processed),
		zap.Int64("denied", denied),
		zap.Int64("skipped", op.blocksSkipped.Load()),
		zap.Bool("cancelled", op.cancelled.Load()),
		zap.Duration("took", time.Since(op.started)),
	)
	if op.OnDone != nil {
		op.OnDone(op)
	}

	op.afterMu.Lock()
	after := op.afterDone
	op.afterDone, op.finished = nil, true
	op.afterMu.Unlock()
	for _, fn := range after {
		fn(op)
	}
}

// AfterDone виконає fn, коли операція повністю завершиться і її undo
// опиниться у стеку. Для вже завершеної операції fn виконується одразу,
// інакше - в горутині тіку карти.
func (op *Operation) AfterDone(fn func(op *Operation)) {
	op.afterMu.Lock()
	if !op.finished {
		op.afterDone = append(op.afterDone, fn)
		op.afterMu.Unlock()
		return
	}
	op.afterMu.Unlock()
	fn(op)
}

func (op *Operation) summary(processed, denied int64) string {
	name := op.shape.Name()
	if op.cancelled.Load() {
		return fmt.Sprintf("%s: cancelled after %d blocks.", name, processed)
	}
	if processed == 0 {
		if denied > 0 {
			return fmt.Sprintf("%s: no blocks changed, you are not allowed to build there (%d blocks denied).", name, denied)
		}
		return fmt.Sprintf("%s: no blocks needed to be changed.", name)
	}
	took := time.Since(op.started).Seconds()
	if denied > 0 {
		return fmt.Sprintf("%s: %d blocks changed in %.2fs, %d skipped due to permission issues.", name, processed, took, denied)
	}
	return fmt.Sprintf("%s: %d blocks changed in %.2fs.", name, processed, took)
}

// Cancel просить операцію зупинитись. Вже змінені блоки лишаються.
func (op *Operation) Cancel() { op.cancelled.Store(true) }

func (op *Operation) IsCancelled() bool { return op.cancelled.Load() }
func (op *Operation) IsDone() bool      { return op.done.Load() }

// PercentDone - відсоток виконання від оцінки
func (op *Operation) PercentDone() int {
	if op.BlocksTotalEstimate <= 0 {
		return 0
	}
	return int(min(op.blocksProcessed.Load()*100/op.BlocksTotalEstimate, 100))
}

// Description описує операцію для повідомлень
func (op *Operation) Description() string {
	if op.Brush == nil {
		return op.shape.Name()
	}
	return fmt.Sprintf("%s(%s)", op.shape.Name(), op.Brush.Description())
}

func (op *Operation) BlocksProcessed() int64 { return op.blocksProcessed.Load() }
func (op *Operation) BlocksDenied() int64    { return op.blocksDenied.Load() }
func (op *Operation) BlocksSkipped() int64   { return op.blocksSkipped.Load() }

// UndoState повертає стан, в який записуються зміни
func (op *Operation) UndoState() *world.UndoState { return op.undoState }
