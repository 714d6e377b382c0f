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

// Йоу, чат! Тепер найцікавіше - undo і redo!
// Кожна операція малювання записує (координата, старий блок) у UndoState.
// Стан займає місце в стеку гравця ще на старті, а /undo пише ці
// блоки назад. Відкат сам записує свій UndoState, і той іде в стек redo.
// Буфер обмежений MaxUndoCount: якщо операція більша, ми перестаємо
// записувати і позначаємо стан як "надто великий для відкату".

package world

import (
	"slices"
	"sync"

	"fcraft/block"
)

const (
	DefaultMaxUndoCount  = 2_000_000
	DefaultMaxUndoStates = 5
)

// Operation - те, що UndoState знає про операцію, яка його створила
type Operation interface {
	IsDone() bool
	IsCancelled() bool
	Cancel()
	PercentDone() int
	Description() string
}

// UndoBlock - один запис буфера
type UndoBlock struct {
	Coord Vector3I
	Block block.ID
}

// UndoState - записані зміни однієї операції
type UndoState struct {
	Op    Operation // nil для відкатів з BlockDB
	World *Map

	mu       sync.Mutex
	buffer   []UndoBlock
	tooLarge bool
	maxCount int
}

// NewUndoState створює порожній стан
func NewUndoState(op Operation, m *Map, maxCount int) *UndoState {
	if maxCount <= 0 {
		maxCount = DefaultMaxUndoCount
	}
	return &UndoState{Op: op, World: m, maxCount: maxCount}
}

// Add записує старий блок. Повертає false якщо ліміт перевищено,
// після цього стан назавжди надто великий і нічого не записує.
func (u *UndoState) Add(coord Vector3I, old block.ID) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.tooLarge {
		return false
	}
	if len(u.buffer) >= u.maxCount {
		u.tooLarge = true
		u.buffer = nil
		return false
	}
	u.buffer = append(u.buffer, UndoBlock{coord, old})
	return true
}

// MarkTooLarge позначає стан як надто великий і звільняє буфер
func (u *UndoState) MarkTooLarge() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.tooLarge = true
	u.buffer = nil
}

// IsTooLargeToUndo повертає true якщо запис зупинено через ліміт
func (u *UndoState) IsTooLargeToUndo() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.tooLarge
}

// Len - кількість записаних блоків
func (u *UndoState) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.buffer)
}

// Snapshot повертає копію буфера в порядку запису
func (u *UndoState) Snapshot() []UndoBlock {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]UndoBlock, len(u.buffer))
	copy(out, u.buffer)
	return out
}

// Bounds повертає коробку всіх записаних координат
func (u *UndoState) Bounds() (box BoundingBox, ok bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.buffer) == 0 {
		return BoundingBox{}, false
	}
	first := u.buffer[0].Coord
	lo, hi := first, first
	for _, b := range u.buffer[1:] {
		lo, hi = lo.Min(b.Coord), hi.Max(b.Coord)
	}
	return NewBoundingBox(lo, hi), true
}

// Description описує операцію для повідомлень
func (u *UndoState) Description() string {
	if u.Op == nil {
		return "BlockDB undo"
	}
	return u.Op.Description()
}

// DrawBegin робить state активним станом малювання гравця і одразу
// кладе його у стек undo, тож операції, що перекриваються, стоять
// у порядку старту. Нова операція очищає стек redo.
func (p *Player) DrawBegin(state *UndoState, clearRedo bool) {
	p.undoMu.Lock()
	defer p.undoMu.Unlock()
	p.drawUndo = state
	p.undoStack = pushBounded(p.undoStack, state, p.config.MaxUndoStates)
	if clearRedo {
		p.redoStack = nil
	}
}

// DrawUndo повертає стан, який зараз записується
func (p *Player) DrawUndo() *UndoState {
	p.undoMu.Lock()
	defer p.undoMu.Unlock()
	return p.drawUndo
}

// ClearDrawUndo прибирає активний стан, якщо це саме state
func (p *Player) ClearDrawUndo(state *UndoState) {
	p.undoMu.Lock()
	defer p.undoMu.Unlock()
	if p.drawUndo == state {
		p.drawUndo = nil
	}
}

// DrawEnd завершує запис. Порожній стан звільняє своє місце в стеку.
func (p *Player) DrawEnd(state *UndoState) {
	p.undoMu.Lock()
	defer p.undoMu.Unlock()
	if p.drawUndo == state {
		p.drawUndo = nil
	}
	if state.Len() == 0 && !state.IsTooLargeToUndo() {
		p.undoStack = slices.DeleteFunc(p.undoStack, func(s *UndoState) bool { return s == state })
	}
}

// PushUndo кладе готовий стан у стек undo
func (p *Player) PushUndo(state *UndoState) {
	p.undoMu.Lock()
	defer p.undoMu.Unlock()
	p.undoStack = pushBounded(p.undoStack, state, p.config.MaxUndoStates)
}

// PushRedo кладе стан у стек redo
func (p *Player) PushRedo(state *UndoState) {
	p.undoMu.Lock()
	defer p.undoMu.Unlock()
	p.redoStack = pushBounded(p.redoStack, state, p.config.MaxUndoStates)
}

// PeekUndo повертає стан, який відкотить /undo, не знімаючи його.
// Операція, яка ще малює, вже лежить у стеку.
func (p *Player) PeekUndo() *UndoState {
	p.undoMu.Lock()
	defer p.undoMu.Unlock()
	if n := len(p.undoStack); n > 0 {
		return p.undoStack[n-1]
	}
	return nil
}

// PopUndo знімає верхній стан. Надто великі стани не знімаються:
// повертається nil, а стек лишається як був.
func (p *Player) PopUndo() *UndoState {
	p.undoMu.Lock()
	defer p.undoMu.Unlock()
	n := len(p.undoStack)
	if n == 0 || p.undoStack[n-1].IsTooLargeToUndo() {
		return nil
	}
	s := p.undoStack[n-1]
	p.undoStack = p.undoStack[:n-1]
	if p.drawUndo == s {
		p.drawUndo = nil
	}
	return s
}

// TakeUndo знімає зі стека саме state, де б він не лежав.
// false - стану вже немає або він надто великий.
func (p *Player) TakeUndo(state *UndoState) bool {
	p.undoMu.Lock()
	defer p.undoMu.Unlock()
	i := slices.Index(p.undoStack, state)
	if i < 0 || state.IsTooLargeToUndo() {
		return false
	}
	p.undoStack = slices.Delete(p.undoStack, i, i+1)
	if p.drawUndo == state {
		p.drawUndo = nil
	}
	return true
}

// PeekRedo повертає верхній стан стека redo
func (p *Player) PeekRedo() *UndoState {
	p.undoMu.Lock()
	defer p.undoMu.Unlock()
	if n := len(p.redoStack); n > 0 {
		return p.redoStack[n-1]
	}
	return nil
}

// PopRedo знімає верхній стан стека redo, з тими ж правилами що й PopUndo
func (p *Player) PopRedo() *UndoState {
	p.undoMu.Lock()
	defer p.undoMu.Unlock()
	n := len(p.redoStack)
	if n == 0 || p.redoStack[n-1].IsTooLargeToUndo() {
		return nil
	}
	s := p.redoStack[n-1]
	p.redoStack = p.redoStack[:n-1]
	return s
}

// UndoDepth повертає розміри стеків undo і redo
func (p *Player) UndoDepth() (undo, redo int) {
	p.undoMu.Lock()
	defer p.undoMu.Unlock()
	return len(p.undoStack), len(p.redoStack)
}

// pushBounded додає стан і викидає найстаріший, якщо стек переповнений
func pushBounded(stack []*UndoState, s *UndoState, limit int) []*UndoState {
	stack = append(stack, s)
	if limit > 0 && len(stack) > limit {
		stack = stack[len(stack)-limit:]
	}
	return stack
}
