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

// Йоу, чат! Сьогодні ми розберемо як працює тік карти!
// Тік триває 50мс (20 разів на секунду). Великі операції малювання
// (мільйони блоків) не можна виконати за один раз - сервер би завис.
// Тому кожен тік карта дає кожній операції свою порцію блоків,
// а лімітер не дає малюванню з'їсти весь процесор.

package world

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// TickInterval - тривалість одного тіку
const TickInterval = 50 * time.Millisecond

// DefaultBlocksPerTick - скільки блоків малювання карта обробляє за тік
const DefaultBlocksPerTick = 16384

// SetDrawThrottle налаштовує швидкість малювання.
// limiter може бути nil, тоді малюємо кожен тік.
func (m *Map) SetDrawThrottle(blocksPerTick int, limiter *rate.Limiter) {
	m.tickLock.Lock()
	defer m.tickLock.Unlock()
	if blocksPerTick > 0 {
		m.blocksPerTick = blocksPerTick
	}
	m.drawLimiter = limiter
}

// QueueDrawOp ставить операцію в чергу малювання
func (m *Map) QueueDrawOp(op DrawOp) {
	m.opsMu.Lock()
	defer m.opsMu.Unlock()
	m.drawOps = append(m.drawOps, op)
}

// PendingDrawOps - кількість операцій, які ще не завершились
func (m *Map) PendingDrawOps() int {
	m.opsMu.Lock()
	defer m.opsMu.Unlock()
	return len(m.drawOps)
}

// Run запускає цикл тіків і блокується до скасування ctx
func (m *Map) Run(ctx context.Context) {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()
	m.log.Debug("Map tick loop start")
	defer m.log.Debug("Map tick loop exit")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick()
		}
	}
}

func (m *Map) tick() {
	if m.PendingDrawOps() == 0 {
		return
	}
	budget, limiter := m.drawThrottle()
	if limiter != nil && !limiter.Allow() {
		return
	}
	m.ProcessDrawOps(budget)
}

// drawThrottle читає налаштування з SetDrawThrottle під tickLock
func (m *Map) drawThrottle() (int, *rate.Limiter) {
	m.tickLock.Lock()
	defer m.tickLock.Unlock()
	return m.blocksPerTick, m.drawLimiter
}

// ProcessDrawOps синхронно виконує одну порцію всіх операцій в черзі.
// Бюджет ділиться порівну між операціями, але кожна отримує хоча б один блок.
// Повертає загальну кількість змінених блоків.
func (m *Map) ProcessDrawOps(budget int) (drawn int) {
	m.tickLock.Lock()
	defer m.tickLock.Unlock()

	m.opsMu.Lock()
	ops := slices.Clone(m.drawOps)
	m.opsMu.Unlock()
	if len(ops) == 0 {
		return 0
	}

	share := max(budget/len(ops), 1)
	for _, op := range ops {
		if op.IsDone() {
			continue
		}
		drawn += op.DrawBatch(share)
	}

	m.opsMu.Lock()
	m.drawOps = slices.DeleteFunc(m.drawOps, DrawOp.IsDone)
	m.opsMu.Unlock()

	if drawn > 0 {
		m.log.Debug("Processed draw ops", zap.Int("ops", len(ops)), zap.Int("blocks", drawn))
	}
	return drawn
}

// FinishDrawOps виконує всі операції до кінця. Зручно для тестів і консолі.
func (m *Map) FinishDrawOps() (drawn int) {
	budget, _ := m.drawThrottle()
	for m.PendingDrawOps() > 0 {
		drawn += m.ProcessDrawOps(budget)
	}
	return drawn
}
