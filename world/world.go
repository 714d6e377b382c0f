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

// Йоу, чат! Сьогодні ми розберемо як влаштована карта у нашому сервері!
// В Classic немає чанків: вся карта - це один суцільний масив блоків
// розміром Width x Length x Height. X і Y - горизонталь, Z - висота.
// Крім блоків карта тримає зони, чергу операцій малювання,
// які виконуються потроху кожен тік, і обробники змін блоків.

package world

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"fcraft/block"
)

// MaxMapDimension - найбільший розмір карти по будь-якій осі
const MaxMapDimension = 2048

var (
	// ErrMapTooLarge повертається коли розмір карти перевищує MaxMapDimension
	ErrMapTooLarge = errors.New("map is too large")
	// ErrInvalidMapSize повертається для нульових або від'ємних розмірів
	ErrInvalidMapSize = errors.New("invalid map dimensions")
)

// DrawOp - те, що карта вміє виконувати порціями у своєму тіку
type DrawOp interface {
	// DrawBatch обробляє до max блоків і повертає скільки реально змінено
	DrawBatch(max int) int
	IsDone() bool
}

// BlockChange - подія "блок змінився"
type BlockChange struct {
	Map     *Map
	Coord   Vector3I
	Old     block.ID
	New     block.ID
	Player  *PlayerInfo // nil якщо змінив сам сервер
	Context BlockChangeContext
}

// BlockChangedHandler викликається після кожної зміни блоку гравцем
type BlockChangedHandler func(e BlockChange)

// Map - одна карта
type Map struct {
	log  *zap.Logger
	name string

	width, length, height int

	mu     sync.RWMutex // захищає blocks
	blocks []block.ID

	Spawn Vector3I
	zones *ZoneList

	readOnly       atomic.Bool
	blockDBEnabled atomic.Bool
	changed        atomic.Bool
	buildRank      atomic.Pointer[Rank]

	handlersMu sync.RWMutex
	handlers   []BlockChangedHandler

	tickLock      sync.Mutex // тільки одна горутина виконує операції малювання
	opsMu         sync.Mutex
	drawOps       []DrawOp
	blocksPerTick int
	drawLimiter   *rate.Limiter
}

// NewMap створює порожню (заповнену повітрям) карту
func NewMap(logger *zap.Logger, name string, dims Vector3I) (*Map, error) {
	if dims.X <= 0 || dims.Y <= 0 || dims.Z <= 0 {
		return nil, fmt.Errorf("%v: %w", dims, ErrInvalidMapSize)
	}
	if dims.X > MaxMapDimension || dims.Y > MaxMapDimension || dims.Z > MaxMapDimension {
		return nil, fmt.Errorf("%v: %w", dims, ErrMapTooLarge)
	}
	m := &Map{
		log:           logger.With(zap.String("map", name)),
		name:          name,
		width:         dims.X,
		length:        dims.Y,
		height:        dims.Z,
		blocks:        make([]block.ID, dims.X*dims.Y*dims.Z),
		Spawn:         Vector3I{dims.X / 2, dims.Y / 2, dims.Z/2 + 2},
		zones:         NewZoneList(),
		blocksPerTick: DefaultBlocksPerTick,
	}
	m.blockDBEnabled.Store(true)
	return m, nil
}

func (m *Map) Name() string { return m.name }

func (m *Map) Width() int  { return m.width }
func (m *Map) Length() int { return m.length }
func (m *Map) Height() int { return m.height }

// Bounds повертає коробку всієї карти
func (m *Map) Bounds() BoundingBox {
	return BoundingBox{XMax: m.width - 1, YMax: m.length - 1, ZMax: m.height - 1}
}

// Volume - кількість блоків на карті
func (m *Map) Volume() int64 { return int64(m.width) * int64(m.length) * int64(m.height) }

// Zones повертає зони карти
func (m *Map) Zones() *ZoneList { return m.zones }

// InBounds перевіряє чи координата всередині карти
func (m *Map) InBounds(v Vector3I) bool {
	return v.X >= 0 && v.X < m.width &&
		v.Y >= 0 && v.Y < m.length &&
		v.Z >= 0 && v.Z < m.height
}

// ClampToBounds переносить координату на найближчий блок карти
func (m *Map) ClampToBounds(v Vector3I) Vector3I {
	return Vector3I{
		X: min(max(v.X, 0), m.width-1),
		Y: min(max(v.Y, 0), m.length-1),
		Z: min(max(v.Z, 0), m.height-1),
	}
}

func (m *Map) index(v Vector3I) int { return (v.Z*m.length+v.Y)*m.width + v.X }

// GetBlock повертає блок або block.None для координат за межами карти
func (m *Map) GetBlock(v Vector3I) block.ID {
	if !m.InBounds(v) {
		return block.None
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.blocks[m.index(v)]
}

// SetBlock записує блок без жодних перевірок і подій.
// Повертає попередній блок. Для змін від гравців є QueueUpdate.
func (m *Map) SetBlock(v Vector3I, b block.ID) (old block.ID, ok bool) {
	if !m.InBounds(v) {
		return block.None, false
	}
	m.mu.Lock()
	i := m.index(v)
	old = m.blocks[i]
	m.blocks[i] = b
	m.mu.Unlock()
	if old != b {
		m.changed.Store(true)
	}
	return old, true
}

// BlockUpdate - зміна блоку, яку треба застосувати і розіслати
type BlockUpdate struct {
	Coord   Vector3I
	Block   block.ID
	Origin  *PlayerInfo
	Context BlockChangeContext
}

// QueueUpdate записує блок і сповіщає обробників змін.
// Повертає false якщо координата поза картою.
func (m *Map) QueueUpdate(u BlockUpdate) bool {
	old, ok := m.SetBlock(u.Coord, u.Block)
	if !ok {
		return false
	}
	if old != u.Block {
		m.raiseBlockChanged(BlockChange{
			Map:     m,
			Coord:   u.Coord,
			Old:     old,
			New:     u.Block,
			Player:  u.Origin,
			Context: u.Context,
		})
	}
	return true
}

// OnBlockChanged реєструє обробник змін блоків
func (m *Map) OnBlockChanged(h BlockChangedHandler) {
	m.handlersMu.Lock()
	defer m.handlersMu.Unlock()
	m.handlers = append(m.handlers, h)
}

func (m *Map) raiseBlockChanged(e BlockChange) {
	m.handlersMu.RLock()
	defer m.handlersMu.RUnlock()
	for _, h := range m.handlers {
		h(e)
	}
}

// Blocks повертає копію всього масиву блоків
func (m *Map) Blocks() []block.ID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]block.ID, len(m.blocks))
	copy(out, m.blocks)
	return out
}

// Fill заповнює коробку одним блоком без подій. Використовується генераторами.
func (m *Map) Fill(box BoundingBox, b block.ID) {
	box, ok := box.Intersect(m.Bounds())
	if !ok {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	box.Each(func(v Vector3I) bool {
		m.blocks[m.index(v)] = b
		return true
	})
	m.changed.Store(true)
}

// IsReadOnly - карту можуть змінювати тільки супер-гравці (консоль)
func (m *Map) IsReadOnly() bool         { return m.readOnly.Load() }
func (m *Map) SetReadOnly(v bool)       { m.readOnly.Store(v) }
func (m *Map) BlockDBEnabled() bool     { return m.blockDBEnabled.Load() }
func (m *Map) SetBlockDBEnabled(v bool) { m.blockDBEnabled.Store(v) }

// BuildRank - мінімальний ранг для будівництва на карті, nil = будь-хто
func (m *Map) BuildRank() *Rank     { return m.buildRank.Load() }
func (m *Map) SetBuildRank(r *Rank) { m.buildRank.Store(r) }

// HasChangedSinceSave повертає true якщо карту змінили після останнього збереження
func (m *Map) HasChangedSinceSave() bool { return m.changed.Load() }

func (m *Map) String() string {
	return fmt.Sprintf("%s(%dx%dx%d)", m.name, m.width, m.length, m.height)
}
