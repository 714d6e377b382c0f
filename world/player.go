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

// Йоу, чат! Сьогодні ми розберемо як влаштований гравець у нашому сервері!
// Тут дві структури:
// - PlayerInfo живе весь час роботи сервера: ім'я, UUID, ранг і лічильники.
//   BlockDB посилається саме на неї, навіть якщо гравець вже вийшов.
// - Player існує поки гравець онлайн: виділення, стеки undo/redo,
//   буфер копіювання, запит на підтвердження.

package world

import (
	"sync"
	"sync/atomic"

	"github.com/Tnze/go-mc/offline"
	"github.com/google/uuid"

	"fcraft/block"
)

// PlayerInfo - постійна інформація про гравця
type PlayerInfo struct {
	Name string
	ID   uuid.UUID

	rank atomic.Pointer[Rank]

	BlocksBuilt   atomic.Int64
	BlocksDeleted atomic.Int64
	BlocksDrawn   atomic.Int64
}

// NewPlayerInfo створює запис гравця. UUID рахується з імені як в
// offline режимі, тому для гравця, якого ми ще не бачили, ID той самий.
func NewPlayerInfo(name string, rank *Rank) *PlayerInfo {
	info := &PlayerInfo{Name: name, ID: offline.NameToUUID(name)}
	info.rank.Store(rank)
	return info
}

func (i *PlayerInfo) Rank() *Rank     { return i.rank.Load() }
func (i *PlayerInfo) SetRank(r *Rank) { i.rank.Store(r) }
func (i *PlayerInfo) String() string  { return i.Name }

// PlayerConfig - налаштування, які сервер передає кожному гравцю
type PlayerConfig struct {
	// MaxUndoCount - скільки блоків може запам'ятати один UndoState
	MaxUndoCount int
	// MaxUndoStates - глибина стеків undo і redo
	MaxUndoStates int
}

// DefaultPlayerConfig повертає стандартні ліміти
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{MaxUndoCount: DefaultMaxUndoCount, MaxUndoStates: DefaultMaxUndoStates}
}

// Player - гравець онлайн
type Player struct {
	Entity
	Info *PlayerInfo
	// Super - консоль сервера, їй можна все
	Super bool

	out    Messenger
	world  atomic.Pointer[Map]
	config PlayerConfig

	selMu         sync.Mutex
	selection     *SelectionSession
	selectionMode atomic.Bool // true = повторне виділення (static)
	// DisableClickToMark вимикає розставлення міток кліками по блоках
	DisableClickToMark atomic.Bool

	undoMu    sync.Mutex
	undoStack []*UndoState
	redoStack []*UndoState
	drawUndo  *UndoState // стан, який зараз записує операція малювання

	copyMu    sync.Mutex
	copyState *CopyState

	confirmMu sync.Mutex
	confirm   *Confirmation
}

// NewPlayer створює гравця онлайн
func NewPlayer(info *PlayerInfo, out Messenger, config PlayerConfig) *Player {
	if config.MaxUndoCount <= 0 {
		config.MaxUndoCount = DefaultMaxUndoCount
	}
	if config.MaxUndoStates <= 0 {
		config.MaxUndoStates = DefaultMaxUndoStates
	}
	return &Player{
		Entity: Entity{EntityID: NewEntityID()},
		Info:   info,
		out:    out,
		config: config,
	}
}

func (p *Player) Name() string { return p.Info.Name }

// MaxUndoCount - ліміт блоків одного UndoState для цього гравця
func (p *Player) MaxUndoCount() int { return p.config.MaxUndoCount }

// World повертає карту, на якій знаходиться гравець
func (p *Player) World() *Map { return p.world.Load() }

// JoinWorld переносить гравця на карту
func (p *Player) JoinWorld(m *Map) {
	p.world.Store(m)
	p.SetPosition(m.Spawn.ToFloat())
}

// Can перевіряє що ранг гравця має всі дозволи
func (p *Player) Can(perms ...Permission) bool {
	return p.Super || p.Info.Rank().Can(perms...)
}

// CanOn перевіряє дозвіл щодо іншого гравця
func (p *Player) CanOn(perm Permission, target *PlayerInfo) bool {
	if p.Super || target == p.Info {
		return true
	}
	return p.Info.Rank().CanOn(perm, target.Rank())
}

// CanDraw перевіряє ліміт об'єму малювання рангу
func (p *Player) CanDraw(volume int64) bool {
	if p.Super {
		return true
	}
	limit := p.Info.Rank().DrawLimit
	return limit <= 0 || volume <= limit
}

// DrawLimit повертає ліміт малювання, 0 = без обмежень
func (p *Player) DrawLimit() int64 {
	if p.Super {
		return 0
	}
	return p.Info.Rank().DrawLimit
}

// CanPlace вирішує, чи може гравець поставити newBlock в coord.
// Порядок перевірок важливий: спочатку межі, потім тип блоку,
// потім карта, ранг світу, зони і нарешті права будувати/ламати.
func (p *Player) CanPlace(m *Map, coord Vector3I, newBlock block.ID, ctx BlockChangeContext) PlacementResult {
	if !m.InBounds(coord) {
		return PlacementOutOfBounds
	}
	if p.Super {
		return PlacementAllowed
	}
	rank := p.Info.Rank()

	switch newBlock {
	case block.Water, block.StillWater:
		if !rank.Can(PermPlaceWater) {
			return PlacementBlockTypeDenied
		}
	case block.Lava, block.StillLava:
		if !rank.Can(PermPlaceLava) {
			return PlacementBlockTypeDenied
		}
	case block.Bedrock:
		if !rank.Can(PermPlaceAdmincrete) {
			return PlacementBlockTypeDenied
		}
	}
	old := m.GetBlock(coord)
	if old == block.Bedrock && !rank.Can(PermDeleteAdmincrete) {
		return PlacementBlockTypeDenied
	}

	if m.IsReadOnly() {
		return PlacementMapReadOnly
	}
	if br := m.BuildRank(); br != nil && rank.Priority < br.Priority {
		return PlacementWorldDenied
	}
	if m.Zones().Check(coord, p.Info) != nil {
		return PlacementZoneDenied
	}

	if newBlock == block.Air {
		if !rank.Can(PermDelete) {
			return PlacementRankDenied
		}
	} else if !rank.Can(PermBuild) {
		return PlacementRankDenied
	}
	return PlacementAllowed
}

// CopyState повертає буфер копіювання гравця
func (p *Player) CopyState() *CopyState {
	p.copyMu.Lock()
	defer p.copyMu.Unlock()
	return p.copyState
}

// SetCopyState замінює буфер копіювання
func (p *Player) SetCopyState(s *CopyState) {
	p.copyMu.Lock()
	defer p.copyMu.Unlock()
	p.copyState = s
}

func (p *Player) String() string { return p.Info.Name }
