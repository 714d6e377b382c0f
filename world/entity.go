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

// Йоу, чат! Сутність - це будь-що на карті, що має позицію.
// В нашому сервері це тільки гравці, але ID і позицію винесено окремо,
// щоб з ними було зручно працювати.

package world

import (
	"math"
	"sync"
	"sync/atomic"
)

// entityCounter - атомарний лічильник для генерації унікальних ID сутностей
var entityCounter atomic.Int32

// NewEntityID генерує новий унікальний ID для сутності
func NewEntityID() int32 {
	return entityCounter.Add(1)
}

// Entity - базові поля сутності
type Entity struct {
	EntityID int32

	posMu    sync.Mutex
	position Position
}

// Position - позиція у просторі в блоках. Z - висота.
type Position = Vector3F

// Position повертає поточну позицію
func (e *Entity) Position() Position {
	e.posMu.Lock()
	defer e.posMu.Unlock()
	return e.position
}

// SetPosition переміщує сутність. Некоректні координати ігноруються.
func (e *Entity) SetPosition(p Position) bool {
	if !isValidPosition(p) {
		return false
	}
	e.posMu.Lock()
	defer e.posMu.Unlock()
	e.position = p
	return true
}

// BlockPosition повертає блок, в якому стоїть сутність
func (e *Entity) BlockPosition() Vector3I { return e.Position().Floor() }

// isValidPosition відкидає NaN і нескінченності, які можуть прийти від клієнта
func isValidPosition(p Position) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsNaN(p.Z) &&
		!math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0) && !math.IsInf(p.Z, 0)
}
