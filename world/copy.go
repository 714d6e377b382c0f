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

package world

import (
	"time"

	"fcraft/block"
)

// CopyState - буфер /copy і /cut.
// Blocks індексуються так само як карта: X найшвидше, Z найповільніше.
type CopyState struct {
	Dims   Vector3I
	Blocks []block.ID
	// Anchor - зсув першої мітки копіювання від мінімального кута.
	// При вставці саме ця точка стає на мітку вставки.
	Anchor   Vector3I
	Source   string // назва карти
	CopyTime time.Time
}

// CopyFrom копіює коробку з карти. Частина коробки за межами карти
// заповнюється повітрям.
func CopyFrom(m *Map, box BoundingBox, firstMark Vector3I) *CopyState {
	s := &CopyState{
		Dims:     box.Dimensions(),
		Blocks:   make([]block.ID, box.Volume()),
		Anchor:   firstMark.Sub(box.MinVertex()),
		Source:   m.Name(),
		CopyTime: time.Now(),
	}
	i := 0
	box.Each(func(v Vector3I) bool {
		if b := m.GetBlock(v); b != block.None {
			s.Blocks[i] = b
		}
		i++
		return true
	})
	return s
}

// Volume - кількість блоків у буфері
func (s *CopyState) Volume() int64 {
	return int64(s.Dims.X) * int64(s.Dims.Y) * int64(s.Dims.Z)
}

// Get повертає блок буфера за локальною координатою
func (s *CopyState) Get(v Vector3I) (block.ID, bool) {
	if v.X < 0 || v.Y < 0 || v.Z < 0 || v.X >= s.Dims.X || v.Y >= s.Dims.Y || v.Z >= s.Dims.Z {
		return block.None, false
	}
	return s.Blocks[(v.Z*s.Dims.Y+v.Y)*s.Dims.X+v.X], true
}

// PasteBounds повертає коробку, яку займе вставка з міткою anchor
func (s *CopyState) PasteBounds(anchor Vector3I) BoundingBox {
	lo := anchor.Sub(s.Anchor)
	return NewBoundingBox(lo, lo.Add(s.Dims).Sub(Vector3I{1, 1, 1}))
}
