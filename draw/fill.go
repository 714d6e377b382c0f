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

// Йоу, чат! Заливка в площині.
// Беремо блок під міткою і розтікаємось на сусідів з таким самим блоком,
// але тільки в одній площині. Обхід робиться одразу в Prepare, бо інакше
// не знати ні меж, ні розміру. Якщо область більша за ліміт гравця
// (або за площу площини карти), то заливка відмовляє.

package draw

import (
	"iter"

	"fcraft/block"
	"fcraft/world"
)

// FillPlane - площина заливки
type FillPlane int

const (
	FillXY FillPlane = iota // горизонтальна
	FillXZ
	FillYZ
)

func (p FillPlane) String() string {
	switch p {
	case FillXZ:
		return "XZ"
	case FillYZ:
		return "YZ"
	}
	return "XY"
}

func (p FillPlane) steps() [4]world.Vector3I {
	switch p {
	case FillXZ:
		return [4]world.Vector3I{{X: 1}, {X: -1}, {Z: 1}, {Z: -1}}
	case FillYZ:
		return [4]world.Vector3I{{Y: 1}, {Y: -1}, {Z: 1}, {Z: -1}}
	}
	return [4]world.Vector3I{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}
}

// Fill2D - заливка області з однаковим блоком
type Fill2D struct {
	Plane FillPlane

	source block.ID
	coords []world.Vector3I
}

func (f *Fill2D) Name() string       { return "Fill2D" }
func (f *Fill2D) ExpectedMarks() int { return 1 }

func (f *Fill2D) Prepare(op *Operation, marks []world.Vector3I) (world.BoundingBox, bool) {
	origin := marks[0]
	if !op.Map.InBounds(origin) {
		op.Player.Warn("Fill2D: the mark is outside the map.")
		return world.BoundingBox{}, false
	}
	f.source = op.Map.GetBlock(origin)
	if nb, ok := op.Brush.(NormalBrush); ok && nb.Block == f.source {
		op.Player.Warn("Fill2D: the area is already %s.", f.source)
		return world.BoundingBox{}, false
	}

	limit := f.planeArea(op.Map)
	if dl := op.Player.DrawLimit(); dl > 0 {
		limit = min(limit, dl)
	}

	steps := f.Plane.steps()
	seen := map[world.Vector3I]struct{}{origin: {}}
	queue := []world.Vector3I{origin}
	box := world.NewBoundingBox(origin, origin)
	f.coords = f.coords[:0]
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		f.coords = append(f.coords, v)
		if int64(len(f.coords)) > limit {
			op.Player.Warn("Fill2D: the area is too large, it has over %d blocks.", limit)
			f.coords = nil
			return world.BoundingBox{}, false
		}
		box = world.NewBoundingBox(box.MinVertex().Min(v), box.MaxVertex().Max(v))
		for _, s := range steps {
			n := v.Add(s)
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			if op.Map.InBounds(n) && op.Map.GetBlock(n) == f.source {
				queue = append(queue, n)
			}
		}
	}
	return box, true
}

func (f *Fill2D) planeArea(m *world.Map) int64 {
	switch f.Plane {
	case FillXZ:
		return int64(m.Width()) * int64(m.Height())
	case FillYZ:
		return int64(m.Length()) * int64(m.Height())
	}
	return int64(m.Width()) * int64(m.Length())
}

func (f *Fill2D) Estimate(*Operation) int64 { return int64(len(f.coords)) }

func (f *Fill2D) Candidates(op *Operation) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for _, v := range f.coords {
			// за час між Prepare і малюванням блок могли поміняти
			if op.Map.GetBlock(v) != f.source {
				continue
			}
			if !yield(Candidate{Coord: v}) {
				return
			}
		}
	}
}
