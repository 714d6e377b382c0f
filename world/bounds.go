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
	"fmt"

	"fcraft/world/internal/bvh"
)

// BoundingBox - коробка блоків, вирівняна по осях.
// Обидві межі включні: коробка з однієї точки має об'єм 1.
// Інваріант: Min <= Max по кожній осі.
type BoundingBox struct {
	XMin, YMin, ZMin int
	XMax, YMax, ZMax int
}

// NewBoundingBox будує коробку з двох довільних кутів
func NewBoundingBox(a, b Vector3I) BoundingBox {
	return BoundingBox{
		XMin: min(a.X, b.X), YMin: min(a.Y, b.Y), ZMin: min(a.Z, b.Z),
		XMax: max(a.X, b.X), YMax: max(a.Y, b.Y), ZMax: max(a.Z, b.Z),
	}
}

// BoundingBoxAround будує коробку з центром і радіусами по осях
func BoundingBoxAround(center, radius Vector3I) BoundingBox {
	return NewBoundingBox(center.Sub(radius), center.Add(radius))
}

func (b BoundingBox) Width() int  { return b.XMax - b.XMin + 1 }
func (b BoundingBox) Length() int { return b.YMax - b.YMin + 1 }
func (b BoundingBox) Height() int { return b.ZMax - b.ZMin + 1 }

// Volume рахується в int64, бо виділення на великій карті легко
// перевищує межі int32
func (b BoundingBox) Volume() int64 {
	return int64(b.Width()) * int64(b.Length()) * int64(b.Height())
}

func (b BoundingBox) MinVertex() Vector3I  { return Vector3I{b.XMin, b.YMin, b.ZMin} }
func (b BoundingBox) MaxVertex() Vector3I  { return Vector3I{b.XMax, b.YMax, b.ZMax} }
func (b BoundingBox) Dimensions() Vector3I { return Vector3I{b.Width(), b.Length(), b.Height()} }

// Contains перевіряє чи координата в коробці
func (b BoundingBox) Contains(v Vector3I) bool {
	return b.XMin <= v.X && v.X <= b.XMax &&
		b.YMin <= v.Y && v.Y <= b.YMax &&
		b.ZMin <= v.Z && v.Z <= b.ZMax
}

// Intersect повертає перетин двох коробок. ok == false якщо вони не перетинаються.
func (b BoundingBox) Intersect(o BoundingBox) (box BoundingBox, ok bool) {
	box = BoundingBox{
		XMin: max(b.XMin, o.XMin), YMin: max(b.YMin, o.YMin), ZMin: max(b.ZMin, o.ZMin),
		XMax: min(b.XMax, o.XMax), YMax: min(b.YMax, o.YMax), ZMax: min(b.ZMax, o.ZMax),
	}
	ok = box.XMin <= box.XMax && box.YMin <= box.YMax && box.ZMin <= box.ZMax
	return
}

// Each обходить всі координати коробки: X найшвидше, Z найповільніше
func (b BoundingBox) Each(yield func(Vector3I) bool) {
	for z := b.ZMin; z <= b.ZMax; z++ {
		for y := b.YMin; y <= b.YMax; y++ {
			for x := b.XMin; x <= b.XMax; x++ {
				if !yield(Vector3I{x, y, z}) {
					return
				}
			}
		}
	}
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("%v-%v", b.MinVertex(), b.MaxVertex())
}

func (b BoundingBox) box() bvh.Box[int] {
	return bvh.Box[int]{
		Min: bvh.Vec3[int]{b.XMin, b.YMin, b.ZMin},
		Max: bvh.Vec3[int]{b.XMax, b.YMax, b.ZMax},
	}
}
