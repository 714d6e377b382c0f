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

package draw

import (
	"iter"

	"fcraft/world"
)

// CuboidMode - варіант кубоїда
type CuboidMode int

const (
	CuboidSolid CuboidMode = iota
	CuboidHollow
	CuboidWireframe
)

// Cuboid - коробка між двома мітками
type Cuboid struct {
	Mode CuboidMode
	name string
	box  world.BoundingBox
}

// NewCuboid створює кубоїд потрібного варіанту
func NewCuboid(mode CuboidMode) *Cuboid {
	names := [...]string{"Cuboid", "CuboidH", "CuboidW"}
	return &Cuboid{Mode: mode, name: names[mode]}
}

// NewReplaceShape - це той самий суцільний кубоїд, тільки під іншим ім'ям
func NewReplaceShape(name string) *Cuboid {
	return &Cuboid{Mode: CuboidSolid, name: name}
}

func (c *Cuboid) Name() string       { return c.name }
func (c *Cuboid) ExpectedMarks() int { return 2 }

func (c *Cuboid) Prepare(_ *Operation, marks []world.Vector3I) (world.BoundingBox, bool) {
	c.box = world.NewBoundingBox(marks[0], marks[1])
	return c.box, true
}

func (c *Cuboid) Estimate(op *Operation) int64 {
	v := op.Bounds.Volume()
	w, l, h := int64(c.box.Width()), int64(c.box.Length()), int64(c.box.Height())
	switch c.Mode {
	case CuboidHollow:
		if w > 2 && l > 2 && h > 2 {
			v = min(v, w*l*h-(w-2)*(l-2)*(h-2))
		}
	case CuboidWireframe:
		v = min(v, 4*(w+l+h))
	}
	return v
}

func (c *Cuboid) Candidates(op *Operation) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		op.Bounds.Each(func(v world.Vector3I) bool {
			if !c.contains(v) {
				return true
			}
			return yield(Candidate{Coord: v})
		})
	}
}

// contains перевіряє належність до оболонки або каркасу
// повної (не обрізаної картою) коробки
func (c *Cuboid) contains(v world.Vector3I) bool {
	if c.Mode == CuboidSolid {
		return true
	}
	b := c.box
	edges := 0
	if v.X == b.XMin || v.X == b.XMax {
		edges++
	}
	if v.Y == b.YMin || v.Y == b.YMax {
		edges++
	}
	if v.Z == b.ZMin || v.Z == b.ZMax {
		edges++
	}
	if c.Mode == CuboidHollow {
		return edges >= 1
	}
	return edges >= 2
}
