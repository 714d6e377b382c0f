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

// Йоу, чат! Кулі і еліпсоїди.
// Куля: перша мітка - центр, друга - точка на поверхні.
// Блок належить кулі, якщо квадрат відстані до центру не більший за (r+0.5)².
// Порожниста куля ще й викидає все ближче за (r-0.5), тому центр не чіпається.
// Еліпсоїд вписується в коробку двох міток, а його оболонка - це блоки,
// у яких хоча б один сусід вже зовні.

package draw

import (
	"iter"
	"math"

	"fcraft/world"
)

// Sphere - куля навколо першої мітки
type Sphere struct {
	Hollow bool
	center world.Vector3I
	radius float64
}

func (s *Sphere) Name() string {
	if s.Hollow {
		return "SphereH"
	}
	return "Sphere"
}

func (s *Sphere) ExpectedMarks() int { return 2 }

func (s *Sphere) Prepare(_ *Operation, marks []world.Vector3I) (world.BoundingBox, bool) {
	s.center = marks[0]
	s.radius = marks[1].Sub(marks[0]).Length()
	r := int(math.Floor(s.radius + 0.5))
	return world.BoundingBoxAround(s.center, world.Vector3I{X: r, Y: r, Z: r}), true
}

func (s *Sphere) Estimate(op *Operation) int64 {
	outer := s.radius + 0.5
	est := 4.0 / 3.0 * math.Pi * outer * outer * outer
	if s.Hollow {
		inner := max(s.radius-0.5, 0)
		est -= 4.0 / 3.0 * math.Pi * inner * inner * inner
	}
	return min(op.Bounds.Volume(), int64(math.Ceil(est)))
}

func (s *Sphere) contains(v world.Vector3I) bool {
	d2 := float64(v.Sub(s.center).LengthSquared())
	outer := s.radius + 0.5
	if d2 > outer*outer {
		return false
	}
	if s.Hollow {
		if inner := s.radius - 0.5; inner > 0 && d2 < inner*inner {
			return false
		}
	}
	return true
}

func (s *Sphere) Candidates(op *Operation) iter.Seq[Candidate] {
	return boxCandidates(op.Bounds, s.contains)
}

// Ellipsoid - еліпсоїд, вписаний у коробку двох міток
type Ellipsoid struct {
	Hollow bool
	center world.Vector3F
	radii  world.Vector3F
}

func (e *Ellipsoid) Name() string {
	if e.Hollow {
		return "EllipsoidH"
	}
	return "Ellipsoid"
}

func (e *Ellipsoid) ExpectedMarks() int { return 2 }

func (e *Ellipsoid) Prepare(_ *Operation, marks []world.Vector3I) (world.BoundingBox, bool) {
	box := world.NewBoundingBox(marks[0], marks[1])
	e.center = box.MinVertex().ToFloat().Add(box.MaxVertex().ToFloat()).Scale(0.5)
	e.radii = box.Dimensions().ToFloat().Scale(0.5)
	return box, true
}

func (e *Ellipsoid) inside(v world.Vector3I) bool {
	d := v.ToFloat().Sub(e.center)
	x, y, z := d.X/e.radii.X, d.Y/e.radii.Y, d.Z/e.radii.Z
	return x*x+y*y+z*z <= 1
}

var neighbours = [...]world.Vector3I{
	{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
}

func (e *Ellipsoid) contains(v world.Vector3I) bool {
	if !e.inside(v) {
		return false
	}
	if !e.Hollow {
		return true
	}
	for _, n := range neighbours {
		if !e.inside(v.Add(n)) {
			return true
		}
	}
	return false
}

func (e *Ellipsoid) Estimate(op *Operation) int64 {
	r := e.radii
	est := 4.0 / 3.0 * math.Pi * r.X * r.Y * r.Z
	if e.Hollow && r.X > 1 && r.Y > 1 && r.Z > 1 {
		est -= 4.0 / 3.0 * math.Pi * (r.X - 1) * (r.Y - 1) * (r.Z - 1)
	}
	return min(op.Bounds.Volume(), int64(math.Ceil(est)))
}

func (e *Ellipsoid) Candidates(op *Operation) iter.Seq[Candidate] {
	return boxCandidates(op.Bounds, e.contains)
}

// boxCandidates обходить коробку і пропускає координати, які не проходять test
func boxCandidates(box world.BoundingBox, test func(world.Vector3I) bool) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		box.Each(func(v world.Vector3I) bool {
			if !test(v) {
				return true
			}
			return yield(Candidate{Coord: v})
		})
	}
}
