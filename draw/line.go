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
	"math"

	"fcraft/world"
)

// Line - пряма від першої мітки до другої
type Line struct {
	a, b world.Vector3I
}

func (l *Line) Name() string       { return "Line" }
func (l *Line) ExpectedMarks() int { return 2 }

func (l *Line) Prepare(_ *Operation, marks []world.Vector3I) (world.BoundingBox, bool) {
	l.a, l.b = marks[0], marks[1]
	return world.NewBoundingBox(l.a, l.b), true
}

func (l *Line) Estimate(*Operation) int64 {
	d := l.b.Sub(l.a).Abs()
	return int64(max(d.X, d.Y, d.Z)) + 1
}

func (l *Line) Candidates(*Operation) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for v := range lineCoords(l.a, l.b) {
			if !yield(Candidate{Coord: v}) {
				return
			}
		}
	}
}

// lineCoords - тривимірний Брезенхем, включно з обома кінцями
func lineCoords(a, b world.Vector3I) iter.Seq[world.Vector3I] {
	return func(yield func(world.Vector3I) bool) {
		d := b.Sub(a)
		ad := d.Abs()
		step := world.Vector3I{X: sign(d.X), Y: sign(d.Y), Z: sign(d.Z)}
		p := a

		// головна вісь - та, вздовж якої лінія найдовша
		var major, m1, m2 *int
		var dMajor, d1, d2 int
		var sMajor, s1, s2 int
		switch {
		case ad.X >= ad.Y && ad.X >= ad.Z:
			major, m1, m2 = &p.X, &p.Y, &p.Z
			dMajor, d1, d2 = ad.X, ad.Y, ad.Z
			sMajor, s1, s2 = step.X, step.Y, step.Z
		case ad.Y >= ad.Z:
			major, m1, m2 = &p.Y, &p.X, &p.Z
			dMajor, d1, d2 = ad.Y, ad.X, ad.Z
			sMajor, s1, s2 = step.Y, step.X, step.Z
		default:
			major, m1, m2 = &p.Z, &p.X, &p.Y
			dMajor, d1, d2 = ad.Z, ad.X, ad.Y
			sMajor, s1, s2 = step.Z, step.X, step.Y
		}

		e1, e2 := 2*d1-dMajor, 2*d2-dMajor
		for i := 0; i <= dMajor; i++ {
			if !yield(p) {
				return
			}
			if e1 > 0 {
				*m1 += s1
				e1 -= 2 * dMajor
			}
			if e2 > 0 {
				*m2 += s2
				e2 -= 2 * dMajor
			}
			e1 += 2 * d1
			e2 += 2 * d2
			*major += sMajor
		}
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Triangle - трикутник з трьох міток, суцільний або лише ребра
type Triangle struct {
	Wireframe bool

	a, b, c world.Vector3I
	normal  world.Vector3F
	unit    world.Vector3F
}

func (t *Triangle) Name() string {
	if t.Wireframe {
		return "TriangleW"
	}
	return "Triangle"
}

func (t *Triangle) ExpectedMarks() int { return 3 }

func (t *Triangle) Prepare(op *Operation, marks []world.Vector3I) (world.BoundingBox, bool) {
	t.a, t.b, t.c = marks[0], marks[1], marks[2]
	t.normal = t.b.Sub(t.a).ToFloat().Cross(t.c.Sub(t.a).ToFloat())
	if !t.Wireframe && t.normal.LengthSquared() == 0 {
		op.Player.Warn("%s: all three marks are on one line.", t.Name())
		return world.BoundingBox{}, false
	}
	if t.normal.LengthSquared() > 0 {
		t.unit = t.normal.Normalize()
	}
	box := world.NewBoundingBox(t.a, t.b)
	box = world.NewBoundingBox(box.MinVertex().Min(t.c), box.MaxVertex().Max(t.c))
	return box, true
}

func (t *Triangle) Estimate(op *Operation) int64 {
	ab := t.b.Sub(t.a).Length()
	bc := t.c.Sub(t.b).Length()
	ca := t.a.Sub(t.c).Length()
	est := ab + bc + ca + 3
	if !t.Wireframe {
		est += t.normal.Length() / 2
	}
	return min(op.Bounds.Volume(), int64(math.Ceil(est)))
}

func (t *Triangle) Candidates(op *Operation) iter.Seq[Candidate] {
	if t.Wireframe {
		return t.edges()
	}
	return boxCandidates(op.Bounds, t.contains)
}

// edges обходить три ребра, не повторюючи вершини
func (t *Triangle) edges() iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		seen := make(map[world.Vector3I]struct{})
		for _, e := range [...][2]world.Vector3I{{t.a, t.b}, {t.b, t.c}, {t.c, t.a}} {
			for v := range lineCoords(e[0], e[1]) {
				if _, ok := seen[v]; ok {
					continue
				}
				seen[v] = struct{}{}
				if !yield(Candidate{Coord: v}) {
					return
				}
			}
		}
	}
}

// contains: блок не далі півблоку від площини і від кожного ребра всередину
func (t *Triangle) contains(v world.Vector3I) bool {
	p := v.ToFloat()
	dist := p.Sub(t.a.ToFloat()).Dot(t.unit)
	if math.Abs(dist) > 0.5 {
		return false
	}
	q := p.Sub(t.unit.Scale(dist))
	return t.edgeSide(t.a, t.b, q) && t.edgeSide(t.b, t.c, q) && t.edgeSide(t.c, t.a, q)
}

func (t *Triangle) edgeSide(from, to world.Vector3I, q world.Vector3F) bool {
	e := to.Sub(from).ToFloat()
	s := e.Cross(q.Sub(from.ToFloat())).Dot(t.unit)
	return s >= -0.5*e.Length()
}
