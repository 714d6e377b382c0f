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

// Torus - горизонтальний бублик.
// Перша мітка - центр, горизонтальна відстань до другої - великий радіус,
// вертикальна - радіус труби (мінімум 1).
type Torus struct {
	center world.Vector3I
	major  float64
	tube   float64
}

func (t *Torus) Name() string       { return "Torus" }
func (t *Torus) ExpectedMarks() int { return 2 }

func (t *Torus) Prepare(op *Operation, marks []world.Vector3I) (world.BoundingBox, bool) {
	t.center = marks[0]
	d := marks[1].Sub(marks[0])
	t.major = math.Hypot(float64(d.X), float64(d.Y))
	if t.major < 1 {
		op.Player.Warn("Torus: the second mark must be away from the center horizontally.")
		return world.BoundingBox{}, false
	}
	t.tube = max(1, math.Abs(float64(d.Z)))
	h := int(math.Ceil(t.major + t.tube + 0.5))
	v := int(math.Ceil(t.tube + 0.5))
	return world.BoundingBoxAround(t.center, world.Vector3I{X: h, Y: h, Z: v}), true
}

func (t *Torus) Estimate(op *Operation) int64 {
	r := t.tube + 0.5
	est := 2 * math.Pi * math.Pi * t.major * r * r
	return min(op.Bounds.Volume(), int64(math.Ceil(est)))
}

func (t *Torus) contains(v world.Vector3I) bool {
	d := v.Sub(t.center)
	ring := t.major - math.Hypot(float64(d.X), float64(d.Y))
	r := t.tube + 0.5
	return ring*ring+float64(d.Z*d.Z) <= r*r
}

func (t *Torus) Candidates(op *Operation) iter.Seq[Candidate] {
	return boxCandidates(op.Bounds, t.contains)
}
