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

// Йоу, чат! Тут у нас цілочисельні коробки для BVH дерева.
// На відміну від фізики сутностей, зонам потрібні точні межі по блоках,
// тому обидві точки коробки включні: блок на межі належить коробці.

package bvh

import "golang.org/x/exp/constraints"

// Vec3 - тривимірна цілочисельна точка
type Vec3[I constraints.Integer] [3]I

// Box - коробка, вирівняна по осях. Min і Max включні.
type Box[I constraints.Integer] struct {
	Min, Max Vec3[I]
}

// Contains перевіряє чи точка лежить всередині коробки (разом з межами)
func (b Box[I]) Contains(p Vec3[I]) bool {
	return b.Min[0] <= p[0] && p[0] <= b.Max[0] &&
		b.Min[1] <= p[1] && p[1] <= b.Max[1] &&
		b.Min[2] <= p[2] && p[2] <= b.Max[2]
}

// Touch перевіряє чи дві коробки мають хоча б один спільний блок
func (b Box[I]) Touch(o Box[I]) bool {
	return b.Min[0] <= o.Max[0] && o.Min[0] <= b.Max[0] &&
		b.Min[1] <= o.Max[1] && o.Min[1] <= b.Max[1] &&
		b.Min[2] <= o.Max[2] && o.Min[2] <= b.Max[2]
}

// Union повертає найменшу коробку, що містить обидві
func (b Box[I]) Union(o Box[I]) Box[I] {
	var u Box[I]
	for i := range 3 {
		u.Min[i] = min(b.Min[i], o.Min[i])
		u.Max[i] = max(b.Max[i], o.Max[i])
	}
	return u
}

// Volume - кількість блоків у коробці
func (b Box[I]) Volume() int64 {
	v := int64(1)
	for i := range 3 {
		v *= int64(b.Max[i]-b.Min[i]) + 1
	}
	return v
}
