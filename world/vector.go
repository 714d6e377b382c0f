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

// Йоу, чат! Тут живуть вектори - координати блоків і точок у світі.
// Vector3I - координата блоку (цілі числа), Vector3F - точка в просторі.
// В Classic світі X і Y - горизонтальні осі, а Z - висота.

package world

import (
	"fmt"
	"math"
)

// Vector3I - цілочисельна координата
type Vector3I struct {
	X, Y, Z int
}

// Add додає вектори покомпонентно
func (v Vector3I) Add(o Vector3I) Vector3I { return Vector3I{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub віднімає вектори покомпонентно
func (v Vector3I) Sub(o Vector3I) Vector3I { return Vector3I{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Mul множить вектор на число
func (v Vector3I) Mul(k int) Vector3I { return Vector3I{v.X * k, v.Y * k, v.Z * k} }

// Abs повертає вектор з модулями компонент
func (v Vector3I) Abs() Vector3I { return Vector3I{abs(v.X), abs(v.Y), abs(v.Z)} }

// Min повертає покомпонентний мінімум
func (v Vector3I) Min(o Vector3I) Vector3I {
	return Vector3I{min(v.X, o.X), min(v.Y, o.Y), min(v.Z, o.Z)}
}

// Max повертає покомпонентний максимум
func (v Vector3I) Max(o Vector3I) Vector3I {
	return Vector3I{max(v.X, o.X), max(v.Y, o.Y), max(v.Z, o.Z)}
}

// LengthSquared - квадрат довжини, без переповнення на великих картах
func (v Vector3I) LengthSquared() int64 {
	x, y, z := int64(v.X), int64(v.Y), int64(v.Z)
	return x*x + y*y + z*z
}

// Length - довжина вектора
func (v Vector3I) Length() float64 { return math.Sqrt(float64(v.LengthSquared())) }

// ToFloat перетворює координату в точку
func (v Vector3I) ToFloat() Vector3F { return Vector3F{float64(v.X), float64(v.Y), float64(v.Z)} }

func (v Vector3I) String() string { return fmt.Sprintf("(%d,%d,%d)", v.X, v.Y, v.Z) }

// Vector3F - точка в просторі
type Vector3F struct {
	X, Y, Z float64
}

func (v Vector3F) Add(o Vector3F) Vector3F     { return Vector3F{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector3F) Sub(o Vector3F) Vector3F     { return Vector3F{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector3F) Scale(k float64) Vector3F    { return Vector3F{v.X * k, v.Y * k, v.Z * k} }
func (v Vector3F) Dot(o Vector3F) float64      { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vector3F) LengthSquared() float64      { return v.Dot(v) }
func (v Vector3F) Length() float64             { return math.Sqrt(v.LengthSquared()) }
func (v Vector3F) String() string              { return fmt.Sprintf("(%.2f,%.2f,%.2f)", v.X, v.Y, v.Z) }
func (v Vector3F) Cross(o Vector3F) Vector3F {
	return Vector3F{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Normalize повертає одиничний вектор того ж напрямку.
// Нульовий вектор лишається нульовим.
func (v Vector3F) Normalize() Vector3F {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Round округлює точку до найближчого блоку
func (v Vector3F) Round() Vector3I {
	return Vector3I{int(math.Round(v.X)), int(math.Round(v.Y)), int(math.Round(v.Z))}
}

// Floor повертає блок, в якому знаходиться точка
func (v Vector3F) Floor() Vector3I {
	return Vector3I{int(math.Floor(v.X)), int(math.Floor(v.Y)), int(math.Floor(v.Z))}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
