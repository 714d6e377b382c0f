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

import "fcraft/block"

// GenerateFlatgrass робить плоску карту: земля до середини висоти і шар трави зверху
func GenerateFlatgrass(m *Map) {
	ground := m.height / 2
	if ground < 1 {
		return
	}
	maxX, maxY := m.width-1, m.length-1
	if ground > 1 {
		m.Fill(NewBoundingBox(Vector3I{}, Vector3I{X: maxX, Y: maxY, Z: ground - 2}), block.Dirt)
	}
	m.Fill(NewBoundingBox(Vector3I{Z: ground - 1}, Vector3I{X: maxX, Y: maxY, Z: ground - 1}), block.Grass)
	m.Spawn = Vector3I{X: m.width / 2, Y: m.length / 2, Z: ground + 1}
}
