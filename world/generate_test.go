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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fcraft/block"
)

func TestGenerateFlatgrass(t *testing.T) {
	m, err := NewMap(zap.NewNop(), "flat", Vector3I{4, 4, 8})
	require.NoError(t, err)
	GenerateFlatgrass(m)

	assert.Equal(t, block.Dirt, m.GetBlock(Vector3I{0, 0, 0}))
	assert.Equal(t, block.Dirt, m.GetBlock(Vector3I{3, 3, 2}))
	assert.Equal(t, block.Grass, m.GetBlock(Vector3I{1, 2, 3}))
	assert.Equal(t, block.Air, m.GetBlock(Vector3I{1, 2, 4}))
	assert.Equal(t, Vector3I{2, 2, 5}, m.Spawn)
}
