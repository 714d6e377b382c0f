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

package block

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for input, want := range map[string]ID{
		"stone":      Stone,
		"STONE":      Stone,
		" dirt ":     Dirt,
		"cobble":     Cobblestone,
		"0":          Air,
		"49":         Obsidian,
		"stonebrick": StoneBrick,
	} {
		got, err := Parse(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	for _, bad := range []string{"", "unobtanium", "-1", "66", "255"} {
		_, err := Parse(bad)
		assert.True(t, errors.Is(err, ErrUnknownBlock), bad)
	}
}

func TestID_String(t *testing.T) {
	assert.Equal(t, "grass", Grass.String())
	assert.Equal(t, "none", None.String())
	assert.True(t, Obsidian.IsClassic())
	assert.False(t, Ice.IsClassic())
	assert.True(t, Ice.IsValid())
}

func TestParseList(t *testing.T) {
	ids, err := ParseList([]string{"dirt", "#liquid", "water"})
	require.NoError(t, err)
	assert.Equal(t, []ID{Dirt, Water, StillWater, Lava, StillLava}, ids)

	_, err = ParseList([]string{"#nope"})
	assert.Error(t, err)

	tag, ok := LookupTag("#wool")
	require.True(t, ok)
	assert.True(t, tag.Has(White))
	assert.False(t, tag.Has(Stone))
}
