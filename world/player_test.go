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

func testRanks(t *testing.T) *RankList {
	t.Helper()
	ranks, err := NewRankList(DefaultRanks())
	require.NoError(t, err)
	return ranks
}

func testMap(t *testing.T, dims Vector3I) *Map {
	t.Helper()
	m, err := NewMap(zap.NewNop(), "test", dims)
	require.NoError(t, err)
	return m
}

func testPlayer(name string, rank *Rank) (*Player, *MessageLog) {
	log := new(MessageLog)
	return NewPlayer(NewPlayerInfo(name, rank), log, DefaultPlayerConfig()), log
}

func TestNewMap_Size(t *testing.T) {
	_, err := NewMap(zap.NewNop(), "big", Vector3I{MaxMapDimension + 1, 16, 16})
	assert.ErrorIs(t, err, ErrMapTooLarge)
	_, err = NewMap(zap.NewNop(), "empty", Vector3I{0, 16, 16})
	assert.ErrorIs(t, err, ErrInvalidMapSize)
}

func TestMap_GetSetBlock(t *testing.T) {
	m := testMap(t, Vector3I{4, 5, 6})
	v := Vector3I{3, 4, 5}
	old, ok := m.SetBlock(v, block.Stone)
	assert.True(t, ok)
	assert.Equal(t, block.Air, old)
	assert.Equal(t, block.Stone, m.GetBlock(v))
	assert.Equal(t, block.None, m.GetBlock(Vector3I{4, 0, 0}))
	assert.Equal(t, Vector3I{3, 0, 5}, m.ClampToBounds(Vector3I{10, -2, 5}))
}

func TestMap_QueueUpdate_RaisesChange(t *testing.T) {
	m := testMap(t, Vector3I{4, 4, 4})
	var events []BlockChange
	m.OnBlockChanged(func(e BlockChange) { events = append(events, e) })

	info := NewPlayerInfo("alice", nil)
	m.QueueUpdate(BlockUpdate{Coord: Vector3I{1, 1, 1}, Block: block.Dirt, Origin: info, Context: ContextDrawn})
	m.QueueUpdate(BlockUpdate{Coord: Vector3I{1, 1, 1}, Block: block.Dirt, Origin: info}) // без змін
	assert.False(t, m.QueueUpdate(BlockUpdate{Coord: Vector3I{9, 9, 9}, Block: block.Dirt}))

	require.Len(t, events, 1)
	assert.Equal(t, block.Air, events[0].Old)
	assert.Equal(t, block.Dirt, events[0].New)
	assert.Same(t, info, events[0].Player)
	assert.True(t, events[0].Context.Has(ContextDrawn))
}

func TestPlayer_CanPlace(t *testing.T) {
	ranks := testRanks(t)
	m := testMap(t, Vector3I{16, 16, 16})
	guest, _ := testPlayer("guest", ranks.Find("guest"))
	op, _ := testPlayer("op", ranks.Find("op"))
	c := Vector3I{1, 1, 1}

	assert.Equal(t, PlacementOutOfBounds, op.CanPlace(m, Vector3I{-1, 0, 0}, block.Stone, ContextManual))
	assert.Equal(t, PlacementAllowed, guest.CanPlace(m, c, block.Stone, ContextManual))
	assert.Equal(t, PlacementBlockTypeDenied, guest.CanPlace(m, c, block.Lava, ContextManual))
	assert.Equal(t, PlacementAllowed, op.CanPlace(m, c, block.Bedrock, ContextManual))

	m.SetBlock(c, block.Bedrock)
	assert.Equal(t, PlacementBlockTypeDenied, guest.CanPlace(m, c, block.Air, ContextManual))
	m.SetBlock(c, block.Air)

	m.SetBuildRank(ranks.Find("builder"))
	assert.Equal(t, PlacementWorldDenied, guest.CanPlace(m, c, block.Stone, ContextManual))
	m.SetBuildRank(nil)

	require.NoError(t, m.Zones().Add(&Zone{
		Name:    "spawn",
		Bounds:  NewBoundingBox(Vector3I{0, 0, 0}, Vector3I{3, 3, 3}),
		MinRank: ranks.Find("op"),
	}))
	assert.Equal(t, PlacementZoneDenied, guest.CanPlace(m, c, block.Stone, ContextManual))
	assert.Equal(t, PlacementAllowed, op.CanPlace(m, c, block.Stone, ContextManual))
	assert.Equal(t, PlacementAllowed, guest.CanPlace(m, Vector3I{8, 8, 8}, block.Stone, ContextManual))

	m.SetReadOnly(true)
	assert.Equal(t, PlacementMapReadOnly, op.CanPlace(m, Vector3I{8, 8, 8}, block.Stone, ContextManual))
}

func TestRank_CanOn(t *testing.T) {
	ranks := testRanks(t)
	op := ranks.Find("op")
	assert.True(t, op.CanOn(PermUndoOthersActions, ranks.Find("guest")))
	assert.True(t, op.CanOn(PermUndoOthersActions, ranks.Find("builder")))
	assert.False(t, op.CanOn(PermUndoOthersActions, ranks.Find("op")))
	assert.False(t, ranks.Find("builder").CanOn(PermUndoOthersActions, ranks.Find("guest")))
	assert.True(t, ranks.Highest().Can(PermUndoAll, PermManageZones))
}

func TestNewRankList_Errors(t *testing.T) {
	_, err := NewRankList([]RankDefinition{{Name: "a", Permissions: []string{"fly"}}})
	assert.ErrorIs(t, err, ErrUnknownPermission)
	_, err = NewRankList([]RankDefinition{{Name: "a", Limits: map[string]string{"build": "nobody"}}})
	assert.Error(t, err)
	_, err = NewRankList([]RankDefinition{{Name: "a"}, {Name: "A"}})
	assert.Error(t, err)
}

func TestPlayer_CanDraw(t *testing.T) {
	ranks := testRanks(t)
	builder, _ := testPlayer("b", ranks.Find("builder"))
	assert.True(t, builder.CanDraw(64*64*64))
	assert.False(t, builder.CanDraw(64*64*64+1))
	owner, _ := testPlayer("o", ranks.Find("owner"))
	assert.True(t, owner.CanDraw(1<<40))
}

func TestPlayer_Confirm(t *testing.T) {
	p, log := testPlayer("p", nil)
	assert.False(t, p.RunConfirmation())

	ran := 0
	p.Confirm(func() { ran++ }, "Undo %d changes?", 5)
	assert.Contains(t, log.Last(), "Undo 5 changes?")
	assert.True(t, p.RunConfirmation())
	assert.False(t, p.RunConfirmation())
	assert.Equal(t, 1, ran)
}
