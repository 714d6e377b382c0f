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

package blockdb

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fcraft/block"
	"fcraft/world"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(zap.NewNop(), "", true)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })
	return db
}

func TestEntry_Codec(t *testing.T) {
	alice := world.NewPlayerInfo("alice", nil)
	e := Entry{
		Time:    time.Unix(1700000000, 42),
		Coord:   world.Vector3I{X: 1, Y: 2000, Z: 3},
		Player:  alice.ID,
		Name:    alice.Name,
		Old:     block.Stone,
		New:     block.Air,
		Context: world.ContextDrawn | world.ContextReplaced,
	}
	var buf bytes.Buffer
	_, err := e.WriteTo(&buf)
	require.NoError(t, err)

	var got Entry
	_, err = got.ReadFrom(&buf)
	require.NoError(t, err)
	assert.True(t, e.Time.Equal(got.Time))
	got.Time = e.Time
	assert.Equal(t, e, got)
}

func TestDisabled(t *testing.T) {
	db := Disabled()
	assert.False(t, db.Enabled())
	assert.ErrorIs(t, db.Add("main", Entry{}), ErrDisabled)
	_, err := db.Lookup(context.Background(), "main", Query{})
	assert.ErrorIs(t, err, ErrDisabled)
	assert.NoError(t, db.Close())
}

func TestLookup(t *testing.T) {
	db := testDB(t)
	alice := world.NewPlayerInfo("alice", nil)
	bob := world.NewPlayerInfo("bob", nil)
	base := time.Now().Add(-time.Hour)

	add := func(who *world.PlayerInfo, x int, age time.Duration) {
		require.NoError(t, db.Add("main", Entry{
			Time:   base.Add(age),
			Coord:  world.Vector3I{X: x},
			Player: who.ID,
			Name:   who.Name,
			Old:    block.Air,
			New:    block.Stone,
		}))
	}
	add(alice, 0, 0)
	add(bob, 1, time.Minute)
	add(alice, 2, 2*time.Minute)
	add(alice, 3, 3*time.Minute)
	require.NoError(t, db.Add("other", Entry{Player: alice.ID, Coord: world.Vector3I{X: 9}}))
	ctx := context.Background()

	all, err := db.Lookup(ctx, "main", Query{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []int{3, 2, 1, 0}, xs(all))

	got, err := db.Lookup(ctx, "main", Query{Players: []uuid.UUID{alice.ID}, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, xs(got))

	got, err = db.Lookup(ctx, "main", Query{Players: []uuid.UUID{alice.ID}, Except: true})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, xs(got))

	got, err = db.Lookup(ctx, "main", Query{Since: base.Add(90 * time.Second)})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, xs(got))

	area := world.NewBoundingBox(world.Vector3I{X: 1}, world.Vector3I{X: 2})
	got, err = db.Lookup(ctx, "main", Query{Area: &area})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, xs(got))

	require.NoError(t, db.Clear("main"))
	got, err = db.Lookup(ctx, "main", Query{})
	require.NoError(t, err)
	assert.Empty(t, got)
	got, err = db.Lookup(ctx, "other", Query{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func xs(entries []Entry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Coord.X
	}
	return out
}

func TestOldBlocks_OldestPerCoord(t *testing.T) {
	c := world.Vector3I{X: 1}
	entries := []Entry{ // від нових до старих
		{Coord: c, Old: block.Dirt, New: block.Glass},
		{Coord: world.Vector3I{X: 2}, Old: block.Air, New: block.Sand},
		{Coord: c, Old: block.Air, New: block.Dirt},
	}
	got := OldBlocks(entries)
	assert.Equal(t, []world.UndoBlock{
		{Coord: c, Block: block.Air},
		{Coord: world.Vector3I{X: 2}, Block: block.Air},
	}, got)
}

func TestAttach_RecordsPlayerChanges(t *testing.T) {
	db := testDB(t)
	m, err := world.NewMap(zap.NewNop(), "main", world.Vector3I{X: 4, Y: 4, Z: 4})
	require.NoError(t, err)
	db.Attach(m)
	alice := world.NewPlayerInfo("alice", nil)

	m.QueueUpdate(world.BlockUpdate{Coord: world.Vector3I{X: 1}, Block: block.Stone, Origin: alice, Context: world.ContextManual})
	m.QueueUpdate(world.BlockUpdate{Coord: world.Vector3I{X: 2}, Block: block.Stone})
	m.SetBlockDBEnabled(false)
	m.QueueUpdate(world.BlockUpdate{Coord: world.Vector3I{X: 3}, Block: block.Stone, Origin: alice})

	got, err := db.Lookup(context.Background(), "main", Query{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, alice.ID, got[0].Player)
	assert.Equal(t, "alice", got[0].Name)
	assert.Equal(t, block.Air, got[0].Old)
	assert.Equal(t, block.Stone, got[0].New)
}
