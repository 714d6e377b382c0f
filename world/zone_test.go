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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fcraft/block"
)

func TestZoneList(t *testing.T) {
	ranks := testRanks(t)
	zones := NewZoneList()
	castle := &Zone{
		Name:      "Castle",
		Bounds:    NewBoundingBox(Vector3I{0, 0, 0}, Vector3I{9, 9, 9}),
		MinRank:   ranks.Find("op"),
		Whitelist: []string{"Bob"},
	}
	garden := &Zone{
		Name:      "garden",
		Bounds:    NewBoundingBox(Vector3I{5, 5, 0}, Vector3I{20, 20, 2}),
		Blacklist: []string{"mallory"},
	}
	require.NoError(t, zones.Add(castle))
	require.NoError(t, zones.Add(garden))
	assert.ErrorIs(t, zones.Add(&Zone{Name: "castle"}), ErrZoneExists)
	assert.Same(t, castle, zones.Find("CASTLE"))

	assert.Len(t, zones.At(Vector3I{6, 6, 1}), 2)
	assert.Len(t, zones.Intersecting(NewBoundingBox(Vector3I{15, 15, 0}, Vector3I{30, 30, 0})), 1)

	guest := NewPlayerInfo("alice", ranks.Find("guest"))
	bob := NewPlayerInfo("bob", ranks.Find("guest"))
	mallory := NewPlayerInfo("Mallory", ranks.Highest())

	assert.Same(t, castle, zones.Check(Vector3I{1, 1, 1}, guest))
	assert.Nil(t, zones.Check(Vector3I{1, 1, 1}, bob), "whitelisted")
	assert.Same(t, garden, zones.Check(Vector3I{15, 15, 1}, mallory), "blacklist beats rank")
	assert.Nil(t, zones.Check(Vector3I{50, 50, 1}, guest))

	assert.True(t, zones.Remove("castle"))
	assert.False(t, zones.Remove("castle"))
	assert.Nil(t, zones.Check(Vector3I{1, 1, 1}, guest))
	assert.Equal(t, 1, zones.Len())
}

func TestProvider_SaveLoad(t *testing.T) {
	ranks := testRanks(t)
	dir := t.TempDir()
	p := NewProvider(filepath.Join(dir, "main.cw"), filepath.Join(dir, "backups"), ranks)

	m := testMap(t, Vector3I{8, 6, 4})
	m.Fill(NewBoundingBox(Vector3I{0, 0, 0}, Vector3I{7, 5, 0}), block.Grass)
	m.SetBlock(Vector3I{7, 5, 3}, block.Gold)
	m.Spawn = Vector3I{1, 2, 3}
	m.SetBuildRank(ranks.Find("builder"))
	require.NoError(t, m.Zones().Add(&Zone{
		Name:    "spawn",
		Bounds:  NewBoundingBox(Vector3I{0, 0, 0}, Vector3I{2, 2, 2}),
		MinRank: ranks.Find("op"),
	}))
	require.NoError(t, p.Save(m))
	assert.False(t, m.HasChangedSinceSave())

	loaded, err := p.Load(zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, m.Blocks(), loaded.Blocks())
	assert.Equal(t, m.Spawn, loaded.Spawn)
	assert.Same(t, ranks.Find("builder"), loaded.BuildRank())
	z := loaded.Zones().Find("spawn")
	require.NotNil(t, z)
	assert.Same(t, ranks.Find("op"), z.MinRank)

	name, err := p.Backup(m)
	require.NoError(t, err)
	backup, err := p.LoadBackup(zap.NewNop(), name)
	require.NoError(t, err)
	assert.Equal(t, block.Gold, backup.GetBlock(Vector3I{7, 5, 3}))

	_, err = p.LoadBackup(zap.NewNop(), "missing")
	assert.ErrorIs(t, err, ErrMapNotExist)
}
