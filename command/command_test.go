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

package command

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fcraft/block"
	"fcraft/blockdb"
	"fcraft/scheduler"
	"fcraft/world"
)

type vec = world.Vector3I

type playerMap map[string]*world.PlayerInfo

func (m playerMap) FindPlayer(name string) *world.PlayerInfo { return m[strings.ToLower(name)] }

type fixture struct {
	env   *Env
	m     *world.Map
	ranks *world.RankList
}

func newFixture(t *testing.T, db *blockdb.DB) *fixture {
	t.Helper()
	ranks, err := world.NewRankList(world.DefaultRanks())
	require.NoError(t, err)
	m, err := world.NewMap(zap.NewNop(), "test", vec{X: 16, Y: 16, Z: 16})
	require.NoError(t, err)
	if db == nil {
		db = blockdb.Disabled()
	}
	db.Attach(m)
	return &fixture{
		env: &Env{
			Log:       zap.NewNop(),
			Scheduler: scheduler.New(zap.NewNop()),
			BlockDB:   db,
			Registry:  NewRegistry(),
			Players:   playerMap{},
		},
		m:     m,
		ranks: ranks,
	}
}

func (f *fixture) join(t *testing.T, name, rank string) (*world.Player, *world.MessageLog) {
	t.Helper()
	r := f.ranks.Find(rank)
	require.NotNil(t, r)
	info := world.NewPlayerInfo(name, r)
	f.env.Players.(playerMap)[strings.ToLower(name)] = info
	log := new(world.MessageLog)
	p := world.NewPlayer(info, log, world.DefaultPlayerConfig())
	p.JoinWorld(f.m)
	return p, log
}

func (f *fixture) run(p *world.Player, lines ...string) {
	for _, line := range lines {
		f.env.Registry.Dispatch(f.env, p, line)
	}
	f.m.FinishDrawOps()
}

func countBlocks(m *world.Map, id block.ID) (n int) {
	for _, b := range m.Blocks() {
		if b == id {
			n++
		}
	}
	return n
}

func TestRegistry_Find(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, "cuboid", r.Find("Z").Name)
	assert.Equal(t, "undoplayer", r.Find("up").Name)
	assert.Nil(t, r.Find("nope"))
	assert.Panics(t, func() { r.Register(&Descriptor{Name: "undo"}) })
}

func TestDispatch_UnknownAndDenied(t *testing.T) {
	f := newFixture(t, nil)
	p, log := f.join(t, "Guest", "guest")

	f.run(p, "/nope")
	assert.Contains(t, log.Last(), "Unknown command")

	f.run(p, "/cuboid stone")
	assert.Contains(t, log.Last(), "not allowed to use /cuboid")
	assert.False(t, p.IsMakingSelection())
}

func TestHelp_ListsAllowedCommands(t *testing.T) {
	f := newFixture(t, nil)
	p, log := f.join(t, "Guest", "guest")
	f.run(p, "/help")
	assert.Contains(t, log.Last(), "undo")
	assert.NotContains(t, log.Last(), "cuboid")

	f.run(p, "/help up")
	lines := log.Lines()
	assert.Contains(t, lines[len(lines)-2], "/undoplayer")
}

func TestCuboid_WithMarks(t *testing.T) {
	f := newFixture(t, nil)
	p, log := f.join(t, "Builder", "builder")

	f.run(p, "/cuboid stone")
	assert.True(t, p.IsMakingSelection())
	f.run(p, "/mark 1 1 1", "/mark 2 2 2")

	assert.False(t, p.IsMakingSelection())
	assert.Equal(t, 8, countBlocks(f.m, block.Stone))
	assert.Contains(t, log.Last(), "8 blocks changed")
}

func TestCuboid_BadBlock(t *testing.T) {
	f := newFixture(t, nil)
	p, log := f.join(t, "Builder", "builder")
	f.run(p, "/cuboid unobtainium")
	assert.Contains(t, log.Last(), "unobtainium")
	assert.False(t, p.IsMakingSelection())
}

func TestUndoRedo(t *testing.T) {
	f := newFixture(t, nil)
	p, log := f.join(t, "Builder", "builder")

	f.run(p, "/undo")
	assert.Contains(t, log.Last(), "nothing to undo")

	f.run(p, "/cuboid stone", "/mark 0 0 0", "/mark 3 0 0")
	require.Equal(t, 4, countBlocks(f.m, block.Stone))

	f.run(p, "/undo")
	assert.Equal(t, 0, countBlocks(f.m, block.Stone))
	f.run(p, "/redo")
	assert.Equal(t, 4, countBlocks(f.m, block.Stone))
	f.run(p, "/redo")
	assert.Contains(t, log.Last(), "nothing to redo")
}

func TestUndo_CancelsRunningDraw(t *testing.T) {
	f := newFixture(t, nil)
	p, log := f.join(t, "Owner", "owner")
	f.m.SetDrawThrottle(10, nil)

	f.env.Registry.Dispatch(f.env, p, "/cuboid stone")
	f.env.Registry.Dispatch(f.env, p, "/mark 0 0 0")
	f.env.Registry.Dispatch(f.env, p, "/mark 15 15 0")
	f.m.ProcessDrawOps(10)
	require.Equal(t, 10, countBlocks(f.m, block.Stone))
	running := p.PeekUndo()
	require.NotNil(t, running)

	f.env.Registry.Dispatch(f.env, p, "/undo")
	assert.True(t, slicesContain(log.Lines(), "Cancelled"))
	// відкат чекає, поки скасована операція допише свою порцію
	assert.Equal(t, 1, f.m.PendingDrawOps())
	assert.Same(t, running, p.PeekUndo())

	f.env.Registry.Dispatch(f.env, p, "/undo")
	assert.Contains(t, log.Last(), "already being cancelled")

	f.m.FinishDrawOps()
	assert.Equal(t, 0, countBlocks(f.m, block.Stone))
	undo, redo := p.UndoDepth()
	assert.Equal(t, 0, undo)
	assert.Equal(t, 1, redo)
	assert.Equal(t, 10, p.PeekRedo().Len())
}

func TestUndo_CancelledDrawChangedNothing(t *testing.T) {
	f := newFixture(t, nil)
	p, log := f.join(t, "Owner", "owner")
	f.m.SetDrawThrottle(10, nil)

	f.env.Registry.Dispatch(f.env, p, "/cuboid stone")
	f.env.Registry.Dispatch(f.env, p, "/mark 0 0 0")
	f.env.Registry.Dispatch(f.env, p, "/mark 15 15 0")
	f.env.Registry.Dispatch(f.env, p, "/undo")
	f.m.FinishDrawOps()

	assert.Equal(t, 0, countBlocks(f.m, block.Stone))
	assert.Contains(t, log.Last(), "changed no blocks")
	assert.Nil(t, p.PeekUndo())
	assert.Nil(t, p.PeekRedo())
}

func slicesContain(lines []string, substr string) bool {
	for _, l := range lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func TestReplace(t *testing.T) {
	f := newFixture(t, nil)
	p, _ := f.join(t, "Builder", "builder")
	f.m.Fill(world.NewBoundingBox(vec{X: 0, Y: 0, Z: 0}, vec{X: 3, Y: 3, Z: 0}), block.Dirt)

	f.run(p, "/replace dirt grass", "/mark 0 0 0", "/mark 1 3 0")
	assert.Equal(t, 8, countBlocks(f.m, block.Grass))
	assert.Equal(t, 8, countBlocks(f.m, block.Dirt))
}

func TestCopyPaste(t *testing.T) {
	f := newFixture(t, nil)
	p, _ := f.join(t, "Builder", "builder")
	f.m.Fill(world.NewBoundingBox(vec{X: 0, Y: 0, Z: 0}, vec{X: 1, Y: 1, Z: 0}), block.Gold)

	f.run(p, "/copy", "/mark 0 0 0", "/mark 1 1 0")
	require.NotNil(t, p.CopyState())
	f.run(p, "/paste", "/mark 5 5 5")
	assert.Equal(t, block.Gold, f.m.GetBlock(vec{X: 6, Y: 6, Z: 5}))
	assert.Equal(t, 8, countBlocks(f.m, block.Gold))
}

func TestPlace_Click(t *testing.T) {
	f := newFixture(t, nil)
	p, _ := f.join(t, "Guest", "guest")

	f.run(p, "/place 1 2 3 stone")
	assert.Equal(t, block.Stone, f.m.GetBlock(vec{X: 1, Y: 2, Z: 3}))
	assert.EqualValues(t, 1, p.Info.BlocksBuilt.Load())

	f.run(p, "/place 1 2 3 lava")
	assert.Equal(t, block.Stone, f.m.GetBlock(vec{X: 1, Y: 2, Z: 3}))
}

func TestClick_MarkToggleDisablesMarking(t *testing.T) {
	f := newFixture(t, nil)
	p, log := f.join(t, "Builder", "builder")

	f.run(p, "/cuboid stone", "/marktoggle")
	assert.Contains(t, log.Last(), "Click-to-mark is now OFF")
	require.True(t, p.IsMakingSelection())

	Click(p, vec{X: 4, Y: 4, Z: 4}, block.Stone)
	assert.Equal(t, block.Stone, f.m.GetBlock(vec{X: 4, Y: 4, Z: 4}))
	assert.Equal(t, 0, p.SelectionMarkCount())
	assert.True(t, p.IsMakingSelection())

	f.run(p, "/marktoggle")
	Click(p, vec{X: 5, Y: 5, Z: 5}, block.Stone)
	assert.Equal(t, block.Air, f.m.GetBlock(vec{X: 5, Y: 5, Z: 5}))
	assert.Equal(t, 1, p.SelectionMarkCount())
}

func TestMark_ClampsToMap(t *testing.T) {
	f := newFixture(t, nil)
	p, log := f.join(t, "Builder", "builder")

	var got [][]vec
	p.SelectionStart(2, func(_ *world.Player, marks []vec, _ any) {
		got = append(got, marks)
	}, nil)

	f.run(p, "/mark 100 -5 3")
	assert.Equal(t, 1, p.SelectionMarkCount())
	assert.Contains(t, log.Last(), "Block #1 marked at")
	assert.Empty(t, got)

	f.run(p, "/mark 1 1 1")
	require.Len(t, got, 1)
	assert.Equal(t, []vec{{X: 15, Y: 0, Z: 3}, {X: 1, Y: 1, Z: 1}}, got[0])
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		in    string
		count int
		age   time.Duration
		ok    bool
	}{
		{"50", 50, 0, true},
		{"0", 0, 0, false},
		{"30m", 0, 30 * time.Minute, true},
		{"2d", 0, 48 * time.Hour, true},
		{"1w", 0, 7 * 24 * time.Hour, true},
		{"xd", 0, 0, false},
		{"soon", 0, 0, false},
	}
	for _, tt := range tests {
		count, age, ok := parseLimit(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.count, count, tt.in)
			assert.Equal(t, tt.age, age, tt.in)
		}
	}
}

func TestUndoPlayer_BlockDBDisabled(t *testing.T) {
	f := newFixture(t, nil)
	p, log := f.join(t, "Owner", "owner")
	f.run(p, "/undoplayer owner 10")
	assert.Contains(t, log.Last(), "BlockDB is disabled on this server")
}

func TestUndoPlayer_Permissions(t *testing.T) {
	db, err := blockdb.Open(zap.NewNop(), "", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	f := newFixture(t, db)
	f.m.SetBlockDBEnabled(true)

	op, log := f.join(t, "Op", "op")
	f.join(t, "Owner", "owner")
	f.join(t, "Builder", "builder")

	f.run(op, "/undoplayer * 10")
	assert.Contains(t, log.Last(), "not allowed to undo everyone's")
	f.run(op, "/undoplayer owner 10")
	assert.Contains(t, log.Last(), "not allowed to undo changes made by Owner")
	f.run(op, "/undoplayer ghost 10")
	assert.Contains(t, log.Last(), `No player found named "ghost"`)
	f.run(op, "/undoplayer builder forever")
	assert.Contains(t, log.Last(), "neither a block count nor an age")
}

// onMain виконує fn в головному контексті і чекає на завершення
func onMain(t *testing.T, s *scheduler.Scheduler, fn func()) {
	t.Helper()
	done := make(chan struct{})
	s.Post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("main context did not run the task")
	}
}

func TestUndoPlayer_Flow(t *testing.T) {
	db, err := blockdb.Open(zap.NewNop(), "", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	f := newFixture(t, db)
	f.m.SetBlockDBEnabled(true)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go f.env.Scheduler.Run(ctx)

	griefer, _ := f.join(t, "Griefer", "guest")
	owner, log := f.join(t, "Owner", "owner")

	onMain(t, f.env.Scheduler, func() {
		f.run(griefer, "/place 1 1 1 tnt", "/place 2 1 1 tnt", "/place 1 1 1 sand")
		f.run(griefer, "/place 3 1 1 tnt")
		f.run(owner, "/place 5 5 5 stone")
	})
	require.Equal(t, 2, countBlocks(f.m, block.TNT))

	onMain(t, f.env.Scheduler, func() { f.run(owner, "/undoplayer griefer 1h") })
	assert.Eventually(t, func() bool {
		return strings.Contains(log.Last(), "Type /ok")
	}, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, log.Last(), "found 4 changes (3 blocks)")

	onMain(t, f.env.Scheduler, func() { f.run(owner, "/ok") })
	assert.Equal(t, 0, countBlocks(f.m, block.TNT))
	assert.Equal(t, block.Air, f.m.GetBlock(vec{X: 1, Y: 1, Z: 1}))
	assert.Equal(t, block.Stone, f.m.GetBlock(vec{X: 5, Y: 5, Z: 5}))

	// відкат з BlockDB лягає в стек undo як звичайна операція
	onMain(t, f.env.Scheduler, func() { f.run(owner, "/undo") })
	assert.Equal(t, 2, countBlocks(f.m, block.TNT))
	assert.Equal(t, block.Sand, f.m.GetBlock(vec{X: 1, Y: 1, Z: 1}))
}

func TestUndoArea_Flow(t *testing.T) {
	db, err := blockdb.Open(zap.NewNop(), "", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	f := newFixture(t, db)
	f.m.SetBlockDBEnabled(true)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go f.env.Scheduler.Run(ctx)

	griefer, _ := f.join(t, "Griefer", "guest")
	owner, log := f.join(t, "Owner", "owner")

	onMain(t, f.env.Scheduler, func() {
		f.run(griefer, "/place 1 1 1 tnt", "/place 10 10 1 tnt")
		f.run(owner, "/undoarea * 10", "/mark 0 0 0", "/mark 4 4 4")
	})
	assert.Eventually(t, func() bool {
		return strings.Contains(log.Last(), "Type /ok")
	}, 5*time.Second, 10*time.Millisecond)

	onMain(t, f.env.Scheduler, func() { f.run(owner, "/ok") })
	assert.Equal(t, block.Air, f.m.GetBlock(vec{X: 1, Y: 1, Z: 1}))
	assert.Equal(t, block.TNT, f.m.GetBlock(vec{X: 10, Y: 10, Z: 1}))
}
