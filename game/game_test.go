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

package game

import (
	"bufio"
	"context"
	"errors"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fcraft/block"
	"fcraft/blockdb"
	"fcraft/scheduler"
	"fcraft/world"
)

func TestConfig_Decode(t *testing.T) {
	c := DefaultConfig()
	meta, err := toml.Decode(`
listen-address = "127.0.0.1:25566"
map-size = [64, 32, 16]
max-undo = 500
draw-limiter = { every = "100ms", n = 4 }

[blockdb]
in-memory = true
flush-interval = "250ms"

[player-ranks]
Alice = "op"
`, &c)
	require.NoError(t, err)
	assert.Empty(t, meta.Undecoded())

	assert.Equal(t, "127.0.0.1:25566", c.ListenAddress)
	assert.Equal(t, [3]int{64, 32, 16}, c.MapSize)
	assert.Equal(t, 500, c.PlayerConfig().MaxUndoCount)
	assert.Equal(t, world.DefaultMaxUndoStates, c.PlayerConfig().MaxUndoStates)
	assert.True(t, c.BlockDB.Enabled)
	assert.True(t, c.BlockDB.InMemory)
	assert.Equal(t, 250*time.Millisecond, c.BlockDB.FlushInterval.Duration)
	assert.Equal(t, "op", c.PlayerRanks["Alice"])

	l := c.DrawLimiter.Limiter()
	require.NotNil(t, l)
	assert.Equal(t, 4, l.Burst())
	assert.Nil(t, (&Limiter{}).Limiter())
}

func TestReadName(t *testing.T) {
	name, err := readName(strings.NewReader("Alice_1\r\n/cuboid stone\n"))
	require.NoError(t, err)
	assert.Equal(t, "Alice_1", name)

	_, err = readName(strings.NewReader("bad name\n"))
	assert.ErrorIs(t, err, errBadName)
	_, err = readName(strings.NewReader("averyveryverylongname\n"))
	assert.ErrorIs(t, err, errBadName)
}

func testGame(t *testing.T) (*Game, *scheduler.Scheduler) {
	t.Helper()
	dir := t.TempDir()
	config := DefaultConfig()
	config.MapFile = filepath.Join(dir, "main.cw")
	config.BackupDir = filepath.Join(dir, "backups")
	config.MapSize = [3]int{16, 16, 8}
	config.PlayerRanks = map[string]string{"Bob": "builder"}

	db, err := blockdb.Open(zap.NewNop(), "", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := scheduler.New(zap.NewNop())
	g, err := NewGame(zap.NewNop(), config, s, db)
	require.NoError(t, err)
	return g, s
}

func TestNewGame_GeneratesMap(t *testing.T) {
	g, _ := testGame(t)
	m := g.Map()
	assert.Equal(t, world.Vector3I{X: 16, Y: 16, Z: 8}, m.Bounds().Dimensions())
	assert.Equal(t, block.Grass, m.GetBlock(world.Vector3I{X: 0, Y: 0, Z: 3}))
	assert.FileExists(t, g.config.MapFile)

	bob := g.FindPlayer("bob")
	require.NotNil(t, bob)
	assert.Equal(t, "builder", bob.Rank().Name)
}

func TestNewGame_UnknownRank(t *testing.T) {
	config := DefaultConfig()
	config.DefaultRank = "nobody"
	_, err := NewGame(zap.NewNop(), config, scheduler.New(zap.NewNop()), blockdb.Disabled())
	assert.True(t, errors.Is(err, errUnknownRank))
}

func TestAcceptConn_Commands(t *testing.T) {
	g, s := testGame(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go s.Run(ctx)

	server, conn := net.Pipe()
	t.Cleanup(func() { _ = conn.Close() })
	go g.AcceptConn(server)

	lines := make(chan string, 64)
	go func() {
		sc := bufio.NewScanner(conn)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	_, err := conn.Write([]byte("Bob\n/cuboid stone\n/mark 0 0 5\n/mark 1 1 5\n"))
	require.NoError(t, err)

	m := g.Map()
	m.SetDrawThrottle(1024, nil)
	assert.Eventually(t, func() bool {
		m.ProcessDrawOps(1024)
		return m.GetBlock(world.Vector3I{X: 1, Y: 1, Z: 5}) == block.Stone
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, g.Len())

	var seen []string
	assert.Eventually(t, func() bool {
		for {
			select {
			case l := <-lines:
				seen = append(seen, l)
				if strings.Contains(l, "4 blocks changed") {
					return true
				}
			default:
				return false
			}
		}
	}, 5*time.Second, 10*time.Millisecond, "lines: %v", seen)
}
