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

package client

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/Tnze/go-mc/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fcraft/world"
)

func TestClient_LinesAndMessages(t *testing.T) {
	server, conn := net.Pipe()
	got := make(chan string, 8)
	info := world.NewPlayerInfo("Alice", nil)
	c := New(zap.NewNop(), server, info, world.DefaultPlayerConfig(), func(c *Client, line string) {
		got <- line
	})
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Start()
	}()

	c.SendMessage(chat.Text("hello").SetColor(chat.Yellow))
	line, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "hello\n", line)

	_, err = conn.Write([]byte("  /cuboid stone \n\nbad\x01line\nhi\n"))
	require.NoError(t, err)
	assert.Equal(t, "/cuboid stone", <-got)
	assert.Equal(t, "hi", <-got)

	require.NoError(t, conn.Close())
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("client did not stop")
	}
}

func TestExistInvalidCharacter(t *testing.T) {
	assert.False(t, existInvalidCharacter("/place 1 2 3 stone"))
	assert.True(t, existInvalidCharacter("§cred"))
	assert.True(t, existInvalidCharacter("a\x7Fb"))
}
