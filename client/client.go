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

// Йоу, чат! Зараз розберемо як працює клієнт в нашому сервері!
// Клієнт - це текстова сесія: stdin консоль сервера або TCP з'єднання.
// Кожен рядок від клієнта - це команда ("/cuboid stone") або повідомлення в чат.
// Як і раніше, у клієнта дві горутини: одна відправляє, друга отримує,
// а повідомлення гравцю стоять у черзі, щоб повільне з'єднання не блокувало сервер.

package client

import (
	"bufio"
	"errors"
	"io"
	"strings"

	// zap - крутий логер для Go
	"go.uber.org/zap"

	"github.com/Tnze/go-mc/chat"
	"github.com/Tnze/go-mc/net/queue"

	"fcraft/world"
)

// MaxLineLength - найдовший рядок, який приймаємо від клієнта
const MaxLineLength = 4096

// LineHandler обробляє один рядок від клієнта
type LineHandler func(c *Client, line string)

// Client представляє підключеного гравця
type Client struct {
	// Логер для цього клієнта
	log *zap.Logger
	// З'єднання: сокет або stdin/stdout
	conn io.ReadWriteCloser
	// Гравець, яким керує цей клієнт
	player *world.Player
	// Черга повідомлень для відправки
	queue queue.Queue[chat.Message]
	// Що робити з кожним рядком
	handler LineHandler
	// Colors вмикає ANSI кольори у виводі
	Colors bool
}

// New створює нового клієнта і його гравця
func New(log *zap.Logger, conn io.ReadWriteCloser, info *world.PlayerInfo, config world.PlayerConfig, handler LineHandler) *Client {
	c := &Client{
		log:  log,
		conn: conn,
		// Черга на 256 повідомлень
		queue:   queue.NewChannelQueue[chat.Message](256),
		handler: handler,
	}
	c.player = world.NewPlayer(info, c, config)
	return c
}

// SendMessage ставить повідомлення в чергу. Якщо черга повна, клієнт
// не встигає читати, і повідомлення губиться.
func (c *Client) SendMessage(msg chat.Message) {
	if !c.queue.Push(msg) {
		c.log.Debug("Send queue full, message dropped")
	}
}

// Start запускає обробку повідомлень і блокується поки клієнт не відключиться
// Створює дві горутини - для відправки і отримання
func (c *Client) Start() {
	// Канал для синхронізації завершення горутин
	stopped := make(chan struct{}, 2)
	done := func() {
		stopped <- struct{}{}
	}
	// Якщо будь-яка з них впаде - інша теж зупиниться
	go c.startSend(done)
	go c.startReceive(done)
	<-stopped
	c.queue.Close()
	_ = c.conn.Close()
}

// startSend відправляє повідомлення клієнту
func (c *Client) startSend(done func()) {
	defer done()
	w := bufio.NewWriter(c.conn)
	for {
		msg, ok := c.queue.Pull()
		if !ok {
			return
		}
		text := msg.ClearString()
		if c.Colors {
			text = msg.String()
		}
		if _, err := w.WriteString(text + "\n"); err != nil {
			c.log.Debug("Send message fail", zap.Error(err))
			return
		}
		if err := w.Flush(); err != nil {
			c.log.Debug("Send message fail", zap.Error(err))
			return
		}
	}
}

// startReceive читає рядки від клієнта
func (c *Client) startReceive(done func()) {
	defer done()
	s := bufio.NewScanner(c.conn)
	s.Buffer(make([]byte, 0, 256), MaxLineLength)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		if existInvalidCharacter(line) {
			c.log.Debug("Illegal characters in line")
			c.player.Warn("Illegal characters in message.")
			continue
		}
		c.handler(c, line)
	}
	if err := s.Err(); err != nil && !errors.Is(err, io.ErrClosedPipe) {
		c.log.Debug("Receive line fail", zap.Error(err))
	}
}

// Close відключає клієнта
func (c *Client) Close() error { return c.conn.Close() }

// GetPlayer повертає гравця цього клієнта
func (c *Client) GetPlayer() *world.Player { return c.player }

// existInvalidCharacter шукає символи, які не можна писати в чат:
// керуючі символи, DEL і '§' (код кольору)
func existInvalidCharacter(msg string) bool {
	for _, c := range msg {
		if c == '§' || c < ' ' || c == '\x7F' {
			return true
		}
	}
	return false
}
