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

// Йоу, чат! Зараз розберемо як працює чат!
// Рядок без "/" на початку - це повідомлення всім гравцям.

package game

import (
	// zap - крутий логер для Go
	"go.uber.org/zap"

	"github.com/Tnze/go-mc/chat"

	"fcraft/client"
	"fcraft/world"
)

// globalChat керує всім чатом на сервері
type globalChat struct {
	// Логер для запису подій чату
	log *zap.Logger
	// Список всіх гравців на сервері
	players *playerList
}

// broadcastSystemChat відправляє системне повідомлення всім гравцям
// Наприклад: "Гравець приєднався" або "Сервер перезавантажується"
func (g *globalChat) broadcastSystemChat(msg chat.Message) {
	g.log.Info(msg.ClearString())
	g.players.Range(func(c *client.Client) {
		c.SendMessage(msg)
	})
}

// Handle розсилає повідомлення гравця
func (g *globalChat) Handle(p *world.Player, text string) {
	msg := chat.Text("<" + p.Name() + "> ")
	msg.Extra = []chat.Message{chat.Text(text)}
	g.log.Info(text, zap.String("sender", p.Name()))
	g.players.Range(func(c *client.Client) {
		c.SendMessage(msg)
	})
}
