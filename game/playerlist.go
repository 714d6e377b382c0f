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

// Йоу, чат! Зараз розберемо як працює список гравців на сервері!
// Тут дві речі: всі гравці, яких сервер бачив (щоб /undoplayer міг
// знайти навіть того, хто вже вийшов), і хто зараз онлайн.

package game

import (
	"errors"
	"strings"
	"sync"

	"fcraft/client"
	"fcraft/world"
)

var (
	errServerFull    = errors.New("server is full")
	errAlreadyOnline = errors.New("player is already online")
)

// playerList керує списком гравців на сервері
type playerList struct {
	mu     sync.Mutex
	max    int
	known  map[string]*world.PlayerInfo // ключ - ім'я в нижньому регістрі
	online map[*client.Client]struct{}
}

func newPlayerList(max int) *playerList {
	return &playerList{
		max:    max,
		known:  make(map[string]*world.PlayerInfo),
		online: make(map[*client.Client]struct{}),
	}
}

// FindPlayer шукає гравця, якого сервер вже бачив
func (pl *playerList) FindPlayer(name string) *world.PlayerInfo {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	return pl.known[strings.ToLower(name)]
}

// info повертає запис гравця, створюючи його з рангом rank якщо треба
func (pl *playerList) info(name string, rank *world.Rank) *world.PlayerInfo {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	key := strings.ToLower(name)
	if info, ok := pl.known[key]; ok {
		return info
	}
	info := world.NewPlayerInfo(name, rank)
	pl.known[key] = info
	return info
}

// addPlayer додає гравця в онлайн
func (pl *playerList) addPlayer(c *client.Client) error {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	if pl.max > 0 && len(pl.online) >= pl.max {
		return errServerFull
	}
	for other := range pl.online {
		if other.GetPlayer().Info == c.GetPlayer().Info {
			return errAlreadyOnline
		}
	}
	pl.online[c] = struct{}{}
	return nil
}

// removePlayer видаляє гравця зі списку онлайн
func (pl *playerList) removePlayer(c *client.Client) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	delete(pl.online, c)
}

// Len - скільки гравців онлайн
func (pl *playerList) Len() int {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	return len(pl.online)
}

// Range викликає f для кожного гравця онлайн
func (pl *playerList) Range(f func(c *client.Client)) {
	pl.mu.Lock()
	clients := make([]*client.Client, 0, len(pl.online))
	for c := range pl.online {
		clients = append(clients, c)
	}
	pl.mu.Unlock()
	for _, c := range clients {
		f(c)
	}
}
