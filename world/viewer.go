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

// Йоу, чат! Тут описано, як сервер "бачить" гравця.
// Ядру не важливо, звідки гравець прийшов: з TCP консолі, з stdin
// чи з тесту. Йому достатньо вміти відправити гравцю повідомлення.

package world

import (
	"sync"

	"github.com/Tnze/go-mc/chat"
)

// Messenger - куди йдуть повідомлення гравця
type Messenger interface {
	SendMessage(msg chat.Message)
}

// MessengerFunc дозволяє використати звичайну функцію як Messenger
type MessengerFunc func(msg chat.Message)

func (f MessengerFunc) SendMessage(msg chat.Message) { f(msg) }

// MessageLog - Messenger, який просто запам'ятовує всі повідомлення.
// Використовується консольними сесіями без з'єднання і тестами.
type MessageLog struct {
	mu   sync.Mutex
	msgs []chat.Message
}

func (l *MessageLog) SendMessage(msg chat.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
}

// Lines повертає текст всіх повідомлень без кольорів
func (l *MessageLog) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	lines := make([]string, len(l.msgs))
	for i, m := range l.msgs {
		lines[i] = m.ClearString()
	}
	return lines
}

// Last повертає текст останнього повідомлення
func (l *MessageLog) Last() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.msgs) == 0 {
		return ""
	}
	return l.msgs[len(l.msgs)-1].ClearString()
}

// Reset очищає лог
func (l *MessageLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = nil
}
