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

// Йоу, чат! Тут повідомлення гравцю і підтвердження небезпечних дій.
// Деякі команди (наприклад відкат чужих змін по всій карті) спочатку
// питають "ви впевнені?", а виконуються тільки після /ok.

package world

import (
	"fmt"
	"time"

	"github.com/Tnze/go-mc/chat"
)

// ConfirmationTimeout - скільки часу чекаємо на /ok
const ConfirmationTimeout = time.Minute

// Message надсилає гравцю звичайне повідомлення
func (p *Player) Message(format string, args ...any) {
	p.send(chat.Yellow, format, args...)
}

// Warn надсилає гравцю повідомлення про помилку
func (p *Player) Warn(format string, args ...any) {
	p.send(chat.Red, format, args...)
}

func (p *Player) send(color, format string, args ...any) {
	if p.out == nil {
		return
	}
	text := format
	if len(args) > 0 {
		text = fmt.Sprintf(format, args...)
	}
	p.out.SendMessage(chat.Message{Text: text, Color: color})
}

// Confirmation - дія, яка чекає на /ok
type Confirmation struct {
	Prompt  string
	Action  func()
	Expires time.Time
}

// Confirm питає гравця і запам'ятовує дію. Попередній запит замінюється.
func (p *Player) Confirm(action func(), format string, args ...any) {
	prompt := fmt.Sprintf(format, args...)
	p.confirmMu.Lock()
	p.confirm = &Confirmation{
		Prompt:  prompt,
		Action:  action,
		Expires: time.Now().Add(ConfirmationTimeout),
	}
	p.confirmMu.Unlock()
	p.Message("%s Type /ok to continue.", prompt)
}

// RunConfirmation виконує дію, яка чекає підтвердження.
// Повертає false якщо нічого підтверджувати (або час вийшов).
func (p *Player) RunConfirmation() bool {
	p.confirmMu.Lock()
	c := p.confirm
	p.confirm = nil
	p.confirmMu.Unlock()
	if c == nil || time.Now().After(c.Expires) {
		return false
	}
	c.Action()
	return true
}
