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

// Йоу, чат! Розберемо як гравець виділяє область!
// Команда (наприклад /cuboid) каже скільки міток їй треба і що робити потім.
// Гравець ставить мітки кліками або через /mark, а коли міток достатньо,
// викликається колбек з усіма мітками по порядку.
// Виділення може тривати хвилинами, тому це не блокуюче очікування,
// а просто запис "сесії" в гравці, який продовжується новою міткою.

package world

import "slices"

// SelectionCallback викликається коли зібрано всі мітки
type SelectionCallback func(p *Player, marks []Vector3I, tag any)

// SelectionSession - незавершене виділення
type SelectionSession struct {
	ExpectedMarks int
	Marks         []Vector3I
	Callback      SelectionCallback
	Tag           any
	Permissions   []Permission
	// restarted - сесію перезапустив повторний режим
	restarted bool
}

// SelectionStart починає нове виділення, замінюючи попереднє
func (p *Player) SelectionStart(expected int, cb SelectionCallback, tag any, perms ...Permission) {
	if expected <= 0 {
		p.Warn("Nothing to select.")
		return
	}
	p.selMu.Lock()
	p.selection = &SelectionSession{
		ExpectedMarks: expected,
		Marks:         make([]Vector3I, 0, expected),
		Callback:      cb,
		Tag:           tag,
		Permissions:   perms,
	}
	p.selMu.Unlock()
}

// SelectionAddMark додає мітку до активного виділення.
// forceReplaceLast замінює останню мітку незавершеного набору.
func (p *Player) SelectionAddMark(coord Vector3I, announce, forceReplaceLast bool) {
	p.selMu.Lock()
	s := p.selection
	if s == nil {
		p.selMu.Unlock()
		p.Warn("Cannot mark: no selection in progress.")
		return
	}
	if !p.Can(s.Permissions...) {
		p.selMu.Unlock()
		p.Warn("You are no longer allowed to complete this action.")
		return
	}

	if forceReplaceLast && len(s.Marks) > 0 {
		s.Marks = s.Marks[:len(s.Marks)-1]
	}
	s.Marks = append(s.Marks, coord)
	count := len(s.Marks)
	if count < s.ExpectedMarks {
		p.selMu.Unlock()
		if announce {
			p.Message("Block #%d marked at %v. Place mark #%d.", count, coord, count+1)
		}
		return
	}

	marks := slices.Clone(s.Marks)
	if p.selectionMode.Load() {
		// повторний режим: та сама сесія чекає повний новий набір міток
		s.Marks = s.Marks[:0]
		s.restarted = true
	} else {
		p.selection = nil
	}
	p.selMu.Unlock()

	if announce {
		p.Message("Block #%d marked at %v.", count, coord)
	}
	s.Callback(p, marks, s.Tag)
}

// SelectionCancel скасовує виділення без виклику колбеку
func (p *Player) SelectionCancel() {
	p.selMu.Lock()
	defer p.selMu.Unlock()
	p.selection = nil
}

// IsMakingSelection - чи є активне виділення
func (p *Player) IsMakingSelection() bool {
	p.selMu.Lock()
	defer p.selMu.Unlock()
	return p.selection != nil
}

// SelectionMarkCount повертає кількість зібраних міток
func (p *Player) SelectionMarkCount() int {
	p.selMu.Lock()
	defer p.selMu.Unlock()
	if p.selection == nil {
		return 0
	}
	return len(p.selection.Marks)
}

// SelectionMarksExpected повертає скільки міток чекає виділення
func (p *Player) SelectionMarksExpected() int {
	p.selMu.Lock()
	defer p.selMu.Unlock()
	if p.selection == nil {
		return 0
	}
	return p.selection.ExpectedMarks
}

// IsRepeatingSelection - чи увімкнено повторне виділення
func (p *Player) IsRepeatingSelection() bool { return p.selectionMode.Load() }

// SetRepeatingSelection вмикає чи вимикає повторне виділення.
// При вимкненні перезапущена сесія без нових міток закривається.
func (p *Player) SetRepeatingSelection(on bool) {
	p.selectionMode.Store(on)
	if on {
		return
	}
	p.selMu.Lock()
	defer p.selMu.Unlock()
	if s := p.selection; s != nil && s.restarted && len(s.Marks) == 0 {
		p.selection = nil
	}
}
