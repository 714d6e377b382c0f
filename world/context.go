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

import "strings"

// BlockChangeContext - прапорці, які описують чому змінився блок.
// Їх читають перевірки прав і журнал змін (BlockDB).
type BlockChangeContext uint16

const (
	ContextManual BlockChangeContext = 1 << iota // гравець клікнув по блоку
	ContextDrawn                                 // команда малювання
	ContextReplaced
	ContextPasted
	ContextCut
	ContextFilled
	ContextRestored
	ContextUndoneSelf
	ContextUndoneOther
	ContextRedone
)

var contextNames = [...]string{
	"manual", "drawn", "replaced", "pasted", "cut",
	"filled", "restored", "undone-self", "undone-other", "redone",
}

// Has перевіряє чи всі прапорці f встановлені
func (c BlockChangeContext) Has(f BlockChangeContext) bool { return c&f == f }

func (c BlockChangeContext) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	for i, name := range contextNames {
		if c&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}

// PlacementResult - відповідь на питання "чи можна поставити тут цей блок?"
type PlacementResult int

const (
	PlacementAllowed PlacementResult = iota
	PlacementOutOfBounds
	PlacementBlockTypeDenied // вода, лава чи адмінкрит без відповідних прав
	PlacementRankDenied      // ранг не має права будувати або ламати
	PlacementWorldDenied     // світ вимагає вищого рангу
	PlacementZoneDenied
	PlacementMapReadOnly
)

var placementNames = [...]string{
	"allowed", "out of bounds", "block type denied", "rank denied",
	"world denied", "zone denied", "map is read-only",
}

func (r PlacementResult) String() string {
	if r < 0 || int(r) >= len(placementNames) {
		return "unknown"
	}
	return placementNames[r]
}
