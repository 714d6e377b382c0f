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

// Йоу, чат! Пензлі вирішують, що поставити в кожну координату.
// Пензель не знає нічого про фігуру: він бачить тільки координату
// і поточний блок, і каже "ставимо X" або "не чіпаємо".

package draw

import (
	"fmt"
	"slices"
	"strings"

	"fcraft/block"
	"fcraft/world"
)

// BrushState - все, що пензель знає про поточну координату
type BrushState struct {
	Player  *world.Player
	Map     *world.Map
	Coord   world.Vector3I
	Current block.ID
}

// Brush - стратегія вибору блоку
type Brush interface {
	Description() string
	// NextBlock повертає новий блок або false якщо координату не треба чіпати
	NextBlock(s BrushState) (block.ID, bool)
}

// NormalBrush завжди ставить один блок
type NormalBrush struct {
	Block block.ID
}

func (b NormalBrush) Description() string { return b.Block.String() }

func (b NormalBrush) NextBlock(BrushState) (block.ID, bool) { return b.Block, true }

// ReplaceBrush міняє тільки блоки з From
type ReplaceBrush struct {
	From []block.ID
	To   block.ID
}

func (b ReplaceBrush) Description() string {
	return fmt.Sprintf("%s -> %s", listString(b.From), b.To)
}

func (b ReplaceBrush) NextBlock(s BrushState) (block.ID, bool) {
	if slices.Contains(b.From, s.Current) {
		return b.To, true
	}
	return block.None, false
}

// ReplaceNotBrush міняє все, крім блоків з Excluded
type ReplaceNotBrush struct {
	Excluded []block.ID
	To       block.ID
}

func (b ReplaceNotBrush) Description() string {
	return fmt.Sprintf("not %s -> %s", listString(b.Excluded), b.To)
}

func (b ReplaceNotBrush) NextBlock(s BrushState) (block.ID, bool) {
	if slices.Contains(b.Excluded, s.Current) {
		return block.None, false
	}
	return b.To, true
}

// ReplaceBrushBrush міняє блоки з From на те, що запропонує Inner
type ReplaceBrushBrush struct {
	From  []block.ID
	Inner Brush
}

func (b ReplaceBrushBrush) Description() string {
	return fmt.Sprintf("%s -> %s", listString(b.From), b.Inner.Description())
}

func (b ReplaceBrushBrush) NextBlock(s BrushState) (block.ID, bool) {
	if !slices.Contains(b.From, s.Current) {
		return block.None, false
	}
	return b.Inner.NextBlock(s)
}

// PasteBrush бере блоки з буфера копіювання.
// Origin - координата карти, куди потрапляє нульовий блок буфера.
// Include і Exclude фільтрують блоки буфера, порожні списки не фільтрують.
type PasteBrush struct {
	Copy    *world.CopyState
	Origin  world.Vector3I
	Include []block.ID
	Exclude []block.ID
}

func (b PasteBrush) Description() string {
	switch {
	case len(b.Include) > 0:
		return "paste " + listString(b.Include)
	case len(b.Exclude) > 0:
		return "paste not " + listString(b.Exclude)
	}
	return "paste"
}

func (b PasteBrush) NextBlock(s BrushState) (block.ID, bool) {
	id, ok := b.Copy.Get(s.Coord.Sub(b.Origin))
	if !ok {
		return block.None, false
	}
	if len(b.Include) > 0 && !slices.Contains(b.Include, id) {
		return block.None, false
	}
	if slices.Contains(b.Exclude, id) {
		return block.None, false
	}
	return id, true
}

// restoreBrush бере блок з тієї ж координати бекапу
type restoreBrush struct {
	backup *world.Map
	name   string
}

func (b restoreBrush) Description() string { return "restore " + b.name }

func (b restoreBrush) NextBlock(s BrushState) (block.ID, bool) {
	id := b.backup.GetBlock(s.Coord)
	return id, id != block.None
}

func listString(ids []block.ID) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.String()
	}
	return strings.Join(names, ",")
}
