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

// Йоу, чат! Тут живуть усі блоки Classic світу.
// Кожен блок - це один байт, як і в оригінальному протоколі Classic,
// плюс блоки з розширення CPE (CustomBlocks рівня 1).

package block

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ID - ідентифікатор типу блоку
type ID byte

const (
	Air ID = iota
	Stone
	Grass
	Dirt
	Cobblestone
	Plank
	Sapling
	Bedrock
	Water
	StillWater
	Lava
	StillLava
	Sand
	Gravel
	GoldOre
	IronOre
	Coal
	Log
	Leaves
	Sponge
	Glass
	Red
	Orange
	Yellow
	Lime
	Green
	Teal
	Aqua
	Cyan
	Blue
	Indigo
	Violet
	Magenta
	Pink
	Black
	Gray
	White
	YellowFlower
	RedFlower
	BrownMushroom
	RedMushroom
	Gold
	Iron
	DoubleStair
	Stair
	Brick
	TNT
	Books
	MossyCobble
	Obsidian
	CobbleSlab
	Rope
	Sandstone
	Snow
	Fire
	LightPink
	ForestGreen
	Brown
	DeepBlue
	Turquoise
	Ice
	CeramicTile
	Magma
	Pillar
	Crate
	StoneBrick

	// MaxClassic - останній блок оригінальної Classic 0.30
	MaxClassic = Obsidian
	// MaxCPE - останній блок розширення CustomBlocks
	MaxCPE = StoneBrick
	// Count - кількість відомих блоків
	Count = int(MaxCPE) + 1

	// None - "немає блоку", використовується як маркер
	None ID = 255
)

// ErrUnknownBlock повертається коли назву блоку не вдалося розпізнати
var ErrUnknownBlock = errors.New("unknown block")

var names = [Count]string{
	"air", "stone", "grass", "dirt", "cobblestone", "plank", "sapling",
	"bedrock", "water", "stillwater", "lava", "stilllava", "sand",
	"gravel", "goldore", "ironore", "coal", "log", "leaves", "sponge",
	"glass", "red", "orange", "yellow", "lime", "green", "teal", "aqua",
	"cyan", "blue", "indigo", "violet", "magenta", "pink", "black",
	"gray", "white", "yellowflower", "redflower", "brownmushroom",
	"redmushroom", "gold", "iron", "doublestair", "stair", "brick", "tnt",
	"books", "mossycobble", "obsidian", "cobbleslab", "rope", "sandstone",
	"snow", "fire", "lightpink", "forestgreen", "brown", "deepblue",
	"turquoise", "ice", "ceramictile", "magma", "pillar", "crate",
	"stonebrick",
}

// aliases - альтернативні назви, які гравці часто пишуть у командах
var aliases = map[string]ID{
	"nothing":     Air,
	"empty":       Air,
	"rock":        Stone,
	"cobble":      Cobblestone,
	"wood":        Plank,
	"planks":      Plank,
	"adminium":    Bedrock,
	"admincrete":  Bedrock,
	"activewater": Water,
	"activelava":  Lava,
	"gold_ore":    GoldOre,
	"iron_ore":    IronOre,
	"coalore":     Coal,
	"trunk":       Log,
	"tree":        Log,
	"foliage":     Leaves,
	"purple":      Indigo,
	"grey":        Gray,
	"rose":        RedFlower,
	"dandelion":   YellowFlower,
	"mushroom":    BrownMushroom,
	"doubleslab":  DoubleStair,
	"slab":        Stair,
	"step":        Stair,
	"bricks":      Brick,
	"dynamite":    TNT,
	"bookcase":    Books,
	"bookshelf":   Books,
	"moss":        MossyCobble,
	"mossy":       MossyCobble,
}

// String повертає назву блоку
func (id ID) String() string {
	if id.IsValid() {
		return names[id]
	}
	if id == None {
		return "none"
	}
	return "block#" + strconv.Itoa(int(id))
}

// IsValid перевіряє чи блок відомий серверу
func (id ID) IsValid() bool { return int(id) < Count }

// IsClassic перевіряє чи блок підтримується клієнтом без CPE
func (id ID) IsClassic() bool { return id <= MaxClassic }

// Parse розпізнає блок за назвою, псевдонімом або числовим ID
func Parse(s string) (ID, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return None, ErrUnknownBlock
	}
	if n, err := strconv.Atoi(key); err == nil {
		if n >= 0 && n < Count {
			return ID(n), nil
		}
		return None, fmt.Errorf("%w: %q", ErrUnknownBlock, s)
	}
	for i, name := range names {
		if name == key {
			return ID(i), nil
		}
	}
	if id, ok := aliases[key]; ok {
		return id, nil
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownBlock, s)
}
