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

// Йоу, чат! Зараз розберемо теги блоків!
// Тег - це спосіб групувати блоки за спільними ознаками.
// Наприклад "#liquid" - це вся вода і лава, "#wool" - всі кольорові блоки.
// Теги можна писати в аргументах команд замість довгого списку блоків.

package block

import (
	"fmt"
	"strings"
)

// Tag представляє групу блоків зі спільними властивостями
type Tag struct {
	// Назва тегу без решітки (наприклад "liquid")
	Name string
	// Блоки, які входять у тег
	Values []ID
}

// Has перевіряє чи блок входить у тег
func (t Tag) Has(id ID) bool {
	for _, v := range t.Values {
		if v == id {
			return true
		}
	}
	return false
}

var defaultTags = []Tag{
	{Name: "liquid", Values: []ID{Water, StillWater, Lava, StillLava}},
	{Name: "water", Values: []ID{Water, StillWater}},
	{Name: "lava", Values: []ID{Lava, StillLava}},
	{Name: "wool", Values: []ID{Red, Orange, Yellow, Lime, Green, Teal, Aqua, Cyan, Blue, Indigo, Violet, Magenta, Pink, Black, Gray, White}},
	{Name: "ore", Values: []ID{GoldOre, IronOre, Coal}},
	{Name: "plant", Values: []ID{Sapling, YellowFlower, RedFlower, BrownMushroom, RedMushroom}},
	{Name: "tree", Values: []ID{Log, Leaves}},
}

// LookupTag шукає тег за назвою (з решіткою або без)
func LookupTag(name string) (Tag, bool) {
	name = strings.TrimPrefix(strings.ToLower(name), "#")
	for _, t := range defaultTags {
		if t.Name == name {
			return t, true
		}
	}
	return Tag{}, false
}

// ParseList розбирає список блоків. Кожен елемент - назва блоку або "#тег".
// Дублікати відкидаються, порядок першої появи зберігається.
func ParseList(args []string) ([]ID, error) {
	var (
		out  []ID
		seen [Count]bool
	)
	add := func(id ID) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, arg := range args {
		if strings.HasPrefix(arg, "#") {
			t, ok := LookupTag(arg)
			if !ok {
				return nil, fmt.Errorf("%w: unknown tag %q", ErrUnknownBlock, arg)
			}
			for _, id := range t.Values {
				add(id)
			}
			continue
		}
		id, err := Parse(arg)
		if err != nil {
			return nil, err
		}
		add(id)
	}
	return out, nil
}
