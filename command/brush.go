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

// Йоу, чат! Фабрики пензлів.
// Після назви фігури можна написати пензель: "/cuboid stone",
// "/sphere replace dirt sand glass" або "/cuboid replacebrush stone replace #ore air".
// Якщо перше слово не назва пензля, це просто блок для звичайного пензля.
// Фабрика сама пояснює гравцю помилку і повертає nil.

package command

import (
	"errors"
	"strings"

	"fcraft/block"
	"fcraft/draw"
)

type brushFactory func(c *Context) draw.Brush

func lookupBrush(name string) brushFactory {
	switch strings.ToLower(name) {
	case "normal":
		return normalBrush
	case "replace":
		return replaceBrush
	case "replacenot":
		return replaceNotBrush
	case "replacebrush", "rb":
		return replaceBrushBrush
	}
	return nil
}

// parseBrush читає пензель з аргументів команди
func parseBrush(c *Context) draw.Brush {
	name, ok := c.Args.Peek()
	if !ok {
		c.Usage()
		return nil
	}
	if f := lookupBrush(name); f != nil {
		c.Args.Next()
		return f(c)
	}
	return normalBrush(c)
}

func warnBlock(c *Context, err error) {
	if errors.Is(err, block.ErrUnknownBlock) {
		c.Player.Warn("%v.", err)
		return
	}
	c.Player.Warn("Cannot parse block: %v.", err)
}

func normalBrush(c *Context) draw.Brush {
	if !c.Args.HasNext() {
		c.Player.Warn("Usage: normal <block>")
		return nil
	}
	id, err := c.Args.NextBlock()
	if err != nil {
		warnBlock(c, err)
		return nil
	}
	return draw.NormalBrush{Block: id}
}

// listAndTarget розбирає "<блок>... <блок>": список і останній блок окремо
func listAndTarget(c *Context, usage string) ([]block.ID, block.ID, bool) {
	args := c.Args.Remaining()
	if len(args) < 2 {
		c.Player.Warn("Usage: %s", usage)
		return nil, block.None, false
	}
	list, err := block.ParseList(args[:len(args)-1])
	if err != nil {
		warnBlock(c, err)
		return nil, block.None, false
	}
	to, err := block.Parse(args[len(args)-1])
	if err != nil {
		warnBlock(c, err)
		return nil, block.None, false
	}
	return list, to, true
}

func replaceBrush(c *Context) draw.Brush {
	from, to, ok := listAndTarget(c, "replace <block>... <replacement>")
	if !ok {
		return nil
	}
	return draw.ReplaceBrush{From: from, To: to}
}

func replaceNotBrush(c *Context) draw.Brush {
	excluded, to, ok := listAndTarget(c, "replacenot <block>... <replacement>")
	if !ok {
		return nil
	}
	return draw.ReplaceNotBrush{Excluded: excluded, To: to}
}

func replaceBrushBrush(c *Context) draw.Brush {
	const usage = "Usage: replacebrush <block>... <brush> [brush args]"
	var from []string
	for {
		s, ok := c.Args.Peek()
		if !ok {
			c.Player.Warn(usage)
			return nil
		}
		if lookupBrush(s) != nil {
			break
		}
		from = append(from, s)
		c.Args.Next()
	}
	if len(from) == 0 {
		c.Player.Warn(usage)
		return nil
	}
	ids, err := block.ParseList(from)
	if err != nil {
		warnBlock(c, err)
		return nil
	}
	inner := parseBrush(c)
	if inner == nil {
		return nil
	}
	return draw.ReplaceBrushBrush{From: ids, Inner: inner}
}
