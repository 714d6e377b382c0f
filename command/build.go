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

package command

import (
	"go.uber.org/zap"

	"fcraft/block"
	"fcraft/draw"
	"fcraft/world"
)

func registerBuilding(r *Registry) {
	r.Register(&Descriptor{
		Name:    "mark",
		Aliases: []string{"m"},
		Usage:   "[x y z]",
		Help:    "Places a selection mark at the given coordinates or where you stand.",
		Handler: mark,
	})
	r.Register(&Descriptor{
		Name:    "cancel",
		Help:    "Cancels the current selection.",
		Handler: cancel,
	})
	r.Register(&Descriptor{
		Name:    "static",
		Help:    "Toggles repeating selections: a finished selection starts over with the same command.",
		Handler: static,
	})
	r.Register(&Descriptor{
		Name:    "marktoggle",
		Help:    "Toggles whether clicks place selection marks.",
		Handler: markToggle,
	})
	r.Register(&Descriptor{
		Name:        "place",
		Permissions: []world.Permission{world.PermBuild},
		Usage:       "<x> <y> <z> <block>",
		Help:        "Places one block as if you clicked there.",
		Handler:     place,
	})
	r.Register(&Descriptor{
		Name:    "ok",
		Help:    "Confirms the last action that asked for confirmation.",
		Handler: confirm,
	})
	r.Register(&Descriptor{
		Name:        "copy",
		Permissions: []world.Permission{world.PermCopyAndPaste},
		Help:        "Copies a box into your clipboard. The first mark becomes the paste anchor.",
		Handler:     copyCommand(false),
	})
	r.Register(&Descriptor{
		Name:        "cut",
		Permissions: []world.Permission{world.PermCopyAndPaste, world.PermDelete},
		Usage:       "[fill block]",
		Help:        "Copies a box into your clipboard and fills it with air (or the given block).",
		Handler:     copyCommand(true),
	})
	r.Register(&Descriptor{
		Name:        "paste",
		Permissions: []world.Permission{world.PermCopyAndPaste},
		Help:        "Pastes your clipboard at a mark.",
		Handler:     pasteCommand("Paste", false, false),
	})
	r.Register(&Descriptor{
		Name:        "pastex",
		Permissions: []world.Permission{world.PermCopyAndPaste},
		Usage:       "<block>...",
		Help:        "Pastes only the listed blocks from your clipboard.",
		Handler:     pasteCommand("PasteX", true, false),
	})
	r.Register(&Descriptor{
		Name:        "pastenot",
		Permissions: []world.Permission{world.PermCopyAndPaste},
		Usage:       "<block>...",
		Help:        "Pastes everything from your clipboard except the listed blocks.",
		Handler:     pasteCommand("PasteNot", false, true),
	})
	r.Register(&Descriptor{
		Name:        "restore",
		Permissions: []world.Permission{world.PermDrawAdvanced},
		Usage:       "<backup name>",
		Help:        "Restores a box from a map backup.",
		Handler:     restore,
	})
}

func mark(c *Context) error {
	p := c.Player
	m := c.Map()
	if m == nil {
		return nil
	}
	if !p.IsMakingSelection() {
		p.Warn("Cannot mark: no selection in progress.")
		return nil
	}
	coord := p.BlockPosition()
	if c.Args.HasNext() {
		x, okX := c.Args.NextInt()
		y, okY := c.Args.NextInt()
		z, okZ := c.Args.NextInt()
		if !okX || !okY || !okZ || c.Args.HasNext() {
			c.Usage()
			return nil
		}
		coord = world.Vector3I{X: x, Y: y, Z: z}
	}
	p.SelectionAddMark(m.ClampToBounds(coord), true, false)
	return nil
}

func cancel(c *Context) error {
	if !c.Player.IsMakingSelection() {
		c.Player.Message("There is currently nothing to cancel.")
		return nil
	}
	c.Player.SelectionCancel()
	c.Player.Message("Selection cancelled.")
	return nil
}

func static(c *Context) error {
	on := !c.Player.IsRepeatingSelection()
	c.Player.SetRepeatingSelection(on)
	c.Player.Message("Static mode is now %s.", onOff(on))
	return nil
}

func markToggle(c *Context) error {
	disabled := !c.Player.DisableClickToMark.Load()
	c.Player.DisableClickToMark.Store(disabled)
	c.Player.Message("Click-to-mark is now %s.", onOff(!disabled))
	return nil
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

func place(c *Context) error {
	x, okX := c.Args.NextInt()
	y, okY := c.Args.NextInt()
	z, okZ := c.Args.NextInt()
	if !okX || !okY || !okZ {
		c.Usage()
		return nil
	}
	id, err := c.Args.NextBlock()
	if err != nil {
		warnBlock(c, err)
		return nil
	}
	Click(c.Player, world.Vector3I{X: x, Y: y, Z: z}, id)
	return nil
}

// Click - гравець клацнув по координаті, щоб поставити (або зламати) блок.
// Поки йде виділення, клік ставить мітку, якщо гравець це не вимкнув.
func Click(p *world.Player, coord world.Vector3I, id block.ID) {
	if p.IsMakingSelection() && !p.DisableClickToMark.Load() {
		p.SelectionAddMark(coord, true, false)
		return
	}
	m := p.World()
	if m == nil {
		return
	}
	if r := p.CanPlace(m, coord, id, world.ContextManual); r != world.PlacementAllowed {
		p.Warn("You cannot place %s at %v: %s.", id, coord, r)
		return
	}
	if m.GetBlock(coord) == id {
		return
	}
	m.QueueUpdate(world.BlockUpdate{Coord: coord, Block: id, Origin: p.Info, Context: world.ContextManual})
	if id == block.Air {
		p.Info.BlocksDeleted.Add(1)
	} else {
		p.Info.BlocksBuilt.Add(1)
	}
}

func confirm(c *Context) error {
	if !c.Player.RunConfirmation() {
		c.Player.Message("There is nothing to confirm.")
	}
	return nil
}

func copyCommand(cut bool) Handler {
	return func(c *Context) error {
		fill := block.Air
		if cut && c.Args.HasNext() {
			id, err := c.Args.NextBlock()
			if err != nil {
				warnBlock(c, err)
				return nil
			}
			fill = id
		}
		env := c.Env
		name := "Copy"
		perms := []world.Permission{world.PermCopyAndPaste}
		if cut {
			name = "Cut"
			perms = append(perms, world.PermDelete)
		}
		c.Player.SelectionStart(2, func(p *world.Player, marks []world.Vector3I, _ any) {
			m := p.World()
			if m == nil {
				return
			}
			box := world.NewBoundingBox(marks[0], marks[1])
			if !p.CanDraw(box.Volume()) {
				p.Warn("%s: you are only allowed to copy up to %d blocks.", name, p.DrawLimit())
				return
			}
			state := world.CopyFrom(m, box, marks[0])
			p.SetCopyState(state)
			p.Message("%s: %d blocks copied (%s). Use /paste to place them.", name, state.Volume(), state.Dims)
			if cut {
				runDraw(env, p, draw.NewReplaceShape("Cut"), draw.NormalBrush{Block: fill}, world.ContextCut, marks)
			}
		}, nil, perms...)
		c.Player.Message("%s: place 2 marks or use /mark.", name)
		return nil
	}
}

func pasteCommand(name string, include, exclude bool) Handler {
	return func(c *Context) error {
		p := c.Player
		if p.CopyState() == nil {
			p.Warn("Nothing to paste! Copy something first.")
			return nil
		}
		var list []block.ID
		if include || exclude {
			args := c.Args.Remaining()
			if len(args) == 0 {
				c.Usage()
				return nil
			}
			var err error
			if list, err = block.ParseList(args); err != nil {
				warnBlock(c, err)
				return nil
			}
		}
		env := c.Env
		p.SelectionStart(1, func(p *world.Player, marks []world.Vector3I, _ any) {
			m := p.World()
			if m == nil {
				return
			}
			brush := &draw.PasteBrush{Copy: p.CopyState()}
			if include {
				brush.Include = list
			}
			if exclude {
				brush.Exclude = list
			}
			op := draw.NewPaste(env.Log.Named("draw"), p, m, name, brush)
			op.SetGC(env.Scheduler)
			if op.Prepare(marks) {
				op.Begin()
			}
		}, nil, world.PermCopyAndPaste)
		p.Message("%s: place a mark where the first copied corner should go.", name)
		return nil
	}
}

func restore(c *Context) error {
	name, has := c.Args.Next()
	if !has || c.Backups == nil {
		c.Usage()
		return nil
	}
	if c.Map() == nil {
		return nil
	}
	p := c.Player
	env := c.Env
	env.Scheduler.NewBackgroundTask(func(any) {
		backup, err := env.Backups.LoadBackup(env.Log.Named("restore"), name)
		env.Scheduler.Post(func() {
			if err != nil {
				env.Log.Warn("Load backup fail", zap.String("backup", name), zap.Error(err))
				p.Warn("Restore: cannot load backup %q.", name)
				return
			}
			p.SelectionStart(2, func(p *world.Player, marks []world.Vector3I, _ any) {
				m := p.World()
				if m == nil {
					return
				}
				op := draw.NewRestore(env.Log.Named("draw"), p, m, backup, name)
				op.SetGC(env.Scheduler)
				if op.Prepare(marks) {
					op.Begin()
				}
			}, nil, world.PermDrawAdvanced)
			p.Message("Restore: backup %q loaded, place 2 marks.", name)
		})
	}).RunOnce(nil, 0)
	return nil
}
