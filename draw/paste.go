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

package draw

import (
	"iter"

	"go.uber.org/zap"

	"fcraft/world"
)

// Paste - коробка буфера копіювання, поставлена якорем на мітку
type Paste struct {
	Copy *world.CopyState
	name string
}

func (p *Paste) Name() string       { return p.name }
func (p *Paste) ExpectedMarks() int { return 1 }

func (p *Paste) Prepare(op *Operation, marks []world.Vector3I) (world.BoundingBox, bool) {
	box := p.Copy.PasteBounds(marks[0])
	if pb, ok := op.Brush.(*PasteBrush); ok {
		pb.Origin = box.MinVertex()
	}
	return box, true
}

func (p *Paste) Estimate(op *Operation) int64 { return op.Bounds.Volume() }

func (p *Paste) Candidates(op *Operation) iter.Seq[Candidate] { return boxCandidates(op.Bounds, always) }

// NewPaste готує вставку буфера гравця. Include і Exclude як у PasteBrush.
func NewPaste(logger *zap.Logger, pl *world.Player, m *world.Map, name string, brush *PasteBrush) *Operation {
	op := New(logger, pl, m, &Paste{Copy: brush.Copy, name: name}, world.ContextPasted)
	op.Brush = brush
	return op
}

// restoreShape - кубоїд, який відмовляє, якщо бекап іншого розміру
type restoreShape struct {
	Cuboid
	backup *world.Map
}

func (r *restoreShape) Prepare(op *Operation, marks []world.Vector3I) (world.BoundingBox, bool) {
	if r.backup.Bounds() != op.Map.Bounds() {
		op.Player.Warn("Restore: the backup has different dimensions (%s vs %s).",
			r.backup.Bounds().Dimensions(), op.Map.Bounds().Dimensions())
		return world.BoundingBox{}, false
	}
	return r.Cuboid.Prepare(op, marks)
}

// NewRestore відновлює коробку з бекапу карти
func NewRestore(logger *zap.Logger, pl *world.Player, m, backup *world.Map, backupName string) *Operation {
	shape := &restoreShape{Cuboid: Cuboid{Mode: CuboidSolid, name: "Restore"}, backup: backup}
	op := New(logger, pl, m, shape, world.ContextRestored)
	op.Brush = restoreBrush{backup: backup, name: backupName}
	return op
}

func always(world.Vector3I) bool { return true }
