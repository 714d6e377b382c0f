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

// Йоу, чат! BlockDB - це журнал усіх змін блоків на карті.
// Кожен запис каже: хто, коли, де, що було і що стало.
// Саме по ньому працюють /undoplayer і /undoarea: шукаємо потрібні записи
// і ставимо старі блоки назад.

package blockdb

import (
	"io"
	"time"

	pk "github.com/Tnze/go-mc/net/packet"
	"github.com/google/uuid"

	"fcraft/block"
	"fcraft/world"
)

// Entry - один запис журналу
type Entry struct {
	Time    time.Time
	Coord   world.Vector3I
	Player  uuid.UUID
	Name    string // нікнейм на момент зміни
	Old     block.ID
	New     block.ID
	Context world.BlockChangeContext
}

// WriteTo записує значення запису. Час і карта зберігаються в ключі,
// але час дублюється тут, щоб запис можна було прочитати без ключа.
func (e *Entry) WriteTo(w io.Writer) (n int64, err error) {
	var (
		nanos   = pk.Long(e.Time.UnixNano())
		x, y, z = pk.Int(e.Coord.X), pk.Int(e.Coord.Y), pk.Int(e.Coord.Z)
		player  = pk.UUID(e.Player)
		name    = pk.String(e.Name)
		oldID   = pk.UnsignedByte(e.Old)
		newID   = pk.UnsignedByte(e.New)
		ctx     = pk.UnsignedShort(e.Context)
	)
	return pk.Tuple{&nanos, &x, &y, &z, &player, &name, &oldID, &newID, &ctx}.WriteTo(w)
}

// ReadFrom читає запис у тому ж порядку полів
func (e *Entry) ReadFrom(r io.Reader) (n int64, err error) {
	var (
		nanos        pk.Long
		x, y, z      pk.Int
		player       pk.UUID
		name         pk.String
		oldID, newID pk.UnsignedByte
		ctx          pk.UnsignedShort
	)
	n, err = pk.Tuple{&nanos, &x, &y, &z, &player, &name, &oldID, &newID, &ctx}.ReadFrom(r)
	if err != nil {
		return n, err
	}
	*e = Entry{
		Time:    time.Unix(0, int64(nanos)),
		Coord:   world.Vector3I{X: int(x), Y: int(y), Z: int(z)},
		Player:  uuid.UUID(player),
		Name:    string(name),
		Old:     block.ID(oldID),
		New:     block.ID(newID),
		Context: world.BlockChangeContext(ctx),
	}
	return n, nil
}

// OldBlocks перетворює знайдені записи (від нових до старих) у список
// для відкату: по одному блоку на координату, з найстарішого запису.
// Порядок результату - від нових змін до старих, відкат іде з кінця.
func OldBlocks(entries []Entry) []world.UndoBlock {
	oldest := make(map[world.Vector3I]block.ID, len(entries))
	for _, e := range entries {
		oldest[e.Coord] = e.Old
	}
	out := make([]world.UndoBlock, 0, len(oldest))
	for _, e := range entries {
		id, ok := oldest[e.Coord]
		if !ok {
			continue
		}
		delete(oldest, e.Coord)
		out = append(out, world.UndoBlock{Coord: e.Coord, Block: id})
	}
	return out
}
