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

package blockdb

import (
	"go.uber.org/zap"

	"fcraft/world"
)

// Attach підписує журнал на зміни блоків карти.
// Записуються тільки зміни від гравців і тільки поки BlockDB карти увімкнено.
func (d *DB) Attach(m *world.Map) {
	if !d.Enabled() {
		return
	}
	name := m.Name()
	m.OnBlockChanged(func(e world.BlockChange) {
		if e.Player == nil || !e.Map.BlockDBEnabled() {
			return
		}
		err := d.Add(name, Entry{
			Coord:   e.Coord,
			Player:  e.Player.ID,
			Name:    e.Player.Name,
			Old:     e.Old,
			New:     e.New,
			Context: e.Context,
		})
		if err != nil {
			d.log.Error("BlockDB add error", zap.String("map", name), zap.Error(err))
		}
	})
}
