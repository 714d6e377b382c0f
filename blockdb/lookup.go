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
	"bytes"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"

	"fcraft/world"
)

// Query - що шукати в журналі.
// Порожній Players без Except означає "всі гравці",
// Except інвертує список: "всі, крім цих".
type Query struct {
	Players []uuid.UUID
	Except  bool
	// Limit обмежує кількість знайдених записів, 0 = без обмеження
	Limit int
	// Since відкидає записи, старші за цей момент
	Since time.Time
	// Area обмежує пошук коробкою, nil = вся карта
	Area *world.BoundingBox
}

func (q *Query) matches(e *Entry) bool {
	if q.Area != nil && !q.Area.Contains(e.Coord) {
		return false
	}
	if len(q.Players) == 0 {
		return !q.Except
	}
	return slices.Contains(q.Players, e.Player) != q.Except
}

// Lookup повертає записи карти, які підходять під запит, від нових до старих.
// Довгий пошук треба запускати у фоновій задачі.
func (d *DB) Lookup(ctx context.Context, mapName string, q Query) ([]Entry, error) {
	if !d.Enabled() {
		return nil, ErrDisabled
	}
	if err := d.Flush(); err != nil {
		return nil, err
	}
	lookups.Inc()

	var found []Entry
	prefix := mapPrefix(mapName)
	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var e Entry
			err := it.Item().Value(func(val []byte) error {
				_, err := e.ReadFrom(bytes.NewReader(val))
				return err
			})
			if err != nil {
				return fmt.Errorf("decode blockdb entry fail: %w", err)
			}
			if !q.Since.IsZero() && e.Time.Before(q.Since) {
				break
			}
			if !q.matches(&e) {
				continue
			}
			found = append(found, e)
			if q.Limit > 0 && len(found) >= q.Limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
