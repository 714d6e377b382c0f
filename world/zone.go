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

// Йоу, чат! Зони - це іменовані коробки на карті, де будувати можуть
// тільки гравці з достатнім рангом (або з білого списку).
// Щоб не перебирати всі зони на кожен блок малювання, тримаємо їх у BVH дереві.

package world

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"fcraft/world/internal/bvh"
)

// Zone - захищена ділянка карти
type Zone struct {
	Name      string
	Bounds    BoundingBox
	MinRank   *Rank    // мінімальний ранг для будівництва, nil = всі
	Whitelist []string // ці гравці можуть будувати завжди
	Blacklist []string // а ці - ніколи
}

// Allows перевіряє чи гравець може змінювати блоки в зоні
func (z *Zone) Allows(info *PlayerInfo) bool {
	if containsName(z.Blacklist, info.Name) {
		return false
	}
	if containsName(z.Whitelist, info.Name) {
		return true
	}
	return z.MinRank == nil || info.Rank().Priority >= z.MinRank.Priority
}

func containsName(list []string, name string) bool {
	return slices.ContainsFunc(list, func(s string) bool { return strings.EqualFold(s, name) })
}

type zoneNode = bvh.Node[int, *Zone]

// ErrZoneExists повертається при спробі додати зону з існуючим ім'ям
var ErrZoneExists = errors.New("zone already exists")

// ZoneList - всі зони однієї карти
type ZoneList struct {
	mu     sync.RWMutex
	tree   bvh.Tree[int, *Zone]
	byName map[string]*zoneNode
}

func NewZoneList() *ZoneList {
	return &ZoneList{byName: make(map[string]*zoneNode)}
}

// Add додає нову зону
func (l *ZoneList) Add(z *Zone) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := strings.ToLower(z.Name)
	if _, ok := l.byName[key]; ok {
		return ErrZoneExists
	}
	l.byName[key] = l.tree.Insert(z.Bounds.box(), z)
	return nil
}

// Remove видаляє зону за ім'ям, повертає false якщо такої немає
func (l *ZoneList) Remove(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := strings.ToLower(name)
	n, ok := l.byName[key]
	if !ok {
		return false
	}
	l.tree.Delete(n)
	delete(l.byName, key)
	return true
}

// Find шукає зону за ім'ям
func (l *ZoneList) Find(name string) *Zone {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n, ok := l.byName[strings.ToLower(name)]; ok {
		return n.Value
	}
	return nil
}

// Len - кількість зон
func (l *ZoneList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tree.Len()
}

// At повертає всі зони, що містять координату
func (l *ZoneList) At(coord Vector3I) (zones []*Zone) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.tree.Find(
		bvh.ContainsPoint(bvh.Vec3[int]{coord.X, coord.Y, coord.Z}),
		func(n *zoneNode) bool {
			zones = append(zones, n.Value)
			return true
		},
	)
	return
}

// Intersecting повертає всі зони, що перетинаються з коробкою
func (l *ZoneList) Intersecting(box BoundingBox) (zones []*Zone) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.tree.Find(bvh.TouchBox(box.box()), func(n *zoneNode) bool {
		zones = append(zones, n.Value)
		return true
	})
	return
}

// Check повертає першу зону, яка забороняє гравцю змінювати координату.
// nil означає що жодна зона не заважає.
func (l *ZoneList) Check(coord Vector3I, info *PlayerInfo) (denied *Zone) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.tree.Find(
		bvh.ContainsPoint(bvh.Vec3[int]{coord.X, coord.Y, coord.Z}),
		func(n *zoneNode) bool {
			if !n.Value.Allows(info) {
				denied = n.Value
				return false
			}
			return true
		},
	)
	return
}
