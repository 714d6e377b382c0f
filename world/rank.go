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

// Йоу, чат! Тут у нас ранги і права гравців.
// Кожен ранг має набір дозволів (будувати, малювати, відкочувати чужі зміни...)
// і пріоритет: чим він більший, тим ранг "старший".
// Деякі дозволи ще й обмежені рангом цілі, наприклад модератор може
// відкотити зміни гравця, але не адміна.

package world

import (
	"errors"
	"fmt"
	"strings"
)

// Permission - один дозвіл
type Permission int

const (
	PermBuild Permission = iota
	PermDelete
	PermPlaceWater
	PermPlaceLava
	PermPlaceAdmincrete
	PermDeleteAdmincrete
	PermDraw
	PermDrawAdvanced
	PermCopyAndPaste
	PermUndoOthersActions
	PermUndoAll
	PermManageZones
	permissionCount
)

var permissionNames = [permissionCount]string{
	"build", "delete", "place-water", "place-lava", "place-admincrete",
	"delete-admincrete", "draw", "draw-advanced", "copy-and-paste",
	"undo-others-actions", "undo-all", "manage-zones",
}

func (p Permission) String() string {
	if p < 0 || p >= permissionCount {
		return fmt.Sprintf("permission(%d)", int(p))
	}
	return permissionNames[p]
}

// ErrUnknownPermission повертається коли в конфігу є невідомий дозвіл
var ErrUnknownPermission = errors.New("unknown permission")

// ParsePermission шукає дозвіл за назвою
func ParsePermission(s string) (Permission, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range permissionNames {
		if name == s {
			return Permission(i), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownPermission)
}

// Rank - ранг гравця
type Rank struct {
	Name     string
	Priority int // вищий пріоритет = старший ранг
	// DrawLimit - максимальний об'єм малювання, 0 = без обмежень
	DrawLimit int64

	perms  [permissionCount]bool
	limits [permissionCount]*Rank
}

// Can перевіряє що ранг має всі вказані дозволи
func (r *Rank) Can(perms ...Permission) bool {
	for _, p := range perms {
		if !r.perms[p] {
			return false
		}
	}
	return true
}

// CanOn перевіряє дозвіл щодо гравця іншого рангу.
// Якщо для дозволу задано ліміт, ціль не може бути старшою за нього.
func (r *Rank) CanOn(p Permission, target *Rank) bool {
	if !r.perms[p] {
		return false
	}
	if limit := r.limits[p]; limit != nil {
		return target.Priority <= limit.Priority
	}
	return true
}

// Limit повертає ранг-обмеження для дозволу, або сам ранг якщо ліміт не задано
func (r *Rank) Limit(p Permission) *Rank {
	if limit := r.limits[p]; limit != nil {
		return limit
	}
	return r
}

func (r *Rank) String() string { return r.Name }

// RankDefinition - опис рангу в config.toml
type RankDefinition struct {
	Name        string            `toml:"name"`
	Permissions []string          `toml:"permissions"`
	DrawLimit   int64             `toml:"draw-limit"`
	Limits      map[string]string `toml:"limits"`
}

// RankList - всі ранги сервера, від молодшого до старшого
type RankList struct {
	ranks  []*Rank
	byName map[string]*Rank
}

// NewRankList будує ранги з конфігу. Порядок в списку задає пріоритет:
// перший ранг - наймолодший.
func NewRankList(defs []RankDefinition) (*RankList, error) {
	if len(defs) == 0 {
		return nil, errors.New("no ranks defined")
	}
	l := &RankList{byName: make(map[string]*Rank, len(defs))}
	for i, def := range defs {
		key := strings.ToLower(def.Name)
		if key == "" {
			return nil, fmt.Errorf("rank #%d has no name", i)
		}
		if _, ok := l.byName[key]; ok {
			return nil, fmt.Errorf("duplicate rank %q", def.Name)
		}
		r := &Rank{Name: def.Name, Priority: i, DrawLimit: def.DrawLimit}
		for _, name := range def.Permissions {
			p, err := ParsePermission(name)
			if err != nil {
				return nil, fmt.Errorf("rank %q: %w", def.Name, err)
			}
			r.perms[p] = true
		}
		l.ranks = append(l.ranks, r)
		l.byName[key] = r
	}
	// Ліміти можуть посилатись на будь-який ранг, тому другий прохід
	for i, def := range defs {
		for permName, rankName := range def.Limits {
			p, err := ParsePermission(permName)
			if err != nil {
				return nil, fmt.Errorf("rank %q limits: %w", def.Name, err)
			}
			limit := l.Find(rankName)
			if limit == nil {
				return nil, fmt.Errorf("rank %q limits %s by unknown rank %q", def.Name, p, rankName)
			}
			l.ranks[i].limits[p] = limit
		}
	}
	return l, nil
}

// Find шукає ранг за назвою без урахування регістру
func (l *RankList) Find(name string) *Rank { return l.byName[strings.ToLower(name)] }

// Lowest повертає наймолодший ранг
func (l *RankList) Lowest() *Rank { return l.ranks[0] }

// Highest повертає найстарший ранг
func (l *RankList) Highest() *Rank { return l.ranks[len(l.ranks)-1] }

// All повертає всі ранги від молодшого до старшого
func (l *RankList) All() []*Rank { return l.ranks }

// DefaultRanks - ранги, які використовуються якщо конфіг їх не задає
func DefaultRanks() []RankDefinition {
	return []RankDefinition{
		{
			Name:        "guest",
			Permissions: []string{"build", "delete"},
		},
		{
			Name: "builder",
			Permissions: []string{
				"build", "delete", "place-water", "place-lava", "draw", "copy-and-paste",
			},
			DrawLimit: 64 * 64 * 64,
		},
		{
			Name: "op",
			Permissions: []string{
				"build", "delete", "place-water", "place-lava", "place-admincrete",
				"delete-admincrete", "draw", "draw-advanced", "copy-and-paste",
				"undo-others-actions", "manage-zones",
			},
			Limits: map[string]string{"undo-others-actions": "builder"},
		},
		{
			Name:        "owner",
			Permissions: permissionNames[:],
		},
	}
}
