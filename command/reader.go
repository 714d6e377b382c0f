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
	"strconv"
	"strings"

	"fcraft/block"
)

// Reader видає аргументи команди по одному
type Reader struct {
	args []string
	pos  int
}

// NewReader ділить рядок на аргументи по пробілах
func NewReader(s string) *Reader { return &Reader{args: strings.Fields(s)} }

// Next повертає наступний аргумент
func (r *Reader) Next() (string, bool) {
	if r.pos >= len(r.args) {
		return "", false
	}
	r.pos++
	return r.args[r.pos-1], true
}

// Peek повертає наступний аргумент, не забираючи його
func (r *Reader) Peek() (string, bool) {
	if r.pos >= len(r.args) {
		return "", false
	}
	return r.args[r.pos], true
}

func (r *Reader) HasNext() bool { return r.pos < len(r.args) }

// Remaining повертає всі аргументи, що лишились, і забирає їх
func (r *Reader) Remaining() []string {
	rest := r.args[r.pos:]
	r.pos = len(r.args)
	return rest
}

// NextInt читає ціле число
func (r *Reader) NextInt() (int, bool) {
	s, ok := r.Peek()
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	r.pos++
	return n, true
}

// NextBlock читає назву блоку
func (r *Reader) NextBlock() (block.ID, error) {
	s, ok := r.Next()
	if !ok {
		return block.None, block.ErrUnknownBlock
	}
	return block.Parse(s)
}
