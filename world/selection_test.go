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

package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type selectionCall struct {
	marks []Vector3I
	tag   any
}

func recordSelection(calls *[]selectionCall) SelectionCallback {
	return func(_ *Player, marks []Vector3I, tag any) {
		*calls = append(*calls, selectionCall{marks, tag})
	}
}

func TestSelection_Completion(t *testing.T) {
	ranks := testRanks(t)
	p, _ := testPlayer("p", ranks.Find("builder"))
	var calls []selectionCall

	p.SelectionStart(3, recordSelection(&calls), "cuboid", PermDraw)
	a, b, c := Vector3I{1, 2, 3}, Vector3I{4, 5, 6}, Vector3I{7, 8, 9}
	p.SelectionAddMark(a, true, false)
	p.SelectionAddMark(b, true, false)
	assert.Empty(t, calls)
	assert.Equal(t, 2, p.SelectionMarkCount())
	p.SelectionAddMark(c, true, false)

	require.Len(t, calls, 1)
	assert.Equal(t, []Vector3I{a, b, c}, calls[0].marks)
	assert.Equal(t, "cuboid", calls[0].tag)
	assert.False(t, p.IsMakingSelection())

	p.SelectionAddMark(a, true, false)
	assert.Len(t, calls, 1, "no session after completion")
}

func TestSelection_Cancel(t *testing.T) {
	p, _ := testPlayer("p", testRanks(t).Lowest())
	var calls []selectionCall
	p.SelectionCancel() // без сесії нічого не відбувається

	p.SelectionStart(2, recordSelection(&calls), nil)
	p.SelectionAddMark(Vector3I{}, false, false)
	p.SelectionCancel()
	p.SelectionAddMark(Vector3I{1, 1, 1}, false, false)
	assert.Empty(t, calls)
	assert.False(t, p.IsMakingSelection())
}

func TestSelection_InvalidCount(t *testing.T) {
	p, log := testPlayer("p", testRanks(t).Lowest())
	p.SelectionStart(0, func(*Player, []Vector3I, any) { t.Fatal("called") }, nil)
	assert.False(t, p.IsMakingSelection())
	assert.NotEmpty(t, log.Last())
}

func TestSelection_PermissionLost(t *testing.T) {
	ranks := testRanks(t)
	p, log := testPlayer("p", ranks.Find("builder"))
	var calls []selectionCall
	p.SelectionStart(2, recordSelection(&calls), nil, PermDraw)
	p.SelectionAddMark(Vector3I{}, false, false)

	p.Info.SetRank(ranks.Find("guest"))
	p.SelectionAddMark(Vector3I{1, 1, 1}, false, false)
	assert.Empty(t, calls)
	assert.True(t, p.IsMakingSelection(), "session stays open")
	assert.Equal(t, 1, p.SelectionMarkCount())
	assert.Contains(t, log.Last(), "no longer allowed")

	p.Info.SetRank(ranks.Find("builder"))
	p.SelectionAddMark(Vector3I{2, 2, 2}, false, false)
	require.Len(t, calls, 1)
	assert.Equal(t, []Vector3I{{}, {2, 2, 2}}, calls[0].marks)
}

func TestSelection_Repeating(t *testing.T) {
	p, _ := testPlayer("p", testRanks(t).Lowest())
	p.SetRepeatingSelection(true)
	var calls []selectionCall
	p.SelectionStart(2, recordSelection(&calls), "tag")

	a, b, c, d, e := Vector3I{1, 0, 0}, Vector3I{2, 0, 0}, Vector3I{3, 0, 0}, Vector3I{4, 0, 0}, Vector3I{5, 0, 0}
	p.SelectionAddMark(a, false, false)
	p.SelectionAddMark(b, false, false)
	require.Len(t, calls, 1)
	assert.Equal(t, []Vector3I{a, b}, calls[0].marks)
	assert.True(t, p.IsMakingSelection())
	assert.Equal(t, 0, p.SelectionMarkCount(), "restarted with no marks")

	// одна нова мітка ще не завершує повтор
	p.SelectionAddMark(c, false, false)
	assert.Len(t, calls, 1)
	assert.Equal(t, 1, p.SelectionMarkCount())

	// forceReplaceLast міняє останню мітку незавершеного набору
	p.SelectionAddMark(d, false, true)
	assert.Len(t, calls, 1)
	p.SelectionAddMark(e, false, false)
	require.Len(t, calls, 2)
	assert.Equal(t, []Vector3I{d, e}, calls[1].marks)
	assert.Equal(t, "tag", calls[1].tag)

	p.SetRepeatingSelection(false)
	assert.False(t, p.IsMakingSelection())
}
