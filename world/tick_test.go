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
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// countingOp "малює" total блоків, скільки дозволить бюджет
type countingOp struct {
	left    atomic.Int64
	batches atomic.Int64
}

func (o *countingOp) DrawBatch(max int) int {
	o.batches.Add(1)
	n := min(int64(max), o.left.Load())
	o.left.Add(-n)
	return int(n)
}

func (o *countingOp) IsDone() bool { return o.left.Load() == 0 }

func TestTick_UsesThrottle(t *testing.T) {
	m, err := NewMap(zap.NewNop(), "t", Vector3I{4, 4, 4})
	require.NoError(t, err)
	m.SetDrawThrottle(3, nil)

	op := new(countingOp)
	op.left.Store(10)
	m.QueueDrawOp(op)
	m.tick()
	assert.EqualValues(t, 7, op.left.Load())

	// лімітер без токенів пропускає тік
	m.SetDrawThrottle(0, rate.NewLimiter(0, 0))
	m.tick()
	assert.EqualValues(t, 7, op.left.Load())

	m.SetDrawThrottle(0, nil)
	assert.Equal(t, 7, m.FinishDrawOps())
	assert.Zero(t, m.PendingDrawOps())
}

func TestTick_ConcurrentThrottleChange(t *testing.T) {
	m, err := NewMap(zap.NewNop(), "t", Vector3I{4, 4, 4})
	require.NoError(t, err)
	op := new(countingOp)
	op.left.Store(1 << 20)
	m.QueueDrawOp(op)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 200 {
			m.SetDrawThrottle(i+1, rate.NewLimiter(rate.Inf, 1))
		}
	}()
	go func() {
		defer wg.Done()
		for range 200 {
			m.tick()
		}
	}()
	wg.Wait()
	assert.EqualValues(t, 200, op.batches.Load())
}
