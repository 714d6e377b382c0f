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

package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScheduler_RunsInOrder(t *testing.T) {
	s := New(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	var got []int
	finished := make(chan struct{})
	for i := range 5 {
		s.Post(func() { got = append(got, i) })
	}
	s.Post(func() { panic("boom") })
	s.Post(func() { close(finished) })

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("tasks did not run")
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestBackgroundTask_RunOnce(t *testing.T) {
	s := New(zap.NewNop())
	results := make(chan any, 2)
	task := s.NewBackgroundTask(func(state any) { results <- state })
	task.RunOnce("now", 0)
	task.RunOnce("later", 10*time.Millisecond)
	s.Wait()

	require.Len(t, results, 2)
	assert.Equal(t, "now", <-results)
	assert.Equal(t, "later", <-results)
}

func TestRequestGC_Coalesced(t *testing.T) {
	s := New(zap.NewNop())
	s.gcDelay = 10 * time.Millisecond
	var started atomic.Int32
	for range 10 {
		if !s.gcRequested.Load() {
			started.Add(1)
		}
		s.RequestGC()
	}
	assert.EqualValues(t, 1, started.Load())
	s.Wait()
	assert.False(t, s.gcRequested.Load())
}
