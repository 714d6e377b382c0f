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

// Йоу, чат! Планувальник - це серце обробки команд.
// Всі команди гравців виконуються в одній горутині (контекст диспетчеризації),
// тому їм не треба думати про гонки між собою.
// А все довге (пошук в BlockDB) йде у фонові задачі, які потім
// повертають результат назад через Post.

package scheduler

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Tnze/go-mc/net/queue"
	"go.uber.org/zap"
)

// Scheduler - черга задач для головного контексту і фонові задачі
type Scheduler struct {
	log   *zap.Logger
	tasks queue.Queue[func()]

	gcRequested atomic.Bool
	gcDelay     time.Duration
	running     sync.WaitGroup
}

// New створює планувальник. Задачі починають виконуватись після Run.
func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		log:     logger,
		tasks:   queue.NewLinkedQueue[func()](),
		gcDelay: 5 * time.Second,
	}
}

// Post додає задачу в головний контекст
func (s *Scheduler) Post(task func()) {
	s.tasks.Push(task)
}

// Run виконує задачі по черзі, поки не скасують ctx
func (s *Scheduler) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		s.tasks.Close()
	}()
	for {
		task, ok := s.tasks.Pull()
		if !ok {
			return
		}
		s.runTask(task)
	}
}

func (s *Scheduler) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Task panic", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
		}
	}()
	task()
}

// Wait чекає завершення всіх фонових задач
func (s *Scheduler) Wait() { s.running.Wait() }

// BackgroundTask - задача, яка виконується поза головним контекстом
type BackgroundTask struct {
	s        *Scheduler
	callback func(state any)
}

// NewBackgroundTask створює фонову задачу
func (s *Scheduler) NewBackgroundTask(callback func(state any)) *BackgroundTask {
	return &BackgroundTask{s: s, callback: callback}
}

// RunOnce запускає задачу один раз через delay
func (t *BackgroundTask) RunOnce(state any, delay time.Duration) {
	t.s.running.Add(1)
	run := func() {
		defer t.s.running.Done()
		defer func() {
			if r := recover(); r != nil {
				t.s.log.Error("Background task panic", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			}
		}()
		t.callback(state)
	}
	if delay <= 0 {
		go run()
		return
	}
	time.AfterFunc(delay, run)
}

// RequestGC просить зібрати сміття після великої зміни карти.
// Кілька запитів поспіль зливаються в одне збирання.
func (s *Scheduler) RequestGC() {
	if !s.gcRequested.CompareAndSwap(false, true) {
		return
	}
	s.NewBackgroundTask(func(any) {
		s.gcRequested.Store(false)
		s.log.Debug("Free OS memory after large draw")
		debug.FreeOSMemory()
	}).RunOnce(nil, s.gcDelay)
}
