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
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

// ErrDisabled повертається, коли BlockDB вимкнено на сервері
var ErrDisabled = errors.New("blockdb disabled")

// DB - журнал змін блоків у badger.
// Ключ: "b/" + назва карти + 0x00 + (MaxInt64 - час у наносекундах) + лічильник,
// тому звичайний обхід префікса йде від нових записів до старих.
type DB struct {
	log *zap.Logger
	db  *badger.DB

	mu      sync.Mutex
	pending []pendingEntry
	seq     atomic.Uint32
}

type pendingEntry struct {
	key   []byte
	entry Entry
}

// Disabled повертає BlockDB, яка на все відповідає ErrDisabled
func Disabled() *DB { return &DB{} }

// Open відкриває базу. Порожній path і inMemory відкривають базу в пам'яті.
func Open(logger *zap.Logger, path string, inMemory bool) (*DB, error) {
	opts := badger.DefaultOptions(path)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open blockdb fail: %w", err)
	}
	logger.Info("BlockDB opened", zap.String("path", path), zap.Bool("in-memory", inMemory))
	return &DB{log: logger, db: db}, nil
}

// Enabled - чи працює журнал взагалі
func (d *DB) Enabled() bool { return d != nil && d.db != nil }

func mapPrefix(mapName string) []byte {
	p := make([]byte, 0, len(mapName)+3)
	p = append(p, 'b', '/')
	p = append(p, mapName...)
	return append(p, 0)
}

func (d *DB) key(mapName string, t time.Time) []byte {
	k := mapPrefix(mapName)
	k = binary.BigEndian.AppendUint64(k, uint64(math.MaxInt64-t.UnixNano()))
	return binary.BigEndian.AppendUint32(k, ^d.seq.Add(1))
}

// Add ставить запис у буфер. На диск він потрапить при Flush.
func (d *DB) Add(mapName string, e Entry) error {
	if !d.Enabled() {
		return ErrDisabled
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	d.mu.Lock()
	d.pending = append(d.pending, pendingEntry{key: d.key(mapName, e.Time), entry: e})
	d.mu.Unlock()
	return nil
}

// Flush записує буфер однією пачкою
func (d *DB) Flush() error {
	if !d.Enabled() {
		return ErrDisabled
	}
	d.mu.Lock()
	pending := d.pending
	d.pending = nil
	d.mu.Unlock()
	if len(pending) == 0 {
		return nil
	}

	wb := d.db.NewWriteBatch()
	defer wb.Cancel()
	var buf bytes.Buffer
	for _, p := range pending {
		buf.Reset()
		if _, err := p.entry.WriteTo(&buf); err != nil {
			return fmt.Errorf("encode blockdb entry fail: %w", err)
		}
		if err := wb.Set(p.key, bytes.Clone(buf.Bytes())); err != nil {
			return fmt.Errorf("write blockdb batch fail: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush blockdb batch fail: %w", err)
	}
	entriesWritten.Add(float64(len(pending)))
	return nil
}

// Run періодично скидає буфер, поки не скасують ctx
func (d *DB) Run(ctx context.Context, interval time.Duration) {
	if !d.Enabled() {
		return
	}
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.Flush(); err != nil {
				d.log.Error("BlockDB flush error", zap.Error(err))
			}
		}
	}
}

// Close скидає буфер і закриває базу
func (d *DB) Close() error {
	if !d.Enabled() {
		return nil
	}
	ferr := d.Flush()
	return errors.Join(ferr, d.db.Close())
}

// Clear стирає журнал однієї карти
func (d *DB) Clear(mapName string) error {
	if !d.Enabled() {
		return ErrDisabled
	}
	if err := d.Flush(); err != nil {
		return err
	}
	return d.db.DropPrefix(mapPrefix(mapName))
}
