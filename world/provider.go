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

// Йоу, чат! Сьогодні ми розберемо як карта зберігається на диск!
// Використовуємо формат ClassicWorld (.cw): це NBT, стиснутий gzip.
// Увага: в ClassicWorld вісь Y - вертикальна, а в нас вертикальна Z.
// Але порядок блоків в масиві збігається: висота найповільніша,
// потім довжина, потім ширина. Тому масив копіюємо як є,
// а переставляємо тільки розміри і точку спавну.

package world

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Tnze/go-mc/nbt"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"fcraft/block"
)

// classicWorld - корінь файлу .cw
type classicWorld struct {
	FormatVersion int8
	Name          string
	UUID          []byte
	X, Y, Z       int16
	Spawn         classicSpawn
	BlockArray    []byte
	Metadata      classicMetadata
}

type classicSpawn struct {
	X, Y, Z int16
	H, P    int8
}

// classicMetadata - наші власні дані, інші сервери їх пропустять
type classicMetadata struct {
	FCraft fcraftMetadata `nbt:"fCraft"`
}

type fcraftMetadata struct {
	ReadOnly       int8
	BlockDBEnabled int8
	BuildRank      string
	Zones          []classicZone
}

type classicZone struct {
	Name      string
	Min, Max  []int32
	MinRank   string
	Whitelist []string
	Blacklist []string
}

// ErrMapNotExist повертається коли файлу карти немає
var ErrMapNotExist = errors.New("map file does not exist")

// Provider завантажує і зберігає карти
type Provider struct {
	mapFile   string
	backupDir string
	ranks     *RankList
}

// NewProvider створює провайдер для файлу карти і директорії бекапів
func NewProvider(mapFile, backupDir string, ranks *RankList) *Provider {
	return &Provider{mapFile: mapFile, backupDir: backupDir, ranks: ranks}
}

// Load завантажує головну карту
func (p *Provider) Load(logger *zap.Logger) (*Map, error) {
	return p.loadFile(logger, p.mapFile)
}

// Save зберігає карту в головний файл
func (p *Provider) Save(m *Map) error {
	if err := p.saveFile(m, p.mapFile); err != nil {
		return err
	}
	m.changed.Store(false)
	return nil
}

// Backup зберігає копію карти в директорію бекапів і повертає ім'я файлу
func (p *Provider) Backup(m *Map) (string, error) {
	if err := os.MkdirAll(p.backupDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir fail: %w", err)
	}
	name := fmt.Sprintf("%s_%s.cw", m.Name(), time.Now().Format("2006-01-02_15-04-05"))
	if err := p.saveFile(m, filepath.Join(p.backupDir, name)); err != nil {
		return "", err
	}
	return name, nil
}

// LoadBackup завантажує бекап за ім'ям файлу (без шляху)
func (p *Provider) LoadBackup(logger *zap.Logger, name string) (*Map, error) {
	name = filepath.Base(name)
	if !strings.HasSuffix(name, ".cw") {
		name += ".cw"
	}
	return p.loadFile(logger, filepath.Join(p.backupDir, name))
}

// Backups повертає імена всіх бекапів від найновішого
func (p *Provider) Backups() ([]string, error) {
	entries, err := os.ReadDir(p.backupDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("read backup dir fail: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".cw") {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

func (p *Provider) loadFile(logger *zap.Logger, path string) (m *Map, errRet error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrMapNotExist)
	} else if err != nil {
		return nil, fmt.Errorf("open map fail: %w", err)
	}
	defer func(f *os.File) {
		err2 := f.Close()
		if errRet == nil && err2 != nil {
			errRet = fmt.Errorf("close map file fail: %w", err2)
		}
	}(f)

	r, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("open gzip reader fail: %w", err)
	}
	var cw classicWorld
	if _, err := nbt.NewDecoder(r).Decode(&cw); err != nil {
		return nil, fmt.Errorf("decode map fail: %w", err)
	}
	if err := r.Close(); err != nil {
		return nil, fmt.Errorf("close gzip reader fail: %w", err)
	}
	return p.fromClassicWorld(logger, &cw)
}

func (p *Provider) fromClassicWorld(logger *zap.Logger, cw *classicWorld) (*Map, error) {
	dims := Vector3I{int(cw.X), int(cw.Z), int(cw.Y)}
	m, err := NewMap(logger, cw.Name, dims)
	if err != nil {
		return nil, err
	}
	if len(cw.BlockArray) != len(m.blocks) {
		return nil, fmt.Errorf("map %q has %d blocks, want %d", cw.Name, len(cw.BlockArray), len(m.blocks))
	}
	for i, b := range cw.BlockArray {
		if id := block.ID(b); id.IsValid() {
			m.blocks[i] = id
		}
	}
	m.Spawn = Vector3I{int(cw.Spawn.X), int(cw.Spawn.Z), int(cw.Spawn.Y)}

	meta := cw.Metadata.FCraft
	m.SetReadOnly(meta.ReadOnly != 0)
	m.SetBlockDBEnabled(meta.BlockDBEnabled != 0)
	if meta.BuildRank != "" && p.ranks != nil {
		m.SetBuildRank(p.ranks.Find(meta.BuildRank))
	}
	for _, z := range meta.Zones {
		if len(z.Min) != 3 || len(z.Max) != 3 {
			logger.Warn("Skip malformed zone", zap.String("zone", z.Name))
			continue
		}
		zone := &Zone{
			Name:      z.Name,
			Bounds:    NewBoundingBox(vecFromInts(z.Min), vecFromInts(z.Max)),
			Whitelist: z.Whitelist,
			Blacklist: z.Blacklist,
		}
		if z.MinRank != "" && p.ranks != nil {
			zone.MinRank = p.ranks.Find(z.MinRank)
		}
		if err := m.zones.Add(zone); err != nil {
			logger.Warn("Skip zone", zap.String("zone", z.Name), zap.Error(err))
		}
	}
	return m, nil
}

func (p *Provider) saveFile(m *Map, path string) (errRet error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create map dir fail: %w", err)
	}
	// Пишемо у тимчасовий файл, щоб не зіпсувати карту при збої
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create map file fail: %w", err)
	}
	defer func() {
		if errRet != nil {
			_ = os.Remove(tmp)
		}
	}()

	w := gzip.NewWriter(f)
	if err := nbt.NewEncoder(w).Encode(toClassicWorld(m), "ClassicWorld"); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode map fail: %w", err)
	}
	if err := w.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("close gzip writer fail: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close map file fail: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace map file fail: %w", err)
	}
	return nil
}

func toClassicWorld(m *Map) *classicWorld {
	blocks := m.Blocks()
	raw := make([]byte, len(blocks))
	for i, b := range blocks {
		raw[i] = byte(b)
	}
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(m.Name()))

	meta := fcraftMetadata{
		ReadOnly:       flag(m.IsReadOnly()),
		BlockDBEnabled: flag(m.BlockDBEnabled()),
	}
	if r := m.BuildRank(); r != nil {
		meta.BuildRank = r.Name
	}
	m.zones.mu.RLock()
	for _, n := range m.zones.byName {
		z := n.Value
		cz := classicZone{
			Name:      z.Name,
			Min:       intsFromVec(z.Bounds.MinVertex()),
			Max:       intsFromVec(z.Bounds.MaxVertex()),
			Whitelist: z.Whitelist,
			Blacklist: z.Blacklist,
		}
		if z.MinRank != nil {
			cz.MinRank = z.MinRank.Name
		}
		meta.Zones = append(meta.Zones, cz)
	}
	m.zones.mu.RUnlock()
	sort.Slice(meta.Zones, func(i, j int) bool { return meta.Zones[i].Name < meta.Zones[j].Name })

	return &classicWorld{
		FormatVersion: 1,
		Name:          m.Name(),
		UUID:          id[:],
		X:             int16(m.width),
		Y:             int16(m.height),
		Z:             int16(m.length),
		Spawn: classicSpawn{
			X: int16(m.Spawn.X),
			Y: int16(m.Spawn.Z),
			Z: int16(m.Spawn.Y),
		},
		BlockArray: raw,
		Metadata:   classicMetadata{FCraft: meta},
	}
}

func vecFromInts(v []int32) Vector3I { return Vector3I{int(v[0]), int(v[1]), int(v[2])} }
func intsFromVec(v Vector3I) []int32 { return []int32{int32(v.X), int32(v.Y), int32(v.Z)} }

func flag(b bool) int8 {
	if b {
		return 1
	}
	return 0
}
