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

// Йоу, чат! Зараз розберемо конфігурацію нашого сервера!
// Тут зберігаються всі налаштування які можна змінити в config.toml.
// Все, чого немає у файлі, береться з DefaultConfig.

package game

import (
	// time потрібен для роботи з часом
	"time"

	// rate використовуємо для обмеження навантаження
	"golang.org/x/time/rate"

	"fcraft/world"
)

// Config - головна структура з налаштуваннями сервера
// Поля з тегом `toml` читаються з конфіг файлу
type Config struct {
	// IP адреса і порт для текстових консолей, порожньо = вимкнено
	// Наприклад "0.0.0.0:25566"
	ListenAddress string `toml:"listen-address"`
	// Адреса для /metrics, порожньо = вимкнено
	MetricsAddress string `toml:"metrics-address"`
	// Максимальна кількість гравців на сервері
	MaxPlayers int `toml:"max-players"`
	// MOTD (Message Of The Day) - повідомлення, яке бачить гравець при вході
	MessageOfTheDay string `toml:"motd"`

	// Файл головної карти і директорія бекапів
	MapFile   string `toml:"map-file"`
	BackupDir string `toml:"backup-dir"`
	// Розмір нової карти, якщо файлу ще немає: ширина, довжина, висота
	MapSize [3]int `toml:"map-size"`
	// Як часто зберігати карту
	SaveInterval duration `toml:"save-interval"`

	// Скільки блоків пам'ятає один відкат і скільки відкатів у стеку
	MaxUndo       int `toml:"max-undo"`
	MaxUndoStates int `toml:"max-undo-states"`

	// Швидкість малювання: блоків за тік і лімітер тіків
	DrawBlocksPerTick int     `toml:"draw-blocks-per-tick"`
	DrawLimiter       Limiter `toml:"draw-limiter"`

	BlockDB BlockDBConfig `toml:"blockdb"`

	// Ранги від молодшого до старшого. Порожньо = стандартні.
	Ranks []world.RankDefinition `toml:"ranks"`
	// Ранг нових гравців і ранг консолі сервера
	DefaultRank string `toml:"default-rank"`
	ConsoleRank string `toml:"console-rank"`
	// Ранги відомих гравців: ім'я -> ранг
	PlayerRanks map[string]string `toml:"player-ranks"`
}

// BlockDBConfig - налаштування журналу змін блоків
type BlockDBConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
	// InMemory тримає журнал тільки в пам'яті, після рестарту він порожній
	InMemory      bool     `toml:"in-memory"`
	FlushInterval duration `toml:"flush-interval"`
}

// DefaultConfig повертає налаштування за замовчуванням
func DefaultConfig() Config {
	return Config{
		MaxPlayers:        64,
		MessageOfTheDay:   "Welcome to fCraft!",
		MapFile:           "maps/main.cw",
		BackupDir:         "maps/backups",
		MapSize:           [3]int{128, 128, 64},
		SaveInterval:      duration{5 * time.Minute},
		MaxUndo:           world.DefaultMaxUndoCount,
		MaxUndoStates:     world.DefaultMaxUndoStates,
		DrawBlocksPerTick: world.DefaultBlocksPerTick,
		BlockDB: BlockDBConfig{
			Enabled:       true,
			Path:          "blockdb",
			FlushInterval: duration{time.Second},
		},
		DefaultRank: "guest",
		ConsoleRank: "owner",
	}
}

// PlayerConfig - ліміти відкату для кожного гравця
func (c *Config) PlayerConfig() world.PlayerConfig {
	return world.PlayerConfig{MaxUndoCount: c.MaxUndo, MaxUndoStates: c.MaxUndoStates}
}

// Limiter - структура для обмеження частоти дій
// Наприклад: не більше 10 тіків малювання кожну секунду
type Limiter struct {
	// Як часто можна виконувати дію
	// Наприклад "100ms" = кожні 100 мілісекунд
	Every duration `toml:"every"`

	// Скільки разів можна виконати дію за раз
	N int `toml:"n"`
}

// Limiter перетворює наші налаштування в готовий rate.Limiter
// Якщо лімітер не налаштовано, повертає nil
func (l *Limiter) Limiter() *rate.Limiter {
	if l.Every.Duration <= 0 || l.N <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(l.Every.Duration), l.N)
}

// duration - обгортка навколо time.Duration
// Потрібна щоб читати тривалість з конфіг файлу
type duration struct {
	time.Duration
}

// UnmarshalText перетворює текст з конфігу в time.Duration
// Наприклад "5s" -> 5 секунд
func (d *duration) UnmarshalText(text []byte) (err error) {
	d.Duration, err = time.ParseDuration(string(text))
	return
}
