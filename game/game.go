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

// Йоу, чат! Це серце сервера. Game збирає все докупи:
// ранги, карту, BlockDB, команди і список гравців.
// Кожен рядок від гравця потрапляє в головний контекст планувальника,
// тому команди виконуються по черзі і не заважають одна одній.

package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Tnze/go-mc/chat"

	"fcraft/blockdb"
	"fcraft/client"
	"fcraft/command"
	"fcraft/scheduler"
	"fcraft/world"
)

// maxNameLength - найдовше ім'я гравця
const maxNameLength = 16

var (
	errUnknownRank = errors.New("unknown rank")
	errBadName     = errors.New("bad player name")
)

type Game struct {
	log *zap.Logger

	config      Config
	ranks       *world.RankList
	defaultRank *world.Rank
	consoleRank *world.Rank

	provider *world.Provider
	mainMap  *world.Map

	sched *scheduler.Scheduler
	env   *command.Env

	globalChat globalChat
	*playerList
}

func NewGame(log *zap.Logger, config Config, sched *scheduler.Scheduler, db *blockdb.DB) (*Game, error) {
	defs := config.Ranks
	if len(defs) == 0 {
		defs = world.DefaultRanks()
	}
	ranks, err := world.NewRankList(defs)
	if err != nil {
		return nil, fmt.Errorf("load ranks fail: %w", err)
	}
	findRank := func(name string) (*world.Rank, error) {
		if r := ranks.Find(name); r != nil {
			return r, nil
		}
		return nil, fmt.Errorf("%q: %w", name, errUnknownRank)
	}
	defaultRank, err := findRank(config.DefaultRank)
	if err != nil {
		return nil, err
	}
	consoleRank, err := findRank(config.ConsoleRank)
	if err != nil {
		return nil, err
	}

	pl := newPlayerList(config.MaxPlayers)
	for name, rankName := range config.PlayerRanks {
		r, err := findRank(rankName)
		if err != nil {
			return nil, fmt.Errorf("player %s: %w", name, err)
		}
		pl.info(name, r)
	}

	provider := world.NewProvider(config.MapFile, config.BackupDir, ranks)
	m, err := loadMap(log, provider, &config)
	if err != nil {
		return nil, err
	}
	m.SetDrawThrottle(config.DrawBlocksPerTick, config.DrawLimiter.Limiter())
	db.Attach(m)

	return &Game{
		log: log.Named("game"),

		config:      config,
		ranks:       ranks,
		defaultRank: defaultRank,
		consoleRank: consoleRank,

		provider: provider,
		mainMap:  m,

		sched: sched,
		env: &command.Env{
			Log:       log.Named("command"),
			Scheduler: sched,
			BlockDB:   db,
			Backups:   provider,
			Players:   pl,
			Registry:  command.NewRegistry(),
		},

		globalChat: globalChat{
			log:     log.Named("chat"),
			players: pl,
		},
		playerList: pl,
	}, nil
}

// loadMap завантажує головну карту або генерує нову, якщо файлу немає
func loadMap(logger *zap.Logger, provider *world.Provider, config *Config) (*world.Map, error) {
	m, err := provider.Load(logger)
	if !errors.Is(err, world.ErrMapNotExist) {
		return m, err
	}
	dims := world.Vector3I{X: config.MapSize[0], Y: config.MapSize[1], Z: config.MapSize[2]}
	m, err = world.NewMap(logger, "main", dims)
	if err != nil {
		return nil, fmt.Errorf("create map fail: %w", err)
	}
	world.GenerateFlatgrass(m)
	if err := provider.Save(m); err != nil {
		return nil, err
	}
	logger.Info("Generated new map", zap.Stringer("map", m))
	return m, nil
}

// Map повертає головну карту
func (g *Game) Map() *world.Map { return g.mainMap }

// Run запускає тіки карти і автозбереження. Блокується до скасування ctx,
// а перед виходом зберігає карту.
func (g *Game) Run(ctx context.Context) {
	go g.mainMap.Run(ctx)
	interval := g.config.SaveInterval.Duration
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			g.Save()
			return
		case <-ticker.C:
			g.Save()
		}
	}
}

// Save зберігає карту, якщо вона змінилась
func (g *Game) Save() {
	if !g.mainMap.HasChangedSinceSave() {
		return
	}
	if err := g.provider.Save(g.mainMap); err != nil {
		g.log.Error("Save map fail", zap.Error(err))
		return
	}
	g.log.Debug("Map saved", zap.Stringer("map", g.mainMap))
}

// AcceptConsole підключає консоль сервера. Їй можна все.
func (g *Game) AcceptConsole(conn io.ReadWriteCloser, name string) {
	g.accept(conn, name, true)
}

// AcceptConn підключає TCP клієнта. Перший рядок - ім'я гравця.
func (g *Game) AcceptConn(conn net.Conn) {
	name, err := readName(conn)
	if err != nil {
		g.log.Debug("Read player name fail", zap.Stringer("addr", conn.RemoteAddr()), zap.Error(err))
		_, _ = fmt.Fprintf(conn, "Cannot join: %v\n", err)
		_ = conn.Close()
		return
	}
	g.accept(conn, name, false)
}

// Йоу, чат! А тепер розберемо як гравець заходить на сервер!
// accept блокується поки гравець не вийде
func (g *Game) accept(conn io.ReadWriteCloser, name string, console bool) {
	logger := g.log.With(zap.String("name", name), zap.Bool("console", console))

	rank := g.defaultRank
	if console {
		rank = g.consoleRank
	}
	info := g.playerList.info(name, rank)
	c := client.New(logger, conn, info, g.config.PlayerConfig(), g.handleLine)
	c.Colors = console
	p := c.GetPlayer()
	p.Super = console

	if err := g.playerList.addPlayer(c); err != nil {
		logger.Info("Player rejected", zap.Error(err))
		_, _ = fmt.Fprintf(conn, "Cannot join: %v\n", err)
		_ = conn.Close()
		return
	}
	defer g.playerList.removePlayer(c)

	logger.Info("Player join", zap.String("rank", info.Rank().Name), zap.String("uuid", info.ID.String()))
	defer logger.Info("Player left")

	p.JoinWorld(g.mainMap)
	p.Message("%s", g.config.MessageOfTheDay)

	joinMsg := chat.Text(name + " joined the game").SetColor(chat.Yellow)
	leftMsg := chat.Text(name + " left the game").SetColor(chat.Yellow)
	g.globalChat.broadcastSystemChat(joinMsg)
	defer g.globalChat.broadcastSystemChat(leftMsg)
	defer g.sched.Post(p.SelectionCancel)

	c.Start()
}

// handleLine передає рядок у головний контекст
func (g *Game) handleLine(c *client.Client, line string) {
	p := c.GetPlayer()
	g.sched.Post(func() {
		if strings.HasPrefix(line, "/") {
			g.env.Registry.Dispatch(g.env, p, line)
			return
		}
		g.globalChat.Handle(p, line)
	})
}

// readName читає перший рядок по байту, щоб не забрати в буфер наступні рядки
func readName(r io.Reader) (string, error) {
	var (
		buf [1]byte
		sb  strings.Builder
	)
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return "", err
		}
		if buf[0] == '\n' {
			break
		}
		if sb.Len() > maxNameLength {
			return "", errBadName
		}
		sb.WriteByte(buf[0])
	}
	name := strings.TrimSpace(sb.String())
	if !validName(name) {
		return "", fmt.Errorf("%q: %w", name, errBadName)
	}
	return name, nil
}

func validName(name string) bool {
	if name == "" || len(name) > maxNameLength {
		return false
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}
