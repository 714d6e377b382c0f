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

// Йоу, чат! Команди відкату.
// /undo і /redo працюють зі стеками гравця. /undoplayer і /undoarea шукають
// зміни в BlockDB: пошук іде у фоновій задачі, а результат повертається
// в головний контекст, де гравця питають "точно?" і чекають на /ok.
// Свої зміни можна відкотити завжди, чужі - якщо ранг дозволяє відкочувати
// зміни гравців такого рангу, а "всіх" або "всіх, крім" - тільки з undo-all.

package command

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fcraft/blockdb"
	"fcraft/draw"
	"fcraft/world"
)

// lookupTimeout - скільки максимум може тривати пошук в BlockDB
const lookupTimeout = time.Minute

func registerUndo(r *Registry) {
	r.Register(&Descriptor{
		Name:    "undo",
		Aliases: []string{"u"},
		Help:    "Undoes your last draw command. A command that is still drawing gets cancelled first.",
		Handler: undo,
	})
	r.Register(&Descriptor{
		Name:    "redo",
		Help:    "Redoes the last thing you undid.",
		Handler: redo,
	})
	r.Register(&Descriptor{
		Name:    "undoplayer",
		Aliases: []string{"up"},
		Usage:   "<player[,player...] | * | -player[,player...]> <count | age>",
		Help:    "Undoes changes made by players on this map. * means everyone, a leading - means everyone except. Age looks like 30m, 2h or 3d.",
		Handler: undoPlayer,
	})
	r.Register(&Descriptor{
		Name:    "undoarea",
		Aliases: []string{"ua"},
		Usage:   "<player[,player...] | * | -player[,player...]> <count | age>",
		Help:    "Like /undoplayer, but only inside a box.",
		Handler: undoArea,
	})
}

func undo(c *Context) error {
	p := c.Player
	state := p.PeekUndo()
	if state == nil {
		p.Message("There is currently nothing to undo.")
		return nil
	}
	if state.IsTooLargeToUndo() {
		undoRefused.Inc()
		p.Warn("Cannot undo %s: too many blocks were changed (over %d).", state.Description(), p.MaxUndoCount())
		return nil
	}
	op, ok := state.Op.(*draw.Operation)
	if !ok {
		undoState(c.Env, p, state)
		return nil
	}
	if op.IsCancelled() && !op.IsDone() {
		p.Message("%s is already being cancelled.", op.Description())
		return nil
	}
	cancelRunning(p, op)
	// останній блок скасованої порції теж має потрапити у відкат
	op.AfterDone(func(*draw.Operation) { undoState(c.Env, p, state) })
	return nil
}

// undoState відкочує саме state, якщо він ще лежить у стеку гравця
func undoState(env *Env, p *world.Player, state *world.UndoState) {
	if !p.TakeUndo(state) {
		if state.IsTooLargeToUndo() {
			undoRefused.Inc()
			p.Warn("Cannot undo %s: too many blocks were changed (over %d).", state.Description(), p.MaxUndoCount())
			return
		}
		p.Message("Nothing to undo: %s changed no blocks.", state.Description())
		return
	}
	replay(env, draw.NewUndo(env.Log.Named("draw"), p, state, false))
}

func redo(c *Context) error {
	p := c.Player
	state := p.PeekRedo()
	if state == nil {
		p.Message("There is currently nothing to redo.")
		return nil
	}
	if state.IsTooLargeToUndo() {
		undoRefused.Inc()
		p.Warn("Cannot redo %s: too many blocks were changed (over %d).", state.Description(), p.MaxUndoCount())
		return nil
	}
	// у redo стани потрапляють тільки після завершення відкату
	if state = p.PopRedo(); state == nil {
		return nil
	}
	replay(c.Env, draw.NewUndo(c.Log.Named("draw"), p, state, true))
	return nil
}

// cancelRunning зупиняє операцію, яка ще малює
func cancelRunning(p *world.Player, op *draw.Operation) {
	if op.IsDone() {
		return
	}
	op.Cancel()
	p.Message("Cancelled %s (was %d%% done).", op.Description(), op.PercentDone())
}

func replay(env *Env, op *draw.Operation) {
	op.SetGC(env.Scheduler)
	if op.Prepare(nil) {
		op.Begin()
	}
}

// undoTargets - чиї зміни відкочуємо
type undoTargets struct {
	players  []*world.PlayerInfo
	everyone bool // "*" або "-гравці"
	except   bool
}

func parseTargets(c *Context, arg string) (t undoTargets, ok bool) {
	if arg == "*" {
		return undoTargets{everyone: true}, true
	}
	if rest, found := strings.CutPrefix(arg, "-"); found {
		t.everyone, t.except = true, true
		arg = rest
	}
	for _, name := range strings.Split(arg, ",") {
		if name == "" {
			continue
		}
		info := c.Players.FindPlayer(name)
		if info == nil {
			c.Player.Warn("No player found named %q.", name)
			return undoTargets{}, false
		}
		t.players = append(t.players, info)
	}
	if len(t.players) == 0 && !t.everyone {
		c.Usage()
		return undoTargets{}, false
	}
	return t, true
}

func (t undoTargets) String() string {
	names := make([]string, len(t.players))
	for i, p := range t.players {
		names[i] = p.Name
	}
	switch {
	case t.except:
		return "everyone except " + strings.Join(names, ", ")
	case t.everyone:
		return "everyone"
	}
	return strings.Join(names, ", ")
}

// onlySelf - чи відкочує гравець тільки власні зміни
func (t undoTargets) onlySelf(p *world.Player) bool {
	return !t.everyone && len(t.players) == 1 && t.players[0].ID == p.Info.ID
}

func (t undoTargets) authorize(p *world.Player) bool {
	if t.everyone {
		if !p.Can(world.PermUndoAll) {
			p.Warn("You are not allowed to undo everyone's changes.")
			return false
		}
		return true
	}
	for _, target := range t.players {
		if target.ID == p.Info.ID {
			continue
		}
		if !p.CanOn(world.PermUndoOthersActions, target) {
			p.Warn("You are not allowed to undo changes made by %s.", target.Name)
			return false
		}
	}
	return true
}

func (t undoTargets) query() blockdb.Query {
	q := blockdb.Query{Except: t.except}
	if t.everyone && !t.except {
		return q
	}
	q.Players = make([]uuid.UUID, len(t.players))
	for i, p := range t.players {
		q.Players[i] = p.ID
	}
	return q
}

// parseLimit розбирає кількість змін або вік ("30m", "2h", "3d", "1w")
func parseLimit(s string) (count int, age time.Duration, ok bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, 0, n > 0
	}
	unit := time.Duration(0)
	switch {
	case strings.HasSuffix(s, "d"):
		unit = 24 * time.Hour
	case strings.HasSuffix(s, "w"):
		unit = 7 * 24 * time.Hour
	}
	if unit > 0 {
		n, err := strconv.Atoi(s[:len(s)-1])
		if err != nil || n <= 0 {
			return 0, 0, false
		}
		return 0, time.Duration(n) * unit, true
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, 0, false
	}
	return 0, d, true
}

// blockDBRequest - розібраний /undoplayer або /undoarea
type blockDBRequest struct {
	name    string
	targets undoTargets
	query   blockdb.Query
}

func parseBlockDBRequest(c *Context, name string) (req blockDBRequest, ok bool) {
	targetArg, hasTargets := c.Args.Next()
	limitArg, hasLimit := c.Args.Next()
	if !hasTargets || !hasLimit || c.Args.HasNext() {
		c.Usage()
		return req, false
	}
	m := c.Map()
	if m == nil {
		return req, false
	}
	if !c.BlockDB.Enabled() {
		c.Player.Warn("%s: BlockDB is disabled on this server.", name)
		return req, false
	}
	if !m.BlockDBEnabled() {
		c.Player.Warn("%s: BlockDB is disabled on this map.", name)
		return req, false
	}
	targets, ok := parseTargets(c, targetArg)
	if !ok || !targets.authorize(c.Player) {
		return req, false
	}
	count, age, ok := parseLimit(limitArg)
	if !ok {
		c.Player.Warn("%s: %q is neither a block count nor an age like 30m or 2d.", name, limitArg)
		return req, false
	}
	req = blockDBRequest{name: name, targets: targets, query: targets.query()}
	req.query.Limit = count
	if age > 0 {
		req.query.Since = time.Now().Add(-age)
	}
	return req, true
}

func undoPlayer(c *Context) error {
	req, ok := parseBlockDBRequest(c, "UndoPlayer")
	if !ok {
		return nil
	}
	lookupAndConfirm(c.Env, c.Player, c.Player.World(), req)
	return nil
}

func undoArea(c *Context) error {
	req, ok := parseBlockDBRequest(c, "UndoArea")
	if !ok {
		return nil
	}
	env := c.Env
	c.Player.SelectionStart(2, func(p *world.Player, marks []world.Vector3I, _ any) {
		area := world.NewBoundingBox(marks[0], marks[1])
		req.query.Area = &area
		lookupAndConfirm(env, p, p.World(), req)
	}, nil)
	c.Player.Message("UndoArea: place 2 marks to pick the area.")
	return nil
}

// lookupAndConfirm шукає зміни у фоні, а в головному контексті питає /ok
func lookupAndConfirm(env *Env, p *world.Player, m *world.Map, req blockDBRequest) {
	if m == nil {
		return
	}
	log := env.Log.With(zap.String("player", p.Name()), zap.String("command", req.name))
	p.Message("%s: searching for changes by %s...", req.name, req.targets)

	env.Scheduler.NewBackgroundTask(func(any) {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()
		entries, err := env.BlockDB.Lookup(ctx, m.Name(), req.query)
		env.Scheduler.Post(func() {
			if err != nil {
				log.Error("BlockDB lookup error", zap.Error(err))
				p.Warn("%s: BlockDB lookup failed.", req.name)
				return
			}
			if len(entries) == 0 {
				p.Message("%s: no changes found.", req.name)
				return
			}
			changes := blockdb.OldBlocks(entries)
			bctx := world.ContextUndoneOther
			if req.targets.onlySelf(p) {
				bctx = world.ContextUndoneSelf
			}
			p.Confirm(func() {
				replay(env, draw.NewBlockDBUndo(env.Log.Named("draw"), p, m, req.name, changes, bctx))
			}, "%s: found %d changes (%d blocks) by %s.", req.name, len(entries), len(changes), req.targets)
		})
	}).RunOnce(nil, 0)
}
