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

// Йоу, чат! Тут живуть текстові команди сервера.
// Кожна команда - це Descriptor: назва, права, підказка і обробник.
// Registry знаходить команду за назвою або псевдонімом, перевіряє права
// і викликає обробник. Все це виконується в головному контексті
// планувальника, тому обробникам не треба думати про гонки між собою.

package command

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"fcraft/blockdb"
	"fcraft/scheduler"
	"fcraft/world"
)

// Handler виконує команду. Помилка означає внутрішній збій,
// все що стосується гравця повідомляється йому напряму.
type Handler func(c *Context) error

// Descriptor описує одну команду
type Descriptor struct {
	Name        string
	Aliases     []string
	Permissions []world.Permission
	Usage       string
	Help        string
	Handler     Handler
}

// PlayerFinder шукає гравців, яких сервер вже бачив
type PlayerFinder interface {
	FindPlayer(name string) *world.PlayerInfo
}

// BackupLoader завантажує бекап карти для /restore
type BackupLoader interface {
	LoadBackup(logger *zap.Logger, name string) (*world.Map, error)
}

// Env - все, що потрібно командам від сервера
type Env struct {
	Log       *zap.Logger
	Scheduler *scheduler.Scheduler
	BlockDB   *blockdb.DB
	Backups   BackupLoader
	Players   PlayerFinder
	Registry  *Registry
}

// Context - один виклик команди
type Context struct {
	*Env
	Player *world.Player
	Args   *Reader
	desc   *Descriptor
}

// Map повертає карту гравця або nil з повідомленням
func (c *Context) Map() *world.Map {
	m := c.Player.World()
	if m == nil {
		c.Player.Warn("You are not on any map.")
	}
	return m
}

// Usage надсилає підказку по команді
func (c *Context) Usage() {
	c.Player.Warn("Usage: /%s %s", c.desc.Name, c.desc.Usage)
}

// Registry - всі відомі команди
type Registry struct {
	list   []*Descriptor
	byName map[string]*Descriptor
}

// NewRegistry створює реєстр зі стандартними командами
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]*Descriptor)}
	registerBuilding(r)
	registerDrawing(r)
	registerUndo(r)
	r.Register(&Descriptor{
		Name:    "help",
		Usage:   "[command]",
		Help:    "Lists commands or shows help for one command.",
		Handler: help,
	})
	return r
}

// Register додає команду. Дубль назви - помилка програміста.
func (r *Registry) Register(d *Descriptor) {
	for _, name := range append([]string{d.Name}, d.Aliases...) {
		key := strings.ToLower(name)
		if _, ok := r.byName[key]; ok {
			panic(fmt.Sprintf("command %q registered twice", name))
		}
		r.byName[key] = d
	}
	r.list = append(r.list, d)
}

// Find шукає команду за назвою або псевдонімом
func (r *Registry) Find(name string) *Descriptor {
	return r.byName[strings.ToLower(name)]
}

// All повертає команди в порядку реєстрації
func (r *Registry) All() []*Descriptor { return r.list }

// Dispatch розбирає рядок "/назва аргументи" і виконує команду
func (r *Registry) Dispatch(env *Env, p *world.Player, line string) {
	line = strings.TrimSpace(line)
	name, rest, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")
	d := r.Find(name)
	if d == nil {
		p.Warn("Unknown command %q. Type /help for the list.", name)
		return
	}
	if !p.Can(d.Permissions...) {
		p.Warn("You are not allowed to use /%s.", d.Name)
		return
	}
	commandsRun.WithLabelValues(d.Name).Inc()
	c := &Context{Env: env, Player: p, Args: NewReader(rest), desc: d}
	if err := d.Handler(c); err != nil {
		env.Log.Error("Command error",
			zap.String("command", d.Name),
			zap.String("player", p.Name()),
			zap.Error(err),
		)
		p.Warn("/%s failed, see the server log.", d.Name)
	}
}

func help(c *Context) error {
	if name, ok := c.Args.Next(); ok {
		d := c.Registry.Find(name)
		if d == nil {
			c.Player.Warn("Unknown command %q.", name)
			return nil
		}
		c.Player.Message("/%s %s", d.Name, d.Usage)
		c.Player.Message("%s", d.Help)
		return nil
	}
	var names []string
	for _, d := range c.Registry.All() {
		if c.Player.Can(d.Permissions...) {
			names = append(names, d.Name)
		}
	}
	slices.Sort(names)
	c.Player.Message("Commands: %s", strings.Join(names, ", "))
	return nil
}
