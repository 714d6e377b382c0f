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

package command

import (
	"strings"

	"fcraft/draw"
	"fcraft/world"
)

// shapeCommand - команда, яка малює фігуру пензлем
type shapeCommand struct {
	name    string
	aliases []string
	perm    world.Permission
	shape   func() draw.Shape
	help    string
}

var shapeCommands = []shapeCommand{
	{"cuboid", []string{"z", "cub"}, world.PermDraw, func() draw.Shape { return draw.NewCuboid(draw.CuboidSolid) }, "Fills a box between two marks."},
	{"cuboidh", []string{"zh", "cubh"}, world.PermDraw, func() draw.Shape { return draw.NewCuboid(draw.CuboidHollow) }, "Draws the walls, floor and ceiling of a box."},
	{"cuboidw", []string{"zw", "cubw"}, world.PermDraw, func() draw.Shape { return draw.NewCuboid(draw.CuboidWireframe) }, "Draws the edges of a box."},
	{"line", []string{"ln"}, world.PermDraw, func() draw.Shape { return &draw.Line{} }, "Draws a line between two marks."},
	{"sphere", []string{"sp"}, world.PermDrawAdvanced, func() draw.Shape { return &draw.Sphere{} }, "Center mark, then a mark on the surface."},
	{"sphereh", []string{"sph"}, world.PermDrawAdvanced, func() draw.Shape { return &draw.Sphere{Hollow: true} }, "Like sphere, but only the shell."},
	{"ellipsoid", []string{"e"}, world.PermDrawAdvanced, func() draw.Shape { return &draw.Ellipsoid{} }, "Fits an ellipsoid into a box."},
	{"ellipsoidh", []string{"eh"}, world.PermDrawAdvanced, func() draw.Shape { return &draw.Ellipsoid{Hollow: true} }, "Like ellipsoid, but only the shell."},
	{"triangle", []string{"tri"}, world.PermDrawAdvanced, func() draw.Shape { return &draw.Triangle{} }, "Fills a triangle between three marks."},
	{"trianglew", []string{"triw"}, world.PermDrawAdvanced, func() draw.Shape { return &draw.Triangle{Wireframe: true} }, "Draws the edges of a triangle."},
	{"torus", []string{"donut"}, world.PermDrawAdvanced, func() draw.Shape { return &draw.Torus{} }, "Center mark, then a mark on the ring. Vertical offset sets the tube radius."},
}

func registerDrawing(r *Registry) {
	for _, sc := range shapeCommands {
		r.Register(&Descriptor{
			Name:        sc.name,
			Aliases:     sc.aliases,
			Permissions: []world.Permission{sc.perm},
			Usage:       "<block | brush [args]>",
			Help:        sc.help,
			Handler: func(c *Context) error {
				brush := parseBrush(c)
				if brush == nil {
					return nil
				}
				startDraw(c, sc.shape, brush, world.ContextDrawn, sc.perm)
				return nil
			},
		})
	}
	r.Register(&Descriptor{
		Name:        "fill2d",
		Aliases:     []string{"f2d"},
		Permissions: []world.Permission{world.PermDraw},
		Usage:       "<block> [xy|xz|yz]",
		Help:        "Flood fills the area of identical blocks in one plane.",
		Handler:     fill2D,
	})
	r.Register(&Descriptor{
		Name:        "replace",
		Aliases:     []string{"r"},
		Permissions: []world.Permission{world.PermDraw},
		Usage:       "<block>... <replacement>",
		Help:        "Replaces listed blocks inside a box.",
		Handler:     replaceCommand("Replace", replaceBrush),
	})
	r.Register(&Descriptor{
		Name:        "replacenot",
		Aliases:     []string{"rn"},
		Permissions: []world.Permission{world.PermDraw},
		Usage:       "<block>... <replacement>",
		Help:        "Replaces everything except listed blocks inside a box.",
		Handler:     replaceCommand("ReplaceNot", replaceNotBrush),
	})
	r.Register(&Descriptor{
		Name:        "replacebrush",
		Aliases:     []string{"rb"},
		Permissions: []world.Permission{world.PermDraw},
		Usage:       "<block>... <brush> [brush args]",
		Help:        "Replaces listed blocks inside a box with whatever another brush gives.",
		Handler:     replaceCommand("ReplaceBrush", replaceBrushBrush),
	})
}

// startDraw просить мітки і запускає операцію, коли їх достатньо.
// У повторному режимі кожне завершене виділення малює нову фігуру.
func startDraw(c *Context, shape func() draw.Shape, brush draw.Brush, ctx world.BlockChangeContext, perms ...world.Permission) {
	first := shape()
	env := c.Env
	c.Player.SelectionStart(first.ExpectedMarks(), func(p *world.Player, marks []world.Vector3I, _ any) {
		runDraw(env, p, shape(), brush, ctx, marks)
	}, nil, perms...)
	c.Player.Message("%s: place %d marks or use /mark. Brush: %s.", first.Name(), first.ExpectedMarks(), brush.Description())
}

func runDraw(env *Env, p *world.Player, shape draw.Shape, brush draw.Brush, ctx world.BlockChangeContext, marks []world.Vector3I) *draw.Operation {
	m := p.World()
	if m == nil {
		p.Warn("You are not on any map.")
		return nil
	}
	op := draw.New(env.Log.Named("draw"), p, m, shape, ctx)
	op.Brush = brush
	op.SetGC(env.Scheduler)
	if !op.Prepare(marks) {
		return nil
	}
	op.Begin()
	return op
}

func replaceCommand(name string, factory brushFactory) Handler {
	return func(c *Context) error {
		brush := factory(c)
		if brush == nil {
			return nil
		}
		startDraw(c, func() draw.Shape { return draw.NewReplaceShape(name) }, brush, world.ContextReplaced, world.PermDraw)
		return nil
	}
}

func fill2D(c *Context) error {
	id, err := c.Args.NextBlock()
	if err != nil {
		c.Usage()
		return nil
	}
	plane := draw.FillXY
	if s, ok := c.Args.Next(); ok {
		switch strings.ToLower(s) {
		case "xy", "h", "horizontal":
		case "xz":
			plane = draw.FillXZ
		case "yz":
			plane = draw.FillYZ
		default:
			c.Usage()
			return nil
		}
	}
	brush := draw.NormalBrush{Block: id}
	startDraw(c, func() draw.Shape { return &draw.Fill2D{Plane: plane} }, brush, world.ContextFilled, world.PermDraw)
	return nil
}
