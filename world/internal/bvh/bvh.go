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

// Йоу, чат! Сьогодні ми розберемо BVH дерево для зон!
// BVH (Bounding Volume Hierarchy) - це дерево, де кожен вузол містить
// коробку, яка повністю покриває коробки всіх його нащадків.
// Коли гравець ставить блок, нам треба швидко знайти всі зони,
// в які потрапляє цей блок, і не перебирати їх усі по черзі.

package bvh

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Node - вузол дерева. Значення зберігається тільки в листах.
type Node[I constraints.Integer, V any] struct {
	Box      Box[I]
	Value    V
	parent   *Node[I, V]
	children [2]*Node[I, V]
	isLeaf   bool
}

// sibling повертає іншу дитину батька
func (n *Node[I, V]) sibling() *Node[I, V] {
	p := n.parent
	if p.children[0] == n {
		return p.children[1]
	} else if p.children[1] == n {
		return p.children[0]
	}
	panic("bvh: node is not a child of its parent")
}

// Tree - BVH дерево цілочисельних коробок
type Tree[I constraints.Integer, V any] struct {
	root *Node[I, V]
	size int
}

// Len повертає кількість листів
func (t *Tree[I, V]) Len() int { return t.size }

// Insert додає новий лист.
// Спускаємось від кореня, щоразу обираючи дитину, об'єм якої
// зросте найменше, і ділимо знайдений лист на два.
func (t *Tree[I, V]) Insert(box Box[I], value V) *Node[I, V] {
	leaf := &Node[I, V]{Box: box, Value: value, isLeaf: true}
	t.size++
	if t.root == nil {
		t.root = leaf
		return leaf
	}

	target := t.root
	for !target.isLeaf {
		a, b := target.children[0], target.children[1]
		growA := a.Box.Union(box).Volume() - a.Box.Volume()
		growB := b.Box.Union(box).Volume() - b.Box.Volume()
		if growA <= growB {
			target = a
		} else {
			target = b
		}
	}

	parent := &Node[I, V]{
		Box:      target.Box.Union(box),
		parent:   target.parent,
		children: [2]*Node[I, V]{target, leaf},
	}
	if target.parent == nil {
		t.root = parent
	} else if target.parent.children[0] == target {
		target.parent.children[0] = parent
	} else {
		target.parent.children[1] = parent
	}
	target.parent = parent
	leaf.parent = parent
	refit(parent.parent)
	return leaf
}

// Delete видаляє лист з дерева і повертає його значення
func (t *Tree[I, V]) Delete(n *Node[I, V]) V {
	if !n.isLeaf {
		panic("bvh: delete of an inner node")
	}
	t.size--
	if n.parent == nil {
		t.root = nil
		return n.Value
	}
	sibling := n.sibling()
	grand := n.parent.parent
	sibling.parent = grand
	if grand == nil {
		t.root = sibling
	} else {
		if grand.children[0] == n.parent {
			grand.children[0] = sibling
		} else {
			grand.children[1] = sibling
		}
		refit(grand)
	}
	n.parent = nil
	return n.Value
}

// refit оновлює коробки від вузла n до кореня
func refit[I constraints.Integer, V any](n *Node[I, V]) {
	for ; n != nil; n = n.parent {
		n.Box = n.children[0].Box.Union(n.children[1].Box)
	}
}

// Find викликає foreach для кожного листа, коробка якого проходить test.
// Якщо foreach повертає false - пошук зупиняється.
func (t *Tree[I, V]) Find(test func(Box[I]) bool, foreach func(n *Node[I, V]) bool) {
	t.root.each(test, foreach)
}

func (n *Node[I, V]) each(test func(Box[I]) bool, foreach func(n *Node[I, V]) bool) bool {
	if n == nil || !test(n.Box) {
		return true
	}
	if n.isLeaf {
		return foreach(n)
	}
	return n.children[0].each(test, foreach) && n.children[1].each(test, foreach)
}

// ContainsPoint - умова пошуку коробок, що містять точку
func ContainsPoint[I constraints.Integer](p Vec3[I]) func(Box[I]) bool {
	return func(b Box[I]) bool { return b.Contains(p) }
}

// TouchBox - умова пошуку коробок, що перетинаються з іншою
func TouchBox[I constraints.Integer](other Box[I]) func(Box[I]) bool {
	return func(b Box[I]) bool { return b.Touch(other) }
}

func (t Tree[I, V]) String() string { return t.root.String() }

func (n *Node[I, V]) String() string {
	if n == nil {
		return "{}"
	}
	if n.isLeaf {
		return fmt.Sprint(n.Value)
	}
	return fmt.Sprintf("{%v, %v}", n.children[0], n.children[1])
}
