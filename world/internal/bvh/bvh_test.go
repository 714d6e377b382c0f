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

// Йоу, чат! Тестуємо BVH дерево для зон.

package bvh

import (
	"math/rand"
	"testing"
)

type box = Box[int]

func collect(tree *Tree[int, string], p Vec3[int]) map[string]bool {
	found := make(map[string]bool)
	tree.Find(ContainsPoint(p), func(n *Node[int, string]) bool {
		found[n.Value] = true
		return true
	})
	return found
}

func TestBox_Contains(t *testing.T) {
	b := box{Min: Vec3[int]{0, 0, 0}, Max: Vec3[int]{2, 2, 2}}
	if !b.Contains(Vec3[int]{2, 2, 2}) {
		t.Error("max corner should be included")
	}
	if b.Contains(Vec3[int]{3, 0, 0}) {
		t.Error("(3,0,0) is outside")
	}
	if b.Volume() != 27 {
		t.Errorf("volume = %d, want 27", b.Volume())
	}
}

func TestTree_Find(t *testing.T) {
	var tree Tree[int, string]
	tree.Insert(box{Min: Vec3[int]{0, 0, 0}, Max: Vec3[int]{9, 9, 9}}, "spawn")
	tree.Insert(box{Min: Vec3[int]{5, 5, 5}, Max: Vec3[int]{20, 20, 20}}, "castle")
	tree.Insert(box{Min: Vec3[int]{100, 0, 0}, Max: Vec3[int]{110, 5, 5}}, "far")

	got := collect(&tree, Vec3[int]{6, 6, 6})
	if !got["spawn"] || !got["castle"] || got["far"] {
		t.Errorf("unexpected zones at (6,6,6): %v", got)
	}
	if got := collect(&tree, Vec3[int]{50, 50, 50}); len(got) != 0 {
		t.Errorf("expected nothing at (50,50,50), got %v", got)
	}
}

func TestTree_Delete(t *testing.T) {
	var tree Tree[int, string]
	nodes := make([]*Node[int, string], 0, 64)
	for i := range 64 {
		x := rand.Intn(200)
		b := box{Min: Vec3[int]{x, 0, 0}, Max: Vec3[int]{x + 3, 3, 3}}
		nodes = append(nodes, tree.Insert(b, string(rune('A'+i%26))))
	}
	for i, n := range nodes {
		tree.Delete(n)
		if tree.Len() != len(nodes)-i-1 {
			t.Fatalf("len = %d after %d deletes", tree.Len(), i+1)
		}
	}
	if got := collect(&tree, Vec3[int]{1, 1, 1}); len(got) != 0 {
		t.Errorf("empty tree returned %v", got)
	}
}
