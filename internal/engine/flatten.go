package engine

import (
	"sort"
	"strings"
)

// PathDepth is the fixed number of ancestor-path slots on a flattened row.
// The upstream hierarchy query nests children to this depth; levels below it
// are not tracked.
const PathDepth = 7

// Node is one node of a parent/children hierarchy. Record carries the
// dataset's own record through to the caller's row formatting.
type Node struct {
	ID       string
	Title    string
	Archived bool
	Children []*Node
	Record   any
}

// Flat is one emitted node with its full ancestor path. Path slots at or
// beyond Depth are empty strings.
type Flat struct {
	Node  *Node
	Path  [PathDepth]string
	Depth int
}

// Flatten walks each root depth-first and emits one Flat per surviving node.
//
// A visited node is always emitted, whatever its own archive state; filtering
// applies to subtree inclusion only. A child is recursed into iff its archive
// state matches view, and the rule reapplies at every level, so a node of the
// wrong state cuts off its whole subtree even when deeper descendants would
// match. Children are visited in ascending lexical title order.
//
// Nodes with an empty id are skipped along with their subtree and reported in
// the returned diagnostics.
func Flatten(roots []*Node, view View) ([]Flat, []Skip) {
	var (
		rows  []Flat
		skips []Skip
	)
	var path [PathDepth]string
	for _, root := range roots {
		rows, skips = walk(root, 0, path, view, rows, skips)
	}
	return rows, skips
}

func walk(node *Node, depth int, path [PathDepth]string, view View, rows []Flat, skips []Skip) ([]Flat, []Skip) {
	if node == nil {
		skips = append(skips, Skip{Reason: "nil node"})
		return rows, skips
	}
	if node.ID == "" {
		skips = append(skips, Skip{Reason: "missing id"})
		return rows, skips
	}
	if depth < PathDepth {
		path[depth] = strings.TrimSpace(node.Title)
	}
	rows = append(rows, Flat{Node: node, Path: path, Depth: depth})

	kept := make([]*Node, 0, len(node.Children))
	for _, child := range node.Children {
		if child == nil {
			skips = append(skips, Skip{Reason: "nil node"})
			continue
		}
		if child.Archived == (view == ViewArchived) {
			kept = append(kept, child)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Title < kept[j].Title })
	for _, child := range kept {
		rows, skips = walk(child, depth+1, path, view, rows, skips)
	}
	return rows, skips
}
