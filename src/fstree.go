package src

import (
	"errors"
	"path"
	"strings"
)

// ErrStaleListing marks a listing response whose in-flight token no longer
// matches the node's expectation (the node was collapsed or re-toggled
// while the request was outstanding). Stale responses are discarded.
var ErrStaleListing = errors.New("stale listing response")

// FsNode mirrors one remote directory entry. Children stay nil until the
// first expansion; collapsing removes them again, so the expansion marker
// and the child list are always consistent and re-expanding re-fetches.
type FsNode struct {
	Name        string
	Path        string
	IsDir       bool
	Expanded    bool
	Children    []*FsNode
	Highlighted bool

	pending      uint64 // in-flight listing token, 0 when none
	highlightGen uint64
}

// PendingListing reports whether a listing request is outstanding.
func (n *FsNode) PendingListing() bool { return n.pending != 0 }

// ToggleOutcome is the result of toggling a directory node.
type ToggleOutcome int

const (
	ToggleNone ToggleOutcome = iota
	ToggleCollapsed
	TogglePending
)

// ListFunc fetches the entries of one remote directory.
type ListFunc func(path string) ([]FsEntry, error)

// Tree is the lazy client-side mirror of the remote filesystem. All
// mutation happens through explicit operations so the UI can bind to it
// without owning any of the state.
type Tree struct {
	rootPath    string
	roots       []*FsNode
	nextToken   uint64
	highlighted *FsNode
}

func NewTree(rootPath string) *Tree {
	return &Tree{rootPath: rootPath}
}

func (t *Tree) RootPath() string  { return t.rootPath }
func (t *Tree) Roots() []*FsNode  { return t.roots }
func (t *Tree) HasRoots() bool    { return t.roots != nil }
func (t *Tree) RootEntries() []FsEntry {
	entries := make([]FsEntry, 0, len(t.roots))
	for _, n := range t.roots {
		entries = append(entries, FsEntry{Name: n.Name, Path: n.Path, IsDir: n.IsDir})
	}
	return entries
}

// SetRoots replaces the top level of the mirror from a root listing.
func (t *Tree) SetRoots(entries []FsEntry) {
	t.roots = materialize(entries)
	t.highlighted = nil
}

func materialize(entries []FsEntry) []*FsNode {
	nodes := make([]*FsNode, 0, len(entries))
	for _, e := range entries {
		nodes = append(nodes, &FsNode{Name: e.Name, Path: e.Path, IsDir: e.IsDir})
	}
	return nodes
}

// VisibleNode pairs a node with its indentation depth for rendering.
type VisibleNode struct {
	Node  *FsNode
	Depth int
}

// Visible returns the nodes currently shown, depth-first in tree order.
func (t *Tree) Visible() []VisibleNode {
	var out []VisibleNode
	var walk func(nodes []*FsNode, depth int)
	walk = func(nodes []*FsNode, depth int) {
		for _, n := range nodes {
			out = append(out, VisibleNode{Node: n, Depth: depth})
			if n.Expanded {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(t.roots, 0)
	return out
}

// NodeAt finds a materialized node by exact path, including ones hidden
// under a collapsed ancestor's... there are none: collapsed nodes drop
// their children, so every materialized node is reachable.
func (t *Tree) NodeAt(target string) *FsNode {
	var found *FsNode
	t.each(func(n *FsNode) bool {
		if n.Path == target {
			found = n
			return false
		}
		return true
	})
	return found
}

func (t *Tree) each(fn func(*FsNode) bool) {
	var walk func(nodes []*FsNode) bool
	walk = func(nodes []*FsNode) bool {
		for _, n := range nodes {
			if !fn(n) {
				return false
			}
			if !walk(n.Children) {
				return false
			}
		}
		return true
	}
	walk(t.roots)
}

// Toggle collapses an expanded directory synchronously, or hands back an
// in-flight token for a node that needs its children fetched. Issuing a
// new token while one is outstanding supersedes the old request; its late
// response will be discarded by the token guard.
func (t *Tree) Toggle(n *FsNode) (ToggleOutcome, uint64) {
	if n == nil || !n.IsDir {
		return ToggleNone, 0
	}
	if n.Children != nil {
		n.Children = nil
		n.Expanded = false
		n.pending = 0
		return ToggleCollapsed, 0
	}
	t.nextToken++
	n.pending = t.nextToken
	return TogglePending, n.pending
}

// ApplyListing materializes fetched entries under n. The response is
// applied only when token still matches the node's expectation.
func (t *Tree) ApplyListing(n *FsNode, token uint64, entries []FsEntry) error {
	if n == nil || n.pending != token {
		return ErrStaleListing
	}
	n.pending = 0
	n.Children = materialize(entries)
	n.Expanded = true
	return nil
}

// FailListing reverts a failed expansion; the node stays collapsed.
func (t *Tree) FailListing(n *FsNode, token uint64) {
	if n != nil && n.pending == token {
		n.pending = 0
	}
}

// -----------------------------------------------------------------------------
// PATH RESOLUTION
// -----------------------------------------------------------------------------

// Matcher tiers, evaluated in sequence over all materialized nodes;
// the first satisfying node wins and no disambiguation follows.
var pathMatchers = []func(target string, n *FsNode) bool{
	func(target string, n *FsNode) bool {
		return n.Path == target
	},
	func(target string, n *FsNode) bool {
		return strings.HasSuffix(n.Path, target) || strings.HasSuffix(target, n.Path)
	},
	func(target string, n *FsNode) bool {
		base := path.Base(target)
		return n.Name == base || strings.Contains(n.Name, base) || strings.Contains(base, n.Name)
	},
}

// FindVisible resolves target against the materialized nodes, tier by tier.
func (t *Tree) FindVisible(target string) *FsNode {
	for _, match := range pathMatchers {
		var found *FsNode
		t.each(func(n *FsNode) bool {
			if match(target, n) {
				found = n
				return false
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// NextRevealAncestor walks target's ancestors from the most specific
// toward the root and returns the first materialized directory that still
// needs expanding. Nil means no expansion can bring target closer.
func (t *Tree) NextRevealAncestor(target string) *FsNode {
	for anc := parentPath(target); ; {
		if n := t.NodeAt(anc); n != nil && n.IsDir && !n.Expanded && n.pending == 0 {
			return n
		}
		up := parentPath(anc)
		if up == anc {
			return nil
		}
		anc = up
	}
}

func parentPath(p string) string {
	return path.Dir(strings.TrimSuffix(p, "/"))
}

// EnsurePathVisible resolves target, expanding the minimal chain of
// materialized ancestors via list when no tier matches yet. Each pass
// re-runs resolution, so an expansion that reveals the next ancestor is
// followed up until the target is found or nothing expandable remains.
// Highlighting is the caller's move; the returned node is just located.
func (t *Tree) EnsurePathVisible(target string, list ListFunc) *FsNode {
	maxSteps := strings.Count(target, "/") + 2
	for i := 0; i < maxSteps; i++ {
		if n := t.FindVisible(target); n != nil {
			return n
		}
		anc := t.NextRevealAncestor(target)
		if anc == nil {
			return nil
		}
		_, token := t.Toggle(anc)
		entries, err := list(anc.Path)
		if err != nil {
			t.FailListing(anc, token)
			return nil
		}
		if err := t.ApplyListing(anc, token, entries); err != nil {
			return nil
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// HIGHLIGHTING
// -----------------------------------------------------------------------------

// Highlight marks n as the single highlighted node system-wide and bumps
// its generation. The caller schedules the un-highlight with the returned
// generation; re-highlighting bumps it again so the stale timer no-ops.
func (t *Tree) Highlight(n *FsNode) uint64 {
	if t.highlighted != nil && t.highlighted != n {
		t.highlighted.Highlighted = false
	}
	n.Highlighted = true
	t.highlighted = n
	n.highlightGen++
	return n.highlightGen
}

// ClearHighlight applies a scheduled un-highlight. Stale generations are
// ignored so a re-highlight within the delay window wins.
func (t *Tree) ClearHighlight(n *FsNode, gen uint64) bool {
	if n == nil || !n.Highlighted || n.highlightGen != gen {
		return false
	}
	n.Highlighted = false
	if t.highlighted == n {
		t.highlighted = nil
	}
	return true
}

// Highlighted returns the single highlighted node, if any.
func (t *Tree) Highlighted() *FsNode { return t.highlighted }
