package table

import "github.com/ncruces/proctop/pkg/process"

// buildTree walks the sorted flat list into a stable, deterministic
// depth-first tree order that places every child directly beneath its
// parent, computing an indent bitmask the COMM renderer uses to draw tree
// connectors.
//
// children is built once from the already-sorted flat list so sibling
// order matches the flat view (same comparator), then any row whose
// declared parent never appears is appended as a root-level orphan so no
// row is ever lost — tree closure holds for every input.
func buildTree(sorted []*process.Process) []*process.Process {
	byPID := make(map[int32]*process.Process, len(sorted))
	for _, p := range sorted {
		byPID[p.PID] = p
	}

	children := make(map[int32][]*process.Process)
	var roots []*process.Process
	for _, p := range sorted {
		parent, hasParent := byPID[p.ParentPID]
		isRoot := !hasParent || p.ParentPID == 0 || p.PID == 1
		if isRoot || parent == p {
			roots = append(roots, p)
			continue
		}
		children[p.ParentPID] = append(children[p.ParentPID], p)
	}

	out := make([]*process.Process, 0, len(sorted))
	visited := make(map[int32]bool, len(sorted))

	var visit func(p *process.Process, depth int, ancestorMask uint64, isLast bool)
	visit = func(p *process.Process, depth int, ancestorMask uint64, isLast bool) {
		if visited[p.PID] {
			return
		}
		visited[p.PID] = true
		p.SetTreePosition(depth, ancestorMask, isLast)
		out = append(out, p)

		kids := children[p.PID]
		if !p.ShowChildren || len(kids) == 0 {
			return
		}
		for i, child := range kids {
			last := i == len(kids)-1
			childMask := ancestorMask
			if !last {
				childMask |= 1 << uint(depth)
			}
			visit(child, depth+1, childMask, last)
		}
	}

	for i, root := range roots {
		visit(root, 0, 0, i == len(roots)-1)
	}

	// Orphans: any row never visited (dangling parent pid not itself a
	// declared root, e.g. its parent cycles back to it) still must appear.
	for _, p := range sorted {
		if !visited[p.PID] {
			visit(p, 0, 0, true)
		}
	}

	return out
}
