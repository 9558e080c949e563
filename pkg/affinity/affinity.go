// Package affinity implements the CPU affinity editor: a tri-state
// set of CPUs a process is pinned to, presented either as a flat list or a
// topology tree whose interior nodes roll up to "off"/"partial"/"on" from
// their descendants. Grounded on original_source/Affinity.c (the plain
// int-array CPU set) and AffinityPanel.c's MaskItem tri-state tree
// (value 0/1/2 == off/partial/all-set, the hwloc topology path folded into
// the flat-list fallback since this module has no hwloc binding).
// lazydocker has no analogous feature; CPU bitset plumbing follows
// golang.org/x/sys/unix's CPU set type, the same dependency the rest of the
// pack uses for low-level OS interaction.
package affinity

import "golang.org/x/sys/unix"

// State is a tri-state summary of whether a set of CPUs is included in a
// Selection: none of them, some of them, or all of them.
type State int

const (
	StateOff State = iota
	StatePartial
	StateOn
)

// Set is the CPU ids a process is or would be pinned to, mirroring
// Affinity.c's plain growable int slice.
type Set struct {
	cpus map[int]bool
}

// NewSet builds an empty Set.
func NewSet() *Set { return &Set{cpus: map[int]bool{}} }

// FromCPUSet converts a unix.CPUSet (as returned by SchedGetaffinity) into a
// Set.
func FromCPUSet(cpuSet *unix.CPUSet, existingCPUs int) *Set {
	s := NewSet()
	for i := 0; i < existingCPUs; i++ {
		if cpuSet.IsSet(i) {
			s.Add(i)
		}
	}
	return s
}

// ToCPUSet renders the Set back into a unix.CPUSet suitable for
// SchedSetaffinity.
func (s *Set) ToCPUSet() unix.CPUSet {
	var cpuSet unix.CPUSet
	for cpu := range s.cpus {
		cpuSet.Set(cpu)
	}
	return cpuSet
}

// Add includes a CPU id in the set.
func (s *Set) Add(cpu int) { s.cpus[cpu] = true }

// Remove excludes a CPU id from the set.
func (s *Set) Remove(cpu int) { delete(s.cpus, cpu) }

// Toggle flips a single CPU's membership.
func (s *Set) Toggle(cpu int) {
	if s.cpus[cpu] {
		s.Remove(cpu)
	} else {
		s.Add(cpu)
	}
}

// Has reports whether cpu is in the set.
func (s *Set) Has(cpu int) bool { return s.cpus[cpu] }

// Len returns how many CPUs are selected.
func (s *Set) Len() int { return len(s.cpus) }

// CPUs returns the selected CPU ids in ascending order.
func (s *Set) CPUs() []int {
	out := make([]int, 0, len(s.cpus))
	for cpu := range s.cpus {
		out = append(out, cpu)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// StateOfRange reports off/partial/on for the CPUs in [first, last]
// inclusive, the tri-state computation AffinityPanel_updateItem performs
// against a hwloc cpuset's intersection/inclusion with the work set.
func (s *Set) StateOfRange(first, last int) State {
	total, included := 0, 0
	for cpu := first; cpu <= last; cpu++ {
		total++
		if s.Has(cpu) {
			included++
		}
	}
	switch {
	case included == 0:
		return StateOff
	case included == total:
		return StateOn
	default:
		return StatePartial
	}
}

// SetRange sets or clears every CPU in [first, last], the "click a
// non-leaf tree node" action from AffinityPanel's event handler (space on
// a MaskItem whose value != 2 OR's in its whole cpuset; value == 2
// clears it).
func (s *Set) SetRange(first, last int, on bool) {
	for cpu := first; cpu <= last; cpu++ {
		if on {
			s.Add(cpu)
		} else {
			s.Remove(cpu)
		}
	}
}

// Node is one row of the flat-list affinity editor: either a single CPU
// (Leaf true) or a topology group spanning [First, Last] CPUs, matching
// AffinityPanel's MaskItem but without the hwloc dependency: groups are
// expressed as contiguous CPU ranges rather than an arbitrary hwloc_obj
// tree, which is the fallback AffinityPanel.c itself takes when
// HAVE_LIBHWLOC is unset.
type Node struct {
	Label      string
	First, Last int
	Leaf       bool
	Depth      int
	Expanded   bool
	Children   []*Node
}

// FlatList builds one Node per CPU ("CPU N"), the non-hwloc
// AffinityPanel_new path.
func FlatList(existingCPUs int) []*Node {
	nodes := make([]*Node, existingCPUs)
	for i := range nodes {
		nodes[i] = &Node{Label: cpuLabel(i), First: i, Last: i, Leaf: true}
	}
	return nodes
}

func cpuLabel(cpu int) string {
	digits := [20]byte{}
	n := len(digits)
	if cpu == 0 {
		return "CPU 0"
	}
	v := cpu
	for v > 0 {
		n--
		digits[n] = byte('0' + v%10)
		v /= 10
	}
	return "CPU " + string(digits[n:])
}

// State reports this node's tri-state relative to sel.
func (n *Node) State(sel *Set) State { return sel.StateOfRange(n.First, n.Last) }

// Toggle applies AffinityPanel's space-bar rule: if fully on, clear the
// whole range; otherwise set the whole range.
func (n *Node) Toggle(sel *Set) {
	if n.State(sel) == StateOn {
		sel.SetRange(n.First, n.Last, false)
	} else {
		sel.SetRange(n.First, n.Last, true)
	}
}
