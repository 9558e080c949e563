// Package incset implements the incremental search/filter overlay: a
// single-line input strip with two independent modes, Search (F3/"/",
// non-destructive cursor jump) and Filter (F4, hides non-matching rows),
// mirroring original_source/IncSet.c's IncMode_reset/IncSet_setFilter pair.
// lazydocker's analogue (pkg/gui/searching.go, filtering.go) wires one
// fixed search box to one gocui view; this package is screen-agnostic so it
// can drive either the process panel or a future secondary list.
package incset

// Mode distinguishes the two overlay behaviors.
type Mode int

const (
	ModeSearch Mode = iota
	ModeFilter
)

// MatchFunc reports whether item (rendered as its plain searchable text by
// the caller) matches the current needle.
type MatchFunc func(plainText, needle string) bool

// IncSet holds the shared incremental-input state for both Search and
// Filter modes, matching original_source/IncSet.c's single FunctionBar /
// shared buffer design (only one mode is active at a time).
type IncSet struct {
	active bool
	mode   Mode
	buffer string

	// filterActive persists after Enter commits a filter (Filter, unlike
	// Search, keeps hiding rows once you leave the input line); cleared
	// only by Cancel (Esc) in Filter mode or an empty Enter.
	filterActive bool
	filterText   string

	Match MatchFunc
}

// New builds an IncSet using substring matching by default.
func New() *IncSet {
	return &IncSet{Match: defaultMatch}
}

func defaultMatch(plainText, needle string) bool {
	if needle == "" {
		return true
	}
	return containsFold(plainText, needle)
}

func containsFold(haystack, needle string) bool {
	hl, nl := len(haystack), len(needle)
	if nl == 0 {
		return true
	}
	if nl > hl {
		return false
	}
	hb := []byte(haystack)
	nb := []byte(needle)
	for i := 0; i+nl <= hl; i++ {
		match := true
		for j := 0; j < nl; j++ {
			a, b := hb[i+j], nb[j]
			if a >= 'A' && a <= 'Z' {
				a += 'a' - 'A'
			}
			if b >= 'A' && b <= 'Z' {
				b += 'a' - 'A'
			}
			if a != b {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// Activate opens the input line in the given mode, clearing any previous
// buffer content (original_source/IncSet.c's IncMode_reset on entry).
func (s *IncSet) Activate(mode Mode) {
	s.active = true
	s.mode = mode
	s.buffer = ""
}

// Active reports whether the input line currently has focus.
func (s *IncSet) Active() bool { return s.active }

// Mode returns the currently active mode (meaningful only while Active).
func (s *IncSet) Mode() Mode { return s.mode }

// Buffer returns the text typed so far.
func (s *IncSet) Buffer() string { return s.buffer }

// Type appends one rune to the buffer.
func (s *IncSet) Type(r rune) {
	if !s.active {
		return
	}
	s.buffer += string(r)
}

// Backspace removes the last rune of the buffer, if any.
func (s *IncSet) Backspace() {
	if !s.active || len(s.buffer) == 0 {
		return
	}
	runes := []rune(s.buffer)
	s.buffer = string(runes[:len(runes)-1])
}

// Commit finalizes the current input on Enter: Search simply closes the
// overlay (the cursor is already on the match); Filter latches buffer as
// the active filter text and closes the overlay, per IncSet_setFilter's
// "Enter persists the filter" behavior.
func (s *IncSet) Commit() {
	if s.mode == ModeFilter {
		s.filterText = s.buffer
		s.filterActive = s.filterText != ""
	}
	s.active = false
}

// Cancel closes the overlay without committing (Esc). For Filter this also
// clears any previously-committed filter, since Esc in htop's IncSet
// removes the active filter entirely.
func (s *IncSet) Cancel() {
	s.active = false
	if s.mode == ModeFilter {
		s.filterActive = false
		s.filterText = ""
	}
}

// FilterActive reports whether rows should currently be hidden by filter
// text (independent of whether the input line itself has focus).
func (s *IncSet) FilterActive() bool { return s.filterActive }

// FilterText returns the committed filter needle.
func (s *IncSet) FilterText() string { return s.filterText }

// Matches reports whether plainText satisfies the currently committed
// filter (always true if no filter is active).
func (s *IncSet) Matches(plainText string) bool {
	if !s.filterActive {
		return true
	}
	return s.Match(plainText, s.filterText)
}

// SearchNeedle returns the live search buffer while Search mode is active,
// used by the panel to drive IncrementalFind as each key is typed.
func (s *IncSet) SearchNeedle() string {
	if s.active && s.mode == ModeSearch {
		return s.buffer
	}
	return ""
}

// IncrementalFind returns the index of the first row (starting at from,
// wrapping around) whose plain text matches needle, or -1 if none match or
// needle is empty.
func IncrementalFind(rows []string, from int, needle string, match MatchFunc) int {
	if needle == "" || len(rows) == 0 {
		return -1
	}
	n := len(rows)
	for i := 0; i < n; i++ {
		idx := (from + i) % n
		if match(rows[idx], needle) {
			return idx
		}
	}
	return -1
}
