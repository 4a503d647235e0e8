package axes

import (
	"slices"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// List is an ordered sequence of distinct axis names.
// Membership and position lookups take constant time.
//
// The zero List is empty.
type List struct {
	positions *orderedmap.OrderedMap[string, int]
}

// newList builds a List from names, keeping the first occurrence of each name.
// It also returns the names that occurred more than once, in order of first repetition.
func newList(names []string) (List, []string) {
	positions := orderedmap.New[string, int]()
	var dups []string
	for _, name := range names {
		if _, present := positions.Get(name); present {
			if !slices.Contains(dups, name) {
				dups = append(dups, name)
			}
			continue
		}
		positions.Set(name, positions.Len())
	}
	return List{positions: positions}, dups
}

// Len returns the number of axes.
func (l List) Len() int {
	if l.positions == nil {
		return 0
	}
	return l.positions.Len()
}

// Has reports whether name is in the list.
func (l List) Has(name string) bool {
	_, found := l.Index(name)
	return found
}

// Index returns the position of name in the list.
func (l List) Index(name string) (int, bool) {
	if l.positions == nil {
		return 0, false
	}
	return l.positions.Get(name)
}

// Names returns the axis names in order.
func (l List) Names() []string {
	names := make([]string, 0, l.Len())
	if l.positions == nil {
		return names
	}
	for pair := l.positions.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Missing returns the names of other that are not in l, in other's order.
func (l List) Missing(other List) []string {
	var missing []string
	for _, name := range other.Names() {
		if !l.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Shared returns the names of other that are also in l, in other's order.
func (l List) Shared(other List) []string {
	var shared []string
	for _, name := range other.Names() {
		if l.Has(name) {
			shared = append(shared, name)
		}
	}
	return shared
}

// String returns the names separated by single spaces.
func (l List) String() string {
	return strings.Join(l.Names(), " ")
}
