package marquee

import "strconv"

// Key identifies one rendered item: the item at Item inside copy Copy. Keys
// for a given (copy, item) pair never change, so hosts can reuse nodes when
// the copy count changes.
type Key struct {
	Copy int
	Item int
}

func (k Key) String() string {
	return "copy-" + strconv.Itoa(k.Copy) + "/" + strconv.Itoa(k.Item)
}

// Slot is one item placed inside a copy.
type Slot struct {
	Key  Key
	Item Item
}

// Copy is one rendered sequence on the track. Only the first copy is exposed
// to assistive technology; the rest are Hidden duplicates.
type Copy struct {
	Index  int
	Hidden bool
	Slots  []Slot
}

// Layout lays out copies sequences of items left to right, preserving item
// order in each copy. copies below MinCopies is raised to MinCopies.
func Layout(items []Item, copies int) []Copy {
	if copies < MinCopies {
		copies = MinCopies
	}
	out := make([]Copy, copies)
	for c := range out {
		slots := make([]Slot, len(items))
		for i, it := range items {
			slots[i] = Slot{Key: Key{Copy: c, Item: i}, Item: it}
		}
		out[c] = Copy{Index: c, Hidden: c > 0, Slots: slots}
	}
	return out
}

// SequenceWidth sums item widths plus one trailing gap per item, which is how
// a sequence occupies space on the track.
func SequenceWidth(widths []float64, gap float64) float64 {
	total := 0.0
	for _, w := range widths {
		if w > 0 {
			total += w
		}
		total += gap
	}
	return total
}
