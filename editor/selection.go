package editor

import "github.com/nuottila/rulla"

// Selection is the set of selected note ids, a view over the note list
// that never contains an id the list does not. The zero value is an empty
// selection. Methods return a new set and leave the receiver alone, so a
// selection stored inside an EditState snapshot stays valid.
type Selection map[rulla.NoteID]struct{}

func (s Selection) Contains(id rulla.NoteID) bool {
	_, ok := s[id]
	return ok
}

func (s Selection) clone() Selection {
	c := make(Selection, len(s)+1)
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// With returns a selection that also contains id.
func (s Selection) With(id rulla.NoteID) Selection {
	if s.Contains(id) {
		return s
	}
	c := s.clone()
	c[id] = struct{}{}
	return c
}

// Without returns a selection that does not contain id.
func (s Selection) Without(id rulla.NoteID) Selection {
	if !s.Contains(id) {
		return s
	}
	c := s.clone()
	delete(c, id)
	return c
}

// Ordered lists the selected ids in note list order, so that walks over a
// selection are deterministic.
func (s Selection) Ordered(notes rulla.NoteList) []rulla.NoteID {
	if len(s) == 0 {
		return nil
	}
	ids := make([]rulla.NoteID, 0, len(s))
	for _, n := range notes {
		if s.Contains(n.ID) {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// Pruned drops every id that is no longer present in notes. Bulk edits and
// file loads run their selection through this to keep the view invariant.
func (s Selection) Pruned(notes rulla.NoteList) Selection {
	if len(s) == 0 {
		return s
	}
	stale := false
	for id := range s {
		if notes.IndexOf(id) < 0 {
			stale = true
			break
		}
	}
	if !stale {
		return s
	}
	c := make(Selection, len(s))
	for id := range s {
		if notes.IndexOf(id) >= 0 {
			c[id] = struct{}{}
		}
	}
	return c
}
