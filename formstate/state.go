// Package formstate holds the client-side state of an add or edit form with
// images and a repeated entry list, and the pure reducer that updates it.
package formstate

import (
	"github.com/raf-alpha/api-go/lang"
	"github.com/raf-alpha/api-go/types"
)

type Mode int

const (
	Add Mode = iota
	Edit
)

func (m Mode) String() string {
	if m == Edit {
		return "edit"
	}
	return "add"
}

// File is an image picked by the user and not yet uploaded.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// State is parameterised by the repeated entry type (types.NearbyPlace for units).
type State[E any] struct {
	Mode     Mode
	Lang     lang.Lang
	Staged   []File
	Existing []types.Image
	Removed  []string
	Loading  map[lang.Lang]bool
	Entries  []E
}

func NewAdd[E any](l lang.Lang) State[E] {
	return State[E]{
		Mode:    Add,
		Lang:    l,
		Loading: map[lang.Lang]bool{},
	}
}

func NewEdit[E any](l lang.Lang, existing []types.Image, entries []E) State[E] {
	return State[E]{
		Mode:     Edit,
		Lang:     l,
		Existing: append([]types.Image(nil), existing...),
		Loading:  map[lang.Lang]bool{},
		Entries:  append([]E(nil), entries...),
	}
}

// Capacity is how many new images the form accepts: MaxUnitImages when adding,
// and what is left after the existing images when editing.
func (s State[E]) Capacity() int {
	if s.Mode == Add {
		return types.MaxUnitImages
	}
	return max(0, types.MaxUnitImages-len(s.Existing))
}

// Remaining is Capacity minus the images already staged.
func (s State[E]) Remaining() int {
	return max(0, s.Capacity()-len(s.Staged))
}

// RetainedIDs lists the existing images that survive the edit.
func (s State[E]) RetainedIDs() []string {
	ids := make([]string, 0, len(s.Existing))
	for _, img := range s.Existing {
		ids = append(ids, img.ID)
	}
	return ids
}

func (s State[E]) RemovedIDs() []string {
	return append([]string{}, s.Removed...)
}

func (s State[E]) IsLoading(l lang.Lang) bool {
	return s.Loading[l]
}

func (s State[E]) clone() State[E] {
	out := s
	out.Staged = append([]File(nil), s.Staged...)
	out.Existing = append([]types.Image(nil), s.Existing...)
	out.Removed = append([]string(nil), s.Removed...)
	out.Entries = append([]E(nil), s.Entries...)
	out.Loading = make(map[lang.Lang]bool, len(s.Loading))
	for k, v := range s.Loading {
		out.Loading[k] = v
	}
	return out
}
