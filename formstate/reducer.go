package formstate

import (
	"slices"

	"github.com/raf-alpha/api-go/lang"
	"github.com/raf-alpha/api-go/types"
)

type Action interface {
	action()
}

// SetImages replaces the staged files. Files beyond Capacity are dropped.
type SetImages struct{ Files []File }

// SetExistingImages replaces the images already stored on the server. Images
// whose ids were removed earlier in the session stay removed.
type SetExistingImages struct{ Images []types.Image }

// RemoveExistingImage moves one image from Existing to Removed. Removing the
// same id twice, or an id that is not present, changes nothing.
type RemoveExistingImage struct{ ID string }

type SetLoading struct {
	Lang  lang.Lang
	Value bool
}

type SetEntries[E any] struct{ Entries []E }

type SetLanguage struct{ Lang lang.Lang }

func (SetImages) action()           {}
func (SetExistingImages) action()   {}
func (RemoveExistingImage) action() {}
func (SetLoading) action()          {}
func (SetEntries[E]) action()       {}
func (SetLanguage) action()         {}

// Reduce returns the state after applying a. s is never modified.
func Reduce[E any](s State[E], a Action) State[E] {
	next := s.clone()

	switch a := a.(type) {
	case SetImages:
		files := append([]File(nil), a.Files...)
		if c := next.Capacity(); len(files) > c {
			files = files[:c]
		}
		next.Staged = files

	case SetExistingImages:
		next.Existing = next.Existing[:0]
		for _, img := range a.Images {
			if !slices.Contains(next.Removed, img.ID) {
				next.Existing = append(next.Existing, img)
			}
		}

	case RemoveExistingImage:
		i := slices.IndexFunc(next.Existing, func(img types.Image) bool { return img.ID == a.ID })
		if i < 0 {
			return next
		}
		next.Existing = slices.Delete(next.Existing, i, i+1)
		if !slices.Contains(next.Removed, a.ID) {
			next.Removed = append(next.Removed, a.ID)
		}

	case SetLoading:
		next.Loading[a.Lang] = a.Value

	case SetEntries[E]:
		next.Entries = append([]E(nil), a.Entries...)

	case SetLanguage:
		next.Lang = a.Lang
	}

	return next
}
