package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/raf-alpha/api-go/formstate"
	"github.com/raf-alpha/api-go/lang"
	"github.com/raf-alpha/api-go/types"
	"github.com/raf-alpha/api-go/validation"
)

// UnitSession is an add or edit unit form. Sessions are not safe for
// concurrent use; keep one per language.
type UnitSession struct {
	client     *Client
	ID         string
	CategoryID string
	State      formstate.State[types.NearbyPlace]
	Loaded     *types.UnitResponse
}

func (c *Client) NewUnitDraft(categoryID string, l lang.Lang) *UnitSession {
	return &UnitSession{
		client:     c,
		CategoryID: categoryID,
		State:      formstate.NewAdd[types.NearbyPlace](l),
	}
}

func (c *Client) GetUnit(ctx context.Context, id string) (*types.UnitResponse, error) {
	var resp struct {
		ReturnedData struct {
			Unit types.UnitResponse `json:"unit"`
		} `json:"returnedData"`
	}
	if err := c.sendJSON(ctx, http.MethodGet, "/unit/getunit/"+url.PathEscape(id), c.lang, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.ReturnedData.Unit, nil
}

// EditUnit loads a unit and opens an edit session in the unit's language
// with its images and nearby places.
func (c *Client) EditUnit(ctx context.Context, id string) (*UnitSession, error) {
	u, err := c.GetUnit(ctx, id)
	if err != nil {
		return nil, err
	}
	l, err := lang.ParseOr(u.Lang.String(), c.lang)
	if err != nil {
		return nil, fmt.Errorf("unit %s: %w", id, err)
	}
	return &UnitSession{
		client:     c,
		ID:         u.ID,
		CategoryID: u.CategoryID,
		State:      formstate.NewEdit(l, u.Images, u.NearbyPlaces),
		Loaded:     u,
	}, nil
}

func (s *UnitSession) Dispatch(a formstate.Action) {
	s.State = formstate.Reduce(s.State, a)
}

// Input returns the form values to start editing from.
func (s *UnitSession) Input() types.UnitInput {
	in := types.UnitInput{Lang: s.State.Lang, CategoryID: s.CategoryID}
	if u := s.Loaded; u != nil {
		in = types.UnitInput{
			Lang:         s.State.Lang,
			CategoryID:   u.CategoryID,
			Title:        u.Title,
			Type:         u.Type,
			Price:        u.Price,
			Area:         u.Area,
			Rooms:        u.Rooms,
			Bathrooms:    u.Bathrooms,
			Livingrooms:  u.Livingrooms,
			Elevators:    u.Elevators,
			Parking:      u.Parking,
			Guard:        u.Guard,
			WaterTank:    u.WaterTank,
			MaidRoom:     u.MaidRoom,
			Cameras:      u.Cameras,
			Floor:        u.Floor,
			Location:     u.Location,
			Coordinates:  u.Coordinates,
			Description:  u.Description,
			Status:       u.Status,
			NearbyPlaces: u.NearbyPlaces,
		}
	}
	return in
}

// Submit validates in against the session language, then sends the form as
// one multipart request: POST when adding, PUT when editing. Nearby places
// come from the session entries. On failure the session is left as it was so
// the user can retry.
func (s *UnitSession) Submit(ctx context.Context, in types.UnitInput) (*types.UnitResponse, error) {
	l := s.State.Lang
	in.Lang = l
	in.NearbyPlaces = s.State.Entries
	if in.CategoryID == "" {
		in.CategoryID = s.CategoryID
	}
	var errs []error
	if in.CategoryID == "" {
		errs = append(errs, validation.Fail(l, "categoryId", "required"))
	}
	errs = append(errs, validation.Validate(ctx, l, &in))
	if len(s.State.Existing)+len(s.State.Staged) == 0 {
		errs = append(errs, validation.Fail(l, "images", "required"))
	}
	if err := validation.Join(errs...); err != nil {
		return nil, err
	}

	s.Dispatch(formstate.SetLoading{Lang: l, Value: true})
	defer s.Dispatch(formstate.SetLoading{Lang: l, Value: false})

	method, path := http.MethodPost, "/unit/addunit"
	var data any = in
	if s.State.Mode == formstate.Edit {
		method, path = http.MethodPut, "/unit/updateunit/"+url.PathEscape(s.ID)
		data = types.UnitUpdate{
			UnitInput:      in,
			ExistingImages: s.State.RetainedIDs(),
			RemovedImages:  s.State.RemovedIDs(),
		}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode unit: %w", err)
	}

	f := newForm()
	f.field("data", string(raw))
	for _, file := range s.State.Staged {
		f.file("images", file)
	}
	body, contentType, err := f.finish()
	if err != nil {
		return nil, err
	}

	var resp struct {
		Unit types.UnitResponse `json:"unit"`
	}
	if err := s.client.send(ctx, method, s.client.endpoint(path, l), body, contentType, &resp); err != nil {
		return nil, err
	}

	if s.State.Mode == formstate.Edit {
		s.State = formstate.NewEdit(l, resp.Unit.Images, resp.Unit.NearbyPlaces)
		s.Loaded = &resp.Unit
	} else {
		s.Dispatch(formstate.SetImages{})
	}
	return &resp.Unit, nil
}
