package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/raf-alpha/api-go/formstate"
	"github.com/raf-alpha/api-go/geo"
	"github.com/raf-alpha/api-go/lang"
	"github.com/raf-alpha/api-go/types"
	"github.com/raf-alpha/api-go/validation"
)

type Category struct {
	ID          string  `json:"id"`
	Lang        string  `json:"lang"`
	Title       string  `json:"title"`
	Area        float64 `json:"area"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Image       string  `json:"image"`
}

func (c *Client) GetCategory(ctx context.Context, id string) (*Category, error) {
	var resp struct {
		Category Category `json:"category"`
	}
	if err := c.sendJSON(ctx, http.MethodGet, "/category/getOne/"+url.PathEscape(id), c.lang, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Category, nil
}

// ExtractCoordinates reads the "@lat,lng" pair of a Google Maps link.
func ExtractCoordinates(link string) (geo.Coordinates, bool) {
	return geo.ExtractCoordinates(link)
}

// CategoryDraft is the add-category form for one language.
type CategoryDraft struct {
	client      *Client
	Lang        lang.Lang
	Image       *formstate.File
	Coordinates geo.Coordinates
	loading     bool
}

func (c *Client) NewCategoryDraft(l lang.Lang) *CategoryDraft {
	return &CategoryDraft{client: c, Lang: l}
}

func (d *CategoryDraft) SetImage(f formstate.File) {
	d.Image = &f
}

// PasteMapsLink takes the coordinates out of a pasted link. A link without
// coordinates leaves the previous values in place and reports false.
func (d *CategoryDraft) PasteMapsLink(link string) bool {
	next, ok := d.Coordinates.Apply(link)
	d.Coordinates = next
	return ok
}

func (d *CategoryDraft) Loading() bool { return d.loading }

// Submit validates in and the picked image, then creates the category with
// one multipart request. The draft keeps its image when the request fails.
func (d *CategoryDraft) Submit(ctx context.Context, in types.CategoryInput) (*Category, error) {
	l := d.Lang
	in.Lang = l
	if in.Latitude == 0 && in.Longitude == 0 {
		in.Latitude, in.Longitude = d.Coordinates.Latitude, d.Coordinates.Longitude
	}
	var errs []error
	if in.Latitude == 0 && in.Longitude == 0 {
		coords, ok := geo.ExtractCoordinates(in.GoogleMapsLink)
		switch {
		case in.GoogleMapsLink == "":
			errs = append(errs, validation.Fail(l, "coordinates", "required"))
		case !ok:
			errs = append(errs, validation.Fail(l, "googleMapsLink", "coordinates"))
		default:
			in.Latitude, in.Longitude = coords.Latitude, coords.Longitude
		}
	}
	if d.Image == nil {
		errs = append(errs, validation.Fail(l, "image", "required"))
	} else {
		in.Image = &types.Upload{Name: d.Image.Name, ContentType: d.Image.ContentType, Size: int64(len(d.Image.Data))}
	}
	errs = append(errs, validation.Validate(ctx, l, &in))
	if err := validation.Join(errs...); err != nil {
		return nil, err
	}

	d.loading = true
	defer func() { d.loading = false }()

	f := newForm()
	f.field("lang", l.String())
	f.field("title", in.Title)
	f.field("area", strconv.FormatFloat(in.Area, 'f', -1, 64))
	f.field("location", in.Location)
	f.field("description", in.Description)
	f.field("latitude", strconv.FormatFloat(in.Latitude, 'f', -1, 64))
	f.field("longitude", strconv.FormatFloat(in.Longitude, 'f', -1, 64))
	if in.GoogleMapsLink != "" {
		f.field("googleMapsLink", in.GoogleMapsLink)
	}
	f.file("image", *d.Image)
	body, contentType, err := f.finish()
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data Category `json:"data"`
	}
	if err := d.client.send(ctx, http.MethodPost, d.client.endpoint("/category/create", l), body, contentType, &resp); err != nil {
		return nil, err
	}
	d.Image = nil
	return &resp.Data, nil
}
