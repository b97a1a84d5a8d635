package controllers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/raf-alpha/api-go/formstate"
	"github.com/raf-alpha/api-go/geo"
	"github.com/raf-alpha/api-go/lang"
	"github.com/raf-alpha/api-go/models"
	"github.com/raf-alpha/api-go/storage"
	"github.com/raf-alpha/api-go/store"
	"github.com/raf-alpha/api-go/types"
	"github.com/raf-alpha/api-go/utils"
	"github.com/raf-alpha/api-go/validation"
)

type UnitController struct {
	Units      store.UnitStore
	Categories store.CategoryStore
	Uploader   *storage.Uploader
	Audit      store.AuditStore
}

func NewUnitController(units store.UnitStore, categories store.CategoryStore, uploader *storage.Uploader, audit store.AuditStore) *UnitController {
	return &UnitController{Units: units, Categories: categories, Uploader: uploader, Audit: audit}
}

// readUnitForm parses the multipart form and decodes its "data" part into v.
func readUnitForm(c *gin.Context, v any) (*multipart.Form, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, badBody(err)
	}
	raw := form.Value["data"]
	if len(raw) == 0 || raw[0] == "" {
		return nil, validation.Fail(lang.English, "data", "required")
	}
	if err := json.Unmarshal([]byte(raw[0]), v); err != nil {
		return nil, badBody(err)
	}
	return form, nil
}

func toImages(images []models.UnitImage) []types.Image {
	out := make([]types.Image, 0, len(images))
	for _, img := range images {
		out = append(out, types.Image{ID: img.ID, URL: img.URL})
	}
	return out
}

func toUnitResponse(u *models.Unit) types.UnitResponse {
	nearby := u.NearbyPlaces
	if nearby == nil {
		nearby = []types.NearbyPlace{}
	}
	return types.UnitResponse{
		ID:           u.ID,
		Lang:         lang.Lang(u.Lang),
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
		Coordinates:  geo.Coordinates{Latitude: u.Latitude, Longitude: u.Longitude},
		Description:  u.Description,
		Status:       u.Status,
		NearbyPlaces: nearby,
		Images:       toImages(u.Images),
	}
}

func applyUnitInput(u *models.Unit, in *types.UnitInput, l lang.Lang) {
	u.Lang = l.String()
	u.CategoryID = in.CategoryID
	u.Title = in.Title
	u.Type = in.Type
	u.Price = in.Price
	u.Area = in.Area
	u.Rooms = in.Rooms
	u.Bathrooms = in.Bathrooms
	u.Livingrooms = in.Livingrooms
	u.Elevators = in.Elevators
	u.Parking = in.Parking
	u.Guard = in.Guard
	u.WaterTank = in.WaterTank
	u.MaidRoom = in.MaidRoom
	u.Cameras = in.Cameras
	u.Floor = in.Floor
	u.Location = in.Location
	u.Latitude = in.Coordinates.Latitude
	u.Longitude = in.Coordinates.Longitude
	u.Description = in.Description
	u.Status = in.Status
	u.NearbyPlaces = in.NearbyPlaces
}

// saveImages stores files for unit and returns their rows, ordered after
// the images the unit keeps. On failure nothing stays in storage.
func (uc *UnitController) saveImages(c *gin.Context, l lang.Lang, unitID string, files []*multipart.FileHeader, offset int) ([]models.UnitImage, []string, error) {
	images := make([]models.UnitImage, 0, len(files))
	keys := make([]string, 0, len(files))

	for i, fh := range files {
		stored, err := uc.saveOne(c, unitID, fh)
		if err != nil {
			discard(c, uc.Uploader.Store, keys...)
			return nil, nil, uploadError(l, "images", uc.Uploader.MaxSize, err)
		}
		keys = append(keys, stored.Key)
		images = append(images, models.UnitImage{
			UnitID:      unitID,
			URL:         stored.URL,
			Key:         stored.Key,
			ContentType: stored.ContentType,
			Size:        stored.Size,
			OrderIndex:  offset + i,
		})
	}
	return images, keys, nil
}

func (uc *UnitController) saveOne(c *gin.Context, unitID string, fh *multipart.FileHeader) (storage.Stored, error) {
	data, err := utils.ReadFile(fh, uc.Uploader.MaxSize)
	if err != nil {
		return storage.Stored{}, err
	}
	return uc.Uploader.Save(c.Request.Context(), "units", unitID, fh.Filename, data)
}

func (uc *UnitController) AddUnit(c *gin.Context) {
	var in types.UnitInput
	form, err := readUnitForm(c, &in)
	if err != nil {
		respondError(c, err)
		return
	}
	l, err := resolveLang(c, in.Lang)
	if err != nil {
		respondError(c, err)
		return
	}
	if in.CategoryID == "" {
		in.CategoryID = c.PostForm("categoryId")
	}
	var errs []error
	if in.CategoryID == "" {
		errs = append(errs, validation.Fail(l, "categoryId", "required"))
	}

	ctx := c.Request.Context()
	errs = append(errs, validation.Validate(ctx, l, &in))

	files := form.File["images"]
	state := formstate.NewAdd[types.NearbyPlace](l)
	switch {
	case len(files) == 0:
		errs = append(errs, validation.Fail(l, "images", "required"))
	case len(files) > state.Capacity():
		errs = append(errs, validation.Fail(l, "images", "max-images", strconv.Itoa(types.MaxUnitImages)))
	}
	if err := validation.Join(errs...); err != nil {
		respondError(c, err)
		return
	}

	if _, err := uc.Categories.Get(ctx, in.CategoryID); err != nil {
		respondError(c, err)
		return
	}

	unit := &models.Unit{ID: uuid.NewString()}
	applyUnitInput(unit, &in, l)

	images, keys, err := uc.saveImages(c, l, unit.ID, files, 0)
	if err != nil {
		respondError(c, err)
		return
	}
	unit.Images = images

	if err := uc.Units.Create(ctx, unit); err != nil {
		discard(c, uc.Uploader.Store, keys...)
		respondError(c, err)
		return
	}

	audit(c, uc.Audit, "unit_created", "unit", unit.ID, l)
	c.JSON(http.StatusCreated, gin.H{"success": true, "unit": toUnitResponse(unit)})
}

// UpdateUnit applies an edit: field changes, removal of existing images and
// new uploads. Removed objects leave storage only once the update is committed.
func (uc *UnitController) UpdateUnit(c *gin.Context) {
	ctx := c.Request.Context()
	unit, err := uc.Units.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var in types.UnitUpdate
	form, err := readUnitForm(c, &in)
	if err != nil {
		respondError(c, err)
		return
	}
	if in.Lang == "" {
		in.Lang = lang.Lang(unit.Lang)
	}
	l, err := resolveLang(c, in.Lang)
	if err != nil {
		respondError(c, err)
		return
	}
	if in.CategoryID == "" {
		in.CategoryID = unit.CategoryID
	}
	errs := []error{validation.Validate(ctx, l, &in.UnitInput)}
	files := form.File["images"]
	state, err := reconcileImages(l, unit, &in)
	if err != nil {
		errs = append(errs, err)
	} else {
		switch {
		case len(files) > state.Capacity():
			errs = append(errs, validation.Fail(l, "images", "max-images", strconv.Itoa(types.MaxUnitImages)))
		case len(state.Existing)+len(files) == 0:
			errs = append(errs, validation.Fail(l, "images", "required"))
		}
	}
	if err := validation.Join(errs...); err != nil {
		respondError(c, err)
		return
	}
	if in.CategoryID != unit.CategoryID {
		if _, err := uc.Categories.Get(ctx, in.CategoryID); err != nil {
			respondError(c, err)
			return
		}
	}

	added, keys, err := uc.saveImages(c, l, unit.ID, files, len(state.Existing))
	if err != nil {
		respondError(c, err)
		return
	}

	removed := state.RemovedIDs()
	var removedKeys []string
	kept := make([]models.UnitImage, 0, len(state.Existing)+len(added))
	for _, img := range unit.Images {
		if slices.Contains(removed, img.ID) {
			removedKeys = append(removedKeys, img.Key)
		} else {
			kept = append(kept, img)
		}
	}

	applyUnitInput(unit, &in.UnitInput, l)
	if err := uc.Units.Update(ctx, unit, store.UnitChange{Add: added, Remove: removed}); err != nil {
		discard(c, uc.Uploader.Store, keys...)
		respondError(c, err)
		return
	}
	discard(c, uc.Uploader.Store, removedKeys...)

	unit.Images = append(kept, added...)
	audit(c, uc.Audit, "unit_updated", "unit", unit.ID, l)
	c.JSON(http.StatusOK, gin.H{"success": true, "unit": toUnitResponse(unit)})
}

// reconcileImages runs the edit's image bookkeeping through the form reducer.
// existingImages, when sent, lists every image to keep; removedImages lists
// those to drop. Ids that do not belong to the unit are rejected.
func reconcileImages(l lang.Lang, unit *models.Unit, in *types.UnitUpdate) (formstate.State[types.NearbyPlace], error) {
	state := formstate.NewEdit(l, toImages(unit.Images), in.NearbyPlaces)

	owned := make(map[string]bool, len(unit.Images))
	for _, img := range unit.Images {
		owned[img.ID] = true
	}

	for _, id := range in.RemovedImages {
		if !owned[id] {
			return state, validation.Fail(l, "removedImages", "invalid")
		}
		state = formstate.Reduce(state, formstate.RemoveExistingImage{ID: id})
	}

	if in.ExistingImages != nil {
		for _, id := range in.ExistingImages {
			if !owned[id] {
				return state, validation.Fail(l, "existingImages", "invalid")
			}
		}
		for _, id := range state.RetainedIDs() {
			if !slices.Contains(in.ExistingImages, id) {
				state = formstate.Reduce(state, formstate.RemoveExistingImage{ID: id})
			}
		}
	}

	return state, nil
}

func (uc *UnitController) GetUnit(c *gin.Context) {
	unit, err := uc.Units.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"returnedData": gin.H{"unit": toUnitResponse(unit)}})
}

func (uc *UnitController) ByCategory(c *gin.Context) {
	l := c.Query("lang")
	if l != "" {
		parsed, err := resolveLang(c, lang.Lang(l))
		if err != nil {
			respondError(c, err)
			return
		}
		l = parsed.String()
	}

	units, err := uc.Units.ListByCategory(c.Request.Context(), c.Param("categoryId"), l)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]types.UnitResponse, 0, len(units))
	for i := range units {
		out = append(out, toUnitResponse(&units[i]))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "units": out})
}

func (uc *UnitController) DeleteUnit(c *gin.Context) {
	id := c.Param("id")
	images, err := uc.Units.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	keys := make([]string, 0, len(images))
	for _, img := range images {
		keys = append(keys, img.Key)
	}
	discard(c, uc.Uploader.Store, keys...)

	audit(c, uc.Audit, "unit_deleted", "unit", id, lang.English)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Unit deleted"})
}
