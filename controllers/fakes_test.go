package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/raf-alpha/api-go/apperr"
	"github.com/raf-alpha/api-go/models"
	"github.com/raf-alpha/api-go/notify"
	"github.com/raf-alpha/api-go/otc"
	"github.com/raf-alpha/api-go/store"
	"github.com/raf-alpha/api-go/utils"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
}

// asUser stands in for AuthMiddleware.
func asUser(id uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(string(utils.UserContextKey), &utils.UserClaims{UserID: id, Role: role})
		c.Next()
	}
}

type filePart struct {
	field       string
	name        string
	contentType string
	data        []byte
}

func png(field, name string) filePart {
	return filePart{field: field, name: name, contentType: "image/png", data: pngBytes}
}

func multipartBody(t *testing.T, fields map[string]string, files ...filePart) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.name))
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func send(r http.Handler, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sendJSON(t *testing.T, r http.Handler, method, path string, v any) *httptest.ResponseRecorder {
	t.Helper()
	return send(r, method, path, bytes.NewBufferString(mustJSON(t, v)), "application/json")
}

// errorBody is the shape respondError writes.
type errorBody struct {
	Success bool                `json:"success"`
	Error   string              `json:"error"`
	Fields  []apperr.FieldError `json:"fields"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func fieldRule(fields []apperr.FieldError, field string) string {
	for _, fe := range fields {
		if fe.Field == field {
			return fe.Rule
		}
	}
	return ""
}

type memImages struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	putErr  error
}

func newMemImages() *memImages {
	return &memImages{objects: make(map[string][]byte)}
}

func (m *memImages) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return "", m.putErr
	}
	m.objects[key] = data
	return m.URL(key), nil
}

func (m *memImages) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *memImages) URL(key string) string { return "https://cdn.test/" + key }

func (m *memImages) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

type presigningImages struct {
	*memImages
}

func (p presigningImages) PresignPut(_ context.Context, key, _ string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://signed.test/%s?ttl=%d", key, int(expires.Seconds())), nil
}

type memCategories struct {
	items map[string]models.Category
}

func newMemCategories(cats ...models.Category) *memCategories {
	m := &memCategories{items: make(map[string]models.Category)}
	for _, c := range cats {
		m.items[c.ID] = c
	}
	return m
}

func (m *memCategories) Create(_ context.Context, c *models.Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	m.items[c.ID] = *c
	return nil
}

func (m *memCategories) Get(_ context.Context, id string) (*models.Category, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("category %s: %w", id, apperr.ErrNotFound)
	}
	return &c, nil
}

func (m *memCategories) List(_ context.Context, lang string, page, size int) ([]models.Category, int64, error) {
	var all []models.Category
	for _, c := range m.items {
		if lang == "" || c.Lang == lang {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Title < all[j].Title })
	total := int64(len(all))
	start := min((page-1)*size, len(all))
	end := min(start+size, len(all))
	return all[start:end], total, nil
}

func (m *memCategories) Update(_ context.Context, c *models.Category) error {
	m.items[c.ID] = *c
	return nil
}

func (m *memCategories) Delete(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("category %s: %w", id, apperr.ErrNotFound)
	}
	delete(m.items, id)
	return nil
}

type memUnits struct {
	items     map[string]models.Unit
	updateErr error
	changes   []store.UnitChange
}

func newMemUnits(units ...models.Unit) *memUnits {
	m := &memUnits{items: make(map[string]models.Unit)}
	for _, u := range units {
		m.items[u.ID] = u
	}
	return m
}

func cloneUnit(u models.Unit) models.Unit {
	u.Images = slices.Clone(u.Images)
	u.NearbyPlaces = slices.Clone(u.NearbyPlaces)
	return u
}

func (m *memUnits) Create(_ context.Context, u *models.Unit) error {
	for i := range u.Images {
		if u.Images[i].ID == "" {
			u.Images[i].ID = uuid.NewString()
		}
	}
	m.items[u.ID] = cloneUnit(*u)
	return nil
}

func (m *memUnits) Get(_ context.Context, id string) (*models.Unit, error) {
	u, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("unit %s: %w", id, apperr.ErrNotFound)
	}
	u = cloneUnit(u)
	return &u, nil
}

func (m *memUnits) ListByCategory(_ context.Context, categoryID, lang string) ([]models.Unit, error) {
	var out []models.Unit
	for _, u := range m.items {
		if u.CategoryID == categoryID && (lang == "" || u.Lang == lang) {
			out = append(out, cloneUnit(u))
		}
	}
	return out, nil
}

func (m *memUnits) Update(_ context.Context, u *models.Unit, change store.UnitChange) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.changes = append(m.changes, change)
	prev := m.items[u.ID]
	next := cloneUnit(*u)
	next.Images = nil
	for _, img := range prev.Images {
		if !slices.Contains(change.Remove, img.ID) {
			next.Images = append(next.Images, img)
		}
	}
	for i := range change.Add {
		if change.Add[i].ID == "" {
			change.Add[i].ID = uuid.NewString()
		}
		next.Images = append(next.Images, change.Add[i])
	}
	m.items[u.ID] = next
	return nil
}

func (m *memUnits) Delete(_ context.Context, id string) ([]models.UnitImage, error) {
	u, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("unit %s: %w", id, apperr.ErrNotFound)
	}
	delete(m.items, id)
	return u.Images, nil
}

type fakeContent[T any] struct {
	created  []*T
	rows     []T
	lastLang string
	deleteFn func(id uint) (*T, error)
}

func (f *fakeContent[T]) Create(_ context.Context, v *T) error {
	f.created = append(f.created, v)
	return nil
}

func (f *fakeContent[T]) List(_ context.Context, lang string) ([]T, error) {
	f.lastLang = lang
	return f.rows, nil
}

func (f *fakeContent[T]) Delete(_ context.Context, id uint) (*T, error) {
	if f.deleteFn == nil {
		return nil, fmt.Errorf("row %d: %w", id, apperr.ErrNotFound)
	}
	return f.deleteFn(id)
}

type memInbox struct {
	subs          []models.Subscription
	interested    []models.Interested
	consultations []models.Consultation
	marked        map[string][]uint
}

func newMemInbox() *memInbox {
	return &memInbox{marked: make(map[string][]uint)}
}

func (m *memInbox) Subscribe(_ context.Context, s *models.Subscription) error {
	for _, existing := range m.subs {
		if existing.Email == s.Email {
			return fmt.Errorf("subscription %s: %w", s.Email, apperr.ErrConflict)
		}
	}
	s.ID = uint(len(m.subs) + 1)
	m.subs = append(m.subs, *s)
	return nil
}

func (m *memInbox) AddInterested(_ context.Context, i *models.Interested) error {
	i.ID = uint(len(m.interested) + 1)
	m.interested = append(m.interested, *i)
	return nil
}

func (m *memInbox) AddConsultation(_ context.Context, c *models.Consultation) error {
	c.ID = uint(len(m.consultations) + 1)
	m.consultations = append(m.consultations, *c)
	return nil
}

func (m *memInbox) UnreadSubscriptions(context.Context) (int64, error) {
	var n int64
	for _, s := range m.subs {
		if !s.IsRead {
			n++
		}
	}
	return n, nil
}

func (m *memInbox) Subscriptions(context.Context) ([]models.Subscription, error) {
	return m.subs, nil
}

func (m *memInbox) UnreadInterested(context.Context) ([]models.Interested, error) {
	return m.interested, nil
}

func (m *memInbox) UnreadConsultations(context.Context) ([]models.Consultation, error) {
	return m.consultations, nil
}

func (m *memInbox) MarkSubscriptionsRead(_ context.Context, ids []uint) (int64, error) {
	m.marked["subscriptions"] = ids
	var n int64
	for i := range m.subs {
		if !m.subs[i].IsRead && (len(ids) == 0 || slices.Contains(ids, m.subs[i].ID)) {
			m.subs[i].IsRead = true
			n++
		}
	}
	return n, nil
}

func (m *memInbox) MarkInterestedRead(_ context.Context, ids []uint) (int64, error) {
	m.marked["interested"] = ids
	return int64(len(ids)), nil
}

func (m *memInbox) MarkConsultationsRead(_ context.Context, ids []uint) (int64, error) {
	m.marked["consultations"] = ids
	return int64(len(ids)), nil
}

type memUsers struct {
	items  map[uint]*models.User
	next   uint
	logins map[uint]time.Time
}

func newMemUsers() *memUsers {
	return &memUsers{items: make(map[uint]*models.User), logins: make(map[uint]time.Time)}
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	for _, existing := range m.items {
		if existing.Email == u.Email {
			return fmt.Errorf("user %s: %w", u.Email, apperr.ErrConflict)
		}
	}
	m.next++
	u.ID = m.next
	cp := *u
	m.items[u.ID] = &cp
	return nil
}

func (m *memUsers) ByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, apperr.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) ByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.items {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, apperr.ErrNotFound)
}

func (m *memUsers) List(context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(m.items))
	for id := uint(1); id <= m.next; id++ {
		if u, ok := m.items[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *memUsers) Update(_ context.Context, u *models.User) error {
	cp := *u
	m.items[u.ID] = &cp
	return nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id uint, hash string) error {
	u, ok := m.items[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, apperr.ErrNotFound)
	}
	u.Password = hash
	return nil
}

func (m *memUsers) Delete(_ context.Context, id uint) error {
	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("user %d: %w", id, apperr.ErrNotFound)
	}
	delete(m.items, id)
	return nil
}

func (m *memUsers) Count(context.Context) (int64, error) {
	return int64(len(m.items)), nil
}

func (m *memUsers) RecordLogin(_ context.Context, id uint, at time.Time) error {
	m.logins[id] = at
	return nil
}

type memTokens struct {
	items map[string]models.RefreshToken
}

func newMemTokens() *memTokens {
	return &memTokens{items: make(map[string]models.RefreshToken)}
}

func (m *memTokens) Save(_ context.Context, t *models.RefreshToken) error {
	m.items[t.Token] = *t
	return nil
}

func (m *memTokens) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	t, ok := m.items[token]
	if !ok {
		return nil, fmt.Errorf("refresh token: %w", apperr.ErrNotFound)
	}
	return &t, nil
}

func (m *memTokens) Delete(_ context.Context, token string) (bool, error) {
	_, ok := m.items[token]
	delete(m.items, token)
	return ok, nil
}

func (m *memTokens) DeleteForUser(_ context.Context, userID uint) error {
	for k, t := range m.items {
		if t.UserID == userID {
			delete(m.items, k)
		}
	}
	return nil
}

// fixedCodes issues the same code every time.
type fixedCodes struct {
	code   string
	issued map[string]bool
}

func newFixedCodes(code string) *fixedCodes {
	return &fixedCodes{code: code, issued: make(map[string]bool)}
}

func (f *fixedCodes) Issue(_ context.Context, p otc.Purpose, email string) (string, error) {
	f.issued[string(p)+":"+email] = true
	return f.code, nil
}

func (f *fixedCodes) Redeem(_ context.Context, p otc.Purpose, email, code string) error {
	k := string(p) + ":" + email
	if !f.issued[k] || code != f.code {
		return otc.ErrInvalidCode
	}
	delete(f.issued, k)
	return nil
}

func (f *fixedCodes) Close() error { return nil }

type sentMail struct {
	to, subject, body string
}

type recMailer struct {
	sent []sentMail
}

func (r *recMailer) Send(_ context.Context, to, subject, body string) error {
	r.sent = append(r.sent, sentMail{to, subject, body})
	return nil
}

type recAudit struct {
	entries []models.ActivityLog
}

func (r *recAudit) Record(_ context.Context, e *models.ActivityLog) error {
	r.entries = append(r.entries, *e)
	return nil
}

func (r *recAudit) activities() []string {
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Activity)
	}
	return out
}

type recPublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recPublisher) Publish(_ context.Context, e notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}
