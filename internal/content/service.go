package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vbonduro/atelier/internal/alttext"
	"github.com/vbonduro/atelier/internal/blobstore"
)

// recordRepository is the subset of Store that Service requires.
type recordRepository interface {
	List(ctx context.Context, schema *Schema) ([]*Record, error)
	Get(ctx context.Context, schema *Schema, id int64) (*Record, error)
	Top(ctx context.Context, schema *Schema) (*Record, error)
	Insert(ctx context.Context, schema *Schema, values map[string]any) (*Record, error)
	Update(ctx context.Context, schema *Schema, id, version int64, values map[string]any) (*Record, error)
	Delete(ctx context.Context, schema *Schema, id int64) (*Record, error)
}

// Upload is one file received for an image slot. ContentType has already
// been verified by the caller.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Input is a create or update request: form values, files keyed by form
// field, and an optional expected version (0 disables the check).
type Input struct {
	Values  url.Values
	Files   map[string][]Upload
	Version int64
}

type Service struct {
	store     recordRepository
	blobs     blobstore.Store
	describer alttext.Describer
	hosts     map[string]bool
	logger    *slog.Logger

	mu        sync.Mutex
	lastStamp int64
	now       func() time.Time
}

// NewService wires the section service. describer may be nil. imageHosts is
// the allow-list of remote hosts whose URLs may be stored without upload.
func NewService(store recordRepository, blobs blobstore.Store, describer alttext.Describer, imageHosts []string, logger *slog.Logger) *Service {
	hosts := make(map[string]bool, len(imageHosts))
	for _, h := range imageHosts {
		hosts[strings.ToLower(h)] = true
	}
	return &Service{
		store:     store,
		blobs:     blobs,
		describer: describer,
		hosts:     hosts,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) List(ctx context.Context, schema *Schema) ([]*Record, error) {
	return s.store.List(ctx, schema)
}

func (s *Service) Get(ctx context.Context, schema *Schema, id int64) (*Record, error) {
	rec, err := s.store.Get(ctx, schema, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

// Top returns the first record in schema order, or nil when there is none.
func (s *Service) Top(ctx context.Context, schema *Schema) (*Record, error) {
	return s.store.Top(ctx, schema)
}

// Create validates the whole request, uploads new images, then inserts the
// row. Uploaded objects are removed again when the insert fails.
func (s *Service) Create(ctx context.Context, schema *Schema, in Input) (*Record, error) {
	values, missing := parseFields(schema, in.Values)
	for _, slot := range schema.Images {
		if slot.Required && len(in.Files[slot.Form]) == 0 && len(fallbackURLs(slot, in.Values)) == 0 {
			missing = append(missing, slot.Form)
		}
	}
	if len(missing) > 0 {
		return nil, missingFields(missing)
	}
	if err := s.checkFallbacks(schema, nil, in.Values); err != nil {
		return nil, err
	}

	uploaded, err := s.applyImages(ctx, schema, nil, in, values)
	if err != nil {
		return nil, err
	}
	s.describe(ctx, schema, in, values)

	rec, err := s.store.Insert(ctx, schema, values)
	if err != nil {
		s.discard(ctx, uploaded)
		return nil, &PersistError{Err: err}
	}
	s.logger.Info("content created", "section", schema.Name, "id", rec.ID, "uploads", len(uploaded))
	return rec, nil
}

// Update replaces every field of row id. Each image slot takes, in order, a
// new upload, the URL in its fallback field, or its stored URL. Objects no
// longer referenced after the update are deleted.
func (s *Service) Update(ctx context.Context, schema *Schema, id int64, in Input) (*Record, error) {
	existing, err := s.store.Get(ctx, schema, id)
	if err != nil {
		return nil, &PersistError{Err: err}
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	values, missing := parseFields(schema, in.Values)
	for _, slot := range schema.Images {
		if slot.Required && len(in.Files[slot.Form]) == 0 && len(baseURLs(slot, existing, in.Values)) == 0 {
			missing = append(missing, slot.Form)
		}
	}
	if len(missing) > 0 {
		return nil, missingFields(missing)
	}
	if err := s.checkFallbacks(schema, existing, in.Values); err != nil {
		return nil, err
	}

	uploaded, err := s.applyImages(ctx, schema, existing, in, values)
	if err != nil {
		return nil, err
	}
	s.describe(ctx, schema, in, values)

	rec, err := s.store.Update(ctx, schema, id, in.Version, values)
	if err != nil {
		s.discard(ctx, uploaded)
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrVersionConflict) {
			return nil, err
		}
		return nil, &PersistError{Err: err}
	}

	s.discard(ctx, unreferenced(existing.URLs(schema), rec.URLs(schema)))
	s.logger.Info("content updated", "section", schema.Name, "id", id, "version", rec.Version)
	return rec, nil
}

// Delete removes row id and then the objects it referenced.
func (s *Service) Delete(ctx context.Context, schema *Schema, id int64) (*Record, error) {
	rec, err := s.store.Delete(ctx, schema, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &PersistError{Err: err}
	}

	s.discard(ctx, rec.URLs(schema))
	s.logger.Info("content deleted", "section", schema.Name, "id", id)
	return rec, nil
}

// Upsert writes the single logical record of a singleton schema, creating
// it when the table is empty.
func (s *Service) Upsert(ctx context.Context, schema *Schema, in Input) (*Record, error) {
	if !schema.Singleton {
		return nil, fmt.Errorf("%s is not a singleton section", schema.Name)
	}
	top, err := s.store.Top(ctx, schema)
	if err != nil {
		return nil, &PersistError{Err: err}
	}
	if top == nil {
		return s.Create(ctx, schema, in)
	}
	return s.Update(ctx, schema, top.ID, in)
}

// applyImages uploads every new file and writes the resolved URL(s) of each
// slot into values. It returns the URLs it uploaded. On failure it removes
// what it already uploaded.
func (s *Service) applyImages(ctx context.Context, schema *Schema, existing *Record, in Input, values map[string]any) ([]string, error) {
	var uploaded []string
	for _, slot := range schema.Images {
		files := in.Files[slot.Form]
		base := baseURLs(slot, existing, in.Values)

		if !slot.Multiple {
			if len(files) == 0 {
				values[slot.Column] = firstOrEmpty(base)
				continue
			}
			u, err := s.put(ctx, schema, slot, files[0])
			if err != nil {
				s.discard(ctx, uploaded)
				return nil, err
			}
			uploaded = append(uploaded, u)
			values[slot.Column] = u
			continue
		}

		urls := slices.Clone(base)
		var lastErr error
		added := 0
		for _, f := range files {
			u, err := s.put(ctx, schema, slot, f)
			if err != nil {
				s.logger.Error("image upload failed", "section", schema.Name, "file", f.Filename, "error", err)
				lastErr = err
				continue
			}
			uploaded = append(uploaded, u)
			urls = append(urls, u)
			added++
		}
		if len(files) > 0 && added == 0 {
			s.discard(ctx, uploaded)
			return nil, &UploadError{Status: 400, Message: "No images uploaded successfully", Err: lastErr}
		}
		if urls == nil {
			urls = []string{}
		}
		values[slot.Column] = urls
	}
	return uploaded, nil
}

func (s *Service) put(ctx context.Context, schema *Schema, slot ImageSlot, f Upload) (string, error) {
	key := ObjectKey(slot.Prefix, s.stamp(), f.Filename)
	u, err := s.blobs.Put(ctx, schema.Bucket, key, f.ContentType, bytes.NewReader(f.Data))
	if err != nil {
		return "", uploadError(err)
	}
	s.logger.Debug("image uploaded", "section", schema.Name, "bucket", schema.Bucket, "key", key, "bytes", len(f.Data))
	return u, nil
}

func uploadError(err error) *UploadError {
	var statusErr *blobstore.StatusError
	if errors.As(err, &statusErr) {
		status := 400
		if statusErr.StatusCode >= 500 {
			status = 500
		}
		return &UploadError{Status: status, Message: statusErr.Message, Err: err}
	}
	return &UploadError{Status: 500, Message: err.Error(), Err: err}
}

// stamp returns the upload time, strictly increasing per millisecond so two
// files with the same name never share a key.
func (s *Service) stamp() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms := s.now().UnixMilli()
	if ms <= s.lastStamp {
		ms = s.lastStamp + 1
	}
	s.lastStamp = ms
	return time.UnixMilli(ms)
}

// describe fills blank alt-text fields from the slot's first new upload.
// Failures leave the field blank.
func (s *Service) describe(ctx context.Context, schema *Schema, in Input, values map[string]any) {
	if s.describer == nil {
		return
	}
	for _, slot := range schema.Images {
		if slot.AltColumn == "" {
			continue
		}
		if current, _ := values[slot.AltColumn].(string); current != "" {
			continue
		}
		files := in.Files[slot.Form]
		if len(files) == 0 {
			continue
		}
		text, err := s.describer.Describe(ctx, files[0].Data, files[0].ContentType)
		if err != nil {
			s.logger.Warn("alt text generation failed", "section", schema.Name, "error", err)
			continue
		}
		values[slot.AltColumn] = text
	}
}

// discard deletes objects this service's blob store issued. Foreign URLs are
// ignored and failures are only logged.
func (s *Service) discard(ctx context.Context, urls []string) {
	ctx = context.WithoutCancel(ctx)
	for _, u := range urls {
		bucket, key, ok := s.blobs.Locate(u)
		if !ok {
			continue
		}
		if err := s.blobs.Delete(ctx, bucket, key); err != nil && !errors.Is(err, blobstore.ErrNotFound) {
			s.logger.Error("failed to delete object", "bucket", bucket, "key", key, "error", err)
			continue
		}
		s.logger.Debug("object deleted", "bucket", bucket, "key", key)
	}
}

// checkFallbacks accepts a fallback URL when it is already stored in the
// slot, was issued by our blob store, or points at an allow-listed host.
func (s *Service) checkFallbacks(schema *Schema, existing *Record, vals url.Values) error {
	for _, slot := range schema.Images {
		var stored []string
		if existing != nil {
			stored = existing.slotURLs(slot)
		}
		for _, u := range fallbackURLs(slot, vals) {
			if slices.Contains(stored, u) {
				continue
			}
			if _, _, ok := s.blobs.Locate(u); ok {
				continue
			}
			if s.allowedHost(u) {
				continue
			}
			return &ValidationError{Message: fmt.Sprintf("%s is not an allowed image URL", slot.Fallback)}
		}
	}
	return nil
}

func (s *Service) allowedHost(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return false
	}
	return s.hosts[strings.ToLower(u.Hostname())]
}

// parseFields reads every non-image field and lists the required ones that
// are blank.
func parseFields(schema *Schema, vals url.Values) (map[string]any, []string) {
	values := make(map[string]any, len(schema.Fields)+len(schema.Images))
	var missing []string
	for _, f := range schema.Fields {
		raw := vals.Get(f.Name)
		if f.Required && strings.TrimSpace(raw) == "" {
			missing = append(missing, f.Name)
		}
		switch f.Kind {
		case Int:
			values[f.Name] = parseLenientInt(raw)
		case List:
			values[f.Name] = nonBlank(vals[f.Name])
		default:
			if raw == "" && f.Nullable {
				values[f.Name] = nil
			} else {
				values[f.Name] = raw
			}
		}
	}
	return values, missing
}

// parseLenientInt follows the admin form contract: anything that is not a
// finite number stores 0.
func parseLenientInt(raw string) int64 {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int64(f)
}

// fallbackURLs returns the non-blank URLs in slot's fallback field. A value
// may be a JSON array, as sent by the admin UI for multi-image slots.
func fallbackURLs(slot ImageSlot, vals url.Values) []string {
	if slot.Fallback == "" {
		return nil
	}
	var out []string
	for _, v := range vals[slot.Fallback] {
		v = strings.TrimSpace(v)
		if slot.Multiple && strings.HasPrefix(v, "[") {
			var list []string
			if err := json.Unmarshal([]byte(v), &list); err == nil {
				out = append(out, nonBlank(list)...)
				continue
			}
		}
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// baseURLs is what a slot holds when no new file is sent: the fallback field
// when the request carries it, else the stored value. A blank fallback keeps
// the stored URL of a single-image slot; a multi-image slot sent with an
// empty list is cleared.
func baseURLs(slot ImageSlot, existing *Record, vals url.Values) []string {
	if slot.Fallback != "" {
		if _, sent := vals[slot.Fallback]; sent {
			if urls := fallbackURLs(slot, vals); len(urls) > 0 || slot.Multiple {
				return urls
			}
		}
	}
	if existing != nil {
		return existing.slotURLs(slot)
	}
	return nil
}

func unreferenced(before, after []string) []string {
	var out []string
	for _, u := range before {
		if !slices.Contains(after, u) {
			out = append(out, u)
		}
	}
	return out
}

func nonBlank(in []string) []string {
	out := []string{}
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func firstOrEmpty(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[0]
}
