package site

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/atelier/internal/content"
)

// fakeSections serves canned records per schema and fails the schemas listed
// in failing.
type fakeSections struct {
	mu      sync.Mutex
	records map[string][]*content.Record
	failing map[string]bool
	calls   map[string]int
}

func newFakeSections() *fakeSections {
	return &fakeSections{
		records: map[string][]*content.Record{},
		failing: map[string]bool{},
		calls:   map[string]int{},
	}
}

func (f *fakeSections) record(schema *content.Schema) ([]*content.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[schema.Name]++
	if f.failing[schema.Name] {
		return nil, errors.New("database unavailable")
	}
	return f.records[schema.Name], nil
}

func (f *fakeSections) List(_ context.Context, schema *content.Schema) ([]*content.Record, error) {
	recs, err := f.record(schema)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []*content.Record{}
	}
	return recs, nil
}

func (f *fakeSections) Get(_ context.Context, schema *content.Schema, id int64) (*content.Record, error) {
	recs, err := f.record(schema)
	if err != nil {
		return nil, err
	}
	for _, r := range recs {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, content.ErrNotFound
}

func (f *fakeSections) Top(_ context.Context, schema *content.Schema) (*content.Record, error) {
	recs, err := f.record(schema)
	if err != nil || len(recs) == 0 {
		return nil, err
	}
	return recs[0], nil
}

func rec(id int64, kv ...string) *content.Record {
	r := &content.Record{ID: id, Version: 1, Values: map[string]any{}}
	for i := 0; i+1 < len(kv); i += 2 {
		r.Values[kv[i]] = kv[i+1]
	}
	return r
}

func TestHomeLoadsEverySection(t *testing.T) {
	f := newFakeSections()
	f.records[content.Hero.Name] = []*content.Record{rec(3, "image_url", "https://cdn.test/hero.jpg")}
	f.records[content.Intro.Name] = []*content.Record{rec(1, "heading", "Welcome"), rec(2, "heading", "Second")}
	f.records[content.Emotion.Name] = []*content.Record{rec(1, "heading", "Feel")}
	f.records[content.Layers.Name] = []*content.Record{rec(1, "heading", "Layers")}
	f.records[content.About.Name] = []*content.Record{rec(1, "heading", "About")}
	f.records[content.LatestCreations.Name] = []*content.Record{rec(1, "title", "A"), rec(2, "title", "B")}

	home := NewLoader(f, slog.Default()).Home(context.Background())

	assert.Equal(t, "https://cdn.test/hero.jpg", home.HeroImage)
	require.NotNil(t, home.Intro)
	assert.Equal(t, "Welcome", home.Intro.String("heading"))
	require.NotNil(t, home.Emotion)
	require.NotNil(t, home.Layers)
	require.NotNil(t, home.About)
	assert.Len(t, home.Latest, 2)
}

func TestHomeEmptyUsesPlaceholderHero(t *testing.T) {
	home := NewLoader(newFakeSections(), slog.Default()).Home(context.Background())

	assert.Equal(t, PlaceholderImage, home.HeroImage)
	assert.Nil(t, home.Intro)
	assert.Nil(t, home.About)
	assert.Empty(t, home.Latest)
}

func TestHomeFailedSectionIsOmitted(t *testing.T) {
	f := newFakeSections()
	f.records[content.Intro.Name] = []*content.Record{rec(1, "heading", "Welcome")}
	f.records[content.About.Name] = []*content.Record{rec(1, "heading", "About")}
	f.failing[content.About.Name] = true
	f.failing[content.Hero.Name] = true

	home := NewLoader(f, slog.Default()).Home(context.Background())

	assert.Equal(t, PlaceholderImage, home.HeroImage)
	require.NotNil(t, home.Intro)
	assert.Nil(t, home.About)
	assert.Equal(t, 1, f.calls[content.LatestCreations.Name])
}

func TestServicesPositionsCarousel(t *testing.T) {
	f := newFakeSections()
	f.records[content.Services.Name] = []*content.Record{rec(1, "title", "Kitchens")}
	f.records[content.Renovations.Name] = []*content.Record{rec(1), rec(2), rec(3)}
	l := NewLoader(f, slog.Default())

	page := l.Services(context.Background(), 1)
	assert.Len(t, page.Services, 1)
	assert.Len(t, page.Renovations, 3)
	assert.Equal(t, CarouselView{Active: 1, Prev: 0, Next: 2, HasPrev: true, HasNext: true}, page.Carousel)

	page = l.Services(context.Background(), 99)
	assert.Equal(t, 2, page.Carousel.Active)
	assert.False(t, page.Carousel.HasNext)
}

func TestServicesFailedTableRendersEmpty(t *testing.T) {
	f := newFakeSections()
	f.records[content.Services.Name] = []*content.Record{rec(1, "title", "Kitchens")}
	f.failing[content.Renovations.Name] = true

	page := NewLoader(f, slog.Default()).Services(context.Background(), 0)
	assert.Len(t, page.Services, 1)
	assert.Empty(t, page.Renovations)
	assert.Equal(t, CarouselView{}, page.Carousel)
}

func TestProject(t *testing.T) {
	f := newFakeSections()
	f.records[content.Projects.Name] = []*content.Record{rec(7, "title", "Loft")}
	l := NewLoader(f, slog.Default())

	p, err := l.Project(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Loft", p.String("title"))

	_, err = l.Project(context.Background(), 8)
	assert.ErrorIs(t, err, content.ErrNotFound)

	all, err := l.Portfolio(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestImageOr(t *testing.T) {
	assert.Equal(t, PlaceholderImage, ImageOr(""))
	assert.Equal(t, "https://cdn.test/a.jpg", ImageOr("https://cdn.test/a.jpg"))
}
