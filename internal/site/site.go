// Package site loads the data behind the public pages.
package site

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vbonduro/atelier/internal/content"
)

// PlaceholderImage is shown wherever a section has no image yet.
const PlaceholderImage = "/static/placeholder.svg"

// sectionReader is the subset of content.Service the loaders require.
type sectionReader interface {
	List(ctx context.Context, schema *content.Schema) ([]*content.Record, error)
	Get(ctx context.Context, schema *content.Schema, id int64) (*content.Record, error)
	Top(ctx context.Context, schema *content.Schema) (*content.Record, error)
}

// Home is the home page. Nil sections were empty or failed to load and are
// not rendered.
type Home struct {
	HeroImage string
	Intro     *content.Record
	Emotion   *content.Record
	Layers    *content.Record
	About     *content.Record
	Latest    []*content.Record
}

// ServicesPage is the services grid plus the renovation carousel.
type ServicesPage struct {
	Services    []*content.Record
	Renovations []*content.Record
	Carousel    CarouselView
}

type Loader struct {
	content sectionReader
	logger  *slog.Logger
}

func NewLoader(content sectionReader, logger *slog.Logger) *Loader {
	return &Loader{content: content, logger: logger}
}

// Home loads every home page section concurrently. A section that fails is
// logged and left out; the page itself always renders.
func (l *Loader) Home(ctx context.Context) *Home {
	home := &Home{HeroImage: PlaceholderImage}

	var wg sync.WaitGroup
	wg.Add(6)
	go func() {
		defer wg.Done()
		if rec := l.top(ctx, content.Hero); rec != nil && rec.String("image_url") != "" {
			home.HeroImage = rec.String("image_url")
		}
	}()
	go func() {
		defer wg.Done()
		home.Intro = l.first(ctx, content.Intro)
	}()
	go func() {
		defer wg.Done()
		home.Emotion = l.first(ctx, content.Emotion)
	}()
	go func() {
		defer wg.Done()
		home.Layers = l.first(ctx, content.Layers)
	}()
	go func() {
		defer wg.Done()
		home.About = l.first(ctx, content.About)
	}()
	go func() {
		defer wg.Done()
		home.Latest = l.list(ctx, content.LatestCreations)
	}()
	wg.Wait()

	return home
}

// Services loads both service tables and positions the carousel at slide.
func (l *Loader) Services(ctx context.Context, slide int) *ServicesPage {
	page := &ServicesPage{}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		page.Services = l.list(ctx, content.Services)
	}()
	go func() {
		defer wg.Done()
		page.Renovations = l.list(ctx, content.Renovations)
	}()
	wg.Wait()

	c := NewCarousel(len(page.Renovations), 0)
	c.Jump(slide)
	page.Carousel = c.View()
	return page
}

// Portfolio returns every project, newest first.
func (l *Loader) Portfolio(ctx context.Context) ([]*content.Record, error) {
	return l.content.List(ctx, content.Projects)
}

// Project returns one project or content.ErrNotFound.
func (l *Loader) Project(ctx context.Context, id int64) (*content.Record, error) {
	return l.content.Get(ctx, content.Projects, id)
}

func (l *Loader) top(ctx context.Context, schema *content.Schema) *content.Record {
	rec, err := l.content.Top(ctx, schema)
	if err != nil {
		l.logger.Error("failed to load section", "section", schema.Name, "error", err)
		return nil
	}
	return rec
}

// first returns the first record the public list endpoint would return.
func (l *Loader) first(ctx context.Context, schema *content.Schema) *content.Record {
	recs := l.list(ctx, schema)
	if len(recs) == 0 {
		return nil
	}
	return recs[0]
}

func (l *Loader) list(ctx context.Context, schema *content.Schema) []*content.Record {
	recs, err := l.content.List(ctx, schema)
	if err != nil {
		l.logger.Error("failed to load section", "section", schema.Name, "error", err)
		return nil
	}
	return recs
}

// ImageOr returns url, or the placeholder when url is blank.
func ImageOr(url string) string {
	if url == "" {
		return PlaceholderImage
	}
	return url
}
