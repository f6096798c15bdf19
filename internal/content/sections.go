package content

const (
	heroBucket       = "hero-images"
	serviceBucket    = "service-images"
	renovationBucket = "renovation-images"
	projectBucket    = "project-images"
)

var (
	Hero = &Schema{
		Name:   "hero",
		Table:  "hero_settings",
		Bucket: heroBucket,
		Images: []ImageSlot{
			{Column: "image_url", Form: "file", Required: true},
		},
		Order: Order{Column: "created_at", Desc: true},
	}

	Intro = &Schema{
		Name:   "intro-section",
		Table:  "intro_section",
		Bucket: heroBucket,
		Fields: []Field{
			{Name: "heading", Required: true},
			{Name: "description"},
		},
		Images: []ImageSlot{
			{Column: "image_url", Form: "image", Fallback: "image_url"},
		},
		Order:     Order{Column: "id"},
		Singleton: true,
	}

	About = &Schema{
		Name:   "about-section",
		Table:  "about_section",
		Bucket: heroBucket,
		Fields: []Field{
			{Name: "heading", Required: true},
			{Name: "description_1"},
			{Name: "description_2"},
		},
		Images: []ImageSlot{
			{Column: "image_url", Form: "image", Fallback: "image_url", Prefix: "about-section"},
		},
		Order:     Order{Column: "id"},
		Singleton: true,
	}

	Emotion = &Schema{
		Name:   "emotion-section",
		Table:  "emotion_section",
		Bucket: heroBucket,
		Fields: []Field{
			{Name: "heading", Required: true},
			{Name: "subheading"},
			{Name: "description"},
		},
		Images: []ImageSlot{
			{Column: "image_left", Form: "image_left", Fallback: "image_left_url", Prefix: "emotion-left"},
			{Column: "image_right", Form: "image_right", Fallback: "image_right_url", Prefix: "emotion-right"},
		},
		Order:     Order{Column: "id"},
		Singleton: true,
	}

	Layers = &Schema{
		Name:   "layers-section",
		Table:  "layers_section",
		Bucket: heroBucket,
		Fields: []Field{
			{Name: "heading", Required: true},
			{Name: "tagline"},
			{Name: "description"},
			{Name: "list_items"},
		},
		Images: []ImageSlot{
			{Column: "image_top", Form: "image_top", Fallback: "image_top_url", Prefix: "layers-top"},
			{Column: "image_bottom", Form: "image_bottom", Fallback: "image_bottom_url", Prefix: "layers-bottom"},
		},
		Order:     Order{Column: "id"},
		Singleton: true,
	}

	LatestCreations = &Schema{
		Name:   "latest-creations",
		Table:  "latest_creations",
		Bucket: heroBucket,
		Fields: []Field{
			{Name: "title", Required: true},
			{Name: "comment"},
			{Name: "alt_text"},
			{Name: "sort_order", Kind: Int},
		},
		Images: []ImageSlot{
			{Column: "image_url", Form: "image", Fallback: "image_url", Prefix: "latest-creations", Required: true, AltColumn: "alt_text"},
		},
		Order: Order{Column: "sort_order"},
	}

	Services = &Schema{
		Name:   "services",
		Table:  "services",
		Bucket: serviceBucket,
		Fields: []Field{
			{Name: "title", Required: true},
			{Name: "description", Required: true},
			{Name: "alt"},
		},
		Images: []ImageSlot{
			{Column: "image_url", Form: "file", Fallback: "image_url", Required: true, AltColumn: "alt"},
		},
		Order: Order{Column: "created_at"},
	}

	Renovations = &Schema{
		Name:   "renovations",
		Table:  "renovations",
		Bucket: renovationBucket,
		Fields: []Field{
			{Name: "title", Required: true},
			{Name: "description", Required: true},
		},
		Images: []ImageSlot{
			{Column: "image_url", Form: "file", Fallback: "image_url", Required: true},
		},
		Order: Order{Column: "created_at"},
	}

	Projects = &Schema{
		Name:   "projects",
		Table:  "projects",
		Bucket: projectBucket,
		Fields: []Field{
			{Name: "title", Required: true},
			{Name: "description", Required: true},
			{Name: "heading", Nullable: true},
			{Name: "list", Nullable: true},
			{Name: "location", Required: true},
		},
		Images: []ImageSlot{
			{Column: "images", Form: "images", Fallback: "existing_images", Required: true, Multiple: true},
		},
		Order: Order{Column: "created_at", Desc: true},
	}
)

// Sections are the schemas served by the generic section routes.
var Sections = []*Schema{Intro, About, Emotion, Layers, LatestCreations}

// Lookup finds any known schema by route name.
func Lookup(name string) (*Schema, bool) {
	for _, s := range []*Schema{Hero, Intro, About, Emotion, Layers, LatestCreations, Services, Renovations, Projects} {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}
