package web

import (
	"strings"

	"github.com/vbonduro/atelier/internal/content"
)

// adminSection drives the generic admin page for one schema. It is rendered
// into the page as JSON and read by static/admin.js.
type adminSection struct {
	Name      string       `json:"name"`
	Title     string       `json:"title"`
	ListURL   string       `json:"listUrl"`
	ListKey   string       `json:"listKey,omitempty"`
	WriteURL  string       `json:"writeUrl"`
	Type      string       `json:"type,omitempty"`
	Singleton bool         `json:"singleton"`
	Fields    []adminField `json:"fields"`
	Images    []adminImage `json:"images"`
}

type adminField struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	Required  bool   `json:"required"`
	Multiline bool   `json:"multiline"`
	Number    bool   `json:"number"`
}

type adminImage struct {
	Form     string `json:"form"`
	Fallback string `json:"fallback,omitempty"`
	Column   string `json:"column"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
	Multiple bool   `json:"multiple"`
}

var adminSections = []adminSection{
	newAdminSection(content.Hero, "Hero image", "/api/hero", "", "/api/hero", ""),
	newAdminSection(content.Intro, "Intro", "/api/intro-section", "", "/api/intro-section", ""),
	newAdminSection(content.Emotion, "Emotion", "/api/emotion-section", "", "/api/emotion-section", ""),
	newAdminSection(content.Layers, "Layers", "/api/layers-section", "", "/api/layers-section", ""),
	newAdminSection(content.About, "About", "/api/about-section", "", "/api/about-section", ""),
	newAdminSection(content.LatestCreations, "Latest creations", "/api/latest-creations", "", "/api/latest-creations", ""),
	newAdminSection(content.Services, "Services", "/api/services", "services", "/api/services", "service"),
	newAdminSection(content.Renovations, "Renovations", "/api/services", "renovations", "/api/services", "renovation"),
	newAdminSection(content.Projects, "Projects", "/api/projects", "projects", "/api/projects", ""),
}

func newAdminSection(schema *content.Schema, title, listURL, listKey, writeURL, kind string) adminSection {
	sec := adminSection{
		Name:      schema.Name,
		Title:     title,
		ListURL:   listURL,
		ListKey:   listKey,
		WriteURL:  writeURL,
		Type:      kind,
		Singleton: schema.Singleton,
		Fields:    []adminField{},
		Images:    []adminImage{},
	}
	for _, f := range schema.Fields {
		sec.Fields = append(sec.Fields, adminField{
			Name:      f.Name,
			Label:     label(f.Name),
			Required:  f.Required,
			Multiline: multiline(f.Name),
			Number:    f.Kind == content.Int,
		})
	}
	for _, img := range schema.Images {
		sec.Images = append(sec.Images, adminImage{
			Form:     img.Form,
			Fallback: img.Fallback,
			Column:   img.Column,
			Label:    label(img.Column),
			Required: img.Required,
			Multiple: img.Multiple,
		})
	}
	return sec
}

func findAdminSection(name string) (adminSection, bool) {
	for _, sec := range adminSections {
		if sec.Name == name {
			return sec, true
		}
	}
	return adminSection{}, false
}

// label turns a column name like description_1 into "Description 1".
func label(column string) string {
	s := strings.ReplaceAll(column, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func multiline(field string) bool {
	return strings.HasPrefix(field, "description") || strings.HasPrefix(field, "list") || field == "comment"
}
