package model

import (
	"time"
)

// Category values the catalog accepts. The site is Turkish, so are the labels.
const (
	CategoryMobileApp     = "Mobil Uygulama"
	CategoryWebsite       = "Web Sitesi"
	CategoryCorporateSite = "Kurumsal Site"
	CategoryPersonalSite  = "Bireysel Site"
	CategoryViralSite     = "Viral Site"
)

var validCategories = map[string]struct{}{
	CategoryMobileApp:     {},
	CategoryWebsite:       {},
	CategoryCorporateSite: {},
	CategoryPersonalSite:  {},
	CategoryViralSite:     {},
}

// IsValidCategory reports whether c is one of the recognized category labels.
func IsValidCategory(c string) bool {
	_, ok := validCategories[c]
	return ok
}

type Project struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	ImageURL     *string   `json:"image_url"`
	LiveURL      string    `json:"live_url"`
	GithubURL    string    `json:"github_url"`
	Technologies string    `json:"technologies"`
	Price        string    `json:"price"`
	Featured     bool      `json:"featured"`
	CreatedAt    time.Time `json:"created_at"`
}
