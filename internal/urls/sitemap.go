package urls

import (
	"encoding/xml"
	"time"

	"github.com/goliatone/go-sitecms/pkg/shared"
)

// SitemapEntry is one page of the public site.
type SitemapEntry struct {
	Route    string
	Slug     string
	Modified time.Time
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	XMLNS   string     `xml:"xmlns,attr"`
	XHTML   string     `xml:"xmlns:xhtml,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string      `xml:"loc"`
	LastMod    string      `xml:"lastmod,omitempty"`
	Alternates []alternate `xml:"xhtml:link"`
}

type alternate struct {
	Rel      string `xml:"rel,attr"`
	HrefLang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// Sitemap renders entries as a sitemaps.org document with one <url> per
// locale and hreflang alternates linking the translations.
func (r *Resolver) Sitemap(entries []SitemapEntry) ([]byte, error) {
	set := urlSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		XHTML: "http://www.w3.org/1999/xhtml",
	}
	for _, entry := range entries {
		alternates, err := r.Alternates(entry.Route, entry.Slug)
		if err != nil {
			return nil, err
		}
		links := make([]alternate, 0, len(alternates))
		for _, locale := range shared.SupportedLocales {
			links = append(links, alternate{Rel: "alternate", HrefLang: string(locale), Href: alternates[locale]})
		}
		lastMod := ""
		if !entry.Modified.IsZero() {
			lastMod = entry.Modified.UTC().Format("2006-01-02")
		}
		for _, locale := range shared.SupportedLocales {
			set.URLs = append(set.URLs, urlEntry{
				Loc:        alternates[locale],
				LastMod:    lastMod,
				Alternates: links,
			})
		}
	}
	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
