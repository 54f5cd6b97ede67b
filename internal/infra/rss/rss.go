// Package rss serializes assembled feeds as RSS 2.0 documents.
package rss

import (
	"bytes"
	"encoding/xml"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"
	"time"

	"newsfeed-hub/internal/usecase/feed"
)

// ContentType is the media type of the documents produced by Write.
const ContentType = "application/rss+xml; charset=utf-8"

const (
	nsAtom = "http://www.w3.org/2005/Atom"
	nsDC   = "http://purl.org/dc/elements/1.1/"

	defaultImageType = "image/jpeg"
)

type document struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	AtomNS  string   `xml:"xmlns:atom,attr"`
	DCNS    string   `xml:"xmlns:dc,attr"`
	Channel channel  `xml:"channel"`
}

type channel struct {
	Title         cdata    `xml:"title"`
	Description   cdata    `xml:"description"`
	Link          string   `xml:"link"`
	AtomLink      atomLink `xml:"atom:link"`
	Language      string   `xml:"language,omitempty"`
	Generator     string   `xml:"generator,omitempty"`
	LastBuildDate string   `xml:"lastBuildDate,omitempty"`
	Items         []item   `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type item struct {
	Title       cdata      `xml:"title"`
	Description cdata      `xml:"description"`
	Link        string     `xml:"link,omitempty"`
	GUID        *guid      `xml:"guid,omitempty"`
	Creator     cdata      `xml:"dc:creator"`
	Categories  []string   `xml:"category"`
	PubDate     string     `xml:"pubDate,omitempty"`
	Enclosure   *enclosure `xml:"enclosure,omitempty"`
}

type cdata struct {
	Text string `xml:",cdata"`
}

// text builds a cdata from s without the characters XML 1.0 forbids.
func text(s string) cdata {
	return cdata{clean(s)}
}

// clean repairs invalid UTF-8 and drops runes outside the XML Char production.
// The CDATA writer of encoding/xml copies its input unchecked.
func clean(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	return strings.Map(func(r rune) rune {
		if isXMLChar(r) {
			return r
		}
		return -1
	}, s)
}

func isXMLChar(r rune) bool {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

func cleanAll(ss []string) []string {
	if ss == nil {
		return nil
	}
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = clean(s)
	}
	return out
}

type guid struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type enclosure struct {
	URL    string `xml:"url,attr"`
	Type   string `xml:"type,attr"`
	Length int64  `xml:"length,attr"`
}

// Write encodes f as an indented RSS 2.0 document including the XML header.
func Write(w io.Writer, f *feed.Feed) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(toDocument(f)); err != nil {
		return err
	}
	return enc.Close()
}

// Marshal is Write into a byte slice.
func Marshal(f *feed.Feed) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toDocument(f *feed.Feed) document {
	ch := channel{
		Title:       text(f.Title),
		Description: text(f.Description),
		Link:        clean(f.Link),
		AtomLink:    atomLink{Href: f.SelfLink, Rel: "self", Type: "application/rss+xml"},
		Language:    f.Language,
		Generator:   f.Generator,
		Items:       make([]item, 0, len(f.Items)),
	}
	if !f.LastBuildDate.IsZero() {
		ch.LastBuildDate = formatDate(f.LastBuildDate)
	}
	for _, it := range f.Items {
		ch.Items = append(ch.Items, toItem(it))
	}
	return document{Version: "2.0", AtomNS: nsAtom, DCNS: nsDC, Channel: ch}
}

func toItem(it feed.Item) item {
	out := item{
		Title:       text(it.Title),
		Description: text(it.Description),
		Link:        clean(it.Link),
		Creator:     text(it.Author),
		Categories:  cleanAll(it.Categories),
	}
	if out.Link != "" {
		out.GUID = &guid{IsPermaLink: true, Value: out.Link}
	}
	if !it.PublishedAt.IsZero() {
		out.PubDate = formatDate(it.PublishedAt)
	}
	if it.ImageURL != "" {
		out.Enclosure = &enclosure{URL: clean(it.ImageURL), Type: ImageType(it.ImageURL)}
	}
	return out
}

func formatDate(t time.Time) string {
	return t.UTC().Format(time.RFC1123Z)
}

// ImageType guesses the MIME type of an image from its URL path, defaulting to image/jpeg.
func ImageType(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	ext := strings.ToLower(path.Ext(p))
	if ext == "" {
		return defaultImageType
	}
	if t := mime.TypeByExtension(ext); strings.HasPrefix(t, "image/") {
		if i := strings.IndexByte(t, ';'); i >= 0 {
			t = t[:i]
		}
		return t
	}
	return defaultImageType
}
