package feed

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"time"

	"github.com/feedmill/feedmill/app/cfg"
)

const rssDateLayout = "Mon, 02 Jan 2006 15:04:05"

// Fixed fallbacks for the three channel elements RSS 2.0 requires.
const (
	defaultTitle       = "Untitled Feed"
	defaultDescription = "Generated RSS Feed"
	defaultLink        = "https://example.com"
)

// Generator serializes Feed values back into RSS 2.0 XML. It is the inverse
// of Parser for the fields both sides understand: anything it emits parses
// back to the same Feed.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Run renders a Feed as RSS 2.0 XML. The required channel elements fall back
// to fixed defaults when absent so the output is always a valid channel;
// optional elements are emitted only when present. Run cannot fail.
func (g *Generator) Run(f *Feed) string {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", cmp.Or(f.Title, defaultTitle), 4)
	g.writeElement(&buf, "description", cmp.Or(f.Description, defaultDescription), 4)
	g.writeElement(&buf, "link", cmp.Or(f.Link, defaultLink), 4)
	g.writeElement(&buf, "language", f.Language, 4)
	g.writeElement(&buf, "copyright", f.Copyright, 4)
	g.writeElement(&buf, "managingEditor", f.Author, 4)

	if f.PubDate != nil {
		g.writeElement(&buf, "pubDate", formatDate(*f.PubDate), 4)
	}
	if f.LastBuildDate != nil {
		g.writeElement(&buf, "lastBuildDate", formatDate(*f.LastBuildDate), 4)
	}

	for _, category := range f.Categories {
		g.writeElement(&buf, "category", category, 4)
	}

	g.writeElement(&buf, "generator", fmt.Sprintf("feedmill/%s", cfg.GetVersion()), 4)

	if f.ImageURL != "" {
		buf.WriteString("    <image>\n")
		g.writeElement(&buf, "url", f.ImageURL, 6)
		g.writeElement(&buf, "title", cmp.Or(f.Title, defaultTitle), 6)
		g.writeElement(&buf, "link", cmp.Or(f.Link, defaultLink), 6)
		buf.WriteString("    </image>\n")
	}

	for _, item := range f.Items {
		g.writeItem(&buf, item)
	}

	buf.WriteString("  </channel>\n</rss>\n")

	return buf.String()
}

func (g *Generator) writeItem(buf *bytes.Buffer, item Item) {
	buf.WriteString("    <item>\n")

	g.writeElement(buf, "title", item.Title, 6)
	g.writeElement(buf, "link", item.Link, 6)

	if item.GUID != "" {
		buf.WriteString(fmt.Sprintf("      <guid isPermaLink=\"%t\">", isURL(item.GUID)))
		xml.EscapeText(buf, []byte(item.GUID))
		buf.WriteString("</guid>\n")
	}

	// Descriptions go out as CDATA so embedded markup and ampersands survive
	// the round-trip unescaped.
	if item.Description != "" {
		buf.WriteString("      <description><![CDATA[")
		buf.WriteString(item.Description)
		buf.WriteString("]]></description>\n")
	}

	if content, ok := item.Metadata["content"].(string); ok && content != "" && content != item.Description {
		buf.WriteString("      <content:encoded><![CDATA[")
		buf.WriteString(content)
		buf.WriteString("]]></content:encoded>\n")
	}

	g.writeElement(buf, "author", item.Author, 6)

	if item.PubDate != nil {
		g.writeElement(buf, "pubDate", formatDate(*item.PubDate), 6)
	}

	for _, category := range item.Categories {
		g.writeElement(buf, "category", category, 6)
	}

	for _, enc := range item.Enclosures {
		g.writeEnclosure(buf, enc)
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeEnclosure(buf *bytes.Buffer, enc Enclosure) {
	buf.WriteString("      <enclosure url=\"")
	buf.WriteString(html.EscapeString(enc.URL))
	buf.WriteString("\"")

	if enc.Type != "" {
		buf.WriteString(" type=\"")
		buf.WriteString(html.EscapeString(enc.Type))
		buf.WriteString("\"")
	}
	if enc.Length > 0 {
		buf.WriteString(fmt.Sprintf(" length=\"%d\"", enc.Length))
	}

	buf.WriteString(" />\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

// formatDate renders an instant in RFC 822 form from its UTC reading. The
// zone marker is always the literal "GMT", never a numeric offset.
func formatDate(t time.Time) string {
	return t.UTC().Format(rssDateLayout) + " GMT"
}

func isURL(s string) bool {
	return (len(s) > 7 && s[:7] == "http://") || (len(s) > 8 && s[:8] == "https://")
}
