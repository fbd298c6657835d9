package feed

import (
	"encoding/xml"
	"strconv"
	"strings"
	"time"

	"github.com/feedmill/feedmill/app/datetime"
)

type rssDocument struct {
	XMLName xml.Name    `xml:"rss"`
	Channel *rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title          string    `xml:"title"`
	Description    string    `xml:"description"`
	Link           string    `xml:"link"`
	Language       string    `xml:"language"`
	Copyright      string    `xml:"copyright"`
	ManagingEditor string    `xml:"managingEditor"`
	PubDate        string    `xml:"pubDate"`
	LastBuildDate  string    `xml:"lastBuildDate"`
	Image          rssImage  `xml:"image"`
	Categories     []string  `xml:"category"`
	Items          []rssItem `xml:"item"`
}

type rssImage struct {
	URL string `xml:"url"`
}

type rssItem struct {
	Title       string         `xml:"title"`
	Description string         `xml:"description"`
	Link        string         `xml:"link"`
	GUID        string         `xml:"guid"`
	Author      string         `xml:"author"`
	PubDate     string         `xml:"pubDate"`
	Content     string         `xml:"http://purl.org/rss/1.0/modules/content/ encoded"`
	Categories  []string       `xml:"category"`
	Enclosures  []rssEnclosure `xml:"enclosure"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Type   string `xml:"type,attr"`
	Length string `xml:"length,attr"`
}

// Parser turns RSS 2.0 documents into Feed values. It is stateless and safe
// for concurrent use.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Run parses an RSS 2.0 XML document. Structural problems (not XML, wrong
// root, no channel) return a *ParseError and no Feed. Everything below the
// channel is handled leniently: unparseable dates, non-numeric enclosure
// lengths and whitespace-only text become absent fields instead of errors,
// because feeds in the wild are frequently broken in minor ways.
func (p *Parser) Run(data []byte) (*Feed, error) {
	var probe struct {
		XMLName xml.Name
	}
	if err := xml.Unmarshal(data, &probe); err != nil {
		return nil, &ParseError{
			Kind:    ParseErrorMalformedXML,
			Message: "document is not well-formed XML: " + err.Error(),
			Excerpt: excerpt(data),
		}
	}
	if probe.XMLName.Local != "rss" {
		return nil, &ParseError{
			Kind:    ParseErrorMissingRoot,
			Message: "document root is <" + probe.XMLName.Local + ">, expected <rss>",
			Excerpt: excerpt(data),
		}
	}

	var doc rssDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{
			Kind:    ParseErrorMalformedXML,
			Message: "failed to decode document: " + err.Error(),
			Excerpt: excerpt(data),
		}
	}
	if doc.Channel == nil {
		return nil, &ParseError{
			Kind:    ParseErrorMissingChannel,
			Message: "<rss> element has no <channel>",
			Excerpt: excerpt(data),
		}
	}

	ch := doc.Channel
	result := &Feed{
		Title:         text(ch.Title),
		Description:   text(ch.Description),
		Link:          text(ch.Link),
		Language:      text(ch.Language),
		Copyright:     text(ch.Copyright),
		Author:        text(ch.ManagingEditor),
		ImageURL:      text(ch.Image.URL),
		PubDate:       parseDate(ch.PubDate),
		LastBuildDate: parseDate(ch.LastBuildDate),
		Categories:    textList(ch.Categories),
		Format:        FormatRSS2,
		Metadata:      map[string]any{},
	}

	result.Items = make([]Item, 0, len(ch.Items))
	for _, ri := range ch.Items {
		result.Items = append(result.Items, p.normalizeItem(ri))
	}

	return result, nil
}

func (p *Parser) normalizeItem(ri rssItem) Item {
	item := Item{
		Title:       text(ri.Title),
		Description: text(ri.Description),
		Link:        text(ri.Link),
		GUID:        text(ri.GUID),
		Author:      text(ri.Author),
		PubDate:     parseDate(ri.PubDate),
		Categories:  textList(ri.Categories),
		Metadata:    map[string]any{},
	}

	for _, re := range ri.Enclosures {
		item.Enclosures = append(item.Enclosures, normalizeEnclosure(re))
	}

	if content := strings.TrimSpace(ri.Content); content != "" {
		item.Metadata["content"] = content
	}

	item.ContentHash = ContentHash(item.Title, item.Description, item.Link)

	return item
}

func normalizeEnclosure(re rssEnclosure) Enclosure {
	enc := Enclosure{
		URL:  re.URL,
		Type: re.Type,
	}

	// A length attribute that does not parse as an integer is dropped, not
	// an error.
	if re.Length != "" {
		if length, err := strconv.ParseInt(strings.TrimSpace(re.Length), 10, 64); err == nil {
			enc.Length = length
		}
	}

	return enc
}

// text treats all-whitespace content as an absent field.
func text(s string) string {
	return strings.TrimSpace(s)
}

func textList(values []string) []string {
	var out []string
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseDate(value string) *time.Time {
	if t, ok := datetime.Resolve(value); ok {
		return &t
	}
	return nil
}

func excerpt(data []byte) string {
	const max = 120

	s := strings.TrimSpace(string(data))
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
