package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

type opmlDocument struct {
	XMLName xml.Name `xml:"opml"`
	Body    opmlBody `xml:"body"`
}

type opmlBody struct {
	Outlines []opmlOutline `xml:"outline"`
}

type opmlOutline struct {
	Text     string        `xml:"text,attr"`
	Title    string        `xml:"title,attr"`
	Type     string        `xml:"type,attr"`
	XMLURL   string        `xml:"xmlUrl,attr"`
	Category string        `xml:"category,attr"`
	Children []opmlOutline `xml:"outline"`
}

// LoadOPML reads feed subscriptions from an OPML file. Outlines without an
// xmlUrl attribute are treated as folders and their children are flattened.
func LoadOPML(path string) ([]Subscription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read OPML file: %w", err)
	}
	return ParseOPML(data)
}

func ParseOPML(data []byte) ([]Subscription, error) {
	if !strings.Contains(strings.ToLower(string(data)), "<opml") {
		return nil, fmt.Errorf("not an OPML document")
	}

	var doc opmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse OPML: %w", err)
	}

	var subs []Subscription
	collectOutlines(doc.Body.Outlines, "", &subs)
	return subs, nil
}

func collectOutlines(outlines []opmlOutline, parentCategory string, subs *[]Subscription) {
	for _, o := range outlines {
		if o.XMLURL != "" {
			*subs = append(*subs, Subscription{
				Text:     o.Text,
				Title:    firstNonEmpty(o.Title, o.Text),
				URL:      o.XMLURL,
				Type:     firstNonEmpty(o.Type, "rss"),
				Category: firstNonEmpty(o.Category, parentCategory, "article"),
			})
			continue
		}
		// Folder outline: its text becomes the category for children
		collectOutlines(o.Children, firstNonEmpty(o.Text, parentCategory), subs)
	}
}
