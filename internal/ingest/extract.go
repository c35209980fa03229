// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ingest

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"edukoder/internal/models"
)

// RawItem is one loosely typed item as returned by a provider.
type RawItem map[string]any

// Payload is the shape of a provider response: RawJSONArray,
// RawJSONObject, or PlainText.
type Payload interface {
	isPayload()
}

// RawJSONArray is a response that decoded to a JSON array.
type RawJSONArray []any

// RawJSONObject is a response that decoded to a JSON object.
type RawJSONObject map[string]any

// PlainText is a response with no usable JSON in it.
type PlainText string

func (RawJSONArray) isPayload()  {}
func (RawJSONObject) isPayload() {}
func (PlainText) isPayload()     {}

// Strategy names the extraction step that produced the items.
type Strategy string

const (
	StrategyNone      Strategy = ""
	StrategyJSON      Strategy = "json"
	StrategyFenced    Strategy = "fenced-json"
	StrategyTextSplit Strategy = "text-split"

	// StrategyLocalTemplate marks items synthesized by LocalArticle instead
	// of extracted from a provider response.
	StrategyLocalTemplate Strategy = "local-template"
)

// Extraction is the result of Extract. An Extraction with no items is the
// Empty result.
type Extraction struct {
	Items    []RawItem
	Strategy Strategy
}

// Empty reports whether nothing was extracted.
func (e Extraction) Empty() bool {
	return len(e.Items) == 0
}

// listKeys are the object keys searched for an item list, in order.
var listKeys = []string{"tutorials", "articles", "items", "data"}

var (
	fencedJSON   = regexp.MustCompile("(?is)```json[ \\t]*\\r?\\n?(.*?)```")
	separatorRow = regexp.MustCompile(`(?m)^[ \t]*-{3,}[ \t]*\r?$`)
)

// Classify decodes text as strict JSON, then as the first ```json fenced
// block. Anything else is PlainText.
func Classify(text string) Payload {
	p, _ := classify(text)
	return p
}

func classify(text string) (Payload, Strategy) {
	if p, ok := decodeJSON(text); ok {
		return p, StrategyJSON
	}
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		if p, ok := decodeJSON(m[1]); ok {
			return p, StrategyFenced
		}
	}
	return PlainText(text), StrategyTextSplit
}

// decodeJSON returns the array or object encoded in s. Scalars do not count.
func decodeJSON(s string) (Payload, bool) {
	var v any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &v); err != nil {
		return nil, false
	}
	switch t := v.(type) {
	case []any:
		return RawJSONArray(t), true
	case map[string]any:
		return RawJSONObject(t), true
	}
	return nil, false
}

// Extract turns a provider payload into items: a JSON array is used
// directly, a JSON object contributes the list under the first of
// tutorials/articles/items/data (or itself as a single item), and plain
// text is split on separator lines of three or more hyphens, one
// synthetic item per non-empty segment. Extract never fails.
func Extract(text string, kind models.ContentKind) Extraction {
	p, strategy := classify(text)

	switch v := p.(type) {
	case RawJSONArray:
		return Extraction{Items: toItems(v), Strategy: strategy}
	case RawJSONObject:
		for _, key := range listKeys {
			if list, ok := v[key].([]any); ok {
				return Extraction{Items: toItems(list), Strategy: strategy}
			}
		}
		return Extraction{Items: []RawItem{RawItem(v)}, Strategy: strategy}
	case PlainText:
		items := splitText(string(v), kind)
		if len(items) == 0 {
			return Extraction{}
		}
		return Extraction{Items: items, Strategy: StrategyTextSplit}
	}
	return Extraction{}
}

// toItems keeps objects as items and turns bare strings into content-only
// items. Other values are dropped.
func toItems(list []any) []RawItem {
	items := make([]RawItem, 0, len(list))
	for _, el := range list {
		switch v := el.(type) {
		case map[string]any:
			items = append(items, RawItem(v))
		case string:
			if s := strings.TrimSpace(v); s != "" {
				items = append(items, RawItem{"content": s})
			}
		}
	}
	return items
}

// splitText builds one synthetic item per separator-delimited segment.
func splitText(text string, kind models.ContentKind) []RawItem {
	var items []RawItem
	for _, seg := range separatorRow.Split(text, -1) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		n := len(items) + 1
		if kind == models.KindArticles {
			items = append(items, RawItem{
				"title":   fmt.Sprintf("Artículo %d", n),
				"content": seg,
				"tags":    []any{"general"},
				"excerpt": truncateRunes(seg, articleTextExcerpt),
			})
			continue
		}
		items = append(items, RawItem{
			"title":   fmt.Sprintf("Minitutorial %d", n),
			"content": seg,
		})
	}
	return items
}
