package book

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	tagChapter   = "Chapter"
	tagSeparator = "Separator"
	tagPartTitle = "PartTitle"

	keySections = "sections"
	keyItems    = "items"
)

// chapterJSON mirrors the fields mdBook serializes for a chapter.
type chapterJSON struct {
	Name        string        `json:"name"`
	Content     string        `json:"content"`
	Number      SectionNumber `json:"number"`
	SubItems    Items         `json:"sub_items"`
	Path        *string       `json:"path"`
	SourcePath  *string       `json:"source_path"`
	ParentNames []string      `json:"parent_names"`
}

var chapterKeys = []string{"name", "content", "number", "sub_items", "path", "source_path", "parent_names"}

// UnmarshalJSON decodes a chapter and keeps unknown fields in Extra.
func (c *Chapter) UnmarshalJSON(data []byte) error {
	var aux chapterJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range chapterKeys {
		delete(all, k)
	}

	*c = Chapter{
		Name:        aux.Name,
		Content:     aux.Content,
		Number:      aux.Number,
		SubItems:    aux.SubItems,
		Path:        aux.Path,
		SourcePath:  aux.SourcePath,
		ParentNames: aux.ParentNames,
	}
	if len(all) > 0 {
		c.Extra = all
	}
	return nil
}

// MarshalJSON encodes a chapter. Nil lists become [] because mdBook rejects null there.
func (c *Chapter) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(chapterKeys)+len(c.Extra))
	for k, v := range c.Extra {
		out[k] = v
	}
	parents := c.ParentNames
	if parents == nil {
		parents = []string{}
	}
	out["name"] = c.Name
	out["content"] = c.Content
	out["number"] = c.Number
	out["sub_items"] = c.SubItems
	out["path"] = c.Path
	out["source_path"] = c.SourcePath
	out["parent_names"] = parents
	return json.Marshal(out)
}

// UnmarshalJSON decodes externally tagged items: {"Chapter":{...}}, "Separator", {"PartTitle":"..."}.
func (items *Items) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	if raws == nil {
		*items = nil
		return nil
	}

	out := make(Items, 0, len(raws))
	for i, raw := range raws {
		item, err := decodeItem(raw)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, item)
	}
	*items = out
	return nil
}

func decodeItem(raw json.RawMessage) (Item, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var tag string
		if err := json.Unmarshal(raw, &tag); err != nil {
			return nil, err
		}
		if tag != tagSeparator {
			return nil, fmt.Errorf("unknown book item %q", tag)
		}
		return Separator{}, nil
	}

	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(raw, &tagged); err != nil {
		return nil, err
	}
	if len(tagged) != 1 {
		return nil, fmt.Errorf("book item must have exactly one variant, got %d", len(tagged))
	}
	for tag, body := range tagged {
		switch tag {
		case tagChapter:
			ch := &Chapter{}
			if err := json.Unmarshal(body, ch); err != nil {
				return nil, fmt.Errorf("chapter: %w", err)
			}
			return ch, nil
		case tagPartTitle:
			var title string
			if err := json.Unmarshal(body, &title); err != nil {
				return nil, fmt.Errorf("part title: %w", err)
			}
			return PartTitle{Title: title}, nil
		default:
			return nil, fmt.Errorf("unknown book item %q", tag)
		}
	}
	return nil, nil
}

// MarshalJSON encodes the items with mdBook's external tagging. A nil list encodes as [].
func (items Items) MarshalJSON() ([]byte, error) {
	out := make([]any, 0, len(items))
	for _, item := range items {
		switch it := item.(type) {
		case *Chapter:
			out = append(out, map[string]any{tagChapter: it})
		case Separator:
			out = append(out, tagSeparator)
		case PartTitle:
			out = append(out, map[string]string{tagPartTitle: it.Title})
		default:
			return nil, fmt.Errorf("unsupported book item %T", item)
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a book. The item list is read from "sections", or
// from "items" when a host uses that name; whichever is found is written back.
func (b *Book) UnmarshalJSON(data []byte) error {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	key := keySections
	raw, ok := all[keySections]
	if !ok {
		if raw, ok = all[keyItems]; ok {
			key = keyItems
		}
	}
	if !ok {
		return fmt.Errorf("book has neither %q nor %q", keySections, keyItems)
	}

	var items Items
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	delete(all, key)

	*b = Book{Sections: items, itemsKey: key}
	if len(all) > 0 {
		b.Extra = all
	}
	return nil
}

// MarshalJSON encodes the book with its preserved top-level fields.
func (b *Book) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(b.Extra)+1)
	for k, v := range b.Extra {
		out[k] = v
	}
	key := b.itemsKey
	if key == "" {
		key = keySections
	}
	out[key] = b.Sections
	return json.Marshal(out)
}
