package book

import "encoding/json"

// Walk visits every item in pre-order, descending into chapter sub-items.
func (b *Book) Walk(fn func(Item)) {
	walkItems(b.Sections, fn)
}

func walkItems(items Items, fn func(Item)) {
	for _, item := range items {
		fn(item)
		if ch, ok := item.(*Chapter); ok {
			walkItems(ch.SubItems, fn)
		}
	}
}

// ForEachChapter visits every chapter in pre-order. Separators and part titles are skipped.
func (b *Book) ForEachChapter(fn func(*Chapter)) {
	b.Walk(func(item Item) {
		if ch, ok := item.(*Chapter); ok {
			fn(ch)
		}
	})
}

// Chapters returns every chapter in pre-order.
func (b *Book) Chapters() []*Chapter {
	var out []*Chapter
	b.ForEachChapter(func(ch *Chapter) {
		out = append(out, ch)
	})
	return out
}

// Clone returns a deep copy of the book.
func (b *Book) Clone() *Book {
	out := &Book{
		Sections: cloneItems(b.Sections),
		itemsKey: b.itemsKey,
	}
	if b.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(b.Extra))
		for k, v := range b.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

func cloneItems(items Items) Items {
	if items == nil {
		return nil
	}
	out := make(Items, len(items))
	for i, item := range items {
		switch it := item.(type) {
		case *Chapter:
			out[i] = it.clone()
		default:
			out[i] = it
		}
	}
	return out
}

func (c *Chapter) clone() *Chapter {
	out := *c
	out.Number = c.Number.Clone()
	out.SubItems = cloneItems(c.SubItems)
	if c.Path != nil {
		p := *c.Path
		out.Path = &p
	}
	if c.SourcePath != nil {
		p := *c.SourcePath
		out.SourcePath = &p
	}
	if c.ParentNames != nil {
		out.ParentNames = append([]string(nil), c.ParentNames...)
	}
	if c.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(c.Extra))
		for k, v := range c.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &out
}
