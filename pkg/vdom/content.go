package vdom

// ContentMode selects how an element's content is rendered.
type ContentMode uint8

const (
	ContentNone     ContentMode = iota // No content configured
	ContentChildren                    // The child list is authoritative
	ContentText                        // Plain text
	ContentMarkup                      // Raw markup
)

// String returns the string representation of the ContentMode.
func (m ContentMode) String() string {
	switch m {
	case ContentNone:
		return "None"
	case ContentChildren:
		return "Children"
	case ContentText:
		return "Text"
	case ContentMarkup:
		return "Markup"
	default:
		return "Unknown"
	}
}

// Content is the configured content of an element. Exactly one mode is
// active; switching modes discards the previous value.
type Content struct {
	Mode  ContentMode
	Value string // Text or markup
}

// TextContent returns text content.
func TextContent(s string) Content {
	return Content{Mode: ContentText, Value: s}
}

// MarkupContent returns markup content.
func MarkupContent(s string) Content {
	return Content{Mode: ContentMarkup, Value: s}
}

// ChildContent returns child-list content.
func ChildContent() Content {
	return Content{Mode: ContentChildren}
}

// IsText reports whether the content is plain text.
func (c Content) IsText() bool { return c.Mode == ContentText }

// IsMarkup reports whether the content is raw markup.
func (c Content) IsMarkup() bool { return c.Mode == ContentMarkup }

// usesChildren reports whether the child list should be reconciled.
// An element with no configured content renders its (possibly empty)
// child list.
func (c Content) usesChildren() bool {
	return c.Mode == ContentNone || c.Mode == ContentChildren
}
