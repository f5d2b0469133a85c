package extract

import "strings"

// Delimiter separates independent sections inside generated text. It is
// also the highest-priority chunk boundary, so sections from different
// fields do not bleed into one chunk.
const Delimiter = "\n---\n"

// Content is the extraction result for one entity: prose sections for
// embedding, and metadata lines kept alongside the context.
type Content struct {
	Prose    []string
	Metadata []string
}

// IsEmpty reports whether extraction produced nothing usable. Empty
// content is a skip signal for ingestion, not an error.
func (c *Content) IsEmpty() bool {
	return len(c.Prose) == 0 && len(c.Metadata) == 0
}

// ProseText returns the prose sections joined with the delimiter.
func (c *Content) ProseText() string {
	return strings.Join(c.Prose, Delimiter)
}

// MetadataText returns the metadata sections joined with the delimiter.
func (c *Content) MetadataText() string {
	return strings.Join(c.Metadata, Delimiter)
}

func (c *Content) addProse(text string) {
	text = strings.TrimSpace(text)
	if text != "" {
		c.Prose = append(c.Prose, text)
	}
}

// addLabeledProse prefixes the section with its field label so the
// generated text stays self-describing after chunking.
func (c *Content) addLabeledProse(label, text string) {
	text = strings.TrimSpace(text)
	if text != "" {
		c.Prose = append(c.Prose, label+": "+text)
	}
}

func (c *Content) addMeta(label, value string) {
	value = strings.TrimSpace(value)
	if value != "" {
		c.Metadata = append(c.Metadata, label+": "+value)
	}
}

func (c *Content) addMetaList(label string, values []string) {
	c.addMeta(label, strings.Join(values, ", "))
}
