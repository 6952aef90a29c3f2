package vault

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/wikivault/internal/model"
)

// reservedFrontmatterKeys are keys the renderer itself emits; infobox
// fields with colliding names are skipped rather than producing duplicate
// YAML keys.
var reservedFrontmatterKeys = map[string]bool{
	"title":   true,
	"tags":    true,
	"infobox": true,
}

// RenderDocument serializes a document to its on-disk form: a YAML
// frontmatter block, a blank line, and the Markdown body. Redirect
// pointer documents are a single body line with no frontmatter.
//
// Design decision: the frontmatter is built as a yaml.Node mapping rather
// than marshalling a map, because infobox fields must appear in their
// source order and Go maps would randomize them.
func RenderDocument(doc *model.Document) ([]byte, error) {
	if doc.Pointer {
		return []byte(doc.Body + "\n"), nil
	}

	mapping := &yaml.Node{Kind: yaml.MappingNode}
	appendPair(mapping, "title", scalar(doc.Title))

	tags := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, tag := range doc.Tags {
		tags.Content = append(tags.Content, scalar(tag))
	}
	appendPair(mapping, "tags", tags)

	if doc.Infobox != nil {
		if doc.Infobox.Type != "" {
			appendPair(mapping, "infobox", scalar(doc.Infobox.Type))
		}
		seen := make(map[string]bool)
		for _, field := range doc.Infobox.Fields {
			if reservedFrontmatterKeys[field.Key] || seen[field.Key] {
				continue
			}
			seen[field.Key] = true
			appendPair(mapping, field.Key, scalar(field.Value))
		}
	}

	front, err := yaml.Marshal(mapping)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal frontmatter for %q: %w", doc.Title, err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(front)
	buf.WriteString("---\n\n")
	buf.WriteString(doc.Body)
	if doc.Body != "" {
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// appendPair appends a key/value pair to a YAML mapping node.
func appendPair(mapping *yaml.Node, key string, value *yaml.Node) {
	mapping.Content = append(mapping.Content, scalar(key), value)
}

// scalar returns a plain scalar node. The encoder quotes values that
// need it, such as wikilinks starting with square brackets.
func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}
