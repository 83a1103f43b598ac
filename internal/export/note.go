// Package export writes resolved narrations to disk as markdown notes with
// YAML frontmatter or as a single JSON document.
package export

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/sanad/internal/hadith"
)

// frontmatter keeps its keys sorted so repeated exports are byte-identical.
type frontmatter struct {
	fields map[string]any
	keys   []string
}

func newFrontmatter() *frontmatter {
	return &frontmatter{fields: make(map[string]any)}
}

func (f *frontmatter) set(key string, value any) {
	if _, exists := f.fields[key]; !exists {
		f.keys = append(f.keys, key)
		sort.Strings(f.keys)
	}
	f.fields[key] = value
}

// setIf skips zero values so notes stay free of empty keys.
func (f *frontmatter) setIf(key string, value any) {
	switch v := value.(type) {
	case string:
		if v == "" {
			return
		}
	case int:
		if v == 0 {
			return
		}
	}
	f.set(key, value)
}

// MarshalYAML writes tags in flow style: [a, b, c].
func (f *frontmatter) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range f.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: key}

		valueNode := &yaml.Node{}
		if tags, ok := f.fields[key].([]string); ok && key == "tags" {
			valueNode = &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
			for _, tag := range tags {
				valueNode.Content = append(valueNode.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: tag})
			}
		} else if err := valueNode.Encode(f.fields[key]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valueNode)
	}
	return node, nil
}

// Note renders one narration as markdown with YAML frontmatter.
// collectionName is used for the title and may be empty.
func Note(h hadith.Hadith, collectionName string) ([]byte, error) {
	fm := newFrontmatter()
	fm.set("title", noteTitle(h, collectionName))
	fm.set("collection", h.CollectionID)
	fm.set("number", h.Number)
	fm.setIf("book", h.BookNumber)
	fm.set("grade", string(h.Grade))
	fm.setIf("graded_by", h.GradedBy)
	fm.setIf("narrator", h.Narrator)
	fm.setIf("reference", h.Reference)
	fm.setIf("in_book_reference", h.InBookReference)
	fm.set("tags", noteTags(h))

	var buf bytes.Buffer
	buf.WriteString("---\n")
	data, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal frontmatter: %w", err)
	}
	buf.Write(data)
	buf.WriteString("---\n\n")
	buf.WriteString(noteBody(h))
	return buf.Bytes(), nil
}

func noteTitle(h hadith.Hadith, collectionName string) string {
	if h.Reference != "" {
		return h.Reference
	}
	if collectionName == "" {
		collectionName = h.CollectionID
	}
	return fmt.Sprintf("%s %d", collectionName, h.Number)
}

func noteTags(h hadith.Hadith) []string {
	tags := []string{"hadith", h.CollectionID, "grade/" + string(h.Grade)}
	if h.Narrator != "" {
		tags = append(tags, "narrator/"+h.Narrator)
	}
	return normalizeTags(tags)
}

func noteBody(h hadith.Hadith) string {
	var b strings.Builder
	if h.ChapterTitle != "" {
		fmt.Fprintf(&b, "## %s\n\n", h.ChapterTitle)
	}
	if h.NarratorChain != "" {
		fmt.Fprintf(&b, "*%s*\n\n", strings.TrimSpace(h.NarratorChain))
	}
	if h.Text != "" {
		b.WriteString(strings.TrimSpace(h.Text))
		b.WriteString("\n\n")
	}
	if h.TextNative != "" {
		for _, line := range strings.Split(strings.TrimSpace(h.TextNative), "\n") {
			fmt.Fprintf(&b, "> %s\n", line)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
