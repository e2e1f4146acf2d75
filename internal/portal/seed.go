package portal

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mind-engage/mindengage-portal/internal/content"
)

// Bundle is a YAML file of content records in authoring format:
//
//	content:
//	  - title: Week 1 quiz
//	    type: quiz
//	    semester: sem-1
//	    text: |
//	      Q1: ...
type Bundle struct {
	Content []BundleItem `yaml:"content"`
}

type BundleItem struct {
	Title    string `yaml:"title"`
	Type     string `yaml:"type"`
	Semester string `yaml:"semester"`
	Text     string `yaml:"text"`
}

func LoadBundle(r io.Reader) (Bundle, error) {
	var b Bundle
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		return Bundle{}, fmt.Errorf("seed bundle: %w", err)
	}
	return b, nil
}

// Seed creates every bundle item. It stops at the first invalid item; items
// created before it are kept.
func (s *Service) Seed(ctx context.Context, actor string, b Bundle) ([]content.QuestionSet, error) {
	out := make([]content.QuestionSet, 0, len(b.Content))
	for i, it := range b.Content {
		set, err := s.CreateContent(ctx, actor, CreateContentInput{
			Title:    it.Title,
			Kind:     content.Kind(it.Type),
			Semester: it.Semester,
			Text:     it.Text,
		})
		if err != nil {
			return out, fmt.Errorf("seed item %d (%q): %w", i, it.Title, err)
		}
		out = append(out, set)
	}
	return out, nil
}
