package store

import (
	"context"
	"fmt"

	"github.com/nhle/rulebook/internal/interchange"
	"github.com/nhle/rulebook/internal/model"
)

// NewExport serializes doc into an unsaved export record.
func NewExport(doc model.RuleBook) (model.Export, error) {
	body, err := interchange.Serialize(doc)
	if err != nil {
		return model.Export{}, err
	}
	return model.Export{
		Title:      doc.Meta.Title,
		Version:    doc.Meta.Version,
		RuleCount:  len(doc.Rules),
		PointCount: doc.PointCount(),
		Body:       string(body),
	}, nil
}

// LoadDocument fetches an export and parses its body through the lenient
// import path.
func LoadDocument(ctx context.Context, lib Library, id string) (model.RuleBook, error) {
	e, err := lib.GetExport(ctx, id)
	if err != nil {
		return model.RuleBook{}, err
	}
	doc, err := interchange.Parse([]byte(e.Body), interchange.Lenient)
	if err != nil {
		return model.RuleBook{}, fmt.Errorf("loading export %s: %w", id, err)
	}
	return doc, nil
}
