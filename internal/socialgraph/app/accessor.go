package app

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/averso/socialstore/internal/domain"
	"github.com/averso/socialstore/pkg/pathstore"
)

// ReadPath resolves a generic path expression against the document's
// JSON-shaped form and returns the value found there. Path errors surface
// as pathstore sentinels for the transport layer to classify.
func (s *Service) ReadPath(ctx context.Context, path string) (any, error) {
	var value any

	err := s.view(ctx, "store.read_path", func(doc *domain.Document) error {
		tree, err := docToTree(doc)
		if err != nil {
			return err
		}
		value, err = pathstore.Get(tree, path)
		return err
	})
	if err != nil {
		return nil, err
	}

	pathAccessesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "read")))
	return value, nil
}

// WritePath assigns a value at a generic path expression and persists the
// whole document. The write is unchecked at the path level, but the result
// must still decode into a well-formed document; a value that breaks the
// document schema is rejected before persisting.
func (s *Service) WritePath(ctx context.Context, path string, value any) error {
	err := s.update(ctx, "store.write_path", func(doc *domain.Document) error {
		tree, err := docToTree(doc)
		if err != nil {
			return err
		}
		if err := pathstore.Set(tree, path, value); err != nil {
			return err
		}
		return treeInto(tree, doc)
	})
	if err != nil {
		return err
	}

	pathAccessesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "write")))
	s.logger.InfoContext(ctx, "store.path_written", "path", path)
	return nil
}

// docToTree converts the typed document into the JSON-shaped tree the
// pathstore operates on.
func docToTree(doc *domain.Document) (map[string]any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("shape document: %w", err)
	}
	return tree, nil
}

// treeInto decodes the mutated tree back over the typed document.
func treeInto(tree map[string]any, doc *domain.Document) error {
	raw, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}
	var next domain.Document
	if err := json.Unmarshal(raw, &next); err != nil {
		return fmt.Errorf("value does not fit the document schema: %w", domain.ErrInvalidInput)
	}
	*doc = next
	return nil
}
