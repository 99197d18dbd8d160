package repository

import (
	"bytes"
	"encoding/json"
	"fmt"

	"docscope/internal/domain"
)

// DecodeDocument parses a JSON object, keeping numbers as json.Number
func DecodeDocument(data []byte) (domain.Document, error) {
	var doc map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}

// DecodeValue parses a single JSON value, keeping numbers as json.Number
func DecodeValue(data []byte) (any, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode value: %w", err)
	}
	return v, nil
}

// DecodeDocuments parses a JSON array of objects
func DecodeDocuments(data []byte) ([]domain.Document, error) {
	v, err := DecodeValue(data)
	if err != nil {
		return nil, err
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON array of documents, got %T", v)
	}
	docs := make([]domain.Document, 0, len(items))
	for i, item := range items {
		doc, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("document %d is %T, not an object", i, item)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// EncodeDocument validates a document for the SQL stores and returns its
// canonical key together with its JSON encoding
func EncodeDocument(doc domain.Document) (string, []byte, error) {
	id, ok := doc[domain.IDField]
	if !ok || id == nil {
		return "", nil, fmt.Errorf("document has no %s", domain.IDField)
	}
	switch id.(type) {
	case map[string]any, []any:
		return "", nil, fmt.Errorf("document %s must be a scalar, got %T", domain.IDField, id)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return domain.CanonicalKey(id), data, nil
}

// Keys returns the canonical keys of ids, dropping duplicates
func Keys(ids []any) []string {
	seen := make(map[string]struct{}, len(ids))
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		key := domain.CanonicalKey(id)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}
