package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"
)

const (
	documentsPrefix = "wiki/documents"
	hashPrefix      = "wiki/by_hash"
	sourceTag       = "mdwiki"
)

// Document is a stored wiki page. Content is the page's hunks joined with a
// blank line.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentHash string    `json:"content_hash"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func documentKey(id string) string {
	return documentsPrefix + "/" + id
}

func hashKey(hash, id string) string {
	return hashPrefix + "/" + hash + "/" + id
}

// PutDocument writes doc and indexes it by content hash.
func (c *Client) PutDocument(ctx context.Context, doc *Document) error {
	if doc.ID == "" {
		return errors.New("document id is required")
	}
	if err := c.PutNode(ctx, documentKey(doc.ID), NodeRequest{Value: doc, Source: sourceTag}); err != nil {
		return err
	}
	if doc.ContentHash == "" {
		return nil
	}
	return c.PutNode(ctx, hashKey(doc.ContentHash, doc.ID), NodeRequest{
		Value:  map[string]any{"id": doc.ID, "updated_at": doc.UpdatedAt.Format(time.RFC3339)},
		Source: sourceTag,
	})
}

// GetDocument loads a document. A missing document gives ErrNotFound.
func (c *Client) GetDocument(ctx context.Context, id string) (*Document, error) {
	node, err := c.GetNode(ctx, documentKey(id))
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(node.Value, &doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	return &doc, nil
}

// DeleteDocument removes a document and its hash index entry.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	doc, err := c.GetDocument(ctx, id)
	if err != nil {
		return err
	}
	if err := c.DeleteNode(ctx, documentKey(id), false); err != nil {
		return err
	}
	if doc.ContentHash != "" {
		if err := c.DeleteNode(ctx, hashKey(doc.ContentHash, id), false); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	return nil
}

// ListDocuments returns up to limit stored documents (zero for all).
func (c *Client) ListDocuments(ctx context.Context, limit int) ([]Document, error) {
	nodes, err := c.ListChildren(ctx, documentsPrefix, limit)
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(nodes))
	for _, n := range nodes {
		var doc Document
		if err := json.Unmarshal(n.Value, &doc); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", n.Key, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// FindByHash reports the ID of a document with the given content hash.
func (c *Client) FindByHash(ctx context.Context, hash string) (string, bool, error) {
	nodes, err := c.ListChildren(ctx, hashPrefix+"/"+hash, 1)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	if len(nodes) == 0 {
		return "", false, nil
	}
	return path.Base(nodes[0].Key), true, nil
}
