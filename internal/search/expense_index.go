// Package search indexes expenses into Elasticsearch and serves the
// free-text search endpoint. The index is a convenience mirror of
// Postgres; indexing failures are logged, never fatal.
package search

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/yogasw/expense-tracker-api/internal/domain/entity"
)

// ExpenseIndex mirrors expense documents into an ES index, scoped per
// owner. A nil *ExpenseIndex is valid: indexing becomes a no-op and
// searches return empty results.
type ExpenseIndex struct {
	es     *elasticsearch.Client
	index  string
	logger *logrus.Logger
}

func NewExpenseIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *ExpenseIndex {
	if es == nil || index == "" {
		return nil
	}
	return &ExpenseIndex{es: es, index: index, logger: logger}
}

func (x *ExpenseIndex) Index(ctx context.Context, e *entity.Expense) error {
	if x == nil {
		return nil
	}
	doc := map[string]any{
		"id":          e.ID,
		"title":       e.Title,
		"amount":      e.Amount,
		"category":    e.Category,
		"date":        e.Date.Format(time.RFC3339Nano),
		"description": e.Description,
		"owner_id":    e.OwnerID,
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	req := esapi.IndexRequest{
		Index:      x.index,
		DocumentID: e.ID,
		Body:       strings.NewReader(string(b)),
	}
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && x.logger != nil {
		x.logger.WithField("status", res.Status()).WithField("expense_id", e.ID).Warn("es index response error")
	}
	return nil
}

func (x *ExpenseIndex) Delete(ctx context.Context, id string) error {
	if x == nil {
		return nil
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	req := esapi.DeleteRequest{Index: x.index, DocumentID: id}
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	return nil
}

// Search runs a multi_match over title and description, filtered to the
// owner so one user can never surface another's records.
func (x *ExpenseIndex) Search(ctx context.Context, ownerID, q string, size int) ([]map[string]any, error) {
	if x == nil {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"title^2", "description", "category"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"owner_id": ownerID},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
