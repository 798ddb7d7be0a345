package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/sweet_shop/internal/models"
)

type productDoc struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	CategoryID  *uint  `json:"categoryId"`
	IsActive    bool   `json:"isActive"`
	IsCombo     bool   `json:"isCombo"`
}

// ProductIndex keeps an Elasticsearch index of the catalog for fuzzy lookup.
type ProductIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func (p *ProductIndex) IndexProduct(ctx context.Context, product *models.Product) error {
	doc := productDoc{
		ID:          product.ID,
		Name:        product.Name,
		Slug:        product.Slug,
		Description: product.Description,
		CategoryID:  product.CategoryID,
		IsActive:    product.IsActive,
		IsCombo:     product.IsCombo,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("encode product: %w", err)
	}

	res, err := p.ES.Index(p.Index, &buf,
		p.ES.Index.WithContext(ctx),
		p.ES.Index.WithDocumentID(strconv.FormatUint(uint64(product.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("index product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index product", res.Status(), res.Body)
	}
	return nil
}

func (p *ProductIndex) RemoveProduct(ctx context.Context, id uint) error {
	res, err := p.ES.Delete(p.Index, strconv.FormatUint(uint64(id), 10), p.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return responseError("delete product", res.Status(), res.Body)
	}
	return nil
}

// SearchProductIDs returns ids of active products ordered by relevance.
func (p *ProductIndex) SearchProductIDs(ctx context.Context, query string, size int) ([]uint, error) {
	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     query,
						"fields":    []string{"name^2", "description"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"isActive": true},
				},
			},
		},
		"size":    size,
		"_source": []string{"id"},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := p.ES.Search(
		p.ES.Search.WithContext(ctx),
		p.ES.Search.WithIndex(p.Index),
		p.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("search", res.Status(), res.Body)
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source productDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uint, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		ids[i] = hit.Source.ID
	}
	return ids, nil
}

func responseError(op, status string, body io.Reader) error {
	msg, _ := io.ReadAll(body)
	return fmt.Errorf("%s: elasticsearch %s: %s", op, status, msg)
}
