package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/javajoker/energy-eservice/internal/models"
)

// Collection names one of the parallel request-type collections.
type Collection string

const (
	CollectionLicenses    Collection = "licenses"
	CollectionInspections Collection = "inspections"
	CollectionAudits      Collection = "audits"
)

func ParseCollection(name string) (Collection, bool) {
	switch c := Collection(name); c {
	case CollectionLicenses, CollectionInspections, CollectionAudits:
		return c, true
	}
	return "", false
}

func (c Collection) path() string { return "/api/v1/" + string(c) }

func (c *Client) ListCollection(ctx context.Context, token string, collection Collection, query url.Values) (*models.CollectionList, error) {
	operation := string(collection) + ".list"
	payload, err := c.do(ctx, call{
		operation: operation,
		method:    http.MethodGet,
		path:      collection.path(),
		query:     query,
		token:     token,
	})
	if err != nil {
		return nil, err
	}

	var list models.CollectionList
	if payload.IsArray() {
		if err := decode(operation, payload, &list.Items); err != nil {
			return nil, err
		}
		list.Total = int64(len(list.Items))
	} else if err := decode(operation, payload, &list); err != nil {
		return nil, err
	}

	for i, item := range list.Items {
		if item.ID == "" {
			return nil, malformed("%s: item %d: %v", operation, i, fieldError("id"))
		}
	}
	if list.Items == nil {
		list.Items = []models.CollectionItem{}
	}
	return &list, nil
}

func (c *Client) CreateCollectionItem(ctx context.Context, token string, collection Collection, body json.RawMessage) (*models.CollectionItem, error) {
	operation := string(collection) + ".create"
	payload, err := c.do(ctx, call{
		operation: operation,
		method:    http.MethodPost,
		path:      collection.path(),
		token:     token,
		body:      body,
	})
	if err != nil {
		return nil, err
	}

	var item models.CollectionItem
	if err := decode(operation, payload, &item); err != nil {
		return nil, err
	}
	if item.ID == "" {
		return nil, malformed("%s: %v", operation, fieldError("id"))
	}
	return &item, nil
}
