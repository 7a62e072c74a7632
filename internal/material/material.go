// Package material is the client of the teaching materials resource.
// Every operation is a single request through the shared request
// primitive, whose result is returned unchanged.
package material

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/patric-chuzhbe/materials/internal/requester"
)

type requestDoer interface {
	Request(ctx context.Context, options requester.Options) (*requester.Response, error)
}

type Option func(*Client)

// WithLegacyUpdate makes UpdateMaterial send no body, for servers that
// still expect the body-less update request.
func WithLegacyUpdate(legacy bool) Option {
	return func(c *Client) {
		c.legacyUpdate = legacy
	}
}

// Client issues the material requests.
type Client struct {
	req          requestDoer
	legacyUpdate bool
}

// New creates a Client sending requests through req.
func New(req requestDoer, optionsProto ...Option) *Client {
	c := &Client{req: req}
	for _, protoOption := range optionsProto {
		protoOption(c)
	}
	return c
}

// DownloadMaterials exports the material list.
func (c *Client) DownloadMaterials(ctx context.Context) (*requester.Response, error) {
	return c.req.Request(ctx, requester.Options{
		URL:    "/resource/download",
		Method: http.MethodGet,
	})
}

// DeleteMaterial deletes the material with the given id.
func (c *Client) DeleteMaterial(ctx context.Context, id string) (*requester.Response, error) {
	return c.req.Request(ctx, requester.Options{
		URL:    "/resource/delete/" + url.PathEscape(id),
		Method: http.MethodGet,
	})
}

// DeleteMaterialBatch deletes the materials listed in data.
func (c *Client) DeleteMaterialBatch(ctx context.Context, data any) (*requester.Response, error) {
	return c.req.Request(ctx, requester.Options{
		URL:    "/resource/deleteBatch",
		Method: http.MethodGet,
		Data:   data,
	})
}

// GetMaterial fetches one material.
func (c *Client) GetMaterial(ctx context.Context, id string) (*requester.Response, error) {
	return c.req.Request(ctx, requester.Options{
		URL:    "/resource/get/" + url.PathEscape(id),
		Method: http.MethodGet,
	})
}

// UpdateMaterial sends the updated material.
func (c *Client) UpdateMaterial(ctx context.Context, data any) (*requester.Response, error) {
	options := requester.Options{
		URL:    "/resource/update",
		Method: http.MethodPut,
		Data:   data,
	}
	if c.legacyUpdate {
		options.Data = nil
	}

	return c.req.Request(ctx, options)
}

// GetMaterialPageInfo fetches one page of materials.
func (c *Client) GetMaterialPageInfo(ctx context.Context, current, pageSize int) (*requester.Response, error) {
	return c.req.Request(ctx, requester.Options{
		URL:    fmt.Sprintf("/resource/page/%d/%d", current, pageSize),
		Method: http.MethodPut,
	})
}
