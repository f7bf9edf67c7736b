package client

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"strconv"

	"github.com/fivetwenty-io/b2bi-client/pkg/b2bi"
)

// FetchPage implements b2bi.ServiceClient.FetchPage. The page starts at
// params.Offset and asks for PageSize items. A NotFound answer on a
// collection reads as an empty page.
func (c *Client) FetchPage(ctx context.Context, service string, params *b2bi.QueryParams) (*b2bi.Page, error) {
	params = params.Clone()
	params.Limit = c.pageSize

	query := params.ToValues()
	query.Set(b2bi.ParamOffset, strconv.Itoa(params.Offset))

	req, err := newRequest(nethttp.MethodGet, service, nil, b2bi.WithQuery(query))
	if err != nil {
		return nil, err
	}

	page := &b2bi.Page{Offset: params.Offset}

	resp, err := c.Execute(ctx, req)
	if b2bi.IsNotFound(err) {
		return page, nil
	}

	if err != nil {
		return nil, fmt.Errorf("listing %s at offset %d: %w", service, params.Offset, err)
	}

	page.Items, err = decodeItems(resp.Payload)
	if err != nil {
		return nil, fmt.Errorf("listing %s at offset %d: %w", service, params.Offset, err)
	}

	page.More = len(page.Items) == c.pageSize

	return page, nil
}

// FetchAll implements b2bi.ServiceClient.FetchAll. Pages are requested
// sequentially; the offset advances by PageSize after every request and the
// loop stops at the first page holding fewer than PageSize items. Any
// params.Limit is replaced by PageSize.
func (c *Client) FetchAll(ctx context.Context, service string, params *b2bi.QueryParams) ([]json.RawMessage, error) {
	params = params.Clone()

	var items []json.RawMessage

	for {
		err := ctx.Err()
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", service, err)
		}

		page, err := c.FetchPage(ctx, service, params)
		if err != nil {
			return nil, err
		}

		items = append(items, page.Items...)

		if !page.More {
			break
		}

		params.Offset += c.pageSize
	}

	if items == nil {
		items = []json.RawMessage{}
	}

	return items, nil
}

func decodeItems(payload json.RawMessage) ([]json.RawMessage, error) {
	if len(payload) == 0 {
		return nil, nil
	}

	var items []json.RawMessage

	err := json.Unmarshal(payload, &items)
	if err != nil {
		return nil, b2bi.NormalizationError(fmt.Errorf("%w: collection is not an array: %w", b2bi.ErrUnexpectedEnvelope, err))
	}

	return items, nil
}
