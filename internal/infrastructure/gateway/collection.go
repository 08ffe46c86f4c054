package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/bookingops/console/internal/domain/shared"
)

// defaultLimit is used when a search arrives without a page size
const defaultLimit = 3

type idResult struct {
	ID string `json:"_id"`
}

// call runs op and returns the value under data.<op>, nil when the API answered null
func call[T any](ctx context.Context, c *Client, op, query string, vars map[string]any) (*T, error) {
	var resp map[string]*T
	if err := c.run(ctx, op, query, vars, &resp); err != nil {
		return nil, err
	}
	return resp[op], nil
}

// mustCall is call for operations that never answer null
func mustCall[T any](ctx context.Context, c *Client, op, query string, vars map[string]any) (*T, error) {
	v, err := call[T](ctx, c, op, query, vars)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, shared.Errorf(shared.CodeUpstreamError, "%s returned no data", op)
	}
	return v, nil
}

func pageVars(req shared.PageRequest) map[string]any {
	req = req.Normalize(defaultLimit)
	pagination := map[string]any{
		"limit":      req.Limit,
		"pageNumber": req.PageNumber,
	}
	if req.SortOrder != "" {
		pagination["sortOrder"] = req.SortOrder
	}
	return map[string]any{
		"paginationInput": pagination,
		"optionInput":     map[string]any{"isGetAll": req.GetAll},
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// collection binds one API entity that follows the
// xSearch / findXById / createX / updateXById / deleteXById naming.
type collection[T, In any] struct {
	client *Client
	entity string
	// listFields is the node selection of searches, fields the one of findXById
	listFields string
	fields     string
}

func newCollection[T, In any](c *Client, entity, listFields, fields string) *collection[T, In] {
	return &collection[T, In]{client: c, entity: entity, listFields: listFields, fields: fields}
}

// Search implements shared.Reader
func (r *collection[T, In]) Search(ctx context.Context, req shared.PageRequest) (*shared.Page[T], error) {
	op := lowerFirst(r.entity) + "Search"
	query := fmt.Sprintf(`query %[1]s($paginationInput: OffsetPaginationInput!, $optionInput: OffsetPaginationOptionInput) {
  %[1]s(paginationInput: $paginationInput, optionInput: $optionInput) {
    nodes { %[2]s }
    pageNumber
    pageSize
    totalCount
  }
}`, op, r.listFields)

	page, err := mustCall[shared.Page[T]](ctx, r.client, op, query, pageVars(req))
	if err != nil {
		return nil, err
	}
	if page.Nodes == nil {
		page.Nodes = []T{}
	}
	return page, nil
}

// FindByID implements shared.Reader
func (r *collection[T, In]) FindByID(ctx context.Context, id string) (*T, error) {
	op := "find" + r.entity + "ById"
	query := fmt.Sprintf(`query %[1]s($id: ObjectId!) {
  %[1]s(id: $id) { %[2]s }
}`, op, r.fields)

	v, err := call[T](ctx, r.client, op, query, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, shared.Errorf(shared.CodeNotFound, "%s %s not found", strings.ToLower(r.entity), id)
	}
	return v, nil
}

// Create implements shared.Creator
func (r *collection[T, In]) Create(ctx context.Context, input In) (string, error) {
	op := "create" + r.entity
	query := fmt.Sprintf(`mutation %[1]s($input: %[2]sCreateInput!) {
  %[1]s(input: $input) { _id }
}`, op, r.entity)

	res, err := mustCall[idResult](ctx, r.client, op, query, map[string]any{"input": input})
	if err != nil {
		return "", err
	}
	return res.ID, nil
}

// Update implements shared.Updater
func (r *collection[T, In]) Update(ctx context.Context, id string, input In) error {
	return r.client.updateByID(ctx, "update"+r.entity+"ById", r.entity+"UpdateInput", id, input)
}

// Delete implements shared.Deleter
func (r *collection[T, In]) Delete(ctx context.Context, id string) error {
	op := "delete" + r.entity + "ById"
	query := fmt.Sprintf(`mutation %[1]s($id: ObjectId!) {
  %[1]s(id: $id) { success message }
}`, op)

	res, err := mustCall[shared.DeleteResult](ctx, r.client, op, query, map[string]any{"id": id})
	if err != nil {
		return err
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = fmt.Sprintf("%s %s was not deleted", strings.ToLower(r.entity), id)
		}
		return shared.NewDomainError(shared.CodeUpstreamError, msg)
	}
	return nil
}

// updateByID runs a `<op>(id, input) { _id }` mutation
func (c *Client) updateByID(ctx context.Context, op, inputType, id string, input any) error {
	query := fmt.Sprintf(`mutation %[1]s($id: ObjectId!, $input: %[2]s!) {
  %[1]s(id: $id, input: $input) { _id }
}`, op, inputType)

	_, err := mustCall[idResult](ctx, c, op, query, map[string]any{"id": id, "input": input})
	return err
}
