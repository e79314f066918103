package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"restops/pkg/httpapi"
)

// ruleSet is the CRUD surface shared by the positional resources (ACLs,
// switching rules, HTTP request rules): identity is the index, and the
// parent travels in the query string.
type ruleSet[T any] struct {
	c     *DataplaneClient
	kind  string
	path  string
	query url.Values
}

func (r ruleSet[T]) list(ctx context.Context) ([]Indexed[T], error) {
	op := "get " + r.kind + "s"
	resp, err := r.c.api.Do(ctx, httpapi.Request{Method: http.MethodGet, Path: r.path, Query: r.query, Operation: op})
	if err != nil {
		return nil, err
	}
	out, err := decodeIndexedList[T](unwrapData(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return out, nil
}

func (r ruleSet[T]) get(ctx context.Context, index int64) (Indexed[T], error) {
	op := "get " + r.kind
	resp, err := r.c.api.Do(ctx, httpapi.Request{Method: http.MethodGet, Path: r.itemPath(index), Query: r.query, Operation: op})
	if err != nil {
		return Indexed[T]{}, err
	}
	out, err := decodeIndexed[T](unwrapData(resp.Body), index)
	if err != nil {
		return Indexed[T]{}, fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return out, nil
}

func (r ruleSet[T]) create(ctx context.Context, scope Scope, index int64, item T) (Indexed[T], error) {
	return r.write(ctx, scope, "create "+r.kind, http.MethodPost, r.path, index, item)
}

func (r ruleSet[T]) update(ctx context.Context, scope Scope, index int64, item T) (Indexed[T], error) {
	return r.write(ctx, scope, "update "+r.kind, http.MethodPut, r.itemPath(index), index, item)
}

func (r ruleSet[T]) delete(ctx context.Context, scope Scope, index int64) error {
	_, err := r.c.mutate(ctx, scope, mutation{
		operation: "delete " + r.kind,
		method:    http.MethodDelete,
		path:      r.itemPath(index),
		query:     r.query,
	})
	return err
}

func (r ruleSet[T]) write(ctx context.Context, scope Scope, op, method, path string, index int64, item T) (Indexed[T], error) {
	body, err := withIndex(item, index)
	if err != nil {
		return Indexed[T]{}, fmt.Errorf("%s: failed to encode request body: %w", op, err)
	}

	resp, err := r.c.mutate(ctx, scope, mutation{operation: op, method: method, path: path, query: r.query, body: body})
	if err != nil {
		return Indexed[T]{}, err
	}

	out, err := decodeIndexed[T](unwrapData(resp.Body), index)
	if err != nil {
		return Indexed[T]{}, fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return out, nil
}

func (r ruleSet[T]) itemPath(index int64) string {
	return r.path + "/" + strconv.FormatInt(index, 10)
}
