package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"restops/pkg/httpapi"
)

const transactionsPath = "services/haproxy/transactions"

// cancelConcurrency bounds parallel DELETEs in CancelAllTransactions.
const cancelConcurrency = 4

// Transaction represents an HAProxy Dataplane API transaction.
//
// Transaction lifecycle:
//  1. Create transaction with current version
//  2. Execute operations within transaction (Scope.TransactionID)
//  3. Commit transaction to apply all changes
//  4. OR Cancel transaction to discard all changes
type Transaction struct {
	ID      string `json:"id"`
	Version int64  `json:"_version"`
	Status  string `json:"status,omitempty"`
}

// CommitResult contains information about a transaction commit operation.
type CommitResult struct {
	Transaction

	// StatusCode is the HTTP status code from the commit response.
	// 200 = configuration applied without reload
	// 202 = configuration applied with reload triggered
	StatusCode int `json:"status_code"`

	// ReloadID is the reload identifier from the Reload-ID response header.
	ReloadID string `json:"reload_id,omitempty"`
}

// CreateTransaction starts a transaction on version. A version <= 0 uses
// the current configuration version.
func (c *DataplaneClient) CreateTransaction(ctx context.Context, version int64) (*Transaction, error) {
	if version <= 0 {
		v, err := c.GetVersion(ctx)
		if err != nil {
			return nil, err
		}
		version = v
	}

	resp, err := c.api.Do(ctx, httpapi.Request{
		Method:    http.MethodPost,
		Path:      transactionsPath,
		Query:     url.Values{"version": {strconv.FormatInt(version, 10)}},
		Operation: "create transaction",
	})
	if err != nil {
		return nil, asVersionConflict(err, resp, version)
	}

	var tx Transaction
	if err := resp.Decode(&tx); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	if tx.ID == "" {
		return nil, fmt.Errorf("create transaction: transaction ID is empty in response")
	}
	return &tx, nil
}

// GetTransactions lists the transactions, optionally only those on version.
func (c *DataplaneClient) GetTransactions(ctx context.Context, version string) ([]Transaction, error) {
	var query url.Values
	if version != "" {
		query = url.Values{"version": {version}}
	}

	var out []Transaction
	if err := c.get(ctx, "get transactions", transactionsPath, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTransaction returns one transaction.
func (c *DataplaneClient) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	var tx Transaction
	if err := c.get(ctx, "get transaction", transactionsPath+"/"+url.PathEscape(id), nil, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// CommitTransaction applies every change staged in the transaction.
func (c *DataplaneClient) CommitTransaction(ctx context.Context, id string, forceReload bool) (*CommitResult, error) {
	resp, err := c.api.Do(ctx, httpapi.Request{
		Method:    http.MethodPut,
		Path:      transactionsPath + "/" + url.PathEscape(id),
		Query:     forceReloadQuery(forceReload),
		Operation: "commit transaction",
	})
	if err != nil {
		return nil, asVersionConflict(err, resp, 0)
	}

	result := &CommitResult{StatusCode: resp.StatusCode}
	if len(resp.Body) > 0 {
		if err := resp.Decode(&result.Transaction); err != nil {
			return nil, fmt.Errorf("commit transaction: %w", err)
		}
	}
	if result.ID == "" {
		result.ID = id
	}
	if resp.StatusCode == http.StatusAccepted {
		result.ReloadID = resp.Header.Get("Reload-ID")
	}
	return result, nil
}

// CancelTransaction discards the transaction.
func (c *DataplaneClient) CancelTransaction(ctx context.Context, id string) error {
	_, err := c.api.Do(ctx, httpapi.Request{
		Method:    http.MethodDelete,
		Path:      transactionsPath + "/" + url.PathEscape(id),
		Operation: "cancel transaction",
	})
	return err
}

// CancelAllTransactions cancels every listed transaction concurrently and
// returns the cancelled ones. Transactions that vanished meanwhile (404)
// are skipped.
func (c *DataplaneClient) CancelAllTransactions(ctx context.Context, version string) ([]Transaction, error) {
	active, err := c.GetTransactions(ctx, version)
	if err != nil {
		return nil, err
	}

	var (
		mu        sync.Mutex
		cancelled = make([]Transaction, 0, len(active))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cancelConcurrency)
	for _, tx := range active {
		g.Go(func() error {
			if err := c.CancelTransaction(gctx, tx.ID); err != nil {
				if httpapi.IsNotFound(err) {
					return nil
				}
				return fmt.Errorf("failed to cancel transaction %s: %w", tx.ID, err)
			}
			mu.Lock()
			cancelled = append(cancelled, tx)
			mu.Unlock()
			return nil
		})
	}
	err = g.Wait()
	slices.SortFunc(cancelled, func(a, b Transaction) int { return strings.Compare(a.ID, b.ID) })

	return cancelled, err
}
