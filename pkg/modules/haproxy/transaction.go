package haproxy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"restops/pkg/dataplane/client"
	"restops/pkg/httpapi"
	"restops/pkg/module"
)

// TransactionParams are the haproxy_transaction arguments.
type TransactionParams struct {
	ConnectionParams `yaml:",inline"`

	TransactionID string `yaml:"transaction_id" validate:"required"`
	ForceReload   bool   `yaml:"force_reload"`
	State         string `yaml:"state" validate:"enum=haproxy_transaction_state"`
}

// SetDefaults implements config.Defaulter.
func (p *TransactionParams) SetDefaults() {
	p.ConnectionParams.SetDefaults()
	p.ForceReload = true
	p.State = "committed"
}

func runTransaction(ctx context.Context, env *module.Env, p *TransactionParams) (module.Result, error) {
	c, err := newClient(env, p.ConnectionParams)
	if err != nil {
		return module.Result{}, err
	}

	id := strings.TrimSpace(p.TransactionID)
	commit := client.TransactionState.MustParse(p.State) == "committed"

	tx, err := c.GetTransaction(ctx, id)
	if err != nil && !httpapi.IsNotFound(err) {
		return module.Result{}, fmt.Errorf("[Get Transaction] - Failed Get HA Proxy Dataplane API Transaction (ID : %s): %w", id, err)
	}

	switch {
	case tx != nil && commit:
		data := map[string]any{"transaction": instance(tx)}
		if !env.CheckMode {
			result, err := c.CommitTransaction(ctx, id, p.ForceReload)
			if err != nil {
				return module.Result{}, fmt.Errorf("[Commit Transaction] - Failed Commit HA Proxy Dataplane API Transaction (ID : %s): %w", id, err)
			}
			data["transaction"] = instance(result)
		}
		return module.Changed(fmt.Sprintf("Transaction [ID : %s, Reload : %t] Has Been Committed", id, p.ForceReload), data), nil
	case tx == nil && commit:
		return module.Result{}, errors.New("Transaction [ID : " + id + "] Not Found") //nolint:staticcheck // user-facing message
	case tx != nil:
		if !env.CheckMode {
			if err := c.CancelTransaction(ctx, id); err != nil {
				return module.Result{}, fmt.Errorf("[Cancel Transaction] - Failed Cancel HA Proxy Dataplane API Transaction (ID : %s): %w", id, err)
			}
		}
		return module.Changed(fmt.Sprintf("Transaction [ID : %s] Has been Cancelled", id), map[string]any{"transaction": instance(tx)}), nil
	default:
		return module.Unchanged(fmt.Sprintf("Transaction [ID : %s] Not Found", id), nil), nil
	}
}

// CleanTransactionsParams are the haproxy_clean_transactions arguments.
type CleanTransactionsParams struct {
	ConnectionParams `yaml:",inline"`

	// Version restricts the cleanup to transactions opened on that
	// configuration version.
	Version string `yaml:"version"`
}

func runCleanTransactions(ctx context.Context, env *module.Env, p *CleanTransactionsParams) (module.Result, error) {
	c, err := newClient(env, p.ConnectionParams)
	if err != nil {
		return module.Result{}, err
	}

	var cleaned []client.Transaction
	if env.CheckMode {
		cleaned, err = c.GetTransactions(ctx, p.Version)
	} else {
		cleaned, err = c.CancelAllTransactions(ctx, p.Version)
	}
	if err != nil {
		return module.Result{}, fmt.Errorf("[Cancel All Transaction] - Failed Cancel All HA Proxy Dataplane API Transactions : %w", err)
	}
	if cleaned == nil {
		cleaned = []client.Transaction{}
	}
	return module.Changed("Transactions are Cleaned", map[string]any{"cleaned": cleaned}), nil
}
