package haproxy

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/rekby/fixenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restops/pkg/core/config"
	"restops/pkg/dataplane/client"
	"restops/pkg/module"
)

func TestTransaction_Commit(t *testing.T) {
	env := fixenv.New(t)
	srv := fakeDataplane(env)
	srv.AddTransaction("tx-1")

	res, err := invoke(t, false, runTransaction, args(srv, map[string]any{"transaction_id": "tx-1"}))
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "Transaction [ID : tx-1, Reload : true] Has Been Committed", res.Msg)
	assert.Empty(t, srv.Transactions())
	assert.Equal(t, int64(2), srv.Version())
}

func TestTransaction_CommitMissing(t *testing.T) {
	env := fixenv.New(t)
	srv := fakeDataplane(env)

	_, err := invoke(t, false, runTransaction, args(srv, map[string]any{"transaction_id": "nope"}))
	require.Error(t, err)
	assert.Equal(t, "Transaction [ID : nope] Not Found", err.Error())
}

func TestTransaction_Cancel(t *testing.T) {
	env := fixenv.New(t)
	srv := fakeDataplane(env)
	srv.AddTransaction("tx-1")

	res, err := invoke(t, false, runTransaction, args(srv, map[string]any{"transaction_id": "tx-1", "state": "cancelled"}))
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "Transaction [ID : tx-1] Has been Cancelled", res.Msg)
	assert.Empty(t, srv.Transactions())

	res, err = invoke(t, false, runTransaction, args(srv, map[string]any{"transaction_id": "tx-1", "state": "CANCELLED"}))
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, "Transaction [ID : tx-1] Not Found", res.Msg)
}

func TestTransaction_CheckModeKeepsTransaction(t *testing.T) {
	env := fixenv.New(t)
	srv := fakeDataplane(env)
	srv.AddTransaction("tx-1")

	res, err := invoke(t, true, runTransaction, args(srv, map[string]any{"transaction_id": "tx-1"}))
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, []string{"tx-1"}, srv.Transactions())
}

func TestCleanTransactions(t *testing.T) {
	env := fixenv.New(t)
	srv := fakeDataplane(env)
	srv.AddTransaction("tx-a")
	srv.AddTransaction("tx-b")

	res, err := invoke(t, false, runCleanTransactions, args(srv, nil))
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "Transactions are Cleaned", res.Msg)
	assert.Len(t, res.Data["cleaned"], 2)
	assert.Empty(t, srv.Transactions())
}

func TestCleanTransactions_ListFailure(t *testing.T) {
	env := fixenv.New(t)
	srv := fakeDataplane(env)
	srv.FailNext(http.MethodGet, "services/haproxy/transactions", http.StatusInternalServerError)

	_, err := invoke(t, false, runCleanTransactions, args(srv, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[Cancel All Transaction] - Failed Cancel All HA Proxy Dataplane API Transactions")
}

func TestSSLCertificate_Lifecycle(t *testing.T) {
	env := fixenv.New(t)
	srv := fakeDataplane(env)

	path := filepath.Join(t.TempDir(), "site.pem")
	require.NoError(t, os.WriteFile(path, []byte("-----BEGIN CERTIFICATE-----\nv1\n"), 0o600))
	cert := func(extra map[string]any) map[string]any {
		base := map[string]any{"name": "site.pem", "path": path}
		for k, v := range extra {
			base[k] = v
		}
		return args(srv, base)
	}

	res, err := invoke(t, false, runSSLCertificate, cert(nil))
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "Certificate[site.pem] Has been Created", res.Msg)
	content, ok := srv.Certificate("site.pem")
	require.True(t, ok)
	assert.Contains(t, content, "v1")

	res, err = invoke(t, false, runSSLCertificate, cert(map[string]any{"force_update": false}))
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, "Certificate [site.pem] Not Changed", res.Msg)

	require.NoError(t, os.WriteFile(path, []byte("-----BEGIN CERTIFICATE-----\nv2\n"), 0o600))
	res, err = invoke(t, false, runSSLCertificate, cert(nil))
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "Certificate [site.pem] Has Been Updated", res.Msg)
	content, _ = srv.Certificate("site.pem")
	assert.Contains(t, content, "v2")

	res, err = invoke(t, false, runSSLCertificate, cert(map[string]any{"state": "absent"}))
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "[site.pem] Has been Deleted", res.Msg)
	_, ok = srv.Certificate("site.pem")
	assert.False(t, ok)

	res, err = invoke(t, false, runSSLCertificate, cert(map[string]any{"state": "absent"}))
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, "[site.pem] Not Found", res.Msg)
}

func TestLookups(t *testing.T) {
	env := fixenv.New(t)
	srv := fakeDataplane(env)
	srv.PutCertificate("site.pem", "PEM")

	var txParams TxLookupParams
	require.NoError(t, config.ParseMap(args(srv, nil), &txParams))
	out, err := lookupTransaction(context.Background(), module.TestEnv(false), &txParams)
	require.NoError(t, err)
	txs := out.([]any)
	require.Len(t, txs, 1)
	tx := txs[0].(*client.Transaction)
	assert.Equal(t, []string{tx.ID}, srv.Transactions())
	assert.Equal(t, int64(1), tx.Version)

	var certParams CertLookupParams
	require.NoError(t, config.ParseMap(args(srv, map[string]any{"name": "site.pem"}), &certParams))
	out, err = lookupCertificate(context.Background(), module.TestEnv(false), &certParams)
	require.NoError(t, err)
	certs := out.([]any)
	require.Len(t, certs, 1)
	assert.Equal(t, "site.pem", certs[0].(client.SSLCertificate)["storage_name"])
}

func TestRegistered(t *testing.T) {
	for _, name := range []string{
		"haproxy_backend", "haproxy_frontend", "haproxy_server", "haproxy_bind",
		"haproxy_acl", "haproxy_backend_switching_rule", "haproxy_http_request_rule",
		"haproxy_ssl_certificate", "haproxy_transaction", "haproxy_clean_transactions",
	} {
		_, ok := module.Default().Get(name)
		assert.True(t, ok, name)
	}
	for _, name := range []string{"haproxy_tx", "haproxy_cert"} {
		_, ok := module.Default().GetLookup(name)
		assert.True(t, ok, name)
	}
}
