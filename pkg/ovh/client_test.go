package ovh

import (
	"context"
	"testing"

	"github.com/rekby/fixenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restops/pkg/core/logging"
	"restops/pkg/ovh/ovhtest"
)

func fakeOVH(e fixenv.Env) *ovhtest.Server {
	return fixenv.CacheResult(e, func() (*fixenv.GenericResult[*ovhtest.Server], error) {
		srv := ovhtest.NewServer("example.com")
		return fixenv.NewGenericResultWithCleanup(srv, srv.Close), nil
	})
}

func testClient(e fixenv.Env) *Client {
	return fixenv.CacheResult(e, func() (*fixenv.GenericResult[*Client], error) {
		c, err := New(Config{
			Endpoint:          fakeOVH(e).URL,
			ApplicationKey:    ovhtest.AppKey,
			ApplicationSecret: ovhtest.AppSecret,
			ConsumerKey:       ovhtest.ConsumerKey,
			Logger:            logging.Discard(),
		})
		if err != nil {
			return nil, err
		}
		return fixenv.NewGenericResult(c), nil
	})
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{Endpoint: "ovh-eu", ApplicationKey: "k", ApplicationSecret: "s"})
	require.Error(t, err)
	assert.Equal(t, "Failed to build OVH API Client: 'consumer_key' is required", err.Error())
}

func TestZones(t *testing.T) {
	e := fixenv.New(t)
	ctx := context.Background()
	c := testClient(e)

	ok, err := c.HasZone(ctx, "example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.HasZone(ctx, "example.org")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecordLifecycle(t *testing.T) {
	e := fixenv.New(t)
	ctx := context.Background()
	c := testClient(e)
	srv := fakeOVH(e)

	srv.AddRecord("example.com", "www", "CNAME", "lb.example.com.", 300)

	ids, err := c.RecordIDs(ctx, "example.com", "A", "www")
	require.NoError(t, err)
	assert.Empty(t, ids)

	created, err := c.CreateRecord(ctx, "example.com", Record{SubDomain: "www", FieldType: "A", Target: "10.0.0.1", TTL: 3600})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "example.com", created.Zone)

	ids, err = c.RecordIDs(ctx, "example.com", "A", "www")
	require.NoError(t, err)
	assert.Equal(t, []int64{created.ID}, ids)

	require.NoError(t, c.UpdateRecord(ctx, "example.com", created.ID, Record{SubDomain: "www", FieldType: "A", Target: "10.0.0.2", TTL: 60}))
	got, err := c.GetRecord(ctx, "example.com", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2", got.Target)
	assert.Equal(t, int64(60), got.TTL)
	assert.Equal(t, "www IN A 10.0.0.2", got.String())

	require.NoError(t, c.Refresh(ctx, "example.com"))
	assert.Equal(t, 1, srv.Refreshes("example.com"))

	require.NoError(t, c.DeleteRecord(ctx, "example.com", created.ID))
	_, err = c.GetRecord(ctx, "example.com", created.ID)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	assert.Len(t, srv.Records("example.com"), 1)
}

func TestRecordIDs_UnknownZone(t *testing.T) {
	e := fixenv.New(t)
	_, err := testClient(e).RecordIDs(context.Background(), "example.org", "A", "www")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[Find Record] - Failed to call OVH API (/domain/zone/example.org/record) for record [www]")
	assert.True(t, IsNotFound(err))
}

func TestBadCredentials(t *testing.T) {
	e := fixenv.New(t)
	c, err := New(Config{
		Endpoint:          fakeOVH(e).URL,
		ApplicationKey:    "other",
		ApplicationSecret: ovhtest.AppSecret,
		ConsumerKey:       ovhtest.ConsumerKey,
	})
	require.NoError(t, err)

	_, err = c.Zones(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[Find Zone]")
	assert.False(t, IsNotFound(err))
}

func TestRRType(t *testing.T) {
	rr, err := RRType("aaaa")
	require.NoError(t, err)
	assert.Equal(t, uint16(28), rr)

	rr, err = RRType("DKIM")
	require.NoError(t, err)
	assert.Equal(t, uint16(16), rr)

	_, err = RRType("HINFO")
	assert.Error(t, err)
}

func TestCheckTarget(t *testing.T) {
	tests := []struct {
		fieldType, target string
		wantErr           bool
	}{
		{"A", "192.0.2.1", false},
		{"A", "2001:db8::1", true},
		{"A", "www", true},
		{"AAAA", "2001:db8::1", false},
		{"AAAA", "192.0.2.1", true},
		{"CNAME", "lb.example.com.", false},
		{"CNAME", "bad..name", true},
		{"TXT", "v=spf1 -all", false},
		{"MX", "10 mail.example.com.", false},
		{"A", " ", true},
	}
	for _, tt := range tests {
		t.Run(tt.fieldType+"/"+tt.target, func(t *testing.T) {
			err := CheckTarget(tt.fieldType, tt.target)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
