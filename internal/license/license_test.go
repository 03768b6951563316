package license

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registryServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPOracleVerdicts(t *testing.T) {
	registry := `{
		"KEY-ACTIVE": "ACTIVE",
		"KEY-SUSPENDED": "SUSPENDED",
		"KEY-INVALID": "INVALID",
		"KEY-MINE": "machine-42",
		"KEY-THEIRS": "machine-99"
	}`
	srv := registryServer(t, http.StatusOK, registry)
	o := NewHTTPOracle(srv.URL, time.Second, "machine-42")

	ctx := context.Background()
	assert.Equal(t, StatusActive, o.Check(ctx, "KEY-ACTIVE"))
	assert.Equal(t, StatusSuspended, o.Check(ctx, "KEY-SUSPENDED"))
	assert.Equal(t, StatusInvalid, o.Check(ctx, "KEY-INVALID"))
	assert.Equal(t, StatusBoundHere, o.Check(ctx, "KEY-MINE"))
	assert.Equal(t, StatusBoundElsewhere, o.Check(ctx, "KEY-THEIRS"))
	assert.Equal(t, StatusInvalid, o.Check(ctx, "KEY-UNKNOWN"))
}

func TestHTTPOracleUnreachable(t *testing.T) {
	srv := registryServer(t, http.StatusInternalServerError, "oops")
	o := NewHTTPOracle(srv.URL, time.Second, "machine-42")
	assert.Equal(t, StatusUnreachable, o.Check(context.Background(), "KEY"))

	down := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	down.Close()
	o = NewHTTPOracle(down.URL, time.Second, "machine-42")
	assert.Equal(t, StatusUnreachable, o.Check(context.Background(), "KEY"))
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, StatusActive.Allowed())
	assert.True(t, StatusBoundHere.Allowed())
	assert.False(t, StatusSuspended.Allowed())
	assert.False(t, StatusBoundElsewhere.Allowed())
	assert.False(t, StatusInvalid.Allowed())
	assert.False(t, StatusUnreachable.Allowed())
	assert.True(t, StatusUnreachable.Retryable())
	assert.False(t, StatusInvalid.Retryable())
}

type countingOracle struct {
	calls  int64
	status Status
}

func (c *countingOracle) Check(context.Context, string) Status {
	atomic.AddInt64(&c.calls, 1)
	return c.status
}

func TestCachedOracleCachesVerdicts(t *testing.T) {
	inner := &countingOracle{status: StatusActive}
	cached := NewCachedOracle(inner, time.Minute)

	ctx := context.Background()
	assert.Equal(t, StatusActive, cached.Check(ctx, "KEY"))
	assert.Equal(t, StatusActive, cached.Check(ctx, "KEY"))
	assert.EqualValues(t, 1, atomic.LoadInt64(&inner.calls))
}

func TestCachedOracleNeverCachesUnreachable(t *testing.T) {
	inner := &countingOracle{status: StatusUnreachable}
	cached := NewCachedOracle(inner, time.Minute)

	ctx := context.Background()
	assert.Equal(t, StatusUnreachable, cached.Check(ctx, "KEY"))
	assert.Equal(t, StatusUnreachable, cached.Check(ctx, "KEY"))
	assert.EqualValues(t, 2, atomic.LoadInt64(&inner.calls))

	// a later successful verdict is cached as usual
	inner.status = StatusActive
	assert.Equal(t, StatusActive, cached.Check(ctx, "KEY"))
	assert.Equal(t, StatusActive, cached.Check(ctx, "KEY"))
	assert.EqualValues(t, 3, atomic.LoadInt64(&inner.calls))
}

func TestCachedOracleInvalidate(t *testing.T) {
	inner := &countingOracle{status: StatusActive}
	cached := NewCachedOracle(inner, time.Minute)

	ctx := context.Background()
	_ = cached.Check(ctx, "KEY")
	cached.Invalidate("KEY")

	inner.status = StatusSuspended
	assert.Equal(t, StatusSuspended, cached.Check(ctx, "KEY"))
	assert.EqualValues(t, 2, atomic.LoadInt64(&inner.calls))
}

func TestMachineIDStable(t *testing.T) {
	dir := t.TempDir()
	first := MachineID(dir)
	require.NotEmpty(t, first)
	assert.Equal(t, first, MachineID(dir), "machine identity must be stable across calls")
}

func TestHardwareAddrID(t *testing.T) {
	tests := []struct {
		name string
		hw   net.HardwareAddr
		want string
	}{
		{"eui48", net.HardwareAddr{0x00, 0x16, 0x3e, 0x01, 0x02, 0x03}, "95529533955"},
		{"eui64", net.HardwareAddr{0x02, 0x16, 0x3e, 0xff, 0xfe, 0x01, 0x02, 0x03}, "150376906762551811"},
		{"all zero", net.HardwareAddr{0, 0, 0, 0, 0, 0}, ""},
		{"too short", net.HardwareAddr{0x01, 0x02}, ""},
		{"infiniband 20 byte", make(net.HardwareAddr, 20), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hardwareAddrID(tt.hw))
		})
	}
}
