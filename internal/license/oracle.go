package license

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/guonaihong/gout"
	"go.uber.org/zap"
)

// remote registry markers; anything else in the registry is a machine id the
// key is bound to.
const (
	remoteActive    = "ACTIVE"
	remoteSuspended = "SUSPENDED"
	remoteInvalid   = "INVALID"
)

// HTTPOracle consults the master license registry: a JSON object mapping
// keys to either a marker or the machine id the key is bound to. The fetch
// is timeout-bounded; it is the only network call in the system.
type HTTPOracle struct {
	url       string
	timeout   time.Duration
	machineID string
}

func NewHTTPOracle(url string, timeout time.Duration, machineID string) *HTTPOracle {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPOracle{url: url, timeout: timeout, machineID: machineID}
}

func (o *HTTPOracle) Check(ctx context.Context, key string) Status {
	var registry map[string]string
	var code int
	// cache-buster defeats CDN staleness on the registry host
	err := gout.GET(o.url).
		WithContext(ctx).
		SetTimeout(o.timeout).
		SetQuery(gout.H{"v": rand.Int63n(1000000) + 1}).
		Code(&code).
		BindJSON(&registry).
		Do()
	if err != nil {
		zap.L().Warn("license registry unreachable", zap.Error(err))
		return StatusUnreachable
	}
	if code != http.StatusOK {
		zap.L().Warn("license registry returned non-200", zap.Int("code", code))
		return StatusUnreachable
	}

	remote, ok := registry[key]
	if !ok {
		remote = remoteInvalid
	}
	switch remote {
	case remoteActive:
		return StatusActive
	case remoteSuspended:
		return StatusSuspended
	case remoteInvalid:
		return StatusInvalid
	case o.machineID:
		return StatusBoundHere
	default:
		return StatusBoundElsewhere
	}
}
