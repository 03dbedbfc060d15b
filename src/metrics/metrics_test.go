package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MMN3003/minter/src/mint/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTransitionObserver(t *testing.T) {
	c := txTransitions.WithLabelValues(string(domain.TxMintNative), string(domain.PhaseConfirmed))
	base := testutil.ToFloat64(c)

	TransitionObserver{}.OnTransition(domain.TransactionState{Kind: domain.TxMintNative, Phase: domain.PhaseConfirmed}, domain.Notification{})

	assert.Equal(t, base+1, testutil.ToFloat64(c))
}

func TestCacheCounters(t *testing.T) {
	hit := cacheLookups.WithLabelValues(CacheMetadata, ResultHit)
	base := testutil.ToFloat64(hit)
	baseEvicted := testutil.ToFloat64(cacheEvictions)

	CacheLookup(CacheMetadata, ResultHit)
	CacheLookup(CacheMetadata, ResultHit)
	CacheEvicted(3)

	assert.Equal(t, base+2, testutil.ToFloat64(hit))
	assert.Equal(t, baseEvicted+3, testutil.ToFloat64(cacheEvictions))

	// histogram paths only need to run
	MetadataFetched(time.Now(), nil)
	MetadataFetched(time.Now(), errors.New("boom"))
}

func TestMiddleware_PathFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/tokens/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	route := httpReqs.WithLabelValues("GET", "/tokens/:id", "200")
	missing := httpReqs.WithLabelValues("GET", "/nope", "404")
	baseRoute, baseMissing := testutil.ToFloat64(route), testutil.ToFloat64(missing)

	for _, p := range []string{"/tokens/1", "/tokens/2", "/nope"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Equal(t, baseRoute+2, testutil.ToFloat64(route))
	assert.Equal(t, baseMissing+1, testutil.ToFloat64(missing))
}
