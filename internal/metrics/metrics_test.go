package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	r := New()
	r.Generation(nil)
	r.Generation(errors.New("too long"))
	r.Export("svg", time.Millisecond, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.generations.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.generations.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.exports.WithLabelValues("svg", "ok")))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "qrforge_generations_total")
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Generation(nil)
		r.Export("png", 0, nil)
	})
}
