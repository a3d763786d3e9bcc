package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTag(t *testing.T) {
	assert.Nil(t, parseTag(nil))
	assert.Equal(t, []string{"stage:metadata", "status:ok"}, parseTag([]string{"stage", "metadata", "status", "ok"}))
	assert.Panics(t, func() { parseTag([]string{"odd"}) })
}

func TestBumpsFallBackToLog(t *testing.T) {
	met := New("test", WithoutPodName())
	assert.NotPanics(t, func() {
		met.BumpSum("items", 3, "status", "ok")
		met.BumpAvg("size", 1.5)
		met.BumpHistogram("latency", 12)
		met.BumpTime("fetch.time").End()
		// odd tags are swallowed by the panic guard
		met.BumpSum("items", 1, "odd")
	})
	_, ok := ddClients[0].(*LogClient)
	assert.True(t, ok)
}
