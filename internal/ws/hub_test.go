package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPublish_QueuesMarshalledEvent(t *testing.T) {
	hub := NewHub(zap.NewNop())
	hub.Publish(map[string]interface{}{"type": "stock_update", "stock": 3})

	select {
	case msg := <-hub.Broadcast:
		assert.JSONEq(t, `{"type":"stock_update","stock":3}`, string(msg))
	case <-time.After(time.Second):
		t.Fatal("event was not queued")
	}
}

func TestPublish_DropsUnencodableEvent(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	hub := NewHub(zap.New(core))

	hub.Publish(map[string]interface{}{"bad": make(chan int)})

	assert.Equal(t, 1, logs.FilterMessage("WS event dropped").Len())
	select {
	case <-hub.Broadcast:
		t.Fatal("unexpected broadcast")
	case <-time.After(50 * time.Millisecond):
	}
}
