package event

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/toolagent/logging"
)

func TestBus_PublishOrder(t *testing.T) {
	bus := NewBus()

	var got []string
	bus.SubscribeAll(func(ev Event) { got = append(got, "all") })
	bus.Subscribe(ToolStart, func(ev Event) { got = append(got, "first") })
	bus.Subscribe(ToolStart, func(ev Event) { got = append(got, "second") })
	bus.Subscribe(ToolEnd, func(ev Event) { got = append(got, "other") })

	ev := bus.Publish(ToolStart, "src-1", map[string]any{"name": "echo"})

	assert.Equal(t, []string{"first", "second", "all"}, got)
	assert.Equal(t, ToolStart, ev.Kind)
	assert.Equal(t, "src-1", ev.Source)
	assert.Equal(t, "echo", ev.Payload["name"])
	assert.NotEmpty(t, ev.ID)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	count := 0
	unsubscribe := bus.Subscribe(AgentStart, func(Event) { count++ })

	bus.Publish(AgentStart, "a", nil)
	unsubscribe()
	unsubscribe()
	bus.Publish(AgentStart, "a", nil)

	assert.Equal(t, 1, count)
	assert.False(t, bus.HasSubscribers(AgentStart))
}

func TestBus_PanickingHandler(t *testing.T) {
	var buf bytes.Buffer
	bus := NewBus(func(o *BusOptions) {
		o.Logger = logging.New(&logging.Config{Level: logging.LogLevelDebug, Format: "text", Output: &buf})
	})

	delivered := false
	bus.Subscribe(AgentEnd, func(Event) { panic("boom") })
	bus.Subscribe(AgentEnd, func(Event) { delivered = true })

	require.NotPanics(t, func() { bus.Publish(AgentEnd, "a", nil) })
	assert.True(t, delivered)
	assert.Contains(t, buf.String(), "event.handler.panic")
	assert.Contains(t, buf.String(), "boom")
}

func TestBus_SubscribeDuringDelivery(t *testing.T) {
	bus := NewBus()

	calls := 0
	bus.Subscribe(ChatStart, func(Event) {
		calls++
		bus.Subscribe(ChatStart, func(Event) { calls++ })
	})

	bus.Publish(ChatStart, "c", nil)
	assert.Equal(t, 1, calls)

	bus.Publish(ChatStart, "c", nil)
	assert.Equal(t, 3, calls)
}

func TestBus_Nil(t *testing.T) {
	var bus *Bus

	unsubscribe := bus.Subscribe(AgentStart, func(Event) { t.Fatal("must not be called") })
	unsubscribe()

	ev := bus.Publish(AgentStart, "x", map[string]any{"question": "q"})
	assert.Equal(t, AgentStart, ev.Kind)
	assert.False(t, bus.HasSubscribers(AgentStart))
}

func TestKind_Valid(t *testing.T) {
	for _, k := range Kinds() {
		assert.True(t, k.Valid(), k)
	}
	assert.False(t, Kind("llm_start").Valid())
}

func TestNewSourceID(t *testing.T) {
	a, b := NewSourceID(), NewSourceID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
