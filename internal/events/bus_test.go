package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishDeliversInOrder(t *testing.T) {
	bus := NewBus()
	var got []string

	bus.Subscribe(TopicPreferenceChanged, func(ev Event) {
		p := ev.Payload.(PreferenceChanged)
		got = append(got, "first:"+p.Key+"="+p.Value)
	})
	bus.Subscribe(TopicPreferenceChanged, func(ev Event) {
		got = append(got, "second:"+ev.Topic)
	})
	bus.Subscribe(TopicSettingsUpdated, func(Event) {
		got = append(got, "settings")
	})

	bus.Publish(TopicPreferenceChanged, PreferenceChanged{Key: "theme", Value: "light"})

	assert.Equal(t, []string{"first:theme=light", "second:preference-changed"}, got)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	unsubscribe := bus.Subscribe(TopicSettingsUpdated, func(Event) { calls++ })

	bus.Publish(TopicSettingsUpdated, nil)
	unsubscribe()
	unsubscribe()
	bus.Publish(TopicSettingsUpdated, nil)

	assert.Equal(t, 1, calls)
	assert.Empty(t, bus.Topics())
}

func TestHandlerMayUnsubscribeDuringPublish(t *testing.T) {
	bus := NewBus()
	calls := 0
	var unsubscribe func()
	unsubscribe = bus.Subscribe(TopicSettingsUpdated, func(Event) {
		calls++
		unsubscribe()
	})

	bus.Publish(TopicSettingsUpdated, nil)
	bus.Publish(TopicSettingsUpdated, nil)

	assert.Equal(t, 1, calls)
}
