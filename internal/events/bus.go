// Package events is a small publish/subscribe registry. A Bus is created once by the
// application container and handed to the components that publish or observe events;
// there is no package-level instance.
package events

import (
	"sort"
	"sync"
)

const (
	TopicPreferenceChanged = "preference-changed"
	TopicSettingsUpdated   = "settings-updated"
)

// Event is delivered to every handler subscribed to its topic.
type Event struct {
	Topic   string
	Payload any
}

// PreferenceChanged is the payload of TopicPreferenceChanged.
type PreferenceChanged struct {
	Key   string
	Value string
}

type Handler func(Event)

type subscription struct {
	id      int
	handler Handler
}

type Bus struct {
	mu     sync.RWMutex
	nextID int
	topics map[string][]subscription
}

func NewBus() *Bus {
	return &Bus{topics: make(map[string][]subscription)}
}

// Subscribe registers handler for topic and returns a function that removes it.
func (b *Bus) Subscribe(topic string, handler Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.topics[topic] = append(b.topics[topic], subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(topic, id) })
	}
}

func (b *Bus) remove(topic string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.topics[topic]
	for i, s := range subs {
		if s.id == id {
			b.topics[topic] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.topics[topic]) == 0 {
		delete(b.topics, topic)
	}
}

// Publish calls the handlers of the topic synchronously, in subscription order.
// Handlers may subscribe or unsubscribe while being called.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.RLock()
	subs := append([]subscription(nil), b.topics[topic]...)
	b.mu.RUnlock()

	ev := Event{Topic: topic, Payload: payload}
	for _, s := range subs {
		s.handler(ev)
	}
}

// Topics returns the topics that currently have subscribers.
func (b *Bus) Topics() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	topics := make([]string, 0, len(b.topics))
	for t := range b.topics {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics
}
