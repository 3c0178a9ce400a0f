package event

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBus_SubscribeReceivesMatchingTopic(t *testing.T) {
	b := NewBus()
	defer b.Close()

	var got Notification
	unsub := b.Subscribe(TopicFileEdited, func(n Notification) { got = n })
	defer unsub()

	b.Publish(Notification{Topic: TopicFileEdited, Data: "main.go"})
	require.Equal(t, "main.go", got.Data)
}

func TestBus_SubscribeIgnoresOtherTopics(t *testing.T) {
	b := NewBus()
	defer b.Close()

	called := false
	unsub := b.Subscribe(TopicFileEdited, func(Notification) { called = true })
	defer unsub()

	b.Publish(Notification{Topic: TopicPermissionResolved})
	require.False(t, called)
}

func TestBus_SubscribeAllReceivesEveryTopic(t *testing.T) {
	b := NewBus()
	defer b.Close()

	count := 0
	unsub := b.SubscribeAll(func(Notification) { count++ })
	defer unsub()

	b.Publish(Notification{Topic: TopicFileEdited})
	b.Publish(Notification{Topic: TopicPermissionResolved})
	require.Equal(t, 2, count)
}

func TestBus_UnsubscribeStopsDelivery(t *testing.T) {
	b := NewBus()
	defer b.Close()

	called := false
	unsub := b.Subscribe(TopicFileEdited, func(Notification) { called = true })
	unsub()

	b.Publish(Notification{Topic: TopicFileEdited})
	require.False(t, called)
}

func TestBus_PublishAfterCloseIsNoop(t *testing.T) {
	b := NewBus()
	require.NoError(t, b.Close())

	called := false
	b.Subscribe(TopicFileEdited, func(Notification) { called = true })
	b.Publish(Notification{Topic: TopicFileEdited})
	require.False(t, called)
}
