package eventbus

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

type fakeEvent struct {
	data interface{}
}

func TestPublisher_Publish_NoSubscribers(t *testing.T) {
	type otherEvent struct {
		data interface{}
	}
	logBuffer := bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(&logBuffer)
	log.SetLevel(logrus.WarnLevel)

	publisher := NewEventPublisher(log)
	publisher.Subscribe(func(e *fakeEvent) {
		t.Error("should not be called")
	})
	publisher.Publish(&otherEvent{data: "test"})

	if output := logBuffer.String(); output == "" {
		t.Error("should have logged")
	} else if !strings.Contains(output, "no matching subscribers") {
		t.Errorf("should have contained no matching subscribers but got: %q", output)
	}
}

func TestPublisher_Subscribe(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	publisher := NewEventPublisher(log)

	called := false
	var data interface{}
	publisher.Subscribe(func(e *fakeEvent) {
		called = true
		data = e.data
	})
	publisher.Publish(&fakeEvent{data: "test"})

	if !called {
		t.Error("should be called")
	}
	if data != "test" {
		t.Errorf("expected: %v, got: %v", "test", data)
	}
}

func TestMatchSignature(t *testing.T) {
	type eventA struct{}
	type eventB struct{}

	if !MatchSignature(func(e *eventA) {}, []interface{}{&eventA{}}) {
		t.Error("expected true")
	}
	if MatchSignature(func(e *eventA) {}, []interface{}{&eventB{}}) {
		t.Error("expected false")
	}
	if MatchSignature(func(e *eventA) {}, []interface{}{}) {
		t.Error("expected false")
	}
	if MatchSignature(func(e *eventA) {}, []interface{}{&eventA{}, &eventA{}}) {
		t.Error("expected false")
	}
	if !MatchSignature(func(ctx context.Context) {}, []interface{}{context.Background()}) {
		t.Error("expected true")
	}
}

func TestPublisher_PanicRecovery(t *testing.T) {
	logBuffer := bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(&logBuffer)
	log.SetLevel(logrus.ErrorLevel)

	publisher := NewEventPublisher(log)
	publisher.Subscribe(func(e *fakeEvent) {
		panic("intentional panic for testing")
	})
	publisher.Publish(&fakeEvent{data: "test"})

	if output := logBuffer.String(); !strings.Contains(output, "panicked") {
		t.Errorf("expected panic to be logged, got: %q", output)
	}
}

func TestPublisher_Unsubscribe(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	publisher := NewEventPublisher(log)

	handler := func(e *fakeEvent) {}
	publisher.Subscribe(handler)
	if publisher.SubscribersCount() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", publisher.SubscribersCount())
	}
	publisher.Clear()
	if publisher.SubscribersCount() != 0 {
		t.Fatalf("expected 0 subscribers, got %d", publisher.SubscribersCount())
	}
}
