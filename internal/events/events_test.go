package events

import (
	"context"
	"encoding/json"
	"testing"
)

func TestKafkaPublisherUnconfigured(t *testing.T) {
	p := NewKafkaPublisher("", "")
	if err := p.Publish(context.Background(), Event{Key: "k"}); err == nil {
		t.Fatalf("expected error from unconfigured publisher")
	}
}

func TestNullPublisher(t *testing.T) {
	var p Publisher = NullPublisher{}
	if err := p.Publish(context.Background(), Event{Key: "k"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}

func TestEventJSONOmitsEmpty(t *testing.T) {
	data, err := json.Marshal(Event{Key: "wheels/a.whl", Status: "invalid"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"key":"wheels/a.whl","status":"invalid"}`
	if string(data) != want {
		t.Fatalf("json=%s, expected %s", data, want)
	}
}
