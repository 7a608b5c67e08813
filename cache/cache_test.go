package cache

import (
	"testing"
	"time"

	"github.com/use-agent/splitboard/models"
)

func result(id int) *models.RunnerResult {
	return &models.RunnerResult{RunnerID: id, Status: models.StatusOK}
}

func TestGetSet(t *testing.T) {
	c := New(10, time.Minute)

	key := Key("132", 1051)
	if _, ok := c.Get(key); ok {
		t.Fatal("hit on an empty cache")
	}

	c.Set(key, result(1051))
	got, ok := c.Get(key)
	if !ok || got.RunnerID != 1051 {
		t.Fatalf("Get = %+v, %v; want cached result", got, ok)
	}

	// Same runner in a different race is a different key.
	if _, ok := c.Get(Key("133", 1051)); ok {
		t.Error("key must include the race id")
	}
}

func TestExpiry(t *testing.T) {
	c := New(10, 10*time.Millisecond)
	key := Key("132", 1051)
	c.Set(key, result(1051))

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get(key); ok {
		t.Error("expired entry served")
	}
}

func TestCapacityEviction(t *testing.T) {
	c := New(2, time.Minute)
	c.Set(Key("132", 1), result(1))
	c.Set(Key("132", 2), result(2))
	c.Set(Key("132", 3), result(3))

	hits := 0
	for id := 1; id <= 3; id++ {
		if _, ok := c.Get(Key("132", id)); ok {
			hits++
		}
	}
	if hits != 2 {
		t.Errorf("got %d live entries, want capacity of 2", hits)
	}
}
