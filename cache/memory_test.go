package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	chatlate "github.com/ZaguanLabs/chatlate"
)

func TestMemory_GetPut(t *testing.T) {
	c := NewMemory()

	c.Put(chatlate.Outgoing, "hello", "privet")

	val, ok := c.Get(chatlate.Outgoing, "hello")
	if !ok {
		t.Error("Get should hit for the stored input")
	}
	if val != "privet" {
		t.Errorf("Get returned %q, want %q", val, "privet")
	}

	// Different text misses
	if val, ok := c.Get(chatlate.Outgoing, "hello "); ok || val != "" {
		t.Errorf("Get(%q) = %q, %v; want miss", "hello ", val, ok)
	}
}

func TestMemory_SingleSlot(t *testing.T) {
	c := NewMemory()

	c.Put(chatlate.Incoming, "a", "A")
	c.Put(chatlate.Incoming, "b", "B")

	if _, ok := c.Get(chatlate.Incoming, "a"); ok {
		t.Error("older input should be evicted")
	}
	if val, ok := c.Get(chatlate.Incoming, "b"); !ok || val != "B" {
		t.Errorf("Get(b) = %q, %v", val, ok)
	}
}

func TestMemory_DirectionsAreIndependent(t *testing.T) {
	c := NewMemory()

	c.Put(chatlate.Incoming, "same", "in")
	c.Put(chatlate.Outgoing, "same", "out")

	if val, _ := c.Get(chatlate.Incoming, "same"); val != "in" {
		t.Errorf("incoming = %q", val)
	}
	if val, _ := c.Get(chatlate.Outgoing, "same"); val != "out" {
		t.Errorf("outgoing = %q", val)
	}
}

func TestMemory_Disabled(t *testing.T) {
	c := NewMemory()
	c.Put(chatlate.Outgoing, "hello", "privet")

	c.SetEnabled(chatlate.Outgoing, false)
	if c.Enabled(chatlate.Outgoing) {
		t.Error("Enabled should report false")
	}
	if _, ok := c.Get(chatlate.Outgoing, "hello"); ok {
		t.Error("disabled slot should miss")
	}

	c.Put(chatlate.Outgoing, "other", "drugoy")
	c.SetEnabled(chatlate.Outgoing, true)

	if _, ok := c.Get(chatlate.Outgoing, "other"); ok {
		t.Error("Put on a disabled slot should be ignored")
	}
	if val, ok := c.Get(chatlate.Outgoing, "hello"); !ok || val != "privet" {
		t.Errorf("re-enabled slot lost its pair: %q, %v", val, ok)
	}
	if !c.Enabled(chatlate.Incoming) {
		t.Error("incoming should stay enabled")
	}
}

func TestMemory_TTL(t *testing.T) {
	c := NewMemory(WithTTL(50 * time.Millisecond))
	c.Put(chatlate.Incoming, "key", "value")

	if _, ok := c.Get(chatlate.Incoming, "key"); !ok {
		t.Error("value should be available immediately after Put")
	}

	time.Sleep(80 * time.Millisecond)

	if val, ok := c.Get(chatlate.Incoming, "key"); ok || val != "" {
		t.Errorf("expired value returned: %q, %v", val, ok)
	}
}

func TestMemory_UnknownDirection(t *testing.T) {
	c := NewMemory()
	c.Put(chatlate.Direction(7), "a", "b")

	if _, ok := c.Get(chatlate.Direction(7), "a"); ok {
		t.Error("unknown direction should miss")
	}
	if c.Enabled(chatlate.Direction(7)) {
		t.Error("unknown direction should not be enabled")
	}
}

func TestMemory_Clear(t *testing.T) {
	c := NewMemory()
	c.Put(chatlate.Incoming, "a", "A")
	c.Put(chatlate.Outgoing, "b", "B")

	c.Clear()

	if _, ok := c.Get(chatlate.Incoming, "a"); ok {
		t.Error("incoming should be empty after Clear")
	}
	if _, ok := c.Get(chatlate.Outgoing, "b"); ok {
		t.Error("outgoing should be empty after Clear")
	}
}

func TestMemory_Concurrent(t *testing.T) {
	c := NewMemory()
	var wg sync.WaitGroup

	// Concurrent writers
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			text := fmt.Sprintf("text%d", n)
			c.Put(chatlate.Direction(n%2), text, "result:"+text)
		}(i)
	}

	// Concurrent readers
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			text := fmt.Sprintf("text%d", n)
			if val, ok := c.Get(chatlate.Direction(n%2), text); ok && val != "result:"+text {
				t.Errorf("torn read: %q for %q", val, text)
			}
		}(i)
	}

	wg.Wait()
}
