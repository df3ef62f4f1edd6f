package stream

import (
	"strconv"
	"sync"
	"testing"

	"github.com/coder/websocket"
)

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	conn := &websocket.Conn{}

	r.Register("user1", "tab-1", conn)

	got, ok := r.Get("user1", "tab-1")
	if !ok || got != conn {
		t.Errorf("Expected connection %v, got %v", conn, got)
	}
	if r.Count() != 1 {
		t.Errorf("Expected 1 connection, got %d", r.Count())
	}
}

func TestRegistry_Unregister(t *testing.T) {
	r := NewRegistry()
	conn := &websocket.Conn{}

	r.Register("user1", "tab-1", conn)
	r.Unregister("user1", "tab-1", conn)

	if _, ok := r.Get("user1", "tab-1"); ok {
		t.Error("Expected connection to be removed")
	}
	if r.Count() != 0 {
		t.Errorf("Expected 0 connections, got %d", r.Count())
	}
}

func TestRegistry_UnregisterStale(t *testing.T) {
	r := NewRegistry()
	conn1 := &websocket.Conn{}
	conn2 := &websocket.Conn{}

	r.Register("user1", "tab-1", conn1)
	r.Register("user1", "tab-2", conn2)

	r.Unregister("user1", "tab-1", conn1)

	got, ok := r.Get("user1", "tab-2")
	if !ok || got != conn2 {
		t.Errorf("Expected other tab to remain, got %v", got)
	}
}

func TestRegistry_UnregisterWrongConn(t *testing.T) {
	r := NewRegistry()
	conn1 := &websocket.Conn{}
	conn2 := &websocket.Conn{}

	r.Register("user1", "tab-1", conn1)
	// A stale unregister from another connection must not evict the
	// active one.
	r.Unregister("user1", "tab-1", conn2)

	got, ok := r.Get("user1", "tab-1")
	if !ok || got != conn1 {
		t.Errorf("Expected active connection to survive, got %v", got)
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			conn := &websocket.Conn{}
			tab := "tab-" + strconv.Itoa(n)
			r.Register("user1", tab, conn)
			r.Unregister("user1", tab, conn)
		}(i)
	}
	wg.Wait()

	if r.Count() != 0 {
		t.Errorf("Expected empty registry, got %d", r.Count())
	}
}
