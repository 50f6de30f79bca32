package events

import (
	"sync"
	"testing"
	"time"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := New()
	received := make(chan ActiveChangedEvent, 1)

	unsub := bus.Subscribe(func(e ActiveChangedEvent) {
		received <- e
	})
	defer unsub()

	bus.Publish(ActiveChangedEvent{Active: true, State: "active"})

	select {
	case got := <-received:
		if !got.Active || got.State != "active" {
			t.Errorf("received %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New()
	received := make(chan LEDChangedEvent, 1)

	unsub := bus.Subscribe(func(e LEDChangedEvent) {
		received <- e
	})

	bus.Publish(LEDChangedEvent{On: true})
	<-received

	unsub()

	bus.Publish(LEDChangedEvent{On: false})
	select {
	case <-received:
		t.Fatal("Should not have received event after unsubscribe")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestBus_TypeSafety(t *testing.T) {
	bus := New()

	shifted := make(chan bool, 1)
	reset := make(chan bool, 1)

	unsub1 := bus.Subscribe(func(_ CarouselShiftedEvent) { shifted <- true })
	defer unsub1()
	unsub2 := bus.Subscribe(func(_ CarouselResetEvent) { reset <- true })
	defer unsub2()

	bus.Publish(CarouselShiftedEvent{Delta: -800})
	<-shifted

	select {
	case <-reset:
		t.Fatal("reset subscriber should not receive CarouselShiftedEvent")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestBus_UnknownHandler(_ *testing.T) {
	bus := New()
	unsub := bus.Subscribe(func(string) {})
	unsub()
}

func TestForwarder(t *testing.T) {
	bus := New()
	fwd := NewForwarder(1)
	Forward[PointerEvent](bus, fwd)
	Forward[LEDChangedEvent](bus, fwd)
	defer fwd.Close()

	bus.Publish(PointerEvent{Kind: "click"})

	select {
	case ev := <-fwd.C():
		if pe, ok := ev.(PointerEvent); !ok || pe.Kind != "click" {
			t.Errorf("received %#v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("event not forwarded to channel")
	}

	bus.Publish(LEDChangedEvent{On: true})
	select {
	case ev := <-fwd.C():
		if le, ok := ev.(LEDChangedEvent); !ok || !le.On {
			t.Errorf("received %#v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("second event type not forwarded")
	}
}

func TestForwarder_DropsWhenFull(t *testing.T) {
	bus := New()
	fwd := NewForwarder(1)
	Forward[PointerEvent](bus, fwd)
	defer fwd.Close()

	for range 3 {
		bus.Publish(PointerEvent{Kind: "click"})
	}

	deadline := time.Now().Add(time.Second)
	for fwd.Dropped() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("Dropped() = %d, want 2", fwd.Dropped())
		}
		time.Sleep(time.Millisecond)
	}
	if len(fwd.C()) != 1 {
		t.Errorf("channel holds %d events, want 1", len(fwd.C()))
	}
}

func TestForwarder_Close(t *testing.T) {
	bus := New()
	fwd := NewForwarder(4)
	Forward[PointerEvent](bus, fwd)
	fwd.Close()
	fwd.Close()

	bus.Publish(PointerEvent{Kind: "click"})
	time.Sleep(50 * time.Millisecond)

	if len(fwd.C()) != 0 {
		t.Errorf("closed forwarder still received %d events", len(fwd.C()))
	}
}

func TestBus_ThreadSafety(_ *testing.T) {
	bus := New()
	var wg sync.WaitGroup
	numGoroutines := 10
	eventsPerGoroutine := 50
	expected := numGoroutines * eventsPerGoroutine

	receivedCh := make(chan bool, expected)
	unsub := bus.Subscribe(func(_ PointerEvent) {
		receivedCh <- true
	})
	defer unsub()

	for range numGoroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range eventsPerGoroutine {
				bus.Publish(PointerEvent{Kind: "drag"})
			}
		}()
	}

	wg.Wait()
	for range expected {
		<-receivedCh
	}
}
