package ecs

import (
	"testing"

	"github.com/phanxgames/grove"
	"github.com/yohamta/donburi"
)

type score struct{ points int }

func (score) Type() grove.EventType { return grove.EventUser + 1 }

func TestNewDonburiSink(t *testing.T) {
	if NewDonburiSink(donburi.NewWorld()) == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSinkEmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []grove.Event
	EventType.Subscribe(world, func(w donburi.World, ev grove.Event) {
		received = append(received, ev)
	})

	sink.EmitEvent(grove.KeyEvent{Key: grove.KeySpace, Down: true})
	sink.EmitEvent(score{points: 3})

	if len(received) != 0 {
		t.Fatalf("events delivered before ProcessEvents: %d", len(received))
	}
	EventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if k, ok := received[0].(grove.KeyEvent); !ok || k.Key != grove.KeySpace {
		t.Errorf("event 0: %+v", received[0])
	}
	if s, ok := received[1].(score); !ok || s.points != 3 {
		t.Errorf("event 1: %+v", received[1])
	}
}

func TestEngineMirrorsDispatchedEvents(t *testing.T) {
	world := donburi.NewWorld()
	e := grove.NewEngine(grove.DefaultConfig(),
		grove.WithEventSink(NewDonburiSink(world)),
		grove.WithClock(&grove.ManualClock{Step: 1.0 / 60}))

	var types []grove.EventType
	EventType.Subscribe(world, func(w donburi.World, ev grove.Event) {
		types = append(types, ev.Type())
	})

	e.Post(grove.KeyEvent{Key: grove.KeyDown, Down: true})
	e.Post(grove.KeyEvent{Key: grove.KeyDown})
	if err := e.Step(); err != nil {
		t.Fatal(err)
	}
	EventType.ProcessEvents(world)

	want := []grove.EventType{grove.EventKeyDown, grove.EventKeyUp}
	if len(types) != len(want) {
		t.Fatalf("types = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("types[%d] = %v, want %v", i, types[i], want[i])
		}
	}
}
