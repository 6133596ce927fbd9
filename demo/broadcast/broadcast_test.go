// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package broadcast_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/framegrace/vcore"
	"github.com/framegrace/vcore/demo/broadcast"
	"github.com/framegrace/vcore/state"
)

type fakeCell struct{ id vcore.Identity }

func (f *fakeCell) Identity() uuid.UUID { return f.id.Identity() }
func (f *fakeCell) UpdateIndex(vcore.Index) {}
func (f *fakeCell) UpdateItem(any)          {}
func (f *fakeCell) OnCache()                {}
func (f *fakeCell) OnDeCache()              {}
func (f *fakeCell) Dispose()                {}

func TestFrameOfEmptyState(t *testing.T) {
	f := broadcast.FrameOf(state.Empty[*fakeCell]())
	if f.RangeMin != -1 || f.RangeMax != -1 || f.Count != 0 {
		t.Errorf("FrameOf(Empty) = %+v, want RangeMin/Max -1 and Count 0", f)
	}
}

func TestFrameOfPopulatedState(t *testing.T) {
	s := state.State[*fakeCell]{
		Range:        vcore.NewRange(2, 4),
		Cells:        map[vcore.Index]*fakeCell{2: {}, 3: {}, 4: {}},
		CellsChanged: true,
	}
	f := broadcast.FrameOf(s)
	if f.RangeMin != 2 || f.RangeMax != 4 || f.Count != 3 || !f.CellsChanged {
		t.Errorf("FrameOf(populated) = %+v, want {2 4 3 true}", f)
	}
}

func TestHubPublishReachesConnectedClient(t *testing.T) {
	hub := broadcast.NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	// Give the server goroutine a moment to register the connection.
	time.Sleep(20 * time.Millisecond)

	hub.Publish(broadcast.Frame{RangeMin: 0, RangeMax: 9, Count: 10})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	var got broadcast.Frame
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.Count != 10 || got.RangeMax != 9 {
		t.Errorf("received Frame = %+v, want Count=10 RangeMax=9", got)
	}
}
