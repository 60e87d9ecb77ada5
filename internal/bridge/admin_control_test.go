package bridge

import (
	"bufio"
	"encoding/json"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/bridgectl/internal/testutil/testlog"
)

func TestHandleControlRequestTranslateItem(t *testing.T) {
	testlog.Start(t)
	svc := newTestService(t)
	resp := svc.handleControlRequest(controlRequest{
		Action: "translate_item",
		Locale: "en_us",
		Item: json.RawMessage(`{"id":"minecraft:tropical_fish_bucket","components":{
			"minecraft:tropical_fish/base_color": 5,
			"minecraft:tropical_fish/pattern_color": 9
		}}`),
	})
	if !resp.OK {
		t.Fatalf("translate_item failed: %s", resp.Error)
	}
	out := resp.Data.(translateItemResponse)
	if out.Kind != "tropical_fish_bucket" {
		t.Fatalf("unexpected kind: %q", out.Kind)
	}
	lore, _ := out.Tag["Lore"].([]any)
	if len(lore) != 2 || lore[0] != "§r§7§oKob" || lore[1] != "§r§7§oLime, Cyan" {
		t.Fatalf("unexpected lore: %v", lore)
	}
	if len(out.NBT) == 0 {
		t.Fatalf("expected nbt payload")
	}
}

func TestHandleControlRequestInteract(t *testing.T) {
	testlog.Start(t)
	svc := newTestService(t)
	resp := svc.handleControlRequest(controlRequest{
		Action: "interact",
		Interact: &interactInput{
			BlockJavaID: 4321,
			Block:       "minecraft:farmland",
			Item:        "minecraft:stone_hoe",
			Position:    [3]float32{1, 2, 3},
		},
	})
	if !resp.OK {
		t.Fatalf("interact failed: %s", resp.Error)
	}
	out := resp.Data.(interactResponse)
	if !out.Handled || len(out.Events) != 1 {
		t.Fatalf("unexpected interact result: %+v", out)
	}
	if out.Events[0].ExtraData != 987 || len(out.Events[0].Wire) == 0 {
		t.Fatalf("unexpected event: %+v", out.Events[0])
	}
}

func TestHandleControlRequestErrors(t *testing.T) {
	testlog.Start(t)
	svc := newTestService(t)
	cases := []controlRequest{
		{Action: "explode"},
		{Action: "translate_item"},
		{Action: "translate_item", Item: json.RawMessage(`{"components":{}}`)},
		{Action: "interact"},
	}
	for _, req := range cases {
		if resp := svc.handleControlRequest(req); resp.OK {
			t.Fatalf("expected failure for %+v", req)
		}
	}
	resp := svc.handleControlRequest(controlRequest{Action: "explode"})
	if !strings.Contains(resp.Error, ErrUnknownAction.Error()) {
		t.Fatalf("unexpected error: %q", resp.Error)
	}
}

func TestAdminConnReloadRoundTrip(t *testing.T) {
	testlog.Start(t)
	svc := newTestService(t)
	client, server := net.Pipe()
	defer client.Close()
	go svc.handleAdminConn(server)

	_ = client.SetDeadline(time.Now().Add(5 * time.Second))
	reader := bufio.NewReader(client)
	send := func(line string) map[string]any {
		t.Helper()
		if _, err := client.Write([]byte(line + "\n")); err != nil {
			t.Fatalf("write: %v", err)
		}
		raw, err := reader.ReadBytes('\n')
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var out map[string]any
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		return out
	}

	resp := send(`{"action":"reload","target":"all"}`)
	if resp["ok"] != true {
		t.Fatalf("reload failed: %v", resp)
	}
	data := resp["data"].(map[string]any)
	if data["generation"].(float64) != 1 {
		t.Fatalf("unexpected generation: %v", data["generation"])
	}

	resp = send(`{"action":"suggestion","command":"help"}`)
	if found := resp["data"].(map[string]any)["found"]; found != true {
		t.Fatalf("expected help suggestion, got %v", resp)
	}

	resp = send(`not json`)
	if resp["ok"] != false {
		t.Fatalf("expected malformed request to fail")
	}

	resp = send(`{"action":"status"}`)
	status := resp["data"].(map[string]any)
	if status["admin_clients"].(float64) != 1 {
		t.Fatalf("unexpected admin client count: %v", status["admin_clients"])
	}
}
