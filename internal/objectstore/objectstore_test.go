package objectstore

import (
	"context"
	"strings"
	"testing"
)

func TestSimulatedGatewayDeterministic(t *testing.T) {
	g := NewSimulatedGateway()
	ctx := context.Background()
	id1, simulated, err := g.Pin(ctx, "evidence.bin", []byte("same bytes"))
	if err != nil {
		t.Fatalf("Pin() error: %v", err)
	}
	if !simulated {
		t.Errorf("expected the simulated gateway to report simulated=true")
	}
	id2, _, err := g.Pin(ctx, "other-name.bin", []byte("same bytes"))
	if err != nil {
		t.Fatalf("Pin() error: %v", err)
	}
	if id1 != id2 {
		t.Errorf("expected identical content to derive identical ids regardless of filename")
	}
	if !strings.HasPrefix(id1, "sim-") {
		t.Errorf("expected simulated ids to carry the sim- prefix, got %s", id1)
	}
}

func TestSimulatedGatewayDiffersOnContent(t *testing.T) {
	g := NewSimulatedGateway()
	ctx := context.Background()
	id1, _, _ := g.Pin(ctx, "a.bin", []byte("alpha"))
	id2, _, _ := g.Pin(ctx, "b.bin", []byte("beta"))
	if id1 == id2 {
		t.Errorf("expected different file contents to derive different ids")
	}
}

func TestNewFromEnvFallsBackWithoutJWT(t *testing.T) {
	gw := NewFromEnv("")
	if _, ok := gw.(*SimulatedGateway); !ok {
		t.Errorf("expected NewFromEnv(\"\") to fall back to SimulatedGateway, got %T", gw)
	}
}

func TestNewFromEnvUsesPinataWhenJWTSet(t *testing.T) {
	gw := NewFromEnv("test-jwt")
	if _, ok := gw.(*PinataGateway); !ok {
		t.Errorf("expected NewFromEnv with a jwt to return a PinataGateway, got %T", gw)
	}
}
