package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestSetNXGuardsDuplicates(t *testing.T) {
	t.Parallel()

	srv := miniredis.RunT(t)
	client := NewFromAddr(srv.Addr())
	defer client.Close()

	ctx := context.Background()
	key := client.WebhookKey("midtrans", "notif-1")

	set, err := client.SetNX(ctx, key, "1", time.Minute)
	if err != nil {
		t.Fatalf("setnx: %v", err)
	}
	if !set {
		t.Fatal("expected first setnx to win")
	}

	set, err = client.SetNX(ctx, key, "1", time.Minute)
	if err != nil {
		t.Fatalf("setnx: %v", err)
	}
	if set {
		t.Fatal("expected second setnx to lose")
	}

	if err := client.Del(ctx, key); err != nil {
		t.Fatalf("del: %v", err)
	}
	set, err = client.SetNX(ctx, key, "1", time.Minute)
	if err != nil {
		t.Fatalf("setnx: %v", err)
	}
	if !set {
		t.Fatal("expected setnx to win after delete")
	}
}

func TestWebhookKeyNamespacing(t *testing.T) {
	t.Parallel()

	client := &Client{}
	key := client.WebhookKey("midtrans", "abc")
	if key != "belanja:webhook:midtrans:abc" {
		t.Fatalf("unexpected key: %s", key)
	}
}
