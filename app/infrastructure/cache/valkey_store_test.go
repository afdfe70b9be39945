package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/valkey-io/valkey-go"
)

func TestParseValkeyURL(t *testing.T) {
	tests := []struct {
		in       string
		address  string
		password string
		db       int
		wantErr  bool
	}{
		{in: "localhost:6379", address: "localhost:6379", db: -1},
		{in: "valkey://cache:6379", address: "cache:6379", db: -1},
		{in: "redis://:s3cret@cache:6380/2", address: "cache:6380", password: "s3cret", db: 2},
		{in: "valkey://cache:6379/notanumber", address: "cache:6379", db: -1},
		{in: "valkey:///0", wantErr: true},
	}
	for _, tt := range tests {
		address, password, db, err := parseValkeyURL(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseValkeyURL(%q) err = %v", tt.in, err)
			continue
		}
		if tt.wantErr {
			continue
		}
		if address != tt.address || password != tt.password || db != tt.db {
			t.Errorf("parseValkeyURL(%q) = (%q, %q, %d), want (%q, %q, %d)", tt.in, address, password, db, tt.address, tt.password, tt.db)
		}
	}
}

func newTestValkeyStore(t *testing.T) (*ValkeyStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	if err != nil {
		t.Fatalf("valkey client: %v", err)
	}
	store := NewValkeyStore(client)
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestValkeyStoreRoundTripAndTTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestValkeyStore(t)

	if _, ok, err := store.Get(ctx, "evm:user_1"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "evm:user_1", []byte(`{"id":"1"}`), 2*time.Second); err != nil {
		t.Fatal(err)
	}
	got, ok, err := store.Get(ctx, "evm:user_1")
	if err != nil || !ok || string(got) != `{"id":"1"}` {
		t.Fatalf("Get = %q ok=%v err=%v", got, ok, err)
	}
	if ttl := mr.TTL("evm:user_1"); ttl != 2*time.Second {
		t.Errorf("TTL = %v, want 2s", ttl)
	}

	// Sub-second TTLs round up instead of becoming persistent.
	if err := store.Set(ctx, "evm:user_2", []byte(`{}`), 300*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if ttl := mr.TTL("evm:user_2"); ttl != time.Second {
		t.Errorf("short TTL = %v, want 1s", ttl)
	}

	mr.FastForward(3 * time.Second)
	if _, ok, _ := store.Get(ctx, "evm:user_1"); ok {
		t.Error("expected miss after TTL elapsed")
	}
}

func TestValkeyStoreDeleteAndPattern(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestValkeyStore(t)

	for _, k := range []string{"evm:order_ord_1", "evm:orders_user_usr_1", "evm:orders_1_10__", "evm:orders_seller_usr_2", "evm:payment_pay_1"} {
		if err := mr.Set(k, "{}"); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.Delete(ctx, "evm:order_ord_1"); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "evm:order_ord_1"); err != nil {
		t.Fatalf("deleting a missing key: %v", err)
	}
	if mr.Exists("evm:order_ord_1") {
		t.Error("order key should be gone")
	}

	// The matches hash to different slots.
	n, err := store.DeletePattern(ctx, "evm:orders_*")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("removed = %d, want 3", n)
	}
	if !mr.Exists("evm:payment_pay_1") {
		t.Error("payment key should survive")
	}
	if exists, err := store.Exists(ctx, "evm:payment_pay_1"); err != nil || !exists {
		t.Errorf("Exists = %v, %v", exists, err)
	}
	if n, err := store.DeletePattern(ctx, "evm:nothing_*"); err != nil || n != 0 {
		t.Errorf("empty pattern removed %d, %v", n, err)
	}
}

func TestCacheServiceOverValkeyInvalidatesSlotViews(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestValkeyStore(t)
	svc := NewCacheService(Options{Store: store, KeyPrefix: DefaultKeyPrefix, OnStoreError: ErrorPolicyFail, Logger: quietLogger()})

	for _, k := range []string{"evm:slots_active", "evm:slots_seller_42", "evm:slot_abc123"} {
		if err := mr.Set(k, "[]"); err != nil {
			t.Fatal(err)
		}
	}
	if err := svc.Invalidate(ctx, []Key{Slots.One("abc123")}, Slots.All()); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"evm:slots_active", "evm:slots_seller_42", "evm:slot_abc123"} {
		if mr.Exists(k) {
			t.Errorf("%s should be invalidated", k)
		}
	}
}

func TestValkeyStoreReportsTransportErrors(t *testing.T) {
	store, mr := newTestValkeyStore(t)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, _, err := store.Get(ctx, "evm:any"); err == nil {
		t.Error("expected Get to fail with the server down")
	}
	if err := store.HealthCheck(ctx); err == nil {
		t.Error("expected HealthCheck to fail with the server down")
	}
}
