package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestLocalLockerSerializesSameName(t *testing.T) {
	ctx := context.Background()
	locker := NewLocalLocker()

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, "slot_1", time.Second)
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			_ = unlock(ctx)
		}()
	}
	wg.Wait()
	if maxSeen != 1 {
		t.Errorf("max concurrent holders = %d, want 1", maxSeen)
	}
	if len(locker.locks) != 0 {
		t.Errorf("lock table not cleaned up: %d entries", len(locker.locks))
	}
}

func TestLocalLockerHonoursContext(t *testing.T) {
	locker := NewLocalLocker()
	unlock, err := locker.Lock(context.Background(), "slot_1", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer unlock(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := locker.Lock(ctx, "slot_1", time.Second); err == nil {
		t.Fatal("expected the second Lock to time out")
	}
	other, err := locker.Lock(context.Background(), "slot_2", time.Second)
	if err != nil {
		t.Fatalf("different names must not block: %v", err)
	}
	_ = other(context.Background())
}

func TestRedisLockerExcludesSecondHolder(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	locker := NewRedisLocker(client, "evm:lock:")

	unlock, err := locker.Lock(context.Background(), "slot_1", 5*time.Second)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if !mr.Exists("evm:lock:slot_1") {
		t.Error("lock key not written")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if _, err := locker.Lock(ctx, "slot_1", 5*time.Second); err == nil {
		t.Fatal("expected the held lock to exclude a second holder")
	}

	if err := unlock(context.Background()); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	again, err := locker.Lock(context.Background(), "slot_1", 5*time.Second)
	if err != nil {
		t.Fatalf("Lock after release: %v", err)
	}
	_ = again(context.Background())
}

func TestFlushLeavesHeldLocksAlone(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	svc := NewCacheService(Options{Store: NewRedisStore(client, false), KeyPrefix: DefaultKeyPrefix, Logger: quietLogger()})
	locker := NewRedisLocker(client, LockPrefix(DefaultKeyPrefix))

	key := Slots.One("abc").String()
	unlock, err := locker.Lock(ctx, key, 5*time.Second)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	defer unlock(ctx)
	if err := mr.Set("evm:slots_active", "[]"); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Flush(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.DeletePattern(ctx, Pattern("*")); err != nil {
		t.Fatal(err)
	}
	if mr.Exists("evm:slots_active") {
		t.Error("flush should clear cache entries")
	}
	if !mr.Exists("lock:evm:" + key) {
		t.Fatal("flush removed a held lock")
	}

	waitCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	if _, err := locker.Lock(waitCtx, key, 5*time.Second); err == nil {
		t.Fatal("second holder acquired the lock after a flush")
	}
}
