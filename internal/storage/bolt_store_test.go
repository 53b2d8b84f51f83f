package storage

import (
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"
)

// fakeClock is a manually advanced clock.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func keyCount(t *testing.T, l *boltLedger) int {
	t.Helper()
	n := 0
	err := l.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(deliveryBucket)).ForEach(func(_, _ []byte) error {
			n++
			return nil
		})
	})
	if err != nil {
		t.Fatalf("count keys: %v", err)
	}
	return n
}

func TestBoltLedgerMarksAndExpires(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)}
	opts := normalizeOptions(Options{TTL: time.Hour, CleanupInterval: 24 * time.Hour, Now: clock.Now})

	ledger, err := openBolt(filepath.Join(t.TempDir(), "nested", "ledger.db"), opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	defer ledger.Close()

	delivered, err := ledger.Delivered("https://example.com/a")
	if err != nil || delivered {
		t.Fatalf("expected undelivered key, delivered=%v err=%v", delivered, err)
	}

	if err := ledger.MarkDelivered("https://example.com/a"); err != nil {
		t.Fatalf("MarkDelivered: %v", err)
	}

	clock.Advance(30 * time.Minute)
	delivered, err = ledger.Delivered("https://example.com/a")
	if err != nil || !delivered {
		t.Fatalf("expected key within ttl to be delivered, got %v err=%v", delivered, err)
	}

	clock.Advance(31 * time.Minute)
	delivered, err = ledger.Delivered("https://example.com/a")
	if err != nil {
		t.Fatalf("Delivered after expiry: %v", err)
	}
	if delivered {
		t.Fatalf("expected entry to expire")
	}
	if n := keyCount(t, ledger); n != 0 {
		t.Fatalf("expired key should be removed on lookup, %d left", n)
	}
}

func TestBoltLedgerPeriodicCleanup(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)}
	opts := normalizeOptions(Options{TTL: time.Hour, CleanupInterval: 2 * time.Hour, Now: clock.Now})

	ledger, err := openBolt(filepath.Join(t.TempDir(), "ledger.db"), opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	defer ledger.Close()

	for _, k := range []string{"a", "b", "c"} {
		if err := ledger.MarkDelivered(k); err != nil {
			t.Fatalf("MarkDelivered(%s): %v", k, err)
		}
	}

	clock.Advance(90 * time.Minute)
	if err := ledger.MarkDelivered("fresh"); err != nil {
		t.Fatalf("MarkDelivered: %v", err)
	}
	if n := keyCount(t, ledger); n != 4 {
		t.Fatalf("cleanup should wait for its interval, got %d keys", n)
	}

	clock.Advance(40 * time.Minute)
	if _, err := ledger.Delivered("fresh"); err != nil {
		t.Fatalf("Delivered: %v", err)
	}
	if n := keyCount(t, ledger); n != 1 {
		t.Fatalf("expected sweep to keep only the fresh key, got %d", n)
	}
}

func TestBoltLedgerRejectsEmptyKey(t *testing.T) {
	ledger, err := openBolt(filepath.Join(t.TempDir(), "ledger.db"), normalizeOptions(Options{}))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	defer ledger.Close()

	if err := ledger.MarkDelivered("  "); err == nil {
		t.Fatalf("expected error for empty key")
	}
	if delivered, err := ledger.Delivered(""); err != nil || delivered {
		t.Fatalf("empty key should never be delivered")
	}
}

func TestNewStore(t *testing.T) {
	store, err := NewStore(TypeNone, "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.MarkDelivered("x"); err != nil {
		t.Fatalf("noop MarkDelivered: %v", err)
	}
	if delivered, _ := store.Delivered("x"); delivered {
		t.Fatalf("noop ledger should never report delivered")
	}

	if _, err := NewStore(TypeBBolt, " ", Options{}); err == nil {
		t.Fatalf("expected error for bbolt without path")
	}
	if _, err := NewStore("redis", "x", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}

	bb, err := NewStore("BBolt", filepath.Join(t.TempDir(), "l.db"), Options{})
	if err != nil {
		t.Fatalf("NewStore bbolt: %v", err)
	}
	if err := bb.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
