package sqlite

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/harborforge/depot/internal/services/registry/origin"
	"github.com/harborforge/depot/internal/services/registry/storage"
)

func TestCreateOriginSecretKeyAppendsChain(t *testing.T) {
	store := openTestStore(t)
	created := createTestOrigin(t, store, "neurosis", 1, "scottkelly")

	first, err := store.CreateOriginSecretKey(context.Background(), origin.CreateSecretKeyInput{
		Name:     "neurosis",
		Revision: "20160612031944",
		OriginID: created.ID,
		OwnerID:  1,
		Body:     []byte("very_secret"),
	})
	if err != nil {
		t.Fatalf("create first key: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("expected store-assigned key id")
	}

	second, err := store.CreateOriginSecretKey(context.Background(), origin.CreateSecretKeyInput{
		Name:     "neurosis",
		Revision: "20160612031945",
		OriginID: created.ID,
		OwnerID:  1,
		Body:     []byte("very_secret"),
	})
	if err != nil {
		t.Fatalf("create second key: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("expected a new row per revision")
	}

	// Appending never replaces prior revisions.
	if got := countRows(t, store, "origin_secret_keys"); got != 2 {
		t.Fatalf("origin_secret_keys rows = %d, want 2", got)
	}
}

func TestGetOriginSecretKeyReturnsLatestRevision(t *testing.T) {
	store := openTestStore(t)
	created := createTestOrigin(t, store, "neurosis", 1, "scottkelly")

	for _, revision := range []string{"20160612031944", "20160612031945"} {
		if _, err := store.CreateOriginSecretKey(context.Background(), origin.CreateSecretKeyInput{
			Name:     "neurosis",
			Revision: revision,
			OriginID: created.ID,
			OwnerID:  1,
			Body:     []byte("very_secret"),
		}); err != nil {
			t.Fatalf("create key %s: %v", revision, err)
		}
	}

	key, err := store.GetOriginSecretKey(context.Background(), "neurosis", 1)
	if err != nil {
		t.Fatalf("get secret key: %v", err)
	}
	if key.Name != "neurosis" {
		t.Fatalf("name = %q, want neurosis", key.Name)
	}
	if key.Revision != "20160612031945" {
		t.Fatalf("revision = %q, want 20160612031945", key.Revision)
	}
	if key.OriginID != created.ID {
		t.Fatalf("origin_id = %d, want %d", key.OriginID, created.ID)
	}
	if !bytes.Equal(key.Body, []byte("very_secret")) {
		t.Fatalf("body = %q", key.Body)
	}
	if key.OwnerID != 1 {
		t.Fatalf("owner_id = %d, want 1", key.OwnerID)
	}
}

func TestGetOriginSecretKeyLatestUnderReversedInsertion(t *testing.T) {
	store := openTestStore(t)
	created := createTestOrigin(t, store, "neurosis", 1, "scottkelly")

	// Insert the newer revision first; "latest" is defined by string order,
	// not insertion order.
	for _, revision := range []string{"20160612031945", "20160612031944"} {
		if _, err := store.CreateOriginSecretKey(context.Background(), origin.CreateSecretKeyInput{
			Name:     "neurosis",
			Revision: revision,
			OriginID: created.ID,
			OwnerID:  1,
			Body:     []byte("very_secret"),
		}); err != nil {
			t.Fatalf("create key %s: %v", revision, err)
		}
	}

	key, err := store.GetOriginSecretKey(context.Background(), "neurosis", 1)
	if err != nil {
		t.Fatalf("get secret key: %v", err)
	}
	if key.Revision != "20160612031945" {
		t.Fatalf("revision = %q, want 20160612031945", key.Revision)
	}
}

func TestGetOriginSecretKeyWithoutKeys(t *testing.T) {
	store := openTestStore(t)
	createTestOrigin(t, store, "neurosis", 1, "scottkelly")

	_, err := store.GetOriginSecretKey(context.Background(), "neurosis", 1)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateOriginSecretKeyValidatesInput(t *testing.T) {
	store := openTestStore(t)
	created := createTestOrigin(t, store, "neurosis", 1, "scottkelly")

	if _, err := store.CreateOriginSecretKey(context.Background(), origin.CreateSecretKeyInput{
		Name:     "neurosis",
		OriginID: created.ID,
		OwnerID:  1,
		Body:     []byte("very_secret"),
	}); !errors.Is(err, origin.ErrKeyRevisionEmpty) {
		t.Fatalf("err = %v, want ErrKeyRevisionEmpty", err)
	}
	if _, err := store.CreateOriginSecretKey(context.Background(), origin.CreateSecretKeyInput{
		Name:     "neurosis",
		Revision: "20160612031944",
		OriginID: created.ID,
		OwnerID:  1,
	}); !errors.Is(err, origin.ErrKeyBodyEmpty) {
		t.Fatalf("err = %v, want ErrKeyBodyEmpty", err)
	}
}
