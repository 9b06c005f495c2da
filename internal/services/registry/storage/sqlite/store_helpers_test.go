package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/harborforge/depot/internal/services/registry/origin"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "registry.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func createTestOrigin(t *testing.T, store *Store, name string, ownerID int64, ownerName string) origin.Origin {
	t.Helper()
	created, err := store.CreateOrigin(context.Background(), origin.CreateOriginInput{
		Name:      name,
		OwnerID:   ownerID,
		OwnerName: ownerName,
	})
	if err != nil {
		t.Fatalf("create origin %s: %v", name, err)
	}
	return created
}

func createTestInvitation(t *testing.T, store *Store, org origin.Origin, accountID int64, accountName string) {
	t.Helper()
	if err := store.CreateOriginInvitation(context.Background(), origin.CreateInvitationInput{
		OriginID:    org.ID,
		OriginName:  org.Name,
		AccountID:   accountID,
		AccountName: accountName,
		OwnerID:     org.OwnerID,
	}); err != nil {
		t.Fatalf("create invitation for %s: %v", accountName, err)
	}
}

func countRows(t *testing.T, store *Store, table string) int64 {
	t.Helper()
	var count int64
	if err := store.DB().QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("count %s rows: %v", table, err)
	}
	return count
}
