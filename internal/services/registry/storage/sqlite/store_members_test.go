package sqlite

import (
	"context"
	"testing"

	"github.com/harborforge/depot/internal/services/registry/storage"
)

func TestListOriginMembersIncludesOwner(t *testing.T) {
	store := openTestStore(t)
	neurosis := createTestOrigin(t, store, "neurosis", 1, "scottkelly")

	members, err := store.ListOriginMembers(context.Background(), neurosis.ID)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 1 || members[0] != "scottkelly" {
		t.Fatalf("members = %v, want just the owner", members)
	}
}

func TestListOriginMembersAfterResolutions(t *testing.T) {
	store := openTestStore(t)
	neurosis := createTestOrigin(t, store, "neurosis", 1, "scottkelly")

	createTestInvitation(t, store, neurosis, 3, "noel_gallagher")
	createTestInvitation(t, store, neurosis, 4, "steve_perry")

	acceptInvitation(t, store, 3, false)
	acceptInvitation(t, store, 4, true)

	members, err := store.ListOriginMembers(context.Background(), neurosis.ID)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("members = %v, want 2", members)
	}
	// Alphabetical by account name.
	if members[0] != "noel_gallagher" || members[1] != "scottkelly" {
		t.Fatalf("members = %v, want [noel_gallagher scottkelly]", members)
	}
	for _, name := range members {
		if name == "steve_perry" {
			t.Fatal("steve_perry ignored his invite and must not be a member")
		}
	}
}

func TestListOriginMembersUnknownOrigin(t *testing.T) {
	store := openTestStore(t)

	members, err := store.ListOriginMembers(context.Background(), 99)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 0 {
		t.Fatalf("members = %v, want none for an unknown origin", members)
	}
}

func TestCheckAccountInOrigin(t *testing.T) {
	store := openTestStore(t)
	neurosis := createTestOrigin(t, store, "neurosis", 1, "scottkelly")

	owner, err := store.CheckAccountInOrigin(context.Background(), "neurosis", 1)
	if err != nil {
		t.Fatalf("check owner membership: %v", err)
	}
	if !owner {
		t.Fatal("owner should be a member of the origin")
	}

	stranger, err := store.CheckAccountInOrigin(context.Background(), "neurosis", 7)
	if err != nil {
		t.Fatalf("check stranger membership: %v", err)
	}
	if stranger {
		t.Fatal("uninvited account must not be a member")
	}

	// A pending invitation alone is not membership.
	createTestInvitation(t, store, neurosis, 3, "noel_gallagher")
	pending, err := store.CheckAccountInOrigin(context.Background(), "neurosis", 3)
	if err != nil {
		t.Fatalf("check pending membership: %v", err)
	}
	if pending {
		t.Fatal("pending invitee must not be a member before accepting")
	}
}

func TestCheckAccountInOriginUnknownOrigin(t *testing.T) {
	store := openTestStore(t)

	member, err := store.CheckAccountInOrigin(context.Background(), "ghost", 1)
	if err != nil {
		t.Fatalf("check membership: %v", err)
	}
	if member {
		t.Fatal("unknown origin must report no membership")
	}
}

func acceptInvitation(t *testing.T, store *Store, accountID int64, ignore bool) {
	t.Helper()
	invites, err := store.ListOriginInvitationsForAccount(context.Background(), accountID)
	if err != nil {
		t.Fatalf("list invitations for account %d: %v", accountID, err)
	}
	if len(invites) == 0 {
		t.Fatalf("no pending invitation for account %d", accountID)
	}
	if err := store.AcceptOriginInvitation(context.Background(), storage.AcceptInvitationRequest{
		InviteID:  invites[0].ID,
		AccountID: accountID,
		Ignore:    ignore,
	}); err != nil {
		t.Fatalf("resolve invitation for account %d: %v", accountID, err)
	}
}
