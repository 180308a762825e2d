package services

import (
	"errors"
	"strings"
	"testing"
)

func TestCreateBoard(t *testing.T) {
	_, users, _, boards := newServices(t)
	aliceID := mustCreateUser(t, users, "alice", "Alice")

	board, err := boards.CreateBoard("Sprint", "Q3 planning", aliceID)
	if err != nil {
		t.Fatalf("create board: %v", err)
	}
	if board.OwnerID != aliceID {
		t.Errorf("owner = %q, want %q", board.OwnerID, aliceID)
	}
	if len(board.Members) != 0 {
		t.Errorf("new board should have no explicit members, got %v", board.Members)
	}
	if board.OwnerInfo == nil || board.OwnerInfo.Username != "alice" {
		t.Errorf("owner not populated: %+v", board.OwnerInfo)
	}
}

func TestCreateBoard_Validation(t *testing.T) {
	_, users, _, boards := newServices(t)
	aliceID := mustCreateUser(t, users, "alice", "Alice")

	if _, err := boards.CreateBoard("", "", aliceID); !errors.Is(err, ErrValidation) {
		t.Errorf("empty name: want ErrValidation, got %v", err)
	}
	if _, err := boards.CreateBoard(strings.Repeat("n", MaxBoardNameLength+1), "", aliceID); !errors.Is(err, ErrValidation) {
		t.Errorf("overlong name: want ErrValidation, got %v", err)
	}
	if _, err := boards.CreateBoard("ok", strings.Repeat("d", MaxBoardDescriptionLength+1), aliceID); !errors.Is(err, ErrValidation) {
		t.Errorf("overlong description: want ErrValidation, got %v", err)
	}
	if _, err := boards.CreateBoard("Sprint", "", "missing-user"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing owner: want ErrNotFound, got %v", err)
	}
}

func TestAddMemberToBoard(t *testing.T) {
	_, users, _, boards := newServices(t)
	aliceID := mustCreateUser(t, users, "alice", "Alice")
	bobID := mustCreateUser(t, users, "bob", "Bob")

	board, err := boards.CreateBoard("Sprint", "", aliceID)
	if err != nil {
		t.Fatal(err)
	}

	got, err := boards.AddMemberToBoard(board.ID, bobID)
	if err != nil {
		t.Fatalf("add member: %v", err)
	}
	if len(got.Members) != 1 || got.Members[0] != bobID {
		t.Fatalf("members = %v, want [%s]", got.Members, bobID)
	}
	if len(got.Users) != 1 || got.Users[0].Username != "bob" {
		t.Errorf("members not populated: %+v", got.Users)
	}

	// Adding the same member again is a no-op.
	got, err = boards.AddMemberToBoard(board.ID, bobID)
	if err != nil {
		t.Fatalf("repeat add: %v", err)
	}
	if len(got.Members) != 1 {
		t.Errorf("duplicate member appended: %v", got.Members)
	}

	if _, err := boards.AddMemberToBoard(board.ID, "missing-user"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing user: want ErrNotFound, got %v", err)
	}
	if _, err := boards.AddMemberToBoard("missing-board", bobID); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing board: want ErrNotFound, got %v", err)
	}
}

func TestAddMemberToBoard_OwnerIsImplicit(t *testing.T) {
	_, users, _, boards := newServices(t)
	aliceID := mustCreateUser(t, users, "alice", "Alice")

	board, err := boards.CreateBoard("Sprint", "", aliceID)
	if err != nil {
		t.Fatal(err)
	}

	got, err := boards.AddMemberToBoard(board.ID, aliceID)
	if err != nil {
		t.Fatalf("add owner: %v", err)
	}
	if len(got.Members) != 0 {
		t.Errorf("owner must not appear in members: %v", got.Members)
	}
}

func TestRemoveMemberFromBoard(t *testing.T) {
	_, users, _, boards := newServices(t)
	aliceID := mustCreateUser(t, users, "alice", "Alice")
	bobID := mustCreateUser(t, users, "bob", "Bob")

	board, err := boards.CreateBoard("Sprint", "", aliceID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := boards.AddMemberToBoard(board.ID, bobID); err != nil {
		t.Fatal(err)
	}

	// The owner can never be removed.
	if _, err := boards.RemoveMemberFromBoard(board.ID, aliceID); !errors.Is(err, ErrPolicy) {
		t.Fatalf("remove owner: want ErrPolicy, got %v", err)
	}

	got, err := boards.RemoveMemberFromBoard(board.ID, bobID)
	if err != nil {
		t.Fatalf("remove member: %v", err)
	}
	if len(got.Members) != 0 {
		t.Errorf("member not removed: %v", got.Members)
	}
}

func TestGetBoardByID(t *testing.T) {
	_, users, _, boards := newServices(t)
	aliceID := mustCreateUser(t, users, "alice", "Alice")
	bobID := mustCreateUser(t, users, "bob", "Bob")

	board, err := boards.CreateBoard("Sprint", "Q3 planning", aliceID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := boards.AddMemberToBoard(board.ID, bobID); err != nil {
		t.Fatal(err)
	}

	got, err := boards.GetBoardByID(board.ID)
	if err != nil {
		t.Fatalf("get board: %v", err)
	}
	if got.Name != "Sprint" || got.Description != "Q3 planning" {
		t.Errorf("board fields wrong: %+v", got)
	}
	if got.OwnerInfo == nil || got.OwnerInfo.Name != "Alice" {
		t.Errorf("ownerInfo wrong: %+v", got.OwnerInfo)
	}
	if len(got.Users) != 1 || got.Users[0].Name != "Bob" {
		t.Errorf("users wrong: %+v", got.Users)
	}

	if _, err := boards.GetBoardByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}
