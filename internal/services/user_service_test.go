package services

import (
	"errors"
	"testing"
	"time"
)

func TestCreateUser_DuplicateUsername(t *testing.T) {
	_, users, _, _ := newServices(t)

	if _, err := users.CreateUser("alice", "x", "Alice"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := users.CreateUser("alice", "y", "Another Alice")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
}

func TestCreateUser_UsernameIsCaseSensitive(t *testing.T) {
	_, users, _, _ := newServices(t)

	if _, err := users.CreateUser("alice", "x", "Alice"); err != nil {
		t.Fatalf("create alice: %v", err)
	}
	if _, err := users.CreateUser("Alice", "x", "Alice Upper"); err != nil {
		t.Fatalf("differently-cased username should be allowed: %v", err)
	}
}

func TestCreateUser_Validation(t *testing.T) {
	_, users, _, _ := newServices(t)

	if _, err := users.CreateUser("", "x", "Alice"); !errors.Is(err, ErrValidation) {
		t.Errorf("empty username: want ErrValidation, got %v", err)
	}
	if _, err := users.CreateUser("alice", "x", "  "); !errors.Is(err, ErrValidation) {
		t.Errorf("blank name: want ErrValidation, got %v", err)
	}
}

func TestGetUserByUsername_AbsentIsNotAnError(t *testing.T) {
	_, users, _, _ := newServices(t)

	user, err := users.GetUserByUsername("nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Fatalf("want nil user, got %+v", user)
	}
}

func TestUsernameExists(t *testing.T) {
	_, users, _, _ := newServices(t)
	mustCreateUser(t, users, "alice", "Alice")

	exists, err := users.UsernameExists("alice")
	if err != nil || !exists {
		t.Fatalf("want exists=true, got %v err=%v", exists, err)
	}
	exists, err = users.UsernameExists("bob")
	if err != nil || exists {
		t.Fatalf("want exists=false, got %v err=%v", exists, err)
	}
}

func TestUpdateUser(t *testing.T) {
	_, users, _, _ := newServices(t)
	aliceID := mustCreateUser(t, users, "alice", "Alice")
	mustCreateUser(t, users, "bob", "Bob")

	newName := "Alice Cooper"
	updated, err := users.UpdateUser(aliceID, nil, nil, &newName)
	if err != nil {
		t.Fatalf("update name: %v", err)
	}
	if updated.Name != newName || updated.Username != "alice" {
		t.Errorf("partial update wrong: %+v", updated)
	}

	// Renaming to another user's username must conflict.
	taken := "bob"
	if _, err := users.UpdateUser(aliceID, &taken, nil, nil); !errors.Is(err, ErrConflict) {
		t.Errorf("want ErrConflict, got %v", err)
	}

	// Renaming to the current username is a no-op, not a conflict.
	same := "alice"
	if _, err := users.UpdateUser(aliceID, &same, nil, nil); err != nil {
		t.Errorf("self-rename: %v", err)
	}

	if _, err := users.UpdateUser("missing", nil, nil, &newName); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestDeleteUser_CascadesTasks(t *testing.T) {
	_, users, tasks, _ := newServices(t)
	aliceID := mustCreateUser(t, users, "alice", "Alice")

	for i := 0; i < 3; i++ {
		if _, err := tasks.CreateTask("chore", aliceID, false); err != nil {
			t.Fatalf("create task: %v", err)
		}
	}

	removed, err := users.DeleteUser(aliceID)
	if err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if removed != 3 {
		t.Errorf("want 3 cascaded tasks, got %d", removed)
	}

	if _, err := users.GetUserByID(aliceID); !errors.Is(err, ErrNotFound) {
		t.Errorf("user should be gone, got %v", err)
	}
	page, err := tasks.GetTasksByUser(aliceID, 1, 10, nil)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if page.Total != 0 || len(page.Tasks) != 0 {
		t.Errorf("orphan tasks remain: total=%d len=%d", page.Total, len(page.Tasks))
	}
}

func TestDeleteUser_NotFound(t *testing.T) {
	_, users, _, _ := newServices(t)
	if _, err := users.DeleteUser("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGetUserWithTasks_SortedNewestFirst(t *testing.T) {
	db, users, _, _ := newServices(t)
	aliceID := mustCreateUser(t, users, "alice", "Alice")

	base := baseTime()
	insertTask(t, db, aliceID, "oldest", false, base)
	insertTask(t, db, aliceID, "middle", false, base.Add(time.Minute))
	insertTask(t, db, aliceID, "newest", true, base.Add(2*time.Minute))

	got, err := users.GetUserWithTasks(aliceID)
	if err != nil {
		t.Fatalf("get user with tasks: %v", err)
	}
	if len(got.Tasks) != 3 {
		t.Fatalf("want 3 tasks, got %d", len(got.Tasks))
	}
	wantOrder := []string{"newest", "middle", "oldest"}
	for i, want := range wantOrder {
		if got.Tasks[i].Description != want {
			t.Errorf("task[%d] = %q, want %q", i, got.Tasks[i].Description, want)
		}
	}
}

func TestGetUserTaskStats(t *testing.T) {
	_, users, tasks, _ := newServices(t)
	aliceID := mustCreateUser(t, users, "alice", "Alice")

	if _, err := tasks.CreateTask("done", aliceID, true); err != nil {
		t.Fatal(err)
	}
	if _, err := tasks.CreateTask("pending a", aliceID, false); err != nil {
		t.Fatal(err)
	}
	if _, err := tasks.CreateTask("pending b", aliceID, false); err != nil {
		t.Fatal(err)
	}

	stats, err := users.GetUserTaskStats(aliceID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalTasks != 3 || stats.CompletedTasks != 1 || stats.PendingTasks != 2 {
		t.Errorf("counts wrong: %+v", stats)
	}
	if stats.CompletionRate != 33.33 {
		t.Errorf("completionRate = %v, want 33.33", stats.CompletionRate)
	}

	if _, err := users.GetUserTaskStats("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestGetAllUsers_Pagination(t *testing.T) {
	_, users, _, _ := newServices(t)
	for _, u := range []string{"alice", "bob", "carol"} {
		mustCreateUser(t, users, u, u)
	}

	page, err := users.GetAllUsers(1, 2)
	if err != nil {
		t.Fatalf("get users: %v", err)
	}
	if page.Total != 3 || page.Pages != 2 || len(page.Users) != 2 {
		t.Errorf("page 1 wrong: total=%d pages=%d len=%d", page.Total, page.Pages, len(page.Users))
	}

	page, err = users.GetAllUsers(2, 2)
	if err != nil {
		t.Fatalf("get users page 2: %v", err)
	}
	if len(page.Users) != 1 || page.Page != 2 {
		t.Errorf("page 2 wrong: len=%d page=%d", len(page.Users), page.Page)
	}
}
