package services

import "testing"

func TestEventService_RecordAndRecent(t *testing.T) {
	db := setupDB(t)
	events := NewEventService(db)

	subject := "abc"
	if err := events.Record("user.created", "info", "user created", &subject); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := events.Record("task.deleted", "info", "task deleted", nil); err != nil {
		t.Fatalf("record: %v", err)
	}

	got, err := events.RecentEvents(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 events, got %d", len(got))
	}

	got, err = events.RecentEvents(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("limit ignored: got %d events", len(got))
	}
}

func TestMutationsAreRecorded(t *testing.T) {
	db, users, tasks, boards := newServices(t)
	events := NewEventService(db)

	aliceID := mustCreateUser(t, users, "alice", "Alice")
	task, err := tasks.CreateTask("buy milk", aliceID, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := boards.CreateBoard("Sprint", "", aliceID); err != nil {
		t.Fatal(err)
	}
	if err := tasks.DeleteTask(task.ID); err != nil {
		t.Fatal(err)
	}

	got, err := events.RecentEvents(50)
	if err != nil {
		t.Fatal(err)
	}
	types := map[string]bool{}
	for _, e := range got {
		types[e.Type] = true
	}
	for _, want := range []string{"user.created", "task.created", "board.created", "task.deleted"} {
		if !types[want] {
			t.Errorf("missing event type %q in %v", want, types)
		}
	}
}
