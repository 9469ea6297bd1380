package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewReservationStartsPending(t *testing.T) {
	start := time.Now().Add(time.Hour)
	r := NewReservation(uuid.New(), start, start.Add(time.Hour))

	if r.Status != StatusPending {
		t.Errorf("Status = %v, want %v", r.Status, StatusPending)
	}
	if r.ID == uuid.Nil {
		t.Error("ID not assigned")
	}
	if r.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		cur, next Status
		want      bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCanceled, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCanceled, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusPending, false},
		{StatusConfirmed, StatusPending, false},
		{StatusCanceled, StatusConfirmed, false},
		{StatusCanceled, StatusCompleted, false},
		{StatusCompleted, StatusCanceled, false},
		{StatusCompleted, StatusConfirmed, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.cur, c.next); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.cur, c.next, got, c.want)
		}
	}
}

func TestNotifiable(t *testing.T) {
	cases := map[Status]bool{
		StatusPending:   false,
		StatusConfirmed: true,
		StatusCanceled:  true,
		StatusCompleted: false,
	}
	for s, want := range cases {
		if got := Notifiable(s); got != want {
			t.Errorf("Notifiable(%s) = %v, want %v", s, got, want)
		}
	}
}

func TestCompletionEligible(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusCanceled, StatusCompleted} {
		if CompletionEligible(s) {
			t.Errorf("CompletionEligible(%s) = true, want false", s)
		}
	}
	if !CompletionEligible(StatusConfirmed) {
		t.Error("CompletionEligible(confirmed) = false, want true")
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := ParseStatus("confirmed"); err != nil {
		t.Errorf("ParseStatus(confirmed) error: %v", err)
	}
	if _, err := ParseStatus("cancelled"); err == nil {
		t.Error("ParseStatus(cancelled) should reject the double-l spelling")
	}
	if _, err := ParseStatus("bogus"); err == nil {
		t.Error("ParseStatus(bogus) expected error")
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		first, last, username string
		want                  string
	}{
		{"Test", "User", "tester", "Test User"},
		{"", "", "tester", "tester"},
		{"Test", "", "tester", "tester"},
		{"", "User", "tester", "tester"},
		{"  ", "User", "tester", "tester"},
	}
	for _, c := range cases {
		u := User{Username: c.username, FirstName: c.first, LastName: c.last}
		if got := u.DisplayName(); got != c.want {
			t.Errorf("DisplayName(%q, %q, %q) = %q, want %q", c.first, c.last, c.username, got, c.want)
		}
	}
}

func TestValidate(t *testing.T) {
	start := time.Now().Add(time.Hour)

	ok := Reservation{CustomerID: uuid.New(), StartTime: start, EndTime: start.Add(time.Hour)}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	noCustomer := Reservation{StartTime: start, EndTime: start.Add(time.Hour)}
	if err := noCustomer.Validate(); err == nil {
		t.Error("Validate() without customer expected error")
	}

	backwards := Reservation{CustomerID: uuid.New(), StartTime: start, EndTime: start.Add(-time.Hour)}
	if err := backwards.Validate(); err == nil {
		t.Error("Validate() with end before start expected error")
	}
}
