package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	l := New(2, time.Minute)
	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("first two requests must pass")
	}
	if l.Allow("a") {
		t.Error("third request must be limited")
	}
	if !l.Allow("b") {
		t.Error("keys are independent")
	}
	if l.Remaining("a") != 0 || l.Remaining("c") != 2 {
		t.Errorf("Remaining a=%d c=%d", l.Remaining("a"), l.Remaining("c"))
	}
	l.Reset("a")
	if !l.Allow("a") {
		t.Error("Reset must clear the window")
	}
}

func TestLoginLimiter(t *testing.T) {
	ll := NewLoginLimiter(2, time.Minute)
	r := httptest.NewRequest("POST", "/login", nil)
	for i := 0; i < 2; i++ {
		if ok, _ := ll.Check(r, "Ada@Example.com"); !ok {
			t.Fatalf("attempt %d blocked", i+1)
		}
	}
	if ok, msg := ll.Check(r, "ada@example.com"); ok || msg == "" {
		t.Error("third attempt for the same email must be blocked")
	}
	ll.ResetEmail("ADA@example.com")
	if ok, _ := ll.Check(r, "ada@example.com"); !ok {
		t.Error("ResetEmail must clear the email window")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.1.1.1:5555"
	if got := ClientIP(r); got != "10.1.1.1" {
		t.Errorf("ClientIP = %q", got)
	}
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := ClientIP(r); got != "203.0.113.9" {
		t.Errorf("ClientIP xff = %q", got)
	}
}
