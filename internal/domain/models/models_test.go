package models

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"MAIN_ADMIN", RoleMainAdmin},
		{"  sub_admin ", RoleSubAdmin},
		{"super_admin", RoleSuperAdmin},
		{"USER", RoleUser},
		{"SPONSORSHIP", RoleSponsorship},
		{"", RoleUnknown},
		{"ADMIN", RoleUnknown},
	}
	for _, tt := range tests {
		if got := ParseRole(tt.in); got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRoleIsAdmin(t *testing.T) {
	for _, r := range AdminRoles() {
		if !r.IsAdmin() {
			t.Errorf("%s.IsAdmin() = false, want true", r)
		}
	}
	for _, r := range []Role{RoleUser, RoleSponsorship, RoleVendor, RoleUnknown} {
		if r.IsAdmin() {
			t.Errorf("%q.IsAdmin() = true, want false", r)
		}
	}
}

func TestStatusIsPending(t *testing.T) {
	pending := []Status{StatusPendingApproval, StatusPendingPayment, StatusPendingVerification}
	for _, s := range pending {
		if !s.IsPending() {
			t.Errorf("%s.IsPending() = false", s)
		}
	}
	if StatusActive.IsPending() || StatusDeleted.IsPending() || StatusUnknown.IsPending() {
		t.Error("non-pending status reported as pending")
	}
	if got := ParseStatus("pending_approval"); got != StatusPendingApproval {
		t.Errorf("ParseStatus lowercase = %q", got)
	}
	if got := ParseStatus("whatever"); got != StatusUnknown {
		t.Errorf("ParseStatus unknown = %q", got)
	}
}

func TestParseStatus_UnlistedPending(t *testing.T) {
	tests := []struct {
		in        string
		want      Status
		wantLabel string
	}{
		{"PENDING_REVIEW", Status("PENDING_REVIEW"), "Pending review"},
		{" pending_id_check ", Status("PENDING_ID_CHECK"), "Pending id check"},
		{"PENDING_", StatusUnknown, "Unknown"},
		{"PENDING", StatusUnknown, "Unknown"},
	}
	for _, tt := range tests {
		got := ParseStatus(tt.in)
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if got.IsPending() != (tt.want != StatusUnknown) {
			t.Errorf("ParseStatus(%q).IsPending() = %v", tt.in, got.IsPending())
		}
		if l := got.Label(); l != tt.wantLabel {
			t.Errorf("ParseStatus(%q).Label() = %q, want %q", tt.in, l, tt.wantLabel)
		}
	}
}
