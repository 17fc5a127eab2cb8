package auth

import (
	"testing"

	"github.com/rotisserie/eris"
)

func TestParseRoleAcceptsKnownRoles(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"user", "moderator", "admin"} {
		role, err := ParseRole(raw)
		if err != nil {
			t.Fatalf("ParseRole(%q) returned error: %v", raw, err)
		}
		if string(role) != raw {
			t.Fatalf("expected role %q, got %q", raw, role)
		}
	}
}

func TestParseRoleRejectsUnknownRoles(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "superuser", "Admin", "root"} {
		if _, err := ParseRole(raw); !eris.Is(err, ErrInvalidRole) {
			t.Fatalf("expected ErrInvalidRole for %q, got %v", raw, err)
		}
	}
}

func TestRoleLevelsAreOrdered(t *testing.T) {
	t.Parallel()

	if RoleUser.Level() >= RoleModerator.Level() {
		t.Fatalf("expected user below moderator")
	}
	if RoleModerator.Level() >= RoleAdmin.Level() {
		t.Fatalf("expected moderator below admin")
	}
	if Role("ghost").Level() != 0 {
		t.Fatalf("expected unknown role to rank lowest")
	}
}

func TestIdentityIsAdmin(t *testing.T) {
	t.Parallel()

	var anonymous *Identity
	if anonymous.IsAdmin() {
		t.Fatalf("expected nil identity not to be admin")
	}

	if (&Identity{UserID: "u", Role: RoleModerator}).IsAdmin() {
		t.Fatalf("expected moderator not to be admin")
	}

	if !(&Identity{UserID: "u", Role: RoleAdmin}).IsAdmin() {
		t.Fatalf("expected admin identity to be admin")
	}
}
