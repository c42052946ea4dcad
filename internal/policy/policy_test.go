package policy

import (
	"testing"

	"bookcatalog/internal/apperr"
	"bookcatalog/internal/models"
)

var (
	allRoles    = []models.Role{models.RoleAdmin, models.RoleAuthor, models.RoleUser}
	allStatuses = []models.Status{models.StatusActive, models.StatusPending, models.StatusRejected}
)

func TestPublicReadsAlwaysAllowed(t *testing.T) {
	actors := []Actor{{}}
	for _, r := range allRoles {
		for _, s := range allStatuses {
			actors = append(actors, Actor{ID: "u1", Role: r, Status: s})
		}
	}
	for _, a := range actors {
		for _, op := range []Operation{ListBooks, GetBook} {
			if d := Decide(a, op, nil); !d.Allowed {
				t.Fatalf("%s denied for %+v: %s", op, a, d.Reason)
			}
		}
	}
}

func TestCreateAndListOwnedTable(t *testing.T) {
	for _, r := range allRoles {
		for _, s := range allStatuses {
			want := r == models.RoleAdmin || (r == models.RoleAuthor && s == models.StatusActive)
			a := Actor{ID: "u1", Role: r, Status: s}
			for _, op := range []Operation{CreateBook, ListOwnedBooks} {
				d := Decide(a, op, nil)
				if d.Allowed != want {
					t.Fatalf("%s for %s/%s: allowed=%v, want %v", op, r, s, d.Allowed, want)
				}
				if !want && d.Reason != ReasonNotAllowed {
					t.Fatalf("%s for %s/%s: reason %q", op, r, s, d.Reason)
				}
			}
		}
	}
}

func TestAnonymousDeniedOnProtectedOperations(t *testing.T) {
	for _, op := range []Operation{CreateBook, ListOwnedBooks, UpdateBook, DeleteBook, ApproveAuthor, ListPendingAuthors} {
		d := Decide(Actor{}, op, &Resource{CreatedBy: ""})
		if d.Allowed || d.Reason != ReasonAuthRequired {
			t.Fatalf("%s for anonymous: %+v", op, d)
		}
	}
}

func TestOwnershipOnUpdateAndDelete(t *testing.T) {
	jane := Actor{ID: "jane", Role: models.RoleAuthor, Status: models.StatusActive}
	admin := Actor{ID: "root", Role: models.RoleAdmin, Status: models.StatusActive}
	own := &Resource{CreatedBy: "jane"}
	other := &Resource{CreatedBy: "bob"}

	for _, op := range []Operation{UpdateBook, DeleteBook} {
		if d := Decide(jane, op, own); !d.Allowed {
			t.Fatalf("%s own book denied: %s", op, d.Reason)
		}
		if d := Decide(jane, op, other); d.Allowed || d.Reason != ReasonOwnBooksOnly {
			t.Fatalf("%s foreign book: %+v", op, d)
		}
		for _, res := range []*Resource{own, other, {CreatedBy: "someone-else"}, nil} {
			if d := Decide(admin, op, res); !d.Allowed {
				t.Fatalf("%s admin denied for %+v", op, res)
			}
		}
	}
}

func TestUpdateDeleteGateForInactiveRoles(t *testing.T) {
	cases := []Actor{
		{ID: "p", Role: models.RoleAuthor, Status: models.StatusPending},
		{ID: "r", Role: models.RoleAuthor, Status: models.StatusRejected},
		{ID: "u", Role: models.RoleUser, Status: models.StatusActive},
	}
	for _, a := range cases {
		for _, op := range []Operation{UpdateBook, DeleteBook} {
			// Even on their own record, a non-active author is stopped at the gate.
			d := Decide(a, op, &Resource{CreatedBy: a.ID})
			if d.Allowed || d.Reason != ReasonNotAllowed {
				t.Fatalf("%s for %+v: %+v", op, a, d)
			}
			if d := Decide(a, op, nil); d.Allowed {
				t.Fatalf("%s gate allowed %+v", op, a)
			}
		}
	}
}

func TestAdminOnlyOperations(t *testing.T) {
	for _, r := range allRoles {
		for _, s := range allStatuses {
			a := Actor{ID: "x", Role: r, Status: s}
			for _, op := range []Operation{ApproveAuthor, ListPendingAuthors} {
				d := Decide(a, op, nil)
				if d.Allowed != (r == models.RoleAdmin) {
					t.Fatalf("%s for %s/%s: %+v", op, r, s, d)
				}
			}
		}
	}
}

func TestUnknownOperationDenied(t *testing.T) {
	admin := Actor{ID: "root", Role: models.RoleAdmin, Status: models.StatusActive}
	if d := Decide(admin, Operation("dropTables"), nil); d.Allowed {
		t.Fatalf("unknown operation allowed")
	}
}

func TestAuthorizeMapsDenialsToKinds(t *testing.T) {
	if err := Authorize(Actor{}, CreateBook, nil); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Fatalf("anonymous: expected Unauthorized, got %v", err)
	}
	user := Actor{ID: "u", Role: models.RoleUser, Status: models.StatusActive}
	err := Authorize(user, CreateBook, nil)
	if apperr.KindOf(err) != apperr.KindForbidden || apperr.Message(err) != ReasonNotAllowed {
		t.Fatalf("user: expected Forbidden/not allowed, got %v", err)
	}
	jane := Actor{ID: "jane", Role: models.RoleAuthor, Status: models.StatusActive}
	err = Authorize(jane, DeleteBook, &Resource{CreatedBy: "bob"})
	if apperr.KindOf(err) != apperr.KindForbidden || apperr.Message(err) != ReasonOwnBooksOnly {
		t.Fatalf("foreign delete: expected Forbidden/own books only, got %v", err)
	}
	if err := Authorize(jane, DeleteBook, &Resource{CreatedBy: "jane"}); err != nil {
		t.Fatalf("own delete: %v", err)
	}
}
