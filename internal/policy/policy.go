// Package policy decides which actor may perform which catalog operation.
// Decisions are pure: they depend only on the actor's claims and, for
// ownership-scoped operations, the book's owner.
package policy

import (
	"bookcatalog/internal/apperr"
	"bookcatalog/internal/models"
)

type Operation string

const (
	ListBooks          Operation = "listBooks"
	GetBook            Operation = "getBook"
	CreateBook         Operation = "createBook"
	ListOwnedBooks     Operation = "listAllOwnedBooks"
	UpdateBook         Operation = "updateBook"
	DeleteBook         Operation = "deleteBook"
	ApproveAuthor      Operation = "approveAuthor"
	ListPendingAuthors Operation = "listPendingAuthors"
)

const (
	ReasonNotAllowed   = "not allowed"
	ReasonOwnBooksOnly = "own books only"
	ReasonAdminOnly    = "admin only"
	ReasonAuthRequired = "authentication required"
)

// Actor is the identity behind a request. The zero value is anonymous.
type Actor struct {
	ID     string
	Role   models.Role
	Status models.Status
}

func (a Actor) Anonymous() bool { return a.ID == "" }

// Resource identifies the book an operation targets.
type Resource struct {
	CreatedBy string
}

type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// Decide evaluates op for actor. For UpdateBook and DeleteBook a nil res
// evaluates only the entry gate, before the target book has been loaded.
func Decide(actor Actor, op Operation, res *Resource) Decision {
	switch op {
	case ListBooks, GetBook:
		return allow()
	}
	if actor.Anonymous() {
		return deny(ReasonAuthRequired)
	}
	switch op {
	case CreateBook, ListOwnedBooks:
		if canManage(actor) {
			return allow()
		}
		return deny(ReasonNotAllowed)
	case UpdateBook, DeleteBook:
		if actor.Role == models.RoleAdmin {
			return allow()
		}
		if !canManage(actor) {
			return deny(ReasonNotAllowed)
		}
		if res != nil && res.CreatedBy != actor.ID {
			return deny(ReasonOwnBooksOnly)
		}
		return allow()
	case ApproveAuthor, ListPendingAuthors:
		if actor.Role == models.RoleAdmin {
			return allow()
		}
		return deny(ReasonAdminOnly)
	}
	return deny(ReasonNotAllowed)
}

// canManage is the catalog write gate: admins, and authors an admin approved.
func canManage(a Actor) bool {
	switch a.Role {
	case models.RoleAdmin:
		return true
	case models.RoleAuthor:
		return a.Status == models.StatusActive
	}
	return false
}

// Authorize runs Decide and converts a denial into an API failure:
// Unauthorized for anonymous actors, Forbidden for everyone else.
func Authorize(actor Actor, op Operation, res *Resource) error {
	d := Decide(actor, op, res)
	if d.Allowed {
		return nil
	}
	if actor.Anonymous() {
		return apperr.New(apperr.KindUnauthorized, d.Reason)
	}
	return apperr.Forbidden(d.Reason)
}
