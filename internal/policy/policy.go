// Package policy holds the access-control rules for todos and user
// administration. Every mutating operation routes through these functions;
// handlers and services never check roles on their own.
package policy

import "github.com/harukisb/todo-tracking-api/internal/models"

// Actor is the authenticated identity performing a request.
type Actor struct {
	ID   uint64
	Role models.Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// CanRead reports whether the actor may see the todo. Admins see everything,
// other users only todos they are assigned to or created.
func CanRead(actor Actor, todo *models.Todo) bool {
	if actor.IsAdmin() {
		return true
	}
	return todo.AssignedTo == actor.ID || todo.CreatedBy == actor.ID
}

// CanUpdateCompletion reports whether the actor may toggle the completed flag.
func CanUpdateCompletion(actor Actor, todo *models.Todo) bool {
	return actor.IsAdmin() || todo.AssignedTo == actor.ID
}

// CanDelete reports whether the actor may delete the todo.
func CanDelete(actor Actor, todo *models.Todo) bool {
	return actor.IsAdmin()
}

// CanUpload reports whether the actor may attach files to the todo. Upload is
// tied to read access; unrelated authenticated users are rejected.
func CanUpload(actor Actor, todo *models.Todo) bool {
	return CanRead(actor, todo)
}

// CanManageUsers reports whether the actor may list users or change roles.
func CanManageUsers(actor Actor) bool {
	return actor.IsAdmin()
}

// ResolveAssignee returns the assignee a new todo will get. Non-admins are
// always forced to self-assignment; admins may pick anyone. A zero requested
// value means "unspecified" and defaults to the actor.
func ResolveAssignee(actor Actor, requested uint64) uint64 {
	if !actor.IsAdmin() || requested == 0 {
		return actor.ID
	}
	return requested
}
