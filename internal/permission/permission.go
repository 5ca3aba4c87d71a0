// Package permission is the single authorization decision point of the
// board. Presentation layers may call it to decide which controls to show,
// but the services call it to decide what is allowed.
package permission

import "github.com/atinyakov/GophBoard/internal/models"

// Operation is an action a user may attempt.
type Operation int

const (
	ViewTask Operation = iota
	CreateTask
	EditTask
	MoveTask
	DeleteTask
	AddLabel
	AddComment
	SetColor
	ManageUsers
)

var operationNames = map[Operation]string{
	ViewTask:    "view_task",
	CreateTask:  "create_task",
	EditTask:    "edit_task",
	MoveTask:    "move_task",
	DeleteTask:  "delete_task",
	AddLabel:    "add_label",
	AddComment:  "add_comment",
	SetColor:    "set_color",
	ManageUsers: "manage_users",
}

func (op Operation) String() string {
	if name, ok := operationNames[op]; ok {
		return name
	}
	return "unknown"
}

// Operations lists every operation.
func Operations() []Operation {
	return []Operation{ViewTask, CreateTask, EditTask, MoveTask, DeleteTask, AddLabel, AddComment, SetColor, ManageUsers}
}

// minimumRole is the least privileged role allowed to perform each operation.
var minimumRole = map[Operation]models.Permission{
	ViewTask:    models.ReadOnly,
	CreateTask:  models.Permitted,
	EditTask:    models.Permitted,
	MoveTask:    models.Permitted,
	DeleteTask:  models.Permitted,
	AddLabel:    models.Permitted,
	AddComment:  models.Permitted,
	SetColor:    models.Permitted,
	ManageUsers: models.Admin,
}

// RoleAllows reports whether role may perform op. Unknown roles and
// operations are denied.
func RoleAllows(role models.Permission, op Operation) bool {
	need, ok := minimumRole[op]
	if !ok || !role.Valid() {
		return false
	}
	return role >= need
}

// Allowed reports whether user may perform op. A nil user, meaning no
// session, is denied everything.
func Allowed(user *models.User, op Operation) bool {
	if user == nil {
		return false
	}
	return RoleAllows(user.Permission, op)
}

// Capabilities returns the decision for every operation, keyed by name.
func Capabilities(user *models.User) map[string]bool {
	out := make(map[string]bool, len(operationNames))
	for _, op := range Operations() {
		out[op.String()] = Allowed(user, op)
	}
	return out
}
