package application

// Action names an operation subject to role-based access control.
type Action string

const (
	ActionListRooms          Action = "rooms:list"
	ActionUpdateRoomCategory Action = "rooms:update_category"
	ActionUpdateRoomDetails  Action = "rooms:update_details"
	ActionCreateRoom         Action = "rooms:create"
	ActionDeleteRoom         Action = "rooms:delete"
	ActionListLogs           Action = "logs:list"
	ActionListUsers          Action = "users:list"
	ActionViewUser           Action = "users:view"
	ActionCreateUser         Action = "users:create"
	ActionUpdateUser         Action = "users:update"
	ActionDeleteUser         Action = "users:delete"
	ActionViewSelf           Action = "self:view"
)

var rolePermissions = map[Role]map[Action]bool{
	RoleAdmin: {
		ActionListRooms:          true,
		ActionUpdateRoomCategory: true,
		ActionUpdateRoomDetails:  true,
		ActionCreateRoom:         true,
		ActionDeleteRoom:         true,
		ActionListLogs:           true,
		ActionListUsers:          true,
		ActionViewUser:           true,
		ActionCreateUser:         true,
		ActionUpdateUser:         true,
		ActionDeleteUser:         true,
		ActionViewSelf:           true,
	},
	RoleRoomPreparer: {
		ActionListRooms:          true,
		ActionUpdateRoomCategory: true,
		ActionUpdateRoomDetails:  true,
		ActionViewSelf:           true,
	},
}

// CanPerform reports whether role is allowed to perform action. Unknown roles get nothing.
func CanPerform(role Role, action Action) bool {
	return rolePermissions[role][action]
}

// authorize is the first step of every service operation.
func authorize(principal Principal, actions ...Action) error {
	if principal.UserID <= 0 {
		return ErrForbidden
	}
	for _, action := range actions {
		if !CanPerform(principal.Role, action) {
			return ErrForbidden
		}
	}
	return nil
}
