package application

import (
	"fmt"
	"strconv"
	"strings"
)

// changeSet collects "field changed from X to Y" clauses in call order.
type changeSet []string

func (c *changeSet) field(name, from, to string) {
	if from == to {
		return
	}
	*c = append(*c, fmt.Sprintf("%s changed from %s to %s", name, from, to))
}

func (c *changeSet) flag(name string, changed bool) {
	if changed {
		*c = append(*c, name+" changed")
	}
}

func (c changeSet) empty() bool {
	return len(c) == 0
}

func (c changeSet) String() string {
	return strings.Join(c, ", ")
}

func roomChanges(before, after Room) changeSet {
	var c changeSet
	c.field("room number", before.RoomNumber, after.RoomNumber)
	c.field("category", string(before.Category), string(after.Category))
	c.field("type", string(before.Type), string(after.Type))
	c.field("floor", strconv.Itoa(before.Floor), strconv.Itoa(after.Floor))
	return c
}

func roomCreatedActivity(room Room) string {
	return fmt.Sprintf("Room %s created", room.RoomNumber)
}

func roomUpdatedActivity(before Room, changes changeSet) string {
	return fmt.Sprintf("Room %s: %s", before.RoomNumber, changes)
}

func roomDeletedActivity(room Room) string {
	return fmt.Sprintf("Room %s deleted", room.RoomNumber)
}

func userCreatedActivity(user User) string {
	return fmt.Sprintf("Added user %s with role %s", user.Email, user.Role)
}

func userUpdatedActivity(after User, changes changeSet) string {
	return fmt.Sprintf("Updated user %s (ID: %d): %s", after.Email, after.ID, changes)
}

func userDeletedActivity(user User) string {
	return fmt.Sprintf("Deleted user %s (ID: %d)", user.Email, user.ID)
}
