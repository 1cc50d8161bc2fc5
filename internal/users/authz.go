package users

import "go.mongodb.org/mongo-driver/bson/primitive"

// CanActOn reports whether the caller may modify or delete the target
// record. Owners act on their own record, admins on any.
func CanActOn(caller *User, target primitive.ObjectID) bool {
	if caller == nil {
		return false
	}
	return caller.ID == target || caller.Role == RoleAdmin
}
