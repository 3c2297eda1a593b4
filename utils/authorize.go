package utils

import "errors"

var ErrNotAuthorized = errors.New("user is not authorized")

// AuthorizeUser passes when the user role is one of allowedRoles.
func AuthorizeUser(userRole string, allowedRoles ...string) (bool, error) {
	for _, allowedRole := range allowedRoles {
		if allowedRole == userRole {
			return true, nil
		}
	}
	return false, ErrNotAuthorized
}

// AuthorizeOwner passes for the owner of a resource or any of allowedRoles.
func AuthorizeOwner(userID, ownerID, userRole string, allowedRoles ...string) (bool, error) {
	if userID != "" && userID == ownerID {
		return true, nil
	}
	return AuthorizeUser(userRole, allowedRoles...)
}
