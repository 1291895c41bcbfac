package auth

import "github.com/dmitrijs2005/portfoliorisk/internal/common"

type Decision int

const (
	Denied Decision = iota
	Allowed
)

func (d Decision) String() string {
	if d == Allowed {
		return "allowed"
	}
	return "denied"
}

// Decide allows only the owner of a resource.
func Decide(resourceOwnerID, callerID string) Decision {
	if resourceOwnerID != "" && resourceOwnerID == callerID {
		return Allowed
	}
	return Denied
}

// Authorize returns common.ErrorNotFound when the caller does not own the
// resource, so a foreign resource looks the same as a missing one.
func Authorize(resourceOwnerID, callerID string) error {
	if Decide(resourceOwnerID, callerID) == Denied {
		return common.ErrorNotFound
	}
	return nil
}
