// Package service holds the business rules behind the HTTP handlers.
package service

import (
	"blogsphere/internal/models"
)

// isOwner is the single ownership rule: the requester must be the author.
func isOwner(resource models.Owned, requesterID uint) bool {
	return requesterID != 0 && resource.OwnerID() == requesterID
}

func requireOwner(resource models.Owned, requesterID uint, action string) error {
	if requesterID == 0 {
		return models.NewUnauthorizedError("Authentication required")
	}
	if !isOwner(resource, requesterID) {
		return models.NewForbiddenError("You can only " + action + " your own content")
	}
	return nil
}

func requireUser(userID uint) error {
	if userID == 0 {
		return models.NewUnauthorizedError("Authentication required")
	}
	return nil
}
