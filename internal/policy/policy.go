// Package policy holds the authorization predicates gating mutations.
// Each predicate is a pure function of the requester and the target record;
// handlers evaluate them before touching state and turn a denial into a
// redirect with a user-visible message.
package policy

import "filmroom-backend/internal/models"

// CanModifyMovie reports whether the requester may edit or delete the movie:
// its author, or anyone with staff privilege.
func CanModifyMovie(user *models.User, movie *models.Movie) bool {
	if user == nil {
		return false
	}
	if user.IsStaff {
		return true
	}
	return movie.AuthorID != nil && *movie.AuthorID == user.ID
}

// CanModifyProfile reports whether the requester may edit the profile: its
// owner, or anyone with staff privilege.
func CanModifyProfile(user *models.User, profile *models.UserProfile) bool {
	if user == nil {
		return false
	}
	if user.IsStaff {
		return true
	}
	return profile.UserID == user.ID
}
