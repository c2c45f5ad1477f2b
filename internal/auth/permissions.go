package auth

import (
	"net/http"

	"github.com/rohittgajula/IMDB-clone/internal/domain"
)

// IsSafeMethod reports whether method only reads state.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// AdminOrReadOnly lets anyone read and only admins write.
func AdminOrReadOnly(method string, c Caller) error {
	if IsSafeMethod(method) || c.IsAdmin() {
		return nil
	}
	return domain.ErrForbidden
}

// AuthenticatedOrReadOnly lets anyone read and any signed-in caller write.
func AuthenticatedOrReadOnly(method string, c Caller) error {
	if IsSafeMethod(method) || c.Authenticated() {
		return nil
	}
	return domain.ErrUnauthenticated
}

// RequireAuthenticated rejects anonymous callers.
func RequireAuthenticated(c Caller) error {
	if !c.Authenticated() {
		return domain.ErrUnauthenticated
	}
	return nil
}

// ReviewOwnerOrReadOnly lets anyone read a review and only its author
// (or an admin) change it.
func ReviewOwnerOrReadOnly(method string, c Caller, review domain.Review) error {
	if IsSafeMethod(method) {
		return nil
	}
	if c.Authenticated() && (c.UserID == review.ReviewUser || c.IsAdmin()) {
		return nil
	}
	return domain.ErrForbidden
}
