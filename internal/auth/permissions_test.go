package auth

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/rohittgajula/IMDB-clone/internal/domain"
)

var (
	anonymous = Caller{}
	user      = Caller{UserID: uuid.New(), Role: "user"}
	admin     = Caller{UserID: uuid.New(), Role: RoleAdmin}
)

func TestAdminOrReadOnly(t *testing.T) {
	for _, c := range []Caller{anonymous, user, admin} {
		assert.NoError(t, AdminOrReadOnly(http.MethodGet, c))
		assert.NoError(t, AdminOrReadOnly(http.MethodHead, c))
	}
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		assert.ErrorIs(t, AdminOrReadOnly(method, anonymous), domain.ErrForbidden)
		assert.ErrorIs(t, AdminOrReadOnly(method, user), domain.ErrForbidden)
		assert.NoError(t, AdminOrReadOnly(method, admin))
	}
}

func TestAdminRoleWithoutIdentity(t *testing.T) {
	c := Caller{Role: RoleAdmin}
	assert.False(t, c.IsAdmin())
	assert.ErrorIs(t, AdminOrReadOnly(http.MethodPost, c), domain.ErrForbidden)
}

func TestReviewOwnerOrReadOnly(t *testing.T) {
	review := domain.Review{ID: 1, ReviewUser: user.UserID}
	stranger := Caller{UserID: uuid.New()}

	assert.NoError(t, ReviewOwnerOrReadOnly(http.MethodGet, anonymous, review))
	assert.NoError(t, ReviewOwnerOrReadOnly(http.MethodPut, user, review))
	assert.NoError(t, ReviewOwnerOrReadOnly(http.MethodDelete, user, review))
	assert.NoError(t, ReviewOwnerOrReadOnly(http.MethodPut, admin, review))
	assert.ErrorIs(t, ReviewOwnerOrReadOnly(http.MethodPut, stranger, review), domain.ErrForbidden)
	assert.ErrorIs(t, ReviewOwnerOrReadOnly(http.MethodDelete, anonymous, review), domain.ErrForbidden)
}

func TestAuthenticated(t *testing.T) {
	assert.NoError(t, AuthenticatedOrReadOnly(http.MethodGet, anonymous))
	assert.ErrorIs(t, AuthenticatedOrReadOnly(http.MethodPost, anonymous), domain.ErrUnauthenticated)
	assert.NoError(t, AuthenticatedOrReadOnly(http.MethodPost, user))
	assert.ErrorIs(t, RequireAuthenticated(anonymous), domain.ErrUnauthenticated)
	assert.NoError(t, RequireAuthenticated(user))
}

func TestCallerContext(t *testing.T) {
	assert.Equal(t, anonymous, CallerFrom(context.Background()))
	ctx := WithCaller(context.Background(), user)
	assert.Equal(t, user, CallerFrom(ctx))
}
