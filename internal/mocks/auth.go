package mocks

import (
	"net/http"

	"github.com/blog-comments-api/internal/auth"
)

// StaticSessionResolver is a SessionResolver that always resolves to a
// fixed identity (or error), regardless of the request
type StaticSessionResolver struct {
	Identity *auth.Identity
	Err      error
}

// Verify interface compliance
var _ auth.SessionResolver = (*StaticSessionResolver)(nil)

func (s *StaticSessionResolver) Resolve(r *http.Request) (*auth.Identity, error) {
	return s.Identity, s.Err
}
