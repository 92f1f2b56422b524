package cache

import (
	"context"

	"github.com/google/uuid"

	"github.com/statusdash/statusdash/internal/pkg/ctxlog"
)

// Namespace returns the current opaque token for a key family. Derived
// keys embed the token, so deleting the family key invalidates every
// derived key at once without enumerating them.
//
// On a miss a fresh random token is created with an atomic
// add-if-absent; if another process wins the race, its token is
// adopted and the local one discarded. If the re-read also misses (the
// freshly added key was already evicted), the local token is returned
// and the derived lookup simply becomes a hard miss.
func (c *Cache) Namespace(ctx context.Context, family string) string {
	var token string
	if c.Get(ctx, family, &token) {
		return token
	}

	token = uuid.New().String()
	if c.Add(ctx, family, token, 0) {
		ctxlog.FromContext(ctx).Debug("namespace created", "family", family, "token", token)
		return token
	}

	var stored string
	if c.Get(ctx, family, &stored) {
		return stored
	}
	ctxlog.FromContext(ctx).Debug("namespace vanished after losing add race", "family", family)
	return token
}
