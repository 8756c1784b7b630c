package api

import (
	"context"

	"github.com/rpupo63/portfolio-api/auth"
)

type keyType string

const identityKey keyType = "identity"

// ctxWithIdentity adds the verified token identity to the context
func ctxWithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// ctxGetIdentity retrieves the identity set by the auth gate
func ctxGetIdentity(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}
