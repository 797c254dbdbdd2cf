package httpapi

import (
	"context"

	"github.com/rs/xid"
)

func contextWithRequestID(ctx context.Context, id xid.ID) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFromContext(ctx context.Context) string {
	id, ok := ctx.Value(requestIDKey{}).(xid.ID)
	if !ok {
		return ""
	}
	return id.String()
}
