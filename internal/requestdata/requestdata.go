package requestdata

import (
	"context"

	"github.com/google/uuid"
)

var requestDataKey = struct{}{}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	val := ctx.Value(requestDataKey)
	if rd, ok := val.(*RequestData); ok {
		return rd
	}
	return nil
}

// RequestData is the authenticated principal attached to a request context
// by the auth middleware.
type RequestData struct {
	TokenString string
	UserID      uuid.UUID
	Role        string
}
