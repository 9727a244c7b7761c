package pkgrouter

import (
	"context"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/gobank/internal/pkg/pkgerror"
)

// GetParam reads a path parameter from the request context (as stored by httprouter).
func GetParam(ctx context.Context, key string) string {
	return httprouter.ParamsFromContext(ctx).ByName(key)
}

// GetParamID reads a positive integer path parameter.
func GetParamID(ctx context.Context, key string) (int64, error) {
	id, err := strconv.ParseInt(GetParam(ctx, key), 10, 64)
	if err != nil || id < 1 {
		return 0, pkgerror.NewInvalidInput("invalid " + key)
	}
	return id, nil
}
