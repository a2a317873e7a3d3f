package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/ticketx-lab/backend/internal/model"
	"github.com/ticketx-lab/backend/pkg/errorx"
	"github.com/ticketx-lab/backend/pkg/xcontext"
)

// Authenticate resolves the bearer token into a request user id. Endpoints
// without this middleware serve anonymous traffic.
func Authenticate(ctx context.Context, r *http.Request) (context.Context, error) {
	header := r.Header.Get("Authorization")
	raw := strings.TrimPrefix(header, "Bearer ")
	if raw == "" || raw == header {
		return nil, errorx.New(errorx.Unauthenticated, "Permission denied")
	}

	var accessToken model.AccessToken
	if err := xcontext.TokenEngine(ctx).Verify(raw, &accessToken); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
		return nil, errorx.New(errorx.Unauthenticated, "Permission denied")
	}

	return xcontext.WithRequestUserID(ctx, accessToken.ID), nil
}
