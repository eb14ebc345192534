// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package treasury

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dumbly-labs/taxvm/server"
)

const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

var _ server.Wrapper = RequestIDWrapper{}

// RequestIDWrapper tags every request with an id, reusing the caller's
// [RequestIDHeader] when present.
type RequestIDWrapper struct{}

func (RequestIDWrapper) WrapHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		h.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// RequestID returns the id assigned by [RequestIDWrapper], if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
