// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
)

var _ http.Handler = (*router)(nil)

type router struct {
	lock   sync.RWMutex
	router *mux.Router

	// url -> handler
	routes map[string]http.Handler
}

func newRouter() *router {
	return &router{
		router: mux.NewRouter(),
		routes: make(map[string]http.Handler),
	}
}

func (r *router) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	r.router.ServeHTTP(writer, request)
}

func (r *router) AddRouter(base, endpoint string, handler http.Handler, methods ...string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	url := base + endpoint
	if _, exists := r.routes[url]; exists {
		return fmt.Errorf("%w: %s", ErrRouteExists, url)
	}
	route := r.router.Handle(url, handler)
	if len(methods) > 0 {
		route = route.Methods(methods...)
	}
	if err := route.GetError(); err != nil {
		return fmt.Errorf("failed to create new route for %s: %w", url, err)
	}
	route.Name(url)
	r.routes[url] = handler
	return nil
}
