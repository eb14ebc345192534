// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net"
	"net/http"
	"strings"

	"github.com/ava-labs/avalanchego/utils/set"
)

const wildcard = "*"

var _ http.Handler = (*allowedHostsHandler)(nil)

// filterInvalidHosts rejects requests whose Host header names a host outside
// [allowed]. An empty list or a wildcard entry allows every host.
func filterInvalidHosts(handler http.Handler, allowed []string) http.Handler {
	if len(allowed) == 0 {
		return handler
	}
	s := set.Set[string]{}
	for _, host := range allowed {
		if host == wildcard {
			return handler
		}
		s.Add(strings.ToLower(host))
	}
	return &allowedHostsHandler{
		handler: handler,
		hosts:   s,
	}
}

type allowedHostsHandler struct {
	handler http.Handler
	hosts   set.Set[string]
}

func (a *allowedHostsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Host == "" {
		a.handler.ServeHTTP(w, r)
		return
	}

	host, _, err := net.SplitHostPort(r.Host)
	if err != nil {
		// no port
		host = r.Host
	}

	// IP addresses cannot be rebound
	if ip := net.ParseIP(host); ip != nil {
		a.handler.ServeHTTP(w, r)
		return
	}

	if !a.hosts.Contains(strings.ToLower(host)) {
		http.Error(w, "invalid host specified", http.StatusForbidden)
		return
	}
	a.handler.ServeHTTP(w, r)
}
