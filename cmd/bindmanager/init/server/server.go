/*
 * Server - REST API server of the zone manager.
 *
 * Copyright 2026 Marco Confalonieri.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"bind-dns-manager/internal/api"
	socket "bind-dns-manager/internal/server"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

// shutdownTimeout bounds the wait for running requests on shutdown.
const shutdownTimeout = 30 * time.Second

// Init server initialization function. The listener is opened before Init
// returns; requests are served in the background.
func Init(options socket.SocketOptions, a *api.API) (*http.Server, error) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Mount("/", a.Routes())

	srv := createHTTPServer(options, r)
	l, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, err
	}
	go func() {
		log.Infof("starting server on addr: '%s' ", srv.Addr)
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("can't serve on addr: '%s', error: %v", srv.Addr, err)
		}
	}()
	return srv, nil
}

func createHTTPServer(options socket.SocketOptions, hand http.Handler) *http.Server {
	return &http.Server{
		ReadTimeout:       options.GetReadTimeout(),
		WriteTimeout:      options.GetWriteTimeout(),
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		Addr:              options.GetAPIAddress(),
		Handler:           hand,
	}
}

// Shutdown stops the server, waiting for running requests to end.
func Shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("error shutting down server: %v", err)
	}
}
