// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request IDs and Logging

WithRequestID sets X-Request-ID (a UUID unless the client sent one) and
stores it in the request context. WithLogging logs request start (method,
path, remote, request_id) and completion (duration_ms):

	mux.HandleFunc("POST /api/survey/save", middleware.WithLogging(h.Save))

# Admin Guard

RequireAdmin runs an auth.Verifier over the bearer token and answers 401
before the wrapped handler is reached:

	middleware.RequireAdmin(verifier, adminHandler.ListResponses)

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(middleware.WithRequestID(mux)),
	}

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Errors are written as {"success": false, "error": "message"}.

Request bodies are capped at MaxBodyBytes (10 MiB):

	body, err := middleware.ReadBody(w, r)
	err := middleware.ParseJSONBody(w, r, &req)

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Checks X-Forwarded-For, then X-Real-IP, then RemoteAddr.
*/
package middleware
