// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and response helpers.

# Middleware

  - WithLogging: logs each request's method, path, status, and duration
  - WithMetrics: records Prometheus request counters and latency per route
  - CORS: allows cross-origin requests and answers preflight requests

# Helpers

  - JSONResponse / ErrorResponse: write JSON bodies
  - WriteError: maps service errors to status codes

    ValidationError             400
    IneligibleError             403 (with reason)
    EditingDisabledError        403
    NotFoundError               404
    StateError                  409
    anything else               500

  - ParseJSONBody: decodes a request body
  - GetClientIP: X-Forwarded-For, then X-Real-IP, then RemoteAddr
  - ClientInfo: IP plus device, browser and OS from the User-Agent
  - EmployeeID: the X-Employee-ID header set by the upstream gateway
*/
package middleware
