// Package http provides HTTP handlers and middleware for the housekeeping dashboard.
//
// The router exposes the following endpoints:
//   - POST /api/auth/login: body {"email","password"}; sets the HttpOnly `token`
//     cookie and responds {"message"}. Any failure is 401 "Invalid credentials".
//   - POST /api/auth/logout: clears the cookie and, when a denylist is configured,
//     revokes the token until it would have expired.
//   - GET /api/auth/user: {"id","email","role"} of the caller.
//   - GET /api/rooms, POST /api/rooms, PATCH|PUT /api/rooms/{id}, DELETE /api/rooms/{id}:
//     room endpoints exchanging the `roomDTO` payload defined in room_handler.go.
//   - GET /api/users, POST /api/users, GET|PATCH|DELETE /api/users/{id}: administrator
//     account management exchanging `userDTO`.
//   - GET /api/logs: the activity log, newest first. With `page` or `limit` the
//     response is {"logs","totalCount"}; otherwise a plain array.
//   - GET /, /logs, /admin/users, /login: server rendered pages.
//   - GET /healthz, /readyz: liveness and store readiness.
//
// Every route except login, logout and the health checks runs behind
// RequireSession, which verifies the session token and places the caller's
// application.Principal in the request context. Handlers never re-verify the
// token; role checks happen in the application services.
package http
