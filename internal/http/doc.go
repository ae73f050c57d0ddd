// Package http exposes the room booking client as a JSON API.
//
// The router exposes the following endpoints:
//   - POST /session: signs in. Body: {"rollNumber","secret"}. Response:
//     {"rollNumber","name"}. Mismatched pairs answer 401 with error_code
//     AUTH_INVALID_CREDENTIALS.
//   - GET /session: returns the current session or 401.
//   - DELETE /session: signs out. Returns 204 No Content.
//   - GET /floors and GET /floors/{floor}/wings: navigation lists.
//   - GET /rooms?floor=&wing=: the room grid for a floor and wing, defaulting
//     to the current selection. Each cell carries availability and, when
//     booked, the attendee names.
//   - GET /selection, PUT /selection: reads or moves the floor, wing and
//     selected room.
//   - GET /students?q=&exclude=: directory search used to pick attendees.
//   - GET /bookings, POST /bookings, DELETE /bookings/{id}: the signed-in
//     student's confirmed bookings, booking creation and cancellation.
//   - GET /healthz: liveness with directory and catalog sizes.
//
// Every route except sign in, session lookup, floor navigation and health
// checks requires a signed-in session. DTOs live alongside their handlers.
package http
