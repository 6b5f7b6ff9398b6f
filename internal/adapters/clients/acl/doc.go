// Package acl is the anti-corruption layer between the domain and the
// upstream forum service. It translates the forum's wire representations
// (snake_case JSON, numeric identifiers, enveloped lists) into domain
// types and maps transport failures onto the domain error taxonomy:
//
//   - 404 → [domain.ErrNotFound]
//   - 409 → [domain.ErrConflict]
//   - 400/422 → [domain.ErrValidation]
//   - 401 → [domain.ErrUnauthenticated]
//   - 403 → [domain.ErrForbidden]
//   - 5xx / transport / circuit open → [domain.ErrUnavailable]
//
// Wire DTOs stay unexported inside this package; nothing above the ports
// boundary ever sees them. [ForumAdapter] is the only concrete adapter;
// [BaseAdapter], [MapHTTPError], and [DecodeResponse] carry the shared
// request/translate/map plumbing it is built on.
package acl
