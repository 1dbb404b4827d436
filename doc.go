// Package linkshield provides the client-side session and API-gateway layer
// for the LinkShield URL-shortening and scam-reporting backend.
//
// The package owns three things: the authenticated-session state for the
// lifetime of a [Client], the one-time hydration pass that reconciles that
// state with durable storage, and the gateway through which every outbound
// HTTP call flows. The gateway attaches a bearer credential read from the
// configured [credential.Store] at call time and reacts to an unauthenticated
// response by evicting the stored credential and invoking the configured
// [Navigator].
//
// # Architecture boundaries
//
// linkshield is the public surface. It exposes [Client], [Builder], [Config],
// the API operation methods, and value types (SessionSnapshot, ShortenRequest,
// Scam, etc.). Credential persistence lives in the credential subpackage and
// is reached only through the [credential.Store] interface.
//
// # What this package must NOT do
//
//   - Interpret token contents. Tokens are opaque; validity is decided solely
//     by the backend's unauthenticated response.
//   - Retry failed requests. Retry policy, if any, belongs to callers.
//   - Recover unauthenticated or business errors. Both surface to the caller
//     after the centralized eviction side effects have run.
//
// # Concurrency contract
//
// Client methods are safe to call from multiple goroutines after
// [Builder.Build]. The hydration pass runs at most once per Client and only
// ever promotes the session toward authenticated; it never overwrites a
// logout that happened first.
package linkshield
