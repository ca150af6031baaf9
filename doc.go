// Package ssokit provides the building blocks for single-sign-on across
// independently deployed services that share one authentication domain.
//
// One service (the issuer) converts credentials into a signed session claim;
// every other service re-validates that claim against the shared identity
// store on each request. The kit is split into small, independently usable
// packages:
//
//   - pkg/identity: typed operations against the shared user record
//     (lookup, credential verification, usage tracking, signup)
//   - pkg/mongoconn: the connection manager that keeps the identity store
//     reachable (single-flight connect, bounded retry with exponential
//     backoff, health events, graceful shutdown)
//   - pkg/claims: the compact signed session claim codec (HS256 JWT)
//   - pkg/cookie: the shared-domain cookie set every participating service
//     must write with byte-identical attributes
//   - pkg/session: the issuing and revalidating session validators plus
//     HTTP middleware and the cross-service redirect policy
//   - pkg/config: environment-driven configuration loading
//
// Typical wiring on a revalidating service:
//
//	mgr, _ := mongoconn.New(connCfg)
//	_ = mgr.Connect(ctx)
//	store := identity.New(mgr, "sso")
//	codec, _ := claims.NewCodec([]byte(secret), 24*time.Hour)
//	cookies, _ := cookie.New(cookieCfg)
//	rv := session.NewRevalidator(store, codec, "service-b")
//	http.Handle("/", rv.Middleware(cookies)(appHandler))
//
// All services must share the signing key, the cookie domain, and the
// identity store; everything else is per-service configuration.
package ssokit
