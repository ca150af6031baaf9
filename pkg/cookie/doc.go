// Package cookie maps session state to the shared-domain cookie set that
// carries single-sign-on between services.
//
// Three cookies make up the contract: the session token, the callback-url
// hint and the CSRF token. Every participating service must write them with
// byte-identical names and attributes — same parent domain, path "/",
// SameSite Lax — or sharing breaks silently: a cookie written by service A
// with a different domain is simply never presented to service B.
//
// The session and CSRF cookies are HttpOnly; the callback-url cookie is
// readable by scripts so login pages can pick up the post-login destination
// client-side. The Secure attribute is toggled by the deployment
// environment.
package cookie
