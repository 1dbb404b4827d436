package linkshield

// SessionSnapshot is the read model of the client's session state, returned
// by [Client.Session].
//
// Invariant: Authenticated implies Principal is non-empty. Before Hydrated is
// true the authentication fields reflect only the best-effort synchronous
// storage read performed at Build and must not drive authorization-sensitive
// decisions beyond an initial default.
type SessionSnapshot struct {
	Authenticated bool
	Principal     string
	Hydrated      bool
}

// ShortenRequest is the body of the shorten operation. Short optionally
// requests a custom short ID; Expiry is a lifetime in hours, defaulted by the
// backend to 24 when zero.
type ShortenRequest struct {
	URL    string `json:"url"`
	Short  string `json:"short,omitempty"`
	Expiry int64  `json:"expiry,omitempty"`
}

// ShortenResponse is the backend's reply to a shorten operation, including
// the caller's remaining per-IP quota.
type ShortenResponse struct {
	URL             string `json:"url"`
	Short           string `json:"short"`
	Expiry          int64  `json:"expiry"`
	RateRemaining   int    `json:"rate_limit"`
	RateLimitReset  int64  `json:"rate_limit_reset"`
}

// EditRequest is the body of the edit operation. Expiry follows the same
// hour semantics as [ShortenRequest].
type EditRequest struct {
	URL    string `json:"url"`
	Expiry int64  `json:"expiry,omitempty"`
}

// ResolveResponse is the target info behind a short ID.
type ResolveResponse struct {
	URL string `json:"url"`
}

// Scam is a reported URL. Rating counts the people who reported it.
type Scam struct {
	URL         string `json:"url"`
	Description string `json:"description"`
	Rating      int    `json:"rating"`
}

// Admin is an administrator record for the scam-verification flow.
type Admin struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	VerifiedURLs []string `json:"verified_urls"`
}

type tagRequest struct {
	ShortID string   `json:"shortID"`
	Tags    []string `json:"tags"`
}

type userCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type urlBody struct {
	URL string `json:"url"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type scamsResponse struct {
	Scams []Scam `json:"scams"`
}

type verifiedScamsResponse struct {
	VerifiedScams []Scam `json:"verified_scams"`
}
