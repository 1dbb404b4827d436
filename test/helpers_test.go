package test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	linkshield "github.com/AbdulhameedSk/LinkShield"
	"github.com/AbdulhameedSk/LinkShield/credential"
)

// fakeBackend is an in-process stand-in for the shortener service. It mints
// real HS256 tokens on login and validates them on every /api/v1 route, so
// the end-to-end flows below exercise the same credential round trip a live
// deployment would.
type fakeBackend struct {
	mu     sync.Mutex
	secret []byte
	users  map[string]string            // email -> password
	urls   map[string]map[string]any    // shortID -> fields
	tags   map[string][]string          // shortID -> tags
	scams  []map[string]any
	nextID int

	srv *httptest.Server
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	b := &fakeBackend{
		secret: []byte("integration-secret"),
		users:  map[string]string{},
		urls:   map[string]map[string]any{},
		tags:   map[string][]string{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/signup", b.handleSignup)
	mux.HandleFunc("/login", b.handleLogin)
	mux.HandleFunc("/api/v1", b.authenticated(b.handleShorten))
	mux.HandleFunc("/api/v1/", b.authenticated(b.handleAPIv1))

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) URL() string { return b.srv.URL }

func (b *fakeBackend) mintToken(t *testing.T, email string, ttl time.Duration) string {
	t.Helper()

	claims := jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func (b *fakeBackend) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}
		token, err := jwt.Parse(raw, func(tok *jwt.Token) (any, error) {
			if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
			}
			return b.secret, nil
		})
		if err != nil || !token.Valid {
			writeError(w, http.StatusUnauthorized, "token expired or invalid")
			return
		}
		next(w, r)
	}
}

func (b *fakeBackend) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		writeError(w, http.StatusBadRequest, "Cannot Parse JSON")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.users[body.Email]; exists {
		writeError(w, http.StatusConflict, "user already exists")
		return
	}
	b.users[body.Email] = body.Password
	writeJSON(w, http.StatusOK, map[string]string{"message": "User created"})
}

func (b *fakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Cannot Parse JSON")
		return
	}

	b.mu.Lock()
	password, exists := b.users[body.Email]
	b.mu.Unlock()
	if !exists || password != body.Password {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	claims := jwt.MapClaims{
		"email": body.Email,
		"exp":   time.Now().Add(72 * time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token generation failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Login successful", "token": token})
}

func (b *fakeBackend) handleShorten(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body struct {
		URL    string `json:"url"`
		Short  string `json:"short"`
		Expiry int    `json:"expiry"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.URL == "" {
		writeError(w, http.StatusBadRequest, "Invalid URL")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	short := body.Short
	if short == "" {
		b.nextID++
		short = fmt.Sprintf("gen%04d", b.nextID)
	}
	if _, taken := b.urls[short]; taken {
		writeError(w, http.StatusForbidden, "URL short already exists")
		return
	}
	b.urls[short] = map[string]any{"url": body.URL, "expiry": body.Expiry}
	writeJSON(w, http.StatusOK, map[string]any{
		"url":              body.URL,
		"short":            short,
		"expiry":           body.Expiry,
		"rate_limit":       9,
		"rate_limit_reset": 30,
	})
}

func (b *fakeBackend) handleAPIv1(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/")

	switch {
	case path == "GetScams":
		b.mu.Lock()
		scams := append([]map[string]any(nil), b.scams...)
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"scams": scams})
	case path == "AddScams":
		var scam map[string]any
		if err := json.NewDecoder(r.Body).Decode(&scam); err != nil {
			writeError(w, http.StatusBadRequest, "Cannot Parse JSON")
			return
		}
		b.mu.Lock()
		b.scams = append(b.scams, scam)
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"message": "Scam added"})
	case path == "addTag":
		var body struct {
			ShortID string   `json:"shortID"`
			Tags    []string `json:"tags"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "Cannot Parse JSON")
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.urls[body.ShortID]; !ok {
			writeError(w, http.StatusNotFound, "short URL not found")
			return
		}
		b.tags[body.ShortID] = append(b.tags[body.ShortID], body.Tags...)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Tags added"})
	case r.Method == http.MethodGet:
		b.mu.Lock()
		entry, ok := b.urls[path]
		b.mu.Unlock()
		if !ok {
			writeError(w, http.StatusNotFound, "short URL not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"url": entry["url"]})
	case r.Method == http.MethodDelete:
		b.mu.Lock()
		delete(b.urls, path)
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"message": "URL deleted"})
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func newClient(t *testing.T, backend *fakeBackend, store credential.Store) *linkshield.Client {
	t.Helper()

	if store == nil {
		store = credential.NewMemoryStore()
	}
	client, err := linkshield.New().
		WithBaseURL(backend.URL()).
		WithStore(store).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}
