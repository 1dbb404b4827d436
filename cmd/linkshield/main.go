// Command linkshield is a command-line client for the LinkShield backend.
// Credentials persist in ~/.linkshield/credentials.json between invocations,
// so a login survives until logout or until the backend rejects the token.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	linkshield "github.com/AbdulhameedSk/LinkShield"
	"github.com/AbdulhameedSk/LinkShield/credential"
	"github.com/golang-jwt/jwt/v5"
)

const defaultServer = "http://localhost:8000"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	if err := run(cmd, args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: linkshield <command> [flags]

Commands:
  login        authenticate and store the credential
  logout       clear the stored credential
  status       show session state and stored token claims
  shorten      create a short link
  resolve      look up the target behind a short ID
  edit         update a short link
  delete       remove a short link
  tag          attach tags to a short link
  scams        list reported scams
  verified     list admin-verified scams
  report       report a URL as a scam
  vote         vote on a reported scam URL
  add-admin    register an administrator
  verify-scam  mark a scam as verified (admin)

Common flags: -server, -credentials (also LINKSHIELD_SERVER env)`)
}

func run(cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	server := fs.String("server", "", "backend base URL (overrides LINKSHIELD_SERVER)")
	credPath := fs.String("credentials", "", "credential file path")

	var (
		email    = fs.String("email", "", "account email")
		password = fs.String("password", "", "account password")
		rawURL   = fs.String("url", "", "target URL")
		short    = fs.String("short", "", "custom short ID")
		expiry   = fs.Int64("expiry", 0, "expiry in hours (0 = backend default)")
		id       = fs.String("id", "", "short ID")
		tags     = fs.String("tags", "", "comma-separated tags")
		desc     = fs.String("description", "", "scam description")
		name     = fs.String("name", "", "admin name")
		timeout  = fs.Duration("timeout", 30*time.Second, "request timeout")
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	client, store, err := buildClient(*server, *credPath, *timeout)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// Reconcile with the credential file before any command observes the
	// session.
	client.Hydrate(ctx)

	switch cmd {
	case "login":
		if *email == "" || *password == "" {
			return errors.New("-email and -password required")
		}
		if err := client.LoginWithPassword(ctx, *email, *password); err != nil {
			return err
		}
		fmt.Println("Logged in as", *email)
		return nil

	case "logout":
		if err := client.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil

	case "status":
		return printStatus(ctx, client, store)

	case "shorten":
		if *rawURL == "" {
			return errors.New("-url required")
		}
		resp, err := client.Shorten(ctx, linkshield.ShortenRequest{
			URL:    *rawURL,
			Short:  *short,
			Expiry: *expiry,
		})
		if err != nil {
			return err
		}
		fmt.Printf("%s -> %s (expires in %dh, %d requests left)\n",
			resp.URL, resp.Short, resp.Expiry, resp.RateRemaining)
		return nil

	case "resolve":
		if *id == "" {
			return errors.New("-id required")
		}
		resp, err := client.Resolve(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Println(resp.URL)
		return nil

	case "edit":
		if *id == "" || *rawURL == "" {
			return errors.New("-id and -url required")
		}
		if err := client.EditURL(ctx, *id, linkshield.EditRequest{URL: *rawURL, Expiry: *expiry}); err != nil {
			return err
		}
		fmt.Println("Updated", *id)
		return nil

	case "delete":
		if *id == "" {
			return errors.New("-id required")
		}
		if err := client.DeleteURL(ctx, *id); err != nil {
			return err
		}
		fmt.Println("Deleted", *id)
		return nil

	case "tag":
		if *id == "" || *tags == "" {
			return errors.New("-id and -tags required")
		}
		if err := client.AddTags(ctx, *id, splitTags(*tags)); err != nil {
			return err
		}
		fmt.Println("Tagged", *id)
		return nil

	case "scams":
		scams, err := client.Scams(ctx)
		if err != nil {
			return err
		}
		return printJSON(scams)

	case "verified":
		scams, err := client.VerifiedScams(ctx)
		if err != nil {
			return err
		}
		return printJSON(scams)

	case "report":
		if *rawURL == "" {
			return errors.New("-url required")
		}
		if err := client.ReportScam(ctx, linkshield.Scam{URL: *rawURL, Description: *desc, Rating: 1}); err != nil {
			return err
		}
		fmt.Println("Reported", *rawURL)
		return nil

	case "vote":
		if *rawURL == "" {
			return errors.New("-url required")
		}
		if err := client.Vote(ctx, *rawURL); err != nil {
			return err
		}
		fmt.Println("Voted on", *rawURL)
		return nil

	case "add-admin":
		if *name == "" || *email == "" {
			return errors.New("-name and -email required")
		}
		if err := client.AddAdmin(ctx, linkshield.Admin{Name: *name, Email: *email}); err != nil {
			return err
		}
		fmt.Println("Admin added:", *email)
		return nil

	case "verify-scam":
		if *rawURL == "" {
			return errors.New("-url required")
		}
		if err := client.VerifyScam(ctx, *rawURL); err != nil {
			return err
		}
		fmt.Println("Verified", *rawURL)
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func buildClient(server, credPath string, timeout time.Duration) (*linkshield.Client, credential.Store, error) {
	base := defaultServer
	if env := os.Getenv("LINKSHIELD_SERVER"); env != "" {
		base = strings.TrimRight(env, "/")
	}
	if server != "" {
		base = strings.TrimRight(server, "/")
	}

	if credPath == "" {
		p, err := credential.DefaultCredentialPath()
		if err != nil {
			return nil, nil, fmt.Errorf("resolve credential path: %w", err)
		}
		credPath = p
	}
	store := credential.NewFileStore(credPath)

	cfg := linkshield.Config{}
	cfg.Gateway.BaseURL = base
	cfg.Gateway.RequestTimeout = timeout
	cfg.Gateway.LoginPath = "/login"
	cfg.Gateway.UserAgent = "linkshield-cli"
	cfg.Session.SyncReadTimeout = 250 * time.Millisecond
	cfg.Session.HydrateTimeout = 5 * time.Second
	cfg.Audit.Enabled = false

	client, err := linkshield.New().
		WithConfig(cfg).
		WithStore(store).
		WithNavigator(func(target string) {
			fmt.Fprintln(os.Stderr, "Session expired; run `linkshield login` to re-authenticate.")
		}).
		Build()
	if err != nil {
		return nil, nil, err
	}

	return client, store, nil
}

// printStatus shows the session snapshot and, when a token is stored, its
// JWT claims. The claims are decoded without verification, for display only;
// token validity is always decided by the backend.
func printStatus(ctx context.Context, client *linkshield.Client, store credential.Store) error {
	snap := client.Session()
	if !snap.Authenticated {
		fmt.Println("Not logged in.")
		return nil
	}

	fmt.Println("Logged in as", snap.Principal)

	rec, err := store.Load(ctx)
	if err != nil || !rec.Present() {
		return nil
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(rec.Token, claims); err != nil {
		fmt.Println("Token: opaque (not a JWT)")
		return nil
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		fmt.Println("Token expires:", exp.Time.Format(time.RFC3339))
	}
	if email, ok := claims["email"].(string); ok {
		fmt.Println("Token subject:", email)
	}
	return nil
}

func splitTags(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
