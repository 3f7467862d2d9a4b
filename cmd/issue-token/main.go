// Command issue-token mints a session token for local development and
// manual API testing.
//
//	go run ./cmd/issue-token -role admin -ttl 2h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"fairgate/internal/auth/token"
	"fairgate/internal/platform/config"
	"fairgate/pkg/domain"
)

func main() {
	_ = godotenv.Load()

	role := flag.String("role", string(domain.RoleParticipant), "session role: participant or admin")
	userID := flag.String("user", "", "user id (random when empty)")
	ttl := flag.Duration("ttl", 0, "token lifetime (config auth.token_ttl when zero)")
	flag.Parse()

	if err := run(*role, *userID, *ttl); err != nil {
		fmt.Fprintln(os.Stderr, "issue-token:", err)
		os.Exit(1)
	}
}

func run(roleName, userIDText string, ttl time.Duration) error {
	// The signing key and issuer are all this needs; no database.
	if os.Getenv("FAIRGATE_PHASE") == "" {
		_ = os.Setenv("FAIRGATE_PHASE", "build")
	}
	cfg, err := config.Load(os.Getenv("FAIRGATE_CONFIG"))
	if err != nil {
		return err
	}

	role := domain.Role(roleName)
	if !role.IsValid() {
		return fmt.Errorf("unknown role %q", roleName)
	}
	userID := domain.UserID(uuid.New())
	if userIDText != "" {
		if userID, err = domain.ParseUserID(userIDText); err != nil {
			return err
		}
	}
	if ttl == 0 {
		ttl = cfg.Auth.TokenTTL
	}

	tokens, err := token.New(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer)
	if err != nil {
		return err
	}
	signed, claims, err := tokens.Issue(userID, domain.SessionID(uuid.New()), role, ttl)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "user %s, session %s, role %s, expires %s\n",
		claims.UserID, claims.SessionID, claims.Role, claims.ExpiresAt.Time.Format(time.RFC3339))
	fmt.Println(signed)
	return nil
}
