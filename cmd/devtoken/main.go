// Command devtoken mints bearer tokens accepted by the API for local testing.
// It reads AUTH_JWT_SECRET and AUTH_JWT_ISSUER from the environment.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rohittgajula/IMDB-clone/internal/auth"
	"github.com/rohittgajula/IMDB-clone/internal/config"
)

func main() {
	var (
		userID = flag.String("user", "", "user UUID to embed as subject (random when empty)")
		admin  = flag.Bool("admin", false, "grant the admin role")
		ttl    = flag.Duration("ttl", 24*time.Hour, "token lifetime")
	)
	flag.Parse()

	// Only the auth settings matter here, so the full server validation is skipped.
	var cfg config.Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("read env: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}

	id := uuid.New()
	if *userID != "" {
		parsed, err := uuid.Parse(*userID)
		if err != nil {
			log.Fatalf("parse user: %v", err)
		}
		id = parsed
	}

	caller := auth.Caller{UserID: id}
	if *admin {
		caller.Role = auth.RoleAdmin
	}

	token, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer).Sign(caller, *ttl)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Fprintf(os.Stderr, "user=%s role=%q expires_in=%s\n", id, caller.Role, *ttl)
	fmt.Println(token)
}
