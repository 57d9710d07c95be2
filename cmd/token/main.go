// Command token issues access tokens for operators and local testing.
// User registration and login live outside this service.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"coupon-service/internal/auth"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	userID := fs.String("user-id", "", "user id (UUID); a random one is generated when empty")
	email := fs.String("email", "", "user email")
	role := fs.String("role", auth.RoleUser, "role: admin or user")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	secret := fs.String("secret", os.Getenv("JWT_SECRET"), "signing secret (defaults to $JWT_SECRET)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	id := uuid.New()
	if *userID != "" {
		var err error
		if id, err = uuid.Parse(*userID); err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}
	}

	token, err := auth.NewJWTService(*secret, *ttl).Generate(id, *email, *role)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	fmt.Println(token)
	return nil
}
