// seed inserts a verified demo user with a few messages into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/ErlanBelekov/mystery-threads/internal/domain"
	"github.com/ErlanBelekov/mystery-threads/internal/infrastructure/postgres"
	"golang.org/x/crypto/bcrypt"
)

const (
	demoUsername = "demo"
	demoEmail    = "demo@mystery-threads.local"
	demoPassword = "demo-password"
)

var messages = []string{
	"What's a hobby you've recently started?",
	"If you could have dinner with any historical figure, who would it be?",
	"What's a simple thing that makes you happy?",
	"Your talk last week was great, keep it up!",
	"Which book would you recommend to everyone?",
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	users := postgres.NewUserRepository(pool)
	msgRepo := postgres.NewMessageRepository(pool)

	user, err := users.FindByUsername(ctx, demoUsername)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		user, err = users.Create(ctx, &domain.User{
			Username:            demoUsername,
			Email:               demoEmail,
			PasswordHash:        string(hash),
			VerifyCodeExpiresAt: time.Now(),
			IsVerified:          true,
			IsAcceptingMessages: true,
		})
		if err != nil {
			log.Fatalf("create user: %v", err)
		}
	case err != nil:
		log.Fatalf("find user: %v", err)
	}

	if _, err := users.SetAcceptingMessages(ctx, user.ID, true); err != nil {
		log.Fatalf("enable messages: %v", err)
	}

	existing, err := msgRepo.ListByUser(ctx, user.ID)
	if err != nil {
		log.Fatalf("list messages: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("user %q already has %d messages, skipping", demoUsername, len(existing))
		return
	}

	for _, content := range messages {
		if _, err := msgRepo.CreateForUsername(ctx, demoUsername, content); err != nil {
			log.Fatalf("insert message: %v", err)
		}
	}

	log.Printf("seeded user %q (password %q) with %d messages", demoUsername, demoPassword, len(messages))
}
