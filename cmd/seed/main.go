package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/sharecircle/sharecircle-backend/pkg/auth"
	"github.com/sharecircle/sharecircle-backend/pkg/config"
	"github.com/sharecircle/sharecircle-backend/pkg/db"
	"github.com/sharecircle/sharecircle-backend/pkg/db/models"
	"github.com/sharecircle/sharecircle-backend/pkg/logger"
)

const demoCredits = 50

var demoUsers = []models.User{
	{Name: "Alice Johnson", Email: "alice@sharecircle.dev", Credits: demoCredits},
	{Name: "Bob Smith", Email: "bob@sharecircle.dev", Credits: demoCredits},
	{Name: "Carol Lee", Email: "carol@sharecircle.dev", Credits: demoCredits},
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	printTokens := flag.Bool("tokens", false, "print a bearer token for each demo user")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)

	if cfg.App.IsProd() {
		logg.Error(ctx, "refusing to seed a production database", nil)
		os.Exit(1)
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	seeded, err := seedDemoUsers(ctx, dbClient)
	requireResource(ctx, logg, "demo users", err)

	if len(seeded) == 0 {
		logg.Info(ctx, "users already present, nothing to seed")
	} else {
		logg.Info(logg.WithField(ctx, "count", len(seeded)), "demo users created")
	}

	if !*printTokens {
		return
	}

	if len(seeded) == 0 {
		if err := dbClient.DB().WithContext(ctx).Order("name ASC").Find(&seeded).Error; err != nil {
			requireResource(ctx, logg, "demo users", err)
		}
	}

	now := time.Now()
	for _, user := range seeded {
		token, err := auth.MintAccessToken(cfg.JWT, now, auth.AccessTokenPayload{UserID: user.ID})
		requireResource(ctx, logg, "access token", err)
		fmt.Printf("%s <%s>\n  Bearer %s\n", user.Name, user.Email, token)
	}
}

// seedDemoUsers inserts the demo accounts when the users table is empty.
// Safe to run more than once.
func seedDemoUsers(ctx context.Context, client *db.Client) ([]models.User, error) {
	var created []models.User

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
			return fmt.Errorf("counting users: %w", err)
		}
		if count > 0 {
			return nil
		}

		for _, user := range demoUsers {
			user.ID = uuid.New()
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("creating user %s: %w", user.Email, err)
			}
			created = append(created, user)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
