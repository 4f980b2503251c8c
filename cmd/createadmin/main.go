// Command createadmin creates a dashboard account. There is no public
// sign-up route, so this is the only way to add users.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"zawamu/auth"
	"zawamu/config"
	"zawamu/database"
	"zawamu/observability"
	"zawamu/store"
)

func main() {
	name := flag.String("name", "", "display name")
	email := flag.String("email", "", "login email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "password (defaults to $ADMIN_PASSWORD)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if *name == "" || *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer db.Close(context.Background())

	if err := db.CreateIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("index creation failed")
	}

	svc := auth.NewService(store.NewUserStore(db.Users()), auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL))
	u, err := svc.Register(ctx, *name, *email, *password)
	if errors.Is(err, auth.ErrEmailInUse) {
		log.Fatal().Str("email", *email).Msg("a user with this email already exists")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("create admin")
	}
	log.Info().Str("id", u.ID.Hex()).Str("email", u.Email).Msg("admin user created")
}
