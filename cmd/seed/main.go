package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/account-ledger/config"
	"github.com/oksasatya/account-ledger/internal/application"
	"github.com/oksasatya/account-ledger/internal/domain/entity"
	"github.com/oksasatya/account-ledger/internal/infrastructure"
	"github.com/oksasatya/account-ledger/pkg/helpers"
)

// seed inserts the administrator account into the configured store. It is a
// no-op when the email is already registered.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	if cfg.SeedAdminPassword == "" {
		log.Fatal("SEED_ADMIN_PASSWORD is required")
	}

	gateway, release, err := infrastructure.OpenGateway(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open ledger store: %v", err)
	}
	defer release()

	registry := application.NewRegistry(gateway, logger)
	if err := registry.Load(ctx); err != nil {
		log.Fatalf("failed to load accounts: %v", err)
	}
	if existing, ok := registry.FindByContact(cfg.SeedAdminEmail); ok {
		fmt.Printf("admin already present: id=%s email=%s role=%s\n", existing.ID, existing.Email, existing.Role.WireName())
		return
	}

	hash, err := helpers.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	admin := entity.Account{
		Name:       cfg.SeedAdminName,
		Email:      cfg.SeedAdminEmail,
		Credential: hash,
		Role:       entity.RoleAdministrator,
	}
	admin, err = registry.InsertNew(ctx, admin, application.NewIdentifier)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s name=%s\n", admin.ID, admin.Email, admin.Name)
}
