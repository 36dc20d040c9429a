// cmd/seed/main.go creates or updates the demo admin and the default store
// location, then prints a development access token for the admin.
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/danieln3m0/POSLas4as/internal/config"
	"github.com/danieln3m0/POSLas4as/internal/infra"
	"github.com/danieln3m0/POSLas4as/internal/middleware"
	"github.com/danieln3m0/POSLas4as/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/clause"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect error")
	}
	ctx := context.Background()

	admin := model.User{Username: "admin", Name: "Admin Demo", Role: middleware.RoleAdmin, Active: true}
	err = db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "role", "active"}),
	}).Create(&admin).Error
	if err != nil {
		log.Fatal().Err(err).Msg("upsert admin")
	}
	// ON CONFLICT does not return the existing id
	if err := db.WithContext(ctx).Where("username = ?", admin.Username).First(&admin).Error; err != nil {
		log.Fatal().Err(err).Msg("reload admin")
	}

	store := model.Location{Name: "Main Store", Type: model.LocationStore, Active: true}
	err = db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&store).Error
	if err != nil {
		log.Fatal().Err(err).Msg("insert store location")
	}

	token, err := middleware.SignToken(cfg.JWTSecret, middleware.JWTClaims{
		UserID:   admin.ID.String(),
		Username: admin.Username,
		Role:     admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("sign token")
	}

	fmt.Printf("admin %s ready (id %s)\n", admin.Username, admin.ID)
	fmt.Printf("dev token (24h): %s\n", token)
}
