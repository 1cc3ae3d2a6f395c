package main

import (
	"context"
	"time"

	authsvc "zeniverse_api/internal/api/auth/service"
	"zeniverse_api/internal/global"
	"zeniverse_api/internal/logger"
)

// InitDefaultData seeds the first super admin from config when none exists.
func InitDefaultData(admins *authsvc.AdminService) {
	cfg := global.MongoDB_ServerConfig

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := admins.SeedSuperAdmin(ctx, cfg.SuperAdminUsername, cfg.SuperAdminEmail, cfg.SuperAdminPassword); err != nil {
		logger.GetAppLogger().Fatalf("Failed to seed super admin: %v", err)
	}
}
