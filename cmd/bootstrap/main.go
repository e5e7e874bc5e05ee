// Package main 初始化数据库结构并创建首个管理员
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"sitecraft-api/internal/config"
	"sitecraft-api/internal/domain/entity"
	"sitecraft-api/internal/infrastructure/persistence/postgres"
)

// schema 数据库表结构
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		email         VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		name          VARCHAR(128) NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS website_projects (
		id             BIGSERIAL PRIMARY KEY,
		owner_id       BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name           VARCHAR(255) NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		website_type   VARCHAR(50) NOT NULL DEFAULT 'general',
		requirements   TEXT NOT NULL DEFAULT '',
		generated_code TEXT,
		status         VARCHAR(32) NOT NULL DEFAULT 'draft',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_website_projects_owner_updated
		ON website_projects (owner_id, updated_at DESC)`,
	`CREATE TABLE IF NOT EXISTS generation_history (
		id               BIGSERIAL PRIMARY KEY,
		project_id       BIGINT NOT NULL REFERENCES website_projects(id) ON DELETE CASCADE,
		prompt           TEXT NOT NULL,
		generated_output TEXT,
		generation_time  DOUBLE PRECISION NOT NULL DEFAULT 0,
		success          BOOLEAN NOT NULL DEFAULT TRUE,
		error_message    TEXT,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_generation_history_project_created
		ON generation_history (project_id, created_at DESC)`,
}

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting system bootstrap...")

	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. 初始化数据层（仅 PostgreSQL）
	pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		log.Fatalf("failed to connect postgres: %v", err)
	}
	defer pgClient.Close()

	// 3. 建表
	for _, stmt := range schema {
		if _, err := pgClient.DB().ExecContext(ctx, stmt); err != nil {
			log.Fatalf("failed to apply schema: %v", err)
		}
	}
	fmt.Println("Schema applied.")

	// 4. 创建首个管理员
	adminEmail := os.Getenv("BOOTSTRAP_ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@sitecraft.local"
	}
	adminPassword := os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123" // 生产环境请务必通过环境变量设置
	}

	userRepo := postgres.NewUserRepository(pgClient)

	userExists, err := userRepo.ExistsByEmail(ctx, adminEmail)
	if err != nil {
		log.Fatalf("failed to check admin existence: %v", err)
	}

	if !userExists {
		fmt.Printf("Creating admin user: %s...\n", adminEmail)
		admin := entity.NewUser(adminEmail, "System Admin")
		if err := admin.SetPassword(adminPassword); err != nil {
			log.Fatalf("failed to hash admin password: %v", err)
		}

		if err := userRepo.Create(ctx, admin); err != nil {
			log.Fatalf("failed to create admin user: %v", err)
		}
		fmt.Println("Admin user created successfully.")
	} else {
		fmt.Printf("Admin user %s already exists.\n", adminEmail)
	}

	fmt.Println("Bootstrap completed successfully.")
}
