package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/singulaarityy/Ferrum-Store/internal/config"
	"github.com/singulaarityy/Ferrum-Store/internal/domain/models"
	"github.com/singulaarityy/Ferrum-Store/internal/repository/postgres"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed demo data")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	log.Printf("Ensuring schema (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	if err := runSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		return
	}

	log.Println("Seeding demo accounts and folders...")
	if err := seedDemoData(ctx, pool, tables, logger); err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}
	log.Println("Seeding complete")
}

func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	// Reverse dependency order
	for _, table := range []string{tables.Permissions, tables.Files, tables.Folders, tables.Users} {
		if _, err := pool.Exec(ctx, `DROP TABLE IF EXISTS `+table+` CASCADE`); err != nil {
			return err
		}
	}
	return nil
}

func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	createUsers := `
		CREATE TABLE IF NOT EXISTS ` + tables.Users + ` (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'student',
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createUsers); err != nil {
		return err
	}

	createFolders := `
		CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			parent_id UUID REFERENCES ` + tables.Folders + `(id) ON DELETE CASCADE,
			owner_id UUID NOT NULL REFERENCES ` + tables.Users + `(id) ON DELETE CASCADE,
			is_public BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createFolders); err != nil {
		return err
	}

	createFiles := `
		CREATE TABLE IF NOT EXISTS ` + tables.Files + ` (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			folder_id UUID REFERENCES ` + tables.Folders + `(id) ON DELETE CASCADE,
			owner_id UUID NOT NULL REFERENCES ` + tables.Users + `(id) ON DELETE CASCADE,
			storage_key TEXT NOT NULL,
			size BIGINT NOT NULL DEFAULT 0,
			mime_type TEXT NOT NULL DEFAULT '',
			is_public BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createFiles); err != nil {
		return err
	}

	createPermissions := `
		CREATE TABLE IF NOT EXISTS ` + tables.Permissions + ` (
			id UUID PRIMARY KEY,
			folder_id UUID NOT NULL REFERENCES ` + tables.Folders + `(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES ` + tables.Users + `(id) ON DELETE CASCADE,
			permission TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(folder_id, user_id)
		)
	`
	if _, err := pool.Exec(ctx, createPermissions); err != nil {
		return err
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tables.Folders + `_parent ON ` + tables.Folders + `(parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tables.Folders + `_owner_root ON ` + tables.Folders + `(owner_id) WHERE parent_id IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_` + tables.Files + `_folder ON ` + tables.Files + `(folder_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tables.Files + `_owner_root ON ` + tables.Files + `(owner_id) WHERE folder_id IS NULL`,
	}
	for _, idx := range indexes {
		if _, err := pool.Exec(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}

func seedDemoData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, logger *slog.Logger) error {
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	permRepo := postgres.NewPermissionRepository(repoConfig)

	hash, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	accounts := []*models.User{
		{ID: uuid.NewString(), Name: "Demo Admin", Email: "admin@example.com", PasswordHash: string(hash), Role: models.RoleAdmin},
		{ID: uuid.NewString(), Name: "Demo Staff", Email: "staff@example.com", PasswordHash: string(hash), Role: models.RoleStaff},
		{ID: uuid.NewString(), Name: "Demo Student", Email: "student@example.com", PasswordHash: string(hash), Role: models.RoleStudent},
	}
	for _, u := range accounts {
		if err := userRepo.Create(ctx, u); err != nil {
			return err
		}
		log.Printf("Created %s account: %s", u.Role, u.Email)
	}

	student := accounts[2]
	docs := &models.Folder{
		ID:      uuid.NewString(),
		Name:    "Docs",
		OwnerID: student.ID,
	}
	if err := folderRepo.Create(ctx, docs); err != nil {
		return err
	}

	shared := &models.Folder{
		ID:       uuid.NewString(),
		Name:     "Handouts",
		OwnerID:  accounts[1].ID,
		IsPublic: true,
	}
	if err := folderRepo.Create(ctx, shared); err != nil {
		return err
	}

	// Give the student editor access to the staff handouts folder
	perm := &models.FolderPermission{
		ID:         uuid.NewString(),
		FolderID:   shared.ID,
		UserID:     student.ID,
		Permission: models.PermissionEditor,
	}
	return permRepo.Create(ctx, perm)
}
