package main

import (
	"bufio"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/Vishnu072004/Chess-App/internal/config"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)

	for {
		printMenu()
		fmt.Print("Select option: ")
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)

		switch input {
		case "1":
			createDatabase(cfg)
		case "2":
			migrateSchema(cfg)
		case "3":
			migrateFresh(cfg)
		case "4":
			truncateTables(cfg)
		case "5":
			seedData(cfg)
		case "6":
			deleteDatabase(cfg)
		case "0":
			fmt.Println("Bye.")
			os.Exit(0)
		default:
			fmt.Println("Invalid option")
		}

		fmt.Println()
		fmt.Print("Press Enter to continue...")
		reader.ReadString('\n')
	}
}

func printMenu() {
	fmt.Println()
	fmt.Println("========================================")
	fmt.Println("     CHESS REELS DATABASE CLI")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("1. Create database (if missing) + migrate schema")
	fmt.Println("2. Migrate schema")
	fmt.Println("3. Migrate fresh (drop everything + re-migrate)")
	fmt.Println("4. Truncate tables")
	fmt.Println("5. Seed data (generate dummy data)")
	fmt.Println("6. Drop database")
	fmt.Println("0. Exit")
	fmt.Println()
	fmt.Println("----------------------------------------")
}

func getPostgresConn(cfg *config.Config) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=postgres sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.SSLMode,
	)
	return sql.Open("postgres", connStr)
}

func getDBConn(cfg *config.Config) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name, cfg.Database.SSLMode,
	)
	return sql.Open("postgres", connStr)
}

func databaseExists(cfg *config.Config) (bool, error) {
	db, err := getPostgresConn(cfg)
	if err != nil {
		return false, err
	}
	defer db.Close()

	var exists bool
	err = db.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.Database.Name).Scan(&exists)
	return exists, err
}

func createDatabase(cfg *config.Config) {
	fmt.Println()
	fmt.Println("--- Create Database + Migrate Schema ---")

	exists, err := databaseExists(cfg)
	if err != nil {
		fmt.Printf("Error checking database: %v\n", err)
		return
	}

	if exists {
		fmt.Printf("Database '%s' already exists.\n", cfg.Database.Name)
		fmt.Print("Continue with schema migration? (y/n): ")
		reader := bufio.NewReader(os.Stdin)
		input, _ := reader.ReadString('\n')
		if strings.TrimSpace(strings.ToLower(input)) != "y" {
			fmt.Println("Cancelled.")
			return
		}
	} else {
		db, err := getPostgresConn(cfg)
		if err != nil {
			fmt.Printf("Connection error: %v\n", err)
			return
		}
		defer db.Close()

		_, err = db.Exec(fmt.Sprintf("CREATE DATABASE %s", cfg.Database.Name))
		if err != nil {
			fmt.Printf("Error creating database: %v\n", err)
			return
		}
		fmt.Printf("Database '%s' created.\n", cfg.Database.Name)
	}

	migrateSchema(cfg)
}

func migrateSchema(cfg *config.Config) {
	fmt.Println()
	fmt.Println("--- Migrate Schema ---")

	db, err := getDBConn(cfg)
	if err != nil {
		fmt.Printf("Connection error: %v\n", err)
		return
	}
	defer db.Close()

	fmt.Println("Creating extensions...")
	if err := createExtensions(db); err != nil {
		fmt.Printf("Error creating extensions: %v\n", err)
		return
	}

	fmt.Println("Creating tables...")
	if err := createTables(db); err != nil {
		fmt.Printf("Error creating tables: %v\n", err)
		return
	}

	fmt.Println("Creating indexes...")
	if err := createIndexes(db); err != nil {
		fmt.Printf("Error creating indexes: %v\n", err)
		return
	}

	fmt.Println("Creating functions and triggers...")
	if err := createFunctionsAndTriggers(db); err != nil {
		fmt.Printf("Error creating functions/triggers: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Println("Migration complete!")
}

func migrateFresh(cfg *config.Config) {
	fmt.Println()
	fmt.Println("--- Migrate Fresh ---")
	fmt.Println("WARNING: all data will be destroyed!")
	fmt.Print("Type 'FRESH' to confirm: ")

	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	if strings.TrimSpace(input) != "FRESH" {
		fmt.Println("Cancelled.")
		return
	}

	db, err := getDBConn(cfg)
	if err != nil {
		fmt.Printf("Connection error: %v\n", err)
		return
	}
	defer db.Close()

	fmt.Println("Dropping all objects...")
	if err := dropAllObjects(db); err != nil {
		fmt.Printf("Error dropping objects: %v\n", err)
		return
	}

	fmt.Println("Starting fresh migration...")
	migrateSchema(cfg)
}

func truncateTables(cfg *config.Config) {
	fmt.Println()
	fmt.Println("--- Truncate Tables ---")
	fmt.Println("The following data will be DELETED:")
	fmt.Println("- users, reels, comments")
	fmt.Println("- reel_likes, reel_saves, reel_views")
	fmt.Println("- refresh_tokens, token_blacklist")
	fmt.Println()
	fmt.Print("Type 'TRUNCATE' to confirm: ")

	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	if strings.TrimSpace(input) != "TRUNCATE" {
		fmt.Println("Cancelled.")
		return
	}

	db, err := getDBConn(cfg)
	if err != nil {
		fmt.Printf("Connection error: %v\n", err)
		return
	}
	defer db.Close()

	tablesToTruncate := []string{
		"token_blacklist",
		"refresh_tokens",
		"comments",
		"reel_likes",
		"reel_saves",
		"reel_views",
		"reels",
		"users",
	}

	for _, table := range tablesToTruncate {
		fmt.Printf("Truncating %s...\n", table)
		_, err := db.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			fmt.Printf("Error truncating %s: %v\n", table, err)
		}
	}

	fmt.Println()
	fmt.Println("Truncate complete!")
}

func deleteDatabase(cfg *config.Config) {
	fmt.Println()
	fmt.Println("--- Drop Database ---")
	fmt.Printf("WARNING: database '%s' will be deleted permanently!\n", cfg.Database.Name)
	fmt.Print("Type the database name to confirm: ")

	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	if strings.TrimSpace(input) != cfg.Database.Name {
		fmt.Println("Database name does not match. Cancelled.")
		return
	}

	db, err := getPostgresConn(cfg)
	if err != nil {
		fmt.Printf("Connection error: %v\n", err)
		return
	}
	defer db.Close()

	// Terminate existing connections
	_, _ = db.Exec(fmt.Sprintf(`
		SELECT pg_terminate_backend(pg_stat_activity.pid)
		FROM pg_stat_activity
		WHERE pg_stat_activity.datname = '%s'
		AND pid <> pg_backend_pid()
	`, cfg.Database.Name))

	_, err = db.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS %s", cfg.Database.Name))
	if err != nil {
		fmt.Printf("Error dropping database: %v\n", err)
		return
	}

	fmt.Printf("Database '%s' dropped.\n", cfg.Database.Name)
}

func dropAllObjects(db *sql.DB) error {
	tables := []string{
		"token_blacklist",
		"refresh_tokens",
		"comments",
		"reel_likes",
		"reel_saves",
		"reel_views",
		"reels",
		"users",
	}

	for _, table := range tables {
		_, _ = db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table))
	}

	return nil
}

func createExtensions(db *sql.DB) error {
	extensions := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,
		`CREATE EXTENSION IF NOT EXISTS "pg_trgm"`,
	}

	for _, ext := range extensions {
		if _, err := db.Exec(ext); err != nil {
			return fmt.Errorf("extension error: %v", err)
		}
	}
	return nil
}

func createTables(db *sql.DB) error {
	tables := []string{
		// Users
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			username VARCHAR(30) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			avatar_url TEXT,
			role VARCHAR(10) NOT NULL DEFAULT 'user',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			last_login_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT users_role_valid CHECK (role IN ('user', 'admin'))
		)`,

		// Refresh Tokens
		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			token_hash VARCHAR(64) NOT NULL UNIQUE,
			family_id UUID NOT NULL,
			device_info JSONB,
			ip_address VARCHAR(45),
			is_revoked BOOLEAN NOT NULL DEFAULT FALSE,
			revoked_at TIMESTAMPTZ,
			revoke_reason VARCHAR(100),
			expires_at TIMESTAMPTZ NOT NULL,
			last_used_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Token Blacklist
		`CREATE TABLE IF NOT EXISTS token_blacklist (
			jti VARCHAR(36) PRIMARY KEY,
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			expires_at TIMESTAMPTZ NOT NULL,
			reason VARCHAR(100),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Reels
		`CREATE TABLE IF NOT EXISTS reels (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			video_url TEXT NOT NULL,
			video_thumbnail_url TEXT,
			video_duration_sec INTEGER NOT NULL DEFAULT 0,
			content_title VARCHAR(200),
			content_description TEXT,
			content_tags TEXT,
			content_difficulty VARCHAR(20) DEFAULT 'beginner',
			content_white_player VARCHAR(100),
			content_black_player VARCHAR(100),
			chess_fen TEXT,
			chess_pgn TEXT,
			chess_orientation VARCHAR(5) DEFAULT 'white',
			engagement_likes BIGINT NOT NULL DEFAULT 0,
			engagement_comments BIGINT NOT NULL DEFAULT 0,
			engagement_views BIGINT NOT NULL DEFAULT 0,
			engagement_saves BIGINT NOT NULL DEFAULT 0,
			status VARCHAR(10) NOT NULL DEFAULT 'draft',
			folder VARCHAR(15) NOT NULL DEFAULT 'random',
			grandmaster VARCHAR(100),
			uploaded_by UUID REFERENCES users(id) ON DELETE SET NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT reels_status_valid CHECK (status IN ('draft', 'published', 'archived')),
			CONSTRAINT reels_difficulty_valid CHECK (content_difficulty IN ('beginner', 'intermediate', 'advanced')),
			CONSTRAINT reels_folder_valid CHECK (folder IN ('random', 'grandmaster'))
		)`,

		// Reel Likes
		`CREATE TABLE IF NOT EXISTS reel_likes (
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			reel_id UUID NOT NULL REFERENCES reels(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, reel_id)
		)`,

		// Reel Saves
		`CREATE TABLE IF NOT EXISTS reel_saves (
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			reel_id UUID NOT NULL REFERENCES reels(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, reel_id)
		)`,

		// Reel Views
		`CREATE TABLE IF NOT EXISTS reel_views (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			reel_id UUID NOT NULL REFERENCES reels(id) ON DELETE CASCADE,
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			session_id VARCHAR(100),
			viewed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT reel_views_identity CHECK (user_id IS NOT NULL OR session_id IS NOT NULL)
		)`,

		// Comments
		`CREATE TABLE IF NOT EXISTS comments (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			reel_id UUID NOT NULL REFERENCES reels(id) ON DELETE CASCADE,
			user_id UUID REFERENCES users(id) ON DELETE SET NULL,
			guest_name VARCHAR(50) NOT NULL DEFAULT 'Anonymous',
			parent_id UUID REFERENCES comments(id) ON DELETE SET NULL,
			text VARCHAR(1000) NOT NULL,
			like_count BIGINT NOT NULL DEFAULT 0,
			reply_count BIGINT NOT NULL DEFAULT 0,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, table := range tables {
		if _, err := db.Exec(table); err != nil {
			return fmt.Errorf("table error: %v", err)
		}
	}
	return nil
}

func createIndexes(db *sql.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user ON refresh_tokens(user_id) WHERE is_revoked = FALSE`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_hash ON refresh_tokens(token_hash) WHERE is_revoked = FALSE`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_family ON refresh_tokens(family_id)`,
		`CREATE INDEX IF NOT EXISTS idx_token_blacklist_expires ON token_blacklist(expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_reels_status ON reels(status)`,
		`CREATE INDEX IF NOT EXISTS idx_reels_published ON reels(created_at DESC) WHERE status = 'published'`,
		`CREATE INDEX IF NOT EXISTS idx_reels_difficulty ON reels(content_difficulty) WHERE status = 'published'`,
		`CREATE INDEX IF NOT EXISTS idx_reels_trending ON reels(engagement_views DESC, engagement_likes DESC) WHERE status = 'published'`,
		`CREATE INDEX IF NOT EXISTS idx_reels_title_trgm ON reels USING gin(content_title gin_trgm_ops)`,
		`CREATE INDEX IF NOT EXISTS idx_reel_likes_reel ON reel_likes(reel_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reel_saves_reel ON reel_saves(reel_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reel_views_reel ON reel_views(reel_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_reel_views_user ON reel_views(reel_id, user_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_reel_views_session ON reel_views(reel_id, session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_reel ON comments(reel_id) WHERE is_deleted = FALSE`,
		`CREATE INDEX IF NOT EXISTS idx_comments_parent ON comments(parent_id) WHERE parent_id IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_comments_user ON comments(user_id) WHERE user_id IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_comments_created ON comments(reel_id, created_at DESC)`,
	}

	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			if !strings.Contains(err.Error(), "already exists") {
				return fmt.Errorf("index error: %v", err)
			}
		}
	}
	return nil
}

func createFunctionsAndTriggers(db *sql.DB) error {
	functions := []string{
		`CREATE OR REPLACE FUNCTION update_updated_at()
		RETURNS TRIGGER AS $$
		BEGIN
			NEW.updated_at := NOW();
			RETURN NEW;
		END;
		$$ LANGUAGE plpgsql`,

		`CREATE OR REPLACE FUNCTION cleanup_expired_tokens()
		RETURNS INTEGER AS $$
		DECLARE
			deleted_count INTEGER;
		BEGIN
			DELETE FROM refresh_tokens WHERE expires_at < NOW();
			GET DIAGNOSTICS deleted_count = ROW_COUNT;
			DELETE FROM token_blacklist WHERE expires_at < NOW();
			RETURN deleted_count;
		END;
		$$ LANGUAGE plpgsql`,
	}

	for _, fn := range functions {
		if _, err := db.Exec(fn); err != nil {
			return fmt.Errorf("function error: %v", err)
		}
	}

	triggers := []string{
		`DROP TRIGGER IF EXISTS trg_users_updated_at ON users`,
		`CREATE TRIGGER trg_users_updated_at BEFORE UPDATE ON users FOR EACH ROW EXECUTE FUNCTION update_updated_at()`,

		`DROP TRIGGER IF EXISTS trg_reels_updated_at ON reels`,
		`CREATE TRIGGER trg_reels_updated_at BEFORE UPDATE ON reels FOR EACH ROW EXECUTE FUNCTION update_updated_at()`,

		`DROP TRIGGER IF EXISTS trg_comments_updated_at ON comments`,
		`CREATE TRIGGER trg_comments_updated_at BEFORE UPDATE ON comments FOR EACH ROW EXECUTE FUNCTION update_updated_at()`,
	}

	for _, trg := range triggers {
		if _, err := db.Exec(trg); err != nil {
			return fmt.Errorf("trigger error: %v", err)
		}
	}

	return nil
}

// Seeder configuration
type SeederConfig struct {
	Users    int
	Reels    int
	Comments int
	Likes    int
	Views    int
}

var seederPresets = map[string]SeederConfig{
	"1": {Users: 10, Reels: 20, Comments: 60, Likes: 50, Views: 100},
	"2": {Users: 50, Reels: 100, Comments: 400, Likes: 500, Views: 1500},
	"3": {Users: 200, Reels: 500, Comments: 2500, Likes: 3000, Views: 10000},
}

func seedData(cfg *config.Config) {
	fmt.Println()
	fmt.Println("--- Seed Data ---")
	fmt.Println()
	fmt.Println("Dataset size:")
	fmt.Println("1. Small  - 10 users, 20 reels, 60 comments")
	fmt.Println("2. Medium - 50 users, 100 reels, 400 comments")
	fmt.Println("3. Large  - 200 users, 500 reels, 2500 comments")
	fmt.Println("0. Cancel")
	fmt.Println()
	fmt.Print("Select (1-3): ")

	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)

	if input == "0" {
		fmt.Println("Cancelled.")
		return
	}

	preset, ok := seederPresets[input]
	if !ok {
		fmt.Println("Invalid option.")
		return
	}

	db, err := getDBConn(cfg)
	if err != nil {
		fmt.Printf("Connection error: %v\n", err)
		return
	}
	defer db.Close()

	rand.Seed(time.Now().UnixNano())

	fmt.Println()
	fmt.Println("Seeding...")

	fmt.Printf("Seeding %d users...\n", preset.Users)
	userIDs, err := seedUsers(db, preset.Users)
	if err != nil {
		fmt.Printf("Error seeding users: %v\n", err)
		return
	}

	fmt.Printf("Seeding %d reels...\n", preset.Reels)
	reelIDs, err := seedReels(db, preset.Reels, userIDs)
	if err != nil {
		fmt.Printf("Error seeding reels: %v\n", err)
		return
	}

	fmt.Printf("Seeding %d comments...\n", preset.Comments)
	if err := seedComments(db, preset.Comments, userIDs, reelIDs); err != nil {
		fmt.Printf("Error seeding comments: %v\n", err)
		return
	}

	fmt.Printf("Seeding %d likes...\n", preset.Likes)
	if err := seedLikes(db, preset.Likes, userIDs, reelIDs); err != nil {
		fmt.Printf("Error seeding likes: %v\n", err)
		return
	}

	fmt.Printf("Seeding %d views...\n", preset.Views)
	if err := seedViews(db, preset.Views, userIDs, reelIDs); err != nil {
		fmt.Printf("Error seeding views: %v\n", err)
		return
	}

	fmt.Println("Recounting denormalized counters...")
	if err := recountCounters(db); err != nil {
		fmt.Printf("Error recounting counters: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Println("Seeding complete!")
}

var usernames = []string{
	"magnusfan", "knightrider", "pawnstorm", "endgamewiz", "tacticsguru",
	"blunderprone", "sicilianlover", "rookandroll", "queensgambit", "castlelong",
	"enpassant", "zugzwanged", "fiancheto", "backrank", "smotheredm8",
	"pinandwin", "forkmaster", "skewerking", "stalemate", "checkmate99",
}

var reelTitles = []string{
	"Greek Gift Sacrifice Explained", "The Opposition in King Endgames",
	"Smothered Mate Pattern", "Sicilian Dragon Crash Course",
	"How to Win with the London System", "Back Rank Tactics You Must Know",
	"Queen Sacrifice Brilliancy", "Rook Endgame Fundamentals",
	"The Fried Liver Attack", "Zugzwang Masterclass",
	"Pawn Storms Against the Castled King", "Knight Fork Patterns",
	"Windmill Tactics", "The Immortal Game Breakdown",
	"Stalemate Tricks to Save Lost Games", "Bishop Pair Advantage",
}

var commentTexts = []string{
	"This line loses to Nf6+ though", "Great explanation, thanks!",
	"What if black plays h6 first?", "I used this in my game yesterday and won",
	"The engine says this is only +0.3", "Finally someone explains this properly",
	"Can you do one on the Caro-Kann?", "That rook lift is beautiful",
	"I always blunder in this position", "Underrated channel",
	"What about the bishop sacrifice on h7?", "This helped me reach 1500, thank you",
}

var tagPool = []string{
	"tactics", "endgame", "opening", "middlegame", "sacrifice",
	"checkmate", "strategy", "blunder", "brilliancy", "basics",
}

var difficulties = []string{"beginner", "beginner", "intermediate", "intermediate", "advanced"}

func seedUsers(db *sql.DB, count int) ([]string, error) {
	var userIDs []string

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	passwordHash := string(hashedPassword)

	// Admin account first
	var adminID string
	err := db.QueryRow(`
		INSERT INTO users (username, email, password_hash, role, avatar_url, is_active)
		VALUES ('admin', 'admin@chessreels.app', $1, 'admin', 'https://i.pravatar.cc/300?u=admin', true)
		ON CONFLICT (username) DO UPDATE SET password_hash = $1, updated_at = NOW()
		RETURNING id
	`, passwordHash).Scan(&adminID)
	if err == nil {
		userIDs = append(userIDs, adminID)
	}

	for i := 0; i < count; i++ {
		username := usernames[rand.Intn(len(usernames))] + fmt.Sprintf("%d", rand.Intn(9999))
		email := username + "@example.com"
		avatarURL := fmt.Sprintf("https://i.pravatar.cc/300?u=%s", username)

		var id string
		err := db.QueryRow(`
			INSERT INTO users (username, email, password_hash, role, avatar_url, is_active)
			VALUES ($1, $2, $3, 'user', $4, true)
			ON CONFLICT (username) DO NOTHING
			RETURNING id
		`, username, email, passwordHash, avatarURL).Scan(&id)
		if err != nil {
			continue
		}
		userIDs = append(userIDs, id)
	}

	return userIDs, nil
}

func seedReels(db *sql.DB, count int, userIDs []string) ([]string, error) {
	var reelIDs []string
	statuses := []string{"draft", "published", "published", "published", "archived"}

	for i := 0; i < count; i++ {
		title := reelTitles[rand.Intn(len(reelTitles))]
		status := statuses[rand.Intn(len(statuses))]
		difficulty := difficulties[rand.Intn(len(difficulties))]
		videoURL := fmt.Sprintf("https://cdn.example.com/reels/videos/%d.mp4", rand.Intn(100000))
		thumbnailURL := fmt.Sprintf("https://cdn.example.com/reels/thumbnails/%d.jpg", rand.Intn(100000))
		duration := 15 + rand.Intn(105)
		tags := fmt.Sprintf(`{"%s","%s"}`, tagPool[rand.Intn(len(tagPool))], tagPool[rand.Intn(len(tagPool))])

		var uploadedBy *string
		if len(userIDs) > 0 {
			u := userIDs[rand.Intn(len(userIDs))]
			uploadedBy = &u
		}

		var id string
		err := db.QueryRow(`
			INSERT INTO reels (video_url, video_thumbnail_url, video_duration_sec, content_title, content_tags, content_difficulty, status, uploaded_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id
		`, videoURL, thumbnailURL, duration, title, tags, difficulty, status, uploadedBy).Scan(&id)
		if err != nil {
			continue
		}
		reelIDs = append(reelIDs, id)
	}

	return reelIDs, nil
}

// seedComments builds real threads: roughly 40% of comments reply to an
// earlier comment on the same reel.
func seedComments(db *sql.DB, count int, userIDs, reelIDs []string) error {
	if len(reelIDs) == 0 {
		return nil
	}

	commentsByReel := make(map[string][]string)

	for i := 0; i < count; i++ {
		reelID := reelIDs[rand.Intn(len(reelIDs))]
		text := commentTexts[rand.Intn(len(commentTexts))]

		var userID *string
		guestName := "Anonymous"
		if len(userIDs) > 0 && rand.Float32() < 0.8 {
			u := userIDs[rand.Intn(len(userIDs))]
			userID = &u
		}

		var parentID *string
		existing := commentsByReel[reelID]
		if len(existing) > 0 && rand.Float32() < 0.4 {
			p := existing[rand.Intn(len(existing))]
			parentID = &p
		}

		var id string
		err := db.QueryRow(`
			INSERT INTO comments (reel_id, user_id, guest_name, parent_id, text)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, reelID, userID, guestName, parentID, text).Scan(&id)
		if err != nil {
			continue
		}
		commentsByReel[reelID] = append(commentsByReel[reelID], id)
	}

	return nil
}

func seedLikes(db *sql.DB, count int, userIDs, reelIDs []string) error {
	if len(userIDs) == 0 || len(reelIDs) == 0 {
		return nil
	}

	created := 0
	attempts := 0
	maxAttempts := count * 3

	for created < count && attempts < maxAttempts {
		attempts++

		userID := userIDs[rand.Intn(len(userIDs))]
		reelID := reelIDs[rand.Intn(len(reelIDs))]

		res, err := db.Exec(`
			INSERT INTO reel_likes (user_id, reel_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, userID, reelID)
		if err != nil {
			continue
		}
		if n, _ := res.RowsAffected(); n > 0 {
			created++
		}

		// Some likers save the reel too
		if rand.Float32() < 0.3 {
			db.Exec(`
				INSERT INTO reel_saves (user_id, reel_id)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, userID, reelID)
		}
	}

	return nil
}

func seedViews(db *sql.DB, count int, userIDs, reelIDs []string) error {
	if len(reelIDs) == 0 {
		return nil
	}

	for i := 0; i < count; i++ {
		reelID := reelIDs[rand.Intn(len(reelIDs))]

		if len(userIDs) > 0 && rand.Float32() < 0.6 {
			userID := userIDs[rand.Intn(len(userIDs))]
			db.Exec(`
				INSERT INTO reel_views (reel_id, user_id)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, reelID, userID)
		} else {
			sessionID := fmt.Sprintf("guest-%d", rand.Intn(1000000))
			db.Exec(`
				INSERT INTO reel_views (reel_id, session_id)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, reelID, sessionID)
		}
	}

	return nil
}

// recountCounters rewrites every denormalized counter from the
// authoritative rows, the same computation the reconcile job runs.
func recountCounters(db *sql.DB) error {
	statements := []string{
		`UPDATE reels SET engagement_likes = (SELECT COUNT(*) FROM reel_likes WHERE reel_likes.reel_id = reels.id)`,
		`UPDATE reels SET engagement_saves = (SELECT COUNT(*) FROM reel_saves WHERE reel_saves.reel_id = reels.id)`,
		`UPDATE reels SET engagement_views = (SELECT COUNT(*) FROM reel_views WHERE reel_views.reel_id = reels.id)`,
		`UPDATE reels SET engagement_comments = (SELECT COUNT(*) FROM comments WHERE comments.reel_id = reels.id AND comments.is_deleted = FALSE)`,
		`UPDATE comments SET reply_count = (SELECT COUNT(*) FROM comments c WHERE c.parent_id = comments.id AND c.is_deleted = FALSE)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
