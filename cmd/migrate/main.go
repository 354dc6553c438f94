package main

import (
	"log"
	"os"

	"ai-voicebot-be/internal/model"
	"ai-voicebot-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"
)

// oneActiveIndexes back the single-writer rules of the dialogue: at most one
// active chat session and one active note per user. A violating insert fails
// with SQLSTATE 23505, which the repositories map to contract.ErrActiveConflict.
var oneActiveIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_chat_sessions_one_active ON chat_sessions (user_id) WHERE is_active;`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_notes_one_active ON notes (user_id) WHERE is_active;`,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	dryRun := cli.BoolP("dry-run", "n", false, "Print the index SQL and exit")
	verbose := cli.BoolP("verbose", "v", false, "Log every SQL statement")
	cli.Parse()

	if *dryRun {
		for _, sql := range oneActiveIndexes {
			color.Cyan(sql)
		}
		return
	}

	// 1. Load Environment Variables
	if err := godotenv.Load(*envFile); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	// 2. Connect
	db, err := database.NewGormDBFromDSN(dsn, *verbose)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// 3. Tables
	color.Yellow("Step 1: Running AutoMigrate...")
	models := []interface{}{
		&model.User{},
		&model.ChatSession{},
		&model.ChatMessage{},
		&model.Note{},
		&model.NoteChunk{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Error: AutoMigrate failed: %v", err)
		os.Exit(1)
	}

	// 4. Partial unique indexes (AutoMigrate cannot express WHERE clauses)
	color.Yellow("Step 2: Creating one-active indexes...")
	for _, sql := range oneActiveIndexes {
		if err := db.Exec(sql).Error; err != nil {
			color.Red("Error: %v", err)
			color.Red("Deactivate duplicate active rows, then rerun the migration.")
			os.Exit(1)
		}
	}

	color.Green("✅ Success: Database migration completed.")
}
