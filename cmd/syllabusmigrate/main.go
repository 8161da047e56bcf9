// Command syllabusmigrate converts offered course syllabi stored in the
// title-keyed shape to sections and prints a YAML report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/idearoom-admin/internal/data/db"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
)

func main() {
	var dryRun bool
	flag.BoolVar(&dryRun, "dry-run", false, "report without writing")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("load .env: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	database, err := db.NewDatabaseService(log, db.ConfigFromEnv())
	if err != nil {
		fmt.Printf("init database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	report, err := migrate(context.Background(), database.DB(), dryRun)
	if report != nil {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		_ = enc.Encode(report)
		_ = enc.Close()
	}
	if err != nil {
		log.Error("Syllabus migration failed", "error", err)
		os.Exit(1)
	}
}
