package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"healthreg/internal/access"
	"healthreg/internal/config"
	"healthreg/internal/db"
	"healthreg/internal/model"
	"healthreg/internal/repository"
)

func main() {
	phcFile := flag.String("phc-master", "", "path to the PHC master CSV to load")
	adminUser := flag.String("admin-username", "admin", "username for the bootstrap admin account")
	flag.Parse()

	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Resident{},
		&model.UpdateLog{},
		&model.PHCMaster{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)

	if err := seedAdmin(ctx, userRepo, *adminUser); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	if *phcFile != "" {
		phcRepo := repository.NewPHCMasterRepository(gormDB)
		loaded, skipped, err := loadPHCMaster(ctx, phcRepo, *phcFile)
		if err != nil {
			log.Fatalf("Failed to load PHC master: %v", err)
		}
		log.Printf("PHC master loaded: %d rows upserted, %d skipped", loaded, skipped)
	}

	log.Println("Seed completed successfully!")
}

// seedAdmin creates the bootstrap admin account if it does not exist yet.
// The password comes from SEED_ADMIN_PASSWORD and must be changed after
// first login.
func seedAdmin(ctx context.Context, repo repository.UserRepository, username string) error {
	existing, err := repo.FindByUsername(ctx, username)
	if err != nil && err != gorm.ErrRecordNotFound {
		return fmt.Errorf("error checking admin account: %w", err)
	}
	if existing != nil {
		log.Printf("Admin account %q already exists, skipping", username)
		return nil
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		return fmt.Errorf("SEED_ADMIN_PASSWORD must be set to create the admin account")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	admin := model.User{
		Username:             username,
		PasswordHash:         string(hash),
		Name:                 "District Administrator",
		Role:                 access.RoleAdmin,
		AssignedSecretariats: "[]",
		Active:               true,
	}
	if err := repo.Create(ctx, &admin); err != nil {
		return fmt.Errorf("error creating admin account: %w", err)
	}
	log.Printf("Created admin account %q (id=%d)", username, admin.ID)
	return nil
}

// loadPHCMaster reads the master CSV and upserts it keyed on sec_code.
// Expected columns: mandal_name, mandal_code, sec_name, sec_code,
// phc_name, rural_urban.
func loadPHCMaster(ctx context.Context, repo repository.PHCMasterRepository, path string) (loaded, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return 0, 0, fmt.Errorf("error reading CSV: %w", err)
	}
	if len(records) < 2 {
		return 0, 0, fmt.Errorf("%s has no data rows", path)
	}

	var rows []model.PHCMaster
	for i, rec := range records[1:] {
		if len(rec) < 6 {
			log.Printf("Skipping row %d: expected 6 columns, got %d", i+2, len(rec))
			skipped++
			continue
		}
		mandalCode, err := strconv.Atoi(strings.TrimSpace(rec[1]))
		if err != nil {
			log.Printf("Skipping row %d: bad mandal_code %q", i+2, rec[1])
			skipped++
			continue
		}
		secCode, err := strconv.Atoi(strings.TrimSpace(rec[3]))
		if err != nil {
			log.Printf("Skipping row %d: bad sec_code %q", i+2, rec[3])
			skipped++
			continue
		}
		row := model.PHCMaster{
			MandalName: strings.ToUpper(strings.TrimSpace(rec[0])),
			MandalCode: mandalCode,
			SecName:    strings.ToUpper(strings.TrimSpace(rec[2])),
			SecCode:    secCode,
			PHCName:    strings.TrimSpace(rec[4]),
			RuralUrban: strings.ToUpper(strings.TrimSpace(rec[5])),
		}
		if row.MandalName == "" || row.SecName == "" {
			log.Printf("Skipping row %d: missing mandal or secretariat name", i+2)
			skipped++
			continue
		}
		rows = append(rows, row)
	}

	if err := repo.Upsert(ctx, rows); err != nil {
		return 0, skipped, fmt.Errorf("error upserting master rows: %w", err)
	}
	return len(rows), skipped, nil
}
