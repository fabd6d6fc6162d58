package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"healthreg/internal/config"
	"healthreg/internal/db"
	"healthreg/internal/model"
	"healthreg/internal/repository"
)

// Reconciles the denormalized mandal/secretariat codes on residents
// against the PHC master list. Codes drifted historically because bulk
// loads carried their own numbering; the master is authoritative.
// Dry-run by default.
func main() {
	apply := flag.Bool("apply", false, "write corrections; without it the script only reports")
	flag.Parse()

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	phcRepo := repository.NewPHCMasterRepository(gormDB)

	master, err := phcRepo.ListAll(ctx)
	if err != nil {
		log.Fatalf("Failed to load PHC master: %v", err)
	}
	if len(master) == 0 {
		log.Fatal("PHC master is empty, run the seed script first")
	}
	log.Printf("Loaded %d master rows", len(master))

	known := make(map[string]bool, len(master))
	var fixed int64
	for _, m := range master {
		known[key(m.MandalName, m.SecName)] = true

		q := gormDB.WithContext(ctx).Model(&model.Resident{}).
			Where("mandal_name = ? AND sec_name = ?", m.MandalName, m.SecName).
			Where("mandal_code <> ? OR sec_code <> ? OR phc_name <> ?", m.MandalCode, m.SecCode, m.PHCName)

		if !*apply {
			var n int64
			if err := q.Count(&n).Error; err != nil {
				log.Fatalf("Failed counting %s / %s: %v", m.MandalName, m.SecName, err)
			}
			if n > 0 {
				log.Printf("%s / %s: %d residents need codes (%d, %d) phc %q",
					m.MandalName, m.SecName, n, m.MandalCode, m.SecCode, m.PHCName)
				fixed += n
			}
			continue
		}

		res := q.Updates(map[string]interface{}{
			"mandal_code": m.MandalCode,
			"sec_code":    m.SecCode,
			"phc_name":    m.PHCName,
		})
		if res.Error != nil {
			log.Fatalf("Failed updating %s / %s: %v", m.MandalName, m.SecName, res.Error)
		}
		if res.RowsAffected > 0 {
			log.Printf("%s / %s: corrected %d residents", m.MandalName, m.SecName, res.RowsAffected)
			fixed += res.RowsAffected
		}
	}

	// Secretariats present on residents but absent from the master need a
	// human decision, not an automated rewrite.
	var orphans []struct {
		MandalName string
		SecName    string
		Total      int64
	}
	err = gormDB.WithContext(ctx).Model(&model.Resident{}).
		Select("mandal_name, sec_name, COUNT(*) AS total").
		Group("mandal_name, sec_name").
		Scan(&orphans).Error
	if err != nil {
		log.Fatalf("Failed listing resident secretariats: %v", err)
	}
	for _, o := range orphans {
		if !known[key(o.MandalName, o.SecName)] {
			log.Printf("WARNING: %d residents in %s / %s have no master row", o.Total, o.MandalName, o.SecName)
		}
	}

	mode := "DRY RUN (use --apply to write)"
	if *apply {
		mode = "APPLIED"
	}
	log.Printf("%s: %d resident rows out of sync with the master", mode, fixed)
}

func key(mandal, sec string) string {
	return fmt.Sprintf("%s|%s", mandal, sec)
}
