package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	"healthreg/internal/config"
	"healthreg/internal/db"
	"healthreg/internal/repository"
)

// Removes audit logs, and optionally the resident rows themselves, for a
// list of resident IDs supplied by the district office (test records,
// confirmed duplicates). Both deletions run inside one transaction so a
// failure never leaves audit rows pointing at missing residents, or the
// reverse. Dry-run by default.
func main() {
	idsFile := flag.String("ids", "", "file with one resident UUID per line (required)")
	withResidents := flag.Bool("with-residents", false, "also hard-delete the resident rows")
	apply := flag.Bool("apply", false, "execute the deletions; without it the script only reports")
	flag.Parse()

	if *idsFile == "" {
		flag.Usage()
		os.Exit(1)
	}

	ids, err := readIDs(*idsFile)
	if err != nil {
		log.Fatalf("Failed to read ID file: %v", err)
	}
	if len(ids) == 0 {
		log.Fatal("ID file contained no valid UUIDs")
	}
	log.Printf("Loaded %d resident IDs from %s", len(ids), *idsFile)

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	residentRepo := repository.NewResidentRepository(gormDB)
	logRepo := repository.NewUpdateLogRepository(gormDB)

	logIDs, err := logRepo.FindIDsByResidentIDs(ctx, ids)
	if err != nil {
		log.Fatalf("Failed to count matching logs: %v", err)
	}
	log.Printf("%d update logs match", len(logIDs))

	if !*apply {
		if *withResidents {
			log.Printf("DRY RUN: would delete %d logs and up to %d residents (use --apply)", len(logIDs), len(ids))
		} else {
			log.Printf("DRY RUN: would delete %d logs (use --apply)", len(logIDs))
		}
		return
	}

	var logsDeleted, residentsDeleted int64
	err = residentRepo.WithTransaction(ctx, func(ctx context.Context, residents repository.ResidentRepository, logs repository.UpdateLogRepository) error {
		n, err := logs.DeleteByResidentIDs(ctx, ids)
		if err != nil {
			return err
		}
		logsDeleted = n

		if *withResidents {
			n, err := residents.DeleteByIDs(ctx, ids)
			if err != nil {
				return err
			}
			residentsDeleted = n
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Purge failed, nothing deleted: %v", err)
	}

	log.Printf("Deleted %d update logs", logsDeleted)
	if *withResidents {
		log.Printf("Deleted %d residents", residentsDeleted)
	}
}

// readIDs parses one UUID per line, skipping blanks and comments.
func readIDs(path string) ([]uuid.UUID, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ids []uuid.UUID
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		s := strings.TrimSpace(scanner.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		id, err := uuid.Parse(s)
		if err != nil {
			log.Printf("Skipping line %d: %q is not a UUID", line, s)
			continue
		}
		ids = append(ids, id)
	}
	return ids, scanner.Err()
}
