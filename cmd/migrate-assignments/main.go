package main

import (
	"context"
	"flag"
	"log"

	"healthreg/internal/access"
	"healthreg/internal/config"
	"healthreg/internal/db"
	"healthreg/internal/repository"
)

// Rewrites field-officer assignment blobs from the legacy
// ["MANDAL -> SECRETARIAT"] string form into the canonical
// [{"mandalName":...,"secName":...}] object form. Dry-run by default.
func main() {
	apply := flag.Bool("apply", false, "write the rewritten blobs; without it the script only reports")
	flag.Parse()

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)

	officers, err := userRepo.List(ctx, []access.Role{access.RoleFieldOfficer}, "")
	if err != nil {
		log.Fatalf("Failed to list field officers: %v", err)
	}
	log.Printf("Scanning %d field officer accounts", len(officers))

	var rewritten, unchanged, emptied int
	for i := range officers {
		u := &officers[i]
		parsed := access.ParseAssignments(u.AssignedSecretariats)
		canonical := access.EncodeAssignments(parsed)

		if canonical == u.AssignedSecretariats {
			unchanged++
			continue
		}
		if len(parsed) == 0 {
			// Blob was present but nothing survived parsing. Flag it:
			// an officer with no assignments cannot work.
			log.Printf("WARNING: user %d (%s) has unparseable blob %q, would reset to []",
				u.ID, u.Username, u.AssignedSecretariats)
			emptied++
		}

		log.Printf("user %d (%s): %q -> %q", u.ID, u.Username, u.AssignedSecretariats, canonical)
		if *apply {
			u.AssignedSecretariats = canonical
			if err := userRepo.Update(ctx, u); err != nil {
				log.Fatalf("Failed to update user %d: %v", u.ID, err)
			}
		}
		rewritten++
	}

	mode := "DRY RUN (use --apply to write)"
	if *apply {
		mode = "APPLIED"
	}
	log.Printf("%s: %d rewritten, %d already canonical, %d reset to empty", mode, rewritten, unchanged, emptied)
}
