package main

import (
	"context"
	"flag"
	"log"
	"os"

	"healthreg/internal/config"
	"healthreg/internal/db"
	"healthreg/internal/model"
	"healthreg/internal/repository"
)

// Reports residents sharing the same health ID. A health ID identifies
// one person, so duplicates are always data-entry faults. With --clear,
// every duplicate except the earliest-updated holder loses the value and
// an audit row records the clearing. Report-only by default.
func main() {
	clearDupes := flag.Bool("clear", false, "clear the health ID on later duplicates and log the change")
	asUser := flag.String("as", "admin", "username recorded on the audit rows")
	flag.Parse()

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()

	var actorID uint
	if *clearDupes {
		actor, err := repository.NewUserRepository(gormDB).FindByUsername(ctx, *asUser)
		if err != nil {
			log.Fatalf("Failed to resolve audit account %q: %v", *asUser, err)
		}
		actorID = actor.ID
	}

	var dupes []struct {
		HealthID string
		Total    int64
	}
	err = gormDB.WithContext(ctx).Model(&model.Resident{}).
		Select("health_id, COUNT(*) AS total").
		Where("health_id <> ''").
		Group("health_id").
		Having("COUNT(*) > 1").
		Order("total DESC").
		Scan(&dupes).Error
	if err != nil {
		log.Fatalf("Failed scanning for duplicates: %v", err)
	}

	if len(dupes) == 0 {
		log.Println("No duplicate health IDs found")
		os.Exit(0)
	}
	log.Printf("Found %d health IDs held by more than one resident", len(dupes))

	residentRepo := repository.NewResidentRepository(gormDB)
	var cleared int

	for _, d := range dupes {
		var holders []model.Resident
		err := gormDB.WithContext(ctx).
			Where("health_id = ?", d.HealthID).
			Order("updated_at ASC").
			Find(&holders).Error
		if err != nil {
			log.Fatalf("Failed loading holders of %s: %v", d.HealthID, err)
		}

		log.Printf("%s held by %d residents, keeping %s (%s / %s)",
			d.HealthID, len(holders), holders[0].Name, holders[0].MandalName, holders[0].SecName)
		for _, h := range holders[1:] {
			log.Printf("  duplicate: %s (%s / %s, id=%s)", h.Name, h.MandalName, h.SecName, h.ID)
		}

		if !*clearDupes {
			continue
		}

		// Keep the earliest-updated holder; clear the rest inside one
		// transaction so the audit rows always match the cleared values.
		err = residentRepo.WithTransaction(ctx, func(ctx context.Context, residents repository.ResidentRepository, logs repository.UpdateLogRepository) error {
			for i := range holders[1:] {
				h := holders[1+i]
				old := h.HealthID
				h.HealthID = ""
				if err := residents.Update(ctx, &h); err != nil {
					return err
				}
				entry := model.UpdateLog{
					ResidentID: h.ID,
					UserID:     actorID,
					FieldName:  model.FieldHealthID,
					OldValue:   old,
					NewValue:   "",
					IPAddress:  "dedupe-health-ids",
				}
				if err := logs.Create(ctx, &entry); err != nil {
					return err
				}
				cleared++
			}
			return nil
		})
		if err != nil {
			log.Fatalf("Failed clearing duplicates of %s: %v", d.HealthID, err)
		}
	}

	if *clearDupes {
		log.Printf("Cleared health ID on %d residents", cleared)
	} else {
		log.Println("Report only (use --clear to clear duplicates)")
	}
}
