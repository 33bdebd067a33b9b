// Command seedadmin grants the admin role to a designated identity by
// writing storage directly. It is the operator-invoked seed path for the
// first admin: it deliberately bypasses the policy evaluator (which would
// otherwise require an admin to already exist) and is never reachable from
// request handling.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"regexp"
	"time"

	"gorm.io/gorm"

	"loanguard-backend/internal/config"
	"loanguard-backend/internal/domain/profile"
	"loanguard-backend/internal/infrastructure/db"
)

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

func main() {
	identityID := flag.String("identity", "", "identity id to grant admin (32-char lowercase hex)")
	email := flag.String("email", "", "email recorded if the profile has to be created")
	flag.Parse()

	if !reHex32.MatchString(*identityID) {
		log.Fatal("seedadmin: -identity must be 32-char lowercase hex")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := seed(ctx, gdb, *identityID, *email, cfg.DefaultLoanLimit); err != nil {
		log.Fatal(err)
	}
	log.Printf("seedadmin: %s is now an admin", *identityID)
}

// seed is idempotent: re-running it against an existing admin changes
// nothing.
func seed(ctx context.Context, gdb *gorm.DB, identityID, email string, loanLimit float64) error {
	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p profile.Profile
		err := tx.Where("id = ?", identityID).First(&p).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&profile.Profile{
				ID:        identityID,
				Email:     email,
				LoanLimit: loanLimit,
				IsAdmin:   true,
			}).Error
		case err != nil:
			return err
		}
		if p.IsAdmin {
			return nil
		}
		return tx.Model(&p).Update("is_admin", true).Error
	})
}
