package cli

import (
	"fmt"
	"io"

	"github.com/terraincognita07/cyclecare/internal/db"
	"gorm.io/gorm"
)

// RunMigrationStatusCommand prints the applied schema migrations. Opening the
// database already applies pending ones.
func RunMigrationStatusCommand(out io.Writer, database *gorm.DB) error {
	applied, err := db.ListAppliedMigrations(database)
	if err != nil {
		return err
	}

	if len(applied) == 0 {
		fmt.Fprintln(out, "No migrations applied.")
		return nil
	}
	for _, migration := range applied {
		fmt.Fprintf(out, "%s  %s  %s\n", migration.Version, migration.Name, migration.AppliedAt)
	}
	return nil
}
