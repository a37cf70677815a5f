package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/terraincognita07/cyclecare/internal/db"
	"github.com/terraincognita07/cyclecare/internal/security"
	"github.com/terraincognita07/cyclecare/internal/services"
	"gorm.io/gorm"
)

const temporaryPasswordLength = 12

// RunResetPasswordCommand issues a temporary password for the account and
// flags it so the user has to choose a new one after logging in.
func RunResetPasswordCommand(out io.Writer, database *gorm.DB, email string) error {
	if strings.TrimSpace(email) == "" {
		return errors.New("email is required")
	}

	temporaryPassword, err := security.TemporaryPassword(temporaryPasswordLength)
	if err != nil {
		return fmt.Errorf("generate temporary password: %w", err)
	}

	authService := services.NewAuthService(db.NewUserRepository(database))
	user, err := authService.ForcePasswordReset(email, temporaryPassword)
	switch {
	case errors.Is(err, services.ErrAuthCredentialsInvalid):
		return fmt.Errorf("invalid email address %q", strings.TrimSpace(email))
	case errors.Is(err, services.ErrAuthUserNotFound):
		return fmt.Errorf("user %s not found", services.NormalizeAuthEmail(email))
	case err != nil:
		return fmt.Errorf("reset password: %w", err)
	}

	fmt.Fprintf(out, "Password reset for %s\n", user.Email)
	fmt.Fprintf(out, "Temporary password: %s\n", temporaryPassword)
	fmt.Fprintln(out, "The user must change it after the next login.")
	return nil
}
