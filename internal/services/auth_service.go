package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/terraincognita07/cyclecare/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAuthEmailTaken                = errors.New("auth email already registered")
	ErrAuthUserNotFound              = errors.New("auth user not found")
	ErrPasswordChangeInvalidInput    = errors.New("password change invalid input")
	ErrPasswordMismatch              = errors.New("password confirmation mismatch")
	ErrInvalidCurrentPassword        = errors.New("invalid current password")
	ErrNewPasswordMustDiffer         = errors.New("new password must differ")
	ErrAccountDeletePasswordRequired = errors.New("account delete password required")
)

type AuthUserRepository interface {
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, bool, error)
	FindByID(userID uint) (models.User, bool, error)
	CreateWithSettings(user *models.User) error
	UpdatePassword(userID uint, passwordHash string, mustChangePassword bool) error
	UpdateProfile(userID uint, updates map[string]any) error
	DeleteAccountAndRelatedData(userID uint) error
}

type RegistrationInput struct {
	Username string
	Email    string
	Password string
	Name     string
}

// ProfileUpdate changes only the fields that are set.
type ProfileUpdate struct {
	Username       *string
	Name           *string
	ProfilePicture *string
}

type AuthService struct {
	users AuthUserRepository
	cost  int
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users, cost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost, mainly to keep tests fast.
func (service *AuthService) WithHashCost(cost int) *AuthService {
	service.cost = cost
	return service
}

func (service *AuthService) Register(input RegistrationInput) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(input.Email, input.Password)
	if err != nil {
		return models.User{}, err
	}
	username, err := NormalizeUsername(input.Username)
	if err != nil {
		return models.User{}, err
	}
	name, err := NormalizeProfileName(input.Name)
	if err != nil {
		return models.User{}, err
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}

	exists, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return models.User{}, ErrAuthEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), service.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
	}
	if err := service.users.CreateWithSettings(&user); err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate returns ErrAuthCredentialsInvalid for unknown emails and wrong
// passwords alike.
func (service *AuthService) Authenticate(emailRaw string, passwordRaw string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}

	user, found, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	if !found {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	user, found, err := service.users.FindByID(userID)
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	if !found {
		return models.User{}, ErrAuthUserNotFound
	}
	return user, nil
}

func (service *AuthService) ChangePassword(userID uint, currentPassword string, newPassword string, confirmPassword string) error {
	currentPassword = strings.TrimSpace(currentPassword)
	newPassword = strings.TrimSpace(newPassword)
	confirmPassword = strings.TrimSpace(confirmPassword)

	if currentPassword == "" || newPassword == "" || confirmPassword == "" {
		return ErrPasswordChangeInvalidInput
	}
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	user, err := service.FindByID(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return ErrInvalidCurrentPassword
	}
	if currentPassword == newPassword {
		return ErrNewPasswordMustDiffer
	}
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), service.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return service.users.UpdatePassword(userID, string(hash), false)
}

func (service *AuthService) UpdateProfile(userID uint, update ProfileUpdate) (models.User, error) {
	updates := make(map[string]any)
	if update.Username != nil {
		username, err := NormalizeUsername(*update.Username)
		if err != nil {
			return models.User{}, err
		}
		updates["username"] = username
	}
	if update.Name != nil {
		name, err := NormalizeProfileName(*update.Name)
		if err != nil {
			return models.User{}, err
		}
		updates["name"] = name
	}
	if update.ProfilePicture != nil {
		picture, err := NormalizeProfilePicture(*update.ProfilePicture)
		if err != nil {
			return models.User{}, err
		}
		updates["profile_picture"] = picture
	}

	if err := service.users.UpdateProfile(userID, updates); err != nil {
		return models.User{}, fmt.Errorf("update profile: %w", err)
	}
	return service.FindByID(userID)
}

// DeleteAccount removes the user and all tracking data after re-checking the password.
func (service *AuthService) DeleteAccount(userID uint, password string) error {
	password = strings.TrimSpace(password)
	if password == "" {
		return ErrAccountDeletePasswordRequired
	}
	user, err := service.FindByID(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return ErrInvalidCurrentPassword
	}
	return service.users.DeleteAccountAndRelatedData(userID)
}

// ForcePasswordReset replaces the password with a temporary one that must be
// changed on the next login.
func (service *AuthService) ForcePasswordReset(emailRaw string, temporaryPassword string) (models.User, error) {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	if err := ValidatePasswordStrength(temporaryPassword); err != nil {
		return models.User{}, err
	}

	user, found, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	if !found {
		return models.User{}, ErrAuthUserNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(temporaryPassword), service.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	if err := service.users.UpdatePassword(user.ID, string(hash), true); err != nil {
		return models.User{}, fmt.Errorf("update password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.MustChangePassword = true
	return user, nil
}
