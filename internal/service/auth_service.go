package service

import (
	"errors"

	"sdgconnect/config"
	"sdgconnect/internal/auth"
	"sdgconnect/internal/models"
	"sdgconnect/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCreds       = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrRegistrationClosed = errors.New("user registration is disabled")
)

type AuthService struct {
	cfg         *config.Config
	userRepo    *repository.UserRepository
	settingRepo *repository.SettingRepository
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository, settingRepo *repository.SettingRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo, settingRepo: settingRepo}
}

func (s *AuthService) Register(u *models.User, password string) (string, string, error) {
	if s.settingRepo != nil {
		if settings, err := s.settingRepo.Get(); err == nil && !settings.AllowUserRegistration {
			return "", "", ErrRegistrationClosed
		}
	}
	_, err := s.userRepo.GetByEmail(u.Email)
	if err == nil {
		return "", "", ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	u.PasswordHash = string(hash)
	if err := s.userRepo.Create(u); err != nil {
		return "", "", err
	}
	return s.issueTokens(u)
}

func (s *AuthService) Login(email, password string) (*models.User, string, string, error) {
	u, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	if u.IsDisabled {
		return nil, "", "", ErrAccountDisabled
	}
	access, refresh, err := s.issueTokens(u)
	return u, access, refresh, err
}

// LoginWithGoogle finds or creates a user for a verified Google identity and
// returns the user, tokens, and whether the account is new.
func (s *AuthService) LoginWithGoogle(googleID, email, name, pictureURL string) (*models.User, string, string, bool, error) {
	u, err := s.userRepo.GetByGoogleID(googleID)
	if err == nil {
		if u.IsDisabled {
			return nil, "", "", false, ErrAccountDisabled
		}
		access, refresh, err := s.issueTokens(u)
		return u, access, refresh, false, err
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", false, err
	}
	existing, _ := s.userRepo.GetByEmail(email)
	if existing != nil {
		if existing.IsDisabled {
			return nil, "", "", false, ErrAccountDisabled
		}
		gid := googleID
		existing.GoogleID = &gid
		if pictureURL != "" && existing.ProfilePicture == "" {
			existing.ProfilePicture = pictureURL
		}
		if err := s.userRepo.Update(existing); err != nil {
			return nil, "", "", false, err
		}
		access, refresh, err := s.issueTokens(existing)
		return existing, access, refresh, false, err
	}
	if s.settingRepo != nil {
		if settings, err := s.settingRepo.Get(); err == nil && !settings.AllowUserRegistration {
			return nil, "", "", false, ErrRegistrationClosed
		}
	}
	gid := googleID
	u = &models.User{
		Name:           name,
		Email:          email,
		GoogleID:       &gid,
		ProfilePicture: pictureURL,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, "", "", false, err
	}
	access, refresh, err := s.issueTokens(u)
	return u, access, refresh, true, err
}

// ChangePassword updates the user's password after verifying the current one.
func (s *AuthService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return ErrInvalidCreds
	}
	if u.PasswordHash == "" {
		return errors.New("account uses Google sign-in; set a password first")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCreds
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return s.userRepo.Update(u)
}

func (s *AuthService) RefreshToken(refreshToken string) (access, refresh string, err error) {
	userID, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return "", "", auth.ErrInvalidToken
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "", "", auth.ErrInvalidToken
	}
	if u.IsDisabled {
		return "", "", ErrAccountDisabled
	}
	return s.issueTokens(u)
}

func (s *AuthService) issueTokens(u *models.User) (string, string, error) {
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.IsAdmin)
	if err != nil {
		return "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
