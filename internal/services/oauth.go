package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/guestdesk/crm-backend/internal/config"
	"github.com/guestdesk/crm-backend/internal/models"
	"github.com/guestdesk/crm-backend/pkg/response"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// OAuthService handles Google OAuth login. The OAuth path is just another
// way of proving control of an email address; everything downstream
// (invitation resolution, gate checks) is identical to password login.
type OAuthService struct {
	db     *gorm.DB
	google *oauth2.Config
}

func NewOAuthService(db *gorm.DB, cfg *config.OAuthConfig) *OAuthService {
	s := &OAuthService{db: db}
	if cfg.GoogleClientID != "" {
		s.google = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}
	return s
}

// Enabled reports whether Google login is configured.
func (s *OAuthService) Enabled() bool {
	return s.google != nil
}

// AuthURL returns the Google consent page URL for the given state token.
func (s *OAuthService) AuthURL(state string) (string, error) {
	if s.google == nil {
		return "", response.NewBadRequest("google login is not configured")
	}
	return s.google.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

type googleProfile struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

// HandleCallback exchanges the authorization code, reads the Google profile
// and finds or creates the matching account.
func (s *OAuthService) HandleCallback(ctx context.Context, code string) (*models.User, error) {
	if s.google == nil {
		return nil, response.NewBadRequest("google login is not configured")
	}

	token, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, response.NewUnauthorized("oauth code exchange failed")
	}

	profile, err := s.fetchProfile(ctx, token)
	if err != nil {
		return nil, err
	}
	if profile.Email == "" {
		return nil, response.NewUnauthorized("google account has no email")
	}

	return s.findOrCreateUser(profile)
}

func (s *OAuthService) fetchProfile(ctx context.Context, token *oauth2.Token) (*googleProfile, error) {
	client := s.google.Client(ctx, token)
	resp, err := client.Get(googleUserinfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, response.NewUnauthorized("failed to fetch google profile")
	}

	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// findOrCreateUser links the Google identity to an account by email. An
// existing local account with the same email is reused as-is (the user
// proved control of the address either way); a brand-new visitor gets an
// OAuth-only account with no password hash.
func (s *OAuthService) findOrCreateUser(profile *googleProfile) (*models.User, error) {
	email := normalizeEmail(profile.Email)

	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Email:     &email,
			FirstName: profile.GivenName,
			LastName:  profile.FamilyName,
			Role:      models.RoleUser,
			AuthType:  models.AuthTypeGoogle,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	} else if err != nil {
		return nil, err
	}

	// refresh name fields from the provider when missing locally
	updates := map[string]interface{}{}
	if user.FirstName == "" && profile.GivenName != "" {
		user.FirstName = profile.GivenName
		updates["first_name"] = profile.GivenName
	}
	if user.LastName == "" && profile.FamilyName != "" {
		user.LastName = profile.FamilyName
		updates["last_name"] = profile.FamilyName
	}
	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		s.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates)
	}

	return &user, nil
}
