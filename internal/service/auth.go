package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Skotchmaster/sweet_shop/internal/domain"
	"github.com/Skotchmaster/sweet_shop/internal/hash"
	"github.com/Skotchmaster/sweet_shop/internal/logging"
	"github.com/Skotchmaster/sweet_shop/internal/mail"
	"github.com/Skotchmaster/sweet_shop/internal/models"
	"github.com/Skotchmaster/sweet_shop/internal/mykafka"
	"github.com/Skotchmaster/sweet_shop/internal/repo"
	"github.com/Skotchmaster/sweet_shop/internal/tokens"
	"github.com/Skotchmaster/sweet_shop/internal/tokenstore"
	"github.com/Skotchmaster/sweet_shop/internal/transport"
	"github.com/Skotchmaster/sweet_shop/internal/util"
)

const minPasswordLen = 8

type AuthService struct {
	Repo        *repo.GormRepo
	Tokens      *tokens.Issuer
	Store       tokenstore.Store
	Mailer      mail.Mailer
	Publisher   mykafka.Publisher
	FrontendURL string
	ResetTTL    time.Duration
	VerifyTTL   time.Duration
	Now         func() time.Time
}

type AuthResult struct {
	User   *models.User
	Tokens *tokens.Pair
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*AuthResult, error) {
	ve := &domain.ValidationError{}
	if strings.TrimSpace(req.Email) == "" {
		ve.Add("email", "required")
	}
	if len(req.Password) < minPasswordLen {
		ve.Add("password", fmt.Sprintf("must be at least %d characters", minPasswordLen))
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	pw, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        req.Email,
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         models.RoleCustomer,
		PasswordHash: pw,
		IsActive:     true,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if err := s.sendVerification(ctx, user); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Uint("user_id", user.ID).Msg("verification_mail_failed")
	}
	publish(ctx, s.Publisher, mykafka.TopicUsers, util.FormatID(user.ID), mykafka.UserRegistered{
		Type:   "user_registered",
		UserID: user.ID,
		Email:  user.Email,
	})
	return s.issue(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*AuthResult, error) {
	user, err := s.Repo.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return nil, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is disabled", domain.ErrForbidden)
	}
	return s.issue(ctx, user)
}

// Refresh trades a live refresh token for a new pair. The old token is
// revoked, so each refresh token works once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.Tokens.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	user, err := s.Repo.GetUser(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown user", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is disabled", domain.ErrForbidden)
	}

	pair, err := s.Tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	next := refreshRow(user.ID, pair)
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, hash.TokenDigest(refreshToken), now(s.Now).UTC(), next); err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: pair}, nil
}

// Logout revokes the refresh token. Logging out twice is not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.Tokens.RefreshSecret)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	err = s.Repo.RevokeRefreshToken(ctx, claims.ID, hash.TokenDigest(refreshToken))
	if errors.Is(err, domain.ErrUnauthorized) {
		return nil
	}
	return err
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	return s.Repo.GetUser(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, req transport.UpdateProfileRequest) (*models.User, error) {
	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		fields["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Avatar != nil {
		fields["avatar"] = *req.Avatar
	}
	return s.Repo.UpdateUser(ctx, userID, fields)
}

// RequestPasswordReset answers the same way whether or not the email is
// registered. Store and mail failures are still returned.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.Repo.GetUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		logging.FromContext(ctx).Debug().Msg("password_reset_unknown_email")
		return nil
	}
	if err != nil {
		return err
	}

	token, err := tokenstore.NewToken()
	if err != nil {
		return err
	}
	if err := s.Store.Put(ctx, tokenstore.PurposePasswordReset, token, user.ID, s.ResetTTL); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	return sendTemplate(ctx, s.Mailer, user.Email, "Restablece tu contraseña", "password_reset.html", linkMail{
		Name:      displayName(user),
		Link:      s.link("/reset-password", token),
		ExpiresIn: humanTTL(s.ResetTTL),
	})
}

// ConfirmPasswordReset consumes token, sets the password and signs the
// user out everywhere.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return domain.NewValidationError("newPassword", fmt.Sprintf("must be at least %d characters", minPasswordLen))
	}
	userID, err := s.Store.Take(ctx, tokenstore.PurposePasswordReset, token)
	if errors.Is(err, tokenstore.ErrTokenNotFound) {
		return domain.NewValidationError("token", "invalid or expired token")
	}
	if err != nil {
		return err
	}

	pw, err := hash.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if _, err := s.Repo.UpdateUser(ctx, userID, map[string]any{"password_hash": pw}); err != nil {
		return err
	}
	return s.Repo.RevokeUserRefreshTokens(ctx, userID)
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.Store.Take(ctx, tokenstore.PurposeEmailVerification, token)
	if errors.Is(err, tokenstore.ErrTokenNotFound) {
		return nil, domain.NewValidationError("token", "invalid or expired token")
	}
	if err != nil {
		return nil, err
	}
	return s.Repo.UpdateUser(ctx, userID, map[string]any{"email_verified": true, "is_active": true})
}

func (s *AuthService) ResendVerification(ctx context.Context, userID uint) error {
	user, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return domain.NewValidationError("email", "already verified")
	}
	return s.sendVerification(ctx, user)
}

func (s *AuthService) sendVerification(ctx context.Context, user *models.User) error {
	token, err := tokenstore.NewToken()
	if err != nil {
		return err
	}
	if err := s.Store.Put(ctx, tokenstore.PurposeEmailVerification, token, user.ID, s.VerifyTTL); err != nil {
		return fmt.Errorf("store verification token: %w", err)
	}
	return sendTemplate(ctx, s.Mailer, user.Email, "Verifica tu correo", "verify_email.html", linkMail{
		Name:      displayName(user),
		Link:      s.link("/verify-email", token),
		ExpiresIn: humanTTL(s.VerifyTTL),
	})
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*AuthResult, error) {
	pair, err := s.Tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SaveRefreshToken(ctx, refreshRow(user.ID, pair)); err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: pair}, nil
}

func refreshRow(userID uint, pair *tokens.Pair) *models.RefreshToken {
	return &models.RefreshToken{
		UserID:    userID,
		JTI:       pair.RefreshJTI,
		TokenHash: hash.TokenDigest(pair.RefreshToken),
		ExpiresAt: pair.RefreshExp.UTC(),
	}
}

type linkMail struct {
	Name      string
	Link      string
	ExpiresIn string
}

func (s *AuthService) link(path, token string) string {
	return strings.TrimRight(s.FrontendURL, "/") + path + "?token=" + url.QueryEscape(token)
}

func displayName(u *models.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

func humanTTL(d time.Duration) string {
	switch {
	case d >= 24*time.Hour && d%(24*time.Hour) == 0:
		if d == 24*time.Hour {
			return "24 horas"
		}
		return fmt.Sprintf("%d días", d/(24*time.Hour))
	case d >= time.Hour && d%time.Hour == 0:
		if d == time.Hour {
			return "1 hora"
		}
		return fmt.Sprintf("%d horas", d/time.Hour)
	default:
		return fmt.Sprintf("%d minutos", int(d.Minutes()))
	}
}
