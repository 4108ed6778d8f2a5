package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/recipe-share/backend/internal/metrics"
	"github.com/anonto42/recipe-share/backend/internal/models"
	"github.com/anonto42/recipe-share/backend/internal/repositories"
	"github.com/anonto42/recipe-share/backend/internal/validators"
	"github.com/anonto42/recipe-share/backend/pkg/apperr"
	"github.com/anonto42/recipe-share/backend/pkg/token"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// IDTokenVerifier verifies Firebase ID tokens. *auth.Client satisfies it.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthService registers users and exchanges credentials for bearer tokens.
type AuthService struct {
	users      repositories.UserRepository
	tokens     *token.Manager
	validator  *validators.Validator
	bcryptCost int
	firebase   IDTokenVerifier
	logger     *slog.Logger
}

// NewAuthService creates an AuthService. Costs below bcrypt.DefaultCost are raised to it.
func NewAuthService(users repositories.UserRepository, tokens *token.Manager, v *validators.Validator, bcryptCost int, logger *slog.Logger) *AuthService {
	if bcryptCost < bcrypt.DefaultCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:      users,
		tokens:     tokens,
		validator:  v,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// WithFirebase enables FirebaseLogin using verifier.
func (s *AuthService) WithFirebase(verifier IDTokenVerifier) *AuthService {
	s.firebase = verifier
	return s
}

// FirebaseEnabled reports whether FirebaseLogin can be used.
func (s *AuthService) FirebaseEnabled() bool {
	return s.firebase != nil
}

// Register creates a user with a hashed password and returns a token for it.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (resp *models.AuthResponse, err error) {
	defer func() { metrics.ObserveAuth("register", err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.users.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, apperr.Conflict("email already registered")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, s.internal("lookup user by email", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, s.internal("hash password", err)
	}

	user := &models.User{
		Username: req.Name,
		Email:    req.Email,
		Password: string(hashed),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperr.Conflict("email already registered")
		}
		return nil, s.internal("create user", err)
	}

	s.logger.Info("user registered", slog.String("user_id", user.ID))
	return s.issue(user)
}

// Login verifies an email/password pair and returns a token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (resp *models.AuthResponse, err error) {
	defer func() { metrics.ObserveAuth("login", err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, s.internal("lookup user by email", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperr.New(apperr.ErrCodeInvalidCredentials, "invalid credentials")
	}

	return s.issue(user)
}

// FirebaseLogin exchanges a Firebase ID token for a local token, creating
// the user on first sign-in.
func (s *AuthService) FirebaseLogin(ctx context.Context, req models.FirebaseLoginRequest) (resp *models.AuthResponse, err error) {
	defer func() { metrics.ObserveAuth("firebase_login", err) }()

	if s.firebase == nil {
		return nil, apperr.NotFound("firebase login is not enabled")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	fbToken, err := s.firebase.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidToken, "invalid firebase ID token", err)
	}

	email, _ := fbToken.Claims["email"].(string)
	if email == "" {
		return nil, apperr.Validation("firebase token carries no email")
	}
	name, _ := fbToken.Claims["name"].(string)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrNotFound):
		// Firebase users sign in through Firebase only; their local
		// password is a hash of a random value nobody knows.
		hashed, herr := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.bcryptCost)
		if herr != nil {
			return nil, s.internal("hash password", herr)
		}
		user = &models.User{Username: name, Email: email, Password: string(hashed)}
		if cerr := s.users.CreateUser(ctx, user); cerr != nil {
			if !errors.Is(cerr, repositories.ErrDuplicate) {
				return nil, s.internal("create user", cerr)
			}
			if user, err = s.users.GetUserByEmail(ctx, email); err != nil {
				return nil, s.internal("lookup user by email", err)
			}
		}
		s.logger.Info("user registered via firebase", slog.String("user_id", user.ID), slog.String("firebase_uid", fbToken.UID))
	default:
		return nil, s.internal("lookup user by email", err)
	}

	return s.issue(user)
}

// Me returns the caller's public profile.
func (s *AuthService) Me(ctx context.Context, identity models.Identity) (*models.PublicUser, error) {
	user, err := s.users.GetUserByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, s.internal("lookup user by id", err)
	}
	pub := user.Public()
	return &pub, nil
}

func (s *AuthService) issue(user *models.User) (*models.AuthResponse, error) {
	t, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, s.internal("issue token", err)
	}
	return &models.AuthResponse{Token: t, User: user.Public()}, nil
}

func (s *AuthService) internal(op string, err error) error {
	s.logger.Error("auth operation failed", slog.String("operation", op), slog.String("error", err.Error()))
	return apperr.Internal(err)
}
