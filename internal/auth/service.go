package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGeneratorAPI
	bcryptCost     int
	logger         *slog.Logger
}

func NewService(repo RepositoryAPI, tokenGen TokenGeneratorAPI, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	if accessTTL == 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL == 0 {
		refreshTTL = 24 * 7 * time.Hour
	}
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

// Register creates an account. Workers are usable immediately; responsables
// stay pending until an admin activates them.
func (s *Service) Register(dto RegisterDTO) (*SessionUser, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.repo.EmailExists(dto.Email)
	if err != nil {
		s.logger.Error("registration email lookup failed", "error", err)
		return nil, internal.NewInternalError("could not register user", err)
	}
	if taken {
		return nil, internal.NewConflictError("email is already in use", internal.ErrCodeEmailTaken)
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("could not hash password", err)
	}

	status := "pending"
	if dto.Role == "worker" {
		status = "active"
	}

	id, err := s.repo.CreateUser(dto.FirstName, dto.LastName, dto.Email, hash, dto.Role, status)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("could not register user", err)
	}

	s.logger.Info("user registered", "user_id", id, "role", dto.Role, "status", status)

	return &SessionUser{
		ID:        id,
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Email:     dto.Email,
		Role:      dto.Role,
		Status:    status,
	}, nil
}

// Authenticate validates credentials and returns tokens plus the profile.
func (s *Service) Authenticate(dto LoginDTO) (LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return LoginResult{}, err
	}

	creds, err := s.repo.GetCredentialsByEmail(dto.Email)
	if err != nil {
		return LoginResult{}, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(dto.Password)); err != nil {
		return LoginResult{}, internal.ErrInvalidCredentials
	}

	if creds.Status != "active" {
		return LoginResult{}, internal.ErrUserInactive
	}

	sessionUser, err := s.repo.GetSessionUser(creds.UserID)
	if err != nil {
		s.logger.Error("failed to load session user after login", "error", err, "user_id", creds.UserID)
		return LoginResult{}, internal.NewInternalError("could not load user", err)
	}

	tokens, err := s.issueTokens(creds.UserID, sessionUser.Email, sessionUser.Role)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Tokens: tokens, User: sessionUser}, nil
}

// RefreshTokens validates a refresh token and rotates the pair.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	var uid int64
	if _, perr := fmt.Sscanf(claims.UserID, "%d", &uid); perr != nil {
		return AuthTokens{}, internal.ErrInvalidToken
	}

	// the account may have been deactivated since the token was issued
	sessionUser, err := s.repo.GetSessionUser(uid)
	if err != nil {
		return AuthTokens{}, internal.ErrInvalidToken
	}
	if sessionUser.Status != "active" {
		return AuthTokens{}, internal.ErrUserInactive
	}

	return s.issueTokens(uid, sessionUser.Email, sessionUser.Role)
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

func (s *Service) GetSessionUser(userID int64) (*SessionUser, error) {
	return s.repo.GetSessionUser(userID)
}

func (s *Service) issueTokens(userID int64, email, role string) (AuthTokens, error) {
	uid := fmt.Sprintf("%d", userID)

	accessToken, err := s.tokenGenerator.GenerateAccessToken(uid, email, role)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("could not issue access token", err)
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(uid, email, role)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("could not issue refresh token", err)
	}

	return AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (j *JWTTokenGenerator) GenerateAccessToken(userID, email, role string) (string, error) {
	return j.signToken(userID, email, role, j.AccessTokenTTL, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) GenerateRefreshToken(userID, email, role string) (string, error) {
	return j.signToken(userID, email, role, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) signToken(userID, email, role string, ttl time.Duration, secret []byte) (string, error) {
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken checks signature and expiry. Refresh tokens carry a longer
// remaining lifetime than any access token can, which picks the secret.
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		if claims, ok := token.Claims.(*Claims); ok {
			if claims.ExpiresAt != nil && time.Until(claims.ExpiresAt.Time) > j.AccessTokenTTL {
				return j.RefreshTokenSecret, nil
			}
		}
		return j.AccessTokenSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, internal.ErrInvalidToken
}
