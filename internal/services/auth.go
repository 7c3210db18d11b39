package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/logger"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/repos"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/requestdata"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/types"
)

type AuthService interface {
	Register(ctx context.Context, email, password, familyName string) (*types.Household, error)
	Login(ctx context.Context, email, password string) (string, *types.Household, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	householdRepo repos.HouseholdRepo
	jwtSecretKey  string
	accessTTL     time.Duration
}

func NewAuthService(db *gorm.DB, baseLog *logger.Logger, householdRepo repos.HouseholdRepo, jwtSecretKey string, accessTTL time.Duration) AuthService {
	return &authService{
		db:            db,
		log:           baseLog.With("service", "AuthService"),
		householdRepo: householdRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
	}
}

func (s *authService) Register(ctx context.Context, email, password, familyName string) (*types.Household, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	familyName = strings.TrimSpace(familyName)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}
	if familyName == "" {
		return nil, fmt.Errorf("family name is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	household := &types.Household{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FamilyName:   familyName,
	}
	if _, err := s.householdRepo.Create(ctx, nil, []*types.Household{household}); err != nil {
		return nil, err
	}
	return household, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *types.Household, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	households, err := s.householdRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return "", nil, fmt.Errorf("lookup household: %w", err)
	}
	if len(households) == 0 {
		return "", nil, fmt.Errorf("invalid email or password")
	}
	household := households[0]
	if err := bcrypt.CompareHashAndPassword([]byte(household.PasswordHash), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("invalid email or password")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   household.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecretKey))
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, household, nil
}

func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return ctx, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return ctx, fmt.Errorf("invalid token claims")
	}
	householdID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid token subject")
	}

	households, err := s.householdRepo.GetByIDs(ctx, nil, []uuid.UUID{householdID})
	if err != nil || len(households) == 0 {
		return ctx, fmt.Errorf("household not found")
	}

	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		TokenString: tokenString,
		HouseholdID: householdID,
	}), nil
}
