package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/courseforge/backend/internal/logger"
	apperrors "github.com/courseforge/backend/internal/pkg/errors"
	"github.com/courseforge/backend/internal/requestdata"
	"github.com/courseforge/backend/internal/store"
	"github.com/courseforge/backend/internal/types"
)

// AuthService creates member documents at registration and issues/verifies
// access tokens. Members start with a configured credit balance; everything
// credit-related afterwards belongs to the course persistence flow.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*types.Member, error)
	Login(ctx context.Context, email, password string) (string, *types.Member, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	store           store.Client
	log             *logger.Logger
	jwtSecretKey    string
	accessTTL       time.Duration
	startingCredits int
}

func NewAuthService(
	storeClient store.Client,
	baseLog *logger.Logger,
	jwtSecretKey string,
	accessTTL time.Duration,
	startingCredits int,
) AuthService {
	return &authService{
		store:           storeClient,
		log:             baseLog.With("service", "AuthService"),
		jwtSecretKey:    jwtSecretKey,
		accessTTL:       accessTTL,
		startingCredits: startingCredits,
	}
}

func (as *authService) Register(ctx context.Context, name, email, password string) (*types.Member, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrInvalidArgument)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", apperrors.ErrInvalidArgument)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", apperrors.ErrInvalidArgument)
	}

	var existingID string
	err := as.store.Fetch(ctx,
		fmt.Sprintf(`*[_type == %q && email == $email][0]._id`, types.TypeMember),
		map[string]any{"email": email},
		&existingID,
	)
	if err != nil {
		return nil, fmt.Errorf("check existing member: %w", err)
	}
	if existingID != "" {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	member := types.Member{
		Type:         types.TypeMember,
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Credits:      as.startingCredits,
		IsAdmin:      false,
	}
	id, err := as.store.Create(ctx, member)
	if err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}
	member.ID = id
	member.PasswordHash = ""

	as.log.Info("Member registered", "member_id", id)
	return &member, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (string, *types.Member, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var member types.Member
	err := as.store.Fetch(ctx,
		fmt.Sprintf(`*[_type == %q && email == $email][0]`, types.TypeMember),
		map[string]any{"email": email},
		&member,
	)
	if err != nil {
		return "", nil, fmt.Errorf("load member: %w", err)
	}
	if member.ID == "" {
		return "", nil, apperrors.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)) != nil {
		return "", nil, apperrors.ErrUnauthorized
	}

	claims := jwt.MapClaims{
		"sub":   member.ID,
		"admin": member.IsAdmin,
		"exp":   time.Now().Add(as.accessTTL).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	member.PasswordHash = ""
	return signed, &member, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return ctx, apperrors.ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx, apperrors.ErrUnauthorized
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return ctx, apperrors.ErrUnauthorized
	}
	isAdmin, _ := claims["admin"].(bool)

	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		TokenString: tokenString,
		MemberID:    sub,
		IsAdmin:     isAdmin,
	}), nil
}
