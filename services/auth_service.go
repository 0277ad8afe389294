package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anjiri1684/mindcare/models"
	"github.com/anjiri1684/mindcare/utils"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	DB     *gorm.DB
	Secret []byte
	TTL    time.Duration
	Log    *zap.Logger
	Now    func() time.Time
}

func NewAuthService(db *gorm.DB, secret string, ttl time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{DB: db, Secret: []byte(secret), TTL: ttl, Log: nopLogger(log), Now: time.Now}
}

type RegisterInput struct {
	FullName string
	Email    string
	Password string
}

type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

// Register creates a USER account. Roles are only ever raised by an admin.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.InternalError(err, "Failed to hash password")
	}
	user := models.User{
		FullName: strings.TrimSpace(in.FullName),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: string(hashed),
		Role:     models.RoleUser,
		IsActive: true,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ConflictError("Email already exists")
		}
		return nil, dbError(err, "create user")
	}
	s.Log.Info("User registered", zap.String("user_id", user.ID.String()))
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil && !isNotFound(err) {
		return nil, dbError(err, "load user")
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, utils.UnauthorizedError("Invalid email or password")
	}
	if !user.IsActive {
		return nil, utils.ForbiddenError("This account has been deactivated")
	}

	expires := s.Now().Add(s.TTL)
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    string(user.Role),
		"exp":     expires.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return nil, utils.InternalError(err, "Failed to create token")
	}
	return &Session{Token: token, ExpiresAt: expires, User: user}, nil
}

// ParseToken validates a bearer token and returns the caller it names.
func (s *AuthService) ParseToken(raw string) (Actor, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.Secret, nil
	})
	if err != nil || !token.Valid {
		return Actor{}, utils.UnauthorizedError("Invalid or expired JWT")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Actor{}, utils.UnauthorizedError("Invalid or expired JWT")
	}
	return ActorFromClaims(claims)
}

// ActorFromClaims reads the user_id and role claims issued by Login.
func ActorFromClaims(claims jwt.MapClaims) (Actor, error) {
	rawID, _ := claims["user_id"].(string)
	id, err := uuid.Parse(rawID)
	if err != nil {
		return Actor{}, utils.UnauthorizedError("Token is missing a valid user_id")
	}
	role := models.Role(fmt.Sprint(claims["role"]))
	if !role.Valid() {
		return Actor{}, utils.UnauthorizedError("Token carries an unknown role")
	}
	return Actor{UserID: id, Role: role}, nil
}

// Resolve reloads the account a token names and returns it with its stored
// role. Deleted or deactivated accounts are rejected.
func (s *AuthService) Resolve(ctx context.Context, actor Actor) (Actor, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Select("id", "role", "is_active").First(&user, "id = ?", actor.UserID).Error
	if isNotFound(err) {
		return Actor{}, utils.UnauthorizedError("Account no longer exists")
	}
	if err != nil {
		return Actor{}, dbError(err, "load user")
	}
	if !user.IsActive {
		return Actor{}, utils.UnauthorizedError("This account has been deactivated")
	}
	return Actor{UserID: user.ID, Role: user.Role}, nil
}

func (s *AuthService) Me(ctx context.Context, actor Actor) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).First(&user, "id = ?", actor.UserID).Error
	if isNotFound(err) {
		return nil, utils.NotFoundError("User not found")
	}
	if err != nil {
		return nil, dbError(err, "load user")
	}
	return &user, nil
}
