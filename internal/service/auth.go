package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agilemate/internal/model"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLen = 6

// mysqlDupEntry is ER_DUP_ENTRY.
const mysqlDupEntry = 1062

var errEmailTaken = Conflict("An account with this email already exists.")

type AuthService struct{ db *gorm.DB }

func NewAuthService(db *gorm.DB) *AuthService { return &AuthService{db: db} }

func (s *AuthService) Register(ctx context.Context, email, password, displayName string) (*model.Member, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	displayName = strings.TrimSpace(displayName)
	if email == "" || password == "" {
		return nil, InvalidInput("Email and password are required.")
	}
	if len(password) < minPasswordLen {
		return nil, InvalidInput(fmt.Sprintf("Password must be at least %d characters.", minPasswordLen))
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Member{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, Internal("Failed to register", fmt.Errorf("query member: %w", err))
	}
	if count > 0 {
		return nil, errEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, Internal("Failed to register", fmt.Errorf("hash password: %w", err))
	}
	if displayName == "" {
		displayName = strings.SplitN(email, "@", 2)[0]
	}
	m := model.Member{
		ID:          uuid.NewString(),
		Email:       email,
		Password:    string(hash),
		DisplayName: displayName,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		// a concurrent registration can win between the count and the insert
		if isDuplicateKey(err) {
			return nil, errEmailTaken
		}
		return nil, Internal("Failed to register", fmt.Errorf("insert member: %w", err))
	}
	return &m, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.Member, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, InvalidInput("Email and password are required.")
	}
	var m model.Member
	if err := s.db.WithContext(ctx).Where("email = ?", email).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Unauthenticated("Invalid email or password.")
		}
		return nil, Internal("Failed to sign in", fmt.Errorf("query member: %w", err))
	}
	if bcrypt.CompareHashAndPassword([]byte(m.Password), []byte(password)) != nil {
		return nil, Unauthenticated("Invalid email or password.")
	}
	return &m, nil
}

func isDuplicateKey(err error) bool {
	var me *gomysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDupEntry
}

func IdentityOf(m *model.Member) model.Identity {
	return model.Identity{ID: m.ID, DisplayName: m.DisplayName, Email: m.Email}
}
