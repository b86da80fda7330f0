package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	userSearchLimit  = 20
	leaderboardLimit = 10
)

type UserService struct {
	db        *gorm.DB
	jwtSecret string
	tokenTTL  time.Duration
}

func NewUserService(db *gorm.DB, jwtSecret string, tokenTTL time.Duration) *UserService {
	return &UserService{db: db, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || len(input.Password) < 6 {
		return nil, invalidInput("email and a password of at least 6 characters are required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:    email,
		Password: string(hashed),
		Points:   models.DefaultPoints,
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = &name
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("email already registered: %w", ErrConflict)
		}
		return nil, err
	}
	return &user, nil
}

type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrUnauthorized
	}

	token, err := utils.GenerateToken(user.ID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{Token: token, User: &user}, nil
}

func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := withSkills(s.db.WithContext(ctx)).First(&user, "id = ?", userID).Error
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// GetUser is the public profile lookup; it returns the same shape as Profile.
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.Profile(ctx, userID)
}

type ProfileUpdate struct {
	Name         *string
	Age          *int
	Gender       *models.Gender
	Location     *string
	Bio          *string
	Avatar       *string
	Availability []models.DayAvailability
}

// UpdateProfile applies the provided fields and marks the profile complete.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*models.User, error) {
	changes := map[string]interface{}{"is_profile_complete": true}

	if update.Name != nil {
		changes["name"] = strings.TrimSpace(*update.Name)
	}
	if update.Age != nil {
		if *update.Age < 1 || *update.Age > 120 {
			return nil, invalidInput("age must be between 1 and 120")
		}
		changes["age"] = *update.Age
	}
	if update.Gender != nil {
		switch *update.Gender {
		case models.GenderMale, models.GenderFemale, models.GenderOther:
		default:
			return nil, invalidInput("unknown gender %q", *update.Gender)
		}
		changes["gender"] = *update.Gender
	}
	if update.Location != nil {
		changes["location"] = strings.TrimSpace(*update.Location)
	}
	if update.Bio != nil {
		changes["bio"] = *update.Bio
	}
	if update.Avatar != nil {
		changes["avatar"] = *update.Avatar
	}
	if update.Availability != nil {
		changes["availability"] = datatypes.NewJSONSlice(update.Availability)
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(changes)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("user %w", ErrNotFound)
	}
	return s.Profile(ctx, userID)
}

type UserQuery struct {
	Skill    string
	Category string
	Location string
}

// Search lists other profile-complete users offering a matching skill.
func (s *UserService) Search(ctx context.Context, callerID uuid.UUID, q UserQuery) ([]models.User, error) {
	db := s.db.WithContext(ctx)
	query := withSkills(db).Where("id <> ? AND is_profile_complete = ?", callerID, true)

	if q.Location != "" {
		query = query.Where(`LOWER(location) LIKE ? ESCAPE '\'`, containsPattern(q.Location))
	}
	if q.Skill != "" || q.Category != "" {
		sub := db.Model(&models.OfferedSkill{}).Select("1").Where("offered_skills.user_id = users.id")
		if q.Skill != "" {
			sub = sub.Where(`LOWER(offered_skills.skill) LIKE ? ESCAPE '\'`, containsPattern(q.Skill))
		}
		if q.Category != "" {
			sub = sub.Where("offered_skills.category = ?", q.Category)
		}
		query = query.Where("EXISTS (?)", sub)
	}

	users := []models.User{}
	err := query.Order("created_at asc").Limit(userSearchLimit).Find(&users).Error
	return users, err
}

func (s *UserService) Leaderboard(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := s.db.WithContext(ctx).
		Where("is_profile_complete = ?", true).
		Order("points desc").
		Order("rating_average desc").
		Limit(leaderboardLimit).
		Find(&users).Error
	return users, err
}

func withSkills(db *gorm.DB) *gorm.DB {
	ordered := func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at asc") }
	return db.Preload("SkillsOffered", ordered).Preload("SkillsWanted", ordered)
}
