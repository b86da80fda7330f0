package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/anjiri1684/skill_swap/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	popularSkillLimit = 20
	searchUserLimit   = 50
)

type SkillService struct {
	db *gorm.DB
}

func NewSkillService(db *gorm.DB) *SkillService {
	return &SkillService{db: db}
}

type TeacherSummary struct {
	ID       uuid.UUID     `json:"id"`
	Name     *string       `json:"name"`
	Location *string       `json:"location"`
	Rating   models.Rating `json:"rating"`
}

type SkillListing struct {
	Skill      string            `json:"skill"`
	Category   string            `json:"category"`
	Level      models.SkillLevel `json:"level"`
	Experience int               `json:"experience"`
	Verified   bool              `json:"verified"`
	Teacher    TeacherSummary    `json:"teacher"`
}

type PopularSkill struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// SkillQuery filters offered skills. Empty fields match everything; Text and Location are
// case-insensitive substring matches.
type SkillQuery struct {
	Text     string
	Category string
	Level    models.SkillLevel
	Location string
}

func (q SkillQuery) matches(skill models.OfferedSkill) bool {
	if q.Text != "" && !strings.Contains(strings.ToLower(skill.Skill), strings.ToLower(q.Text)) {
		return false
	}
	if q.Category != "" && skill.Category != q.Category {
		return false
	}
	if q.Level != "" && skill.Level != q.Level {
		return false
	}
	return true
}

func (s *SkillService) Categories(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&models.SkillCategory{}).Order("position asc").Pluck("name", &names).Error
	return names, err
}

// Popular tallies offered skill names across profile-complete users. Ties keep first-seen order.
func (s *SkillService) Popular(ctx context.Context) ([]PopularSkill, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&models.OfferedSkill{}).
		Joins("JOIN users ON users.id = offered_skills.user_id").
		Where("users.is_profile_complete = ?", true).
		Order("offered_skills.created_at asc").
		Pluck("offered_skills.skill", &names).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	var popular []PopularSkill
	for _, name := range names {
		if _, seen := counts[name]; !seen {
			popular = append(popular, PopularSkill{Skill: name})
		}
		counts[name]++
	}
	for i := range popular {
		popular[i].Count = counts[popular[i].Skill]
	}
	sort.SliceStable(popular, func(i, j int) bool {
		return popular[i].Count > popular[j].Count
	})
	if len(popular) > popularSkillLimit {
		popular = popular[:popularSkillLimit]
	}
	return popular, nil
}

func (s *SkillService) ByCategory(ctx context.Context, category string) ([]SkillListing, error) {
	if strings.TrimSpace(category) == "" {
		return nil, invalidInput("category is required")
	}
	return s.listings(ctx, SkillQuery{Category: category}, 0)
}

// Search narrows candidate users in the store, caps them, then expands and filters each
// user's offered skills.
func (s *SkillService) Search(ctx context.Context, q SkillQuery) ([]SkillListing, error) {
	return s.listings(ctx, q, searchUserLimit)
}

func (s *SkillService) listings(ctx context.Context, q SkillQuery, limit int) ([]SkillListing, error) {
	db := s.db.WithContext(ctx)
	query := db.Model(&models.User{}).Where("is_profile_complete = ?", true)

	if q.Location != "" {
		query = query.Where(`LOWER(location) LIKE ? ESCAPE '\'`, containsPattern(q.Location))
	}
	if q.Text != "" || q.Category != "" || q.Level != "" {
		sub := db.Model(&models.OfferedSkill{}).Select("1").Where("offered_skills.user_id = users.id")
		if q.Text != "" {
			sub = sub.Where(`LOWER(offered_skills.skill) LIKE ? ESCAPE '\'`, containsPattern(q.Text))
		}
		if q.Category != "" {
			sub = sub.Where("offered_skills.category = ?", q.Category)
		}
		if q.Level != "" {
			sub = sub.Where("offered_skills.level = ?", q.Level)
		}
		query = query.Where("EXISTS (?)", sub)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var users []models.User
	err := query.
		Preload("SkillsOffered", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at asc") }).
		Order("created_at asc").
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	results := []SkillListing{}
	for _, user := range users {
		teacher := TeacherSummary{ID: user.ID, Name: user.Name, Location: user.Location, Rating: user.Rating}
		for _, skill := range user.SkillsOffered {
			if !q.matches(skill) {
				continue
			}
			results = append(results, SkillListing{
				Skill:      skill.Skill,
				Category:   skill.Category,
				Level:      skill.Level,
				Experience: skill.Experience,
				Verified:   skill.Verified,
				Teacher:    teacher,
			})
		}
	}
	return results, nil
}

type OfferedSkillInput struct {
	Skill      string
	Category   string
	Experience int
	Level      models.SkillLevel
}

func (s *SkillService) AddOffered(ctx context.Context, userID uuid.UUID, input OfferedSkillInput) ([]models.OfferedSkill, error) {
	input.Skill = strings.TrimSpace(input.Skill)
	input.Category = strings.TrimSpace(input.Category)
	if input.Skill == "" || input.Category == "" {
		return nil, invalidInput("skill and category are required")
	}
	if input.Experience == 0 {
		input.Experience = 1
	}
	if input.Experience < 0 {
		return nil, invalidInput("experience cannot be negative")
	}
	if input.Level == "" {
		input.Level = models.LevelBasic
	}
	switch input.Level {
	case models.LevelBasic, models.LevelIntermediate, models.LevelExpert:
	default:
		return nil, invalidInput("unknown level %q", input.Level)
	}

	err := s.withLockedUser(ctx, userID, func(tx *gorm.DB) error {
		if err := ensureUnique(tx, &models.OfferedSkill{}, userID, input.Skill); err != nil {
			return err
		}
		return tx.Create(&models.OfferedSkill{
			UserID:     userID,
			Skill:      input.Skill,
			Category:   input.Category,
			Experience: input.Experience,
			Level:      input.Level,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.offered(ctx, userID)
}

func (s *SkillService) RemoveOffered(ctx context.Context, userID, skillID uuid.UUID) ([]models.OfferedSkill, error) {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", skillID, userID).Delete(&models.OfferedSkill{})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("skill %w", ErrNotFound)
	}
	return s.offered(ctx, userID)
}

type WantedSkillInput struct {
	Skill    string
	Category string
}

func (s *SkillService) AddWanted(ctx context.Context, userID uuid.UUID, input WantedSkillInput) ([]models.WantedSkill, error) {
	input.Skill = strings.TrimSpace(input.Skill)
	if input.Skill == "" {
		return nil, invalidInput("skill is required")
	}

	err := s.withLockedUser(ctx, userID, func(tx *gorm.DB) error {
		if err := ensureUnique(tx, &models.WantedSkill{}, userID, input.Skill); err != nil {
			return err
		}
		return tx.Create(&models.WantedSkill{
			UserID:   userID,
			Skill:    input.Skill,
			Category: strings.TrimSpace(input.Category),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.wanted(ctx, userID)
}

func (s *SkillService) RemoveWanted(ctx context.Context, userID, skillID uuid.UUID) ([]models.WantedSkill, error) {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", skillID, userID).Delete(&models.WantedSkill{})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("skill %w", ErrNotFound)
	}
	return s.wanted(ctx, userID)
}

// Verify marks one of the caller's own offered skills as verified.
func (s *SkillService) Verify(ctx context.Context, userID, skillID uuid.UUID) (*models.OfferedSkill, error) {
	db := s.db.WithContext(ctx)
	result := db.Model(&models.OfferedSkill{}).
		Where("id = ? AND user_id = ?", skillID, userID).
		Update("verified", true)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("skill %w", ErrNotFound)
	}

	var skill models.OfferedSkill
	if err := db.First(&skill, "id = ?", skillID).Error; err != nil {
		return nil, notFound(err, "skill")
	}
	return &skill, nil
}

// withLockedUser serializes skill list changes per user.
func (s *SkillService) withLockedUser(ctx context.Context, userID uuid.UUID, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&user, "id = ?", userID).Error; err != nil {
			return notFound(err, "user")
		}
		return fn(tx)
	})
}

func ensureUnique(tx *gorm.DB, model interface{}, userID uuid.UUID, skill string) error {
	var count int64
	err := tx.Model(model).
		Where("user_id = ? AND LOWER(skill) = ?", userID, strings.ToLower(skill)).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("skill %q already exists: %w", skill, ErrConflict)
	}
	return nil
}

func (s *SkillService) offered(ctx context.Context, userID uuid.UUID) ([]models.OfferedSkill, error) {
	skills := []models.OfferedSkill{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at asc").Find(&skills).Error
	return skills, err
}

func (s *SkillService) wanted(ctx context.Context, userID uuid.UUID) ([]models.WantedSkill, error) {
	skills := []models.WantedSkill{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at asc").Find(&skills).Error
	return skills, err
}
