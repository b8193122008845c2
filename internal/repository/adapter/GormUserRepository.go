package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	repository "github.com/iwoork/homeforpup-sub008/internal/repository/port"
)

type userModel struct {
	ID          string `gorm:"primaryKey"`
	DisplayName string
	AvatarURL   string
	UserType    string
	UpdatedAt   time.Time
}

func (userModel) TableName() string { return "users" }

// GormUserRepository is the directory used for local runs: a SQLite file
// behind gorm.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository migrates the users table and wraps db.
func NewGormUserRepository(db *gorm.DB) (*GormUserRepository, error) {
	if err := db.AutoMigrate(&userModel{}); err != nil {
		return nil, fmt.Errorf("sqlite: migrate users: %w", err)
	}
	return &GormUserRepository{db: db}, nil
}

// NewSQLiteUserRepository opens (or creates) the SQLite database at path.
func NewSQLiteUserRepository(path string) (*GormUserRepository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	return NewGormUserRepository(db)
}

var _ repository.UserRepository = (*GormUserRepository)(nil)

func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*repository.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &repository.User{ID: m.ID, DisplayName: m.DisplayName, AvatarURL: m.AvatarURL, UserType: m.UserType}, nil
}

func (r *GormUserRepository) Save(ctx context.Context, u *repository.User) error {
	if u == nil || u.ID == "" {
		return errors.New("GormUserRepository: user id is required")
	}
	m := userModel{ID: u.ID, DisplayName: u.DisplayName, AvatarURL: u.AvatarURL, UserType: u.UserType}
	return r.db.WithContext(ctx).Save(&m).Error
}
