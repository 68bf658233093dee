package repositories

import (
	"errors"

	"college_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrLoginTaken    = errors.New("login already exists")
	ErrEmailTaken    = errors.New("email already exists")
)

type UserRepository interface {
	FindByID(id string) (*models.User, error)
	FindByLogin(login string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	// FindByLoginOrEmail ищет по логину ИЛИ email (для аутентификации)
	FindByLoginOrEmail(username string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	Delete(userID string) error
	FindAll(limit, offset int) ([]models.User, error)
	CountAll() (int64, error)
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) FindByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByLogin(login string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "login = ?", login).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByLoginOrEmail(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("login = ? OR email = ?", username, username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(user *models.User) error {
	// Уникальность логина и email проверяется заранее, чтобы вернуть
	// точную причину конфликта
	var existing models.User
	if err := r.db.Where("login = ?", user.Login).First(&existing).Error; err == nil {
		return ErrLoginTaken
	}
	if err := r.db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return ErrEmailTaken
	}

	return r.db.Create(user).Error
}

func (r *UserRepositoryImpl) Update(user *models.User) error {
	result := r.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"login":         user.Login,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"name":          user.Name,
		"img":           user.Img,
		"role":          user.Role,
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) Delete(userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Сначала записи о курсах (shared reference, сами курсы не трогаем)
		if err := tx.Exec("DELETE FROM user_courses WHERE user_id = ?", userID).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", userID).Delete(&models.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

func (r *UserRepositoryImpl) FindAll(limit, offset int) ([]models.User, error) {
	var users []models.User
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}
