package postgres

import (
	"fmt"

	"github.com/VitaminP8/memberhub/internal/logger"
	"github.com/VitaminP8/memberhub/models"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"go.uber.org/zap"
)

var DB *gorm.DB

// GetDB возвращает глобальную переменную DB (для тестирования)
func GetDB() *gorm.DB {
	return DB
}

// InitDB подключается к базе данных PostgreSQL и устанавливает глобальную переменную DB
func InitDB(dsn string) error {
	db, err := gorm.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to the database: %w", err)
	}

	DB = db
	logger.Get().Info("Successfully connected to the database")
	return nil
}

// Migrate создает таблицы для всех видов сущностей
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(&models.User{}, &models.Profile{}, &models.Post{}, &models.MemberType{}).Error
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// CloseDB закрывает соединение с базой данных
func CloseDB() error {
	if DB == nil {
		return nil
	}

	err := DB.Close()
	if err != nil {
		return fmt.Errorf("failed to close the database connection: %w", err)
	}

	logger.Get().Info("Database connection closed", zap.String("dialect", DB.Dialect().GetName()))
	DB = nil
	return nil
}

// InitDBWithConnection для тестирования (позволяет инъекцию соединения БД)
func InitDBWithConnection(db *gorm.DB) {
	DB = db
}
