package mockapi

import (
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aldoetobex/legal-mp-client/pkg/models"
)

// fileBlob keeps uploaded file bytes so the secure-download path can serve
// them back. Separate from CaseFile so the shared wire models stay free of
// stub-only columns.
type fileBlob struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Data []byte
}

// OpenStore opens the stub store: Postgres when databaseURL is set, an
// in-memory sqlite database otherwise (integration tests and dev runs need
// no external services).
func OpenStore(databaseURL string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if databaseURL != "" {
		dialector = postgres.Open(databaseURL)
	} else {
		// Unique name per open so parallel test stores stay isolated;
		// cache=shared keeps the database alive across pooled connections.
		dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{}, &models.Case{}, &models.CaseFile{},
		&models.Quote{}, &models.Payment{}, &fileBlob{},
	); err != nil {
		return nil, err
	}
	return db, nil
}
