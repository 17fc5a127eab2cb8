package entry

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migrate applies the entry schema using Gorm's AutoMigrate and logs progress.
// The user schema must be migrated first so the owner foreign key resolves.
func Migrate(ctx context.Context, db *gorm.DB, logger *logrus.Logger) error {
	if db == nil {
		return eris.New("gorm DB is required")
	}

	logFields := logrus.Fields{"component": "entry.migrate"}
	if logger != nil {
		logger.WithFields(logFields).Info("applying entry schema")
	}

	if err := db.WithContext(ctx).AutoMigrate(&Entry{}); err != nil {
		if logger != nil {
			logger.WithFields(logFields).WithField("error", err.Error()).Error("entry schema migration failed")
		}
		return eris.Wrap(err, "auto migrating entry schema")
	}

	if logger != nil {
		logger.WithFields(logFields).Info("entry schema migration complete")
	}

	return nil
}
