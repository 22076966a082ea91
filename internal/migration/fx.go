package migration

import (
	auditdomain "github.com/afsacademy/groupgate/internal/audit/domain"
	"github.com/afsacademy/groupgate/internal/config"
	ledgerdomain "github.com/afsacademy/groupgate/internal/ledger/domain"
	registrydomain "github.com/afsacademy/groupgate/internal/registry/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// migrate applies the versioned SQL migrations on postgres. The other
// dialects (sqlite in development, mysql) get a schema sync instead,
// since the migration files use postgres types.
func applyMigrations(cfg config.Config, db *gorm.DB, log *zap.Logger) error {
	if cfg.DBType == "postgres" {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := RunMigrations(sqlDB); err != nil {
			return err
		}
		log.Info("migrations applied")
		return nil
	}

	if err := db.AutoMigrate(
		&ledgerdomain.User{},
		&ledgerdomain.PaymentRecord{},
		&registrydomain.ClassRule{},
		&auditdomain.ProcessingLog{},
	); err != nil {
		return err
	}
	log.Info("schema synced", zap.String("dialect", cfg.DBType))
	return nil
}

var Module = fx.Module("migration",
	fx.Invoke(applyMigrations),
)
