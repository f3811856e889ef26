package database

import (
	"fmt"

	"helpdesk.link/configs/configslog"
	"helpdesk.link/database/migrations"
	"helpdesk.link/database/seeders"

	"gorm.io/gorm"
)

type step struct {
	name string
	run  func(*gorm.DB) error
}

// Tablolar yabancı anahtar sırasıyla oluşturulur.
var migrationSteps = []step{
	{"users", migrations.MigrateUsersTable},
	{"types", migrations.MigrateTypesTable},
	{"links", migrations.MigrateLinksTable},
	{"forms", migrations.MigrateFormsTables},
	{"pages", migrations.MigratePagesTables},
	{"tickets", migrations.MigrateTicketsTables},
}

// Sistem kullanıcısı diğer seed kayıtlarının CreatedBy değeridir, önce o gelir.
var seedSteps = []step{
	{"system user", seeders.SeedSystemUser},
	{"types", seeders.SeedTypes},
	{"demo group", seeders.SeedDemoGroup},
}

func runSteps(db *gorm.DB, kind string, steps []step) error {
	for _, s := range steps {
		configslog.SLog.Infof(" -> %s %s", kind, s.name)
		if err := s.run(db); err != nil {
			return fmt.Errorf("%s %s: %w", kind, s.name, err)
		}
	}
	return nil
}

// Initialize migrasyon ve seed adımlarını tek transaction içinde çalıştırır;
// herhangi bir adım hata verirse hiçbiri kalıcı olmaz.
func Initialize(db *gorm.DB, migrate bool, seed bool) error {
	if !migrate && !seed {
		configslog.SLog.Info("Migrate veya seed bayrağı belirtilmedi, işlem yapılmayacak.")
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if migrate {
			if err := runSteps(tx, "migrate", migrationSteps); err != nil {
				return err
			}
		}
		if seed {
			return runSteps(tx, "seed", seedSteps)
		}
		return nil
	})
}
