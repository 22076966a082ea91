package seed

import (
	"context"
	"encoding/json"

	registrydomain "github.com/afsacademy/groupgate/internal/registry/domain"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const batchYear = 2026

// Class 10 Science keeps its real product ids; the other classes get
// placeholder products so a development database is processable
// end to end. Existing rows are never touched, so operator edits
// survive restarts.
var class10ScienceProducts = []string{
	"f9db6ff1-c365-4e29-a3a7-7d0bd9487c9c",
	"4e8f4314-2d70-48a6-8fb0-4384d735dce2",
	"d8787524-8ef5-4a22-a605-8d9a5a75eee4",
}

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo registrydomain.Repository
}

func seedClassRules(p Params) error {
	ctx := context.Background()
	log := p.Log.Named("seed")

	rules := []registrydomain.ClassRule{
		rule("Class 6", "AFS Class 6 Batch 2026", uuid.NewString()),
		rule("Class 7", "AFS Class 7 Batch 2026", uuid.NewString()),
		rule("Class 8", "AFS Class 8 Batch 2026", uuid.NewString()),
		rule("Class 9", "AFS Class 9 Batch 2026", uuid.NewString()),
		rule("Class 10 Science", "AFS Class 10 Science Batch 2026", class10ScienceProducts...),
		rule("Class 10 Commerce", "AFS Class 10 Commerce Batch 2026", uuid.NewString()),
	}

	return p.DB.Transaction(func(tx *gorm.DB) error {
		for i := range rules {
			existing, err := p.Repo.Find(ctx, tx, rules[i].ClassName)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			if err := p.Repo.Upsert(ctx, tx, &rules[i]); err != nil {
				return err
			}
			log.Info("class rule seeded", zap.String("class", rules[i].ClassName))
		}
		return nil
	})
}

func rule(className, groupTarget string, productIDs ...string) registrydomain.ClassRule {
	raw, _ := json.Marshal(productIDs)
	return registrydomain.ClassRule{
		ClassName:          className,
		Year:               batchYear,
		GroupTarget:        groupTarget,
		EligibleProductIDs: datatypes.JSON(raw),
	}
}

var Module = fx.Module("seed",
	fx.Invoke(seedClassRules),
)
