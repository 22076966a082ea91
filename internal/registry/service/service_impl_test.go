package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/afsacademy/groupgate/internal/registry/domain"
	"github.com/afsacademy/groupgate/internal/registry/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbSeq int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:registry_memdb_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.ClassRule{}))
	return db
}

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewService(Params{
		DB:   db,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})
	return svc, db
}

func seedRule(t *testing.T, db *gorm.DB, className string, year int, groupTarget, products string) {
	t.Helper()
	repo := repository.Provide()
	require.NoError(t, repo.Upsert(context.Background(), db, &domain.ClassRule{
		ClassName:          className,
		Year:               year,
		GroupTarget:        groupTarget,
		EligibleProductIDs: []byte(products),
	}))
}

func TestRuleResolvesAlias(t *testing.T) {
	svc, db := newTestService(t)
	seedRule(t, db, "Class 10 Science", 2026, "AFS Class 10 Science Batch 2026", `["p1"]`)

	rule, err := svc.Rule(context.Background(), "Class 10 PCMMB")
	require.NoError(t, err)
	assert.Equal(t, "Class 10 Science", rule.ClassName)
	assert.Equal(t, []string{"p1"}, rule.ProductIDs())
}

func TestRuleNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Rule(context.Background(), "Class 11")
	assert.ErrorIs(t, err, domain.ErrClassNotFound)
}

func TestIsConfigured(t *testing.T) {
	svc, db := newTestService(t)
	seedRule(t, db, "Class 7", 2026, "AFS Class 7 Batch 2026", `["p1"]`)
	seedRule(t, db, "Class 8", 2026, "AFS Class 8 Batch 2026", `[]`)

	ok, err := svc.IsConfigured(context.Background(), "Class 7")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsConfigured(context.Background(), "Class 8")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.IsConfigured(context.Background(), "Class 11")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfiguredFiltersAndOrders(t *testing.T) {
	svc, db := newTestService(t)
	seedRule(t, db, "Class 9", 2026, "AFS Class 9 Batch 2026", `["p3"]`)
	seedRule(t, db, "Class 6", 2026, "AFS Class 6 Batch 2026", `["p1"]`)
	seedRule(t, db, "Class 8", 2026, "", `["p2"]`)
	seedRule(t, db, "Class 7", 2025, "AFS Class 7 Batch 2025", `["p4"]`)

	rules, err := svc.Configured(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 3)
	assert.Equal(t, "Class 7", rules[0].ClassName)
	assert.Equal(t, "Class 6", rules[1].ClassName)
	assert.Equal(t, "Class 9", rules[2].ClassName)
}

func TestClassesForYear(t *testing.T) {
	svc, db := newTestService(t)
	seedRule(t, db, "Class 6", 2026, "g", `["p1"]`)
	seedRule(t, db, "Class 7", 2025, "g", `["p2"]`)

	rules, err := svc.ClassesForYear(context.Background(), 2026)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "Class 6", rules[0].ClassName)
}

func TestUpsertOverwrites(t *testing.T) {
	svc, db := newTestService(t)
	seedRule(t, db, "Class 6", 2026, "g", `["p1"]`)
	seedRule(t, db, "Class 6", 2026, "g2", `["p1","p2"]`)

	rule, err := svc.Rule(context.Background(), "Class 6")
	require.NoError(t, err)
	assert.Equal(t, "g2", rule.GroupTarget)
	assert.Equal(t, []string{"p1", "p2"}, rule.ProductIDs())
}
