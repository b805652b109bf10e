package repos

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vitalab/vitashop-backend/internal/logger"
	"github.com/vitalab/vitashop-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// One named in-memory database per test keeps tests independent.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.VitaminCategory{},
		&types.Product{},
		&types.VitaminRule{},
		&types.RuleProduct{},
		&types.Order{},
		&types.OrderItem{},
		&types.Referral{},
		&types.PointTransaction{},
		&types.Feedback{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newRepoLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func seedProduct(t *testing.T, db *gorm.DB, name string, quantity int) *types.Product {
	t.Helper()
	product := &types.Product{
		ID:       uuid.New(),
		SKU:      "SKU-" + uuid.NewString()[:8],
		Name:     name,
		Price:    19.90,
		Quantity: quantity,
		IsActive: true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestProductRepoStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepo(db, newRepoLogger())
	ctx := context.Background()

	product := seedProduct(t, db, "Vitamin C 500", 5)

	if err := repo.DecrementStock(ctx, nil, product.ID, 3); err != nil {
		t.Fatalf("DecrementStock: %v", err)
	}
	got, err := repo.GetByID(ctx, nil, product.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Quantity != 2 {
		t.Errorf("quantity=%d, want 2", got.Quantity)
	}

	if err := repo.DecrementStock(ctx, nil, product.ID, 3); err != ErrInsufficientStock {
		t.Fatalf("DecrementStock over limit: got %v, want ErrInsufficientStock", err)
	}

	if err := repo.IncrementStock(ctx, nil, product.ID, 4); err != nil {
		t.Fatalf("IncrementStock: %v", err)
	}
	got, err = repo.GetByID(ctx, nil, product.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Quantity != 6 {
		t.Errorf("quantity=%d, want 6", got.Quantity)
	}
}

func TestProductRepoGetActiveSkipsInactive(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepo(db, newRepoLogger())
	ctx := context.Background()

	seedProduct(t, db, "Active One", 10)
	inactive := seedProduct(t, db, "Retired", 0)
	if err := repo.Deactivate(ctx, nil, inactive.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	products, err := repo.GetActive(ctx, nil)
	if err != nil {
		t.Fatalf("GetActive: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Active One" {
		t.Fatalf("GetActive=%+v, want only the active product", products)
	}
}

func TestVitaminRuleRepoOrderingAndProducts(t *testing.T) {
	db := newTestDB(t)
	repo := NewVitaminRuleRepo(db, newRepoLogger())
	ctx := context.Background()

	mkRule := func(name string, priority int, active bool) *types.VitaminRule {
		condition, _ := json.Marshal(map[string]any{"goals": []string{"energy"}})
		rule := &types.VitaminRule{
			ID:        uuid.New(),
			Name:      name,
			Condition: datatypes.JSON(condition),
			Priority:  priority,
			IsActive:  active,
		}
		if err := db.Create(rule).Error; err != nil {
			t.Fatalf("seed rule: %v", err)
		}
		return rule
	}

	urgent := mkRule("urgent", 1, true)
	late := mkRule("late", 5, true)
	mkRule("disabled", 2, false)

	rules, err := repo.GetActive(ctx, nil)
	if err != nil {
		t.Fatalf("GetActive: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("got %d active rules, want 2", len(rules))
	}
	if rules[0].Name != "urgent" || rules[1].Name != "late" {
		t.Errorf("rules not ordered by ascending priority: %s, %s", rules[0].Name, rules[1].Name)
	}

	linked := seedProduct(t, db, "Omega-3 Premium", 10)
	retired := seedProduct(t, db, "Retired Blend", 0)
	retired.IsActive = false
	if err := db.Save(retired).Error; err != nil {
		t.Fatalf("save retired: %v", err)
	}

	if err := repo.AttachProduct(ctx, nil, urgent.ID, linked.ID); err != nil {
		t.Fatalf("AttachProduct: %v", err)
	}
	if err := repo.AttachProduct(ctx, nil, urgent.ID, retired.ID); err != nil {
		t.Fatalf("AttachProduct retired: %v", err)
	}
	// Attaching twice must not error or duplicate.
	if err := repo.AttachProduct(ctx, nil, urgent.ID, linked.ID); err != nil {
		t.Fatalf("AttachProduct repeat: %v", err)
	}

	products, err := repo.GetActiveRuleProducts(ctx, nil, urgent.ID)
	if err != nil {
		t.Fatalf("GetActiveRuleProducts: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Omega-3 Premium" {
		t.Fatalf("GetActiveRuleProducts=%+v, want only the active linked product", products)
	}

	if err := repo.DetachProduct(ctx, nil, urgent.ID, linked.ID); err != nil {
		t.Fatalf("DetachProduct: %v", err)
	}
	products, err = repo.GetActiveRuleProducts(ctx, nil, urgent.ID)
	if err != nil {
		t.Fatalf("GetActiveRuleProducts after detach: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("got %d products after detach, want 0", len(products))
	}

	products, err = repo.GetActiveRuleProducts(ctx, nil, late.ID)
	if err != nil {
		t.Fatalf("GetActiveRuleProducts empty rule: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("got %d products for unlinked rule, want 0", len(products))
	}
}

func TestUserRepoLookups(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db, newRepoLogger())
	ctx := context.Background()

	user := &types.User{
		ID:           uuid.New(),
		Email:        "anna@example.com",
		Password:     "hashed",
		Name:         "Anna",
		Role:         types.RoleUser,
		ReferralCode: "ANNA1234",
	}
	if _, err := repo.Create(ctx, nil, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	exists, err := repo.EmailExists(ctx, nil, "anna@example.com")
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if !exists {
		t.Error("EmailExists=false for existing email")
	}

	byCode, err := repo.GetByReferralCode(ctx, nil, "ANNA1234")
	if err != nil {
		t.Fatalf("GetByReferralCode: %v", err)
	}
	if byCode.ID != user.ID {
		t.Errorf("GetByReferralCode returned wrong user")
	}

	if err := repo.UpdateFields(ctx, nil, user.ID, map[string]interface{}{
		"survey_completed": true,
		"stress_level":     types.StressHigh,
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	updated, err := repo.GetByID(ctx, nil, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !updated.SurveyCompleted || updated.StressLevel != types.StressHigh {
		t.Errorf("UpdateFields not applied: %+v", updated)
	}
}

// A `default` tag makes GORM omit zero-value fields on insert, which would
// silently store rows created with IsActive=false as active. The flag columns
// must not carry one.
func TestCreatePersistsInactiveFlag(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	product := &types.Product{
		ID:       uuid.New(),
		SKU:      "SKU-DRAFT",
		Name:     "Draft Product",
		IsActive: false,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	gotProduct, err := NewProductRepo(db, newRepoLogger()).GetByID(ctx, nil, product.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if gotProduct.IsActive {
		t.Error("product created with IsActive=false was stored as active")
	}

	condition, _ := json.Marshal(map[string]any{"goals": []string{"energy"}})
	rule := &types.VitaminRule{
		ID:        uuid.New(),
		Name:      "draft rule",
		Condition: datatypes.JSON(condition),
		Priority:  1,
		IsActive:  false,
	}
	if err := db.Create(rule).Error; err != nil {
		t.Fatalf("create rule: %v", err)
	}
	var gotRule types.VitaminRule
	if err := db.First(&gotRule, "id = ?", rule.ID).Error; err != nil {
		t.Fatalf("reload rule: %v", err)
	}
	if gotRule.IsActive {
		t.Error("rule created with IsActive=false was stored as active")
	}
}
