package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vitalab/vitashop-backend/internal/logger"
	"github.com/vitalab/vitashop-backend/internal/repos"
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

func newServiceLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func seedUser(t *testing.T, db *gorm.DB, name, referralCode string) *types.User {
	t.Helper()
	user := &types.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		Password:     "hashed",
		Name:         name,
		Role:         types.RoleUser,
		ReferralCode: referralCode,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedActiveProduct(t *testing.T, db *gorm.DB, name string, price float64, quantity int) *types.Product {
	t.Helper()
	product := &types.Product{
		ID:       uuid.New(),
		SKU:      "SKU-" + uuid.NewString()[:8],
		Name:     name,
		Price:    price,
		Quantity: quantity,
		IsActive: true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestReferralLifecycle(t *testing.T) {
	db := newTestDB(t)
	log := newServiceLogger()
	userRepo := repos.NewUserRepo(db, log)
	referralRepo := repos.NewReferralRepo(db, log)
	rs := NewReferralService(db, log, userRepo, referralRepo, "https://vitashop.example")
	ctx := context.Background()

	referrer := seedUser(t, db, "Referrer", "FRIEND23")
	referred := seedUser(t, db, "Referred", "OTHER456")

	if err := rs.ConnectReferral(ctx, nil, referred, "NOSUCHCD"); !errors.Is(err, ErrReferralCodeNotFound) {
		t.Fatalf("unknown code: got %v, want ErrReferralCodeNotFound", err)
	}
	if err := rs.ConnectReferral(ctx, nil, referrer, "FRIEND23"); !errors.Is(err, ErrSelfReferral) {
		t.Fatalf("self referral: got %v, want ErrSelfReferral", err)
	}
	if err := rs.ConnectReferral(ctx, nil, referred, "FRIEND23"); err != nil {
		t.Fatalf("ConnectReferral: %v", err)
	}
	if referred.ReferredByUserID == nil || *referred.ReferredByUserID != referrer.ID {
		t.Errorf("referred.ReferredByUserID=%v, want %s", referred.ReferredByUserID, referrer.ID)
	}
	if err := rs.ConnectReferral(ctx, nil, referred, "FRIEND23"); !errors.Is(err, ErrAlreadyReferred) {
		t.Fatalf("repeat connect: got %v, want ErrAlreadyReferred", err)
	}

	// 10% of 259.90, floored.
	firstOrder := &types.Order{ID: uuid.New(), UserID: referred.ID, OrderNumber: "ORD-T-0001", TotalAmount: 259.90}
	if err := rs.AwardOrderPoints(ctx, nil, firstOrder); err != nil {
		t.Fatalf("AwardOrderPoints: %v", err)
	}
	balance := func() int {
		user, err := userRepo.GetByID(ctx, nil, referrer.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		return user.PointsBalance
	}
	if got := balance(); got != 25 {
		t.Errorf("balance after first order=%d, want 25", got)
	}

	referral, err := referralRepo.GetByReferredID(ctx, nil, referred.ID)
	if err != nil {
		t.Fatalf("GetByReferredID: %v", err)
	}
	if referral.TotalOrders != 1 || referral.TotalEarnedPoints != 25 {
		t.Errorf("referral totals=%d/%d, want 1/25", referral.TotalOrders, referral.TotalEarnedPoints)
	}
	if referral.FirstOrderID == nil || *referral.FirstOrderID != firstOrder.ID {
		t.Errorf("FirstOrderID=%v, want %s", referral.FirstOrderID, firstOrder.ID)
	}

	secondOrder := &types.Order{ID: uuid.New(), UserID: referred.ID, OrderNumber: "ORD-T-0002", TotalAmount: 40}
	if err := rs.AwardOrderPoints(ctx, nil, secondOrder); err != nil {
		t.Fatalf("AwardOrderPoints second: %v", err)
	}
	if got := balance(); got != 29 {
		t.Errorf("balance after second order=%d, want 29", got)
	}
	referral, err = referralRepo.GetByReferredID(ctx, nil, referred.ID)
	if err != nil {
		t.Fatalf("GetByReferredID: %v", err)
	}
	if referral.TotalOrders != 2 {
		t.Errorf("TotalOrders=%d, want 2", referral.TotalOrders)
	}
	if referral.FirstOrderID == nil || *referral.FirstOrderID != firstOrder.ID {
		t.Errorf("FirstOrderID changed on second order: %v", referral.FirstOrderID)
	}

	// A tiny order rounds down to zero points and writes nothing.
	tinyOrder := &types.Order{ID: uuid.New(), UserID: referred.ID, OrderNumber: "ORD-T-0003", TotalAmount: 5}
	if err := rs.AwardOrderPoints(ctx, nil, tinyOrder); err != nil {
		t.Fatalf("AwardOrderPoints tiny: %v", err)
	}
	if got := balance(); got != 29 {
		t.Errorf("balance after tiny order=%d, want 29", got)
	}

	// Users with no referral connection award nothing and do not error.
	loner := seedUser(t, db, "Loner", "LONER999")
	lonerOrder := &types.Order{ID: uuid.New(), UserID: loner.ID, OrderNumber: "ORD-T-0004", TotalAmount: 500}
	if err := rs.AwardOrderPoints(ctx, nil, lonerOrder); err != nil {
		t.Fatalf("AwardOrderPoints without referral: %v", err)
	}

	if err := rs.SpendPoints(ctx, referrer.ID, 20, "Discount on order"); err != nil {
		t.Fatalf("SpendPoints: %v", err)
	}
	if got := balance(); got != 9 {
		t.Errorf("balance after spend=%d, want 9", got)
	}
	if err := rs.SpendPoints(ctx, referrer.ID, 100, "Too much"); !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("overspend: got %v, want ErrInsufficientPoints", err)
	}

	history, err := rs.GetPointsHistory(ctx, referrer.ID)
	if err != nil {
		t.Fatalf("GetPointsHistory: %v", err)
	}
	if history.TotalEarned != 29 || history.TotalSpent != 20 || history.CurrentBalance != 9 {
		t.Errorf("history=%d earned/%d spent/%d balance, want 29/20/9",
			history.TotalEarned, history.TotalSpent, history.CurrentBalance)
	}
	if len(history.Transactions) != 3 {
		t.Errorf("got %d transactions, want 3", len(history.Transactions))
	}

	info, err := rs.GetReferralInfo(ctx, referrer.ID)
	if err != nil {
		t.Fatalf("GetReferralInfo: %v", err)
	}
	if info.ReferralURL != "https://vitashop.example?ref=FRIEND23" {
		t.Errorf("ReferralURL=%q", info.ReferralURL)
	}
	if info.TotalReferrals != 1 || info.ActiveReferrals != 1 {
		t.Errorf("referral stats=%d/%d, want 1/1", info.TotalReferrals, info.ActiveReferrals)
	}
}

func TestOrderCreateAndCancel(t *testing.T) {
	db := newTestDB(t)
	log := newServiceLogger()
	userRepo := repos.NewUserRepo(db, log)
	referralRepo := repos.NewReferralRepo(db, log)
	productRepo := repos.NewProductRepo(db, log)
	orderRepo := repos.NewOrderRepo(db, log)
	referralService := NewReferralService(db, log, userRepo, referralRepo, "https://vitashop.example")
	orderService := NewOrderService(db, log, orderRepo, productRepo, referralService)
	ctx := context.Background()

	referrer := seedUser(t, db, "Referrer", "FRIEND23")
	buyer := seedUser(t, db, "Buyer", "BUYER234")
	if err := referralService.ConnectReferral(ctx, nil, buyer, "FRIEND23"); err != nil {
		t.Fatalf("ConnectReferral: %v", err)
	}

	magnesium := seedActiveProduct(t, db, "Magnesium B6", 100, 5)
	omega := seedActiveProduct(t, db, "Omega-3 Premium", 49.75, 2)

	if _, err := orderService.CreateOrder(ctx, buyer.ID, CreateOrderInput{
		ShippingAddress: "Somewhere 1",
		Phone:           "+70000000000",
	}); !errors.Is(err, ErrEmptyOrder) {
		t.Fatalf("empty order: got %v, want ErrEmptyOrder", err)
	}

	order, err := orderService.CreateOrder(ctx, buyer.ID, CreateOrderInput{
		Items: []OrderItemInput{
			{ProductID: magnesium.ID, Quantity: 2},
			{ProductID: omega.ID, Quantity: 1},
		},
		ShippingAddress: "Somewhere 1",
		Phone:           "+70000000000",
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.TotalAmount != 249.75 {
		t.Errorf("TotalAmount=%v, want 249.75", order.TotalAmount)
	}
	if order.Status != types.OrderProcessing {
		t.Errorf("Status=%s, want processing", order.Status)
	}
	if len(order.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(order.Items))
	}

	stock := func(id uuid.UUID) int {
		product, err := productRepo.GetByID(ctx, nil, id)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		return product.Quantity
	}
	if got := stock(magnesium.ID); got != 3 {
		t.Errorf("magnesium stock=%d, want 3", got)
	}
	if got := stock(omega.ID); got != 1 {
		t.Errorf("omega stock=%d, want 1", got)
	}

	// 10% of 249.75, floored.
	referrerRow, err := userRepo.GetByID(ctx, nil, referrer.ID)
	if err != nil {
		t.Fatalf("GetByID referrer: %v", err)
	}
	if referrerRow.PointsBalance != 24 {
		t.Errorf("referrer balance=%d, want 24", referrerRow.PointsBalance)
	}

	// An oversell anywhere in the order rolls back every decrement.
	_, err = orderService.CreateOrder(ctx, buyer.ID, CreateOrderInput{
		Items: []OrderItemInput{
			{ProductID: magnesium.ID, Quantity: 1},
			{ProductID: omega.ID, Quantity: 5},
		},
		ShippingAddress: "Somewhere 1",
		Phone:           "+70000000000",
	})
	if !errors.Is(err, repos.ErrInsufficientStock) {
		t.Fatalf("oversell: got %v, want ErrInsufficientStock", err)
	}
	if got := stock(magnesium.ID); got != 3 {
		t.Errorf("magnesium stock after failed order=%d, want 3", got)
	}
	if got := stock(omega.ID); got != 1 {
		t.Errorf("omega stock after failed order=%d, want 1", got)
	}

	stranger := seedUser(t, db, "Stranger", "STRNGR23")
	if _, err := orderService.CancelOrder(ctx, stranger.ID, order.ID); !errors.Is(err, ErrOrderNotOwned) {
		t.Fatalf("cancel by stranger: got %v, want ErrOrderNotOwned", err)
	}

	cancelled, err := orderService.CancelOrder(ctx, buyer.ID, order.ID)
	if err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}
	if cancelled.Status != types.OrderCancelled {
		t.Errorf("Status=%s, want cancelled", cancelled.Status)
	}
	if got := stock(magnesium.ID); got != 5 {
		t.Errorf("magnesium stock after cancel=%d, want 5", got)
	}
	if got := stock(omega.ID); got != 2 {
		t.Errorf("omega stock after cancel=%d, want 2", got)
	}
	if _, err := orderService.CancelOrder(ctx, buyer.ID, order.ID); !errors.Is(err, ErrOrderNotCancellable) {
		t.Fatalf("repeat cancel: got %v, want ErrOrderNotCancellable", err)
	}

	summary, err := orderService.GetOrderSummary(ctx, buyer.ID)
	if err != nil {
		t.Fatalf("GetOrderSummary: %v", err)
	}
	if summary.TotalOrders != 1 {
		t.Errorf("TotalOrders=%d, want 1", summary.TotalOrders)
	}
	if summary.OrdersByStatus[types.OrderCancelled] != 1 {
		t.Errorf("OrdersByStatus=%v, want 1 cancelled", summary.OrdersByStatus)
	}
}

func TestSurveySaveAndValidation(t *testing.T) {
	db := newTestDB(t)
	log := newServiceLogger()
	userRepo := repos.NewUserRepo(db, log)
	ss := NewSurveyService(db, log, userRepo)
	ctx := context.Background()

	user := seedUser(t, db, "Anna", "ANNA2345")

	if _, _, err := ss.GetSurvey(ctx, user.ID); err != nil {
		t.Fatalf("GetSurvey before completion: %v", err)
	}
	if _, completed, _ := ss.GetSurvey(ctx, user.ID); completed {
		t.Error("survey reported completed before submission")
	}

	invalid := types.SurveyData{
		AgeGroup:      types.Age18To30,
		Gender:        "unknown",
		ActivityLevel: types.ActivityNone,
		StressLevel:   types.StressHigh,
		Nutrition:     types.NutritionRare,
	}
	if _, err := ss.SaveSurvey(ctx, user.ID, invalid); err == nil {
		t.Fatal("SaveSurvey accepted an invalid gender")
	}

	valid := types.SurveyData{
		AgeGroup:      types.Age31To45,
		Gender:        types.GenderFemale,
		ActivityLevel: types.ActivityDaily,
		StressLevel:   types.StressHigh,
		Nutrition:     types.NutritionRare,
		Complaints:    []string{"fatigue"},
		Goals:         []string{"immunity"},
	}
	saved, err := ss.SaveSurvey(ctx, user.ID, valid)
	if err != nil {
		t.Fatalf("SaveSurvey: %v", err)
	}
	if !saved.SurveyCompleted || saved.SurveyCompletedAt == nil {
		t.Error("survey completion not recorded")
	}

	survey, completed, err := ss.GetSurvey(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetSurvey: %v", err)
	}
	if !completed {
		t.Fatal("survey not reported completed")
	}
	if survey.Gender != types.GenderFemale || len(survey.Complaints) != 1 || survey.Complaints[0] != "fatigue" {
		t.Errorf("survey round trip mismatch: %+v", survey)
	}

	// Resubmission replaces list answers wholesale.
	valid.Complaints = nil
	valid.Goals = []string{"heart_health"}
	if _, err := ss.SaveSurvey(ctx, user.ID, valid); err != nil {
		t.Fatalf("SaveSurvey resubmit: %v", err)
	}
	survey, _, err = ss.GetSurvey(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetSurvey after resubmit: %v", err)
	}
	if len(survey.Complaints) != 0 {
		t.Errorf("stale complaints survived resubmission: %v", survey.Complaints)
	}
	if len(survey.Goals) != 1 || survey.Goals[0] != "heart_health" {
		t.Errorf("Goals=%v, want [heart_health]", survey.Goals)
	}
}

func TestFeedbackRateLimit(t *testing.T) {
	db := newTestDB(t)
	log := newServiceLogger()
	feedbackRepo := repos.NewFeedbackRepo(db, log)
	fs := NewFeedbackService(db, log, feedbackRepo)
	ctx := context.Background()

	if _, err := fs.SubmitFeedback(ctx, "Anna", "not-an-email", "Hello"); err == nil {
		t.Fatal("SubmitFeedback accepted an invalid email")
	}

	for i := 0; i < 3; i++ {
		if _, err := fs.SubmitFeedback(ctx, "Anna", "anna@example.com", "Message"); err != nil {
			t.Fatalf("SubmitFeedback %d: %v", i+1, err)
		}
	}
	if _, err := fs.SubmitFeedback(ctx, "Anna", "anna@example.com", "One more"); !errors.Is(err, ErrFeedbackRateLimited) {
		t.Fatalf("fourth submission: got %v, want ErrFeedbackRateLimited", err)
	}
	// The limit is per email, not global.
	if _, err := fs.SubmitFeedback(ctx, "Boris", "boris@example.com", "Hi"); err != nil {
		t.Fatalf("SubmitFeedback other email: %v", err)
	}
}
