package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/vitalab/vitashop-backend/internal/logger"
	"github.com/vitalab/vitashop-backend/internal/recommend"
	"github.com/vitalab/vitashop-backend/internal/repos"
	"github.com/vitalab/vitashop-backend/internal/types"
)

// FullRecommendations carries the output of both strategies side by side.
type FullRecommendations struct {
	Deterministic []recommend.Recommendation      `json:"deterministic"`
	Weighted      *recommend.RecommendationResult `json:"weighted"`
}

type RecommendationService interface {
	GetRecommendations(ctx context.Context, userID uuid.UUID) ([]recommend.Recommendation, error)
	GetEnhancedRecommendations(ctx context.Context, userID uuid.UUID) (*recommend.RecommendationResult, error)
	GetFullRecommendations(ctx context.Context, userID uuid.UUID) (*FullRecommendations, error)
}

type recommendationService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	deterministic *recommend.Deterministic
	weighted      *recommend.Weighted
}

func NewRecommendationService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	productRepo repos.ProductRepo,
	ruleRepo repos.VitaminRuleRepo,
) RecommendationService {
	serviceLog := log.With("service", "RecommendationService")
	return &recommendationService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		deterministic: recommend.NewDeterministic(&ruleSource{ruleRepo: ruleRepo}, log),
		weighted:      recommend.NewWeighted(&productSource{productRepo: productRepo}, log),
	}
}

// GetRecommendations runs the rule-matching strategy. A user who has not
// completed the survey gets an empty list, not an error.
func (rs *recommendationService) GetRecommendations(ctx context.Context, userID uuid.UUID) ([]recommend.Recommendation, error) {
	profile, completed, err := rs.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !completed {
		return []recommend.Recommendation{}, nil
	}
	return rs.deterministic.Recommend(ctx, profile)
}

func (rs *recommendationService) GetEnhancedRecommendations(ctx context.Context, userID uuid.UUID) (*recommend.RecommendationResult, error) {
	profile, completed, err := rs.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !completed {
		return &recommend.RecommendationResult{
			Recommendations:  []recommend.Recommendation{},
			ExcludedProducts: []string{},
		}, nil
	}
	return rs.weighted.RecommendWithReport(ctx, profile, recommend.MaxRecommendations)
}

// GetFullRecommendations runs both strategies concurrently over the same
// profile snapshot.
func (rs *recommendationService) GetFullRecommendations(ctx context.Context, userID uuid.UUID) (*FullRecommendations, error) {
	profile, completed, err := rs.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	full := &FullRecommendations{
		Deterministic: []recommend.Recommendation{},
		Weighted: &recommend.RecommendationResult{
			Recommendations:  []recommend.Recommendation{},
			ExcludedProducts: []string{},
		},
	}
	if !completed {
		return full, nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		recommendations, dErr := rs.deterministic.Recommend(groupCtx, profile)
		if dErr != nil {
			return dErr
		}
		full.Deterministic = recommendations
		return nil
	})
	group.Go(func() error {
		result, wErr := rs.weighted.RecommendWithReport(groupCtx, profile, recommend.MaxRecommendations)
		if wErr != nil {
			return wErr
		}
		full.Weighted = result
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return full, nil
}

func (rs *recommendationService) loadProfile(ctx context.Context, userID uuid.UUID) (recommend.Profile, bool, error) {
	user, err := rs.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return recommend.Profile{}, false, fmt.Errorf("Failed to load user: %w", err)
	}
	if !user.SurveyCompleted {
		rs.log.Debug("Survey not completed, returning empty recommendations", "user_id", userID)
		return recommend.Profile{}, false, nil
	}
	return recommend.ProfileFromUser(user), true, nil
}

// productSource and ruleSource adapt the repos to the recommender inputs.
type productSource struct {
	productRepo repos.ProductRepo
}

func (ps *productSource) ActiveProducts(ctx context.Context) ([]types.Product, error) {
	return ps.productRepo.GetActive(ctx, nil)
}

type ruleSource struct {
	ruleRepo repos.VitaminRuleRepo
}

func (rs *ruleSource) ActiveRules(ctx context.Context) ([]types.VitaminRule, error) {
	return rs.ruleRepo.GetActive(ctx, nil)
}

func (rs *ruleSource) ActiveRuleProducts(ctx context.Context, ruleID uuid.UUID) ([]types.Product, error) {
	return rs.ruleRepo.GetActiveRuleProducts(ctx, nil, ruleID)
}
