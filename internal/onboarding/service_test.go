package onboarding

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"bazaar_onboarding_backend/internal/buyer"
	"bazaar_onboarding_backend/internal/common"
	"bazaar_onboarding_backend/internal/config"
	"bazaar_onboarding_backend/internal/seller"
	"bazaar_onboarding_backend/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db      *gorm.DB
	users   user.Repository
	buyers  buyer.Repository
	sellers seller.Repository
	svc     Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&user.User{}, &buyer.Profile{}, &seller.Profile{}))

	cfg := &config.Config{PublicBaseURL: "http://localhost:8080"}
	users := user.NewGORMRepository(db)
	buyers := buyer.NewGORMRepository(db)
	sellers := seller.NewGORMRepository(db)
	zapLogger, _ := zap.NewDevelopment()

	return &testEnv{
		db:      db,
		users:   users,
		buyers:  buyers,
		sellers: sellers,
		svc:     NewService(users, buyers, sellers, cfg, zapLogger),
	}
}

func TestProcessUser_BuyerFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.svc.ProcessUser(ctx, user.TypeBuyer, "dana")
	require.NoError(t, err)
	require.Contains(t, result.Message, "Please accept terms")
	require.NotNil(t, result.NextStep)
	require.Equal(t, ActionAcceptTerms, result.NextStep.Action)
	require.Equal(t, "POST", result.NextStep.Method)
	require.Contains(t, result.NextStep.URL, "/buyers/")
	require.Contains(t, result.NextStep.URL, "/accept_terms")

	profile := result.Data.(buyer.Response)
	accepted, err := env.svc.AcceptBuyerTerms(ctx, profile.ID, true)
	require.NoError(t, err)
	require.Equal(t, "Terms acceptance updated. Buyer process completed.", accepted.Message)
	// Buyer flow ends here; nothing further is chained.
	require.Nil(t, accepted.NextStep)

	done, err := env.svc.ProcessUser(ctx, user.TypeBuyer, "dana")
	require.NoError(t, err)
	require.Equal(t, "Buyer API executed. Terms already accepted.", done.Message)
	require.Nil(t, done.NextStep)
}

func TestProcessUser_SellerFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// terms_pending
	result, err := env.svc.ProcessUser(ctx, user.TypeSeller, "alice")
	require.NoError(t, err)
	require.Contains(t, result.Message, "Please accept terms")
	require.Equal(t, ActionAcceptTerms, result.NextStep.Action)

	profile := result.Data.(seller.Response)

	// terms_pending -> day_pending
	accepted, err := env.svc.AcceptSellerTerms(ctx, profile.ID, true)
	require.NoError(t, err)
	require.Equal(t, "Terms acceptance updated. Please select a day.", accepted.Message)
	require.NotNil(t, accepted.NextStep)
	require.Equal(t, ActionSelectDay, accepted.NextStep.Action)
	require.Equal(t, "monday", accepted.NextStep.Payload["selected_day"])

	// A repeated process call reports day_pending, never completion.
	pending, err := env.svc.ProcessUser(ctx, user.TypeSeller, "alice")
	require.NoError(t, err)
	require.Equal(t, "Seller terms accepted. Please select a day.", pending.Message)
	require.Equal(t, ActionSelectDay, pending.NextStep.Action)

	// day_pending -> complete
	selected, err := env.svc.SelectSellerDay(ctx, profile.ID, "tuesday")
	require.NoError(t, err)
	require.Equal(t, "Day selected. Seller process completed.", selected.Message)
	require.Nil(t, selected.NextStep)
	require.Equal(t, "tuesday", *selected.Data.(seller.Response).SelectedDay)

	done, err := env.svc.ProcessUser(ctx, user.TypeSeller, "alice")
	require.NoError(t, err)
	require.Equal(t, "Seller API executed. Terms already accepted.", done.Message)
	require.Nil(t, done.NextStep)
}

func TestProcessUser_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.svc.ProcessUser(ctx, user.TypeSeller, "erin")
	require.NoError(t, err)
	second, err := env.svc.ProcessUser(ctx, user.TypeSeller, "erin")
	require.NoError(t, err)
	require.Equal(t, first.Message, second.Message)
	require.Equal(t, first.NextStep.URL, second.NextStep.URL)

	var userCount, profileCount int64
	require.NoError(t, env.db.Model(&user.User{}).Count(&userCount).Error)
	require.NoError(t, env.db.Model(&seller.Profile{}).Count(&profileCount).Error)
	require.EqualValues(t, 1, userCount)
	require.EqualValues(t, 1, profileCount)
}

func TestProcessUser_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.ProcessUser(ctx, "admin", "frank")
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	require.Equal(t, 400, apiErr.StatusCode)

	_, err = env.svc.ProcessUser(ctx, user.TypeBuyer, "")
	apiErr, ok = common.IsAPIError(err)
	require.True(t, ok)
	require.Equal(t, 400, apiErr.StatusCode)
}

func TestProcessUser_UserTypeConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.ProcessUser(ctx, user.TypeBuyer, "gail")
	require.NoError(t, err)

	_, err = env.svc.ProcessUser(ctx, user.TypeSeller, "gail")
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	require.Equal(t, 409, apiErr.StatusCode)
}

func TestAcceptSellerTerms_Declined(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.svc.ProcessUser(ctx, user.TypeSeller, "hank")
	require.NoError(t, err)
	profile := result.Data.(seller.Response)

	declined, err := env.svc.AcceptSellerTerms(ctx, profile.ID, false)
	require.NoError(t, err)
	require.Equal(t, "Terms acceptance updated.", declined.Message)
	// One-shot transition: a falsy update does not re-offer accept_terms.
	require.Nil(t, declined.NextStep)
}

func TestSelectSellerDay_InvalidDay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.svc.ProcessUser(ctx, user.TypeSeller, "iris")
	require.NoError(t, err)
	profile := result.Data.(seller.Response)

	_, err = env.svc.SelectSellerDay(ctx, profile.ID, "funday")
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	require.Equal(t, 400, apiErr.StatusCode)

	// The rejected value must not have been persisted.
	stored, err := env.sellers.FindByID(ctx, profile.ID)
	require.NoError(t, err)
	require.Nil(t, stored.SelectedDay)

	// Case-sensitive whitelist: capitalized days are rejected too.
	_, err = env.svc.SelectSellerDay(ctx, profile.ID, "Monday")
	apiErr, ok = common.IsAPIError(err)
	require.True(t, ok)
	require.Equal(t, 400, apiErr.StatusCode)
}

func TestStepOperations_NotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.AcceptBuyerTerms(ctx, uuid.New(), true)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	require.Equal(t, 404, apiErr.StatusCode)

	_, err = env.svc.AcceptSellerTerms(ctx, uuid.New(), true)
	apiErr, ok = common.IsAPIError(err)
	require.True(t, ok)
	require.Equal(t, 404, apiErr.StatusCode)

	_, err = env.svc.SelectSellerDay(ctx, uuid.New(), "monday")
	apiErr, ok = common.IsAPIError(err)
	require.True(t, ok)
	require.Equal(t, 404, apiErr.StatusCode)
}
