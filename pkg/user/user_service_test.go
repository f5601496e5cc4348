package user

import (
	"context"
	"fmt"
	"testing"
	"time"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/pkg/jwt"
	"foodgram-backend/pkg/recipe"
	"foodgram-backend/pkg/relation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubMailer struct {
	sent    int
	to      string
	subject string
	body    string
}

func (m *stubMailer) Send(toEmail string, subject string, body string) error {
	m.sent++
	m.to = toEmail
	m.subject = subject
	m.body = body
	return nil
}

type fixture struct {
	db         *gorm.DB
	service    UserService
	jwtService jwt.JWTService
	mailer     *stubMailer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entities.User{},
		&entities.Subscription{},
		&entities.Recipe{},
		&entities.IngredientLine{},
		&entities.Tag{},
		&entities.Ingredient{},
	))

	subscriptions := relation.NewStore(db, "user_id", "author_id", func(user, target uuid.UUID) entities.Subscription {
		return entities.Subscription{ID: uuid.New(), UserID: user, AuthorID: target, CreatedAt: time.Now()}
	})

	jwtService := jwt.NewJWTService()
	mailer := &stubMailer{}
	service := NewUserService(
		NewUserRepository(db),
		recipe.NewRecipeRepository(db),
		subscriptions,
		jwtService,
		mailer,
	)
	return &fixture{db: db, service: service, jwtService: jwtService, mailer: mailer}
}

func registerRequest(username string) domain.RegisterRequest {
	return domain.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "First",
		LastName:  "Last",
		Password:  "correct-horse",
	}
}

func (f *fixture) register(t *testing.T, username string) domain.UserResponse {
	t.Helper()
	res, err := f.service.Register(context.Background(), registerRequest(username))
	require.NoError(t, err)
	return res
}

func (f *fixture) seedRecipes(t *testing.T, authorID string, n int) {
	t.Helper()
	author, err := uuid.Parse(authorID)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.NoError(t, f.db.Create(&entities.Recipe{
			ID:          uuid.New(),
			AuthorID:    author,
			Name:        fmt.Sprintf("recipe-%d", i),
			CookingTime: 5,
			CreatedAt:   time.Now().Add(time.Duration(i) * time.Minute),
		}).Error)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	registered := f.register(t, "kate")
	assert.Equal(t, "kate", registered.Username)
	assert.Equal(t, "kate@example.com", registered.Email)
	assert.False(t, registered.IsSubscribed)

	// Passwords are stored hashed.
	var stored entities.User
	require.NoError(t, f.db.First(&stored, "username = ?", "kate").Error)
	assert.NotEqual(t, "correct-horse", stored.Password)

	login, err := f.service.Login(ctx, domain.LoginRequest{Email: "kate@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, registered.ID, login.User.ID)

	userID, role, err := f.jwtService.GetUserIDByToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)
	assert.Equal(t, domain.RoleUser, role)
}

func TestRegisterDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.register(t, "kate")

	req := registerRequest("other")
	req.Email = "kate@example.com"
	_, err := f.service.Register(ctx, req)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyUsed)

	req = registerRequest("kate")
	req.Email = "fresh@example.com"
	_, err = f.service.Register(ctx, req)
	assert.ErrorIs(t, err, domain.ErrUsernameAlreadyUsed)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.register(t, "kate")

	_, err := f.service.Login(ctx, domain.LoginRequest{Email: "kate@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)

	_, err = f.service.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)
}

func TestSetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	kate := f.register(t, "kate")

	err := f.service.SetPassword(ctx, domain.SetPasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "brand-new-pass",
	}, kate.ID)
	assert.ErrorIs(t, err, domain.ErrPasswordIncorrect)

	require.NoError(t, f.service.SetPassword(ctx, domain.SetPasswordRequest{
		CurrentPassword: "correct-horse",
		NewPassword:     "brand-new-pass",
	}, kate.ID))

	_, err = f.service.Login(ctx, domain.LoginRequest{Email: "kate@example.com", Password: "brand-new-pass"})
	assert.NoError(t, err)
}

func TestForgotAndResetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	kate := f.register(t, "kate")

	require.NoError(t, f.service.ForgotPassword(ctx, domain.ForgotPasswordRequest{Email: "kate@example.com"}))
	assert.Equal(t, 1, f.mailer.sent)
	assert.Equal(t, "kate@example.com", f.mailer.to)
	assert.Contains(t, f.mailer.body, "reset")

	err := f.service.ForgotPassword(ctx, domain.ForgotPasswordRequest{Email: "nobody@example.com"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	token, err := f.jwtService.GenerateTokenForgetPassword(map[string]any{
		"user_id": kate.ID,
		"email":   "kate@example.com",
	}, time.Hour)
	require.NoError(t, err)

	require.NoError(t, f.service.ResetPassword(ctx, domain.ResetPasswordRequest{
		Token:       token,
		NewPassword: "reset-password",
	}))

	_, err = f.service.Login(ctx, domain.LoginRequest{Email: "kate@example.com", Password: "reset-password"})
	assert.NoError(t, err)

	err = f.service.ResetPassword(ctx, domain.ResetPasswordRequest{
		Token:       "garbage",
		NewPassword: "reset-password",
	})
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestSubscribeRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	kate := f.register(t, "kate")
	mark := f.register(t, "mark")

	// Self-subscription is rejected no matter the store state.
	_, err := f.service.Subscribe(ctx, kate.ID, kate.ID)
	assert.ErrorIs(t, err, domain.ErrSelfSubscription)

	_, err = f.service.Subscribe(ctx, uuid.NewString(), kate.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	res, err := f.service.Subscribe(ctx, mark.ID, kate.ID)
	require.NoError(t, err)
	assert.Equal(t, mark.ID, res.ID)
	assert.True(t, res.IsSubscribed)

	_, err = f.service.Subscribe(ctx, mark.ID, kate.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadySubscribed)
}

func TestUnsubscribe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	kate := f.register(t, "kate")
	mark := f.register(t, "mark")

	assert.ErrorIs(t, f.service.Unsubscribe(ctx, mark.ID, kate.ID), domain.ErrSubscriptionNotFound)

	_, err := f.service.Subscribe(ctx, mark.ID, kate.ID)
	require.NoError(t, err)

	require.NoError(t, f.service.Unsubscribe(ctx, mark.ID, kate.ID))
	assert.ErrorIs(t, f.service.Unsubscribe(ctx, mark.ID, kate.ID), domain.ErrSubscriptionNotFound)
}

func TestGetSubscriptionsPreview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	kate := f.register(t, "kate")
	mark := f.register(t, "mark")
	f.seedRecipes(t, mark.ID, 3)

	_, err := f.service.Subscribe(ctx, mark.ID, kate.ID)
	require.NoError(t, err)

	subs, count, err := f.service.GetSubscriptions(ctx, kate.ID, 1, 20, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, subs, 1)

	assert.Equal(t, "mark", subs[0].Username)
	assert.True(t, subs[0].IsSubscribed)
	assert.EqualValues(t, 3, subs[0].RecipesCount)
	// recipesLimit caps the preview, not the count.
	assert.Len(t, subs[0].Recipes, 2)

	// The subscription is one-directional.
	subs, count, err = f.service.GetSubscriptions(ctx, mark.ID, 1, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
	assert.Empty(t, subs)
}
