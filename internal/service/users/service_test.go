package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/dairydesk/backend/internal/domain/models"
	"github.com/dairydesk/backend/internal/repository/mongodb"
)

type fakeUserStore struct {
	byID map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: make(map[string]*models.User)}
}

func (f *fakeUserStore) Insert(_ context.Context, user models.User) (models.User, error) {
	user.ID = primitive.NewObjectID()
	stored := user
	f.byID[user.ID.Hex()] = &stored
	return user, nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, mongodb.ErrNotFound
}

func (f *fakeUserStore) FindByMobile(_ context.Context, mobile string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Mobile == mobile {
			copied := *u
			return &copied, nil
		}
	}
	return nil, mongodb.ErrNotFound
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, mongodb.ErrNotFound
}

func (f *fakeUserStore) ListByRole(_ context.Context, role models.Role) ([]models.User, error) {
	var out []models.User
	for _, u := range f.byID {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserStore) Update(_ context.Context, user *models.User) error {
	stored := *user
	f.byID[user.ID.Hex()] = &stored
	return nil
}

func createInput() CreateInput {
	return CreateInput{
		Name:     "Asha Devi",
		Email:    "Asha@Example.com",
		Mobile:   "9876543210",
		Role:     models.RoleConsumer,
		Password: "s3cret1",
	}
}

func TestCreateHashesPasswordAndNormalizes(t *testing.T) {
	store := newFakeUserStore()
	svc := NewService(store, nil)

	user, err := svc.Create(context.Background(), createInput())
	require.NoError(t, err)

	assert.Equal(t, "asha@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "s3cret1", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret1")))
}

func TestCreateRejectsBadMobileAndName(t *testing.T) {
	svc := NewService(newFakeUserStore(), nil)

	bad := createInput()
	bad.Mobile = "12345"
	_, err := svc.Create(context.Background(), bad)
	assert.ErrorIs(t, err, ErrInvalid)

	bad = createInput()
	bad.Name = "A"
	_, err = svc.Create(context.Background(), bad)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestCreateRejectsDuplicateMobile(t *testing.T) {
	store := newFakeUserStore()
	svc := NewService(store, nil)

	_, err := svc.Create(context.Background(), createInput())
	require.NoError(t, err)

	dup := createInput()
	dup.Email = "other@example.com"
	_, err = svc.Create(context.Background(), dup)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCreateDefaultsUnknownRoleToConsumer(t *testing.T) {
	svc := NewService(newFakeUserStore(), nil)

	input := createInput()
	input.Role = models.Role(42)
	user, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, models.RoleConsumer, user.Role)
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	store := newFakeUserStore()
	svc := NewService(store, nil)

	created, err := svc.Create(context.Background(), createInput())
	require.NoError(t, err)

	name := "Asha D."
	inactive := false
	updated, err := svc.Update(context.Background(), created.ID.Hex(), UpdateInput{
		Name:     &name,
		IsActive: &inactive,
	})
	require.NoError(t, err)

	assert.Equal(t, "Asha D.", updated.Name)
	assert.False(t, updated.IsActive)
	assert.Equal(t, created.Mobile, updated.Mobile)
	assert.Equal(t, created.Email, updated.Email)
}

func TestUpdateRoleOnlyDemotesAdminToConsumer(t *testing.T) {
	store := newFakeUserStore()
	svc := NewService(store, nil)

	input := createInput()
	input.Role = models.RoleAdmin
	adminUser, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	// Promotion attempts are ignored.
	super := models.RoleSuperAdmin
	updated, err := svc.Update(context.Background(), adminUser.ID.Hex(), UpdateInput{Role: &super})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)

	consumer := models.RoleConsumer
	updated, err = svc.Update(context.Background(), adminUser.ID.Hex(), UpdateInput{Role: &consumer})
	require.NoError(t, err)
	assert.Equal(t, models.RoleConsumer, updated.Role)
}

func TestChangePassword(t *testing.T) {
	store := newFakeUserStore()
	svc := NewService(store, nil)

	created, err := svc.Create(context.Background(), createInput())
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), created.ID.Hex(), "short")
	assert.ErrorIs(t, err, ErrInvalid)

	err = svc.ChangePassword(context.Background(), created.ID.Hex(), "brand-new-pass")
	require.NoError(t, err)

	stored := store.byID[created.ID.Hex()]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("brand-new-pass")))
}
