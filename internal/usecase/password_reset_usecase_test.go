package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"baby-visit-scheduler/internal/delivery/dto"
	"baby-visit-scheduler/internal/domain/entity"
	"baby-visit-scheduler/internal/domain/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeCaregiverRepo struct {
	repository.CaregiverRepository
	caregivers map[uuid.UUID]entity.Caregiver
}

func (r *fakeCaregiverRepo) FindByEmail(db *gorm.DB, email string) (*entity.Caregiver, error) {
	for _, c := range r.caregivers {
		if strings.EqualFold(c.Email, email) {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeCaregiverRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Caregiver, error) {
	c, ok := r.caregivers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeCaregiverRepo) Update(db *gorm.DB, caregiver *entity.Caregiver) error {
	r.caregivers[caregiver.ID] = *caregiver
	return nil
}

type capturingNotifier struct {
	tokens []string
	err    error
}

func (n *capturingNotifier) SendPasswordReset(ctx context.Context, caregiver *entity.Caregiver, token string) error {
	if n.err != nil {
		return n.err
	}
	n.tokens = append(n.tokens, token)
	return nil
}

type resetFixture struct {
	usecase   PasswordResetUsecase
	caregiver entity.Caregiver
	repo      *fakeCaregiverRepo
	notifier  *capturingNotifier
	audit     *fakeAudit
	redis     *miniredis.Miniredis
	client    *redis.Client
}

func newResetFixture(t *testing.T, db *gorm.DB) *resetFixture {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("old-secret"), bcrypt.MinCost)
	require.NoError(t, err)
	caregiver := entity.Caregiver{ID: uuid.New(), Email: "ana@example.com", Password: string(hash)}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := &resetFixture{
		caregiver: caregiver,
		repo:      &fakeCaregiverRepo{caregivers: map[uuid.UUID]entity.Caregiver{caregiver.ID: caregiver}},
		notifier:  &capturingNotifier{},
		audit:     &fakeAudit{},
		redis:     mr,
		client:    client,
	}
	f.usecase = NewPasswordResetUsecase(db, quietLogger(), f.repo, f.audit, f.notifier, client, 30*time.Minute)
	return f
}

func TestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	db, mock := newMockDB(t)
	f := newResetFixture(t, db)

	err := f.usecase.RequestReset(context.Background(), &dto.ForgotPasswordRequest{Email: "nobody@example.com"})

	require.NoError(t, err)
	assert.Empty(t, f.notifier.tokens)
	assert.Empty(t, f.redis.Keys())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordReset_RequestStoresExpiringToken(t *testing.T) {
	db, _ := newMockDB(t)
	f := newResetFixture(t, db)

	require.NoError(t, f.usecase.RequestReset(context.Background(), &dto.ForgotPasswordRequest{Email: " ANA@example.com "}))
	require.Len(t, f.notifier.tokens, 1)

	key := resetTokenKey(f.notifier.tokens[0])
	stored, err := f.redis.Get(key)
	require.NoError(t, err)
	assert.Equal(t, f.caregiver.ID.String(), stored)
	assert.Equal(t, 30*time.Minute, f.redis.TTL(key))

	f.redis.FastForward(31 * time.Minute)
	err = f.usecase.ResetPassword(context.Background(), &dto.ResetPasswordRequest{Token: f.notifier.tokens[0], Password: "new-secret"})
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestPasswordReset_FailedDeliveryDropsToken(t *testing.T) {
	db, _ := newMockDB(t)
	f := newResetFixture(t, db)
	f.notifier.err = errors.New("smtp down")

	err := f.usecase.RequestReset(context.Background(), &dto.ForgotPasswordRequest{Email: "ana@example.com"})

	require.Error(t, err)
	assert.Empty(t, f.redis.Keys())
}

func TestPasswordReset_ChangesPasswordAndRevokesSessions(t *testing.T) {
	db, mock := newMockDB(t)
	f := newResetFixture(t, db)
	ctx := context.Background()

	other := uuid.New()
	f.redis.Set(accessTokenKey(f.caregiver.ID, "a1"), "1")
	f.redis.Set(refreshTokenKey(f.caregiver.ID, "r1"), "1")
	f.redis.Set(accessTokenKey(other, "a2"), "1")

	require.NoError(t, f.usecase.RequestReset(ctx, &dto.ForgotPasswordRequest{Email: "ana@example.com"}))
	token := f.notifier.tokens[0]

	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, f.usecase.ResetPassword(ctx, &dto.ResetPasswordRequest{Token: token, Password: "new-secret"}))
	assert.NoError(t, mock.ExpectationsWereMet())

	updated := f.repo.caregivers[f.caregiver.ID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("new-secret")))
	assert.Equal(t, []string{entity.AuditActionPasswordReset}, f.audit.actions)

	assert.False(t, f.redis.Exists(accessTokenKey(f.caregiver.ID, "a1")))
	assert.False(t, f.redis.Exists(refreshTokenKey(f.caregiver.ID, "r1")))
	assert.True(t, f.redis.Exists(accessTokenKey(other, "a2")))

	err := f.usecase.ResetPassword(ctx, &dto.ResetPasswordRequest{Token: token, Password: "another-secret"})
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestPasswordReset_UnknownToken(t *testing.T) {
	db, mock := newMockDB(t)
	f := newResetFixture(t, db)

	err := f.usecase.ResetPassword(context.Background(), &dto.ResetPasswordRequest{Token: "made-up", Password: "new-secret"})

	assert.ErrorIs(t, err, ErrInvalidResetToken)
	assert.Empty(t, f.audit.actions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordReset_DeletedCaregiver(t *testing.T) {
	db, mock := newMockDB(t)
	f := newResetFixture(t, db)
	ctx := context.Background()

	require.NoError(t, f.usecase.RequestReset(ctx, &dto.ForgotPasswordRequest{Email: "ana@example.com"}))
	delete(f.repo.caregivers, f.caregiver.ID)

	mock.ExpectBegin()
	mock.ExpectRollback()
	err := f.usecase.ResetPassword(ctx, &dto.ResetPasswordRequest{Token: f.notifier.tokens[0], Password: "new-secret"})

	assert.ErrorIs(t, err, ErrInvalidResetToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}
