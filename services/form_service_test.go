package services

import (
	"context"
	"strings"
	"testing"

	"helpdesk.link/models"
	"helpdesk.link/pkg/formdef"
	"helpdesk.link/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memoryFormRepo struct {
	repositories.IFormRepository
	forms   map[uint]models.Form
	nextID  uint
	updates int
}

func (r *memoryFormRepo) Create(_ context.Context, form *models.Form) error {
	r.nextID++
	form.ID = r.nextID
	form.Detail.ID = r.nextID
	form.Detail.FormID = r.nextID
	r.forms[form.ID] = *form
	return nil
}

func (r *memoryFormRepo) FindByIDForUpdate(_ context.Context, id uint) (*models.Form, error) {
	f, ok := r.forms[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &f, nil
}

func (r *memoryFormRepo) Update(_ context.Context, form *models.Form) error {
	r.updates++
	r.forms[form.ID] = *form
	return nil
}

func (r *memoryFormRepo) UpdateDetail(_ context.Context, detail *models.FormDetail) error {
	r.updates++
	f := r.forms[detail.FormID]
	f.Detail = *detail
	r.forms[detail.FormID] = f
	return nil
}

type memoryLinks struct {
	ILinkService
	created int
}

func (l *memoryLinks) CreateLink(_ context.Context, creatorUserID, typeID, targetID uint) (*models.Link, error) {
	l.created++
	link := &models.Link{Key: "abc123", TypeID: typeID, TargetID: targetID, CreatorUserID: creatorUserID}
	link.ID = uint(l.created)
	return link, nil
}

func (l *memoryLinks) SetTarget(context.Context, uint, uint) error { return nil }

type formTypeOnly struct{}

func (formTypeOnly) GetTypeByName(_ context.Context, name string) (*models.Type, error) {
	t := &models.Type{Name: name}
	t.ID = 1
	return t, nil
}

// snapshotTx hata durumunda depoyu transaction öncesi haline döndürür.
func snapshotTx(repo *memoryFormRepo) txRunner {
	return func(ctx context.Context, fn func(txCtx context.Context) error) error {
		saved := make(map[uint]models.Form, len(repo.forms))
		for id, f := range repo.forms {
			saved[id] = f
		}
		if err := fn(ctx); err != nil {
			repo.forms = saved
			return err
		}
		return nil
	}
}

func newTestFormService() (*FormService, *memoryFormRepo, *memoryLinks, context.Context) {
	admin := &models.User{Name: "Admin", Role: models.RoleAdmin}
	admin.ID = 1
	repo := &memoryFormRepo{forms: map[uint]models.Form{}}
	links := &memoryLinks{}
	svc := &FormService{
		repo:        repo,
		linkService: links,
		typeService: formTypeOnly{},
		access:      accessChecker{users: memoryUsers{1: admin}},
		cache:       &RedisFormCache{},
		inTx:        snapshotTx(repo),
	}
	return svc, repo, links, models.WithUserID(context.Background(), admin.ID)
}

func ticketForm() formdef.Definition {
	return formdef.Definition{
		Name:   "Solicitação de Acesso",
		Fields: []models.FormField{{ID: "nome", Type: models.FieldText, Label: "Nome", Required: true}},
	}
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestCreateFormWithSettingsSavesOnce(t *testing.T) {
	svc, repo, _, ctx := newTestFormService()

	created, err := svc.CreateFormWith(ctx, ticketForm(), FormSettings{IsEnabled: boolPtr(false), Password: strPtr("s3nha")})
	require.NoError(t, err)
	assert.Equal(t, "abc123", created.PublicURL)

	stored := repo.forms[created.ID]
	assert.False(t, stored.IsEnabled)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Detail.PasswordHash), []byte("s3nha")))
	assert.Zero(t, repo.updates)
}

func TestCreateFormWithRejectedPasswordLeavesNothing(t *testing.T) {
	svc, repo, links, ctx := newTestFormService()

	_, err := svc.CreateFormWith(ctx, ticketForm(), FormSettings{Password: strPtr(strings.Repeat("x", 80))})
	assert.ErrorIs(t, err, ErrFormPasswordHashingFailed)
	assert.Empty(t, repo.forms)
	assert.Zero(t, links.created)
}

func TestUpdateFormWithSettings(t *testing.T) {
	svc, repo, _, ctx := newTestFormService()

	created, err := svc.CreateFormWith(ctx, ticketForm(), FormSettings{IsEnabled: boolPtr(false), Password: strPtr("s3nha")})
	require.NoError(t, err)

	d := created
	d.Name = "Acesso"
	_, err = svc.UpdateFormWith(ctx, d, FormSettings{IsEnabled: boolPtr(true)})
	require.NoError(t, err)
	stored := repo.forms[created.ID]
	assert.True(t, stored.IsEnabled)
	assert.Equal(t, "Acesso", stored.Detail.Name)
	assert.NotEmpty(t, stored.Detail.PasswordHash)

	_, err = svc.UpdateFormWith(ctx, d, FormSettings{Password: strPtr("")})
	require.NoError(t, err)
	assert.Empty(t, repo.forms[created.ID].Detail.PasswordHash)

	_, err = svc.UpdateFormWith(ctx, d, FormSettings{Password: strPtr(strings.Repeat("x", 80))})
	assert.ErrorIs(t, err, ErrFormPasswordHashingFailed)
	assert.Equal(t, "Acesso", repo.forms[created.ID].Detail.Name)
}
