package builder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"helpdesk.link/models"
	"helpdesk.link/pkg/formdef"
	"helpdesk.link/pkg/pagedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type messageErr string

func (e messageErr) Error() string       { return string(e) }
func (e messageErr) UserMessage() string { return string(e) }

type fakeFormStore struct {
	forms   map[uint]formdef.Definition
	nextID  uint
	creates int
	updates int
	err     error
	block   chan struct{}
}

func newFakeFormStore() *fakeFormStore {
	return &fakeFormStore{forms: map[uint]formdef.Definition{}, nextID: 1}
}

func (f *fakeFormStore) GetForm(_ context.Context, id uint) (formdef.Definition, error) {
	d, ok := f.forms[id]
	if !ok {
		return formdef.Definition{}, fmt.Errorf("form %d: %w", id, ErrNotFound)
	}
	return d, nil
}

func (f *fakeFormStore) CreateForm(_ context.Context, d formdef.Definition) (formdef.Definition, error) {
	f.creates++
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return formdef.Definition{}, f.err
	}
	d.ID = f.nextID
	d.PublicURL = fmt.Sprintf("key%d", d.ID)
	f.nextID++
	f.forms[d.ID] = d
	return d, nil
}

func (f *fakeFormStore) UpdateForm(_ context.Context, d formdef.Definition) (formdef.Definition, error) {
	f.updates++
	if f.err != nil {
		return formdef.Definition{}, f.err
	}
	f.forms[d.ID] = d
	return d, nil
}

func sequentialIDs(t *testing.T) {
	t.Helper()
	n := 0
	prevField, prevButton, prevSession := formdef.NewFieldID, pagedef.NewButtonID, NewSessionID
	next := func() string { n++; return fmt.Sprintf("id%d", n) }
	formdef.NewFieldID, pagedef.NewButtonID, NewSessionID = next, next, next
	t.Cleanup(func() {
		formdef.NewFieldID, pagedef.NewButtonID, NewSessionID = prevField, prevButton, prevSession
	})
}

func ptr[T any](v T) *T { return &v }

func TestAddFieldSelectsIt(t *testing.T) {
	sequentialIDs(t)
	s := NewFormSession()

	f := s.AddField()
	assert.Equal(t, f.ID, s.SelectedID())

	g := s.AddField()
	assert.Equal(t, g.ID, s.SelectedID())
	assert.Len(t, s.Definition().Fields, 2)

	s.RemoveField(g.ID)
	assert.Empty(t, s.SelectedID())
}

func TestEditOptionsKeepsRawBuffer(t *testing.T) {
	sequentialIDs(t)
	s := NewFormSession()
	f := s.AddField()
	s.SetFieldType(f.ID, models.FieldSelect)
	assert.Equal(t, "Opção 1\nOpção 2", s.OptionsText())

	require.NoError(t, s.EditOptions("TI\n\nRH\n"))
	assert.Equal(t, "TI\n\nRH\n", s.OptionsText())
	got, _ := s.Selected()
	assert.Equal(t, []string{"TI", "RH"}, got.Options)

	s.SetFieldType(f.ID, models.FieldText)
	assert.ErrorIs(t, s.EditOptions("x"), ErrNoOptions)
	assert.Empty(t, s.OptionsText())
}

func TestEditOptionsWithoutSelection(t *testing.T) {
	s := NewFormSession()
	assert.ErrorIs(t, s.EditOptions("a"), ErrUnknownItem)
}

func TestSelectUnknownField(t *testing.T) {
	s := NewFormSession()
	assert.ErrorIs(t, s.Select("nope"), ErrUnknownItem)
}

func TestFormSaveRejectsInvalidWithoutStore(t *testing.T) {
	sequentialIDs(t)
	store := newFakeFormStore()

	s := NewFormSession()
	s.AddField()
	_, err := s.Save(context.Background(), store)
	assert.ErrorIs(t, err, formdef.ErrNameRequired)

	s2 := NewFormSession()
	s2.SetName("X")
	_, err = s2.Save(context.Background(), store)
	assert.ErrorIs(t, err, formdef.ErrNoFields)

	assert.Zero(t, store.creates+store.updates)
}

// Solicitação de Acesso: bağlantısız form kaydedilir, sonra güncellenir.
func TestFormSaveCreateThenUpdate(t *testing.T) {
	sequentialIDs(t)
	store := newFakeFormStore()
	s := NewFormSession()
	s.SetName("Solicitação de Acesso")

	nome := s.AddField()
	s.UpdateField(nome.ID, formdef.FieldPatch{Label: ptr("Nome"), Required: ptr(true)})
	dep := s.AddField()
	s.SetFieldType(dep.ID, models.FieldSelect)
	s.UpdateField(dep.ID, formdef.FieldPatch{Label: ptr("Departamento"), Required: ptr(true)})
	require.NoError(t, s.EditOptions("TI\nRH"))

	saved, err := s.Save(context.Background(), store)
	require.NoError(t, err)
	assert.EqualValues(t, 1, saved.ID)
	assert.False(t, saved.ApprovalRequired())
	assert.Equal(t, 1, store.creates)
	assert.Equal(t, []string{"TI", "RH"}, store.forms[1].Fields[1].Options)

	s.SetLinkage(models.LinkGroup(7))
	_, err = s.Save(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, 1, store.updates)
	assert.True(t, store.forms[1].ApprovalRequired())
}

func TestFormSaveFailureMessages(t *testing.T) {
	sequentialIDs(t)
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"collaborator message", messageErr("Nome já utilizado"), "Nome já utilizado"},
		{"wrapped collaborator message", fmt.Errorf("salvar: %w", messageErr("Sem permissão")), "Sem permissão"},
		{"opaque error", errors.New("dial tcp: connection refused"), MsgSaveFailed},
		{"empty message", messageErr(""), MsgSaveFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeFormStore()
			store.err = tt.err
			s := NewFormSession()
			s.SetName("X")
			s.AddField()

			_, err := s.Save(context.Background(), store)
			var serr *SaveError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, tt.want, serr.Message)
			assert.ErrorIs(t, err, tt.err)
			assert.False(t, s.InFlight())
		})
	}
}

func TestFormSaveInFlightGuard(t *testing.T) {
	sequentialIDs(t)
	store := newFakeFormStore()
	store.block = make(chan struct{})
	s := NewFormSession()
	s.SetName("X")
	s.AddField()

	done := make(chan error, 1)
	go func() {
		_, err := s.Save(context.Background(), store)
		done <- err
	}()
	require.Eventually(t, s.InFlight, timeout, tick)

	_, err := s.Save(context.Background(), store)
	assert.ErrorIs(t, err, ErrSaveInFlight)

	close(store.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, store.creates)
}

func TestOpenFormSession(t *testing.T) {
	store := newFakeFormStore()
	store.forms[3] = formdef.Definition{ID: 3, Name: "Existente", Fields: []models.FormField{{ID: "a", Type: models.FieldText}}}

	s, err := OpenFormSession(context.Background(), store, 3)
	require.NoError(t, err)
	assert.Equal(t, "Existente", s.Definition().Name)

	_, err = OpenFormSession(context.Background(), store, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

type failingFormStore struct{ *fakeFormStore }

func (failingFormStore) GetForm(context.Context, uint) (formdef.Definition, error) {
	return formdef.Definition{}, errors.New("timeout")
}

func TestOpenFormSessionTransportFailure(t *testing.T) {
	_, err := OpenFormSession(context.Background(), failingFormStore{}, 1)
	assert.ErrorIs(t, err, ErrLoadFailed)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFormCancel(t *testing.T) {
	sequentialIDs(t)
	asked := 0
	confirm := func(answer bool) Confirm {
		return func() bool { asked++; return answer }
	}

	s := NewFormSession()
	assert.True(t, s.Cancel(confirm(false)))
	assert.Zero(t, asked, "no changes discards silently")

	s.SetName("Rascunho")
	assert.False(t, s.Cancel(confirm(false)))
	assert.True(t, s.Cancel(confirm(true)))
	assert.Equal(t, 2, asked)

	s2 := NewFormSession()
	s2.AddField()
	assert.False(t, s2.Cancel(nil))
}

func TestPreviewIsProjection(t *testing.T) {
	sequentialIDs(t)
	s := NewFormSession()
	s.SetName("Prévia")
	f := s.AddField()

	p := s.Preview()
	p.Fields[0].Label = "mutated"
	p.Name = "mutated"

	assert.Equal(t, "Prévia", s.Preview().Name)
	got, _ := s.Definition().Field(f.ID)
	assert.Equal(t, formdef.DefaultFieldLabel, got.Label)

	s.SetLinkage(models.LinkUser(4))
	assert.True(t, s.Preview().ApprovalRequired)
}

func TestFormSnapshotRoundTrip(t *testing.T) {
	sequentialIDs(t)
	s := NewFormSession()
	s.SetName("Snap")
	f := s.AddField()
	s.SetFieldType(f.ID, models.FieldRadio)
	require.NoError(t, s.EditOptions("A\n\nB"))
	s.SetLinkage(models.LinkUser(2))

	raw, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)
	var snap FormSnapshot
	require.NoError(t, json.Unmarshal(raw, &snap))

	r := RestoreFormSession(snap)
	assert.Equal(t, s.ID(), r.ID())
	assert.Equal(t, f.ID, r.SelectedID())
	assert.Equal(t, "A\n\nB", r.OptionsText())
	uid, ok := r.Definition().Linkage.UserID()
	assert.True(t, ok)
	assert.EqualValues(t, 2, uid)
}
