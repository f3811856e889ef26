package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"helpdesk.link/models"
	"helpdesk.link/pkg/formdef"
	"helpdesk.link/pkg/formfill"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCreator bağlantıdan onay gereksinimini türeten servisi taklit eder.
type fakeCreator struct {
	linkage  models.Linkage
	calls    int
	payloads []*formfill.Payload
	err      error
	receipt  *Receipt
	block    chan struct{}
}

func (f *fakeCreator) CreateTicket(_ context.Context, _ string, p *formfill.Payload) (Receipt, error) {
	f.calls++
	f.payloads = append(f.payloads, p)
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return Receipt{}, f.err
	}
	if f.receipt != nil {
		return *f.receipt, nil
	}
	return Receipt{
		TicketNumber:     f.calls,
		CreatedAt:        time.Date(2025, 3, 10, 2, 30, 0, 0, time.UTC),
		ApprovalRequired: f.linkage.RequiresApproval(),
	}, nil
}

func accessForm(linkage models.Linkage) formdef.Definition {
	return formdef.Definition{
		ID:        1,
		Name:      "Solicitação de Acesso",
		PublicURL: "abc123",
		Linkage:   linkage,
		Fields: []models.FormField{
			{ID: "nome", Type: models.FieldText, Label: "Nome", Required: true},
			{ID: "dep", Type: models.FieldSelect, Label: "Departamento", Required: true, Options: []string{"TI", "RH"}},
		},
	}
}

func filled(t *testing.T, d formdef.Definition) *formfill.Fill {
	t.Helper()
	f := formfill.New(d.Public())
	require.NoError(t, f.SetText("nome", "Ana"))
	require.NoError(t, f.SetText("dep", "TI"))
	return f
}

func saoPaulo(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	return loc
}

func TestScenarioUnlinkedFormNoApproval(t *testing.T) {
	d := accessForm(models.NoLinkage())
	require.True(t, formdef.CanSave(d))

	creator := &fakeCreator{linkage: d.Linkage}
	conf, err := New(creator, saoPaulo(t)).Submit(context.Background(), filled(t, d))
	require.NoError(t, err)
	assert.False(t, conf.ApprovalRequired)
	assert.Equal(t, 1, conf.TicketNumber)
	assert.Equal(t, "20250309001", conf.TicketID)
}

func TestScenarioGroupLinkedFormRequiresApproval(t *testing.T) {
	d := formdef.SetLinkage(accessForm(models.NoLinkage()), models.LinkGroup(7))

	creator := &fakeCreator{linkage: d.Linkage}
	conf, err := New(creator, saoPaulo(t)).Submit(context.Background(), filled(t, d))
	require.NoError(t, err)
	assert.True(t, conf.ApprovalRequired)
}

func TestScenarioMissingRequiredBlocksSubmit(t *testing.T) {
	d := accessForm(models.NoLinkage())
	f := formfill.New(d.Public())
	require.NoError(t, f.SetText("dep", "RH"))

	creator := &fakeCreator{}
	_, err := New(creator, time.UTC).Submit(context.Background(), f)

	var verr *formfill.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"nome": formfill.MsgRequired}, verr.Errors)
	assert.Zero(t, creator.calls)
}

func TestCreatorFailureIsGeneric(t *testing.T) {
	d := accessForm(models.NoLinkage())
	creator := &fakeCreator{err: errors.New("502 bad gateway")}

	_, err := New(creator, time.UTC).Submit(context.Background(), filled(t, d))
	assert.ErrorIs(t, err, ErrSubmissionFailed)
	assert.Equal(t, 1, creator.calls, "no retry")
}

func TestUnexpectedReceiptShape(t *testing.T) {
	d := accessForm(models.NoLinkage())
	for name, r := range map[string]Receipt{
		"zero number": {CreatedAt: time.Now()},
		"zero time":   {TicketNumber: 4},
	} {
		t.Run(name, func(t *testing.T) {
			r := r
			_, err := New(&fakeCreator{receipt: &r}, time.UTC).Submit(context.Background(), filled(t, d))
			assert.ErrorIs(t, err, ErrSubmissionFailed)
		})
	}
}

func TestRepeatedSubmitsCreateSeparateTickets(t *testing.T) {
	d := accessForm(models.NoLinkage())
	creator := &fakeCreator{}
	s := New(creator, time.UTC)

	first, err := s.Submit(context.Background(), filled(t, d))
	require.NoError(t, err)
	second, err := s.Submit(context.Background(), filled(t, d))
	require.NoError(t, err)
	assert.NotEqual(t, first.TicketNumber, second.TicketNumber)
	assert.Equal(t, 2, creator.calls)
}

func TestConcurrentSubmitRejected(t *testing.T) {
	d := accessForm(models.NoLinkage())
	creator := &fakeCreator{block: make(chan struct{})}
	s := New(creator, time.UTC)

	first := filled(t, d)
	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), first)
		done <- err
	}()
	require.Eventually(t, s.InFlight, time.Second, 5*time.Millisecond)

	_, err := s.Submit(context.Background(), filled(t, d))
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(creator.block)
	require.NoError(t, <-done)
	assert.False(t, s.InFlight())
}

func TestPayloadCarriesValues(t *testing.T) {
	d := accessForm(models.NoLinkage())
	creator := &fakeCreator{}
	_, err := New(creator, time.UTC).Submit(context.Background(), filled(t, d))
	require.NoError(t, err)

	require.Len(t, creator.payloads, 1)
	assert.Equal(t, map[string]any{"nome": "Ana", "dep": "TI"}, creator.payloads[0].Values)
}
