package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/bibliotecaonline/biblioteca-server/internal/errors"
	"github.com/bibliotecaonline/biblioteca-server/internal/sse"
	"github.com/bibliotecaonline/biblioteca-server/internal/store"
	"github.com/bibliotecaonline/biblioteca-server/internal/validation"
)

func newTestContact(t *testing.T, delay time.Duration) (*ContactService, *recordingEmitter) {
	t.Helper()

	st, err := store.New("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	events := &recordingEmitter{}
	svc := NewContactService(st, validation.New(), events, nil, quietLogger(), delay)

	clock := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc, events
}

func validContact() ContactInput {
	return ContactInput{
		Name:    "Maria Silva",
		Email:   "maria@example.com",
		Phone:   "11987654321",
		Subject: "sugestao",
		Message: "Gostaria de sugerir novos títulos.",
	}
}

func TestMaskPhone(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"abc", ""},
		{"1", "(1"},
		{"11", "(11"},
		{"119", "(11) 9"},
		{"1198765", "(11) 98765"},
		{"11987654", "(11) 98765-4"},
		{"11987654321", "(11) 98765-4321"},
		{"(11) 98765-4321", "(11) 98765-4321"},
		{"1198765432199", "(11) 98765-4321"},
		{"1133334444", "(11) 33334-444"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskPhone(tt.in))
		})
	}
}

func TestContactService_Submit(t *testing.T) {
	svc, events := newTestContact(t, 0)
	ctx := context.Background()

	res, err := svc.Submit(ctx, validContact())
	require.NoError(t, err)

	assert.Contains(t, res.Message.ID, "msg-")
	assert.Equal(t, "(11) 98765-4321", res.Message.Phone)
	assert.Equal(t, NoticeSuccess, res.Notice.Kind)
	assert.Equal(t, []sse.EventType{sse.EventContactReceived}, events.Types())

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, res.Message, all[0])
}

func TestContactService_SubmitValidation(t *testing.T) {
	svc, events := newTestContact(t, 0)

	in := ContactInput{Name: " Al ", Email: "nope", Phone: "1198", Message: "curta"}
	_, err := svc.Submit(context.Background(), in)
	require.ErrorIs(t, err, domainerrors.ErrValidation)

	var de *domainerrors.Error
	require.ErrorAs(t, err, &de)
	details := de.Details.(map[string]string)
	for _, field := range []string{"name", "email", "phone", "subject", "message"} {
		assert.Contains(t, details, field)
	}
	assert.Empty(t, events.Types())
}

func TestContactService_PhoneIsOptional(t *testing.T) {
	svc, _ := newTestContact(t, 0)

	in := validContact()
	in.Phone = ""
	res, err := svc.Submit(context.Background(), in)
	require.NoError(t, err)
	assert.Empty(t, res.Message.Phone)
}

func TestContactService_PhoneNeedsElevenDigits(t *testing.T) {
	svc, _ := newTestContact(t, 0)

	for _, phone := range []string{"1133334444", "(11) 3333-4444"} {
		in := validContact()
		in.Phone = phone
		_, err := svc.Submit(context.Background(), in)
		require.ErrorIs(t, err, domainerrors.ErrValidation, phone)

		var de *domainerrors.Error
		require.ErrorAs(t, err, &de)
		assert.Contains(t, de.Details.(map[string]string), "phone")
	}
}

func TestContactService_ListNewestFirst(t *testing.T) {
	svc, _ := newTestContact(t, 0)
	ctx := context.Background()

	first := validContact()
	second := validContact()
	second.Email = "Joao@Example.com"
	second.Name = "João Pereira"

	_, err := svc.Submit(ctx, first)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, second)
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "João Pereira", all[0].Name)

	byEmail, err := svc.ListByEmail(ctx, " joao@example.COM ")
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, "Joao@Example.com", byEmail[0].Email)

	none, err := svc.ListByEmail(ctx, "ninguem@example.com")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestContactService_ListByEmail_PrefixAddress(t *testing.T) {
	svc, _ := newTestContact(t, 0)
	ctx := context.Background()

	owner, err := svc.Submit(ctx, validContact())
	require.NoError(t, err)

	other := validContact()
	other.Email = "maria@example.com:x"
	_, err = svc.Submit(ctx, other)
	require.NoError(t, err)

	byEmail, err := svc.ListByEmail(ctx, "maria@example.com")
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, owner.Message.ID, byEmail[0].ID)
}

func TestContactService_DelayHonoursContext(t *testing.T) {
	svc, _ := newTestContact(t, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Submit(ctx, validContact())
	assert.ErrorIs(t, err, domainerrors.ErrUnavailable)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}
