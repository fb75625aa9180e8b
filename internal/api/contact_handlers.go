package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bibliotecaonline/biblioteca-server/internal/domain"
	"github.com/bibliotecaonline/biblioteca-server/internal/service"
	"github.com/bibliotecaonline/biblioteca-server/internal/validation"
)

func (s *Server) registerContactRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "submitContact",
		Method:        http.MethodPost,
		Path:          "/api/v1/contact",
		Summary:       "Submit contact form",
		Description:   "Validates the form and appends it to the contact log",
		Tags:          []string{"Contact"},
		DefaultStatus: http.StatusCreated,
	}, s.handleSubmitContact)

	huma.Register(s.api, huma.Operation{
		OperationID: "listContacts",
		Method:      http.MethodGet,
		Path:        "/api/v1/contact",
		Summary:     "List contact messages",
		Description: "Returns the contact log, newest first",
		Tags:        []string{"Contact"},
	}, s.handleListContacts)

	huma.Register(s.api, huma.Operation{
		OperationID: "maskPhone",
		Method:      http.MethodPost,
		Path:        "/api/v1/contact/phone-mask",
		Summary:     "Mask phone number",
		Description: "Applies the progressive phone mask the form uses while typing",
		Tags:        []string{"Contact"},
	}, s.handleMaskPhone)
}

// SubmitContactInput is the contact form.
type SubmitContactInput struct {
	Body service.ContactInput
}

// ContactResultOutput wraps a stored submission.
type ContactResultOutput struct {
	Body service.ContactResult
}

func (s *Server) handleSubmitContact(ctx context.Context, input *SubmitContactInput) (*ContactResultOutput, error) {
	result, err := s.services.Contact.Submit(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &ContactResultOutput{Body: result}, nil
}

// ListContactsInput filters the contact log.
type ListContactsInput struct {
	Email string `query:"email" doc:"Only messages sent from this address"`
}

// ContactListResponse is the contact log.
type ContactListResponse struct {
	Messages []domain.ContactMessage `json:"messages"`
	Total    int                     `json:"total"`
}

// ContactListOutput wraps the contact log.
type ContactListOutput struct {
	Body ContactListResponse
}

func (s *Server) handleListContacts(ctx context.Context, input *ListContactsInput) (*ContactListOutput, error) {
	messages, err := s.services.Contact.ListByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	return &ContactListOutput{Body: ContactListResponse{Messages: messages, Total: len(messages)}}, nil
}

// MaskPhoneRequest carries raw phone input.
type MaskPhoneRequest struct {
	Phone string `json:"phone" maxLength:"64" doc:"Raw input, any characters"`
}

// MaskPhoneInput wraps the phone mask request.
type MaskPhoneInput struct {
	Body MaskPhoneRequest
}

// MaskPhoneResponse is the masked value.
type MaskPhoneResponse struct {
	Masked string `json:"masked" doc:"Masked value, e.g. (11) 98765-4321"`
	Valid  bool   `json:"valid" doc:"Whether the masked value is a complete phone number"`
}

// MaskPhoneOutput wraps the masked value.
type MaskPhoneOutput struct {
	Body MaskPhoneResponse
}

func (s *Server) handleMaskPhone(_ context.Context, input *MaskPhoneInput) (*MaskPhoneOutput, error) {
	masked := service.MaskPhone(input.Body.Phone)
	return &MaskPhoneOutput{Body: MaskPhoneResponse{
		Masked: masked,
		Valid:  validation.IsMaskedPhone(masked),
	}}, nil
}
