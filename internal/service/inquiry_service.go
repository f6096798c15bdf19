package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vbonduro/atelier/internal/domain"
	"github.com/vbonduro/atelier/internal/store"
)

// ErrNotFound is returned for operations on an inquiry that does not exist.
var ErrNotFound = store.ErrNotFound

// ValidationError reports a rejected submission.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// inquiryRepository is the subset of store.InquiryStore that InquiryService requires.
type inquiryRepository interface {
	Create(ctx context.Context, in *domain.ContactInquiry) (*domain.ContactInquiry, error)
	GetByID(ctx context.Context, id int64) (*domain.ContactInquiry, error)
	List(ctx context.Context) ([]*domain.ContactInquiry, error)
	UpdateStatus(ctx context.Context, id int64, status domain.InquiryStatus) error
}

// FlexString accepts a JSON string or number. Form clients send numeric
// inputs either way.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("expected string or number")
	}
	*f = FlexString(n.String())
	return nil
}

// ContactSubmission is the public contact form payload. Contact is the
// phone number.
type ContactSubmission struct {
	Name         string      `json:"name" validate:"required,max=200"`
	Contact      FlexString  `json:"contact" validate:"required,max=50"`
	Email        *string     `json:"email" validate:"omitempty,max=254"`
	Address      *string     `json:"address" validate:"omitempty,max=500"`
	ProjectType  *string     `json:"projectType" validate:"omitempty,max=100"`
	PropertyType *string     `json:"propertyType" validate:"omitempty,max=100"`
	TotalArea    *FlexString `json:"totalArea" validate:"omitempty,max=50"`
	NumRooms     *FlexString `json:"numRooms" validate:"omitempty,max=50"`
	Budget       *FlexString `json:"budget" validate:"omitempty,max=100"`
	Timeline     *string     `json:"timeline" validate:"omitempty,max=100"`
	Message      *string     `json:"message" validate:"omitempty,max=5000"`
}

type InquiryService struct {
	store    inquiryRepository
	validate *validator.Validate
	logger   *slog.Logger
}

func NewInquiryService(store inquiryRepository, logger *slog.Logger) *InquiryService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &InquiryService{
		store:    store,
		validate: validate,
		logger:   logger,
	}
}

// Submit stores a contact form submission. Only name and contact are
// required. Identity fields keep an explicit empty string; the free-form
// details store NULL when blank.
func (s *InquiryService) Submit(ctx context.Context, sub ContactSubmission) (*domain.ContactInquiry, error) {
	if err := s.validate.Struct(sub); err != nil {
		return nil, validationError(err)
	}

	inquiry, err := s.store.Create(ctx, &domain.ContactInquiry{
		Name:         sub.Name,
		Phone:        string(sub.Contact),
		Email:        sub.Email,
		Address:      sub.Address,
		ProjectType:  sub.ProjectType,
		PropertyType: sub.PropertyType,
		TotalArea:    blankToNil(flexPtr(sub.TotalArea)),
		NumRooms:     blankToNil(flexPtr(sub.NumRooms)),
		Budget:       blankToNil(flexPtr(sub.Budget)),
		Timeline:     blankToNil(sub.Timeline),
		Message:      blankToNil(sub.Message),
		Status:       domain.StatusPending,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("contact inquiry received", "id", inquiry.ID)
	return inquiry, nil
}

func (s *InquiryService) List(ctx context.Context) ([]*domain.ContactInquiry, error) {
	return s.store.List(ctx)
}

func (s *InquiryService) Get(ctx context.Context, id int64) (*domain.ContactInquiry, error) {
	inquiry, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inquiry == nil {
		return nil, ErrNotFound
	}
	return inquiry, nil
}

// SetStatus moves an inquiry to status and returns the updated record.
func (s *InquiryService) SetStatus(ctx context.Context, id int64, status domain.InquiryStatus) (*domain.ContactInquiry, error) {
	if !status.Valid() {
		return nil, &ValidationError{Message: fmt.Sprintf("Invalid status %q", status)}
	}
	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.logger.Info("inquiry status changed", "id", id, "status", status)
	return s.Get(ctx, id)
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Message: err.Error()}
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return &ValidationError{Message: "Missing required fields"}
		}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &ValidationError{Message: "Invalid fields: " + strings.Join(fields, ", ")}
}

func flexPtr(f *FlexString) *string {
	if f == nil {
		return nil
	}
	s := string(*f)
	return &s
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
