package service

import (
	"time"

	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateSupplierInput struct {
	ContactType      model.ContactType `json:"contact_type" validate:"required,oneof=Individual Business"`
	FirstName        string            `json:"first_name"`
	LastName         string            `json:"last_name"`
	BusinessName     string            `json:"business_name"`
	Email            string            `json:"email" validate:"required,email"`
	Whatsapp         string            `json:"whatsapp"`
	Address          string            `json:"address"`
	DateOfEnrollment string            `json:"date_of_enrollment" validate:"omitempty,datetime=2006-01-02"`
	IsPublicProfile  *bool             `json:"is_public_profile"`
	DuesAmount       decimal.Decimal   `json:"dues_amount" validate:"min=0"`
}

type SupplierService interface {
	Create(in *CreateSupplierInput) (*model.Supplier, error)
	GetByID(id uuid.UUID) (*model.Supplier, error)
	List() ([]model.Supplier, error)
}

type supplierService struct {
	suppliers repository.SupplierRepository
}

func NewSupplierService(suppliers repository.SupplierRepository) SupplierService {
	return &supplierService{suppliers: suppliers}
}

func (s *supplierService) Create(in *CreateSupplierInput) (*model.Supplier, error) {
	fields := validator.ValidateStruct(in)
	addField := func(key, msg string) {
		if fields == nil {
			fields = map[string][]string{}
		}
		fields[key] = append(fields[key], msg)
	}
	switch in.ContactType {
	case model.ContactIndividual:
		if in.FirstName == "" {
			addField("first_name", "First name is required for individual suppliers")
		}
	case model.ContactBusiness:
		if in.BusinessName == "" {
			addField("business_name", "Business name is required for business suppliers")
		}
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	supplier := &model.Supplier{
		ContactType:  in.ContactType,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		BusinessName: in.BusinessName,
		Email:        in.Email,
		Whatsapp:     in.Whatsapp,
		Address:      in.Address,
		DuesAmount:   in.DuesAmount,
	}
	if in.DateOfEnrollment != "" {
		enrolled, _ := time.Parse("2006-01-02", in.DateOfEnrollment)
		supplier.DateOfEnrollment = &enrolled
	}
	if in.IsPublicProfile != nil {
		supplier.IsPublicProfile = *in.IsPublicProfile
	} else {
		supplier.IsPublicProfile = true
	}

	if err := s.suppliers.Create(supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *supplierService) GetByID(id uuid.UUID) (*model.Supplier, error) {
	supplier, err := s.suppliers.FindByID(id)
	if err != nil {
		return nil, asNotFound(err)
	}
	return supplier, nil
}

func (s *supplierService) List() ([]model.Supplier, error) {
	return s.suppliers.FindAll()
}
