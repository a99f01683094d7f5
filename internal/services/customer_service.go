package services

import (
	"context"
	"errors"
	"fmt"

	"premium-backend/internal/models"
	"premium-backend/internal/repositories"
)

type CustomerService struct {
	Repo *repositories.CustomerRepository
}

func NewCustomerService(repo *repositories.CustomerRepository) *CustomerService {
	return &CustomerService{Repo: repo}
}

func (s *CustomerService) CreateCustomer(ctx context.Context, req *models.CreateCustomerRequest) (*models.Customer, error) {
	// Validate input
	if req.Name == "" || req.Phone == "" {
		return nil, errors.New("name and phone are required")
	}

	existing, err := s.Repo.GetByPhone(ctx, req.Phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("phone %s already belongs to %s", req.Phone, existing.Name)
	}

	customer := &models.Customer{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}

	if err := s.Repo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id int) (*models.Customer, error) {
	return s.Repo.Get(ctx, id)
}

func (s *CustomerService) SearchByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	if phone == "" {
		return nil, errors.New("phone number is required")
	}
	return s.Repo.GetByPhone(ctx, phone)
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	return s.Repo.List(ctx)
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, id int, req *models.UpdateCustomerRequest) (*models.Customer, error) {
	// Validate input
	if req.Name == "" || req.Phone == "" {
		return nil, errors.New("name and phone are required")
	}

	customer := &models.Customer{
		ID:      id,
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}

	if err := s.Repo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return s.Repo.Get(ctx, id)
}

// DeleteCustomer removes a customer. Refused while open debts point at them,
// so canonical debt rows never orphan.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int) error {
	open, err := s.Repo.HasOpenDebts(ctx, id)
	if err != nil {
		return err
	}
	if open {
		return errors.New("customer has open debts and can not be deleted")
	}
	return s.Repo.Delete(ctx, id)
}
