package company

import (
	"context"
	"fmt"

	"github.com/bizledger/backend/internal/domain/company"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CompanyService reads and maintains the tenant record
type CompanyService struct {
	companyRepo company.Repository
	userRepo    identity.UserRepository
	logger      *zap.Logger
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(companyRepo company.Repository, userRepo identity.UserRepository, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// Get returns the company
func (s *CompanyService) Get(ctx context.Context, companyID uuid.UUID) (*CompanyResponse, error) {
	c, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := ToCompanyResponse(c)
	return &resp, nil
}

// Find returns the domain company; document services use it for prefixes and print headers
func (s *CompanyService) Find(ctx context.Context, companyID uuid.UUID) (*company.Company, error) {
	return s.companyRepo.FindByID(ctx, companyID)
}

// Update applies profile and settings changes
func (s *CompanyService) Update(ctx context.Context, companyID uuid.UUID, req UpdateCompanyRequest) (*CompanyResponse, error) {
	c, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if req.touchesProfile() {
		p := company.Profile{Name: c.Name, Email: c.Email, Phone: c.Phone, Address: c.Address, TaxID: c.TaxID}
		setIf(&p.Name, req.Name)
		setIf(&p.Email, req.Email)
		setIf(&p.Phone, req.Phone)
		setIf(&p.Address, req.Address)
		setIf(&p.TaxID, req.TaxID)
		if err := c.UpdateProfile(p); err != nil {
			return nil, err
		}
	}

	if req.touchesSettings() {
		st := company.Settings{
			Currency:         c.Currency,
			InvoicePrefix:    c.InvoicePrefix,
			ReceiptPrefix:    c.ReceiptPrefix,
			PaymentTermsDays: c.PaymentTermsDays,
		}
		setIf(&st.Currency, req.Currency)
		setIf(&st.InvoicePrefix, req.InvoicePrefix)
		setIf(&st.ReceiptPrefix, req.ReceiptPrefix)
		if req.PaymentTermsDays != nil {
			st.PaymentTermsDays = *req.PaymentTermsDays
		}
		if err := c.UpdateSettings(st); err != nil {
			return nil, err
		}
	}

	if err := s.companyRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCompanyResponse(c)
	return &resp, nil
}

// ActiveCompanyIDs lists the companies periodic jobs run for
func (s *CompanyService) ActiveCompanyIDs(ctx context.Context) ([]uuid.UUID, error) {
	companies, err := s.companyRepo.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(companies))
	for i := range companies {
		ids[i] = companies[i].ID
	}
	return ids, nil
}

// Bootstrap creates a company and its first user. The role defaults to super_admin.
func (s *CompanyService) Bootstrap(ctx context.Context, in BootstrapInput) (*BootstrapResult, error) {
	role := identity.RoleSuperAdmin
	if in.AdminRole != "" {
		r, err := identity.ParseRole(in.AdminRole)
		if err != nil {
			return nil, err
		}
		role = r
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, in.AdminEmail)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
	}

	c, err := company.NewCompany(in.CompanyName, in.CompanyEmail)
	if err != nil {
		return nil, err
	}
	name := in.AdminName
	if name == "" {
		name = c.Name + " Admin"
	}
	user, err := identity.NewUser(c.ID, in.AdminEmail, name, in.AdminPassword, role)
	if err != nil {
		return nil, err
	}

	if err := s.companyRepo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save company: %w", err)
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save first user of company %s: %w", c.ID, err)
	}

	s.logger.Info("Company bootstrapped",
		zap.String("company_id", c.ID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("role", role.String()))

	return &BootstrapResult{CompanyID: c.ID, UserID: user.ID, Role: role.String()}, nil
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
