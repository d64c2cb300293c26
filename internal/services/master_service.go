package services

import (
	"context"

	"github.com/thirumala/cashbook/internal/query"
)

// MasterService lists the classification names used by filter dropdowns.
type MasterService struct {
	store LedgerRepository
}

func NewMasterService(store LedgerRepository) *MasterService {
	return &MasterService{store: store}
}

func (s *MasterService) Companies(ctx context.Context) ([]string, error) {
	return s.store.Distinct(ctx, query.ColCompany, query.Predicate{})
}

// Accounts lists account names, narrowed to one company when given.
func (s *MasterService) Accounts(ctx context.Context, companyName string) ([]string, error) {
	return s.store.Distinct(ctx, query.ColAccount, query.Build(query.Filter{CompanyName: companyName}))
}

// SubAccounts lists sub-account names, narrowed by company and account.
func (s *MasterService) SubAccounts(ctx context.Context, companyName, accountName string) ([]string, error) {
	p := query.Build(query.Filter{CompanyName: companyName, AccountName: accountName})
	return s.store.Distinct(ctx, query.ColSubAccount, p)
}
