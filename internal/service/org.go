package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"accessibilityhire/internal/apperr"
	"accessibilityhire/internal/model"
	"accessibilityhire/internal/repository"
	"accessibilityhire/pkg/util"

	"github.com/sirupsen/logrus"
)

// OrgService handles organization business logic
type OrgService struct {
	repo repository.IOrgRepository
	log  *logrus.Entry
}

// NewOrgService creates a new org service
func NewOrgService(repo repository.IOrgRepository, log *logrus.Entry) *OrgService {
	return &OrgService{repo: repo, log: log.WithField("component", "org")}
}

func orgNotFound() *apperr.Error {
	return apperr.New(apperr.KindNotFound, apperr.CodeOrgNotFound, "Organization not found")
}

// CreateOrganization creates the caller's organization. Each user owns at most one.
func (s *OrgService) CreateOrganization(ctx context.Context, in model.CreateOrganizationInput) (*model.Organization, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.OrgName)
	if name == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, apperr.CodeOrgInvalid, "Organization name is required")
	}
	orgURL := strings.TrimSpace(in.OrgURL)
	if err := util.ValidateURL(orgURL); err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidArgument, apperr.CodeOrgInvalid, "Organization URL is invalid", err)
	}

	org, err := s.repo.Create(ctx, &model.Organization{
		OrgName:  name,
		OrgURL:   orgURL,
		About:    strings.TrimSpace(in.About),
		OwnerUID: caller.UserID,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperr.New(apperr.KindAlreadyExists, apperr.CodeOrgAlreadyExists, "You already have an organization")
	}
	if err != nil {
		return nil, apperr.Provider(apperr.CodeOrgProvider, fmt.Errorf("create organization: %w", err))
	}

	s.log.WithFields(logrus.Fields{"orgId": org.ID.Hex(), "owner": caller.UserID.Hex()}).Info("organization created")
	return org, nil
}

// UpdateOrganization merges in into the organization. org_name is only
// written when non-empty; absent fields are left unchanged. Only the owner
// may update.
func (s *OrgService) UpdateOrganization(ctx context.Context, id string, in model.UpdateOrganizationInput) (*model.Organization, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	oid, err := parseID(id, orgNotFound())
	if err != nil {
		return nil, err
	}

	var upd model.OrgUpdate
	if name := trimmed(in.OrgName); name != nil && *name != "" {
		upd.OrgName = name
	}
	if in.OrgURL != nil {
		upd.OrgURL = trimmed(in.OrgURL)
		if err := util.ValidateURL(*upd.OrgURL); err != nil {
			return nil, apperr.Wrap(apperr.KindInvalidArgument, apperr.CodeOrgInvalid, "Organization URL is invalid", err)
		}
	}
	if in.About != nil {
		upd.About = trimmed(in.About)
	}

	org, err := s.repo.UpdateOwned(ctx, oid, caller.UserID, upd)
	if err != nil {
		return nil, apperr.Provider(apperr.CodeOrgProvider, fmt.Errorf("update organization: %w", err))
	}
	if org != nil {
		return org, nil
	}

	existing, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, apperr.Provider(apperr.CodeOrgProvider, err)
	}
	if existing == nil {
		return nil, orgNotFound()
	}
	s.log.WithFields(logrus.Fields{"orgId": id, "caller": caller.UserID.Hex()}).Warn("organization update denied")
	return nil, apperr.New(apperr.KindPermissionDenied, apperr.CodeOrgPermissionDenied, apperr.MsgPermissionDenied)
}

// GetUserOrganization returns the caller's organization, or nil when none exists.
func (s *OrgService) GetUserOrganization(ctx context.Context) (*model.Organization, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	org, err := s.repo.FindByOwner(ctx, caller.UserID)
	if err != nil {
		return nil, apperr.Provider(apperr.CodeOrgProvider, err)
	}
	return org, nil
}

// GetAllOrganizations lists every organization, newest first
func (s *OrgService) GetAllOrganizations(ctx context.Context) ([]*model.Organization, error) {
	orgs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperr.Provider(apperr.CodeOrgProvider, err)
	}
	return orgs, nil
}
