package rbac

import (
	"log"
	"sync"

	"go-peval/internal/domain"

	"github.com/casbin/casbin/v2"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadPolicy() error
	Enforce(req domain.EnforceRequest) (bool, error)

	ListRoles() ([]domain.RoleResponse, error)
	GetRole(id string) (*domain.RoleResponse, error)
	ListPermissions() ([]domain.PermissionResponse, error)
	UpdateRolePermissions(roleID string, permissionIDs []string) error
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer) Service {
	return &service{
		repo:     repo,
		enforcer: enforcer,
	}
}

func (s *service) LoadPolicy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadPolicyUnlocked()
}

func (s *service) loadPolicyUnlocked() error {
	s.enforcer.ClearPolicy()

	employeeRoles, err := s.repo.GetEmployeeRoles()
	if err != nil {
		return err
	}
	log.Printf("rbac load policy: employee_roles=%d", len(employeeRoles))

	for _, er := range employeeRoles {
		_, err := s.enforcer.AddGroupingPolicy(er.EmployeeID, er.RoleID)
		if err != nil {
			return err
		}
	}

	rolePerms, err := s.repo.GetRolePermissions()
	if err != nil {
		return err
	}
	log.Printf("rbac load policy: role_permissions=%d", len(rolePerms))

	for _, rp := range rolePerms {
		_, err := s.enforcer.AddPolicy(rp.RoleID, rp.Resource, rp.Action)
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadPolicyUnlocked(); err != nil {
		return false, err
	}

	return s.enforcer.Enforce(req.EmployeeID, req.Resource, req.Action)
}

func (s *service) ListRoles() ([]domain.RoleResponse, error) {
	roles, err := s.repo.ListRoles()
	if err != nil {
		return nil, err
	}

	out := make([]domain.RoleResponse, len(roles))
	for i, role := range roles {
		resp, err := s.roleResponse(role)
		if err != nil {
			return nil, err
		}
		out[i] = *resp
	}
	return out, nil
}

func (s *service) GetRole(id string) (*domain.RoleResponse, error) {
	role, err := s.repo.GetRoleByID(id)
	if err != nil {
		return nil, err
	}
	return s.roleResponse(*role)
}

func (s *service) roleResponse(role RoleRow) (*domain.RoleResponse, error) {
	perms, err := s.repo.GetPermissionsByRoleID(role.ID)
	if err != nil {
		return nil, err
	}

	resp := domain.RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: make([]string, len(perms)),
	}
	for i, p := range perms {
		resp.Permissions[i] = p.ID
	}
	return &resp, nil
}

func (s *service) ListPermissions() ([]domain.PermissionResponse, error) {
	perms, err := s.repo.ListPermissions()
	if err != nil {
		return nil, err
	}

	out := make([]domain.PermissionResponse, len(perms))
	for i, p := range perms {
		out[i] = domain.PermissionResponse{
			ID:       p.ID,
			Resource: p.Resource,
			Action:   p.Action,
			Label:    p.Label,
			Category: p.Category,
		}
	}
	return out, nil
}

func (s *service) UpdateRolePermissions(roleID string, permissionIDs []string) error {
	if err := s.repo.UpdateRolePermissions(roleID, permissionIDs); err != nil {
		return err
	}
	return s.LoadPolicy()
}
