package service

import (
	"fmt"
	"strings"

	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/permission"
	"github.com/iliyamo/restaurant-pos/internal/repository"
	"github.com/iliyamo/restaurant-pos/internal/utils"
)

// StaffService manages roles, employees and plugin toggles, and resolves the
// effective permissions of an employee.
type StaffService struct {
	d          Deps
	bcryptCost int
}

func NewStaffService(d Deps, bcryptCost int) *StaffService {
	return &StaffService{d: d.withDefaults(), bcryptCost: bcryptCost}
}

// SeedDefaults installs the system roles that are missing and applies the
// initial plugin flags.
func (s *StaffService) SeedDefaults(plugins model.Plugins) error {
	return s.d.Store.Update(func(tx *repository.Tx) error {
		for _, r := range permission.DefaultRoles() {
			if _, ok := tx.Role(r.ID); !ok {
				tx.PutRole(r)
			}
		}
		tx.SetPlugins(plugins)
		return nil
	})
}

// Permissions resolves the effective permissions of employeeID against the
// current role and plugin state.  It returns nil when the employee or the
// role no longer exists.
func (s *StaffService) Permissions(employeeID string) *permission.Set {
	var set *permission.Set
	_ = s.d.Store.View(func(tx *repository.Tx) error {
		e, ok := tx.Employee(employeeID)
		if !ok {
			return nil
		}
		r, ok := tx.Role(e.RoleID)
		if !ok {
			return nil
		}
		set = permission.Resolve(&r, tx.Plugins())
		return nil
	})
	return set
}

// Plugins returns the current plugin flags.
func (s *StaffService) Plugins() model.Plugins {
	var p model.Plugins
	_ = s.d.Store.View(func(tx *repository.Tx) error {
		p = tx.Plugins()
		return nil
	})
	return p
}

// SetPlugins replaces the plugin flags.
func (s *StaffService) SetPlugins(p model.Plugins) {
	_ = s.d.Store.Update(func(tx *repository.Tx) error {
		tx.SetPlugins(p)
		return nil
	})
}

func validPerms(perms map[string]bool) error {
	for k := range perms {
		if !permission.Known(permission.Key(k)) {
			return fmt.Errorf("unknown permission %q: %w", k, ErrInvalidInput)
		}
	}
	return nil
}

// Roles lists every role.
func (s *StaffService) Roles() []model.Role {
	var out []model.Role
	_ = s.d.Store.View(func(tx *repository.Tx) error {
		out = tx.Roles()
		return nil
	})
	return out
}

// CreateRole adds a custom role.
func (s *StaffService) CreateRole(name string, perms map[string]bool) (model.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Role{}, fmt.Errorf("role name: %w", ErrInvalidInput)
	}
	if err := validPerms(perms); err != nil {
		return model.Role{}, err
	}
	r := model.Role{ID: s.d.NewID(), Name: name, Permissions: perms}
	err := s.d.Store.Update(func(tx *repository.Tx) error {
		tx.PutRole(r)
		return nil
	})
	return r, err
}

// UpdateRole renames a role and replaces its permission flags.  System
// roles may be edited.
func (s *StaffService) UpdateRole(id, name string, perms map[string]bool) (model.Role, error) {
	if err := validPerms(perms); err != nil {
		return model.Role{}, err
	}
	var out model.Role
	err := s.d.Store.Update(func(tx *repository.Tx) error {
		r, ok := tx.Role(id)
		if !ok {
			return fmt.Errorf("role %s: %w", id, repository.ErrNotFound)
		}
		if n := strings.TrimSpace(name); n != "" {
			r.Name = n
		}
		if perms != nil {
			r.Permissions = perms
		}
		tx.PutRole(r)
		out = r
		return nil
	})
	return out, err
}

// DeleteRole removes a custom role that no employee references.
func (s *StaffService) DeleteRole(id string) error {
	return s.d.Store.Update(func(tx *repository.Tx) error {
		r, ok := tx.Role(id)
		if !ok {
			return fmt.Errorf("role %s: %w", id, repository.ErrNotFound)
		}
		if r.IsSystem {
			return fmt.Errorf("role %s: %w", r.Name, repository.ErrProtected)
		}
		for _, e := range tx.Employees() {
			if e.RoleID == id {
				return fmt.Errorf("role %s is assigned to %s: %w", r.Name, e.Name, repository.ErrConflict)
			}
		}
		tx.DeleteRole(id)
		return nil
	})
}

// Employees lists every employee.
func (s *StaffService) Employees() []model.Employee {
	var out []model.Employee
	_ = s.d.Store.View(func(tx *repository.Tx) error {
		out = tx.Employees()
		return nil
	})
	return out
}

// Employee returns one employee.
func (s *StaffService) Employee(id string) (model.Employee, error) {
	var e model.Employee
	err := s.d.Store.View(func(tx *repository.Tx) error {
		var ok bool
		if e, ok = tx.Employee(id); !ok {
			return fmt.Errorf("employee %s: %w", id, repository.ErrNotFound)
		}
		return nil
	})
	return e, err
}

// CreateEmployee adds an employee with a bcrypt-hashed PIN.  An empty id
// gets a generated one.
func (s *StaffService) CreateEmployee(id, name, roleID, pin string) (model.Employee, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(pin) < 4 {
		return model.Employee{}, fmt.Errorf("employee: %w", ErrInvalidInput)
	}
	hash, err := utils.HashPassword(pin, s.bcryptCost)
	if err != nil {
		return model.Employee{}, err
	}
	if id == "" {
		id = s.d.NewID()
	}
	e := model.Employee{ID: id, Name: name, RoleID: roleID, PINHash: hash}
	err = s.d.Store.Update(func(tx *repository.Tx) error {
		if _, ok := tx.Role(roleID); !ok {
			return fmt.Errorf("role %s: %w", roleID, repository.ErrNotFound)
		}
		if _, dup := tx.Employee(id); dup {
			return fmt.Errorf("employee %s: %w", id, repository.ErrConflict)
		}
		tx.PutEmployee(e)
		return nil
	})
	return e, err
}

// SetEmployeeRole reassigns an employee's single role.
func (s *StaffService) SetEmployeeRole(employeeID, roleID string) (model.Employee, error) {
	var out model.Employee
	err := s.d.Store.Update(func(tx *repository.Tx) error {
		e, ok := tx.Employee(employeeID)
		if !ok {
			return fmt.Errorf("employee %s: %w", employeeID, repository.ErrNotFound)
		}
		if _, ok := tx.Role(roleID); !ok {
			return fmt.Errorf("role %s: %w", roleID, repository.ErrNotFound)
		}
		e.RoleID = roleID
		tx.PutEmployee(e)
		out = e
		return nil
	})
	return out, err
}

// Authenticate checks an employee PIN.  Unknown employees and wrong PINs
// both yield ErrForbidden.
func (s *StaffService) Authenticate(employeeID, pin string) (model.Employee, error) {
	var e model.Employee
	_ = s.d.Store.View(func(tx *repository.Tx) error {
		e, _ = tx.Employee(employeeID)
		return nil
	})
	if e.ID == "" || !utils.VerifyPassword(e.PINHash, pin) {
		return model.Employee{}, repository.ErrForbidden
	}
	return e, nil
}
