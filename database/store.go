package database

import (
	"context"
	"errors"
	"fmt"

	"profitdesk/models"

	"gorm.io/gorm"
)

// Store is the ledger of users, employees, projects and time entries.
// Every call runs in a session bound to the caller's context.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) session(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return models.ErrConflict
	default:
		return err
	}
}

// TimeEntries returns the entries matching f with Employee and Project
// loaded, newest first.
func (s *Store) TimeEntries(ctx context.Context, f models.EntryFilter) ([]models.TimeEntry, error) {
	query := s.session(ctx).Preload("Employee").Preload("Project")

	if f.Month != nil {
		query = query.Where("time_entries.entry_date >= ? AND time_entries.entry_date < ?", f.Month.Start(), f.Month.End())
	}
	if f.ProjectID > 0 {
		query = query.Where("time_entries.project_id = ?", f.ProjectID)
	}
	if f.EmployeeID > 0 {
		query = query.Where("time_entries.employee_id = ?", f.EmployeeID)
	}

	var entries []models.TimeEntry
	if err := query.Order("time_entries.entry_date desc, time_entries.id desc").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("query time entries: %w", err)
	}
	return entries, nil
}

func (s *Store) TimeEntry(ctx context.Context, id uint) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	if err := s.session(ctx).First(&entry, id).Error; err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

func (s *Store) CreateTimeEntry(ctx context.Context, entry *models.TimeEntry) error {
	if err := s.requireRefs(ctx, entry); err != nil {
		return err
	}
	return translate(s.session(ctx).Omit("Employee", "Project").Create(entry).Error)
}

func (s *Store) SaveTimeEntry(ctx context.Context, entry *models.TimeEntry) error {
	if err := s.requireRefs(ctx, entry); err != nil {
		return err
	}
	return translate(s.session(ctx).Omit("Employee", "Project").Save(entry).Error)
}

func (s *Store) DeleteTimeEntry(ctx context.Context, id uint) error {
	return s.delete(ctx, &models.TimeEntry{}, id)
}

// requireRefs checks that the employee and project of entry exist.
func (s *Store) requireRefs(ctx context.Context, entry *models.TimeEntry) error {
	if _, err := s.Employee(ctx, entry.EmployeeID); err != nil {
		return fmt.Errorf("employee %d: %w", entry.EmployeeID, err)
	}
	if _, err := s.Project(ctx, entry.ProjectID); err != nil {
		return fmt.Errorf("project %d: %w", entry.ProjectID, err)
	}
	return nil
}

func (s *Store) Project(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	if err := s.session(ctx).First(&project, id).Error; err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

func (s *Store) Projects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := s.session(ctx).Order("id").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *Store) CreateProject(ctx context.Context, project *models.Project) error {
	return translate(s.session(ctx).Create(project).Error)
}

func (s *Store) SaveProject(ctx context.Context, project *models.Project) error {
	return translate(s.session(ctx).Save(project).Error)
}

// DeleteProject removes a project, failing with ErrConflict while time
// entries still reference it.
func (s *Store) DeleteProject(ctx context.Context, id uint) error {
	if err := s.requireUnreferenced(ctx, "project_id", id); err != nil {
		return err
	}
	return s.delete(ctx, &models.Project{}, id)
}

func (s *Store) Employee(ctx context.Context, id uint) (*models.Employee, error) {
	var employee models.Employee
	if err := s.session(ctx).First(&employee, id).Error; err != nil {
		return nil, translate(err)
	}
	return &employee, nil
}

func (s *Store) Employees(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	if err := s.session(ctx).Order("id").Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return employees, nil
}

// EmployeeForUser returns the employee linked to the user, ErrNotFound if
// there is none.
func (s *Store) EmployeeForUser(ctx context.Context, userID uint) (*models.Employee, error) {
	var employee models.Employee
	if err := s.session(ctx).Where("user_id = ?", userID).First(&employee).Error; err != nil {
		return nil, translate(err)
	}
	return &employee, nil
}

func (s *Store) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	if err := s.requireUser(ctx, employee.UserID); err != nil {
		return err
	}
	return translate(s.session(ctx).Create(employee).Error)
}

func (s *Store) SaveEmployee(ctx context.Context, employee *models.Employee) error {
	if err := s.requireUser(ctx, employee.UserID); err != nil {
		return err
	}
	return translate(s.session(ctx).Save(employee).Error)
}

// requireUser rejects a link to a user that does not exist.
func (s *Store) requireUser(ctx context.Context, userID *uint) error {
	if userID == nil {
		return nil
	}
	var count int64
	if err := s.session(ctx).Model(&models.User{}).Where("id = ?", *userID).Count(&count).Error; err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: user %d does not exist", models.ErrValidation, *userID)
	}
	return nil
}

func (s *Store) DeleteEmployee(ctx context.Context, id uint) error {
	if err := s.requireUnreferenced(ctx, "employee_id", id); err != nil {
		return err
	}
	return s.delete(ctx, &models.Employee{}, id)
}

func (s *Store) requireUnreferenced(ctx context.Context, column string, id uint) error {
	var count int64
	if err := s.session(ctx).Model(&models.TimeEntry{}).Where(column+" = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("count time entries: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%d time entries: %w", count, models.ErrConflict)
	}
	return nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.session(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.session(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// CreateUser inserts user, failing with ErrDuplicateEmail when the email is
// taken.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	var count int64
	if err := s.session(ctx).Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return models.ErrDuplicateEmail
	}

	err := s.session(ctx).Omit("Employee").Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrDuplicateEmail
	}
	return err
}

func (s *Store) delete(ctx context.Context, model any, id uint) error {
	result := s.session(ctx).Delete(model, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
