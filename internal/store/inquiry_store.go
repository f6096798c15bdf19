package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vbonduro/atelier/internal/db"
	"github.com/vbonduro/atelier/internal/domain"
)

var ErrNotFound = errors.New("inquiry not found")

const inquiryColumns = `id, name, phone, email, address, project_type, property_type,
	total_area, num_rooms, budget, timeline, message, status, created_at, updated_at`

type InquiryStore struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewInquiryStore(conn *sql.DB, dialect db.Dialect) *InquiryStore {
	return &InquiryStore{db: conn, dialect: dialect}
}

func (s *InquiryStore) Create(ctx context.Context, in *domain.ContactInquiry) (*domain.ContactInquiry, error) {
	status := in.Status
	if status == "" {
		status = domain.StatusPending
	}

	var id int64
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(`
		INSERT INTO contact_inquiries
			(name, phone, email, address, project_type, property_type,
			 total_area, num_rooms, budget, timeline, message, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`), in.Name, in.Phone, in.Email, in.Address, in.ProjectType, in.PropertyType,
		in.TotalArea, in.NumRooms, in.Budget, in.Timeline, in.Message, string(status)).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create inquiry: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *InquiryStore) GetByID(ctx context.Context, id int64) (*domain.ContactInquiry, error) {
	row := s.db.QueryRowContext(ctx, s.dialect.Rebind(`
		SELECT `+inquiryColumns+` FROM contact_inquiries WHERE id = ?
	`), id)

	inquiry, err := scanInquiry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}

	return inquiry, nil
}

// List returns every inquiry, newest first.
func (s *InquiryStore) List(ctx context.Context) ([]*domain.ContactInquiry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+inquiryColumns+` FROM contact_inquiries ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list inquiries: %w", err)
	}
	defer rows.Close()

	inquiries := make([]*domain.ContactInquiry, 0)
	for rows.Next() {
		inquiry, err := scanInquiry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inquiry: %w", err)
		}
		inquiries = append(inquiries, inquiry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inquiries: %w", err)
	}

	return inquiries, nil
}

func (s *InquiryStore) UpdateStatus(ctx context.Context, id int64, status domain.InquiryStatus) error {
	result, err := s.db.ExecContext(ctx, s.dialect.Rebind(`
		UPDATE contact_inquiries SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`), string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update inquiry status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInquiry(row rowScanner) (*domain.ContactInquiry, error) {
	i := &domain.ContactInquiry{}
	var email, address, projectType, propertyType, totalArea, numRooms, budget, timeline, message sql.NullString
	var status string
	err := row.Scan(&i.ID, &i.Name, &i.Phone, &email, &address, &projectType, &propertyType,
		&totalArea, &numRooms, &budget, &timeline, &message, &status, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}

	i.Email = nullable(email)
	i.Address = nullable(address)
	i.ProjectType = nullable(projectType)
	i.PropertyType = nullable(propertyType)
	i.TotalArea = nullable(totalArea)
	i.NumRooms = nullable(numRooms)
	i.Budget = nullable(budget)
	i.Timeline = nullable(timeline)
	i.Message = nullable(message)
	i.Status = domain.InquiryStatus(status)
	return i, nil
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
