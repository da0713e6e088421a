package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/crucial707/student-records/internal/models"
)

// ========================
// REPOSITORY STRUCT
// ========================

type StudentRepo struct {
	DB *sql.DB
}

func NewStudentRepo(db *sql.DB) *StudentRepo {
	return &StudentRepo{DB: db}
}

// ========================
// CREATE STUDENT
// ========================

func (r *StudentRepo) Create(ctx context.Context, name string, age int, grade string) (models.Student, error) {
	var s models.Student
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO students (name, age, grade)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, age, grade`,
		name, age, grade,
	).Scan(&s.ID, &s.Name, &s.Age, &s.Grade)
	if err != nil {
		return models.Student{}, fmt.Errorf("create student: %w", err)
	}
	return s, nil
}

// ========================
// GET STUDENT BY ID
// ========================

func (r *StudentRepo) GetByID(ctx context.Context, id int) (models.Student, error) {
	var s models.Student
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, age, grade
		 FROM students
		 WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.Name, &s.Age, &s.Grade)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Student{}, ErrNotFound
	}
	if err != nil {
		return models.Student{}, fmt.Errorf("get student %d: %w", id, err)
	}
	return s, nil
}

// ========================
// UPDATE STUDENT BY ID
// ========================

// Update overwrites every field of the student. ErrNotFound means no row matched.
func (r *StudentRepo) Update(ctx context.Context, id int, name string, age int, grade string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE students
		 SET name = $1, age = $2, grade = $3
		 WHERE id = $4`,
		name, age, grade, id,
	)
	if err != nil {
		return fmt.Errorf("update student %d: %w", id, err)
	}
	return requireRow(result)
}

// ========================
// DELETE STUDENT BY ID
// ========================

func (r *StudentRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM students WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete student %d: %w", id, err)
	}
	return requireRow(result)
}

// ========================
// LIST ALL STUDENTS
// ========================

func (r *StudentRepo) List(ctx context.Context) ([]models.Student, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name, age, grade FROM students ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	students := make([]models.Student, 0)
	for rows.Next() {
		var s models.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.Age, &s.Grade); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
