package service

import (
	"context"
	"fmt"
	"strings"

	"bookshelf-backend/internal/domains/student"
)

// studentService implements student.Service.
type studentService struct {
	repo student.Repository
}

func NewStudentService(repo student.Repository) student.Service {
	return &studentService{
		repo: repo,
	}
}

// sampleStudents rotate through AddSample. The email gets a numeric
// suffix so repeated calls never trip the uniqueness constraint.
var sampleStudents = []student.Student{
	{Name: "Alice Nguyen", Email: "alice", Course: "Computer Science"},
	{Name: "Bob Tran", Email: "bob", Course: "Mathematics"},
	{Name: "Carol Pham", Email: "carol", Course: "Physics"},
	{Name: "David Le", Email: "david", Course: "Biology"},
	{Name: "Eve Hoang", Email: "eve", Course: "Chemistry"},
}

func (s *studentService) List(ctx context.Context, filter student.Filter) ([]student.Student, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(ctx, filter)
}

func (s *studentService) Create(ctx context.Context, req *student.CreateStudentRequest) (*student.Student, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Course = strings.TrimSpace(req.Course)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	newStudent := &student.Student{
		Name:   req.Name,
		Email:  req.Email,
		Course: req.Course,
	}

	return s.repo.Create(ctx, newStudent)
}

// AddSample inserts the next sample student, rotating through the
// fixture list based on how many students already exist.
func (s *studentService) AddSample(ctx context.Context) (*student.Student, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}

	sample := sampleStudents[count%int64(len(sampleStudents))]
	sample.Email = fmt.Sprintf("%s%d@example.edu", sample.Email, count+1)

	return s.repo.Create(ctx, &sample)
}

func (s *studentService) Update(ctx context.Context, id int64, req *student.UpdateStudentRequest) (*student.Student, error) {
	if id <= 0 {
		return nil, student.ErrStudentNotFound
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Course = strings.TrimSpace(req.Course)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	updated := &student.Student{
		ID:     id,
		Name:   req.Name,
		Email:  req.Email,
		Course: req.Course,
	}

	return s.repo.Update(ctx, updated)
}

func (s *studentService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return student.ErrStudentNotFound
	}
	return s.repo.Delete(ctx, id)
}
