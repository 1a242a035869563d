package service

import (
	"time"

	"github.com/taskforge/taskforge/internal/model"
	"github.com/taskforge/taskforge/internal/repository"
)

type ProjectService struct {
	projectRepo repository.ProjectRepository
}

func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo}
}

func (s *ProjectService) List() ([]*model.Project, error) {
	projects, err := s.projectRepo.List()
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []*model.Project{}
	}
	return projects, nil
}

func (s *ProjectService) Create(name string) (*model.Project, error) {
	project := &model.Project{
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	err := s.projectRepo.Create(project)
	if err != nil {
		return nil, err
	}

	return project, nil
}
