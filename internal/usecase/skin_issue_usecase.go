package usecase

import (
	"skincare_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type SkinIssueUseCase interface {
	GetSkinIssue(label string) (*domain.SkinIssueInfo, error)
	ListSkinIssues() []domain.SkinIssueInfo
}

type skinIssueUseCase struct {
	issueRepo domain.SkinIssueRepository
	log       *logrus.Logger
}

func NewSkinIssueUseCase(repo domain.SkinIssueRepository, logger *logrus.Logger) SkinIssueUseCase {
	return &skinIssueUseCase{issueRepo: repo, log: logger}
}

// GetSkinIssue accepts a model label in any case. healthy is a valid label
// without a care guide and reports not found.
func (uc *skinIssueUseCase) GetSkinIssue(label string) (*domain.SkinIssueInfo, error) {
	issue, err := domain.ParseSkinIssue(label)
	if err != nil {
		uc.log.Warnf("Use Case: Attempted to get unknown skin issue %q", label)
		return nil, err
	}
	info, err := uc.issueRepo.GetInfo(issue)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get skin issue %s: %v", issue, err)
		return nil, err
	}
	return info, nil
}

func (uc *skinIssueUseCase) ListSkinIssues() []domain.SkinIssueInfo {
	return uc.issueRepo.ListInfos()
}
