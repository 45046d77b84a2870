package usecase

import (
	"fmt"
	"math"
	"skincare_service/internal/domain"

	"github.com/sirupsen/logrus"
)

// AnalysisResult lists what the classifier scores amount to.
type AnalysisResult struct {
	DetectedSkinIssues []domain.SkinIssue `json:"detected_skin_issues"`
	SkinTypes          []domain.SkinType  `json:"skin_types"`
}

type AnalysisUseCase interface {
	Analyze(scores map[string]float64) (*AnalysisResult, error)
}

type analysisUseCase struct {
	log *logrus.Logger
}

func NewAnalysisUseCase(logger *logrus.Logger) AnalysisUseCase {
	return &analysisUseCase{log: logger}
}

// Analyze applies the per-label thresholds to classifier scores. Labels
// are reported in model order; no detection means healthy.
func (uc *analysisUseCase) Analyze(scores map[string]float64) (*AnalysisResult, error) {
	if len(scores) == 0 {
		uc.log.Warn("Use Case: Analysis requested without scores")
		return nil, fmt.Errorf("%w: no scores provided", domain.ErrInvalidScores)
	}

	parsed := make(map[domain.SkinIssue]float64, len(scores))
	for label, score := range scores {
		issue, err := domain.ParseSkinIssue(label)
		if err != nil {
			uc.log.Warnf("Use Case: Unknown analysis label %q", label)
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidScores, err)
		}
		if math.IsNaN(score) || score < 0 || score > 1 {
			uc.log.Warnf("Use Case: Score %v for %s out of range", score, issue)
			return nil, fmt.Errorf("%w: score for %s must be within [0, 1]", domain.ErrInvalidScores, issue)
		}
		parsed[issue] = score
	}

	result := &AnalysisResult{
		DetectedSkinIssues: []domain.SkinIssue{},
		SkinTypes:          []domain.SkinType{},
	}
	for _, issue := range domain.SkinIssues {
		threshold, ok := issue.Threshold()
		if !ok {
			continue
		}
		if score, present := parsed[issue]; present && score >= threshold {
			result.DetectedSkinIssues = append(result.DetectedSkinIssues, issue)
			if st, ok := issue.SkinType(); ok {
				result.SkinTypes = append(result.SkinTypes, st)
			}
		}
	}
	if len(result.DetectedSkinIssues) == 0 {
		result.DetectedSkinIssues = append(result.DetectedSkinIssues, domain.SkinIssueHealthy)
	}

	uc.log.Infof("Use Case: Analysis detected %v", result.DetectedSkinIssues)
	return result, nil
}
