package repository

import (
	_ "embed"
	"fmt"
	"skincare_service/internal/domain"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

//go:embed data/skin_issues.yaml
var skinIssueCatalog []byte

type skinIssueEntry struct {
	domain.SkinIssueInfo `yaml:",inline"`
	Keywords             []string `yaml:"keywords"`
	ProductTypes         []string `yaml:"product_types"`
	AlternativeQueries   []string `yaml:"alternative_queries"`
	RetryQueries         []string `yaml:"retry_queries"`
}

type catalogSkinIssueRepository struct {
	entries map[domain.SkinIssue]skinIssueEntry
	log     *logrus.Logger
}

// NewSkinIssueRepository loads the catalog shipped with the binary.
func NewSkinIssueRepository(logger *logrus.Logger) (domain.SkinIssueRepository, error) {
	return NewSkinIssueRepositoryFromYAML(skinIssueCatalog, logger)
}

// NewSkinIssueRepositoryFromYAML parses a catalog document keyed by issue
// label. Every label must be present; every label except healthy needs a
// title and description.
func NewSkinIssueRepositoryFromYAML(doc []byte, logger *logrus.Logger) (domain.SkinIssueRepository, error) {
	raw := map[string]skinIssueEntry{}
	if err := yaml.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("could not parse skin issue catalog: %w", err)
	}

	entries := make(map[domain.SkinIssue]skinIssueEntry, len(raw))
	for key, entry := range raw {
		issue, err := domain.ParseSkinIssue(key)
		if err != nil {
			return nil, fmt.Errorf("skin issue catalog: %w", err)
		}
		entry.Issue = issue
		entries[issue] = entry
	}
	for _, issue := range domain.SkinIssues {
		entry, ok := entries[issue]
		if !ok {
			return nil, fmt.Errorf("skin issue catalog: missing %s", issue)
		}
		if issue != domain.SkinIssueHealthy && (entry.Title == "" || entry.Description == "") {
			return nil, fmt.Errorf("skin issue catalog: %s needs a title and description", issue)
		}
		if len(entry.ProductTypes) == 0 {
			return nil, fmt.Errorf("skin issue catalog: %s has no product types", issue)
		}
	}

	logger.Infof("Repository: Loaded skin issue catalog with %d entries", len(entries))
	return &catalogSkinIssueRepository{entries: entries, log: logger}, nil
}

func (r *catalogSkinIssueRepository) GetInfo(issue domain.SkinIssue) (*domain.SkinIssueInfo, error) {
	entry, ok := r.entries[issue]
	if !ok || entry.Title == "" {
		r.log.Warnf("Repository: No care guide for skin issue %q", issue)
		return nil, fmt.Errorf("skin issue %q info: %w", issue, domain.ErrNotFound)
	}
	info := entry.SkinIssueInfo
	return &info, nil
}

// ListInfos returns care guides in model label order.
func (r *catalogSkinIssueRepository) ListInfos() []domain.SkinIssueInfo {
	infos := make([]domain.SkinIssueInfo, 0, len(r.entries))
	for _, issue := range domain.SkinIssues {
		if entry, ok := r.entries[issue]; ok && entry.Title != "" {
			infos = append(infos, entry.SkinIssueInfo)
		}
	}
	return infos
}

func (r *catalogSkinIssueRepository) Keywords(issue domain.SkinIssue) []string {
	return append([]string(nil), r.entries[issue].Keywords...)
}

func (r *catalogSkinIssueRepository) ProductTypes(issue domain.SkinIssue) []string {
	return append([]string(nil), r.entries[issue].ProductTypes...)
}

func (r *catalogSkinIssueRepository) AlternativeQueries(issue domain.SkinIssue) []string {
	return append([]string(nil), r.entries[issue].AlternativeQueries...)
}

func (r *catalogSkinIssueRepository) RetryQueries(issue domain.SkinIssue) []string {
	return append([]string(nil), r.entries[issue].RetryQueries...)
}
