package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SkinType is the skin condition label shown to the user after an analysis.
// Only the four constants below are valid.
type SkinType string

const (
	SkinTypeStain      SkinType = "Leke"
	SkinTypeAcne       SkinType = "Akne"
	SkinTypeWrinkle    SkinType = "Kırışıklık"
	SkinTypeDarkCircle SkinType = "Koyu Halka"
)

// SkinTypes lists the labels in declaration order.
var SkinTypes = []SkinType{SkinTypeStain, SkinTypeAcne, SkinTypeWrinkle, SkinTypeDarkCircle}

func (t SkinType) Valid() bool {
	switch t {
	case SkinTypeStain, SkinTypeAcne, SkinTypeWrinkle, SkinTypeDarkCircle:
		return true
	}
	return false
}

// Issue returns the model label the skin type was derived from.
func (t SkinType) Issue() SkinIssue {
	switch t {
	case SkinTypeStain:
		return SkinIssueStain
	case SkinTypeAcne:
		return SkinIssueAcne
	case SkinTypeWrinkle:
		return SkinIssueWrinkle
	case SkinTypeDarkCircle:
		return SkinIssueBlackCircle
	}
	return ""
}

// ParseSkinType accepts exactly one of the four labels, byte for byte.
func ParseSkinType(s string) (SkinType, error) {
	t := SkinType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSkinType, s)
	}
	return t, nil
}

func (t *SkinType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSkinType, err)
	}
	parsed, err := ParseSkinType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// SkinIssue is a label emitted by the skin analysis model.
type SkinIssue string

const (
	SkinIssueAcne        SkinIssue = "acne"
	SkinIssuePockmark    SkinIssue = "pockmark"
	SkinIssueStain       SkinIssue = "stain"
	SkinIssueWrinkle     SkinIssue = "wrinkle"
	SkinIssueBlackCircle SkinIssue = "black_circle"
	SkinIssueHealthy     SkinIssue = "healthy"
)

// SkinIssues is the model's label order.
var SkinIssues = []SkinIssue{
	SkinIssueAcne,
	SkinIssuePockmark,
	SkinIssueStain,
	SkinIssueWrinkle,
	SkinIssueBlackCircle,
	SkinIssueHealthy,
}

// issueThresholds holds the minimum confidence for a label to count as
// detected. healthy is never thresholded.
var issueThresholds = map[SkinIssue]float64{
	SkinIssueAcne:        0.5,
	SkinIssuePockmark:    0.5,
	SkinIssueStain:       0.92,
	SkinIssueWrinkle:     0.96,
	SkinIssueBlackCircle: 0.5,
}

func (i SkinIssue) Valid() bool {
	switch i {
	case SkinIssueAcne, SkinIssuePockmark, SkinIssueStain,
		SkinIssueWrinkle, SkinIssueBlackCircle, SkinIssueHealthy:
		return true
	}
	return false
}

// Threshold returns the detection threshold and whether the label has one.
func (i SkinIssue) Threshold() (float64, bool) {
	v, ok := issueThresholds[i]
	return v, ok
}

// SkinType maps the model label to the user-facing label. pockmark and
// healthy have none.
func (i SkinIssue) SkinType() (SkinType, bool) {
	switch i {
	case SkinIssueAcne:
		return SkinTypeAcne, true
	case SkinIssueStain:
		return SkinTypeStain, true
	case SkinIssueWrinkle:
		return SkinTypeWrinkle, true
	case SkinIssueBlackCircle:
		return SkinTypeDarkCircle, true
	}
	return "", false
}

func ParseSkinIssue(s string) (SkinIssue, error) {
	i := SkinIssue(strings.ToLower(strings.TrimSpace(s)))
	if !i.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSkinIssue, s)
	}
	return i, nil
}

func (i *SkinIssue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSkinIssue, err)
	}
	parsed, err := ParseSkinIssue(s)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// SkinIssueInfo is the care guide shown for a detected issue.
type SkinIssueInfo struct {
	Issue       SkinIssue `json:"issue" yaml:"-"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Causes      []string  `json:"causes" yaml:"causes"`
	DailyCare   []string  `json:"daily_care" yaml:"daily_care"`
	Tips        []string  `json:"tips" yaml:"tips"`
}

// SkinIssueRepository serves the read-only issue catalog.
type SkinIssueRepository interface {
	GetInfo(issue SkinIssue) (*SkinIssueInfo, error)
	ListInfos() []SkinIssueInfo
	Keywords(issue SkinIssue) []string
	ProductTypes(issue SkinIssue) []string
	AlternativeQueries(issue SkinIssue) []string
	RetryQueries(issue SkinIssue) []string
}
