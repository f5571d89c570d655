package forms

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Form types
type FormType string

const (
	FormTypePrivate    FormType = "private"
	FormTypePublic     FormType = "public"
	FormTypeSuggestion FormType = "suggestion"
)

// ParseFormType validates a form type value.
func ParseFormType(v string) (FormType, error) {
	switch FormType(strings.ToLower(v)) {
	case FormTypePrivate:
		return FormTypePrivate, nil
	case FormTypePublic:
		return FormTypePublic, nil
	case FormTypeSuggestion:
		return FormTypeSuggestion, nil
	}
	return "", NewValidationError("unknown form type %q, expected private, public or suggestion", v)
}

// RequiresApproval reports whether submissions to this form type pass
// through the approval queue before publication.
func (t FormType) RequiresApproval() bool {
	return t != FormTypePrivate
}

// Button styles
type ButtonStyle string

const (
	StylePrimary   ButtonStyle = "primary"
	StyleSecondary ButtonStyle = "secondary"
	StyleSuccess   ButtonStyle = "success"
	StyleDanger    ButtonStyle = "danger"
)

// ParseButtonStyle accepts the four recognized style names, case-insensitive.
func ParseButtonStyle(v string) (ButtonStyle, error) {
	switch ButtonStyle(strings.ToLower(v)) {
	case StylePrimary:
		return StylePrimary, nil
	case StyleSecondary:
		return StyleSecondary, nil
	case StyleSuccess:
		return StyleSuccess, nil
	case StyleDanger:
		return StyleDanger, nil
	}
	return "", NewValidationError("invalid button style %q, use PRIMARY, SECONDARY, SUCCESS or DANGER", v)
}

// Discord-imposed length limits.
const (
	MaxFields         = 5
	MaxFieldLabel     = 45
	MaxPlaceholder    = 100
	MaxTitle          = 256
	MaxDescription    = 4000
	MaxFooter         = 2048
	MaxButtonLabel    = 80
	MaxResponseLength = 1024
	MaxReasonLength   = 1024
)

// NoResponse marks an optional field the submitter left blank.
const NoResponse = "No response provided"

var (
	colorRe     = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	thumbnailRe = regexp.MustCompile(`(?i)^https?://.+`)
)

// ValidColor reports whether v is a # followed by six hex digits.
func ValidColor(v string) bool { return colorRe.MatchString(v) }

// ValidThumbnail reports whether v looks like an http(s) URL.
func ValidThumbnail(v string) bool { return thumbnailRe.MatchString(v) }

// FieldSpec is one input field of a form template. Order is meaningful:
// the field index addresses the matching modal input on submission.
type FieldSpec struct {
	Label       string `json:"label"`
	Placeholder string `json:"placeholder,omitempty"`
	Required    bool   `json:"required"`
}

// EmbedSpec controls the appearance of the form entry and response embeds.
type EmbedSpec struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Footer      string `json:"footer,omitempty"`
}

// ButtonSpec controls the form entry button.
type ButtonSpec struct {
	Label string      `json:"label"`
	Style ButtonStyle `json:"style"`
}

// TemplateData is the JSON document persisted in the form_templates.fields
// column: the ordered field list plus appearance.
type TemplateData struct {
	Fields []FieldSpec `json:"fields"`
	Embed  EmbedSpec   `json:"embed"`
	Button ButtonSpec  `json:"button"`
}

// EncodeTemplateData serializes template data for storage.
func EncodeTemplateData(d TemplateData) (string, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encode template data: %w", err)
	}
	return string(raw), nil
}

// DecodeTemplateData deserializes the form_templates.fields column.
func DecodeTemplateData(raw string) (TemplateData, error) {
	var d TemplateData
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return TemplateData{}, fmt.Errorf("decode template data: %w", err)
	}
	return d, nil
}

// Response is one answered field of a submission.
type Response struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ResponseList keeps submission answers in template field order.
type ResponseList []Response

// EncodeResponses serializes responses for storage.
func EncodeResponses(r ResponseList) (string, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encode responses: %w", err)
	}
	return string(raw), nil
}

// DecodeResponses deserializes the submitted_forms.responses column.
func DecodeResponses(raw string) (ResponseList, error) {
	var r ResponseList
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("decode responses: %w", err)
	}
	return r, nil
}

// Vote types
type VoteType string

const (
	VoteUp   VoteType = "upvote"
	VoteDown VoteType = "downvote"
)

// Submission statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approve"
	StatusDenied   = "deny"
)

// Truncate shortens text to max characters, appending "..." when cut.
func Truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max-3] + "..."
}
