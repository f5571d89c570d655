package builder

import (
	"time"

	"github.com/stake-plus/discord-forms/src/shared/forms"
)

// Draft is the working copy of a form template while the wizard runs.
type Draft struct {
	Embed            forms.EmbedSpec
	Fields           []forms.FieldSpec
	Button           forms.ButtonSpec
	FormChannel      string
	ResponseChannel  string
	PublicChannel    string
	FormType         forms.FormType
	RequiresApproval bool
}

// Session is one author's wizard state. Sessions are keyed by user id and
// single-writer by construction; concurrent edits from the same user race
// last-write-wins.
type Session struct {
	GuildID   string
	UserID    string
	Draft     Draft
	UpdatedAt time.Time
}

// NewSession returns a session holding the wizard defaults.
func NewSession(guildID, userID string) *Session {
	return &Session{
		GuildID: guildID,
		UserID:  userID,
		Draft: Draft{
			Embed: forms.EmbedSpec{
				Title:       "New Form",
				Description: "Click the button below to submit a form",
				Color:       "#0099ff",
			},
			Button: forms.ButtonSpec{
				Label: "Submit Form",
				Style: forms.StylePrimary,
			},
			FormType: forms.FormTypePrivate,
		},
		UpdatedAt: time.Now(),
	}
}

func (s *Session) touch() { s.UpdatedAt = time.Now() }

// SetEmbedField updates one appearance field after validating it. On
// failure the draft is unchanged and the error names the reason.
func (s *Session) SetEmbedField(key, value string) error {
	switch key {
	case "title":
		if len(value) > forms.MaxTitle {
			return forms.NewValidationError("title must be at most %d characters", forms.MaxTitle)
		}
		s.Draft.Embed.Title = value
	case "description":
		if len(value) > forms.MaxDescription {
			return forms.NewValidationError("description must be at most %d characters", forms.MaxDescription)
		}
		s.Draft.Embed.Description = value
	case "footer":
		if len(value) > forms.MaxFooter {
			return forms.NewValidationError("footer must be at most %d characters", forms.MaxFooter)
		}
		s.Draft.Embed.Footer = value
	case "color":
		if !forms.ValidColor(value) {
			return forms.NewValidationError("invalid hex color format, use #RRGGBB (e.g. #FF0000)")
		}
		s.Draft.Embed.Color = value
	case "thumbnail":
		if !forms.ValidThumbnail(value) {
			return forms.NewValidationError("invalid URL format, enter a valid HTTP/HTTPS URL")
		}
		s.Draft.Embed.Thumbnail = value
	default:
		return forms.NewValidationError("unknown embed field %q", key)
	}
	s.touch()
	return nil
}

// AddField appends an input field, preserving insertion order.
func (s *Session) AddField(label, placeholder string, required bool) error {
	if len(s.Draft.Fields) >= forms.MaxFields {
		return forms.NewValidationError("maximum of %d fields allowed per form", forms.MaxFields)
	}
	if label == "" {
		return forms.NewValidationError("field label is required")
	}
	if len(label) > forms.MaxFieldLabel {
		return forms.NewValidationError("field label must be at most %d characters", forms.MaxFieldLabel)
	}
	if len(placeholder) > forms.MaxPlaceholder {
		return forms.NewValidationError("placeholder must be at most %d characters", forms.MaxPlaceholder)
	}
	s.Draft.Fields = append(s.Draft.Fields, forms.FieldSpec{
		Label:       label,
		Placeholder: placeholder,
		Required:    required,
	})
	s.touch()
	return nil
}

// SetButton updates the entry button label and style.
func (s *Session) SetButton(label, style string) error {
	parsed, err := forms.ParseButtonStyle(style)
	if err != nil {
		return err
	}
	if label == "" {
		return forms.NewValidationError("button label is required")
	}
	if len(label) > forms.MaxButtonLabel {
		return forms.NewValidationError("button label must be at most %d characters", forms.MaxButtonLabel)
	}
	s.Draft.Button = forms.ButtonSpec{Label: label, Style: parsed}
	s.touch()
	return nil
}

// SetFormType switches the form type. Moving to private clears the public
// channel; moving away leaves it unset until explicitly provided.
func (s *Session) SetFormType(t forms.FormType) {
	s.Draft.FormType = t
	s.Draft.RequiresApproval = t.RequiresApproval()
	if t == forms.FormTypePrivate {
		s.Draft.PublicChannel = ""
	}
	s.touch()
}

// CanAccept reports whether the draft is complete enough to persist.
func (s *Session) CanAccept() bool {
	d := &s.Draft
	if d.FormChannel == "" || d.ResponseChannel == "" || len(d.Fields) == 0 {
		return false
	}
	if d.FormType != forms.FormTypePrivate && d.PublicChannel == "" {
		return false
	}
	return true
}

// TemplateData returns the persistable portion of the draft.
func (s *Session) TemplateData() forms.TemplateData {
	return forms.TemplateData{
		Fields: s.Draft.Fields,
		Embed:  s.Draft.Embed,
		Button: s.Draft.Button,
	}
}
