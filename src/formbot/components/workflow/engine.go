package workflow

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/stake-plus/discord-forms/src/formbot/components/render"
	"github.com/stake-plus/discord-forms/src/shared/forms"
	"github.com/stake-plus/discord-forms/src/shared/types"
)

// TemplateStore is the slice of template persistence the engine needs.
type TemplateStore interface {
	Get(ctx context.Context, id uint64) (*types.FormTemplate, error)
}

// SubmissionStore is the submission/vote persistence the engine needs.
// Decide and CastVote are transactional in the implementation.
type SubmissionStore interface {
	Create(ctx context.Context, sub *types.SubmittedForm) error
	GetWithTemplate(ctx context.Context, id uint64) (*types.SubmittedForm, error)
	Decide(ctx context.Context, id uint64, status, reason, staffID string, at time.Time) (*types.SubmittedForm, error)
	SetPublicMessage(ctx context.Context, id uint64, messageID string) error
	CastVote(ctx context.Context, submissionID uint64, userID string, vote forms.VoteType, at time.Time) (up, down int64, err error)
}

// Messenger is the channel-messaging collaborator.
type Messenger interface {
	Send(channelID string, msg *discordgo.MessageSend) (string, error)
	Edit(channelID, messageID string, embeds []*discordgo.MessageEmbed, components []discordgo.MessageComponent) error
	DM(userID string, embed *discordgo.MessageEmbed) error
}

// Limiter throttles submissions per user.
type Limiter interface {
	Allow(ctx context.Context, userID string) (bool, time.Duration)
}

// Settings exposes the runtime flags the engine consults.
type Settings interface {
	SendDMToSubmitter() bool
}

type Config struct {
	Templates   TemplateStore
	Submissions SubmissionStore
	Messenger   Messenger
	Limiter     Limiter
	Settings    Settings
}

// Engine drives a submission through intake, approval and voting.
type Engine struct {
	templates   TemplateStore
	submissions SubmissionStore
	messenger   Messenger
	limiter     Limiter
	settings    Settings
}

func NewEngine(cfg Config) *Engine {
	return &Engine{
		templates:   cfg.Templates,
		submissions: cfg.Submissions,
		messenger:   cfg.Messenger,
		limiter:     cfg.Limiter,
		settings:    cfg.Settings,
	}
}

func infraErr(err error) *forms.InfrastructureError {
	return &forms.InfrastructureError{Ref: uuid.NewString()[:8], Err: err}
}

// OpenForm loads the template behind an entry button so the caller can show
// the input modal mirroring its ordered field list.
func (e *Engine) OpenForm(ctx context.Context, templateID uint64) (*types.FormTemplate, forms.TemplateData, error) {
	tmpl, err := e.templates.Get(ctx, templateID)
	if err != nil {
		return nil, forms.TemplateData{}, err
	}
	data, err := forms.DecodeTemplateData(tmpl.Fields)
	if err != nil {
		return nil, forms.TemplateData{}, infraErr(err)
	}
	return tmpl, data, nil
}

type SubmitRequest struct {
	TemplateID uint64
	UserID     string
	UserTag    string
	Values     []string
	// Authorized carries the delegated form_submission capability check.
	Authorized bool
}

// Submit records a pending submission and notifies the response channel
// with approve/deny affordances.
func (e *Engine) Submit(ctx context.Context, req SubmitRequest) (*types.SubmittedForm, error) {
	if !req.Authorized {
		return nil, forms.ErrPermissionDenied
	}

	if e.limiter != nil {
		ok, wait := e.limiter.Allow(ctx, req.UserID)
		if !ok {
			return nil, forms.NewValidationError("please wait %d seconds before submitting again", int(wait.Seconds())+1)
		}
	}

	tmpl, data, err := e.OpenForm(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}

	responses := make(forms.ResponseList, 0, len(data.Fields))
	for i, field := range data.Fields {
		value := ""
		if i < len(req.Values) {
			value = strings.TrimSpace(req.Values[i])
		}
		if value == "" {
			if field.Required {
				return nil, forms.NewValidationError("field %q is required", field.Label)
			}
			value = forms.NoResponse
		}
		responses = append(responses, forms.Response{Label: field.Label, Value: value})
	}

	raw, err := forms.EncodeResponses(responses)
	if err != nil {
		return nil, infraErr(err)
	}

	sub := &types.SubmittedForm{
		TemplateID:  tmpl.ID,
		UserID:      req.UserID,
		Responses:   raw,
		Status:      forms.StatusPending,
		SubmittedAt: time.Now(),
	}
	if err := e.submissions.Create(ctx, sub); err != nil {
		ie := infraErr(err)
		log.Printf("workflow: %v", ie)
		return nil, ie
	}

	msg := render.SubmissionMessage(data, responses, req.UserID, req.UserTag, sub.ID)
	if _, err := e.messenger.Send(tmpl.ResponseChannelID, msg); err != nil {
		// The submission is persisted; staff can still reach it, so report
		// the notify failure without undoing the intake.
		ie := infraErr(fmt.Errorf("notify response channel %s: %w", tmpl.ResponseChannelID, err))
		log.Printf("workflow: %v", ie)
		return sub, ie
	}

	return sub, nil
}

type DecideRequest struct {
	SubmissionID uint64
	Approve      bool
	Reason       string
	StaffID      string
	StaffTag     string
	// Authorized carries the delegated form_approval capability check.
	Authorized bool
	// The staff-facing post to edit in place.
	StaffChannelID string
	StaffMessageID string
	StaffEmbed     *discordgo.MessageEmbed
}

type DecideResult struct {
	Submission      *types.SubmittedForm
	PublicMessageID string
}

// Decide applies the terminal approve/deny transition exactly once. The
// staff post is edited in place, never deleted; approved submissions with a
// public channel are republished, suggestion forms with vote buttons.
func (e *Engine) Decide(ctx context.Context, req DecideRequest) (*DecideResult, error) {
	if !req.Authorized {
		return nil, forms.ErrPermissionDenied
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, forms.NewValidationError("a reason is required")
	}

	status := forms.StatusDenied
	if req.Approve {
		status = forms.StatusApproved
	}

	sub, err := e.submissions.Decide(ctx, req.SubmissionID, status, reason, req.StaffID, time.Now())
	if err != nil {
		return nil, err
	}

	if req.StaffEmbed != nil {
		decided := render.DecidedEmbed(req.StaffEmbed, req.Approve, reason, req.StaffID, req.StaffTag)
		if err := e.messenger.Edit(req.StaffChannelID, req.StaffMessageID,
			[]*discordgo.MessageEmbed{decided}, []discordgo.MessageComponent{}); err != nil {
			// The decision is committed; a stale staff post is cosmetic.
			log.Printf("workflow: edit staff post for submission %d: %v", sub.ID, err)
		}
	}

	result := &DecideResult{Submission: sub}

	if req.Approve && sub.Template.PublicChannelID != "" {
		publicID, err := e.publish(ctx, sub)
		if err != nil {
			ie := infraErr(err)
			log.Printf("workflow: %v", ie)
			return result, ie
		}
		result.PublicMessageID = publicID
	}

	if e.settings != nil && e.settings.SendDMToSubmitter() {
		if err := e.messenger.DM(sub.UserID, render.DecisionDM(req.Approve, reason)); err != nil {
			log.Printf("workflow: could not notify submitter %s: %v", sub.UserID, err)
		}
	}

	return result, nil
}

func (e *Engine) publish(ctx context.Context, sub *types.SubmittedForm) (string, error) {
	data, err := forms.DecodeTemplateData(sub.Template.Fields)
	if err != nil {
		return "", err
	}
	responses, err := forms.DecodeResponses(sub.Responses)
	if err != nil {
		return "", err
	}

	suggestion := forms.FormType(sub.Template.FormType) == forms.FormTypeSuggestion
	msg := render.PublicMessage(data, responses, sub.UserID, "", suggestion, sub.ID)
	messageID, err := e.messenger.Send(sub.Template.PublicChannelID, msg)
	if err != nil {
		return "", fmt.Errorf("post to public channel %s: %w", sub.Template.PublicChannelID, err)
	}
	if err := e.submissions.SetPublicMessage(ctx, sub.ID, messageID); err != nil {
		return "", err
	}
	sub.PublicMessageID = messageID
	return messageID, nil
}

type VoteRequest struct {
	SubmissionID uint64
	UserID       string
	Vote         forms.VoteType
	// The public post whose vote row gets refreshed.
	ChannelID string
	MessageID string
	Embeds    []*discordgo.MessageEmbed
}

// Vote records one vote per user per submission and refreshes the public
// post's counts. The vote row insert and counter bump are one transaction
// in the store.
func (e *Engine) Vote(ctx context.Context, req VoteRequest) (up, down int64, err error) {
	sub, err := e.submissions.GetWithTemplate(ctx, req.SubmissionID)
	if err != nil {
		return 0, 0, err
	}
	if sub.Status != forms.StatusApproved || forms.FormType(sub.Template.FormType) != forms.FormTypeSuggestion {
		return 0, 0, forms.NewValidationError("voting is not open on this submission")
	}

	up, down, err = e.submissions.CastVote(ctx, req.SubmissionID, req.UserID, req.Vote, time.Now())
	if err != nil {
		return 0, 0, err
	}

	if req.MessageID != "" {
		row := []discordgo.MessageComponent{render.VoteRow(req.SubmissionID, up, down)}
		if err := e.messenger.Edit(req.ChannelID, req.MessageID, req.Embeds, row); err != nil {
			// Vote is recorded; the stale count fixes itself on the next vote.
			log.Printf("workflow: refresh vote row for submission %d: %v", req.SubmissionID, err)
		}
	}

	return up, down, nil
}
