package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stake-plus/discord-forms/src/shared/forms"
	"github.com/stake-plus/discord-forms/src/shared/types"
)

type fakeTemplates struct {
	byID map[uint64]*types.FormTemplate
}

func (f *fakeTemplates) Get(ctx context.Context, id uint64) (*types.FormTemplate, error) {
	tmpl, ok := f.byID[id]
	if !ok {
		return nil, forms.ErrNotFound
	}
	cp := *tmpl
	return &cp, nil
}

type fakeSubmissions struct {
	templates *fakeTemplates
	seq       uint64
	byID      map[uint64]*types.SubmittedForm
	votes     map[string]forms.VoteType // "subID/userID"
}

func newFakeSubmissions(templates *fakeTemplates) *fakeSubmissions {
	return &fakeSubmissions{
		templates: templates,
		byID:      make(map[uint64]*types.SubmittedForm),
		votes:     make(map[string]forms.VoteType),
	}
}

func (f *fakeSubmissions) Create(ctx context.Context, sub *types.SubmittedForm) error {
	f.seq++
	sub.ID = f.seq
	cp := *sub
	f.byID[sub.ID] = &cp
	return nil
}

func (f *fakeSubmissions) GetWithTemplate(ctx context.Context, id uint64) (*types.SubmittedForm, error) {
	sub, ok := f.byID[id]
	if !ok {
		return nil, forms.ErrNotFound
	}
	cp := *sub
	if tmpl, ok := f.templates.byID[sub.TemplateID]; ok {
		cp.Template = *tmpl
	}
	return &cp, nil
}

func (f *fakeSubmissions) Decide(ctx context.Context, id uint64, status, reason, staffID string, at time.Time) (*types.SubmittedForm, error) {
	sub, ok := f.byID[id]
	if !ok {
		return nil, forms.ErrNotFound
	}
	if sub.Status != forms.StatusPending {
		return nil, forms.ErrAlreadyDecided
	}
	sub.Status = status
	sub.ResponseReason = reason
	sub.RespondedBy = staffID
	sub.RespondedAt = &at
	return f.GetWithTemplate(ctx, id)
}

func (f *fakeSubmissions) SetPublicMessage(ctx context.Context, id uint64, messageID string) error {
	sub, ok := f.byID[id]
	if !ok {
		return forms.ErrNotFound
	}
	sub.PublicMessageID = messageID
	return nil
}

func (f *fakeSubmissions) CastVote(ctx context.Context, submissionID uint64, userID string, vote forms.VoteType, at time.Time) (int64, int64, error) {
	sub, ok := f.byID[submissionID]
	if !ok {
		return 0, 0, forms.ErrNotFound
	}
	key := fmt.Sprintf("%d/%s", submissionID, userID)
	if _, dup := f.votes[key]; dup {
		return 0, 0, forms.ErrAlreadyVoted
	}
	f.votes[key] = vote
	if vote == forms.VoteUp {
		sub.Upvotes++
	} else {
		sub.Downvotes++
	}
	return sub.Upvotes, sub.Downvotes, nil
}

type sentMessage struct {
	channelID string
	msg       *discordgo.MessageSend
}

type editedMessage struct {
	channelID  string
	messageID  string
	components []discordgo.MessageComponent
}

type fakeMessenger struct {
	sends   []sentMessage
	edits   []editedMessage
	dms     []string // user ids
	sendErr error
	editErr error
	dmErr   error
}

func (f *fakeMessenger) Send(channelID string, msg *discordgo.MessageSend) (string, error) {
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sends = append(f.sends, sentMessage{channelID, msg})
	return fmt.Sprintf("msg%d", len(f.sends)), nil
}

func (f *fakeMessenger) Edit(channelID, messageID string, embeds []*discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	if f.editErr != nil {
		return f.editErr
	}
	f.edits = append(f.edits, editedMessage{channelID, messageID, components})
	return nil
}

func (f *fakeMessenger) DM(userID string, embed *discordgo.MessageEmbed) error {
	if f.dmErr != nil {
		return f.dmErr
	}
	f.dms = append(f.dms, userID)
	return nil
}

type fakeLimiter struct {
	allow bool
	wait  time.Duration
}

func (f *fakeLimiter) Allow(ctx context.Context, userID string) (bool, time.Duration) {
	return f.allow, f.wait
}

type fakeSettings struct{ dm bool }

func (f fakeSettings) SendDMToSubmitter() bool { return f.dm }

func testTemplate(id uint64, formType forms.FormType, publicChannel string) *types.FormTemplate {
	data := forms.TemplateData{
		Fields: []forms.FieldSpec{
			{Label: "What happened?", Required: true},
			{Label: "Extra notes", Required: false},
		},
		Embed:  forms.EmbedSpec{Title: "Bug Report", Description: "desc", Color: "#FF0000"},
		Button: forms.ButtonSpec{Label: "Report", Style: forms.StylePrimary},
	}
	raw, err := forms.EncodeTemplateData(data)
	if err != nil {
		panic(err)
	}
	return &types.FormTemplate{
		ID:                id,
		GuildID:           "guild1",
		Name:              "Bug Report",
		Fields:            raw,
		FormChannelID:     "100",
		ResponseChannelID: "200",
		PublicChannelID:   publicChannel,
		FormType:          string(formType),
		RequiresApproval:  formType.RequiresApproval(),
	}
}

type fixture struct {
	engine      *Engine
	templates   *fakeTemplates
	submissions *fakeSubmissions
	messenger   *fakeMessenger
	limiter     *fakeLimiter
}

func newFixture(tmpl *types.FormTemplate, dm bool) *fixture {
	templates := &fakeTemplates{byID: map[uint64]*types.FormTemplate{tmpl.ID: tmpl}}
	submissions := newFakeSubmissions(templates)
	messenger := &fakeMessenger{}
	limiter := &fakeLimiter{allow: true}
	engine := NewEngine(Config{
		Templates:   templates,
		Submissions: submissions,
		Messenger:   messenger,
		Limiter:     limiter,
		Settings:    fakeSettings{dm: dm},
	})
	return &fixture{engine, templates, submissions, messenger, limiter}
}

func submit(t *testing.T, fx *fixture, values ...string) *types.SubmittedForm {
	t.Helper()
	sub, err := fx.engine.Submit(context.Background(), SubmitRequest{
		TemplateID: 1,
		UserID:     "user1",
		UserTag:    "user1#0",
		Values:     values,
		Authorized: true,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return sub
}

func TestSubmitRecordsPendingAndNotifiesStaff(t *testing.T) {
	fx := newFixture(testTemplate(1, forms.FormTypePrivate, ""), false)

	sub := submit(t, fx, "it crashed", "")

	if sub.Status != forms.StatusPending {
		t.Errorf("status = %q, want pending", sub.Status)
	}
	responses, err := forms.DecodeResponses(sub.Responses)
	if err != nil {
		t.Fatalf("decode responses: %v", err)
	}
	if len(responses) != 2 {
		t.Fatalf("responses = %d, want 2", len(responses))
	}
	if responses[0].Value != "it crashed" {
		t.Errorf("response 0 = %q", responses[0].Value)
	}
	if responses[1].Value != forms.NoResponse {
		t.Errorf("blank optional field = %q, want %q", responses[1].Value, forms.NoResponse)
	}

	if len(fx.messenger.sends) != 1 || fx.messenger.sends[0].channelID != "200" {
		t.Fatalf("staff notification sends = %+v", fx.messenger.sends)
	}
}

func TestSubmitUnauthorized(t *testing.T) {
	fx := newFixture(testTemplate(1, forms.FormTypePrivate, ""), false)

	_, err := fx.engine.Submit(context.Background(), SubmitRequest{
		TemplateID: 1,
		UserID:     "user1",
		Values:     []string{"x", ""},
	})
	if !errors.Is(err, forms.ErrPermissionDenied) {
		t.Errorf("err = %v, want ErrPermissionDenied", err)
	}
	if len(fx.submissions.byID) != 0 {
		t.Error("unauthorized submit was persisted")
	}
}

func TestSubmitMissingRequiredField(t *testing.T) {
	fx := newFixture(testTemplate(1, forms.FormTypePrivate, ""), false)

	_, err := fx.engine.Submit(context.Background(), SubmitRequest{
		TemplateID: 1,
		UserID:     "user1",
		Values:     []string{"   ", "notes"},
		Authorized: true,
	})
	if !forms.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if !strings.Contains(err.Error(), "What happened?") {
		t.Errorf("error should name the field: %q", err.Error())
	}
	if len(fx.submissions.byID) != 0 {
		t.Error("invalid submit was persisted")
	}
}

func TestSubmitRateLimited(t *testing.T) {
	fx := newFixture(testTemplate(1, forms.FormTypePrivate, ""), false)
	fx.limiter.allow = false
	fx.limiter.wait = 12 * time.Second

	_, err := fx.engine.Submit(context.Background(), SubmitRequest{
		TemplateID: 1,
		UserID:     "user1",
		Values:     []string{"x", ""},
		Authorized: true,
	})
	if !forms.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if !strings.Contains(err.Error(), "13 seconds") {
		t.Errorf("error should carry remaining wait: %q", err.Error())
	}
}

func TestSubmitNotifyFailureKeepsSubmission(t *testing.T) {
	fx := newFixture(testTemplate(1, forms.FormTypePrivate, ""), false)
	fx.messenger.sendErr = errors.New("channel deleted")

	sub, err := fx.engine.Submit(context.Background(), SubmitRequest{
		TemplateID: 1,
		UserID:     "user1",
		Values:     []string{"x", ""},
		Authorized: true,
	})
	if err == nil {
		t.Fatal("notify failure should surface an error")
	}
	ie := &forms.InfrastructureError{}
	if !errors.As(err, &ie) {
		t.Fatalf("err = %v, want infrastructure error", err)
	}
	if sub == nil || sub.ID == 0 {
		t.Fatal("submission should be persisted despite the notify failure")
	}
	if _, ok := fx.submissions.byID[sub.ID]; !ok {
		t.Error("submission missing from the store")
	}
}

func TestDecideDeny(t *testing.T) {
	fx := newFixture(testTemplate(1, forms.FormTypeSuggestion, "300"), true)
	sub := submit(t, fx, "add dark mode", "")

	res, err := fx.engine.Decide(context.Background(), DecideRequest{
		SubmissionID:   sub.ID,
		Approve:        false,
		Reason:         "Duplicate of an existing suggestion",
		StaffID:        "staff1",
		StaffTag:       "staff1#0",
		Authorized:     true,
		StaffChannelID: "200",
		StaffMessageID: "msg1",
		StaffEmbed:     &discordgo.MessageEmbed{Title: "New Submission: Bug Report"},
	})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if res.Submission.Status != forms.StatusDenied {
		t.Errorf("status = %q, want deny", res.Submission.Status)
	}
	if res.PublicMessageID != "" {
		t.Error("denied submission must not be republished")
	}

	// Staff post edited in place with the buttons stripped.
	if len(fx.messenger.edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(fx.messenger.edits))
	}
	edit := fx.messenger.edits[0]
	if edit.channelID != "200" || edit.messageID != "msg1" {
		t.Errorf("edited %s/%s, want 200/msg1", edit.channelID, edit.messageID)
	}
	if len(edit.components) != 0 {
		t.Errorf("decided post kept %d component rows", len(edit.components))
	}

	// Only the intake notification went out; nothing reached the public channel.
	if len(fx.messenger.sends) != 1 {
		t.Errorf("sends = %d, want 1", len(fx.messenger.sends))
	}
	if len(fx.messenger.dms) != 1 || fx.messenger.dms[0] != "user1" {
		t.Errorf("dms = %v, want [user1]", fx.messenger.dms)
	}
}

func TestDecideApproveSuggestionPublishesWithVoteRow(t *testing.T) {
	fx := newFixture(testTemplate(1, forms.FormTypeSuggestion, "300"), false)
	sub := submit(t, fx, "add dark mode", "")

	res, err := fx.engine.Decide(context.Background(), DecideRequest{
		SubmissionID: sub.ID,
		Approve:      true,
		Reason:       "Great idea",
		StaffID:      "staff1",
		Authorized:   true,
	})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if res.PublicMessageID == "" {
		t.Fatal("approved suggestion should be republished")
	}

	if len(fx.messenger.sends) != 2 {
		t.Fatalf("sends = %d, want 2", len(fx.messenger.sends))
	}
	public := fx.messenger.sends[1]
	if public.channelID != "300" {
		t.Errorf("public post channel = %q, want 300", public.channelID)
	}
	row, ok := public.msg.Components[0].(discordgo.ActionsRow)
	if !ok {
		t.Fatalf("public post component = %T, want ActionsRow", public.msg.Components[0])
	}
	upBtn := row.Components[0].(discordgo.Button)
	downBtn := row.Components[1].(discordgo.Button)
	if upBtn.Label != "👍 0" || downBtn.Label != "👎 0" {
		t.Errorf("vote labels = %q/%q, want 👍 0/👎 0", upBtn.Label, downBtn.Label)
	}

	stored := fx.submissions.byID[sub.ID]
	if stored.PublicMessageID != res.PublicMessageID {
		t.Errorf("stored public message id = %q, want %q", stored.PublicMessageID, res.PublicMessageID)
	}
}

func TestDecideApprovePrivateFormSkipsPublish(t *testing.T) {
	fx := newFixture(testTemplate(1, forms.FormTypePrivate, ""), false)
	sub := submit(t, fx, "it crashed", "")

	res, err := fx.engine.Decide(context.Background(), DecideRequest{
		SubmissionID: sub.ID,
		Approve:      true,
		Reason:       "Confirmed and fixed",
		StaffID:      "staff1",
		Authorized:   true,
	})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if res.PublicMessageID != "" {
		t.Error("private form must not be republished")
	}
	if len(fx.messenger.sends) != 1 {
		t.Errorf("sends = %d, want 1", len(fx.messenger.sends))
	}
}

func TestDecideTwiceFirstWins(t *testing.T) {
	fx := newFixture(testTemplate(1, forms.FormTypeSuggestion, "300"), false)
	sub := submit(t, fx, "add dark mode", "")

	req := DecideRequest{
		SubmissionID: sub.ID,
		Approve:      true,
		Reason:       "Great idea",
		StaffID:      "staff1",
		Authorized:   true,
	}
	if _, err := fx.engine.Decide(context.Background(), req); err != nil {
		t.Fatalf("first Decide: %v", err)
	}

	req.Approve = false
	req.Reason = "Changed my mind"
	_, err := fx.engine.Decide(context.Background(), req)
	if !errors.Is(err, forms.ErrAlreadyDecided) {
		t.Fatalf("second Decide = %v, want ErrAlreadyDecided", err)
	}

	if got := fx.submissions.byID[sub.ID].Status; got != forms.StatusApproved {
		t.Errorf("status after second decide = %q, want approve", got)
	}
}

func TestDecideRequiresReason(t *testing.T) {
	fx := newFixture(testTemplate(1, forms.FormTypePrivate, ""), false)
	sub := submit(t, fx, "it crashed", "")

	_, err := fx.engine.Decide(context.Background(), DecideRequest{
		SubmissionID: sub.ID,
		Approve:      true,
		Reason:       "   ",
		Authorized:   true,
	})
	if !forms.IsValidation(err) {
		t.Errorf("err = %v, want validation error", err)
	}
	if fx.submissions.byID[sub.ID].Status != forms.StatusPending {
		t.Error("reasonless decide changed the status")
	}
}

func TestDecideDMFailureDoesNotFail(t *testing.T) {
	fx := newFixture(testTemplate(1, forms.FormTypePrivate, ""), true)
	fx.messenger.dmErr = errors.New("DMs closed")
	sub := submit(t, fx, "it crashed", "")

	if _, err := fx.engine.Decide(context.Background(), DecideRequest{
		SubmissionID: sub.ID,
		Approve:      false,
		Reason:       "Cannot reproduce",
		Authorized:   true,
	}); err != nil {
		t.Fatalf("Decide should succeed when only the DM fails: %v", err)
	}
}

func approveSuggestion(t *testing.T, fx *fixture, id uint64) {
	t.Helper()
	if _, err := fx.engine.Decide(context.Background(), DecideRequest{
		SubmissionID: id,
		Approve:      true,
		Reason:       "Approved",
		StaffID:      "staff1",
		Authorized:   true,
	}); err != nil {
		t.Fatalf("approve: %v", err)
	}
}

func TestVoteCountsAndRefreshesRow(t *testing.T) {
	fx := newFixture(testTemplate(1, forms.FormTypeSuggestion, "300"), false)
	sub := submit(t, fx, "add dark mode", "")
	approveSuggestion(t, fx, sub.ID)

	up, down, err := fx.engine.Vote(context.Background(), VoteRequest{
		SubmissionID: sub.ID,
		UserID:       "voter1",
		Vote:         forms.VoteUp,
		ChannelID:    "300",
		MessageID:    "msg2",
	})
	if err != nil {
		t.Fatalf("Vote: %v", err)
	}
	if up != 1 || down != 0 {
		t.Errorf("counts = %d/%d, want 1/0", up, down)
	}

	up, down, err = fx.engine.Vote(context.Background(), VoteRequest{
		SubmissionID: sub.ID,
		UserID:       "voter2",
		Vote:         forms.VoteDown,
		ChannelID:    "300",
		MessageID:    "msg2",
	})
	if err != nil {
		t.Fatalf("Vote: %v", err)
	}
	if up != 1 || down != 1 {
		t.Errorf("counts = %d/%d, want 1/1", up, down)
	}

	if len(fx.messenger.edits) != 2 {
		t.Fatalf("vote row edits = %d, want 2", len(fx.messenger.edits))
	}
	row := fx.messenger.edits[1].components[0].(discordgo.ActionsRow)
	upBtn := row.Components[0].(discordgo.Button)
	downBtn := row.Components[1].(discordgo.Button)
	if upBtn.Label != "👍 1" || downBtn.Label != "👎 1" {
		t.Errorf("refreshed labels = %q/%q", upBtn.Label, downBtn.Label)
	}
}

func TestVoteTwiceRejected(t *testing.T) {
	fx := newFixture(testTemplate(1, forms.FormTypeSuggestion, "300"), false)
	sub := submit(t, fx, "add dark mode", "")
	approveSuggestion(t, fx, sub.ID)

	if _, _, err := fx.engine.Vote(context.Background(), VoteRequest{
		SubmissionID: sub.ID, UserID: "voter1", Vote: forms.VoteUp,
	}); err != nil {
		t.Fatalf("first Vote: %v", err)
	}

	_, _, err := fx.engine.Vote(context.Background(), VoteRequest{
		SubmissionID: sub.ID, UserID: "voter1", Vote: forms.VoteDown,
	})
	if !errors.Is(err, forms.ErrAlreadyVoted) {
		t.Fatalf("second Vote = %v, want ErrAlreadyVoted", err)
	}
	if got := fx.submissions.byID[sub.ID].Upvotes; got != 1 {
		t.Errorf("upvotes = %d, want 1", got)
	}
	if got := fx.submissions.byID[sub.ID].Downvotes; got != 0 {
		t.Errorf("downvotes = %d, want 0", got)
	}
}

func TestVoteClosedSubmissions(t *testing.T) {
	// Pending suggestion: not open yet.
	fx := newFixture(testTemplate(1, forms.FormTypeSuggestion, "300"), false)
	sub := submit(t, fx, "add dark mode", "")
	if _, _, err := fx.engine.Vote(context.Background(), VoteRequest{
		SubmissionID: sub.ID, UserID: "voter1", Vote: forms.VoteUp,
	}); !forms.IsValidation(err) {
		t.Errorf("vote on pending suggestion = %v, want validation error", err)
	}

	// Approved public (non-suggestion) form: never open.
	fx = newFixture(testTemplate(1, forms.FormTypePublic, "300"), false)
	sub = submit(t, fx, "hello", "")
	approveSuggestion(t, fx, sub.ID)
	if _, _, err := fx.engine.Vote(context.Background(), VoteRequest{
		SubmissionID: sub.ID, UserID: "voter1", Vote: forms.VoteUp,
	}); !forms.IsValidation(err) {
		t.Errorf("vote on public form = %v, want validation error", err)
	}
}

func TestVoteRowEditFailureKeepsVote(t *testing.T) {
	fx := newFixture(testTemplate(1, forms.FormTypeSuggestion, "300"), false)
	sub := submit(t, fx, "add dark mode", "")
	approveSuggestion(t, fx, sub.ID)

	fx.messenger.editErr = errors.New("message deleted")
	up, down, err := fx.engine.Vote(context.Background(), VoteRequest{
		SubmissionID: sub.ID,
		UserID:       "voter1",
		Vote:         forms.VoteUp,
		ChannelID:    "300",
		MessageID:    "msg2",
	})
	if err != nil {
		t.Fatalf("Vote should succeed when only the row refresh fails: %v", err)
	}
	if up != 1 || down != 0 {
		t.Errorf("counts = %d/%d, want 1/0", up, down)
	}
}
