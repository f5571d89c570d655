package webserver

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/stake-plus/discord-forms/src/shared/forms"
	"github.com/stake-plus/discord-forms/src/shared/storage"
	"github.com/stake-plus/discord-forms/src/shared/types"
	"gorm.io/gorm"
)

type Submissions struct {
	store     *storage.SubmissionStore
	sanitizer *bluemonday.Policy
}

func NewSubmissions(db *gorm.DB) Submissions {
	// Responses are user-authored free text; strip any markup before it
	// reaches API consumers.
	return Submissions{
		store:     storage.NewSubmissionStore(db),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

type responseView struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type submissionView struct {
	ID              uint64         `json:"id"`
	TemplateID      uint64         `json:"templateId"`
	UserID          string         `json:"userId"`
	Status          string         `json:"status"`
	ResponseReason  string         `json:"responseReason,omitempty"`
	RespondedBy     string         `json:"respondedBy,omitempty"`
	SubmittedAt     time.Time      `json:"submittedAt"`
	RespondedAt     *time.Time     `json:"respondedAt,omitempty"`
	PublicMessageID string         `json:"publicMessageId,omitempty"`
	Upvotes         int64          `json:"upvotes"`
	Downvotes       int64          `json:"downvotes"`
	Responses       []responseView `json:"responses"`
}

func (h Submissions) view(sub *types.SubmittedForm) submissionView {
	v := submissionView{
		ID:              sub.ID,
		TemplateID:      sub.TemplateID,
		UserID:          sub.UserID,
		Status:          sub.Status,
		ResponseReason:  h.sanitizer.Sanitize(sub.ResponseReason),
		RespondedBy:     sub.RespondedBy,
		SubmittedAt:     sub.SubmittedAt,
		RespondedAt:     sub.RespondedAt,
		PublicMessageID: sub.PublicMessageID,
		Upvotes:         sub.Upvotes,
		Downvotes:       sub.Downvotes,
	}
	responses, err := forms.DecodeResponses(sub.Responses)
	if err != nil {
		log.Printf("api: submission %d has bad response data: %v", sub.ID, err)
		return v
	}
	for _, r := range responses {
		v.Responses = append(v.Responses, responseView{
			Label: h.sanitizer.Sanitize(r.Label),
			Value: h.sanitizer.Sanitize(r.Value),
		})
	}
	return v
}

func (h Submissions) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad submission id"})
		return
	}

	sub, err := h.store.GetWithTemplate(c.Request.Context(), id)
	if errors.Is(err, forms.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"err": "submission not found"})
		return
	}
	if err != nil {
		log.Printf("api: get submission %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "failed to load submission"})
		return
	}

	c.JSON(http.StatusOK, h.view(sub))
}

func (h Submissions) ListByTemplate(c *gin.Context) {
	templateID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad template id"})
		return
	}

	list, err := h.store.ListByTemplate(c.Request.Context(), templateID)
	if err != nil {
		log.Printf("api: list submissions for template %d: %v", templateID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "failed to load submissions"})
		return
	}

	out := make([]submissionView, 0, len(list))
	for idx := range list {
		out = append(out, h.view(&list[idx]))
	}
	c.JSON(http.StatusOK, gin.H{"submissions": out})
}

// Suggestions lists approved suggestion submissions ordered by vote score.
func (h Submissions) Suggestions(c *gin.Context) {
	guildID := c.Param("guild")

	list, err := h.store.ListSuggestions(c.Request.Context(), guildID)
	if err != nil {
		log.Printf("api: list suggestions for guild %s: %v", guildID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "failed to load suggestions"})
		return
	}

	out := make([]submissionView, 0, len(list))
	for idx := range list {
		out = append(out, h.view(&list[idx]))
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": out})
}
