package webserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stake-plus/discord-forms/src/shared/forms"
	"github.com/stake-plus/discord-forms/src/shared/storage"
	"gorm.io/gorm"
)

type Templates struct {
	store *storage.TemplateStore
}

func NewTemplates(db *gorm.DB) Templates {
	return Templates{store: storage.NewTemplateStore(db)}
}

type templateView struct {
	ID               uint64            `json:"id"`
	Name             string            `json:"name"`
	FormType         string            `json:"formType"`
	RequiresApproval bool              `json:"requiresApproval"`
	Fields           []forms.FieldSpec `json:"fields"`
	FormChannel      string            `json:"formChannel"`
	ResponseChannel  string            `json:"responseChannel"`
	PublicChannel    string            `json:"publicChannel,omitempty"`
}

func (h Templates) List(c *gin.Context) {
	guildID := c.Param("guild")

	list, err := h.store.ListByGuild(c.Request.Context(), guildID)
	if err != nil {
		log.Printf("api: list templates: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "failed to load templates"})
		return
	}

	out := make([]templateView, 0, len(list))
	for _, t := range list {
		data, err := forms.DecodeTemplateData(t.Fields)
		if err != nil {
			log.Printf("api: template %d has bad field data: %v", t.ID, err)
			continue
		}
		out = append(out, templateView{
			ID:               t.ID,
			Name:             t.Name,
			FormType:         t.FormType,
			RequiresApproval: t.RequiresApproval,
			Fields:           data.Fields,
			FormChannel:      t.FormChannelID,
			ResponseChannel:  t.ResponseChannelID,
			PublicChannel:    t.PublicChannelID,
		})
	}

	c.JSON(http.StatusOK, gin.H{"templates": out})
}
