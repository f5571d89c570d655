package bot

import (
	"strconv"
	"strings"

	"github.com/stake-plus/discord-forms/src/shared/forms"
)

// IntentKind classifies an incoming component or modal interaction.
type IntentKind int

const (
	IntentUnknown IntentKind = iota
	// IntentSetupAction is a wizard button press; Action names it.
	IntentSetupAction
	// IntentSetupModal is a wizard modal submit; Action names the field.
	IntentSetupModal
	// IntentFormTypeSelect is the wizard's form type menu.
	IntentFormTypeSelect
	// IntentOpenForm is an entry button press; ID is the template.
	IntentOpenForm
	// IntentSubmitForm is the input modal submit; ID is the template.
	IntentSubmitForm
	// IntentDecidePrompt is an approve/deny button press; ID is the submission.
	IntentDecidePrompt
	// IntentDecideSubmit is the reason modal submit; ID is the submission.
	IntentDecideSubmit
	// IntentVote is an upvote/downvote press; ID is the submission.
	IntentVote
)

// Intent is the parsed form of a component custom id. Custom ids are
// decoded here once; the rest of the bot never string-splits them.
type Intent struct {
	Kind    IntentKind
	Action  string
	Approve bool
	Vote    forms.VoteType
	ID      uint64
}

func parseID(s string) (uint64, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	return id, err == nil
}

// ParseCustomID decodes a component/modal custom id into an Intent.
func ParseCustomID(customID string) Intent {
	switch {
	case customID == "setup_form_type":
		return Intent{Kind: IntentFormTypeSelect}

	case strings.HasPrefix(customID, "setup_modal_"):
		return Intent{Kind: IntentSetupModal, Action: strings.TrimPrefix(customID, "setup_modal_")}

	case strings.HasPrefix(customID, "setup_"):
		return Intent{Kind: IntentSetupAction, Action: strings.TrimPrefix(customID, "setup_")}

	case strings.HasPrefix(customID, "openForm_"):
		if id, ok := parseID(strings.TrimPrefix(customID, "openForm_")); ok {
			return Intent{Kind: IntentOpenForm, ID: id}
		}

	case strings.HasPrefix(customID, "submitForm_"):
		if id, ok := parseID(strings.TrimPrefix(customID, "submitForm_")); ok {
			return Intent{Kind: IntentSubmitForm, ID: id}
		}

	case strings.HasPrefix(customID, "approve_modal_"):
		if id, ok := parseID(strings.TrimPrefix(customID, "approve_modal_")); ok {
			return Intent{Kind: IntentDecideSubmit, Approve: true, ID: id}
		}

	case strings.HasPrefix(customID, "deny_modal_"):
		if id, ok := parseID(strings.TrimPrefix(customID, "deny_modal_")); ok {
			return Intent{Kind: IntentDecideSubmit, Approve: false, ID: id}
		}

	case strings.HasPrefix(customID, "approve_"):
		if id, ok := parseID(strings.TrimPrefix(customID, "approve_")); ok {
			return Intent{Kind: IntentDecidePrompt, Approve: true, ID: id}
		}

	case strings.HasPrefix(customID, "deny_"):
		if id, ok := parseID(strings.TrimPrefix(customID, "deny_")); ok {
			return Intent{Kind: IntentDecidePrompt, Approve: false, ID: id}
		}

	case strings.HasPrefix(customID, "upvote_"):
		if id, ok := parseID(strings.TrimPrefix(customID, "upvote_")); ok {
			return Intent{Kind: IntentVote, Vote: forms.VoteUp, ID: id}
		}

	case strings.HasPrefix(customID, "downvote_"):
		if id, ok := parseID(strings.TrimPrefix(customID, "downvote_")); ok {
			return Intent{Kind: IntentVote, Vote: forms.VoteDown, ID: id}
		}
	}
	return Intent{Kind: IntentUnknown}
}
