package campaign

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// sendOffsets staggers the sequence across the campaign window.
var sendOffsets = map[MessageType]time.Duration{
	MessageHook:  0,
	MessageProof: 3 * 24 * time.Hour,
	MessageFomo:  7 * 24 * time.Hour,
}

// prepareDelivery fills the execution-result fields for an approved run:
// delivery method, opaque queue handle, per-slot schedule, and - when
// email is unavailable - a flattened rendering for the DM channel.
func prepareDelivery(st *CampaignState) {
	st.QueueID = uuid.NewString()

	if st.Lead.Email != "" {
		st.DeliveryMethod = "email"
	} else if st.Lead.LinkedInURL != "" {
		st.DeliveryMethod = "linkedin_dm"
		st.FallbackChannel = FlattenForDM(st)
	} else {
		st.DeliveryMethod = "manual"
	}

	now := time.Now().UTC()
	st.DeliverySchedule = make(map[MessageType]time.Time, len(st.Sequence))
	for _, slot := range st.Sequence {
		st.DeliverySchedule[slot] = now.Add(sendOffsets[slot])
	}
}

// FlattenForDM condenses the campaign into a single direct-message sized
// rendering for channels without subject lines or multi-touch sequences.
func FlattenForDM(st *CampaignState) string {
	hook := st.Message(MessageHook)
	if hook == nil {
		return ""
	}
	body := strings.ReplaceAll(hook.Body, "\n\n", " ")
	body = strings.ReplaceAll(body, "\n", " ")
	// Drop the email-style signature; DMs carry the sender identity.
	if idx := strings.LastIndex(body, "Best,"); idx > 0 {
		body = strings.TrimSpace(body[:idx])
	}
	return strings.TrimSpace(body)
}
