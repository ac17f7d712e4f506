package usecase

import (
	"fmt"
	"strings"

	"alfred/internal/domain/member"
	"alfred/internal/domain/onboarding"
)

func welcomeTemplate(m member.TeamMember) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Welcome aboard, %s!", firstName(m.Name))
	switch {
	case m.Team != "" && m.Role != "":
		fmt.Fprintf(&b, " You have joined %s as %s.", m.Team, m.Role)
	case m.Team != "":
		fmt.Fprintf(&b, " You have joined %s.", m.Team)
	case m.Role != "":
		fmt.Fprintf(&b, " You have joined as %s.", m.Role)
	}
	b.WriteString(" Your profile is set up, so feel free to introduce yourself to the team.")
	return b.String()
}

func rejectionMessage(req onboarding.Request) string {
	reason := ""
	if req.RejectionReason != nil {
		reason = *req.RejectionReason
	}
	return fmt.Sprintf(
		"Hi %s, thank you for your interest. Your onboarding request was not approved at this time. Reason: %s",
		firstName(req.Profile.Name), reason,
	)
}

func submittedAdminMessage(req onboarding.Request) string {
	return fmt.Sprintf(
		"New onboarding request %s from %s <%s> (submitter %s) is waiting for review.",
		req.ID, req.Profile.Name, req.Profile.Email, req.SubmitterID,
	)
}

func decisionAdminMessage(rep Report) string {
	reviewer := ""
	if rep.Request.ReviewerID != nil {
		reviewer = *rep.Request.ReviewerID
	}
	msg := fmt.Sprintf("Onboarding request %s for %s was %s by %s.",
		rep.Request.ID, rep.Request.Profile.Name, rep.Request.Status, reviewer)
	if failed := rep.Failed(); len(failed) > 0 {
		names := make([]string, 0, len(failed))
		for _, s := range failed {
			names = append(names, string(s))
		}
		msg += " Needs manual follow-up: " + strings.Join(names, ", ") + "."
	}
	return msg
}

func firstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "there"
	}
	return fields[0]
}
