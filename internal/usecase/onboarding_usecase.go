package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"alfred/internal/domain"
	"alfred/internal/domain/member"
	"alfred/internal/domain/onboarding"
	"alfred/internal/logger"
	"alfred/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Step string

const (
	StepCreateMember   Step = "create_member"
	StepCreateDocument Step = "create_profile_document"
	StepAppendRoster   Step = "append_roster_row"
	StepAssignRole     Step = "assign_role"
	StepSendWelcome    Step = "send_welcome"
	StepSendRejection  Step = "send_rejection"
)

// ApprovalSteps is the order in which approval side effects run.
var ApprovalSteps = []Step{
	StepCreateMember,
	StepCreateDocument,
	StepAppendRoster,
	StepAssignRole,
	StepSendWelcome,
}

func ParseStep(s string) (Step, error) {
	st := Step(strings.ToLower(strings.TrimSpace(s)))
	if st == StepSendRejection {
		return st, nil
	}
	for _, known := range ApprovalSteps {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown step %q", domain.ErrValidation, s)
}

type StepResult struct {
	Step    Step   `json:"step"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Report is what a reviewer sees after a decision: the committed request and
// a checklist of the side effects that ran.
type Report struct {
	Request  onboarding.Request `json:"request"`
	Member   *member.TeamMember `json:"member,omitempty"`
	Document *DocumentRef       `json:"document,omitempty"`
	Steps    []StepResult       `json:"steps"`
}

func (r Report) Failed() []Step {
	var out []Step
	for _, s := range r.Steps {
		if !s.Success {
			out = append(out, s.Step)
		}
	}
	return out
}

func (r Report) OK() bool {
	return len(r.Failed()) == 0
}

type SubmitInput struct {
	SubmitterID string
	Profile     onboarding.Profile
}

type ApproveInput struct {
	RequestID  uuid.UUID
	ReviewerID string
	Team       string
	Role       string
}

type RejectInput struct {
	RequestID  uuid.UUID
	ReviewerID string
	Reason     string
}

// RetryInput re-runs one side effect. Team and Role are only consulted when
// the member record has to be created again.
type RetryInput struct {
	RequestID uuid.UUID
	Step      Step
	Team      string
	Role      string
}

type OnboardingDeps struct {
	Requests OnboardingStore
	Members  MemberStore
	Docs     DocGenerator
	Roster   RosterSheet
	Chat     NotificationChannel
	Composer MessageComposer
	Rankings RankingCache
	Events   EventPublisher
	Logger   *zap.Logger

	DefaultAvailableHours float64
	Now                   func() time.Time
}

type Onboarding struct {
	requests OnboardingStore
	members  MemberStore
	docs     DocGenerator
	roster   RosterSheet
	chat     NotificationChannel
	composer MessageComposer
	rankings RankingCache
	events   EventPublisher
	logger   *zap.Logger

	defaultHours float64
	now          func() time.Time
}

func NewOnboardingUsecase(d OnboardingDeps) *Onboarding {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Onboarding{
		requests:     d.Requests,
		members:      d.Members,
		docs:         d.Docs,
		roster:       d.Roster,
		chat:         d.Chat,
		composer:     d.Composer,
		rankings:     d.Rankings,
		events:       d.Events,
		logger:       logger.OrNop(d.Logger).Named("onboarding"),
		defaultHours: d.DefaultAvailableHours,
		now:          now,
	}
}

func (u *Onboarding) Submit(ctx context.Context, in SubmitInput) (onboarding.Request, error) {
	submitter := strings.TrimSpace(in.SubmitterID)
	if submitter == "" {
		return onboarding.Request{}, fmt.Errorf("%w: submitter id is required", domain.ErrValidation)
	}
	profile := in.Profile.Normalize()
	if err := profile.Validate(); err != nil {
		return onboarding.Request{}, err
	}

	if u.members != nil {
		existing, err := u.members.FindByExternalID(ctx, submitter)
		switch {
		case err == nil && existing.IsActive():
			return onboarding.Request{}, fmt.Errorf("%w: submitter %q is already an active member", domain.ErrConflict, submitter)
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return onboarding.Request{}, err
		}
	}

	if _, err := u.requests.FindPendingBySubmitter(ctx, submitter); err == nil {
		return onboarding.Request{}, fmt.Errorf("%w: submitter %q already has a pending request", domain.ErrConflict, submitter)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return onboarding.Request{}, err
	}

	req, err := u.requests.Create(ctx, onboarding.Request{
		ID:          uuid.New(),
		SubmitterID: submitter,
		Profile:     profile,
		Status:      onboarding.StatusPending,
		SubmittedAt: u.now().UTC(),
	})
	if err != nil {
		return onboarding.Request{}, err
	}

	metrics.ObserveTransition(string(onboarding.StatusPending))
	u.logger.Info("onboarding request submitted",
		zap.Stringer("request_id", req.ID),
		zap.String("submitter_id", req.SubmitterID),
	)

	if u.chat != nil {
		if err := u.chat.NotifyAdminChannel(ctx, submittedAdminMessage(req)); err != nil {
			u.logger.Warn("admin channel notification failed", zap.Stringer("request_id", req.ID), zap.Error(err))
		}
	}
	u.publish("onboarding.submitted", req)
	return req, nil
}

func (u *Onboarding) Approve(ctx context.Context, in ApproveInput) (Report, error) {
	req, err := u.requests.Decide(ctx, in.RequestID, onboarding.Decision{
		Status:     onboarding.StatusApproved,
		ReviewerID: in.ReviewerID,
		DecidedAt:  u.now(),
	})
	if err != nil {
		return Report{}, err
	}
	metrics.ObserveTransition(string(onboarding.StatusApproved))
	u.logger.Info("onboarding request approved",
		zap.Stringer("request_id", req.ID),
		zap.String("reviewer_id", in.ReviewerID),
	)

	run := &approvalRun{
		u:      u,
		member: u.memberFromRequest(req, in.Team, in.Role),
	}
	rep := Report{Request: req}
	for _, step := range ApprovalSteps {
		rep.Steps = append(rep.Steps, u.runStep(ctx, req, step, run.action(step)))
	}
	if run.stored {
		m := run.member
		rep.Member = &m
	}
	if run.doc != nil {
		doc := *run.doc
		rep.Document = &doc
	}

	u.afterDecision(ctx, rep)
	return rep, nil
}

func (u *Onboarding) Reject(ctx context.Context, in RejectInput) (Report, error) {
	if strings.TrimSpace(in.Reason) == "" {
		return Report{}, fmt.Errorf("%w: rejection reason is required", domain.ErrValidation)
	}
	req, err := u.requests.Decide(ctx, in.RequestID, onboarding.Decision{
		Status:     onboarding.StatusRejected,
		ReviewerID: in.ReviewerID,
		DecidedAt:  u.now(),
		Reason:     in.Reason,
	})
	if err != nil {
		return Report{}, err
	}
	metrics.ObserveTransition(string(onboarding.StatusRejected))
	u.logger.Info("onboarding request rejected",
		zap.Stringer("request_id", req.ID),
		zap.String("reviewer_id", in.ReviewerID),
	)

	rep := Report{Request: req}
	rep.Steps = append(rep.Steps, u.runStep(ctx, req, StepSendRejection, u.sendRejection(req)))

	u.afterDecision(ctx, rep)
	return rep, nil
}

// RetryStep re-runs a single side effect of a decided request. Creating the
// member is idempotent: an existing record for the submitter is reused.
func (u *Onboarding) RetryStep(ctx context.Context, in RetryInput) (StepResult, error) {
	step, err := ParseStep(string(in.Step))
	if err != nil {
		return StepResult{}, err
	}
	req, err := u.requests.GetByID(ctx, in.RequestID)
	if err != nil {
		return StepResult{}, err
	}

	if step == StepSendRejection {
		if req.Status != onboarding.StatusRejected {
			return StepResult{}, fmt.Errorf("%w: request %s is %s, not rejected", domain.ErrState, req.ID, req.Status)
		}
		return u.runStep(ctx, req, step, u.sendRejection(req)), nil
	}

	if req.Status != onboarding.StatusApproved {
		return StepResult{}, fmt.Errorf("%w: request %s is %s, not approved", domain.ErrState, req.ID, req.Status)
	}

	run := &approvalRun{u: u, member: u.memberFromRequest(req, in.Team, in.Role)}
	if step != StepCreateMember {
		if err := run.loadStoredMember(ctx); err != nil {
			return StepResult{}, err
		}
	}
	return u.runStep(ctx, req, step, run.action(step)), nil
}

func (u *Onboarding) GetByID(ctx context.Context, id uuid.UUID) (onboarding.Request, error) {
	return u.requests.GetByID(ctx, id)
}

func (u *Onboarding) GetBySubmitter(ctx context.Context, submitterID string) (onboarding.Request, error) {
	submitterID = strings.TrimSpace(submitterID)
	if submitterID == "" {
		return onboarding.Request{}, fmt.Errorf("%w: submitter id is required", domain.ErrInvalidInput)
	}
	return u.requests.LatestBySubmitter(ctx, submitterID)
}

func (u *Onboarding) ListByStatus(ctx context.Context, status onboarding.Status) ([]onboarding.Request, error) {
	if _, err := onboarding.ParseStatus(string(status)); err != nil {
		return nil, err
	}
	return u.requests.ListByStatus(ctx, status)
}

func (u *Onboarding) runStep(ctx context.Context, req onboarding.Request, step Step, fn func(context.Context) error) StepResult {
	err := fn(ctx)
	metrics.ObserveStep(string(step), err)
	if err != nil {
		u.logger.Warn("onboarding step failed",
			zap.Stringer("request_id", req.ID),
			zap.String("step", string(step)),
			zap.Error(err),
		)
		return StepResult{Step: step, Success: false, Error: err.Error()}
	}
	u.logger.Debug("onboarding step succeeded",
		zap.Stringer("request_id", req.ID),
		zap.String("step", string(step)),
	)
	return StepResult{Step: step, Success: true}
}

func (u *Onboarding) sendRejection(req onboarding.Request) func(context.Context) error {
	return func(ctx context.Context) error {
		if u.chat == nil {
			return notConfigured("chat")
		}
		return domain.ExternalError("chat", u.chat.NotifyUser(ctx, req.SubmitterID, rejectionMessage(req)))
	}
}

func (u *Onboarding) afterDecision(ctx context.Context, rep Report) {
	if u.chat != nil {
		if err := u.chat.NotifyAdminChannel(ctx, decisionAdminMessage(rep)); err != nil {
			u.logger.Warn("admin channel notification failed", zap.Stringer("request_id", rep.Request.ID), zap.Error(err))
		}
	}
	u.publish("onboarding."+string(rep.Request.Status), rep)
}

func (u *Onboarding) publish(eventType string, payload any) {
	if u.events == nil {
		return
	}
	u.events.Publish(eventType, payload)
}

func (u *Onboarding) memberFromRequest(req onboarding.Request, team, role string) member.TeamMember {
	p := req.Profile
	team = strings.TrimSpace(team)
	if team == "" {
		team = p.Team
	}
	role = strings.TrimSpace(role)
	if role == "" {
		role = p.Role
	}
	hours := u.defaultHours
	if p.AvailableHours != nil {
		hours = *p.AvailableHours
	}
	// Profile skills were validated on submit.
	skills, _ := member.ValidateSkills(p.Skills)

	return member.TeamMember{
		ID:             uuid.New(),
		ExternalID:     req.SubmitterID,
		Name:           p.Name,
		Email:          p.Email,
		Role:           role,
		Team:           team,
		Timezone:       p.Timezone,
		Bio:            p.Bio,
		AvailableHours: hours,
		Skills:         skills,
		Status:         member.StatusActive,
	}
}

func notConfigured(service string) error {
	return domain.ExternalError(service, errors.New("not configured"))
}

// approvalRun carries state between the approval steps of one request.
type approvalRun struct {
	u      *Onboarding
	member member.TeamMember
	stored bool
	doc    *DocumentRef
}

func (r *approvalRun) action(step Step) func(context.Context) error {
	switch step {
	case StepCreateMember:
		return r.createMember
	case StepCreateDocument:
		return r.createDocument
	case StepAppendRoster:
		return r.appendRoster
	case StepAssignRole:
		return r.assignRole
	case StepSendWelcome:
		return r.sendWelcome
	default:
		return func(context.Context) error {
			return fmt.Errorf("%w: unknown step %q", domain.ErrValidation, step)
		}
	}
}

func (r *approvalRun) loadStoredMember(ctx context.Context) error {
	if r.u.members == nil {
		return nil
	}
	m, err := r.u.members.FindByExternalID(ctx, r.member.ExternalID)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: member for submitter %q does not exist yet, retry %s first",
			domain.ErrState, r.member.ExternalID, StepCreateMember)
	}
	if err != nil {
		return err
	}
	r.member, r.stored = m, true
	return nil
}

func (r *approvalRun) createMember(ctx context.Context) error {
	if r.u.members == nil {
		return notConfigured("member store")
	}

	created, err := r.u.members.Create(ctx, r.member)
	if errors.Is(err, domain.ErrConflict) {
		created, err = r.reuseExisting(ctx)
	}
	if err != nil {
		return err
	}
	r.member, r.stored = created, true

	if r.u.rankings != nil {
		if err := r.u.rankings.DeleteByPattern(ctx, rankCachePattern); err != nil {
			r.u.logger.Warn("ranking cache invalidation failed", zap.Error(err))
		}
	}
	return nil
}

// reuseExisting resolves a conflict on the submitter identity: the stored
// record is reactivated and takes the approved profile, team and role
// instead of being duplicated.
func (r *approvalRun) reuseExisting(ctx context.Context) (member.TeamMember, error) {
	existing, err := r.u.members.FindByExternalID(ctx, r.member.ExternalID)
	if err != nil {
		return member.TeamMember{}, err
	}
	next := r.member
	next.ID = existing.ID
	next.Status = member.StatusActive
	return r.u.members.Update(ctx, next)
}

func (r *approvalRun) createDocument(ctx context.Context) error {
	if r.u.docs == nil {
		return notConfigured("docs")
	}
	doc, err := r.u.docs.CreateProfileDocument(ctx, r.member)
	// A document can exist even when filling it in failed.
	if doc.ID != "" || doc.URL != "" {
		r.doc = &doc
	}
	if err != nil {
		return domain.ExternalError("docs", err)
	}
	return nil
}

func (r *approvalRun) appendRoster(ctx context.Context) error {
	if r.u.roster == nil {
		return notConfigured("sheets")
	}
	var doc DocumentRef
	if r.doc != nil {
		doc = *r.doc
	}
	return domain.ExternalError("sheets", r.u.roster.AppendRow(ctx, r.member.Team, r.member, doc))
}

func (r *approvalRun) assignRole(ctx context.Context) error {
	if r.u.chat == nil {
		return notConfigured("chat")
	}
	if r.member.Role == "" {
		return fmt.Errorf("%w: no role was assigned to %s", domain.ErrValidation, r.member.Name)
	}
	return domain.ExternalError("chat", r.u.chat.AssignRole(ctx, r.member.ExternalID, r.member.Role))
}

func (r *approvalRun) sendWelcome(ctx context.Context) error {
	if r.u.chat == nil {
		return notConfigured("chat")
	}
	msg := welcomeTemplate(r.member)
	if r.u.composer != nil {
		composed, err := r.u.composer.Welcome(ctx, r.member)
		switch {
		case err != nil:
			r.u.logger.Warn("welcome composer failed, using template", zap.Error(err))
		case strings.TrimSpace(composed) != "":
			msg = strings.TrimSpace(composed)
		}
	}
	return domain.ExternalError("chat", r.u.chat.NotifyUser(ctx, r.member.ExternalID, msg))
}
