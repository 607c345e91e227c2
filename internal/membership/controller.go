// Package membership keeps the admin's view of gym members and drives their status changes.
//
// The server is the only authority on a member's status. After every successful change the
// controller either refetches the whole list or patches in the record the server returned,
// depending on its invalidation policy.
package membership

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"gymctl/internal/models"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ISOMillis is the timestamp layout sent as an activation startDate
const ISOMillis = "2006-01-02T15:04:05.000Z07:00"

// Policy decides what happens to the local list after a successful status change
type Policy string

const (
	// PolicyRefetch reloads the whole list from the server
	PolicyRefetch Policy = "refetch"

	// PolicyPatch swaps in the record the server returned, refetching when none came back
	PolicyPatch Policy = "patch"
)

// MemberService is the part of the API client the controller needs
type MemberService interface {
	ListMembers(ctx context.Context) ([]models.Member, error)
	UpdateStatus(ctx context.Context, id string, update models.StatusUpdate) (*models.Member, error)
	DeleteMember(ctx context.Context, id string) error
}

// Command is one admin action on one member, with the inputs its dialog collected
type Command struct {
	Action models.Action

	// EffectiveDate is the activation date; blank means now
	EffectiveDate string

	// FreezeDays is the freeze duration as typed
	FreezeDays string
}

// Result is the outcome of a successful Apply
type Result struct {
	// Member is the updated record, or nil when it is no longer known locally
	Member *models.Member

	// Refetched is true when the whole list was reloaded
	Refetched bool
}

// Controller holds the member list and performs status changes against the server
type Controller struct {
	api    MemberService
	logger *zap.Logger
	policy Policy
	role   string
	now    func() time.Time

	inflight singleflight.Group

	mu      sync.RWMutex
	members []models.Member
	pending int
	loaded  bool
}

// Option configures a Controller
type Option func(*Controller)

// WithPolicy sets the invalidation policy
func WithPolicy(p Policy) Option {
	return func(c *Controller) {
		if p == PolicyPatch || p == PolicyRefetch {
			c.policy = p
		}
	}
}

// WithRole keeps only records with this role; empty keeps everything
func WithRole(role string) Option {
	return func(c *Controller) {
		c.role = role
	}
}

// WithLogger sets the controller's logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger.Named("membership")
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// NewController creates a controller with an empty member list
func NewController(api MemberService, opts ...Option) *Controller {
	c := &Controller{
		api:    api,
		logger: zap.NewNop(),
		policy: PolicyRefetch,
		role:   "user",
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh reloads the member list. On failure the previous list is kept.
func (c *Controller) Refresh(ctx context.Context) error {
	_, err, _ := c.inflight.Do("refresh", func() (interface{}, error) {
		return nil, c.refresh(ctx)
	})
	return err
}

func (c *Controller) refresh(ctx context.Context) error {
	c.setLoading(true)
	defer c.setLoading(false)

	all, err := c.api.ListMembers(ctx)
	if err != nil {
		c.logger.Error("failed to load members", zap.Error(err))
		return fmt.Errorf("error loading members: %w", err)
	}

	members := make([]models.Member, 0, len(all))
	for _, m := range all {
		if c.role != "" && m.Role != c.role {
			continue
		}
		if !m.Status.IsValid() {
			c.logger.Warn("member has unrecognised status",
				zap.String("member_id", m.ID),
				zap.String("status", string(m.Status)),
			)
		}
		members = append(members, m)
	}

	c.mu.Lock()
	c.members = members
	c.loaded = true
	c.mu.Unlock()

	c.logger.Debug("members refreshed", zap.Int("count", len(members)))
	return nil
}

func (c *Controller) setLoading(v bool) {
	c.mu.Lock()
	if v {
		c.pending++
	} else if c.pending > 0 {
		c.pending--
	}
	c.mu.Unlock()
}

// Loading reports whether a request is in flight
func (c *Controller) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pending > 0
}

// Loaded reports whether the list has been fetched at least once
func (c *Controller) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Members returns a copy of the current list
func (c *Controller) Members() []models.Member {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Member, len(c.members))
	copy(out, c.members)
	return out
}

// Filter returns the members matching search and status.
// See Matches for the rules.
func (c *Controller) Filter(search string, status models.Status) []models.Member {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Member, 0, len(c.members))
	for i := range c.members {
		if Matches(&c.members[i], search, status) {
			out = append(out, c.members[i])
		}
	}
	return out
}

// Find returns the member with id
func (c *Controller) Find(id string) (models.Member, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, m := range c.members {
		if m.ID == id {
			return m, nil
		}
	}
	return models.Member{}, fmt.Errorf("%w: %s", models.ErrMemberNotFound, id)
}

// Actions returns the menu for member. Unknown statuses only offer Delete.
func (c *Controller) Actions(member models.Member) []models.Action {
	if !member.Status.IsValid() {
		c.logger.Warn("offering delete only for unrecognised status",
			zap.String("member_id", member.ID),
			zap.String("status", string(member.Status)),
		)
	}
	return models.ActionsFor(member.Status)
}

// Apply turns cmd into a status update for memberID and sends it.
// It does not check the transition table; the server decides.
func (c *Controller) Apply(ctx context.Context, memberID string, cmd Command) (Result, error) {
	if cmd.Action == models.ActionDelete {
		if err := c.Delete(ctx, memberID); err != nil {
			return Result{}, err
		}
		return Result{}, nil
	}

	wire, ok := cmd.Action.WireStatus()
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", models.ErrUnknownAction, cmd.Action)
	}

	var effectiveDate string
	var freezeDays *int

	if cmd.Action.NeedsDate() {
		date, err := ActivationDate(cmd.EffectiveDate, c.now())
		if err != nil {
			return Result{}, err
		}
		effectiveDate = date
	}

	if cmd.Action.NeedsDuration() {
		days, err := ParseFreezeDays(cmd.FreezeDays)
		if err != nil {
			return Result{}, err
		}
		freezeDays = &days
	}

	return c.UpdateStatus(ctx, memberID, wire, effectiveDate, freezeDays)
}

// UpdateStatus sends newStatus for memberID and applies the invalidation policy.
// Identical concurrent calls share one request. On failure the list is untouched.
func (c *Controller) UpdateStatus(ctx context.Context, memberID, newStatus, effectiveDate string, freezeDays *int) (Result, error) {
	update := models.StatusUpdate{
		Status:         newStatus,
		StartDate:      effectiveDate,
		FreezeDuration: freezeDays,
	}

	key := inflightKey(memberID, update)
	v, err := c.join(ctx, key, func(ctx context.Context) (interface{}, error) {
		return c.updateStatus(ctx, memberID, update)
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

// join runs fn once per key among concurrent callers. The shared call is not tied to
// any one caller's cancellation; each caller stops waiting when its own ctx is done.
func (c *Controller) join(ctx context.Context, key string, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := c.inflight.DoChan(key, func() (interface{}, error) {
		return fn(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			c.logger.Debug("joined in-flight operation", zap.String("key", key))
		}
		return res.Val, res.Err
	}
}

func (c *Controller) updateStatus(ctx context.Context, memberID string, update models.StatusUpdate) (Result, error) {
	c.setLoading(true)
	updated, err := c.api.UpdateStatus(ctx, memberID, update)
	c.setLoading(false)

	if err != nil {
		c.logger.Error("failed to update member status",
			zap.String("member_id", memberID),
			zap.String("status", update.Status),
			zap.Error(err),
		)
		return Result{}, fmt.Errorf("error updating status of %s: %w", memberID, err)
	}

	c.logger.Info("member status updated",
		zap.String("member_id", memberID),
		zap.String("status", update.Status),
	)

	if c.policy == PolicyPatch && updated != nil && updated.ID == memberID {
		c.mu.Lock()
		for i := range c.members {
			if c.members[i].ID == memberID {
				c.members[i] = *updated
				break
			}
		}
		c.mu.Unlock()
		return Result{Member: updated}, nil
	}

	// The change landed; a failed reload only means the list is stale
	if err := c.refresh(ctx); err != nil {
		return Result{Member: updated}, nil
	}

	member, err := c.Find(memberID)
	if err != nil {
		return Result{Member: updated, Refetched: true}, nil
	}
	return Result{Member: &member, Refetched: true}, nil
}

// Delete removes memberID on the server and then from the local list
func (c *Controller) Delete(ctx context.Context, memberID string) error {
	_, err := c.join(ctx, "delete:"+memberID, func(ctx context.Context) (interface{}, error) {
		c.setLoading(true)
		defer c.setLoading(false)

		if err := c.api.DeleteMember(ctx, memberID); err != nil {
			c.logger.Error("failed to delete member", zap.String("member_id", memberID), zap.Error(err))
			return nil, fmt.Errorf("error deleting %s: %w", memberID, err)
		}

		c.mu.Lock()
		kept := c.members[:0:0]
		for _, m := range c.members {
			if m.ID != memberID {
				kept = append(kept, m)
			}
		}
		c.members = kept
		c.mu.Unlock()

		c.logger.Info("member deleted", zap.String("member_id", memberID))
		return nil, nil
	})
	return err
}

// inflightKey identifies an operation on a member together with its inputs, so only
// truly identical requests are joined.
func inflightKey(memberID string, update models.StatusUpdate) string {
	key := "status:" + memberID + ":" + update.Status + ":" + update.StartDate
	if update.FreezeDuration != nil {
		key += ":" + strconv.Itoa(*update.FreezeDuration)
	}
	return key
}

// ActivationDate turns the admin's date input into the timestamp the server expects.
// Blank means now. Plain dates are taken as UTC midnight.
func ActivationDate(input string, now time.Time) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return now.UTC().Format(ISOMillis), nil
	}

	for _, layout := range []string{time.DateOnly, time.RFC3339Nano, "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, input); err == nil {
			return t.UTC().Format(ISOMillis), nil
		}
	}
	return "", fmt.Errorf("%w: %q", models.ErrInvalidDate, input)
}

// ParseFreezeDays reads the freeze duration. Zero and negative values pass through
// to the server; only non-integers are refused.
func ParseFreezeDays(input string) (int, error) {
	days, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", models.ErrInvalidFreezeDuration, input)
	}
	return days, nil
}
