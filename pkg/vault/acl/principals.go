package acl

import (
	"context"
	"slices"

	"github.com/vaultden/vaultden/internal/logger"
)

// Resolver expands an authenticated identity into the full set of principals
// grants can match: the user id, the email, static group memberships from
// the store, and dynamic group memberships from the external directory.
//
// Resolution never fails the request. When a membership source is
// unavailable the resolver degrades to the identifiers it already has and
// logs a warning; the caller then simply matches fewer grants.
type Resolver struct {
	store     Store
	directory Directory
	metrics   *Metrics
}

// NewResolver creates a principal resolver. directory may be nil.
func NewResolver(store Store, directory Directory, metrics *Metrics) *Resolver {
	return &Resolver{store: store, directory: directory, metrics: metrics}
}

// Resolve derives the principal set for an identity. Emails are matched
// case-insensitively; group ids from both sources are deduplicated.
func (r *Resolver) Resolve(ctx context.Context, id Identity) PrincipalSet {
	ps := PrincipalSet{
		UserID: id.Sub,
		Email:  normalizeEmail(id.Email),
		Roles:  id.Roles,
	}

	// Static memberships are keyed by either the user id or the email.
	keys := make([]string, 0, 2)
	if ps.UserID != "" {
		keys = append(keys, ps.UserID)
	}
	if ps.Email != "" {
		keys = append(keys, ps.Email)
	}

	if len(keys) > 0 {
		groupIDs, err := r.store.ListGroupIDsByMember(ctx, keys)
		if err != nil {
			logger.WarnCtx(ctx, "static group lookup failed, continuing without static groups",
				"user_id", ps.UserID, "error", err)
			r.metrics.ObserveResolverDegraded("store")
		} else {
			ps.GroupIDs = append(ps.GroupIDs, groupIDs...)
		}
	}

	if r.directory != nil && ps.Email != "" {
		groupIDs, err := r.directory.GroupsForEmail(ctx, ps.Email)
		if err != nil {
			logger.WarnCtx(ctx, "directory group lookup failed, continuing without directory groups",
				"email", ps.Email, "error", err)
			r.metrics.ObserveResolverDegraded("directory")
		} else {
			ps.GroupIDs = append(ps.GroupIDs, groupIDs...)
		}
	}

	ps.GroupIDs = dedupe(ps.GroupIDs)
	return ps
}

func dedupe(values []string) []string {
	if len(values) < 2 {
		return values
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
