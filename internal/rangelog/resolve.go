// SPDX-License-Identifier: AGPL-3.0-or-later

package rangelog

import (
	"context"
	"fmt"

	"github.com/bartekus/gitlog/internal/vcs"
)

// refRules are tried in order after an exact match, the same short-name
// expansion git applies on the command line.
var refRules = []string{
	"refs/%s",
	"refs/tags/%s",
	"refs/heads/%s",
	"refs/remotes/%s",
	"refs/remotes/%s/HEAD",
}

// resolver turns endpoints into object identifiers. The reference table is
// fetched at most once, and only if some endpoint is not a full identifier.
type resolver struct {
	repo vcs.Repository
	refs map[string]vcs.ObjectID
}

func (r *resolver) resolve(ctx context.Context, endpoint string) (vcs.ObjectID, error) {
	// A 40-character hex string is taken as-is; the object may not exist.
	if len(endpoint) == vcs.ObjectIDHexSize {
		if id, err := vcs.ParseObjectID(endpoint); err == nil {
			return id, nil
		}
	}

	if r.refs == nil {
		refs, err := r.repo.AllRefs(ctx)
		if err != nil {
			return vcs.ObjectID{}, err
		}
		if refs == nil {
			refs = map[string]vcs.ObjectID{}
		}
		r.refs = refs
	}

	if id, ok := lookupRef(r.refs, endpoint); ok {
		return id, nil
	}
	return vcs.ObjectID{}, &ResolutionError{Endpoint: endpoint}
}

func lookupRef(refs map[string]vcs.ObjectID, name string) (vcs.ObjectID, bool) {
	if id, ok := refs[name]; ok {
		return id, true
	}
	for _, rule := range refRules {
		if id, ok := refs[fmt.Sprintf(rule, name)]; ok {
			return id, true
		}
	}
	return vcs.ObjectID{}, false
}
