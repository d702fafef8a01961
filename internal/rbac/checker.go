package rbac

import "strings"

// Resource is the part before the colon.
func (p Permission) Resource() string {
	res, _, _ := strings.Cut(string(p), ":")
	return res
}

type grants struct {
	all       bool
	exact     map[Permission]struct{}
	resources map[string]struct{}
}

// Checker answers permission questions for a fixed policy. The policy is
// indexed once, so Has never scans grant lists.
type Checker struct {
	roles map[string]grants
}

// NewChecker indexes rp, or RolePermissions when rp is nil.
func NewChecker(rp map[string][]Permission) *Checker {
	if rp == nil {
		rp = RolePermissions
	}
	c := &Checker{roles: make(map[string]grants, len(rp))}
	for role, perms := range rp {
		g := grants{exact: map[Permission]struct{}{}, resources: map[string]struct{}{}}
		for _, p := range perms {
			switch {
			case p == PermAll:
				g.all = true
			case strings.HasSuffix(string(p), ":*"):
				g.resources[p.Resource()] = struct{}{}
			default:
				g.exact[p] = struct{}{}
			}
		}
		c.roles[role] = g
	}
	return c
}

func (c *Checker) Has(role string, p Permission) bool {
	g, ok := c.roles[role]
	if !ok {
		return false
	}
	if g.all {
		return true
	}
	if _, ok := g.exact[p]; ok {
		return true
	}
	_, ok = g.resources[p.Resource()]
	return ok
}
