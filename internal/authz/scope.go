// AngelaMos | 2026
// scope.go

package authz

import (
	"fmt"

	"github.com/carterperez-dev/guardops/internal/core"
)

type scopeKind uint8

const (
	scopeDenied scopeKind = iota
	scopeTenant
	scopeGlobal
)

// Scope is the query-level form of the tenant gate. The zero value denies
// everything. Tenant-scoped repository functions take a Scope and render
// it into their WHERE clause together with the soft-delete filter.
type Scope struct {
	kind     scopeKind
	tenantID string
}

func ScopeFor(p *Principal) Scope {
	switch {
	case p == nil:
		return Scope{}
	case p.Role == RolePlatformOwner:
		return Scope{kind: scopeGlobal}
	case p.TenantID == "" || !p.Role.Valid():
		return Scope{}
	default:
		return Scope{kind: scopeTenant, tenantID: p.TenantID}
	}
}

// Narrow restricts the scope to a single tenant. An empty tenantID keeps
// the scope unchanged. Narrowing to a tenant outside the scope fails with
// core.ErrForbidden.
func (s Scope) Narrow(tenantID string) (Scope, error) {
	if tenantID == "" {
		return s, nil
	}

	switch s.kind {
	case scopeGlobal:
		return Scope{kind: scopeTenant, tenantID: tenantID}, nil
	case scopeTenant:
		if s.tenantID == tenantID {
			return s, nil
		}
	}

	return Scope{}, fmt.Errorf("narrow scope: %w", core.ErrForbidden)
}

func (s Scope) IsGlobal() bool {
	return s.kind == scopeGlobal
}

func (s Scope) IsDenied() bool {
	return s.kind == scopeDenied
}

func (s Scope) TenantID() (string, bool) {
	if s.kind != scopeTenant {
		return "", false
	}
	return s.tenantID, true
}

func (s Scope) Allows(tenantID string) bool {
	switch s.kind {
	case scopeGlobal:
		return true
	case scopeTenant:
		return tenantID != "" && s.tenantID == tenantID
	default:
		return false
	}
}

// Where renders the visibility predicate for a table whose tenant column
// is tenant_id. alias may be empty. argIdx is the next free placeholder
// number; the returned args fill placeholders starting there.
func (s Scope) Where(alias string, argIdx int) (string, []any) {
	return s.WhereColumn(alias, "tenant_id", argIdx)
}

// WhereColumn is Where with an explicit tenant column, for tables such as
// tenants where the row id is the tenant id.
func (s Scope) WhereColumn(
	alias, column string,
	argIdx int,
) (string, []any) {
	prefix := ""
	if alias != "" {
		prefix = alias + "."
	}

	switch s.kind {
	case scopeGlobal:
		return prefix + "deleted_at IS NULL", nil
	case scopeTenant:
		return fmt.Sprintf(
			"%sdeleted_at IS NULL AND %s%s = $%d",
			prefix,
			prefix,
			column,
			argIdx,
		), []any{s.tenantID}
	default:
		return "FALSE", nil
	}
}

func (s Scope) String() string {
	switch s.kind {
	case scopeGlobal:
		return "global"
	case scopeTenant:
		return "tenant:" + s.tenantID
	default:
		return "denied"
	}
}
