package authz

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/workflow"
)

const transitionAction = "transition"

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// CasbinOracle is a policy-engine-backed PermissionOracle. It mirrors the
// static transition role table into casbin policies, so deployments that
// manage permissions as policy data get the same answers as the canonical
// table oracle.
type CasbinOracle struct {
	enforcer *casbin.Enforcer
}

func NewCasbinOracle() (*CasbinOracle, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	for _, status := range workflow.AllStatuses {
		for _, role := range workflow.TransitionRoles(status) {
			if _, err := enforcer.AddPolicy(string(role), string(status), transitionAction); err != nil {
				return nil, err
			}
		}
	}
	return &CasbinOracle{enforcer: enforcer}, nil
}

func (o *CasbinOracle) Allows(role workflow.Role, target workflow.Status) bool {
	ok, err := o.enforcer.Enforce(string(role), string(target), transitionAction)
	if err != nil {
		return false
	}
	return ok
}
