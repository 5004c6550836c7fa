package workflow

// PermissionOracle answers whether a role may move a case into a target
// status. The engine treats it as an opaque predicate.
type PermissionOracle interface {
	Allows(role Role, target Status) bool
}

// transitionRoles is the static role allow-list per target status. An edge
// is permitted when the actor's role appears in the target's list.
var transitionRoles = map[Status][]Role{
	StatusOrderPreparation:        {RoleOperations, RoleOperationsManager, RoleAdmin},
	StatusOrderPrepared:           {RoleOperations, RoleOperationsManager, RoleAdmin},
	StatusSalesApproval:           {RoleSalesManager, RoleAdmin},
	StatusPendingDeliveryHospital: {RoleDriver, RoleAdmin},
	StatusDeliveredHospital:       {RoleDriver, RoleAdmin},
	StatusCaseCompleted:           {RoleSales, RoleSalesManager, RoleAdmin},
	StatusPendingDeliveryOffice:   {RoleSales, RoleSalesManager, RoleDriver, RoleAdmin},
	StatusDeliveredOffice:         {RoleDriver, RoleAdmin},
	StatusToBeBilled:              {RoleOperations, RoleOperationsManager, RoleAdmin},
	StatusCaseClosed:              {RoleOperationsManager, RoleAdmin},
	StatusCaseCancelled:           {RoleOperations, RoleOperationsManager, RoleSalesManager, RoleAdmin},
}

// TableOracle is the canonical PermissionOracle, backed by the static
// transition role table.
type TableOracle struct {
	allow map[Status][]Role
}

func NewTableOracle() *TableOracle {
	return &TableOracle{allow: transitionRoles}
}

func (o *TableOracle) Allows(role Role, target Status) bool {
	for _, allowed := range o.allow[target] {
		if allowed == role {
			return true
		}
	}
	return false
}

// TransitionRoles exposes the allow-list for a target status, for policy
// mirrors and presentation code.
func TransitionRoles(target Status) []Role {
	roles := transitionRoles[target]
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}
