package casebooking

import (
	"github.com/transmedic-it-sg/tm-case-booking/pkg/types"
)

var CasesLink = types.NavigationItem{
	Name:        "Cases",
	Href:        "/api/cases",
	AuthzObject: "casebooking.cases",
	AuthzAction: "view",
	Children:    nil,
}

var NavItems = []types.NavigationItem{
	CasesLink,
}
