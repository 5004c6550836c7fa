package types

// NavigationItem describes a navigation entry contributed by a module.
type NavigationItem struct {
	Name        string
	Href        string
	AuthzObject string
	AuthzAction string
	Children    []NavigationItem
}
